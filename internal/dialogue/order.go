package dialogue

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/tempizhere/gipervygoda/internal/models"
	"github.com/tempizhere/gipervygoda/internal/pricing"
)

// OrderState представляет состояние диалога оформления заявки
type OrderState int

const (
	OrderStateProduct OrderState = iota
	OrderStateLink
	OrderStateCity
	OrderStateContact
	OrderStateDone
)

// Источники цены в заявке
const (
	PriceSourceAuto   = "auto"
	PriceSourceManual = "manual"
)

var urlPattern = regexp.MustCompile(`(?i)^https?://`)

// OrderDialogue реализует конечный автомат оформления заявки:
// товар -> ссылка (или ручная цена) -> город -> контакт
type OrderDialogue struct {
	state               OrderState
	awaitingManualPrice bool
	userID              int64
	username            string
	product             string
	productURL          string
	knownPrice          int
	priceSource         string
	city                string
}

// NewOrderDialogue создаёт новый диалог оформления заявки
func NewOrderDialogue(userID int64, username string) *OrderDialogue {
	return &OrderDialogue{
		state:    OrderStateProduct,
		userID:   userID,
		username: username,
	}
}

// State возвращает текущее состояние диалога
func (d *OrderDialogue) State() OrderState {
	return d.state
}

// AwaitingManualPrice сообщает, ожидается ли ручной ввод цены
func (d *OrderDialogue) AwaitingManualPrice() bool {
	return d.awaitingManualPrice
}

// Start возвращает приглашение первого шага
func (d *OrderDialogue) Start() Reply {
	return Reply{Text: "🎯 <b>Отлично! Давайте найдем товар дешевле!</b>\n\n" +
		"📝 <b>Шаг 1 из 4:</b>\n" +
		"Напишите <b>точное название товара</b> (модель, артикул).\n" +
		"Пример: <i>Телевизор Samsung QE55Q70BAUXRU</i>"}
}

// Advance обрабатывает входящее событие и возвращает результат шага
func (d *OrderDialogue) Advance(in Input) Result {
	switch d.state {
	case OrderStateProduct:
		return d.advanceProduct(in)
	case OrderStateLink:
		if d.awaitingManualPrice {
			return d.advanceManualPrice(in)
		}
		return d.advanceLink(in)
	case OrderStateCity:
		return d.advanceCity(in)
	case OrderStateContact:
		return d.advanceContact(in)
	default:
		return Result{Done: true}
	}
}

func (d *OrderDialogue) advanceProduct(in Input) Result {
	product := strings.TrimSpace(in.Text)
	if utf8.RuneCountInString(product) < 3 {
		return reply("❌ <b>Название товара слишком короткое.</b>\n" +
			"Пожалуйста, укажите полное название товара:")
	}
	d.product = product
	d.state = OrderStateLink
	return reply("🔗 <b>Шаг 2 из 4:</b>\n" +
		"Пришлите <b>ссылку на товар</b> из магазина.\n\n" +
		"<i>Поддерживаемые магазины:</i>\n" +
		"• Wildberries\n• Ozon\n• Яндекс.Маркет\n• Ситилинк\n• ДНС\n• MVideo\n• и другие\n\n" +
		"<b>Пример:</b>\n<code>https://www.wildberries.ru/catalog/12345678/detail.aspx</code>\n\n" +
		"<i>По ссылке я проверю актуальную цену.</i>")
}

func (d *OrderDialogue) advanceLink(in Input) Result {
	rawURL := strings.TrimSpace(in.Text)
	if !urlPattern.MatchString(rawURL) {
		return reply("❌ <b>Это не похоже на ссылку.</b>\n" +
			"Пожалуйста, пришлите полную ссылку на товар, начинающуюся с http:// или https://\n" +
			"<i>Пример: https://www.wildberries.ru/catalog/12345678/detail.aspx</i>")
	}
	d.productURL = rawURL

	if price, ok := pricing.ExtractFromURL(rawURL); ok {
		d.knownPrice = price
		d.priceSource = PriceSourceAuto
		d.state = OrderStateCity
		return reply(fmt.Sprintf("✅ <b>Цена определена автоматически:</b> %s ₽\n\n"+
			"<i>Если цена неверна, вы сможете исправить её на следующем шаге.</i>\n\n"+
			"🏙️ <b>Шаг 3 из 4:</b>\n"+
			"В каком <b>городе</b> вы находитесь?\n"+
			"Это нужно для поиска местных предложений.", pricing.Format(price)))
	}

	d.awaitingManualPrice = true
	d.priceSource = PriceSourceManual
	return reply("📝 <b>Шаг 2.1 из 4:</b>\n" +
		"Пожалуйста, введите цену товара <b>вручную</b> (только цифры):\n" +
		"<i>Пример: 70000</i>\n\n" +
		"<b>Укажите ту цену, которую вы видите на сайте по вашей ссылке.</b>")
}

func (d *OrderDialogue) advanceManualPrice(in Input) Result {
	price, err := pricing.ParseManual(in.Text)
	switch {
	case errors.Is(err, pricing.ErrPriceTooLow):
		return reply(fmt.Sprintf("❌ <b>Цена слишком низкая.</b>\n"+
			"Минимальная сумма для поиска - %d ₽.\n"+
			"Введите корректную цену:", pricing.MinPrice))
	case errors.Is(err, pricing.ErrPriceTooHigh):
		return reply(fmt.Sprintf("❌ <b>Цена слишком высокая.</b>\n"+
			"Максимальная сумма для поиска - %s ₽.\n"+
			"Введите корректную цену:", pricing.Format(pricing.MaxPrice)))
	case err != nil:
		return reply("❌ <b>Некорректный формат цены.</b>\n" +
			"Введите только цифры (например: 70000):")
	}

	d.knownPrice = price
	d.awaitingManualPrice = false
	d.state = OrderStateCity
	return reply(fmt.Sprintf("✅ <b>Цена сохранена:</b> %s ₽\n\n"+
		"🏙️ <b>Шаг 3 из 4:</b>\n"+
		"В каком <b>городе</b> вы находитесь?\n"+
		"<i>Пример: Москва, Санкт-Петербург, Казань</i>", pricing.Format(price)))
}

func (d *OrderDialogue) advanceCity(in Input) Result {
	city := strings.TrimSpace(in.Text)
	if utf8.RuneCountInString(city) < 2 {
		return reply("❌ <b>Название города слишком короткое.</b>\n" +
			"Пожалуйста, укажите корректное название города:")
	}
	d.city = city
	d.state = OrderStateContact
	return Result{Replies: []Reply{{
		Text: "📞 <b>Шаг 4 из 4:</b>\n" +
			"Нажмите кнопку ниже, чтобы отправить ваш контакт,\n" +
			"или напишите ваш Telegram username/номер.\n\n" +
			"<i>Это нужно для связи по вашей заявке.</i>",
		RequestContact: true,
	}}}
}

func (d *OrderDialogue) advanceContact(in Input) Result {
	contact := in.Contact
	if contact == "" {
		contact = strings.TrimSpace(in.Text)
	}
	if contact == "" {
		return reply("❌ <b>Контакт не может быть пустым.</b>\n" +
			"Пожалуйста, укажите ваш username или номер телефона:")
	}

	// Защитная проверка: все обязательные поля должны быть собраны
	if d.product == "" || d.productURL == "" || d.knownPrice == 0 || d.city == "" {
		d.state = OrderStateDone
		return Result{
			Done:    true,
			Aborted: true,
			Replies: []Reply{{
				Text: "❌ <b>Произошла ошибка при обработке заявки.</b>\n" +
					"Пожалуйста, начните заново с команды /order",
				RemoveKeyboard: true,
			}},
		}
	}

	d.state = OrderStateDone
	return Result{
		Done: true,
		Request: &models.Request{
			UserID:      d.userID,
			Username:    d.username,
			Product:     d.product,
			ProductURL:  d.productURL,
			KnownPrice:  d.knownPrice,
			City:        d.city,
			Contact:     contact,
			PriceSource: d.priceSource,
		},
	}
}

func reply(text string) Result {
	return Result{Replies: []Reply{{Text: text}}}
}
