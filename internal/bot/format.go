package bot

import (
	"fmt"
	"strings"

	"github.com/tempizhere/gipervygoda/internal/models"
	"github.com/tempizhere/gipervygoda/internal/pricing"
)

// Иконки статусов заявки в списке /myrequest
var statusIcons = map[models.RequestStatus]string{
	models.RequestStatusNew:        "🆕",
	models.RequestStatusInProgress: "🔍",
	models.RequestStatusCompleted:  "✅",
	models.RequestStatusCancelled:  "❌",
}

// stars возвращает строку из rating звёзд
func stars(rating int) string {
	return strings.Repeat("⭐", rating)
}

// truncate обрезает строку до limit рун с многоточием
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// displayUsername возвращает username или заглушку для пользователей без него
func displayUsername(username string) string {
	if username == "" {
		return "без username"
	}
	return username
}

// formatWelcome возвращает приветствие команды /start
func formatWelcome(firstName string, rate float64) string {
	percent := int(rate * 100)
	return fmt.Sprintf("🛍 <b>Добро пожаловать в ГиперВыгоду, %s!</b>\n\n"+
		"🤖 <b>Я ваш персональный помощник по поиску товаров дешевле!</b>\n\n"+
		"📌 <b>Как это работает:</b>\n"+
		"1. Вы находите товар и его цену в магазине\n"+
		"2. Я ищу этот же товар дешевле\n"+
		"3. Вы платите мне только <b>%d%% от сэкономленной суммы</b>\n"+
		"4. Вы все равно покупаете дешевле, чем нашли сами!\n\n"+
		"💰 <b>Пример:</b>\n"+
		"• Ваша цена: 70 000 ₽\n"+
		"• Моя цена: 57 000 ₽\n"+
		"• Экономия: 13 000 ₽\n"+
		"• Моя комиссия (%d%%): 5 200 ₽\n"+
		"• <b>Ваш итог: 62 200 ₽ (выгода 7 800 ₽!)</b>\n\n"+
		"🚀 Чтобы начать, нажмите /order\n"+
		"⭐ Оставить отзыв: /review\n"+
		"📋 Мои заявки: /myrequest\n"+
		"ℹ️ Подробнее: /help", firstName, percent, percent)
}

// formatHelp возвращает текст команды /help
func formatHelp() string {
	return "❓ <b>Частые вопросы:</b>\n\n" +
		"<b>1. Как происходит оплата?</b>\n" +
		"Вы платите комиссию только после того, как:\n" +
		"• Я нашел товар дешевле\n" +
		"• Вы подтвердили, что хотите его купить\n" +
		"• Совершили покупку по моей ссылке\n\n" +
		"<b>2. Как оформить заявку?</b>\n" +
		"Используйте /order и укажите:\n" +
		"• Название товара\n" +
		"• Ссылку на товар (Wildberries, Ozon, Яндекс.Маркет и др.)\n" +
		"• Ваш город\n" +
		"• Контакт для связи\n\n" +
		"<b>3. Какие товары можно искать?</b>\n" +
		"Любые: электроника, техника, мебель, одежда, автотовары и т.д.\n\n" +
		"<b>4. Сколько времени занимает поиск?</b>\n" +
		"Обычно 1-24 часа в зависимости от сложности.\n\n" +
		"<b>5. Как оставить отзыв?</b>\n" +
		"Используйте команду /review - ваш отзыв будет отправлен на модерацию.\n\n" +
		"📝 <b>Начать поиск:</b> /order\n" +
		"⭐ <b>Оставить отзыв:</b> /review\n" +
		"📋 <b>Мои заявки:</b> /myrequest"
}

// formatRequestAccepted возвращает подтверждение принятой заявки
func formatRequestAccepted(req models.Request) string {
	return fmt.Sprintf("✅ <b>Заявка #%d принята!</b>\n\n"+
		"📦 <b>Товар:</b> %s\n"+
		"🔗 <b>Ссылка:</b> %s\n"+
		"💰 <b>Ваша цена:</b> %s ₽\n"+
		"🏙️ <b>Город:</b> %s\n"+
		"📞 <b>Контакт:</b> %s\n\n"+
		"🔍 <i>Я начал поиск. Обычно это занимает 1-24 часа.</i>\n\n"+
		"📊 <b>Статус заявки:</b> /myrequest\n"+
		"⭐ <b>После выполнения оставьте отзыв:</b> /review",
		req.ID, req.Product, truncate(req.ProductURL, 50),
		pricing.Format(req.KnownPrice), req.City, req.Contact)
}

// formatRequestNotice возвращает уведомление оператору о новой заявке
func formatRequestNotice(req models.Request) string {
	return fmt.Sprintf("🚨 <b>НОВАЯ ЗАЯВКА #%d</b>\n\n"+
		"👤 <b>Пользователь:</b> @%s\n"+
		"📞 <b>Контакт:</b> %s\n"+
		"📦 <b>Товар:</b> %s\n"+
		"🔗 <b>Ссылка:</b> %s\n"+
		"💰 <b>Цена клиента:</b> %s ₽\n"+
		"🏙️ <b>Город:</b> %s\n"+
		"📊 <b>Источник цены:</b> %s\n\n"+
		"🆔 <b>ID заявки:</b> %d",
		req.ID, displayUsername(req.Username), req.Contact, req.Product,
		req.ProductURL, pricing.Format(req.KnownPrice), req.City,
		req.PriceSource, req.ID)
}

// formatMyRequests возвращает список последних заявок пользователя
func formatMyRequests(requests []models.Request, rate float64) string {
	if len(requests) == 0 {
		return "📭 <b>У вас еще нет заявок.</b>\n\n" +
			"Создайте первую заявку через /order"
	}

	// Показываем последние 5 заявок
	if len(requests) > 5 {
		requests = requests[len(requests)-5:]
	}

	var sb strings.Builder
	sb.WriteString("📋 <b>Ваши заявки:</b>\n\n")
	for _, req := range requests {
		icon, ok := statusIcons[req.Status]
		if !ok {
			icon = "📝"
		}
		sb.WriteString(fmt.Sprintf("%s <b>Заявка #%d</b>\n"+
			"📦 %s\n"+
			"💰 <b>Цена:</b> %s ₽\n"+
			"📊 <b>Статус:</b> %s\n",
			icon, req.ID, truncate(req.Product, 40),
			pricing.Format(req.KnownPrice), req.Status))

		if req.FoundPrice != nil && req.Economy != nil {
			sb.WriteString(fmt.Sprintf("🎯 <b>Найдена цена:</b> %s ₽\n"+
				"💸 <b>Экономия:</b> %s ₽\n",
				pricing.Format(*req.FoundPrice), pricing.Format(*req.Economy)))
			if req.Commission != nil {
				sb.WriteString(fmt.Sprintf("🧾 <b>Комиссия (%d%%):</b> %s ₽\n",
					int(rate*100), pricing.Format(*req.Commission)))
			}
		}
		sb.WriteString(fmt.Sprintf("📅 <b>Создана:</b> %s\n\n",
			req.CreatedAt.Format("2006-01-02 15:04:05")))
	}
	return sb.String()
}

// formatReviewAccepted возвращает подтверждение отправки отзыва на модерацию
func formatReviewAccepted(rev models.Review) string {
	return fmt.Sprintf("✅ <b>Отзыв #%d отправлен на модерацию!</b>\n\n"+
		"📝 <b>Ваш отзыв:</b>\n%s\n\n"+
		"⭐ <b>Оценка:</b> %s\n\n"+
		"<i>После проверки отзыв может быть опубликован в нашем канале.</i>\n"+
		"<i>Спасибо за обратную связь! ❤️</i>",
		rev.ID, rev.ReviewText, stars(rev.Rating))
}

// formatModerationNotice возвращает запрос модерации для оператора,
// текст отзыва обрезается до 300 символов
func formatModerationNotice(rev models.Review) string {
	return fmt.Sprintf("📨 <b>НОВЫЙ ОТЗЫВ #%d</b>\n\n"+
		"👤 <b>Пользователь:</b> @%s\n"+
		"⭐ <b>Оценка:</b> %s\n"+
		"📝 <b>Текст:</b>\n%s\n\n"+
		"📅 <b>Дата:</b> %s\n"+
		"🆔 <b>ID отзыва:</b> %d",
		rev.ID, displayUsername(rev.Username), stars(rev.Rating),
		truncate(rev.ReviewText, 300),
		rev.CreatedAt.Format("2006-01-02 15:04:05"), rev.ID)
}

// formatChannelPost возвращает текст публикации отзыва в канале
func formatChannelPost(rev models.Review) string {
	return fmt.Sprintf("📢 <b>НОВЫЙ ОТЗЫВ</b>\n\n"+
		"⭐ <b>Оценка:</b> %s\n"+
		"📝 <b>Отзыв:</b>\n%s\n\n"+
		"<i>Спасибо за доверие! ❤️</i>",
		stars(rev.Rating), rev.ReviewText)
}

// formatApprovedNotice возвращает ответ оператору после публикации отзыва
func formatApprovedNotice(rev models.Review, messageURL string) string {
	return fmt.Sprintf("✅ <b>Отзыв #%d опубликован в канале!</b>\n\n"+
		"👤 <b>Пользователь:</b> @%s\n"+
		"⭐ <b>Оценка:</b> %s\n"+
		"🔗 <b>Ссылка на пост:</b> %s",
		rev.ID, displayUsername(rev.Username), stars(rev.Rating), messageURL)
}

// formatRejectedNotice возвращает ответ оператору после отклонения отзыва
func formatRejectedNotice(rev models.Review) string {
	return fmt.Sprintf("❌ <b>Отзыв #%d отклонен</b>\n\n"+
		"<i>Отзыв перемещен в архив.</i>", rev.ID)
}

// formatPublishedNotice возвращает уведомление автору опубликованного отзыва
func formatPublishedNotice() string {
	return "🎉 <b>Ваш отзыв опубликован в нашем канале!</b>\n\n" +
		"Спасибо за обратную связь! ❤️\n" +
		"Ваш отзыв помогает другим пользователям доверять нашему сервису."
}

// formatReviewsList возвращает список последних опубликованных отзывов
func formatReviewsList(reviews []models.Review, channelID string) string {
	if len(reviews) == 0 {
		return "📢 <b>Опубликованные отзывы</b>\n\n" +
			"Пока нет опубликованных отзывов.\n" +
			"Будьте первым - оставьте отзыв через /review\n\n" +
			"Все отзывы публикуются в нашем канале."
	}

	var sb strings.Builder
	sb.WriteString("📢 <b>Последние отзывы:</b>\n\n")
	for _, rev := range reviews {
		date := rev.CreatedAt
		if rev.PublishedAt != nil {
			date = *rev.PublishedAt
		}
		sb.WriteString(fmt.Sprintf("%s\n%s\n📅 %s\n\n",
			stars(rev.Rating), truncate(rev.ReviewText, 100),
			date.Format("2006-01-02 15:04:05")))
	}
	sb.WriteString(fmt.Sprintf("<i>Все отзывы в канале: %s</i>\n\n"+
		"⭐ <b>Оставить свой отзыв:</b> /review", channelID))
	return sb.String()
}

// formatStats возвращает статистику для оператора
func formatStats(stats models.Stats) string {
	return fmt.Sprintf("📊 <b>СТАТИСТИКА БОТА</b>\n\n"+
		"📋 <b>Заявки:</b>\n"+
		"• Всего: %d\n"+
		"• Новые: %d\n"+
		"• Выполнено: %d\n"+
		"• Общая экономия: %s ₽\n"+
		"• Общая комиссия: %s ₽\n\n"+
		"⭐ <b>Отзывы:</b>\n"+
		"• Всего: %d\n"+
		"• На модерации: %d\n"+
		"• Опубликовано: %d\n"+
		"• Средний рейтинг: %.1f/5.0\n\n"+
		"🤖 <b>Бот работает стабильно!</b>",
		stats.TotalRequests, stats.NewRequests, stats.CompletedRequests,
		pricing.Format(stats.TotalEconomy), pricing.Format(stats.TotalCommission),
		stats.TotalReviews, stats.PendingReviews, stats.ApprovedReviews,
		stats.AverageRating)
}

// channelMessageURL возвращает ссылку t.me на сообщение в канале
func channelMessageURL(channelID string, messageID int) string {
	if strings.HasPrefix(channelID, "@") {
		return fmt.Sprintf("https://t.me/%s/%d", strings.TrimPrefix(channelID, "@"), messageID)
	}
	// Числовые ID каналов имеют вид -100XXXXXXXXXX
	return fmt.Sprintf("https://t.me/c/%s/%d", strings.TrimPrefix(channelID, "-100"), messageID)
}
