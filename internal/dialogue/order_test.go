package dialogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderDialogue_ProductValidation(t *testing.T) {
	d := NewOrderDialogue(42, "testuser")

	// Тест 1: Слишком короткое название не продвигает диалог
	res := d.Advance(Input{Text: "ТВ"})
	assert.False(t, res.Done)
	assert.Equal(t, OrderStateProduct, d.State())
	require.Len(t, res.Replies, 1)
	assert.Contains(t, res.Replies[0].Text, "слишком короткое")

	// Тест 2: Пробелы вокруг не считаются длиной
	res = d.Advance(Input{Text: "   aб   "})
	assert.Equal(t, OrderStateProduct, d.State())

	// Тест 3: Корректное название продвигает к шагу ссылки
	res = d.Advance(Input{Text: "Телевизор Samsung QE55Q70BAUXRU"})
	assert.False(t, res.Done)
	assert.Equal(t, OrderStateLink, d.State())
}

func TestOrderDialogue_LinkValidation(t *testing.T) {
	d := NewOrderDialogue(42, "testuser")
	d.Advance(Input{Text: "Phone X"})

	// Тест 1: Текст без ссылки не меняет состояние
	res := d.Advance(Input{Text: "просто текст"})
	assert.Equal(t, OrderStateLink, d.State())
	assert.False(t, d.AwaitingManualPrice())
	require.Len(t, res.Replies, 1)
	assert.Contains(t, res.Replies[0].Text, "не похоже на ссылку")

	// Тест 2: Ссылка с автоматически извлекаемой ценой продвигает к городу
	d.Advance(Input{Text: "https://www.wildberries.ru/x?price=5000"})
	assert.Equal(t, OrderStateCity, d.State())
	assert.Equal(t, 5000, d.knownPrice)
	assert.Equal(t, PriceSourceAuto, d.priceSource)
}

func TestOrderDialogue_ManualPrice(t *testing.T) {
	d := NewOrderDialogue(42, "testuser")
	d.Advance(Input{Text: "Phone X"})

	// Неизвестный магазин переводит в режим ручного ввода цены
	res := d.Advance(Input{Text: "https://example.com/item"})
	assert.Equal(t, OrderStateLink, d.State())
	assert.True(t, d.AwaitingManualPrice())
	require.Len(t, res.Replies, 1)
	assert.Contains(t, res.Replies[0].Text, "вручную")

	// Тест 1: Цена ниже минимума отклоняется
	res = d.Advance(Input{Text: "99"})
	assert.True(t, d.AwaitingManualPrice())
	assert.Contains(t, res.Replies[0].Text, "слишком низкая")

	// Тест 2: Цена выше максимума отклоняется
	res = d.Advance(Input{Text: "10000001"})
	assert.True(t, d.AwaitingManualPrice())
	assert.Contains(t, res.Replies[0].Text, "слишком высокая")

	// Тест 3: Нечисловой ввод отклоняется
	res = d.Advance(Input{Text: "дорого"})
	assert.True(t, d.AwaitingManualPrice())
	assert.Contains(t, res.Replies[0].Text, "Некорректный формат")

	// Тест 4: Корректная цена продвигает к городу
	d.Advance(Input{Text: "70000"})
	assert.Equal(t, OrderStateCity, d.State())
	assert.False(t, d.AwaitingManualPrice())
	assert.Equal(t, 70000, d.knownPrice)
	assert.Equal(t, PriceSourceManual, d.priceSource)
}

func TestOrderDialogue_CityValidation(t *testing.T) {
	d := NewOrderDialogue(42, "testuser")
	d.Advance(Input{Text: "Phone X"})
	d.Advance(Input{Text: "https://www.ozon.ru/x?price=5000"})

	// Тест 1: Слишком короткий город отклоняется
	d.Advance(Input{Text: "М"})
	assert.Equal(t, OrderStateCity, d.State())

	// Тест 2: Корректный город продвигает к контакту с кнопкой контакта
	res := d.Advance(Input{Text: "Москва"})
	assert.Equal(t, OrderStateContact, d.State())
	require.Len(t, res.Replies, 1)
	assert.True(t, res.Replies[0].RequestContact)
}

func TestOrderDialogue_EndToEnd(t *testing.T) {
	d := NewOrderDialogue(42, "testuser")

	d.Advance(Input{Text: "Phone X"})
	// Домен не распознан, запрашивается ручная цена
	d.Advance(Input{Text: "https://shop.example.org/phone-x"})
	assert.True(t, d.AwaitingManualPrice())
	d.Advance(Input{Text: "70000"})
	d.Advance(Input{Text: "Moscow"})

	// Тест 1: Пустой контакт отклоняется
	res := d.Advance(Input{Text: "   "})
	assert.False(t, res.Done)
	assert.Equal(t, OrderStateContact, d.State())

	// Тест 2: Контакт завершает диалог с черновиком заявки
	res = d.Advance(Input{Text: "+1234567890"})
	assert.True(t, res.Done)
	assert.False(t, res.Aborted)
	require.NotNil(t, res.Request)
	assert.Equal(t, int64(42), res.Request.UserID)
	assert.Equal(t, "testuser", res.Request.Username)
	assert.Equal(t, "Phone X", res.Request.Product)
	assert.Equal(t, "https://shop.example.org/phone-x", res.Request.ProductURL)
	assert.Equal(t, 70000, res.Request.KnownPrice)
	assert.Equal(t, "Moscow", res.Request.City)
	assert.Equal(t, "+1234567890", res.Request.Contact)
	assert.Equal(t, PriceSourceManual, res.Request.PriceSource)
}

func TestOrderDialogue_ContactAttachment(t *testing.T) {
	d := NewOrderDialogue(42, "")
	d.Advance(Input{Text: "Phone X"})
	d.Advance(Input{Text: "https://www.wildberries.ru/x?price=5000"})
	d.Advance(Input{Text: "Казань"})

	// Вложение-контакт имеет приоритет над текстом
	res := d.Advance(Input{Contact: "+79001234567", Text: "ignored"})
	assert.True(t, res.Done)
	require.NotNil(t, res.Request)
	assert.Equal(t, "+79001234567", res.Request.Contact)
}

func TestOrderDialogue_AbortOnInconsistentState(t *testing.T) {
	// Несогласованное транзиентное состояние: контакт получен, но
	// обязательные поля не заполнены
	d := &OrderDialogue{state: OrderStateContact, userID: 42}

	res := d.Advance(Input{Text: "+1234567890"})
	assert.True(t, res.Done)
	assert.True(t, res.Aborted)
	assert.Nil(t, res.Request)
	require.Len(t, res.Replies, 1)
	assert.Contains(t, res.Replies[0].Text, "/order")
	assert.True(t, res.Replies[0].RemoveKeyboard)
}
