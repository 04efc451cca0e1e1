package bot

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tempizhere/gipervygoda/internal/models"
)

func TestTruncate(t *testing.T) {
	// Тест 1: Короткая строка не обрезается
	assert.Equal(t, "короткий текст", truncate("короткий текст", 300))

	// Тест 2: Длинная строка обрезается по рунам, а не байтам
	long := strings.Repeat("я", 400)
	got := truncate(long, 300)
	assert.Equal(t, 303, len([]rune(got)))
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Equal(t, strings.Repeat("я", 300), strings.TrimSuffix(got, "..."))

	// Тест 3: Граница ровно limit
	assert.Equal(t, "abc", truncate("abc", 3))
}

func TestStars(t *testing.T) {
	assert.Equal(t, "⭐⭐⭐⭐⭐", stars(5))
	assert.Equal(t, "⭐", stars(1))
	assert.Equal(t, "", stars(0))
}

func TestDisplayUsername(t *testing.T) {
	assert.Equal(t, "testuser", displayUsername("testuser"))
	assert.Equal(t, "без username", displayUsername(""))
}

func TestChannelMessageURL(t *testing.T) {
	// Тест 1: Канал по имени
	assert.Equal(t, "https://t.me/gipervygoda/123", channelMessageURL("@gipervygoda", 123))

	// Тест 2: Числовой ID канала
	assert.Equal(t, "https://t.me/c/1234567890/123", channelMessageURL("-1001234567890", 123))
}

func TestFormatMyRequests(t *testing.T) {
	// Тест 1: Пустой список
	got := formatMyRequests(nil, 0.4)
	assert.Contains(t, got, "нет заявок")
	assert.Contains(t, got, "/order")

	// Тест 2: Заявка с найденной ценой показывает производные поля
	foundPrice, economy, commission := 57000, 13000, 5200
	requests := []models.Request{{
		ID:         1,
		Product:    "Phone X",
		KnownPrice: 70000,
		Status:     models.RequestStatusCompleted,
		FoundPrice: &foundPrice,
		Economy:    &economy,
		Commission: &commission,
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}}
	got = formatMyRequests(requests, 0.4)
	assert.Contains(t, got, "Заявка #1")
	assert.Contains(t, got, "70 000")
	assert.Contains(t, got, "57 000")
	assert.Contains(t, got, "13 000")
	assert.Contains(t, got, "5 200")
	assert.Contains(t, got, "Комиссия (40%)")
	assert.Contains(t, got, "2025-06-01 12:00:00")

	// Тест 3: Показываются только последние 5 заявок
	var many []models.Request
	for i := 1; i <= 7; i++ {
		many = append(many, models.Request{ID: i, Product: "Item", KnownPrice: 1000, Status: models.RequestStatusNew, CreatedAt: time.Now()})
	}
	got = formatMyRequests(many, 0.4)
	assert.NotContains(t, got, "Заявка #2")
	assert.Contains(t, got, "Заявка #3")
	assert.Contains(t, got, "Заявка #7")
}

func TestFormatModerationNotice(t *testing.T) {
	rev := models.Review{
		ID:         5,
		Username:   "",
		ReviewText: strings.Repeat("о", 400),
		Rating:     4,
		CreatedAt:  time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	got := formatModerationNotice(rev)

	// Превью текста обрезано до 300 символов
	assert.Contains(t, got, strings.Repeat("о", 300)+"...")
	assert.NotContains(t, got, strings.Repeat("о", 301))
	assert.Contains(t, got, "без username")
	assert.Contains(t, got, "⭐⭐⭐⭐")
	assert.Contains(t, got, "НОВЫЙ ОТЗЫВ #5")
}

func TestFormatStats(t *testing.T) {
	stats := models.Stats{
		TotalRequests:     10,
		NewRequests:       3,
		CompletedRequests: 5,
		TotalEconomy:      130000,
		TotalCommission:   52000,
		TotalReviews:      4,
		PendingReviews:    1,
		ApprovedReviews:   2,
		AverageRating:     4.5,
	}
	got := formatStats(stats)
	assert.Contains(t, got, "Всего: 10")
	assert.Contains(t, got, "130 000")
	assert.Contains(t, got, "52 000")
	assert.Contains(t, got, "4.5/5.0")
}

func TestFormatWelcome(t *testing.T) {
	got := formatWelcome("Иван", 0.4)
	assert.Contains(t, got, "Иван")
	assert.Contains(t, got, "40% от сэкономленной суммы")
	assert.Contains(t, got, "/order")
}
