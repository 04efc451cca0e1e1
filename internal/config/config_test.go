package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		BotToken:        "123456:ABC-DEF",
		AdminID:         42,
		ChannelID:       "@gipervygoda",
		CommissionRate:  DefaultCommissionRate,
		MinReviewLength: DefaultMinReviewLength,
		MaxReviewLength: DefaultMaxReviewLength,
	}
}

func TestConfigValidate(t *testing.T) {
	// Тест 1: Корректная конфигурация проходит валидацию
	assert.NoError(t, validConfig().validate())

	// Тест 2: Пустой токен
	cfg := validConfig()
	cfg.BotToken = ""
	assert.Error(t, cfg.validate())

	// Тест 3: Токен без двоеточия
	cfg = validConfig()
	cfg.BotToken = "not-a-token"
	assert.Error(t, cfg.validate())

	// Тест 4: Не задан оператор
	cfg = validConfig()
	cfg.AdminID = 0
	assert.Error(t, cfg.validate())

	// Тест 5: Не задан канал
	cfg = validConfig()
	cfg.ChannelID = ""
	assert.Error(t, cfg.validate())

	// Тест 6: Некорректные границы длины отзыва
	cfg = validConfig()
	cfg.MinReviewLength = 100
	cfg.MaxReviewLength = 10
	assert.Error(t, cfg.validate())
}

func TestCommissionRate(t *testing.T) {
	// Тест 1: Корректная ставка принимается
	rate, ok := commissionRate("0.25")
	assert.True(t, ok)
	assert.Equal(t, 0.25, rate)

	// Тест 2: Ставка вне [0.01, 0.99] откатывается к значению по умолчанию
	rate, ok = commissionRate("1.5")
	assert.False(t, ok)
	assert.Equal(t, DefaultCommissionRate, rate)

	rate, ok = commissionRate("0")
	assert.False(t, ok)
	assert.Equal(t, DefaultCommissionRate, rate)

	// Тест 3: Нечисловая ставка откатывается к значению по умолчанию
	rate, ok = commissionRate("half")
	assert.False(t, ok)
	assert.Equal(t, DefaultCommissionRate, rate)
}

func TestFirstNonEmpty(t *testing.T) {
	assert.Equal(t, "a", firstNonEmpty("a", "b"))
	assert.Equal(t, "b", firstNonEmpty("", "b"))
	assert.Equal(t, "", firstNonEmpty("", ""))
}

func TestIntEnv(t *testing.T) {
	// Тест 1: Заданная переменная окружения
	t.Setenv("TEST_INT_ENV", "25")
	assert.Equal(t, 25, intEnv("TEST_INT_ENV", 10))

	// Тест 2: Незаданная переменная возвращает значение по умолчанию
	assert.Equal(t, 10, intEnv("TEST_INT_ENV_MISSING", 10))

	// Тест 3: Нечисловое и неположительное значения откатываются к умолчанию
	t.Setenv("TEST_INT_ENV", "abc")
	assert.Equal(t, 10, intEnv("TEST_INT_ENV", 10))
	t.Setenv("TEST_INT_ENV", "-5")
	assert.Equal(t, 10, intEnv("TEST_INT_ENV", 10))
}
