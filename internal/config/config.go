package config

import (
	"errors"
	"flag"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Значения по умолчанию для настроек, не заданных явно
const (
	DefaultCommissionRate      = 0.4
	DefaultMinReviewLength     = 10
	DefaultMaxReviewLength     = 1000
	DefaultRequestTimeoutHours = 24
)

// Config содержит настройки приложения
type Config struct {
	BotToken            string
	AdminID             int64
	ChannelID           string
	CommissionRate      float64
	MinReviewLength     int
	MaxReviewLength     int
	RequestTimeoutHours int
	RequestsFile        string
	ReviewsFile         string
	DatabaseDSN         string
	RunAddr             string
	// Warnings содержит некритичные проблемы конфигурации,
	// которые вызывающий код должен залогировать
	Warnings []string
}

// NewConfig создаёт новый объект Config из .env, переменных окружения и флагов
// командной строки. Переменные окружения имеют приоритет над флагами.
func NewConfig() (*Config, error) {
	// .env опционален, как и в остальных окружениях деплоя
	_ = godotenv.Load()

	cfg := &Config{
		CommissionRate:      DefaultCommissionRate,
		MinReviewLength:     DefaultMinReviewLength,
		MaxReviewLength:     DefaultMaxReviewLength,
		RequestTimeoutHours: DefaultRequestTimeoutHours,
		RequestsFile:        "data/requests.json",
		ReviewsFile:         "data/reviews.json",
		RunAddr:             "",
	}

	flagToken := flag.String("t", "", "telegram bot token")
	flagAdminID := flag.Int64("o", 0, "operator telegram ID")
	flagChannelID := flag.String("c", "@gipervygoda", "channel for approved reviews")
	flagRequestsFile := flag.String("r", "data/requests.json", "path to requests JSON file")
	flagReviewsFile := flag.String("v", "data/reviews.json", "path to reviews JSON file")
	flagDatabaseDSN := flag.String("d", "", "database DSN for PostgreSQL")
	flagRunAddr := flag.String("a", "", "address for admin HTTP API, empty disables it")
	flag.Parse()

	cfg.BotToken = firstNonEmpty(os.Getenv("BOT_TOKEN"), *flagToken)
	cfg.ChannelID = firstNonEmpty(os.Getenv("CHANNEL_ID"), *flagChannelID)
	cfg.RequestsFile = firstNonEmpty(os.Getenv("REQUESTS_FILE"), *flagRequestsFile)
	cfg.ReviewsFile = firstNonEmpty(os.Getenv("REVIEWS_FILE"), *flagReviewsFile)
	cfg.DatabaseDSN = firstNonEmpty(os.Getenv("DATABASE_DSN"), *flagDatabaseDSN)
	cfg.RunAddr = firstNonEmpty(os.Getenv("RUN_ADDR"), *flagRunAddr)

	if adminStr := os.Getenv("ADMIN_ID"); adminStr != "" {
		adminID, err := strconv.ParseInt(adminStr, 10, 64)
		if err != nil {
			return nil, errors.New("ADMIN_ID must be an integer")
		}
		cfg.AdminID = adminID
	} else {
		cfg.AdminID = *flagAdminID
	}

	if rateStr := os.Getenv("COMMISSION_RATE"); rateStr != "" {
		rate, ok := commissionRate(rateStr)
		cfg.CommissionRate = rate
		if !ok {
			cfg.Warnings = append(cfg.Warnings,
				"COMMISSION_RATE is invalid or out of [0.01, 0.99], using default")
		}
	}

	cfg.MinReviewLength = intEnv("MIN_REVIEW_LENGTH", cfg.MinReviewLength)
	cfg.MaxReviewLength = intEnv("MAX_REVIEW_LENGTH", cfg.MaxReviewLength)
	cfg.RequestTimeoutHours = intEnv("REQUEST_TIMEOUT_HOURS", cfg.RequestTimeoutHours)

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Создаём директории для файлов хранилища, если они не существуют
	for _, path := range []string{cfg.RequestsFile, cfg.ReviewsFile} {
		if path == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// validate проверяет обязательные настройки, без которых бот не запускается
func (c *Config) validate() error {
	if c.BotToken == "" {
		return errors.New("BOT_TOKEN is not set")
	}
	if !strings.Contains(c.BotToken, ":") {
		return errors.New("BOT_TOKEN must contain a colon (format: 123456:ABC-DEF)")
	}
	if c.AdminID == 0 {
		return errors.New("ADMIN_ID is not set")
	}
	if c.ChannelID == "" {
		return errors.New("CHANNEL_ID is not set")
	}
	if c.MinReviewLength < 1 || c.MaxReviewLength < c.MinReviewLength {
		return errors.New("invalid review length bounds")
	}
	return nil
}

// commissionRate разбирает ставку комиссии. Некорректная ставка не фатальна:
// возвращается значение по умолчанию и false
func commissionRate(raw string) (float64, bool) {
	rate, err := strconv.ParseFloat(raw, 64)
	if err != nil || rate < 0.01 || rate > 0.99 {
		return DefaultCommissionRate, false
	}
	return rate, true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func intEnv(name string, fallback int) int {
	if s := os.Getenv(name); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
