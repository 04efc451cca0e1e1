package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/tempizhere/gipervygoda/internal/app"
	"github.com/tempizhere/gipervygoda/internal/bot"
	"github.com/tempizhere/gipervygoda/internal/config"
	"github.com/tempizhere/gipervygoda/internal/log"
	"github.com/tempizhere/gipervygoda/internal/repository"
	"github.com/tempizhere/gipervygoda/internal/service"
	"github.com/tempizhere/gipervygoda/internal/session"
	"go.uber.org/zap"
)

func main() {
	logger := log.NewLogger(os.Getenv("LOG_LEVEL"))
	defer func() { _ = logger.Sync() }()

	// Без корректной конфигурации бот не запускается
	cfg, err := config.NewConfig()
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}
	for _, warning := range cfg.Warnings {
		logger.Warn(warning)
	}

	db, err := app.NewDB(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	var requests repository.RequestRepository
	var reviews repository.ReviewRepository
	if db != nil {
		defer func() { _ = db.Close() }()
		requests = repository.NewPostgresRequestRepository(db, cfg.CommissionRate, logger)
		reviews = repository.NewPostgresReviewRepository(db, logger)
	} else {
		fileRequests, err := repository.NewFileRequestRepository(cfg.RequestsFile, cfg.CommissionRate, logger)
		if err != nil {
			logger.Fatal("Failed to open requests storage", zap.Error(err))
		}
		fileReviews, err := repository.NewFileReviewRepository(cfg.ReviewsFile, logger)
		if err != nil {
			logger.Fatal("Failed to open reviews storage", zap.Error(err))
		}
		requests = fileRequests
		reviews = fileReviews
	}

	svc := service.NewService(requests, reviews, cfg, logger)
	sessions := session.NewManager()

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		logger.Fatal("Failed to connect to Telegram", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Служебный HTTP API опционален и включается адресом в конфигурации
	if cfg.RunAddr != "" {
		appInstance := app.NewApp(svc, db, logger)
		srv := &http.Server{Addr: cfg.RunAddr, Handler: appInstance.Router()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Admin API server failed", zap.Error(err))
			}
		}()
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
	}

	b := bot.New(api, svc, sessions, cfg, logger)
	if err := b.Run(ctx); err != nil {
		logger.Fatal("Bot stopped with error", zap.Error(err))
	}
}
