// Package app содержит служебный HTTP API: health-проверку и статистику
// бота в JSON для внутреннего мониторинга.
package app

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/tempizhere/gipervygoda/internal/middleware"
	"github.com/tempizhere/gipervygoda/internal/repository"
	"github.com/tempizhere/gipervygoda/internal/service"
	"go.uber.org/zap"
)

// App содержит хендлеры служебного API и их зависимости
type App struct {
	svc    *service.Service
	db     repository.Database
	logger *zap.Logger
}

// NewApp создаёт новое приложение служебного API
func NewApp(svc *service.Service, db repository.Database, logger *zap.Logger) *App {
	return &App{svc: svc, db: db, logger: logger}
}

// Router создаёт маршрутизатор служебного API
func (a *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logging(a.logger))
	r.Get("/healthz", a.HandleHealth)
	r.Get("/api/stats", a.HandleStats)
	return r
}

// HandleHealth обрабатывает GET-запросы на "/healthz".
// При использовании базы данных дополнительно проверяет соединение с ней.
func (a *App) HandleHealth(w http.ResponseWriter, r *http.Request) {
	if a.db != nil {
		if err := a.db.Ping(); err != nil {
			http.Error(w, "database unavailable", http.StatusInternalServerError)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		a.logger.Error("Failed to write response", zap.Error(err))
	}
}

// HandleStats обрабатывает GET-запросы на "/api/stats"
func (a *App) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.svc.Statistics()
	if err != nil {
		a.logger.Error("Failed to compute statistics", zap.Error(err))
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(stats); err != nil {
		a.logger.Error("Failed to encode statistics", zap.Error(err))
	}
}
