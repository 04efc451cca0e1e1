package middleware

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// statusWriter оборачивает http.ResponseWriter для отслеживания кода ответа
type statusWriter struct {
	http.ResponseWriter
	status int
}

// WriteHeader перехватывает код статуса
func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Logging создаёт middleware для логирования HTTP-запросов админского API
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			logger.Info("HTTP request",
				zap.String("method", r.Method),
				zap.String("uri", r.RequestURI),
				zap.Int("status", sw.status),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
