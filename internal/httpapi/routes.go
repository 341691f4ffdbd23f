// Package httpapi is a small read-only status API for the local machine.
package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

func SetupRoutes(q QueueSource, s SocketStatus, log *zap.Logger) http.Handler {
	if log == nil {
		log = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(requestLog(log))

	r.Get("/healthz", Healthz)
	r.Get("/queue", GetQueue(q))
	r.Get("/socket", GetSocket(s))
	return r
}

func requestLog(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			log.Debug("request", zap.String("method", r.Method), zap.String("path", r.URL.Path), zap.Int("status", ww.Status()))
		})
	}
}
