/*
Package handler provides the HTTP handlers, WebSocket transport, and routing setup
for the coordination server.

This file defines the main Router, applying middleware like logging, CORS, and
IP-based rate limiting before delegating requests to the health endpoint, static
asset serving, and the WebSocket handler.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"codesync/internal/pkg/limiter"
	"codesync/internal/pkg/logx"
	"codesync/internal/pkg/resp"
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It configures CORS and the WebSocket origin check, applies global middleware,
// and wires the health, static asset, and WebSocket routes.
func Router(deps *AppDeps) http.Handler {
	connLimiter := limiter.NewIPRateLimiter(rate.Limit(deps.Config.ConnRate), deps.Config.ConnBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]any{
			"status":      "ok",
			"service":     "CodeSync Server",
			"connections": deps.Registry.Len(),
		}
		resp.RespondSuccess(w, r, data)
	})

	r.Get("/ws", HandleWebSocket(wsUpgrader, connLimiter, deps))

	if deps.Config.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(deps.Config.StaticDir))
		r.Handle("/*", fileServer)
	}

	return r
}
