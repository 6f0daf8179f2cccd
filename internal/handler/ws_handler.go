/*
Package handler provides the HTTP handlers, WebSocket transport, and routing setup
for the coordination server.

This file contains the HandleWebSocket function, which is responsible for rate
limiting, upgrading the HTTP connection to WebSocket, assigning a socket id, and
initiating the client lifecycle.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"codesync/internal/pkg/errs"
	"codesync/internal/pkg/limiter"
	"codesync/internal/pkg/logx"
	"codesync/internal/pkg/randx"
	"codesync/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection requests.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		socketID := randx.SocketID()
		client := NewClient(socketID, conn, deps.Hub, deps.Registry)

		deps.Registry.add(client)

		go client.WritePump()

		logx.Info("WebSocket connection established", "socket_id", socketID)

		client.ReadPump()
	}
}
