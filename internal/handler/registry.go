/*
Package handler provides the HTTP handlers, WebSocket transport, and routing setup
for the coordination server.

This file defines the Registry, the table of live WebSocket connections keyed by
socket id. It implements the session hub's Emitter interface, routing outbound
events to the right connection's send queue.
*/
package handler

import (
	"sync"

	"github.com/rs/zerolog"

	"codesync/internal/app/session"
	"codesync/internal/pkg/errs"
	"codesync/internal/pkg/logx"
)

// Registry tracks every live connection, joined or not. A connection is
// registered at upgrade time, before any join, and removed during disconnect
// cleanup.
type Registry struct {
	// mu protects concurrent access to the clients map.
	mu sync.RWMutex

	// clients maps socket id to the active connection.
	clients map[string]*Client

	// structured logger with Registry context.
	logger zerolog.Logger
}

// NewRegistry constructs an empty connection registry.
func NewRegistry() *Registry {
	registryLogger := logx.Logger().With().Str("component", "Registry").Logger()

	return &Registry{
		clients: make(map[string]*Client),
		logger:  registryLogger,
	}
}

// add registers a connection under its socket id.
func (r *Registry) add(c *Client) {
	r.mu.Lock()
	r.clients[c.socketID] = c
	r.mu.Unlock()
}

// remove deregisters the connection, but only if the stored entry is the
// same client. Socket ids are unique per live connection, so a mismatch
// means the entry already belongs to a newer connection.
func (r *Registry) remove(socketID string, c *Client) {
	r.mu.Lock()
	if current, ok := r.clients[socketID]; ok && current == c {
		delete(r.clients, socketID)
	}
	r.mu.Unlock()
}

// Len returns the number of live connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.clients)
}

// Emit implements session.Emitter. Delivery is best effort: an unknown
// recipient (already disconnected) is a logged no-op, and a full send queue
// drops the message rather than blocking the hub.
func (r *Registry) Emit(socketID string, event session.Event, payload session.Payload) {
	r.mu.RLock()
	c, ok := r.clients[socketID]
	r.mu.RUnlock()

	if !ok {
		r.logger.Debug().
			Str("socket_id", socketID).
			Str("event", string(event)).
			Int("code", errs.ErrUnknownConnection).
			Msg("Outbound event dropped: recipient gone.")
		return
	}

	c.enqueue(envelope{Event: event, Payload: payload})
}

// CloseAll closes the send queue of every registered connection, letting
// each WritePump send a close frame and exit. Used during graceful shutdown.
// Live ReadPumps may still dispatch while this runs; closeSend's guard
// turns their late deliveries into drops.
func (r *Registry) CloseAll() {
	r.mu.Lock()
	defer r.mu.Unlock()

	closed := 0
	for socketID, c := range r.clients {
		c.closeSend()
		delete(r.clients, socketID)
		closed++
	}

	r.logger.Info().Int("connections", closed).Msg("All client connections closed.")
}
