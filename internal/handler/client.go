/*
Package handler provides the HTTP handlers, WebSocket transport, and routing setup
for the coordination server.

This file defines the Client struct, representing an active WebSocket connection.
It manages the connection's lifecycle, the read/write message loops (ReadPump and
WritePump), and the hand-off of inbound events to the session hub.
*/
package handler

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"codesync/internal/app/session"
	"codesync/internal/pkg/errs"
	"codesync/internal/pkg/logx"
)

const (
	// timeout duration for writing to the WebSocket connection.
	writeWait = 10 * time.Second

	// maximum time allowed for the server to wait for a Pong message from the client.
	pongWait = 60 * time.Second

	// frequency at which the server sends a Ping message.
	pingPeriod = (pongWait * 9) / 10

	// maximum allowed size (in bytes) of a message sent by the client.
	// File contents and drawing snapshots are relayed through the hub, so
	// the limit is generous.
	maxMessageSize = 8 << 20

	// sendQueueSize is the per-connection outbound buffer. Delivery is best
	// effort: a full queue drops the message rather than stalling the hub.
	sendQueueSize = 256
)

// envelope is the wire framing of every inbound and outbound unit: an event
// kind plus a JSON payload.
type envelope struct {
	Event   session.Event   `json:"event"`
	Payload session.Payload `json:"payload,omitempty"`
}

// Client represents an active WebSocket connection identified by its socket id.
type Client struct {
	// socketID is the opaque connection identifier assigned at upgrade time.
	socketID string

	// underlying WebSocket connection object.
	conn *websocket.Conn

	// hub receives every inbound event and the disconnect notification.
	hub *session.Hub

	// registry tracks the connection for outbound routing.
	registry *Registry

	// a buffered channel used to queue messages waiting to be sent to the client.
	send chan []byte

	// mu guards closed. The send channel is closed exactly once, through
	// closeSend; enqueue checks closed under the same mutex, so a late
	// delivery can never hit a closed channel.
	mu     sync.Mutex
	closed bool

	// structured logger with client context.
	logger zerolog.Logger
}

// NewClient constructs and returns a new Client instance.
func NewClient(socketID string, wsConn *websocket.Conn, hub *session.Hub, registry *Registry) *Client {
	clientLogger := logx.Logger().With().
		Str("socket_id", socketID).
		Logger()

	return &Client{
		socketID: socketID,
		conn:     wsConn,
		hub:      hub,
		registry: registry,
		send:     make(chan []byte, sendQueueSize),
		logger:   clientLogger,
	}
}

// ReadPump handles reading messages from the WebSocket connection.
// It handles heartbeats (Pong), envelope parsing, and performs cleanup upon
// connection closure. Events are dispatched in arrival order, so the
// disconnect notification is ordered after everything the connection sent.
func (c *Client) ReadPump() {
	defer c.cleanupOnDisconnect()

	c.conn.SetReadLimit(maxMessageSize)

	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set read deadline")
		return
	}

	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, messageBytes, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Info().Err(err).Msg("Error reading message (Client close/going away)")
			}
			break
		}

		c.processInboundMessage(messageBytes)
	}
}

// cleanupOnDisconnect handles the necessary cleanup steps when the client's
// ReadPump terminates. The hub is notified before the connection is removed
// from the registry, so the user-left broadcast still sees the departing
// member's room.
func (c *Client) cleanupOnDisconnect() {
	c.logger.Info().Msg("Client connection cleanup starting.")

	c.hub.Disconnect(c.socketID)
	c.registry.remove(c.socketID, c)

	// wake the WritePump immediately so it sends a close frame and exits
	c.closeSend()

	if err := c.conn.Close(); err != nil {
		c.logger.Error().Err(err).Msg("Client connection close error")
	}
}

// closeSend closes the send channel exactly once. Safe to call from any
// goroutine and idempotent; after it returns, enqueue reports a drop
// instead of touching the channel.
func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// processInboundMessage parses a raw frame into an envelope and hands it to
// the hub. Malformed frames are logged and dropped.
func (c *Client) processInboundMessage(messageBytes []byte) {
	var inbound envelope

	if err := json.Unmarshal(messageBytes, &inbound); err != nil {
		c.logger.Warn().Err(err).Int("code", errs.ErrInvalidEventPayload).Msg("Client sent invalid JSON")
		return
	}

	if inbound.Event == "" {
		c.logger.Warn().Int("code", errs.ErrInvalidEventPayload).Msg("Client sent frame without event kind")
		return
	}

	c.hub.Dispatch(c.socketID, inbound.Event, inbound.Payload)
}

// enqueue marshals an outbound envelope and queues it for delivery without
// blocking. Returns false when the message was dropped.
func (c *Client) enqueue(env envelope) bool {
	messageBytes, err := json.Marshal(env)
	if err != nil {
		c.logger.Error().Err(err).Str("event", string(env.Event)).Msg("Error marshaling outbound event")
		return false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		c.logger.Debug().
			Str("event", string(env.Event)).
			Msg("Client send channel closed, dropping message")
		return false
	}

	select {
	case c.send <- messageBytes:
		return true
	default:
		c.logger.Warn().
			Str("event", string(env.Event)).
			Int("queue_len", len(c.send)).
			Msg("Client send channel full, dropping message")
		return false
	}
}

// WritePump handles writing messages from the Client.send channel to the
// WebSocket connection, interleaved with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)

	defer func() {
		ticker.Stop()

		// ensure the connection is closed on exit
		if err := c.conn.Close(); err != nil {
			c.logger.Error().Err(err).Msg("Client connection close error in WritePump")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !c.writeQueuedMessage(message, ok) {
				return
			}

		case <-ticker.C:
			if !c.writePingMessage() {
				return
			}
		}
	}
}

// writeQueuedMessage handles messages pulled from the send channel, writing them to the WebSocket.
// Returns true if the WritePump loop should continue, false if it should terminate.
func (c *Client) writeQueuedMessage(message []byte, ok bool) bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline")
		return false
	}

	if !ok {
		if err := c.conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
			c.logger.Error().Err(err).Msg("Error writing close message")
		}
		return false
	}

	if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
		c.logger.Error().Err(err).Msg("Error writing message")
		return false
	}

	return true
}

// writePingMessage sends a periodic WebSocket Ping message to maintain the connection heartbeat.
// Returns false if the WritePump loop should terminate due to write failure.
func (c *Client) writePingMessage() bool {
	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		c.logger.Error().Err(err).Msg("Failed to set write deadline on ping")
		return false
	}

	if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
		c.logger.Error().Err(err).Msg("Error writing ping")
		return false
	}

	return true
}
