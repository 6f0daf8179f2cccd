/*
Package session contains the core logic of the coordination hub.

This file defines the Hub, which owns the PresenceStore and implements the
join/leave protocol and the broadcast routing engine. A single mutex
serializes every read-mutate-roster sequence; deliveries happen after the
target roster is captured under the lock.
*/
package session

import (
	"sync"

	"github.com/rs/zerolog"

	"codesync/internal/app/user"
	"codesync/internal/pkg/errs"
	"codesync/internal/pkg/logx"
)

// Emitter delivers one outbound event to one connection. It is implemented
// by the transport layer and is assumed non-blocking: a slow or vanished
// recipient must never stall the hub.
type Emitter interface {
	Emit(socketID string, event Event, payload Payload)
}

// Hub is the session registry and broadcast-routing engine. All state is
// volatile; nothing survives the process.
type Hub struct {
	// mu serializes all access to the store. Join's uniqueness check and
	// insert run as one atomic unit under this lock.
	mu sync.Mutex

	// store is the authoritative table of joined connections.
	store *PresenceStore

	// emitter routes outbound events back through the transport layer.
	emitter Emitter

	// structured logger with Hub context.
	logger zerolog.Logger
}

// NewHub constructs a Hub wired to the given transport emitter.
func NewHub(emitter Emitter) *Hub {
	hubLogger := logx.Logger().With().Str("component", "Hub").Logger()

	return &Hub{
		store:   NewPresenceStore(),
		emitter: emitter,
		logger:  hubLogger,
	}
}

// Join handles a request-join event. Under the lock it checks per-room
// username uniqueness and inserts the new user as one atomic unit. On a
// name collision the joiner alone is told username-already-taken and no
// state changes. On success the rest of the room receives
// new-user-connected and the joiner receives accept-join with the full
// roster, itself included.
func (h *Hub) Join(socketID, roomID, username string) {
	h.mu.Lock()

	if h.store.UsernameInRoom(roomID, username) {
		h.mu.Unlock()

		h.logger.Info().
			Str("room_id", roomID).
			Str("username", username).
			Str("socket_id", socketID).
			Int("code", errs.ErrUsernameTaken).
			Msg("Join rejected: username already taken.")

		h.emitter.Emit(socketID, EventUsernameTaken, Payload{})
		return
	}

	joiner := user.User{
		SocketID: socketID,
		Username: username,
		RoomID:   roomID,
		Status:   user.StatusOnline,
	}

	if err := h.store.Insert(joiner); err != nil {
		h.mu.Unlock()

		// Should be unreachable given transport id guarantees. Reject the
		// insert rather than overwrite; the connection is not torn down here.
		h.logger.Error().
			Str("socket_id", socketID).
			Int("code", errs.ErrDuplicateConnection).
			Msg("Join rejected: duplicate connection id.")
		return
	}

	roster := h.store.UsersInRoom(roomID)
	h.mu.Unlock()

	delivered := 0
	for _, member := range roster {
		if member.SocketID == socketID {
			continue
		}
		h.emitter.Emit(member.SocketID, EventNewUserConnected, Payload{"user": joiner})
		delivered++
	}

	h.emitter.Emit(socketID, EventAcceptJoin, Payload{"user": joiner, "users": roster})

	h.logger.Info().
		Str("room_id", roomID).
		Str("username", username).
		Str("socket_id", socketID).
		Int("room_size", len(roster)).
		Int("notified", delivered).
		Msg("User joined room.")
}

// Disconnect handles the transport-level disconnect notification, delivered
// exactly once per connection. A connection that never joined is a silent
// no-op. The roster for the user-left broadcast is captured while the
// departing user is still indexed; removal happens strictly after.
func (h *Hub) Disconnect(socketID string) {
	h.mu.Lock()

	departing, ok := h.store.Find(socketID)
	if !ok {
		h.mu.Unlock()
		return
	}

	roster := h.store.UsersInRoom(departing.RoomID)
	h.store.Remove(socketID)
	h.mu.Unlock()

	delivered := 0
	for _, member := range roster {
		if member.SocketID == socketID {
			continue
		}
		h.emitter.Emit(member.SocketID, EventUserLeft, Payload{"user": departing})
		delivered++
	}

	h.logger.Info().
		Str("room_id", departing.RoomID).
		Str("username", departing.Username).
		Str("socket_id", socketID).
		Int("notified", delivered).
		Msg("User disconnected from room.")
}

// Users returns the current roster of the given room.
func (h *Hub) Users(roomID string) []user.User {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.store.UsersInRoom(roomID)
}

// observe is the uniform observability hook invoked after every dispatched
// event, decoupled from the handler logic itself.
func (h *Hub) observe(event Event, sender, roomID string, delivered int) {
	h.logger.Debug().
		Str("event", string(event)).
		Str("sender", sender).
		Str("room_id", roomID).
		Int("delivered", delivered).
		Msg("Event dispatched.")
}

// observeDrop records a room-scoped event that was dropped because its
// sender belongs to no room. This arises naturally from event/disconnect
// races and is an expected outcome, never surfaced to any client.
func (h *Hub) observeDrop(event Event, sender string) {
	h.logger.Debug().
		Str("event", string(event)).
		Str("sender", sender).
		Int("code", errs.ErrUnknownRoom).
		Msg("Event dropped: sender has no room.")
}
