/*
Package session contains the core logic of the coordination hub.

This file defines the event dispatch table: one declarative rule per inbound
event kind describing the optional presence mutation, the fan-out mode, the
outbound event kind, and the payload shape. Dispatch itself is a single
generic path; adding an event kind is a data change, not a control-flow one.
*/
package session

import (
	"codesync/internal/app/user"
	"codesync/internal/pkg/errs"
	"codesync/internal/pkg/randx"
)

// fanout selects how an outbound event is routed.
type fanout int

const (
	// fanoutRoom delivers to every member of the subject's room except the
	// sender. If the subject belongs to no room the event is dropped.
	fanoutRoom fanout = iota

	// fanoutDirect delivers to exactly one socket named by the payload,
	// regardless of room.
	fanoutDirect
)

// rule describes how one inbound event kind is handled.
type rule struct {
	// handle, when set, takes over the whole event (used by the join
	// protocol). All other fields are ignored.
	handle func(h *Hub, sender string, p Payload)

	// subjectKey names the payload key holding the socket id whose user
	// record is mutated and whose room scopes the broadcast. Empty means
	// the sender itself.
	subjectKey string

	// mutate is applied to the subject's user record before routing, under
	// the hub lock. A missing subject makes it a no-op.
	mutate func(u *user.User, p Payload)

	// fan is the fan-out mode.
	fan fanout

	// targetKey names the payload key holding the destination socket id
	// for fanoutDirect.
	targetKey string

	// outbound overrides the outbound event kind. Empty echoes the
	// inbound kind.
	outbound Event

	// transform derives the outbound payload from the subject's (post-
	// mutation) record and the inbound payload. Nil passes the inbound
	// payload through verbatim.
	transform func(subject user.User, p Payload) Payload
}

// userPayload wraps the subject's record as the outbound payload.
func userPayload(subject user.User, _ Payload) Payload {
	return Payload{"user": subject}
}

// dispatchTable maps every inbound event kind to its handling rule.
var dispatchTable = map[Event]rule{
	// Session lifecycle.
	EventRequestJoin: {handle: handleRequestJoin},

	EventSetUserOnline: {
		subjectKey: "socketId",
		mutate:     func(u *user.User, _ Payload) { u.Status = user.StatusOnline },
		fan:        fanoutRoom,
	},
	EventSetUserOffline: {
		subjectKey: "socketId",
		mutate:     func(u *user.User, _ Payload) { u.Status = user.StatusOffline },
		fan:        fanoutRoom,
	},

	// File system: one reconnecting client asks a peer for the current
	// state; the reply is routed directly to the requester named in the
	// payload, with the routing key stripped.
	EventUpdateFileSystem: {
		fan:       fanoutDirect,
		targetKey: "socketId",
		transform: func(_ user.User, p Payload) Payload { return p.without("socketId") },
	},

	// Structural edits are relayed verbatim to the rest of the room. The
	// hub trusts clients to exchange already-reconciled content.
	EventCreateFolder: {fan: fanoutRoom},
	EventModifyFolder: {fan: fanoutRoom},
	EventRenameFolder: {fan: fanoutRoom},
	EventDeleteFolder: {fan: fanoutRoom},
	EventCreateFile:   {fan: fanoutRoom},
	EventUpdateFile:   {fan: fanoutRoom},
	EventRenameFile:   {fan: fanoutRoom},
	EventRemoveFile:   {fan: fanoutRoom},

	// Chat.
	EventSendChatMessage: {fan: fanoutRoom, outbound: EventReceiveChatMessage},

	EventStartTyping: {
		mutate: func(u *user.User, p Payload) {
			u.Typing = true
			u.CursorPosition = p.Int("cursorPosition")
		},
		fan:       fanoutRoom,
		transform: userPayload,
	},
	EventPauseTyping: {
		mutate:    func(u *user.User, _ Payload) { u.Typing = false },
		fan:       fanoutRoom,
		transform: userPayload,
	},

	// Drawing. init-drawing announces the sender to the room with a
	// synthetic payload; sync-sketch answers one requester directly.
	EventInitDrawing: {
		fan: fanoutRoom,
		transform: func(subject user.User, _ Payload) Payload {
			return Payload{"socketId": subject.SocketID}
		},
	},
	EventSyncSketch: {
		fan:       fanoutDirect,
		targetKey: "socketId",
		transform: func(_ user.User, p Payload) Payload {
			return Payload{"drawingData": p["drawingData"]}
		},
	},
	EventUpdateSketch: {fan: fanoutRoom},
}

// handleRequestJoin validates the join parameters and hands off to the
// session protocol.
func handleRequestJoin(h *Hub, sender string, p Payload) {
	roomID := p.Str("roomId")
	username := p.Str("username")

	if !randx.IsValidRoomID(roomID) || !randx.IsValidUsername(username) {
		h.logger.Warn().
			Str("socket_id", sender).
			Str("room_id", roomID).
			Int("code", errs.ErrInvalidParams).
			Msg("Join request dropped: invalid room id or username.")
		return
	}

	h.Join(sender, roomID, username)
}

// Dispatch routes one inbound event from the transport layer. Every handler
// follows the same template: resolve the rule, mutate presence if required,
// capture the target roster under the lock, then fan out. Failed lookups
// degrade to a logged no-op, never an error to the client.
func (h *Hub) Dispatch(sender string, event Event, p Payload) {
	r, ok := dispatchTable[event]
	if !ok {
		h.logger.Warn().
			Str("event", string(event)).
			Str("sender", sender).
			Msg("Unknown event kind dropped.")
		return
	}

	if p == nil {
		p = Payload{}
	}

	if r.handle != nil {
		r.handle(h, sender, p)
		return
	}

	outEvent := event
	if r.outbound != "" {
		outEvent = r.outbound
	}

	subject := sender
	if r.subjectKey != "" {
		if id := p.Str(r.subjectKey); id != "" {
			subject = id
		}
	}

	var (
		targets     []string
		roomID      string
		subjectUser user.User
	)

	h.mu.Lock()

	if r.mutate != nil {
		h.store.Update(subject, func(u *user.User) { r.mutate(u, p) })
	}

	switch r.fan {
	case fanoutDirect:
		target := p.Str(r.targetKey)
		if target == "" {
			h.mu.Unlock()
			h.logger.Debug().
				Str("event", string(event)).
				Str("sender", sender).
				Int("code", errs.ErrInvalidParams).
				Msg("Direct event dropped: missing target socket id.")
			return
		}
		targets = append(targets, target)

	case fanoutRoom:
		u, found := h.store.Find(subject)
		if !found {
			h.mu.Unlock()
			h.observeDrop(event, sender)
			return
		}
		subjectUser = u
		roomID = u.RoomID
		for _, member := range h.store.UsersInRoom(roomID) {
			if member.SocketID == sender {
				continue
			}
			targets = append(targets, member.SocketID)
		}
	}

	h.mu.Unlock()

	outPayload := p
	if r.transform != nil {
		outPayload = r.transform(subjectUser, p)
	}

	for _, target := range targets {
		h.emitter.Emit(target, outEvent, outPayload)
	}

	h.observe(event, sender, roomID, len(targets))
}
