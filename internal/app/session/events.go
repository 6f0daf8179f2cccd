/*
Package session contains the core logic of the coordination hub: the presence
store and room index, the join/leave protocol, and the broadcast routing engine
that fans structured events out among the participants of a room.

This file defines the event catalogue and the schemaless payload type shared
by the transport layer and the dispatch table. Event names match the client
wire protocol exactly.
*/
package session

// Event identifies a wire event kind.
type Event string

// User connection and session lifecycle.
const (
	EventRequestJoin      Event = "request-join"
	EventAcceptJoin       Event = "accept-join"
	EventNewUserConnected Event = "new-user-connected"
	EventUserLeft         Event = "user-left"
	EventUsernameTaken    Event = "username-already-taken"
	EventSetUserOnline    Event = "set-user-online"
	EventSetUserOffline   Event = "set-user-offline"
)

// File system operations.
const (
	EventUpdateFileSystem Event = "update-file-system"
	EventCreateFolder     Event = "create-folder"
	EventModifyFolder     Event = "modify-folder"
	EventRenameFolder     Event = "rename-folder"
	EventDeleteFolder     Event = "delete-folder"
	EventCreateFile       Event = "create-file"
	EventUpdateFile       Event = "update-file"
	EventRenameFile       Event = "rename-file"
	EventRemoveFile       Event = "remove-file"
)

// Chat and typing state.
const (
	EventSendChatMessage    Event = "send-chat-message"
	EventReceiveChatMessage Event = "receive-chat-message"
	EventStartTyping        Event = "start-typing"
	EventPauseTyping        Event = "pause-typing"
)

// Freehand drawing.
const (
	EventInitDrawing  Event = "init-drawing"
	EventSyncSketch   Event = "sync-sketch"
	EventUpdateSketch Event = "update-sketch"
)

// Payload is the schemaless body of an event. The hub relays most payloads
// verbatim; it only inspects the few keys named by the dispatch table.
type Payload map[string]any

// Str returns the string value stored under key, or "" if the key is absent
// or holds a non-string value.
func (p Payload) Str(key string) string {
	s, _ := p[key].(string)
	return s
}

// Int returns the numeric value stored under key as an int. JSON numbers
// decode as float64, so both forms are accepted.
func (p Payload) Int(key string) int {
	switch v := p[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

// without returns a copy of the payload with the given key removed. Used when
// a routing key must not be echoed back to the recipient.
func (p Payload) without(key string) Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		if k == key {
			continue
		}
		out[k] = v
	}
	return out
}
