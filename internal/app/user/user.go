/*
Package user contains the core data structures for session participants.

It defines the User struct, the in-memory record kept for every connection
that has joined a room, used both internally and in WebSocket payloads sent
to clients.
*/
package user

// Connection status values as they appear on the wire.
const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// User represents one joined connection and its collaboration state.
// Fields use JSON tags for serialization in WebSocket messages.
type User struct {

	// SocketID is the opaque connection identifier assigned by the
	// transport layer at upgrade time. Unique across all users.
	SocketID string `json:"socketId"`

	// Username is the display name, unique within a room but not globally.
	Username string `json:"username"`

	// RoomID identifies the room the user belongs to. Set once at join,
	// never changed without leaving.
	RoomID string `json:"roomId"`

	// Status is the connection status (StatusOnline or StatusOffline).
	Status string `json:"status"`

	// Typing reports whether the user is currently typing, independent of Status.
	Typing bool `json:"typing"`

	// CursorPosition is the last reported cursor offset.
	CursorPosition int `json:"cursorPosition"`

	// CurrentFile is the id of the file the user is currently viewing, if any.
	CurrentFile *string `json:"currentFile"`
}
