/*
Package randx provides functions for generating unique identifiers.

It is primarily used to assign opaque socket ids to WebSocket connections
at upgrade time.
*/
package randx

import "github.com/google/uuid"

const (
	// MaxRoomIDLength is the maximum accepted length for a client-supplied room id.
	MaxRoomIDLength = 64

	// MaxUsernameLength is the maximum accepted length for a display name.
	MaxUsernameLength = 64
)

// SocketID generates a standard UUID v4 string to serve as a unique
// connection identifier. Ids are not reused while a connection is alive.
func SocketID() string {
	return uuid.New().String()
}

// IsValidRoomID checks if the given string is acceptable as a room id:
// non-empty and within the length limit. Room ids are otherwise opaque.
func IsValidRoomID(id string) bool {
	return id != "" && len(id) <= MaxRoomIDLength
}

// IsValidUsername checks if the given string is acceptable as a display name.
func IsValidUsername(name string) bool {
	return name != "" && len(name) <= MaxUsernameLength
}
