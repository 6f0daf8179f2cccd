/*
Package errs provides custom error types and application-level error code constants.

These error codes are used to clearly identify specific business or system errors
both internally within the server and in communication with clients.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrInvalidEventPayload indicates that an inbound WebSocket event carried
	// a payload that could not be parsed.
	ErrInvalidEventPayload = 1002

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1003
)

// 2xxx: Session and Room Business Logic Errors
const (
	// ErrUsernameTaken indicates that the requested username is already in
	// use by another member of the target room.
	ErrUsernameTaken = 2101

	// ErrUnknownRoom indicates that a room-scoped event arrived from a
	// connection that belongs to no room. Internal, never surfaced to clients.
	ErrUnknownRoom = 2102

	// ErrUnknownConnection indicates that an event referenced a socket id
	// with no presence record. Internal, never surfaced to clients.
	ErrUnknownConnection = 2103

	// ErrDuplicateConnection indicates that a presence insert was attempted
	// for a socket id that is already registered. Defensive invariant check.
	ErrDuplicateConnection = 2104
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
