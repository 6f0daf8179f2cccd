/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to standardize
HTTP responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the user message and HTTP status code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:       {Code: ErrInvalidParams, Message: "Invalid request parameters."},
	ErrInvalidEventPayload: {Code: ErrInvalidEventPayload, Message: "Invalid event payload."},
	ErrRateLimitExceeded:   {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Session and Room Business Logic Errors
	ErrUsernameTaken:       {Code: ErrUsernameTaken, Message: "Username is already taken in this room."},
	ErrUnknownRoom:         {Code: ErrUnknownRoom, Message: "Connection belongs to no room."},
	ErrUnknownConnection:   {Code: ErrUnknownConnection, Message: "Unknown connection."},
	ErrDuplicateConnection: {Code: ErrDuplicateConnection, Message: "Connection id is already registered."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
