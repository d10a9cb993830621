/*
Package errs provides custom error types and application-level error code constants.

These error codes identify the failures the control API and the overlay endpoint can report
to operators and overlay pages.
*/
package errs

// 1xxx: General Request Handling Errors
const (
	// ErrInvalidParams indicates that request parameter validation failed.
	ErrInvalidParams = 1001

	// ErrUnsupportedMediaType indicates that the request header Content-Type is not supported.
	ErrUnsupportedMediaType = 1002

	// ErrInvalidJSONFormat indicates that the request body JSON format is incorrect (e.g., syntax error).
	ErrInvalidJSONFormat = 1003

	// ErrExtraContentInBody indicates that the request body contained extra content after valid JSON data.
	ErrExtraContentInBody = 1004

	// ErrRequestEntityTooLarge indicates that the request body size exceeded the server limit.
	ErrRequestEntityTooLarge = 1006

	// ErrRateLimitExceeded indicates that the request rate has exceeded the set limit.
	ErrRateLimitExceeded = 1007
)

// 2xxx: Avatar Control Errors
const (
	// ErrInvalidState indicates a state other than "idle" or "walking".
	ErrInvalidState = 2101

	// ErrInvalidDuration indicates a walk duration or autonomous option outside its accepted range.
	ErrInvalidDuration = 2102

	// ErrAvatarNotFound indicates that the named user has no avatar yet.
	ErrAvatarNotFound = 2103

	// ErrInvalidUsername indicates an empty or oversized username.
	ErrInvalidUsername = 2104
)

// 3xxx: Session and Security Errors
const (
	// ErrUnauthorized indicates a missing or invalid operator token.
	ErrUnauthorized = 3001

	// ErrOriginNotAllowed indicates an overlay connection from an origin outside ALLOWED_ORIGINS.
	ErrOriginNotAllowed = 3002
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
