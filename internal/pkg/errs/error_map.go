/*
Package errs provides custom error types and application-level error code constants.

This file maps every error code to its CustomError template: the operator-facing message and the
HTTP status the control API answers with.
*/
package errs

import "net/http"

// errorMap stores the CustomError template for every application error code.
var errorMap = map[int]CustomError{
	// 1xxx: General Request Handling Errors
	ErrInvalidParams:         {Code: ErrInvalidParams, Message: "Invalid request parameters.", Status: http.StatusBadRequest},
	ErrUnsupportedMediaType:  {Code: ErrUnsupportedMediaType, Message: "Unsupported request format.", Status: http.StatusUnsupportedMediaType},
	ErrInvalidJSONFormat:     {Code: ErrInvalidJSONFormat, Message: "Malformed JSON body.", Status: http.StatusBadRequest},
	ErrExtraContentInBody:    {Code: ErrExtraContentInBody, Message: "Request contains unexpected data.", Status: http.StatusBadRequest},
	ErrRequestEntityTooLarge: {Code: ErrRequestEntityTooLarge, Message: "Request size is too large.", Status: http.StatusRequestEntityTooLarge},
	ErrRateLimitExceeded:     {Code: ErrRateLimitExceeded, Message: "Too many requests. Please try again later.", Status: http.StatusTooManyRequests},

	// 2xxx: Avatar Control Errors
	ErrInvalidState:    {Code: ErrInvalidState, Message: "State must be \"idle\" or \"walking\".", Status: http.StatusBadRequest},
	ErrInvalidDuration: {Code: ErrInvalidDuration, Message: "Duration out of range (%s).", Status: http.StatusBadRequest},
	ErrAvatarNotFound:  {Code: ErrAvatarNotFound, Message: "No avatar for user %q.", Status: http.StatusNotFound},
	ErrInvalidUsername: {Code: ErrInvalidUsername, Message: "Invalid username.", Status: http.StatusBadRequest},

	// 3xxx: Session and Security Errors
	ErrUnauthorized:     {Code: ErrUnauthorized, Message: "A valid operator token is required.", Status: http.StatusUnauthorized},
	ErrOriginNotAllowed: {Code: ErrOriginNotAllowed, Message: "Origin not allowed.", Status: http.StatusForbidden},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
