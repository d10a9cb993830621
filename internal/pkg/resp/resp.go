/*
Package resp provides helper functions for constructing and sending standardized HTTP JSON responses.

Every control API endpoint answers with the same envelope: a business code, a message, and optional data.
Success and error wrappers keep handlers free of encoding details.
*/
package resp

import (
	"encoding/json"
	"net/http"

	"chatavatars/internal/pkg/errs"
	"chatavatars/internal/pkg/logx"
)

// JSONResponse is the envelope of every control API response.
type JSONResponse struct {
	// Code is 0 on success, otherwise one of the errs codes.
	Code int `json:"code"`

	Message string `json:"message"`

	// Data is the operation result, omitted on errors.
	Data any `json:"data,omitempty"`
}

// Ack is the payload of control operations that only report whether they took effect.
type Ack struct {
	Success bool `json:"success"`
}

// RespondJSON encodes payload with the given status. Encoding happens before any header is
// written, so a payload that cannot be encoded still yields a clean 500.
func RespondJSON(w http.ResponseWriter, r *http.Request, httpStatus int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logx.Error(err, "Error encoding JSON response", "http_status", httpStatus, "path", r.URL.Path)
		http.Error(w, "Error encoding JSON response", http.StatusInternalServerError)
		return
	}

	h := w.Header()
	h.Set("Content-Type", "application/json")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Cache-Control", "no-store")

	w.WriteHeader(httpStatus)
	if _, err := w.Write(body); err != nil {
		logx.Debug("Client went away before the response was written", "error", err.Error())
	}
}

// RespondSuccess sends data with HTTP 200 and code 0.
func RespondSuccess(w http.ResponseWriter, r *http.Request, data any) {
	RespondJSON(w, r, http.StatusOK, JSONResponse{Code: 0, Message: "success", Data: data})
}

// RespondAck sends the standard acknowledgement for a control operation that took effect.
func RespondAck(w http.ResponseWriter, r *http.Request) {
	RespondSuccess(w, r, Ack{Success: true})
}

// RespondError sends customErr with its HTTP status. A nil error is reported as ErrUnknown.
func RespondError(w http.ResponseWriter, r *http.Request, customErr *errs.CustomError) {
	if customErr == nil {
		customErr = errs.NewError(errs.ErrUnknown)
	}

	RespondJSON(w, r, customErr.Status, JSONResponse{Code: customErr.Code, Message: customErr.Message})
}
