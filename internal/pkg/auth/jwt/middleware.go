package jwt

import (
	"context"
	"net/http"
	"strings"

	"chatavatars/internal/pkg/errs"
	"chatavatars/internal/pkg/logx"
	"chatavatars/internal/pkg/resp"
)

type contextKey string

const (
	// ContextAuthPayloadKey is the key used to store the parsed operator Payload in the request Context.
	ContextAuthPayloadKey contextKey = "auth_payload"
)

// RequireOperator rejects requests without a valid operator bearer token with 401 Unauthorized.
// Tokens bound to a channel are only accepted when it matches channel.
// An empty secretKey disables the check, which is how development runs without tokens.
func RequireOperator(secretKey, channel string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if secretKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Expected format: "Bearer <token>"
			parts := strings.SplitN(r.Header.Get("Authorization"), " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			payload, err := ParseToken(parts[1], secretKey)
			if err != nil {
				logx.Warn("Rejected operator token", "error", err.Error(), "path", r.URL.Path)
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			if payload.Channel != "" && !strings.EqualFold(payload.Channel, channel) {
				logx.Warn("Operator token is bound to another channel", "token_channel", payload.Channel, "operator", payload.Subject)
				resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
				return
			}

			ctx := context.WithValue(r.Context(), ContextAuthPayloadKey, payload)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetPayloadFromContext extracts the operator Payload stored by RequireOperator.
// It returns nil when the check was disabled.
func GetPayloadFromContext(r *http.Request) *Payload {
	payload, ok := r.Context().Value(ContextAuthPayloadKey).(*Payload)

	if !ok {
		return nil
	}

	return payload
}
