package jwt

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken("mod1", "streamer", secret, time.Hour)
	require.NoError(t, err)

	payload, err := ParseToken(token, secret)
	require.NoError(t, err)
	assert.Equal(t, "mod1", payload.Subject)
	assert.Equal(t, "streamer", payload.Channel)
	assert.Equal(t, RoleOperator, payload.Role)
	assert.Equal(t, TokenIssuer, payload.Issuer)
}

func TestParseToken_Rejects(t *testing.T) {
	expired, err := GenerateToken("mod1", "", secret, -time.Minute)
	require.NoError(t, err)
	_, err = ParseToken(expired, secret)
	assert.Error(t, err, "expired")

	valid, err := GenerateToken("mod1", "", secret, time.Hour)
	require.NoError(t, err)
	_, err = ParseToken(valid, "other-secret")
	assert.Error(t, err, "wrong secret")

	viewer := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, &Payload{
		StandardClaims: jwtlib.StandardClaims{ExpiresAt: time.Now().Add(time.Hour).Unix()},
		Role:           "viewer",
	})
	signed, err := viewer.SignedString([]byte(secret))
	require.NoError(t, err)
	_, err = ParseToken(signed, secret)
	assert.ErrorIs(t, err, ErrWrongRole)
}

func TestRequireOperator(t *testing.T) {
	var seen *Payload
	h := RequireOperator(secret, "Streamer")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetPayloadFromContext(r)
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(auth string) int {
		r := httptest.NewRequest(http.MethodPost, "/api/auto", nil)
		if auth != "" {
			r.Header.Set("Authorization", auth)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w.Code
	}

	assert.Equal(t, http.StatusUnauthorized, serve(""))
	assert.Equal(t, http.StatusUnauthorized, serve("Basic abc"))
	assert.Equal(t, http.StatusUnauthorized, serve("Bearer garbage"))

	other, err := GenerateToken("mod1", "someoneelse", secret, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, serve("Bearer "+other))

	good, err := GenerateToken("mod1", "streamer", secret, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, serve("Bearer "+good))
	require.NotNil(t, seen)
	assert.Equal(t, "mod1", seen.Subject)

	anyChannel, err := GenerateToken("mod2", "", secret, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, serve("Bearer "+anyChannel))
}

func TestRequireOperator_DisabledWithoutSecret(t *testing.T) {
	h := RequireOperator("", "streamer")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Nil(t, GetPayloadFromContext(r))
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/auto", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
}
