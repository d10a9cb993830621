package logx

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnonymizeIP(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"203.0.113.57:4242", "203.0.113.0"},
		{"198.51.100.7", "198.51.100.0"},
		{"127.0.0.1:80", "127.0.0.1"},
		{"[2001:db8:85a3::8a2e:370:7334]:443", "2001:db8:85a3::"},
		{"not-an-ip", "unknown_ip"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, anonymizeIP(tt.in), tt.in)
	}
}

func TestInitGlobalLogger_Levels(t *testing.T) {
	var buf bytes.Buffer

	InitGlobalLogger(Options{Out: &buf})
	Debug("hidden")
	Info("shown", "username", "alice")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"username":"alice"`)

	buf.Reset()
	InitGlobalLogger(Options{Debug: true, Out: &buf})
	Debug("transition")
	assert.Contains(t, buf.String(), "transition")
}

func TestCheckFields_OddCountIsDropped(t *testing.T) {
	var buf bytes.Buffer
	InitGlobalLogger(Options{Out: &buf})

	Info("odd", "lonely")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], "odd number of fields")
	assert.NotContains(t, lines[1], "lonely")
}

func TestRequestLogger_QuietPathsLogAtDebug(t *testing.T) {
	var buf bytes.Buffer
	InitGlobalLogger(Options{Out: &buf})

	handler := RequestLogger()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Empty(t, buf.String())

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/avatars", nil))
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "http", entry["component"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
}
