package limiter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/time/rate"

	"chatavatars/internal/pkg/errs"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestGetLimiter_OneBucketPerIP(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)

	a := l.GetLimiter("198.51.100.1")
	assert.Same(t, a, l.GetLimiter("198.51.100.1"))
	assert.NotSame(t, a, l.GetLimiter("198.51.100.2"))
	assert.Equal(t, 2, l.Len())
}

func TestMiddleware_RejectsOverBurst(t *testing.T) {
	l := NewIPRateLimiter(rate.Every(time.Hour), 2)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	serve := func(remote string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/ws/overlay", nil)
		r.RemoteAddr = remote
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		return w
	}

	assert.Equal(t, http.StatusNoContent, serve("203.0.113.9:1000").Code)
	assert.Equal(t, http.StatusNoContent, serve("203.0.113.9:1001").Code)

	w := serve("203.0.113.9:1002")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	var body struct {
		Code int `json:"code"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, errs.ErrRateLimitExceeded, body.Code)

	assert.Equal(t, http.StatusNoContent, serve("203.0.113.10:1000").Code, "other clients keep their own bucket")
}

func TestSweep_RemovesOnlyIdleBuckets(t *testing.T) {
	l := NewIPRateLimiter(rate.Every(time.Hour), 1)

	l.GetLimiter("idle")
	require.True(t, l.GetLimiter("busy").Allow())

	assert.Equal(t, 1, l.Sweep(time.Now()))
	assert.Equal(t, 1, l.Len())
}

func TestRun_StopsWithContext(t *testing.T) {
	l := NewIPRateLimiter(rate.Limit(1), 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
