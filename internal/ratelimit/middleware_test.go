package ratelimit

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kokoro-ai/kokoro/internal/model"
)

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("limiter down")
}
func (failingLimiter) Close() error { return nil }

func okHandler() (http.Handler, *int) {
	count := 0
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count++
		w.WriteHeader(http.StatusOK)
	}), &count
}

func TestMiddlewareAllowsWithinLimit(t *testing.T) {
	m := NewMemoryLimiter(10, 2)
	defer closeLimiter(t, m)

	next, calls := okHandler()
	h := Middleware(m, IPKeyFunc, nil)(next)

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 2, *calls)
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	m := NewMemoryLimiter(0.001, 1)
	defer closeLimiter(t, m)

	next, calls := okHandler()
	h := Middleware(m, IPKeyFunc, func(*http.Request) string { return "req-1" })(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.Equal(t, 1, *calls)

	var envelope model.APIError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, model.ErrCodeRateLimited, envelope.Error.Code)
	assert.Equal(t, "req-1", envelope.Meta.RequestID)
}

func TestMiddlewareFailsOpenOnLimiterError(t *testing.T) {
	next, calls := okHandler()
	h := Middleware(failingLimiter{}, IPKeyFunc, nil)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, *calls)
}

func TestMiddlewareSkipsNilLimiterAndEmptyKey(t *testing.T) {
	next, calls := okHandler()
	h := Middleware(nil, IPKeyFunc, nil)(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	m := NewMemoryLimiter(0.001, 1)
	defer closeLimiter(t, m)
	h = Middleware(m, func(*http.Request) string { return "" }, nil)(next)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}
	assert.Equal(t, 4, *calls)
}

func TestIPKeyFunc(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "203.0.113.9:51412"
	assert.Equal(t, "203.0.113.9", IPKeyFunc(r))

	r.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "[2001:db8::1]", IPKeyFunc(r))
}
