package stage

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := NewClient(
		WithTimeout(2*time.Second),
		WithMaxAttempts(3),
		WithBaseDelay(time.Millisecond),
	)
	require.NoError(t, err)
	return client
}

func TestPostJSON(t *testing.T) {
	t.Run("success decodes response", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var in map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
			assert.Equal(t, "hello", in["text"])

			json.NewEncoder(w).Encode(map[string]string{"echo": in["text"]})
		}))
		defer server.Close()

		var out map[string]string
		err := newTestClient(t).PostJSON(context.Background(), server.URL, map[string]string{"text": "hello"}, &out)
		require.NoError(t, err)
		assert.Equal(t, "hello", out["echo"])
	})

	t.Run("retries 5xx until success", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 3 {
				http.Error(w, "busy", http.StatusServiceUnavailable)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"ok": "yes"})
		}))
		defer server.Close()

		var out map[string]string
		err := newTestClient(t).PostJSON(context.Background(), server.URL, map[string]string{}, &out)
		require.NoError(t, err)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("exhausted retries yield ErrUnreachable", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "down", http.StatusInternalServerError)
		}))
		defer server.Close()

		err := newTestClient(t).PostJSON(context.Background(), server.URL, map[string]string{}, nil)
		require.ErrorIs(t, err, ErrUnreachable)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("connection error yields ErrUnreachable", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		server.Close() // nothing listening any more

		err := newTestClient(t).PostJSON(context.Background(), server.URL, map[string]string{}, nil)
		require.ErrorIs(t, err, ErrUnreachable)
	})

	t.Run("4xx yields ErrRejected without retry", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			http.Error(w, "unsupported media type", http.StatusUnsupportedMediaType)
		}))
		defer server.Close()

		err := newTestClient(t).PostJSON(context.Background(), server.URL, map[string]string{}, nil)
		require.ErrorIs(t, err, ErrRejected)
		assert.Contains(t, err.Error(), "unsupported media type")
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("context cancellation stops retries", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusInternalServerError)
		}))
		defer server.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := newTestClient(t).PostJSON(ctx, server.URL, map[string]string{}, nil)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestPostFile(t *testing.T) {
	t.Run("uploads multipart body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			file, header, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			assert.Equal(t, "doc.pdf", header.Filename)

			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		}))
		defer server.Close()

		var out map[string]string
		err := newTestClient(t).PostFile(context.Background(), server.URL, "file", "doc.pdf", []byte("%PDF-1.4"), &out)
		require.NoError(t, err)
		assert.Equal(t, "ok", out["status"])
	})

	t.Run("multipart body is rebuilt between attempts", func(t *testing.T) {
		var calls atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if calls.Add(1) < 2 {
				http.Error(w, "busy", http.StatusBadGateway)
				return
			}
			file, _, err := r.FormFile("file")
			require.NoError(t, err)
			defer file.Close()
			json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
		}))
		defer server.Close()

		var out map[string]string
		err := newTestClient(t).PostFile(context.Background(), server.URL, "file", "doc.pdf", []byte("%PDF-1.4"), &out)
		require.NoError(t, err)
		assert.Equal(t, "ok", out["status"])
	})
}

func TestRetryWithBackoff(t *testing.T) {
	t.Run("rejects non-positive attempts", func(t *testing.T) {
		err := RetryWithBackoff(context.Background(), func() error { return nil }, 0, time.Millisecond)
		require.ErrorIs(t, err, ErrInvalidMaxAttempts)
	})

	t.Run("stops early on rejection", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			return ErrRejected
		}, 5, time.Millisecond)
		require.ErrorIs(t, err, ErrRejected)
		assert.Equal(t, 1, calls)
	})

	t.Run("returns last error after exhaustion", func(t *testing.T) {
		calls := 0
		err := RetryWithBackoff(context.Background(), func() error {
			calls++
			return assert.AnError
		}, 3, time.Millisecond)
		require.ErrorIs(t, err, assert.AnError)
		assert.Equal(t, 3, calls)
	})
}
