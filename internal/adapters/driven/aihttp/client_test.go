package aihttp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ragdesk/internal/adapters/driven/ratelimit"
	"github.com/custodia-labs/ragdesk/internal/core/domain"
)

func TestClient_DoRoundTrip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Key"))
		w.Write([]byte(`{"echo":"hi"}`))
	}))
	defer server.Close()

	c := New("test", time.Second)
	c.Headers["X-Key"] = "secret"
	var out struct {
		Echo string `json:"echo"`
	}

	err := c.Do(context.Background(), http.MethodPost, server.URL, map[string]string{"a": "b"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "hi", out.Echo)
}

func TestClient_DoClassifiesStatus(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusUnauthorized, domain.ErrInvalidCredentials},
		{http.StatusForbidden, domain.ErrInvalidCredentials},
		{http.StatusBadRequest, domain.ErrInvalidInput},
		{http.StatusNotFound, domain.ErrProviderUnavailable},
		{http.StatusTooManyRequests, domain.ErrProviderUnavailable},
		{http.StatusInternalServerError, domain.ErrProviderUnavailable},
		{http.StatusBadGateway, domain.ErrProviderUnavailable},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer server.Close()

			err := New("test", time.Second).Do(context.Background(), http.MethodGet, server.URL, nil, nil)

			assert.ErrorIs(t, err, tt.want)
			assert.Contains(t, err.Error(), "nope")
		})
	}
}

func TestClient_DoBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	var out map[string]any
	err := New("test", time.Second).Do(context.Background(), http.MethodGet, server.URL, nil, &out)

	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestClient_DoUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	err := New("test", time.Second).Do(context.Background(), http.MethodGet, url, nil, nil)

	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
}

func TestClient_DoTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := New("test", time.Second).Do(ctx, http.MethodGet, server.URL, nil, nil)

	assert.ErrorIs(t, err, domain.ErrTimeout)
}

func TestClient_DoTooManyRequestsBacksOff(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Retry-After", "60")
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	c := New("test", time.Second)
	c.Limiter = ratelimit.New(ratelimit.Config{RequestsPerSecond: 100, BurstSize: 10})

	err := c.Do(context.Background(), http.MethodGet, server.URL, nil, nil)

	assert.ErrorIs(t, err, domain.ErrProviderUnavailable)
	assert.False(t, c.Limiter.Allow())
}

func TestStatusError_TruncatesBody(t *testing.T) {
	err := StatusError("p", 500, []byte(strings.Repeat("x", 1000)))

	assert.Less(t, len(err.Error()), 400)
	assert.True(t, strings.HasSuffix(err.Error(), "..."))
}

func TestTransportError(t *testing.T) {
	assert.ErrorIs(t, TransportError("p", context.DeadlineExceeded), domain.ErrTimeout)
	assert.Equal(t, context.Canceled, TransportError("p", context.Canceled))
	assert.ErrorIs(t, TransportError("p", errors.New("refused")), domain.ErrProviderUnavailable)
}

func TestRetryAfter(t *testing.T) {
	h := http.Header{}
	assert.Zero(t, RetryAfter(h))
	h.Set("Retry-After", "7")
	assert.Equal(t, 7*time.Second, RetryAfter(h))
	h.Set("Retry-After", "Wed, 21 Oct 2015 07:28:00 GMT")
	assert.Zero(t, RetryAfter(h))
}

func TestTrimBaseURL(t *testing.T) {
	assert.Equal(t, "http://x", TrimBaseURL("http://x///"))
}
