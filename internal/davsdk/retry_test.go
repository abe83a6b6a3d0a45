package davsdk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// dropConnections hijacks and closes the TCP connection for the first n
// requests, which the client observes as a retryable reset or EOF.
func dropConnections(t *testing.T, n int32, hits *atomic.Int32) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits.Add(1) <= n {
			hj, ok := w.(http.Hijacker)
			require.True(t, ok, "httptest server must support hijacking")
			conn, _, err := hj.Hijack()
			require.NoError(t, err)
			conn.Close()
			return
		}
		w.WriteHeader(http.StatusMultiStatus)
		w.Write([]byte(videosMultiStatus))
	})
}

func TestRetry_RecoversAfterTransientFailures(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(dropConnections(t, 3, &hits))
	defer srv.Close()

	c, err := New(&Config{BaseURL: srv.URL})
	require.NoError(t, err)
	defer c.Close()

	start := time.Now()
	entries, err := c.ListContents(context.Background(), "/videos")
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, int32(4), hits.Load(), "initial attempt plus three retries")
	// backoff of 100ms + 200ms + 400ms before the winning attempt
	assert.GreaterOrEqual(t, elapsed, 600*time.Millisecond)
}

func TestRetry_GivesUpAfterExhaustingAttempts(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(dropConnections(t, 1000, &hits))
	defer srv.Close()

	c, err := New(&Config{BaseURL: srv.URL})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.ListContents(context.Background(), "/videos")
	var davErr *DAVError
	require.ErrorAs(t, err, &davErr)
	assert.Equal(t, CodeNetwork, davErr.Code)
	assert.Equal(t, int32(4), hits.Load())
}

func TestRetry_DisabledMakesOneAttempt(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(dropConnections(t, 1000, &hits))
	defer srv.Close()

	c, err := New(&Config{BaseURL: srv.URL, RetryCount: -1})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.ListContents(context.Background(), "/videos")
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load())
}

func TestRetry_HTTPStatusIsNotRetried(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c, err := New(&Config{BaseURL: srv.URL})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.ListContents(context.Background(), "/videos")
	require.Error(t, err)
	assert.Equal(t, int32(1), hits.Load(), "status-bearing answers are final")
}
