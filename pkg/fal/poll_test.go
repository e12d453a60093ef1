package fal

import (
	"context"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPollResultCompletes(t *testing.T) {
	var statusCalls atomic.Int32

	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/m/requests/r1/status":
			if statusCalls.Add(1) < 3 {
				w.Write([]byte(`{"status": "IN_PROGRESS"}`))
				return
			}
			w.Write([]byte(`{"status": "COMPLETED"}`))
		case "/m/requests/r1":
			w.Write([]byte(`{"video": {"url": "https://cdn.fal.ai/done.mp4"}}`))
		}
	})

	result, err := PollResult(context.Background(), c, "m", "r1",
		WithPollInterval(time.Millisecond), WithPollCap(2*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.fal.ai/done.mp4", result.Video.URL)
	assert.GreaterOrEqual(t, statusCalls.Load(), int32(3))
}

func TestPollResultFailedJob(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "FAILED"}`))
	})

	_, err := PollResult(context.Background(), c, "m", "r1", WithPollInterval(time.Millisecond))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed")
}

func TestPollResultContextDeadline(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "IN_QUEUE"}`))
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := PollResult(ctx, c, "m", "r1",
		WithPollInterval(5*time.Millisecond), WithPollCap(5*time.Millisecond))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}
