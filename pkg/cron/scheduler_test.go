package cron

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRunNow(t *testing.T) {
	var calls atomic.Int32
	s := NewScheduler("watch", "@every 1h", func(ctx context.Context) error {
		calls.Add(1)
		_, ok := ctx.Deadline()
		assert.True(t, ok)
		return nil
	}, time.Minute, discard())

	s.RunNow()
	s.RunNow()
	assert.Equal(t, int32(2), calls.Load())
}

func TestRunNowSkipsOverlap(t *testing.T) {
	var calls atomic.Int32
	var s *Scheduler
	s = NewScheduler("watch", "@every 1h", func(ctx context.Context) error {
		calls.Add(1)
		s.RunNow()
		return errors.New("drive unavailable")
	}, 0, discard())

	s.RunNow()
	assert.Equal(t, int32(1), calls.Load())
}

func TestStartRejectsBadSpec(t *testing.T) {
	s := NewScheduler("watch", "every five minutes", func(context.Context) error { return nil }, 0, discard())
	assert.Error(t, s.Start())
}

func TestStopCancelsJob(t *testing.T) {
	started := make(chan struct{})
	s := NewScheduler("watch", "@every 1h", func(ctx context.Context) error {
		close(started)
		<-ctx.Done()
		return ctx.Err()
	}, 0, discard())
	require.NoError(t, s.Start())

	done := make(chan struct{})
	go func() {
		s.RunNow()
		close(done)
	}()
	<-started

	<-s.Stop().Done()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("job did not observe cancellation")
	}
}
