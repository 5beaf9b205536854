package schedule

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEveryRunsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var n atomic.Int32
	Every(ctx, 5*time.Millisecond, "count", func(context.Context) error {
		if n.Add(1) == 1 {
			return errors.New("first run fails")
		}
		return nil
	})
	assert.Eventually(t, func() bool { return n.Load() >= 3 }, 2*time.Second, 5*time.Millisecond,
		"errors do not stop the schedule")
	cancel()
	time.Sleep(20 * time.Millisecond)
	stopped := n.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, stopped, n.Load())
}

func TestEveryIgnoresNonPositiveInterval(t *testing.T) {
	called := make(chan struct{}, 1)
	Every(context.Background(), 0, "never", func(context.Context) error {
		called <- struct{}{}
		return nil
	})
	select {
	case <-called:
		t.Fatal("task ran with zero interval")
	case <-time.After(20 * time.Millisecond):
	}
}

func TestIntervalFromEnv(t *testing.T) {
	t.Setenv("X_EVERY", "")
	assert.Zero(t, IntervalFromEnv("X_EVERY"))
	t.Setenv("X_EVERY", "90s")
	assert.Equal(t, 90*time.Second, IntervalFromEnv("X_EVERY"))
	t.Setenv("X_EVERY", "soon")
	assert.Zero(t, IntervalFromEnv("X_EVERY"))
	t.Setenv("X_EVERY", "-1m")
	assert.Zero(t, IntervalFromEnv("X_EVERY"))
}
