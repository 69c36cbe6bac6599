package supervisor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coffeecorner/queue/common/logger"
	"github.com/stretchr/testify/assert"
)

type countingReminders struct {
	calls atomic.Int32
}

func (c *countingReminders) ProcessAppointmentReminders(context.Context) int {
	c.calls.Add(1)
	return 1
}

type countingProgress struct {
	calls atomic.Int32
}

func (c *countingProgress) UpdateQueueProgress(context.Context) int {
	c.calls.Add(1)
	return 0
}

func TestSweeper_RunsUntilCancelled(t *testing.T) {
	reminders := &countingReminders{}
	s := NewReminderSweeper(reminders, 5*time.Millisecond, logger.Discard())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	assert.Eventually(t, func() bool { return reminders.calls.Load() >= 3 }, time.Second, time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop")
	}

	stopped := reminders.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, stopped, reminders.calls.Load())
}

func TestSweeper_IntervalDefaults(t *testing.T) {
	progress := &countingProgress{}

	s := NewProgressSweeper(progress, 0, logger.Discard())
	assert.Equal(t, time.Minute, s.checkInterval)

	s = NewProgressSweeper(progress, 30*time.Second, logger.Discard())
	assert.Equal(t, 30*time.Second, s.checkInterval)
	assert.Equal(t, "queue_progress", s.name)
}
