package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestQueueMetrics(t *testing.T) {
	SetQueueLength("walk_in", 4)
	assert.Equal(t, 4.0, testutil.ToFloat64(queueLength.WithLabelValues("walk_in")))

	before := testutil.ToFloat64(queueOperations.WithLabelValues("join", "ok"))
	TrackQueueOperation("join", "ok")
	assert.Equal(t, before+1, testutil.ToFloat64(queueOperations.WithLabelValues("join", "ok")))

	SetTablesOccupied(7)
	assert.Equal(t, 7.0, testutil.ToFloat64(tablesOccupied))
}

func TestNotificationCounter(t *testing.T) {
	before := testutil.ToFloat64(notificationsSent.WithLabelValues("your_turn", "sms"))
	TrackNotification("your_turn", "sms")
	TrackNotification("your_turn", "sms")
	assert.Equal(t, before+2, testutil.ToFloat64(notificationsSent.WithLabelValues("your_turn", "sms")))
}

func TestObserveSweep(t *testing.T) {
	before := testutil.ToFloat64(sweepNotifications.WithLabelValues("queue_progress"))
	ObserveSweep("queue_progress", 3*time.Millisecond, 2)
	ObserveSweep("queue_progress", time.Millisecond, 0)
	assert.Equal(t, before+2, testutil.ToFloat64(sweepNotifications.WithLabelValues("queue_progress")))
	assert.Equal(t, 1, testutil.CollectAndCount(sweepDuration))
}
