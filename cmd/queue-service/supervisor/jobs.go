package supervisor

import (
	"context"
	"time"

	"github.com/coffeecorner/queue/common/logger"
)

// ReminderProcessor sends due appointment reminders
type ReminderProcessor interface {
	ProcessAppointmentReminders(ctx context.Context) int
}

// ProgressUpdater sends queue progress and ready-soon notices
type ProgressUpdater interface {
	UpdateQueueProgress(ctx context.Context) int
}

// NewReminderSweeper polls for 24h and 1h appointment reminders
func NewReminderSweeper(p ReminderProcessor, interval time.Duration, log *logger.Logger) *Sweeper {
	return NewSweeper("appointment_reminders", p.ProcessAppointmentReminders, log).WithCheckInterval(interval)
}

// NewProgressSweeper polls waiting customers for progress notices
func NewProgressSweeper(u ProgressUpdater, interval time.Duration, log *logger.Logger) *Sweeper {
	return NewSweeper("queue_progress", u.UpdateQueueProgress, log).WithCheckInterval(interval)
}
