package service

import (
	"time"

	"github.com/coffeecorner/queue/cmd/queue-service/models"
)

const (
	progressCooldown  = 5 * time.Minute
	readySoonCooldown = 10 * time.Minute
	// positions gained since the last progress notice before another is sent
	progressStep = 2
	// positions that count as "next in line"
	readySoonPosition = 2
)

type progressNotice struct {
	entry *models.QueueEntry
	event models.NotificationEvent
}

// dueProgress decides which waiting entries get a progress or ready-soon
// notice and records it in their history before the lock is released
func (m *QueueManager) dueProgress() []progressNotice {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	var due []progressNotice

	for _, queue := range m.queues {
		for i, entry := range queue {
			if entry.Status != models.StatusWaiting {
				continue
			}

			position := i + 1
			reference := entry.LastNotifiedPosition
			if reference == 0 {
				reference = entry.OriginalPosition
			}

			if reference-position >= progressStep {
				if !entry.ReadyForNotification(models.KindQueueProgress, progressCooldown, now) {
					continue
				}
				entry.LastNotifiedPosition = position
				entry.RecordNotification(models.KindQueueProgress, "multi", true, now)
				due = append(due, progressNotice{
					entry: entry.Clone(),
					event: models.QueueProgress{
						Name:        entry.CustomerName,
						Position:    position,
						WaitMinutes: entry.EstimatedWait(i, m.cfg.AverageServiceTime),
					},
				})
				continue
			}

			if position <= readySoonPosition && entry.ReadyForNotification(models.KindReadySoon, readySoonCooldown, now) {
				entry.RecordNotification(models.KindReadySoon, "multi", true, now)
				due = append(due, progressNotice{
					entry: entry.Clone(),
					event: models.ReadySoon{Name: entry.CustomerName},
				})
			}
		}
	}
	return due
}
