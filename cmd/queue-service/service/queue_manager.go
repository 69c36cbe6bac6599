package service

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/coffeecorner/queue/cmd/queue-service/models"
	"github.com/coffeecorner/queue/common/config"
	"github.com/shopspring/decimal"
)

// ManagerConfig sizes a QueueManager
type ManagerConfig struct {
	TotalTables        int
	AverageServiceTime int // minutes
	MaxQueueSize       int
	OpeningHour        int
	ClosingHour        int
	SlotGranularity    time.Duration
	// Location evaluates business hours; nil uses each timestamp's own zone
	Location *time.Location
}

// ManagerConfigFrom extracts manager settings from service config
func ManagerConfigFrom(cfg *config.Config) ManagerConfig {
	// the timezone is checked by config.Validate
	loc, _ := time.LoadLocation(cfg.Shop.Timezone)

	return ManagerConfig{
		TotalTables:        cfg.Queue.TotalTables,
		AverageServiceTime: cfg.Queue.AverageServiceTime,
		MaxQueueSize:       cfg.Queue.MaxQueueSize,
		OpeningHour:        cfg.Scheduling.OpeningHour,
		ClosingHour:        cfg.Scheduling.ClosingHour,
		SlotGranularity:    cfg.Scheduling.SlotGranularity,
		Location:           loc,
	}
}

// DefaultManagerConfig matches the shop defaults
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		TotalTables:        20,
		AverageServiceTime: 5,
		MaxQueueSize:       50,
		OpeningHour:        8,
		ClosingHour:        20,
		SlotGranularity:    SlotGranularity,
	}
}

// QueueManager owns every queue, the appointment book and the table pool.
// All state is guarded by mu; methods hand out clones, never live entries.
type QueueManager struct {
	mu sync.Mutex

	queues       [models.NumQueueTypes][]*models.QueueEntry
	appointments []*models.Appointment

	// each table is in exactly one of availableTables or occupiedTables
	availableTables []int
	occupiedTables  map[int]string

	cfg ManagerConfig
	now func() time.Time
}

// NewQueueManager creates a manager with tables 1..cfg.TotalTables available
func NewQueueManager(cfg ManagerConfig) *QueueManager {
	m := &QueueManager{
		availableTables: make([]int, 0, cfg.TotalTables),
		occupiedTables:  make(map[int]string),
		cfg:             cfg,
		now:             func() time.Time { return time.Now().UTC() },
	}
	for t := 1; t <= cfg.TotalTables; t++ {
		m.availableTables = append(m.availableTables, t)
	}
	for i := range m.queues {
		m.queues[i] = make([]*models.QueueEntry, 0)
	}
	return m
}

// SetClock replaces the time source
func (m *QueueManager) SetClock(now func() time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
}

// AverageServiceTime returns the per-position service estimate in minutes
func (m *QueueManager) AverageServiceTime() int {
	return m.cfg.AverageServiceTime
}

// AddToQueue inserts entry by priority and returns its 1-based position.
// The manager takes ownership of entry.
func (m *QueueManager) AddToQueue(entry *models.QueueEntry) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.addLocked(entry)
}

// Join inserts entry, stamps its estimated ready time and returns a snapshot
func (m *QueueManager) Join(entry *models.QueueEntry) (*models.QueueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	position, err := m.addLocked(entry)
	if err != nil {
		return nil, err
	}

	wait := entry.EstimatedWait(position-1, m.cfg.AverageServiceTime)
	ready := m.now().Add(time.Duration(wait) * time.Minute)
	entry.EstimatedReadyTime = &ready

	return entry.Clone(), nil
}

func (m *QueueManager) addLocked(entry *models.QueueEntry) (int, error) {
	if !entry.QueueType.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidQueueType, int(entry.QueueType))
	}

	queue := m.queues[entry.QueueType]
	if m.cfg.MaxQueueSize > 0 && len(queue) >= m.cfg.MaxQueueSize {
		return 0, fmt.Errorf("%w: %s holds %d entries", ErrQueueFull, entry.QueueType, len(queue))
	}

	idx := len(queue)
	for i, existing := range queue {
		if existing.Priority < entry.Priority {
			idx = i
			break
		}
	}

	m.queues[entry.QueueType] = slices.Insert(queue, idx, entry)
	entry.OriginalPosition = idx + 1
	entry.CurrentPosition = idx + 1
	m.renumber(entry.QueueType)

	return idx + 1, nil
}

func (m *QueueManager) renumber(qt models.QueueType) {
	for i, e := range m.queues[qt] {
		e.CurrentPosition = i + 1
	}
}

// locate returns the queue type and index holding id
func (m *QueueManager) locate(id string) (models.QueueType, int, bool) {
	for qt, queue := range m.queues {
		for i, e := range queue {
			if e.QueueID == id {
				return models.QueueType(qt), i, true
			}
		}
	}
	return 0, 0, false
}

func (m *QueueManager) find(id string) (*models.QueueEntry, bool) {
	qt, i, ok := m.locate(id)
	if !ok {
		return nil, false
	}
	return m.queues[qt][i], true
}

// RemoveFromQueue deletes the entry from its queue and returns it
func (m *QueueManager) RemoveFromQueue(id string) (*models.QueueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.removeLocked(id)
}

func (m *QueueManager) removeLocked(id string) (*models.QueueEntry, error) {
	qt, i, ok := m.locate(id)
	if !ok {
		return nil, fmt.Errorf("%w: queue entry %s", ErrNotFound, id)
	}

	entry := m.queues[qt][i]
	m.queues[qt] = slices.Delete(m.queues[qt], i, i+1)
	m.renumber(qt)
	return entry, nil
}

// Entry returns a snapshot of one entry
func (m *QueueManager) Entry(id string) (*models.QueueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.find(id)
	if !ok {
		return nil, fmt.Errorf("%w: queue entry %s", ErrNotFound, id)
	}
	return entry.Clone(), nil
}

// QueuePosition returns the 1-based position of the entry
func (m *QueueManager) QueuePosition(id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, i, ok := m.locate(id)
	if !ok {
		return 0, fmt.Errorf("%w: queue entry %s", ErrNotFound, id)
	}
	return i + 1, nil
}

// EstimatedWaitTime is (position-1) × average service time + the entry's prep time
func (m *QueueManager) EstimatedWaitTime(id string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	qt, i, ok := m.locate(id)
	if !ok {
		return 0, fmt.Errorf("%w: queue entry %s", ErrNotFound, id)
	}
	return m.queues[qt][i].EstimatedWait(i, m.cfg.AverageServiceTime), nil
}

// Status builds the customer-facing view of one entry
func (m *QueueManager) Status(id string) (*models.QueueStatusView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	qt, i, ok := m.locate(id)
	if !ok {
		return nil, fmt.Errorf("%w: queue entry %s", ErrNotFound, id)
	}

	e := m.queues[qt][i].Clone()
	return &models.QueueStatusView{
		QueueID:            e.QueueID,
		Status:             e.Status,
		Position:           i + 1,
		EstimatedWaitTime:  e.EstimatedWait(i, m.cfg.AverageServiceTime),
		EstimatedReadyTime: e.EstimatedReadyTime,
		PartySize:          e.PartySize,
		TableNumber:        e.TableNumber,
		CreatedAt:          e.CreatedAt,
		HasOrder:           e.HasOrder,
	}, nil
}

// Snapshot returns clones of one queue in service order
func (m *QueueManager) Snapshot(qt models.QueueType) []*models.QueueEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !qt.Valid() {
		return nil
	}
	out := make([]*models.QueueEntry, len(m.queues[qt]))
	for i, e := range m.queues[qt] {
		out[i] = e.Clone()
	}
	return out
}

// CallNextCustomer marks the front entry called without removing it.
// Calling again before completion returns the same entry.
func (m *QueueManager) CallNextCustomer(qt models.QueueType) (*models.QueueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, err := m.callNextLocked(qt)
	if err != nil {
		return nil, err
	}
	return entry.Clone(), nil
}

func (m *QueueManager) callNextLocked(qt models.QueueType) (*models.QueueEntry, error) {
	if !qt.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQueueType, int(qt))
	}
	if len(m.queues[qt]) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrQueueEmpty, qt)
	}

	entry := m.queues[qt][0]
	now := m.now()
	entry.Status = models.StatusCalled
	entry.CalledAt = &now
	return entry, nil
}

// CallNextAndSeat calls the front entry and assigns it a table in one critical section.
// A nil table means the pool is exhausted.
func (m *QueueManager) CallNextAndSeat(qt models.QueueType) (*models.QueueEntry, *int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, err := m.callNextLocked(qt)
	if err != nil {
		return nil, nil, err
	}

	table, err := m.assignTableLocked(entry, entry.SeatingPreference)
	if err != nil {
		return entry.Clone(), nil, nil
	}
	return entry.Clone(), &table, nil
}

// CompleteService removes the entry, marks it completed and frees its table.
// An explicit table is released from whoever holds it; the entry's own table
// is released only while the entry still holds it.
func (m *QueueManager) CompleteService(id string, table *int) (*models.QueueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, err := m.removeLocked(id)
	if err != nil {
		return nil, err
	}

	now := m.now()
	entry.Status = models.StatusCompleted
	entry.CompletedAt = &now

	if table != nil {
		m.releaseTableLocked(*table)
	}
	m.releaseHeldLocked(entry)

	return entry, nil
}

// CancelEntry removes the entry, marks it cancelled and frees its table
func (m *QueueManager) CancelEntry(id string) (*models.QueueEntry, error) {
	return m.removeWithStatus(id, models.StatusCancelled)
}

func (m *QueueManager) removeWithStatus(id string, status models.QueueStatus) (*models.QueueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, err := m.removeLocked(id)
	if err != nil {
		return nil, err
	}
	entry.Status = status
	m.releaseHeldLocked(entry)
	return entry, nil
}

// UpdateStatus moves an entry to preparing, ready or no_show.
// no_show removes the entry and frees its table.
func (m *QueueManager) UpdateStatus(id string, status models.QueueStatus) (*models.QueueEntry, error) {
	switch status {
	case models.StatusNoShow:
		return m.removeWithStatus(id, status)
	case models.StatusPreparing, models.StatusReady, models.StatusCalled, models.StatusWaiting:
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, status)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.find(id)
	if !ok {
		return nil, fmt.Errorf("%w: queue entry %s", ErrNotFound, id)
	}
	entry.Status = status
	return entry.Clone(), nil
}

// Update applies fn to the live entry under the manager lock
func (m *QueueManager) Update(id string, fn func(*models.QueueEntry) error) (*models.QueueEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.find(id)
	if !ok {
		return nil, fmt.Errorf("%w: queue entry %s", ErrNotFound, id)
	}
	if err := fn(entry); err != nil {
		return nil, err
	}
	return entry.Clone(), nil
}

// RecordNotification appends to an entry's history; unknown ids are ignored
func (m *QueueManager) RecordNotification(id string, kind models.NotificationKind, method string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if entry, ok := m.find(id); ok {
		entry.RecordNotification(kind, method, true, m.now())
	}
}

// Summary aggregates every queue and the table pool
func (m *QueueManager) Summary() models.QueueSummary {
	m.mu.Lock()
	defer m.mu.Unlock()

	summary := models.QueueSummary{
		Queues: make(map[models.QueueType]models.QueueTypeSummary, models.NumQueueTypes),
	}

	totalWaiting := 0
	for qt, queue := range m.queues {
		var s models.QueueTypeSummary
		s.Total = len(queue)
		for _, e := range queue {
			switch e.Status {
			case models.StatusWaiting:
				s.Waiting++
			case models.StatusCalled:
				s.Called++
			case models.StatusPreparing:
				s.Preparing++
			}
		}
		s.EstimatedWait = s.Waiting * m.cfg.AverageServiceTime
		totalWaiting += s.Waiting
		summary.Queues[models.QueueType(qt)] = s
	}

	summary.Overall = models.OverallSummary{
		TotalWaiting:    totalWaiting,
		AvailableTables: len(m.availableTables),
		OccupiedTables:  len(m.occupiedTables),
		AverageWaitTime: totalWaiting * m.cfg.AverageServiceTime,
	}
	return summary
}

// Totals returns the entry count and mean elapsed wait across all queues
func (m *QueueManager) Totals() (int, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	total, elapsed := 0, 0
	for _, queue := range m.queues {
		for _, e := range queue {
			total++
			elapsed += e.ElapsedWait(now)
		}
	}
	if total == 0 {
		return 0, 0
	}
	return total, float64(elapsed) / float64(total)
}

// QueueLengths returns the number of entries per queue type
func (m *QueueManager) QueueLengths() map[models.QueueType]int {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make(map[models.QueueType]int, models.NumQueueTypes)
	for qt, queue := range m.queues {
		out[models.QueueType(qt)] = len(queue)
	}
	return out
}

// PendingOrderValue sums the order value of every queued entry with an order
func (m *QueueManager) PendingOrderValue() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := decimal.Zero
	for _, queue := range m.queues {
		for _, e := range queue {
			if e.HasOrder {
				total = total.Add(e.OrderValue)
			}
		}
	}
	return total
}
