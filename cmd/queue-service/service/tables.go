package service

import (
	"fmt"
	"maps"
	"slices"

	"github.com/coffeecorner/queue/cmd/queue-service/models"
)

// AssignTable gives the entry the first available table.
// Preference is accepted but assignment is strict FIFO over the pool.
// An entry that already holds a table keeps it.
func (m *QueueManager) AssignTable(id string, preference string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.find(id)
	if !ok {
		return 0, fmt.Errorf("%w: queue entry %s", ErrNotFound, id)
	}
	return m.assignTableLocked(entry, preference)
}

func (m *QueueManager) assignTableLocked(entry *models.QueueEntry, _ string) (int, error) {
	if entry.TableNumber != nil && m.occupiedTables[*entry.TableNumber] == entry.QueueID {
		return *entry.TableNumber, nil
	}

	if len(m.availableTables) == 0 {
		return 0, ErrNoTableAvailable
	}

	table := m.availableTables[0]
	m.availableTables = m.availableTables[1:]
	m.occupiedTables[table] = entry.QueueID
	entry.TableNumber = &table

	return table, nil
}

// ReleaseTable returns an occupied table to the pool and clears it from its holder
func (m *QueueManager) ReleaseTable(table int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.releaseTableLocked(table)
}

// releaseTableLocked frees table and detaches it from the queued entry holding it
func (m *QueueManager) releaseTableLocked(table int) bool {
	id, ok := m.occupiedTables[table]
	if !ok {
		return false
	}
	if holder, found := m.find(id); found && holder.TableNumber != nil && *holder.TableNumber == table {
		holder.TableNumber = nil
	}
	delete(m.occupiedTables, table)
	m.availableTables = append(m.availableTables, table)
	return true
}

// releaseHeldLocked frees the entry's recorded table only while the entry still holds it
func (m *QueueManager) releaseHeldLocked(entry *models.QueueEntry) {
	if entry.TableNumber == nil {
		return
	}
	if m.occupiedTables[*entry.TableNumber] == entry.QueueID {
		m.releaseTableLocked(*entry.TableNumber)
	}
}

// Tables returns copies of the available pool and the occupancy map
func (m *QueueManager) Tables() ([]int, map[int]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.availableTables), maps.Clone(m.occupiedTables)
}

// TotalTables is the size of the pool
func (m *QueueManager) TotalTables() int {
	return m.cfg.TotalTables
}
