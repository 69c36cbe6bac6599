package service

import (
	"fmt"
	"testing"

	"github.com/coffeecorner/queue/cmd/queue-service/models"
)

// fillQueue joins n entries with mixed priorities and returns their ids
func fillQueue(b *testing.B, m *QueueManager, qt models.QueueType, n int) []string {
	b.Helper()
	ids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		e := newEntry(fmt.Sprintf("guest-%d", i), qt, i%4)
		if _, err := m.Join(e); err != nil {
			b.Fatalf("join: %v", err)
		}
		ids = append(ids, e.QueueID)
	}
	return ids
}

// BenchmarkJoinCallComplete measures one full dine-in customer cycle
// against a queue kept half full.
//
// Usage:
//
//	go test ./cmd/queue-service/service -bench=BenchmarkJoinCallComplete -benchmem
func BenchmarkJoinCallComplete(b *testing.B) {
	m := newTestManager(20)
	fillQueue(b, m, models.QueueDineIn, 25)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.Join(newEntry("bench", models.QueueDineIn, i%3)); err != nil {
			b.Fatalf("join: %v", err)
		}
		called, table, err := m.CallNextAndSeat(models.QueueDineIn)
		if err != nil {
			b.Fatalf("call next: %v", err)
		}
		if _, err := m.CompleteService(called.QueueID, table); err != nil {
			b.Fatalf("complete: %v", err)
		}
	}
}

// BenchmarkStatusLookup measures the customer status poll on a full queue
func BenchmarkStatusLookup(b *testing.B) {
	m := newTestManager(20)
	ids := fillQueue(b, m, models.QueueWalkIn, DefaultManagerConfig().MaxQueueSize)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := m.Status(ids[i%len(ids)]); err != nil {
			b.Fatalf("status: %v", err)
		}
	}
}

// BenchmarkAvailableSlots measures slot search on a day with every other hour booked
func BenchmarkAvailableSlots(b *testing.B) {
	m := newTestManager(20)
	for h := 8; h < 20; h += 2 {
		apt := booking(at(h, 0), 60)
		if _, err := m.ScheduleAppointment(apt); err != nil {
			b.Fatalf("schedule: %v", err)
		}
	}
	day := at(0, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n := 0
		for range m.AvailableSlots(day, 45) {
			n++
		}
		if n == 0 {
			b.Fatal("expected free slots")
		}
	}
}
