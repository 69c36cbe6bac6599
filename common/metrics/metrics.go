package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	queueLength = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "coffeecorner_queue_length",
			Help: "Current number of entries per queue",
		},
		[]string{"queue_type"},
	)

	queueOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coffeecorner_queue_operations_total",
			Help: "Total queue operations",
		},
		[]string{"operation", "status"},
	)

	tablesOccupied = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "coffeecorner_tables_occupied",
			Help: "Number of tables currently assigned to a customer",
		},
	)

	waitEstimate = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coffeecorner_wait_estimate_minutes",
			Help:    "Estimated wait handed out when a customer joins",
			Buckets: prometheus.LinearBuckets(0, 5, 12),
		},
		[]string{"queue_type"},
	)

	notificationsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coffeecorner_notifications_total",
			Help: "Notifications dispatched per kind and channel",
		},
		[]string{"kind", "channel"},
	)

	appointmentsBooked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coffeecorner_appointments_total",
			Help: "Appointment booking attempts",
		},
		[]string{"appointment_type", "status"},
	)

	sweepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "coffeecorner_sweep_duration_seconds",
			Help:    "Duration of background notification sweeps",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"sweeper"},
	)

	sweepNotifications = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "coffeecorner_sweep_notifications_total",
			Help: "Notifications sent by background sweeps",
		},
		[]string{"sweeper"},
	)
)

// SetQueueLength records the size of one queue
func SetQueueLength(queueType string, n int) {
	queueLength.WithLabelValues(queueType).Set(float64(n))
}

// TrackQueueOperation counts a queue operation outcome
func TrackQueueOperation(operation, status string) {
	queueOperations.WithLabelValues(operation, status).Inc()
}

// SetTablesOccupied records the number of occupied tables
func SetTablesOccupied(n int) {
	tablesOccupied.Set(float64(n))
}

// ObserveWaitEstimate records a wait estimate in minutes
func ObserveWaitEstimate(queueType string, minutes int) {
	waitEstimate.WithLabelValues(queueType).Observe(float64(minutes))
}

// TrackNotification counts a dispatched notification
func TrackNotification(kind, channel string) {
	notificationsSent.WithLabelValues(kind, channel).Inc()
}

// TrackAppointment counts a booking attempt
func TrackAppointment(appointmentType, status string) {
	appointmentsBooked.WithLabelValues(appointmentType, status).Inc()
}

// ObserveSweep records one background sweep
func ObserveSweep(sweeper string, d time.Duration, sent int) {
	sweepDuration.WithLabelValues(sweeper).Observe(d.Seconds())
	sweepNotifications.WithLabelValues(sweeper).Add(float64(sent))
}
