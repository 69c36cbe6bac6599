package service

import (
	"math"

	"github.com/coffeecorner/queue/cmd/queue-service/models"
	"github.com/shopspring/decimal"
)

// peak windows as [start, end) hours
var peakHours = [][2]int{{7, 9}, {12, 14}, {17, 19}}

// Analytics is the operator dashboard snapshot
type Analytics struct {
	QueueSummary         models.QueueSummary `json:"queue_summary"`
	TotalEntries         int                 `json:"total_entries"`
	AverageWaitTime      float64             `json:"average_wait_time"`
	ActiveQRSessions     int                 `json:"active_qr_sessions"`
	UpcomingAppointments int                 `json:"upcoming_appointments"`
	PeakHourStatus       string              `json:"peak_hour_status"`
	PendingOrderValue    decimal.Decimal     `json:"pending_order_value"`
}

// ServiceStatus is the lightweight status probe payload
type ServiceStatus struct {
	QueueServiceReady  bool `json:"queue_service_ready"`
	TotalQueues        int  `json:"total_queues"`
	TotalCustomers     int  `json:"total_customers"`
	QRSessionsActive   int  `json:"qr_sessions_active"`
	AppointmentsToday  int  `json:"appointments_today"`
	AverageServiceTime int  `json:"average_service_time"`
}

// Analytics builds the dashboard snapshot
func (s *VirtualQueueService) Analytics() Analytics {
	total, avgElapsed := s.manager.Totals()

	return Analytics{
		QueueSummary:         s.manager.Summary(),
		TotalEntries:         total,
		AverageWaitTime:      math.Round(avgElapsed*10) / 10,
		ActiveQRSessions:     s.ActiveQRSessions(),
		UpcomingAppointments: s.manager.UpcomingAppointments(),
		PeakHourStatus:       peakHourStatus(s.localNow().Hour()),
		PendingOrderValue:    s.manager.PendingOrderValue(),
	}
}

// Status builds the service status probe
func (s *VirtualQueueService) Status() ServiceStatus {
	total, _ := s.manager.Totals()

	return ServiceStatus{
		QueueServiceReady:  true,
		TotalQueues:        models.NumQueueTypes,
		TotalCustomers:     total,
		QRSessionsActive:   s.ActiveQRSessions(),
		AppointmentsToday:  len(s.AppointmentsToday()),
		AverageServiceTime: s.manager.AverageServiceTime(),
	}
}

func peakHourStatus(hour int) string {
	for _, w := range peakHours {
		if hour >= w[0] && hour < w[1] {
			return "peak"
		}
	}
	return "normal"
}
