package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// TicketsOpened is the total number of tickets opened.
	TicketsOpened = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_opened_total",
			Help: "Total number of tickets opened",
		},
		[]string{"category"},
	)

	// TicketsClosed is the total number of tickets closed, by how the
	// close was triggered.
	TicketsClosed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticket_closed_total",
			Help: "Total number of tickets closed",
		},
		[]string{"trigger"},
	)

	// OpenTickets is the number of tickets currently open.
	OpenTickets = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ticket_open",
			Help: "Number of tickets currently open",
		},
	)

	// QuotaRejections is the total number of ticket requests rejected at
	// the per-user cap.
	QuotaRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_quota_rejections_total",
			Help: "Total number of ticket requests rejected at the per-user cap",
		},
	)
)
