package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registrationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registrations_created_total",
			Help: "Registration creation attempts by outcome",
		},
		[]string{"outcome"},
	)

	ticketsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_issued_total",
			Help: "Individual tickets issued",
		},
	)

	codeCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticket_code_collisions_total",
			Help: "Ticket code candidates rejected by the existence check",
		},
	)

	statusUpdates = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "registration_status_updates_total",
			Help: "Status transitions applied by administrators",
		},
		[]string{"status"},
	)

	createDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "registration_create_duration_seconds",
			Help:    "Duration of the registration create transaction",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 12),
		},
	)
)

func RegistrationCreated(outcome string) {
	registrationsCreated.WithLabelValues(outcome).Inc()
}

func TicketsIssued(n int) {
	ticketsIssued.Add(float64(n))
}

func CodeCollision() {
	codeCollisions.Inc()
}

func StatusUpdated(status string) {
	statusUpdates.WithLabelValues(status).Inc()
}

func ObserveCreateDuration(d time.Duration) {
	createDuration.Observe(d.Seconds())
}
