package monitoring

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "path"},
	)
)

var (
	AppointmentsScheduled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appointments_scheduled_total",
			Help: "Appointments booked, by doctor specialty",
		},
		[]string{"specialty"},
	)

	AppointmentsCancelled = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "appointments_cancelled_total",
			Help: "Appointments cancelled, by reason",
		},
		[]string{"reason"},
	)

	SchedulingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "appointment_slot_conflicts_total",
			Help: "Booking attempts that lost a race for a doctor's slot",
		},
	)
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestsTotal)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(AppointmentsScheduled)
		prometheus.MustRegister(AppointmentsCancelled)
		prometheus.MustRegister(SchedulingConflicts)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}
