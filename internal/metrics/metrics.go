package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "vetclinic"

type Collector struct {
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	AppointmentsCreated  prometheus.Counter
	AppointmentsCanceled prometheus.Counter
	StatusUpdates        *prometheus.CounterVec
	SlotConflicts        *prometheus.CounterVec

	AuditDropped prometheus.Counter

	registry *prometheus.Registry
}

// NewCollector registers the collectors on a private registry rather than the
// prometheus default one.
func NewCollector() *Collector {
	reg := prometheus.NewRegistry()
	register := func(c prometheus.Collector) { reg.MustRegister(c) }

	c := &Collector{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),

		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route"}),

		AppointmentsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduling",
			Name:      "appointments_created_total",
			Help:      "Appointments successfully booked.",
		}),

		AppointmentsCanceled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduling",
			Name:      "appointments_canceled_total",
			Help:      "Appointments removed through cancellation.",
		}),

		StatusUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduling",
			Name:      "status_updates_total",
			Help:      "Appointment status updates by target status.",
		}, []string{"status"}),

		SlotConflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduling",
			Name:      "slot_conflicts_total",
			Help:      "Rejected bookings for an already taken slot, by detection point.",
		}, []string{"source"}),

		AuditDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "audit",
			Name:      "dropped_total",
			Help:      "Audit events dropped because the dispatch queue was full.",
		}),

		registry: reg,
	}

	register(c.RequestsTotal)
	register(c.RequestDuration)
	register(c.AppointmentsCreated)
	register(c.AppointmentsCanceled)
	register(c.StatusUpdates)
	register(c.SlotConflicts)
	register(c.AuditDropped)
	register(collectors.NewGoCollector())
	register(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return c
}

func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
