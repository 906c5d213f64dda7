// cmd/api/metrics.go
// Prometheus collectors for the API. One set of HTTP-level series plus two
// domain counters that track the outcome of booking attempts.
package main

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metricas groups every Prometheus collector the application registers.
type metricas struct {
	requestsTotal   *prometheus.CounterVec // by method, route pattern and status code
	requestDuration *prometheus.HistogramVec

	turnosReservados prometheus.Counter
	turnosRechazados prometheus.Counter
}

// nuevasMetricas creates the collectors and registers them on reg.
func nuevasMetricas(reg prometheus.Registerer) *metricas {
	m := &metricas{
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "turnos_api_requests_total",
			Help: "Total HTTP requests served, by method, route and status code.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "turnos_api_request_duration_seconds",
			Help:    "HTTP request latency in seconds, by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		turnosReservados: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turnos_api_turnos_reservados_total",
			Help: "Turnos successfully booked.",
		}),
		turnosRechazados: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "turnos_api_turnos_rechazados_total",
			Help: "Booking attempts rejected by an agenda rule or slot conflict.",
		}),
	}

	reg.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.turnosReservados,
		m.turnosRechazados,
	)

	return m
}
