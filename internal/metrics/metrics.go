package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tennisclub",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	bookingsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tennisclub",
			Name:      "bookings_created_total",
			Help:      "Bookings created by type.",
		},
		[]string{"tipo"},
	)

	paymentsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tennisclub",
			Name:      "payments_recorded_total",
			Help:      "Payment rows recorded by method kind.",
		},
		[]string{"metodo"},
	)

	forecastFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "tennisclub",
			Name:      "forecast_fetches_total",
			Help:      "Weather forecast fetch attempts by outcome.",
		},
		[]string{"outcome"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsCreated, paymentsRecorded, forecastFetches)
	})
}

// IncHTTP increments the counter for an endpoint label.
func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

// IncBooking counts a created booking by its type.
func IncBooking(tipo string) {
	bookingsCreated.WithLabelValues(tipo).Inc()
}

// IncPayment counts a recorded payment by method kind.
func IncPayment(metodo string) {
	paymentsRecorded.WithLabelValues(metodo).Inc()
}

// IncForecastFetch counts a forecast poll attempt ("ok" or "error").
func IncForecastFetch(outcome string) {
	forecastFetches.WithLabelValues(outcome).Inc()
}
