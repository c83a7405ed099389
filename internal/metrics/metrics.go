package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlbbtopup_commands_total",
			Help: "Total number of bot commands received",
		},
		[]string{"command"},
	)

	OrdersTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlbbtopup_orders_total",
			Help: "Total number of diamond orders by status",
		},
		[]string{"status"},
	)

	TopupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlbbtopup_topups_total",
			Help: "Total number of top-up requests by status",
		},
		[]string{"status"},
	)

	NotifyFailuresTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "mlbbtopup_notify_failures_total",
			Help: "Total number of failed admin notification deliveries",
		},
	)

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mlbbtopup_http_requests_total",
			Help: "Total number of HTTP requests to the sidecar",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mlbbtopup_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

func RecordCommand(command string) {
	CommandsTotal.WithLabelValues(command).Inc()
}

func RecordOrder(status string) {
	OrdersTotal.WithLabelValues(status).Inc()
}

func RecordTopup(status string) {
	TopupsTotal.WithLabelValues(status).Inc()
}

func RecordNotifyFailure() {
	NotifyFailuresTotal.Inc()
}

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}
