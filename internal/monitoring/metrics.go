package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	gatewayRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventdesk_gateway_requests_total",
			Help: "Requests issued to the events backend",
		},
		[]string{"endpoint", "outcome"},
	)

	gatewayDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "eventdesk_gateway_request_duration_seconds",
			Help:    "Round trip duration of requests to the events backend",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	refreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventdesk_store_refreshes_total",
			Help: "Store refreshes by result (applied, stale, failed)",
		},
		[]string{"result"},
	)

	cachedItems = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "eventdesk_store_items",
			Help: "Items currently held in the store per collection",
		},
		[]string{"collection"},
	)

	scans = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventdesk_ticket_scans_total",
			Help: "Decoded tickets by validity",
		},
		[]string{"result"},
	)

	exports = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "eventdesk_exports_total",
			Help: "Export runs by format and status",
		},
		[]string{"format", "status"},
	)
)

func TrackGatewayRequest(endpoint, outcome string, took time.Duration) {
	gatewayRequests.WithLabelValues(endpoint, outcome).Inc()
	gatewayDuration.WithLabelValues(endpoint).Observe(took.Seconds())
}

func TrackRefresh(result string) {
	refreshes.WithLabelValues(result).Inc()
}

func SetCachedItems(events, registrations int) {
	cachedItems.WithLabelValues("events").Set(float64(events))
	cachedItems.WithLabelValues("registrations").Set(float64(registrations))
}

func TrackScan(valid bool) {
	if valid {
		scans.WithLabelValues("valid").Inc()
		return
	}
	scans.WithLabelValues("invalid").Inc()
}

func TrackExport(format, status string) {
	exports.WithLabelValues(format, status).Inc()
}
