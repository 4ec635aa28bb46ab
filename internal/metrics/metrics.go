// Package metrics exposes the Prometheus collectors used across the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Slug resolution
	SlugCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsline_slug_collisions_total",
			Help: "Total number of slug candidates that were already taken",
		},
	)

	SlugFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsline_slug_fallbacks_total",
			Help: "Total number of timestamp-suffixed slugs handed out",
		},
		[]string{"reason"}, // "exhausted", "store_error"
	)

	// Push notifications
	NotificationsDelivered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsline_push_delivered_total",
			Help: "Total number of push tokens the gateway accepted",
		},
	)

	NotificationsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsline_push_failed_total",
			Help: "Total number of push tokens the gateway rejected",
		},
	)

	GatewayErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "newsline_push_gateway_errors_total",
			Help: "Total number of multicast calls that failed at the transport level",
		},
	)

	// Subscribers
	SubscriberWrites = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsline_subscriber_writes_total",
			Help: "Subscriber registry writes by operation and channel type",
		},
		[]string{"operation", "type"},
	)
)

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
