package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bulag_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// VotesCast counts votes by target type and effective value.
	VotesCast = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bulag_votes_cast_total",
		Help: "Total number of votes cast by target type and effective value",
	}, []string{"target_type", "value"})

	// WebSocketConnections is the gauge of active realtime subscribers.
	WebSocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bulag_websocket_connections",
		Help: "Number of active WebSocket connections",
	})

	// WebSocketDroppedMessages counts messages dropped because a client's
	// send buffer was closed or full.
	WebSocketDroppedMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bulag_websocket_dropped_messages_total",
		Help: "Total WebSocket messages dropped by reason",
	}, []string{"reason"})

	// RealtimeEventsPublished counts realtime invalidation events by type.
	RealtimeEventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bulag_realtime_events_published_total",
		Help: "Total realtime invalidation events published by event type",
	}, []string{"event_type"})
)

var (
	promOnce     sync.Once
	promInstance *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the fiberprometheus middleware for the given service
// name. The instance is shared; fiberprometheus registers its collectors in
// the default registry and registering twice panics.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInstance = fiberprometheus.New(serviceName)
	})
	return promInstance
}

// MetricsMiddleware returns the Fiber handler that records per-request metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
