package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by operation name.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "queentouch_redis_errors_total",
	Help: "Total number of Redis errors by operation type",
}, []string{"operation"})

// ModerationVerdicts counts moderation gate outcomes.
var ModerationVerdicts = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "queentouch_moderation_verdicts_total",
	Help: "Moderation gate outcomes (accepted, rejected, unavailable)",
}, []string{"verdict"})

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware adapts the Prometheus collector into a Fiber handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
