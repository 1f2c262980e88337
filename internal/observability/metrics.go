package observability

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hottakes_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// VoteTransitions counts vote state-machine transitions by kind.
	VoteTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hottakes_vote_transitions_total",
		Help: "Total vote transitions by kind (cast, toggle_off, flip)",
	}, []string{"transition"})

	// FanOutFailures counts best-effort denormalization fan-outs that failed.
	FanOutFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hottakes_fanout_failures_total",
		Help: "Total snapshot fan-out failures by field (display_name, picture_url)",
	}, []string{"field"})

	// NewsFetchFailures counts failed news collaborator fetches. A failure
	// only suppresses filler entries, it never fails the feed.
	NewsFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "hottakes_news_fetch_failures_total",
		Help: "Total failed news feed fetches",
	})

	// ThrottledSubmissions counts submissions rejected by the guard.
	ThrottledSubmissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hottakes_throttled_submissions_total",
		Help: "Total submissions rejected by the guard, by reason (in_flight, interval)",
	}, []string{"reason"})
)

// InitMetrics creates the Prometheus HTTP middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}
