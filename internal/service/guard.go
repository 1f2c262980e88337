package service

import (
	"sync"
	"time"

	"hottakes/internal/models"
	"hottakes/internal/observability"
)

// DefaultMinSubmitInterval is the cool-down between two completed
// submissions from the same user.
const DefaultMinSubmitInterval = time.Second

// SubmissionGuard rejects rapid repeat submissions before any backend work
// happens: while one submission from a user is in flight, and for a short
// interval after one completes, further attempts are throttled. State is
// process-local; the redis rate-limit middleware covers the multi-instance
// case separately.
type SubmissionGuard struct {
	mu          sync.Mutex
	inFlight    map[uint]bool
	lastDone    map[uint]time.Time
	minInterval time.Duration
	now         func() time.Time
}

func NewSubmissionGuard(minInterval time.Duration) *SubmissionGuard {
	if minInterval <= 0 {
		minInterval = DefaultMinSubmitInterval
	}
	return &SubmissionGuard{
		inFlight:    make(map[uint]bool),
		lastDone:    make(map[uint]time.Time),
		minInterval: minInterval,
		now:         time.Now,
	}
}

// Begin claims the user's submission slot. On success the caller must call
// Done exactly once, whatever the outcome of the submission.
func (g *SubmissionGuard) Begin(userID uint) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.inFlight[userID] {
		observability.ThrottledSubmissions.WithLabelValues("in_flight").Inc()
		return models.NewThrottledError("A submission is already in progress")
	}
	if last, ok := g.lastDone[userID]; ok && g.now().Sub(last) < g.minInterval {
		observability.ThrottledSubmissions.WithLabelValues("interval").Inc()
		return models.NewThrottledError("You're posting too fast, give it a second")
	}

	g.inFlight[userID] = true
	return nil
}

// Done releases the slot and starts the cool-down interval.
func (g *SubmissionGuard) Done(userID uint) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.inFlight, userID)
	g.lastDone[userID] = g.now()
}
