package analysis

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/AnshRaj112/mindjourney-backend/internal/logging"
	"github.com/AnshRaj112/mindjourney-backend/internal/metrics"
	"github.com/AnshRaj112/mindjourney-backend/internal/models"
)

var _ Classifier = (*BreakerClassifier)(nil)

// BreakerClassifier guards a Classifier with a circuit breaker so a failing
// service stops being called for a while and scoring falls back immediately.
type BreakerClassifier struct {
	next Classifier
	cb   *gobreaker.CircuitBreaker[models.Mood]
}

// NewBreakerClassifier opens after 5 consecutive failures and lets a trial call through after 30s.
func NewBreakerClassifier(name string, next Classifier) *BreakerClassifier {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	cb := gobreaker.NewCircuitBreaker[models.Mood](gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &BreakerClassifier{next: next, cb: cb}
}

// Classify runs the wrapped classifier through the breaker. Out-of-enumeration
// answers count as failures.
func (b *BreakerClassifier) Classify(ctx context.Context, text string) (models.Mood, error) {
	return b.cb.Execute(func() (models.Mood, error) {
		mood, err := b.next.Classify(ctx, text)
		if err != nil {
			return "", err
		}
		if !mood.Valid() {
			return "", ErrUnknownLabel
		}
		return mood, nil
	})
}

// State reports the breaker state.
func (b *BreakerClassifier) State() gobreaker.State {
	return b.cb.State()
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}
