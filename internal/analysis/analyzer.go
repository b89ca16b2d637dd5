// Package analysis turns journal text into a mood label plus the canned
// response, affirmation and recommendations for that mood.
package analysis

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/AnshRaj112/mindjourney-backend/internal/logging"
	"github.com/AnshRaj112/mindjourney-backend/internal/metrics"
	"github.com/AnshRaj112/mindjourney-backend/internal/models"
	"github.com/AnshRaj112/mindjourney-backend/internal/recommend"
)

// DefaultClassifierTimeout bounds a single external classification call.
const DefaultClassifierTimeout = 10 * time.Second

// ErrUnknownLabel is returned when a classifier answers outside the enumeration.
var ErrUnknownLabel = errors.New("classifier returned unknown mood label")

// Classifier labels text with a mood using some external service.
type Classifier interface {
	Classify(ctx context.Context, text string) (models.Mood, error)
}

// Analyzer scores text. Without a classifier it is purely keyword based.
type Analyzer struct {
	classifier Classifier
	catalog    *recommend.Catalog
	timeout    time.Duration
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClassifier delegates scoring to c, falling back to keywords on failure.
func WithClassifier(c Classifier) Option {
	return func(a *Analyzer) { a.classifier = c }
}

// WithCatalog overrides the recommendation catalog.
func WithCatalog(c *recommend.Catalog) Option {
	return func(a *Analyzer) { a.catalog = c }
}

// WithTimeout overrides DefaultClassifierTimeout.
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) { a.timeout = d }
}

// New builds an Analyzer.
func New(opts ...Option) *Analyzer {
	a := &Analyzer{catalog: recommend.Default(), timeout: DefaultClassifierTimeout}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ScoreText is the deterministic keyword path. It always returns one of the six labels.
func (a *Analyzer) ScoreText(text string) models.Analysis {
	return a.build(ScoreMood(text), models.SourceKeyword)
}

// ScoreText scores text with the built-in catalog.
func ScoreText(text string) models.Analysis {
	return New().ScoreText(text)
}

// Analyze asks the classifier first, when one is configured, and validates its
// answer. Any error or out-of-enumeration label falls back to keyword scoring.
// The classifier gets the full timeout regardless of the caller's deadline.
func (a *Analyzer) Analyze(ctx context.Context, text string) models.Analysis {
	if a.classifier == nil {
		metrics.Analyses.WithLabelValues(models.SourceKeyword, "ok").Inc()
		return a.ScoreText(text)
	}

	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.timeout)
	defer cancel()

	mood, err := a.classifier.Classify(cctx, text)
	if err == nil && !mood.Valid() {
		err = ErrUnknownLabel
	}
	if err != nil {
		reason := fallbackReason(err)
		metrics.ClassifierFallbacks.WithLabelValues(reason).Inc()
		metrics.Analyses.WithLabelValues(models.SourceKeyword, "fallback").Inc()
		logging.Ctx(ctx).Warn().Err(err).Str("reason", reason).Msg("mood classifier failed, using keyword scoring")
		return a.ScoreText(text)
	}

	metrics.Analyses.WithLabelValues(models.SourceExternal, "ok").Inc()
	return a.build(mood, models.SourceExternal)
}

func (a *Analyzer) build(mood models.Mood, source string) models.Analysis {
	r := responseFor(mood)
	return models.Analysis{
		Mood:            mood,
		Response:        r.response,
		Affirmation:     r.affirmation,
		Recommendations: a.catalog.For(mood, recommend.DefaultCount),
		Source:          source,
	}
}

func fallbackReason(err error) string {
	switch {
	case errors.Is(err, ErrUnknownLabel):
		return "invalid_label"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		return "breaker_open"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	default:
		return "error"
	}
}
