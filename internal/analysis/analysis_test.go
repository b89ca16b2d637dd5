package analysis

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
)

func TestScoreMood(t *testing.T) {
	tests := []struct {
		name string
		text string
		want models.Mood
	}{
		{"happy and grateful", "I feel happy and grateful today", models.MoodHappy},
		{"case insensitive", "SO WORRIED and Nervous", models.MoodAnxious},
		{"substring counts", "a joyful, loving afternoon", models.MoodHappy},
		{"multi-word keyword", "completely worn out after the trip", models.MoodTired},
		{"no keywords is neutral", "the bus arrived at nine", models.MoodNeutral},
		{"empty is neutral", "", models.MoodNeutral},
		{"tie goes to first declared", "sad but happy", models.MoodHappy},
		{"tie between sad and angry", "upset and annoyed", models.MoodSad},
		{"highest count wins", "tired, exhausted, drained but good", models.MoodTired},
		{"neutral keywords", "it was a normal, fine day", models.MoodNeutral},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScoreMood(tt.text); got != tt.want {
				t.Errorf("ScoreMood(%q) = %q, want %q (counts %v)", tt.text, got, tt.want, Counts(tt.text))
			}
		})
	}
}

func TestScoreTextIsTotalAndDeterministic(t *testing.T) {
	inputs := []string{"", "   ", "ok", "I hate waiting", "Love love love", "¿qué?", strings.Repeat("stress ", 50)}
	for _, in := range inputs {
		a := ScoreText(in)
		b := ScoreText(in)
		if !a.Mood.Valid() {
			t.Errorf("ScoreText(%q) returned invalid mood %q", in, a.Mood)
		}
		if a.Mood != b.Mood || a.Response != b.Response || a.Affirmation != b.Affirmation {
			t.Errorf("ScoreText(%q) not deterministic", in)
		}
		if a.Source != models.SourceKeyword {
			t.Errorf("ScoreText source = %q", a.Source)
		}
	}
}

func TestScoreTextAttachesTemplate(t *testing.T) {
	a := ScoreText("I feel happy and grateful today")
	if a.Mood != models.MoodHappy {
		t.Fatalf("mood = %q", a.Mood)
	}
	if a.Affirmation != responses[models.MoodHappy].affirmation {
		t.Errorf("affirmation = %q", a.Affirmation)
	}
	if len(a.Recommendations.Movies) != 3 || len(a.Recommendations.Quotes) != 2 {
		t.Errorf("recommendations = %+v", a.Recommendations)
	}
}

type stubClassifier struct {
	mood  models.Mood
	err   error
	calls atomic.Int32
}

func (s *stubClassifier) Classify(ctx context.Context, text string) (models.Mood, error) {
	s.calls.Add(1)
	return s.mood, s.err
}

func TestAnalyzeUsesValidExternalLabel(t *testing.T) {
	a := New(WithClassifier(&stubClassifier{mood: models.MoodTired}))
	got := a.Analyze(context.Background(), "I feel happy")
	if got.Mood != models.MoodTired || got.Source != models.SourceExternal {
		t.Errorf("Analyze = %q from %q, want tired from external", got.Mood, got.Source)
	}
}

func TestAnalyzeFallsBack(t *testing.T) {
	tests := []struct {
		name string
		c    *stubClassifier
	}{
		{"error", &stubClassifier{err: errors.New("boom")}},
		{"unknown label", &stubClassifier{mood: "ecstatic"}},
		{"empty label", &stubClassifier{mood: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(WithClassifier(tt.c)).Analyze(context.Background(), "I feel happy")
			if got.Mood != models.MoodHappy || got.Source != models.SourceKeyword {
				t.Errorf("Analyze = %q from %q, want keyword happy", got.Mood, got.Source)
			}
		})
	}
}

func TestBreakerOpensAfterFailures(t *testing.T) {
	stub := &stubClassifier{err: errors.New("down")}
	b := NewBreakerClassifier("test-breaker", stub)
	a := New(WithClassifier(b))

	for i := 0; i < 8; i++ {
		a.Analyze(context.Background(), "sad")
	}
	if n := stub.calls.Load(); n != 5 {
		t.Errorf("wrapped classifier called %d times, want 5 before breaker opened", n)
	}
}

func TestGeminiClassifier(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   models.Mood
		err    bool
	}{
		{"clean label", 200, `{"candidates":[{"content":{"parts":[{"text":"anxious"}]}}]}`, models.MoodAnxious, false},
		{"noisy label", 200, `{"candidates":[{"content":{"parts":[{"text":" Happy.\n"}]}}]}`, models.MoodHappy, false},
		{"no candidates", 200, `{"candidates":[]}`, "", true},
		{"http error", 500, `oops`, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !strings.HasSuffix(r.URL.Path, "/models/test-model:generateContent") {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				if r.URL.Query().Get("key") != "k" {
					t.Errorf("missing api key")
				}
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewGeminiClassifier(GeminiConfig{Endpoint: srv.URL, Model: "test-model", APIKey: "k"})
			got, err := c.Classify(context.Background(), "text")
			if (err != nil) != tt.err {
				t.Fatalf("Classify error = %v, wantErr %v", err, tt.err)
			}
			if got != tt.want {
				t.Errorf("Classify = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAnalyzeTimesOut(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	a := New(
		WithClassifier(NewGeminiClassifier(GeminiConfig{Endpoint: srv.URL, APIKey: "k"})),
		WithTimeout(50*time.Millisecond),
	)
	start := time.Now()
	got := a.Analyze(context.Background(), "so tired")
	if time.Since(start) > time.Second {
		t.Errorf("Analyze did not honor timeout")
	}
	if got.Mood != models.MoodTired || got.Source != models.SourceKeyword {
		t.Errorf("Analyze = %q from %q", got.Mood, got.Source)
	}
}

// slowClassifier answers after delay unless its context ends first.
type slowClassifier struct {
	delay time.Duration
	mood  models.Mood
}

func (s slowClassifier) Classify(ctx context.Context, text string) (models.Mood, error) {
	select {
	case <-time.After(s.delay):
		return s.mood, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestAnalyzeOutlivesCallerDeadline(t *testing.T) {
	a := New(WithClassifier(slowClassifier{delay: 60 * time.Millisecond, mood: models.MoodSad}), WithTimeout(time.Second))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	got := a.Analyze(ctx, "so tired")
	if got.Mood != models.MoodSad || got.Source != models.SourceExternal {
		t.Errorf("Analyze = %q from %q, want sad from external", got.Mood, got.Source)
	}
}
