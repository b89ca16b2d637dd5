package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/AnshRaj112/mindjourney-backend/internal/analysis"
	"github.com/AnshRaj112/mindjourney-backend/internal/models"
	"github.com/AnshRaj112/mindjourney-backend/internal/storage"
	"github.com/AnshRaj112/mindjourney-backend/pkg/utils"
)

type fakeConn struct {
	mu       sync.Mutex
	events   []StatsEvent
	err      error
	deadline time.Time
	closed   bool
}

func (c *fakeConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	if ev, ok := v.(StatsEvent); ok {
		c.events = append(c.events, ev)
	}
	return nil
}

func (c *fakeConn) SetWriteDeadline(t time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deadline = t
	return nil
}

func (c *fakeConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

// stalledConn never drains: a write blocks until its deadline passes.
type stalledConn struct {
	fakeConn
}

func (c *stalledConn) WriteJSON(v interface{}) error {
	c.mu.Lock()
	deadline := c.deadline
	c.mu.Unlock()
	if deadline.IsZero() {
		return errors.New("write without deadline")
	}
	time.Sleep(time.Until(deadline))
	return errors.New("i/o timeout")
}

func (c *stalledConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

func (c *fakeConn) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.events)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []StatsEvent
}

func (p *recordingPublisher) PublishStats(ctx context.Context, ev StatsEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, ev)
	return nil
}

// failingStore fails to attach a completed analysis.
type failingStore struct {
	*storage.Memory
}

func (f failingStore) UpdateAnalysis(ctx context.Context, userID, id string, status models.AnalysisStatus, a *models.Analysis) error {
	if status == models.AnalysisComplete {
		return errors.New("write failed")
	}
	return f.Memory.UpdateAnalysis(ctx, userID, id, status, a)
}

func newJournalService(t *testing.T, store storage.JournalStore, images ImageStore) (*JournalService, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	cache := NewMemoryCache()
	stats := NewStatsService(store, cache, pub)
	return NewJournalService(store, analysis.New(), stats, images, cache), pub
}

func TestSafetyNote(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"I had a lovely day at the park", false},
		{"Sometimes I want to kill myself", true},
		{"I feel SUICIDAL tonight", true},
		{"thinking about s3lf h@rm again", true},
		{"I wanna diiiie", false},
		{"I want to diiie", true},
		{"my skill at work improved", false},
		{"better off dead, honestly", true},
	}
	for _, tt := range tests {
		got := SafetyNote(tt.text) != ""
		if got != tt.want {
			t.Errorf("SafetyNote(%q) flagged=%v, want %v (clean=%q)", tt.text, got, tt.want, CleanText(tt.text))
		}
	}
}

func TestCleanText(t *testing.T) {
	tests := map[string]string{
		"Hello,   World.": "helo world",
		"k1ll   mys3lf":    "kil myself",
		"":                 "",
	}
	for in, want := range tests {
		if got := CleanText(in); got != want {
			t.Errorf("CleanText(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	if err := c.Set(ctx, "k", map[string]int{"a": 1}, time.Minute); err != nil {
		t.Fatal(err)
	}
	var got map[string]int
	if ok, err := c.Get(ctx, "k", &got); !ok || err != nil || got["a"] != 1 {
		t.Fatalf("Get = %v, %v, %v", ok, err, got)
	}
	now = now.Add(time.Minute)
	if ok, _ := c.Get(ctx, "k", &got); ok {
		t.Error("expired item returned")
	}
}

func TestStatsHubFanOut(t *testing.T) {
	hub := NewStatsHub()
	a, b, other := &fakeConn{}, &fakeConn{}, &fakeConn{}
	hub.Register("u1", a)
	hub.Register("u1", b)
	hub.Register("u2", other)

	_ = hub.PublishStats(context.Background(), StatsEvent{Type: EventStatsUpdated, UserID: "u1"})
	if a.count() != 1 || b.count() != 1 {
		t.Errorf("u1 connections got %d and %d events, want 1 each", a.count(), b.count())
	}
	if other.count() != 0 {
		t.Error("event leaked to another user")
	}

	hub.Unregister("u1", a)
	hub.Unregister("u1", a)
	if hub.Connections("u1") != 1 {
		t.Errorf("connections = %d, want 1", hub.Connections("u1"))
	}
	hub.FanOut(StatsEvent{UserID: "u1"})
	if a.count() != 1 || b.count() != 2 {
		t.Errorf("after unregister: a=%d b=%d", a.count(), b.count())
	}
}

func TestStatsHubFanOutStalledConn(t *testing.T) {
	hub := NewStatsHub()
	hub.writeWait = 20 * time.Millisecond
	stalled, healthy := &stalledConn{}, &fakeConn{}
	hub.Register("u1", stalled)
	hub.Register("u1", healthy)

	done := make(chan struct{})
	go func() {
		hub.FanOut(StatsEvent{Type: EventStatsUpdated, UserID: "u1"})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("FanOut blocked on a stalled connection")
	}

	if healthy.count() != 1 {
		t.Errorf("healthy connection got %d events, want 1", healthy.count())
	}
	if !stalled.isClosed() {
		t.Error("stalled connection was not closed")
	}
	healthy.mu.Lock()
	deadline := healthy.deadline
	healthy.mu.Unlock()
	if deadline.IsZero() {
		t.Error("no write deadline set before writing")
	}
}

func TestCreateEntryRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	svc, pub := newJournalService(t, store, nil)
	_ = store.SaveDraft(ctx, &models.Draft{UserID: "u1", Text: "half written"})

	res, err := svc.CreateEntry(ctx, "u1", NewEntry{Text: "I feel happy and grateful today", Template: "gratitude"}, time.UTC)
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	e := res.Entry
	if e.WordCount != 6 || e.CharCount != len("I feel happy and grateful today") {
		t.Errorf("counts = %d/%d", e.WordCount, e.CharCount)
	}
	if e.AnalysisStatus != models.AnalysisComplete || e.Mood() != models.MoodHappy {
		t.Errorf("status=%s mood=%s", e.AnalysisStatus, e.Mood())
	}
	if e.TemplateTitle == "" {
		t.Error("template title not filled from template key")
	}
	if e.SupportMessage != "" {
		t.Error("unexpected support message")
	}
	if res.Stats.TotalEntries != 1 || res.Stats.CurrentStreak != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}

	list, total, err := svc.ListEntries(ctx, "u1", 10, 0)
	if err != nil || total != 1 {
		t.Fatalf("ListEntries = %d, %v", total, err)
	}
	if list[0].Text != e.Text || list[0].WordCount != e.WordCount || list[0].CharCount != e.CharCount {
		t.Errorf("listed entry differs: %+v", list[0])
	}
	if _, err := store.Draft(ctx, "u1"); !errors.Is(err, storage.ErrNotFound) {
		t.Error("draft not cleared after save")
	}
	if len(pub.events) != 1 || pub.events[0].UserID != "u1" || pub.events[0].Stats.TotalEntries != 1 {
		t.Errorf("published = %+v", pub.events)
	}
}

func TestCreateEntryValidation(t *testing.T) {
	svc, _ := newJournalService(t, storage.NewMemory(), nil)
	ctx := context.Background()

	tests := []struct {
		name  string
		in    NewEntry
		field string
	}{
		{"blank text", NewEntry{Text: "   \n"}, "text"},
		{"not an image", NewEntry{Text: "x", Image: &ImageUpload{ContentType: "application/pdf", Size: 10}}, "image"},
		{"too large", NewEntry{Text: "x", Image: &ImageUpload{ContentType: "image/png", Size: models.MaxImageBytes + 1}}, "image"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateEntry(ctx, "u1", tt.in, time.UTC)
			var ve *utils.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("err = %v, want validation error on %s", err, tt.field)
			}
		})
	}

	_, err := svc.CreateEntry(ctx, "u1", NewEntry{Text: "x", Image: &ImageUpload{ContentType: "image/png", Size: 1, Body: strings.NewReader("p")}}, time.UTC)
	if !errors.Is(err, ErrImagesDisabled) {
		t.Errorf("err = %v, want ErrImagesDisabled", err)
	}
}

func TestCreateEntryAnalysisFailureKeepsEntry(t *testing.T) {
	ctx := context.Background()
	store := failingStore{storage.NewMemory()}
	svc, _ := newJournalService(t, store, nil)

	res, err := svc.CreateEntry(ctx, "u1", NewEntry{Text: "so tired and exhausted"}, time.UTC)
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if res.Entry.AnalysisStatus != models.AnalysisFailed {
		t.Errorf("status = %s, want failed", res.Entry.AnalysisStatus)
	}
	saved, err := store.Entry(ctx, "u1", res.Entry.ID)
	if err != nil {
		t.Fatal(err)
	}
	if saved.AnalysisStatus != models.AnalysisFailed || saved.Text != "so tired and exhausted" {
		t.Errorf("saved = %+v", saved)
	}
}

func TestRetryAnalysis(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemory()
	svc, _ := newJournalService(t, mem, nil)

	e := models.NewJournalEntry("e1", "u1", "I am so angry and furious", "", "", time.Now())
	_ = mem.InsertEntry(ctx, e)

	got, err := svc.RetryAnalysis(ctx, "u1", "e1")
	if err != nil {
		t.Fatal(err)
	}
	if got.AnalysisStatus != models.AnalysisComplete || got.Mood() != models.MoodAngry {
		t.Errorf("status=%s mood=%s", got.AnalysisStatus, got.Mood())
	}
	if _, err := svc.RetryAnalysis(ctx, "u2", "e1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("cross-user retry err = %v", err)
	}
}

func TestIdempotencyKeyReplays(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	svc, _ := newJournalService(t, store, nil)

	in := NewEntry{Text: "same thing twice", IdempotencyKey: "abc"}
	first, err := svc.CreateEntry(ctx, "u1", in, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.CreateEntry(ctx, "u1", in, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if !second.Replayed || second.Entry.ID != first.Entry.ID {
		t.Errorf("second create = %+v, want replay of %s", second, first.Entry.ID)
	}
	if _, total, _ := store.ListEntries(ctx, "u1", 0, 0); total != 1 {
		t.Errorf("stored %d entries, want 1", total)
	}

	// Without a key duplicates are stored.
	_, _ = svc.CreateEntry(ctx, "u1", NewEntry{Text: "dup"}, time.UTC)
	_, _ = svc.CreateEntry(ctx, "u1", NewEntry{Text: "dup"}, time.UTC)
	if _, total, _ := store.ListEntries(ctx, "u1", 0, 0); total != 3 {
		t.Errorf("stored %d entries, want 3", total)
	}
}

func TestCreateEntryWithLocalImage(t *testing.T) {
	dir := t.TempDir()
	images, err := NewLocalImages(dir, "/uploads")
	if err != nil {
		t.Fatal(err)
	}
	svc, _ := newJournalService(t, storage.NewMemory(), images)

	res, err := svc.CreateEntry(context.Background(), "u1", NewEntry{
		Text:  "a picture of the sea",
		Image: &ImageUpload{Filename: "sea.PNG", ContentType: "image/png", Size: 4, Body: strings.NewReader("\x89PNG")},
	}, time.UTC)
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if !strings.HasPrefix(res.Entry.ImageURL, "/uploads/") || !strings.HasSuffix(res.Entry.ImageURL, ".png") {
		t.Fatalf("ImageURL = %q", res.Entry.ImageURL)
	}
	data, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(res.Entry.ImageURL, "/uploads/")))
	if err != nil || string(data) != "\x89PNG" {
		t.Errorf("stored image = %q, %v", data, err)
	}
}

func TestCreateMood(t *testing.T) {
	ctx := context.Background()
	svc, pub := newJournalService(t, storage.NewMemory(), nil)

	if _, _, err := svc.CreateMood(ctx, "u1", "ecstatic", "", nil, time.UTC); err == nil {
		t.Fatal("accepted unknown mood")
	}
	m, stats, err := svc.CreateMood(ctx, "u1", "Tired", "", []string{" Work ", "work", "sleep"}, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if m.Mood != models.MoodTired || m.Emoji != models.MoodTired.Emoji() {
		t.Errorf("mood = %+v", m)
	}
	if len(m.Tags) != 2 || m.Tags[0] != "work" {
		t.Errorf("tags = %v", m.Tags)
	}
	if stats.MoodEntries != 1 || stats.CurrentStreak != 1 {
		t.Errorf("stats = %+v", stats)
	}
	if len(pub.events) != 1 {
		t.Errorf("published %d events", len(pub.events))
	}
}

func TestStatsCacheInvalidatedOnWrite(t *testing.T) {
	ctx := context.Background()
	store := storage.NewMemory()
	svc, _ := newJournalService(t, store, nil)

	before, err := svc.stats.Stats(ctx, "u1", time.UTC)
	if err != nil || before.TotalEntries != 0 {
		t.Fatalf("before = %+v, %v", before, err)
	}
	// Written behind the service's back: cache still serves the old value.
	_ = store.InsertEntry(ctx, models.NewJournalEntry("x", "u1", "hidden", "", "", time.Now()))
	if cached, _ := svc.stats.Stats(ctx, "u1", time.UTC); cached.TotalEntries != 0 {
		t.Errorf("cache bypassed: %+v", cached)
	}
	res, err := svc.CreateEntry(ctx, "u1", NewEntry{Text: "visible"}, time.UTC)
	if err != nil {
		t.Fatal(err)
	}
	if res.Stats.TotalEntries != 2 {
		t.Errorf("after write stats = %+v, want 2 entries", res.Stats)
	}
}

func TestSaveDraft(t *testing.T) {
	ctx := context.Background()
	svc, _ := newJournalService(t, storage.NewMemory(), nil)

	d, err := svc.SaveDraft(ctx, "u1", models.Draft{UserID: "spoofed", Text: "draft"})
	if err != nil || d.UserID != "u1" {
		t.Fatalf("SaveDraft = %+v, %v", d, err)
	}
	if _, err := svc.SaveDraft(ctx, "u1", models.Draft{Text: "  "}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Draft(ctx, "u1"); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("blank save should discard, err = %v", err)
	}
}

// deadlineStore fails like a network store once the call's context is done.
type deadlineStore struct {
	*storage.Memory
}

func (d deadlineStore) UpdateAnalysis(ctx context.Context, userID, id string, status models.AnalysisStatus, a *models.Analysis) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.Memory.UpdateAnalysis(ctx, userID, id, status, a)
}

func (d deadlineStore) DeleteDraft(ctx context.Context, userID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.Memory.DeleteDraft(ctx, userID)
}

func (d deadlineStore) ListEntries(ctx context.Context, userID string, limit, skip int) ([]models.JournalEntry, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	return d.Memory.ListEntries(ctx, userID, limit, skip)
}

func (d deadlineStore) ListMoods(ctx context.Context, userID string, limit, skip int) ([]models.MoodEntry, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	return d.Memory.ListMoods(ctx, userID, limit, skip)
}

type slowClassifier struct {
	delay time.Duration
}

func (s slowClassifier) Classify(ctx context.Context, text string) (models.Mood, error) {
	select {
	case <-time.After(s.delay):
		return models.MoodTired, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func TestCreateEntrySurvivesSlowClassifier(t *testing.T) {
	store := deadlineStore{storage.NewMemory()}
	cache := NewMemoryCache()
	stats := NewStatsService(store, cache, nil)
	analyzer := analysis.New(analysis.WithClassifier(slowClassifier{delay: 80 * time.Millisecond}), analysis.WithTimeout(time.Second))
	svc := NewJournalService(store, analyzer, stats, nil, cache)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	res, err := svc.CreateEntry(ctx, "u1", NewEntry{Text: "long day"}, time.UTC)
	if err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	if res.Stats.TotalEntries != 1 {
		t.Errorf("stats = %+v", res.Stats)
	}

	saved, err := store.Entry(context.Background(), "u1", res.Entry.ID)
	if err != nil {
		t.Fatal(err)
	}
	if saved.AnalysisStatus != models.AnalysisComplete || saved.Mood() != models.MoodTired {
		t.Errorf("saved entry status %q mood %q, want complete/tired", saved.AnalysisStatus, saved.Mood())
	}
}
