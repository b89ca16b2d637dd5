package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/mindjourney-backend/internal/analysis"
	"github.com/AnshRaj112/mindjourney-backend/internal/logging"
	"github.com/AnshRaj112/mindjourney-backend/internal/metrics"
	"github.com/AnshRaj112/mindjourney-backend/internal/models"
	"github.com/AnshRaj112/mindjourney-backend/internal/recommend"
	"github.com/AnshRaj112/mindjourney-backend/internal/storage"
)

// IdempotencyTTL is how long an Idempotency-Key maps to its entry.
const IdempotencyTTL = 10 * time.Minute

// followUpTimeout bounds each store call made once an entry is already saved.
const followUpTimeout = 5 * time.Second

// ErrImagesDisabled is returned when an image is attached but no image store is configured.
var ErrImagesDisabled = errors.New("image uploads are not configured")

// ImageUpload is an attachment as received from the client.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// NewEntry is the input of CreateEntry.
type NewEntry struct {
	Text           string
	Template       string
	TemplateTitle  string
	Image          *ImageUpload
	IdempotencyKey string
}

// CreateResult is a saved entry plus the user's refreshed stats.
type CreateResult struct {
	Entry    *models.JournalEntry
	Stats    models.Stats
	Replayed bool
}

// JournalService owns entry, mood and draft writes for authenticated users.
type JournalService struct {
	store    storage.JournalStore
	analyzer *analysis.Analyzer
	stats    *StatsService
	images   ImageStore
	cache    Cache
	now      func() time.Time
}

func NewJournalService(store storage.JournalStore, analyzer *analysis.Analyzer, stats *StatsService, images ImageStore, cache Cache) *JournalService {
	return &JournalService{
		store:    store,
		analyzer: analyzer,
		stats:    stats,
		images:   images,
		cache:    cache,
		now:      time.Now,
	}
}

// CreateEntry validates and saves an entry, attaches its analysis in a second
// write, clears the draft and refreshes stats.
func (s *JournalService) CreateEntry(ctx context.Context, userID string, in NewEntry, loc *time.Location) (*CreateResult, error) {
	if err := models.ValidateEntryText(in.Text); err != nil {
		return nil, err
	}
	if in.Image != nil {
		if err := models.ValidateImage(in.Image.ContentType, in.Image.Size); err != nil {
			return nil, err
		}
		if s.images == nil {
			return nil, ErrImagesDisabled
		}
	}

	idemKey := ""
	if k := strings.TrimSpace(in.IdempotencyKey); k != "" {
		idemKey = CacheKey("idem", userID+":"+k)
		if res, ok := s.replay(ctx, userID, idemKey, loc); ok {
			return res, nil
		}
	}

	template, title := strings.TrimSpace(in.Template), strings.TrimSpace(in.TemplateTitle)
	if template != "" && title == "" {
		if t, ok := recommend.LookupTemplate(template); ok {
			title = t.Title
		}
	}

	entry := models.NewJournalEntry(uuid.NewString(), userID, in.Text, template, title, s.now().UTC())
	entry.SupportMessage = SafetyNote(in.Text)

	if in.Image != nil {
		url, err := s.images.SaveImage(ctx, userID, in.Image.Filename, in.Image.ContentType, in.Image.Body)
		if err != nil {
			return nil, fmt.Errorf("save image: %w", err)
		}
		entry.ImageURL = url
	}

	if err := s.store.InsertEntry(ctx, entry); err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}
	metrics.EntriesCreated.Inc()

	s.attachAnalysis(ctx, entry)

	// The entry exists now. The remaining writes must not inherit a
	// deadline the classifier may already have used up.
	fctx, cancel := followUp(ctx)
	defer cancel()

	if err := s.store.DeleteDraft(fctx, userID); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("failed to clear draft after save")
	}
	if idemKey != "" {
		if err := s.cache.Set(fctx, idemKey, entry.ID, IdempotencyTTL); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("failed to store idempotency key")
		}
	}

	stats, err := s.stats.Refresh(fctx, userID, loc)
	if err != nil {
		return nil, err
	}
	return &CreateResult{Entry: entry, Stats: stats}, nil
}

func followUp(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), followUpTimeout)
}

func (s *JournalService) replay(ctx context.Context, userID, idemKey string, loc *time.Location) (*CreateResult, bool) {
	var entryID string
	ok, err := s.cache.Get(ctx, idemKey, &entryID)
	if err != nil || !ok {
		return nil, false
	}
	entry, err := s.store.Entry(ctx, userID, entryID)
	if err != nil {
		return nil, false
	}
	stats, err := s.stats.Stats(ctx, userID, loc)
	if err != nil {
		return nil, false
	}
	return &CreateResult{Entry: entry, Stats: stats, Replayed: true}, true
}

// attachAnalysis scores the entry and records the outcome on it. A failed
// update leaves the entry saved with status failed.
func (s *JournalService) attachAnalysis(ctx context.Context, entry *models.JournalEntry) {
	a := s.analyzer.Analyze(ctx, entry.Text)

	wctx, cancel := followUp(ctx)
	defer cancel()
	if err := s.store.UpdateAnalysis(wctx, entry.UserID, entry.ID, models.AnalysisComplete, &a); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("entry_id", entry.ID).Msg("failed to attach analysis")
		entry.AnalysisStatus = models.AnalysisFailed
		fctx, cancel := followUp(ctx)
		defer cancel()
		if err := s.store.UpdateAnalysis(fctx, entry.UserID, entry.ID, models.AnalysisFailed, nil); err != nil {
			logging.Ctx(ctx).Error().Err(err).Str("entry_id", entry.ID).Msg("failed to mark analysis failed")
		}
		return
	}
	entry.AnalysisStatus = models.AnalysisComplete
	entry.Analysis = &a
}

// RetryAnalysis re-runs analysis for an entry that is not complete.
func (s *JournalService) RetryAnalysis(ctx context.Context, userID, entryID string) (*models.JournalEntry, error) {
	entry, err := s.store.Entry(ctx, userID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.AnalysisStatus == models.AnalysisComplete {
		return entry, nil
	}
	s.attachAnalysis(ctx, entry)
	return entry, nil
}

// Entry returns one of the user's entries.
func (s *JournalService) Entry(ctx context.Context, userID, entryID string) (*models.JournalEntry, error) {
	return s.store.Entry(ctx, userID, entryID)
}

// ListEntries returns the user's entries newest first.
func (s *JournalService) ListEntries(ctx context.Context, userID string, limit, skip int) ([]models.JournalEntry, int64, error) {
	return s.store.ListEntries(ctx, userID, limit, skip)
}

// CreateMood validates and saves a check-in and refreshes stats.
func (s *JournalService) CreateMood(ctx context.Context, userID, mood, emoji string, tags []string, loc *time.Location) (*models.MoodEntry, models.Stats, error) {
	m, err := models.ValidateMood(mood)
	if err != nil {
		return nil, models.Stats{}, err
	}

	entry := models.NewMoodEntry(uuid.NewString(), userID, m, strings.TrimSpace(emoji), tags, s.now().UTC(), loc)
	if err := s.store.InsertMood(ctx, entry); err != nil {
		return nil, models.Stats{}, fmt.Errorf("insert mood: %w", err)
	}
	metrics.MoodsLogged.WithLabelValues(string(m)).Inc()

	fctx, cancel := followUp(ctx)
	defer cancel()
	stats, err := s.stats.Refresh(fctx, userID, loc)
	if err != nil {
		return nil, models.Stats{}, err
	}
	return entry, stats, nil
}

// ListMoods returns the user's check-ins newest first.
func (s *JournalService) ListMoods(ctx context.Context, userID string, limit, skip int) ([]models.MoodEntry, int64, error) {
	return s.store.ListMoods(ctx, userID, limit, skip)
}

// SaveDraft replaces the user's draft. Blank text discards it instead.
func (s *JournalService) SaveDraft(ctx context.Context, userID string, d models.Draft) (*models.Draft, error) {
	if strings.TrimSpace(d.Text) == "" {
		return nil, s.store.DeleteDraft(ctx, userID)
	}
	d.UserID = userID
	d.UpdatedAt = s.now().UTC()
	if err := s.store.SaveDraft(ctx, &d); err != nil {
		return nil, err
	}
	return &d, nil
}

// Draft loads the user's draft or storage.ErrNotFound.
func (s *JournalService) Draft(ctx context.Context, userID string) (*models.Draft, error) {
	return s.store.Draft(ctx, userID)
}

// DiscardDraft deletes the user's draft.
func (s *JournalService) DiscardDraft(ctx context.Context, userID string) error {
	return s.store.DeleteDraft(ctx, userID)
}
