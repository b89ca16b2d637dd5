package services

import (
	"context"
	"fmt"
	"time"

	"github.com/AnshRaj112/mindjourney-backend/internal/insights"
	"github.com/AnshRaj112/mindjourney-backend/internal/logging"
	"github.com/AnshRaj112/mindjourney-backend/internal/models"
	"github.com/AnshRaj112/mindjourney-backend/internal/storage"
)

// StatsCacheTTL bounds how long cached stats live. Entries are also keyed by
// the calendar date so a cached streak never crosses midnight.
const StatsCacheTTL = time.Hour

type cachedStats struct {
	Date     string       `json:"date"`
	Timezone string       `json:"tz"`
	Stats    models.Stats `json:"stats"`
}

// StatsService computes per-user aggregates, caching the dashboard counters
// and publishing fresh values whenever a user writes.
type StatsService struct {
	store     storage.JournalStore
	cache     Cache
	publisher StatsPublisher
	now       func() time.Time
}

func NewStatsService(store storage.JournalStore, cache Cache, publisher StatsPublisher) *StatsService {
	return &StatsService{store: store, cache: cache, publisher: publisher, now: time.Now}
}

// Stats returns the counters for userID in loc, from cache when still valid.
func (s *StatsService) Stats(ctx context.Context, userID string, loc *time.Location) (models.Stats, error) {
	now := s.now()
	key := CacheKey("stats", userID)
	today := insights.DateOf(now, loc)

	var cached cachedStats
	if ok, err := s.cache.Get(ctx, key, &cached); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("stats cache read failed")
	} else if ok && cached.Date == today && cached.Timezone == loc.String() {
		return cached.Stats, nil
	}

	entries, moods, err := s.load(ctx, userID)
	if err != nil {
		return models.Stats{}, err
	}
	stats := insights.ComputeStats(entries, moods, now, loc)

	if err := s.cache.Set(ctx, key, cachedStats{Date: today, Timezone: loc.String(), Stats: stats}, StatsCacheTTL); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Msg("stats cache write failed")
	}
	return stats, nil
}

// Invalidate drops the cached counters for userID.
func (s *StatsService) Invalidate(ctx context.Context, userID string) {
	if err := s.cache.Delete(ctx, CacheKey("stats", userID)); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("user_id", userID).Msg("stats cache invalidate failed")
	}
}

// Refresh invalidates, recomputes and publishes a stats.updated event.
func (s *StatsService) Refresh(ctx context.Context, userID string, loc *time.Location) (models.Stats, error) {
	s.Invalidate(ctx, userID)
	stats, err := s.Stats(ctx, userID, loc)
	if err != nil {
		return models.Stats{}, err
	}
	if s.publisher != nil {
		event := StatsEvent{Type: EventStatsUpdated, UserID: userID, Stats: stats, Timestamp: s.now().UTC()}
		if err := s.publisher.PublishStats(ctx, event); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("publish stats event failed")
		}
	}
	return stats, nil
}

// Insights builds the full dashboard document. It is not cached.
func (s *StatsService) Insights(ctx context.Context, userID string, loc *time.Location) (models.Insights, error) {
	entries, moods, err := s.load(ctx, userID)
	if err != nil {
		return models.Insights{}, err
	}
	return insights.Build(entries, moods, s.now(), loc), nil
}

// Export assembles everything the user owns into one document.
func (s *StatsService) Export(ctx context.Context, user *models.User, loc *time.Location) (models.Export, error) {
	entries, moods, err := s.load(ctx, user.ID)
	if err != nil {
		return models.Export{}, err
	}
	profile := models.ExportUser{ID: user.ID, Name: user.Name, Email: user.Email}
	return insights.BuildExport(profile, entries, moods, s.now(), loc), nil
}

func (s *StatsService) load(ctx context.Context, userID string) ([]models.JournalEntry, []models.MoodEntry, error) {
	entries, _, err := s.store.ListEntries(ctx, userID, 0, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("list entries: %w", err)
	}
	moods, _, err := s.store.ListMoods(ctx, userID, 0, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("list moods: %w", err)
	}
	return entries, moods, nil
}
