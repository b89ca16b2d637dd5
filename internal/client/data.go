package client

import (
	"bytes"
	"context"
	"errors"
	"mime"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/AnshRaj112/mindjourney-backend/internal/analysis"
	"github.com/AnshRaj112/mindjourney-backend/internal/insights"
	"github.com/AnshRaj112/mindjourney-backend/internal/models"
	"github.com/AnshRaj112/mindjourney-backend/internal/recommend"
	"github.com/AnshRaj112/mindjourney-backend/internal/services"
)

// remotePageSize is the page size used to pull a user's full history.
const remotePageSize = 100

// Image is an attachment read by the caller.
type Image struct {
	Filename    string
	ContentType string
	Data        []byte
}

// NewEntry is the input of CreateEntry.
type NewEntry struct {
	Text           string
	Template       string
	TemplateTitle  string
	Image          *Image
	IdempotencyKey string
}

// CreateEntry saves a journal entry to wherever the session keeps data.
func (c *Client) CreateEntry(ctx context.Context, in NewEntry) (*EntryResult, error) {
	s, p, err := c.active()
	if err != nil {
		return nil, err
	}
	if err := models.ValidateEntryText(in.Text); err != nil {
		return nil, err
	}
	if in.Image != nil {
		if in.Image.ContentType == "" {
			in.Image.ContentType = mime.TypeByExtension(filepath.Ext(in.Image.Filename))
		}
		if err := models.ValidateImage(in.Image.ContentType, int64(len(in.Image.Data))); err != nil {
			return nil, err
		}
	}

	if s.Remote() {
		var res *EntryResult
		err := c.remote(ctx, p, func(bearer string) (err error) {
			res, err = c.api.CreateEntry(ctx, bearer, in)
			return err
		})
		return res, err
	}
	return c.createLocalEntry(s.User.ID, in)
}

func (c *Client) createLocalEntry(userID string, in NewEntry) (*EntryResult, error) {
	template, title := strings.TrimSpace(in.Template), strings.TrimSpace(in.TemplateTitle)
	if template != "" && title == "" {
		if t, ok := recommend.LookupTemplate(template); ok {
			title = t.Title
		}
	}

	entry := models.NewJournalEntry(uuid.NewString(), userID, in.Text, template, title, c.now().UTC())
	entry.SupportMessage = services.SafetyNote(in.Text)

	if in.Image != nil {
		name := userKey(keyImages, userID) + "-" + entry.ID + strings.ToLower(filepath.Ext(in.Image.Filename))
		path, err := c.local.writeStream(name, bytes.NewReader(in.Image.Data))
		if err != nil {
			return nil, err
		}
		entry.ImageURL = "file://" + path
	}

	a := analysis.New(analysis.WithCatalog(c.catalog())).ScoreText(in.Text)
	entry.Analysis = &a
	entry.AnalysisStatus = models.AnalysisComplete

	entries := c.localEntries(userID)
	entries = append([]models.JournalEntry{*entry}, entries...)
	if err := c.local.writeJSON(userKey(keyEntries, userID), entries); err != nil {
		return nil, err
	}
	if err := c.local.erase(userKey(keyDraft, userID)); err != nil {
		return nil, err
	}

	stats := insights.ComputeStats(entries, c.localMoods(userID), c.now(), c.loc)
	return &EntryResult{Entry: *entry, Stats: stats}, nil
}

// ListEntries returns entries newest first. A limit of 0 means all.
func (c *Client) ListEntries(ctx context.Context, limit, skip int) ([]models.JournalEntry, int, error) {
	s, p, err := c.active()
	if err != nil {
		return nil, 0, err
	}
	if !s.Remote() {
		all := c.localEntries(s.User.ID)
		return page(all, limit, skip), len(all), nil
	}
	if limit <= 0 {
		all, err := c.allRemoteEntries(ctx, p)
		return all, len(all), err
	}
	var (
		out   []models.JournalEntry
		total int
	)
	err = c.remote(ctx, p, func(bearer string) (err error) {
		out, total, err = c.api.ListEntries(ctx, bearer, limit, skip)
		return err
	})
	return out, total, err
}

// RetryAnalysis re-runs analysis on a server entry. Local entries are always analyzed.
func (c *Client) RetryAnalysis(ctx context.Context, id string) (*models.JournalEntry, error) {
	s, p, err := c.active()
	if err != nil {
		return nil, err
	}
	if !s.Remote() {
		for _, e := range c.localEntries(s.User.ID) {
			if e.ID == id {
				return &e, nil
			}
		}
		return nil, &APIError{Status: 404, Message: "Not found"}
	}
	var entry *models.JournalEntry
	err = c.remote(ctx, p, func(bearer string) (err error) {
		entry, err = c.api.RetryAnalysis(ctx, bearer, id)
		return err
	})
	return entry, err
}

// CreateMood logs a check-in.
func (c *Client) CreateMood(ctx context.Context, mood, emoji string, tags []string) (*MoodResult, error) {
	s, p, err := c.active()
	if err != nil {
		return nil, err
	}
	m, err := models.ValidateMood(mood)
	if err != nil {
		return nil, err
	}

	if s.Remote() {
		var res *MoodResult
		err := c.remote(ctx, p, func(bearer string) (err error) {
			res, err = c.api.CreateMood(ctx, bearer, string(m), emoji, tags)
			return err
		})
		return res, err
	}

	userID := s.User.ID
	entry := models.NewMoodEntry(uuid.NewString(), userID, m, strings.TrimSpace(emoji), tags, c.now().UTC(), c.loc)
	moods := append([]models.MoodEntry{*entry}, c.localMoods(userID)...)
	if err := c.local.writeJSON(userKey(keyMoods, userID), moods); err != nil {
		return nil, err
	}
	stats := insights.ComputeStats(c.localEntries(userID), moods, c.now(), c.loc)
	return &MoodResult{Mood: *entry, Stats: stats}, nil
}

// ListMoods returns check-ins newest first. A limit of 0 means all.
func (c *Client) ListMoods(ctx context.Context, limit, skip int) ([]models.MoodEntry, int, error) {
	s, p, err := c.active()
	if err != nil {
		return nil, 0, err
	}
	if !s.Remote() {
		all := c.localMoods(s.User.ID)
		return page(all, limit, skip), len(all), nil
	}
	if limit <= 0 {
		all, err := c.allRemoteMoods(ctx, p)
		return all, len(all), err
	}
	var (
		out   []models.MoodEntry
		total int
	)
	err = c.remote(ctx, p, func(bearer string) (err error) {
		out, total, err = c.api.ListMoods(ctx, bearer, limit, skip)
		return err
	})
	return out, total, err
}

// Insights returns the dashboard aggregates.
func (c *Client) Insights(ctx context.Context) (*models.Insights, error) {
	s, p, err := c.active()
	if err != nil {
		return nil, err
	}
	if !s.Remote() {
		ins := insights.Build(c.localEntries(s.User.ID), c.localMoods(s.User.ID), c.now(), c.loc)
		return &ins, nil
	}
	var out *models.Insights
	err = c.remote(ctx, p, func(bearer string) (err error) {
		out, err = c.api.Insights(ctx, bearer)
		return err
	})
	return out, err
}

// Export builds the one-way export document.
func (c *Client) Export(ctx context.Context) (*models.Export, error) {
	s, p, err := c.active()
	if err != nil {
		return nil, err
	}
	if !s.Remote() {
		doc := insights.BuildExport(models.ExportUser{ID: s.User.ID, Name: s.User.Name},
			c.localEntries(s.User.ID), c.localMoods(s.User.ID), c.now(), c.loc)
		return &doc, nil
	}
	var out *models.Export
	err = c.remote(ctx, p, func(bearer string) (err error) {
		out, err = c.api.Export(ctx, bearer)
		return err
	})
	return out, err
}

// SaveDraft replaces the draft. Blank text discards it.
func (c *Client) SaveDraft(ctx context.Context, d models.Draft) error {
	s, p, err := c.active()
	if err != nil {
		return err
	}
	if s.Remote() {
		return c.remote(ctx, p, func(bearer string) error {
			return c.api.SaveDraft(ctx, bearer, d)
		})
	}
	key := userKey(keyDraft, s.User.ID)
	if strings.TrimSpace(d.Text) == "" {
		return c.local.erase(key)
	}
	d.UserID = s.User.ID
	d.UpdatedAt = c.now().UTC()
	return c.local.writeJSON(key, d)
}

// LoadDraft returns the draft, or nil when there is none.
func (c *Client) LoadDraft(ctx context.Context) (*models.Draft, error) {
	s, p, err := c.active()
	if err != nil {
		return nil, err
	}
	if !s.Remote() {
		var d models.Draft
		if !c.local.readJSON(userKey(keyDraft, s.User.ID), &d) {
			return nil, nil
		}
		return &d, nil
	}
	var d *models.Draft
	err = c.remote(ctx, p, func(bearer string) (err error) {
		d, err = c.api.Draft(ctx, bearer)
		return err
	})
	return d, err
}

// DiscardDraft deletes the draft.
func (c *Client) DiscardDraft(ctx context.Context) error {
	s, p, err := c.active()
	if err != nil {
		return err
	}
	if s.Remote() {
		return c.remote(ctx, p, func(bearer string) error {
			return c.api.DiscardDraft(ctx, bearer)
		})
	}
	return c.local.erase(userKey(keyDraft, s.User.ID))
}

// Templates lists the guided journaling templates. They are built in, so no
// session is needed.
func (c *Client) Templates() []recommend.Template {
	return recommend.Templates
}

func (c *Client) localEntries(userID string) []models.JournalEntry {
	var out []models.JournalEntry
	c.local.readJSON(userKey(keyEntries, userID), &out)
	return out
}

func (c *Client) localMoods(userID string) []models.MoodEntry {
	var out []models.MoodEntry
	c.local.readJSON(userKey(keyMoods, userID), &out)
	return out
}

func (c *Client) allRemoteEntries(ctx context.Context, p Provider) ([]models.JournalEntry, error) {
	var all []models.JournalEntry
	for {
		var batch []models.JournalEntry
		var total int
		err := c.remote(ctx, p, func(bearer string) (err error) {
			batch, total, err = c.api.ListEntries(ctx, bearer, remotePageSize, len(all))
			return err
		})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) == 0 || len(all) >= total {
			return all, nil
		}
	}
}

func (c *Client) allRemoteMoods(ctx context.Context, p Provider) ([]models.MoodEntry, error) {
	var all []models.MoodEntry
	for {
		var batch []models.MoodEntry
		var total int
		err := c.remote(ctx, p, func(bearer string) (err error) {
			batch, total, err = c.api.ListMoods(ctx, bearer, remotePageSize, len(all))
			return err
		})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) == 0 || len(all) >= total {
			return all, nil
		}
	}
}

func page[T any](in []T, limit, skip int) []T {
	if skip < 0 {
		skip = 0
	}
	if skip >= len(in) {
		return []T{}
	}
	in = in[skip:]
	if limit > 0 && limit < len(in) {
		in = in[:limit]
	}
	return in
}

// IsUnauthorized reports whether err forced a logout.
func IsUnauthorized(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
