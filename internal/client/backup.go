package client

import (
	"context"
	"errors"
	"time"

	"github.com/AnshRaj112/mindjourney-backend/internal/logging"
	"github.com/AnshRaj112/mindjourney-backend/internal/models"
)

const (
	// AutosaveInterval is how often the draft autosaver runs.
	AutosaveInterval = 30 * time.Second
	// BackupInterval is how often the backup snapshotter runs.
	BackupInterval = 5 * time.Minute
)

// ErrNoBackup is returned by RestoreBackup when no snapshot exists.
var ErrNoBackup = errors.New("no backup found")

// ErrLocalOnly is returned when restoring into a server-backed session.
var ErrLocalOnly = errors.New("backups can only be restored into an anonymous session")

// Backup is a client-local snapshot of a user's data.
type Backup struct {
	UserID    string                `json:"user_id"`
	CreatedAt time.Time             `json:"created_at"`
	Entries   []models.JournalEntry `json:"entries"`
	Moods     []models.MoodEntry    `json:"moods"`
	Draft     *models.Draft         `json:"draft,omitempty"`
}

// Backup snapshots the current user's entries, moods and draft into local storage.
func (c *Client) Backup(ctx context.Context) (*Backup, error) {
	s, _, err := c.active()
	if err != nil {
		return nil, err
	}
	entries, _, err := c.ListEntries(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	moods, _, err := c.ListMoods(ctx, 0, 0)
	if err != nil {
		return nil, err
	}
	draft, err := c.LoadDraft(ctx)
	if err != nil {
		return nil, err
	}

	b := &Backup{
		UserID:    s.User.ID,
		CreatedAt: c.now().UTC(),
		Entries:   entries,
		Moods:     moods,
		Draft:     draft,
	}
	if err := c.local.writeJSON(userKey(keyBackup, s.User.ID), b); err != nil {
		return nil, err
	}
	return b, nil
}

// LatestBackup returns the current user's snapshot, if any.
func (c *Client) LatestBackup() (*Backup, error) {
	s, _, err := c.active()
	if err != nil {
		return nil, err
	}
	var b Backup
	if !c.local.readJSON(userKey(keyBackup, s.User.ID), &b) {
		return nil, ErrNoBackup
	}
	return &b, nil
}

// RestoreBackup replaces local entries and moods with the snapshot.
func (c *Client) RestoreBackup(ctx context.Context) (*Backup, error) {
	s, _, err := c.active()
	if err != nil {
		return nil, err
	}
	if s.Remote() {
		return nil, ErrLocalOnly
	}
	b, err := c.LatestBackup()
	if err != nil {
		return nil, err
	}
	if b.Entries == nil {
		b.Entries = []models.JournalEntry{}
	}
	if b.Moods == nil {
		b.Moods = []models.MoodEntry{}
	}
	if err := c.local.writeJSON(userKey(keyEntries, s.User.ID), b.Entries); err != nil {
		return nil, err
	}
	if err := c.local.writeJSON(userKey(keyMoods, s.User.ID), b.Moods); err != nil {
		return nil, err
	}
	return b, nil
}

// DraftSource returns what the editor currently holds.
type DraftSource func() models.Draft

// Autosaver saves the editor's draft on a ticker, skipping unchanged content.
type Autosaver struct {
	client   *Client
	source   DraftSource
	interval time.Duration
	last     models.Draft
	saved    bool
}

func (c *Client) NewAutosaver(source DraftSource) *Autosaver {
	return &Autosaver{client: c, source: source, interval: AutosaveInterval}
}

// Run saves every interval until ctx is done or the session is lost.
func (a *Autosaver) Run(ctx context.Context) {
	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := a.SaveNow(ctx); err != nil {
				if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNoSession) {
					return
				}
				logging.Warn().Err(err).Msg("draft autosave failed")
			}
		}
	}
}

// SaveNow saves the current draft if it changed since the last save.
func (a *Autosaver) SaveNow(ctx context.Context) error {
	d := a.source()
	if a.saved && d.Text == a.last.Text && d.Template == a.last.Template && d.ImageURL == a.last.ImageURL {
		return nil
	}
	if err := a.client.SaveDraft(ctx, d); err != nil {
		return err
	}
	a.last, a.saved = d, true
	return nil
}

// RunBackups snapshots the user's data every interval until ctx is done.
// A non-positive interval uses BackupInterval.
func (c *Client) RunBackups(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = BackupInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.Backup(ctx); err != nil {
				if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNoSession) {
					return
				}
				logging.Warn().Err(err).Msg("scheduled backup failed")
			}
		}
	}
}
