// Package storage defines the persistence contracts for users, journal
// entries, mood check-ins and drafts, with Postgres, MongoDB and in-memory
// implementations.
package storage

import (
	"context"
	"errors"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist for the caller.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key (email) is already taken.
	ErrDuplicate = errors.New("record already exists")
)

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, u *models.User) error
	UserByEmail(ctx context.Context, email string) (*models.User, error)
	UserByID(ctx context.Context, id string) (*models.User, error)
	UpsertExternalUser(ctx context.Context, provider, subject, email, name string) (*models.User, error)
	UpdateSettings(ctx context.Context, id string, s models.Settings) error
}

// EntryStore persists journal entries. Every read is scoped by user ID.
type EntryStore interface {
	InsertEntry(ctx context.Context, e *models.JournalEntry) error
	UpdateAnalysis(ctx context.Context, userID, id string, status models.AnalysisStatus, a *models.Analysis) error
	Entry(ctx context.Context, userID, id string) (*models.JournalEntry, error)
	// ListEntries returns newest first. A limit of 0 means no limit.
	ListEntries(ctx context.Context, userID string, limit, skip int) ([]models.JournalEntry, int64, error)
}

// MoodStore persists mood check-ins.
type MoodStore interface {
	InsertMood(ctx context.Context, m *models.MoodEntry) error
	// ListMoods returns newest first. A limit of 0 means no limit.
	ListMoods(ctx context.Context, userID string, limit, skip int) ([]models.MoodEntry, int64, error)
}

// DraftStore keeps at most one draft per user.
type DraftStore interface {
	SaveDraft(ctx context.Context, d *models.Draft) error
	Draft(ctx context.Context, userID string) (*models.Draft, error)
	DeleteDraft(ctx context.Context, userID string) error
}

// JournalStore groups the document stores used by the journal service.
type JournalStore interface {
	EntryStore
	MoodStore
	DraftStore
}
