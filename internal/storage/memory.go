package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
)

var (
	_ UserStore    = (*Memory)(nil)
	_ JournalStore = (*Memory)(nil)
)

// Memory is a process-local store used for development and tests.
type Memory struct {
	mu      sync.RWMutex
	users   map[string]*models.User
	entries map[string]*models.JournalEntry
	moods   map[string]*models.MoodEntry
	drafts  map[string]*models.Draft
}

// NewMemory returns an empty store.
func NewMemory() *Memory {
	return &Memory{
		users:   make(map[string]*models.User),
		entries: make(map[string]*models.JournalEntry),
		moods:   make(map[string]*models.MoodEntry),
		drafts:  make(map[string]*models.Draft),
	}
}

func (m *Memory) CreateUser(ctx context.Context, u *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u.Email != "" {
		for _, existing := range m.users {
			if strings.EqualFold(existing.Email, u.Email) {
				return ErrDuplicate
			}
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *Memory) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Email != "" && strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (m *Memory) UserByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *Memory) UpsertExternalUser(ctx context.Context, provider, subject, email, name string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	email = strings.ToLower(email)
	for _, u := range m.users {
		if u.Provider == provider && u.Subject == subject {
			if email != "" && !m.emailTakenLocked(email, u.ID) {
				u.Email = email
			}
			cp := *u
			return &cp, nil
		}
	}
	if email != "" && m.emailTakenLocked(email, "") {
		email = ""
	}
	u := &models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Provider:  provider,
		Subject:   subject,
		Settings:  models.DefaultSettings(),
		CreatedAt: time.Now().UTC(),
	}
	m.users[u.ID] = u
	cp := *u
	return &cp, nil
}

// emailTakenLocked reports whether a user other than exceptID holds email.
func (m *Memory) emailTakenLocked(email, exceptID string) bool {
	for id, u := range m.users {
		if id != exceptID && u.Email != "" && strings.EqualFold(u.Email, email) {
			return true
		}
	}
	return false
}

func (m *Memory) UpdateSettings(ctx context.Context, id string, s models.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Settings = s
	return nil
}

func (m *Memory) InsertEntry(ctx context.Context, e *models.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.entries[e.ID]; ok {
		return ErrDuplicate
	}
	cp := *e
	m.entries[e.ID] = &cp
	return nil
}

func (m *Memory) UpdateAnalysis(ctx context.Context, userID, id string, status models.AnalysisStatus, a *models.Analysis) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok || e.UserID != userID {
		return ErrNotFound
	}
	e.AnalysisStatus = status
	if a != nil {
		cp := *a
		e.Analysis = &cp
	}
	return nil
}

func (m *Memory) Entry(ctx context.Context, userID, id string) (*models.JournalEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.entries[id]
	if !ok || e.UserID != userID {
		return nil, ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (m *Memory) ListEntries(ctx context.Context, userID string, limit, skip int) ([]models.JournalEntry, int64, error) {
	m.mu.RLock()
	var out []models.JournalEntry
	for _, e := range m.entries {
		if e.UserID == userID {
			out = append(out, *e)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	total := int64(len(out))
	return page(out, limit, skip), total, nil
}

func (m *Memory) InsertMood(ctx context.Context, me *models.MoodEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *me
	m.moods[me.ID] = &cp
	return nil
}

func (m *Memory) ListMoods(ctx context.Context, userID string, limit, skip int) ([]models.MoodEntry, int64, error) {
	m.mu.RLock()
	var out []models.MoodEntry
	for _, me := range m.moods {
		if me.UserID == userID {
			out = append(out, *me)
		}
	}
	m.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	total := int64(len(out))
	return page(out, limit, skip), total, nil
}

func (m *Memory) SaveDraft(ctx context.Context, d *models.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *d
	m.drafts[d.UserID] = &cp
	return nil
}

func (m *Memory) Draft(ctx context.Context, userID string) (*models.Draft, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.drafts[userID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *Memory) DeleteDraft(ctx context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, userID)
	return nil
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
