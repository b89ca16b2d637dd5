package client

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
	"github.com/peterbourgon/diskv/v3"

	"github.com/AnshRaj112/mindjourney-backend/internal/logging"
)

// Local storage keys. Per-user keys are suffixed with "-<user id>".
const (
	keySession    = "session"
	keyEntries    = "entries"
	keyMoods      = "moods"
	keyDraft      = "draft"
	keyBackup     = "backup"
	keyImages     = "images"
	keyCustomRecs = "custom-recs"
	keyWelcomed   = "welcomed"
)

func userKey(prefix, userID string) string {
	return prefix + "-" + userID
}

// LocalStore is a flat key/value store on disk holding JSON documents.
type LocalStore struct {
	d        *diskv.Diskv
	basePath string
}

// NewLocalStore opens (and creates) a store rooted at basePath.
func NewLocalStore(basePath string) (*LocalStore, error) {
	if err := os.MkdirAll(basePath, 0o700); err != nil {
		return nil, err
	}
	return &LocalStore{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 1024 * 1024, // 1MB
			FilePerm:     0o600,
			PathPerm:     0o700,
		}),
		basePath: basePath,
	}, nil
}

// BasePath is the directory the store writes to.
func (s *LocalStore) BasePath() string { return s.basePath }

// readJSON decodes key into dest. A missing key reports false. A malformed
// document is logged and also reports false so callers treat it as empty.
func (s *LocalStore) readJSON(key string, dest interface{}) bool {
	data, err := s.d.Read(key)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logging.Warn().Err(err).Str("key", key).Msg("failed to read local data")
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("ignoring malformed local data")
		return false
	}
	return true
}

func (s *LocalStore) writeJSON(key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.d.Write(key, data)
}

func (s *LocalStore) erase(key string) error {
	if !s.d.Has(key) {
		return nil
	}
	return s.d.Erase(key)
}

func (s *LocalStore) has(key string) bool {
	return s.d.Has(key)
}

// writeStream stores raw bytes and returns the file path they landed at.
func (s *LocalStore) writeStream(key string, r io.Reader) (string, error) {
	if err := s.d.WriteStream(key, r, true); err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, key), nil
}
