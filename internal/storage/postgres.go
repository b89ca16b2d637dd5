package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
)

var _ UserStore = (*PostgresUsers)(nil)

// uniqueViolation is the Postgres SQLSTATE for a unique index conflict.
const uniqueViolation = "23505"

// PostgresUsers stores accounts in the users table.
type PostgresUsers struct {
	db *sql.DB
}

// NewPostgresUsers wraps an open pool. The schema comes from database.InitPostgresTables.
func NewPostgresUsers(db *sql.DB) *PostgresUsers {
	return &PostgresUsers{db: db}
}

const userColumns = `id, name, email, password_hash, provider, subject, settings, created_at`

func (s *PostgresUsers) CreateUser(ctx context.Context, u *models.User) error {
	settings, err := json.Marshal(u.Settings)
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}

	err = s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, name, email, password_hash, provider, subject, settings)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`, u.ID, u.Name, nullString(strings.ToLower(u.Email)), nullString(u.PasswordHash),
		u.Provider, nullString(u.Subject), settings).Scan(&u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *PostgresUsers) UserByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE LOWER(email) = LOWER($1) AND is_active = TRUE
	`, email)
	return scanUser(row)
}

func (s *PostgresUsers) UserByID(ctx context.Context, id string) (*models.User, error) {
	parsedID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrNotFound
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT `+userColumns+` FROM users WHERE id = $1 AND is_active = TRUE
	`, parsedID)
	return scanUser(row)
}

// UpsertExternalUser finds or creates the account for an identity provider
// subject. When the email already belongs to another account the external
// user is stored without one.
func (s *PostgresUsers) UpsertExternalUser(ctx context.Context, provider, subject, email, name string) (*models.User, error) {
	settings, err := json.Marshal(models.DefaultSettings())
	if err != nil {
		return nil, err
	}
	u, err := s.upsertExternal(ctx, provider, subject, nullString(strings.ToLower(email)), name, settings)
	if isUniqueViolation(err) && email != "" {
		u, err = s.upsertExternal(ctx, provider, subject, sql.NullString{}, name, settings)
	}
	if isUniqueViolation(err) {
		return nil, ErrDuplicate
	}
	return u, err
}

func (s *PostgresUsers) upsertExternal(ctx context.Context, provider, subject string, email sql.NullString, name string, settings []byte) (*models.User, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, name, email, provider, subject, settings)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (provider, subject) WHERE subject IS NOT NULL
		DO UPDATE SET email = COALESCE(EXCLUDED.email, users.email)
		RETURNING `+userColumns,
		uuid.NewString(), name, email, provider, subject, settings)
	return scanUser(row)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

func (s *PostgresUsers) UpdateSettings(ctx context.Context, id string, settings models.Settings) error {
	raw, err := json.Marshal(settings)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `UPDATE users SET settings = $2 WHERE id = $1`, id, raw)
	if err != nil {
		return fmt.Errorf("update settings: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u                    models.User
		email, hash, subject sql.NullString
		rawSettings          []byte
	)
	err := row.Scan(&u.ID, &u.Name, &email, &hash, &u.Provider, &subject, &rawSettings, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	u.Email = email.String
	u.PasswordHash = hash.String
	u.Subject = subject.String
	u.Settings = models.DefaultSettings()
	if len(rawSettings) > 0 {
		if err := json.Unmarshal(rawSettings, &u.Settings); err != nil {
			return nil, fmt.Errorf("decode settings: %w", err)
		}
	}
	return &u, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
