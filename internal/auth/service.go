package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/AnshRaj112/mindjourney-backend/internal/logging"
	"github.com/AnshRaj112/mindjourney-backend/internal/models"
	"github.com/AnshRaj112/mindjourney-backend/internal/storage"
	"github.com/AnshRaj112/mindjourney-backend/pkg/utils"
)

// Service implements registration, login and logout for local accounts.
type Service struct {
	users    storage.UserStore
	jwt      *JWTManager
	sessions SessionRegistry
}

func NewService(users storage.UserStore, jwt *JWTManager, sessions SessionRegistry) *Service {
	return &Service{users: users, jwt: jwt, sessions: sessions}
}

// Register validates the profile, stores the user with default settings and
// opens a session. A taken email returns storage.ErrDuplicate.
func (s *Service) Register(ctx context.Context, name, email, password string) (*models.User, string, error) {
	email = utils.NormalizeEmail(email)
	if err := utils.ValidateEmail(email); err != nil {
		return nil, "", err
	}
	if err := utils.ValidatePassword(password); err != nil {
		return nil, "", err
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:         utils.NormalizeName(name),
		Email:        email,
		Provider:     models.ProviderLocal,
		Settings:     models.DefaultSettings(),
		PasswordHash: hash,
	}
	if err := s.users.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	logging.Ctx(ctx).Info().Str("user_id", user.ID).Msg("user registered")
	return user, token, nil
}

// Login checks the password and opens a new session.
func (s *Service) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	email = utils.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", &utils.ValidationError{Field: "email", Message: "Email and password are required"}
	}

	user, err := s.users.UserByEmail(ctx, email)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, "", ErrInvalidCredentials
	}
	if err != nil {
		return nil, "", err
	}
	if user.PasswordHash == "" {
		return nil, "", ErrInvalidCredentials
	}

	ok, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.openSession(ctx, user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Logout revokes the session behind id. External identities have none.
func (s *Service) Logout(ctx context.Context, id *Identity) error {
	if id == nil || id.SessionID == "" {
		return nil
	}
	return s.sessions.Revoke(ctx, id.SessionID)
}

func (s *Service) openSession(ctx context.Context, userID string) (string, error) {
	token, sessionID, err := s.jwt.GenerateToken(userID)
	if err != nil {
		return "", err
	}
	if err := s.sessions.Create(ctx, sessionID, userID, s.jwt.Timeout()); err != nil {
		return "", fmt.Errorf("create session: %w", err)
	}
	return token, nil
}
