package auth

import (
	"context"
	"errors"

	"github.com/AnshRaj112/mindjourney-backend/internal/logging"
	"github.com/AnshRaj112/mindjourney-backend/internal/models"
	"github.com/AnshRaj112/mindjourney-backend/internal/storage"
	"github.com/AnshRaj112/mindjourney-backend/pkg/utils"
)

// Authenticator turns a bearer token into an Identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*Identity, error)
	Name() string
}

// JWTAuthenticator accepts local session tokens whose session is still live.
type JWTAuthenticator struct {
	jwt      *JWTManager
	sessions SessionRegistry
}

func NewJWTAuthenticator(jwt *JWTManager, sessions SessionRegistry) *JWTAuthenticator {
	return &JWTAuthenticator{jwt: jwt, sessions: sessions}
}

func (a *JWTAuthenticator) Name() string { return "jwt" }

func (a *JWTAuthenticator) Authenticate(ctx context.Context, token string) (*Identity, error) {
	claims, err := a.jwt.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	userID, err := a.sessions.Lookup(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if userID != claims.Subject {
		return nil, ErrSessionRevoked
	}
	return &Identity{UserID: claims.Subject, SessionID: claims.ID, Provider: models.ProviderLocal}, nil
}

// OIDCAuthenticator accepts external ID tokens and upserts the matching user.
type OIDCAuthenticator struct {
	verifier IDTokenVerifier
	users    storage.UserStore
}

func NewOIDCAuthenticator(verifier IDTokenVerifier, users storage.UserStore) *OIDCAuthenticator {
	return &OIDCAuthenticator{verifier: verifier, users: users}
}

func (a *OIDCAuthenticator) Name() string { return "oidc" }

func (a *OIDCAuthenticator) Authenticate(ctx context.Context, token string) (*Identity, error) {
	claims, err := a.verifier.Verify(ctx, token)
	if err != nil {
		return nil, err
	}
	user, err := a.users.UpsertExternalUser(ctx, models.ProviderOIDC, claims.Subject,
		utils.NormalizeEmail(claims.Email), utils.NormalizeName(claims.Name))
	if err != nil {
		return nil, err
	}
	return &Identity{UserID: user.ID, Provider: models.ProviderOIDC}, nil
}

// MultiAuthenticator tries each authenticator in order. A revoked local
// session stops the chain so it cannot fall through to another method.
type MultiAuthenticator struct {
	authenticators []Authenticator
}

func NewMultiAuthenticator(authenticators ...Authenticator) *MultiAuthenticator {
	return &MultiAuthenticator{authenticators: authenticators}
}

func (m *MultiAuthenticator) Name() string { return "multi" }

func (m *MultiAuthenticator) Authenticate(ctx context.Context, token string) (*Identity, error) {
	if token == "" {
		return nil, ErrNoToken
	}
	for _, a := range m.authenticators {
		id, err := a.Authenticate(ctx, token)
		if err == nil {
			return id, nil
		}
		if errors.Is(err, ErrSessionRevoked) {
			return nil, err
		}
		logging.Ctx(ctx).Debug().Str("authenticator", a.Name()).Err(err).Msg("token rejected")
	}
	return nil, ErrInvalidToken
}
