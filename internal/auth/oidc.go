package auth

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/zitadel/oidc/v3/pkg/client/rp"
	"github.com/zitadel/oidc/v3/pkg/oidc"
)

// ExternalClaims is the subset of a verified ID token used to map a user.
type ExternalClaims struct {
	Subject string
	Email   string
	Name    string
}

// IDTokenVerifier checks a raw ID token from an external provider.
type IDTokenVerifier interface {
	Verify(ctx context.Context, rawIDToken string) (*ExternalClaims, error)
}

// OIDCConfig configures the relying party used only for ID token verification.
type OIDCConfig struct {
	IssuerURL    string
	ClientID     string
	ClientSecret string
	HTTPClient   *http.Client
}

// ZitadelVerifier verifies ID tokens with the provider's discovered JWKS.
type ZitadelVerifier struct {
	rp rp.RelyingParty
}

// NewZitadelVerifier performs discovery against the issuer.
func NewZitadelVerifier(ctx context.Context, cfg OIDCConfig) (*ZitadelVerifier, error) {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: 30 * time.Second}
	}
	relyingParty, err := rp.NewRelyingPartyOIDC(ctx,
		cfg.IssuerURL,
		cfg.ClientID,
		cfg.ClientSecret,
		"",
		[]string{oidc.ScopeOpenID, oidc.ScopeProfile, oidc.ScopeEmail},
		rp.WithHTTPClient(cfg.HTTPClient),
	)
	if err != nil {
		return nil, fmt.Errorf("create relying party: %w", err)
	}
	return &ZitadelVerifier{rp: relyingParty}, nil
}

// Verify checks signature, issuer, audience and expiry.
func (v *ZitadelVerifier) Verify(ctx context.Context, rawIDToken string) (*ExternalClaims, error) {
	claims, err := rp.VerifyIDToken[*oidc.IDTokenClaims](ctx, rawIDToken, v.rp.IDTokenVerifier())
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	name := claims.Name
	if name == "" {
		name = claims.GivenName
	}
	return &ExternalClaims{
		Subject: claims.Subject,
		Email:   claims.Email,
		Name:    name,
	}, nil
}
