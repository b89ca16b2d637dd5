package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
)

// Mode is how the current session reaches its data.
type Mode string

const (
	ModeAnonymous    Mode = "anonymous"
	ModeCredentialed Mode = "credentialed"
	ModeExternal     Mode = "external"
)

// Session is what survives a restart: the mode, the profile and whatever
// credential the mode needs.
type Session struct {
	Mode      Mode           `json:"mode"`
	User      models.User    `json:"user"`
	Token     string         `json:"token,omitempty"`
	External  *ExternalToken `json:"external,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// ExternalToken is the persisted form of an identity provider token.
type ExternalToken struct {
	OAuth2  *oauth2.Token `json:"oauth2"`
	IDToken string        `json:"id_token"`
}

// Remote reports whether the session's data lives on the server.
func (s *Session) Remote() bool {
	return s != nil && s.Mode != ModeAnonymous
}

// Provider supplies the bearer credential for one session mode.
type Provider interface {
	Mode() Mode
	// Bearer returns the token to send, or "" for local-only sessions.
	Bearer(ctx context.Context) (string, error)
}

// LocalProvider backs anonymous sessions. It never talks to the server.
type LocalProvider struct{}

func (LocalProvider) Mode() Mode { return ModeAnonymous }

func (LocalProvider) Bearer(context.Context) (string, error) { return "", nil }

// CredentialedProvider sends the JWT issued at login or registration.
type CredentialedProvider struct {
	token string
}

func NewCredentialedProvider(token string) *CredentialedProvider {
	return &CredentialedProvider{token: token}
}

func (p *CredentialedProvider) Mode() Mode { return ModeCredentialed }

func (p *CredentialedProvider) Bearer(context.Context) (string, error) {
	if p.token == "" {
		return "", ErrUnauthorized
	}
	return p.token, nil
}

// ErrNoIDToken is returned when the identity provider's token response has no id_token.
var ErrNoIDToken = errors.New("identity provider returned no id_token")

// ExternalProvider wraps an oauth2.TokenSource and sends the current ID token.
// Refreshes go through the identity provider.
type ExternalProvider struct {
	mu      sync.Mutex
	ts      oauth2.TokenSource
	idToken string
	current *oauth2.Token
}

// NewExternalProvider builds a provider from an initial token. cfg may be nil,
// in which case the token is used until it expires.
func NewExternalProvider(ctx context.Context, cfg *oauth2.Config, tok *oauth2.Token, idToken string) *ExternalProvider {
	var ts oauth2.TokenSource = oauth2.StaticTokenSource(tok)
	if cfg != nil {
		ts = cfg.TokenSource(ctx, tok)
	}
	if idToken == "" {
		idToken = idTokenOf(tok)
	}
	return &ExternalProvider{ts: oauth2.ReuseTokenSource(tok, ts), idToken: idToken, current: tok}
}

func (p *ExternalProvider) Mode() Mode { return ModeExternal }

func (p *ExternalProvider) Bearer(context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	tok, err := p.ts.Token()
	if err != nil {
		return "", err
	}
	if tok != p.current {
		p.current = tok
		if id := idTokenOf(tok); id != "" {
			p.idToken = id
		}
	}
	if p.idToken == "" {
		return "", ErrNoIDToken
	}
	return p.idToken, nil
}

// persisted is the state to write back after a refresh.
func (p *ExternalProvider) persisted() *ExternalToken {
	p.mu.Lock()
	defer p.mu.Unlock()
	return &ExternalToken{OAuth2: p.current, IDToken: p.idToken}
}

func idTokenOf(tok *oauth2.Token) string {
	if tok == nil {
		return ""
	}
	id, _ := tok.Extra("id_token").(string)
	return id
}
