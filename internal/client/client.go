// Package client is the MindJourney SDK: a session gate with anonymous,
// credentialed and external providers, local storage for anonymous use, and
// remote calls for signed-in users.
package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/AnshRaj112/mindjourney-backend/internal/logging"
	"github.com/AnshRaj112/mindjourney-backend/internal/models"
	"github.com/AnshRaj112/mindjourney-backend/internal/validation"
)

// ErrNoSession is returned by data calls made before any sign-in.
var ErrNoSession = errors.New("not signed in")

// keyAnonymousID keeps the locally generated id so anonymous data survives logout.
const keyAnonymousID = "anonymous-id"

// Options configures a Client.
type Options struct {
	// BaseURL of the server, e.g. http://localhost:8080.
	BaseURL string
	// DataDir holds the local store.
	DataDir string
	// HTTPClient defaults to one with DefaultTimeout.
	HTTPClient *http.Client
	// Location is the calendar used for dates and streaks. Defaults to time.Local.
	Location *time.Location
	// OAuth2 refreshes external sessions. Optional.
	OAuth2 *oauth2.Config
}

// Profile is the registration input.
type Profile struct {
	Name     string
	Email    string
	Password string
}

// Client is the session gate plus the data operations routed by mode.
type Client struct {
	api   *API
	local *LocalStore
	loc   *time.Location
	oauth *oauth2.Config
	now   func() time.Time

	mu       sync.RWMutex
	session  *Session
	provider Provider
}

func New(opts Options) (*Client, error) {
	local, err := NewLocalStore(opts.DataDir)
	if err != nil {
		return nil, err
	}
	loc := opts.Location
	if loc == nil {
		loc = time.Local
	}
	return &Client{
		api:   NewAPI(opts.BaseURL, opts.HTTPClient, loc.String()),
		local: local,
		loc:   loc,
		oauth: opts.OAuth2,
		now:   time.Now,
	}, nil
}

// Login signs in with email and password and persists the session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	token, user, err := c.api.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return c.start(&Session{Mode: ModeCredentialed, User: *user, Token: token}, NewCredentialedProvider(token))
}

// Register creates an account and signs in.
func (c *Client) Register(ctx context.Context, p Profile) (*Session, error) {
	token, user, err := c.api.Register(ctx, p.Name, p.Email, p.Password)
	if err != nil {
		return nil, err
	}
	return c.start(&Session{Mode: ModeCredentialed, User: *user, Token: token}, NewCredentialedProvider(token))
}

// ContinueAnonymously starts a local-only session. The anonymous id is
// reused across sessions on the same device.
func (c *Client) ContinueAnonymously() *Session {
	var id string
	if !c.local.readJSON(keyAnonymousID, &id) || id == "" {
		id = "anon-" + uuid.NewString()
		if err := c.local.writeJSON(keyAnonymousID, id); err != nil {
			logging.Warn().Err(err).Msg("failed to persist anonymous id")
		}
	}
	s, err := c.start(&Session{
		Mode: ModeAnonymous,
		User: models.User{ID: id, Name: "Guest", Settings: models.DefaultSettings()},
	}, LocalProvider{})
	if err != nil {
		logging.Warn().Err(err).Msg("failed to persist anonymous session")
	}
	return s
}

// LoginExternal signs in with a token from an identity provider. The server
// verifies the ID token and maps it to a user.
func (c *Client) LoginExternal(ctx context.Context, tok *oauth2.Token) (*Session, error) {
	p := NewExternalProvider(ctx, c.oauth, tok, "")
	bearer, err := p.Bearer(ctx)
	if err != nil {
		return nil, err
	}
	user, err := c.api.Me(ctx, bearer)
	if err != nil {
		return nil, err
	}
	return c.start(&Session{Mode: ModeExternal, User: *user, External: p.persisted()}, p)
}

// Logout ends the session locally and, for credentialed sessions, on the
// server. Server errors do not keep the local session alive.
func (c *Client) Logout(ctx context.Context) {
	c.mu.RLock()
	s, p := c.session, c.provider
	c.mu.RUnlock()

	if s != nil && s.Mode == ModeCredentialed {
		if bearer, err := p.Bearer(ctx); err == nil {
			if err := c.api.Logout(ctx, bearer); err != nil && !errors.Is(err, ErrUnauthorized) {
				logging.Warn().Err(err).Msg("server logout failed")
			}
		}
	}
	c.clearSession()
}

// CurrentSession returns a copy of the active session, or nil.
func (c *Client) CurrentSession() *Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

// Restore loads the persisted session, if any. A malformed record is treated
// as signed out.
func (c *Client) Restore(ctx context.Context) *Session {
	var s Session
	if !c.local.readJSON(keySession, &s) {
		return nil
	}

	var p Provider
	switch s.Mode {
	case ModeAnonymous:
		p = LocalProvider{}
	case ModeCredentialed:
		if s.Token == "" {
			return nil
		}
		p = NewCredentialedProvider(s.Token)
	case ModeExternal:
		if s.External == nil || s.External.OAuth2 == nil {
			return nil
		}
		p = NewExternalProvider(ctx, c.oauth, s.External.OAuth2, s.External.IDToken)
	default:
		logging.Warn().Str("mode", string(s.Mode)).Msg("ignoring persisted session with unknown mode")
		return nil
	}

	c.mu.Lock()
	c.session, c.provider = &s, p
	c.mu.Unlock()
	return c.CurrentSession()
}

func (c *Client) start(s *Session, p Provider) (*Session, error) {
	s.CreatedAt = c.now().UTC()
	c.mu.Lock()
	c.session, c.provider = s, p
	c.mu.Unlock()
	if err := c.local.writeJSON(keySession, s); err != nil {
		return c.CurrentSession(), err
	}
	return c.CurrentSession(), nil
}

func (c *Client) clearSession() {
	c.mu.Lock()
	c.session, c.provider = nil, nil
	c.mu.Unlock()
	if err := c.local.erase(keySession); err != nil {
		logging.Warn().Err(err).Msg("failed to clear persisted session")
	}
}

// active returns the session and provider or ErrNoSession.
func (c *Client) active() (*Session, Provider, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.session == nil {
		return nil, nil, ErrNoSession
	}
	s := *c.session
	return &s, c.provider, nil
}

// remote runs fn with the current bearer. A 401 forces a logout.
func (c *Client) remote(ctx context.Context, p Provider, fn func(bearer string) error) error {
	bearer, err := p.Bearer(ctx)
	if err == nil {
		err = fn(bearer)
	}
	if errors.Is(err, ErrUnauthorized) {
		logging.Info().Msg("session rejected by server, signing out")
		c.clearSession()
		return err
	}
	if ep, ok := p.(*ExternalProvider); ok && err == nil {
		c.persistExternal(ep)
	}
	return err
}

// persistExternal writes back a refreshed external token.
func (c *Client) persistExternal(p *ExternalProvider) {
	c.mu.Lock()
	if c.session == nil || c.provider != Provider(p) {
		c.mu.Unlock()
		return
	}
	ext := p.persisted()
	if c.session.External != nil && c.session.External.OAuth2 == ext.OAuth2 {
		c.mu.Unlock()
		return
	}
	c.session.External = ext
	s := *c.session
	c.mu.Unlock()

	if err := c.local.writeJSON(keySession, &s); err != nil {
		logging.Warn().Err(err).Msg("failed to persist refreshed token")
	}
}

// FirstRun reports true exactly once per data directory.
func (c *Client) FirstRun() bool {
	if c.local.has(keyWelcomed) {
		return false
	}
	if err := c.local.writeJSON(keyWelcomed, true); err != nil {
		logging.Warn().Err(err).Msg("failed to record welcome")
	}
	return true
}

// UpdateSettings stores display preferences. Empty fields keep their value.
func (c *Client) UpdateSettings(ctx context.Context, in models.Settings) (models.Settings, error) {
	s, p, err := c.active()
	if err != nil {
		return models.Settings{}, err
	}
	if err := validation.Struct(in); err != nil {
		return models.Settings{}, err
	}
	merged := mergeSettings(s.User.Settings, in)
	if s.Remote() {
		err = c.remote(ctx, p, func(bearer string) (err error) {
			merged, err = c.api.UpdateSettings(ctx, bearer, merged)
			return err
		})
		if err != nil {
			return models.Settings{}, err
		}
	}

	c.mu.Lock()
	if c.session == nil {
		c.mu.Unlock()
		return merged, nil
	}
	c.session.User.Settings = merged
	snapshot := *c.session
	c.mu.Unlock()
	return merged, c.local.writeJSON(keySession, &snapshot)
}

func mergeSettings(cur, in models.Settings) models.Settings {
	if in.Theme != "" {
		cur.Theme = in.Theme
	}
	if in.ColorScheme != "" {
		cur.ColorScheme = in.ColorScheme
	}
	if in.TextSize != "" {
		cur.TextSize = in.TextSize
	}
	return cur
}
