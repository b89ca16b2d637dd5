package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
	"github.com/AnshRaj112/mindjourney-backend/internal/storage"
	"github.com/AnshRaj112/mindjourney-backend/pkg/utils"
)

func newTestService(t *testing.T) (*Service, *MultiAuthenticator, *storage.Memory) {
	t.Helper()
	jwtm, err := NewJWTManager("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	users := storage.NewMemory()
	sessions := NewMemorySessions()
	return NewService(users, jwtm, sessions), NewMultiAuthenticator(NewJWTAuthenticator(jwtm, sessions)), users
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	if _, err := NewJWTManager("", time.Hour); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestJWTRoundTrip(t *testing.T) {
	m, _ := NewJWTManager("s3cret", time.Hour)
	token, sid, err := m.GenerateToken("user-1")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Subject != "user-1" || claims.ID != sid {
		t.Errorf("claims = %+v, want sub user-1 jti %s", claims, sid)
	}

	other, _ := NewJWTManager("different", time.Hour)
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("token verified with wrong secret")
	}
}

func TestJWTExpired(t *testing.T) {
	m, _ := NewJWTManager("s3cret", time.Minute)
	issued := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return issued }
	token, _, err := m.GenerateToken("user-1")
	if err != nil {
		t.Fatal(err)
	}
	m.now = func() time.Time { return issued.Add(2 * time.Minute) }
	if _, err := m.ValidateToken(token); err == nil {
		t.Error("expired token accepted")
	}
}

func TestRegisterLoginLogout(t *testing.T) {
	ctx := context.Background()
	svc, authn, _ := newTestService(t)

	user, token, err := svc.Register(ctx, "  Ann ", "Ann@Example.com", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Name != "Ann" || user.Email != "ann@example.com" {
		t.Errorf("user = %+v", user)
	}
	if user.Settings != models.DefaultSettings() {
		t.Errorf("settings = %+v, want defaults", user.Settings)
	}

	id, err := authn.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if id.UserID != user.ID {
		t.Errorf("identity user = %s, want %s", id.UserID, user.ID)
	}

	if _, _, err := svc.Login(ctx, "ann@example.com", "wrong-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "secret1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v", err)
	}
	_, token2, err := svc.Login(ctx, "ANN@example.com", "secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := svc.Logout(ctx, id); err != nil {
		t.Fatal(err)
	}
	if _, err := authn.Authenticate(ctx, token); !errors.Is(err, ErrSessionRevoked) {
		t.Errorf("after logout err = %v, want ErrSessionRevoked", err)
	}
	if _, err := authn.Authenticate(ctx, token2); err != nil {
		t.Errorf("second session should survive: %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, users := newTestService(t)

	tests := []struct {
		name, email, password, field string
	}{
		{"bad email", "not-an-email", "secret1", "email"},
		{"short password", "a@example.com", "12345", "password"},
		{"empty password", "a@example.com", "", "password"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := svc.Register(ctx, "A", tt.email, tt.password)
			var ve *utils.ValidationError
			if !errors.As(err, &ve) || ve.Field != tt.field {
				t.Fatalf("err = %v, want validation error on %s", err, tt.field)
			}
		})
	}

	if _, _, err := svc.Register(ctx, "A", "dup@example.com", "secret1"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := svc.Register(ctx, "B", "dup@example.com", "secret2"); !errors.Is(err, storage.ErrDuplicate) {
		t.Fatalf("duplicate err = %v, want storage.ErrDuplicate", err)
	}
	u, err := users.UserByEmail(ctx, "dup@example.com")
	if err != nil || u.Name != "A" {
		t.Errorf("stored user = %+v, %v; want first registration", u, err)
	}
}

type fakeVerifier struct {
	claims *ExternalClaims
	err    error
}

func (f fakeVerifier) Verify(ctx context.Context, raw string) (*ExternalClaims, error) {
	if raw != "id-token" {
		return nil, errors.New("bad token")
	}
	return f.claims, f.err
}

func TestMultiAuthenticatorFallsThroughToOIDC(t *testing.T) {
	ctx := context.Background()
	jwtm, _ := NewJWTManager("s", time.Hour)
	users := storage.NewMemory()
	oidcAuth := NewOIDCAuthenticator(fakeVerifier{claims: &ExternalClaims{Subject: "g-1", Email: "G@Example.com", Name: "Gee"}}, users)
	m := NewMultiAuthenticator(NewJWTAuthenticator(jwtm, NewMemorySessions()), oidcAuth)

	id, err := m.Authenticate(ctx, "id-token")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if id.Provider != models.ProviderOIDC || id.SessionID != "" {
		t.Errorf("identity = %+v", id)
	}
	again, _ := m.Authenticate(ctx, "id-token")
	if again.UserID != id.UserID {
		t.Error("same subject mapped to two users")
	}
	u, _ := users.UserByID(ctx, id.UserID)
	if u.Email != "g@example.com" || u.Name != "Gee" {
		t.Errorf("upserted user = %+v", u)
	}

	if _, err := m.Authenticate(ctx, "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("garbage err = %v, want ErrInvalidToken", err)
	}
	if _, err := m.Authenticate(ctx, ""); !errors.Is(err, ErrNoToken) {
		t.Errorf("empty err = %v, want ErrNoToken", err)
	}
}

func TestMemorySessionsExpire(t *testing.T) {
	ctx := context.Background()
	s := NewMemorySessions()
	now := time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	_ = s.Create(ctx, "sid", "u1", time.Minute)
	if uid, err := s.Lookup(ctx, "sid"); err != nil || uid != "u1" {
		t.Fatalf("Lookup = %q, %v", uid, err)
	}
	now = now.Add(time.Minute)
	if _, err := s.Lookup(ctx, "sid"); !errors.Is(err, ErrSessionRevoked) {
		t.Errorf("expired Lookup err = %v", err)
	}
}

func TestIdentityContext(t *testing.T) {
	if FromContext(context.Background()) != nil {
		t.Error("empty context returned identity")
	}
	ctx := WithIdentity(context.Background(), &Identity{UserID: "u"})
	if got := FromContext(ctx); got == nil || got.UserID != "u" {
		t.Errorf("FromContext = %+v", got)
	}
}
