package utils

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"testing"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("secret1")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	ok, err := VerifyPassword("secret1", hash)
	if err != nil || !ok {
		t.Fatalf("VerifyPassword(correct) = %v, %v", ok, err)
	}

	ok, err = VerifyPassword("secret2", hash)
	if err != nil || ok {
		t.Fatalf("VerifyPassword(wrong) = %v, %v", ok, err)
	}

	if _, err := VerifyPassword("x", "not-a-hash"); err == nil {
		t.Fatal("expected error for malformed hash")
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		wantErr  bool
	}{
		{"", true},
		{"12345", true},
		{"123456", false},
		{"a much longer password", false},
		// counted in characters, not bytes
		{"ééé", true},
		{"密码密码密", true},
		{"pässwö", false},
	}
	for _, tt := range tests {
		err := ValidatePassword(tt.password)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
		}
		var ve *ValidationError
		if err != nil && !errors.As(err, &ve) {
			t.Errorf("ValidatePassword(%q) returned %T, want *ValidationError", tt.password, err)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	tests := map[string]bool{
		"a@b.co":         false,
		"":               true,
		"nobody":         true,
		"Name <a@b.com>": true,
	}
	for email, wantErr := range tests {
		if err := ValidateEmail(email); (err != nil) != wantErr {
			t.Errorf("ValidateEmail(%q) error = %v, wantErr %v", email, err, wantErr)
		}
	}
}

func TestNormalizeName(t *testing.T) {
	if got := NormalizeName("   "); got != DefaultName {
		t.Errorf("NormalizeName(blank) = %q, want %q", got, DefaultName)
	}
	if got := NormalizeName(" Ada "); got != "Ada" {
		t.Errorf("NormalizeName = %q, want Ada", got)
	}
}

func TestSealerRoundTrip(t *testing.T) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}
	s, err := NewSealer(base64.StdEncoding.EncodeToString(key))
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}

	sealed, err := s.Seal("dear diary")
	if err != nil {
		t.Fatalf("Seal: %v", err)
	}
	if sealed == "dear diary" {
		t.Fatal("Seal returned plaintext")
	}
	opened, err := s.Open(sealed)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened != "dear diary" {
		t.Errorf("Open = %q", opened)
	}
}

func TestNewSealerRejectsBadKeys(t *testing.T) {
	for _, k := range []string{"", "not base64!!", base64.StdEncoding.EncodeToString([]byte("short"))} {
		if _, err := NewSealer(k); err == nil {
			t.Errorf("NewSealer(%q) succeeded", k)
		}
	}
}
