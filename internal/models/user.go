package models

import (
	"time"
)

// Auth providers a user can come from.
const (
	ProviderLocal = "local"
	ProviderOIDC  = "oidc"
)

// Settings are display preferences. They are stored only; the server never applies them.
type Settings struct {
	Theme       string `json:"theme" validate:"omitempty,oneof=light dark"`
	ColorScheme string `json:"color_scheme" validate:"omitempty,oneof=blue green purple orange pink"`
	TextSize    string `json:"text_size" validate:"omitempty,oneof=small medium large"`
}

// DefaultSettings are applied at registration.
func DefaultSettings() Settings {
	return Settings{Theme: "light", ColorScheme: "blue", TextSize: "medium"}
}

// User is a registered or externally authenticated account.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Provider  string    `json:"provider"`
	Subject   string    `json:"-"`
	Settings  Settings  `json:"settings"`
	CreatedAt time.Time `json:"created_at"`

	// Internal only - never returned in JSON
	PasswordHash string `json:"-"`
}

// Public is the profile subset returned to clients and written to exports.
func (u *User) Public() map[string]interface{} {
	return map[string]interface{}{
		"id":         u.ID,
		"name":       u.Name,
		"email":      u.Email,
		"provider":   u.Provider,
		"settings":   u.Settings,
		"created_at": u.CreatedAt,
	}
}
