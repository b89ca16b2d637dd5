package handlers

import (
	"net/http"

	"github.com/AnshRaj112/mindjourney-backend/internal/auth"
	"github.com/AnshRaj112/mindjourney-backend/internal/models"
	"github.com/AnshRaj112/mindjourney-backend/internal/storage"
	"github.com/AnshRaj112/mindjourney-backend/internal/validation"
	"github.com/AnshRaj112/mindjourney-backend/pkg/utils"
)

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthHandler serves /api/auth.
type AuthHandler struct {
	auth  *auth.Service
	users storage.UserStore
}

func NewAuthHandler(svc *auth.Service, users storage.UserStore) *AuthHandler {
	return &AuthHandler{auth: svc, users: users}
}

// Register creates a local account and returns a session token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = utils.NormalizeEmail(req.Email)
	if err := validation.Struct(req); err != nil {
		writeServiceError(w, r, err, "Invalid registration")
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	user, token, err := h.auth.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err, "Failed to create account")
		return
	}

	writeSuccess(w, http.StatusCreated, "Account created successfully", envelope{
		"token": token,
		"user":  user.Public(),
	})
}

// Login verifies credentials and returns a fresh session token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Email = utils.NormalizeEmail(req.Email)
	if err := validation.Struct(req); err != nil {
		writeServiceError(w, r, err, "Invalid sign in")
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	user, token, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err, "Failed to sign in")
		return
	}

	writeSuccess(w, http.StatusOK, "Signed in successfully", envelope{
		"token": token,
		"user":  user.Public(),
	})
}

// Logout revokes the caller's session.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()

	if err := h.auth.Logout(ctx, identity(r)); err != nil {
		writeServiceError(w, r, err, "Failed to sign out")
		return
	}
	writeSuccess(w, http.StatusOK, "Signed out successfully", nil)
}

// Me returns the caller's profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()

	user, err := h.users.UserByID(ctx, identity(r).UserID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load profile")
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"user": user.Public()})
}

// UpdateSettings replaces the caller's display preferences. Empty fields keep
// their current value.
func (h *AuthHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req models.Settings
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := validation.Struct(req); err != nil {
		writeServiceError(w, r, err, "Invalid settings")
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	userID := identity(r).UserID
	user, err := h.users.UserByID(ctx, userID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load profile")
		return
	}

	settings := user.Settings
	if req.Theme != "" {
		settings.Theme = req.Theme
	}
	if req.ColorScheme != "" {
		settings.ColorScheme = req.ColorScheme
	}
	if req.TextSize != "" {
		settings.TextSize = req.TextSize
	}

	if err := h.users.UpdateSettings(ctx, userID, settings); err != nil {
		writeServiceError(w, r, err, "Failed to update settings")
		return
	}
	writeSuccess(w, http.StatusOK, "Settings updated", envelope{"settings": settings})
}
