package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
	"github.com/AnshRaj112/mindjourney-backend/internal/recommend"
	"github.com/AnshRaj112/mindjourney-backend/internal/services"
	"github.com/AnshRaj112/mindjourney-backend/internal/storage"
	"github.com/AnshRaj112/mindjourney-backend/internal/validation"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100

	// maxMultipartMemory is held in memory before the form spills to disk.
	maxMultipartMemory = 8 << 20
	// maxUploadBody caps a multipart entry: the image limit plus room for text fields.
	maxUploadBody = models.MaxImageBytes + 1<<20
)

type CreateJournalRequest struct {
	Text          string `json:"text"`
	Template      string `json:"template"`
	TemplateTitle string `json:"templateTitle"`
}

type CreateMoodRequest struct {
	Mood  string   `json:"mood" validate:"required,oneof=happy sad anxious angry tired neutral"`
	Emoji string   `json:"emoji"`
	Tags  []string `json:"tags"`
}

type SaveDraftRequest struct {
	Text     string `json:"text"`
	Template string `json:"template"`
	ImageURL string `json:"image_url"`
}

// JournalHandler serves entries, mood check-ins and drafts for the caller.
type JournalHandler struct {
	journal *services.JournalService
}

func NewJournalHandler(journal *services.JournalService) *JournalHandler {
	return &JournalHandler{journal: journal}
}

// CreateEntry accepts multipart/form-data (text, template, templateTitle,
// image) or a JSON body.
func (h *JournalHandler) CreateEntry(w http.ResponseWriter, r *http.Request) {
	in, cleanup, ok := h.parseNewEntry(w, r)
	if !ok {
		return
	}
	defer cleanup()
	in.IdempotencyKey = r.Header.Get("Idempotency-Key")

	ctx, cancel := storeContext(r)
	defer cancel()

	res, err := h.journal.CreateEntry(ctx, identity(r).UserID, in, requestLocation(r))
	if err != nil {
		writeServiceError(w, r, err, "Failed to save journal entry")
		return
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	writeSuccess(w, status, "Journal entry saved", envelope{
		"entry": res.Entry,
		"stats": res.Stats,
	})
}

func (h *JournalHandler) parseNewEntry(w http.ResponseWriter, r *http.Request) (services.NewEntry, func(), bool) {
	noop := func() {}
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		var req CreateJournalRequest
		if !decodeJSON(w, r, &req) {
			return services.NewEntry{}, noop, false
		}
		return services.NewEntry{Text: req.Text, Template: req.Template, TemplateTitle: req.TemplateTitle}, noop, true
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBody)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid form data or image too large (max 5MB)")
		return services.NewEntry{}, noop, false
	}
	cleanup := func() { r.MultipartForm.RemoveAll() }

	in := services.NewEntry{
		Text:          r.FormValue("text"),
		Template:      r.FormValue("template"),
		TemplateTitle: r.FormValue("templateTitle"),
	}

	file, header, err := r.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile):
	case err != nil:
		cleanup()
		writeError(w, http.StatusBadRequest, "Failed to read image")
		return services.NewEntry{}, noop, false
	default:
		in.Image = &services.ImageUpload{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Size:        header.Size,
			Body:        file,
		}
		cleanup = func() {
			file.Close()
			r.MultipartForm.RemoveAll()
		}
	}
	return in, cleanup, true
}

// ListEntries returns a page of the caller's entries, newest first.
func (h *JournalHandler) ListEntries(w http.ResponseWriter, r *http.Request) {
	limit, skip := paging(r, defaultPageSize, maxPageSize)

	ctx, cancel := storeContext(r)
	defer cancel()

	entries, total, err := h.journal.ListEntries(ctx, identity(r).UserID, limit, skip)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load journal entries")
		return
	}
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	writeSuccess(w, http.StatusOK, "", envelope{"entries": entries, "total": total})
}

// GetEntry returns one entry owned by the caller.
func (h *JournalHandler) GetEntry(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()

	entry, err := h.journal.Entry(ctx, identity(r).UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "Failed to load journal entry")
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"entry": entry})
}

// RetryAnalysis re-runs analysis for an entry left pending or failed.
func (h *JournalHandler) RetryAnalysis(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()

	entry, err := h.journal.RetryAnalysis(ctx, identity(r).UserID, chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err, "Failed to analyze journal entry")
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"entry": entry})
}

// Templates lists the guided journaling templates.
func (h *JournalHandler) Templates(w http.ResponseWriter, r *http.Request) {
	writeSuccess(w, http.StatusOK, "", envelope{"templates": recommend.Templates})
}

// GetDraft returns the caller's draft, or null when there is none.
func (h *JournalHandler) GetDraft(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()

	draft, err := h.journal.Draft(ctx, identity(r).UserID)
	if errors.Is(err, storage.ErrNotFound) {
		writeSuccess(w, http.StatusOK, "", envelope{"draft": nil})
		return
	}
	if err != nil {
		writeServiceError(w, r, err, "Failed to load draft")
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"draft": draft})
}

// SaveDraft replaces the caller's draft. Blank text discards it.
func (h *JournalHandler) SaveDraft(w http.ResponseWriter, r *http.Request) {
	var req SaveDraftRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	draft, err := h.journal.SaveDraft(ctx, identity(r).UserID, models.Draft{
		Text:     req.Text,
		Template: req.Template,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		writeServiceError(w, r, err, "Failed to save draft")
		return
	}
	if draft == nil {
		writeSuccess(w, http.StatusOK, "Draft discarded", envelope{"draft": nil})
		return
	}
	writeSuccess(w, http.StatusOK, "Draft saved", envelope{"draft": draft})
}

// DiscardDraft deletes the caller's draft.
func (h *JournalHandler) DiscardDraft(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()

	if err := h.journal.DiscardDraft(ctx, identity(r).UserID); err != nil {
		writeServiceError(w, r, err, "Failed to discard draft")
		return
	}
	writeSuccess(w, http.StatusOK, "Draft discarded", nil)
}

// ListMoods returns a page of the caller's mood check-ins, newest first.
func (h *JournalHandler) ListMoods(w http.ResponseWriter, r *http.Request) {
	limit, skip := paging(r, defaultPageSize, maxPageSize)

	ctx, cancel := storeContext(r)
	defer cancel()

	moods, total, err := h.journal.ListMoods(ctx, identity(r).UserID, limit, skip)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load mood entries")
		return
	}
	if moods == nil {
		moods = []models.MoodEntry{}
	}
	writeSuccess(w, http.StatusOK, "", envelope{"moods": moods, "total": total})
}

// CreateMood logs a mood check-in.
func (h *JournalHandler) CreateMood(w http.ResponseWriter, r *http.Request) {
	var req CreateMoodRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.Mood = strings.ToLower(strings.TrimSpace(req.Mood))
	if err := validation.Struct(req); err != nil {
		writeServiceError(w, r, err, "Invalid mood")
		return
	}

	ctx, cancel := storeContext(r)
	defer cancel()

	mood, stats, err := h.journal.CreateMood(ctx, identity(r).UserID, req.Mood, req.Emoji, req.Tags, requestLocation(r))
	if err != nil {
		writeServiceError(w, r, err, "Failed to save mood")
		return
	}
	writeSuccess(w, http.StatusCreated, "Mood logged", envelope{"mood": mood, "stats": stats})
}
