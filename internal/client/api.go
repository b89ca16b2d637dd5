package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
	"github.com/AnshRaj112/mindjourney-backend/internal/recommend"
)

// DefaultTimeout bounds every call to the server.
const DefaultTimeout = 15 * time.Second

// ErrUnauthorized is returned for any 401. The gate treats it as a forced logout.
var ErrUnauthorized = errors.New("session expired or invalid")

// APIError is any other non-2xx response.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server returned %d", e.Status)
	}
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// API is a thin typed client for the HTTP server.
type API struct {
	baseURL string
	http    *http.Client
	tz      string
}

// NewAPI talks to baseURL. A nil httpClient gets DefaultTimeout. tz is sent as
// X-Timezone so date-based stats match the caller's calendar.
func NewAPI(baseURL string, httpClient *http.Client, tz string) *API {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	return &API{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient, tz: tz}
}

type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register creates an account and returns its token and profile.
func (a *API) Register(ctx context.Context, name, email, password string) (string, *models.User, error) {
	var out authResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := a.doJSON(ctx, http.MethodPost, "/api/auth/register", "", body, &out); err != nil {
		return "", nil, err
	}
	return out.Token, &out.User, nil
}

// Login exchanges credentials for a token and profile.
func (a *API) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	var out authResponse
	body := map[string]string{"email": email, "password": password}
	if err := a.doJSON(ctx, http.MethodPost, "/api/auth/login", "", body, &out); err != nil {
		return "", nil, err
	}
	return out.Token, &out.User, nil
}

func (a *API) Logout(ctx context.Context, bearer string) error {
	return a.doJSON(ctx, http.MethodPost, "/api/auth/logout", bearer, nil, nil)
}

func (a *API) Me(ctx context.Context, bearer string) (*models.User, error) {
	var out struct {
		User models.User `json:"user"`
	}
	if err := a.doJSON(ctx, http.MethodGet, "/api/auth/me", bearer, nil, &out); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (a *API) UpdateSettings(ctx context.Context, bearer string, s models.Settings) (models.Settings, error) {
	var out struct {
		Settings models.Settings `json:"settings"`
	}
	err := a.doJSON(ctx, http.MethodPut, "/api/auth/settings", bearer, s, &out)
	return out.Settings, err
}

// EntryResult is a saved entry plus the refreshed stats.
type EntryResult struct {
	Entry models.JournalEntry `json:"entry"`
	Stats models.Stats        `json:"stats"`
}

// CreateEntry posts JSON, or multipart when an image is attached.
func (a *API) CreateEntry(ctx context.Context, bearer string, in NewEntry) (*EntryResult, error) {
	var out EntryResult
	if in.Image == nil {
		body := map[string]string{"text": in.Text, "template": in.Template, "templateTitle": in.TemplateTitle}
		if err := a.doJSONWithKey(ctx, http.MethodPost, "/api/journal", bearer, in.IdempotencyKey, body, &out); err != nil {
			return nil, err
		}
		return &out, nil
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, v := range map[string]string{"text": in.Text, "template": in.Template, "templateTitle": in.TemplateTitle} {
		if err := mw.WriteField(name, v); err != nil {
			return nil, err
		}
	}
	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, in.Image.Filename))
	hdr.Set("Content-Type", in.Image.ContentType)
	part, err := mw.CreatePart(hdr)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(in.Image.Data); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := a.newRequest(ctx, http.MethodPost, "/api/journal", bearer, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if in.IdempotencyKey != "" {
		req.Header.Set("Idempotency-Key", in.IdempotencyKey)
	}
	if err := a.send(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) ListEntries(ctx context.Context, bearer string, limit, skip int) ([]models.JournalEntry, int, error) {
	var out struct {
		Entries []models.JournalEntry `json:"entries"`
		Total   int                   `json:"total"`
	}
	err := a.doJSON(ctx, http.MethodGet, "/api/journal?"+pageQuery(limit, skip), bearer, nil, &out)
	return out.Entries, out.Total, err
}

func (a *API) Entry(ctx context.Context, bearer, id string) (*models.JournalEntry, error) {
	var out struct {
		Entry models.JournalEntry `json:"entry"`
	}
	if err := a.doJSON(ctx, http.MethodGet, "/api/journal/"+url.PathEscape(id), bearer, nil, &out); err != nil {
		return nil, err
	}
	return &out.Entry, nil
}

func (a *API) RetryAnalysis(ctx context.Context, bearer, id string) (*models.JournalEntry, error) {
	var out struct {
		Entry models.JournalEntry `json:"entry"`
	}
	if err := a.doJSON(ctx, http.MethodPost, "/api/journal/"+url.PathEscape(id)+"/analysis", bearer, nil, &out); err != nil {
		return nil, err
	}
	return &out.Entry, nil
}

// MoodResult is a saved check-in plus the refreshed stats.
type MoodResult struct {
	Mood  models.MoodEntry `json:"mood"`
	Stats models.Stats     `json:"stats"`
}

func (a *API) CreateMood(ctx context.Context, bearer, mood, emoji string, tags []string) (*MoodResult, error) {
	var out MoodResult
	body := map[string]interface{}{"mood": mood, "emoji": emoji, "tags": tags}
	if err := a.doJSON(ctx, http.MethodPost, "/api/mood", bearer, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) ListMoods(ctx context.Context, bearer string, limit, skip int) ([]models.MoodEntry, int, error) {
	var out struct {
		Moods []models.MoodEntry `json:"moods"`
		Total int                `json:"total"`
	}
	err := a.doJSON(ctx, http.MethodGet, "/api/mood?"+pageQuery(limit, skip), bearer, nil, &out)
	return out.Moods, out.Total, err
}

func (a *API) Insights(ctx context.Context, bearer string) (*models.Insights, error) {
	var out struct {
		Insights models.Insights `json:"insights"`
	}
	if err := a.doJSON(ctx, http.MethodGet, "/api/insights", bearer, nil, &out); err != nil {
		return nil, err
	}
	return &out.Insights, nil
}

func (a *API) Export(ctx context.Context, bearer string) (*models.Export, error) {
	var out models.Export
	if err := a.doJSON(ctx, http.MethodGet, "/api/export", bearer, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Draft returns nil when the user has no draft.
func (a *API) Draft(ctx context.Context, bearer string) (*models.Draft, error) {
	var out struct {
		Draft *models.Draft `json:"draft"`
	}
	if err := a.doJSON(ctx, http.MethodGet, "/api/journal/draft", bearer, nil, &out); err != nil {
		return nil, err
	}
	return out.Draft, nil
}

func (a *API) SaveDraft(ctx context.Context, bearer string, d models.Draft) error {
	body := map[string]string{"text": d.Text, "template": d.Template, "image_url": d.ImageURL}
	return a.doJSON(ctx, http.MethodPost, "/api/journal/draft", bearer, body, nil)
}

func (a *API) DiscardDraft(ctx context.Context, bearer string) error {
	return a.doJSON(ctx, http.MethodDelete, "/api/journal/draft", bearer, nil, nil)
}

// Templates needs no session.
func (a *API) Templates(ctx context.Context) ([]recommend.Template, error) {
	var out struct {
		Templates []recommend.Template `json:"templates"`
	}
	err := a.doJSON(ctx, http.MethodGet, "/api/journal/templates", "", nil, &out)
	return out.Templates, err
}

func pageQuery(limit, skip int) string {
	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if skip > 0 {
		q.Set("skip", strconv.Itoa(skip))
	}
	return q.Encode()
}

func (a *API) doJSON(ctx context.Context, method, path, bearer string, body, out interface{}) error {
	return a.doJSONWithKey(ctx, method, path, bearer, "", body, out)
}

func (a *API) doJSONWithKey(ctx context.Context, method, path, bearer, idemKey string, body, out interface{}) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(data)
	}
	req, err := a.newRequest(ctx, method, path, bearer, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if idemKey != "" {
		req.Header.Set("Idempotency-Key", idemKey)
	}
	return a.send(req, out)
}

func (a *API) newRequest(ctx context.Context, method, path, bearer string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	if a.tz != "" {
		req.Header.Set("X-Timezone", a.tz)
	}
	return req, nil
}

func (a *API) send(req *http.Request, out interface{}) error {
	resp, err := a.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var env envelope
		_ = json.Unmarshal(data, &env)
		return &APIError{Status: resp.StatusCode, Message: env.Message}
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", req.Method, req.URL.Path, err)
	}
	return nil
}
