package analysis

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
)

const classifyPrompt = `Classify the dominant mood of the following journal entry.
Answer with exactly one word from this list: happy, sad, anxious, angry, tired, neutral.

Entry:
%s`

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// GeminiConfig configures the generateContent classifier.
type GeminiConfig struct {
	// Endpoint is the API base, e.g. https://generativelanguage.googleapis.com/v1beta
	Endpoint string
	Model    string
	APIKey   string

	// Optional client-credentials flow used instead of an API key.
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// GeminiClassifier calls a generateContent-style LLM endpoint.
type GeminiClassifier struct {
	cfg    GeminiConfig
	client *http.Client
}

// NewGeminiClassifier builds a classifier. When client credentials are set, the
// HTTP client fetches and refreshes bearer tokens itself.
func NewGeminiClassifier(cfg GeminiConfig) *GeminiClassifier {
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	client := &http.Client{Timeout: DefaultClassifierTimeout}
	if cfg.TokenURL != "" && cfg.ClientID != "" {
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		client = cc.Client(ctx)
		client.Timeout = DefaultClassifierTimeout
	}
	return &GeminiClassifier{cfg: cfg, client: client}
}

// Classify implements Classifier. The returned label is normalized but not
// validated; the Analyzer does that.
func (g *GeminiClassifier) Classify(ctx context.Context, text string) (models.Mood, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: fmt.Sprintf(classifyPrompt, text)}}}},
	})
	if err != nil {
		return "", fmt.Errorf("classify marshal failed: %w", err)
	}

	endpoint := strings.TrimRight(g.cfg.Endpoint, "/") + "/models/" + url.PathEscape(g.cfg.Model) + ":generateContent"
	if g.cfg.APIKey != "" {
		endpoint += "?key=" + url.QueryEscape(g.cfg.APIKey)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("classify request create failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("classify request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("classify http %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("classify decode failed: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no candidates in response")
	}

	return NormalizeLabel(out.Candidates[0].Content.Parts[0].Text), nil
}

// NormalizeLabel lowercases a free-form answer and strips surrounding
// punctuation, so "Happy." becomes "happy".
func NormalizeLabel(s string) models.Mood {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(s, " \t\r\n.,!?\"'`*")
	if i := strings.IndexAny(s, " \t\r\n"); i >= 0 {
		s = s[:i]
	}
	return models.Mood(s)
}
