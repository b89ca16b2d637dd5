package models

import (
	"strings"
	"time"
	"unicode/utf8"
)

// AnalysisStatus tracks the second step of entry creation.
type AnalysisStatus string

const (
	AnalysisPending  AnalysisStatus = "pending"
	AnalysisComplete AnalysisStatus = "complete"
	AnalysisFailed   AnalysisStatus = "failed"
)

// Analysis sources.
const (
	SourceKeyword  = "keyword"
	SourceExternal = "external"
)

// ContentItem is a movie or song recommendation.
type ContentItem struct {
	Title       string `bson:"title" json:"title"`
	Description string `bson:"description" json:"description"`
	Genre       string `bson:"genre,omitempty" json:"genre,omitempty"`
}

// Quote is a quotation with its author.
type Quote struct {
	Text   string `bson:"text" json:"text"`
	Author string `bson:"author" json:"author"`
}

// Recommendations is the content bundle attached to an analyzed entry.
type Recommendations struct {
	Movies []ContentItem `bson:"movies" json:"movies"`
	Music  []ContentItem `bson:"music" json:"music"`
	Quotes []Quote       `bson:"quotes" json:"quotes"`
}

// Analysis is the derived part of a journal entry.
type Analysis struct {
	Mood            Mood            `bson:"mood" json:"mood"`
	Response        string          `bson:"ai_response" json:"ai_response"`
	Affirmation     string          `bson:"affirmation" json:"affirmation"`
	Recommendations Recommendations `bson:"recommendations" json:"recommendations"`
	Source          string          `bson:"analysis_source" json:"analysis_source"`
}

// JournalEntry is a single saved journal composition. Text is immutable once saved.
type JournalEntry struct {
	ID             string    `bson:"_id" json:"id"`
	UserID         string    `bson:"user_id" json:"user_id"`
	CreatedAt      time.Time `bson:"created_at" json:"created_at"`
	Text           string    `bson:"text" json:"text"`
	Sealed         bool      `bson:"sealed,omitempty" json:"-"`
	Template       string    `bson:"template,omitempty" json:"template,omitempty"`
	TemplateTitle  string    `bson:"template_title,omitempty" json:"template_title,omitempty"`
	WordCount      int       `bson:"word_count" json:"word_count"`
	CharCount      int       `bson:"char_count" json:"char_count"`
	ImageURL       string    `bson:"image_url,omitempty" json:"image_url,omitempty"`
	SupportMessage string    `bson:"support_message,omitempty" json:"support_message,omitempty"`

	AnalysisStatus AnalysisStatus `bson:"analysis_status" json:"analysis_status"`
	Analysis       *Analysis      `bson:"analysis,omitempty" json:"analysis,omitempty"`
}

// Mood returns the analyzed mood, or "" while analysis is outstanding.
func (e *JournalEntry) Mood() Mood {
	if e.Analysis == nil {
		return ""
	}
	return e.Analysis.Mood
}

// WordCount counts whitespace-delimited tokens.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// CharCount counts characters, not bytes.
func CharCount(text string) int {
	return utf8.RuneCountInString(text)
}

// NewJournalEntry builds a pending entry with derived counts filled in.
func NewJournalEntry(id, userID, text, template, templateTitle string, now time.Time) *JournalEntry {
	return &JournalEntry{
		ID:             id,
		UserID:         userID,
		CreatedAt:      now,
		Text:           text,
		Template:       template,
		TemplateTitle:  templateTitle,
		WordCount:      WordCount(text),
		CharCount:      CharCount(text),
		AnalysisStatus: AnalysisPending,
	}
}
