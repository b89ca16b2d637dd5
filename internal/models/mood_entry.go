package models

import (
	"strings"
	"time"
)

// DateLayout is the calendar-date format used for activity dates.
const DateLayout = "2006-01-02"

// MoodEntry is a single mood check-in.
type MoodEntry struct {
	ID        string    `bson:"_id" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Mood      Mood      `bson:"mood" json:"mood"`
	Emoji     string    `bson:"emoji" json:"emoji"`
	Tags      []string  `bson:"tags" json:"tags"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
	Date      string    `bson:"date" json:"date"`
}

// NewMoodEntry fills the emoji and date and normalizes tags.
func NewMoodEntry(id, userID string, mood Mood, emoji string, tags []string, now time.Time, loc *time.Location) *MoodEntry {
	if emoji == "" {
		emoji = mood.Emoji()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &MoodEntry{
		ID:        id,
		UserID:    userID,
		Mood:      mood,
		Emoji:     emoji,
		Tags:      NormalizeTags(tags),
		Timestamp: now,
		Date:      now.In(loc).Format(DateLayout),
	}
}

// NormalizeTags trims, lowercases and de-duplicates tags, keeping first-seen order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
