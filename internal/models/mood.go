package models

import "strings"

// Mood is one of the six fixed mood labels.
type Mood string

const (
	MoodHappy   Mood = "happy"
	MoodSad     Mood = "sad"
	MoodAnxious Mood = "anxious"
	MoodAngry   Mood = "angry"
	MoodTired   Mood = "tired"
	MoodNeutral Mood = "neutral"
)

// Moods lists every label in declaration order. Scoring ties resolve to the
// earlier label in this slice.
var Moods = []Mood{MoodHappy, MoodSad, MoodAnxious, MoodAngry, MoodTired, MoodNeutral}

var moodEmoji = map[Mood]string{
	MoodHappy:   "😊",
	MoodSad:     "🙁",
	MoodAnxious: "😰",
	MoodAngry:   "😤",
	MoodTired:   "😴",
	MoodNeutral: "😐",
}

// ParseMood normalizes s and reports whether it names a known mood.
func ParseMood(s string) (Mood, bool) {
	m := Mood(strings.ToLower(strings.TrimSpace(s)))
	_, ok := moodEmoji[m]
	return m, ok
}

// Valid reports whether m is in the enumeration.
func (m Mood) Valid() bool {
	_, ok := moodEmoji[m]
	return ok
}

// Emoji returns the default glyph for m, or the neutral glyph for unknown moods.
func (m Mood) Emoji() string {
	if e, ok := moodEmoji[m]; ok {
		return e
	}
	return moodEmoji[MoodNeutral]
}

func (m Mood) String() string { return string(m) }
