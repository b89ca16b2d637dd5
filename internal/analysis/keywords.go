package analysis

import (
	"strings"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
)

// keywords per mood. Matching is case-insensitive substring counting, so
// "joyful" counts for "joy".
var keywords = map[models.Mood][]string{
	models.MoodHappy:   {"happy", "joy", "excited", "great", "amazing", "wonderful", "fantastic", "good", "positive", "grateful", "blessed", "love"},
	models.MoodSad:     {"sad", "depressed", "down", "upset", "crying", "tears", "lonely", "empty", "hopeless", "disappointed"},
	models.MoodAnxious: {"anxious", "worried", "nervous", "scared", "fear", "panic", "stress", "overwhelmed", "uncertain", "concerned"},
	models.MoodAngry:   {"angry", "mad", "furious", "irritated", "annoyed", "frustrated", "rage", "hate", "bitter"},
	models.MoodTired:   {"tired", "exhausted", "drained", "weary", "sleepy", "fatigue", "worn out"},
	models.MoodNeutral: {"okay", "fine", "normal", "regular", "usual"},
}

// Counts returns the keyword hit count for every mood.
func Counts(text string) map[models.Mood]int {
	lower := strings.ToLower(text)
	counts := make(map[models.Mood]int, len(models.Moods))
	for _, m := range models.Moods {
		n := 0
		for _, kw := range keywords[m] {
			n += strings.Count(lower, kw)
		}
		counts[m] = n
	}
	return counts
}

// ScoreMood picks the mood with the most keyword hits. Ties go to the label
// declared first in models.Moods; text with no hits at all is neutral.
func ScoreMood(text string) models.Mood {
	counts := Counts(text)
	best, bestCount := models.MoodNeutral, 0
	for _, m := range models.Moods {
		if counts[m] > bestCount {
			best, bestCount = m, counts[m]
		}
	}
	return best
}
