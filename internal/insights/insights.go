// Package insights derives streaks, weekly summaries and achievements from
// journal and mood history. Everything here is pure; callers pass "now" and
// the time zone that defines a calendar day.
package insights

import (
	"sort"
	"strings"
	"time"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
)

// LongEntryWords is the word count at which an entry counts as long.
const LongEntryWords = 500

// DateOf formats t as a calendar date in loc.
func DateOf(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(models.DateLayout)
}

// ActivityDates returns the distinct dates with any journal or mood activity.
func ActivityDates(entries []models.JournalEntry, moods []models.MoodEntry, loc *time.Location) map[string]struct{} {
	dates := make(map[string]struct{}, len(entries)+len(moods))
	for _, e := range entries {
		dates[DateOf(e.CreatedAt, loc)] = struct{}{}
	}
	for _, m := range moods {
		dates[DateOf(m.Timestamp, loc)] = struct{}{}
	}
	return dates
}

// ComputeStreak walks backward from today and counts consecutive active days.
// A day with no activity today yields 0 even when yesterday was active.
func ComputeStreak(dates map[string]struct{}, today time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.UTC
	}
	sorted := make([]string, 0, len(dates))
	for d := range dates {
		sorted = append(sorted, d)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(sorted)))

	y, m, d := today.In(loc).Date()
	streak := 0
	for i, date := range sorted {
		expected := time.Date(y, m, d-i, 12, 0, 0, 0, loc).Format(models.DateLayout)
		if date != expected {
			break
		}
		streak++
	}
	return streak
}

// ComputeStats builds the dashboard counters.
func ComputeStats(entries []models.JournalEntry, moods []models.MoodEntry, now time.Time, loc *time.Location) models.Stats {
	dates := ActivityDates(entries, moods, loc)
	long := 0
	for _, e := range entries {
		if e.WordCount >= LongEntryWords {
			long++
		}
	}
	return models.Stats{
		TotalEntries:  len(entries),
		MoodEntries:   len(moods),
		CurrentStreak: ComputeStreak(dates, now, loc),
		LongEntries:   long,
		TotalDays:     len(dates),
	}
}

type achievementRule struct {
	models.Achievement
	unlocked func(models.Stats) bool
}

var achievementRules = []achievementRule{
	{models.Achievement{ID: "first_steps", Title: "First Steps", Description: "Write your first journal entry", Icon: "🌱"},
		func(s models.Stats) bool { return s.TotalEntries >= 1 }},
	{models.Achievement{ID: "week_warrior", Title: "Week Warrior", Description: "Journal for 7 days in a row", Icon: "🔥"},
		func(s models.Stats) bool { return s.CurrentStreak >= 7 }},
	{models.Achievement{ID: "monthly_mindfulness", Title: "Monthly Mindfulness", Description: "Journal for 30 days in a row", Icon: "🧘"},
		func(s models.Stats) bool { return s.CurrentStreak >= 30 }},
	{models.Achievement{ID: "deep_thinker", Title: "Deep Thinker", Description: "Write 10 entries over 500 words", Icon: "💭"},
		func(s models.Stats) bool { return s.LongEntries >= 10 }},
	{models.Achievement{ID: "mood_tracker", Title: "Mood Tracker", Description: "Log your mood 30 times", Icon: "📊"},
		func(s models.Stats) bool { return s.MoodEntries >= 30 }},
	{models.Achievement{ID: "consistent_writer", Title: "Consistent Writer", Description: "Be active on 100 different days", Icon: "✍️"},
		func(s models.Stats) bool { return s.TotalDays >= 100 }},
}

// AllAchievements lists every achievement, locked or not.
func AllAchievements() []models.Achievement {
	out := make([]models.Achievement, len(achievementRules))
	for i, r := range achievementRules {
		out[i] = r.Achievement
	}
	return out
}

// ComputeAchievements returns the unlocked achievements in a fixed order.
func ComputeAchievements(s models.Stats) []models.Achievement {
	out := []models.Achievement{}
	for _, r := range achievementRules {
		if r.unlocked(s) {
			out = append(out, r.Achievement)
		}
	}
	return out
}

// moodValues anchor each label on a 1-5 scale for averaging.
// anchorOrder is the order AverageMood scans the anchors in.
var anchorOrder = []models.Mood{
	models.MoodHappy,
	models.MoodNeutral,
	models.MoodSad,
	models.MoodAnxious,
	models.MoodAngry,
	models.MoodTired,
}

var moodValues = map[models.Mood]float64{
	models.MoodHappy:   5,
	models.MoodNeutral: 3,
	models.MoodSad:     1,
	models.MoodAnxious: 2,
	models.MoodAngry:   1.5,
	models.MoodTired:   2.5,
}

const unknownMoodValue = 3

var themeVocabulary = []string{
	"work", "family", "health", "relationships", "stress", "anxiety", "happiness",
	"goals", "friends", "love", "career", "money", "exercise", "sleep", "food",
}

const (
	growthExcellent = "Excellent consistency this week! You're really committed to your mental health journey."
	growthGood      = "Good progress this week! You're building a solid foundation for self-reflection."
	growthStarting  = "Every entry counts! You're taking important steps toward better mental health."
)

// ComputeWeeklySummary summarizes the trailing seven days, or returns nil when
// there was no activity in that window.
func ComputeWeeklySummary(entries []models.JournalEntry, moods []models.MoodEntry, now time.Time, loc *time.Location) *models.WeeklySummary {
	cutoff := now.Add(-7 * 24 * time.Hour)

	var weekEntries []models.JournalEntry
	for _, e := range entries {
		if !e.CreatedAt.Before(cutoff) {
			weekEntries = append(weekEntries, e)
		}
	}
	var weekMoods []models.MoodEntry
	for _, m := range moods {
		if !m.Timestamp.Before(cutoff) {
			weekMoods = append(weekMoods, m)
		}
	}
	if len(weekEntries) == 0 && len(weekMoods) == 0 {
		return nil
	}

	var labels []models.Mood
	for _, e := range weekEntries {
		if m := e.Mood(); m != "" {
			labels = append(labels, m)
		}
	}
	for _, m := range weekMoods {
		labels = append(labels, m.Mood)
	}

	active := len(ActivityDates(weekEntries, weekMoods, loc))
	return &models.WeeklySummary{
		TotalEntries: len(weekEntries),
		AverageMood:  AverageMood(labels),
		ActiveDays:   active,
		CommonThemes: CommonThemes(weekEntries, 5),
		GrowthNote:   GrowthNote(active),
	}
}

// AverageMood maps the mean anchor value back to the closest label. On a tie
// the anchor later in anchorOrder wins. An empty input is neutral.
func AverageMood(labels []models.Mood) models.Mood {
	if len(labels) == 0 {
		return models.MoodNeutral
	}
	sum := 0.0
	for _, l := range labels {
		v, ok := moodValues[l]
		if !ok {
			v = unknownMoodValue
		}
		sum += v
	}
	avg := sum / float64(len(labels))

	best := anchorOrder[0]
	bestDist := abs(moodValues[best] - avg)
	for _, m := range anchorOrder[1:] {
		if d := abs(moodValues[m] - avg); d <= bestDist {
			best, bestDist = m, d
		}
	}
	return best
}

// CommonThemes counts, per vocabulary term, how many entries mention it and
// returns the top n. Ties keep the order in which themes were first seen.
func CommonThemes(entries []models.JournalEntry, n int) []models.ThemeCount {
	counts := make(map[string]int, len(themeVocabulary))
	var seen []string
	for _, e := range entries {
		words := strings.Fields(strings.ToLower(e.Text))
		for _, theme := range themeVocabulary {
			for _, w := range words {
				if strings.Contains(w, theme) {
					if counts[theme] == 0 {
						seen = append(seen, theme)
					}
					counts[theme]++
					break
				}
			}
		}
	}

	out := make([]models.ThemeCount, 0, len(seen))
	for _, theme := range seen {
		out = append(out, models.ThemeCount{Theme: theme, Count: counts[theme]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// GrowthNote picks an encouragement line from the number of active days.
func GrowthNote(activeDays int) string {
	switch {
	case activeDays >= 5:
		return growthExcellent
	case activeDays >= 3:
		return growthGood
	default:
		return growthStarting
	}
}

// MoodTrend returns the latest logged mood for each of the last `days` days,
// oldest first.
func MoodTrend(moods []models.MoodEntry, now time.Time, days int, loc *time.Location) []models.TrendPoint {
	if loc == nil {
		loc = time.UTC
	}
	latest := make(map[string]models.MoodEntry, len(moods))
	for _, m := range moods {
		d := DateOf(m.Timestamp, loc)
		if cur, ok := latest[d]; !ok || m.Timestamp.After(cur.Timestamp) {
			latest[d] = m
		}
	}

	y, mo, d := now.In(loc).Date()
	out := make([]models.TrendPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := time.Date(y, mo, d-i, 12, 0, 0, 0, loc).Format(models.DateLayout)
		p := models.TrendPoint{Date: date}
		if m, ok := latest[date]; ok {
			p.Mood = m.Mood
		}
		out = append(out, p)
	}
	return out
}

// MoodDistribution counts mood check-ins per label.
func MoodDistribution(moods []models.MoodEntry) map[models.Mood]int {
	out := make(map[models.Mood]int, len(models.Moods))
	for _, m := range models.Moods {
		out[m] = 0
	}
	for _, m := range moods {
		out[m.Mood]++
	}
	return out
}

// Build assembles the full dashboard payload.
func Build(entries []models.JournalEntry, moods []models.MoodEntry, now time.Time, loc *time.Location) models.Insights {
	stats := ComputeStats(entries, moods, now, loc)
	return models.Insights{
		Stats:        stats,
		Achievements: ComputeAchievements(stats),
		Weekly:       ComputeWeeklySummary(entries, moods, now, loc),
		Trend:        MoodTrend(moods, now, 7, loc),
		Distribution: MoodDistribution(moods),
	}
}

// BuildExport assembles the export document.
func BuildExport(user models.ExportUser, entries []models.JournalEntry, moods []models.MoodEntry, now time.Time, loc *time.Location) models.Export {
	stats := ComputeStats(entries, moods, now, loc)
	if entries == nil {
		entries = []models.JournalEntry{}
	}
	if moods == nil {
		moods = []models.MoodEntry{}
	}
	user.ExportDate = now
	return models.Export{
		User:         user,
		Entries:      entries,
		Moods:        moods,
		Stats:        stats,
		Achievements: ComputeAchievements(stats),
	}
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
