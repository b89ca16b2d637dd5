package insights

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
)

var now = time.Date(2026, 10, 18, 15, 0, 0, 0, time.UTC)

func daysAgo(n int) time.Time { return now.AddDate(0, 0, -n) }

func dateSet(offsets ...int) map[string]struct{} {
	out := map[string]struct{}{}
	for _, o := range offsets {
		out[DateOf(daysAgo(o), time.UTC)] = struct{}{}
	}
	return out
}

func TestComputeStreak(t *testing.T) {
	tests := []struct {
		name    string
		offsets []int
		want    int
	}{
		{"empty", nil, 0},
		{"today only", []int{0}, 1},
		{"today and yesterday", []int{0, 1}, 2},
		{"yesterday and day before only", []int{1, 2}, 0},
		{"gap breaks run", []int{0, 1, 3, 4}, 2},
		{"long run", []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, 10},
		{"older run ignored", []int{0, 1, 2, 17, 18, 19}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ComputeStreak(dateSet(tt.offsets...), now, time.UTC); got != tt.want {
				t.Errorf("ComputeStreak = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestComputeStreakUsesLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// 23:30 UTC on the 17th is already the 18th in Tokyo.
	late := time.Date(2026, 10, 17, 23, 30, 0, 0, time.UTC)
	at := time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)
	dates := ActivityDates(nil, []models.MoodEntry{{Timestamp: late}}, tokyo)
	if got := ComputeStreak(dates, at, tokyo); got != 1 {
		t.Errorf("streak in Tokyo = %d, want 1", got)
	}
	if got := ComputeStreak(ActivityDates(nil, []models.MoodEntry{{Timestamp: late}}, time.UTC), at, time.UTC); got != 0 {
		t.Errorf("streak in UTC = %d, want 0", got)
	}
}

func TestComputeStats(t *testing.T) {
	long := strings.Repeat("word ", LongEntryWords)
	entries := []models.JournalEntry{
		{CreatedAt: daysAgo(0), Text: "short", WordCount: 1},
		{CreatedAt: daysAgo(1), Text: long, WordCount: models.WordCount(long)},
	}
	moods := []models.MoodEntry{
		{Timestamp: daysAgo(0), Mood: models.MoodHappy},
		{Timestamp: daysAgo(5), Mood: models.MoodSad},
	}
	got := ComputeStats(entries, moods, now, time.UTC)
	want := models.Stats{TotalEntries: 2, MoodEntries: 2, CurrentStreak: 2, LongEntries: 1, TotalDays: 3}
	if got != want {
		t.Errorf("ComputeStats = %+v, want %+v", got, want)
	}
}

func TestComputeAchievements(t *testing.T) {
	ids := func(as []models.Achievement) []string {
		out := []string{}
		for _, a := range as {
			out = append(out, a.ID)
		}
		return out
	}

	tests := []struct {
		stats models.Stats
		want  []string
	}{
		{models.Stats{}, []string{}},
		{models.Stats{TotalEntries: 1}, []string{"first_steps"}},
		{models.Stats{TotalEntries: 5, CurrentStreak: 7}, []string{"first_steps", "week_warrior"}},
		{models.Stats{TotalEntries: 50, CurrentStreak: 30, LongEntries: 10, MoodEntries: 30, TotalDays: 100},
			[]string{"first_steps", "week_warrior", "monthly_mindfulness", "deep_thinker", "mood_tracker", "consistent_writer"}},
	}
	for _, tt := range tests {
		got := ids(ComputeAchievements(tt.stats))
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("ComputeAchievements(%+v) = %v, want %v", tt.stats, got, tt.want)
		}
		if again := ids(ComputeAchievements(tt.stats)); !reflect.DeepEqual(got, again) {
			t.Errorf("ComputeAchievements not idempotent: %v vs %v", got, again)
		}
	}
}

func TestAverageMood(t *testing.T) {
	tests := []struct {
		labels []models.Mood
		want   models.Mood
	}{
		{nil, models.MoodNeutral},
		{[]models.Mood{models.MoodHappy}, models.MoodHappy},
		{[]models.Mood{models.MoodHappy, models.MoodSad}, models.MoodNeutral},
		{[]models.Mood{"unknown"}, models.MoodNeutral},
		// equidistant means resolve to the later anchor
		{[]models.Mood{models.MoodHappy, models.MoodNeutral}, models.MoodNeutral},
		{[]models.Mood{models.MoodSad, models.MoodAngry}, models.MoodAngry},
		{[]models.Mood{models.MoodNeutral, models.MoodTired}, models.MoodTired},
		{[]models.Mood{models.MoodAnxious, models.MoodTired}, models.MoodTired},
	}
	for _, tt := range tests {
		if got := AverageMood(tt.labels); got != tt.want {
			t.Errorf("AverageMood(%v) = %q, want %q", tt.labels, got, tt.want)
		}
	}
}

func TestComputeWeeklySummary(t *testing.T) {
	if got := ComputeWeeklySummary(nil, nil, now, time.UTC); got != nil {
		t.Fatalf("empty week = %+v, want nil", got)
	}

	entries := []models.JournalEntry{
		{CreatedAt: daysAgo(0), Text: "Work was busy, work work", Analysis: &models.Analysis{Mood: models.MoodTired}},
		{CreatedAt: daysAgo(1), Text: "Dinner with family and friends", Analysis: &models.Analysis{Mood: models.MoodHappy}},
		{CreatedAt: daysAgo(2), Text: "Homework and exercise", Analysis: &models.Analysis{Mood: models.MoodHappy}},
		{CreatedAt: daysAgo(10), Text: "old work entry", Analysis: &models.Analysis{Mood: models.MoodSad}},
	}
	moods := []models.MoodEntry{
		{Timestamp: daysAgo(3), Mood: models.MoodNeutral},
	}

	got := ComputeWeeklySummary(entries, moods, now, time.UTC)
	if got == nil {
		t.Fatal("summary is nil")
	}
	if got.TotalEntries != 3 {
		t.Errorf("TotalEntries = %d, want 3", got.TotalEntries)
	}
	if got.ActiveDays != 4 {
		t.Errorf("ActiveDays = %d, want 4", got.ActiveDays)
	}
	if got.GrowthNote != growthGood {
		t.Errorf("GrowthNote = %q", got.GrowthNote)
	}
	// tired 2.5 + happy 5 + happy 5 + neutral 3 = 15.5 / 4 = 3.875 -> neutral (3) beats happy (5)
	if got.AverageMood != models.MoodNeutral {
		t.Errorf("AverageMood = %q, want neutral", got.AverageMood)
	}
	wantThemes := []models.ThemeCount{{Theme: "work", Count: 2}, {Theme: "family", Count: 1}, {Theme: "friends", Count: 1}, {Theme: "exercise", Count: 1}}
	if !reflect.DeepEqual(got.CommonThemes, wantThemes) {
		t.Errorf("CommonThemes = %v, want %v", got.CommonThemes, wantThemes)
	}
}

func TestCommonThemesTiesKeepFirstSeen(t *testing.T) {
	tests := []struct {
		name    string
		entries []string
		n       int
		want    []models.ThemeCount
	}{
		{
			name:    "later vocabulary term seen first",
			entries: []string{"too little sleep", "money worries", "work deadline"},
			n:       5,
			want:    []models.ThemeCount{{Theme: "sleep", Count: 1}, {Theme: "money", Count: 1}, {Theme: "work", Count: 1}},
		},
		{
			name:    "higher count still leads",
			entries: []string{"food and sleep", "work", "work again"},
			n:       2,
			want:    []models.ThemeCount{{Theme: "work", Count: 2}, {Theme: "sleep", Count: 1}},
		},
		{
			name:    "vocabulary order within one entry",
			entries: []string{"sleep then family time"},
			n:       5,
			want:    []models.ThemeCount{{Theme: "family", Count: 1}, {Theme: "sleep", Count: 1}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entries := make([]models.JournalEntry, len(tt.entries))
			for i, text := range tt.entries {
				entries[i] = models.JournalEntry{Text: text}
			}
			if got := CommonThemes(entries, tt.n); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("CommonThemes = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGrowthNote(t *testing.T) {
	for days, want := range map[int]string{0: growthStarting, 2: growthStarting, 3: growthGood, 5: growthExcellent, 7: growthExcellent} {
		if got := GrowthNote(days); got != want {
			t.Errorf("GrowthNote(%d) = %q", days, got)
		}
	}
}

func TestMoodTrend(t *testing.T) {
	moods := []models.MoodEntry{
		{Timestamp: daysAgo(0).Add(-time.Hour), Mood: models.MoodSad},
		{Timestamp: daysAgo(0), Mood: models.MoodHappy},
		{Timestamp: daysAgo(2), Mood: models.MoodTired},
	}
	trend := MoodTrend(moods, now, 3, time.UTC)
	if len(trend) != 3 {
		t.Fatalf("len = %d", len(trend))
	}
	if trend[0].Mood != models.MoodTired || trend[1].Mood != "" || trend[2].Mood != models.MoodHappy {
		t.Errorf("trend = %+v", trend)
	}
}

func TestBuildExport(t *testing.T) {
	exp := BuildExport(models.ExportUser{ID: "u1", Name: "Ada"}, nil, nil, now, time.UTC)
	if exp.Entries == nil || exp.Moods == nil {
		t.Error("export slices must be non-nil")
	}
	if !exp.User.ExportDate.Equal(now) {
		t.Errorf("ExportDate = %v", exp.User.ExportDate)
	}
	if models.ExportFileName(now) != "mindjourney-export-2026-10-18.json" {
		t.Errorf("file name = %q", models.ExportFileName(now))
	}
}
