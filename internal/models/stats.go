package models

import "time"

// Stats are the aggregate counters shown on the dashboard.
type Stats struct {
	TotalEntries  int `json:"total_entries"`
	MoodEntries   int `json:"mood_entries"`
	CurrentStreak int `json:"current_streak"`
	LongEntries   int `json:"long_entries"`
	TotalDays     int `json:"total_days"`
}

// Achievement is an unlocked milestone.
type Achievement struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// ThemeCount is one entry of the weekly common-themes list.
type ThemeCount struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

// WeeklySummary describes the trailing seven days.
type WeeklySummary struct {
	TotalEntries int          `json:"total_entries"`
	AverageMood  Mood         `json:"average_mood"`
	ActiveDays   int          `json:"active_days"`
	CommonThemes []ThemeCount `json:"common_themes"`
	GrowthNote   string       `json:"growth_note"`
}

// TrendPoint is the latest mood on a given day, or empty when nothing was logged.
type TrendPoint struct {
	Date string `json:"date"`
	Mood Mood   `json:"mood,omitempty"`
}

// Insights bundles everything the dashboard needs in one response.
type Insights struct {
	Stats        Stats          `json:"stats"`
	Achievements []Achievement  `json:"achievements"`
	Weekly       *WeeklySummary `json:"weekly_summary"`
	Trend        []TrendPoint   `json:"trend"`
	Distribution map[Mood]int   `json:"distribution"`
}

// ExportUser is the profile subset written to an export file.
type ExportUser struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email,omitempty"`
	ExportDate time.Time `json:"export_date"`
}

// Export is the one-way data export document.
type Export struct {
	User         ExportUser     `json:"user"`
	Entries      []JournalEntry `json:"entries"`
	Moods        []MoodEntry    `json:"moods"`
	Stats        Stats          `json:"stats"`
	Achievements []Achievement  `json:"achievements"`
}

// ExportFileName is the suggested download name for an export taken at t.
func ExportFileName(t time.Time) string {
	return "mindjourney-export-" + t.Format(DateLayout) + ".json"
}
