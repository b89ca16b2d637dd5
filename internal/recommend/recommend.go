// Package recommend serves the static mood-keyed content table, daily quotes
// and guided journaling templates.
package recommend

import (
	"strings"
	"time"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
)

// Content kinds accepted by Search and Custom.
const (
	KindAll    = "all"
	KindMovies = "movies"
	KindMusic  = "music"
	KindQuotes = "quotes"
)

// DefaultCount is how many movies and songs For returns when count <= 0.
const DefaultCount = 3

// Custom holds user-added items, merged after the built-in ones.
type Custom struct {
	Movies map[models.Mood][]models.ContentItem `json:"movies,omitempty"`
	Music  map[models.Mood][]models.ContentItem `json:"music,omitempty"`
	Quotes map[models.Mood][]models.Quote       `json:"quotes,omitempty"`
}

// Add appends an item to the custom table. It returns false for an unknown kind or mood.
func (c *Custom) Add(kind string, mood models.Mood, it models.ContentItem, q models.Quote) bool {
	if !mood.Valid() {
		return false
	}
	switch kind {
	case KindMovies:
		if c.Movies == nil {
			c.Movies = make(map[models.Mood][]models.ContentItem)
		}
		c.Movies[mood] = append(c.Movies[mood], it)
	case KindMusic:
		if c.Music == nil {
			c.Music = make(map[models.Mood][]models.ContentItem)
		}
		c.Music[mood] = append(c.Music[mood], it)
	case KindQuotes:
		if c.Quotes == nil {
			c.Quotes = make(map[models.Mood][]models.Quote)
		}
		c.Quotes[mood] = append(c.Quotes[mood], q)
	default:
		return false
	}
	return true
}

// Catalog is a read-only view over the content table.
type Catalog struct {
	movies map[models.Mood][]models.ContentItem
	music  map[models.Mood][]models.ContentItem
	quotes map[models.Mood][]models.Quote
}

var builtin = &Catalog{movies: movies, music: music, quotes: quotes}

// Default returns the built-in catalog.
func Default() *Catalog { return builtin }

// Merge returns a new catalog with custom items appended per mood.
func (c *Catalog) Merge(custom Custom) *Catalog {
	out := &Catalog{
		movies: make(map[models.Mood][]models.ContentItem, len(c.movies)),
		music:  make(map[models.Mood][]models.ContentItem, len(c.music)),
		quotes: make(map[models.Mood][]models.Quote, len(c.quotes)),
	}
	for _, m := range models.Moods {
		out.movies[m] = append(append([]models.ContentItem(nil), c.movies[m]...), custom.Movies[m]...)
		out.music[m] = append(append([]models.ContentItem(nil), c.music[m]...), custom.Music[m]...)
		out.quotes[m] = append(append([]models.Quote(nil), c.quotes[m]...), custom.Quotes[m]...)
	}
	return out
}

// For returns up to count movies and songs and up to min(count, 2) quotes for mood.
// Unknown moods fall back to neutral.
func (c *Catalog) For(mood models.Mood, count int) models.Recommendations {
	if !mood.Valid() {
		mood = models.MoodNeutral
	}
	if count <= 0 {
		count = DefaultCount
	}
	return models.Recommendations{
		Movies: firstItems(c.movies[mood], count),
		Music:  firstItems(c.music[mood], count),
		Quotes: firstQuotes(c.quotes[mood], min(count, 2)),
	}
}

// For looks up recommendations in the built-in catalog.
func For(mood models.Mood, count int) models.Recommendations {
	return builtin.For(mood, count)
}

// Search matches query case-insensitively against every item of the given kind.
func (c *Catalog) Search(query, kind string) models.Recommendations {
	res := models.Recommendations{
		Movies: []models.ContentItem{},
		Music:  []models.ContentItem{},
		Quotes: []models.Quote{},
	}
	term := strings.ToLower(strings.TrimSpace(query))
	if term == "" {
		return res
	}
	if kind == "" {
		kind = KindAll
	}

	seen := map[string]struct{}{}
	for _, m := range models.Moods {
		if kind == KindAll || kind == KindMovies {
			for _, it := range c.movies[m] {
				if matchItem(it, term) && once(seen, "movie:"+it.Title) {
					res.Movies = append(res.Movies, it)
				}
			}
		}
		if kind == KindAll || kind == KindMusic {
			for _, it := range c.music[m] {
				if matchItem(it, term) && once(seen, "music:"+it.Title) {
					res.Music = append(res.Music, it)
				}
			}
		}
		if kind == KindAll || kind == KindQuotes {
			for _, q := range c.quotes[m] {
				if (strings.Contains(strings.ToLower(q.Text), term) || strings.Contains(strings.ToLower(q.Author), term)) && once(seen, "quote:"+q.Text) {
					res.Quotes = append(res.Quotes, q)
				}
			}
		}
	}
	return res
}

// DailyQuote picks the quote of the day from the day of year.
func DailyQuote(t time.Time) models.Quote {
	return dailyQuotes[t.YearDay()%len(dailyQuotes)]
}

// WeeklyStory rotates through the success stories once per week.
func WeeklyStory(t time.Time) Story {
	week := t.Unix() / int64((7 * 24 * time.Hour).Seconds())
	return stories[int(week%int64(len(stories)))]
}

func matchItem(it models.ContentItem, term string) bool {
	return strings.Contains(strings.ToLower(it.Title), term) ||
		strings.Contains(strings.ToLower(it.Description), term) ||
		strings.Contains(strings.ToLower(it.Genre), term)
}

func once(seen map[string]struct{}, key string) bool {
	if _, ok := seen[key]; ok {
		return false
	}
	seen[key] = struct{}{}
	return true
}

func firstItems(in []models.ContentItem, n int) []models.ContentItem {
	if n > len(in) {
		n = len(in)
	}
	return append([]models.ContentItem{}, in[:n]...)
}

func firstQuotes(in []models.Quote, n int) []models.Quote {
	if n > len(in) {
		n = len(in)
	}
	return append([]models.Quote{}, in[:n]...)
}
