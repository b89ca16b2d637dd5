package client

import (
	"fmt"
	"strings"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
	"github.com/AnshRaj112/mindjourney-backend/internal/recommend"
)

// CustomRecommendations returns the user-added items kept on this device.
func (c *Client) CustomRecommendations() recommend.Custom {
	var custom recommend.Custom
	c.local.readJSON(keyCustomRecs, &custom)
	return custom
}

// AddCustomRecommendation stores a movie, song or quote for a mood. For
// quotes, title is the quote text and description the author.
func (c *Client) AddCustomRecommendation(kind, mood, title, description, genre string) error {
	m, err := models.ValidateMood(mood)
	if err != nil {
		return err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return fmt.Errorf("title is required")
	}

	custom := c.CustomRecommendations()
	item := models.ContentItem{Title: title, Description: strings.TrimSpace(description), Genre: strings.TrimSpace(genre)}
	quote := models.Quote{Text: title, Author: strings.TrimSpace(description)}
	if !custom.Add(strings.ToLower(kind), m, item, quote) {
		return fmt.Errorf("unknown kind %q (want movies, music or quotes)", kind)
	}
	return c.local.writeJSON(keyCustomRecs, custom)
}

// Recommendations looks mood up in the built-in table with custom items appended.
func (c *Client) Recommendations(mood models.Mood, count int) models.Recommendations {
	return c.catalog().For(mood, count)
}

// SearchRecommendations searches built-in and custom items.
func (c *Client) SearchRecommendations(query, kind string) models.Recommendations {
	return c.catalog().Search(query, kind)
}

// Daily returns today's quote and this week's story.
func (c *Client) Daily() (models.Quote, recommend.Story) {
	now := c.now().In(c.loc)
	return recommend.DailyQuote(now), recommend.WeeklyStory(now)
}

func (c *Client) catalog() *recommend.Catalog {
	return recommend.Default().Merge(c.CustomRecommendations())
}
