package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
	"github.com/AnshRaj112/mindjourney-backend/internal/recommend"
)

// RecommendationHandler serves the static content catalog. It needs no auth.
type RecommendationHandler struct {
	catalog *recommend.Catalog
	now     func() time.Time
}

func NewRecommendationHandler(catalog *recommend.Catalog) *RecommendationHandler {
	if catalog == nil {
		catalog = recommend.Default()
	}
	return &RecommendationHandler{catalog: catalog, now: time.Now}
}

// ForMood returns recommendations for ?mood=, falling back to neutral.
func (h *RecommendationHandler) ForMood(w http.ResponseWriter, r *http.Request) {
	mood, ok := models.ParseMood(r.URL.Query().Get("mood"))
	if !ok {
		mood = models.MoodNeutral
	}
	count, _ := strconv.Atoi(r.URL.Query().Get("count"))
	if count > 10 {
		count = 10
	}
	writeSuccess(w, http.StatusOK, "", envelope{
		"mood":            mood,
		"recommendations": h.catalog.For(mood, count),
	})
}

// Daily returns the quote of the day and the story of the week.
func (h *RecommendationHandler) Daily(w http.ResponseWriter, r *http.Request) {
	now := h.now().In(requestLocation(r))
	writeSuccess(w, http.StatusOK, "", envelope{
		"quote": recommend.DailyQuote(now),
		"story": recommend.WeeklyStory(now),
	})
}

// Search matches ?q= against the catalog, optionally limited to ?type=.
func (h *RecommendationHandler) Search(w http.ResponseWriter, r *http.Request) {
	kind := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("type")))
	switch kind {
	case "", recommend.KindAll, recommend.KindMovies, recommend.KindMusic, recommend.KindQuotes:
	default:
		writeError(w, http.StatusBadRequest, "type must be one of all, movies, music, quotes")
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{
		"results": h.catalog.Search(r.URL.Query().Get("q"), kind),
	})
}
