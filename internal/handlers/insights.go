package handlers

import (
	"net/http"
	"time"

	"github.com/AnshRaj112/mindjourney-backend/internal/models"
	"github.com/AnshRaj112/mindjourney-backend/internal/services"
	"github.com/AnshRaj112/mindjourney-backend/internal/storage"
)

// InsightsHandler serves the dashboard aggregates and the data export.
type InsightsHandler struct {
	stats *services.StatsService
	users storage.UserStore
}

func NewInsightsHandler(stats *services.StatsService, users storage.UserStore) *InsightsHandler {
	return &InsightsHandler{stats: stats, users: users}
}

// Insights returns stats, achievements, the weekly summary, the mood trend
// and the mood distribution in the caller's time zone.
func (h *InsightsHandler) Insights(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()

	ins, err := h.stats.Insights(ctx, identity(r).UserID, requestLocation(r))
	if err != nil {
		writeServiceError(w, r, err, "Failed to load insights")
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"insights": ins})
}

// Stats returns only the counters, served from cache when possible.
func (h *InsightsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()

	stats, err := h.stats.Stats(ctx, identity(r).UserID, requestLocation(r))
	if err != nil {
		writeServiceError(w, r, err, "Failed to load stats")
		return
	}
	writeSuccess(w, http.StatusOK, "", envelope{"stats": stats})
}

// Export streams the caller's full history as a JSON download.
func (h *InsightsHandler) Export(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := storeContext(r)
	defer cancel()

	user, err := h.users.UserByID(ctx, identity(r).UserID)
	if err != nil {
		writeServiceError(w, r, err, "Failed to load profile")
		return
	}

	loc := requestLocation(r)
	doc, err := h.stats.Export(ctx, user, loc)
	if err != nil {
		writeServiceError(w, r, err, "Failed to export data")
		return
	}

	w.Header().Set("Content-Disposition", `attachment; filename="`+models.ExportFileName(time.Now().In(loc))+`"`)
	writeJSON(w, http.StatusOK, doc)
}
