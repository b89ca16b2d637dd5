package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AnshRaj112/mindjourney-backend/internal/auth"
	"github.com/AnshRaj112/mindjourney-backend/internal/handlers"
	"github.com/AnshRaj112/mindjourney-backend/internal/metrics"
	"github.com/AnshRaj112/mindjourney-backend/internal/middleware"
)

// Deps are the handlers and auth chain the router is built from.
type Deps struct {
	Authenticator   auth.Authenticator
	Auth            *handlers.AuthHandler
	Journal         *handlers.JournalHandler
	Insights        *handlers.InsightsHandler
	Recommendations *handlers.RecommendationHandler
	StatsSocket     *handlers.StatsSocketHandler
	WriteLimiter    *middleware.UserWriteLimiter

	// UploadDir is served at /uploads/ when images are stored locally.
	UploadDir string
}

func SetupRoutes(r chi.Router, d Deps) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", metrics.Handler())

	if d.UploadDir != "" {
		r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(d.UploadDir))))
	}

	requireAuth := middleware.RequireAuth(d.Authenticator)

	r.Route("/api", func(r chi.Router) {
		// Public routes
		r.Post("/auth/register", d.Auth.Register)
		r.Post("/auth/login", d.Auth.Login)

		r.Get("/recommendations", d.Recommendations.ForMood)
		r.Get("/recommendations/daily", d.Recommendations.Daily)
		r.Get("/recommendations/search", d.Recommendations.Search)
		r.Get("/journal/templates", d.Journal.Templates)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			if d.WriteLimiter != nil {
				r.Use(d.WriteLimiter.Handler)
			}

			r.Post("/auth/logout", d.Auth.Logout)
			r.Get("/auth/me", d.Auth.Me)
			r.Put("/auth/settings", d.Auth.UpdateSettings)

			r.Post("/journal", d.Journal.CreateEntry)
			r.Get("/journal", d.Journal.ListEntries)
			r.Get("/journal/draft", d.Journal.GetDraft)
			r.Post("/journal/draft", d.Journal.SaveDraft)
			r.Delete("/journal/draft", d.Journal.DiscardDraft)
			r.Get("/journal/{id}", d.Journal.GetEntry)
			r.Post("/journal/{id}/analysis", d.Journal.RetryAnalysis)

			r.Get("/mood", d.Journal.ListMoods)
			r.Post("/mood", d.Journal.CreateMood)

			r.Get("/stats", d.Insights.Stats)
			r.Get("/insights", d.Insights.Insights)
			r.Get("/export", d.Insights.Export)
		})
	})

	// WebSocket endpoint for live stats updates
	r.With(requireAuth).Get("/ws/stats", d.StatsSocket.ServeHTTP)
}
