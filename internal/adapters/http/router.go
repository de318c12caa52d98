package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NewRouter registers the trust-moderation HTTP routes and middleware stack.
// Centralizing routes here keeps auth and error behavior consistent across
// endpoints.
func NewRouter(handler *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(recoverMiddleware)
	r.Use(loggingMiddleware)

	r.Get("/healthz", handler.healthz)
	r.Get("/readyz", handler.readyz)

	r.Route("/trust/v1", func(r chi.Router) {
		r.Get("/badges", handler.badgeCatalog)

		r.Group(func(r chi.Router) {
			r.Use(handler.authMiddleware)

			r.Post("/reputation/changes", handler.applyReputationChange)
			r.Get("/users/{user_id}/reputation/history", handler.reputationHistory)
			r.Get("/users/{user_id}/reputation/stats", handler.reputationStats)

			r.Get("/users/{user_id}/badges", handler.listBadges)
			r.Post("/users/{user_id}/badges/{badge_id}/check", handler.checkBadge)

			r.Post("/flags/content", handler.flagContent)
			r.Post("/flags/users", handler.flagUser)
			r.Get("/flags/pending", handler.pendingFlags)
			r.Post("/flags/{flag_id}/resolve", handler.resolveFlag)

			r.Post("/actions/content", handler.createContentAction)
			r.Post("/actions/users", handler.createUserAction)
			r.Get("/content/{content_id}/actions", handler.contentActions)
			r.Get("/users/{user_id}/actions", handler.userActions)

			r.Post("/appeals", handler.createAppeal)
			r.Post("/appeals/{appeal_id}/resolve", handler.resolveAppeal)
			r.Get("/users/{user_id}/appeals", handler.userAppeals)
		})
	})

	return r
}
