package http

import (
	"net/http"

	"github.com/lawrns/community-platform-sub000/internal/application"
)

// Handler is the HTTP adapter entrypoint for trust and moderation use-cases.
// Keeping only the application dependency here preserves clean adapter
// boundaries.
type Handler struct {
	service  *application.Service
	verifier *TokenVerifier
}

func NewHandler(service *application.Service, verifier *TokenVerifier) *Handler {
	return &Handler{service: service, verifier: verifier}
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ready")
}
