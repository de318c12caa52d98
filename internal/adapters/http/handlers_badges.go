package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/lawrns/community-platform-sub000/internal/domain"
)

func (h *Handler) listBadges(w http.ResponseWriter, r *http.Request) {
	userID, err := uuidParam(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid user_id")
		return
	}

	out, err := h.service.ListBadges(r.Context(), userID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"items": out})
}

func (h *Handler) checkBadge(w http.ResponseWriter, r *http.Request) {
	userID, err := uuidParam(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid user_id")
		return
	}
	badgeID := strings.TrimSpace(chi.URLParam(r, "badge_id"))
	if badgeID == "" {
		writeError(w, http.StatusBadRequest, codeValidation, "missing badge_id")
		return
	}

	out, err := h.service.CheckAndAward(r.Context(), userID, domain.BadgeID(badgeID))
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	statusCode := http.StatusOK
	if out.NewlyAwarded {
		statusCode = http.StatusCreated
	}
	writeSuccess(w, statusCode, out)
}

func (h *Handler) badgeCatalog(w http.ResponseWriter, _ *http.Request) {
	writeSuccess(w, http.StatusOK, map[string]any{"items": domain.BadgeRegistry()})
}
