package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lawrns/community-platform-sub000/internal/application"
	"github.com/lawrns/community-platform-sub000/internal/domain"
)

type applyChangeRequest struct {
	UserID           string `json:"user_id"`
	Reason           string `json:"reason"`
	Delta            int    `json:"delta,omitempty"`
	RelatedContentID string `json:"related_content_id,omitempty"`
}

func (h *Handler) applyReputationChange(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
		return
	}

	var req applyChangeRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid user_id")
		return
	}
	relatedID, err := optionalUUID(req.RelatedContentID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid related_content_id")
		return
	}

	out, err := h.service.ApplyChange(r.Context(), actor, application.ApplyChangeInput{
		UserID:           userID,
		Reason:           domain.ReputationReason(req.Reason),
		Delta:            req.Delta,
		RelatedContentID: relatedID,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, out)
}

func (h *Handler) reputationHistory(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
		return
	}
	userID, err := uuidParam(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid user_id")
		return
	}

	limit, offset := parsePage(r)
	out, err := h.service.History(r.Context(), actor, userID, limit, offset)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, out)
}

func (h *Handler) reputationStats(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
		return
	}
	userID, err := uuidParam(r, "user_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid user_id")
		return
	}

	out, err := h.service.Stats(r.Context(), actor, userID)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, out)
}
