package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lawrns/community-platform-sub000/internal/application"
	"github.com/lawrns/community-platform-sub000/internal/domain"
)

type createAppealRequest struct {
	ActionID string `json:"action_id"`
	Reason   string `json:"reason"`
}

type resolveAppealRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes,omitempty"`
}

func (h *Handler) createAppeal(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
		return
	}

	var req createAppealRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}
	actionID, err := uuid.Parse(req.ActionID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid action_id")
		return
	}

	appeal, err := h.service.CreateAppeal(r.Context(), actor, application.CreateAppealInput{
		ActionID: actionID,
		Reason:   req.Reason,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, appeal)
}

func (h *Handler) resolveAppeal(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
		return
	}
	appealID, err := uuidParam(r, "appeal_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid appeal_id")
		return
	}

	var req resolveAppealRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	appeal, err := h.service.ResolveAppeal(r.Context(), actor, application.ResolveAppealInput{
		AppealID: appealID,
		Status:   domain.AppealStatus(req.Status),
		Notes:    req.Notes,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, appeal)
}

func (h *Handler) userAppeals(w http.ResponseWriter, r *http.Request) {
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
	out, err := h.service.AppealsForUser(r.Context(), actor, userID, limit, offset)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, out)
}
