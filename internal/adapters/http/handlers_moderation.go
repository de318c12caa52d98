package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lawrns/community-platform-sub000/internal/application"
	"github.com/lawrns/community-platform-sub000/internal/domain"
)

type createActionRequest struct {
	Type          string `json:"type"`
	TargetID      string `json:"target_id"`
	Reason        string `json:"reason"`
	RelatedFlagID string `json:"related_flag_id,omitempty"`
}

func (h *Handler) createContentAction(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
		return
	}

	var req createActionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}
	contentID, err := uuid.Parse(req.TargetID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid target_id")
		return
	}
	relatedFlagID, err := optionalUUID(req.RelatedFlagID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid related_flag_id")
		return
	}

	action, err := h.service.CreateContentAction(r.Context(), actor, application.CreateContentActionInput{
		Type:          domain.ActionType(req.Type),
		ContentID:     contentID,
		Reason:        req.Reason,
		RelatedFlagID: relatedFlagID,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, action)
}

func (h *Handler) createUserAction(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
		return
	}

	var req createActionRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}
	userID, err := uuid.Parse(req.TargetID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid target_id")
		return
	}
	relatedFlagID, err := optionalUUID(req.RelatedFlagID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid related_flag_id")
		return
	}

	action, err := h.service.CreateUserAction(r.Context(), actor, application.CreateUserActionInput{
		Type:          domain.ActionType(req.Type),
		UserID:        userID,
		Reason:        req.Reason,
		RelatedFlagID: relatedFlagID,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, action)
}

func (h *Handler) contentActions(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
		return
	}
	contentID, err := uuidParam(r, "content_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid content_id")
		return
	}

	limit, offset := parsePage(r)
	out, err := h.service.ActionsForContent(r.Context(), actor, contentID, limit, offset)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, out)
}

func (h *Handler) userActions(w http.ResponseWriter, r *http.Request) {
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
	out, err := h.service.ActionsForUser(r.Context(), actor, userID, limit, offset)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, out)
}
