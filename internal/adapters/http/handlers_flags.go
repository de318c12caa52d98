package http

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/lawrns/community-platform-sub000/internal/application"
	"github.com/lawrns/community-platform-sub000/internal/domain"
)

type createFlagRequest struct {
	TargetID    string `json:"target_id"`
	Reason      string `json:"reason"`
	Description string `json:"description,omitempty"`
}

type resolveFlagRequest struct {
	Status     string `json:"status"`
	ActionType string `json:"action_type,omitempty"`
	Reason     string `json:"reason,omitempty"`
}

func (h *Handler) flagContent(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
		return
	}

	var req createFlagRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid target_id")
		return
	}

	out, err := h.service.FlagContent(r.Context(), actor, application.FlagContentInput{
		TargetID:    targetID,
		Reason:      domain.FlagReason(req.Reason),
		Description: req.Description,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, out)
}

func (h *Handler) flagUser(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
		return
	}

	var req createFlagRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}
	targetID, err := uuid.Parse(req.TargetID)
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid target_id")
		return
	}

	out, err := h.service.FlagUser(r.Context(), actor, application.FlagUserInput{
		TargetID:    targetID,
		Reason:      domain.FlagReason(req.Reason),
		Description: req.Description,
	})
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusCreated, out)
}

func (h *Handler) pendingFlags(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
		return
	}

	limit, offset := parsePage(r)
	out, err := h.service.PendingFlags(r.Context(), actor, limit, offset)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, out)
}

func (h *Handler) resolveFlag(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing bearer token")
		return
	}
	flagID, err := uuidParam(r, "flag_id")
	if err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, "invalid flag_id")
		return
	}

	var req resolveFlagRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, codeValidation, err.Error())
		return
	}

	input := application.ResolveFlagInput{
		FlagID: flagID,
		Status: domain.FlagStatus(req.Status),
		Reason: req.Reason,
	}
	if req.ActionType != "" {
		actionType := domain.ActionType(req.ActionType)
		input.ActionType = &actionType
	}

	out, err := h.service.ResolveFlag(r.Context(), actor, input)
	if err != nil {
		status, code, msg := mapDomainError(err)
		writeError(w, status, code, msg)
		return
	}
	writeSuccess(w, http.StatusOK, out)
}
