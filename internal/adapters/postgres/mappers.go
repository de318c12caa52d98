package postgres

import (
	"encoding/json"

	"github.com/lawrns/community-platform-sub000/internal/domain"
)

func userFromRow(r userRow) domain.User {
	return domain.User{
		UserID:     r.UserID,
		Username:   r.Username,
		Reputation: r.Reputation,
		Suspended:  r.Suspended,
		CreatedAt:  r.CreatedAt,
	}
}

func contentFromRow(r contentRow) domain.Content {
	return domain.Content{
		ContentID: r.ContentID,
		AuthorID:  r.AuthorID,
		Kind:      domain.ContentKind(r.Kind),
		Body:      r.Body,
		Upvotes:   r.Upvotes,
		Downvotes: r.Downvotes,
		Accepted:  r.Accepted,
		State:     domain.ContentState(r.State),
		CreatedAt: r.CreatedAt,
	}
}

func entryFromRow(r reputationEntryRow) domain.ReputationEntry {
	return domain.ReputationEntry{
		EntryID:          r.EntryID,
		UserID:           r.UserID,
		Delta:            r.Delta,
		Reason:           domain.ReputationReason(r.Reason),
		RelatedContentID: r.RelatedContentID,
		CreatedAt:        r.CreatedAt,
	}
}

func flagFromRow(r flagRow) domain.Flag {
	return domain.Flag{
		FlagID:      r.FlagID,
		Type:        domain.FlagType(r.FlagType),
		TargetID:    r.TargetID,
		ReporterID:  r.ReporterID,
		Reason:      domain.FlagReason(r.Reason),
		Description: r.Description,
		Status:      domain.FlagStatus(r.Status),
		CreatedAt:   r.CreatedAt,
		ResolvedAt:  r.ResolvedAt,
	}
}

func actionFromRow(r actionRow) (domain.ModerationAction, error) {
	meta := map[string]string{}
	if len(r.Metadata) > 0 {
		if err := json.Unmarshal(r.Metadata, &meta); err != nil {
			return domain.ModerationAction{}, err
		}
	}
	return domain.ModerationAction{
		ActionID:        r.ActionID,
		Type:            domain.ActionType(r.ActionType),
		TargetContentID: r.TargetContentID,
		TargetUserID:    r.TargetUserID,
		ModeratorID:     r.ModeratorID,
		Reason:          r.Reason,
		RelatedFlagID:   r.RelatedFlagID,
		Status:          domain.ActionStatus(r.Status),
		Metadata:        meta,
		CreatedAt:       r.CreatedAt,
	}, nil
}

func actionToRow(a domain.ModerationAction) (actionRow, error) {
	meta := a.Metadata
	if meta == nil {
		meta = map[string]string{}
	}
	raw, err := json.Marshal(meta)
	if err != nil {
		return actionRow{}, err
	}
	return actionRow{
		ActionID:        a.ActionID,
		ActionType:      string(a.Type),
		TargetContentID: a.TargetContentID,
		TargetUserID:    a.TargetUserID,
		ModeratorID:     a.ModeratorID,
		Reason:          a.Reason,
		RelatedFlagID:   a.RelatedFlagID,
		Status:          string(a.Status),
		Metadata:        raw,
		CreatedAt:       a.CreatedAt,
	}, nil
}

func appealFromRow(r appealRow) domain.Appeal {
	return domain.Appeal{
		AppealID:    r.AppealID,
		ActionID:    r.ModerationActionID,
		UserID:      r.UserID,
		Reason:      r.Reason,
		Status:      domain.AppealStatus(r.Status),
		ModeratorID: r.ModeratorID,
		Notes:       r.Notes,
		CreatedAt:   r.CreatedAt,
		ResolvedAt:  r.ResolvedAt,
	}
}
