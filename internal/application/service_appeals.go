package application

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lawrns/community-platform-sub000/internal/domain"
	"github.com/lawrns/community-platform-sub000/internal/ports"
)

// CreateAppeal lets the target of a moderation action contest it. Only the
// actual target may appeal, only while the action is active, and only one
// pending appeal per (action, user) pair may exist at a time.
func (s *Service) CreateAppeal(ctx context.Context, actor Actor, input CreateAppealInput) (domain.Appeal, error) {
	if actor.SubjectID == uuid.Nil {
		return domain.Appeal{}, domain.ErrUnauthorized
	}
	if strings.TrimSpace(input.Reason) == "" {
		return domain.Appeal{}, fmt.Errorf("%w: appeal reason is required", domain.ErrInvalidInput)
	}
	action, err := s.actions.Get(ctx, input.ActionID)
	if err != nil {
		return domain.Appeal{}, err
	}
	target, err := s.actionTarget(ctx, action)
	if err != nil {
		return domain.Appeal{}, err
	}
	if target != actor.SubjectID {
		return domain.Appeal{}, fmt.Errorf("%w: only the action's target may appeal", domain.ErrForbidden)
	}
	if action.Status != domain.ActionStatusActive {
		return domain.Appeal{}, fmt.Errorf("%w: action already %s", domain.ErrConflict, action.Status)
	}

	appeal := domain.Appeal{
		AppealID:  uuid.New(),
		ActionID:  input.ActionID,
		UserID:    actor.SubjectID,
		Reason:    strings.TrimSpace(input.Reason),
		Status:    domain.AppealStatusPending,
		CreatedAt: s.nowFn(),
	}
	if err := s.appeals.Create(ctx, appeal); err != nil {
		return domain.Appeal{}, err
	}
	return appeal, nil
}

// ResolveAppeal is moderator-only and terminal for the appeal. Approval
// reverses the action: status flips to reverted, the target's pre-action
// state is restored, and any recorded reputation debit is re-credited, all
// inside one storage transaction.
func (s *Service) ResolveAppeal(ctx context.Context, actor Actor, input ResolveAppealInput) (domain.Appeal, error) {
	if err := s.requireModerator(ctx, actor); err != nil {
		return domain.Appeal{}, err
	}
	if input.Status != domain.AppealStatusApproved && input.Status != domain.AppealStatusRejected {
		return domain.Appeal{}, fmt.Errorf("%w: appeal resolution must be approved or rejected", domain.ErrInvalidInput)
	}
	appeal, err := s.appeals.Get(ctx, input.AppealID)
	if err != nil {
		return domain.Appeal{}, err
	}
	if appeal.Status != domain.AppealStatusPending {
		return domain.Appeal{}, fmt.Errorf("%w: appeal already %s", domain.ErrConflict, appeal.Status)
	}

	now := s.nowFn()
	if input.Status == domain.AppealStatusRejected {
		if err := s.appeals.Reject(ctx, input.AppealID, actor.SubjectID, input.Notes, now); err != nil {
			return domain.Appeal{}, err
		}
	} else {
		action, err := s.actions.Get(ctx, appeal.ActionID)
		if err != nil {
			return domain.Appeal{}, err
		}
		compensation := s.compensationFor(action, appeal)
		if err := s.appeals.Approve(ctx, input.AppealID, actor.SubjectID, input.Notes, compensation, now); err != nil {
			return domain.Appeal{}, err
		}
		s.invalidateStatsCache(ctx, appeal.UserID)
		if compensation != nil {
			if _, err := s.CheckAllBadges(ctx, appeal.UserID); err != nil {
				s.logger.WarnContext(ctx, "badge re-evaluation failed after appeal credit",
					"module", "application.appeals",
					"operation", "resolve_appeal",
					"outcome", "degraded",
					"appeal_id", appeal.AppealID.String(),
					"error", err,
				)
			}
		}
	}

	resolved, err := s.appeals.Get(ctx, input.AppealID)
	if err != nil {
		return domain.Appeal{}, err
	}
	if err := s.enqueueAppealResolved(ctx, resolved); err != nil {
		s.logger.WarnContext(ctx, "appeal event enqueue failed",
			"module", "application.appeals",
			"operation", "resolve_appeal",
			"outcome", "degraded",
			"appeal_id", resolved.AppealID.String(),
			"error", err,
		)
	}
	return resolved, nil
}

// AppealsForUser lists a user's own appeals.
func (s *Service) AppealsForUser(ctx context.Context, actor Actor, userID uuid.UUID, limit, offset int) (AppealListOutput, error) {
	if actor.SubjectID == uuid.Nil {
		return AppealListOutput{}, domain.ErrUnauthorized
	}
	if actor.SubjectID != userID && !actor.isStaff() {
		return AppealListOutput{}, fmt.Errorf("%w: appeals are visible to their owner and staff", domain.ErrForbidden)
	}
	limit, offset = s.page(limit, offset)
	items, total, err := s.appeals.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return AppealListOutput{}, err
	}
	return AppealListOutput{Items: items, Total: total}, nil
}

// actionTarget resolves the account an action ultimately targeted: the
// flagged user for account actions, the author for content actions.
func (s *Service) actionTarget(ctx context.Context, action domain.ModerationAction) (uuid.UUID, error) {
	if action.TargetUserID != nil {
		return *action.TargetUserID, nil
	}
	if action.TargetContentID != nil {
		content, err := s.contents.Get(ctx, *action.TargetContentID)
		if err != nil {
			return uuid.Nil, err
		}
		return content.AuthorID, nil
	}
	return uuid.Nil, fmt.Errorf("%w: action has no target", domain.ErrInvalidInput)
}

// compensationFor builds the re-crediting ledger entry for an approved
// appeal. The amount is exactly the debit the action recorded when it was
// applied; actions without a recorded debit get no compensation.
func (s *Service) compensationFor(action domain.ModerationAction, appeal domain.Appeal) *ports.AppendEntryParams {
	raw, ok := action.Metadata[domain.MetadataKeyReputationDebit]
	if !ok {
		return nil
	}
	debit, err := strconv.Atoi(raw)
	if err != nil || debit <= 0 {
		return nil
	}
	return &ports.AppendEntryParams{
		EntryID:          uuid.New(),
		UserID:           appeal.UserID,
		Delta:            debit,
		Reason:           domain.ReasonAppealApproved,
		RelatedContentID: action.TargetContentID,
		CreatedAt:        s.nowFn(),
	}
}
