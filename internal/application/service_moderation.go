package application

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/lawrns/community-platform-sub000/internal/domain"
)

// CreateContentAction applies a moderation action to content. The visibility
// mutation and the action record land in one storage transaction. A removal
// (delete) also debits the author's accrued vote reputation; the debit amount
// is recorded on the action so an approved appeal can re-credit it exactly.
func (s *Service) CreateContentAction(ctx context.Context, actor Actor, input CreateContentActionInput) (domain.ModerationAction, error) {
	if err := s.requireModerator(ctx, actor); err != nil {
		return domain.ModerationAction{}, err
	}
	if !domain.ValidActionType(input.Type) || input.Type.TargetsUser() {
		return domain.ModerationAction{}, fmt.Errorf("%w: %q is not a content action", domain.ErrInvalidInput, input.Type)
	}
	content, err := s.contents.Get(ctx, input.ContentID)
	if err != nil {
		return domain.ModerationAction{}, err
	}

	metadata := map[string]string{}
	var debit int
	if input.Type == domain.ActionDelete {
		debit = content.Upvotes * domain.UpvotePointsFor(content.Kind)
		if debit > 0 {
			metadata[domain.MetadataKeyReputationDebit] = strconv.Itoa(debit)
		}
	}

	action, err := s.actions.Create(ctx, domain.ModerationAction{
		ActionID:        uuid.New(),
		Type:            input.Type,
		TargetContentID: &input.ContentID,
		ModeratorID:     actor.SubjectID,
		Reason:          input.Reason,
		RelatedFlagID:   input.RelatedFlagID,
		Status:          domain.ActionStatusActive,
		Metadata:        metadata,
		CreatedAt:       s.nowFn(),
	})
	if err != nil {
		return domain.ModerationAction{}, err
	}

	if debit > 0 {
		if _, err := s.applyLedgerChange(ctx, content.AuthorID, -debit, domain.ReasonContentRemoved, &input.ContentID); err != nil {
			s.logger.WarnContext(ctx, "removal debit failed",
				"module", "application.moderation",
				"operation", "create_content_action",
				"outcome", "degraded",
				"action_id", action.ActionID.String(),
				"error", err,
			)
		}
	}

	if err := s.enqueueActionCreated(ctx, action); err != nil {
		s.logger.WarnContext(ctx, "action event enqueue failed",
			"module", "application.moderation",
			"operation", "create_content_action",
			"outcome", "degraded",
			"action_id", action.ActionID.String(),
			"error", err,
		)
	}
	return action, nil
}

// CreateUserAction applies a moderation action to an account.
func (s *Service) CreateUserAction(ctx context.Context, actor Actor, input CreateUserActionInput) (domain.ModerationAction, error) {
	if err := s.requireModerator(ctx, actor); err != nil {
		return domain.ModerationAction{}, err
	}
	if !input.Type.TargetsUser() {
		return domain.ModerationAction{}, fmt.Errorf("%w: %q is not a user action", domain.ErrInvalidInput, input.Type)
	}
	if _, err := s.users.Get(ctx, input.UserID); err != nil {
		return domain.ModerationAction{}, err
	}

	action, err := s.actions.Create(ctx, domain.ModerationAction{
		ActionID:      uuid.New(),
		Type:          input.Type,
		TargetUserID:  &input.UserID,
		ModeratorID:   actor.SubjectID,
		Reason:        input.Reason,
		RelatedFlagID: input.RelatedFlagID,
		Status:        domain.ActionStatusActive,
		Metadata:      map[string]string{},
		CreatedAt:     s.nowFn(),
	})
	if err != nil {
		return domain.ModerationAction{}, err
	}
	if err := s.enqueueActionCreated(ctx, action); err != nil {
		s.logger.WarnContext(ctx, "action event enqueue failed",
			"module", "application.moderation",
			"operation", "create_user_action",
			"outcome", "degraded",
			"action_id", action.ActionID.String(),
			"error", err,
		)
	}
	return action, nil
}

// ActionsForContent lists the moderation record of a piece of content.
func (s *Service) ActionsForContent(ctx context.Context, actor Actor, contentID uuid.UUID, limit, offset int) (ActionListOutput, error) {
	if err := s.requireModerator(ctx, actor); err != nil {
		return ActionListOutput{}, err
	}
	limit, offset = s.page(limit, offset)
	items, total, err := s.actions.ListForContent(ctx, contentID, limit, offset)
	if err != nil {
		return ActionListOutput{}, err
	}
	return ActionListOutput{Items: items, Total: total}, nil
}

// ActionsForUser lists actions taken against an account.
func (s *Service) ActionsForUser(ctx context.Context, actor Actor, userID uuid.UUID, limit, offset int) (ActionListOutput, error) {
	if err := s.requireModerator(ctx, actor); err != nil {
		return ActionListOutput{}, err
	}
	limit, offset = s.page(limit, offset)
	items, total, err := s.actions.ListForUser(ctx, userID, limit, offset)
	if err != nil {
		return ActionListOutput{}, err
	}
	return ActionListOutput{Items: items, Total: total}, nil
}
