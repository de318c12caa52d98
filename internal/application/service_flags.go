package application

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"github.com/lawrns/community-platform-sub000/internal/domain"
)

// FlagContent records a report against a piece of content and consults the
// spam gateway. High-confidence spam is hidden immediately by a system action
// and the flag auto-approved; everything else stays pending for a human.
func (s *Service) FlagContent(ctx context.Context, actor Actor, input FlagContentInput) (FlagOutput, error) {
	if actor.SubjectID == uuid.Nil {
		return FlagOutput{}, domain.ErrUnauthorized
	}
	if !domain.ValidFlagReason(input.Reason) {
		return FlagOutput{}, fmt.Errorf("%w: unknown flag reason %q", domain.ErrInvalidInput, input.Reason)
	}
	content, err := s.contents.Get(ctx, input.TargetID)
	if err != nil {
		return FlagOutput{}, err
	}
	if content.AuthorID == actor.SubjectID {
		return FlagOutput{}, fmt.Errorf("%w: cannot flag your own content", domain.ErrInvalidInput)
	}
	if err := s.requireFlagPrivilege(ctx, actor); err != nil {
		return FlagOutput{}, err
	}

	flagType := domain.FlagTypeContent
	if content.Kind == domain.ContentKindReview {
		flagType = domain.FlagTypeReview
	}
	flag := domain.Flag{
		FlagID:      uuid.New(),
		Type:        flagType,
		TargetID:    input.TargetID,
		ReporterID:  actor.SubjectID,
		Reason:      input.Reason,
		Description: input.Description,
		Status:      domain.FlagStatusPending,
		CreatedAt:   s.nowFn(),
	}
	if err := s.flags.Create(ctx, flag); err != nil {
		return FlagOutput{}, err
	}
	if err := s.enqueueFlagCreated(ctx, flag); err != nil {
		s.logFlagDegraded(ctx, "flag_content", flag.FlagID, err)
	}

	action, autoModerated := s.autoModerate(ctx, flag, content.Body, string(flagType), func(ctx context.Context, metadata map[string]string) (domain.ModerationAction, error) {
		return s.actions.Create(ctx, domain.ModerationAction{
			ActionID:        uuid.New(),
			Type:            domain.ActionHide,
			TargetContentID: &flag.TargetID,
			ModeratorID:     domain.SystemModeratorID,
			Reason:          "automatic spam takedown",
			RelatedFlagID:   &flag.FlagID,
			Status:          domain.ActionStatusActive,
			Metadata:        metadata,
			CreatedAt:       s.nowFn(),
		})
	})
	if autoModerated {
		flag.Status = domain.FlagStatusApproved
		return FlagOutput{Flag: flag, AutoModerated: true, Action: &action}, nil
	}
	return FlagOutput{Flag: flag}, nil
}

// FlagUser records a report against an account. The gateway sees the
// account's profile text.
func (s *Service) FlagUser(ctx context.Context, actor Actor, input FlagUserInput) (FlagOutput, error) {
	if actor.SubjectID == uuid.Nil {
		return FlagOutput{}, domain.ErrUnauthorized
	}
	if !domain.ValidFlagReason(input.Reason) {
		return FlagOutput{}, fmt.Errorf("%w: unknown flag reason %q", domain.ErrInvalidInput, input.Reason)
	}
	if input.TargetID == actor.SubjectID {
		return FlagOutput{}, fmt.Errorf("%w: cannot flag your own account", domain.ErrInvalidInput)
	}
	target, err := s.users.Get(ctx, input.TargetID)
	if err != nil {
		return FlagOutput{}, err
	}
	if err := s.requireFlagPrivilege(ctx, actor); err != nil {
		return FlagOutput{}, err
	}

	flag := domain.Flag{
		FlagID:      uuid.New(),
		Type:        domain.FlagTypeUser,
		TargetID:    input.TargetID,
		ReporterID:  actor.SubjectID,
		Reason:      input.Reason,
		Description: input.Description,
		Status:      domain.FlagStatusPending,
		CreatedAt:   s.nowFn(),
	}
	if err := s.flags.Create(ctx, flag); err != nil {
		return FlagOutput{}, err
	}
	if err := s.enqueueFlagCreated(ctx, flag); err != nil {
		s.logFlagDegraded(ctx, "flag_user", flag.FlagID, err)
	}

	action, autoModerated := s.autoModerate(ctx, flag, target.Username+"\n"+input.Description, string(domain.FlagTypeUser), func(ctx context.Context, metadata map[string]string) (domain.ModerationAction, error) {
		return s.actions.Create(ctx, domain.ModerationAction{
			ActionID:      uuid.New(),
			Type:          domain.ActionSuspend,
			TargetUserID:  &flag.TargetID,
			ModeratorID:   domain.SystemModeratorID,
			Reason:        "automatic spam suspension",
			RelatedFlagID: &flag.FlagID,
			Status:        domain.ActionStatusActive,
			Metadata:      metadata,
			CreatedAt:     s.nowFn(),
		})
	})
	if autoModerated {
		flag.Status = domain.FlagStatusApproved
		return FlagOutput{Flag: flag, AutoModerated: true, Action: &action}, nil
	}
	return FlagOutput{Flag: flag}, nil
}

// autoModerate consults the spam gateway and, above the auto threshold,
// applies the system action and approves the flag. Gateway failure or a
// partial follow-up failure leaves the flag pending for human review; the
// classifier is advisory, never fatal.
func (s *Service) autoModerate(ctx context.Context, flag domain.Flag, text, targetType string, createAction func(context.Context, map[string]string) (domain.ModerationAction, error)) (domain.ModerationAction, bool) {
	if s.spam == nil {
		return domain.ModerationAction{}, false
	}
	checkCtx, cancel := context.WithTimeout(ctx, s.cfg.SpamCheckTimeout)
	defer cancel()
	result, err := s.spam.CheckForSpam(checkCtx, text, targetType)
	if err != nil {
		s.logger.WarnContext(ctx, "spam gateway unavailable, leaving flag pending",
			"module", "application.flags",
			"operation", "auto_moderate",
			"outcome", "fail_open",
			"flag_id", flag.FlagID.String(),
			"error", err,
		)
		return domain.ModerationAction{}, false
	}
	if !result.IsSpam || result.Score <= s.cfg.SpamAutoThreshold {
		return domain.ModerationAction{}, false
	}

	metadata := map[string]string{
		domain.MetadataKeySpamScore: strconv.FormatFloat(result.Score, 'f', 4, 64),
	}
	if result.Reason != "" {
		metadata[domain.MetadataKeySpamReason] = result.Reason
	}
	action, err := createAction(ctx, metadata)
	if err != nil {
		s.logFlagDegraded(ctx, "auto_moderate", flag.FlagID, err)
		return domain.ModerationAction{}, false
	}
	if err := s.flags.Resolve(ctx, flag.FlagID, domain.FlagStatusApproved, s.nowFn()); err != nil {
		s.logFlagDegraded(ctx, "auto_moderate", flag.FlagID, err)
		return domain.ModerationAction{}, false
	}
	if err := s.enqueueActionCreated(ctx, action); err != nil {
		s.logFlagDegraded(ctx, "auto_moderate", flag.FlagID, err)
	}
	return action, true
}

// ResolveFlag is moderator-only. An approval may carry an action type, in
// which case the action against the flag's target is created before the flag
// leaves the queue.
func (s *Service) ResolveFlag(ctx context.Context, actor Actor, input ResolveFlagInput) (FlagOutput, error) {
	if err := s.requireModerator(ctx, actor); err != nil {
		return FlagOutput{}, err
	}
	if input.Status != domain.FlagStatusApproved && input.Status != domain.FlagStatusRejected {
		return FlagOutput{}, fmt.Errorf("%w: flag resolution must be approved or rejected", domain.ErrInvalidInput)
	}
	flag, err := s.flags.Get(ctx, input.FlagID)
	if err != nil {
		return FlagOutput{}, err
	}
	if flag.Status != domain.FlagStatusPending {
		return FlagOutput{}, fmt.Errorf("%w: flag already %s", domain.ErrConflict, flag.Status)
	}

	var created *domain.ModerationAction
	if input.Status == domain.FlagStatusApproved && input.ActionType != nil {
		actionType := *input.ActionType
		if !domain.ValidActionType(actionType) {
			return FlagOutput{}, fmt.Errorf("%w: unknown action type %q", domain.ErrInvalidInput, actionType)
		}
		var action domain.ModerationAction
		var actionErr error
		if flag.Type == domain.FlagTypeUser {
			action, actionErr = s.CreateUserAction(ctx, actor, CreateUserActionInput{
				Type:          actionType,
				UserID:        flag.TargetID,
				Reason:        input.Reason,
				RelatedFlagID: &flag.FlagID,
			})
		} else {
			action, actionErr = s.CreateContentAction(ctx, actor, CreateContentActionInput{
				Type:          actionType,
				ContentID:     flag.TargetID,
				Reason:        input.Reason,
				RelatedFlagID: &flag.FlagID,
			})
		}
		if actionErr != nil {
			return FlagOutput{}, actionErr
		}
		created = &action
	}

	if err := s.flags.Resolve(ctx, input.FlagID, input.Status, s.nowFn()); err != nil {
		return FlagOutput{}, err
	}
	flag.Status = input.Status
	return FlagOutput{Flag: flag, Action: created}, nil
}

// PendingFlags returns the human moderation queue, oldest first.
func (s *Service) PendingFlags(ctx context.Context, actor Actor, limit, offset int) (FlagQueueOutput, error) {
	if err := s.requireModerator(ctx, actor); err != nil {
		return FlagQueueOutput{}, err
	}
	limit, offset = s.page(limit, offset)
	items, total, err := s.flags.ListPending(ctx, limit, offset)
	if err != nil {
		return FlagQueueOutput{}, err
	}
	return FlagQueueOutput{Items: items, Total: total}, nil
}

// requireFlagPrivilege gates flag creation on the flag_content tier; staff
// accounts bypass the reputation check.
func (s *Service) requireFlagPrivilege(ctx context.Context, actor Actor) error {
	if actor.isStaff() {
		return nil
	}
	reporter, err := s.users.Get(ctx, actor.SubjectID)
	if err != nil {
		return err
	}
	if !domain.HasTier(reporter.Reputation, domain.TierFlagContent) {
		threshold, _ := domain.ThresholdOf(domain.TierFlagContent)
		return fmt.Errorf("%w: flagging requires %d reputation", domain.ErrForbidden, threshold)
	}
	return nil
}

// requireModerator admits staff roles or accounts holding the
// moderation_tools tier.
func (s *Service) requireModerator(ctx context.Context, actor Actor) error {
	if actor.SubjectID == uuid.Nil {
		return domain.ErrUnauthorized
	}
	if actor.isStaff() {
		return nil
	}
	user, err := s.users.Get(ctx, actor.SubjectID)
	if err != nil {
		return err
	}
	if !domain.HasTier(user.Reputation, domain.TierModerationTools) {
		return fmt.Errorf("%w: moderator access required", domain.ErrForbidden)
	}
	return nil
}

func (s *Service) logFlagDegraded(ctx context.Context, operation string, flagID uuid.UUID, err error) {
	s.logger.WarnContext(ctx, "flag follow-up failed",
		"module", "application.flags",
		"operation", operation,
		"outcome", "degraded",
		"flag_id", flagID.String(),
		"error", err,
	)
}
