package application

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lawrns/community-platform-sub000/internal/domain"
	"github.com/lawrns/community-platform-sub000/internal/ports"
)

// ApplyChange appends a ledger entry and bumps the user's cached total in one
// transaction, then re-evaluates badges as a best-effort follow-up. A badge
// evaluation failure never rolls back the reputation change; it comes back as
// a warning on the output.
func (s *Service) ApplyChange(ctx context.Context, actor Actor, input ApplyChangeInput) (ApplyChangeOutput, error) {
	if actor.SubjectID == uuid.Nil {
		return ApplyChangeOutput{}, domain.ErrUnauthorized
	}
	if !domain.ValidReason(input.Reason) {
		return ApplyChangeOutput{}, fmt.Errorf("%w: unknown reputation reason %q", domain.ErrInvalidInput, input.Reason)
	}
	delta := input.Delta
	if fixed, ok := domain.DeltaFor(input.Reason); ok {
		delta = fixed
		if err := s.requireActorTier(ctx, actor, input.Reason); err != nil {
			return ApplyChangeOutput{}, err
		}
	} else {
		// Free-delta reasons (admin adjustments, moderation debits,
		// appeal credits) are staff-only.
		if input.Reason == domain.ReasonAdminAdjustment && actor.Role != RoleAdmin {
			return ApplyChangeOutput{}, fmt.Errorf("%w: admin adjustments require the admin role", domain.ErrForbidden)
		}
		if !actor.isStaff() {
			return ApplyChangeOutput{}, fmt.Errorf("%w: reason %q requires a moderator", domain.ErrForbidden, input.Reason)
		}
	}
	if delta == 0 {
		return ApplyChangeOutput{}, fmt.Errorf("%w: delta must be non-zero for reason %q", domain.ErrInvalidInput, input.Reason)
	}
	if _, err := s.users.Get(ctx, input.UserID); err != nil {
		return ApplyChangeOutput{}, err
	}
	return s.applyLedgerChange(ctx, input.UserID, delta, input.Reason, input.RelatedContentID)
}

// requireActorTier gates vote-driven changes on the voter's own tier; staff
// and service principals bypass the reputation check.
func (s *Service) requireActorTier(ctx context.Context, actor Actor, reason domain.ReputationReason) error {
	tier, ok := domain.ActorTierFor(reason)
	if !ok || actor.isStaff() {
		return nil
	}
	voter, err := s.users.Get(ctx, actor.SubjectID)
	if err != nil {
		return err
	}
	if !domain.HasTier(voter.Reputation, tier) {
		threshold, _ := domain.ThresholdOf(tier)
		return fmt.Errorf("%w: reason %q requires %d reputation", domain.ErrForbidden, reason, threshold)
	}
	return nil
}

// applyLedgerChange is the shared ledger write path: transactional append,
// post-commit event, cache invalidation, and the failure-isolated badge pass.
func (s *Service) applyLedgerChange(ctx context.Context, userID uuid.UUID, delta int, reason domain.ReputationReason, relatedContentID *uuid.UUID) (ApplyChangeOutput, error) {
	params := ports.AppendEntryParams{
		EntryID:          uuid.New(),
		UserID:           userID,
		Delta:            delta,
		Reason:           reason,
		RelatedContentID: relatedContentID,
		CreatedAt:        s.nowFn(),
	}
	newTotal, err := s.reputation.Append(ctx, params)
	if err != nil {
		return ApplyChangeOutput{}, err
	}
	if err := s.enqueueReputationChanged(ctx, userID, delta, reason, newTotal); err != nil {
		s.logger.WarnContext(ctx, "reputation event enqueue failed",
			"module", "application.reputation",
			"operation", "apply_change",
			"outcome", "degraded",
			"user_id", userID.String(),
			"error", err,
		)
	}
	s.invalidateStatsCache(ctx, userID)

	out := ApplyChangeOutput{
		Entry: domain.ReputationEntry{
			EntryID:          params.EntryID,
			UserID:           params.UserID,
			Delta:            params.Delta,
			Reason:           params.Reason,
			RelatedContentID: params.RelatedContentID,
			CreatedAt:        params.CreatedAt,
		},
		NewTotal: newTotal,
	}

	// Post-commit, failure-isolated badge pass.
	newBadges, badgeErr := s.CheckAllBadges(ctx, userID)
	if badgeErr != nil {
		s.logger.WarnContext(ctx, "badge re-evaluation failed after reputation change",
			"module", "application.reputation",
			"operation", "apply_change",
			"outcome", "degraded",
			"user_id", userID.String(),
			"error", badgeErr,
		)
		out.BadgeCheckWarning = "badge evaluation failed; the reputation change was applied"
		return out, nil
	}
	out.NewBadges = newBadges
	return out, nil
}

// History returns the reverse-chronological ledger page for a user.
func (s *Service) History(ctx context.Context, actor Actor, userID uuid.UUID, limit, offset int) (HistoryOutput, error) {
	if actor.SubjectID == uuid.Nil {
		return HistoryOutput{}, domain.ErrUnauthorized
	}
	limit, offset = s.page(limit, offset)
	items, total, err := s.reputation.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return HistoryOutput{}, err
	}
	return HistoryOutput{Items: items, Total: total}, nil
}

// Stats computes total, per-reason breakdown, rank, and percentile. Rank and
// percentile scan the full user set, so results are cached briefly.
func (s *Service) Stats(ctx context.Context, actor Actor, userID uuid.UUID) (StatsOutput, error) {
	if actor.SubjectID == uuid.Nil {
		return StatsOutput{}, domain.ErrUnauthorized
	}
	if cached, ok := s.statsFromCache(ctx, userID); ok {
		return cached, nil
	}

	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return StatsOutput{}, err
	}
	byReason, err := s.reputation.TotalsByReason(ctx, userID)
	if err != nil {
		return StatsOutput{}, err
	}
	greater, err := s.reputation.CountWithGreaterReputation(ctx, user.Reputation)
	if err != nil {
		return StatsOutput{}, err
	}
	positive, err := s.reputation.CountPositive(ctx)
	if err != nil {
		return StatsOutput{}, err
	}
	percentile := 0.0
	if positive > 0 {
		atOrBelow, countErr := s.reputation.CountPositiveAtOrBelow(ctx, user.Reputation)
		if countErr != nil {
			return StatsOutput{}, countErr
		}
		percentile = float64(atOrBelow) / float64(positive) * 100
	}

	out := StatsOutput{
		UserID:     userID,
		Total:      user.Reputation,
		ByReason:   byReason,
		Rank:       greater + 1,
		Percentile: percentile,
		Privileges: domain.PrivilegesOf(user.Reputation),
	}
	s.statsToCache(ctx, out)
	return out, nil
}

// PrivilegesOf is the pure tier lookup exposed to the route layer.
func (s *Service) PrivilegesOf(reputation int) []domain.PrivilegeTier {
	return domain.PrivilegesOf(reputation)
}

// HasPrivilege reads the user's cached total and delegates to the tier table;
// privilege is always reputation-derived, never granted separately.
func (s *Service) HasPrivilege(ctx context.Context, userID uuid.UUID, tier domain.PrivilegeTier) (bool, error) {
	if _, ok := domain.ThresholdOf(tier); !ok {
		return false, fmt.Errorf("%w: unknown privilege tier %q", domain.ErrInvalidInput, tier)
	}
	user, err := s.users.Get(ctx, userID)
	if err != nil {
		return false, err
	}
	return domain.HasTier(user.Reputation, tier), nil
}

func statsCacheKey(userID uuid.UUID) string {
	return "trust:stats:" + userID.String()
}

func (s *Service) statsFromCache(ctx context.Context, userID uuid.UUID) (StatsOutput, bool) {
	if s.cache == nil {
		return StatsOutput{}, false
	}
	raw, err := s.cache.Get(ctx, statsCacheKey(userID))
	if err != nil || strings.TrimSpace(raw) == "" {
		return StatsOutput{}, false
	}
	var out StatsOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return StatsOutput{}, false
	}
	return out, true
}

func (s *Service) statsToCache(ctx context.Context, out StatsOutput) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, statsCacheKey(out.UserID), string(raw), s.cfg.StatsCacheTTL)
}

func (s *Service) invalidateStatsCache(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	_ = s.cache.Delete(ctx, statsCacheKey(userID))
}
