package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lawrns/community-platform-sub000/internal/domain"
)

// badgePredicate answers "does this user qualify for the badge right now".
// Predicates are side-effect-free; they only ever add badges, so repeated or
// concurrent evaluation is safe.
type badgePredicate func(ctx context.Context, s *Service, userID uuid.UUID) (bool, error)

var badgePredicates = map[domain.BadgeID]badgePredicate{
	domain.BadgeWelcome: func(ctx context.Context, s *Service, userID uuid.UUID) (bool, error) {
		_, err := s.users.Get(ctx, userID)
		if err != nil {
			return false, err
		}
		return true, nil
	},
	domain.BadgeFirstPost: func(ctx context.Context, s *Service, userID uuid.UUID) (bool, error) {
		n, err := s.contents.CountByAuthor(ctx, userID, nil)
		return n >= 1, err
	},
	domain.BadgeFirstQuestion: authoredAtLeast(domain.ContentKindQuestion, 1),
	domain.BadgeFirstAnswer:   authoredAtLeast(domain.ContentKindAnswer, 1),
	domain.BadgeCurious:       authoredAtLeast(domain.ContentKindQuestion, domain.BadgeCuriousQuestionCount),
	domain.BadgeReviewer:      authoredAtLeast(domain.ContentKindReview, domain.BadgeReviewerReviewCount),
	domain.BadgeHelpful: func(ctx context.Context, s *Service, userID uuid.UUID) (bool, error) {
		return s.contents.HasAcceptedAnswer(ctx, userID)
	},
	domain.BadgePopularPost:    upvotesAtLeast(domain.ContentKindQuestion, domain.BadgePopularPostUpvotes),
	domain.BadgeValuableAnswer: upvotesAtLeast(domain.ContentKindAnswer, domain.BadgeValuableAnswerUpvotes),
	domain.BadgeGreatQuestion:  upvotesAtLeast(domain.ContentKindQuestion, domain.BadgeGreatQuestionUpvotes),
	domain.BadgeCivicDuty: func(ctx context.Context, s *Service, userID uuid.UUID) (bool, error) {
		n, err := s.flags.CountByReporter(ctx, userID)
		return n >= domain.BadgeCivicDutyFlagCount, err
	},
	domain.BadgeExpert: func(ctx context.Context, s *Service, userID uuid.UUID) (bool, error) {
		user, err := s.users.Get(ctx, userID)
		if err != nil {
			return false, err
		}
		return user.Reputation >= domain.BadgeExpertReputation, nil
	},
}

func authoredAtLeast(kind domain.ContentKind, threshold int64) badgePredicate {
	return func(ctx context.Context, s *Service, userID uuid.UUID) (bool, error) {
		n, err := s.contents.CountByAuthor(ctx, userID, &kind)
		return n >= threshold, err
	}
}

func upvotesAtLeast(kind domain.ContentKind, threshold int) badgePredicate {
	return func(ctx context.Context, s *Service, userID uuid.UUID) (bool, error) {
		best, err := s.contents.MaxUpvotesByAuthor(ctx, userID, kind)
		return best >= threshold, err
	}
}

// CheckAndAward evaluates a single badge and awards it if newly earned.
// Already-held badges short-circuit; a uniqueness conflict from the storage
// layer is folded into "already awarded" so concurrent callers cannot
// double-award.
func (s *Service) CheckAndAward(ctx context.Context, userID uuid.UUID, badgeID domain.BadgeID) (BadgeAwardOutput, error) {
	if _, ok := domain.BadgeByID(badgeID); !ok {
		return BadgeAwardOutput{}, fmt.Errorf("%w: unknown badge %q", domain.ErrNotFound, badgeID)
	}
	held, err := s.badges.ListByUser(ctx, userID)
	if err != nil {
		return BadgeAwardOutput{}, err
	}
	for _, b := range held {
		if b.BadgeID == badgeID {
			return BadgeAwardOutput{BadgeID: badgeID, NewlyAwarded: false}, nil
		}
	}

	qualifies, err := badgePredicates[badgeID](ctx, s, userID)
	if err != nil {
		return BadgeAwardOutput{}, err
	}
	if !qualifies {
		return BadgeAwardOutput{BadgeID: badgeID, NewlyAwarded: false}, nil
	}

	awardErr := s.badges.Award(ctx, domain.UserBadge{
		UserID:    userID,
		BadgeID:   badgeID,
		AwardedAt: s.nowFn(),
	})
	if awardErr != nil {
		if errors.Is(awardErr, domain.ErrConflict) {
			// Lost the race to another request; the badge exists exactly once.
			return BadgeAwardOutput{BadgeID: badgeID, NewlyAwarded: false}, nil
		}
		return BadgeAwardOutput{}, awardErr
	}

	if err := s.enqueueBadgeAwarded(ctx, userID, badgeID); err != nil {
		s.logger.WarnContext(ctx, "badge event enqueue failed",
			"module", "application.badges",
			"operation", "check_and_award",
			"outcome", "degraded",
			"user_id", userID.String(),
			"badge_id", string(badgeID),
			"error", err,
		)
	}
	return BadgeAwardOutput{BadgeID: badgeID, NewlyAwarded: true}, nil
}

// CheckAllBadges runs every registered predicate for the user and returns the
// ids of badges newly awarded by this pass.
func (s *Service) CheckAllBadges(ctx context.Context, userID uuid.UUID) ([]domain.BadgeID, error) {
	var newlyAwarded []domain.BadgeID
	for _, badge := range domain.BadgeRegistry() {
		result, err := s.CheckAndAward(ctx, userID, badge.ID)
		if err != nil {
			return newlyAwarded, fmt.Errorf("check badge %s: %w", badge.ID, err)
		}
		if result.NewlyAwarded {
			newlyAwarded = append(newlyAwarded, badge.ID)
		}
	}
	return newlyAwarded, nil
}

// ListBadges returns the user's earned badges with their static definitions.
func (s *Service) ListBadges(ctx context.Context, userID uuid.UUID) ([]UserBadgeView, error) {
	held, err := s.badges.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]UserBadgeView, 0, len(held))
	for _, ub := range held {
		badge, ok := domain.BadgeByID(ub.BadgeID)
		if !ok {
			continue
		}
		views = append(views, UserBadgeView{Badge: badge, AwardedAt: ub.AwardedAt})
	}
	return views, nil
}
