package domain

import (
	"time"

	"github.com/google/uuid"
)

// SystemModeratorID marks moderation actions created by the platform itself,
// e.g. automatic spam takedowns. No human account ever carries the nil id.
var SystemModeratorID = uuid.Nil

type User struct {
	UserID     uuid.UUID
	Username   string
	Reputation int
	Suspended  bool
	CreatedAt  time.Time
}

type ContentKind string

const (
	ContentKindQuestion ContentKind = "question"
	ContentKindAnswer   ContentKind = "answer"
	ContentKindReview   ContentKind = "review"
)

type ContentState string

const (
	ContentStateVisible ContentState = "visible"
	ContentStateHidden  ContentState = "hidden"
	ContentStateDeleted ContentState = "deleted"
)

type Content struct {
	ContentID uuid.UUID
	AuthorID  uuid.UUID
	Kind      ContentKind
	Body      string
	Upvotes   int
	Downvotes int
	Accepted  bool
	State     ContentState
	CreatedAt time.Time
}

type ReputationReason string

const (
	ReasonQuestionUpvote   ReputationReason = "question_upvote"
	ReasonAnswerUpvote     ReputationReason = "answer_upvote"
	ReasonQuestionDownvote ReputationReason = "question_downvote"
	ReasonAnswerDownvote   ReputationReason = "answer_downvote"
	ReasonAnswerAccepted   ReputationReason = "answer_accepted"
	ReasonAcceptAnswer     ReputationReason = "accept_answer"
	ReasonToolReview       ReputationReason = "tool_review"
	ReasonAdminAdjustment  ReputationReason = "admin_adjustment"
	ReasonContentRemoved   ReputationReason = "content_removed"
	ReasonVoteReversal     ReputationReason = "vote_reversal"
	ReasonAppealApproved   ReputationReason = "appeal_approved"
)

// ReputationEntry is immutable once written; a user's cached total is always
// the sum of their entries.
type ReputationEntry struct {
	EntryID          uuid.UUID
	UserID           uuid.UUID
	Delta            int
	Reason           ReputationReason
	RelatedContentID *uuid.UUID
	CreatedAt        time.Time
}

type BadgeLevel string

const (
	BadgeLevelBronze BadgeLevel = "bronze"
	BadgeLevelSilver BadgeLevel = "silver"
	BadgeLevelGold   BadgeLevel = "gold"
)

type BadgeID string

type Badge struct {
	ID          BadgeID
	Name        string
	Description string
	Level       BadgeLevel
}

type UserBadge struct {
	UserID    uuid.UUID
	BadgeID   BadgeID
	AwardedAt time.Time
}

type FlagType string

const (
	FlagTypeContent FlagType = "content"
	FlagTypeUser    FlagType = "user"
	FlagTypeReview  FlagType = "review"
)

type FlagReason string

const (
	FlagReasonSpam          FlagReason = "spam"
	FlagReasonHarassment    FlagReason = "harassment"
	FlagReasonMisleading    FlagReason = "misleading"
	FlagReasonInappropriate FlagReason = "inappropriate"
	FlagReasonOther         FlagReason = "other"
)

type FlagStatus string

const (
	FlagStatusPending  FlagStatus = "pending"
	FlagStatusApproved FlagStatus = "approved"
	FlagStatusRejected FlagStatus = "rejected"
)

type Flag struct {
	FlagID      uuid.UUID
	Type        FlagType
	TargetID    uuid.UUID
	ReporterID  uuid.UUID
	Reason      FlagReason
	Description string
	Status      FlagStatus
	CreatedAt   time.Time
	ResolvedAt  *time.Time
}

type ActionStatus string

const (
	ActionStatusActive   ActionStatus = "active"
	ActionStatusReverted ActionStatus = "reverted"
)

type ModerationAction struct {
	ActionID        uuid.UUID
	Type            ActionType
	TargetContentID *uuid.UUID
	TargetUserID    *uuid.UUID
	ModeratorID     uuid.UUID
	Reason          string
	RelatedFlagID   *uuid.UUID
	Status          ActionStatus
	Metadata        map[string]string
	CreatedAt       time.Time
}

type AppealStatus string

const (
	AppealStatusPending  AppealStatus = "pending"
	AppealStatusApproved AppealStatus = "approved"
	AppealStatusRejected AppealStatus = "rejected"
)

type Appeal struct {
	AppealID    uuid.UUID
	ActionID    uuid.UUID
	UserID      uuid.UUID
	Reason      string
	Status      AppealStatus
	ModeratorID *uuid.UUID
	Notes       string
	CreatedAt   time.Time
	ResolvedAt  *time.Time
}

func ValidFlagReason(r FlagReason) bool {
	switch r {
	case FlagReasonSpam, FlagReasonHarassment, FlagReasonMisleading, FlagReasonInappropriate, FlagReasonOther:
		return true
	}
	return false
}

func ValidFlagType(t FlagType) bool {
	switch t {
	case FlagTypeContent, FlagTypeUser, FlagTypeReview:
		return true
	}
	return false
}
