package application

import (
	"time"

	"github.com/google/uuid"
	"github.com/lawrns/community-platform-sub000/internal/domain"
)

type ApplyChangeInput struct {
	UserID           uuid.UUID
	Reason           domain.ReputationReason
	Delta            int // 0 derives the fixed delta from the reason table
	RelatedContentID *uuid.UUID
}

type ApplyChangeOutput struct {
	Entry             domain.ReputationEntry `json:"entry"`
	NewTotal          int                    `json:"new_total"`
	NewBadges         []domain.BadgeID       `json:"new_badges,omitempty"`
	BadgeCheckWarning string                 `json:"badge_check_warning,omitempty"`
}

type HistoryOutput struct {
	Items []domain.ReputationEntry `json:"items"`
	Total int                      `json:"total"`
}

type StatsOutput struct {
	UserID     uuid.UUID                       `json:"user_id"`
	Total      int                             `json:"total"`
	ByReason   map[domain.ReputationReason]int `json:"by_reason"`
	Rank       int64                           `json:"rank"`
	Percentile float64                         `json:"percentile"`
	Privileges []domain.PrivilegeTier          `json:"privileges"`
}

type BadgeAwardOutput struct {
	BadgeID      domain.BadgeID `json:"badge_id"`
	NewlyAwarded bool           `json:"newly_awarded"`
}

type UserBadgeView struct {
	Badge     domain.Badge `json:"badge"`
	AwardedAt time.Time    `json:"awarded_at"`
}

type FlagContentInput struct {
	TargetID    uuid.UUID
	Reason      domain.FlagReason
	Description string
}

type FlagUserInput struct {
	TargetID    uuid.UUID
	Reason      domain.FlagReason
	Description string
}

type FlagOutput struct {
	Flag          domain.Flag              `json:"flag"`
	AutoModerated bool                     `json:"auto_moderated"`
	Action        *domain.ModerationAction `json:"action,omitempty"`
}

type ResolveFlagInput struct {
	FlagID     uuid.UUID
	Status     domain.FlagStatus
	ActionType *domain.ActionType
	Reason     string
}

type FlagQueueOutput struct {
	Items []domain.Flag `json:"items"`
	Total int           `json:"total"`
}

type CreateContentActionInput struct {
	Type          domain.ActionType
	ContentID     uuid.UUID
	Reason        string
	RelatedFlagID *uuid.UUID
}

type CreateUserActionInput struct {
	Type          domain.ActionType
	UserID        uuid.UUID
	Reason        string
	RelatedFlagID *uuid.UUID
}

type ActionListOutput struct {
	Items []domain.ModerationAction `json:"items"`
	Total int                       `json:"total"`
}

type CreateAppealInput struct {
	ActionID uuid.UUID
	Reason   string
}

type ResolveAppealInput struct {
	AppealID uuid.UUID
	Status   domain.AppealStatus
	Notes    string
}

type AppealListOutput struct {
	Items []domain.Appeal `json:"items"`
	Total int             `json:"total"`
}
