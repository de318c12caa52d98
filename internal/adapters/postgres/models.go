package postgres

import (
	"time"

	"github.com/google/uuid"
)

type userRow struct {
	UserID     uuid.UUID `gorm:"column:user_id;primaryKey"`
	Username   string    `gorm:"column:username"`
	Reputation int       `gorm:"column:reputation"`
	Suspended  bool      `gorm:"column:suspended"`
	CreatedAt  time.Time `gorm:"column:created_at"`
}

func (userRow) TableName() string { return "trust_users" }

type contentRow struct {
	ContentID uuid.UUID `gorm:"column:content_id;primaryKey"`
	AuthorID  uuid.UUID `gorm:"column:author_id"`
	Kind      string    `gorm:"column:kind"`
	Body      string    `gorm:"column:body"`
	Upvotes   int       `gorm:"column:upvotes"`
	Downvotes int       `gorm:"column:downvotes"`
	Accepted  bool      `gorm:"column:accepted"`
	State     string    `gorm:"column:state"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (contentRow) TableName() string { return "trust_contents" }

type reputationEntryRow struct {
	EntryID          uuid.UUID  `gorm:"column:entry_id;primaryKey"`
	UserID           uuid.UUID  `gorm:"column:user_id"`
	Delta            int        `gorm:"column:delta"`
	Reason           string     `gorm:"column:reason"`
	RelatedContentID *uuid.UUID `gorm:"column:related_content_id"`
	CreatedAt        time.Time  `gorm:"column:created_at"`
}

func (reputationEntryRow) TableName() string { return "trust_reputation_entries" }

type userBadgeRow struct {
	UserID    uuid.UUID `gorm:"column:user_id;primaryKey"`
	BadgeID   string    `gorm:"column:badge_id;primaryKey"`
	AwardedAt time.Time `gorm:"column:awarded_at"`
}

func (userBadgeRow) TableName() string { return "trust_user_badges" }

type flagRow struct {
	FlagID      uuid.UUID  `gorm:"column:flag_id;primaryKey"`
	FlagType    string     `gorm:"column:flag_type"`
	TargetID    uuid.UUID  `gorm:"column:target_id"`
	ReporterID  uuid.UUID  `gorm:"column:reporter_id"`
	Reason      string     `gorm:"column:reason"`
	Description string     `gorm:"column:description"`
	Status      string     `gorm:"column:status"`
	CreatedAt   time.Time  `gorm:"column:created_at"`
	ResolvedAt  *time.Time `gorm:"column:resolved_at"`
}

func (flagRow) TableName() string { return "trust_flags" }

type actionRow struct {
	ActionID        uuid.UUID  `gorm:"column:action_id;primaryKey"`
	ActionType      string     `gorm:"column:action_type"`
	TargetContentID *uuid.UUID `gorm:"column:target_content_id"`
	TargetUserID    *uuid.UUID `gorm:"column:target_user_id"`
	ModeratorID     uuid.UUID  `gorm:"column:moderator_id"`
	Reason          string     `gorm:"column:reason"`
	RelatedFlagID   *uuid.UUID `gorm:"column:related_flag_id"`
	Status          string     `gorm:"column:status"`
	Metadata        []byte     `gorm:"column:metadata"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
}

func (actionRow) TableName() string { return "trust_moderation_actions" }

type appealRow struct {
	AppealID           uuid.UUID  `gorm:"column:appeal_id;primaryKey"`
	ModerationActionID uuid.UUID  `gorm:"column:moderation_action_id"`
	UserID             uuid.UUID  `gorm:"column:user_id"`
	Reason             string     `gorm:"column:reason"`
	Status             string     `gorm:"column:status"`
	ModeratorID        *uuid.UUID `gorm:"column:moderator_id"`
	Notes              string     `gorm:"column:notes"`
	CreatedAt          time.Time  `gorm:"column:created_at"`
	ResolvedAt         *time.Time `gorm:"column:resolved_at"`
}

func (appealRow) TableName() string { return "trust_appeals" }

type outboxRow struct {
	ID           uuid.UUID  `gorm:"column:id;primaryKey"`
	EventType    string     `gorm:"column:event_type"`
	Payload      []byte     `gorm:"column:payload"`
	PartitionKey string     `gorm:"column:partition_key"`
	Published    bool       `gorm:"column:published"`
	Attempts     int        `gorm:"column:attempts"`
	LastError    string     `gorm:"column:last_error"`
	CreatedAt    time.Time  `gorm:"column:created_at"`
	PublishedAt  *time.Time `gorm:"column:published_at"`
}

func (outboxRow) TableName() string { return "trust_outbox" }
