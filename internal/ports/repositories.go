package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lawrns/community-platform-sub000/internal/domain"
)

type AppendEntryParams struct {
	EntryID          uuid.UUID
	UserID           uuid.UUID
	Delta            int
	Reason           domain.ReputationReason
	RelatedContentID *uuid.UUID
	CreatedAt        time.Time
}

// ReputationRepository owns the ledger and the cached total. Append inserts
// the entry and bumps the user's cached reputation in one transaction; the
// two can never disagree.
type ReputationRepository interface {
	Append(ctx context.Context, params AppendEntryParams) (newTotal int, err error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.ReputationEntry, int, error)
	TotalsByReason(ctx context.Context, userID uuid.UUID) (map[domain.ReputationReason]int, error)
	CountWithGreaterReputation(ctx context.Context, reputation int) (int64, error)
	CountPositive(ctx context.Context) (int64, error)
	CountPositiveAtOrBelow(ctx context.Context, reputation int) (int64, error)
}

type UserRepository interface {
	Create(ctx context.Context, user domain.User) error
	Get(ctx context.Context, userID uuid.UUID) (domain.User, error)
}

type ContentRepository interface {
	Create(ctx context.Context, content domain.Content) error
	Get(ctx context.Context, contentID uuid.UUID) (domain.Content, error)
	CountByAuthor(ctx context.Context, authorID uuid.UUID, kind *domain.ContentKind) (int64, error)
	MaxUpvotesByAuthor(ctx context.Context, authorID uuid.UUID, kind domain.ContentKind) (int, error)
	HasAcceptedAnswer(ctx context.Context, authorID uuid.UUID) (bool, error)
}

// BadgeRepository enforces the (user_id, badge_id) uniqueness at the storage
// layer: Award returns domain.ErrConflict when the badge is already held, so
// concurrent award attempts collapse to a single row without read-then-write
// races.
type BadgeRepository interface {
	Award(ctx context.Context, badge domain.UserBadge) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserBadge, error)
}

type FlagRepository interface {
	Create(ctx context.Context, flag domain.Flag) error
	Get(ctx context.Context, flagID uuid.UUID) (domain.Flag, error)
	// Resolve flips a pending flag to approved/rejected. A flag that is not
	// pending yields domain.ErrConflict; a missing flag domain.ErrNotFound.
	Resolve(ctx context.Context, flagID uuid.UUID, status domain.FlagStatus, resolvedAt time.Time) error
	ListPending(ctx context.Context, limit, offset int) ([]domain.Flag, int, error)
	CountByReporter(ctx context.Context, reporterID uuid.UUID) (int64, error)
}

// ActionRepository applies the action's forward effect on its target and
// appends the action record in one transaction.
type ActionRepository interface {
	Create(ctx context.Context, action domain.ModerationAction) (domain.ModerationAction, error)
	Get(ctx context.Context, actionID uuid.UUID) (domain.ModerationAction, error)
	ListForContent(ctx context.Context, contentID uuid.UUID, limit, offset int) ([]domain.ModerationAction, int, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.ModerationAction, int, error)
}

type AppealRepository interface {
	// Create persists a pending appeal. A second pending appeal for the same
	// (action, user) pair yields domain.ErrConflict.
	Create(ctx context.Context, appeal domain.Appeal) error
	Get(ctx context.Context, appealID uuid.UUID) (domain.Appeal, error)
	// Approve resolves a pending appeal in a single transaction: the appeal
	// flips to approved, the action to reverted, the target's pre-action
	// state is restored, and the optional compensating ledger entry lands.
	Approve(ctx context.Context, appealID, moderatorID uuid.UUID, notes string, compensation *AppendEntryParams, resolvedAt time.Time) error
	Reject(ctx context.Context, appealID, moderatorID uuid.UUID, notes string, resolvedAt time.Time) error
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Appeal, int, error)
}

type OutboxEvent struct {
	EventID       uuid.UUID
	EventType     string
	PartitionKey  string
	Payload       []byte
	OccurredAt    time.Time
	SchemaVersion string
}

type OutboxRecord struct {
	OutboxID     uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	RetryCount   int
	PublishedAt  *time.Time
	LastError    *string
	FirstSeenAt  time.Time
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	FetchUnpublished(ctx context.Context, limit int) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error
}
