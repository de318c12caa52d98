package memory

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/lawrns/community-platform-sub000/internal/domain"
	"github.com/lawrns/community-platform-sub000/internal/ports"
)

type userRepository struct {
	store *Store
}

func (r *userRepository) Create(_ context.Context, user domain.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.users[user.UserID]; exists {
		return domain.ErrConflict
	}
	r.store.users[user.UserID] = user
	return nil
}

func (r *userRepository) Get(_ context.Context, userID uuid.UUID) (domain.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	user, ok := r.store.users[userID]
	if !ok {
		return domain.User{}, domain.ErrNotFound
	}
	return user, nil
}

type contentRepository struct {
	store *Store
}

func (r *contentRepository) Create(_ context.Context, content domain.Content) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.contents[content.ContentID]; exists {
		return domain.ErrConflict
	}
	r.store.contents[content.ContentID] = content
	return nil
}

func (r *contentRepository) Get(_ context.Context, contentID uuid.UUID) (domain.Content, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	content, ok := r.store.contents[contentID]
	if !ok {
		return domain.Content{}, domain.ErrNotFound
	}
	return content, nil
}

func (r *contentRepository) CountByAuthor(_ context.Context, authorID uuid.UUID, kind *domain.ContentKind) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, content := range r.store.contents {
		if content.AuthorID != authorID || content.State == domain.ContentStateDeleted {
			continue
		}
		if kind != nil && content.Kind != *kind {
			continue
		}
		count++
	}
	return count, nil
}

func (r *contentRepository) MaxUpvotesByAuthor(_ context.Context, authorID uuid.UUID, kind domain.ContentKind) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	best := 0
	for _, content := range r.store.contents {
		if content.AuthorID != authorID || content.Kind != kind || content.State == domain.ContentStateDeleted {
			continue
		}
		if content.Upvotes > best {
			best = content.Upvotes
		}
	}
	return best, nil
}

func (r *contentRepository) HasAcceptedAnswer(_ context.Context, authorID uuid.UUID) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, content := range r.store.contents {
		if content.AuthorID == authorID &&
			content.Kind == domain.ContentKindAnswer &&
			content.Accepted &&
			content.State != domain.ContentStateDeleted {
			return true, nil
		}
	}
	return false, nil
}

type reputationRepository struct {
	store *Store
}

func (r *reputationRepository) Append(_ context.Context, params ports.AppendEntryParams) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	user, ok := r.store.users[params.UserID]
	if !ok {
		return 0, domain.ErrNotFound
	}
	r.store.entries = append(r.store.entries, domain.ReputationEntry{
		EntryID:          params.EntryID,
		UserID:           params.UserID,
		Delta:            params.Delta,
		Reason:           params.Reason,
		RelatedContentID: params.RelatedContentID,
		CreatedAt:        params.CreatedAt,
	})
	user.Reputation += params.Delta
	r.store.users[params.UserID] = user
	return user.Reputation, nil
}

func (r *reputationRepository) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]domain.ReputationEntry, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	items := make([]domain.ReputationEntry, 0, len(r.store.entries))
	for _, entry := range r.store.entries {
		if entry.UserID == userID {
			items = append(items, entry)
		}
	}
	slices.SortFunc(items, func(a, b domain.ReputationEntry) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	total := len(items)
	start, end := clampPage(total, limit, offset)
	return items[start:end], total, nil
}

func (r *reputationRepository) TotalsByReason(_ context.Context, userID uuid.UUID) (map[domain.ReputationReason]int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	totals := make(map[domain.ReputationReason]int)
	for _, entry := range r.store.entries {
		if entry.UserID == userID {
			totals[entry.Reason] += entry.Delta
		}
	}
	return totals, nil
}

func (r *reputationRepository) CountWithGreaterReputation(_ context.Context, reputation int) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, user := range r.store.users {
		if user.Reputation > reputation {
			count++
		}
	}
	return count, nil
}

func (r *reputationRepository) CountPositive(_ context.Context) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, user := range r.store.users {
		if user.Reputation > 0 {
			count++
		}
	}
	return count, nil
}

func (r *reputationRepository) CountPositiveAtOrBelow(_ context.Context, reputation int) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, user := range r.store.users {
		if user.Reputation > 0 && user.Reputation <= reputation {
			count++
		}
	}
	return count, nil
}

type badgeRepository struct {
	store *Store
}

func (r *badgeRepository) Award(_ context.Context, badge domain.UserBadge) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	key := badgeKey{UserID: badge.UserID, BadgeID: badge.BadgeID}
	if _, exists := r.store.badges[key]; exists {
		return domain.ErrConflict
	}
	r.store.badges[key] = badge
	return nil
}

func (r *badgeRepository) ListByUser(_ context.Context, userID uuid.UUID) ([]domain.UserBadge, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	items := make([]domain.UserBadge, 0, 8)
	for key, badge := range r.store.badges {
		if key.UserID == userID {
			items = append(items, badge)
		}
	}
	slices.SortFunc(items, func(a, b domain.UserBadge) int {
		return a.AwardedAt.Compare(b.AwardedAt)
	})
	return items, nil
}

type flagRepository struct {
	store *Store
}

func (r *flagRepository) Create(_ context.Context, flag domain.Flag) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.flags[flag.FlagID]; exists {
		return domain.ErrConflict
	}
	r.store.flags[flag.FlagID] = flag
	r.store.flagOrder = append(r.store.flagOrder, flag.FlagID)
	return nil
}

func (r *flagRepository) Get(_ context.Context, flagID uuid.UUID) (domain.Flag, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	flag, ok := r.store.flags[flagID]
	if !ok {
		return domain.Flag{}, domain.ErrNotFound
	}
	return flag, nil
}

func (r *flagRepository) Resolve(_ context.Context, flagID uuid.UUID, status domain.FlagStatus, resolvedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	flag, ok := r.store.flags[flagID]
	if !ok {
		return domain.ErrNotFound
	}
	if flag.Status != domain.FlagStatusPending {
		return domain.ErrConflict
	}
	flag.Status = status
	flag.ResolvedAt = &resolvedAt
	r.store.flags[flagID] = flag
	return nil
}

func (r *flagRepository) ListPending(_ context.Context, limit, offset int) ([]domain.Flag, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	items := make([]domain.Flag, 0, len(r.store.flagOrder))
	for _, id := range r.store.flagOrder {
		if flag := r.store.flags[id]; flag.Status == domain.FlagStatusPending {
			items = append(items, flag)
		}
	}
	total := len(items)
	start, end := clampPage(total, limit, offset)
	return items[start:end], total, nil
}

func (r *flagRepository) CountByReporter(_ context.Context, reporterID uuid.UUID) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	var count int64
	for _, flag := range r.store.flags {
		if flag.ReporterID == reporterID {
			count++
		}
	}
	return count, nil
}

type outboxRepository struct {
	store *Store
}

func (r *outboxRepository) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.outbox = append(r.store.outbox, ports.OutboxRecord{
		OutboxID:     event.EventID,
		EventType:    event.EventType,
		PartitionKey: event.PartitionKey,
		Payload:      event.Payload,
		FirstSeenAt:  event.OccurredAt,
	})
	return nil
}

func (r *outboxRepository) FetchUnpublished(_ context.Context, limit int) ([]ports.OutboxRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	items := make([]ports.OutboxRecord, 0, limit)
	for _, rec := range r.store.outbox {
		if rec.PublishedAt != nil {
			continue
		}
		items = append(items, rec)
		if limit > 0 && len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (r *outboxRepository) MarkPublished(_ context.Context, outboxID uuid.UUID, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.outbox {
		if r.store.outbox[i].OutboxID == outboxID {
			published := at
			r.store.outbox[i].PublishedAt = &published
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *outboxRepository) MarkFailed(_ context.Context, outboxID uuid.UUID, errMsg string, at time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	for i := range r.store.outbox {
		if r.store.outbox[i].OutboxID == outboxID {
			r.store.outbox[i].RetryCount++
			msg := errMsg
			r.store.outbox[i].LastError = &msg
			return nil
		}
	}
	return domain.ErrNotFound
}
