// Package memory holds an in-process implementation of every repository
// port. A single store-wide mutex gives the same atomicity the postgres
// adapter gets from transactions, which keeps unit tests honest about the
// multi-entity operations.
package memory

import (
	"sync"

	"github.com/google/uuid"

	"github.com/lawrns/community-platform-sub000/internal/domain"
	"github.com/lawrns/community-platform-sub000/internal/ports"
)

type badgeKey struct {
	UserID  uuid.UUID
	BadgeID domain.BadgeID
}

type appealKey struct {
	ActionID uuid.UUID
	UserID   uuid.UUID
}

type Store struct {
	mu          sync.RWMutex
	users       map[uuid.UUID]domain.User
	contents    map[uuid.UUID]domain.Content
	entries     []domain.ReputationEntry
	badges      map[badgeKey]domain.UserBadge
	flags       map[uuid.UUID]domain.Flag
	flagOrder   []uuid.UUID
	actions     map[uuid.UUID]domain.ModerationAction
	actionOrder []uuid.UUID
	appeals     map[uuid.UUID]domain.Appeal
	appealOrder []uuid.UUID
	outbox      []ports.OutboxRecord
}

type Repositories struct {
	Users      ports.UserRepository
	Contents   ports.ContentRepository
	Reputation ports.ReputationRepository
	Badges     ports.BadgeRepository
	Flags      ports.FlagRepository
	Actions    ports.ActionRepository
	Appeals    ports.AppealRepository
	Outbox     ports.OutboxRepository
	Store      *Store
}

func NewRepositories() Repositories {
	store := &Store{
		users:    make(map[uuid.UUID]domain.User),
		contents: make(map[uuid.UUID]domain.Content),
		badges:   make(map[badgeKey]domain.UserBadge),
		flags:    make(map[uuid.UUID]domain.Flag),
		actions:  make(map[uuid.UUID]domain.ModerationAction),
		appeals:  make(map[uuid.UUID]domain.Appeal),
	}
	return Repositories{
		Users:      &userRepository{store: store},
		Contents:   &contentRepository{store: store},
		Reputation: &reputationRepository{store: store},
		Badges:     &badgeRepository{store: store},
		Flags:      &flagRepository{store: store},
		Actions:    &actionRepository{store: store},
		Appeals:    &appealRepository{store: store},
		Outbox:     &outboxRepository{store: store},
		Store:      store,
	}
}

// Content returns a snapshot of a stored content row.
func (s *Store) Content(contentID uuid.UUID) (domain.Content, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.contents[contentID]
	return content, ok
}

// User returns a snapshot of a stored user row.
func (s *Store) User(userID uuid.UUID) (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[userID]
	return user, ok
}

// OutboxSize reports how many events have been enqueued so far.
func (s *Store) OutboxSize() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.outbox)
}

func clampPage(total, limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return total, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return offset, end
}
