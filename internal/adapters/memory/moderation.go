package memory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/lawrns/community-platform-sub000/internal/domain"
	"github.com/lawrns/community-platform-sub000/internal/ports"
)

type actionRepository struct {
	store *Store
}

// Create mirrors the storage adapter's transactional contract: the target's
// state changes and the action record lands under one lock, with the prior
// state captured into metadata.
func (r *actionRepository) Create(_ context.Context, action domain.ModerationAction) (domain.ModerationAction, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if action.Metadata == nil {
		action.Metadata = map[string]string{}
	}

	if action.Type.TargetsUser() {
		if action.TargetUserID == nil {
			return domain.ModerationAction{}, domain.ErrInvalidInput
		}
		user, ok := r.store.users[*action.TargetUserID]
		if !ok {
			return domain.ModerationAction{}, domain.ErrNotFound
		}
		prior := "active"
		if user.Suspended {
			prior = "suspended"
		}
		action.Metadata[domain.MetadataKeyPriorState] = prior

		suspended, valid := action.Type.SuspendsUser()
		if !valid {
			return domain.ModerationAction{}, domain.ErrInvalidInput
		}
		user.Suspended = suspended
		r.store.users[user.UserID] = user
	} else {
		if action.TargetContentID == nil {
			return domain.ModerationAction{}, domain.ErrInvalidInput
		}
		content, ok := r.store.contents[*action.TargetContentID]
		if !ok {
			return domain.ModerationAction{}, domain.ErrNotFound
		}
		action.Metadata[domain.MetadataKeyPriorState] = string(content.State)

		next, valid := action.Type.ContentStateAfter()
		if !valid {
			return domain.ModerationAction{}, domain.ErrInvalidInput
		}
		content.State = next
		r.store.contents[content.ContentID] = content
	}

	if _, exists := r.store.actions[action.ActionID]; exists {
		return domain.ModerationAction{}, domain.ErrConflict
	}
	r.store.actions[action.ActionID] = action
	r.store.actionOrder = append(r.store.actionOrder, action.ActionID)
	return action, nil
}

func (r *actionRepository) Get(_ context.Context, actionID uuid.UUID) (domain.ModerationAction, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	action, ok := r.store.actions[actionID]
	if !ok {
		return domain.ModerationAction{}, domain.ErrNotFound
	}
	return action, nil
}

func (r *actionRepository) ListForContent(_ context.Context, contentID uuid.UUID, limit, offset int) ([]domain.ModerationAction, int, error) {
	return r.list(func(a domain.ModerationAction) bool {
		return a.TargetContentID != nil && *a.TargetContentID == contentID
	}, limit, offset)
}

func (r *actionRepository) ListForUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]domain.ModerationAction, int, error) {
	return r.list(func(a domain.ModerationAction) bool {
		return a.TargetUserID != nil && *a.TargetUserID == userID
	}, limit, offset)
}

func (r *actionRepository) list(match func(domain.ModerationAction) bool, limit, offset int) ([]domain.ModerationAction, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	items := make([]domain.ModerationAction, 0, len(r.store.actionOrder))
	// Newest first, matching the storage adapter's ordering.
	for i := len(r.store.actionOrder) - 1; i >= 0; i-- {
		if action := r.store.actions[r.store.actionOrder[i]]; match(action) {
			items = append(items, action)
		}
	}
	total := len(items)
	start, end := clampPage(total, limit, offset)
	return items[start:end], total, nil
}

type appealRepository struct {
	store *Store
}

func (r *appealRepository) Create(_ context.Context, appeal domain.Appeal) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, exists := r.store.appeals[appeal.AppealID]; exists {
		return domain.ErrConflict
	}
	for _, existing := range r.store.appeals {
		if existing.ActionID == appeal.ActionID &&
			existing.UserID == appeal.UserID &&
			existing.Status == domain.AppealStatusPending {
			return domain.ErrConflict
		}
	}
	r.store.appeals[appeal.AppealID] = appeal
	r.store.appealOrder = append(r.store.appealOrder, appeal.AppealID)
	return nil
}

func (r *appealRepository) Get(_ context.Context, appealID uuid.UUID) (domain.Appeal, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	appeal, ok := r.store.appeals[appealID]
	if !ok {
		return domain.Appeal{}, domain.ErrNotFound
	}
	return appeal, nil
}

func (r *appealRepository) Approve(_ context.Context, appealID, moderatorID uuid.UUID, notes string, compensation *ports.AppendEntryParams, resolvedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	appeal, ok := r.store.appeals[appealID]
	if !ok {
		return domain.ErrNotFound
	}
	if appeal.Status != domain.AppealStatusPending {
		return domain.ErrConflict
	}

	action, ok := r.store.actions[appeal.ActionID]
	if !ok {
		return domain.ErrNotFound
	}
	if action.Status != domain.ActionStatusActive {
		return domain.ErrConflict
	}

	if err := r.restoreTarget(action); err != nil {
		return err
	}

	action.Status = domain.ActionStatusReverted
	r.store.actions[action.ActionID] = action

	appeal.Status = domain.AppealStatusApproved
	appeal.ModeratorID = &moderatorID
	appeal.Notes = notes
	appeal.ResolvedAt = &resolvedAt
	r.store.appeals[appealID] = appeal

	if compensation != nil {
		user, ok := r.store.users[compensation.UserID]
		if !ok {
			return domain.ErrNotFound
		}
		r.store.entries = append(r.store.entries, domain.ReputationEntry{
			EntryID:          compensation.EntryID,
			UserID:           compensation.UserID,
			Delta:            compensation.Delta,
			Reason:           compensation.Reason,
			RelatedContentID: compensation.RelatedContentID,
			CreatedAt:        compensation.CreatedAt,
		})
		user.Reputation += compensation.Delta
		r.store.users[compensation.UserID] = user
	}
	return nil
}

func (r *appealRepository) Reject(_ context.Context, appealID, moderatorID uuid.UUID, notes string, resolvedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	appeal, ok := r.store.appeals[appealID]
	if !ok {
		return domain.ErrNotFound
	}
	if appeal.Status != domain.AppealStatusPending {
		return domain.ErrConflict
	}
	appeal.Status = domain.AppealStatusRejected
	appeal.ModeratorID = &moderatorID
	appeal.Notes = notes
	appeal.ResolvedAt = &resolvedAt
	r.store.appeals[appealID] = appeal
	return nil
}

func (r *appealRepository) ListByUser(_ context.Context, userID uuid.UUID, limit, offset int) ([]domain.Appeal, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	items := make([]domain.Appeal, 0, len(r.store.appealOrder))
	for i := len(r.store.appealOrder) - 1; i >= 0; i-- {
		if appeal := r.store.appeals[r.store.appealOrder[i]]; appeal.UserID == userID {
			items = append(items, appeal)
		}
	}
	total := len(items)
	start, end := clampPage(total, limit, offset)
	return items[start:end], total, nil
}

func (r *appealRepository) restoreTarget(action domain.ModerationAction) error {
	prior, hasPrior := action.Metadata[domain.MetadataKeyPriorState]

	if action.Type.TargetsUser() {
		if action.TargetUserID == nil {
			return domain.ErrInvalidInput
		}
		user, ok := r.store.users[*action.TargetUserID]
		if !ok {
			return domain.ErrNotFound
		}
		suspended := prior == "suspended"
		if !hasPrior {
			inv, valid := action.Type.Inverse()
			if !valid {
				return domain.ErrInvalidInput
			}
			suspended, _ = inv.SuspendsUser()
		}
		user.Suspended = suspended
		r.store.users[user.UserID] = user
		return nil
	}

	if action.TargetContentID == nil {
		return domain.ErrInvalidInput
	}
	content, ok := r.store.contents[*action.TargetContentID]
	if !ok {
		return domain.ErrNotFound
	}
	state := domain.ContentState(prior)
	if !hasPrior {
		inv, valid := action.Type.Inverse()
		if !valid {
			return domain.ErrInvalidInput
		}
		state, _ = inv.ContentStateAfter()
	}
	content.State = state
	r.store.contents[content.ContentID] = content
	return nil
}
