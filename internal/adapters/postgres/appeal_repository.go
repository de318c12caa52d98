package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lawrns/community-platform-sub000/internal/domain"
	"github.com/lawrns/community-platform-sub000/internal/ports"
)

type appealRepository struct {
	db *gorm.DB
}

// Create persists a pending appeal. The partial unique index on
// (moderation_action_id, user_id) WHERE status = 'pending' collapses
// concurrent duplicates to a single row.
func (r *appealRepository) Create(ctx context.Context, appeal domain.Appeal) error {
	rec := appealRow{
		AppealID:           appeal.AppealID,
		ModerationActionID: appeal.ActionID,
		UserID:             appeal.UserID,
		Reason:             appeal.Reason,
		Status:             string(appeal.Status),
		ModeratorID:        appeal.ModeratorID,
		Notes:              appeal.Notes,
		CreatedAt:          appeal.CreatedAt,
		ResolvedAt:         appeal.ResolvedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *appealRepository) Get(ctx context.Context, appealID uuid.UUID) (domain.Appeal, error) {
	var rec appealRow
	if err := r.db.WithContext(ctx).Where("appeal_id = ?", appealID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Appeal{}, domain.ErrNotFound
		}
		return domain.Appeal{}, err
	}
	return appealFromRow(rec), nil
}

// Approve resolves the appeal, reverts the action, restores the target's
// recorded pre-action state, and lands the optional compensating ledger entry.
// All of it commits or none of it does.
func (r *appealRepository) Approve(ctx context.Context, appealID, moderatorID uuid.UUID, notes string, compensation *ports.AppendEntryParams, resolvedAt time.Time) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var appeal appealRow
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("appeal_id = ?", appealID).
			Take(&appeal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if appeal.Status != string(domain.AppealStatusPending) {
			return domain.ErrConflict
		}

		var action actionRow
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("action_id = ?", appeal.ModerationActionID).
			Take(&action).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}
		if action.Status != string(domain.ActionStatusActive) {
			return domain.ErrConflict
		}

		if err := restoreTarget(tx, action); err != nil {
			return err
		}

		if err := tx.Model(&actionRow{}).
			Where("action_id = ?", action.ActionID).
			Update("status", string(domain.ActionStatusReverted)).Error; err != nil {
			return err
		}

		if err := tx.Model(&appealRow{}).
			Where("appeal_id = ?", appealID).
			Updates(map[string]any{
				"status":       string(domain.AppealStatusApproved),
				"moderator_id": moderatorID,
				"notes":        notes,
				"resolved_at":  resolvedAt,
			}).Error; err != nil {
			return err
		}

		if compensation != nil {
			entry := reputationEntryRow{
				EntryID:          compensation.EntryID,
				UserID:           compensation.UserID,
				Delta:            compensation.Delta,
				Reason:           string(compensation.Reason),
				RelatedContentID: compensation.RelatedContentID,
				CreatedAt:        compensation.CreatedAt,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
			res := tx.Model(&userRow{}).
				Where("user_id = ?", compensation.UserID).
				Update("reputation", gorm.Expr("reputation + ?", compensation.Delta))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return domain.ErrNotFound
			}
		}
		return nil
	})
}

func (r *appealRepository) Reject(ctx context.Context, appealID, moderatorID uuid.UUID, notes string, resolvedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&appealRow{}).
		Where("appeal_id = ?", appealID).
		Where("status = ?", string(domain.AppealStatusPending)).
		Updates(map[string]any{
			"status":       string(domain.AppealStatusRejected),
			"moderator_id": moderatorID,
			"notes":        notes,
			"resolved_at":  resolvedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var exists int64
		if err := r.db.WithContext(ctx).Model(&appealRow{}).Where("appeal_id = ?", appealID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

func (r *appealRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.Appeal, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&appealRow{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []appealRow
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	appeals := make([]domain.Appeal, 0, len(rows))
	for _, row := range rows {
		appeals = append(appeals, appealFromRow(row))
	}
	return appeals, int(total), nil
}

// restoreTarget puts the action's target back to the state recorded when the
// action was applied. A record without prior-state metadata falls back to the
// inverse action's effect.
func restoreTarget(tx *gorm.DB, action actionRow) error {
	meta := map[string]string{}
	if len(action.Metadata) > 0 {
		if err := json.Unmarshal(action.Metadata, &meta); err != nil {
			return err
		}
	}
	prior, hasPrior := meta[domain.MetadataKeyPriorState]
	actionType := domain.ActionType(action.ActionType)

	if actionType.TargetsUser() {
		if action.TargetUserID == nil {
			return domain.ErrInvalidInput
		}
		suspended := prior == "suspended"
		if !hasPrior {
			inv, ok := actionType.Inverse()
			if !ok {
				return domain.ErrInvalidInput
			}
			suspended, _ = inv.SuspendsUser()
		}
		res := tx.Model(&userRow{}).
			Where("user_id = ?", *action.TargetUserID).
			Update("suspended", suspended)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	}

	if action.TargetContentID == nil {
		return domain.ErrInvalidInput
	}
	state := domain.ContentState(prior)
	if !hasPrior {
		inv, ok := actionType.Inverse()
		if !ok {
			return domain.ErrInvalidInput
		}
		state, _ = inv.ContentStateAfter()
	}
	res := tx.Model(&contentRow{}).
		Where("content_id = ?", *action.TargetContentID).
		Update("state", string(state))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
