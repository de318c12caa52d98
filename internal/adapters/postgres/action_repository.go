package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lawrns/community-platform-sub000/internal/domain"
)

type actionRepository struct {
	db *gorm.DB
}

// Create applies the action's effect on its target and appends the record in
// one transaction. The target's pre-action state is captured into the record's
// metadata so an appeal can restore exactly what the action displaced.
func (r *actionRepository) Create(ctx context.Context, action domain.ModerationAction) (domain.ModerationAction, error) {
	if action.Metadata == nil {
		action.Metadata = map[string]string{}
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if action.Type.TargetsUser() {
			if action.TargetUserID == nil {
				return domain.ErrInvalidInput
			}
			var user userRow
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("user_id = ?", *action.TargetUserID).
				Take(&user).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrNotFound
				}
				return err
			}

			prior := "active"
			if user.Suspended {
				prior = "suspended"
			}
			action.Metadata[domain.MetadataKeyPriorState] = prior

			suspended, ok := action.Type.SuspendsUser()
			if !ok {
				return domain.ErrInvalidInput
			}
			if err := tx.Model(&userRow{}).
				Where("user_id = ?", user.UserID).
				Update("suspended", suspended).Error; err != nil {
				return err
			}
		} else {
			if action.TargetContentID == nil {
				return domain.ErrInvalidInput
			}
			var content contentRow
			if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where("content_id = ?", *action.TargetContentID).
				Take(&content).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return domain.ErrNotFound
				}
				return err
			}

			action.Metadata[domain.MetadataKeyPriorState] = content.State

			next, ok := action.Type.ContentStateAfter()
			if !ok {
				return domain.ErrInvalidInput
			}
			if err := tx.Model(&contentRow{}).
				Where("content_id = ?", content.ContentID).
				Update("state", string(next)).Error; err != nil {
				return err
			}
		}

		rec, mErr := actionToRow(action)
		if mErr != nil {
			return mErr
		}
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.ModerationAction{}, err
	}
	return action, nil
}

func (r *actionRepository) Get(ctx context.Context, actionID uuid.UUID) (domain.ModerationAction, error) {
	var rec actionRow
	if err := r.db.WithContext(ctx).Where("action_id = ?", actionID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ModerationAction{}, domain.ErrNotFound
		}
		return domain.ModerationAction{}, err
	}
	return actionFromRow(rec)
}

func (r *actionRepository) ListForContent(ctx context.Context, contentID uuid.UUID, limit, offset int) ([]domain.ModerationAction, int, error) {
	return r.list(ctx, "target_content_id = ?", contentID, limit, offset)
}

func (r *actionRepository) ListForUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.ModerationAction, int, error) {
	return r.list(ctx, "target_user_id = ?", userID, limit, offset)
}

func (r *actionRepository) list(ctx context.Context, cond string, id uuid.UUID, limit, offset int) ([]domain.ModerationAction, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&actionRow{}).
		Where(cond, id).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []actionRow
	if err := r.db.WithContext(ctx).
		Where(cond, id).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	actions := make([]domain.ModerationAction, 0, len(rows))
	for _, row := range rows {
		action, err := actionFromRow(row)
		if err != nil {
			return nil, 0, err
		}
		actions = append(actions, action)
	}
	return actions, int(total), nil
}
