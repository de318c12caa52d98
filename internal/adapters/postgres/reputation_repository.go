package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lawrns/community-platform-sub000/internal/domain"
	"github.com/lawrns/community-platform-sub000/internal/ports"
)

type reputationRepository struct {
	db *gorm.DB
}

// Append writes the ledger entry and bumps the user's cached total in one
// transaction. The new total is read back inside the same transaction so the
// caller sees the value the entry produced, not a later one.
func (r *reputationRepository) Append(ctx context.Context, params ports.AppendEntryParams) (int, error) {
	var newTotal int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := reputationEntryRow{
			EntryID:          params.EntryID,
			UserID:           params.UserID,
			Delta:            params.Delta,
			Reason:           string(params.Reason),
			RelatedContentID: params.RelatedContentID,
			CreatedAt:        params.CreatedAt,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}

		res := tx.Model(&userRow{}).
			Where("user_id = ?", params.UserID).
			Update("reputation", gorm.Expr("reputation + ?", params.Delta))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}

		var rowAfter userRow
		if err := tx.Where("user_id = ?", params.UserID).Take(&rowAfter).Error; err != nil {
			return err
		}
		newTotal = rowAfter.Reputation
		return nil
	})
	if err != nil {
		return 0, err
	}
	return newTotal, nil
}

func (r *reputationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]domain.ReputationEntry, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&reputationEntryRow{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []reputationEntryRow
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]domain.ReputationEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, entryFromRow(row))
	}
	return entries, int(total), nil
}

func (r *reputationRepository) TotalsByReason(ctx context.Context, userID uuid.UUID) (map[domain.ReputationReason]int, error) {
	var rows []struct {
		Reason string `gorm:"column:reason"`
		Total  int    `gorm:"column:total"`
	}
	if err := r.db.WithContext(ctx).
		Model(&reputationEntryRow{}).
		Select("reason, SUM(delta) AS total").
		Where("user_id = ?", userID).
		Group("reason").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[domain.ReputationReason]int, len(rows))
	for _, row := range rows {
		totals[domain.ReputationReason(row.Reason)] = row.Total
	}
	return totals, nil
}

func (r *reputationRepository) CountWithGreaterReputation(ctx context.Context, reputation int) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&userRow{}).
		Where("reputation > ?", reputation).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *reputationRepository) CountPositive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&userRow{}).
		Where("reputation > 0").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *reputationRepository) CountPositiveAtOrBelow(ctx context.Context, reputation int) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&userRow{}).
		Where("reputation > 0").
		Where("reputation <= ?", reputation).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ ports.ReputationRepository = (*reputationRepository)(nil)
