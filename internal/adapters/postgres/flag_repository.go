package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lawrns/community-platform-sub000/internal/domain"
)

type flagRepository struct {
	db *gorm.DB
}

func (r *flagRepository) Create(ctx context.Context, flag domain.Flag) error {
	rec := flagRow{
		FlagID:      flag.FlagID,
		FlagType:    string(flag.Type),
		TargetID:    flag.TargetID,
		ReporterID:  flag.ReporterID,
		Reason:      string(flag.Reason),
		Description: flag.Description,
		Status:      string(flag.Status),
		CreatedAt:   flag.CreatedAt,
		ResolvedAt:  flag.ResolvedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *flagRepository) Get(ctx context.Context, flagID uuid.UUID) (domain.Flag, error) {
	var rec flagRow
	if err := r.db.WithContext(ctx).Where("flag_id = ?", flagID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Flag{}, domain.ErrNotFound
		}
		return domain.Flag{}, err
	}
	return flagFromRow(rec), nil
}

// Resolve only touches pending rows; a zero-row update on an existing flag
// means some other resolution won.
func (r *flagRepository) Resolve(ctx context.Context, flagID uuid.UUID, status domain.FlagStatus, resolvedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&flagRow{}).
		Where("flag_id = ?", flagID).
		Where("status = ?", string(domain.FlagStatusPending)).
		Updates(map[string]any{
			"status":      string(status),
			"resolved_at": resolvedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var exists int64
		if err := r.db.WithContext(ctx).Model(&flagRow{}).Where("flag_id = ?", flagID).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return domain.ErrNotFound
		}
		return domain.ErrConflict
	}
	return nil
}

func (r *flagRepository) ListPending(ctx context.Context, limit, offset int) ([]domain.Flag, int, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&flagRow{}).
		Where("status = ?", string(domain.FlagStatusPending)).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []flagRow
	if err := r.db.WithContext(ctx).
		Where("status = ?", string(domain.FlagStatusPending)).
		Order("created_at ASC").
		Limit(limit).
		Offset(offset).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	flags := make([]domain.Flag, 0, len(rows))
	for _, row := range rows {
		flags = append(flags, flagFromRow(row))
	}
	return flags, int(total), nil
}

func (r *flagRepository) CountByReporter(ctx context.Context, reporterID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&flagRow{}).
		Where("reporter_id = ?", reporterID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
