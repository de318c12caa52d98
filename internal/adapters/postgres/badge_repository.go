package postgres

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lawrns/community-platform-sub000/internal/domain"
)

type badgeRepository struct {
	db *gorm.DB
}

// Award relies on the (user_id, badge_id) primary key: the second insert for
// the same pair fails with a unique violation, which surfaces as ErrConflict.
func (r *badgeRepository) Award(ctx context.Context, badge domain.UserBadge) error {
	rec := userBadgeRow{
		UserID:    badge.UserID,
		BadgeID:   string(badge.BadgeID),
		AwardedAt: badge.AwardedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *badgeRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserBadge, error) {
	var rows []userBadgeRow
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("awarded_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	badges := make([]domain.UserBadge, 0, len(rows))
	for _, row := range rows {
		badges = append(badges, domain.UserBadge{
			UserID:    row.UserID,
			BadgeID:   domain.BadgeID(row.BadgeID),
			AwardedAt: row.AwardedAt,
		})
	}
	return badges, nil
}
