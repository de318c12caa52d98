package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lawrns/community-platform-sub000/internal/domain"
	"github.com/lawrns/community-platform-sub000/internal/ports"
)

type Repositories struct {
	Users      ports.UserRepository
	Contents   ports.ContentRepository
	Reputation ports.ReputationRepository
	Badges     ports.BadgeRepository
	Flags      ports.FlagRepository
	Actions    ports.ActionRepository
	Appeals    ports.AppealRepository
	Outbox     ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Users:      &userRepository{db: db},
		Contents:   &contentRepository{db: db},
		Reputation: &reputationRepository{db: db},
		Badges:     &badgeRepository{db: db},
		Flags:      &flagRepository{db: db},
		Actions:    &actionRepository{db: db},
		Appeals:    &appealRepository{db: db},
		Outbox:     &outboxRepository{db: db},
	}
}

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Create(ctx context.Context, user domain.User) error {
	rec := userRow{
		UserID:     user.UserID,
		Username:   user.Username,
		Reputation: user.Reputation,
		Suspended:  user.Suspended,
		CreatedAt:  user.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *userRepository) Get(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	var rec userRow
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.User{}, domain.ErrNotFound
		}
		return domain.User{}, err
	}
	return userFromRow(rec), nil
}

type contentRepository struct {
	db *gorm.DB
}

func (r *contentRepository) Create(ctx context.Context, content domain.Content) error {
	rec := contentRow{
		ContentID: content.ContentID,
		AuthorID:  content.AuthorID,
		Kind:      string(content.Kind),
		Body:      content.Body,
		Upvotes:   content.Upvotes,
		Downvotes: content.Downvotes,
		Accepted:  content.Accepted,
		State:     string(content.State),
		CreatedAt: content.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return err
	}
	return nil
}

func (r *contentRepository) Get(ctx context.Context, contentID uuid.UUID) (domain.Content, error) {
	var rec contentRow
	if err := r.db.WithContext(ctx).Where("content_id = ?", contentID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Content{}, domain.ErrNotFound
		}
		return domain.Content{}, err
	}
	return contentFromRow(rec), nil
}

func (r *contentRepository) CountByAuthor(ctx context.Context, authorID uuid.UUID, kind *domain.ContentKind) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&contentRow{}).
		Where("author_id = ?", authorID).
		Where("state <> ?", string(domain.ContentStateDeleted))
	if kind != nil {
		query = query.Where("kind = ?", string(*kind))
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *contentRepository) MaxUpvotesByAuthor(ctx context.Context, authorID uuid.UUID, kind domain.ContentKind) (int, error) {
	var best *int
	if err := r.db.WithContext(ctx).
		Model(&contentRow{}).
		Select("MAX(upvotes)").
		Where("author_id = ?", authorID).
		Where("kind = ?", string(kind)).
		Where("state <> ?", string(domain.ContentStateDeleted)).
		Scan(&best).Error; err != nil {
		return 0, err
	}
	if best == nil {
		return 0, nil
	}
	return *best, nil
}

func (r *contentRepository) HasAcceptedAnswer(ctx context.Context, authorID uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&contentRow{}).
		Where("author_id = ?", authorID).
		Where("kind = ?", string(domain.ContentKindAnswer)).
		Where("accepted = TRUE").
		Where("state <> ?", string(domain.ContentStateDeleted)).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
