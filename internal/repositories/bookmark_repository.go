package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stackload-app/stackload/backend/internal/models"
)

// BookmarkRepository defines the interface for bookmark operations
type BookmarkRepository interface {
	Save(ctx context.Context, bookmark *models.Bookmark) error
	Remove(ctx context.Context, userID string, postID int64) error
	IsBookmarked(ctx context.Context, userID string, postID int64) (bool, error)
	ListByUser(ctx context.Context, userID string, page, limit int) ([]models.Bookmark, int64, error)
}

// PostgresBookmarkRepository implements BookmarkRepository for PostgreSQL
type PostgresBookmarkRepository struct {
	db *gorm.DB
}

// NewPostgresBookmarkRepository creates a new PostgresBookmarkRepository
func NewPostgresBookmarkRepository(db *gorm.DB) *PostgresBookmarkRepository {
	return &PostgresBookmarkRepository{db: db}
}

// Save is idempotent: bookmarking an already bookmarked post is a no-op
func (r *PostgresBookmarkRepository) Save(ctx context.Context, bookmark *models.Bookmark) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(bookmark).Error
}

func (r *PostgresBookmarkRepository) Remove(ctx context.Context, userID string, postID int64) error {
	res := r.db.WithContext(ctx).Where("user_id = ? AND post_id = ?", userID, postID).Delete(&models.Bookmark{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("bookmark not found")
	}
	return nil
}

func (r *PostgresBookmarkRepository) IsBookmarked(ctx context.Context, userID string, postID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Bookmark{}).Where("user_id = ? AND post_id = ?", userID, postID).Count(&count).Error
	return count > 0, err
}

func (r *PostgresBookmarkRepository) ListByUser(ctx context.Context, userID string, page, limit int) ([]models.Bookmark, int64, error) {
	var bookmarks []models.Bookmark
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Bookmark{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&bookmarks).Error
	return bookmarks, total, err
}
