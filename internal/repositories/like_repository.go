package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stackload-app/stackload/backend/internal/models"
)

// LikeRepository defines the interface for post like operations. Toggle is
// the only mutation: the like row and the denormalized counter move together
// in one transaction.
type LikeRepository interface {
	Toggle(ctx context.Context, postID int64, userID string) (liked bool, newCount int64, err error)
	GetLike(ctx context.Context, postID int64, userID string) (*models.Like, error)
	CountByPostID(ctx context.Context, postID int64) (int64, error)
}

// PostgresLikeRepository implements LikeRepository for PostgreSQL
type PostgresLikeRepository struct {
	db *gorm.DB
}

// NewPostgresLikeRepository creates a new PostgresLikeRepository
func NewPostgresLikeRepository(db *gorm.DB) *PostgresLikeRepository {
	return &PostgresLikeRepository{db: db}
}

// Toggle flips the liked state for (postID, userID). A concurrent duplicate
// insert loses the unique-index race and is absorbed as "already liked"; the
// counter only moves when a row was actually created or deleted.
func (r *PostgresLikeRepository) Toggle(ctx context.Context, postID int64, userID string) (bool, int64, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.Like
		err := tx.Where("post_id = ? AND user_id = ?", postID, userID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Post{}).Where("id = ?", postID).
				UpdateColumn("like_count", gorm.Expr("like_count - ?", 1)).Error; err != nil {
				return err
			}
			liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.Like{PostID: postID, UserID: userID})
			if res.Error != nil {
				return res.Error
			}
			liked = true
			if res.RowsAffected == 0 {
				// Lost the race: the row already exists, counter untouched.
				return nil
			}
			if err := tx.Model(&models.Post{}).Where("id = ?", postID).
				UpdateColumn("like_count", gorm.Expr("like_count + ?", 1)).Error; err != nil {
				return err
			}
		default:
			return err
		}
		return nil
	})
	if err != nil {
		return false, 0, err
	}

	var post models.Post
	if err := r.db.WithContext(ctx).Select("like_count").First(&post, postID).Error; err != nil {
		return liked, 0, err
	}
	return liked, post.LikeCount, nil
}

func (r *PostgresLikeRepository) GetLike(ctx context.Context, postID int64, userID string) (*models.Like, error) {
	var like models.Like
	if err := r.db.WithContext(ctx).Where("post_id = ? AND user_id = ?", postID, userID).First(&like).Error; err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *PostgresLikeRepository) CountByPostID(ctx context.Context, postID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}
