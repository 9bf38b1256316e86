package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stackload-app/stackload/backend/internal/models"
)

// CommentLikeRepository defines the interface for comment like operations
type CommentLikeRepository interface {
	Toggle(ctx context.Context, commentID int64, userID string) (liked bool, newCount int64, err error)
	GetLike(ctx context.Context, commentID int64, userID string) (*models.CommentLike, error)
	CountByCommentID(ctx context.Context, commentID int64) (int64, error)
}

// PostgresCommentLikeRepository implements CommentLikeRepository for PostgreSQL
type PostgresCommentLikeRepository struct {
	db *gorm.DB
}

// NewPostgresCommentLikeRepository creates a new PostgresCommentLikeRepository
func NewPostgresCommentLikeRepository(db *gorm.DB) *PostgresCommentLikeRepository {
	return &PostgresCommentLikeRepository{db: db}
}

// Toggle mirrors the post like ledger for comments: row and counter move
// atomically, and a raced duplicate insert collapses to "already liked".
func (r *PostgresCommentLikeRepository) Toggle(ctx context.Context, commentID int64, userID string) (bool, int64, error) {
	var liked bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.CommentLike
		err := tx.Where("comment_id = ? AND user_id = ?", commentID, userID).First(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return err
			}
			if err := tx.Model(&models.Comment{}).Where("id = ?", commentID).
				UpdateColumn("like_count", gorm.Expr("like_count - ?", 1)).Error; err != nil {
				return err
			}
			liked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).
				Create(&models.CommentLike{CommentID: commentID, UserID: userID})
			if res.Error != nil {
				return res.Error
			}
			liked = true
			if res.RowsAffected == 0 {
				return nil
			}
			if err := tx.Model(&models.Comment{}).Where("id = ?", commentID).
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

	var comment models.Comment
	if err := r.db.WithContext(ctx).Select("like_count").First(&comment, commentID).Error; err != nil {
		return liked, 0, err
	}
	return liked, comment.LikeCount, nil
}

func (r *PostgresCommentLikeRepository) GetLike(ctx context.Context, commentID int64, userID string) (*models.CommentLike, error) {
	var like models.CommentLike
	if err := r.db.WithContext(ctx).Where("comment_id = ? AND user_id = ?", commentID, userID).First(&like).Error; err != nil {
		return nil, err
	}
	return &like, nil
}

func (r *PostgresCommentLikeRepository) CountByCommentID(ctx context.Context, commentID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.CommentLike{}).Where("comment_id = ?", commentID).Count(&count).Error
	return count, err
}
