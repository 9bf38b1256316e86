package models

import "time"

// CommentLike represents a like on a comment
type CommentLike struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	CommentID int64     `json:"comment_id" gorm:"index;uniqueIndex:idx_comment_user_like"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);index;uniqueIndex:idx_comment_user_like"`
	CreatedAt time.Time `json:"created_at"`
}
