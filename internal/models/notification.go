package models

import "time"

// Notification types
const (
	NotificationTypeLike        = "like"
	NotificationTypeComment     = "comment"
	NotificationTypeCommentLike = "comment_like"
)

// Notification represents a user notification
type Notification struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Type        string    `json:"type" gorm:"size:30;index"` // like, comment, comment_like
	ActorID     string    `json:"actor_id" gorm:"type:varchar(36);index"`
	RecipientID string    `json:"recipient_id" gorm:"type:varchar(36);index"`
	PostID      int64     `json:"post_id"`
	CommentID   *int64    `json:"comment_id,omitempty"`
	Message     string    `json:"message"`
	IsRead      bool      `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
}
