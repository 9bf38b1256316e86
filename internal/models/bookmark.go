package models

import "time"

// Bookmark represents a post saved by a user for later reading
type Bookmark struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);index;uniqueIndex:idx_user_post_bookmark"`
	PostID    int64     `json:"post_id" gorm:"index;uniqueIndex:idx_user_post_bookmark"`
	CreatedAt time.Time `json:"created_at"`
}
