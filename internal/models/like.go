package models

import "time"

// Like represents a like on a post. The (post_id, user_id) pair is unique;
// presence of the row is the source of truth for liked state.
type Like struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	PostID    int64     `json:"post_id" gorm:"index;uniqueIndex:idx_post_user_like"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);index;uniqueIndex:idx_post_user_like"`
	CreatedAt time.Time `json:"created_at"`
}
