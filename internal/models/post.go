package models

import "time"

// Post represents an insight article written by a user
type Post struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	UserID       string    `json:"user_id" gorm:"type:varchar(36);index"`
	Title        string    `json:"title" gorm:"size:200"`
	Content      string    `json:"content" gorm:"type:text"`
	ViewCount    int64     `json:"view_count" gorm:"not null;default:0"`
	LikeCount    int64     `json:"like_count" gorm:"not null;default:0"`
	CommentCount int64     `json:"comment_count" gorm:"not null;default:0"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreatePostRequest defines the request body for creating a new post
type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=200"`
	Content string `json:"content" validate:"required,min=1,max=20000"`
}

// UpdatePostRequest defines the request body for updating an existing post
type UpdatePostRequest struct {
	Title   string `json:"title,omitempty" validate:"omitempty,min=1,max=200"`
	Content string `json:"content,omitempty" validate:"omitempty,min=1,max=20000"`
}
