package models

import "time"

// Tech represents one technology in the catalog
type Tech struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Slug        string    `json:"slug" gorm:"size:100;uniqueIndex"`
	Name        string    `json:"name" gorm:"size:100"`
	Category    string    `json:"category" gorm:"size:50;index"` // language, framework, database, infra, tool
	Description string    `json:"description" gorm:"type:text"`
	Homepage    string    `json:"homepage,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Tech) TableName() string { return "techs" }

// CreateTechRequest defines the request body for creating a catalog entry
type CreateTechRequest struct {
	Slug        string `json:"slug" validate:"required,min=1,max=100,lowercase"`
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Category    string `json:"category" validate:"required,oneof=language framework database infra tool"`
	Description string `json:"description" validate:"omitempty,max=5000"`
	Homepage    string `json:"homepage,omitempty" validate:"omitempty,url"`
	LogoURL     string `json:"logo_url,omitempty" validate:"omitempty,url"`
}

// UpdateTechRequest defines the request body for updating a catalog entry
type UpdateTechRequest struct {
	Name        string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Category    string `json:"category,omitempty" validate:"omitempty,oneof=language framework database infra tool"`
	Description string `json:"description,omitempty" validate:"omitempty,max=5000"`
	Homepage    string `json:"homepage,omitempty" validate:"omitempty,url"`
	LogoURL     string `json:"logo_url,omitempty" validate:"omitempty,url"`
}
