package models

import "time"

// Company represents a company whose stack is tracked in the catalog
type Company struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Slug        string    `json:"slug" gorm:"size:100;uniqueIndex"`
	Name        string    `json:"name" gorm:"size:100"`
	Description string    `json:"description" gorm:"type:text"`
	WebsiteURL  string    `json:"website_url,omitempty"`
	LogoURL     string    `json:"logo_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CompanyTech links a company to a technology it uses
type CompanyTech struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	CompanyID int64     `json:"company_id" gorm:"index;uniqueIndex:idx_company_tech"`
	TechID    int64     `json:"tech_id" gorm:"index;uniqueIndex:idx_company_tech"`
	CreatedAt time.Time `json:"created_at"`
}

func (CompanyTech) TableName() string { return "company_techs" }

// CreateCompanyRequest defines the request body for creating a company
type CreateCompanyRequest struct {
	Slug        string  `json:"slug" validate:"required,min=1,max=100,lowercase"`
	Name        string  `json:"name" validate:"required,min=1,max=100"`
	Description string  `json:"description" validate:"omitempty,max=5000"`
	WebsiteURL  string  `json:"website_url,omitempty" validate:"omitempty,url"`
	LogoURL     string  `json:"logo_url,omitempty" validate:"omitempty,url"`
	TechIDs     []int64 `json:"tech_ids,omitempty"`
}

// UpdateCompanyRequest defines the request body for updating a company
type UpdateCompanyRequest struct {
	Name        string  `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Description string  `json:"description,omitempty" validate:"omitempty,max=5000"`
	WebsiteURL  string  `json:"website_url,omitempty" validate:"omitempty,url"`
	LogoURL     string  `json:"logo_url,omitempty" validate:"omitempty,url"`
	TechIDs     []int64 `json:"tech_ids,omitempty"`
}
