package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/stackload-app/stackload/backend/internal/models"
)

// TechRepository defines the interface for catalog technology operations
type TechRepository interface {
	CreateTech(ctx context.Context, tech *models.Tech) error
	GetTechBySlug(ctx context.Context, slug string) (*models.Tech, error)
	GetTechByID(ctx context.Context, id int64) (*models.Tech, error)
	ListTechs(ctx context.Context, category string, page, limit int) ([]models.Tech, int64, error)
	ListAllTechs(ctx context.Context) ([]models.Tech, error)
	UpdateTech(ctx context.Context, tech *models.Tech) error
	DeleteTech(ctx context.Context, id int64) error
	ListCompaniesUsing(ctx context.Context, techID int64) ([]models.Company, error)
}

// PostgresTechRepository implements TechRepository for PostgreSQL
type PostgresTechRepository struct {
	db *gorm.DB
}

// NewPostgresTechRepository creates a new PostgresTechRepository
func NewPostgresTechRepository(db *gorm.DB) *PostgresTechRepository {
	return &PostgresTechRepository{db: db}
}

func (r *PostgresTechRepository) CreateTech(ctx context.Context, tech *models.Tech) error {
	return r.db.WithContext(ctx).Create(tech).Error
}

func (r *PostgresTechRepository) GetTechBySlug(ctx context.Context, slug string) (*models.Tech, error) {
	var tech models.Tech
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&tech).Error; err != nil {
		return nil, err
	}
	return &tech, nil
}

func (r *PostgresTechRepository) GetTechByID(ctx context.Context, id int64) (*models.Tech, error) {
	var tech models.Tech
	if err := r.db.WithContext(ctx).First(&tech, id).Error; err != nil {
		return nil, err
	}
	return &tech, nil
}

func (r *PostgresTechRepository) ListTechs(ctx context.Context, category string, page, limit int) ([]models.Tech, int64, error) {
	var techs []models.Tech
	var total int64

	query := r.db.WithContext(ctx).Model(&models.Tech{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := query.Order("name ASC").Offset(offset).Limit(limit).Find(&techs).Error
	return techs, total, err
}

// ListAllTechs returns the full catalog, used to build the in-memory search index
func (r *PostgresTechRepository) ListAllTechs(ctx context.Context) ([]models.Tech, error) {
	var techs []models.Tech
	err := r.db.WithContext(ctx).Order("name ASC").Find(&techs).Error
	return techs, err
}

func (r *PostgresTechRepository) UpdateTech(ctx context.Context, tech *models.Tech) error {
	return r.db.WithContext(ctx).Save(tech).Error
}

func (r *PostgresTechRepository) DeleteTech(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tech_id = ?", id).Delete(&models.CompanyTech{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Tech{}, id).Error
	})
}

// ListCompaniesUsing returns the companies that have the tech in their stack
func (r *PostgresTechRepository) ListCompaniesUsing(ctx context.Context, techID int64) ([]models.Company, error) {
	var companies []models.Company
	err := r.db.WithContext(ctx).
		Joins("JOIN company_techs ON company_techs.company_id = companies.id").
		Where("company_techs.tech_id = ?", techID).
		Order("companies.name ASC").
		Find(&companies).Error
	return companies, err
}
