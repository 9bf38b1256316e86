package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/stackload-app/stackload/backend/internal/models"
)

// CompanyRepository defines the interface for company catalog operations
type CompanyRepository interface {
	CreateCompany(ctx context.Context, company *models.Company, techIDs []int64) error
	GetCompanyBySlug(ctx context.Context, slug string) (*models.Company, error)
	GetCompanyByID(ctx context.Context, id int64) (*models.Company, error)
	ListCompanies(ctx context.Context, page, limit int) ([]models.Company, int64, error)
	ListAllCompanies(ctx context.Context) ([]models.Company, error)
	UpdateCompany(ctx context.Context, company *models.Company, techIDs []int64) error
	DeleteCompany(ctx context.Context, id int64) error
	ListStack(ctx context.Context, companyID int64) ([]models.Tech, error)
}

// PostgresCompanyRepository implements CompanyRepository for PostgreSQL
type PostgresCompanyRepository struct {
	db *gorm.DB
}

// NewPostgresCompanyRepository creates a new PostgresCompanyRepository
func NewPostgresCompanyRepository(db *gorm.DB) *PostgresCompanyRepository {
	return &PostgresCompanyRepository{db: db}
}

func (r *PostgresCompanyRepository) CreateCompany(ctx context.Context, company *models.Company, techIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(company).Error; err != nil {
			return err
		}
		return replaceStack(tx, company.ID, techIDs)
	})
}

func (r *PostgresCompanyRepository) GetCompanyBySlug(ctx context.Context, slug string) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&company).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *PostgresCompanyRepository) GetCompanyByID(ctx context.Context, id int64) (*models.Company, error) {
	var company models.Company
	if err := r.db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *PostgresCompanyRepository) ListCompanies(ctx context.Context, page, limit int) ([]models.Company, int64, error) {
	var companies []models.Company
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Company{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).Order("name ASC").Offset(offset).Limit(limit).Find(&companies).Error
	return companies, total, err
}

// ListAllCompanies returns every company, used to build the in-memory search index
func (r *PostgresCompanyRepository) ListAllCompanies(ctx context.Context) ([]models.Company, error) {
	var companies []models.Company
	err := r.db.WithContext(ctx).Order("name ASC").Find(&companies).Error
	return companies, err
}

// UpdateCompany saves the company and, when techIDs is non-nil, replaces its stack
func (r *PostgresCompanyRepository) UpdateCompany(ctx context.Context, company *models.Company, techIDs []int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(company).Error; err != nil {
			return err
		}
		if techIDs == nil {
			return nil
		}
		if err := tx.Where("company_id = ?", company.ID).Delete(&models.CompanyTech{}).Error; err != nil {
			return err
		}
		return replaceStack(tx, company.ID, techIDs)
	})
}

func (r *PostgresCompanyRepository) DeleteCompany(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", id).Delete(&models.CompanyTech{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Company{}, id).Error
	})
}

// ListStack returns the technologies a company uses
func (r *PostgresCompanyRepository) ListStack(ctx context.Context, companyID int64) ([]models.Tech, error) {
	var techs []models.Tech
	err := r.db.WithContext(ctx).
		Joins("JOIN company_techs ON company_techs.tech_id = techs.id").
		Where("company_techs.company_id = ?", companyID).
		Order("techs.name ASC").
		Find(&techs).Error
	return techs, err
}

func replaceStack(tx *gorm.DB, companyID int64, techIDs []int64) error {
	for _, techID := range techIDs {
		link := &models.CompanyTech{CompanyID: companyID, TechID: techID}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(link).Error; err != nil {
			return err
		}
	}
	return nil
}
