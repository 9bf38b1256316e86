package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/stackload-app/stackload/backend/internal/middleware"
	"github.com/stackload-app/stackload/backend/internal/models"
	"github.com/stackload-app/stackload/backend/internal/repositories"
	"github.com/stackload-app/stackload/backend/internal/response"
)

// CompanyHandler handles HTTP requests for the company catalog
type CompanyHandler struct {
	companyRepository repositories.CompanyRepository
}

// NewCompanyHandler creates a new CompanyHandler
func NewCompanyHandler(companyRepo repositories.CompanyRepository) *CompanyHandler {
	return &CompanyHandler{companyRepository: companyRepo}
}

// RegisterCompanyRoutes registers company routes. Reads are public;
// mutations are admin-only.
func (h *CompanyHandler) RegisterCompanyRoutes(g *echo.Group) {
	g.GET("/companies", h.ListCompanies)
	g.GET("/companies/:slug", h.GetCompany)
	g.POST("/companies", h.CreateCompany)
	g.PUT("/companies/:id", h.UpdateCompany)
	g.DELETE("/companies/:id", h.DeleteCompany)
}

// ListCompanies returns a paginated company listing
func (h *CompanyHandler) ListCompanies(c echo.Context) error {
	page, limit := parsePagination(c)
	companies, total, err := h.companyRepository.ListCompanies(c.Request().Context(), page, limit)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load companies")
	}
	return response.Paginated(c, companies, page, limit, total)
}

// GetCompany returns one company with its tech stack
func (h *CompanyHandler) GetCompany(c echo.Context) error {
	company, err := h.companyRepository.GetCompanyBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Error(c, http.StatusNotFound, response.CodeNotFound, "Company not found")
		}
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load company")
	}

	stack, err := h.companyRepository.ListStack(c.Request().Context(), company.ID)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load company")
	}

	return response.OK(c, http.StatusOK, echo.Map{"company": company, "stack": stack})
}

// CreateCompany adds a company; admin only
func (h *CompanyHandler) CreateCompany(c echo.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}

	var req models.CreateCompanyRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid request payload", err.Error())
	}

	if _, err := h.companyRepository.GetCompanyBySlug(c.Request().Context(), req.Slug); err == nil {
		return response.Error(c, http.StatusConflict, response.CodeConflict, "A company with this slug already exists")
	}

	company := &models.Company{
		Slug:        req.Slug,
		Name:        req.Name,
		Description: req.Description,
		WebsiteURL:  req.WebsiteURL,
		LogoURL:     req.LogoURL,
	}
	if err := h.companyRepository.CreateCompany(c.Request().Context(), company, req.TechIDs); err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to create company")
	}
	return response.OK(c, http.StatusCreated, company)
}

// UpdateCompany updates a company; admin only
func (h *CompanyHandler) UpdateCompany(c echo.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid company ID")
	}

	var req models.UpdateCompanyRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid request payload", err.Error())
	}

	company, err := h.companyRepository.GetCompanyByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Error(c, http.StatusNotFound, response.CodeNotFound, "Company not found")
		}
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load company")
	}

	if req.Name != "" {
		company.Name = req.Name
	}
	if req.Description != "" {
		company.Description = req.Description
	}
	if req.WebsiteURL != "" {
		company.WebsiteURL = req.WebsiteURL
	}
	if req.LogoURL != "" {
		company.LogoURL = req.LogoURL
	}

	if err := h.companyRepository.UpdateCompany(c.Request().Context(), company, req.TechIDs); err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to update company")
	}
	return response.OK(c, http.StatusOK, company)
}

// DeleteCompany removes a company; admin only
func (h *CompanyHandler) DeleteCompany(c echo.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid company ID")
	}

	if err := h.companyRepository.DeleteCompany(c.Request().Context(), id); err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to delete company")
	}
	return response.OK(c, http.StatusOK, echo.Map{"message": "Company deleted"})
}

func (h *CompanyHandler) requireAdmin(c echo.Context) error {
	subject := middleware.SubjectFrom(c)
	if subject == nil {
		return response.Error(c, http.StatusUnauthorized, response.CodeUnauthenticated, "Not signed in")
	}
	if subject.Role != models.RoleAdmin {
		return response.Error(c, http.StatusForbidden, response.CodeUnauthorized, "Admin access required")
	}
	return nil
}
