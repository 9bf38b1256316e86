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

// TechHandler handles HTTP requests for the technology catalog
type TechHandler struct {
	techRepository repositories.TechRepository
}

// NewTechHandler creates a new TechHandler
func NewTechHandler(techRepo repositories.TechRepository) *TechHandler {
	return &TechHandler{techRepository: techRepo}
}

// RegisterTechRoutes registers catalog routes. Reads are public; mutations
// are admin-only.
func (h *TechHandler) RegisterTechRoutes(g *echo.Group) {
	g.GET("/techs", h.ListTechs)
	g.GET("/techs/:slug", h.GetTech)
	g.POST("/techs", h.CreateTech)
	g.PUT("/techs/:id", h.UpdateTech)
	g.DELETE("/techs/:id", h.DeleteTech)
}

// ListTechs returns a paginated catalog listing, optionally filtered by category
func (h *TechHandler) ListTechs(c echo.Context) error {
	page, limit := parsePagination(c)
	techs, total, err := h.techRepository.ListTechs(c.Request().Context(), c.QueryParam("category"), page, limit)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load catalog")
	}
	return response.Paginated(c, techs, page, limit, total)
}

// GetTech returns one catalog entry with the companies that use it
func (h *TechHandler) GetTech(c echo.Context) error {
	tech, err := h.techRepository.GetTechBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Error(c, http.StatusNotFound, response.CodeNotFound, "Tech not found")
		}
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load tech")
	}

	companies, err := h.techRepository.ListCompaniesUsing(c.Request().Context(), tech.ID)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load tech")
	}

	return response.OK(c, http.StatusOK, echo.Map{"tech": tech, "companies": companies})
}

// CreateTech adds a catalog entry; admin only
func (h *TechHandler) CreateTech(c echo.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}

	var req models.CreateTechRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid request payload", err.Error())
	}

	if _, err := h.techRepository.GetTechBySlug(c.Request().Context(), req.Slug); err == nil {
		return response.Error(c, http.StatusConflict, response.CodeConflict, "A tech with this slug already exists")
	}

	tech := &models.Tech{
		Slug:        req.Slug,
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		Homepage:    req.Homepage,
		LogoURL:     req.LogoURL,
	}
	if err := h.techRepository.CreateTech(c.Request().Context(), tech); err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to create tech")
	}
	return response.OK(c, http.StatusCreated, tech)
}

// UpdateTech updates a catalog entry; admin only
func (h *TechHandler) UpdateTech(c echo.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid tech ID")
	}

	var req models.UpdateTechRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid request payload", err.Error())
	}

	tech, err := h.techRepository.GetTechByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Error(c, http.StatusNotFound, response.CodeNotFound, "Tech not found")
		}
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load tech")
	}

	if req.Name != "" {
		tech.Name = req.Name
	}
	if req.Category != "" {
		tech.Category = req.Category
	}
	if req.Description != "" {
		tech.Description = req.Description
	}
	if req.Homepage != "" {
		tech.Homepage = req.Homepage
	}
	if req.LogoURL != "" {
		tech.LogoURL = req.LogoURL
	}

	if err := h.techRepository.UpdateTech(c.Request().Context(), tech); err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to update tech")
	}
	return response.OK(c, http.StatusOK, tech)
}

// DeleteTech removes a catalog entry; admin only
func (h *TechHandler) DeleteTech(c echo.Context) error {
	if err := h.requireAdmin(c); err != nil {
		return err
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid tech ID")
	}

	if err := h.techRepository.DeleteTech(c.Request().Context(), id); err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to delete tech")
	}
	return response.OK(c, http.StatusOK, echo.Map{"message": "Tech deleted"})
}

func (h *TechHandler) requireAdmin(c echo.Context) error {
	subject := middleware.SubjectFrom(c)
	if subject == nil {
		return response.Error(c, http.StatusUnauthorized, response.CodeUnauthenticated, "Not signed in")
	}
	if subject.Role != models.RoleAdmin {
		return response.Error(c, http.StatusForbidden, response.CodeUnauthorized, "Admin access required")
	}
	return nil
}
