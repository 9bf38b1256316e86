package handlers

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"
	"github.com/lithammer/fuzzysearch/fuzzy"

	"github.com/stackload-app/stackload/backend/internal/repositories"
	"github.com/stackload-app/stackload/backend/internal/response"
)

const maxSearchResults = 20

// SearchResult is one fuzzy match against the catalog
type SearchResult struct {
	Type string `json:"type"` // tech or company
	ID   int64  `json:"id"`
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// SearchHandler handles fuzzy search over the catalog. Matching is delegated
// to the fuzzy library over an in-memory array of names; no search index is
// maintained.
type SearchHandler struct {
	techRepository    repositories.TechRepository
	companyRepository repositories.CompanyRepository
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(techRepo repositories.TechRepository, companyRepo repositories.CompanyRepository) *SearchHandler {
	return &SearchHandler{techRepository: techRepo, companyRepository: companyRepo}
}

// RegisterSearchRoutes registers the search endpoint
func (h *SearchHandler) RegisterSearchRoutes(g *echo.Group) {
	g.GET("/search", h.Search)
}

// Search ranks techs and companies against the query string
func (h *SearchHandler) Search(c echo.Context) error {
	query := c.QueryParam("q")
	if query == "" {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Query parameter q is required")
	}

	techs, err := h.techRepository.ListAllTechs(c.Request().Context())
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Search failed")
	}
	companies, err := h.companyRepository.ListAllCompanies(c.Request().Context())
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Search failed")
	}

	candidates := make([]SearchResult, 0, len(techs)+len(companies))
	names := make([]string, 0, len(techs)+len(companies))
	for _, t := range techs {
		candidates = append(candidates, SearchResult{Type: "tech", ID: t.ID, Slug: t.Slug, Name: t.Name})
		names = append(names, t.Name)
	}
	for _, co := range companies {
		candidates = append(candidates, SearchResult{Type: "company", ID: co.ID, Slug: co.Slug, Name: co.Name})
		names = append(names, co.Name)
	}

	ranks := fuzzy.RankFindNormalizedFold(query, names)
	sort.Sort(ranks)

	results := make([]SearchResult, 0, maxSearchResults)
	for _, rank := range ranks {
		results = append(results, candidates[rank.OriginalIndex])
		if len(results) == maxSearchResults {
			break
		}
	}

	return response.OK(c, http.StatusOK, echo.Map{"query": query, "results": results})
}
