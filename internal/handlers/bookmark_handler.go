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

// BookmarkHandler handles HTTP requests related to bookmarks
type BookmarkHandler struct {
	bookmarkRepository repositories.BookmarkRepository
	postRepository     repositories.PostRepository
}

// NewBookmarkHandler creates a new BookmarkHandler
func NewBookmarkHandler(bookmarkRepo repositories.BookmarkRepository, postRepo repositories.PostRepository) *BookmarkHandler {
	return &BookmarkHandler{bookmarkRepository: bookmarkRepo, postRepository: postRepo}
}

// RegisterBookmarkRoutes registers bookmark-related routes
func (h *BookmarkHandler) RegisterBookmarkRoutes(g *echo.Group) {
	g.POST("/posts/:id/bookmark", h.BookmarkPost)
	g.DELETE("/posts/:id/bookmark", h.RemoveBookmark)
	g.GET("/users/me/bookmarks", h.ListBookmarks)
}

// BookmarkPost saves a post for the authenticated user; idempotent
func (h *BookmarkHandler) BookmarkPost(c echo.Context) error {
	subject := middleware.SubjectFrom(c)
	if subject == nil {
		return response.Error(c, http.StatusUnauthorized, response.CodeUnauthenticated, "Not signed in")
	}

	postID, err := parseID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid post ID")
	}
	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Error(c, http.StatusNotFound, response.CodeNotFound, "Post not found")
		}
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load post")
	}

	bookmark := &models.Bookmark{UserID: subject.ID, PostID: postID}
	if err := h.bookmarkRepository.Save(c.Request().Context(), bookmark); err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to bookmark post")
	}
	return response.OK(c, http.StatusCreated, echo.Map{"bookmarked": true})
}

// RemoveBookmark removes a saved post
func (h *BookmarkHandler) RemoveBookmark(c echo.Context) error {
	subject := middleware.SubjectFrom(c)
	if subject == nil {
		return response.Error(c, http.StatusUnauthorized, response.CodeUnauthenticated, "Not signed in")
	}

	postID, err := parseID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid post ID")
	}

	if err := h.bookmarkRepository.Remove(c.Request().Context(), subject.ID, postID); err != nil {
		return response.Error(c, http.StatusNotFound, response.CodeNotFound, "Bookmark not found")
	}
	return response.OK(c, http.StatusOK, echo.Map{"bookmarked": false})
}

// ListBookmarks returns the authenticated user's saved posts
func (h *BookmarkHandler) ListBookmarks(c echo.Context) error {
	subject := middleware.SubjectFrom(c)
	if subject == nil {
		return response.Error(c, http.StatusUnauthorized, response.CodeUnauthenticated, "Not signed in")
	}

	page, limit := parsePagination(c)
	bookmarks, total, err := h.bookmarkRepository.ListByUser(c.Request().Context(), subject.ID, page, limit)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load bookmarks")
	}
	return response.Paginated(c, bookmarks, page, limit, total)
}
