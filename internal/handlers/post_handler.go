package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stackload-app/stackload/backend/internal/middleware"
	"github.com/stackload-app/stackload/backend/internal/models"
	"github.com/stackload-app/stackload/backend/internal/repositories"
	"github.com/stackload-app/stackload/backend/internal/response"
	"github.com/stackload-app/stackload/backend/internal/viewtrack"
)

// PostHandler handles HTTP requests related to posts
type PostHandler struct {
	postRepository repositories.PostRepository
	logger         *zap.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(postRepo repositories.PostRepository, logger *zap.Logger) *PostHandler {
	return &PostHandler{postRepository: postRepo, logger: logger}
}

// RegisterPostRoutes registers post-related routes
func (h *PostHandler) RegisterPostRoutes(g *echo.Group) {
	g.GET("/posts", h.ListPosts)
	g.GET("/posts/:id", h.GetPost)
	g.POST("/posts", h.CreatePost)
	g.PUT("/posts/:id", h.UpdatePost)
	g.DELETE("/posts/:id", h.DeletePost)
}

// ListPosts returns a paginated list of posts, newest first
func (h *PostHandler) ListPosts(c echo.Context) error {
	page, limit := parsePagination(c)

	var (
		posts []models.Post
		total int64
		err   error
	)
	if userID := c.QueryParam("user_id"); userID != "" {
		posts, total, err = h.postRepository.ListPostsByUser(c.Request().Context(), userID, page, limit)
	} else {
		posts, total, err = h.postRepository.ListPosts(c.Request().Context(), page, limit)
	}
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load posts")
	}
	return response.Paginated(c, posts, page, limit, total)
}

// GetPost returns one post and counts the view. Whether the view counts is
// decided by the client-held dedup window; the pruned window is always
// written back so it stays self-cleaning.
func (h *PostHandler) GetPost(c echo.Context) error {
	id, err := parseID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid post ID")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Error(c, http.StatusNotFound, response.CodeNotFound, "Post not found")
		}
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load post")
	}

	records := viewtrack.ReadCookie(c)
	counts, updated := viewtrack.ShouldCount(records, id, time.Now())
	if counts {
		if h.incrementViewCount(c, id) {
			post.ViewCount++
		}
	}
	viewtrack.WriteCookie(c, updated)

	return response.OK(c, http.StatusOK, post)
}

// incrementViewCount bumps the authoritative counter, retrying once on
// failure: an occasional double count is preferred over silently losing the
// view.
func (h *PostHandler) incrementViewCount(c echo.Context, id int64) bool {
	ctx := c.Request().Context()
	if err := h.postRepository.IncrementViewCount(ctx, id); err != nil {
		h.logger.Warn("view count increment failed, retrying once",
			zap.Int64("post_id", id), zap.Error(err))
		if err := h.postRepository.IncrementViewCount(ctx, id); err != nil {
			h.logger.Error("view count increment retry failed",
				zap.Int64("post_id", id), zap.Error(err))
			return false
		}
	}
	return true
}

// CreatePost creates a new post owned by the authenticated user
func (h *PostHandler) CreatePost(c echo.Context) error {
	subject := middleware.SubjectFrom(c)
	if subject == nil {
		return response.Error(c, http.StatusUnauthorized, response.CodeUnauthenticated, "Not signed in")
	}

	var req models.CreatePostRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid request payload", err.Error())
	}

	post := &models.Post{
		UserID:  subject.ID,
		Title:   req.Title,
		Content: req.Content,
	}
	if err := h.postRepository.CreatePost(c.Request().Context(), post); err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to create post")
	}
	return response.OK(c, http.StatusCreated, post)
}

// UpdatePost updates a post; only the author may edit it
func (h *PostHandler) UpdatePost(c echo.Context) error {
	subject := middleware.SubjectFrom(c)
	if subject == nil {
		return response.Error(c, http.StatusUnauthorized, response.CodeUnauthenticated, "Not signed in")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid post ID")
	}

	var req models.UpdatePostRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid request payload", err.Error())
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Error(c, http.StatusNotFound, response.CodeNotFound, "Post not found")
		}
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load post")
	}
	if post.UserID != subject.ID {
		return response.Error(c, http.StatusForbidden, response.CodeUnauthorized, "You can only edit your own posts")
	}

	if req.Title != "" {
		post.Title = req.Title
	}
	if req.Content != "" {
		post.Content = req.Content
	}
	if err := h.postRepository.UpdatePost(c.Request().Context(), post); err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to update post")
	}
	return response.OK(c, http.StatusOK, post)
}

// DeletePost deletes a post; the author or an admin may delete it
func (h *PostHandler) DeletePost(c echo.Context) error {
	subject := middleware.SubjectFrom(c)
	if subject == nil {
		return response.Error(c, http.StatusUnauthorized, response.CodeUnauthenticated, "Not signed in")
	}

	id, err := parseID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid post ID")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Error(c, http.StatusNotFound, response.CodeNotFound, "Post not found")
		}
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load post")
	}
	if post.UserID != subject.ID && subject.Role != models.RoleAdmin {
		return response.Error(c, http.StatusForbidden, response.CodeUnauthorized, "You can only delete your own posts")
	}

	if err := h.postRepository.DeletePost(c.Request().Context(), id); err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to delete post")
	}
	return response.OK(c, http.StatusOK, echo.Map{"message": "Post deleted"})
}
