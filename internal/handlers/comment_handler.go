package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stackload-app/stackload/backend/internal/middleware"
	"github.com/stackload-app/stackload/backend/internal/models"
	"github.com/stackload-app/stackload/backend/internal/notify"
	"github.com/stackload-app/stackload/backend/internal/repositories"
	"github.com/stackload-app/stackload/backend/internal/response"
)

// CommentHandler handles HTTP requests related to comments
type CommentHandler struct {
	commentRepository repositories.CommentRepository
	postRepository    repositories.PostRepository
	userRepository    repositories.UserRepository
	notifier          *notify.Notifier
	logger            *zap.Logger
}

// NewCommentHandler creates a new CommentHandler
func NewCommentHandler(
	commentRepo repositories.CommentRepository,
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	notifier *notify.Notifier,
	logger *zap.Logger,
) *CommentHandler {
	return &CommentHandler{
		commentRepository: commentRepo,
		postRepository:    postRepo,
		userRepository:    userRepo,
		notifier:          notifier,
		logger:            logger,
	}
}

// RegisterCommentRoutes registers comment-related routes
func (h *CommentHandler) RegisterCommentRoutes(g *echo.Group) {
	g.POST("/posts/:post_id/comments", h.CreateComment)
	g.GET("/posts/:post_id/comments", h.GetCommentsByPostID)
	g.PUT("/comments/:id", h.UpdateComment)
	g.DELETE("/comments/:id", h.DeleteComment)
}

// CreateComment creates a new comment on a post. The post-owner notification
// is dispatched after the comment is persisted and never blocks the reply.
func (h *CommentHandler) CreateComment(c echo.Context) error {
	subject := middleware.SubjectFrom(c)
	if subject == nil {
		return response.Error(c, http.StatusUnauthorized, response.CodeUnauthenticated, "Not signed in")
	}

	postID, err := parseID(c, "post_id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid post ID")
	}

	var req models.CreateCommentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid request payload", err.Error())
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Error(c, http.StatusNotFound, response.CodeNotFound, "Post not found")
		}
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load post")
	}

	comment := &models.Comment{
		PostID:  postID,
		UserID:  subject.ID,
		Content: req.Content,
	}
	if err := h.commentRepository.CreateComment(c.Request().Context(), comment); err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to create comment")
	}

	if err := h.postRepository.IncrementCommentCount(c.Request().Context(), postID); err != nil {
		h.logger.Warn("comment count increment failed", zap.Int64("post_id", postID), zap.Error(err))
	}

	if actor, err := h.userRepository.GetUserByID(c.Request().Context(), subject.ID); err == nil {
		h.notifier.CommentCreated(c.Request().Context(), actor, post, comment)
	}

	return response.OK(c, http.StatusCreated, comment)
}

// GetCommentsByPostID retrieves comments for a post, oldest first
func (h *CommentHandler) GetCommentsByPostID(c echo.Context) error {
	postID, err := parseID(c, "post_id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid post ID")
	}
	if _, err := h.postRepository.GetPostByID(c.Request().Context(), postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Error(c, http.StatusNotFound, response.CodeNotFound, "Post not found")
		}
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load post")
	}

	page, limit := parsePagination(c)
	comments, total, err := h.commentRepository.ListByPostID(c.Request().Context(), postID, page, limit)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load comments")
	}
	return response.Paginated(c, comments, page, limit, total)
}

// UpdateComment updates an existing comment; only the author may edit it
func (h *CommentHandler) UpdateComment(c echo.Context) error {
	subject := middleware.SubjectFrom(c)
	if subject == nil {
		return response.Error(c, http.StatusUnauthorized, response.CodeUnauthenticated, "Not signed in")
	}

	commentID, err := parseID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid comment ID")
	}

	var req models.UpdateCommentRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return response.ErrorWithDetails(c, http.StatusBadRequest, response.CodeValidation, "Invalid request payload", err.Error())
	}

	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Error(c, http.StatusNotFound, response.CodeNotFound, "Comment not found")
		}
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load comment")
	}
	if comment.UserID != subject.ID {
		return response.Error(c, http.StatusForbidden, response.CodeUnauthorized, "You can only edit your own comments")
	}

	comment.Content = req.Content
	if err := h.commentRepository.UpdateComment(c.Request().Context(), comment); err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to update comment")
	}
	return response.OK(c, http.StatusOK, comment)
}

// DeleteComment deletes a comment; the author or an admin may delete it
func (h *CommentHandler) DeleteComment(c echo.Context) error {
	subject := middleware.SubjectFrom(c)
	if subject == nil {
		return response.Error(c, http.StatusUnauthorized, response.CodeUnauthenticated, "Not signed in")
	}

	commentID, err := parseID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid comment ID")
	}

	comment, err := h.commentRepository.GetCommentByID(c.Request().Context(), commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Error(c, http.StatusNotFound, response.CodeNotFound, "Comment not found")
		}
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load comment")
	}
	if comment.UserID != subject.ID && subject.Role != models.RoleAdmin {
		return response.Error(c, http.StatusForbidden, response.CodeUnauthorized, "You can only delete your own comments")
	}

	if err := h.commentRepository.DeleteComment(c.Request().Context(), commentID); err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to delete comment")
	}
	if err := h.postRepository.DecrementCommentCount(c.Request().Context(), comment.PostID); err != nil {
		h.logger.Warn("comment count decrement failed", zap.Int64("post_id", comment.PostID), zap.Error(err))
	}
	return response.OK(c, http.StatusOK, echo.Map{"message": "Comment deleted"})
}
