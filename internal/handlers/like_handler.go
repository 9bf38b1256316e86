package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/stackload-app/stackload/backend/internal/middleware"
	"github.com/stackload-app/stackload/backend/internal/notify"
	"github.com/stackload-app/stackload/backend/internal/repositories"
	"github.com/stackload-app/stackload/backend/internal/response"
)

// LikeHandler handles HTTP requests related to post and comment likes
type LikeHandler struct {
	likeRepository        repositories.LikeRepository
	commentLikeRepository repositories.CommentLikeRepository
	postRepository        repositories.PostRepository
	commentRepository     repositories.CommentRepository
	userRepository        repositories.UserRepository
	notifier              *notify.Notifier
}

// NewLikeHandler creates a new LikeHandler
func NewLikeHandler(
	likeRepo repositories.LikeRepository,
	commentLikeRepo repositories.CommentLikeRepository,
	postRepo repositories.PostRepository,
	commentRepo repositories.CommentRepository,
	userRepo repositories.UserRepository,
	notifier *notify.Notifier,
) *LikeHandler {
	return &LikeHandler{
		likeRepository:        likeRepo,
		commentLikeRepository: commentLikeRepo,
		postRepository:        postRepo,
		commentRepository:     commentRepo,
		userRepository:        userRepo,
		notifier:              notifier,
	}
}

// RegisterLikeRoutes registers like-related routes
func (h *LikeHandler) RegisterLikeRoutes(g *echo.Group) {
	g.POST("/posts/:id/like", h.TogglePostLike)
	g.GET("/posts/:id/like", h.GetPostLikeStatus)
	g.POST("/comments/:id/like", h.ToggleCommentLike)
	g.GET("/comments/:id/like", h.GetCommentLikeStatus)
}

// TogglePostLike flips the liked state for the authenticated user. The
// notification to the post owner is dispatched after the toggle has
// committed and never affects the outcome.
func (h *LikeHandler) TogglePostLike(c echo.Context) error {
	subject := middleware.SubjectFrom(c)
	if subject == nil {
		return response.Error(c, http.StatusUnauthorized, response.CodeUnauthenticated, "Not signed in")
	}

	postID, err := parseID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid post ID")
	}

	post, err := h.postRepository.GetPostByID(c.Request().Context(), postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Error(c, http.StatusNotFound, response.CodeNotFound, "Post not found")
		}
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load post")
	}

	liked, newCount, err := h.likeRepository.Toggle(c.Request().Context(), postID, subject.ID)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to toggle like")
	}

	message := "Post unliked"
	if liked {
		message = "Post liked"
		if actor, err := h.userRepository.GetUserByID(c.Request().Context(), subject.ID); err == nil {
			h.notifier.PostLiked(c.Request().Context(), actor, post)
		}
	}

	return response.OK(c, http.StatusOK, echo.Map{
		"liked":      liked,
		"like_count": newCount,
		"message":    message,
	})
}

// GetPostLikeStatus reports whether the caller has liked the post.
// Anonymous callers are simply not liked.
func (h *LikeHandler) GetPostLikeStatus(c echo.Context) error {
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

	subject := middleware.SubjectFrom(c)
	if subject == nil {
		return response.OK(c, http.StatusOK, echo.Map{"liked": false, "liked_at": nil})
	}

	like, err := h.likeRepository.GetLike(c.Request().Context(), postID, subject.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.OK(c, http.StatusOK, echo.Map{"liked": false, "liked_at": nil})
		}
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load like status")
	}
	return response.OK(c, http.StatusOK, echo.Map{"liked": true, "liked_at": like.CreatedAt})
}

// ToggleCommentLike flips the liked state on a comment
func (h *LikeHandler) ToggleCommentLike(c echo.Context) error {
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

	liked, newCount, err := h.commentLikeRepository.Toggle(c.Request().Context(), commentID, subject.ID)
	if err != nil {
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to toggle like")
	}

	message := "Comment unliked"
	if liked {
		message = "Comment liked"
		if actor, err := h.userRepository.GetUserByID(c.Request().Context(), subject.ID); err == nil {
			h.notifier.CommentLiked(c.Request().Context(), actor, comment)
		}
	}

	return response.OK(c, http.StatusOK, echo.Map{
		"liked":      liked,
		"like_count": newCount,
		"message":    message,
	})
}

// GetCommentLikeStatus reports whether the caller has liked the comment
func (h *LikeHandler) GetCommentLikeStatus(c echo.Context) error {
	commentID, err := parseID(c, "id")
	if err != nil {
		return response.Error(c, http.StatusBadRequest, response.CodeValidation, "Invalid comment ID")
	}
	if _, err := h.commentRepository.GetCommentByID(c.Request().Context(), commentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.Error(c, http.StatusNotFound, response.CodeNotFound, "Comment not found")
		}
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load comment")
	}

	subject := middleware.SubjectFrom(c)
	if subject == nil {
		return response.OK(c, http.StatusOK, echo.Map{"liked": false, "liked_at": nil})
	}

	like, err := h.commentLikeRepository.GetLike(c.Request().Context(), commentID, subject.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.OK(c, http.StatusOK, echo.Map{"liked": false, "liked_at": nil})
		}
		return response.Error(c, http.StatusInternalServerError, response.CodeInternal, "Failed to load like status")
	}
	return response.OK(c, http.StatusOK, echo.Map{"liked": true, "liked_at": like.CreatedAt})
}
