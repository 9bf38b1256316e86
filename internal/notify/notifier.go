// Package notify creates notifications as an explicit post-commit step.
// Handlers call it only after the primary transaction has committed, so a
// dispatch failure can never roll back the action it describes; failures are
// logged and swallowed.
package notify

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/stackload-app/stackload/backend/internal/models"
	"github.com/stackload-app/stackload/backend/internal/repositories"
)

// Notifier dispatches best-effort notifications
type Notifier struct {
	notifications repositories.NotificationRepository
	logger        *zap.Logger
}

// New creates a new Notifier
func New(notifications repositories.NotificationRepository, logger *zap.Logger) *Notifier {
	return &Notifier{notifications: notifications, logger: logger}
}

// PostLiked notifies the post owner that actor liked their post.
// Self-likes never notify.
func (n *Notifier) PostLiked(ctx context.Context, actor *models.User, post *models.Post) {
	if post.UserID == actor.ID {
		return
	}
	n.dispatch(ctx, &models.Notification{
		Type:        models.NotificationTypeLike,
		ActorID:     actor.ID,
		RecipientID: post.UserID,
		PostID:      post.ID,
		Message:     fmt.Sprintf("%s liked your post", actor.Name),
	})
}

// CommentCreated notifies the post owner that actor commented on their post
func (n *Notifier) CommentCreated(ctx context.Context, actor *models.User, post *models.Post, comment *models.Comment) {
	if post.UserID == actor.ID {
		return
	}
	n.dispatch(ctx, &models.Notification{
		Type:        models.NotificationTypeComment,
		ActorID:     actor.ID,
		RecipientID: post.UserID,
		PostID:      post.ID,
		CommentID:   &comment.ID,
		Message:     fmt.Sprintf("%s commented on your post", actor.Name),
	})
}

// CommentLiked notifies the comment author that actor liked their comment
func (n *Notifier) CommentLiked(ctx context.Context, actor *models.User, comment *models.Comment) {
	if comment.UserID == actor.ID {
		return
	}
	n.dispatch(ctx, &models.Notification{
		Type:        models.NotificationTypeCommentLike,
		ActorID:     actor.ID,
		RecipientID: comment.UserID,
		PostID:      comment.PostID,
		CommentID:   &comment.ID,
		Message:     fmt.Sprintf("%s liked your comment", actor.Name),
	})
}

func (n *Notifier) dispatch(ctx context.Context, notification *models.Notification) {
	if err := n.notifications.CreateNotification(ctx, notification); err != nil {
		n.logger.Warn("notification dispatch failed",
			zap.String("type", notification.Type),
			zap.String("recipient_id", notification.RecipientID),
			zap.Error(err))
	}
}
