package services

import (
	"fmt"
	"log"

	"github.com/socialhub/backend/internal/apperr"
	"github.com/socialhub/backend/internal/models"
	"github.com/socialhub/backend/internal/repositories"
)

// Publisher is the real-time channel collaborator: a fire-and-forget send
// to a per-user topic. No acknowledgment or retry is expected.
type Publisher interface {
	Publish(recipientID uint, payload interface{}) error
}

// NotifierService persists notification records and fans them out to the
// recipient's real-time channel. The durable write always happens first;
// delivery failure is logged and discarded, never rolled back or retried.
//
// Callers are responsible for the self-notification check: an actor acting
// on their own post or comment must not reach the Notify* methods.
type NotifierService struct {
	notifications repositories.NotificationRepository
	publisher     Publisher
}

// NewNotifierService creates a new NotifierService
func NewNotifierService(notifRepo repositories.NotificationRepository, publisher Publisher) *NotifierService {
	return &NotifierService{notifications: notifRepo, publisher: publisher}
}

// dispatch persists the record, then attempts best-effort delivery. An
// error return means the durable write failed and the triggering unit of
// work must abort; a delivery failure never produces one.
func (s *NotifierService) dispatch(n *models.Notification) error {
	if err := s.notifications.CreateNotification(n); err != nil {
		return fmt.Errorf("persist notification: %w", err)
	}
	if s.publisher != nil {
		if err := s.publisher.Publish(n.RecipientID, n); err != nil {
			log.Printf("notification %d: delivery to user %d failed: %v", n.ID, n.RecipientID, err)
		}
	}
	return nil
}

// NotifyLike records that actor liked post
func (s *NotifierService) NotifyLike(actor *models.User, post *models.Post) error {
	return s.dispatch(&models.Notification{
		Type:        models.NotificationTypeLike,
		ActorID:     actor.ID,
		RecipientID: post.UserID,
		PostID:      post.ID.Hex(),
		Message:     actor.Username + " liked your post",
	})
}

// NotifyComment records that actor commented on post
func (s *NotifierService) NotifyComment(actor *models.User, post *models.Post) error {
	return s.dispatch(&models.Notification{
		Type:        models.NotificationTypeComment,
		ActorID:     actor.ID,
		RecipientID: post.UserID,
		PostID:      post.ID.Hex(),
		Message:     actor.Username + " commented on your post",
	})
}

// NotifyReply records that actor replied to parentComment
func (s *NotifierService) NotifyReply(actor *models.User, parentComment *models.Comment) error {
	commentID := parentComment.ID
	return s.dispatch(&models.Notification{
		Type:        models.NotificationTypeReply,
		ActorID:     actor.ID,
		RecipientID: parentComment.UserID,
		PostID:      parentComment.PostID,
		CommentID:   &commentID,
		Message:     actor.Username + " replied to your comment",
	})
}

// NotifyFollow records that actor started following recipient
func (s *NotifierService) NotifyFollow(actor *models.User, recipientID uint) error {
	return s.dispatch(&models.Notification{
		Type:        models.NotificationTypeFollow,
		ActorID:     actor.ID,
		RecipientID: recipientID,
		Message:     actor.Username + " started following you",
	})
}

// List returns a page of the recipient's notifications, newest first.
// page is 1-based here, matching the listing endpoints.
func (s *NotifierService) List(recipientID uint, page, limit int) ([]models.Notification, int64, error) {
	return s.notifications.GetByRecipientID(recipientID, page, limit)
}

// UnreadCount returns the number of unread notifications for a recipient
func (s *NotifierService) UnreadCount(recipientID uint) (int64, error) {
	return s.notifications.GetUnreadCount(recipientID)
}

// MarkAsRead transitions one notification to read. Only the recipient may
// do this; marking an already-read notification is a no-op.
func (s *NotifierService) MarkAsRead(recipientID, notificationID uint) error {
	n, err := s.notifications.GetByID(notificationID)
	if err != nil {
		return err
	}
	if n.RecipientID != recipientID {
		return fmt.Errorf("notification %d belongs to another user: %w", notificationID, apperr.ErrForbidden)
	}
	return s.notifications.MarkAsRead(notificationID)
}

// MarkAllAsRead transitions every unread notification of the recipient to
// read; no error if none exist.
func (s *NotifierService) MarkAllAsRead(recipientID uint) error {
	return s.notifications.MarkAllAsRead(recipientID)
}

// Delete removes one notification after the ownership check
func (s *NotifierService) Delete(recipientID, notificationID uint) error {
	n, err := s.notifications.GetByID(notificationID)
	if err != nil {
		return err
	}
	if n.RecipientID != recipientID {
		return fmt.Errorf("notification %d belongs to another user: %w", notificationID, apperr.ErrForbidden)
	}
	return s.notifications.Delete(notificationID)
}

// DeleteAll removes every notification owned by the recipient
func (s *NotifierService) DeleteAll(recipientID uint) error {
	return s.notifications.DeleteAllByRecipientID(recipientID)
}
