package notification

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/fkhayef/splitledger/pkg/apperror"
)

// Common errors
var (
	ErrNotificationNotFound = apperror.New(http.StatusNotFound, "NOTIFICATION_NOT_FOUND", "notification not found")
	ErrNotRecipient         = apperror.New(http.StatusForbidden, "NOT_RECIPIENT", "not the recipient of this notification")
)

// Service handles notification business logic
type Service struct {
	repo *Repository
	now  func() time.Time
}

// NewService creates a new notification service
func NewService(repo *Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Notify records a notification. Failures are logged, never returned: the
// write that triggered it has already been committed.
func (s *Service) Notify(ctx context.Context, recipientID string, kind Kind, message, entityType, entityID string) {
	n := &Notification{
		ID:          uuid.New().String(),
		RecipientID: recipientID,
		Kind:        kind,
		Message:     message,
		CreatedAt:   s.now().UTC().Truncate(time.Microsecond),
	}
	if entityType != "" {
		n.RelatedEntityType = &entityType
	}
	if entityID != "" {
		n.RelatedEntityID = &entityID
	}

	if err := s.repo.Create(ctx, n); err != nil {
		slog.WarnContext(ctx, "failed to create notification",
			"recipient_id", recipientID,
			"kind", kind,
			"error", err,
		)
	}
}

// ListByRecipientID retrieves notifications for a member
func (s *Service) ListByRecipientID(ctx context.Context, recipientID string, page, perPage int, unreadOnly bool) ([]*Notification, int, error) {
	offset := (page - 1) * perPage
	return s.repo.ListByRecipientID(ctx, recipientID, perPage, offset, unreadOnly)
}

// MarkAsRead marks a notification as read
func (s *Service) MarkAsRead(ctx context.Context, id, memberID string) error {
	n, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if n == nil {
		return ErrNotificationNotFound
	}
	if n.RecipientID != memberID {
		return ErrNotRecipient
	}

	return s.repo.MarkAsRead(ctx, id)
}

// MarkAllAsRead marks all notifications as read for a member
func (s *Service) MarkAllAsRead(ctx context.Context, memberID string) error {
	return s.repo.MarkAllAsRead(ctx, memberID)
}

// GetUnreadCount returns the count of unread notifications
func (s *Service) GetUnreadCount(ctx context.Context, memberID string) (int, error) {
	return s.repo.GetUnreadCount(ctx, memberID)
}
