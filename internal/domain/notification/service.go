package notification

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Service handles notification business logic
type Service struct {
	repo Repository
	hub  *Hub
}

// NewService creates notification service
func NewService(repo Repository, hub *Hub) *Service {
	return &Service{repo: repo, hub: hub}
}

// Notify creates a notification and pushes it to connected clients.
// Failures are logged, never propagated; a missed notification must
// not fail the operation that triggered it.
func (s *Service) Notify(ctx context.Context, userID uuid.UUID, kind Type, title, message, link string) {
	n := &Notification{
		ID:      uuid.New(),
		UserID:  userID,
		Type:    kind,
		Title:   title,
		Message: message,
		Link:    sql.NullString{String: link, Valid: link != ""},
	}

	if err := s.repo.Create(ctx, n); err != nil {
		log.Error().Err(err).
			Str("user_id", userID.String()).
			Str("type", string(kind)).
			Msg("Failed to create notification")
		return
	}

	if s.hub != nil {
		s.hub.Publish(userID, n.ToView())
	}
}

// List returns a page of notifications for a user
func (s *Service) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]View, int, error) {
	items, total, err := s.repo.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}

	views := make([]View, 0, len(items))
	for _, n := range items {
		views = append(views, n.ToView())
	}
	return views, total, nil
}

// UnreadCount returns the number of unread notifications
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int, error) {
	return s.repo.CountUnread(ctx, userID)
}

// MarkAsRead marks one notification as read
func (s *Service) MarkAsRead(ctx context.Context, id, userID uuid.UUID) error {
	return s.repo.MarkAsRead(ctx, id, userID)
}

// MarkAllAsRead marks every notification of the user as read
func (s *Service) MarkAllAsRead(ctx context.Context, userID uuid.UUID) error {
	return s.repo.MarkAllAsRead(ctx, userID)
}
