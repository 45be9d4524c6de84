package notifications

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/veltmart/backend/internal/apperr"
)

type Store interface {
	Insert(ctx context.Context, n Notification) error
	ListForUser(ctx context.Context, userID string) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// Service creates and reads notifications. Creation is fire-and-forget from
// the caller's point of view: no delivery guarantee, no retry, no dead
// letters. Callers must not depend on this path for correctness.
type Service struct {
	store Store
	log   zerolog.Logger
}

func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log}
}

func (s *Service) Create(ctx context.Context, userID, message, typ string) (Notification, error) {
	if userID == "" {
		return Notification{}, apperr.New(apperr.KindInvalidArgument, "missing user id")
	}
	if message == "" {
		return Notification{}, apperr.New(apperr.KindInvalidArgument, "missing message")
	}
	if typ == "" {
		typ = "general"
	}

	n := Notification{
		ID:        uuid.NewString(),
		UserID:    userID,
		Message:   message,
		Type:      typ,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.Insert(ctx, n); err != nil {
		return Notification{}, err
	}
	return n, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]Notification, error) {
	if userID == "" {
		return nil, apperr.New(apperr.KindUnauthenticated, "missing user id")
	}
	return s.store.ListForUser(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	if id == "" {
		return apperr.New(apperr.KindInvalidArgument, "missing notification id")
	}
	return s.store.MarkRead(ctx, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	if userID == "" {
		return apperr.New(apperr.KindUnauthenticated, "missing user id")
	}
	return s.store.MarkAllRead(ctx, userID)
}
