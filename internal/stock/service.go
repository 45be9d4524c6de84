package stock

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/veltmart/backend/internal/apperr"
)

type Store interface {
	Decrement(ctx context.Context, productID string, qty int) (Record, error)
	Get(ctx context.Context, productID string) (Record, error)
	Put(ctx context.Context, productID string, qty int) (Record, error)
}

// Service owns per-product available quantity. Decrement takes no
// idempotency key: calling it twice for the same order line decrements
// twice, and callers know that.
type Service struct {
	store Store
	log   zerolog.Logger
}

func NewService(store Store, log zerolog.Logger) *Service {
	return &Service{store: store, log: log}
}

func (s *Service) Decrement(ctx context.Context, productID string, qty int) (Record, error) {
	if productID == "" {
		return Record{}, apperr.New(apperr.KindInvalidArgument, "missing product id")
	}
	if qty <= 0 {
		return Record{}, apperr.New(apperr.KindInvalidArgument, "quantity must be positive")
	}
	rec, err := s.store.Decrement(ctx, productID, qty)
	if err != nil {
		return Record{}, err
	}
	if rec.Quantity == 0 {
		s.log.Info().Str("product_id", productID).Msg("stock depleted")
	}
	return rec, nil
}

func (s *Service) Get(ctx context.Context, productID string) (Record, error) {
	if productID == "" {
		return Record{}, apperr.New(apperr.KindInvalidArgument, "missing product id")
	}
	return s.store.Get(ctx, productID)
}

func (s *Service) Put(ctx context.Context, productID string, qty int) (Record, error) {
	if productID == "" {
		return Record{}, apperr.New(apperr.KindInvalidArgument, "missing product id")
	}
	if qty < 0 {
		return Record{}, apperr.New(apperr.KindInvalidArgument, "quantity must not be negative")
	}
	return s.store.Put(ctx, productID, qty)
}
