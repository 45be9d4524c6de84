package transactions

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/veltmart/backend/internal/apperr"
	"github.com/veltmart/backend/internal/redisx"
)

type Store interface {
	InsertConsumed(ctx context.Context, t ConsumedTransaction) error
	IsConsumed(ctx context.Context, hash string) (bool, error)
	ConsumedForUser(ctx context.Context, userID string, limit int) ([]ConsumedTransaction, error)
	AppendHistory(ctx context.Context, e HistoryEntry) error
	HistoryForUser(ctx context.Context, userID string, limit int) ([]HistoryEntry, error)
}

// Page caps for the read paths. Neither listing is paginated upstream, so
// the service bounds them to the newest rows.
const (
	consumedPageSize = 100
	historyPageSize  = 100
)

// Service owns the set of redeemed payment hashes. MarkConsumed is the one
// real dedup guarantee in the system: for N concurrent calls on a hash,
// exactly one wins and the rest see AlreadyConsumed.
type Service struct {
	store Store
	redis *redis.Client // optional positive cache
	log   zerolog.Logger
}

func NewService(store Store, rdb *redis.Client, log zerolog.Logger) *Service {
	return &Service{store: store, redis: rdb, log: log}
}

func (s *Service) MarkConsumed(ctx context.Context, userID, hash string, amount decimal.Decimal, ts time.Time) error {
	if userID == "" {
		return apperr.New(apperr.KindUnauthenticated, "missing user id")
	}
	if hash == "" {
		return apperr.New(apperr.KindInvalidArgument, "missing transaction hash")
	}
	if amount.IsNegative() {
		return apperr.New(apperr.KindInvalidArgument, "amount must not be negative")
	}
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	err := s.store.InsertConsumed(ctx, ConsumedTransaction{
		Hash: hash, UserID: userID, Amount: amount, ConsumedAt: ts,
	})
	if err != nil {
		return err
	}
	s.cacheConsumed(ctx, hash)
	return nil
}

// IsConsumed is advisory: a negative answer can race a concurrent insert.
// Callers gating redemption must still call MarkConsumed and check its
// result before crediting value.
func (s *Service) IsConsumed(ctx context.Context, hash string) (bool, error) {
	if hash == "" {
		return false, apperr.New(apperr.KindInvalidArgument, "missing transaction hash")
	}
	if s.redis != nil {
		key := fmt.Sprintf(redisx.KeyConsumed, hash)
		if ok, err := redisx.Exists(ctx, s.redis, key); err == nil && ok {
			return true, nil
		}
	}
	consumed, err := s.store.IsConsumed(ctx, hash)
	if err != nil {
		return false, err
	}
	if consumed {
		s.cacheConsumed(ctx, hash)
	}
	return consumed, nil
}

func (s *Service) ConsumedForUser(ctx context.Context, userID string) ([]ConsumedTransaction, error) {
	if userID == "" {
		return nil, apperr.New(apperr.KindUnauthenticated, "missing user id")
	}
	return s.store.ConsumedForUser(ctx, userID, consumedPageSize)
}

func (s *Service) SaveHistory(ctx context.Context, userID, hash, kind string, amount decimal.Decimal) (HistoryEntry, error) {
	if userID == "" {
		return HistoryEntry{}, apperr.New(apperr.KindUnauthenticated, "missing user id")
	}
	if hash == "" {
		return HistoryEntry{}, apperr.New(apperr.KindInvalidArgument, "missing transaction hash")
	}
	switch kind {
	case KindSend, KindReceive, KindPayment:
	default:
		return HistoryEntry{}, apperr.New(apperr.KindInvalidArgument, "unknown history type")
	}

	e := HistoryEntry{
		ID:        uuid.NewString(),
		UserID:    userID,
		Hash:      hash,
		Kind:      kind,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.AppendHistory(ctx, e); err != nil {
		return HistoryEntry{}, err
	}
	return e, nil
}

func (s *Service) HistoryForUser(ctx context.Context, userID string) ([]HistoryEntry, error) {
	if userID == "" {
		return nil, apperr.New(apperr.KindUnauthenticated, "missing user id")
	}
	return s.store.HistoryForUser(ctx, userID, historyPageSize)
}

// A consumed hash is immutable once set, so the positive cache can never go
// stale. Cache errors are ignored; the database answer is authoritative.
func (s *Service) cacheConsumed(ctx context.Context, hash string) {
	if s.redis == nil {
		return
	}
	key := fmt.Sprintf(redisx.KeyConsumed, hash)
	if err := s.redis.Set(ctx, key, "1", redisx.TTLConsumed).Err(); err != nil {
		s.log.Debug().Err(err).Msg("consumed cache set failed")
	}
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return d, nil
}
