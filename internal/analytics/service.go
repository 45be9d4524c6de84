// Package analytics tails the order event stream into Redis counters for
// dashboards. It is strictly informational: the fulfillment path neither
// waits for it nor notices when it is down.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/veltmart/backend/internal/kafka"
	"github.com/veltmart/backend/internal/orders"
	"github.com/veltmart/backend/internal/redisx"
)

type Service struct {
	Redis       *redis.Client
	ServiceName string
	Log         zerolog.Logger
}

// HandleOrderEvent is wired as the consumer handler for the order stream.
func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != orders.EventOrderCreated {
		return nil
	}

	// Dedup on event id so redelivered messages do not double-count.
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if exists, _ := redisx.Exists(ctx, s.Redis, dkey); exists {
		return nil
	}
	_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
	if err != nil {
		return err
	}

	day := env.OccurredAt.UTC().Format("2006-01-02")
	if err := s.Redis.Incr(ctx, fmt.Sprintf(redisx.KeyStatsOrders, day)).Err(); err != nil {
		return err
	}
	if err := s.Redis.IncrByFloat(ctx, fmt.Sprintf(redisx.KeyStatsRevenue, day), p.Total).Err(); err != nil {
		return err
	}

	s.Log.Debug().Str("order_id", p.OrderID).Str("day", day).Msg("order counted")
	return nil
}
