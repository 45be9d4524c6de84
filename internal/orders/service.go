package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/veltmart/backend/internal/apperr"
	kafkax "github.com/veltmart/backend/internal/kafka"
)

// Store is what the orchestrator needs from order persistence.
type Store interface {
	Create(ctx context.Context, o *Order) error
	Get(ctx context.Context, id string) (*Order, error)
	ListForUser(ctx context.Context, userID string) ([]Order, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// StockClient decrements stock in the stock service.
type StockClient interface {
	Decrement(ctx context.Context, productID string, qty int) error
}

// NotificationClient creates a notification in the notification service.
type NotificationClient interface {
	Create(ctx context.Context, userID, message, typ string) error
}

// Dispatcher runs a task on a background worker. Dispatch reports whether
// the task was accepted; it must never block the request path.
type Dispatcher interface {
	Dispatch(task func(ctx context.Context)) bool
}

// EventPublisher mirrors order lifecycle events to the event stream.
type EventPublisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

type CreateInput struct {
	Items           []Line
	CustomerName    string
	CustomerEmail   string
	ShippingAddress string
	ShippingPhone   string
}

// Service orchestrates order intake: persist the order durably, answer the
// caller, then fan out stock decrement and the confirmation notification as
// best-effort background work. Downstream failures are logged and swallowed;
// the accepted order is the only thing the customer-visible success covers.
type Service struct {
	store  Store
	stock  StockClient
	notif  NotificationClient
	pool   Dispatcher
	events EventPublisher // optional
	name   string
	log    zerolog.Logger
	now    func() time.Time
}

func NewService(store Store, stock StockClient, notif NotificationClient, pool Dispatcher, events EventPublisher, name string, log zerolog.Logger) *Service {
	return &Service{
		store:  store,
		stock:  stock,
		notif:  notif,
		pool:   pool,
		events: events,
		name:   name,
		log:    log,
		now:    time.Now,
	}
}

func (s *Service) CreateOrder(ctx context.Context, userID string, in CreateInput) (*Order, error) {
	if userID == "" {
		return nil, apperr.New(apperr.KindUnauthenticated, "missing user id")
	}
	if len(in.Items) == 0 {
		return nil, apperr.New(apperr.KindInvalidArgument, "order has no items")
	}

	now := s.now().UTC()
	// Total is computed once from the submitted lines. Current catalog price
	// and stock level are deliberately not consulted here.
	var total float64
	for _, it := range in.Items {
		total += it.Price * float64(it.Quantity)
	}

	o := &Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Number:          NumberAt(now),
		Status:          StatusProcessing,
		Total:           total,
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		ShippingAddress: in.ShippingAddress,
		ShippingPhone:   in.ShippingPhone,
		Items:           in.Items,
		CreatedAt:       now,
	}

	if err := s.store.Create(ctx, o); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "persist order", err)
	}

	// The order is durable; everything below is best-effort and must not
	// affect the response.
	if ok := s.pool.Dispatch(func(ctx context.Context) { s.fulfill(ctx, o) }); !ok {
		s.log.Warn().Str("order_id", o.ID).Msg("fanout queue full, side effects skipped")
	}
	s.publishCreated(o)

	return o, nil
}

// fulfill runs on a background worker with its own context: a canceled
// client request does not unwind already-dispatched side effects.
func (s *Service) fulfill(ctx context.Context, o *Order) {
	for _, it := range o.Items {
		if err := s.stock.Decrement(ctx, it.ProductID, it.Quantity); err != nil {
			s.log.Warn().Err(err).
				Str("order_id", o.ID).
				Str("product_id", it.ProductID).
				Msg("stock decrement failed")
		}
	}

	msg := fmt.Sprintf("Your order %s has been placed and is being processed.", o.Number)
	if err := s.notif.Create(ctx, o.UserID, msg, "order"); err != nil {
		s.log.Warn().Err(err).Str("order_id", o.ID).Msg("order notification failed")
	}
}

func (s *Service) GetOrder(ctx context.Context, id string) (*Order, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]Order, error) {
	if userID == "" {
		return nil, apperr.New(apperr.KindUnauthenticated, "missing user id")
	}
	return s.store.ListForUser(ctx, userID)
}

// UpdateStatus writes the status unconditionally. No state machine and no
// caller check; the exposure is documented, not fixed here.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) error {
	if status == "" {
		return apperr.New(apperr.KindInvalidArgument, "missing status")
	}
	if err := s.store.UpdateStatus(ctx, id, status); err != nil {
		return err
	}
	s.publishStatusChanged(id, status)
	return nil
}

func (s *Service) publishCreated(o *Order) {
	if s.events == nil {
		return
	}
	items := make([]LineQty, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, LineQty{ProductID: it.ProductID, Qty: it.Quantity})
	}
	s.publish(o.ID, EventOrderCreated, OrderCreatedPayload{
		OrderID: o.ID, Number: o.Number, UserID: o.UserID, Items: items, Total: o.Total,
	})
}

func (s *Service) publishStatusChanged(orderID, status string) {
	if s.events == nil {
		return
	}
	s.publish(orderID, EventOrderStatusChanged, OrderStatusChangedPayload{OrderID: orderID, Status: status})
}

func (s *Service) publish(orderID, eventType string, payload any) {
	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    s.now().UTC(),
		Producer:      s.name,
		CorrelationID: orderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	s.events.Publish(PartitionKey(orderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
