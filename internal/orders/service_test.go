package orders

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veltmart/backend/internal/apperr"
	"github.com/veltmart/backend/internal/fanout"
)

// The real worker pool must satisfy the service's dispatcher seam.
var _ Dispatcher = (*fanout.Pool)(nil)

type memStore struct {
	orders map[string]Order
}

func newMemStore() *memStore { return &memStore{orders: map[string]Order{}} }

func (m *memStore) Create(_ context.Context, o *Order) error {
	m.orders[o.ID] = *o
	return nil
}

func (m *memStore) Get(_ context.Context, id string) (*Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &o, nil
}

func (m *memStore) ListForUser(_ context.Context, userID string) ([]Order, error) {
	var out []Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memStore) UpdateStatus(_ context.Context, id, status string) error {
	o, ok := m.orders[id]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	m.orders[id] = o
	return nil
}

type stubStock struct {
	err   error
	calls []struct {
		ProductID string
		Qty       int
	}
}

func (s *stubStock) Decrement(_ context.Context, productID string, qty int) error {
	s.calls = append(s.calls, struct {
		ProductID string
		Qty       int
	}{productID, qty})
	return s.err
}

type stubNotif struct {
	err      error
	messages []string
	users    []string
}

func (s *stubNotif) Create(_ context.Context, userID, message, _ string) error {
	s.users = append(s.users, userID)
	s.messages = append(s.messages, message)
	return s.err
}

// inlinePool runs dispatched tasks synchronously so tests observe side
// effects deterministically.
type inlinePool struct{ reject bool }

func (p *inlinePool) Dispatch(task func(ctx context.Context)) bool {
	if p.reject {
		return false
	}
	task(context.Background())
	return true
}

type fixture struct {
	store *memStore
	stock *stubStock
	notif *stubNotif
	pool  *inlinePool
	svc   *Service
}

func newFixture() *fixture {
	f := &fixture{
		store: newMemStore(),
		stock: &stubStock{},
		notif: &stubNotif{},
		pool:  &inlinePool{},
	}
	f.svc = NewService(f.store, f.stock, f.notif, f.pool, nil, "orders-test", zerolog.Nop())
	return f
}

func cart() CreateInput {
	return CreateInput{
		Items: []Line{
			{ProductID: "p1", ProductName: "Shirt", Price: 10, Quantity: 2, Size: "M", Color: "black"},
			{ProductID: "p2", ProductName: "Cap", Price: 5, Quantity: 1},
		},
		CustomerName:    "Ada",
		CustomerEmail:   "ada@example.com",
		ShippingAddress: "1 Loop Rd",
		ShippingPhone:   "555-0100",
	}
}

func TestCreateOrderTotal(t *testing.T) {
	f := newFixture()

	o, err := f.svc.CreateOrder(context.Background(), "u1", cart())
	require.NoError(t, err)

	assert.Equal(t, 25.0, o.Total)
	assert.Len(t, o.Items, 2)
	assert.Equal(t, StatusProcessing, o.Status)
	assert.True(t, strings.HasPrefix(o.Number, "ORD"))
	assert.Len(t, o.Number, len("ORD")+8)
	assert.NotEmpty(t, o.ID)
}

func TestCreateOrderValidation(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateOrder(context.Background(), "", cart())
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))

	_, err = f.svc.CreateOrder(context.Background(), "u1", CreateInput{})
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
}

func TestCreateOrderFansOut(t *testing.T) {
	f := newFixture()

	o, err := f.svc.CreateOrder(context.Background(), "u1", cart())
	require.NoError(t, err)

	require.Len(t, f.stock.calls, 2)
	assert.Equal(t, "p1", f.stock.calls[0].ProductID)
	assert.Equal(t, 2, f.stock.calls[0].Qty)
	assert.Equal(t, "p2", f.stock.calls[1].ProductID)
	assert.Equal(t, 1, f.stock.calls[1].Qty)

	require.Len(t, f.notif.messages, 1)
	assert.Equal(t, "u1", f.notif.users[0])
	assert.Contains(t, f.notif.messages[0], o.Number)
}

func TestCreateOrderSurvivesDownstreamFailure(t *testing.T) {
	// Both downstream services unreachable: the response is still a success
	// and the persisted order is fully queryable afterwards.
	f := newFixture()
	f.stock.err = errors.New("stock service unreachable")
	f.notif.err = errors.New("notification service unreachable")

	o, err := f.svc.CreateOrder(context.Background(), "u1", cart())
	require.NoError(t, err)

	got, err := f.svc.GetOrder(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, o.Total, got.Total)
	assert.Equal(t, o.Items, got.Items)
}

func TestCreateOrderSurvivesFullQueue(t *testing.T) {
	f := newFixture()
	f.pool.reject = true

	o, err := f.svc.CreateOrder(context.Background(), "u1", cart())
	require.NoError(t, err)
	assert.Empty(t, f.stock.calls, "rejected dispatch must not run side effects")

	_, err = f.svc.GetOrder(context.Background(), o.ID)
	require.NoError(t, err)
}

// countingStock and signalNotif are goroutine-safe variants of the stubs
// above, for tests where fulfilment runs on real pool workers.
type countingStock struct{ decrements atomic.Int32 }

func (s *countingStock) Decrement(_ context.Context, _ string, _ int) error {
	s.decrements.Add(1)
	return nil
}

type signalNotif struct{ done chan struct{} }

func (s *signalNotif) Create(_ context.Context, _, _, _ string) error {
	close(s.done)
	return nil
}

func TestCreateOrderFansOutThroughWorkerPool(t *testing.T) {
	stock := &countingStock{}
	notif := &signalNotif{done: make(chan struct{})}
	pool := fanout.NewPool(2, 8, zerolog.Nop())
	defer pool.Close()

	svc := NewService(newMemStore(), stock, notif, pool, nil, "orders-test", zerolog.Nop())

	_, err := svc.CreateOrder(context.Background(), "u1", cart())
	require.NoError(t, err)

	// The notification is created after all stock decrements in the same
	// task, so it doubles as the completion signal.
	select {
	case <-notif.done:
	case <-time.After(2 * time.Second):
		t.Fatal("fulfilment task never ran")
	}
	assert.Equal(t, int32(2), stock.decrements.Load())
}

func TestOrderRoundTripPreservesSnapshots(t *testing.T) {
	f := newFixture()
	in := cart()

	o, err := f.svc.CreateOrder(context.Background(), "u1", in)
	require.NoError(t, err)

	got, err := f.svc.GetOrder(context.Background(), o.ID)
	require.NoError(t, err)

	// Line snapshots come back exactly as submitted, independent of any
	// later catalog change.
	assert.Equal(t, in.Items, got.Items)
	assert.Equal(t, in.CustomerEmail, got.CustomerEmail)
	assert.Equal(t, in.ShippingAddress, got.ShippingAddress)
}

func TestUpdateStatusIsUnconditional(t *testing.T) {
	f := newFixture()
	o, err := f.svc.CreateOrder(context.Background(), "u1", cart())
	require.NoError(t, err)

	// No state machine: any caller-asserted string is written.
	require.NoError(t, f.svc.UpdateStatus(context.Background(), o.ID, "Banana"))
	got, err := f.svc.GetOrder(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Banana", got.Status)

	err = f.svc.UpdateStatus(context.Background(), "missing", StatusConfirmed)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	err = f.svc.UpdateStatus(context.Background(), o.ID, "")
	assert.True(t, apperr.Is(err, apperr.KindInvalidArgument))
}

func TestListForUser(t *testing.T) {
	f := newFixture()
	_, err := f.svc.CreateOrder(context.Background(), "u1", cart())
	require.NoError(t, err)
	_, err = f.svc.CreateOrder(context.Background(), "u2", cart())
	require.NoError(t, err)

	list, err := f.svc.ListForUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = f.svc.ListForUser(context.Background(), "")
	assert.True(t, apperr.Is(err, apperr.KindUnauthenticated))
}
