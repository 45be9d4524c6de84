package httpx

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veltmart/backend/internal/notifications"
	"github.com/veltmart/backend/internal/orders"
	"github.com/veltmart/backend/internal/stock"
	"github.com/veltmart/backend/internal/transactions"
)

// ---- in-memory fakes for the domain stores ----

type orderStore struct{ orders map[string]orders.Order }

func (m *orderStore) Create(_ context.Context, o *orders.Order) error {
	m.orders[o.ID] = *o
	return nil
}
func (m *orderStore) Get(_ context.Context, id string) (*orders.Order, error) {
	o, ok := m.orders[id]
	if !ok {
		return nil, orders.ErrNotFound
	}
	return &o, nil
}
func (m *orderStore) ListForUser(_ context.Context, userID string) ([]orders.Order, error) {
	var out []orders.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}
func (m *orderStore) UpdateStatus(_ context.Context, id, status string) error {
	o, ok := m.orders[id]
	if !ok {
		return orders.ErrNotFound
	}
	o.Status = status
	m.orders[id] = o
	return nil
}

type noopStock struct{}

func (noopStock) Decrement(context.Context, string, int) error { return nil }

type noopNotif struct{}

func (noopNotif) Create(context.Context, string, string, string) error { return nil }

type inlinePool struct{}

func (inlinePool) Dispatch(task func(ctx context.Context)) bool {
	task(context.Background())
	return true
}

type stockStore struct{ records map[string]stock.Record }

func (m *stockStore) Decrement(_ context.Context, productID string, qty int) (stock.Record, error) {
	rec, ok := m.records[productID]
	if !ok {
		return stock.Record{}, stock.ErrNotFound
	}
	rec.Quantity = stock.NextQuantity(rec.Quantity, qty)
	rec.SalesCount += qty
	m.records[productID] = rec
	return rec, nil
}
func (m *stockStore) Get(_ context.Context, productID string) (stock.Record, error) {
	rec, ok := m.records[productID]
	if !ok {
		return stock.Record{}, stock.ErrNotFound
	}
	return rec, nil
}
func (m *stockStore) Put(_ context.Context, productID string, qty int) (stock.Record, error) {
	rec := stock.Record{ProductID: productID, Quantity: qty}
	m.records[productID] = rec
	return rec, nil
}

type txStore struct{ consumed map[string]transactions.ConsumedTransaction }

func (m *txStore) InsertConsumed(_ context.Context, t transactions.ConsumedTransaction) error {
	if _, ok := m.consumed[t.Hash]; ok {
		return transactions.ErrAlreadyConsumed
	}
	m.consumed[t.Hash] = t
	return nil
}
func (m *txStore) IsConsumed(_ context.Context, hash string) (bool, error) {
	_, ok := m.consumed[hash]
	return ok, nil
}
func (m *txStore) ConsumedForUser(context.Context, string, int) ([]transactions.ConsumedTransaction, error) {
	return nil, nil
}
func (m *txStore) AppendHistory(context.Context, transactions.HistoryEntry) error { return nil }
func (m *txStore) HistoryForUser(context.Context, string, int) ([]transactions.HistoryEntry, error) {
	return nil, nil
}

type notifStore struct{ list []notifications.Notification }

func (m *notifStore) Insert(_ context.Context, n notifications.Notification) error {
	m.list = append(m.list, n)
	return nil
}
func (m *notifStore) ListForUser(_ context.Context, userID string) ([]notifications.Notification, error) {
	var out []notifications.Notification
	for _, n := range m.list {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	return out, nil
}
func (m *notifStore) MarkRead(_ context.Context, id string) error {
	for i := range m.list {
		if m.list[i].ID == id {
			m.list[i].Read = true
			return nil
		}
	}
	return notifications.ErrNotFound
}
func (m *notifStore) MarkAllRead(context.Context, string) error { return nil }

// ---- helpers ----

func newOrdersRouter() (*orderStore, http.Handler) {
	store := &orderStore{orders: map[string]orders.Order{}}
	svc := orders.NewService(store, noopStock{}, noopNotif{}, inlinePool{}, nil, "test", zerolog.Nop())
	r := NewRouter()
	(&OrdersHandler{Svc: svc}).Register(r)
	return store, r
}

func doJSON(t *testing.T, h http.Handler, method, path, body, userID string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(HeaderUserID, userID)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "every response carries the envelope")
	return rec, env
}

// ---- tests ----

func TestCreateOrderEndpoint(t *testing.T) {
	_, r := newOrdersRouter()

	body := `{"items":[{"productId":"p1","productName":"Shirt","price":10,"quantity":2},
	                    {"productId":"p2","productName":"Cap","price":5,"quantity":1}],
	          "customerName":"Ada","customerEmail":"ada@example.com",
	          "shippingAddress":"1 Loop Rd","shippingPhone":"555-0100"}`
	rec, env := doJSON(t, r, http.MethodPost, "/api/orders", body, "u1")

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)

	data, err := json.Marshal(env.Data)
	require.NoError(t, err)
	var o orders.Order
	require.NoError(t, json.Unmarshal(data, &o))
	assert.Equal(t, 25.0, o.Total)
	assert.Len(t, o.Items, 2)
	assert.Equal(t, orders.StatusProcessing, o.Status)
}

func TestCreateOrderRequiresUser(t *testing.T) {
	_, r := newOrdersRouter()

	rec, env := doJSON(t, r, http.MethodPost, "/api/orders", `{"items":[]}`, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
	assert.NotEmpty(t, env.Error)
}

func TestCreateOrderRejectsEmptyCart(t *testing.T) {
	_, r := newOrdersRouter()

	rec, env := doJSON(t, r, http.MethodPost, "/api/orders", `{"items":[]}`, "u1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
}

func TestUpdateStatusEndpoint(t *testing.T) {
	store, r := newOrdersRouter()
	store.orders["o1"] = orders.Order{ID: "o1", UserID: "u1", Status: orders.StatusProcessing}

	rec, env := doJSON(t, r, http.MethodPut, "/api/orders/o1/status", `{"status":"Confirmed"}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Equal(t, "Confirmed", store.orders["o1"].Status)

	rec, env = doJSON(t, r, http.MethodPut, "/api/orders/nope/status", `{"status":"Confirmed"}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestStockDecreaseEndpoint(t *testing.T) {
	store := &stockStore{records: map[string]stock.Record{
		"p1": {ProductID: "p1", Quantity: 5},
	}}
	r := NewRouter()
	(&StockHandler{Svc: stock.NewService(store, zerolog.Nop())}).Register(r)

	rec, env := doJSON(t, r, http.MethodPost, "/api/stock/decrease",
		`{"productId":"p1","quantity":8}`, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	data, _ := json.Marshal(env.Data)
	var resp struct {
		NewStock   int `json:"newStock"`
		SalesCount int `json:"salesCount"`
	}
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, 0, resp.NewStock, "over-decrement clamps at zero")
	assert.Equal(t, 8, resp.SalesCount)

	rec, env = doJSON(t, r, http.MethodPost, "/api/stock/decrease",
		`{"productId":"ghost","quantity":1}`, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.False(t, env.Success)
}

func TestMarkConsumedEndpoint(t *testing.T) {
	r := NewRouter()
	svc := transactions.NewService(&txStore{consumed: map[string]transactions.ConsumedTransaction{}}, nil, zerolog.Nop())
	(&TransactionsHandler{Svc: svc}).Register(r)

	body := `{"transactionHash":"0xabc","amount":"12.5"}`
	rec, env := doJSON(t, r, http.MethodPost, "/api/transactions/mark-consumed", body, "u1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	// Retry with a different amount: rejected, envelope preserved.
	body = `{"transactionHash":"0xabc","amount":"999"}`
	rec, env = doJSON(t, r, http.MethodPost, "/api/transactions/mark-consumed", body, "u2")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "already consumed")

	rec, env = doJSON(t, r, http.MethodGet, "/api/transactions/is-consumed/0xabc", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	data, _ := json.Marshal(env.Data)
	assert.JSONEq(t, `{"consumed":true}`, string(data))

	_, env = doJSON(t, r, http.MethodGet, "/api/transactions/is-consumed/0xother", "", "")
	data, _ = json.Marshal(env.Data)
	assert.JSONEq(t, `{"consumed":false}`, string(data))
}

func TestNotificationEndpoints(t *testing.T) {
	store := &notifStore{}
	r := NewRouter()
	(&NotificationsHandler{Svc: notifications.NewService(store, zerolog.Nop())}).Register(r)

	rec, env := doJSON(t, r, http.MethodPost, "/api/notifications",
		`{"userId":"u1","message":"Your order has shipped","type":"order"}`, "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)

	rec, env = doJSON(t, r, http.MethodGet, "/api/notifications", "", "u1")
	assert.Equal(t, http.StatusOK, rec.Code)
	data, _ := json.Marshal(env.Data)
	var list []notifications.Notification
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list, 1)
	assert.False(t, list[0].Read)

	rec, _ = doJSON(t, r, http.MethodPut, "/api/notifications/"+list[0].ID+"/read", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env = doJSON(t, r, http.MethodGet, "/api/notifications", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.Success)
}
