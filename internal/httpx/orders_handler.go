package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/veltmart/backend/internal/orders"
	"github.com/veltmart/backend/internal/redisx"
)

type OrdersHandler struct {
	Svc   *orders.Service
	Redis *redis.Client
}

type createOrderReq struct {
	Items           []orders.Line `json:"items"`
	CustomerName    string        `json:"customerName"`
	CustomerEmail   string        `json:"customerEmail"`
	ShippingAddress string        `json:"shippingAddress"`
	ShippingPhone   string        `json:"shippingPhone"`
}

type updateStatusReq struct {
	Status string `json:"status"`
}

func (h *OrdersHandler) Register(r *chi.Mux) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(RequireUser)
			r.Post("/", h.createOrder)
			r.Get("/", h.listOrders)
		})
		r.Get("/{id}", h.getOrder)
		r.Put("/{id}/status", h.updateStatus)
	})
}

func (h *OrdersHandler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "invalid json")
		return
	}

	o, err := h.Svc.CreateOrder(r.Context(), UserID(r), orders.CreateInput{
		Items:           req.Items,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		ShippingAddress: req.ShippingAddress,
		ShippingPhone:   req.ShippingPhone,
	})
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusCreated, o)
}

func (h *OrdersHandler) getOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Read-through cache of the full order document. Status is the only
	// mutable field and updateStatus invalidates the key.
	key := fmt.Sprintf(redisx.KeyOrderStatus, id)
	if h.Redis != nil {
		if s, err := h.Redis.Get(r.Context(), key).Result(); err == nil && s != "" {
			WriteData(w, http.StatusOK, json.RawMessage(s))
			return
		}
	}

	o, err := h.Svc.GetOrder(r.Context(), id)
	if err != nil {
		WriteError(w, err)
		return
	}
	if h.Redis != nil {
		if b, err := json.Marshal(o); err == nil {
			_ = h.Redis.Set(r.Context(), key, b, redisx.TTLStatusCache).Err()
		}
	}
	WriteData(w, http.StatusOK, o)
}

func (h *OrdersHandler) listOrders(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.ListForUser(r.Context(), UserID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	if list == nil {
		list = []orders.Order{}
	}
	WriteData(w, http.StatusOK, list)
}

func (h *OrdersHandler) updateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req updateStatusReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "invalid json")
		return
	}

	if err := h.Svc.UpdateStatus(r.Context(), id, req.Status); err != nil {
		WriteError(w, err)
		return
	}
	if h.Redis != nil {
		_ = h.Redis.Del(r.Context(), fmt.Sprintf(redisx.KeyOrderStatus, id)).Err()
	}
	WriteMessage(w, http.StatusOK, "order status updated")
}
