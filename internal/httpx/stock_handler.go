package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veltmart/backend/internal/stock"
)

type StockHandler struct {
	Svc *stock.Service
}

type decreaseStockReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type putStockReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

type stockResp struct {
	NewStock   int `json:"newStock"`
	SalesCount int `json:"salesCount"`
}

func (h *StockHandler) Register(r *chi.Mux) {
	r.Route("/api/stock", func(r chi.Router) {
		r.Post("/decrease", h.decrease)
		r.Post("/", h.put)
		r.Get("/{productId}", h.get)
	})
}

func (h *StockHandler) decrease(w http.ResponseWriter, r *http.Request) {
	var req decreaseStockReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "invalid json")
		return
	}

	rec, err := h.Svc.Decrement(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusOK, stockResp{NewStock: rec.Quantity, SalesCount: rec.SalesCount})
}

func (h *StockHandler) put(w http.ResponseWriter, r *http.Request) {
	var req putStockReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "invalid json")
		return
	}

	rec, err := h.Svc.Put(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusOK, rec)
}

func (h *StockHandler) get(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Svc.Get(r.Context(), chi.URLParam(r, "productId"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusOK, rec)
}
