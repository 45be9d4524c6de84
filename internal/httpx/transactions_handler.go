package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/veltmart/backend/internal/transactions"
)

type TransactionsHandler struct {
	Svc *transactions.Service
}

type markConsumedReq struct {
	Hash      string          `json:"transactionHash"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"`
}

type saveHistoryReq struct {
	Hash   string          `json:"transactionHash"`
	Type   string          `json:"type"`
	Amount decimal.Decimal `json:"amount"`
}

type consumedResp struct {
	Consumed bool `json:"consumed"`
}

func (h *TransactionsHandler) Register(r *chi.Mux) {
	r.Route("/api/transactions", func(r chi.Router) {
		r.Get("/is-consumed/{hash}", h.isConsumed)
		r.Group(func(r chi.Router) {
			r.Use(RequireUser)
			r.Post("/mark-consumed", h.markConsumed)
			r.Get("/consumed", h.consumedHistory)
			r.Post("/history", h.saveHistory)
			r.Get("/history", h.listHistory)
		})
	})
}

func (h *TransactionsHandler) markConsumed(w http.ResponseWriter, r *http.Request) {
	var req markConsumedReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "invalid json")
		return
	}

	err := h.Svc.MarkConsumed(r.Context(), UserID(r), req.Hash, req.Amount, req.Timestamp)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteMessage(w, http.StatusOK, "transaction marked consumed")
}

func (h *TransactionsHandler) isConsumed(w http.ResponseWriter, r *http.Request) {
	consumed, err := h.Svc.IsConsumed(r.Context(), chi.URLParam(r, "hash"))
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusOK, consumedResp{Consumed: consumed})
}

func (h *TransactionsHandler) consumedHistory(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.ConsumedForUser(r.Context(), UserID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	if list == nil {
		list = []transactions.ConsumedTransaction{}
	}
	WriteData(w, http.StatusOK, list)
}

func (h *TransactionsHandler) saveHistory(w http.ResponseWriter, r *http.Request) {
	var req saveHistoryReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "invalid json")
		return
	}

	e, err := h.Svc.SaveHistory(r.Context(), UserID(r), req.Hash, req.Type, req.Amount)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusCreated, e)
}

func (h *TransactionsHandler) listHistory(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.HistoryForUser(r.Context(), UserID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	if list == nil {
		list = []transactions.HistoryEntry{}
	}
	WriteData(w, http.StatusOK, list)
}
