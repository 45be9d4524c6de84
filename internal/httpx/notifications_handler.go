package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/veltmart/backend/internal/notifications"
)

type NotificationsHandler struct {
	Svc *notifications.Service
}

type createNotificationReq struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (h *NotificationsHandler) Register(r *chi.Mux) {
	r.Route("/api/notifications", func(r chi.Router) {
		// Creation is open to internal callers; the order service posts here
		// without a user identity of its own.
		r.Post("/", h.create)
		r.Put("/{id}/read", h.markRead)
		r.Group(func(r chi.Router) {
			r.Use(RequireUser)
			r.Get("/", h.list)
			r.Put("/read-all", h.markAllRead)
		})
	})
}

func (h *NotificationsHandler) create(w http.ResponseWriter, r *http.Request) {
	var req createNotificationReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteBadRequest(w, "invalid json")
		return
	}

	n, err := h.Svc.Create(r.Context(), req.UserID, req.Message, req.Type)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteData(w, http.StatusCreated, n)
}

func (h *NotificationsHandler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.Svc.ListForUser(r.Context(), UserID(r))
	if err != nil {
		WriteError(w, err)
		return
	}
	if list == nil {
		list = []notifications.Notification{}
	}
	WriteData(w, http.StatusOK, list)
}

func (h *NotificationsHandler) markRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		WriteError(w, err)
		return
	}
	WriteMessage(w, http.StatusOK, "notification marked read")
}

func (h *NotificationsHandler) markAllRead(w http.ResponseWriter, r *http.Request) {
	if err := h.Svc.MarkAllRead(r.Context(), UserID(r)); err != nil {
		WriteError(w, err)
		return
	}
	WriteMessage(w, http.StatusOK, "all notifications marked read")
}
