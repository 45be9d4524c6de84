package clients

import (
	"context"
	"net/http"
	"time"
)

type Notifications struct {
	baseURL string
	http    *http.Client
}

func NewNotifications(baseURL string, timeout time.Duration) *Notifications {
	return &Notifications{baseURL: baseURL, http: newHTTPClient(timeout)}
}

type createNotificationReq struct {
	UserID  string `json:"userId"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (c *Notifications) Create(ctx context.Context, userID, message, typ string) error {
	return postJSON(ctx, c.http, c.baseURL+"/api/notifications", createNotificationReq{
		UserID:  userID,
		Message: message,
		Type:    typ,
	}, nil)
}
