package clients

import (
	"context"
	"net/http"
	"time"
)

type Stock struct {
	baseURL string
	http    *http.Client
}

func NewStock(baseURL string, timeout time.Duration) *Stock {
	return &Stock{baseURL: baseURL, http: newHTTPClient(timeout)}
}

type decreaseReq struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

func (c *Stock) Decrement(ctx context.Context, productID string, qty int) error {
	return postJSON(ctx, c.http, c.baseURL+"/api/stock/decrease", decreaseReq{
		ProductID: productID,
		Quantity:  qty,
	}, nil)
}
