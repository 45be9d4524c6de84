package orders

import "time"

type Order struct {
	ID     string  `json:"id"`
	UserID string  `json:"userId"`
	Number string  `json:"orderNumber"`
	Status string  `json:"status"` // see status.go
	Total  float64 `json:"total"`

	// Contact/shipping snapshot copied at creation time. Later profile edits
	// never change a placed order.
	CustomerName    string `json:"customerName"`
	CustomerEmail   string `json:"customerEmail"`
	ShippingAddress string `json:"shippingAddress"`
	ShippingPhone   string `json:"shippingPhone"`

	Items     []Line    `json:"items"`
	CreatedAt time.Time `json:"createdAt"`
}

// Line is a snapshot of a cart row. Name and price are copied from the
// submitted cart, not looked up, so catalog edits never rewrite history.
type Line struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Size        string  `json:"size,omitempty"`
	Color       string  `json:"color,omitempty"`
}
