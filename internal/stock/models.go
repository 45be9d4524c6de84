package stock

type Record struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	// SalesCount accumulates requested units, not applied ones, so it keeps
	// counting past the point quantity hits zero.
	SalesCount int `json:"salesCount"`
}

// NextQuantity clamps a decrement at zero. An over-decrement is truncated,
// not rejected.
func NextQuantity(current, requested int) int {
	next := current - requested
	if next < 0 {
		return 0
	}
	return next
}
