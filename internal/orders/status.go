package orders

// Statuses are free-form strings in storage; these are the values the
// storefront knows about. UpdateStatus does not validate transitions, any
// string a caller asserts is written as-is.
const (
	StatusProcessing = "Processing"
	StatusConfirmed  = "Confirmed"
	StatusShipped    = "Shipped"
	StatusDelivered  = "Delivered"
	StatusCancelled  = "Cancelled"
)
