package redisx

import "time"

const (
	// Cached order document: order_status:{order_id}. Invalidated when the
	// status, the one mutable field, is rewritten.
	KeyOrderStatus = "order_status:%s"

	// Positive cache for consumed payment hashes: consumed:{hash} -> "1".
	// Only ever set after a confirmed insert; a miss says nothing.
	KeyConsumed = "consumed:%s"

	// Dedup for event consumers: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Analytics counters: stats:orders:{yyyy-mm-dd} and stats:revenue:{yyyy-mm-dd}
	KeyStatsOrders  = "stats:orders:%s"
	KeyStatsRevenue = "stats:revenue:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLConsumed    = 24 * time.Hour
	TTLDedup       = 48 * time.Hour
)
