package orders

import (
	"fmt"
	"time"
)

// NumberAt derives the human order number from the wall clock: "ORD" plus
// the last 8 digits of epoch millis. Not guaranteed unique under concurrent
// creation or clock resets; kept as the storefront's customers know it.
func NumberAt(t time.Time) string {
	ms := fmt.Sprintf("%d", t.UnixMilli())
	if len(ms) > 8 {
		ms = ms[len(ms)-8:]
	}
	return "ORD" + ms
}
