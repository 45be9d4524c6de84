package kafka

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishAfterCloseIsDropped(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "orders.events", 4, zerolog.Nop())
	p.Start()

	p.Close()
	p.WaitClosed()

	// Shutdown ordering is best-effort across goroutines; a late publish
	// must drop the event, not panic on the closed inbox.
	require.NotPanics(t, func() {
		p.Publish([]byte("k"), []byte("v"))
	})
}

func TestCloseIsIdempotent(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "orders.events", 4, zerolog.Nop())
	p.Start()

	require.NotPanics(t, func() {
		p.Close()
		p.Close()
	})
	p.WaitClosed()
}

func TestPublishNeverBlocksWhenInboxFull(t *testing.T) {
	// No drain goroutine: the second publish hits a full inbox and must
	// return immediately.
	p := NewProducer([]string{"localhost:9092"}, "orders.events", 1, zerolog.Nop())

	p.Publish([]byte("k1"), []byte("v1"))
	p.Publish([]byte("k2"), []byte("v2"))

	assert.Len(t, p.inbox, 1)
}
