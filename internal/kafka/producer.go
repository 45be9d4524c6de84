package kafka

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// Producer publishes through a bounded inbox drained by one goroutine.
// Publishing is fire-and-forget: a full inbox drops the message and a write
// failure is logged and swallowed. Nothing in the request path may depend on
// a publish having happened.
type Producer struct {
	w       *kafka.Writer
	log     zerolog.Logger
	inbox   chan kafka.Message
	closeCh chan struct{}

	mu     sync.Mutex
	closed bool
}

func NewProducer(brokers []string, topic string, buf int, log zerolog.Logger) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireAll,
			Async:        true,
		},
		log:     log.With().Str("topic", topic).Logger(),
		inbox:   make(chan kafka.Message, buf),
		closeCh: make(chan struct{}),
	}
}

// Start drains the inbox until Close is called, then flushes and exits.
func (p *Producer) Start() {
	go func() {
		for m := range p.inbox {
			if err := p.w.WriteMessages(context.Background(), m); err != nil {
				p.log.Warn().Err(err).Msg("event publish failed, dropping")
			}
		}
		_ = p.w.Close()
		close(p.closeCh)
	}()
}

// Publish enqueues a message. A full or closed inbox drops it rather than
// blocking the caller; the event stream is informational only.
func (p *Producer) Publish(key, value []byte, headers ...kafka.Header) {
	m := kafka.Message{Key: key, Value: value, Time: time.Now(), Headers: headers}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		p.log.Warn().Msg("producer closed, dropping event")
		return
	}
	select {
	case p.inbox <- m:
	default:
		p.log.Warn().Msg("producer inbox full, dropping event")
	}
}

// Close the inbox so the drain goroutine flushes what is queued and exits.
// Idempotent; publishes racing with Close are dropped.
func (p *Producer) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.inbox)
}

func (p *Producer) WaitClosed() { <-p.closeCh }
