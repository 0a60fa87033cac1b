// Package pubsub bridges cross-process state updates over Redis channels.
// Other services (the web frontend, score submission) publish JSON deltas;
// the consumer loop applies them to live sessions through registered
// handlers, and the server publishes its own deltas the same way.
package pubsub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/hikariosu/hikari/internal/metrics"
)

// Handler applies one decoded topic payload.
type Handler func(ctx context.Context, payload []byte)

// Bus is a Redis pub/sub endpoint with a topic handler registry.
type Bus struct {
	rdb      *redis.Client
	handlers map[string]Handler
}

// New returns a Bus over an already connected client.
func New(rdb *redis.Client) *Bus {
	return &Bus{rdb: rdb, handlers: make(map[string]Handler)}
}

// Handle registers a handler for one topic. Registration must finish before
// Listen starts; the registry is not locked.
func (b *Bus) Handle(topic string, h Handler) {
	b.handlers[topic] = h
}

// Publish marshals payload to JSON and publishes it on topic.
func (b *Bus) Publish(ctx context.Context, topic string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding %s payload: %w", topic, err)
	}
	if err := b.rdb.Publish(ctx, topic, data).Err(); err != nil {
		return fmt.Errorf("publishing to %s: %w", topic, err)
	}
	return nil
}

// Listen subscribes to every registered topic and dispatches messages until
// ctx is cancelled. It polls with a one second timeout so shutdown is never
// blocked longer than that.
func (b *Bus) Listen(ctx context.Context) error {
	topics := make([]string, 0, len(b.handlers))
	for topic := range b.handlers {
		topics = append(topics, topic)
	}

	sub := b.rdb.Subscribe(ctx, topics...)
	defer sub.Close()

	slog.Info("pubsub consumer started", "topics", len(topics))

	for {
		msg, err := sub.ReceiveTimeout(ctx, time.Second)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				continue
			}
			return fmt.Errorf("receiving pubsub message: %w", err)
		}

		if m, ok := msg.(*redis.Message); ok {
			if h := b.handlers[m.Channel]; h != nil {
				metrics.PubsubMessages.WithLabelValues(m.Channel).Inc()
				h(ctx, []byte(m.Payload))
			} else {
				slog.Warn("pubsub message on unhandled topic", "topic", m.Channel)
			}
		}

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}
}
