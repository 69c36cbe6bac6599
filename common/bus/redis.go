package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/coffeecorner/queue/common/logger"
	rediscommon "github.com/coffeecorner/queue/common/redis"
	"github.com/redis/go-redis/v9"
)

// envelope carries the message key across Redis pub/sub
type envelope struct {
	Key   string `json:"key"`
	Value []byte `json:"value"`
}

// RedisBus fans messages out through Redis pub/sub so several service
// instances can drive the same displays
type RedisBus struct {
	client *rediscommon.Client
	prefix string
	log    *logger.Logger

	mu   sync.Mutex
	subs []*redis.PubSub
}

// NewRedisBus creates a bus on top of the shared Redis client
func NewRedisBus(client *rediscommon.Client, prefix string, log *logger.Logger) *RedisBus {
	return &RedisBus{
		client: client,
		prefix: prefix,
		log:    log,
	}
}

func (b *RedisBus) channel(topic string) string {
	return fmt.Sprintf("%s:%s", b.prefix, topic)
}

// Publish publishes a message to the topic's Redis channel
func (b *RedisBus) Publish(ctx context.Context, topic string, key string, message []byte) error {
	payload, err := json.Marshal(envelope{Key: key, Value: message})
	if err != nil {
		return fmt.Errorf("failed to encode message: %w", err)
	}
	return b.client.PublishEvent(ctx, b.channel(topic), string(payload))
}

// Subscribe subscribes to the topic's Redis channel
func (b *RedisBus) Subscribe(ctx context.Context, topic string, handler MessageHandler) error {
	pubsub, err := b.client.Subscribe(ctx, b.channel(topic))
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.subs = append(b.subs, pubsub)
	b.mu.Unlock()

	b.log.Info("subscribing to redis channel", "channel", b.channel(topic))

	go func() {
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				b.log.Info("redis subscription cancelled", "topic", topic)
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var env envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					b.log.Warn("invalid bus payload", "channel", msg.Channel, "error", err)
					continue
				}

				if err := handler(ctx, env.Key, env.Value); err != nil {
					b.log.Error("message handler error", "topic", topic, "key", env.Key, "error", err)
				}
			}
		}
	}()

	return nil
}

// Close closes all subscriptions
func (b *RedisBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var firstErr error
	for _, sub := range b.subs {
		if err := sub.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	b.subs = nil
	return firstErr
}
