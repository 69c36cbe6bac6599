package bus

import (
	"context"
	"sync"

	"github.com/coffeecorner/queue/common/logger"
)

// Bus interface for message passing between the queue service and its displays
type Bus interface {
	Publish(ctx context.Context, topic string, key string, message []byte) error
	Subscribe(ctx context.Context, topic string, handler MessageHandler) error
	Close() error
}

// MessageHandler processes messages
type MessageHandler func(ctx context.Context, key string, value []byte) error

// Message represents a bus message
type Message struct {
	Topic string
	Key   string
	Value []byte
}

const subscriberBuffer = 1000

// MemoryBus is an in-process bus; every subscriber of a topic receives every message
type MemoryBus struct {
	topics map[string][]chan *Message
	closed bool
	mu     sync.RWMutex
	log    *logger.Logger
}

// NewMemoryBus creates a new in-memory bus
func NewMemoryBus(log *logger.Logger) *MemoryBus {
	return &MemoryBus{
		topics: make(map[string][]chan *Message),
		log:    log,
	}
}

// Publish publishes a message to every subscriber of a topic
func (b *MemoryBus) Publish(ctx context.Context, topic string, key string, message []byte) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		return nil
	}

	msg := &Message{
		Topic: topic,
		Key:   key,
		Value: message,
	}

	for _, ch := range b.topics[topic] {
		select {
		case ch <- msg:
		case <-ctx.Done():
			return ctx.Err()
		default:
			b.log.Warn("subscriber buffer full, dropping message", "topic", topic, "key", key)
		}
	}

	return nil
}

// Subscribe subscribes to a topic and processes messages until ctx is done
func (b *MemoryBus) Subscribe(ctx context.Context, topic string, handler MessageHandler) error {
	ch := make(chan *Message, subscriberBuffer)

	b.mu.Lock()
	b.topics[topic] = append(b.topics[topic], ch)
	b.mu.Unlock()

	b.log.Info("subscribing to topic", "topic", topic)

	go func() {
		for {
			select {
			case <-ctx.Done():
				b.log.Info("subscription cancelled", "topic", topic)
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if err := handler(ctx, msg.Key, msg.Value); err != nil {
					b.log.Error("message handler error", "topic", topic, "key", msg.Key, "error", err)
				}
			}
		}
	}()

	return nil
}

// Close closes every subscription channel
func (b *MemoryBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true

	for topic, subs := range b.topics {
		for _, ch := range subs {
			close(ch)
		}
		b.log.Info("closed topic", "topic", topic)
	}

	return nil
}
