package display

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/coffeecorner/queue/cmd/queue-service/models"
	"github.com/coffeecorner/queue/common/bus"
	"github.com/coffeecorner/queue/common/logger"
)

// Subscriber forwards display messages from the bus to the hub
type Subscriber struct {
	bus   bus.Bus
	hub   *Hub
	topic string
	log   *logger.Logger
}

// NewSubscriber creates a subscriber for topic
func NewSubscriber(b bus.Bus, hub *Hub, topic string, log *logger.Logger) *Subscriber {
	return &Subscriber{
		bus:   b,
		hub:   hub,
		topic: topic,
		log:   log.WithComponent("display_subscriber"),
	}
}

// Start subscribes to the topic; delivery stops when ctx is done
func (s *Subscriber) Start(ctx context.Context) error {
	if err := s.bus.Subscribe(ctx, s.topic, s.handle); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", s.topic, err)
	}
	s.log.Info("display subscriber started", "topic", s.topic)
	return nil
}

// handle routes a message to the board of its queue type
func (s *Subscriber) handle(ctx context.Context, key string, value []byte) error {
	var msg models.DisplayMessage
	if err := json.Unmarshal(value, &msg); err != nil {
		return fmt.Errorf("invalid display message %s: %w", key, err)
	}

	return s.hub.Broadcast(ctx, &Message{
		Board: msg.QueueType.String(),
		Data:  value,
	})
}
