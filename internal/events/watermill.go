package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// WatermillBus publishes dashboard events on an in-process watermill pub/sub.
type WatermillBus struct {
	pubsub *gochannel.GoChannel
	logger *slog.Logger
}

var (
	_ EventPublisher  = (*WatermillBus)(nil)
	_ EventSubscriber = (*WatermillBus)(nil)
)

func NewWatermillBus(logger *slog.Logger, buffer int64) *WatermillBus {
	if logger == nil {
		logger = slog.Default()
	}
	pubsub := gochannel.NewGoChannel(
		gochannel.Config{OutputChannelBuffer: buffer},
		watermill.NewSlogLogger(logger),
	)
	return &WatermillBus{pubsub: pubsub, logger: logger}
}

func (b *WatermillBus) Publish(ctx context.Context, event *Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("type", event.Type)
	msg.SetContext(ctx)

	if err := b.pubsub.Publish(TopicDashboard, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", event.Type, err)
	}
	return nil
}

func (b *WatermillBus) Subscribe(ctx context.Context) (<-chan *Event, error) {
	messages, err := b.pubsub.Subscribe(ctx, TopicDashboard)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe: %w", err)
	}

	out := make(chan *Event)
	go func() {
		defer close(out)
		for msg := range messages {
			var event Event
			if err := json.Unmarshal(msg.Payload, &event); err != nil {
				b.logger.Warn("Dropping malformed event", "message_id", msg.UUID, "error", err)
				msg.Ack()
				continue
			}
			select {
			case out <- &event:
				msg.Ack()
			case <-ctx.Done():
				msg.Nack()
				return
			}
		}
	}()
	return out, nil
}

func (b *WatermillBus) Close() error {
	return b.pubsub.Close()
}
