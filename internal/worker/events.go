package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/saadmalik-333/business-insight-pos/internal/dto"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	EventChannelPrefix = "pos:events:"
	EventChannelAll    = EventChannelPrefix + "all"
)

// EventBus publishes sale events on Redis pub/sub. Every event goes to its
// typed channel (pos:events:sale.completed) and to pos:events:all.
type EventBus struct {
	rdb *redis.Client
}

func NewEventBus(rdb *redis.Client) *EventBus { return &EventBus{rdb: rdb} }

func (b *EventBus) PublishSaleEvent(ctx context.Context, ev dto.SaleEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.rdb.Publish(ctx, EventChannelPrefix+ev.Type, data).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	if err := b.rdb.Publish(ctx, EventChannelAll, data).Err(); err != nil {
		return fmt.Errorf("failed to publish to all channel: %w", err)
	}
	return nil
}

// Subscribe streams every sale event until ctx is cancelled or the returned
// close func is called. Malformed messages are logged and skipped.
func (b *EventBus) Subscribe(ctx context.Context) (<-chan dto.SaleEvent, func() error, error) {
	pubsub := b.rdb.Subscribe(ctx, EventChannelAll)
	// Wait for the subscription confirmation so callers know they are live.
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, err
	}

	out := make(chan dto.SaleEvent, 16)
	go func() {
		defer close(out)
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				ev, err := decodeSaleEvent(msg.Payload)
				if err != nil {
					log.Warn().Err(err).Str("channel", msg.Channel).Msg("events: dropping malformed message")
					continue
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, pubsub.Close, nil
}

func decodeSaleEvent(payload string) (dto.SaleEvent, error) {
	var ev dto.SaleEvent
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return ev, err
	}
	if ev.Type == "" || ev.SaleID == "" {
		return ev, fmt.Errorf("event missing type or sale_id")
	}
	return ev, nil
}
