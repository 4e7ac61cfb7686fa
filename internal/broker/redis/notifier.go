// Package redis fans report changes out across server instances over a
// Redis Pub/Sub channel.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"lostfound/internal/domain"
	"lostfound/internal/port"
)

const subscriberBuffer = 16

type notifier struct {
	client  *goredis.Client
	channel string
	logger  *zap.Logger
}

// NewNotifier creates a Redis Pub/Sub backed ChangeNotifier.
func NewNotifier(client *goredis.Client, channel string, logger *zap.Logger) port.ChangeNotifier {
	return &notifier{client: client, channel: channel, logger: logger}
}

func (n *notifier) Publish(ctx context.Context, change domain.ReportChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return fmt.Errorf("redisNotifier.Publish: encoding: %w", err)
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("redisNotifier.Publish: %w", err)
	}
	return nil
}

func (n *notifier) Subscribe(ctx context.Context) (<-chan domain.ReportChange, func(), error) {
	pubsub := n.client.Subscribe(ctx, n.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("redisNotifier.Subscribe: %w", err)
	}

	out := make(chan domain.ReportChange, subscriberBuffer)
	var once sync.Once
	cancel := func() {
		once.Do(func() { _ = pubsub.Close() })
	}

	go func() {
		defer close(out)
		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				cancel()
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var change domain.ReportChange
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					n.logger.Warn("dropping malformed report change", zap.Error(err))
					continue
				}
				select {
				case out <- change:
				default:
				}
			}
		}
	}()

	return out, cancel, nil
}
