// Package realtime fans committed events out to live subscribers over Redis pub/sub.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/letzcode/letzcode-server/internal/domain/activity"
	"github.com/letzcode/letzcode-server/internal/domain/notification"
	"github.com/redis/go-redis/v9"
)

const defaultPrefix = "letzcode:"

// Bus publishes notification and activity events to Redis channels
type Bus struct {
	client *redis.Client
	prefix string
}

// NewBus connects to redisURL and verifies the connection
func NewBus(redisURL string) (*Bus, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewBusWithClient(client), nil
}

// NewBusWithClient creates a bus from an existing Redis client
func NewBusWithClient(client *redis.Client) *Bus {
	return &Bus{client: client, prefix: defaultPrefix}
}

// NotificationChannel is the channel carrying one recipient's notifications
func (b *Bus) NotificationChannel(recipientID string) string {
	return b.prefix + "notifications:" + recipientID
}

// ActivityChannel is the channel carrying every ledger entry
func (b *Bus) ActivityChannel() string {
	return b.prefix + "activity"
}

// PublishNotification sends n to its recipient's channel
func (b *Bus) PublishNotification(ctx context.Context, n notification.Notification) error {
	return b.publish(ctx, b.NotificationChannel(n.RecipientID), n)
}

// PublishActivity sends entry to the activity channel
func (b *Bus) PublishActivity(ctx context.Context, entry activity.Entry) error {
	return b.publish(ctx, b.ActivityChannel(), entry)
}

func (b *Bus) publish(ctx context.Context, channel string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := b.client.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish to %s: %w", channel, err)
	}
	return nil
}

// Subscription delivers raw JSON payloads from one or more channels
type Subscription struct {
	pubsub *redis.PubSub
	events chan []byte
}

// Subscribe listens on channels until ctx is done or Close is called.
// The subscription is confirmed before Subscribe returns.
func (b *Bus) Subscribe(ctx context.Context, channels ...string) (*Subscription, error) {
	pubsub := b.client.Subscribe(ctx, channels...)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	sub := &Subscription{pubsub: pubsub, events: make(chan []byte, 16)}
	go sub.pump(ctx)
	return sub, nil
}

func (s *Subscription) pump(ctx context.Context) {
	defer close(s.events)
	ch := s.pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			select {
			case s.events <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}
}

// Events yields payloads in publish order. It is closed when the
// subscription ends.
func (s *Subscription) Events() <-chan []byte {
	return s.events
}

// Close ends the subscription
func (s *Subscription) Close() error {
	return s.pubsub.Close()
}

// Ping checks connectivity
func (b *Bus) Ping(ctx context.Context) error {
	return b.client.Ping(ctx).Err()
}

// Close closes the Redis client
func (b *Bus) Close() error {
	return b.client.Close()
}
