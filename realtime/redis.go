package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultRedisChannel = "eventhub:changes"

	outboxSize = 256
)

type envelope struct {
	Origin string `json:"origin"`
	Change Change `json:"change"`
}

// RedisBridge relays changes between instances over Redis pub/sub. Local
// changes are queued and published by Run; remote changes are delivered to
// the local hub only, so nothing loops.
type RedisBridge struct {
	client  *redis.Client
	hub     *Hub
	channel string
	origin  string
	outbox  chan Change
	logger  *slog.Logger
}

func NewRedisBridge(client *redis.Client, hub *Hub, logger *slog.Logger) *RedisBridge {
	if logger == nil {
		logger = slog.Default()
	}
	b := &RedisBridge{
		client:  client,
		hub:     hub,
		channel: DefaultRedisChannel,
		origin:  uuid.NewString(),
		outbox:  make(chan Change, outboxSize),
		logger:  logger,
	}
	hub.Forward(b.enqueue)
	return b
}

// enqueue runs inside database callbacks and must not block on Redis.
func (b *RedisBridge) enqueue(c Change) {
	select {
	case b.outbox <- c:
	default:
		b.logger.Warn("change outbox full, dropping change", "table", c.Table)
	}
}

// Run subscribes to the channel, publishes queued local changes and blocks
// until ctx is done. It may be called again after it returns; changes queued
// in between are published by the next call.
func (b *RedisBridge) Run(ctx context.Context) error {
	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}
	b.logger.Info("change feed bridged through redis", "channel", b.channel)

	msgs := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case c := <-b.outbox:
			if err := b.publish(ctx, c); err != nil {
				b.logger.Warn("failed to relay change", "table", c.Table, "error", err)
			}
		case msg, ok := <-msgs:
			if !ok {
				return nil
			}
			b.handle(msg.Payload)
		}
	}
}

func (b *RedisBridge) publish(ctx context.Context, c Change) error {
	payload, err := b.encode(c)
	if err != nil {
		return err
	}
	return b.client.Publish(ctx, b.channel, payload).Err()
}

func (b *RedisBridge) encode(c Change) ([]byte, error) {
	return json.Marshal(envelope{Origin: b.origin, Change: c})
}

func (b *RedisBridge) handle(payload string) {
	var env envelope
	if err := json.Unmarshal([]byte(payload), &env); err != nil {
		b.logger.Warn("dropping malformed change", "error", err)
		return
	}
	if env.Origin == b.origin || env.Change.Table == "" {
		return
	}
	b.hub.Deliver(env.Change)
}
