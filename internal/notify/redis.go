package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RedisSink publishes encoded events to a Redis channel so every instance can relay them
type RedisSink struct {
	client  *redis.Client
	channel string
}

// NewRedisSink creates a sink publishing to channel
func NewRedisSink(client *redis.Client, channel string) *RedisSink {
	return &RedisSink{client: client, channel: channel}
}

func (s *RedisSink) Publish(ctx context.Context, event Event) error {
	data, err := Encode(event)
	if err != nil {
		return err
	}
	if err := s.client.Publish(ctx, s.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish %s to redis: %w", event.Name(), err)
	}
	return nil
}

// Broadcaster writes an encoded event to local subscribers
type Broadcaster interface {
	Broadcast(threadID uuid.UUID, data []byte)
}

// RedisRelay subscribes to the event channel and hands every message to a local Broadcaster
type RedisRelay struct {
	client  *redis.Client
	channel string
	target  Broadcaster
	logger  *zap.Logger

	pubsub   *redis.PubSub
	done     chan struct{}
	stopOnce sync.Once
}

// NewRedisRelay creates a relay; call Start to subscribe
func NewRedisRelay(client *redis.Client, channel string, target Broadcaster, logger *zap.Logger) *RedisRelay {
	return &RedisRelay{
		client:  client,
		channel: channel,
		target:  target,
		logger:  logger,
		done:    make(chan struct{}),
	}
}

// Start subscribes and relays in a background goroutine
func (r *RedisRelay) Start(ctx context.Context) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	// Receive waits for the subscription confirmation
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return fmt.Errorf("failed to subscribe to %s: %w", r.channel, err)
	}
	r.pubsub = pubsub

	go func() {
		defer close(r.done)
		for msg := range pubsub.Channel() {
			r.handle(msg.Payload)
		}
	}()

	r.logger.Info("Relaying notifications from redis", zap.String("channel", r.channel))
	return nil
}

func (r *RedisRelay) handle(payload string) {
	_, threadID, err := Decode([]byte(payload))
	if err != nil {
		r.logger.Warn("Ignoring malformed notification", zap.Error(err))
		return
	}
	r.target.Broadcast(threadID, []byte(payload))
}

// Stop unsubscribes and waits for the relay goroutine
func (r *RedisRelay) Stop() {
	r.stopOnce.Do(func() {
		if r.pubsub == nil {
			close(r.done)
			return
		}
		_ = r.pubsub.Close()
		<-r.done
	})
}
