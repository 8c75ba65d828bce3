package notify

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/vedant-dewangan/RegexFlow/internal/common"
	"github.com/vedant-dewangan/RegexFlow/internal/service"
)

// DefaultStream is the stream events are appended to when none is configured.
const DefaultStream = "regexflow:notifications"

// RedisConfig configures a RedisPublisher.
type RedisConfig struct {
	Addr     string
	Password string
	Stream   string
	Retry    service.RetryOptions
	DB       int
}

// RedisPublisher appends notification events to a Redis stream.
type RedisPublisher struct {
	client *redis.Client
	stream string
	retry  service.RetryOptions
}

// NewRedisPublisher creates a publisher for cfg.Addr.
func NewRedisPublisher(cfg RedisConfig) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	return NewRedisPublisherWithClient(client, cfg.Stream, cfg.Retry)
}

// NewRedisPublisherWithClient wraps an existing client.
func NewRedisPublisherWithClient(client *redis.Client, stream string, retry service.RetryOptions) *RedisPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisPublisher{client: client, stream: stream, retry: retry}
}

// Ping tests the Redis connection.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

// Publish appends event to the stream, retrying transient failures.
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"event_id":        event.ID,
			"action":          event.Action,
			"notification_id": strconv.FormatInt(event.NotificationID, 10),
			"message_id":      strconv.FormatInt(event.MessageID, 10),
			"sender_header":   event.SenderHeader,
			"sms_text":        event.SmsText,
			"requested_by":    strconv.FormatInt(event.RequestedBy, 10),
			"occurred_at":     event.OccurredAt.Format(time.RFC3339Nano),
		},
	}

	return common.WithRetry(ctx, func() error {
		if err := p.client.XAdd(ctx, args).Err(); err != nil {
			return &common.RetryableError{Err: fmt.Errorf("xadd %s: %w", p.stream, err), Retryable: ctx.Err() == nil}
		}
		return nil
	}, p.retry)
}

// Close closes the Redis connection.
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}
