package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sifan077/LinkDesk/internal/app/model"
	"github.com/sifan077/LinkDesk/internal/app/repository"
	"go.uber.org/zap"
)

var errMalformedClick = errors.New("malformed click event")

const (
	clickFetchBatch   = 10
	clickFetchMaxWait = 5 * time.Second
)

// ClickConsumer drains click events from NATS JetStream into the click_events table.
type ClickConsumer struct {
	js     nats.JetStreamContext
	logger *zap.Logger
	repo   repository.ClickEventRepository
	done   chan struct{}
}

// NewClickConsumer creates a new click event consumer
func NewClickConsumer(js nats.JetStreamContext, logger *zap.Logger, repo repository.ClickEventRepository) *ClickConsumer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClickConsumer{js: js, logger: logger, repo: repo, done: make(chan struct{})}
}

// EnsureClickStream creates the click stream and durable consumer when missing.
func EnsureClickStream(js nats.JetStreamContext) error {
	if _, err := js.StreamInfo(model.ClickStreamName); err != nil {
		if !errors.Is(err, nats.ErrStreamNotFound) {
			return fmt.Errorf("stream info: %w", err)
		}
		if _, err := js.AddStream(&nats.StreamConfig{
			Name:     model.ClickStreamName,
			Subjects: []string{model.ClickStreamSubject},
			MaxBytes: model.ClickStreamMaxBytes,
		}); err != nil {
			return fmt.Errorf("failed to create stream: %w", err)
		}
	}

	if _, err := js.ConsumerInfo(model.ClickStreamName, model.ClickConsumerName); err != nil {
		if !errors.Is(err, nats.ErrConsumerNotFound) {
			return fmt.Errorf("consumer info: %w", err)
		}
		if _, err := js.AddConsumer(model.ClickStreamName, &nats.ConsumerConfig{
			Durable:   model.ClickConsumerName,
			AckPolicy: nats.AckExplicitPolicy,
		}); err != nil {
			return fmt.Errorf("failed to create consumer: %w", err)
		}
	}
	return nil
}

// Start subscribes and consumes in the background until ctx is cancelled.
func (c *ClickConsumer) Start(ctx context.Context) error {
	if err := EnsureClickStream(c.js); err != nil {
		return err
	}

	sub, err := c.js.PullSubscribe(model.ClickStreamSubject, model.ClickConsumerName, nats.Bind(model.ClickStreamName, model.ClickConsumerName))
	if err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}

	go c.consume(ctx, sub)
	return nil
}

// Done is closed once the consume loop has exited.
func (c *ClickConsumer) Done() <-chan struct{} {
	return c.done
}

func (c *ClickConsumer) consume(ctx context.Context, sub *nats.Subscription) {
	defer close(c.done)
	defer func() {
		if err := sub.Unsubscribe(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			c.logger.Warn("failed to unsubscribe click consumer", zap.Error(err))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("click consumer stopped")
			return
		default:
		}

		fetchCtx, cancel := context.WithTimeout(ctx, clickFetchMaxWait)
		msgs, err := sub.Fetch(clickFetchBatch, nats.Context(fetchCtx))
		cancel()
		if err != nil {
			if errors.Is(err, nats.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
				continue
			}
			c.logger.Error("failed to fetch messages", zap.Error(err))
			continue
		}

		for _, msg := range msgs {
			if err := c.Process(ctx, msg.Data); err != nil {
				c.logger.Error("failed to record click event", zap.Error(err))
				if errors.Is(err, errMalformedClick) {
					// Redelivery cannot fix a bad payload.
					_ = msg.Term()
				} else {
					_ = msg.Nak()
				}
				continue
			}
			_ = msg.Ack()
		}
	}
}

// Process decodes one message payload and stores the event.
func (c *ClickConsumer) Process(ctx context.Context, data []byte) error {
	var event model.ClickEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("%w: %v", errMalformedClick, err)
	}
	if event.ID == "" || event.ShortCode == "" {
		return fmt.Errorf("%w: missing id or short code", errMalformedClick)
	}

	if err := c.repo.Create(ctx, &event); err != nil {
		return fmt.Errorf("store click event %s: %w", event.ID, err)
	}

	c.logger.Debug("click event stored",
		zap.String("id", event.ID),
		zap.String("short_code", event.ShortCode),
		zap.Time("timestamp", event.Timestamp),
	)
	return nil
}
