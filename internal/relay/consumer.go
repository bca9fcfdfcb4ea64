package relay

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sennaseo/BOINDANG-sub000/internal/domain"
	"github.com/sennaseo/BOINDANG-sub000/internal/metrics"
)

// Recorder persists one decision event. Record must be idempotent on
// (CampaignID, UserID); it reports whether the event was recorded for the
// first time.
type Recorder interface {
	Record(ctx context.Context, ev domain.DecisionEvent) (bool, error)
}

type fetcher interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}

type ConsumerConfig struct {
	Brokers         []string
	Topic           string
	GroupID         string
	DeadLetterTopic string
	MaxAttempts     int
	RetryDelay      time.Duration
}

// Consumer drains decision events and reconciles them into the durable
// ledger. Messages are committed only after handling, so a crash mid-batch
// redelivers; the Recorder's idempotency absorbs the duplicates.
type Consumer struct {
	reader      fetcher
	deadLetters messageWriter
	recorder    Recorder
	logger      *slog.Logger
	maxAttempts int
	retryDelay  time.Duration
	closers     []func() error
}

func NewConsumer(cfg ConsumerConfig, rec Recorder, logger *slog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
		GroupID: cfg.GroupID,
	})
	c := &Consumer{
		reader:      reader,
		recorder:    rec,
		logger:      logger,
		maxAttempts: cfg.MaxAttempts,
		retryDelay:  cfg.RetryDelay,
		closers:     []func() error{reader.Close},
	}
	if cfg.DeadLetterTopic != "" {
		dlw := &kafka.Writer{
			Addr:  kafka.TCP(cfg.Brokers...),
			Topic: cfg.DeadLetterTopic,
		}
		c.deadLetters = dlw
		c.closers = append(c.closers, dlw.Close)
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = 1
	}
	return c
}

// Run consumes until the context is cancelled or the reader is closed.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		c.handle(ctx, msg)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("commit decision event", "offset", msg.Offset, "error", err)
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg kafka.Message) {
	var ev domain.DecisionEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		// Poison message: route aside instead of blocking the partition.
		c.logger.Error("malformed decision event", "offset", msg.Offset, "error", err)
		c.deadLetter(ctx, msg)
		return
	}

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		created, err := c.recorder.Record(ctx, ev)
		if err == nil {
			if created {
				metrics.Reconciled.WithLabelValues(metrics.ResultRecorded).Inc()
			} else {
				metrics.Reconciled.WithLabelValues(metrics.ResultDuplicate).Inc()
				c.logger.Debug("duplicate decision event",
					"campaign_id", ev.CampaignID, "user_id", ev.UserID)
			}
			return
		}

		metrics.Reconciled.WithLabelValues(metrics.ResultError).Inc()
		c.logger.Warn("record decision event",
			"campaign_id", ev.CampaignID, "user_id", ev.UserID,
			"attempt", attempt, "error", err)

		if attempt < c.maxAttempts {
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.retryDelay):
			}
		}
	}

	c.deadLetter(ctx, msg)
}

func (c *Consumer) deadLetter(ctx context.Context, msg kafka.Message) {
	metrics.DeadLetters.Inc()
	if c.deadLetters == nil {
		c.logger.Error("dropping decision event, no dead-letter topic",
			"offset", msg.Offset)
		return
	}
	dead := kafka.Message{Key: msg.Key, Value: msg.Value}
	if err := c.deadLetters.WriteMessages(ctx, dead); err != nil {
		c.logger.Error("write dead letter", "offset", msg.Offset, "error", err)
	}
}

func (c *Consumer) Close() error {
	var firstErr error
	for _, fn := range c.closers {
		if err := fn(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
