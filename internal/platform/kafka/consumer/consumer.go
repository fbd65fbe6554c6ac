// Package consumer runs a Kafka consumer group with per-record retries and a
// dead-letter topic for records that keep failing.
package consumer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"claimdocs/internal/platform/kafka"
)

// Message is a consumed record.
type Message struct {
	Topic     string
	Partition int32
	Offset    int64
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Timestamp time.Time
	Attempt   int
}

// Handler processes one message. A nil error commits it.
type Handler interface {
	Handle(ctx context.Context, msg *Message) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, msg *Message) error

func (f HandlerFunc) Handle(ctx context.Context, msg *Message) error {
	return f(ctx, msg)
}

// DeadLetterPublisher receives records whose retries are exhausted.
type DeadLetterPublisher interface {
	Publish(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

// Metrics receives retry and dead-letter counts.
type Metrics interface {
	IncrementExportRetries(topic string)
	IncrementExportDeadLettered(topic string)
}

type permanentError struct{ err error }

func (e permanentError) Error() string { return e.err.Error() }
func (e permanentError) Unwrap() error { return e.err }

// Permanent marks err as not worth retrying. The record goes straight to the
// dead-letter topic.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return permanentError{err: err}
}

// IsPermanent reports whether err was marked with Permanent.
func IsPermanent(err error) bool {
	var p permanentError
	return errors.As(err, &p)
}

type busyError struct{ err error }

func (e busyError) Error() string { return e.err.Error() }
func (e busyError) Unwrap() error { return e.err }

// Busy marks err as a wait for a resource someone else holds. The record is
// retried after the backoff without spending an attempt.
func Busy(err error) error {
	if err == nil {
		return nil
	}
	return busyError{err: err}
}

// IsBusy reports whether err was marked with Busy.
func IsBusy(err error) bool {
	var b busyError
	return errors.As(err, &b)
}

// Dead-letter record headers.
const (
	HeaderError    = "x-error"
	HeaderAttempts = "x-attempts"
	HeaderSource   = "x-source-topic"
)

// Config tunes the consumer.
type Config struct {
	Brokers     []string
	Group       string
	Topics      []string
	Workers     int
	MaxAttempts int
	Backoff     time.Duration
	// DeadLetterTopic maps a source topic to its dead-letter topic.
	DeadLetterTopic func(topic string) string
}

// Consumer polls records and hands them to a Handler. Partitions are handled
// in parallel, records within a partition in order.
type Consumer struct {
	client  *kgo.Client
	handler Handler
	dlq     DeadLetterPublisher
	cfg     Config
	logger  *slog.Logger
	metrics Metrics
	sleep   func(ctx context.Context, d time.Duration) error
}

type Option func(*Consumer)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Consumer) { c.logger = logger }
}

func WithMetrics(m Metrics) Option {
	return func(c *Consumer) { c.metrics = m }
}

// New joins the consumer group. Offsets are committed only after a poll's
// records are handled.
func New(cfg Config, handler Handler, dlq DeadLetterPublisher, opts ...Option) (*Consumer, error) {
	c := newConsumer(cfg, handler, dlq, opts...)
	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ConsumerGroup(cfg.Group),
		kgo.ConsumeTopics(cfg.Topics...),
		kgo.DisableAutoCommit(),
		kgo.BlockRebalanceOnPoll(),
		kgo.ConsumeResetOffset(kgo.NewOffset().AtStart()),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	c.client = client
	return c, nil
}

func newConsumer(cfg Config, handler Handler, dlq DeadLetterPublisher, opts ...Option) *Consumer {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	if cfg.DeadLetterTopic == nil {
		cfg.DeadLetterTopic = func(topic string) string { return topic + ".dlq" }
	}
	c := &Consumer{
		handler: handler,
		dlq:     dlq,
		cfg:     cfg,
		logger:  slog.Default(),
		sleep:   sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run polls until ctx is cancelled or the client is closed.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.InfoContext(ctx, "consumer started",
		"group", c.cfg.Group,
		"topics", c.cfg.Topics,
		"workers", c.cfg.Workers,
	)
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if ctx.Err() != nil {
			c.client.AllowRebalance()
			return ctx.Err()
		}
		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.WarnContext(ctx, "fetch error", "topic", topic, "partition", partition, "error", err)
		})

		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.cfg.Workers)
		fetches.EachPartition(func(p kgo.FetchTopicPartition) {
			records := p.Records
			if len(records) == 0 {
				return
			}
			g.Go(func() error {
				for _, r := range records {
					if err := c.process(gctx, r); err != nil {
						return err
					}
				}
				return nil
			})
		})
		err := g.Wait()
		if err != nil || ctx.Err() != nil {
			// Uncommitted records are redelivered after restart.
			c.client.AllowRebalance()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return err
		}
		if err := c.client.CommitUncommittedOffsets(ctx); err != nil {
			c.logger.ErrorContext(ctx, "commit offsets failed", "error", err)
		}
		c.client.AllowRebalance()
	}
}

// Close leaves the group.
func (c *Consumer) Close() {
	if c.client != nil {
		c.client.Close()
	}
}

// process handles one record until it succeeds, is dead-lettered or ctx ends.
// It returns an error only when the record must not be committed.
func (c *Consumer) process(ctx context.Context, r *kgo.Record) error {
	msg := toMessage(r)
	ctx = kafka.Extract(ctx, r)
	var lastErr error
	for attempt := 1; attempt <= c.cfg.MaxAttempts; attempt++ {
		msg.Attempt = attempt
		lastErr = c.handler.Handle(ctx, msg)
		if lastErr == nil {
			return nil
		}
		if IsBusy(lastErr) && !IsPermanent(lastErr) {
			c.logger.InfoContext(ctx, "handler busy, waiting",
				"topic", msg.Topic,
				"partition", msg.Partition,
				"offset", msg.Offset,
				"error", lastErr,
			)
			if err := c.sleep(ctx, c.cfg.Backoff); err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			attempt--
			continue
		}
		if IsPermanent(lastErr) || attempt == c.cfg.MaxAttempts {
			break
		}
		if c.metrics != nil {
			c.metrics.IncrementExportRetries(msg.Topic)
		}
		c.logger.WarnContext(ctx, "handler failed, retrying",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"attempt", attempt,
			"error", lastErr,
		)
		if err := c.sleep(ctx, c.cfg.Backoff*time.Duration(attempt)); err != nil {
			return err
		}
	}
	return c.deadLetter(ctx, msg, lastErr)
}

func (c *Consumer) deadLetter(ctx context.Context, msg *Message, cause error) error {
	topic := c.cfg.DeadLetterTopic(msg.Topic)
	headers := make(map[string]string, len(msg.Headers)+3)
	for k, v := range msg.Headers {
		headers[k] = v
	}
	headers[HeaderError] = cause.Error()
	headers[HeaderAttempts] = strconv.Itoa(msg.Attempt)
	headers[HeaderSource] = msg.Topic
	if err := c.dlq.Publish(ctx, topic, msg.Key, msg.Value, headers); err != nil {
		c.logger.ErrorContext(ctx, "dead-letter publish failed",
			"topic", msg.Topic,
			"offset", msg.Offset,
			"error", err,
		)
		return fmt.Errorf("dead-letter %s@%d: %w", msg.Topic, msg.Offset, err)
	}
	if c.metrics != nil {
		c.metrics.IncrementExportDeadLettered(msg.Topic)
	}
	c.logger.ErrorContext(ctx, "record dead-lettered",
		"topic", msg.Topic,
		"dead_letter_topic", topic,
		"partition", msg.Partition,
		"offset", msg.Offset,
		"attempts", msg.Attempt,
		"error", cause,
	)
	return nil
}

func toMessage(r *kgo.Record) *Message {
	headers := make(map[string]string, len(r.Headers))
	for _, h := range r.Headers {
		headers[h.Key] = string(h.Value)
	}
	return &Message{
		Topic:     r.Topic,
		Partition: r.Partition,
		Offset:    r.Offset,
		Key:       r.Key,
		Value:     r.Value,
		Headers:   headers,
		Timestamp: r.Timestamp,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
