// Package kafka holds the franz-go plumbing shared by the export producer
// and the export worker.
package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.opentelemetry.io/otel"
)

// TopicSpec describes topics to create at startup.
type TopicSpec struct {
	Topics      []string
	Partitions  int32
	Replication int16
}

// EnsureTopics creates missing topics. Existing topics are left unchanged.
func EnsureTopics(ctx context.Context, client *kgo.Client, spec TopicSpec, logger *slog.Logger) error {
	if len(spec.Topics) == 0 {
		return nil
	}
	adm := kadm.NewClient(client)
	resp, err := adm.CreateTopics(ctx, spec.Partitions, spec.Replication, nil, spec.Topics...)
	if err != nil {
		return fmt.Errorf("create topics: %w", err)
	}
	var errs []error
	for _, r := range resp.Sorted() {
		switch {
		case r.Err == nil:
			logger.InfoContext(ctx, "kafka topic created", "topic", r.Topic, "partitions", spec.Partitions)
		case errors.Is(r.Err, kerr.TopicAlreadyExists):
		default:
			errs = append(errs, fmt.Errorf("topic %s: %w", r.Topic, r.Err))
		}
	}
	return errors.Join(errs...)
}

// HeaderCarrier adapts record headers for trace context propagation.
type HeaderCarrier struct {
	Record *kgo.Record
}

func (c HeaderCarrier) Get(key string) string {
	for _, h := range c.Record.Headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func (c HeaderCarrier) Set(key, value string) {
	for i, h := range c.Record.Headers {
		if h.Key == key {
			c.Record.Headers[i].Value = []byte(value)
			return
		}
	}
	c.Record.Headers = append(c.Record.Headers, kgo.RecordHeader{Key: key, Value: []byte(value)})
}

func (c HeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(c.Record.Headers))
	for _, h := range c.Record.Headers {
		keys = append(keys, h.Key)
	}
	return keys
}

// Inject writes the span context of ctx into r's headers.
func Inject(ctx context.Context, r *kgo.Record) {
	otel.GetTextMapPropagator().Inject(ctx, HeaderCarrier{Record: r})
}

// Extract returns ctx carrying the span context found in r's headers.
func Extract(ctx context.Context, r *kgo.Record) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, HeaderCarrier{Record: r})
}
