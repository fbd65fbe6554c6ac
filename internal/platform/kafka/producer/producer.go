// Package producer publishes records synchronously.
package producer

import (
	"context"
	"fmt"

	"github.com/twmb/franz-go/pkg/kgo"

	"claimdocs/internal/platform/kafka"
)

// Producer wraps a franz-go client for synchronous publishing.
type Producer struct {
	client *kgo.Client
}

// New connects to brokers. Records are acknowledged by all in-sync replicas.
func New(brokers []string, opts ...kgo.Opt) (*Producer, error) {
	base := []kgo.Opt{
		kgo.SeedBrokers(brokers...),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.ProducerLinger(0),
	}
	client, err := kgo.NewClient(append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return &Producer{client: client}, nil
}

// Client exposes the underlying client, e.g. for topic administration.
func (p *Producer) Client() *kgo.Client {
	return p.client
}

// Publish writes one record and waits for the broker acknowledgement.
func (p *Producer) Publish(ctx context.Context, topic string, key, value []byte, headers map[string]string) error {
	record := &kgo.Record{Topic: topic, Key: key, Value: value}
	for k, v := range headers {
		record.Headers = append(record.Headers, kgo.RecordHeader{Key: k, Value: []byte(v)})
	}
	kafka.Inject(ctx, record)
	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("publish to %s: %w", topic, err)
	}
	return nil
}

// Health pings the brokers.
func (p *Producer) Health(ctx context.Context) error {
	return p.client.Ping(ctx)
}

func (p *Producer) Close() {
	p.client.Close()
}
