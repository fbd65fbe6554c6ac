package queue

import (
	"context"
	"fmt"
)

// RecordPublisher writes one keyed record to a topic.
type RecordPublisher interface {
	Publish(ctx context.Context, topic string, key, value []byte, headers map[string]string) error
}

// Publisher enqueues export requests on the per-kind topics.
type Publisher struct {
	records RecordPublisher
	prefix  string
}

func NewPublisher(records RecordPublisher, topicPrefix string) *Publisher {
	return &Publisher{records: records, prefix: topicPrefix}
}

// Enqueue validates msg and publishes it keyed by claim ID.
func (p *Publisher) Enqueue(ctx context.Context, msg Message) error {
	if err := msg.Validate(); err != nil {
		return err
	}
	value, err := Encode(msg)
	if err != nil {
		return fmt.Errorf("encode export message: %w", err)
	}
	headers := map[string]string{"kind": string(msg.Kind)}
	if msg.RequestID != "" {
		headers["request_id"] = msg.RequestID
	}
	return p.records.Publish(ctx, Topic(p.prefix, msg.Kind), msg.Key(), value, headers)
}

// Topics lists the request topics under prefix.
func Topics(prefix string) []string {
	topics := make([]string, 0, len(Kinds))
	for _, k := range Kinds {
		topics = append(topics, Topic(prefix, k))
	}
	return topics
}

// DeadLetterTopics lists the dead-letter topics under prefix.
func DeadLetterTopics(prefix string) []string {
	topics := Topics(prefix)
	for i, t := range topics {
		topics[i] = DeadLetterTopic(t)
	}
	return topics
}
