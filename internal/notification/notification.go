// Package notification delivers export completion messages to clients.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Envelope is the wire form of a notification.
type Envelope struct {
	Target  string          `json:"target"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
	SentAt  time.Time       `json:"sent_at"`
}

// Redis publishes notifications on a Pub/Sub channel. Gateways subscribed
// to the channel forward them to the target's sockets or mail relay.
type Redis struct {
	client  *redis.Client
	channel string
	logger  *slog.Logger
	now     func() time.Time
}

func NewRedis(client *redis.Client, channel string, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{client: client, channel: channel, logger: logger, now: time.Now}
}

// Send publishes one message. A publish with no subscribers is not an error.
func (n *Redis) Send(ctx context.Context, target, messageType string, payload any) error {
	env, err := envelope(target, messageType, payload, n.now())
	if err != nil {
		return err
	}
	raw, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	receivers, err := n.client.Publish(ctx, n.channel, raw).Result()
	if err != nil {
		return fmt.Errorf("publish notification: %w", err)
	}
	n.logger.DebugContext(ctx, "notification sent",
		"target", target,
		"type", messageType,
		"receivers", receivers,
	)
	return nil
}

// Subscribe decodes envelopes from the channel until ctx ends.
func (n *Redis) Subscribe(ctx context.Context, fn func(Envelope)) error {
	sub := n.client.Subscribe(ctx, n.channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", n.channel, err)
	}
	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var env Envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				n.logger.WarnContext(ctx, "dropping malformed notification", "error", err)
				continue
			}
			fn(env)
		}
	}
}

// Memory records notifications in process.
type Memory struct {
	mu   sync.Mutex
	sent []Envelope
	now  func() time.Time
}

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) Send(_ context.Context, target, messageType string, payload any) error {
	env, err := envelope(target, messageType, payload, m.now())
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, env)
	return nil
}

// Sent returns a copy of everything sent so far.
func (m *Memory) Sent() []Envelope {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Envelope(nil), m.sent...)
}

func envelope(target, messageType string, payload any, now time.Time) (Envelope, error) {
	if target == "" || messageType == "" {
		return Envelope{}, fmt.Errorf("notification needs a target and a type")
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode notification payload: %w", err)
	}
	return Envelope{Target: target, Type: messageType, Payload: raw, SentAt: now.UTC()}, nil
}
