// Package events distributes quest lifecycle events over Redis Pub/Sub
// so any API instance can serve the SSE stream for any session.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/zenquest/pkg/quest"
)

// Envelope is the wire form of a broadcast event. Every message gets
// its own id so reconnecting clients can spot duplicates.
type Envelope struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	SessionID string         `json:"session_id"`
	Data      map[string]any `json:"data,omitempty"`
	At        time.Time      `json:"at"`
}

// Broadcaster publishes quest events to Redis Pub/Sub for SSE
// distribution. It implements quest.Publisher.
type Broadcaster struct {
	client *redis.Client
	logger *slog.Logger
}

func NewBroadcaster(client *redis.Client, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		client: client,
		logger: logger,
	}
}

// Publish sends the event to the session's channel. Subscribers only;
// nothing is retained for late joiners.
func (b *Broadcaster) Publish(ctx context.Context, e quest.Event) error {
	env := Envelope{
		ID:        uuid.NewString(),
		Type:      e.Type,
		SessionID: e.SessionID,
		Data:      e.Data,
		At:        time.Now().UTC(),
	}

	data, err := json.Marshal(env)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", e.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	channel := channelFor(e.SessionID)
	if err := b.client.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", env.Type,
		"event_id", env.ID,
	)

	return nil
}

// Subscribe opens a feed of raw event payloads for one session. The
// subscription is confirmed before Subscribe returns, so events
// published afterwards are never missed. The returned cancel func
// closes the feed; the channel is closed once drained.
func (b *Broadcaster) Subscribe(ctx context.Context, sessionID string) (<-chan []byte, func(), error) {
	channel := channelFor(sessionID)
	pubsub := b.client.Subscribe(ctx, channel)

	// Wait for the subscription confirmation
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()

	cancel := func() { _ = pubsub.Close() }
	return out, cancel, nil
}

func channelFor(sessionID string) string {
	return fmt.Sprintf("quest-events:%s", sessionID)
}
