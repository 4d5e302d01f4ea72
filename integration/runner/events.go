package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jwebster45206/zenquest/internal/services/events"
)

// EventTimeout is the max time to wait for a quest event to arrive
const EventTimeout = 30 * time.Second

// EventStream is a live SSE subscription to one session's quest events.
type EventStream struct {
	events chan events.Envelope
	cancel context.CancelFunc
}

// OpenEventStream connects to the session's SSE feed. It does not
// return until the server confirms the subscription, so events caused
// by requests made after OpenEventStream returns are never missed.
// The stream uses its own client because it outlives any request
// timeout.
func OpenEventStream(ctx context.Context, baseURL, sessionID string) (*EventStream, error) {
	ctx, cancel := context.WithCancel(ctx)

	url := fmt.Sprintf("%s/v1/events/quests/%s", strings.TrimSuffix(baseURL, "/"), sessionID)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create event stream request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	client := &http.Client{}
	resp, err := client.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to connect to event stream: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("event stream returned %d: %s", resp.StatusCode, string(body))
	}

	scanner := bufio.NewScanner(resp.Body)

	// Consume frames until the handler's "connected" confirmation.
	if err := awaitConnected(scanner); err != nil {
		_ = resp.Body.Close()
		cancel()
		return nil, err
	}

	s := &EventStream{
		events: make(chan events.Envelope, 16),
		cancel: cancel,
	}

	go func() {
		defer close(s.events)
		defer func() { _ = resp.Body.Close() }()

		var eventType string
		for scanner.Scan() {
			line := scanner.Text()
			switch {
			case line == "":
				eventType = ""
			case strings.HasPrefix(line, "event: "):
				eventType = strings.TrimPrefix(line, "event: ")
			case strings.HasPrefix(line, "data: ") && eventType != "":
				var env events.Envelope
				if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &env); err != nil {
					continue
				}
				select {
				case s.events <- env:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return s, nil
}

// awaitConnected reads frames until the initial connected event has
// fully arrived (its data line and trailing blank).
func awaitConnected(scanner *bufio.Scanner) error {
	connected := false
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "event: ") {
			connected = strings.TrimPrefix(line, "event: ") == "connected"
			continue
		}
		if line == "" && connected {
			return nil
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("event stream closed before confirmation: %w", err)
	}
	return fmt.Errorf("event stream closed before confirmation")
}

// Wait blocks until an event of the given type arrives, discarding
// events of other types along the way.
func (s *EventStream) Wait(ctx context.Context, eventType string, timeout time.Duration) (*events.Envelope, error) {
	deadline := time.After(timeout)
	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline:
			return nil, fmt.Errorf("timeout waiting for %s event (waited %v)", eventType, timeout)
		case env, ok := <-s.events:
			if !ok {
				return nil, fmt.Errorf("event stream closed while waiting for %s", eventType)
			}
			if env.Type == eventType {
				return &env, nil
			}
		}
	}
}

// Close tears down the subscription.
func (s *EventStream) Close() {
	s.cancel()
}
