// Package runner drives a running zenquest API for integration tests:
// a thin HTTP client for the quest endpoints plus an event stream
// listener for the SSE feed.
package runner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jwebster45206/zenquest/pkg/quest"
)

// Runner executes integration flows against a running zenquest API
type Runner struct {
	BaseURL string
	Client  *http.Client
	Timeout time.Duration
	Logger  func(format string, args ...interface{})
}

// NewRunner creates a new test runner
func NewRunner(baseURL string) *Runner {
	return &Runner{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  &http.Client{Timeout: 90 * time.Second},
		Timeout: 30 * time.Second,
		Logger:  func(format string, args ...interface{}) {},
	}
}

// Health checks the API health endpoint. Degraded deployments fail the
// check so suites stop before producing confusing downstream errors.
func (r *Runner) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", r.BaseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("failed to create health request: %w", err)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("health endpoint returned %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// StartQuest creates a fresh quest session and returns the opening reply.
func (r *Runner) StartQuest(ctx context.Context, name string) (*quest.Reply, error) {
	r.Logger("    POST /v1/quests (name=%q)", name)
	reqBody, err := json.Marshal(map[string]string{"name": name})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal start request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.BaseURL+"/v1/quests", bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create start request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to start quest: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("start quest returned %d (expected 201): %s", resp.StatusCode, string(body))
	}

	var reply quest.Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("failed to decode start reply: %w", err)
	}
	return &reply, nil
}

// Act submits one participant action and returns the resulting reply.
func (r *Runner) Act(ctx context.Context, sessionID, input string) (*quest.Reply, error) {
	r.Logger("    POST /v1/quests/%s/actions (%s)", sessionID, input)
	reqBody, err := json.Marshal(map[string]string{"input": input})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal action request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/quests/%s/actions", r.BaseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create action request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send action: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("action returned %d: %s", resp.StatusCode, string(body))
	}

	var reply quest.Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("failed to decode action reply: %w", err)
	}
	return &reply, nil
}

// Meditate triggers a meditation interlude for the session.
func (r *Runner) Meditate(ctx context.Context, sessionID string) (*quest.Reply, error) {
	r.Logger("    POST /v1/quests/%s/meditate", sessionID)
	url := fmt.Sprintf("%s/v1/quests/%s/meditate", r.BaseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, "POST", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create meditate request: %w", err)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send meditate request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("meditate returned %d: %s", resp.StatusCode, string(body))
	}

	var reply quest.Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("failed to decode meditate reply: %w", err)
	}
	return &reply, nil
}

// Status fetches the session summary.
func (r *Runner) Status(ctx context.Context, sessionID string) (*quest.Status, error) {
	url := fmt.Sprintf("%s/v1/quests/%s", r.BaseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create status request: %w", err)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send status request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("status returned %d: %s", resp.StatusCode, string(body))
	}

	var status quest.Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode status: %w", err)
	}
	return &status, nil
}

// Interrupt abandons the session.
func (r *Runner) Interrupt(ctx context.Context, sessionID string) (*quest.Reply, error) {
	r.Logger("    DELETE /v1/quests/%s", sessionID)
	url := fmt.Sprintf("%s/v1/quests/%s", r.BaseURL, sessionID)
	req, err := http.NewRequestWithContext(ctx, "DELETE", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create interrupt request: %w", err)
	}

	resp, err := r.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send interrupt request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("interrupt returned %d: %s", resp.StatusCode, string(body))
	}

	var reply quest.Reply
	if err := json.NewDecoder(resp.Body).Decode(&reply); err != nil {
		return nil, fmt.Errorf("failed to decode interrupt reply: %w", err)
	}
	return &reply, nil
}
