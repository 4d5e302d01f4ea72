package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"testing"
)

func TestNewAnthropicService(t *testing.T) {
	apiKey := "test-api-key"
	modelName := "claude-sonnet-4-20250514"
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewAnthropicService(apiKey, modelName, log)

	if service.apiKey != apiKey {
		t.Errorf("Expected API key %s, got %s", apiKey, service.apiKey)
	}

	if service.modelName != modelName {
		t.Errorf("Expected model name %s, got %s", modelName, service.modelName)
	}

	if service.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
}

func TestAnthropicService_InitModel(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	service := NewAnthropicService("test-key", "claude-sonnet-4-20250514", log)

	err := service.InitModel(context.Background())
	if err != nil {
		t.Errorf("Expected no error, got %v", err)
	}
}

func TestAnthropicChatRequestStructure(t *testing.T) {
	// The request must carry the budget for the requested verbosity
	tests := []struct {
		name              string
		elaborate         bool
		expectedMaxTokens int
	}{
		{"brief request", false, 150},
		{"elaborate request", true, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			temp := DefaultTemperature
			req := AnthropicChatRequest{
				Model:       "claude-sonnet-4-20250514",
				MaxTokens:   maxTokensFor(tt.elaborate),
				Temperature: &temp,
				System:      "You are a guide.",
				Messages: []AnthropicMessage{
					{Role: "user", Content: "Describe the temple gate."},
				},
				Stream: false,
			}

			data, err := json.Marshal(req)
			if err != nil {
				t.Fatalf("Failed to marshal request: %v", err)
			}

			var decoded map[string]interface{}
			if err := json.Unmarshal(data, &decoded); err != nil {
				t.Fatalf("Failed to unmarshal request: %v", err)
			}

			if int(decoded["max_tokens"].(float64)) != tt.expectedMaxTokens {
				t.Errorf("Expected max_tokens %d, got %v", tt.expectedMaxTokens, decoded["max_tokens"])
			}

			if decoded["system"] != "You are a guide." {
				t.Errorf("Expected system prompt in payload, got %v", decoded["system"])
			}

			msgs := decoded["messages"].([]interface{})
			if len(msgs) != 1 {
				t.Fatalf("Expected 1 message, got %d", len(msgs))
			}
			first := msgs[0].(map[string]interface{})
			if first["role"] != "user" {
				t.Errorf("Expected user role, got %v", first["role"])
			}
		})
	}
}

func TestAnthropicChatResponseStructure(t *testing.T) {
	responseJSON := `{
		"id": "msg_01ABC123",
		"type": "message",
		"role": "assistant",
		"content": [
			{
				"type": "text",
				"text": "The gate stands silent under the rain."
			}
		],
		"model": "claude-sonnet-4-20250514",
		"stop_reason": "end_turn",
		"stop_sequence": null,
		"usage": {
			"input_tokens": 10,
			"output_tokens": 20
		}
	}`

	var resp AnthropicChatResponse
	err := json.Unmarshal([]byte(responseJSON), &resp)
	if err != nil {
		t.Errorf("Failed to unmarshal response: %v", err)
	}

	if resp.ID != "msg_01ABC123" {
		t.Errorf("Expected ID 'msg_01ABC123', got '%s'", resp.ID)
	}

	if len(resp.Content) != 1 {
		t.Errorf("Expected 1 content block, got %d", len(resp.Content))
	}

	if resp.Content[0].Text != "The gate stands silent under the rain." {
		t.Errorf("Unexpected content text: '%s'", resp.Content[0].Text)
	}
}

func TestExtractAnthropicText(t *testing.T) {
	tests := []struct {
		name     string
		content  []AnthropicContentBlock
		expected string
	}{
		{
			name: "single text block",
			content: []AnthropicContentBlock{
				{Type: "text", Text: "A stone path."},
			},
			expected: "A stone path.",
		},
		{
			name: "multiple text blocks concatenated",
			content: []AnthropicContentBlock{
				{Type: "text", Text: "A stone path "},
				{Type: "text", Text: "climbs the hill."},
			},
			expected: "A stone path climbs the hill.",
		},
		{
			name: "non-text blocks skipped",
			content: []AnthropicContentBlock{
				{Type: "tool_use", Text: "ignored"},
				{Type: "text", Text: "Only this."},
			},
			expected: "Only this.",
		},
		{
			name: "surrounding whitespace trimmed",
			content: []AnthropicContentBlock{
				{Type: "text", Text: "\n  The wind shifts.  \n"},
			},
			expected: "The wind shifts.",
		},
		{
			name:     "no content",
			content:  nil,
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &AnthropicChatResponse{Content: tt.content}
			if got := extractAnthropicText(resp); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}
