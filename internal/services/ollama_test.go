package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewOllamaService(t *testing.T) {
	service := NewOllamaService("http://localhost:11434", "llama3", discardLogger())

	if service.baseURL != "http://localhost:11434" {
		t.Errorf("Expected baseURL 'http://localhost:11434', got '%s'", service.baseURL)
	}

	if service.modelName != "llama3" {
		t.Errorf("Expected modelName 'llama3', got '%s'", service.modelName)
	}

	if service.httpClient == nil {
		t.Error("Expected httpClient to be initialized")
	}
}

func TestOllamaService_Generate(t *testing.T) {
	tests := []struct {
		name               string
		elaborate          bool
		expectedNumPredict int
	}{
		{"brief", false, 150},
		{"elaborate", true, 300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var captured ollamaChatRequest

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != "POST" {
					t.Errorf("Expected POST, got %s", r.Method)
				}
				if r.URL.Path != "/api/chat" {
					t.Errorf("Expected path /api/chat, got %s", r.URL.Path)
				}
				if ct := r.Header.Get("Content-Type"); ct != "application/json" {
					t.Errorf("Expected JSON content type, got %s", ct)
				}

				if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
					t.Fatalf("Failed to decode request: %v", err)
				}

				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"message":{"content":"The mist parts over the valley."}}`))
			}))
			defer server.Close()

			service := NewOllamaService(server.URL, "llama3", discardLogger())

			text, err := service.Generate(context.Background(), "Describe the valley.", tt.elaborate)
			if err != nil {
				t.Fatalf("Generate failed: %v", err)
			}

			if text != "The mist parts over the valley." {
				t.Errorf("Unexpected response text: %q", text)
			}

			if captured.Model != "llama3" {
				t.Errorf("Expected model llama3, got %s", captured.Model)
			}
			if captured.Stream {
				t.Error("Expected stream=false")
			}
			if captured.Options.NumPredict != tt.expectedNumPredict {
				t.Errorf("Expected num_predict %d, got %d", tt.expectedNumPredict, captured.Options.NumPredict)
			}
			if len(captured.Messages) != 2 {
				t.Fatalf("Expected 2 messages, got %d", len(captured.Messages))
			}
			if captured.Messages[0].Role != "system" {
				t.Errorf("Expected leading system message, got role %s", captured.Messages[0].Role)
			}
			if captured.Messages[1].Role != "user" || captured.Messages[1].Content != "Describe the valley." {
				t.Errorf("Unexpected user message: %+v", captured.Messages[1])
			}
		})
	}
}

func TestOllamaService_GenerateServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model overloaded", http.StatusInternalServerError)
	}))
	defer server.Close()

	service := NewOllamaService(server.URL, "llama3", discardLogger())

	_, err := service.Generate(context.Background(), "Describe the valley.", false)
	if err == nil {
		t.Error("Expected error for 500 response, got nil")
	}
}

func TestOllamaService_GenerateBadJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer server.Close()

	service := NewOllamaService(server.URL, "llama3", discardLogger())

	_, err := service.Generate(context.Background(), "Describe the valley.", false)
	if err == nil {
		t.Error("Expected decode error, got nil")
	}
}

func TestOllamaService_InitModelWhenPresent(t *testing.T) {
	pullCalls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"models":[{"name":"llama3"},{"name":"mistral"}]}`))
		case "/api/pull":
			pullCalls++
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("Unexpected request path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	service := NewOllamaService(server.URL, "llama3", discardLogger())

	if err := service.InitModel(context.Background()); err != nil {
		t.Fatalf("InitModel failed: %v", err)
	}

	if pullCalls != 0 {
		t.Errorf("Expected no pull for present model, got %d pulls", pullCalls)
	}
}

func TestOllamaService_InitModelPullsMissingModel(t *testing.T) {
	pullCalls := 0

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/tags":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"models":[{"name":"mistral"}]}`))
		case "/api/pull":
			pullCalls++
			var body map[string]string
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				t.Fatalf("Failed to decode pull request: %v", err)
			}
			if body["name"] != "llama3" {
				t.Errorf("Expected pull of llama3, got %s", body["name"])
			}
			w.WriteHeader(http.StatusOK)
		default:
			t.Errorf("Unexpected request path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	service := NewOllamaService(server.URL, "llama3", discardLogger())

	if err := service.InitModel(context.Background()); err != nil {
		t.Fatalf("InitModel failed: %v", err)
	}

	if pullCalls != 1 {
		t.Errorf("Expected exactly 1 pull, got %d", pullCalls)
	}
}
