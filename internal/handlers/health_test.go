package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error {
	return s.err
}

func TestHealthHandler_ServeHTTP(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelError, // Reduce noise in tests
	}))

	tests := []struct {
		name           string
		store          Pinger
		expectedStatus int
		expectedHealth string
		expectedStore  string
	}{
		{
			name:           "redis store healthy",
			store:          stubPinger{},
			expectedStatus: http.StatusOK,
			expectedHealth: "healthy",
			expectedStore:  "healthy",
		},
		{
			name:           "redis store unreachable",
			store:          stubPinger{err: errors.New("connection refused")},
			expectedStatus: http.StatusServiceUnavailable,
			expectedHealth: "degraded",
			expectedStore:  "unhealthy",
		},
		{
			name:           "memory store has nothing to ping",
			store:          nil,
			expectedStatus: http.StatusOK,
			expectedHealth: "healthy",
			expectedStore:  "memory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.store, logger)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != tt.expectedStatus {
				t.Errorf("Expected status %d, got %d", tt.expectedStatus, rr.Code)
			}
			if rr.Header().Get("Content-Type") != "application/json" {
				t.Errorf("Expected Content-Type application/json, got %s", rr.Header().Get("Content-Type"))
			}

			var response HealthResponse
			if err := json.NewDecoder(rr.Body).Decode(&response); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}

			if response.Status != tt.expectedHealth {
				t.Errorf("Expected status '%s', got '%s'", tt.expectedHealth, response.Status)
			}
			if response.Service != "zenquest" {
				t.Errorf("Expected service 'zenquest', got '%s'", response.Service)
			}

			storeComponent, exists := response.Components["store"]
			if !exists {
				t.Error("Expected store component in response")
			} else if storeComponent != tt.expectedStore {
				t.Errorf("Expected store status '%s', got '%v'", tt.expectedStore, storeComponent)
			}

			timeDiff := time.Since(response.Timestamp)
			if timeDiff > time.Second {
				t.Errorf("Health check timestamp seems old: %v", timeDiff)
			}
		})
	}
}
