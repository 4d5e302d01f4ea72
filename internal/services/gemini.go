package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jwebster45206/zenquest/pkg/prompts"
)

// GeminiService implements Generator for the Google Gemini API.
type GeminiService struct {
	client    *genai.Client
	modelName string
	logger    *slog.Logger
}

func NewGeminiService(ctx context.Context, apiKey string, modelName string, logger *slog.Logger) (*GeminiService, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiService{
		client:    client,
		modelName: modelName,
		logger:    logger,
	}, nil
}

// InitModel is a no-op for the hosted Gemini API.
func (s *GeminiService) InitModel(ctx context.Context) error {
	return nil
}

// Close releases the underlying API client.
func (s *GeminiService) Close() error {
	return s.client.Close()
}

// Generate sends the prompt with the shared system instruction and
// returns the concatenated text parts of the first candidate. The
// generation config is rebuilt per call because the token budget
// depends on the elaborate flag.
func (s *GeminiService) Generate(ctx context.Context, prompt string, elaborate bool) (string, error) {
	model := s.client.GenerativeModel(s.modelName)
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(prompts.System)},
	}
	model.SetTemperature(float32(DefaultTemperature))
	model.SetMaxOutputTokens(int32(maxTokensFor(elaborate)))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response from model")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}

	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}

	return text, nil
}
