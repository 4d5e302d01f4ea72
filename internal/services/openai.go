package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jwebster45206/zenquest/pkg/prompts"
)

// OpenAIService implements Generator for the OpenAI chat API.
type OpenAIService struct {
	client    *openai.Client
	modelName string
	logger    *slog.Logger
}

func NewOpenAIService(apiKey string, modelName string, logger *slog.Logger) *OpenAIService {
	return &OpenAIService{
		client:    openai.NewClient(apiKey),
		modelName: modelName,
		logger:    logger,
	}
}

// InitModel is a no-op for the hosted OpenAI API.
func (s *OpenAIService) InitModel(ctx context.Context) error {
	return nil
}

// Generate sends the prompt as a single user message after the shared
// system instruction and returns the trimmed first choice.
func (s *OpenAIService) Generate(ctx context.Context, prompt string, elaborate bool) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: s.modelName,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompts.System},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   maxTokensFor(elaborate),
		Temperature: float32(DefaultTemperature),
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("empty response from model")
	}

	return text, nil
}
