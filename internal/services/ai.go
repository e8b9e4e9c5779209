package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/yukikurage/bugtracker-api/internal/constants"
)

var ErrAINotConfigured = errors.New("AI suggestions are not configured")

// AIService extracts actionable todos from free-form text using OpenAI.
type AIService struct {
	client *openai.Client
}

// GeneratedTodo is one todo suggested by the model.
type GeneratedTodo struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"due_date"`
}

// NewAIService creates an AIService. With an empty API key the service stays
// unconfigured and every call returns ErrAINotConfigured.
func NewAIService(apiKey string) *AIService {
	s := &AIService{}
	if apiKey != "" {
		s.client = openai.NewClient(apiKey)
	}
	return s
}

// Configured reports whether an API key was provided.
func (s *AIService) Configured() bool {
	return s.client != nil
}

// SuggestTodos analyzes text and extracts todo items.
func (s *AIService) SuggestTodos(ctx context.Context, text string) ([]GeneratedTodo, error) {
	if s.client == nil {
		return nil, ErrAINotConfigured
	}

	currentTime := time.Now().UTC().Format("2006-01-02 15:04:05")
	prompt := fmt.Sprintf(`You are a todo extraction assistant. Extract concrete, actionable todo items from the text below.

Current time (UTC): %s

Text:
%s

Return a JSON array of the extracted todos in this shape:
[
  {
    "title": "short todo title",
    "description": "details of the todo",
    "due_date": "deadline in ISO8601 form, e.g. 2026-09-08T23:59:59Z, or null when no deadline is stated"
  }
]

Rules:
- Return an empty array [] when the text contains no todos
- Convert relative deadlines ("tomorrow", "next week") into concrete timestamps
- due_date must be an ISO8601 string or null
- Return only the JSON, no prose`, currentTime, text)

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: openai.GPT4o,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Temperature: 0.3,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var todos []GeneratedTodo
	if err := json.Unmarshal([]byte(content), &todos); err != nil {
		return nil, fmt.Errorf("failed to parse AI response: %w (response: %s)", err, content)
	}

	if len(todos) > constants.MaxAISuggestedTodos {
		todos = todos[:constants.MaxAISuggestedTodos]
	}

	return todos, nil
}
