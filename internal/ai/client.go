// Package ai wraps the hosted text-generation API and the defensive parsing
// of its free-text output.
package ai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/tailorhq/github-tailor/internal/config"
	"github.com/tailorhq/github-tailor/internal/models"
)

// Turn is one prior exchange passed as conversation context.
type Turn struct {
	Role    string `json:"role"` // models.RoleUser or models.RoleAssistant
	Content string `json:"content"`
}

// Result is the outcome of one generation call. Cancellation is a
// distinguishable non-error outcome: the caller re-enables input and moves
// on instead of reporting a failure.
type Result struct {
	Text      string `json:"text"`
	Cancelled bool   `json:"cancelled"`
}

// Generator is the text-generation capability the rest of the application
// depends on.
type Generator interface {
	Generate(ctx context.Context, systemPrompt string, history []Turn, prompt string) (Result, error)
}

// maxHistoryTurns bounds the conversation context sent to the model.
const maxHistoryTurns = 5

// Client calls the hosted generation API with a per-call timeout.
type Client struct {
	sdk     openai.Client
	model   string
	timeout time.Duration
	logger  *slog.Logger
}

// NewClient builds a generation client from configuration.
func NewClient(cfg config.AIConfig, logger *slog.Logger) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("ai api key is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &Client{
		sdk:     openai.NewClient(opts...),
		model:   cfg.Model,
		timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		logger:  logger,
	}, nil
}

// Generate sends (systemPrompt, bounded history, prompt) to the model and
// returns its raw text reply. A cancelled context resolves to a Cancelled
// result, not an error; a timeout is a plain error for the caller to report.
func (c *Client) Generate(ctx context.Context, systemPrompt string, history []Turn, prompt string) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	messages := make([]openai.ChatCompletionMessageParamUnion, 0, len(history)+2)
	if systemPrompt != "" {
		messages = append(messages, openai.SystemMessage(systemPrompt))
	}
	for _, turn := range history {
		switch turn.Role {
		case models.RoleAssistant:
			messages = append(messages, openai.AssistantMessage(turn.Content))
		default:
			messages = append(messages, openai.UserMessage(turn.Content))
		}
	}
	messages = append(messages, openai.UserMessage(prompt))

	req := openai.ChatCompletionNewParams{
		Messages: messages,
		Model:    c.model,
	}

	resp, err := c.sdk.Chat.Completions.New(ctx, req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			c.logger.Debug("generation cancelled")
			return Result{Cancelled: true}, nil
		}
		return Result{}, fmt.Errorf("generation request failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return Result{}, errors.New("empty completion")
	}

	return Result{Text: resp.Choices[0].Message.Content}, nil
}
