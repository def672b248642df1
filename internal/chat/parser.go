// Package chat turns natural-language messages into typed actions and
// executes them against the portfolio.
package chat

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/tailorhq/github-tailor/internal/ai"
	"github.com/tailorhq/github-tailor/internal/models"
)

// parserSystemPrompt instructs the model to emit exactly one JSON action.
const parserSystemPrompt = `You are a command parser for a GitHub portfolio assistant.
Map the user's message to exactly one JSON object and output nothing else.

The object always has "action" and "confidence" (0.0-1.0) fields. Valid
actions and their extra fields:

- "create_repo": "name", "description", "is_private", "gitignore_template", "license_template"
- "create_file": "repo", "path", "content", "commit_message"
- "delete_repo": "repo", "confirmed" (true only when the user explicitly confirms)
- "sort_repos": "criterion" (complexity|cv|date|alphabetical), "direction" (asc|desc)
- "analyze_complexity": "repo", "analyze_all"
- "cv_recommendations": "target_job"
- "general_response": "topic"

When no other action applies, use "general_response". Output raw JSON with
no code fences and no commentary.`

// Parser resolves a chat message to a ChatAction. It asks the model first
// and falls back to keyword matching when the model is unavailable or its
// reply cannot be decoded. Parse never returns an error: every message
// resolves to some action.
type Parser struct {
	gen    ai.Generator
	logger *slog.Logger
}

// NewParser creates a parser. A nil generator is allowed and makes every
// message take the fallback path.
func NewParser(gen ai.Generator, logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{gen: gen, logger: logger}
}

// Parse resolves a message to an action.
func (p *Parser) Parse(ctx context.Context, message string, history []ai.Turn) models.ChatAction {
	if p.gen == nil {
		return FallbackParse(message)
	}

	result, err := p.gen.Generate(ctx, parserSystemPrompt, history, message)
	if err != nil {
		p.logger.Warn("action parsing failed, using fallback", "error", err)
		return FallbackParse(message)
	}
	if result.Cancelled {
		p.logger.Debug("action parsing cancelled, using fallback")
		return FallbackParse(message)
	}

	action, ok := decodeAction(result.Text)
	if !ok {
		p.logger.Warn("model reply was not a valid action, using fallback",
			"reply_length", len(result.Text))
		return FallbackParse(message)
	}
	return action
}

// decodeAction strictly decodes a model reply into an action. Replies are
// often wrapped in code fences or prose; both wrappers are tolerated, but
// the JSON itself must decode cleanly and name a known action.
func decodeAction(reply string) (models.ChatAction, bool) {
	text := ai.StripCodeFences(reply)
	text, err := ai.ExtractJSON(text)
	if err != nil {
		return models.ChatAction{}, false
	}

	var action models.ChatAction
	if err := json.Unmarshal([]byte(text), &action); err != nil {
		return models.ChatAction{}, false
	}
	if !action.Type.Valid() {
		return models.ChatAction{}, false
	}
	return action, true
}
