package chat

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tailorhq/github-tailor/internal/ai"
	"github.com/tailorhq/github-tailor/internal/models"
)

// SessionStore persists chat sessions and their messages.
type SessionStore interface {
	CreateChatSession(ctx context.Context, session *models.ChatSession) error
	GetChatSession(ctx context.Context, id string) (*models.ChatSession, error)
	TouchChatSession(ctx context.Context, id string, expiresAt time.Time) error
	UpdateChatSessionTitle(ctx context.Context, id, title string) error
	AddChatMessage(ctx context.Context, msg *models.ChatMessage) error
	ListChatMessages(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error)
}

const (
	// sessionTTL is how long an idle session stays resumable.
	sessionTTL = 30 * time.Minute

	// historyLimit bounds the prior messages replayed to the model.
	historyLimit = 10

	// titleMaxLen truncates the session title derived from the first message.
	titleMaxLen = 60
)

const cancelledReply = "That request was cancelled before I could reply."

const assistantSystemPrompt = `You are a GitHub portfolio assistant. You help the user present their
repositories well: assessing complexity and completeness, suggesting
improvements, and ordering projects for a CV. Answer briefly and
concretely. When the user asks about their own repositories, base your
answer on the conversation so far rather than inventing repository data.`

// Service runs one assistant turn end to end: resolve the session, parse
// the message into an action, execute it, and persist both sides of the
// exchange.
type Service struct {
	store      SessionStore
	parser     *Parser
	dispatcher *Dispatcher
	gen        ai.Generator
	logger     *slog.Logger
}

// NewService assembles the chat service.
func NewService(store SessionStore, parser *Parser, dispatcher *Dispatcher, gen ai.Generator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:      store,
		parser:     parser,
		dispatcher: dispatcher,
		gen:        gen,
		logger:     logger,
	}
}

// HandleMessage processes one user message and returns the assistant's
// reply. Errors are reserved for persistence failures; anything the
// assistant can explain to the user becomes reply text instead.
func (s *Service) HandleMessage(ctx context.Context, userLogin string, req models.ChatRequest) (*models.ChatResponse, error) {
	if req.Message == "" {
		return nil, fmt.Errorf("message is required")
	}

	session, isNew, err := s.resolveSession(ctx, userLogin, req.SessionID)
	if err != nil {
		return nil, err
	}

	history, err := s.history(ctx, session.ID)
	if err != nil {
		return nil, err
	}

	if err := s.store.AddChatMessage(ctx, &models.ChatMessage{
		SessionID: session.ID,
		Role:      models.RoleUser,
		Content:   req.Message,
		CreatedAt: time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("saving user message: %w", err)
	}
	if isNew {
		title := req.Message
		if len(title) > titleMaxLen {
			title = title[:titleMaxLen]
		}
		session.Title = &title
		if err := s.store.UpdateChatSessionTitle(ctx, session.ID, title); err != nil {
			s.logger.Warn("saving session title failed", "session_id", session.ID, "error", err)
		}
	}

	action := s.parser.Parse(ctx, req.Message, history)

	var content string
	var result *models.DispatchResult
	if action.Type == models.ActionGeneralResponse {
		content = s.converse(ctx, history, req.Message)
	} else {
		r := s.dispatcher.Dispatch(ctx, action)
		result = &r
		content = r.Message
	}

	if err := s.store.AddChatMessage(ctx, &models.ChatMessage{
		SessionID: session.ID,
		Role:      models.RoleAssistant,
		Content:   content,
		CreatedAt: time.Now(),
	}); err != nil {
		return nil, fmt.Errorf("saving assistant message: %w", err)
	}
	if err := s.store.TouchChatSession(ctx, session.ID, time.Now().Add(sessionTTL)); err != nil {
		s.logger.Warn("extending session failed", "session_id", session.ID, "error", err)
	}

	return &models.ChatResponse{
		SessionID: session.ID,
		Content:   content,
		Action:    &action,
		Result:    result,
	}, nil
}

// History returns the stored messages of a session, oldest first.
func (s *Service) History(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	return s.store.ListChatMessages(ctx, sessionID, 0)
}

// resolveSession loads an existing session or creates a fresh one. An
// expired session, or one belonging to a different user, is silently
// replaced rather than reused.
func (s *Service) resolveSession(ctx context.Context, userLogin, sessionID string) (*models.ChatSession, bool, error) {
	if sessionID != "" {
		session, err := s.store.GetChatSession(ctx, sessionID)
		if err == nil && session != nil && session.UserLogin == userLogin && !session.IsExpired() {
			return session, false, nil
		}
		if err != nil {
			s.logger.Debug("session lookup failed, starting a new one",
				"session_id", sessionID, "error", err)
		}
	}

	now := time.Now()
	session := &models.ChatSession{
		ID:        uuid.NewString(),
		UserLogin: userLogin,
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(sessionTTL),
	}
	if err := s.store.CreateChatSession(ctx, session); err != nil {
		return nil, false, fmt.Errorf("creating chat session: %w", err)
	}
	return session, true, nil
}

func (s *Service) history(ctx context.Context, sessionID string) ([]ai.Turn, error) {
	messages, err := s.store.ListChatMessages(ctx, sessionID, historyLimit)
	if err != nil {
		return nil, fmt.Errorf("loading chat history: %w", err)
	}

	turns := make([]ai.Turn, 0, len(messages))
	for _, m := range messages {
		turns = append(turns, ai.Turn{Role: m.Role, Content: m.Content})
	}
	return turns, nil
}

// converse answers a general message with free-form text. A cancelled
// generation resolves to a stock reply, and generation failures become
// reply text so the turn still completes.
func (s *Service) converse(ctx context.Context, history []ai.Turn, message string) string {
	if s.gen == nil {
		return "I can create repositories and files, analyze complexity, sort your portfolio, and build CV recommendations. What would you like to do?"
	}

	result, err := s.gen.Generate(ctx, assistantSystemPrompt, history, message)
	if err != nil {
		s.logger.Error("generation failed", "error", err)
		return "I couldn't reach the language model just now. Please try again in a moment."
	}
	if result.Cancelled {
		return cancelledReply
	}
	return result.Text
}
