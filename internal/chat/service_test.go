package chat

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailorhq/github-tailor/internal/ai"
	"github.com/tailorhq/github-tailor/internal/models"
)

// memoryStore is an in-memory SessionStore for tests.
type memoryStore struct {
	sessions map[string]*models.ChatSession
	messages map[string][]models.ChatMessage
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		sessions: make(map[string]*models.ChatSession),
		messages: make(map[string][]models.ChatMessage),
	}
}

func (m *memoryStore) CreateChatSession(_ context.Context, session *models.ChatSession) error {
	m.sessions[session.ID] = session
	return nil
}

func (m *memoryStore) GetChatSession(_ context.Context, id string) (*models.ChatSession, error) {
	session, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s not found", id)
	}
	return session, nil
}

func (m *memoryStore) TouchChatSession(_ context.Context, id string, expiresAt time.Time) error {
	if session, ok := m.sessions[id]; ok {
		session.ExpiresAt = expiresAt
		session.UpdatedAt = time.Now()
	}
	return nil
}

func (m *memoryStore) UpdateChatSessionTitle(_ context.Context, id, title string) error {
	if session, ok := m.sessions[id]; ok {
		session.Title = &title
	}
	return nil
}

func (m *memoryStore) AddChatMessage(_ context.Context, msg *models.ChatMessage) error {
	m.messages[msg.SessionID] = append(m.messages[msg.SessionID], *msg)
	return nil
}

func (m *memoryStore) ListChatMessages(_ context.Context, sessionID string, limit int) ([]models.ChatMessage, error) {
	msgs := m.messages[sessionID]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return msgs, nil
}

func newTestService(store SessionStore, gen ai.Generator, mutator Mutator, insights InsightSource) *Service {
	parser := NewParser(gen, nil)
	dispatcher := NewDispatcher(mutator, insights, "tester", nil)
	return NewService(store, parser, dispatcher, gen, nil)
}

func TestHandleMessage_CreatesSessionAndPersistsTurn(t *testing.T) {
	store := newMemoryStore()
	mutator := &fakeMutator{}
	svc := newTestService(store, nil, mutator, nil)

	resp, err := svc.HandleMessage(context.Background(), "tester", models.ChatRequest{
		Message: "Create a new repo named Foo",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.SessionID)
	require.NotNil(t, resp.Action)
	assert.Equal(t, models.ActionCreateRepo, resp.Action.Type)
	assert.Equal(t, "Foo", resp.Action.Name)
	require.NotNil(t, resp.Result)
	assert.True(t, resp.Result.Success)
	assert.Equal(t, 1, mutator.createRepoCalls)

	msgs := store.messages[resp.SessionID]
	require.Len(t, msgs, 2)
	assert.Equal(t, models.RoleUser, msgs[0].Role)
	assert.Equal(t, models.RoleAssistant, msgs[1].Role)
}

func TestHandleMessage_ReusesSession(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, nil, &fakeMutator{}, nil)

	first, err := svc.HandleMessage(context.Background(), "tester", models.ChatRequest{
		Message: "create a repo called alpha",
	})
	require.NoError(t, err)

	second, err := svc.HandleMessage(context.Background(), "tester", models.ChatRequest{
		SessionID: first.SessionID,
		Message:   "create a repo called beta",
	})
	require.NoError(t, err)

	assert.Equal(t, first.SessionID, second.SessionID)
	assert.Len(t, store.messages[first.SessionID], 4)
}

func TestHandleMessage_ExpiredSessionReplaced(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, nil, &fakeMutator{}, nil)

	store.sessions["stale"] = &models.ChatSession{
		ID:        "stale",
		UserLogin: "tester",
		ExpiresAt: time.Now().Add(-time.Minute),
	}

	resp, err := svc.HandleMessage(context.Background(), "tester", models.ChatRequest{
		SessionID: "stale",
		Message:   "create a repo called gamma",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "stale", resp.SessionID)
}

func TestHandleMessage_OtherUsersSessionNotReused(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, nil, &fakeMutator{}, nil)

	store.sessions["theirs"] = &models.ChatSession{
		ID:        "theirs",
		UserLogin: "someone-else",
		ExpiresAt: time.Now().Add(time.Hour),
	}

	resp, err := svc.HandleMessage(context.Background(), "tester", models.ChatRequest{
		SessionID: "theirs",
		Message:   "create a repo called delta",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "theirs", resp.SessionID)
}

func TestHandleMessage_GeneralResponseUsesGenerator(t *testing.T) {
	gen := &stubGenerator{result: ai.Result{
		Text: `{"action":"general_response","confidence":0.6,"topic":"portfolios"}`,
	}}
	svc := newTestService(newMemoryStore(), gen, nil, nil)

	// First call parses the action, second produces the conversational reply.
	gen.result = ai.Result{Text: `{"action":"general_response","confidence":0.6}`}
	resp, err := svc.HandleMessage(context.Background(), "tester", models.ChatRequest{
		Message: "what makes a strong portfolio?",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, gen.calls)
	assert.Nil(t, resp.Result)
	assert.NotEmpty(t, resp.Content)
}

func TestHandleMessage_CancelledGeneration(t *testing.T) {
	gen := &stubGenerator{result: ai.Result{Cancelled: true}}
	svc := newTestService(newMemoryStore(), gen, nil, nil)

	resp, err := svc.HandleMessage(context.Background(), "tester", models.ChatRequest{
		Message: "tell me about readme best practices",
	})
	require.NoError(t, err, "cancellation is not an error")
	assert.Equal(t, cancelledReply, resp.Content)
}

func TestHandleMessage_EmptyMessageRejected(t *testing.T) {
	svc := newTestService(newMemoryStore(), nil, nil, nil)

	_, err := svc.HandleMessage(context.Background(), "tester", models.ChatRequest{})
	assert.Error(t, err)
}

func TestHandleMessage_SessionTitleFromFirstMessage(t *testing.T) {
	store := newMemoryStore()
	svc := newTestService(store, nil, &fakeMutator{}, nil)

	resp, err := svc.HandleMessage(context.Background(), "tester", models.ChatRequest{
		Message: "create a repo called titled",
	})
	require.NoError(t, err)

	session := store.sessions[resp.SessionID]
	require.NotNil(t, session.Title)
	assert.Equal(t, "create a repo called titled", *session.Title)
}
