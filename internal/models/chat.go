package models

import (
	"time"
)

// ActionType enumerates the typed actions a chat message can resolve to.
type ActionType string

const (
	ActionCreateRepo        ActionType = "create_repo"
	ActionCreateFile        ActionType = "create_file"
	ActionDeleteRepo        ActionType = "delete_repo"
	ActionSortRepos         ActionType = "sort_repos"
	ActionAnalyzeComplexity ActionType = "analyze_complexity"
	ActionCvRecommendations ActionType = "cv_recommendations"
	ActionGeneralResponse   ActionType = "general_response"
)

// Valid reports whether t is one of the known action types.
func (t ActionType) Valid() bool {
	switch t {
	case ActionCreateRepo, ActionCreateFile, ActionDeleteRepo, ActionSortRepos,
		ActionAnalyzeComplexity, ActionCvRecommendations, ActionGeneralResponse:
		return true
	}
	return false
}

// ChatAction is the tagged union produced by the command parser. It is
// constructed once per user message and consumed immediately by the
// dispatcher; it is never persisted. The flat shape mirrors the JSON the
// model is instructed to emit, with per-variant fields left zero when they
// do not apply.
type ChatAction struct {
	Type       ActionType `json:"action"`
	Confidence float64    `json:"confidence"`

	// create_repo
	Name              string `json:"name,omitempty"`
	Description       string `json:"description,omitempty"`
	IsPrivate         bool   `json:"is_private,omitempty"`
	GitignoreTemplate string `json:"gitignore_template,omitempty"`
	LicenseTemplate   string `json:"license_template,omitempty"`

	// create_file
	Repo          string `json:"repo,omitempty"`
	Path          string `json:"path,omitempty"`
	Content       string `json:"content,omitempty"`
	CommitMessage string `json:"commit_message,omitempty"`

	// delete_repo
	Confirmed bool `json:"confirmed,omitempty"`

	// sort_repos
	Criterion string `json:"criterion,omitempty"`
	Direction string `json:"direction,omitempty"`

	// analyze_complexity
	AnalyzeAll bool `json:"analyze_all,omitempty"`

	// cv_recommendations
	TargetJob string `json:"target_job,omitempty"`

	// general_response
	Topic string `json:"topic,omitempty"`
}

// DispatchResult is the user-facing outcome of dispatching one action.
// Every dispatch path produces one; failures become {Success:false, Message}
// rather than errors.
type DispatchResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	// NeedsConfirmation marks the first step of a destructive action's
	// two-step confirmation, distinct from a failure.
	NeedsConfirmation bool   `json:"needs_confirmation,omitempty"`
	URL               string `json:"url,omitempty"`
	// Repos carries the reordered collection for sort actions.
	Repos []RepositorySummary `json:"repos,omitempty"`
	// Recommendations carries the result of a cv_recommendations action.
	Recommendations *RecommendationSet `json:"recommendations,omitempty"`
	// Insights carries complexity analysis results.
	Insights []RepositoryInsight `json:"insights,omitempty"`
}

// ChatSession groups the messages of one assistant conversation.
type ChatSession struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserLogin string    `json:"user_login" gorm:"not null"`
	Title     *string   `json:"title,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	ExpiresAt time.Time `json:"expires_at"`

	Messages []ChatMessage `json:"messages,omitempty" gorm:"foreignKey:SessionID;references:ID"`
}

// TableName specifies the table name for ChatSession
func (ChatSession) TableName() string { return "chat_sessions" }

// IsExpired returns true if the session has expired.
func (s *ChatSession) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// ChatMessage is a single turn in a chat session.
type ChatMessage struct {
	ID        int64     `json:"id" gorm:"primaryKey"`
	SessionID string    `json:"session_id" gorm:"index;not null"`
	Role      string    `json:"role" gorm:"not null"` // "user" or "assistant"
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for ChatMessage
func (ChatMessage) TableName() string { return "chat_messages" }

// MessageRole constants
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// ChatRequest is the API request to send a message to the assistant.
type ChatRequest struct {
	SessionID string `json:"session_id,omitempty"` // empty to create a new session
	Message   string `json:"message"`
}

// ChatResponse is the API response for one assistant turn.
type ChatResponse struct {
	SessionID string          `json:"session_id"`
	Content   string          `json:"content"`
	Action    *ChatAction     `json:"action,omitempty"`
	Result    *DispatchResult `json:"result,omitempty"`
}
