package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tailorhq/github-tailor/internal/models"
)

// CreateChatSession persists a new chat session.
func (d *Database) CreateChatSession(ctx context.Context, session *models.ChatSession) error {
	if result := d.db.WithContext(ctx).Create(session); result.Error != nil {
		return fmt.Errorf("failed to create chat session: %w", result.Error)
	}
	return nil
}

// GetChatSession retrieves a session by ID.
func (d *Database) GetChatSession(ctx context.Context, id string) (*models.ChatSession, error) {
	var session models.ChatSession
	err := d.db.WithContext(ctx).
		Where("id = ?", id).
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("chat session %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chat session: %w", err)
	}
	return &session, nil
}

// TouchChatSession extends a session's expiry after activity.
func (d *Database) TouchChatSession(ctx context.Context, id string, expiresAt time.Time) error {
	result := d.db.WithContext(ctx).
		Model(&models.ChatSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"expires_at": expiresAt,
			"updated_at": time.Now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to touch chat session: %w", result.Error)
	}
	return nil
}

// UpdateChatSessionTitle sets the session title, usually derived from the
// first message.
func (d *Database) UpdateChatSessionTitle(ctx context.Context, id, title string) error {
	result := d.db.WithContext(ctx).
		Model(&models.ChatSession{}).
		Where("id = ?", id).
		Update("title", title)
	if result.Error != nil {
		return fmt.Errorf("failed to update chat session title: %w", result.Error)
	}
	return nil
}

// ListChatSessions returns a user's sessions, newest first.
func (d *Database) ListChatSessions(ctx context.Context, userLogin string) ([]models.ChatSession, error) {
	var sessions []models.ChatSession
	err := d.db.WithContext(ctx).
		Where("user_login = ?", userLogin).
		Order("updated_at DESC").
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list chat sessions: %w", err)
	}
	return sessions, nil
}

// DeleteChatSession removes one session and its messages. Deleting a
// missing session is a no-op.
func (d *Database) DeleteChatSession(ctx context.Context, id string) error {
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).
			Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.ChatSession{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete chat session: %w", err)
	}
	return nil
}

// DeleteExpiredChatSessions removes sessions past their expiry along with
// their messages. Returns the number of sessions removed.
func (d *Database) DeleteExpiredChatSessions(ctx context.Context) (int64, error) {
	var removed int64
	err := d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&models.ChatSession{}).
			Where("expires_at < ?", time.Now()).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Where("session_id IN ?", ids).
			Delete(&models.ChatMessage{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&models.ChatSession{})
		if result.Error != nil {
			return result.Error
		}
		removed = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired chat sessions: %w", err)
	}
	return removed, nil
}

// AddChatMessage appends one message to a session.
func (d *Database) AddChatMessage(ctx context.Context, msg *models.ChatMessage) error {
	if result := d.db.WithContext(ctx).Create(msg); result.Error != nil {
		return fmt.Errorf("failed to add chat message: %w", result.Error)
	}
	return nil
}

// ListChatMessages returns a session's messages oldest first. A positive
// limit returns only the most recent messages, still in chronological order.
func (d *Database) ListChatMessages(ctx context.Context, sessionID string, limit int) ([]models.ChatMessage, error) {
	query := d.db.WithContext(ctx).
		Where("session_id = ?", sessionID)

	if limit > 0 {
		// Fetch the newest N, then flip them back to chronological order.
		var newest []models.ChatMessage
		err := query.Order("id DESC").Limit(limit).Find(&newest).Error
		if err != nil {
			return nil, fmt.Errorf("failed to list chat messages: %w", err)
		}
		for i, j := 0, len(newest)-1; i < j; i, j = i+1, j-1 {
			newest[i], newest[j] = newest[j], newest[i]
		}
		return newest, nil
	}

	var messages []models.ChatMessage
	if err := query.Order("id ASC").Find(&messages).Error; err != nil {
		return nil, fmt.Errorf("failed to list chat messages: %w", err)
	}
	return messages, nil
}
