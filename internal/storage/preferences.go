package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tailorhq/github-tailor/internal/models"
)

// GetPreference retrieves one user's preference row for a repository, or nil
// when none exists yet.
func (d *Database) GetPreference(ctx context.Context, userLogin string, repositoryID int64) (*models.RepositoryPreference, error) {
	var pref models.RepositoryPreference
	err := d.db.WithContext(ctx).
		Where("user_login = ? AND repository_id = ?", userLogin, repositoryID).
		First(&pref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}
	return &pref, nil
}

// ListPreferences returns all of a user's preference rows.
func (d *Database) ListPreferences(ctx context.Context, userLogin string) ([]models.RepositoryPreference, error) {
	var prefs []models.RepositoryPreference
	err := d.db.WithContext(ctx).
		Where("user_login = ?", userLogin).
		Order("priority_order ASC").
		Find(&prefs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list preferences: %w", err)
	}
	return prefs, nil
}

// SavePreference inserts or updates a preference row, keyed by
// (user_login, repository_id).
func (d *Database) SavePreference(ctx context.Context, pref *models.RepositoryPreference) error {
	existing, err := d.GetPreference(ctx, pref.UserLogin, pref.RepositoryID)
	if err != nil {
		return err
	}

	now := time.Now()
	pref.UpdatedAt = now
	if existing == nil {
		pref.CreatedAt = now
		if result := d.db.WithContext(ctx).Create(pref); result.Error != nil {
			return fmt.Errorf("failed to create preference: %w", result.Error)
		}
		return nil
	}

	pref.ID = existing.ID
	pref.CreatedAt = existing.CreatedAt
	if result := d.db.WithContext(ctx).Save(pref); result.Error != nil {
		return fmt.Errorf("failed to update preference: %w", result.Error)
	}
	return nil
}

// SetPriorityOrder records a manual ordering: position i in repositoryIDs
// becomes priority i+1. Repositories without a row get one.
func (d *Database) SetPriorityOrder(ctx context.Context, userLogin string, repositoryIDs []int64) error {
	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, repoID := range repositoryIDs {
			order := i + 1
			result := tx.Model(&models.RepositoryPreference{}).
				Where("user_login = ? AND repository_id = ?", userLogin, repoID).
				Update("priority_order", order)
			if result.Error != nil {
				return fmt.Errorf("failed to set priority for %d: %w", repoID, result.Error)
			}
			if result.RowsAffected == 0 {
				pref := models.RepositoryPreference{
					UserLogin:     userLogin,
					RepositoryID:  repoID,
					PriorityOrder: order,
					CreatedAt:     time.Now(),
					UpdatedAt:     time.Now(),
				}
				if err := tx.Create(&pref).Error; err != nil {
					return fmt.Errorf("failed to create priority row for %d: %w", repoID, err)
				}
			}
		}
		return nil
	})
}

// SetFeatured toggles the featured flag, creating the row when needed.
func (d *Database) SetFeatured(ctx context.Context, userLogin string, repositoryID int64, featured bool) error {
	pref, err := d.GetPreference(ctx, userLogin, repositoryID)
	if err != nil {
		return err
	}
	if pref == nil {
		pref = &models.RepositoryPreference{
			UserLogin:    userLogin,
			RepositoryID: repositoryID,
		}
	}
	pref.Featured = featured
	return d.SavePreference(ctx, pref)
}

// SaveAnalysis caches an AI analysis for a repository, stamping the
// repository state it was computed against so a later push invalidates it.
func (d *Database) SaveAnalysis(ctx context.Context, userLogin string, repositoryID int64, analysis string, pushedAt time.Time) error {
	pref, err := d.GetPreference(ctx, userLogin, repositoryID)
	if err != nil {
		return err
	}
	if pref == nil {
		pref = &models.RepositoryPreference{
			UserLogin:    userLogin,
			RepositoryID: repositoryID,
		}
	}

	now := time.Now()
	pref.Analysis = &analysis
	pref.AnalyzedAt = &now
	pref.AnalyzedPushedAt = &pushedAt
	return d.SavePreference(ctx, pref)
}

// CachedAnalysis returns the stored analysis when it is still current, that
// is, when the repository has not been pushed to since it was computed.
func (d *Database) CachedAnalysis(ctx context.Context, userLogin string, repositoryID int64, pushedAt time.Time) (string, bool, error) {
	pref, err := d.GetPreference(ctx, userLogin, repositoryID)
	if err != nil {
		return "", false, err
	}
	if pref == nil || pref.Analysis == nil || pref.AnalyzedPushedAt == nil {
		return "", false, nil
	}
	if pushedAt.After(*pref.AnalyzedPushedAt) {
		return "", false, nil
	}
	return *pref.Analysis, true, nil
}
