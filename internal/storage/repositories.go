package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tailorhq/github-tailor/internal/models"
)

// SaveRepository inserts or updates a synced repository record. The remote
// repository ID is the primary key, so renames update in place.
func (d *Database) SaveRepository(ctx context.Context, record *models.RepositoryRecord) error {
	var existing models.RepositoryRecord
	err := d.db.WithContext(ctx).
		Where("id = ?", record.ID).
		First(&existing).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		if result := d.db.WithContext(ctx).Create(record); result.Error != nil {
			return fmt.Errorf("failed to create repository: %w", result.Error)
		}
		return nil
	} else if err != nil {
		return fmt.Errorf("failed to check existing repository: %w", err)
	}

	// Save replaces every column, so the record must be complete.
	if result := d.db.WithContext(ctx).Save(record); result.Error != nil {
		return fmt.Errorf("failed to update repository: %w", result.Error)
	}
	return nil
}

// GetRepository retrieves a repository by its full name ("owner/repo").
func (d *Database) GetRepository(ctx context.Context, fullName string) (*models.RepositoryRecord, error) {
	var record models.RepositoryRecord
	err := d.db.WithContext(ctx).
		Where("full_name = ?", fullName).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}
	return &record, nil
}

// GetRepositoryByID retrieves a repository by its remote ID.
func (d *Database) GetRepositoryByID(ctx context.Context, id int64) (*models.RepositoryRecord, error) {
	var record models.RepositoryRecord
	err := d.db.WithContext(ctx).
		Where("id = ?", id).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get repository: %w", err)
	}
	return &record, nil
}

// ListRepositories returns all synced repositories, most recently updated
// first.
func (d *Database) ListRepositories(ctx context.Context) ([]models.RepositoryRecord, error) {
	var records []models.RepositoryRecord
	err := d.db.WithContext(ctx).
		Order("updated_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list repositories: %w", err)
	}
	return records, nil
}

// DeleteRepository removes a repository record and its preferences.
func (d *Database) DeleteRepository(ctx context.Context, fullName string) error {
	record, err := d.GetRepository(ctx, fullName)
	if err != nil {
		return err
	}
	if record == nil {
		return nil
	}

	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("repository_id = ?", record.ID).
			Delete(&models.RepositoryPreference{}).Error; err != nil {
			return fmt.Errorf("failed to delete preferences: %w", err)
		}
		if err := tx.Delete(record).Error; err != nil {
			return fmt.Errorf("failed to delete repository: %w", err)
		}
		return nil
	})
}

// PruneRepositoriesSyncedBefore removes records that were not touched by the
// sync that completed at cutoff. Repositories deleted or transferred remotely
// disappear from the local set this way.
func (d *Database) PruneRepositoriesSyncedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := d.db.WithContext(ctx).
		Where("synced_at < ?", cutoff).
		Delete(&models.RepositoryRecord{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to prune repositories: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// CountRepositories returns the number of synced repositories.
func (d *Database) CountRepositories(ctx context.Context) (int64, error) {
	var count int64
	err := d.db.WithContext(ctx).
		Model(&models.RepositoryRecord{}).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count repositories: %w", err)
	}
	return count, nil
}
