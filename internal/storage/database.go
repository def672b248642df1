// Package storage persists synced repositories, per-user presentation
// preferences, and chat sessions.
package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tailorhq/github-tailor/internal/config"
	"github.com/tailorhq/github-tailor/internal/models"
)

// Database wraps the GORM connection and exposes the typed accessors the
// rest of the application uses.
type Database struct {
	db  *gorm.DB
	cfg config.DatabaseConfig
}

// NewDatabase opens a connection using the configured dialect.
func NewDatabase(cfg config.DatabaseConfig) (*Database, error) {
	// Ensure data directory exists for SQLite
	if cfg.Type == "sqlite" && cfg.DSN != ":memory:" {
		dir := filepath.Dir(cfg.DSN)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	dialer, err := NewDialectDialer(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialer.Dialect(), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := dialer.ConfigureConnection(db); err != nil {
		return nil, err
	}

	return &Database{db: db, cfg: cfg}, nil
}

// Migrate creates or updates the schema for all persisted models.
func (d *Database) Migrate() error {
	err := d.db.AutoMigrate(
		&models.RepositoryRecord{},
		&models.RepositoryPreference{},
		&models.ChatSession{},
		&models.ChatMessage{},
	)
	if err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

// Close closes the underlying connection pool.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// DB exposes the GORM handle for callers that need raw access.
func (d *Database) DB() *gorm.DB {
	return d.db
}
