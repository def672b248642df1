package storage

import (
	"testing"

	"github.com/tailorhq/github-tailor/internal/config"
)

func setupTestDB(t *testing.T) *Database {
	t.Helper()

	dbCfg := config.DatabaseConfig{
		Type: "sqlite",
		DSN:  ":memory:",
	}

	db, err := NewDatabase(dbCfg)
	if err != nil {
		t.Fatalf("Failed to create database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}

	return db
}

func TestNewDatabase_UnsupportedType(t *testing.T) {
	_, err := NewDatabase(config.DatabaseConfig{Type: "oracle", DSN: "x"})
	if err == nil {
		t.Fatal("expected error for unsupported database type")
	}
}

func TestNewDialectDialer(t *testing.T) {
	tests := []struct {
		dbType  string
		wantErr bool
	}{
		{"sqlite", false},
		{"postgres", false},
		{"postgresql", false},
		{"sqlserver", false},
		{"mssql", false},
		{"mysql", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.dbType, func(t *testing.T) {
			_, err := NewDialectDialer(config.DatabaseConfig{Type: tt.dbType, DSN: "dsn"})
			if (err != nil) != tt.wantErr {
				t.Errorf("NewDialectDialer(%q) error = %v, wantErr %v", tt.dbType, err, tt.wantErr)
			}
		})
	}
}
