// Package models defines the domain types shared across the application.
package models

import (
	"time"
)

// RepositorySummary is the normalized, read-mostly view of one remote
// repository. It is an immutable value object: the normalizer re-derives it
// on every sync and nothing mutates it in place.
type RepositorySummary struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	FullName    string   `json:"full_name"`
	Description *string  `json:"description,omitempty"`
	Language    *string  `json:"language,omitempty"`
	Topics      []string `json:"topics,omitempty"`
	SizeKB      int64    `json:"size_kb"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	PushedAt  time.Time `json:"pushed_at"`

	StarCount      int `json:"star_count"`
	ForkCount      int `json:"fork_count"`
	OpenIssueCount int `json:"open_issue_count"`

	IsPrivate        bool `json:"is_private"`
	HasIssuesEnabled bool `json:"has_issues_enabled"`
	HasWiki          bool `json:"has_wiki"`
	IsArchived       bool `json:"is_archived"`
	IsDisabled       bool `json:"is_disabled"`
}

// HasDescription reports whether the summary carries a usable description
// (longer than 10 characters, matching the completeness predicate).
func (s *RepositorySummary) HasDescription() bool {
	return s.Description != nil && len(*s.Description) > 10
}

// PrimaryLanguage returns the language or "" when GitHub reported none.
func (s *RepositorySummary) PrimaryLanguage() string {
	if s.Language == nil {
		return ""
	}
	return *s.Language
}

// RepositoryRecord is the persisted form of a synced repository plus the
// enrichment data fetched alongside it (language breakdown, README flag).
type RepositoryRecord struct {
	ID          int64   `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Name        string  `json:"name" gorm:"not null"`
	FullName    string  `json:"full_name" gorm:"uniqueIndex;not null"`
	Description *string `json:"description,omitempty"`
	Language    *string `json:"language,omitempty"`
	// Topics is stored as a comma-separated list; order is irrelevant.
	Topics string `json:"topics" gorm:"type:text"`
	SizeKB int64  `json:"size_kb" gorm:"default:0"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	PushedAt  time.Time `json:"pushed_at"`

	StarCount      int `json:"star_count" gorm:"default:0"`
	ForkCount      int `json:"fork_count" gorm:"default:0"`
	OpenIssueCount int `json:"open_issue_count" gorm:"default:0"`

	IsPrivate        bool `json:"is_private" gorm:"default:false"`
	HasIssuesEnabled bool `json:"has_issues_enabled" gorm:"default:false"`
	HasWiki          bool `json:"has_wiki" gorm:"default:false"`
	IsArchived       bool `json:"is_archived" gorm:"default:false"`
	IsDisabled       bool `json:"is_disabled" gorm:"default:false"`

	// Enrichment from optional per-repository calls during sync.
	LanguageCount int  `json:"language_count" gorm:"default:0"`
	HasReadme     bool `json:"has_readme" gorm:"default:false"`

	SyncedAt time.Time `json:"synced_at"`
}

// TableName specifies the table name for RepositoryRecord
func (RepositoryRecord) TableName() string { return "repositories" }

// RepositoryContents is the top-level content listing used by the
// contents-based complexity variant.
type RepositoryContents struct {
	// Files holds the names of top-level entries (files and directories).
	Files []string `json:"files"`
	// Languages maps language name to byte count, from the languages endpoint.
	Languages map[string]int `json:"languages"`
}

// RepositoryPreference stores per-user presentation state for one repository:
// manual ordering, notes, a featured flag, and the cached AI analysis.
type RepositoryPreference struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	UserLogin     string     `json:"user_login" gorm:"uniqueIndex:idx_pref_user_repo;not null"`
	RepositoryID  int64      `json:"repository_id" gorm:"uniqueIndex:idx_pref_user_repo;not null"`
	PriorityOrder int        `json:"priority_order" gorm:"default:0"`
	Notes         *string    `json:"notes,omitempty" gorm:"type:text"`
	Featured      bool       `json:"featured" gorm:"default:false"`
	Analysis      *string    `json:"analysis,omitempty" gorm:"type:text"`
	AnalyzedAt    *time.Time `json:"analyzed_at,omitempty"`
	// AnalyzedPushedAt records the repository's pushed_at at analysis time,
	// so a later push invalidates the cached analysis.
	AnalyzedPushedAt *time.Time `json:"analyzed_pushed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// TableName specifies the table name for RepositoryPreference
func (RepositoryPreference) TableName() string { return "repository_preferences" }
