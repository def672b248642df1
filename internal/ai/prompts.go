package ai

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tailorhq/github-tailor/internal/models"
)

// Prompts holds the templates sent to the generation API. A YAML file can
// override any of them; empty fields keep the built-in text.
type Prompts struct {
	AnalysisSystem string `yaml:"analysis_system"`
	ReadmeSystem   string `yaml:"readme_system"`
}

// DefaultPrompts returns the built-in templates.
func DefaultPrompts() Prompts {
	return Prompts{
		AnalysisSystem: defaultAnalysisSystem,
		ReadmeSystem:   defaultReadmeSystem,
	}
}

const defaultAnalysisSystem = `You are a technical recruiter reviewing a GitHub repository for a developer portfolio.
Respond in Markdown with exactly these sections:

## Score
A single line "N/10" rating the repository's portfolio value.

## Strengths
A bulleted list of what works well.

## Suggestions
A bulleted list of concrete improvements.

## Resume Bullet
One line the developer could put on a resume.`

const defaultReadmeSystem = `You are a technical writer. Produce a complete README.md in Markdown for the repository described by the user. Include a title, a short description, sections for features, installation, and usage. Output only the Markdown, no commentary.`

// LoadPrompts reads template overrides from a YAML file. A missing path
// returns the defaults.
func LoadPrompts(path string) (Prompts, error) {
	prompts := DefaultPrompts()
	if path == "" {
		return prompts, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return prompts, fmt.Errorf("read prompts file: %w", err)
	}

	var overrides Prompts
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return prompts, fmt.Errorf("parse prompts file: %w", err)
	}

	if overrides.AnalysisSystem != "" {
		prompts.AnalysisSystem = overrides.AnalysisSystem
	}
	if overrides.ReadmeSystem != "" {
		prompts.ReadmeSystem = overrides.ReadmeSystem
	}
	return prompts, nil
}

// AnalysisPrompt renders the user prompt for a repository analysis.
func AnalysisPrompt(s models.RepositorySummary, hasReadme bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Repository: %s\n", s.FullName)
	if s.Description != nil {
		fmt.Fprintf(&b, "Description: %s\n", *s.Description)
	}
	if s.Language != nil {
		fmt.Fprintf(&b, "Primary language: %s\n", *s.Language)
	}
	if len(s.Topics) > 0 {
		fmt.Fprintf(&b, "Topics: %s\n", strings.Join(s.Topics, ", "))
	}
	fmt.Fprintf(&b, "Size: %d KB\n", s.SizeKB)
	fmt.Fprintf(&b, "Stars: %d, Forks: %d, Open issues: %d\n", s.StarCount, s.ForkCount, s.OpenIssueCount)
	fmt.Fprintf(&b, "Last updated: %s\n", s.UpdatedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "Has README: %t\n", hasReadme)
	return b.String()
}

// ReadmePrompt renders the user prompt for README generation, folding in the
// improvement suggestions so the generated text addresses them.
func ReadmePrompt(s models.RepositorySummary, suggestions []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Repository: %s\n", s.FullName)
	if s.Description != nil {
		fmt.Fprintf(&b, "Description: %s\n", *s.Description)
	}
	if s.Language != nil {
		fmt.Fprintf(&b, "Primary language: %s\n", *s.Language)
	}
	if len(s.Topics) > 0 {
		fmt.Fprintf(&b, "Topics: %s\n", strings.Join(s.Topics, ", "))
	}
	if len(suggestions) > 0 {
		b.WriteString("Known gaps to address:\n")
		for _, sg := range suggestions {
			fmt.Fprintf(&b, "- %s\n", sg)
		}
	}
	return b.String()
}
