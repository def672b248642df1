package ai

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tailorhq/github-tailor/internal/models"
)

func TestLoadPrompts_NoFile(t *testing.T) {
	prompts, err := LoadPrompts("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPrompts(), prompts)
}

func TestLoadPrompts_Overrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prompts.yaml")
	content := "analysis_system: |\n  Custom analysis instructions.\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	prompts, err := LoadPrompts(path)
	require.NoError(t, err)

	assert.Contains(t, prompts.AnalysisSystem, "Custom analysis instructions")
	assert.Equal(t, DefaultPrompts().ReadmeSystem, prompts.ReadmeSystem,
		"unset fields keep the built-in text")
}

func TestLoadPrompts_MissingFile(t *testing.T) {
	_, err := LoadPrompts("/does/not/exist.yaml")
	assert.Error(t, err)
}

func TestAnalysisPrompt(t *testing.T) {
	desc := "An HTTP toolkit"
	lang := "Go"
	s := models.RepositorySummary{
		FullName:    "octocat/toolkit",
		Description: &desc,
		Language:    &lang,
		Topics:      []string{"http", "toolkit"},
		SizeKB:      420,
		StarCount:   12,
	}

	prompt := AnalysisPrompt(s, true)

	assert.Contains(t, prompt, "octocat/toolkit")
	assert.Contains(t, prompt, "An HTTP toolkit")
	assert.Contains(t, prompt, "Go")
	assert.Contains(t, prompt, "http, toolkit")
	assert.Contains(t, prompt, "Has README: true")
}

func TestReadmePrompt_IncludesSuggestions(t *testing.T) {
	s := models.RepositorySummary{FullName: "octocat/bare"}
	prompt := ReadmePrompt(s, []string{"Add topics so the repository is easier to discover"})

	assert.Contains(t, prompt, "octocat/bare")
	assert.Contains(t, prompt, "Known gaps")
	assert.Contains(t, prompt, "easier to discover")
}
