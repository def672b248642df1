package ai

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/tailorhq/github-tailor/internal/models"
)

// DefaultAnalysisScore is used when no "N/10" rating can be found.
const DefaultAnalysisScore = 75

// defaultResumeLine is the fallback when the model omitted the section.
const defaultResumeLine = "Built and maintained an open-source project on GitHub"

var scorePattern = regexp.MustCompile(`(\d{1,2})\s*/\s*10`)

// ParseAnalysis scrapes the structured view out of a free-text analysis.
// It is total: any shape of input produces a usable result with fallback
// defaults, and no failure ever propagates.
func ParseAnalysis(markdown string) models.ParsedAnalysis {
	parsed := models.ParsedAnalysis{
		Score:      DefaultAnalysisScore,
		ResumeLine: defaultResumeLine,
		Raw:        markdown,
	}

	if m := scorePattern.FindStringSubmatch(markdown); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n >= 0 && n <= 10 {
			// Normalize the N/10 rating to the 0-100 scale the UI uses.
			parsed.Score = n * 10
		}
	}

	parsed.Strengths = sectionBullets(markdown, "strengths")
	parsed.Suggestions = sectionBullets(markdown, "suggestions")

	if line := sectionFirstLine(markdown, "resume bullet"); line != "" {
		parsed.ResumeLine = line
	}

	if len(parsed.Strengths) == 0 {
		parsed.Strengths = []string{"Active open-source project"}
	}
	if len(parsed.Suggestions) == 0 {
		parsed.Suggestions = []string{"Expand the documentation with usage examples"}
	}

	return parsed
}

// sectionLines returns the lines between the named heading and the next one.
// Heading matching is case-insensitive and tolerates any number of '#'.
func sectionLines(markdown, section string) []string {
	lines := strings.Split(markdown, "\n")
	var collected []string
	inSection := false

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isHeading(trimmed) {
			title := strings.ToLower(strings.TrimSpace(strings.TrimLeft(trimmed, "#")))
			inSection = strings.Contains(title, section)
			continue
		}
		if inSection && trimmed != "" {
			collected = append(collected, trimmed)
		}
	}
	return collected
}

// sectionBullets returns the bullet items of a section, with bullet markers
// stripped. Non-bullet lines in the section are kept too: models often skip
// the markers.
func sectionBullets(markdown, section string) []string {
	var items []string
	for _, line := range sectionLines(markdown, section) {
		item := strings.TrimSpace(strings.TrimLeft(line, "-*+ "))
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

// sectionFirstLine returns the first non-empty line of a section, with any
// bullet marker stripped.
func sectionFirstLine(markdown, section string) string {
	lines := sectionBullets(markdown, section)
	if len(lines) == 0 {
		return ""
	}
	return lines[0]
}

func isHeading(line string) bool {
	return strings.HasPrefix(line, "#")
}

// StripCodeFences removes a Markdown code-fence wrapper from a model reply,
// tolerating a language tag after the opening fence.
func StripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.Index(trimmed, "\n"); idx >= 0 {
		// Drop the language tag line ("json", "markdown", ...).
		firstLine := strings.TrimSpace(trimmed[:idx])
		if firstLine != "" && !strings.ContainsAny(firstLine, "{}[]") {
			trimmed = trimmed[idx+1:]
		}
	}
	trimmed = strings.TrimSuffix(strings.TrimSpace(trimmed), "```")
	return strings.TrimSpace(trimmed)
}

// ExtractJSON returns the outermost brace-delimited span of s, for replies
// that wrap JSON in prose.
func ExtractJSON(s string) (string, error) {
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start == -1 || end == -1 || end <= start {
		return "", errors.New("no json braces found")
	}
	return s[start : end+1], nil
}
