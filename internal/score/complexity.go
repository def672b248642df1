package score

import (
	"strings"

	"github.com/tailorhq/github-tailor/internal/models"
)

// complexLanguages earn the language bonus in the summary-based score.
var complexLanguages = map[string]bool{
	"C++":  true,
	"Rust": true,
	"Go":   true,
	"Java": true,
	"C#":   true,
}

// Caps for the summary-based sub-factors.
const (
	languageDiversityCap = 25
	starBonusCap         = 20
	forkBonusCap         = 15
)

// ScoreComplexityFromSummary computes the 0-100 additive complexity score
// from cached repository metadata alone. langCount is the number of distinct
// languages from the per-language-bytes breakdown; pass 0 when that call was
// skipped or failed, which contributes nothing to the score.
//
// This scale and the contents-based one below measure different things with
// different inputs; they are deliberately separate functions and their
// numbers are not comparable.
func ScoreComplexityFromSummary(s models.RepositorySummary, langCount int) models.ComplexityAssessment {
	score := 0

	// Size tier
	switch {
	case s.SizeKB > 10000:
		score += 30
	case s.SizeKB > 1000:
		score += 20
	default:
		score += 10
	}

	if complexLanguages[s.PrimaryLanguage()] {
		score += 20
	}

	score += minInt(langCount*5, languageDiversityCap)
	score += minInt(s.StarCount*2, starBonusCap)
	score += minInt(s.ForkCount*3, forkBonusCap)

	score = clamp(score, 0, 100)

	return models.ComplexityAssessment{
		Score:  score,
		Level:  levelFromScore(score),
		Source: models.AssessmentFromSummary,
	}
}

// levelFromScore buckets the 0-100 summary-based score.
func levelFromScore(score int) models.ComplexityLevel {
	switch {
	case score < 40:
		return models.ComplexitySimple
	case score < 60:
		return models.ComplexityIntermediate
	case score < 80:
		return models.ComplexityComplex
	default:
		return models.ComplexityAdvanced
	}
}

// dependencyManifests are the markers counted by the contents-based variant.
var dependencyManifests = map[string]bool{
	"package.json":     true,
	"requirements.txt": true,
	"Cargo.toml":       true,
	"pom.xml":          true,
}

// ScoreComplexityFromContents computes the raw factor-sum assessment used
// when the repository's top-level contents were fetched. The sum is small
// (typically under 20) and is bucketed by its own thresholds.
func ScoreComplexityFromContents(s models.RepositorySummary, contents models.RepositoryContents) models.ComplexityAssessment {
	factors := models.ComplexityFactors{
		Languages: len(contents.Languages),
		FileCount: minInt(len(contents.Files)/5, 5),
	}

	for _, f := range contents.Files {
		if dependencyManifests[f] {
			factors.Dependencies += 2
		}
	}

	switch {
	case len(contents.Files) > 10:
		factors.Architecture = 3
	case len(contents.Files) > 5:
		factors.Architecture = 2
	default:
		factors.Architecture = 1
	}

	for _, f := range contents.Files {
		if isReadmeFile(f) {
			factors.Documentation = 2
			break
		}
	}

	score := factors.Languages + factors.FileCount + factors.Dependencies +
		factors.Architecture + factors.Documentation

	return models.ComplexityAssessment{
		Score:   score,
		Level:   levelFromFactorSum(score),
		Factors: &factors,
		Source:  models.AssessmentFromContents,
	}
}

// levelFromFactorSum buckets the contents-based factor sum.
func levelFromFactorSum(sum int) models.ComplexityLevel {
	switch {
	case sum <= 5:
		return models.ComplexitySimple
	case sum <= 10:
		return models.ComplexityIntermediate
	case sum <= 15:
		return models.ComplexityComplex
	default:
		return models.ComplexityAdvanced
	}
}

// ScoreComplexity applies the precedence rule between the two variants:
// the contents-based assessment wins when contents were actually fetched,
// otherwise the summary-based one is used.
func ScoreComplexity(s models.RepositorySummary, langCount int, contents *models.RepositoryContents) models.ComplexityAssessment {
	if contents != nil && len(contents.Files) > 0 {
		return ScoreComplexityFromContents(s, *contents)
	}
	return ScoreComplexityFromSummary(s, langCount)
}

// isReadmeFile matches README-like names regardless of extension or case.
func isReadmeFile(name string) bool {
	return strings.HasPrefix(strings.ToUpper(name), "README")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
