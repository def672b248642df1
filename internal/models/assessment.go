package models

import "time"

// ComplexityLevel is the qualitative bucket for a complexity assessment.
type ComplexityLevel string

const (
	ComplexitySimple       ComplexityLevel = "Simple"
	ComplexityIntermediate ComplexityLevel = "Intermediate"
	ComplexityComplex      ComplexityLevel = "Complex"
	ComplexityAdvanced     ComplexityLevel = "Advanced"
)

// ComplexityFactors is the named breakdown behind a contents-based
// assessment. Summary-based assessments leave it nil.
type ComplexityFactors struct {
	Languages     int `json:"languages"`
	FileCount     int `json:"file_count"`
	Dependencies  int `json:"dependencies"`
	Architecture  int `json:"architecture"`
	Documentation int `json:"documentation"`
}

// ComplexityAssessment is derived from exactly one RepositorySummary.
// Two scoring variants produce it on different call paths and their numeric
// scales are not comparable; Source records which one computed it.
type ComplexityAssessment struct {
	Score   int                `json:"score"`
	Level   ComplexityLevel    `json:"level"`
	Factors *ComplexityFactors `json:"factors,omitempty"`
	Source  AssessmentSource   `json:"source"`
}

// AssessmentSource identifies which scoring variant produced an assessment.
type AssessmentSource string

const (
	// AssessmentFromSummary is the 0-100 additive scale computed from
	// cached repository metadata alone.
	AssessmentFromSummary AssessmentSource = "summary"
	// AssessmentFromContents is the raw factor sum computed when the
	// repository's top-level contents were fetched.
	AssessmentFromContents AssessmentSource = "contents"
)

// CompletenessInputs carries the collaborator data completeness scoring
// needs beyond the summary itself.
type CompletenessInputs struct {
	HasReadme bool `json:"has_readme"`
}

// RepositoryInsight bundles everything the dashboard shows for one
// repository: the summary plus all derived scores.
type RepositoryInsight struct {
	Summary      RepositorySummary    `json:"summary"`
	Complexity   ComplexityAssessment `json:"complexity"`
	Completeness int                  `json:"completeness"`
	Suggestions  []string             `json:"suggestions"`
	HasReadme    bool                 `json:"has_readme"`
	Featured     bool                 `json:"featured"`
}

// Recommendation is one ranked entry in a CV recommendation set.
type Recommendation struct {
	Rank     int               `json:"rank"`
	FullName string            `json:"full_name"`
	Score    int               `json:"score"`
	Level    ComplexityLevel   `json:"level"`
	Reason   string            `json:"reason"`
	Summary  RepositorySummary `json:"summary"`
}

// RecommendationSet is the CV-ordered top picks plus improvement pointers
// for repositories held back by missing documentation.
type RecommendationSet struct {
	Recommendations []Recommendation `json:"recommendations"`
	Improvements    []string         `json:"improvements,omitempty"`
	GeneratedAt     time.Time        `json:"generated_at"`
}

// ParsedAnalysis is the structured view scraped from the AI collaborator's
// free-text repository analysis. Every field has a fallback default, so
// parsing is total: malformed model output never propagates an error.
type ParsedAnalysis struct {
	Score       int      `json:"score"`
	Strengths   []string `json:"strengths"`
	Suggestions []string `json:"suggestions"`
	ResumeLine  string   `json:"resume_line"`
	Raw         string   `json:"raw"`
}
