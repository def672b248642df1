package api

import (
	"net/http"
	"time"

	"github.com/tailorhq/github-tailor/internal/ai"
	"github.com/tailorhq/github-tailor/internal/models"
	"github.com/tailorhq/github-tailor/internal/score"
)

// analysisResponse is the payload of the analyze endpoints. Cancelled marks
// a request the client aborted; it is not a failure.
type analysisResponse struct {
	FullName  string                 `json:"full_name"`
	Analysis  *models.ParsedAnalysis `json:"analysis,omitempty"`
	Cached    bool                   `json:"cached,omitempty"`
	Cancelled bool                   `json:"cancelled,omitempty"`
}

func (s *Server) handleAnalyzeOne(w http.ResponseWriter, r *http.Request) {
	rec, err := s.db.GetRepository(r.Context(), fullNameFromPath(r))
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "Failed to load repository")
		return
	}
	if rec == nil {
		s.sendError(w, http.StatusNotFound, "Repository is not synced")
		return
	}

	force := r.URL.Query().Get("force") == "true"
	resp, ok := s.analyzeRecord(r, rec, force)
	if !ok {
		s.sendError(w, http.StatusServiceUnavailable, "AI analysis is not configured")
		return
	}
	s.sendJSON(w, http.StatusOK, resp)
}

// analyzeRecord runs one repository analysis, honoring the cache unless
// force is set. It reports ok=false only when no generator is configured
// and the cache cannot answer.
func (s *Server) analyzeRecord(r *http.Request, rec *models.RepositoryRecord, force bool) (analysisResponse, bool) {
	ctx := r.Context()
	resp := analysisResponse{FullName: rec.FullName}

	if !force {
		cached, ok, err := s.db.CachedAnalysis(ctx, s.owner, rec.ID, rec.PushedAt)
		if err == nil && ok {
			parsed := ai.ParseAnalysis(cached)
			resp.Analysis = &parsed
			resp.Cached = true
			return resp, true
		}
	}

	if s.gen == nil {
		return resp, false
	}

	summary := score.SummaryFromRecord(rec)
	result, err := s.gen.Generate(ctx, s.prompts.AnalysisSystem, nil,
		ai.AnalysisPrompt(summary, rec.HasReadme))
	if err != nil {
		s.logger.Error("analysis generation failed", "repo", rec.FullName, "error", err)
		// The parser is total: an empty input yields the default analysis.
		parsed := ai.ParseAnalysis("")
		resp.Analysis = &parsed
		return resp, true
	}
	if result.Cancelled {
		resp.Cancelled = true
		return resp, true
	}

	parsed := ai.ParseAnalysis(result.Text)
	resp.Analysis = &parsed

	if err := s.db.SaveAnalysis(ctx, s.owner, rec.ID, result.Text, rec.PushedAt); err != nil {
		s.logger.Warn("caching analysis failed", "repo", rec.FullName, "error", err)
	}
	return resp, true
}

func (s *Server) handleAnalyzeAll(w http.ResponseWriter, r *http.Request) {
	if s.gen == nil {
		s.sendError(w, http.StatusServiceUnavailable, "AI analysis is not configured")
		return
	}

	records, err := s.db.ListRepositories(r.Context())
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "Failed to load repositories")
		return
	}
	if len(records) == 0 {
		s.sendError(w, http.StatusNotFound, "No repository data yet. Run a sync first.")
		return
	}

	results := make([]analysisResponse, 0, len(records))
	for i := range records {
		if r.Context().Err() != nil {
			break
		}
		resp, _ := s.analyzeRecord(r, &records[i], false)
		results = append(results, resp)
		if resp.Cancelled {
			break
		}
	}

	s.sendJSON(w, http.StatusOK, results)
}

// readmeResponse carries a generated README draft.
type readmeResponse struct {
	FullName  string `json:"full_name"`
	Markdown  string `json:"markdown,omitempty"`
	Cancelled bool   `json:"cancelled,omitempty"`
}

func (s *Server) handleGenerateReadme(w http.ResponseWriter, r *http.Request) {
	if s.gen == nil {
		s.sendError(w, http.StatusServiceUnavailable, "AI generation is not configured")
		return
	}

	rec, err := s.db.GetRepository(r.Context(), fullNameFromPath(r))
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "Failed to load repository")
		return
	}
	if rec == nil {
		s.sendError(w, http.StatusNotFound, "Repository is not synced")
		return
	}

	summary := score.SummaryFromRecord(rec)
	suggestions := score.Suggest(summary, models.CompletenessInputs{HasReadme: rec.HasReadme}, time.Now())

	result, err := s.gen.Generate(r.Context(), s.prompts.ReadmeSystem, nil,
		ai.ReadmePrompt(summary, suggestions))
	if err != nil {
		s.logger.Error("readme generation failed", "repo", rec.FullName, "error", err)
		s.sendError(w, http.StatusBadGateway, "README generation failed")
		return
	}

	resp := readmeResponse{FullName: rec.FullName}
	if result.Cancelled {
		resp.Cancelled = true
	} else {
		resp.Markdown = ai.StripCodeFences(result.Text)
	}
	s.sendJSON(w, http.StatusOK, resp)
}
