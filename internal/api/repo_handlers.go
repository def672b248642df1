package api

import (
	"net/http"
	"time"

	"github.com/tailorhq/github-tailor/internal/models"
	"github.com/tailorhq/github-tailor/internal/score"
)

func (s *Server) handleListRepositories(w http.ResponseWriter, r *http.Request) {
	items, err := s.insights.Insights(r.Context())
	if err != nil {
		s.logger.Error("listing repository insights failed", "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to load repositories")
		return
	}

	// Optional server-side sorting via query parameters.
	if criterionParam := r.URL.Query().Get("sort"); criterionParam != "" {
		criterion, err := models.ParseSortCriterion(criterionParam)
		if err != nil {
			s.sendError(w, http.StatusBadRequest, err.Error())
			return
		}
		direction, err := models.ParseSortDirection(r.URL.Query().Get("direction"))
		if err != nil {
			s.sendError(w, http.StatusBadRequest, err.Error())
			return
		}
		items = score.Sort(items, criterion, direction)
	}

	s.sendJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetRepository(w http.ResponseWriter, r *http.Request) {
	insight, err := s.insights.Insight(r.Context(), fullNameFromPath(r))
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "Failed to load repository")
		return
	}
	if insight == nil {
		s.sendError(w, http.StatusNotFound, "Repository is not synced")
		return
	}
	s.sendJSON(w, http.StatusOK, insight)
}

func (s *Server) handleSync(w http.ResponseWriter, r *http.Request) {
	if s.syncer == nil {
		s.sendError(w, http.StatusServiceUnavailable, "Sync is not configured")
		return
	}

	if err := s.syncer.SyncOnce(r.Context()); err != nil {
		if s.syncer.IsSyncing() {
			s.sendError(w, http.StatusConflict, "A sync is already running")
			return
		}
		s.logger.Error("manual sync failed", "error", err)
		s.sendUpstreamError(w, err)
		return
	}

	s.sendJSON(w, http.StatusOK, map[string]any{"synced_at": s.syncer.LastSync()})
}

// handleDeepComplexity fetches the repository's top-level contents and
// language breakdown, then scores with the contents-based variant.
func (s *Server) handleDeepComplexity(w http.ResponseWriter, r *http.Request) {
	if s.contents == nil {
		s.sendError(w, http.StatusServiceUnavailable, "GitHub access is not configured")
		return
	}

	fullName := fullNameFromPath(r)
	insight, err := s.insights.Insight(r.Context(), fullName)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "Failed to load repository")
		return
	}
	if insight == nil {
		s.sendError(w, http.StatusNotFound, "Repository is not synced")
		return
	}

	owner, repo := r.PathValue("owner"), r.PathValue("repo")
	files, err := s.contents.ListTopLevelContents(r.Context(), owner, repo)
	if err != nil {
		s.sendUpstreamError(w, err)
		return
	}
	langs, err := s.contents.ListLanguages(r.Context(), owner, repo)
	if err != nil {
		s.sendUpstreamError(w, err)
		return
	}

	contents := models.RepositoryContents{Files: files, Languages: langs}
	assessment := score.ScoreComplexityFromContents(insight.Summary, contents)
	s.sendJSON(w, http.StatusOK, assessment)
}

func (s *Server) handleSuggestions(w http.ResponseWriter, r *http.Request) {
	insight, err := s.insights.Insight(r.Context(), fullNameFromPath(r))
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "Failed to load repository")
		return
	}
	if insight == nil {
		s.sendError(w, http.StatusNotFound, "Repository is not synced")
		return
	}
	s.sendJSON(w, http.StatusOK, insight.Suggestions)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	items, err := s.insights.Insights(r.Context())
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "Failed to load repositories")
		return
	}
	if len(items) == 0 {
		s.sendError(w, http.StatusNotFound, "No repository data yet. Run a sync first.")
		return
	}
	s.sendJSON(w, http.StatusOK, score.Recommend(items, time.Now()))
}

type reorderRequest struct {
	RepositoryIDs []int64 `json:"repository_ids"`
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if len(req.RepositoryIDs) == 0 {
		s.sendError(w, http.StatusBadRequest, "repository_ids is required")
		return
	}

	if err := s.db.SetPriorityOrder(r.Context(), s.owner, req.RepositoryIDs); err != nil {
		s.logger.Error("reorder failed", "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to save ordering")
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]int{"reordered": len(req.RepositoryIDs)})
}

type notesRequest struct {
	Notes string `json:"notes"`
}

func (s *Server) handleNotes(w http.ResponseWriter, r *http.Request) {
	var req notesRequest
	if !s.decodeJSON(w, r, &req) {
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

	pref, err := s.db.GetPreference(r.Context(), s.owner, rec.ID)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "Failed to load preference")
		return
	}
	if pref == nil {
		pref = &models.RepositoryPreference{UserLogin: s.owner, RepositoryID: rec.ID}
	}
	pref.Notes = &req.Notes

	if err := s.db.SavePreference(r.Context(), pref); err != nil {
		s.sendError(w, http.StatusInternalServerError, "Failed to save notes")
		return
	}
	s.sendJSON(w, http.StatusOK, pref)
}

type featuredRequest struct {
	Featured bool `json:"featured"`
}

func (s *Server) handleFeatured(w http.ResponseWriter, r *http.Request) {
	var req featuredRequest
	if !s.decodeJSON(w, r, &req) {
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

	if err := s.db.SetFeatured(r.Context(), s.owner, rec.ID, req.Featured); err != nil {
		s.sendError(w, http.StatusInternalServerError, "Failed to update featured flag")
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]bool{"featured": req.Featured})
}
