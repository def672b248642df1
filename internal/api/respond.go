package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tailorhq/github-tailor/internal/github"
)

// envelope is the uniform JSON response shape. Failures always carry
// {success:false, message}; successes wrap their payload in data.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func (s *Server) sendJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: true, Data: data}); err != nil {
		s.logger.Error("Failed to encode JSON response", "error", err)
	}
}

func (s *Server) sendError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Success: false, Message: message}); err != nil {
		s.logger.Error("Failed to encode error response", "error", err)
	}
}

// sendUpstreamError maps a GitHub layer failure to a status and message the
// UI can act on. Auth failures get a distinct reconnect hint rather than a
// generic failure.
func (s *Server) sendUpstreamError(w http.ResponseWriter, err error) {
	slog.Default().Debug("upstream error", "error", err)

	switch {
	case github.IsAuthError(err):
		s.sendError(w, http.StatusUnauthorized,
			"GitHub rejected the configured credentials. Reconnect GitHub with a valid token.")
	case github.IsNotFoundError(err):
		s.sendError(w, http.StatusNotFound, "Repository not found on GitHub")
	case github.IsRateLimitError(err):
		s.sendError(w, http.StatusTooManyRequests,
			"GitHub rate limit reached. Try again in a few minutes.")
	default:
		s.sendError(w, http.StatusBadGateway, "GitHub request failed: "+err.Error())
	}
}

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid JSON in request body")
		return false
	}
	return true
}
