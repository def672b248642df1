package api

import (
	"net/http"
	"strings"

	"github.com/tailorhq/github-tailor/internal/models"
)

func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	if s.chat == nil {
		s.sendError(w, http.StatusServiceUnavailable, "Chat is not configured")
		return
	}

	var req models.ChatRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.sendError(w, http.StatusBadRequest, "message is required")
		return
	}

	resp, err := s.chat.HandleMessage(r.Context(), s.owner, req)
	if err != nil {
		s.logger.Error("chat message failed", "error", err)
		s.sendError(w, http.StatusInternalServerError, "Failed to process message")
		return
	}
	s.sendJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := s.db.ListChatSessions(r.Context(), s.owner)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "Failed to load sessions")
		return
	}
	s.sendJSON(w, http.StatusOK, sessions)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	session, err := s.db.GetChatSession(r.Context(), sessionID)
	if err != nil || session.UserLogin != s.owner {
		s.sendError(w, http.StatusNotFound, "Session not found")
		return
	}

	if err := s.db.DeleteChatSession(r.Context(), sessionID); err != nil {
		s.sendError(w, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	s.sendJSON(w, http.StatusOK, map[string]string{"deleted": sessionID})
}

func (s *Server) handleSessionMessages(w http.ResponseWriter, r *http.Request) {
	sessionID := r.PathValue("id")

	session, err := s.db.GetChatSession(r.Context(), sessionID)
	if err != nil || session.UserLogin != s.owner {
		s.sendError(w, http.StatusNotFound, "Session not found")
		return
	}

	messages, err := s.db.ListChatMessages(r.Context(), sessionID, 0)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "Failed to load messages")
		return
	}
	s.sendJSON(w, http.StatusOK, messages)
}
