package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/regexrunner/pkg/domain"
)

// ChallengeRequest is the body of POST /sessions and PUT /sessions/{id}/challenge.
type ChallengeRequest struct {
	ChallengeID string `json:"challenge_id"`
}

// RunRequest is the body of POST /sessions/{id}/runs.
type RunRequest struct {
	Input       string `json:"input"`
	ChallengeID string `json:"challenge_id,omitempty"`
}

// RunResponse pairs the run result with the updated session.
type RunResponse struct {
	Result  domain.Result   `json:"result"`
	Summary string          `json:"summary"`
	Session *domain.Session `json:"session"`
}

// StartSession handles the POST /sessions request.
func (s *Server) StartSession(w http.ResponseWriter, r *http.Request) {
	var body ChallengeRequest
	if err := decodeBody(w, r, &body); err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if body.ChallengeID != "" {
		if _, err := s.Engine.Challenge(body.ChallengeID); err != nil {
			s.fail(w, "StartSession", err)
			return
		}
	}

	sess, err := s.Sessions.Start(r.Context(), body.ChallengeID)
	if err != nil {
		s.fail(w, "StartSession", err)
		return
	}
	writeJSON(w, s.logger, http.StatusCreated, sess)
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetSession", err)
		return
	}
	writeJSON(w, s.logger, http.StatusOK, sess)
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectChallenge handles the PUT /sessions/{id}/challenge request.
func (s *Server) SelectChallenge(w http.ResponseWriter, r *http.Request) {
	var body ChallengeRequest
	if err := decodeBody(w, r, &body); err != nil || body.ChallengeID == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := s.Engine.Challenge(body.ChallengeID); err != nil {
		s.fail(w, "SelectChallenge", err)
		return
	}

	id := chi.URLParam(r, "id")
	before, _ := s.Sessions.Load(r.Context(), id)
	sess, err := s.Sessions.Select(r.Context(), id, body.ChallengeID)
	if err != nil {
		s.fail(w, "SelectChallenge", err)
		return
	}
	s.broadcast(id, domain.Diff(before, sess))
	writeJSON(w, s.logger, http.StatusOK, sess)
}

// RecordRun handles the POST /sessions/{id}/runs request.
// The input is trimmed and must not be empty; the run is scored against the
// session's active challenge unless the body names another one.
func (s *Server) RecordRun(w http.ResponseWriter, r *http.Request) {
	var body RunRequest
	if err := decodeBody(w, r, &body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("RecordRun: Invalid request body", "err", err)
		return
	}

	input := strings.TrimSpace(body.Input)
	if input == "" {
		s.fail(w, "RecordRun", domain.ErrEmptyInput)
		return
	}

	id := chi.URLParam(r, "id")
	sess, err := s.Sessions.LoadOrStart(r.Context(), id, body.ChallengeID)
	if err != nil {
		s.fail(w, "RecordRun", err)
		return
	}

	challengeID := body.ChallengeID
	if challengeID == "" {
		challengeID = sess.ChallengeID
	}
	c, err := s.Engine.Challenge(challengeID)
	if err != nil {
		s.fail(w, "RecordRun", err)
		return
	}

	res := s.Engine.Run(r.Context(), c.ID, &c.DFA, input)
	before, after, err := s.Sessions.Record(r.Context(), id, c.ID, input, res)
	if err != nil {
		s.fail(w, "RecordRun", err)
		return
	}
	s.broadcast(id, domain.Diff(before, after))

	writeJSON(w, s.logger, http.StatusOK, RunResponse{
		Result:  res,
		Summary: res.Summary(),
		Session: after,
	})
}

func (s *Server) broadcast(sessionID string, diff *domain.SessionDiff) {
	if diff == nil {
		s.logger.Debug("No diff calculated", "session_id", sessionID)
		return
	}
	bytes, err := json.Marshal(diff)
	if err != nil {
		s.logger.Error("Diff encode failed", "err", err)
		return
	}
	s.Streams.Broadcast(sessionID, string(bytes))
}
