package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// handleCreateChallenge issues a head-to-head invitation.
func (s *Server) handleCreateChallenge(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromContext(r.Context())

	var body struct {
		TargetPlayerID string `json:"targetPlayerId"`
		GameMode       string `json:"gameMode"`
		Difficulty     string `json:"difficulty"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	creator, err := s.ProfileService.EnsurePlayer(r.Context(), identity)
	if err != nil {
		handleError(w, r, err)
		return
	}

	challenge, err := s.ChallengeService.Create(r.Context(), *creator, body.TargetPlayerID, body.GameMode, body.Difficulty)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, challenge)
}

// handleGetChallenge returns one challenge; only its participants can
// see it, anyone else gets the same 404 as a missing id.
func (s *Server) handleGetChallenge(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromContext(r.Context())
	challengeID := chi.URLParam(r, "id")

	challenge, err := s.ChallengeService.Get(r.Context(), challengeID, identity.SubjectID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, challenge)
}

// handleRespondChallenge accepts or declines a pending invitation.
func (s *Server) handleRespondChallenge(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromContext(r.Context())
	challengeID := chi.URLParam(r, "id")

	var body struct {
		Accept bool `json:"accept"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	challenge, err := s.ChallengeService.Respond(r.Context(), challengeID, identity.SubjectID, body.Accept)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, challenge)
}

// handleListChallenges lists the caller's challenges, both sent and received.
func (s *Server) handleListChallenges(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromContext(r.Context())

	challenges, err := s.ChallengeService.ListForPlayer(r.Context(), identity.SubjectID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"challenges": challenges,
		"count":      len(challenges),
	})
}
