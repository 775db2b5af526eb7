package api

import "net/http"

type matchRequest struct {
	SkillLevel int    `json:"skillLevel"`
	Difficulty string `json:"difficulty"`
}

func (m *matchRequest) defaults() {
	if m.Difficulty == "" {
		m.Difficulty = "Medium"
	}
}

// handleJoinQueue puts the caller in the matchmaking queue and reports
// an immediate pairing when one is available.
func (s *Server) handleJoinQueue(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromContext(r.Context())

	var body matchRequest
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}
	body.defaults()

	player, err := s.ProfileService.EnsurePlayer(r.Context(), identity)
	if err != nil {
		handleError(w, r, err)
		return
	}

	result, err := s.MatchmakingService.Join(r.Context(), *player, body.SkillLevel, body.Difficulty)
	if err != nil {
		handleError(w, r, err)
		return
	}

	resp := map[string]any{"success": true, "matchFound": result.MatchFound}
	if result.MatchFound {
		resp["opponent"] = result.Opponent
	} else {
		resp["estimatedWait"] = result.EstimatedWait
	}
	writeJSON(w, r, http.StatusOK, resp)
}

func (s *Server) handleLeaveQueue(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromContext(r.Context())

	if err := s.MatchmakingService.Leave(r.Context(), identity.SubjectID); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"success": true})
}

// handleFindMatch probes the queue without joining it.
func (s *Server) handleFindMatch(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromContext(r.Context())

	var body matchRequest
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}
	body.defaults()

	result, err := s.MatchmakingService.Find(r.Context(), identity.SubjectID, body.SkillLevel, body.Difficulty)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if result.MatchFound {
		writeJSON(w, r, http.StatusOK, map[string]any{"matchFound": true, "opponent": result.Opponent})
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"matchFound": false, "playersInQueue": result.PlayersInQueue})
}
