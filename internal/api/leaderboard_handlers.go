package api

import "net/http"

// handleLeaderboard serves the cached ranked snapshot.
func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	board, err := s.LeaderboardService.GetLeaderboard(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, board)
}
