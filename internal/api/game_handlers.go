package api

import (
	"net/http"

	"gearguessr/internal/logger"
	"gearguessr/internal/models"
)

// handleGetGameData returns the caller's full record, creating it with
// seeded defaults on first contact.
func (s *Server) handleGetGameData(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromContext(r.Context())

	rec, err := s.GameService.GetGameData(r.Context(), identity)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

// handleUpdateGameData folds one submission (round result, purchase,
// bonus claim, profile update) into the caller's record.
func (s *Server) handleUpdateGameData(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromContext(r.Context())
	log := logger.FromContext(r.Context())

	var sub models.Submission
	if err := decodeJSON(r, &sub); err != nil {
		handleError(w, r, err)
		return
	}

	log.Debug("game data update: user=%s mode=%s score=%d", identity.SubjectID, sub.Mode, sub.Score)

	rec, err := s.GameService.UpdateGameData(r.Context(), identity, sub)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}
