package api

import (
	"net/http"

	apperrors "gearguessr/internal/errors"
)

// handleCheckUsername reports whether a username is valid and free. The
// caller's own current name counts as available.
func (s *Server) handleCheckUsername(w http.ResponseWriter, r *http.Request) {
	username := r.URL.Query().Get("username")
	if username == "" && r.Method == http.MethodPost {
		var body struct {
			Username string `json:"username"`
		}
		if err := decodeJSON(r, &body); err != nil {
			handleError(w, r, err)
			return
		}
		username = body.Username
	}

	var forUserID string
	if identity, ok := identityFromContext(r.Context()); ok {
		forUserID = identity.SubjectID
	}

	available, err := s.ProfileService.CheckUsername(r.Context(), username, forUserID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"username":  username,
		"available": available,
	})
}

// handleSetupUsername assigns the caller's chosen username.
func (s *Server) handleSetupUsername(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromContext(r.Context())

	var body struct {
		Username string `json:"username"`
	}
	if err := decodeJSON(r, &body); err != nil {
		handleError(w, r, err)
		return
	}

	// The record must exist before the atomic username write.
	if _, err := s.ProfileService.EnsurePlayer(r.Context(), identity); err != nil {
		handleError(w, r, err)
		return
	}

	rec, err := s.ProfileService.SetupUsername(r.Context(), identity.SubjectID, body.Username)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rec)
}

// handleCheckEmail reports whether any account carries the email.
func (s *Server) handleCheckEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		handleError(w, r, apperrors.NewValidationError("email", "must not be empty"))
		return
	}

	exists, authMethod, err := s.ProfileService.EmailExists(r.Context(), email)
	if err != nil {
		handleError(w, r, err)
		return
	}
	out := map[string]any{"exists": exists}
	if exists {
		out["authMethod"] = authMethod
	}
	writeJSON(w, r, http.StatusOK, out)
}

// handleUpdateActivity marks the caller as recently active, which feeds
// the leaderboard's online indicator.
func (s *Server) handleUpdateActivity(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFromContext(r.Context())

	if _, err := s.ProfileService.EnsurePlayer(r.Context(), identity); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.ProfileService.TouchActivity(r.Context(), identity.SubjectID); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"ok": true})
}
