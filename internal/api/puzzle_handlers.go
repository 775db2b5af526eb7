package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// handleNextPuzzle serves one puzzle for the requested tier, avoiding
// repeats within the caller's session window.
func (s *Server) handleNextPuzzle(w http.ResponseWriter, r *http.Request) {
	level := r.URL.Query().Get("level")
	if level == "" && r.Method == http.MethodPost {
		var body struct {
			Level string `json:"level"`
		}
		if err := decodeJSON(r, &body); err != nil {
			handleError(w, r, err)
			return
		}
		level = body.Level
	}

	// Signed-in players get per-account no-repeat tracking; anonymous
	// callers may pin a session with an explicit header.
	sessionKey := r.Header.Get("X-Session-ID")
	if identity, ok := identityFromContext(r.Context()); ok {
		sessionKey = identity.SubjectID
	}

	p, err := s.PuzzleService.NextPuzzle(r.Context(), level, sessionKey)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, p)
}

// handleCareerBatch serves a set of distinct puzzles for a career level.
func (s *Server) handleCareerBatch(w http.ResponseWriter, r *http.Request) {
	level := r.URL.Query().Get("level")

	count := 0
	if raw := r.URL.Query().Get("count"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			count = n
		}
	}
	if level == "" && r.Method == http.MethodPost {
		var body struct {
			Level string `json:"level"`
			Count int    `json:"count"`
		}
		if err := decodeJSON(r, &body); err != nil {
			handleError(w, r, err)
			return
		}
		level, count = body.Level, body.Count
	}

	puzzles, err := s.PuzzleService.CareerBatch(r.Context(), level, count)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"puzzles": puzzles,
		"count":   len(puzzles),
	})
}

// handleImageRedirect bounces image requests to the object store; the
// server never proxies image bytes.
func (s *Server) handleImageRedirect(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "*")
	if key == "" || strings.Contains(key, "..") {
		http.NotFound(w, r)
		return
	}
	// Images are immutable deploy-time assets; let clients cache the hop.
	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.Redirect(w, r, s.ImageBaseURL+"/"+key, http.StatusFound)
}
