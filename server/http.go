package server

import (
	"encoding/json"
	"net/http"
	"strconv"
)

const errInvalidPostID = "Invalid post id"

func (s *Server) serveJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		s.log.Errorw("error while serving json", "err", err)
	}
}

func (s *Server) serveErrorJSON(w http.ResponseWriter, message string) {
	s.serveJSON(w, http.StatusOK, map[string]interface{}{
		"error": message,
	})
}

// queryInt returns the named query parameter when it is numeric, and the
// fallback otherwise.
func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return v
}

// queryID returns the named query parameter as a positive numeric ID.
func queryID(r *http.Request, name string) (int, bool) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, false
	}

	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, false
	}

	return v, true
}
