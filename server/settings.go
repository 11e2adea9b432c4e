package server

import "net/http"

// exportSettingsPost exposes the branding settings to a companion app that
// authenticates with the configured API key.
func (s *Server) exportSettingsPost(w http.ResponseWriter, r *http.Request) {
	apiKey := r.FormValue("apiKey")
	if s.c.App.APIKey == "" || apiKey != s.c.App.APIKey {
		s.serveJSON(w, http.StatusOK, map[string]interface{}{
			"error":  "Missing post data (API Key) or mismatch.",
			"status": 0,
		})
		return
	}

	s.serveJSON(w, http.StatusOK, map[string]interface{}{
		"logo":                s.uploadURL(s.c.App.Logo),
		"icon":                s.uploadURL(s.c.App.Icon),
		"cover":               s.uploadURL(s.c.App.Cover),
		"google_analytics_id": s.c.App.GoogleAnalyticsID,
		"status":              1,
	})
}
