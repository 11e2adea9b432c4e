package server

import (
	"net/http"
	urlpkg "net/url"
	"os"
	"path/filepath"
)

type androidManifest struct {
	Name     string              `json:"name"`
	StartURL string              `json:"start_url"`
	Display  string              `json:"display"`
	Icons    []map[string]string `json:"icons,omitempty"`
}

type mozillaManifest struct {
	Name       string            `json:"name"`
	LaunchPath string            `json:"launch_path"`
	Developer  map[string]string `json:"developer"`
	Icons      map[string]string `json:"icons,omitempty"`
}

func (s *Server) exportManifestGet(w http.ResponseWriter, r *http.Request) {
	name := s.c.Site.Name
	icon := s.uploadURL(s.c.App.Icon)

	if r.URL.Query().Get("content") == "androidmanifest" {
		manifest := androidManifest{
			Name:     name,
			StartURL: s.c.BaseURL,
			Display:  "standalone",
		}
		if icon != "" {
			manifest.Icons = []map[string]string{
				{"src": icon, "sizes": "192x192"},
			}
		}

		s.serveJSON(w, http.StatusOK, manifest)
		return
	}

	launchPath := "/"
	if u, err := urlpkg.Parse(s.c.BaseURL); err == nil && u.Path != "" {
		launchPath = u.Path
	}

	manifest := mozillaManifest{
		Name:       name,
		LaunchPath: launchPath,
		Developer:  map[string]string{"name": name},
	}
	if icon != "" {
		manifest.Icons = map[string]string{"152": icon}
	}

	s.serveJSON(w, http.StatusOK, manifest)
}

// uploadURL resolves a branding asset to its public URL, or returns an empty
// string when the file does not exist.
func (s *Server) uploadURL(name string) string {
	if name == "" {
		return ""
	}

	if _, err := os.Stat(filepath.Join(s.c.DataDirectory, "uploads", name)); err != nil {
		return ""
	}

	return s.c.UploadsURL + "/" + name
}
