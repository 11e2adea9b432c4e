package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.curlew.org/curlew/core"
)

func testConfig(t *testing.T) *core.Config {
	t.Helper()

	return &core.Config{
		ServerConfig: core.ServerConfig{
			SourceDirectory: t.TempDir(),
			DataDirectory:   t.TempDir(),
			BaseURL:         "https://example.com",
			TokensSecret:    "super-secret",
		},
		Site: core.SiteConfig{
			Name: "Example",
			Categories: []core.SiteCategory{
				{ID: 1, Name: "World", Slug: "world"},
				{ID: 2, Name: "Tech", Slug: "tech"},
			},
		},
	}
}

func writePost(t *testing.T, c *core.Config, id int, slug, title string, date time.Time, categories ...string) {
	t.Helper()

	raw := fmt.Sprintf("---\nid: %d\ntitle: %q\nauthor: Jane\ndate: %s\ncategories: [%s]\n---\n\nSome content for %s.\n",
		id, title, date.Format(time.RFC3339), strings.Join(categories, ", "), slug)

	path := filepath.Join(c.SourceDirectory, core.ContentDirectory, "posts", slug+".md")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0777))
	require.NoError(t, os.WriteFile(path, []byte(raw), 0666))
}

func newTestServer(t *testing.T, c *core.Config) (*Server, *httptest.Server) {
	t.Helper()

	// Make sure the content directory exists even for fixtures without posts.
	require.NoError(t, os.MkdirAll(filepath.Join(c.SourceDirectory, core.ContentDirectory, "posts"), 0777))

	s, err := NewServer(c)
	require.NoError(t, err)

	ts := httptest.NewServer(s.makeRouter())
	t.Cleanup(func() {
		ts.Close()
		_ = s.Stop()
	})

	return s, ts
}

func getJSON(t *testing.T, url string, dst interface{}) {
	t.Helper()

	resp, err := http.Get(url)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
}

func postForm(t *testing.T, target string, form url.Values) (*http.Response, []byte) {
	t.Helper()

	resp, err := http.PostForm(target, form)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, body
}

func day(n int) time.Time {
	return time.Date(2024, 5, n, 10, 0, 0, 0, time.UTC)
}
