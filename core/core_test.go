package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testConfig(dir string) *Config {
	return &Config{
		ServerConfig: ServerConfig{
			SourceDirectory: dir,
			BaseURL:         "https://example.com",
		},
		Site: SiteConfig{
			Name: "Example",
			Categories: []SiteCategory{
				{ID: 1, Name: "World", Slug: "world"},
				{ID: 2, Name: "Tech", Slug: "tech"},
				{ID: 3, Name: "Culture", Slug: "culture"},
			},
		},
	}
}

type testPost struct {
	id         int
	slug       string
	title      string
	author     string
	date       time.Time
	draft      bool
	password   string
	image      string
	categories []string
	content    string
}

func writeTestPost(t *testing.T, dir string, p testPost) {
	t.Helper()
	writeTestEntry(t, dir, "posts", p)
}

func writeTestPage(t *testing.T, dir string, p testPost) {
	t.Helper()
	writeTestEntry(t, dir, "pages", p)
}

func writeTestEntry(t *testing.T, dir, section string, p testPost) {
	t.Helper()

	var sb strings.Builder
	sb.WriteString("---\n")
	fmt.Fprintf(&sb, "id: %d\n", p.id)
	if p.title != "" {
		fmt.Fprintf(&sb, "title: %q\n", p.title)
	}
	if p.author != "" {
		fmt.Fprintf(&sb, "author: %q\n", p.author)
	}
	if !p.date.IsZero() {
		fmt.Fprintf(&sb, "date: %s\n", p.date.Format(time.RFC3339))
	}
	if p.draft {
		sb.WriteString("draft: true\n")
	}
	if p.password != "" {
		fmt.Fprintf(&sb, "password: %q\n", p.password)
	}
	if p.image != "" {
		fmt.Fprintf(&sb, "image:\n  src: %s\n  width: 480\n  height: 270\n", p.image)
	}
	if len(p.categories) > 0 {
		fmt.Fprintf(&sb, "categories: [%s]\n", strings.Join(p.categories, ", "))
	}
	sb.WriteString("---\n\n")
	if p.content == "" {
		p.content = "Lorem ipsum dolor sit amet."
	}
	sb.WriteString(p.content)
	sb.WriteString("\n")

	path := filepath.Join(dir, ContentDirectory, section, p.slug+".md")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0777))
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0666))
}

func newTestCore(t *testing.T, cfg *Config) *Core {
	t.Helper()

	co, err := NewCore(cfg)
	require.NoError(t, err)
	return co
}

func day(n int) time.Time {
	return time.Date(2024, 5, n, 10, 0, 0, 0, time.UTC)
}
