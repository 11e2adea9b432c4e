package core

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/afero"
)

const ContentDirectory = "content"

// Core holds the configuration and an in-memory index of the content
// directory. The index is rebuilt as a whole and swapped under the write
// lock, so readers always see a consistent snapshot.
type Core struct {
	cfg      *Config
	sourceFS *afero.Afero
	parser   *Parser

	mu    sync.RWMutex
	posts Entries
	pages Entries
	byID  map[string]*Entry
}

func NewCore(cfg *Config) (*Core, error) {
	co := &Core{
		cfg: cfg,
		sourceFS: &afero.Afero{
			Fs: afero.NewBasePathFs(afero.NewOsFs(), cfg.SourceDirectory),
		},
		parser: NewParser(cfg.BaseURL),
		byID:   map[string]*Entry{},
	}

	return co, co.Reindex()
}

func (co *Core) BaseURL() string {
	return co.cfg.BaseURL
}

func (co *Core) Config() *Config {
	return co.cfg
}

// Reindex re-reads the whole content directory.
func (co *Core) Reindex() error {
	posts, err := co.readSection(postsSection)
	if err != nil {
		return err
	}

	pages, err := co.readSection(pagesSection)
	if err != nil {
		return err
	}

	// Most recent first, stable across rebuilds: ties broken by ascending ID.
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].Date.Equal(posts[j].Date) {
			return posts[i].ID < posts[j].ID
		}
		return posts[i].Date.After(posts[j].Date)
	})

	sort.SliceStable(pages, func(i, j int) bool {
		return pages[i].Title < pages[j].Title
	})

	byID := map[string]*Entry{}
	for _, e := range append(append(Entries{}, posts...), pages...) {
		key := entryKey(e.Section, e.ID)
		if _, ok := byID[key]; ok {
			return fmt.Errorf("duplicate %s id %d", e.Section, e.ID)
		}
		byID[key] = e
	}

	co.mu.Lock()
	co.posts = posts
	co.pages = pages
	co.byID = byID
	co.mu.Unlock()
	return nil
}

func (co *Core) readSection(section string) (Entries, error) {
	dir := filepath.Join(ContentDirectory, section)

	exists, err := co.sourceFS.DirExists(dir)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}

	var entries Entries
	err = co.sourceFS.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() || !strings.HasSuffix(path, ".md") {
			return nil
		}

		raw, err := co.sourceFS.ReadFile(path)
		if err != nil {
			return err
		}

		slug := strings.TrimSuffix(filepath.Base(path), ".md")
		e, err := co.parser.Parse(section, slug, string(raw))
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}

		entries = append(entries, e)
		return nil
	})

	return entries, err
}

func entryKey(section string, id int) string {
	return fmt.Sprintf("%s/%d", section, id)
}

// PostQuery bounds a read of the post index. Published, non-protected posts
// only; the repository never leaks drafts or password-protected content.
type PostQuery struct {
	Limit      int
	Before     time.Time
	Category   string
	Categories []string
}

// Posts returns the most recent posts matching the query.
func (co *Core) Posts(q *PostQuery) Entries {
	co.mu.RLock()
	defer co.mu.RUnlock()

	now := time.Now()
	var matches Entries

	for _, e := range co.posts {
		if !e.Published(now) || e.Protected() {
			continue
		}

		if !q.Before.IsZero() && !e.Date.Before(q.Before) {
			continue
		}

		if q.Category != "" && !lo.Contains(e.Categories(), q.Category) {
			continue
		}

		if len(q.Categories) > 0 && !lo.Some(q.Categories, e.Categories()) {
			continue
		}

		matches = append(matches, e)
		if q.Limit > 0 && len(matches) >= q.Limit {
			break
		}
	}

	return matches
}

// Post returns the post with the given ID regardless of its publish state.
// Callers are responsible for visibility checks.
func (co *Core) Post(id int) (*Entry, bool) {
	co.mu.RLock()
	defer co.mu.RUnlock()

	e, ok := co.byID[entryKey(postsSection, id)]
	return e, ok
}

// Pages returns all published, non-protected pages sorted by title.
func (co *Core) Pages() Entries {
	co.mu.RLock()
	defer co.mu.RUnlock()

	now := time.Now()
	return lo.Filter(co.pages, func(e *Entry, _ int) bool {
		return e.Published(now) && !e.Protected()
	})
}

// Page returns the page with the given ID regardless of its publish state.
func (co *Core) Page(id int) (*Entry, bool) {
	co.mu.RLock()
	defer co.mu.RUnlock()

	e, ok := co.byID[entryKey(pagesSection, id)]
	return e, ok
}
