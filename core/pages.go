package core

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/samber/lo"
)

// pageListLimit bounds the page list export.
const pageListLimit = 100

// PageListItem is the export shape of a page in the list view; content is
// always empty there.
type PageListItem struct {
	ID      int      `json:"id"`
	Order   int      `json:"order"`
	Title   string   `json:"title"`
	Image   ImageRef `json:"image"`
	Content string   `json:"content"`
}

// Page is the export shape of a single page.
type Page struct {
	ID      int      `json:"id"`
	Title   string   `json:"title"`
	Link    string   `json:"link"`
	Image   ImageRef `json:"image"`
	Content string   `json:"content"`
}

// ListPages exports all visible pages. Pages present in the manual order get
// their position there; new pages are appended after. No two pages share an
// order value.
func (co *Core) ListPages() []PageListItem {
	manual := co.cfg.App.OrderedPages

	pages := lo.Filter(co.Pages(), func(e *Entry, _ int) bool {
		return e.Title != "" && !co.cfg.InactivePage(e.ID)
	})
	if len(pages) > pageListLimit {
		pages = pages[:pageListLimit]
	}

	taken := map[int]bool{}
	lastKey := 0

	items := make([]PageListItem, 0, len(pages))
	for _, e := range pages {
		key := 0
		if idx := lo.IndexOf(manual, e.ID); idx >= 0 {
			key = idx + 1
		} else if len(manual) >= lastKey {
			key = len(manual) + 1
		} else {
			key = lastKey + 1
		}

		for taken[key] {
			key++
		}
		taken[key] = true
		if key > lastKey {
			lastKey = key
		}

		item := PageListItem{
			ID:    e.ID,
			Order: key,
			Title: e.Title,
		}
		if e.FrontMatter.Image != nil {
			item.Image = *e.FrontMatter.Image
		}

		items = append(items, item)
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Order < items[j].Order
	})

	return items
}

// FormatPage exports a single page. A per-page content override from the
// app settings takes precedence over the page file itself.
func (co *Core) FormatPage(e *Entry) (Page, error) {
	source := e.Content
	if override, ok := co.cfg.App.PageContent[strconv.Itoa(e.ID)]; ok {
		source = override
	}

	content, err := renderMarkdown(source)
	if err != nil {
		return Page{}, fmt.Errorf("render page %s: %w", e.Slug, err)
	}

	content = removeScriptTags(content)
	content = Sanitize(content)

	content, err = unwrapUploadAnchors(content)
	if err != nil {
		return Page{}, fmt.Errorf("unwrap page %s: %w", e.Slug, err)
	}

	p := Page{
		ID:      e.ID,
		Title:   e.Title,
		Link:    e.Permalink,
		Content: content,
	}
	if e.FrontMatter.Image != nil {
		p.Image = *e.FrontMatter.Image
	}

	return p, nil
}
