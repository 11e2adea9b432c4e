package core

import "fmt"

// Article is the export shape of a post. Content is only populated for
// single-article exports; list views carry it empty.
type Article struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Timestamp    int64    `json:"timestamp"`
	Author       string   `json:"author"`
	Date         string   `json:"date"`
	Link         string   `json:"link"`
	Image        ImageRef `json:"image"`
	Description  string   `json:"description"`
	Content      string   `json:"content"`
	CategoryID   int      `json:"category_id"`
	CategoryName string   `json:"category_name"`
}

type Category struct {
	ID       int       `json:"id"`
	Order    int       `json:"order"`
	Name     string    `json:"name"`
	Slug     string    `json:"name_slug"`
	Link     string    `json:"link,omitempty"`
	Image    ImageRef  `json:"image"`
	Articles []Article `json:"articles"`
}

// FormatPost converts a post entry into its export shape. The content goes
// through the whole pipeline: markdown rendering, script removal,
// sanitization, upload-anchor unwrapping and description truncation.
func (co *Core) FormatPost(e *Entry, descriptionLength int, fullContent bool) (Article, error) {
	content, err := renderMarkdown(e.Content)
	if err != nil {
		return Article{}, fmt.Errorf("render %s: %w", e.Slug, err)
	}

	content = removeScriptTags(content)
	content = Sanitize(content)

	content, err = unwrapUploadAnchors(content)
	if err != nil {
		return Article{}, fmt.Errorf("unwrap %s: %w", e.Slug, err)
	}

	description := ""
	if content != "" {
		description, err = truncateHTML(content, descriptionLength)
		if err != nil {
			return Article{}, fmt.Errorf("truncate %s: %w", e.Slug, err)
		}
		description = Sanitize(description)
	}

	a := Article{
		ID:          e.ID,
		Title:       e.Title,
		Timestamp:   e.Date.Unix(),
		Author:      e.Author,
		Date:        e.Date.Format(dateFormat),
		Link:        e.Permalink,
		Description: description,
	}

	if e.FrontMatter.Image != nil {
		a.Image = *e.FrontMatter.Image
	}

	if fullContent {
		a.Content = content
	}

	return a, nil
}
