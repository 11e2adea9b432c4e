package core

import (
	"encoding/json"
	"time"

	"github.com/karlseguin/typed"
)

const (
	postsSection = "posts"
	pagesSection = "pages"
)

type FrontMatter struct {
	ID         int            `yaml:"id"`
	Title      string         `yaml:"title,omitempty"`
	Author     string         `yaml:"author,omitempty"`
	Date       time.Time      `yaml:"date,omitempty"`
	Draft      bool           `yaml:"draft,omitempty"`
	Password   string         `yaml:"password,omitempty"`
	Image      *ImageRef      `yaml:"image,omitempty"`
	NoComments bool           `yaml:"noComments,omitempty"`
	Other      map[string]any `yaml:",inline"`
}

// ImageRef points at a featured image. A zero value marshals as an empty
// string, which is what the app expects for posts without one.
type ImageRef struct {
	Src    string `json:"src" yaml:"src"`
	Width  int    `json:"width" yaml:"width,omitempty"`
	Height int    `json:"height" yaml:"height,omitempty"`
}

func (i ImageRef) IsZero() bool {
	return i.Src == ""
}

func (i ImageRef) MarshalJSON() ([]byte, error) {
	if i.IsZero() {
		return []byte(`""`), nil
	}

	type ref ImageRef
	return json.Marshal(ref(i))
}

type Entry struct {
	FrontMatter
	Section   string
	Slug      string
	Permalink string
	Content   string
}

// Published reports whether the entry is live: not a draft and not dated in
// the future.
func (e *Entry) Published(now time.Time) bool {
	return !e.Draft && !e.Date.After(now)
}

func (e *Entry) Protected() bool {
	return e.Password != ""
}

// Categories returns the category names from the front matter, in file order.
func (e *Entry) Categories() []string {
	return typed.New(e.Other).Strings("categories")
}

type Entries []*Entry
