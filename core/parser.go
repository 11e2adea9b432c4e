package core

import (
	"errors"
	"fmt"
	urlpkg "net/url"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

type Parser struct {
	baseURL string
}

func NewParser(baseURL string) *Parser {
	return &Parser{baseURL: baseURL}
}

func (p *Parser) Parse(section, slug, raw string) (*Entry, error) {
	splits := strings.SplitN(raw, "\n---", 2)
	if len(splits) != 2 {
		return nil, errors.New("could not parse file: missing front matter")
	}

	fr := &FrontMatter{}
	err := yaml.Unmarshal([]byte(strings.TrimPrefix(splits[0], "---")), &fr)
	if err != nil {
		return nil, err
	}

	if fr.ID <= 0 {
		return nil, fmt.Errorf("entry %s/%s must have a positive id", section, slug)
	}

	e := &Entry{
		FrontMatter: *fr,
		Section:     section,
		Slug:        slug,
		Content:     strings.TrimSpace(splits[1]),
	}

	e.Permalink, err = p.makePermalink(e)
	if err != nil {
		return nil, err
	}

	return e, nil
}

func (p *Parser) makePermalink(e *Entry) (string, error) {
	url, err := urlpkg.Parse(p.baseURL)
	if err != nil {
		return "", err
	}

	if e.Section == postsSection && !e.Date.IsZero() {
		url.Path = fmt.Sprintf("/%04d/%02d/%02d/%s/", e.Date.Year(), e.Date.Month(), e.Date.Day(), e.Slug)
	} else {
		url.Path = "/" + e.Slug + "/"
	}

	return url.String(), nil
}
