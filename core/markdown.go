package core

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(
		html.WithUnsafe(),
	),
)

func renderMarkdown(source string) (string, error) {
	var buf bytes.Buffer
	err := markdown.Convert([]byte(source), &buf)
	if err != nil {
		return "", err
	}

	return buf.String(), nil
}
