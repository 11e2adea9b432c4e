package core

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	htmlPolicy  = bluemonday.UGCPolicy()
	htmlRemover = bluemonday.StrictPolicy()

	scriptsRe = regexp.MustCompile(`(?is)<script.*?</script>`)
)

// Sanitize purifies an HTML fragment, keeping user-generated-content markup.
func Sanitize(fragment string) string {
	return htmlPolicy.Sanitize(fragment)
}

// SanitizeText strips all markup from a fragment.
func SanitizeText(fragment string) string {
	return strings.TrimSpace(htmlRemover.Sanitize(fragment))
}

func removeScriptTags(fragment string) string {
	return scriptsRe.ReplaceAllString(fragment, "")
}

// unwrapUploadAnchors removes anchors that merely wrap an uploaded image,
// leaving the image itself. The app renders images inline and must not
// navigate to the raw attachment.
func unwrapUploadAnchors(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", err
	}

	doc.Find("a").Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		if !strings.Contains(href, "/uploads/") && !strings.Contains(href, "/attachment") {
			return
		}

		img := sel.Find("img")
		if img.Length() > 0 {
			sel.ReplaceWithSelection(img)
		}
	})

	return doc.Find("body").Html()
}

// truncateHTML keeps up to limit text characters of the fragment, preserving
// the surrounding markup. Elements past the limit are dropped entirely.
func truncateHTML(fragment string, limit int) (string, error) {
	if limit <= 0 || fragment == "" {
		return "", nil
	}

	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	remaining := limit
	for _, n := range nodes {
		if remaining <= 0 {
			break
		}

		remaining = truncateNode(n, remaining)
		err = html.Render(&buf, n)
		if err != nil {
			return "", err
		}
	}

	return buf.String(), nil
}

func truncateNode(n *html.Node, remaining int) int {
	if n.Type == html.TextNode {
		runes := []rune(n.Data)
		if len(runes) > remaining {
			n.Data = strings.TrimRight(string(runes[:remaining]), " ")
			return 0
		}
		return remaining - len(runes)
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if remaining <= 0 {
			n.RemoveChild(c)
		} else {
			remaining = truncateNode(c, remaining)
		}
		c = next
	}

	return remaining
}
