package testsupport

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

var tagWhitespace = regexp.MustCompile(`\s*(<[^>]*>)\s*`)

// Canonicalize strips whitespace around tags so golden comparisons ignore
// template indentation.
func Canonicalize(markup string) string {
	return strings.TrimSpace(tagWhitespace.ReplaceAllString(markup, "$1"))
}

// Outline is the visible content of a signature: text runs and link targets in
// document order. Decorative glyphs and script/style bodies are skipped so an
// emoji-decorated export and an SVG-decorated preview compare equal.
type Outline struct {
	Texts []string
	Links []string
}

// ParseOutline walks markup and collects its outline. When rootID is set only
// the subtree of the element with that id is visited.
func ParseOutline(markup, rootID string) (Outline, error) {
	doc, err := html.Parse(strings.NewReader(markup))
	if err != nil {
		return Outline{}, fmt.Errorf("testsupport: parse html: %w", err)
	}

	root := doc
	if rootID != "" {
		root = findByID(doc, rootID)
		if root == nil {
			return Outline{}, fmt.Errorf("testsupport: element #%s not found", rootID)
		}
	}

	var out Outline
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
			if n.Data == "a" {
				if href, ok := attr(n, "href"); ok {
					out.Links = append(out.Links, href)
				}
			}
		case html.TextNode:
			text := strings.TrimSpace(n.Data)
			if text != "" && !isGlyph(text) {
				out.Texts = append(out.Texts, text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out, nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		if v, ok := attr(n, "id"); ok && v == id {
			return n
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func isGlyph(text string) bool {
	for _, r := range text {
		if unicode.IsSpace(r) || r == '\uFE0F' || unicode.Is(unicode.So, r) {
			continue
		}
		return false
	}
	return true
}
