// Package docparse converts raw documentation markup into a normalized
// record: title, plain text, code snippets, and candidate identifier names.
//
// The identifier harvest is a regex heuristic over unstructured prose, so
// false positives and negatives are expected. The pattern sets live in
// rules.go as data and should be tuned there, not special-cased in code.
package docparse

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Limits applied to the normalized record.
const (
	previewLimit  = 2000
	codeLimit     = 5
	minSnippetLen = 10
	classLimit    = 10
	methodLimit   = 20
	propertyLimit = 20
)

// Document is the normalized record for one fetched page. Field names match
// the on-disk cache format.
type Document struct {
	Title         string   `json:"title"`
	URL           string   `json:"url"`
	Content       string   `json:"content"`
	FullContent   string   `json:"full_content"`
	CodeExamples  []string `json:"code_examples"`
	Classes       []string `json:"classes"`
	Methods       []string `json:"methods"`
	Properties    []string `json:"properties"`
	ContentLength int      `json:"content_length"`
}

// Parse converts raw markup from sourceURL into a Document. It never fails:
// malformed or partial markup degrades to fallbacks, not errors.
func Parse(markup, sourceURL string) *Document {
	out := &Document{
		Title:        "Unknown",
		URL:          sourceURL,
		CodeExamples: []string{},
		Classes:      []string{},
		Methods:      []string{},
		Properties:   []string{},
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return out
	}

	doc.Find("script, style").Remove()

	if sel := doc.Find("title").First(); sel.Length() > 0 {
		out.Title = strings.TrimSpace(sel.Text())
	} else if sel := doc.Find("h1").First(); sel.Length() > 0 {
		out.Title = strings.TrimSpace(sel.Text())
	}

	content := mainContent(doc)
	text := flattenText(content)

	out.FullContent = text
	out.ContentLength = len([]rune(text))
	out.Content = truncate(text, previewLimit)
	out.CodeExamples = codeSnippets(content)
	out.Classes = harvest(text, classPatterns, classLimit)
	out.Methods = harvest(text, methodPatterns, methodLimit)
	out.Properties = harvest(text, propertyPatterns, propertyLimit)

	return out
}

// mainContent returns the first region matched by the selector list, then
// body, then the whole document.
func mainContent(doc *goquery.Document) *goquery.Selection {
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			return sel
		}
	}
	if body := doc.Find("body").First(); body.Length() > 0 {
		return body
	}
	return doc.Selection
}

// flattenText joins the trimmed text nodes under sel with newlines,
// skipping whitespace-only nodes.
func flattenText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range sel.Nodes {
		walk(n)
	}
	return strings.Join(parts, "\n")
}

// codeSnippets collects code/pre text longer than minSnippetLen, capped at
// codeLimit in document order.
func codeSnippets(sel *goquery.Selection) []string {
	snippets := []string{}
	sel.Find("code, pre").Each(func(_ int, s *goquery.Selection) {
		if len(snippets) == codeLimit {
			return
		}
		text := strings.TrimSpace(s.Text())
		if len([]rune(text)) > minSnippetLen {
			snippets = append(snippets, text)
		}
	})
	return snippets
}

// harvest runs the pattern set over text and returns the first capture of
// each match, deduplicated in first-seen order and capped at limit.
func harvest(text string, patterns []*regexp.Regexp, limit int) []string {
	seen := make(map[string]struct{})
	out := []string{}
	for _, re := range patterns {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if len(out) == limit {
				return out
			}
			name := m[1]
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	return out
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
