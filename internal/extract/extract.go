// Package extract flattens the documentation tree into API-relevant entries.
package extract

import (
	"net/url"
	"strings"

	"github.com/starford/fusiondocs/internal/toctree"
)

// Entry is one extracted, API-relevant tree node. Path is the /-joined chain
// of ancestor titles from the tree root.
type Entry struct {
	Title string `json:"title"`
	URL   string `json:"url"`
	Link  string `json:"link"`
	ID    string `json:"id"`
	Path  string `json:"path"`
}

// RuleSet is the relevance heuristic, kept as data so it stays tunable. A
// node is relevant when its title contains any keyword (case-sensitive), its
// link contains LinkMarker, or its lowercased title contains any TitleWord.
type RuleSet struct {
	Keywords   []string
	LinkMarker string
	TitleWords []string
}

// DefaultRules returns the rule set tuned for the Fusion 360 reference tree.
func DefaultRules() RuleSet {
	return RuleSet{
		Keywords: []string{
			"API", "Class", "Method", "Property", "Function", "Object",
			"Definition", "Interface", "Reference", "Programming",
		},
		LinkMarker: "Fusion-360-API",
		TitleWords: []string{"class", "object", "method", "property"},
	}
}

// Extractor walks the tree and emits entries with URLs resolved against a
// fixed base origin.
type Extractor struct {
	base  *url.URL
	rules RuleSet
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRules overrides the default relevance rule set.
func WithRules(rules RuleSet) Option {
	return func(e *Extractor) {
		e.rules = rules
	}
}

// New creates an Extractor resolving links against baseURL.
func New(baseURL string, opts ...Option) (*Extractor, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}
	e := &Extractor{
		base:  base,
		rules: DefaultRules(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ExtractAll extracts entries from every top-level book, in order.
func (e *Extractor) ExtractAll(tree *toctree.Tree) []Entry {
	var entries []Entry
	for _, book := range tree.Books {
		entries = append(entries, e.Extract(book, "")...)
	}
	return entries
}

// Extract walks node depth-first and returns entries in traversal order.
// Object nodes with a relevant title and a non-empty link emit one entry and
// extend the ancestor path for their children; array nodes pass the path
// through unchanged. No deduplication: a node reachable twice yields two
// entries.
func (e *Extractor) Extract(node toctree.Node, ancestorPath string) []Entry {
	var entries []Entry

	if node.IsList() {
		for _, child := range node.Children {
			entries = append(entries, e.Extract(child, ancestorPath)...)
		}
		return entries
	}

	if e.relevant(node) && node.Link != "" {
		entries = append(entries, Entry{
			Title: node.Title,
			URL:   e.resolve(node.Link),
			Link:  node.Link,
			ID:    node.ID,
			Path:  ancestorPath,
		})
	}

	if len(node.Children) > 0 {
		childPath := node.Title
		if ancestorPath != "" {
			childPath = ancestorPath + "/" + node.Title
		}
		for _, child := range node.Children {
			entries = append(entries, e.Extract(child, childPath)...)
		}
	}

	return entries
}

func (e *Extractor) relevant(node toctree.Node) bool {
	for _, kw := range e.rules.Keywords {
		if strings.Contains(node.Title, kw) {
			return true
		}
	}
	if node.Link != "" && strings.Contains(node.Link, e.rules.LinkMarker) {
		return true
	}
	lower := strings.ToLower(node.Title)
	for _, word := range e.rules.TitleWords {
		if strings.Contains(lower, word) {
			return true
		}
	}
	return false
}

func (e *Extractor) resolve(link string) string {
	ref, err := url.Parse(link)
	if err != nil {
		return link
	}
	return e.base.ResolveReference(ref).String()
}
