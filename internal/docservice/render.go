package docservice

import (
	"fmt"
	"strings"

	"github.com/starford/fusiondocs/internal/docparse"
	"github.com/starford/fusiondocs/internal/extract"
)

// categoryOrder fixes both classifier priority and render order; the first
// matching bucket wins.
var categoryOrder = []string{
	"Classes & Objects",
	"Methods & Functions",
	"Properties & Attributes",
	"Reference",
	"Examples & Samples",
	"General API",
}

var categoryWords = map[string][]string{
	"Classes & Objects":       {"class", "object"},
	"Methods & Functions":     {"method", "function"},
	"Properties & Attributes": {"property", "attribute"},
	"Reference":               {"reference"},
	"Examples & Samples":      {"sample", "example"},
}

func classify(title string) string {
	lower := strings.ToLower(title)
	for _, cat := range categoryOrder {
		for _, word := range categoryWords[cat] {
			if strings.Contains(lower, word) {
				return cat
			}
		}
	}
	return "General API"
}

func renderClassDetail(className string, doc *docparse.Document) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "API Class Information: %s\n\n", className)
	fmt.Fprintf(&sb, "📖 Title: %s\n", doc.Title)
	fmt.Fprintf(&sb, "🔗 URL: %s\n\n", doc.URL)

	if len(doc.Classes) > 0 {
		fmt.Fprintf(&sb, "📋 Classes found: %s\n\n", strings.Join(doc.Classes, ", "))
	}

	if len(doc.Methods) > 0 {
		fmt.Fprintf(&sb, "🔧 Methods found: %s\n", strings.Join(head(doc.Methods, 10), ", "))
		if len(doc.Methods) > 10 {
			fmt.Fprintf(&sb, "   ... and %d more\n", len(doc.Methods)-10)
		}
		sb.WriteString("\n")
	}

	if len(doc.Properties) > 0 {
		fmt.Fprintf(&sb, "📊 Properties found: %s\n", strings.Join(head(doc.Properties, 10), ", "))
		if len(doc.Properties) > 10 {
			fmt.Fprintf(&sb, "   ... and %d more\n", len(doc.Properties)-10)
		}
		sb.WriteString("\n")
	}

	if len(doc.CodeExamples) > 0 {
		fmt.Fprintf(&sb, "💻 Code Examples (%d):\n", len(doc.CodeExamples))
		for i, example := range head(doc.CodeExamples, 2) {
			fmt.Fprintf(&sb, "\nExample %d:\n```\n%s...\n```\n", i+1, clip(example, 300))
		}
	}

	fmt.Fprintf(&sb, "\n📝 Content Preview:\n%s...\n", clip(doc.Content, 500))
	return sb.String()
}

func renderCandidates(className string, candidates []extract.Entry) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found matches for '%s':\n\n", className)
	for i, e := range candidates {
		if i == 3 {
			break
		}
		fmt.Fprintf(&sb, "📚 %s\n", e.Title)
		fmt.Fprintf(&sb, "   URL: %s\n\n", e.URL)
	}
	return sb.String()
}

func head(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}

func clip(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
