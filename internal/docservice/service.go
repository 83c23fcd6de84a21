// Package docservice answers overview, search, and class-detail queries
// over the extracted documentation entries. Every operation returns a
// rendered text block; failures degrade to explanatory text, never errors.
package docservice

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/starford/fusiondocs/internal/docparse"
	"github.com/starford/fusiondocs/internal/extract"
	"github.com/starford/fusiondocs/internal/toctree"
)

// DefaultMaxResults is the search result limit when the caller gives none.
const DefaultMaxResults = 5

const failedLoadMessage = "Failed to load documentation structure."

// TreeLoader supplies the table of contents.
type TreeLoader interface {
	Load(ctx context.Context) (*toctree.Tree, error)
}

// DocStore resolves an entry to its parsed documentation record.
type DocStore interface {
	GetOrFetch(ctx context.Context, entry extract.Entry) (*docparse.Document, error)
}

// Service is the query engine over the documentation tree.
type Service struct {
	loader    TreeLoader
	docs      DocStore
	extractor *extract.Extractor
	logger    *slog.Logger
}

// New creates a Service.
func New(loader TreeLoader, docs DocStore, extractor *extract.Extractor, logger *slog.Logger) *Service {
	return &Service{
		loader:    loader,
		docs:      docs,
		extractor: extractor,
		logger:    logger,
	}
}

// entries re-extracts the flat entry collection. Extraction is cheap next to
// network I/O, so no entry collection is cached between calls.
func (s *Service) entries(ctx context.Context) ([]extract.Entry, error) {
	tree, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.extractor.ExtractAll(tree), nil
}

// Overview renders the documentation structure: entries bucketed by title
// keyword, with counts and up to ten example titles per bucket.
func (s *Service) Overview(ctx context.Context) string {
	entries, err := s.entries(ctx)
	if err != nil {
		return failedLoadMessage
	}

	buckets := make(map[string][]string)
	for _, e := range entries {
		cat := classify(e.Title)
		buckets[cat] = append(buckets[cat], e.Title)
	}

	var sb strings.Builder
	sb.WriteString("Fusion 360 API Documentation Structure:\n\n")
	fmt.Fprintf(&sb, "Total API-related entries found: %d\n\n", len(entries))

	for _, cat := range categoryOrder {
		items := buckets[cat]
		if len(items) == 0 {
			continue
		}
		fmt.Fprintf(&sb, "%s (%d items):\n", cat, len(items))
		for i, item := range items {
			if i == 10 {
				break
			}
			fmt.Fprintf(&sb, "  - %s\n", item)
		}
		if len(items) > 10 {
			fmt.Fprintf(&sb, "  ... and %d more\n", len(items)-10)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// Search scores every entry against the free-text query: 10 when the whole
// query is a substring of the title, 5 when any query token is, excluded
// otherwise. Results are sorted by score descending with stable tie order
// and truncated to maxResults.
func (s *Service) Search(ctx context.Context, query string, maxResults int) string {
	entries, err := s.entries(ctx)
	if err != nil {
		return failedLoadMessage
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	type match struct {
		score int
		entry extract.Entry
	}

	queryLower := strings.ToLower(query)
	tokens := strings.Fields(queryLower)

	var matches []match
	for _, e := range entries {
		titleLower := strings.ToLower(e.Title)
		switch {
		case strings.Contains(titleLower, queryLower):
			matches = append(matches, match{score: 10, entry: e})
		case anyToken(titleLower, tokens):
			matches = append(matches, match{score: 5, entry: e})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > maxResults {
		matches = matches[:maxResults]
	}

	if len(matches) == 0 {
		return fmt.Sprintf("No documentation found for query: '%s'", query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Search results for '%s':\n\n", query)
	for _, m := range matches {
		fmt.Fprintf(&sb, "📚 %s\n", m.entry.Title)
		fmt.Fprintf(&sb, "   URL: %s\n", m.entry.URL)
		fmt.Fprintf(&sb, "   Path: %s\n\n", m.entry.Path)
	}
	return sb.String()
}

// ClassInfo looks up a class by name: the first entry (in extraction order)
// whose title contains the name is resolved through the doc cache and
// rendered in detail. When resolution fails the raw candidates are listed
// instead.
func (s *Service) ClassInfo(ctx context.Context, className string) string {
	entries, err := s.entries(ctx)
	if err != nil {
		return failedLoadMessage
	}

	nameLower := strings.ToLower(className)
	var candidates []extract.Entry
	for _, e := range entries {
		if strings.Contains(strings.ToLower(e.Title), nameLower) {
			candidates = append(candidates, e)
		}
	}

	if len(candidates) == 0 {
		return fmt.Sprintf("No documentation found for class: '%s'", className)
	}

	doc, err := s.docs.GetOrFetch(ctx, candidates[0])
	if err != nil {
		s.logger.Warn("class lookup falling back to candidate list",
			slog.String("class", className),
			slog.String("error", err.Error()))
		return renderCandidates(className, candidates)
	}

	return renderClassDetail(className, doc)
}

// AnalyzeArrange3D is a scripted composite: two fixed searches plus the
// Arrange3DDefinition class lookup, concatenated into one report.
func (s *Service) AnalyzeArrange3D(ctx context.Context) string {
	arrangeInfo := s.Search(ctx, "Arrange3D", 10)
	arrangeGeneral := s.Search(ctx, "arrange", 10)
	classInfo := s.ClassInfo(ctx, "Arrange3DDefinition")

	var sb strings.Builder
	sb.WriteString("🔍 Analysis of Arrange3DDefinition Object\n\n")
	sb.WriteString("=== Specific Arrange3D Searches ===\n")
	sb.WriteString(arrangeInfo)
	sb.WriteString("\n\n")
	sb.WriteString("=== General Arrange Functionality ===\n")
	sb.WriteString(arrangeGeneral)
	sb.WriteString("\n\n")
	sb.WriteString("=== Detailed Class Information ===\n")
	sb.WriteString(classInfo)
	return sb.String()
}

func anyToken(title string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(title, tok) {
			return true
		}
	}
	return false
}
