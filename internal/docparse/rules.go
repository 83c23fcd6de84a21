package docparse

import "regexp"

// contentSelectors locate the main-content region, tried in order.
var contentSelectors = []string{
	"main", ".content", "#content", ".main-content",
	".documentation", ".api-doc", "article",
}

// Identifier harvest patterns. Each pattern's first capture group is the
// candidate name; matching is case-insensitive.
var (
	classPatterns = compile(
		`class\s+(\w+)`,
		`(\w+)\s+class`,
		`(\w+)\s+object`,
		`(\w+)\s+interface`,
	)

	methodPatterns = compile(
		`(\w+)\s*\([^)]*\)\s*[:-]`,
		`def\s+(\w+)`,
		`function\s+(\w+)`,
		`(\w+)\s+method`,
	)

	propertyPatterns = compile(
		`(\w+)\s+property`,
		`property\s+(\w+)`,
		`(\w+)\s*:\s*\w+`,
	)
)

func compile(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		out = append(out, regexp.MustCompile(`(?i)`+expr))
	}
	return out
}
