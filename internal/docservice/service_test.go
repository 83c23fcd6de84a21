package docservice

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/starford/fusiondocs/internal/docparse"
	"github.com/starford/fusiondocs/internal/extract"
	"github.com/starford/fusiondocs/internal/testutil"
	"github.com/starford/fusiondocs/internal/toctree"
)

type fakeLoader struct {
	tree *toctree.Tree
	err  error
}

func (f *fakeLoader) Load(ctx context.Context) (*toctree.Tree, error) {
	return f.tree, f.err
}

type fakeDocs struct {
	doc   *docparse.Document
	err   error
	calls int
	last  extract.Entry
}

func (f *fakeDocs) GetOrFetch(ctx context.Context, entry extract.Entry) (*docparse.Document, error) {
	f.calls++
	f.last = entry
	return f.doc, f.err
}

func testService(t *testing.T, loader TreeLoader, docs DocStore) *Service {
	t.Helper()
	extractor, err := extract.New("https://help.autodesk.com")
	if err != nil {
		t.Fatalf("extract.New: %v", err)
	}
	return New(loader, docs, extractor, slog.New(slog.DiscardHandler))
}

func sampleService(t *testing.T, docs DocStore) *Service {
	t.Helper()
	return testService(t, &fakeLoader{tree: testutil.SampleTree(t)}, docs)
}

func TestSearch_RanksAndTruncates(t *testing.T) {
	svc := sampleService(t, &fakeDocs{})

	out := svc.Search(context.Background(), "sketch", 2)

	first := strings.Index(out, "📚 Sketch Class\n")
	second := strings.Index(out, "📚 SketchPoint Property\n")
	if first == -1 || second == -1 {
		t.Fatalf("missing expected results:\n%s", out)
	}
	if first > second {
		t.Errorf("results out of order:\n%s", out)
	}
	if strings.Contains(out, "Extrude Method") {
		t.Errorf("unrelated entry in results:\n%s", out)
	}
	if got := strings.Count(out, "📚 "); got != 2 {
		t.Errorf("result count = %d, want 2:\n%s", got, out)
	}
}

func TestSearch_SubstringOutranksToken(t *testing.T) {
	svc := sampleService(t, &fakeDocs{})

	out := svc.Search(context.Background(), "sketch class", 5)

	whole := strings.Index(out, "📚 Sketch Class\n")
	token := strings.Index(out, "📚 SketchPoint Property\n")
	if whole == -1 || token == -1 {
		t.Fatalf("missing expected results:\n%s", out)
	}
	if whole > token {
		t.Errorf("whole-query match should rank first:\n%s", out)
	}
}

func TestSearch_NoMatches(t *testing.T) {
	svc := sampleService(t, &fakeDocs{})

	out := svc.Search(context.Background(), "nonexistent", 5)
	want := "No documentation found for query: 'nonexistent'"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestSearch_ZeroMaxUsesDefault(t *testing.T) {
	svc := sampleService(t, &fakeDocs{})

	out := svc.Search(context.Background(), "sketch", 0)
	if got := strings.Count(out, "📚 "); got != 2 {
		t.Errorf("result count = %d, want 2:\n%s", got, out)
	}
}

func TestSearch_IncludesURLAndPath(t *testing.T) {
	svc := sampleService(t, &fakeDocs{})

	out := svc.Search(context.Background(), "Sketch Class", 1)
	if !strings.Contains(out, "URL: https://help.autodesk.com/sketch.html") {
		t.Errorf("missing resolved URL:\n%s", out)
	}
	if !strings.Contains(out, "Path: Fusion 360 API Reference") {
		t.Errorf("missing path:\n%s", out)
	}
}

func TestOverview_BucketsAndCounts(t *testing.T) {
	svc := sampleService(t, &fakeDocs{})

	out := svc.Overview(context.Background())

	if !strings.Contains(out, "Total API-related entries found: 4") {
		t.Errorf("wrong total:\n%s", out)
	}
	for _, want := range []string{
		"Classes & Objects (1 items):",
		"Methods & Functions (1 items):",
		"Properties & Attributes (1 items):",
		"Reference (1 items):",
		"  - Sketch Class",
		"  - Extrude Method",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Release Notes") {
		t.Errorf("irrelevant entry in overview:\n%s", out)
	}
}

func TestOverview_CapsExamplesPerBucket(t *testing.T) {
	tree := &toctree.Tree{}
	for i := 0; i < 12; i++ {
		tree.Books = append(tree.Books, toctree.Node{
			Title: "Widget" + string(rune('A'+i)) + " Class",
			Link:  "/w.html",
			ID:    "w",
		})
	}
	svc := testService(t, &fakeLoader{tree: tree}, &fakeDocs{})

	out := svc.Overview(context.Background())
	if !strings.Contains(out, "Classes & Objects (12 items):") {
		t.Errorf("wrong bucket count:\n%s", out)
	}
	if !strings.Contains(out, "  ... and 2 more") {
		t.Errorf("missing overflow line:\n%s", out)
	}
	if got := strings.Count(out, "  - "); got != 10 {
		t.Errorf("example lines = %d, want 10:\n%s", got, out)
	}
}

func TestOverview_LoadFailure(t *testing.T) {
	svc := testService(t, &fakeLoader{err: errors.New("boom")}, &fakeDocs{})

	if out := svc.Overview(context.Background()); out != failedLoadMessage {
		t.Errorf("got %q", out)
	}
}

func TestClassInfo_FirstMatchResolved(t *testing.T) {
	docs := &fakeDocs{doc: &docparse.Document{
		Title:      "Sketch Object",
		URL:        "https://help.autodesk.com/sketch.html",
		Content:    "The Sketch object represents a sketch.",
		Classes:    []string{"Sketch"},
		Methods:    []string{"addByTwoPoints"},
		Properties: []string{"isValid"},
	}}
	svc := sampleService(t, docs)

	out := svc.ClassInfo(context.Background(), "Sketch")

	if docs.calls != 1 {
		t.Fatalf("GetOrFetch calls = %d, want 1", docs.calls)
	}
	if docs.last.Title != "Sketch Class" {
		t.Errorf("resolved entry = %q, want first match", docs.last.Title)
	}
	for _, want := range []string{
		"API Class Information: Sketch",
		"📖 Title: Sketch Object",
		"🔗 URL: https://help.autodesk.com/sketch.html",
		"📋 Classes found: Sketch",
		"🔧 Methods found: addByTwoPoints",
		"📊 Properties found: isValid",
		"📝 Content Preview:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q:\n%s", want, out)
		}
	}
}

func TestClassInfo_MethodOverflow(t *testing.T) {
	methods := make([]string, 14)
	for i := range methods {
		methods[i] = "m" + string(rune('a'+i))
	}
	docs := &fakeDocs{doc: &docparse.Document{Title: "T", URL: "u", Methods: methods}}
	svc := sampleService(t, docs)

	out := svc.ClassInfo(context.Background(), "Sketch")
	if !strings.Contains(out, "... and 4 more") {
		t.Errorf("missing method overflow:\n%s", out)
	}
	if strings.Contains(out, "mn") {
		t.Errorf("overflowed method rendered:\n%s", out)
	}
}

func TestClassInfo_NotFound(t *testing.T) {
	svc := sampleService(t, &fakeDocs{})

	out := svc.ClassInfo(context.Background(), "Bolt")
	want := "No documentation found for class: 'Bolt'"
	if out != want {
		t.Errorf("got %q, want %q", out, want)
	}
}

func TestClassInfo_FetchFailureListsCandidates(t *testing.T) {
	docs := &fakeDocs{err: errors.New("unreachable")}
	svc := sampleService(t, docs)

	out := svc.ClassInfo(context.Background(), "Sketch")
	if !strings.Contains(out, "Found matches for 'Sketch':") {
		t.Errorf("missing candidate header:\n%s", out)
	}
	if !strings.Contains(out, "📚 Sketch Class") || !strings.Contains(out, "📚 SketchPoint Property") {
		t.Errorf("missing candidates:\n%s", out)
	}
}

func TestClassInfo_LoadFailure(t *testing.T) {
	svc := testService(t, &fakeLoader{err: errors.New("boom")}, &fakeDocs{})

	if out := svc.ClassInfo(context.Background(), "Sketch"); out != failedLoadMessage {
		t.Errorf("got %q", out)
	}
}

func TestAnalyzeArrange3D_SectionLayout(t *testing.T) {
	svc := sampleService(t, &fakeDocs{})

	out := svc.AnalyzeArrange3D(context.Background())

	sections := []string{
		"🔍 Analysis of Arrange3DDefinition Object",
		"=== Specific Arrange3D Searches ===",
		"=== General Arrange Functionality ===",
		"=== Detailed Class Information ===",
	}
	last := -1
	for _, s := range sections {
		idx := strings.Index(out, s)
		if idx == -1 {
			t.Fatalf("missing section %q:\n%s", s, out)
		}
		if idx < last {
			t.Errorf("section %q out of order", s)
		}
		last = idx
	}
	if !strings.Contains(out, "No documentation found for query: 'Arrange3D'") {
		t.Errorf("missing empty search result:\n%s", out)
	}
	if !strings.Contains(out, "No documentation found for class: 'Arrange3DDefinition'") {
		t.Errorf("missing class miss:\n%s", out)
	}
}
