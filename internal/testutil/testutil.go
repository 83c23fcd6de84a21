// Package testutil provides shared test helpers for cache roots and sample
// documentation trees.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/starford/fusiondocs/internal/storage"
	"github.com/starford/fusiondocs/internal/toctree"
)

// TestFS creates a cache root in a temporary directory.
func TestFS(t *testing.T) *storage.FS {
	t.Helper()
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return fs
}

// SampleTreeJSON is a small table of contents exercising nested children
// and both relevant and irrelevant nodes.
const SampleTreeJSON = `{
  "books": [
    {
      "ttl": "Fusion 360 API Reference",
      "ln": "/view/fusion360/ENU/Fusion-360-API/index.html",
      "id": "ref-root",
      "children": [
        {"ttl": "Sketch Class", "ln": "/sketch.html", "id": "sketch", "children": []},
        {"ttl": "SketchPoint Property", "ln": "/sketchpoint.html", "id": "sketchpoint", "children": []},
        {"ttl": "Extrude Method", "ln": "/extrude.html", "id": "extrude", "children": []}
      ]
    },
    {"ttl": "Release Notes", "ln": "/notes.html", "id": "notes", "children": []}
  ]
}`

// SampleTree parses SampleTreeJSON.
func SampleTree(t *testing.T) *toctree.Tree {
	t.Helper()
	return ParseTree(t, SampleTreeJSON)
}

// ParseTree parses a tree document for test setup.
func ParseTree(t *testing.T, doc string) *toctree.Tree {
	t.Helper()
	var tree toctree.Tree
	if err := json.Unmarshal([]byte(doc), &tree); err != nil {
		t.Fatalf("parse tree: %v", err)
	}
	return &tree
}

// PageServer serves the given path→body pages and 404s everything else.
func PageServer(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}
