// Package doccache persists parsed documentation records, one file per
// entry id, and resolves misses through fetch + parse.
package doccache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"path"

	"github.com/starford/fusiondocs/internal/apperr"
	"github.com/starford/fusiondocs/internal/docparse"
	"github.com/starford/fusiondocs/internal/extract"
	"github.com/starford/fusiondocs/internal/storage"
)

// Dir is the cache-root subdirectory holding per-entry records.
const Dir = "docs"

// Fetcher retrieves a URL as text.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Store caches one parsed document per entry id. Entries are never
// invalidated or refreshed.
type Store struct {
	fs      *storage.FS
	fetcher Fetcher
	logger  *slog.Logger
	notify  func(id, url string)
}

// Option configures a Store.
type Option func(*Store)

// WithNotify registers a hook called after a page is fetched, parsed, and
// cached (not on cache hits).
func WithNotify(fn func(id, url string)) Option {
	return func(s *Store) {
		s.notify = fn
	}
}

// New creates a Store over the given cache root.
func New(fs *storage.FS, fetcher Fetcher, logger *slog.Logger, opts ...Option) *Store {
	s := &Store{
		fs:      fs,
		fetcher: fetcher,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetOrFetch returns the cached record for entry, fetching and parsing the
// page on a miss. A corrupt cache file counts as a miss; write failures are
// swallowed. Only a failed fetch returns an error, wrapping
// apperr.ErrUnavailable.
func (s *Store) GetOrFetch(ctx context.Context, entry extract.Entry) (*docparse.Document, error) {
	if doc, ok := s.get(entry.ID); ok {
		return doc, nil
	}

	body, err := s.fetcher.Fetch(ctx, entry.URL)
	if err != nil {
		s.logger.Error("failed to fetch documentation page",
			slog.String("url", entry.URL),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("doccache: fetch %s: %w", entry.URL, apperr.ErrUnavailable)
	}

	doc := docparse.Parse(body, entry.URL)
	s.put(entry.ID, doc)
	if s.notify != nil {
		s.notify(entry.ID, entry.URL)
	}
	return doc, nil
}

func (s *Store) get(id string) (*docparse.Document, bool) {
	data, err := s.fs.Read(cachePath(id))
	if err != nil {
		return nil, false
	}
	var doc docparse.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		s.logger.Warn("corrupt doc cache file, refetching",
			slog.String("id", id),
			slog.String("error", err.Error()))
		return nil, false
	}
	return &doc, true
}

func (s *Store) put(id string, doc *docparse.Document) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return
	}
	if err := s.fs.Write(cachePath(id), data); err != nil {
		s.logger.Warn("failed to persist doc cache entry",
			slog.String("id", id),
			slog.String("error", err.Error()))
	}
}

func cachePath(id string) string {
	return path.Join(Dir, id+".json")
}
