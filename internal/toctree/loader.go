package toctree

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"github.com/starford/fusiondocs/internal/apperr"
	"github.com/starford/fusiondocs/internal/storage"
)

// CacheFile is the cache-root path holding the serialized tree.
const CacheFile = "toctree.json"

// Fetcher retrieves a URL as text.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Loader loads the table of contents at most once per instance: from the
// in-memory slot, then the cache file, then the network. Only successful
// loads populate the slot, so a failed load is retried on the next call.
type Loader struct {
	fs      *storage.FS
	fetcher Fetcher
	url     string
	logger  *slog.Logger
	notify  func(source string)

	mu   sync.Mutex
	tree *Tree
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithNotify registers a hook called with the load source ("cache" or
// "network") after a successful load.
func WithNotify(fn func(source string)) LoaderOption {
	return func(l *Loader) {
		l.notify = fn
	}
}

// NewLoader creates a Loader against the given cache root and remote URL.
func NewLoader(fs *storage.FS, fetcher Fetcher, url string, logger *slog.Logger, opts ...LoaderOption) *Loader {
	l := &Loader{
		fs:      fs,
		fetcher: fetcher,
		url:     url,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the table of contents. Failures wrap apperr.ErrUnavailable;
// callers render them as a degraded textual response, never a crash.
func (l *Loader) Load(ctx context.Context) (*Tree, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.tree != nil {
		return l.tree, nil
	}

	if tree, ok := l.loadFromFile(); ok {
		l.tree = tree
		l.emit("cache")
		return tree, nil
	}

	return l.loadFromNetwork(ctx)
}

// loadFromFile reads the cache file. A missing or corrupt file is a miss,
// never an error.
func (l *Loader) loadFromFile() (*Tree, bool) {
	data, err := l.fs.Read(CacheFile)
	if err != nil {
		return nil, false
	}
	var tree Tree
	if err := json.Unmarshal(data, &tree); err != nil {
		l.logger.Warn("corrupt toctree cache file, refetching",
			slog.String("error", err.Error()))
		return nil, false
	}
	return &tree, true
}

func (l *Loader) loadFromNetwork(ctx context.Context) (*Tree, error) {
	body, err := l.fetcher.Fetch(ctx, l.url)
	if err != nil {
		l.logger.Error("failed to fetch toctree",
			slog.String("url", l.url),
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("toctree: fetch: %w", apperr.ErrUnavailable)
	}

	var tree Tree
	if err := json.Unmarshal([]byte(body), &tree); err != nil {
		l.logger.Error("failed to parse toctree JSON",
			slog.String("error", err.Error()))
		return nil, fmt.Errorf("toctree: parse: %w", apperr.ErrUnavailable)
	}

	l.tree = &tree
	l.persist([]byte(body))
	l.emit("network")
	return &tree, nil
}

// persist writes a pretty-printed copy of the raw document. Write failures
// are logged and swallowed; caching is best effort.
func (l *Loader) persist(raw []byte) {
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		return
	}
	if err := l.fs.Write(CacheFile, pretty.Bytes()); err != nil {
		l.logger.Warn("failed to persist toctree cache",
			slog.String("error", err.Error()))
	}
}

func (l *Loader) emit(source string) {
	if l.notify != nil {
		l.notify(source)
	}
}
