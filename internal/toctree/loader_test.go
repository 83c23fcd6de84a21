package toctree

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/starford/fusiondocs/internal/apperr"
	"github.com/starford/fusiondocs/internal/storage"
)

type fetcherFunc func(ctx context.Context, url string) (string, error)

func (f fetcherFunc) Fetch(ctx context.Context, url string) (string, error) {
	return f(ctx, url)
}

const sampleDoc = `{"books": [{"ttl": "API Reference", "ln": "/ref.html", "id": "r1", "children": []}]}`

func testLoader(t *testing.T, fetch fetcherFunc, opts ...LoaderOption) (*Loader, *storage.FS) {
	t.Helper()
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	logger := slog.New(slog.DiscardHandler)
	return NewLoader(fs, fetch, "https://docs.example.com/toctree.json", logger, opts...), fs
}

func TestLoad_FetchesAndPersists(t *testing.T) {
	calls := 0
	l, fs := testLoader(t, func(_ context.Context, _ string) (string, error) {
		calls++
		return sampleDoc, nil
	})

	tree, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(tree.Books) != 1 || tree.Books[0].Title != "API Reference" {
		t.Errorf("tree = %+v", tree)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}

	data, err := fs.Read(CacheFile)
	if err != nil {
		t.Fatalf("cache file not written: %v", err)
	}
	// Persisted copy is pretty-printed.
	if !strings.Contains(string(data), "\n  \"books\"") {
		t.Errorf("cache file not indented: %q", data)
	}
}

func TestLoad_SecondCallUsesSlot(t *testing.T) {
	calls := 0
	l, fs := testLoader(t, func(_ context.Context, _ string) (string, error) {
		calls++
		return sampleDoc, nil
	})

	if _, err := l.Load(context.Background()); err != nil {
		t.Fatalf("first Load: %v", err)
	}
	// Remove the cache file to prove the second load touches neither disk
	// nor network.
	if err := fs.Remove(CacheFile); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := l.Load(context.Background()); err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (single load per process)", calls)
	}
}

func TestLoad_CacheFileHitSkipsNetwork(t *testing.T) {
	l, fs := testLoader(t, func(_ context.Context, _ string) (string, error) {
		t.Fatal("fetch should not be called on cache hit")
		return "", nil
	})
	if err := fs.Write(CacheFile, []byte(sampleDoc)); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	tree, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tree.Books[0].ID != "r1" {
		t.Errorf("tree = %+v", tree)
	}
}

func TestLoad_CorruptCacheFileFallsThrough(t *testing.T) {
	calls := 0
	l, fs := testLoader(t, func(_ context.Context, _ string) (string, error) {
		calls++
		return sampleDoc, nil
	})
	if err := fs.Write(CacheFile, []byte("{{not json")); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	tree, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if len(tree.Books) != 1 {
		t.Errorf("tree = %+v", tree)
	}
}

func TestLoad_FetchFailure(t *testing.T) {
	l, _ := testLoader(t, func(_ context.Context, _ string) (string, error) {
		return "", errors.New("network unreachable")
	})

	_, err := l.Load(context.Background())
	if err == nil {
		t.Fatal("expected error when offline with no cache")
	}
	if !errors.Is(err, apperr.ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestLoad_ParseFailure(t *testing.T) {
	l, _ := testLoader(t, func(_ context.Context, _ string) (string, error) {
		return "<html>not json</html>", nil
	})

	_, err := l.Load(context.Background())
	if !errors.Is(err, apperr.ErrUnavailable) {
		t.Errorf("error = %v, want ErrUnavailable", err)
	}
}

func TestLoad_FailureDoesNotPopulateSlot(t *testing.T) {
	calls := 0
	l, _ := testLoader(t, func(_ context.Context, _ string) (string, error) {
		calls++
		if calls == 1 {
			return "", errors.New("transient")
		}
		return sampleDoc, nil
	})

	if _, err := l.Load(context.Background()); err == nil {
		t.Fatal("first load should fail")
	}
	tree, err := l.Load(context.Background())
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if len(tree.Books) != 1 {
		t.Errorf("tree = %+v", tree)
	}
}

func TestLoad_NotifiesSource(t *testing.T) {
	var sources []string
	l, _ := testLoader(t, func(_ context.Context, _ string) (string, error) {
		return sampleDoc, nil
	}, WithNotify(func(source string) {
		sources = append(sources, source)
	}))

	_, _ = l.Load(context.Background())
	_, _ = l.Load(context.Background())
	if len(sources) != 1 || sources[0] != "network" {
		t.Errorf("sources = %v, want [network]", sources)
	}
}
