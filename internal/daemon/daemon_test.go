package daemon

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/gofrs/flock"

	"github.com/ryan-gang/vidmark/internal/bookmarks"
	"github.com/ryan-gang/vidmark/internal/config"
	"github.com/ryan-gang/vidmark/internal/pageinfo"
)

type memPages struct {
	mu    sync.Mutex
	pages map[string]bookmarks.Bookmark
}

func newMemPages() *memPages {
	return &memPages{pages: make(map[string]bookmarks.Bookmark)}
}

func (m *memPages) GetPage(ctx context.Context, id string) (*bookmarks.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	page, ok := m.pages[id]
	if !ok {
		return nil, nil
	}
	return &page, nil
}

func (m *memPages) SavePage(ctx context.Context, b bookmarks.Bookmark) (*bookmarks.Bookmark, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[b.ID] = b
	return &b, nil
}

type stubFetcher struct {
	fail map[string]bool
}

func (s stubFetcher) Fetch(ctx context.Context, pageURL string) (bookmarks.Meta, error) {
	if s.fail[pageURL] {
		return bookmarks.Meta{}, errors.New("unreachable")
	}
	return bookmarks.Meta{Title: "Title of " + pageURL, URL: pageinfo.CanonicalURL(pageURL)}, nil
}

func writeLinks(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "links.txt")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write links: %v", err)
	}
	return path
}

func newTestImporter(t *testing.T, body string, pages PageStore, fetcher MetaFetcher) *Importer {
	t.Helper()
	registry, err := NewFileRegistry(writeLinks(t, body))
	if err != nil {
		t.Fatalf("NewFileRegistry failed: %v", err)
	}
	return NewImporter(registry, pages, fetcher, nil)
}

func TestImportSavesNewPagesWithTags(t *testing.T) {
	pages := newMemPages()
	im := newTestImporter(t, "https://youtu.be/aaa #go #talks\nhttps://www.youtube.com/watch?v=bbb\nhttps://youtu.be/aaa\n", pages, stubFetcher{})
	im.now = func() time.Time { return time.UnixMilli(1000) }

	result, err := im.Import(context.Background())
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result != (ImportResult{Found: 2, Saved: 2}) {
		t.Fatalf("unexpected result %+v", result)
	}

	first := pages.pages[pageinfo.PageID("https://youtu.be/aaa")]
	if !reflect.DeepEqual(first.Tags, []string{"go", "talks"}) || first.CreatedAt != 1000 {
		t.Fatalf("unexpected first page %+v", first)
	}
	second := pages.pages[pageinfo.PageID("https://www.youtube.com/watch?v=bbb")]
	if second.CreatedAt != 1001 || second.Meta.Title == "" {
		t.Fatalf("unexpected second page %+v", second)
	}
}

func TestImportSkipsStoredPages(t *testing.T) {
	pages := newMemPages()
	im := newTestImporter(t, "https://youtu.be/aaa\nhttps://youtu.be/bbb\n", pages, stubFetcher{})

	if _, err := im.Import(context.Background()); err != nil {
		t.Fatalf("first Import failed: %v", err)
	}
	result, err := im.Import(context.Background())
	if err != nil {
		t.Fatalf("second Import failed: %v", err)
	}
	if result.Saved != 0 || result.Skipped != 2 {
		t.Fatalf("expected everything skipped, got %+v", result)
	}
}

func TestImportKeepsPageWhenMetadataFails(t *testing.T) {
	pages := newMemPages()
	link := "https://youtu.be/ccc"
	im := newTestImporter(t, link+" #later\n", pages, stubFetcher{fail: map[string]bool{link: true}})

	result, err := im.Import(context.Background())
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if result.Saved != 1 || result.Failed != 1 {
		t.Fatalf("unexpected result %+v", result)
	}
	page := pages.pages[pageinfo.PageID(link)]
	want := pageinfo.CanonicalURL(link)
	if page.Meta.URL != want || page.Meta.Title != want {
		t.Fatalf("unexpected fallback meta %+v", page.Meta)
	}
}

func TestReadLinksWithoutProviders(t *testing.T) {
	im := NewImporter(bookmarks.NewRegistry(), newMemPages(), stubFetcher{}, nil)
	if _, err := im.Import(context.Background()); err == nil {
		t.Fatal("expected error without providers")
	}
}

func testConfig(t *testing.T) config.ConfigProvider {
	t.Helper()
	dir := t.TempDir()
	c := config.NewConfig()
	c.PidFile = filepath.Join(dir, "vidmark.pid")
	c.LogPath = filepath.Join(dir, "vidmark.log")
	c.BookmarkPath = writeLinks(t, "https://youtu.be/aaa\n")
	c.DaemonEnabled = true
	return config.NewConfigProvider(c)
}

func TestRunningReflectsLock(t *testing.T) {
	cfg := testConfig(t)
	if _, err := Running(cfg); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning, got %v", err)
	}

	holder := flock.New(lockPath(cfg))
	ok, err := holder.TryLock()
	if err != nil || !ok {
		t.Fatalf("TryLock failed: %v", err)
	}
	defer holder.Unlock()
	if err := os.WriteFile(cfg.GetPidFile(), []byte("4242\n"), 0o644); err != nil {
		t.Fatalf("write pid: %v", err)
	}

	pid, err := Running(cfg)
	if err != nil || pid != 4242 {
		t.Fatalf("Running = %d, %v", pid, err)
	}
}

func TestStartRefusesWhenLocked(t *testing.T) {
	cfg := testConfig(t)
	holder := flock.New(lockPath(cfg))
	if ok, err := holder.TryLock(); err != nil || !ok {
		t.Fatalf("TryLock failed: %v", err)
	}
	defer holder.Unlock()

	im := newTestImporter(t, "https://youtu.be/aaa\n", newMemPages(), stubFetcher{})
	d := NewDaemon(cfg, im, nil)
	if err := d.Start(); err == nil {
		t.Fatal("expected already running error")
	}
}

func TestStartImportsAndStops(t *testing.T) {
	cfg := testConfig(t)
	pages := newMemPages()
	registry, err := NewFileRegistry(cfg.GetBookmarkPath())
	if err != nil {
		t.Fatalf("NewFileRegistry failed: %v", err)
	}
	d := NewDaemon(cfg, NewImporter(registry, pages, stubFetcher{}, nil), nil)

	done := make(chan error, 1)
	go func() { done <- d.Start() }()

	deadline := time.Now().Add(2 * time.Second)
	for {
		if _, err := Running(cfg); err == nil {
			pages.mu.Lock()
			n := len(pages.pages)
			pages.mu.Unlock()
			if n == 1 {
				break
			}
		}
		if time.Now().After(deadline) {
			t.Fatal("daemon did not start importing")
		}
		time.Sleep(10 * time.Millisecond)
	}

	d.Stop()
	if err := <-done; err != nil {
		t.Fatalf("Start returned %v", err)
	}
	if _, err := Running(cfg); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("lock still held: %v", err)
	}
	if _, err := os.Stat(cfg.GetPidFile()); !os.IsNotExist(err) {
		t.Fatalf("pid file left behind: %v", err)
	}
}

func TestValidateConfiguration(t *testing.T) {
	c := config.NewConfig()
	d := NewDaemon(config.NewConfigProvider(c), nil, nil)
	if err := d.Start(); err == nil || err.Error() != "daemon is not enabled in configuration" {
		t.Fatalf("unexpected error %v", err)
	}
}
