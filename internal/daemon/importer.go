package daemon

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ryan-gang/vidmark/internal/bookmarks"
	"github.com/ryan-gang/vidmark/internal/bookmarks/providers"
	"github.com/ryan-gang/vidmark/internal/logger"
	"github.com/ryan-gang/vidmark/internal/pageinfo"
)

const defaultFetchWorkers = 4

// PageStore is the part of the storage layer the importer writes to
type PageStore interface {
	GetPage(ctx context.Context, id string) (*bookmarks.Bookmark, error)
	SavePage(ctx context.Context, b bookmarks.Bookmark) (*bookmarks.Bookmark, error)
}

// MetaFetcher resolves page metadata for a URL
type MetaFetcher interface {
	Fetch(ctx context.Context, pageURL string) (bookmarks.Meta, error)
}

// ImportResult counts what one import cycle did
type ImportResult struct {
	Found   int
	Saved   int
	Skipped int
	Failed  int
}

// Importer turns provider links into stored pages. Links whose page already
// exists are skipped, so running it repeatedly is safe.
type Importer struct {
	registry *bookmarks.Registry
	pages    PageStore
	fetcher  MetaFetcher
	logger   logger.LoggerInterface
	workers  int
	now      func() time.Time
}

func NewImporter(registry *bookmarks.Registry, pages PageStore, fetcher MetaFetcher, log logger.LoggerInterface) *Importer {
	if log == nil {
		log = logger.Discard()
	}
	return &Importer{
		registry: registry,
		pages:    pages,
		fetcher:  fetcher,
		logger:   log,
		workers:  defaultFetchWorkers,
		now:      time.Now,
	}
}

// NewFileRegistry returns a registry with the file provider reading path
func NewFileRegistry(path string) (*bookmarks.Registry, error) {
	registry := bookmarks.NewRegistry()
	if err := registry.Register(providers.NewFileProvider()); err != nil {
		return nil, err
	}
	err := registry.Configure(providers.FileProviderName, bookmarks.ProviderConfig{
		Name:     providers.FileProviderName,
		Enabled:  true,
		Settings: map[string]interface{}{"path": path},
	})
	if err != nil {
		return nil, err
	}
	return registry, nil
}

// ReadLinks collects links from every enabled provider, dropping links
// that resolve to the same page. Provider failures are logged and skipped.
func (im *Importer) ReadLinks(ctx context.Context) ([]bookmarks.Link, error) {
	enabled := im.registry.GetEnabled()
	if len(enabled) == 0 {
		return nil, fmt.Errorf("no link providers enabled")
	}

	seen := make(map[string]bool)
	var links []bookmarks.Link
	for _, provider := range enabled {
		found, err := provider.GetLinks(ctx)
		if err != nil {
			im.logger.Errorf("Provider %s failed: %v", provider.Name(), err)
			continue
		}
		for _, link := range found {
			id := pageinfo.PageID(link.URL)
			if seen[id] {
				continue
			}
			seen[id] = true
			links = append(links, link)
		}
	}
	return links, nil
}

// Import reads all providers and saves pages for links not yet stored.
// Metadata is fetched concurrently; a failed fetch still saves the page
// with its URL as title.
func (im *Importer) Import(ctx context.Context) (ImportResult, error) {
	links, err := im.ReadLinks(ctx)
	if err != nil {
		return ImportResult{}, err
	}

	var (
		mu     sync.Mutex
		result = ImportResult{Found: len(links)}
	)
	count := func(field *int) {
		mu.Lock()
		*field++
		mu.Unlock()
	}

	// keeps the provider order when listing by creation time
	base := im.now().UnixMilli()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(im.workers)
	for i, link := range links {
		g.Go(func() error {
			id := pageinfo.PageID(link.URL)
			existing, err := im.pages.GetPage(gctx, id)
			if err != nil {
				return fmt.Errorf("checking %s: %w", link.URL, err)
			}
			if existing != nil {
				count(&result.Skipped)
				return nil
			}

			meta, err := im.fetcher.Fetch(gctx, link.URL)
			if err != nil {
				im.logger.Warnf("Metadata for %s unavailable: %v", link.URL, err)
				count(&result.Failed)
				meta = bookmarks.Meta{URL: pageinfo.CanonicalURL(link.URL), Title: link.Title}
			}
			if meta.Title == "" {
				meta.Title = meta.URL
			}

			_, err = im.pages.SavePage(gctx, bookmarks.Bookmark{
				ID:        id,
				CreatedAt: base + int64(i),
				Meta:      meta,
				Tags:      link.Tags,
			})
			if err != nil {
				return fmt.Errorf("saving %s: %w", link.URL, err)
			}
			im.logger.Infof("Imported %s (%s)", meta.Title, id)
			count(&result.Saved)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return result, err
	}
	return result, nil
}
