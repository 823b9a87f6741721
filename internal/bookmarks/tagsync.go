package bookmarks

import (
	"context"
	"sync"

	"github.com/ryan-gang/vidmark/internal/logger"
)

// TagSync keeps the bookmark list in step with the tag filter. After every
// SetTags, SelectTag or UnSelectTags it asks the backend for the bookmarks
// matching the selected tags and stores the answer. Re-syncs run in the
// background; the answer to an older filter is dropped once a newer filter
// has been requested.
type TagSync struct {
	store   *Store
	backend Backend
	logger  logger.LoggerInterface

	mu          sync.Mutex
	ctx         context.Context
	latest      uint64
	lastErr     error
	unsubscribe func()

	// serializes the staleness check with the commit
	applyMu sync.Mutex
	wg      sync.WaitGroup
}

func NewTagSync(store *Store, backend Backend, log logger.LoggerInterface) *TagSync {
	if log == nil {
		log = logger.Discard()
	}
	return &TagSync{store: store, backend: backend, logger: log}
}

// Start subscribes to the store. Re-syncs use ctx for their backend calls.
func (ts *TagSync) Start(ctx context.Context) {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	if ts.unsubscribe != nil {
		return
	}
	ts.ctx = ctx
	ts.unsubscribe = ts.store.Subscribe(ts.handle)
}

// Stop unsubscribes; re-syncs already in flight still complete
func (ts *TagSync) Stop() {
	ts.mu.Lock()
	unsubscribe := ts.unsubscribe
	ts.unsubscribe = nil
	ts.mu.Unlock()
	if unsubscribe != nil {
		unsubscribe()
	}
}

// Wait blocks until every started re-sync has finished and returns the
// error of the most recent failed one, if any.
func (ts *TagSync) Wait() error {
	ts.wg.Wait()
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.lastErr
}

func (ts *TagSync) handle(ev Event) {
	if !ev.Kind.ChangesTags() {
		return
	}
	names := ev.State.SelectedTagNames()

	ts.mu.Lock()
	if ev.Seq > ts.latest {
		ts.latest = ev.Seq
	}
	ctx := ts.ctx
	ts.mu.Unlock()

	ts.logger.Debugf("%s changed tag filter to %v", ev.Kind, names)
	ts.wg.Add(1)
	go ts.resync(ctx, ev.Seq, names)
}

func (ts *TagSync) resync(ctx context.Context, seq uint64, names []string) {
	defer ts.wg.Done()

	list, err := ts.backend.FilterBookmarksByTags(ctx, names)
	if err != nil {
		err = &StorageError{Op: "filter bookmarks by tags", Err: err}
		ts.logger.Errorf("Tag filter re-sync failed: %v", err)
		ts.mu.Lock()
		ts.lastErr = err
		ts.mu.Unlock()
		return
	}

	ts.applyMu.Lock()
	defer ts.applyMu.Unlock()

	ts.mu.Lock()
	stale := seq < ts.latest
	if !stale {
		ts.lastErr = nil
	}
	ts.mu.Unlock()
	if stale {
		ts.logger.Debugf("Dropping stale tag filter result for %v", names)
		return
	}

	ts.store.SetBookmarks(list)
	ts.logger.Debugf("Tag filter %v matched %d bookmarks", names, len(list))
}
