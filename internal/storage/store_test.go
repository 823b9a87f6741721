package storage_test

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ryan-gang/vidmark/internal/bookmarks"
	"github.com/ryan-gang/vidmark/internal/storage"
)

func mustOpen(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "db", "bookmarks.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func seed(t *testing.T, store *storage.Store) {
	t.Helper()
	ctx := context.Background()
	pages := []bookmarks.Bookmark{
		{ID: "b", CreatedAt: 200, Meta: bookmarks.Meta{Title: "Concert", URL: "https://youtu.be/b"}, Tags: []string{"music"}},
		{ID: "a", CreatedAt: 100, Meta: bookmarks.Meta{Title: "GopherCon", URL: "https://youtu.be/a"}, Tags: []string{"go", "talks"}},
		{ID: "c", CreatedAt: 300, Meta: bookmarks.Meta{Title: "Live coding", URL: "https://youtu.be/c"}, Tags: []string{"talks", "go", " go "}},
	}
	for _, p := range pages {
		if _, err := store.SavePage(ctx, p); err != nil {
			t.Fatalf("SavePage %s failed: %v", p.ID, err)
		}
	}
}

func pageIDs(list []bookmarks.Bookmark) []string {
	out := make([]string, len(list))
	for i, b := range list {
		out[i] = b.ID
	}
	return out
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.db")
	first, err := storage.Open(path)
	if err != nil {
		t.Fatalf("first Open failed: %v", err)
	}
	seed(t, first)
	first.Close()

	second, err := storage.Open(path)
	if err != nil {
		t.Fatalf("second Open failed: %v", err)
	}
	defer second.Close()
	all, err := second.GetBookmarks(context.Background())
	if err != nil {
		t.Fatalf("GetBookmarks failed: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 pages after reopen, got %d", len(all))
	}
}

func TestGetBookmarksOrderedWithTags(t *testing.T) {
	store := mustOpen(t)
	seed(t, store)

	all, err := store.GetBookmarks(context.Background())
	if err != nil {
		t.Fatalf("GetBookmarks failed: %v", err)
	}
	if got := pageIDs(all); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected order %v", got)
	}
	if !reflect.DeepEqual(all[2].Tags, []string{"talks", "go"}) {
		t.Fatalf("tags not normalized in order: %v", all[2].Tags)
	}
	if all[0].Meta.Title != "GopherCon" {
		t.Fatalf("unexpected meta %+v", all[0].Meta)
	}
}

func TestGetTags(t *testing.T) {
	store := mustOpen(t)
	seed(t, store)

	tags, err := store.GetTags(context.Background())
	if err != nil {
		t.Fatalf("GetTags failed: %v", err)
	}
	if !reflect.DeepEqual(tags, []string{"go", "music", "talks"}) {
		t.Fatalf("unexpected tags %v", tags)
	}
}

func TestFilterBookmarksByTags(t *testing.T) {
	store := mustOpen(t)
	seed(t, store)
	ctx := context.Background()

	cases := []struct {
		names []string
		want  []string
	}{
		{nil, []string{"a", "b", "c"}},
		{[]string{}, []string{"a", "b", "c"}},
		{[]string{"talks"}, []string{"a", "c"}},
		{[]string{"go", "talks"}, []string{"a", "c"}},
		{[]string{"go", "music"}, []string{}},
		{[]string{"music", "music"}, []string{"b"}},
		{[]string{"unknown"}, []string{}},
	}
	for _, tc := range cases {
		got, err := store.FilterBookmarksByTags(ctx, tc.names)
		if err != nil {
			t.Fatalf("filter %v failed: %v", tc.names, err)
		}
		if ids := pageIDs(got); !reflect.DeepEqual(ids, tc.want) {
			t.Fatalf("filter %v = %v, want %v", tc.names, ids, tc.want)
		}
	}
}

func TestSavePageKeepsCreationTime(t *testing.T) {
	store := mustOpen(t)
	seed(t, store)
	ctx := context.Background()

	updated, err := store.SavePage(ctx, bookmarks.Bookmark{
		ID:        "a",
		CreatedAt: 999,
		Meta:      bookmarks.Meta{Title: "GopherCon 2026", URL: "https://youtu.be/a"},
		Tags:      []string{"conference"},
	})
	if err != nil {
		t.Fatalf("SavePage failed: %v", err)
	}
	if updated.CreatedAt != 100 || updated.Meta.Title != "GopherCon 2026" {
		t.Fatalf("unexpected page %+v", updated)
	}
	if !reflect.DeepEqual(updated.Tags, []string{"conference"}) {
		t.Fatalf("tags not replaced: %v", updated.Tags)
	}
}

func TestSavePageRequiresID(t *testing.T) {
	store := mustOpen(t)
	if _, err := store.SavePage(context.Background(), bookmarks.Bookmark{}); err == nil {
		t.Fatal("expected error for missing id")
	}
}

func TestRemovePageCascades(t *testing.T) {
	store := mustOpen(t)
	seed(t, store)
	ctx := context.Background()

	if err := store.SaveNote(ctx, "b", bookmarks.Note{ID: "n1", Content: "drop", Timestamp: 12}); err != nil {
		t.Fatalf("SaveNote failed: %v", err)
	}
	if err := store.RemovePage(ctx, "b"); err != nil {
		t.Fatalf("RemovePage failed: %v", err)
	}
	page, err := store.GetPage(ctx, "b")
	if err != nil || page != nil {
		t.Fatalf("expected page gone, got %+v %v", page, err)
	}
	tags, _ := store.GetTags(ctx)
	if !reflect.DeepEqual(tags, []string{"go", "talks"}) {
		t.Fatalf("tags of removed page linger: %v", tags)
	}
	if err := store.RemoveNote(ctx, "n1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected note removed with page, got %v", err)
	}

	if err := store.RemovePage(ctx, "b"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNotesRoundTrip(t *testing.T) {
	store := mustOpen(t)
	seed(t, store)
	ctx := context.Background()

	notes := []bookmarks.Note{
		{ID: "n2", Content: "**second**", Timestamp: 95.5},
		{ID: "n1", Content: "first", Timestamp: 12, Image: "data:image/png;base64,AAAA"},
	}
	for _, n := range notes {
		if err := store.SaveNote(ctx, "a", n); err != nil {
			t.Fatalf("SaveNote failed: %v", err)
		}
	}
	if err := store.SaveNote(ctx, "a", bookmarks.Note{ID: "n2", Content: "edited", Timestamp: 95.5}); err != nil {
		t.Fatalf("SaveNote update failed: %v", err)
	}

	page, err := store.GetPage(ctx, "a")
	if err != nil {
		t.Fatalf("GetPage failed: %v", err)
	}
	if len(page.Notes) != 2 || page.Notes[0].ID != "n1" || page.Notes[1].Content != "edited" {
		t.Fatalf("unexpected notes %+v", page.Notes)
	}
	if page.Notes[0].Image == "" {
		t.Fatal("note image lost")
	}

	if err := store.SaveNote(ctx, "missing", bookmarks.Note{ID: "n3"}); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing page, got %v", err)
	}
	if err := store.RemoveNote(ctx, "n1"); err != nil {
		t.Fatalf("RemoveNote failed: %v", err)
	}
}

func TestStoreDrivesBookmarkStore(t *testing.T) {
	backend := mustOpen(t)
	seed(t, backend)
	ctx := context.Background()

	state := bookmarks.NewStore()
	sync := bookmarks.NewTagSync(state, backend, nil)
	sync.Start(ctx)
	defer sync.Stop()
	thunks := bookmarks.NewThunks(state, backend)

	if _, err := thunks.FetchBookmarks(ctx); err != nil {
		t.Fatalf("FetchBookmarks failed: %v", err)
	}
	if _, err := thunks.FetchTags(ctx, []string{"music"}); err != nil {
		t.Fatalf("FetchTags failed: %v", err)
	}
	if err := sync.Wait(); err != nil {
		t.Fatalf("re-sync failed: %v", err)
	}
	if got := pageIDs(state.Snapshot().Bookmarks); !reflect.DeepEqual(got, []string{"b"}) {
		t.Fatalf("expected music filter, got %v", got)
	}

	state.UnSelectTags()
	if err := sync.Wait(); err != nil {
		t.Fatalf("re-sync failed: %v", err)
	}
	if _, err := thunks.RemoveBookmark(ctx, "c"); err != nil {
		t.Fatalf("RemoveBookmark failed: %v", err)
	}
	if got := pageIDs(state.Snapshot().Bookmarks); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("unexpected bookmarks %v", got)
	}

	_, err := thunks.RemoveBookmark(ctx, "c")
	var storageErr *bookmarks.StorageError
	if !errors.As(err, &storageErr) || !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected StorageError wrapping ErrNotFound, got %v", err)
	}
}
