package bookmarks

import "context"

// Thunks are the store operations that call the backend before committing.
// Each blocks until the backend answers; run them on a goroutine to keep the
// caller responsive. A failed backend call returns a *StorageError and
// leaves the store untouched.
type Thunks struct {
	store   *Store
	backend Backend
}

func NewThunks(store *Store, backend Backend) *Thunks {
	return &Thunks{store: store, backend: backend}
}

// FetchBookmarks loads the full collection into the store
func (t *Thunks) FetchBookmarks(ctx context.Context) (State, error) {
	list, err := t.backend.GetBookmarks(ctx)
	if err != nil {
		return State{}, &StorageError{Op: "get bookmarks", Err: err}
	}
	return t.store.SetBookmarks(list), nil
}

// RemoveBookmark deletes id from the backend, then from the list
func (t *Thunks) RemoveBookmark(ctx context.Context, id string) (State, error) {
	if err := t.backend.RemovePage(ctx, id); err != nil {
		return State{}, &StorageError{Op: "remove page " + id, Err: err}
	}
	return t.store.removeBookmark(id), nil
}

// FetchTags loads every known tag, selecting those named in tagsFromURL
func (t *Thunks) FetchTags(ctx context.Context, tagsFromURL []string) (State, error) {
	names, err := t.backend.GetTags(ctx)
	if err != nil {
		return State{}, &StorageError{Op: "get tags", Err: err}
	}
	wanted := make(map[string]bool, len(tagsFromURL))
	for _, name := range tagsFromURL {
		wanted[name] = true
	}
	tags := make([]Tag, 0, len(names))
	for _, name := range names {
		tags = append(tags, Tag{Name: name, Selected: wanted[name]})
	}
	return t.store.SetTags(tags), nil
}
