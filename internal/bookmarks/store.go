package bookmarks

import (
	"sort"
	"sync"
)

// Toolbar holds the export and filter controls of the bookmark list
type Toolbar struct {
	Exporting    bool         `json:"exporting"`
	Filtering    bool         `json:"filtering"`
	ExportFormat ExportFormat `json:"exportFormat"`
}

// State is a snapshot of the store. Snapshots never alias store memory.
type State struct {
	Bookmarks []Bookmark `json:"bookmarks"`
	Tags      []Tag      `json:"tags"`
	Toolbar   Toolbar    `json:"toolbar"`
}

// SelectedTagNames returns the names of selected tags in tag-set order
func (s State) SelectedTagNames() []string {
	names := make([]string, 0)
	for _, tag := range s.Tags {
		if tag.Selected {
			names = append(names, tag.Name)
		}
	}
	return names
}

// Store is the in-memory bookmark list and tag filter. All mutation goes
// through its actions, each of which applies atomically and returns the
// resulting snapshot.
type Store struct {
	mu    sync.Mutex
	state State
	seq   uint64

	subMu   sync.RWMutex
	subs    map[int]func(Event)
	nextSub int
}

func NewStore() *Store {
	return &Store{
		state: State{
			Bookmarks: []Bookmark{},
			Tags:      []Tag{},
			Toolbar:   Toolbar{Filtering: true, ExportFormat: FormatJSON},
		},
		subs: make(map[int]func(Event)),
	}
}

// Snapshot returns the current state
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	snap := State{
		Bookmarks: make([]Bookmark, len(s.state.Bookmarks)),
		Tags:      append([]Tag{}, s.state.Tags...),
		Toolbar:   s.state.Toolbar,
	}
	for i, b := range s.state.Bookmarks {
		snap.Bookmarks[i] = b.clone()
	}
	return snap
}

// commit runs mutate under the lock, then publishes the result
func (s *Store) commit(kind EventKind, mutate func(st *State)) State {
	s.mu.Lock()
	mutate(&s.state)
	s.seq++
	ev := Event{Kind: kind, Seq: s.seq, State: s.snapshotLocked()}
	s.mu.Unlock()

	s.publish(ev)
	return ev.State
}

// SetBookmarks replaces the list, sorted ascending by CreatedAt
func (s *Store) SetBookmarks(list []Bookmark) State {
	sorted := make([]Bookmark, len(list))
	for i, b := range list {
		sorted[i] = b.clone()
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt < sorted[j].CreatedAt
	})
	return s.commit(EventSetBookmarks, func(st *State) {
		st.Bookmarks = sorted
	})
}

// SetBookmark merges the non-zero fields of partial into the bookmark with
// the same ID. CreatedAt is never changed, so the list stays sorted. Unknown
// IDs are ignored.
func (s *Store) SetBookmark(partial Bookmark) State {
	partial = partial.clone()
	return s.commit(EventSetBookmark, func(st *State) {
		for i := range st.Bookmarks {
			if st.Bookmarks[i].ID == partial.ID {
				st.Bookmarks[i] = merge(st.Bookmarks[i], partial)
			}
		}
	})
}

func merge(dst, src Bookmark) Bookmark {
	if src.Meta.Title != "" {
		dst.Meta.Title = src.Meta.Title
	}
	if src.Meta.URL != "" {
		dst.Meta.URL = src.Meta.URL
	}
	if src.Meta.Description != "" {
		dst.Meta.Description = src.Meta.Description
	}
	if src.Meta.Image != "" {
		dst.Meta.Image = src.Meta.Image
	}
	if src.Tags != nil {
		dst.Tags = src.Tags
	}
	if src.Notes != nil {
		dst.Notes = src.Notes
	}
	return dst
}

// SetTags replaces the tag set, keeping the caller's selection flags
func (s *Store) SetTags(tags []Tag) State {
	tags = append([]Tag{}, tags...)
	return s.commit(EventSetTags, func(st *State) {
		st.Tags = tags
	})
}

// SelectTag toggles the selection of the named tag
func (s *Store) SelectTag(name string) State {
	return s.commit(EventSelectTag, func(st *State) {
		for i := range st.Tags {
			if st.Tags[i].Name == name {
				st.Tags[i].Selected = !st.Tags[i].Selected
			}
		}
	})
}

// UnSelectTags clears every selection flag
func (s *Store) UnSelectTags() State {
	return s.commit(EventUnSelectTags, func(st *State) {
		for i := range st.Tags {
			st.Tags[i].Selected = false
		}
	})
}

func (s *Store) SetExporting(exporting bool) State {
	return s.commit(EventToolbar, func(st *State) {
		st.Toolbar.Exporting = exporting
	})
}

func (s *Store) SetFiltering(filtering bool) State {
	return s.commit(EventToolbar, func(st *State) {
		st.Toolbar.Filtering = filtering
	})
}

func (s *Store) SetExportFormat(format ExportFormat) State {
	return s.commit(EventToolbar, func(st *State) {
		st.Toolbar.ExportFormat = format
	})
}

// Reset empties the bookmark list
func (s *Store) Reset() State {
	return s.commit(EventReset, func(st *State) {
		st.Bookmarks = []Bookmark{}
	})
}

// removeBookmark drops id from the list in a single commit. Filtering keeps
// the list sorted.
func (s *Store) removeBookmark(id string) State {
	return s.commit(EventSetBookmarks, func(st *State) {
		kept := make([]Bookmark, 0, len(st.Bookmarks))
		for _, b := range st.Bookmarks {
			if b.ID != id {
				kept = append(kept, b)
			}
		}
		st.Bookmarks = kept
	})
}
