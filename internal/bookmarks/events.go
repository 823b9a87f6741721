package bookmarks

import "sort"

// EventKind names the action that produced an event
type EventKind int

const (
	EventSetBookmarks EventKind = iota
	EventSetBookmark
	EventSetTags
	EventSelectTag
	EventUnSelectTags
	EventToolbar
	EventReset
)

func (k EventKind) String() string {
	switch k {
	case EventSetBookmarks:
		return "setBookmarks"
	case EventSetBookmark:
		return "setBookmark"
	case EventSetTags:
		return "setTags"
	case EventSelectTag:
		return "selectTag"
	case EventUnSelectTags:
		return "unSelectTags"
	case EventToolbar:
		return "toolbar"
	case EventReset:
		return "reset"
	}
	return "unknown"
}

// ChangesTags reports whether the event alters the tag filter
func (k EventKind) ChangesTags() bool {
	return k == EventSetTags || k == EventSelectTag || k == EventUnSelectTags
}

// Event is published after every committed mutation. Seq increases with
// commit order, so subscribers can tell which of two events is newer even
// when concurrent commits deliver them out of order.
type Event struct {
	Kind  EventKind
	Seq   uint64
	State State
}

// Subscribe registers fn for every committed mutation and returns a func
// that removes it. fn runs on the committing goroutine after the store lock
// is released.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) publish(ev Event) {
	s.subMu.RLock()
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	s.subMu.RUnlock()

	// subscription order
	sort.Ints(ids)
	for _, id := range ids {
		s.subMu.RLock()
		fn, ok := s.subs[id]
		s.subMu.RUnlock()
		if ok {
			fn(ev)
		}
	}
}
