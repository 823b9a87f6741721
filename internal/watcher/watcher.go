package watcher

import "sync"

// State is the presence of the watched class
type State int

const (
	Absent State = iota
	Present
)

func (s State) String() string {
	if s == Present {
		return "present"
	}
	return "absent"
}

// ClassWatcher fires OnAdd when its class goes from absent to present and
// OnRemove on the way back. Redundant mutations fire nothing.
type ClassWatcher struct {
	className string
	onAdd     func()
	onRemove  func()

	mu      sync.Mutex
	state   State
	stopped bool
	cancel  func()
}

// New starts watching source for className. The initial class list only
// seeds the state; a class already present at construction does not fire
// onAdd. A nil source yields a watcher that never fires.
func New(source ClassSource, className string, onAdd, onRemove func()) *ClassWatcher {
	w := &ClassWatcher{
		className: className,
		onAdd:     onAdd,
		onRemove:  onRemove,
	}
	if source == nil {
		w.stopped = true
		return w
	}

	// hold the lock so records racing the seed wait for it
	w.mu.Lock()
	w.cancel = source.Observe(w.handle)
	if hasClass(source.Classes(), className) {
		w.state = Present
	}
	w.mu.Unlock()
	return w
}

// State returns the last observed presence of the class
func (w *ClassWatcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// Stop ends observation. Records delivered after Stop are ignored; a
// callback already running when Stop is called still finishes, which lets
// callbacks stop their own watcher. Calling it more than once is fine.
func (w *ClassWatcher) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	w.cancel = nil
	w.stopped = true
	w.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (w *ClassWatcher) handle(rec Record) {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	var fire func()
	switch present := rec.Has(w.className); {
	case present && w.state == Absent:
		w.state = Present
		fire = w.onAdd
	case !present && w.state == Present:
		w.state = Absent
		fire = w.onRemove
	}
	w.mu.Unlock()

	if fire != nil {
		fire()
	}
}
