package watcher

import (
	"strings"
	"sync"
)

// Record is one observed write of an element's class attribute. Writes that
// leave the class list unchanged still produce a record.
type Record struct {
	Classes []string
}

// Has reports whether name is among the recorded classes
func (r Record) Has(name string) bool {
	return hasClass(r.Classes, name)
}

// ClassSource is an element whose class attribute can be read and observed
type ClassSource interface {
	Classes() []string
	// Observe calls fn for every class mutation until cancel is called
	Observe(fn func(Record)) (cancel func())
}

// ParseClassList splits a class attribute value into class names
func ParseClassList(attr string) []string {
	return strings.Fields(attr)
}

func hasClass(classes []string, name string) bool {
	for _, c := range classes {
		if c == name {
			return true
		}
	}
	return false
}

// Element is an in-memory ClassSource. Observers are notified synchronously
// on the mutating goroutine, outside the element's lock.
type Element struct {
	mu        sync.Mutex
	classes   []string
	observers map[int]func(Record)
	next      int
}

func NewElement(classes ...string) *Element {
	return &Element{
		classes:   append([]string{}, classes...),
		observers: make(map[int]func(Record)),
	}
}

func (e *Element) Classes() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]string{}, e.classes...)
}

func (e *Element) Observe(fn func(Record)) func() {
	e.mu.Lock()
	id := e.next
	e.next++
	e.observers[id] = fn
	e.mu.Unlock()

	return func() {
		e.mu.Lock()
		delete(e.observers, id)
		e.mu.Unlock()
	}
}

// SetClasses overwrites the class attribute
func (e *Element) SetClasses(classes ...string) {
	e.mutate(func(current []string) []string {
		return append([]string{}, classes...)
	})
}

// SetClassName overwrites the class attribute from its string form
func (e *Element) SetClassName(attr string) {
	e.SetClasses(ParseClassList(attr)...)
}

func (e *Element) AddClass(name string) {
	e.mutate(func(current []string) []string {
		if hasClass(current, name) {
			return current
		}
		return append(current, name)
	})
}

func (e *Element) RemoveClass(name string) {
	e.mutate(func(current []string) []string {
		kept := current[:0]
		for _, c := range current {
			if c != name {
				kept = append(kept, c)
			}
		}
		return kept
	})
}

func (e *Element) mutate(change func([]string) []string) {
	e.mu.Lock()
	e.classes = change(e.classes)
	rec := Record{Classes: append([]string{}, e.classes...)}
	fns := make([]func(Record), 0, len(e.observers))
	for id := 0; id < e.next; id++ {
		if fn, ok := e.observers[id]; ok {
			fns = append(fns, fn)
		}
	}
	e.mu.Unlock()

	for _, fn := range fns {
		fn(rec)
	}
}
