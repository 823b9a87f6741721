package watcher

import (
	"sync"
	"testing"
)

type counter struct {
	mu      sync.Mutex
	adds    int
	removes int
	order   []string
}

func (c *counter) add() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adds++
	c.order = append(c.order, "add")
}

func (c *counter) remove() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removes++
	c.order = append(c.order, "remove")
}

func (c *counter) counts() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.adds, c.removes
}

func TestFiresOncePerTransition(t *testing.T) {
	el := NewElement("player")
	var c counter
	w := New(el, "ad-showing", c.add, c.remove)
	defer w.Stop()

	el.AddClass("ad-showing")
	if adds, removes := c.counts(); adds != 1 || removes != 0 {
		t.Fatalf("after add: adds=%d removes=%d", adds, removes)
	}

	el.RemoveClass("ad-showing")
	if adds, removes := c.counts(); adds != 1 || removes != 1 {
		t.Fatalf("after remove: adds=%d removes=%d", adds, removes)
	}

	el.AddClass("ad-showing")
	el.RemoveClass("ad-showing")
	if adds, removes := c.counts(); adds != 2 || removes != 2 {
		t.Fatalf("after rapid toggle: adds=%d removes=%d", adds, removes)
	}
	want := []string{"add", "remove", "add", "remove"}
	for i, got := range c.order {
		if got != want[i] {
			t.Fatalf("order %v, want %v", c.order, want)
		}
	}
}

func TestRedundantMutationsDoNotRefire(t *testing.T) {
	el := NewElement("player")
	var c counter
	w := New(el, "ad-showing", c.add, c.remove)
	defer w.Stop()

	el.SetClasses("player", "ad-showing")
	el.SetClasses("player", "ad-showing", "ytp-autohide")
	el.SetClassName("ad-showing player")
	el.AddClass("paused-mode")
	if adds, removes := c.counts(); adds != 1 || removes != 0 {
		t.Fatalf("adds=%d removes=%d", adds, removes)
	}

	el.SetClasses("player")
	el.SetClasses("player", "paused-mode")
	el.RemoveClass("ad-showing")
	if adds, removes := c.counts(); adds != 1 || removes != 1 {
		t.Fatalf("adds=%d removes=%d", adds, removes)
	}
}

func TestNoFireOnConstructionWhenAlreadyPresent(t *testing.T) {
	el := NewElement("player", "ad-showing")
	var c counter
	w := New(el, "ad-showing", c.add, c.remove)
	defer w.Stop()

	if adds, removes := c.counts(); adds != 0 || removes != 0 {
		t.Fatalf("construction fired: adds=%d removes=%d", adds, removes)
	}
	if w.State() != Present {
		t.Fatalf("expected seeded state present, got %s", w.State())
	}

	el.AddClass("ad-showing")
	if adds, _ := c.counts(); adds != 0 {
		t.Fatal("class was already present, no add edge expected")
	}

	el.RemoveClass("ad-showing")
	if _, removes := c.counts(); removes != 1 {
		t.Fatal("expected remove edge")
	}
}

func TestStopSilencesWatcher(t *testing.T) {
	el := NewElement("player")
	var c counter
	w := New(el, "ad-showing", c.add, c.remove)

	w.Stop()
	w.Stop()
	el.AddClass("ad-showing")
	el.RemoveClass("ad-showing")
	if adds, removes := c.counts(); adds != 0 || removes != 0 {
		t.Fatalf("stopped watcher fired: adds=%d removes=%d", adds, removes)
	}
}

func TestCallbackMayStopItsWatcher(t *testing.T) {
	el := NewElement("player")
	var w *ClassWatcher
	fired := 0
	w = New(el, "ad-showing", func() {
		fired++
		w.Stop()
	}, nil)

	el.AddClass("ad-showing")
	el.RemoveClass("ad-showing")
	el.AddClass("ad-showing")
	if fired != 1 {
		t.Fatalf("fired %d times", fired)
	}
}

func TestNilSourceIsNoop(t *testing.T) {
	w := New(nil, "ad-showing", func() { t.Fatal("unexpected add") }, func() { t.Fatal("unexpected remove") })
	if w.State() != Absent {
		t.Fatal("nil source watcher should report absent")
	}
	w.Stop()
}

func TestIndependentWatchersOnOneElement(t *testing.T) {
	el := NewElement("player")
	var ads, paused counter
	w1 := New(el, "ad-showing", ads.add, ads.remove)
	w2 := New(el, "paused-mode", paused.add, paused.remove)
	defer w1.Stop()
	defer w2.Stop()

	el.SetClasses("player", "ad-showing", "paused-mode")
	el.SetClasses("player", "paused-mode")

	if adds, removes := ads.counts(); adds != 1 || removes != 1 {
		t.Fatalf("ad watcher adds=%d removes=%d", adds, removes)
	}
	if adds, removes := paused.counts(); adds != 1 || removes != 0 {
		t.Fatalf("paused watcher adds=%d removes=%d", adds, removes)
	}
}

func TestParseClassList(t *testing.T) {
	got := ParseClassList("  html5-video-player  ad-showing\tplaying-mode ")
	if len(got) != 3 || got[1] != "ad-showing" {
		t.Fatalf("unexpected classes %v", got)
	}
}
