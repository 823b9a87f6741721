package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/ryan-gang/vidmark/internal/watcher"
)

const bindingName = "__vidmarkClassChanged"

// ErrElementNotFound is returned when the selector matches nothing
var ErrElementNotFound = errors.New("element not found")

// ChromeSource is a watcher.ClassSource backed by an element in a browser
// tab. A MutationObserver in the page reports every class write through a
// runtime binding.
type ChromeSource struct {
	selector string

	mu        sync.Mutex
	classes   []string
	observers map[int]func(watcher.Record)
	next      int
}

// NewBrowser starts a browser and returns a tab context. Cancel it to shut
// the browser down.
func NewBrowser(headless bool) (context.Context, context.CancelFunc) {
	opts := append([]chromedp.ExecAllocatorOption{},
		chromedp.NoFirstRun,
		chromedp.NoDefaultBrowserCheck,
		chromedp.Flag("mute-audio", true),
		chromedp.Flag("autoplay-policy", "no-user-gesture-required"),
		chromedp.Flag("disable-background-timer-throttling", true),
		chromedp.Flag("disable-renderer-backgrounding", true),
		chromedp.WindowSize(1280, 800),
	)
	if headless {
		opts = append(opts, chromedp.Headless)
	} else {
		opts = append(opts, chromedp.Flag("headless", false))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	return tabCtx, func() {
		tabCancel()
		allocCancel()
	}
}

// Open navigates the tab to pageURL and waits for selector to be ready
func Open(ctx context.Context, pageURL, selector string) error {
	return chromedp.Run(ctx,
		chromedp.Navigate(pageURL),
		chromedp.WaitReady(selector, chromedp.ByQuery),
	)
}

type observeResult struct {
	Found     bool   `json:"found"`
	ClassName string `json:"className"`
}

// AttachChrome installs the class observer on the element matching
// selector in the tab of ctx. It returns ErrElementNotFound when nothing
// matches.
func AttachChrome(ctx context.Context, selector string) (*ChromeSource, error) {
	s := &ChromeSource{
		selector:  selector,
		observers: make(map[int]func(watcher.Record)),
	}

	chromedp.ListenTarget(ctx, func(ev interface{}) {
		if called, ok := ev.(*runtime.EventBindingCalled); ok && called.Name == bindingName {
			s.receive(called.Payload)
		}
	})

	script, err := observerScript(selector)
	if err != nil {
		return nil, err
	}

	var res observeResult
	if err := chromedp.Run(ctx,
		runtime.AddBinding(bindingName),
		chromedp.Evaluate(script, &res),
	); err != nil {
		return nil, fmt.Errorf("install class observer: %w", err)
	}
	if !res.Found {
		return nil, fmt.Errorf("%w: %s", ErrElementNotFound, selector)
	}

	s.mu.Lock()
	s.classes = watcher.ParseClassList(res.ClassName)
	s.mu.Unlock()
	return s, nil
}

func observerScript(selector string) (string, error) {
	quoted, err := json.Marshal(selector)
	if err != nil {
		return "", fmt.Errorf("quote selector: %w", err)
	}
	return fmt.Sprintf(`(() => {
  const el = document.querySelector(%s);
  if (!el) return {found: false, className: ""};
  new MutationObserver(records => {
    for (const r of records) {
      if (r.attributeName === "class") window[%q](el.className);
    }
  }).observe(el, {attributes: true, attributeFilter: ["class"]});
  return {found: true, className: el.className};
})()`, quoted, bindingName), nil
}

func (s *ChromeSource) receive(className string) {
	s.mu.Lock()
	s.classes = watcher.ParseClassList(className)
	rec := watcher.Record{Classes: append([]string{}, s.classes...)}
	fns := make([]func(watcher.Record), 0, len(s.observers))
	for id := 0; id < s.next; id++ {
		if fn, ok := s.observers[id]; ok {
			fns = append(fns, fn)
		}
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(rec)
	}
}

// Selector returns the CSS selector of the observed element
func (s *ChromeSource) Selector() string {
	return s.selector
}

func (s *ChromeSource) Classes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string{}, s.classes...)
}

func (s *ChromeSource) Observe(fn func(watcher.Record)) func() {
	s.mu.Lock()
	id := s.next
	s.next++
	s.observers[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.observers, id)
		s.mu.Unlock()
	}
}
