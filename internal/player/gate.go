package player

import (
	"sync"
	"time"

	"github.com/ryan-gang/vidmark/internal/logger"
)

// CaptureGate pauses note capture while an ad is on screen
type CaptureGate struct {
	log logger.LoggerInterface
	now func() time.Time

	mu      sync.Mutex
	paused  bool
	since   time.Time
	ads     int
	adTotal time.Duration
}

func NewCaptureGate(log logger.LoggerInterface) *CaptureGate {
	if log == nil {
		log = logger.Discard()
	}
	return &CaptureGate{log: log, now: time.Now}
}

// Handlers returns player handlers that drive the gate
func (g *CaptureGate) Handlers() Handlers {
	return Handlers{OnShowingAd: g.Pause, OnHidingAd: g.Resume}
}

func (g *CaptureGate) Pause() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.paused {
		return
	}
	g.paused = true
	g.since = g.now()
	g.ads++
	g.log.Info("Ad started, note capture paused")
}

func (g *CaptureGate) Resume() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.paused {
		return
	}
	g.paused = false
	elapsed := g.now().Sub(g.since)
	g.adTotal += elapsed
	g.log.Infof("Ad finished after %s, note capture resumed", elapsed.Round(time.Second))
}

// Paused reports whether capture is currently held back
func (g *CaptureGate) Paused() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.paused
}

// Stats returns the number of ads seen and their total duration, counting
// a running ad up to now.
func (g *CaptureGate) Stats() (int, time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()
	total := g.adTotal
	if g.paused {
		total += g.now().Sub(g.since)
	}
	return g.ads, total
}
