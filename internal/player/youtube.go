package player

import (
	"github.com/ryan-gang/vidmark/internal/watcher"
)

const (
	// YoutubePlayerSelector locates the embedded YouTube player element
	YoutubePlayerSelector = ".html5-video-player"
	// AdClassName is set on the player element while an ad plays
	AdClassName = "ad-showing"
)

// Handlers are notified when an ad starts or stops
type Handlers struct {
	OnShowingAd func()
	OnHidingAd  func()
}

// YoutubePlayer reports ad breaks of a YouTube player element
type YoutubePlayer struct {
	watcher *watcher.ClassWatcher
}

// NewYoutubePlayer watches el for className. A nil el means the player was
// not found and nothing is attached. When the player already shows an ad,
// OnShowingAd is called once before returning, since the watcher only
// reports transitions.
func NewYoutubePlayer(el watcher.ClassSource, className string, h Handlers) *YoutubePlayer {
	p := &YoutubePlayer{}
	if el == nil {
		return p
	}
	if className == "" {
		className = AdClassName
	}
	onShow := h.OnShowingAd
	if onShow == nil {
		onShow = func() {}
	}
	p.watcher = watcher.New(el, className, onShow, h.OnHidingAd)

	if p.watcher.State() == watcher.Present {
		onShow()
	}
	return p
}

// Attached reports whether a player element was found
func (p *YoutubePlayer) Attached() bool {
	return p.watcher != nil
}

// Close stops reporting ad breaks
func (p *YoutubePlayer) Close() {
	if p.watcher != nil {
		p.watcher.Stop()
	}
}
