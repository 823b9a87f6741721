package bookmarks

import (
	"context"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Meta describes the bookmarked video page
type Meta struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Note is a timestamped note taken while watching a video
type Note struct {
	ID        string  `json:"id"`
	Content   string  `json:"content"`   // markdown
	Timestamp float64 `json:"timestamp"` // seconds into the video
	Image     string  `json:"image"`     // screenshot as a data URI
}

// Bookmark is a saved video page with its tags and notes
type Bookmark struct {
	ID        string   `json:"id"`
	CreatedAt int64    `json:"createdAt"` // unix milliseconds
	Meta      Meta     `json:"meta"`
	Tags      []string `json:"tags"`
	Notes     []Note   `json:"notes,omitempty"`
}

// Created returns CreatedAt as a time
func (b Bookmark) Created() time.Time {
	return time.UnixMilli(b.CreatedAt)
}

// HasTag reports whether the bookmark carries name
func (b Bookmark) HasTag(name string) bool {
	for _, tag := range b.Tags {
		if tag == name {
			return true
		}
	}
	return false
}

func (b Bookmark) clone() Bookmark {
	if b.Tags != nil {
		b.Tags = append([]string(nil), b.Tags...)
	}
	if b.Notes != nil {
		b.Notes = append([]Note(nil), b.Notes...)
	}
	return b
}

// Tag is a tag name with its selection flag for the current session
type Tag struct {
	Name     string `json:"tag"`
	Selected bool   `json:"selected"`
}

// ExportFormat selects the exporter used by the toolbar
type ExportFormat string

const (
	FormatJSON     ExportFormat = "json"
	FormatMarkdown ExportFormat = "markdown"
	FormatEpub     ExportFormat = "epub"
)

// ParseExportFormat validates s as an export format
func ParseExportFormat(s string) (ExportFormat, error) {
	switch f := ExportFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatMarkdown, FormatEpub:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// Backend is the persistent storage the store synchronizes with
type Backend interface {
	GetBookmarks(ctx context.Context) ([]Bookmark, error)
	RemovePage(ctx context.Context, id string) error
	GetTags(ctx context.Context) ([]string, error)
	// FilterBookmarksByTags returns bookmarks carrying every name; no names means all
	FilterBookmarksByTags(ctx context.Context, names []string) ([]Bookmark, error)
}

// StorageError reports a failed backend call
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// SecondsToTime formats seconds as m:ss, or h:mm:ss past the hour
func SecondsToTime(seconds float64) string {
	total := int(math.Floor(seconds))
	if total < 0 {
		total = 0
	}
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// ParseTimestamp reads "90", "1:30" or "1:01:30" as seconds
func ParseTimestamp(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty timestamp")
	}
	parts := strings.Split(s, ":")
	if len(parts) > 3 {
		return 0, fmt.Errorf("invalid timestamp %q", s)
	}
	var total float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil || v < 0 || (i > 0 && v >= 60) {
			return 0, fmt.Errorf("invalid timestamp %q", s)
		}
		total = total*60 + v
	}
	return total, nil
}

// AutoSeekURL returns videoURL set to start playback at seconds
func AutoSeekURL(videoURL string, seconds float64) string {
	u, err := url.Parse(videoURL)
	if err != nil {
		return videoURL
	}
	q := u.Query()
	q.Set("t", fmt.Sprintf("%ds", int(math.Floor(seconds))))
	u.RawQuery = q.Encode()
	return u.String()
}
