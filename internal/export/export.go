package export

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gosimple/slug"

	"github.com/ryan-gang/vidmark/internal/bookmarks"
	"github.com/ryan-gang/vidmark/util"
)

// Document is the JSON export layout
type Document struct {
	Version    int                  `json:"version"`
	ExportedAt time.Time            `json:"exportedAt"`
	Bookmarks  []bookmarks.Bookmark `json:"bookmarks"`
}

// Write exports pages to dir in the given format and returns the file path.
// An empty title names the file after the first page.
func Write(pages []bookmarks.Bookmark, format bookmarks.ExportFormat, title, dir string) (string, error) {
	if len(pages) == 0 {
		return "", errors.New("nothing to export")
	}
	if title == "" {
		title = pages[0].Meta.Title
		if len(pages) > 1 {
			title = "vidmark bookmarks"
		}
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			wd = "./"
		}
		dir = wd
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}

	path := filepath.Join(dir, FileName(title, pages, format))
	var err error
	switch format {
	case bookmarks.FormatJSON:
		err = writeJSON(pages, path)
	case bookmarks.FormatMarkdown:
		err = os.WriteFile(path, []byte(Markdown(pages)), 0o644)
	case bookmarks.FormatEpub:
		err = writeEpub(pages, title, path)
	default:
		return "", fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		return "", err
	}
	return path, nil
}

// FileName builds a filesystem safe name for an export
func FileName(title string, pages []bookmarks.Bookmark, format bookmarks.ExportFormat) string {
	ext := map[bookmarks.ExportFormat]string{
		bookmarks.FormatJSON:     ".json",
		bookmarks.FormatMarkdown: ".md",
		bookmarks.FormatEpub:     ".epub",
	}[format]

	name := slug.Make(title)
	if name == "" {
		ids := make([]string, 0, len(pages))
		for _, p := range pages {
			ids = append(ids, p.ID)
		}
		name = "vidmark-export-" + util.GetHash(strings.Join(ids, ","))[:12]
	}
	return name + ext
}

func writeJSON(pages []bookmarks.Bookmark, path string) error {
	doc := Document{Version: 1, ExportedAt: time.Now().UTC(), Bookmarks: pages}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode export: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Markdown renders pages and their notes as one markdown document
func Markdown(pages []bookmarks.Bookmark) string {
	var b strings.Builder
	for i, page := range pages {
		if i > 0 {
			b.WriteString("\n---\n\n")
		}
		fmt.Fprintf(&b, "# %s\n\n", page.Meta.Title)
		if page.Meta.URL != "" {
			fmt.Fprintf(&b, "<%s>\n\n", page.Meta.URL)
		}
		if page.Meta.Description != "" {
			fmt.Fprintf(&b, "%s\n\n", page.Meta.Description)
		}
		if len(page.Tags) > 0 {
			fmt.Fprintf(&b, "Tags: %s\n\n", strings.Join(page.Tags, ", "))
		}
		for _, note := range page.Notes {
			fmt.Fprintf(&b, "## [%s](%s)\n\n", bookmarks.SecondsToTime(note.Timestamp),
				bookmarks.AutoSeekURL(page.Meta.URL, note.Timestamp))
			if note.Image != "" {
				fmt.Fprintf(&b, "![Screenshot at %s](%s)\n\n", bookmarks.SecondsToTime(note.Timestamp), note.Image)
			}
			if content := strings.TrimSpace(note.Content); content != "" {
				b.WriteString(content)
				b.WriteString("\n\n")
			}
		}
	}
	return b.String()
}
