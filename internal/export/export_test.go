package export

import (
	"archive/zip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ryan-gang/vidmark/internal/bookmarks"
)

const pixel = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

func pages() []bookmarks.Bookmark {
	return []bookmarks.Bookmark{
		{
			ID:        "a1",
			CreatedAt: 100,
			Meta:      bookmarks.Meta{Title: "Go Concurrency Patterns", URL: "https://www.youtube.com/watch?v=f6kdp27TYZs", Description: "Rob Pike"},
			Tags:      []string{"go", "talks"},
			Notes: []bookmarks.Note{
				{ID: "n1", Content: "Generators return **channels**.", Timestamp: 754, Image: pixel},
				{ID: "n2", Content: "- fan-in\n- timeouts", Timestamp: 1203},
			},
		},
		{ID: "b2", CreatedAt: 200, Meta: bookmarks.Meta{Title: "Concert", URL: "https://youtu.be/xyz"}},
	}
}

func TestWriteJSON(t *testing.T) {
	dir := t.TempDir()
	path, err := Write(pages(), bookmarks.FormatJSON, "My Export", dir)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if filepath.Base(path) != "my-export.json" {
		t.Fatalf("unexpected file name %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode export: %v", err)
	}
	if doc.Version != 1 || len(doc.Bookmarks) != 2 || len(doc.Bookmarks[0].Notes) != 2 {
		t.Fatalf("unexpected document %+v", doc)
	}
	if !strings.Contains(string(data), `"createdAt": 100`) {
		t.Fatalf("expected createdAt field in export: %s", data)
	}
}

func TestMarkdown(t *testing.T) {
	out := Markdown(pages())
	for _, want := range []string{
		"# Go Concurrency Patterns",
		"Tags: go, talks",
		"## [12:34](https://www.youtube.com/watch?t=754s&v=f6kdp27TYZs)",
		"![Screenshot at 12:34](data:image/png;base64,",
		"Generators return **channels**.",
		"## [20:03]",
		"\n---\n\n# Concert",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("markdown missing %q:\n%s", want, out)
		}
	}
}

func TestWriteMarkdownNamesAfterSinglePage(t *testing.T) {
	path, err := Write(pages()[:1], bookmarks.FormatMarkdown, "", t.TempDir())
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if filepath.Base(path) != "go-concurrency-patterns.md" {
		t.Fatalf("unexpected file name %s", path)
	}
}

func TestWriteEpub(t *testing.T) {
	path, err := Write(pages(), bookmarks.FormatEpub, "Watch Notes", t.TempDir())
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("epub is not a zip: %v", err)
	}
	defer r.Close()

	var sections, images int
	var body string
	for _, f := range r.File {
		switch {
		case strings.HasPrefix(f.Name, "EPUB/xhtml/"):
			sections++
			rc, err := f.Open()
			if err != nil {
				t.Fatalf("open %s: %v", f.Name, err)
			}
			buf := new(strings.Builder)
			if _, err := io.Copy(buf, rc); err != nil {
				t.Fatalf("read %s: %v", f.Name, err)
			}
			rc.Close()
			body += buf.String()
		case strings.HasPrefix(f.Name, "EPUB/images/"):
			images++
			if f.Name != "EPUB/images/note-n1.png" {
				t.Fatalf("unexpected image entry %s", f.Name)
			}
		}
	}
	if sections < 2 {
		t.Fatalf("expected a section per page, got %d", sections)
	}
	if images != 1 {
		t.Fatalf("expected screenshot embedded, got %d images", images)
	}
	if !strings.Contains(body, "<strong>channels</strong>") {
		t.Fatal("note markdown not rendered")
	}
}

func TestWriteRejectsEmpty(t *testing.T) {
	if _, err := Write(nil, bookmarks.FormatJSON, "x", t.TempDir()); err == nil {
		t.Fatal("expected error for empty export")
	}
}

func TestFileNameFallsBackToHash(t *testing.T) {
	name := FileName("???", pages(), bookmarks.FormatEpub)
	if !strings.HasPrefix(name, "vidmark-export-") || !strings.HasSuffix(name, ".epub") {
		t.Fatalf("unexpected name %s", name)
	}
}

func TestRenderNoteXHTML(t *testing.T) {
	out, err := RenderNote("line one  \nline two")
	if err != nil {
		t.Fatalf("RenderNote failed: %v", err)
	}
	if !strings.Contains(out, "<br />") {
		t.Fatalf("expected XHTML line break, got %q", out)
	}
}
