package export

import (
	"bytes"
	"errors"
	"fmt"
	"html"
	"path/filepath"
	"strings"

	"github.com/bmaupin/go-epub"
	"github.com/vincent-petithory/dataurl"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"github.com/ryan-gang/vidmark/internal/bookmarks"
	"github.com/ryan-gang/vidmark/util"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(gmhtml.WithXHTML()),
)

type epubmaker struct {
	Epub      *epub.Epub
	downloads map[string]string
}

func newEpubmaker(title string) *epubmaker {
	book := epub.NewEpub(title)
	book.SetAuthor("vidmark")
	return &epubmaker{Epub: book, downloads: make(map[string]string)}
}

// RenderNote converts note markdown to XHTML
func RenderNote(content string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("render note: %w", err)
	}
	return buf.String(), nil
}

// addImage embeds src under base plus an extension matching its type and
// returns its internal path, or "" when it could not be fetched. Data URIs
// are embedded as is; remote images are downloaded and compressed.
func (e *epubmaker) addImage(src, base string) string {
	if src == "" {
		return ""
	}
	var (
		ref string
		err error
	)
	switch {
	case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
		ref, err = e.downloadImage(src, base)
	case strings.HasPrefix(src, "data:"):
		var du *dataurl.DataURL
		if du, err = dataurl.DecodeString(src); err == nil {
			ext := imageExt(du.ContentType())
			if ext == "" {
				ext = ".png"
			}
			ref, err = e.Epub.AddImage(src, base+ext)
		}
	default:
		ref, err = e.Epub.AddImage(src, base+filepath.Ext(src))
	}
	if err != nil {
		util.Red.Printf("Couldn't add image %s : %s\n", base, err)
		return ""
	}
	return ref
}

func (e *epubmaker) section(page bookmarks.Bookmark) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>", html.EscapeString(page.Meta.Title))
	if page.Meta.URL != "" {
		fmt.Fprintf(&b, `<p><a href="%s">%s</a></p>`, html.EscapeString(page.Meta.URL), html.EscapeString(page.Meta.URL))
	}
	if thumb := e.addImage(page.Meta.Image, "thumb-"+page.ID); thumb != "" {
		fmt.Fprintf(&b, `<p><img src="%s" alt="Thumbnail"/></p>`, thumb)
	}
	if page.Meta.Description != "" {
		fmt.Fprintf(&b, "<p>%s</p>", html.EscapeString(page.Meta.Description))
	}
	if len(page.Tags) > 0 {
		fmt.Fprintf(&b, "<p><em>%s</em></p>", html.EscapeString(strings.Join(page.Tags, ", ")))
	}

	for _, note := range page.Notes {
		at := bookmarks.SecondsToTime(note.Timestamp)
		fmt.Fprintf(&b, `<h3><a href="%s">%s</a></h3>`,
			html.EscapeString(bookmarks.AutoSeekURL(page.Meta.URL, note.Timestamp)), at)
		if shot := e.addImage(note.Image, "note-"+note.ID); shot != "" {
			fmt.Fprintf(&b, `<p><img src="%s" alt="Screenshot at %s"/></p>`, shot, at)
		}
		rendered, err := RenderNote(note.Content)
		if err != nil {
			return "", err
		}
		b.WriteString(rendered)
	}
	return b.String(), nil
}

func writeEpub(pages []bookmarks.Bookmark, title, path string) error {
	book := newEpubmaker(title)
	added := 0
	for _, page := range pages {
		body, err := book.section(page)
		if err != nil {
			util.Red.Printf("Couldn't render %s : %s\n", page.Meta.Title, err)
			continue
		}
		if _, err := book.Epub.AddSection(body, page.Meta.Title, "", ""); err != nil {
			util.Red.Printf("Couldn't add %s to epub : %s\n", page.Meta.Title, err)
			continue
		}
		added++
	}
	if added == 0 {
		return errors.New("no page was added, epub creation failed")
	}
	if err := book.Epub.Write(path); err != nil {
		return fmt.Errorf("write epub: %w", err)
	}
	return nil
}
