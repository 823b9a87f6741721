package pageinfo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"

	"github.com/ryan-gang/vidmark/internal/bookmarks"
	"github.com/ryan-gang/vidmark/util"
)

const maxBody = 4 << 20

// Fetcher reads title, description and preview image of video pages
type Fetcher struct {
	client *http.Client
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Fetch downloads pageURL and extracts its metadata. OpenGraph tags win;
// readability fills whatever they leave empty.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (bookmarks.Meta, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return bookmarks.Meta{}, fmt.Errorf("invalid url %q", pageURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return bookmarks.Meta{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) vidmark")
	req.Header.Set("Accept-Language", "en")

	resp, err := f.client.Do(req)
	if err != nil {
		return bookmarks.Meta{}, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return bookmarks.Meta{}, fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return bookmarks.Meta{}, fmt.Errorf("read %s: %w", pageURL, err)
	}

	meta, err := Parse(bytes.NewReader(body), parsed)
	if err != nil {
		return bookmarks.Meta{}, err
	}
	if meta.Title == "" || meta.Description == "" {
		if article, err := readability.FromReader(bytes.NewReader(body), parsed); err == nil {
			if meta.Title == "" {
				meta.Title = strings.TrimSpace(article.Title)
			}
			if meta.Description == "" {
				meta.Description = strings.TrimSpace(article.Excerpt)
			}
			if meta.Image == "" {
				meta.Image = article.Image
			}
		}
	}
	if meta.Title == "" {
		meta.Title = pageURL
	}
	return meta, nil
}

// Parse extracts metadata from an HTML document located at base
func Parse(r io.Reader, base *url.URL) (bookmarks.Meta, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return bookmarks.Meta{}, fmt.Errorf("parse html: %w", err)
	}

	meta := bookmarks.Meta{
		Title: firstNonEmpty(
			metaContent(doc, `meta[property="og:title"]`),
			metaContent(doc, `meta[name="twitter:title"]`),
			strings.TrimSpace(doc.Find("title").First().Text()),
		),
		Description: firstNonEmpty(
			metaContent(doc, `meta[property="og:description"]`),
			metaContent(doc, `meta[name="description"]`),
		),
		Image: firstNonEmpty(
			metaContent(doc, `meta[property="og:image"]`),
			metaContent(doc, `meta[name="twitter:image"]`),
		),
	}

	canonical := firstNonEmpty(
		metaContent(doc, `meta[property="og:url"]`),
		attr(doc, `link[rel="canonical"]`, "href"),
	)
	meta.URL = base.String()
	if canonical != "" {
		if ref, err := base.Parse(canonical); err == nil {
			meta.URL = ref.String()
		}
	}
	if meta.Image != "" {
		if ref, err := base.Parse(meta.Image); err == nil {
			meta.Image = ref.String()
		}
	}
	return meta, nil
}

func metaContent(doc *goquery.Document, selector string) string {
	return attr(doc, selector, "content")
}

func attr(doc *goquery.Document, selector, name string) string {
	value, _ := doc.Find(selector).First().Attr(name)
	return strings.TrimSpace(value)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// CanonicalURL maps the various YouTube link forms onto the watch URL so
// the same video always gets the same page id. Other URLs lose their
// fragment only.
func CanonicalURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return strings.TrimSpace(raw)
	}
	u.Fragment = ""

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")
	var id string
	switch host {
	case "youtu.be":
		id = strings.Trim(u.Path, "/")
	case "youtube.com", "music.youtube.com":
		switch {
		case u.Path == "/watch":
			id = u.Query().Get("v")
		case strings.HasPrefix(u.Path, "/shorts/"), strings.HasPrefix(u.Path, "/embed/"), strings.HasPrefix(u.Path, "/live/"):
			parts := strings.Split(strings.Trim(u.Path, "/"), "/")
			if len(parts) > 1 {
				id = parts[1]
			}
		}
	}
	if id == "" {
		return u.String()
	}
	return "https://www.youtube.com/watch?v=" + id
}

// PageID derives the stable page id for a video URL
func PageID(raw string) string {
	return util.GetHash(CanonicalURL(raw))
}
