package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/ryan-gang/vidmark/internal/bookmarks"
)

const pageColumns = `id, created_at, title, url, description, image`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPage(row rowScanner) (*bookmarks.Bookmark, error) {
	var b bookmarks.Bookmark
	if err := row.Scan(&b.ID, &b.CreatedAt, &b.Meta.Title, &b.Meta.URL, &b.Meta.Description, &b.Meta.Image); err != nil {
		return nil, err
	}
	return &b, nil
}

// queryPages runs a page query and attaches tags. Rows are drained before
// the tag query since the pool holds a single connection.
func (s *Store) queryPages(ctx context.Context, query string, args ...any) ([]bookmarks.Bookmark, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query pages: %w", err)
	}

	pages := make([]bookmarks.Bookmark, 0)
	for rows.Next() {
		page, err := scanPage(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan page: %w", err)
		}
		pages = append(pages, *page)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate pages: %w", err)
	}
	rows.Close()

	if len(pages) == 0 {
		return pages, nil
	}
	tags, err := s.tagsByPage(ctx, "")
	if err != nil {
		return nil, err
	}
	for i := range pages {
		pages[i].Tags = tags[pages[i].ID]
		if pages[i].Tags == nil {
			pages[i].Tags = []string{}
		}
	}
	return pages, nil
}

func (s *Store) tagsByPage(ctx context.Context, where string, args ...any) (map[string][]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT page_id, tag FROM page_tags `+where+` ORDER BY page_id, position`, args...)
	if err != nil {
		return nil, fmt.Errorf("query page tags: %w", err)
	}
	defer rows.Close()

	tags := make(map[string][]string)
	for rows.Next() {
		var pageID, tag string
		if err := rows.Scan(&pageID, &tag); err != nil {
			return nil, fmt.Errorf("scan page tag: %w", err)
		}
		tags[pageID] = append(tags[pageID], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate page tags: %w", err)
	}
	return tags, nil
}

func (s *Store) notes(ctx context.Context, pageID string) ([]bookmarks.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, content, timestamp, image FROM notes WHERE page_id = ? ORDER BY timestamp, id`,
		pageID,
	)
	if err != nil {
		return nil, fmt.Errorf("query notes: %w", err)
	}
	defer rows.Close()

	notes := make([]bookmarks.Note, 0)
	for rows.Next() {
		var n bookmarks.Note
		if err := rows.Scan(&n.ID, &n.Content, &n.Timestamp, &n.Image); err != nil {
			return nil, fmt.Errorf("scan note: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate notes: %w", err)
	}
	return notes, nil
}

// normalizeTags trims, drops blanks and duplicates, keeping first position
func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		out = append(out, tag)
	}
	return out
}
