package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"github.com/ryan-gang/vidmark/internal/bookmarks"
)

// ErrNotFound is returned when a page or note does not exist
var ErrNotFound = errors.New("not found")

// Store manages bookmark persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	now  func() time.Time
}

var _ bookmarks.Backend = (*Store)(nil)

// Open initializes or connects to the bookmark database and applies migrations.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// pragmas are per connection
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, now: time.Now}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location
func (s *Store) Path() string {
	return s.path
}

// SavePage inserts or replaces a page and its tags. A zero CreatedAt is
// stamped with the current time; an existing page keeps its creation time.
func (s *Store) SavePage(ctx context.Context, b bookmarks.Bookmark) (*bookmarks.Bookmark, error) {
	if strings.TrimSpace(b.ID) == "" {
		return nil, errors.New("page id is required")
	}
	if b.CreatedAt == 0 {
		b.CreatedAt = s.now().UnixMilli()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin save tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO pages (id, created_at, title, url, description, image)
         VALUES (?, ?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             title = excluded.title, url = excluded.url,
             description = excluded.description, image = excluded.image`,
		b.ID, b.CreatedAt, b.Meta.Title, b.Meta.URL, b.Meta.Description, b.Meta.Image,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert page: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM page_tags WHERE page_id = ?", b.ID); err != nil {
		return nil, fmt.Errorf("clear tags: %w", err)
	}
	for i, tag := range normalizeTags(b.Tags) {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO page_tags (page_id, tag, position) VALUES (?, ?, ?)",
			b.ID, tag, i,
		); err != nil {
			return nil, fmt.Errorf("insert tag %q: %w", tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit page: %w", err)
	}
	return s.GetPage(ctx, b.ID)
}

// GetPage returns a page with its tags and notes, or nil when absent.
func (s *Store) GetPage(ctx context.Context, id string) (*bookmarks.Bookmark, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+pageColumns+` FROM pages WHERE id = ?`, id)
	page, err := scanPage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}

	tags, err := s.tagsByPage(ctx, "WHERE page_id = ?", id)
	if err != nil {
		return nil, err
	}
	page.Tags = tags[id]
	if page.Tags == nil {
		page.Tags = []string{}
	}

	notes, err := s.notes(ctx, id)
	if err != nil {
		return nil, err
	}
	page.Notes = notes
	return page, nil
}

// GetBookmarks returns every page with its tags, oldest first.
func (s *Store) GetBookmarks(ctx context.Context) ([]bookmarks.Bookmark, error) {
	return s.queryPages(ctx, `SELECT `+pageColumns+` FROM pages ORDER BY created_at, id`)
}

// RemovePage deletes a page together with its tags and notes.
func (s *Store) RemovePage(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM pages WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete page: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("page %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetTags returns every tag in use, sorted by name.
func (s *Store) GetTags(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT tag FROM page_tags ORDER BY tag")
	if err != nil {
		return nil, fmt.Errorf("query tags: %w", err)
	}
	defer rows.Close()

	tags := make([]string, 0)
	for rows.Next() {
		var tag string
		if err := rows.Scan(&tag); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tags: %w", err)
	}
	return tags, nil
}

// FilterBookmarksByTags returns the pages carrying every one of names.
// No names returns every page.
func (s *Store) FilterBookmarksByTags(ctx context.Context, names []string) ([]bookmarks.Bookmark, error) {
	names = normalizeTags(names)
	if len(names) == 0 {
		return s.GetBookmarks(ctx)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	args := make([]any, 0, len(names)+1)
	for _, name := range names {
		args = append(args, name)
	}
	args = append(args, len(names))

	query := `SELECT ` + pageColumns + ` FROM pages WHERE id IN (
            SELECT page_id FROM page_tags WHERE tag IN (` + placeholders + `)
            GROUP BY page_id HAVING COUNT(DISTINCT tag) = ?
        ) ORDER BY created_at, id`
	return s.queryPages(ctx, query, args...)
}

// SaveNote inserts or replaces a note on an existing page.
func (s *Store) SaveNote(ctx context.Context, pageID string, note bookmarks.Note) error {
	if note.ID == "" {
		return errors.New("note id is required")
	}
	var exists int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM pages WHERE id = ?", pageID).Scan(&exists); err != nil {
		return fmt.Errorf("check page: %w", err)
	}
	if exists == 0 {
		return fmt.Errorf("page %s: %w", pageID, ErrNotFound)
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO notes (id, page_id, content, timestamp, image) VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET
             content = excluded.content, timestamp = excluded.timestamp, image = excluded.image`,
		note.ID, pageID, note.Content, note.Timestamp, note.Image,
	)
	if err != nil {
		return fmt.Errorf("upsert note: %w", err)
	}
	return nil
}

// RemoveNote deletes a note by id.
func (s *Store) RemoveNote(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete note: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("note %s: %w", id, ErrNotFound)
	}
	return nil
}

// GetPagesWithNotes returns pages by id, notes included, in the order given.
// Unknown ids are skipped.
func (s *Store) GetPagesWithNotes(ctx context.Context, ids []string) ([]bookmarks.Bookmark, error) {
	pages := make([]bookmarks.Bookmark, 0, len(ids))
	for _, id := range ids {
		page, err := s.GetPage(ctx, id)
		if err != nil {
			return nil, err
		}
		if page != nil {
			pages = append(pages, *page)
		}
	}
	return pages, nil
}
