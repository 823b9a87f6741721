// Package storage persists bookmarked pages, their tags and notes in SQLite
// and implements the backend the bookmark store synchronizes with.
package storage
