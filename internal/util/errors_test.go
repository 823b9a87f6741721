package util

import (
	"errors"
	"testing"
)

func TestFormatError(t *testing.T) {
	got := FormatError(StorageError, "removing page", errors.New("disk full"))
	want := "Storage error: removing page - disk full"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatErrorf(t *testing.T) {
	got := FormatErrorf(WatchError, "attaching", "selector %s not found", ".player")
	want := "Watch error: attaching - selector .player not found"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
