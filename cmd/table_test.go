package cmd

import (
	"reflect"
	"strings"
	"testing"

	"github.com/ryan-gang/vidmark/internal/bookmarks"
)

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"Tag", "Count"}, [][]string{{"go", "2"}, {"music"}}, []columnAlignment{alignLeft, alignRight})
	for _, want := range []string{"Tag", "Count", "go", "music"} {
		if !strings.Contains(out, want) {
			t.Fatalf("table missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "TAG") {
		t.Fatalf("header case changed:\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty table without headers")
	}
}

func TestBookmarkRows(t *testing.T) {
	rows := bookmarkRows([]bookmarks.Bookmark{{
		ID:        "0123456789abcdef",
		CreatedAt: 0,
		Meta:      bookmarks.Meta{Title: "GopherCon"},
		Tags:      []string{"go", "talks"},
		Notes:     []bookmarks.Note{{ID: "n1"}},
	}})
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	row := rows[0]
	if !reflect.DeepEqual(row[:5], []string{"1", "01234567", "GopherCon", "go, talks", "1"}) {
		t.Fatalf("unexpected row %v", row)
	}
}

func TestTagLine(t *testing.T) {
	got := tagLine([]bookmarks.Tag{{Name: "go"}, {Name: "music", Selected: true}})
	if got != "go [music]" {
		t.Fatalf("unexpected tag line %q", got)
	}
}

func TestResolveID(t *testing.T) {
	list := []bookmarks.Bookmark{{ID: "abcdef0123"}, {ID: "abc999"}, {ID: "ffff"}}
	if id, err := resolveID(list, "ffff"); err != nil || id != "ffff" {
		t.Fatalf("exact match = %q, %v", id, err)
	}
	if id, err := resolveID(list, "abcd"); err != nil || id != "abcdef0123" {
		t.Fatalf("prefix match = %q, %v", id, err)
	}
	if _, err := resolveID(list, "abc"); err == nil {
		t.Fatal("expected ambiguous prefix error")
	}
	if _, err := resolveID(list, "zzz"); err == nil {
		t.Fatal("expected not found error")
	}
}

func TestUnknownTags(t *testing.T) {
	tags := []bookmarks.Tag{{Name: "go"}, {Name: "music", Selected: true}}
	got := unknownTags([]string{"go", "typo", "talks", "typo", "music"}, tags)
	if !reflect.DeepEqual(got, []string{"typo", "talks"}) {
		t.Fatalf("unexpected unknown tags %v", got)
	}
	if got := unknownTags([]string{"go"}, tags); got != nil {
		t.Fatalf("expected no unknown tags, got %v", got)
	}
	if got := unknownTags([]string{"go"}, nil); !reflect.DeepEqual(got, []string{"go"}) {
		t.Fatalf("expected every name unknown without tags, got %v", got)
	}
}
