package cmd

import (
	"fmt"
	"strings"

	"github.com/ryan-gang/vidmark/internal/bookmarks"
	rootutil "github.com/ryan-gang/vidmark/util"
)

// resolveID finds the bookmark named by ref, either its full id or a
// unique prefix as shown by list
func resolveID(list []bookmarks.Bookmark, ref string) (string, error) {
	var matches []string
	for _, b := range list {
		if b.ID == ref {
			return b.ID, nil
		}
		if strings.HasPrefix(b.ID, ref) {
			matches = append(matches, b.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no bookmark matches %q", ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%q matches %d bookmarks, use more characters", ref, len(matches))
	}
}

// unknownTags returns the requested names that are not among tags, in
// request order and without repeats
func unknownTags(requested []string, tags []bookmarks.Tag) []string {
	known := make(map[string]bool, len(tags))
	for _, t := range tags {
		known[t.Name] = true
	}
	var unknown []string
	for _, name := range requested {
		if !known[name] {
			unknown = append(unknown, name)
			known[name] = true
		}
	}
	return unknown
}

// warnUnknownTags reports requested tag names the store does not know,
// since they are dropped from the selection
func warnUnknownTags(requested []string, tags []bookmarks.Tag) {
	if unknown := unknownTags(requested, tags); len(unknown) > 0 {
		rootutil.Red.Printf("Ignoring unknown tags: %s\n", strings.Join(unknown, ", "))
	}
}
