package model

import "strings"

// Tag is a normalized label. PostCount is derived at read time from the
// post_tags relation; tags are never deleted, so a count of zero is valid.
type Tag struct {
	ID        string `json:"id"        db:"id"`
	Name      string `json:"name"      db:"name"`
	PostCount int    `json:"postCount" db:"post_count"`
}

// NormalizeTagName converts a raw tag name to its storage form.
// Names are compared case-insensitively, so "Cat", "cat" and " CAT "
// all resolve to the same tag.
func NormalizeTagName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
