package domain

import (
	"strings"
	"time"
)

// Blog is the protected content unit served by the remote store.
// Password is nil (or empty) for unprotected blogs; the store only includes
// it when the read was made with the include-password capability.
type Blog struct {
	ID        string    `json:"id,omitempty"`
	Title     string    `json:"title"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	Password  *string   `json:"password,omitempty"`
	CreatedAt time.Time `json:"createdAt,omitempty"`
}

// Protected reports whether edit/delete on this blog require a password.
func (b Blog) Protected() bool {
	return b.Password != nil && *b.Password != ""
}

// StoredPassword returns the known password or "" when the blog is unprotected.
func (b Blog) StoredPassword() string {
	if b.Password == nil {
		return ""
	}
	return *b.Password
}

// Draft is the transient, page-local editable copy of a blog's fields.
// TagsInput and PasswordInput hold the raw user input; Existing carries the
// previously known stored password on the update path (nil when none).
type Draft struct {
	Title         string  `validate:"required"`
	Author        string  `validate:"required"`
	Content       string  `validate:"required"`
	TagsInput     string  `validate:"required"`
	PasswordInput string  `validate:"-"`
	Existing      *string `validate:"-"`
}

// DraftFromBlog seeds an update draft from a fetched blog. The password input
// starts blank so that leaving it untouched keeps the existing protection.
func DraftFromBlog(b Blog) Draft {
	var existing *string
	if b.Protected() {
		pw := *b.Password
		existing = &pw
	}
	return Draft{
		Title:     b.Title,
		Author:    b.Author,
		Content:   b.Content,
		TagsInput: strings.Join(b.Tags, ", "),
		Existing:  existing,
	}
}

// CreatePassword computes the outgoing password for a new blog: the trimmed
// input when non-empty, otherwise nil so the field is omitted on the wire and
// the store never sees a protected-by-empty-string blog.
func (d Draft) CreatePassword() *string {
	if pw := strings.TrimSpace(d.PasswordInput); pw != "" {
		return &pw
	}
	return nil
}

// UpdatePassword computes the outgoing password for an update: a non-empty
// trimmed input replaces the password, a blank input resubmits the previously
// known one so that omission never silently clears protection. When no
// password was ever set, nil stays nil.
func (d Draft) UpdatePassword() *string {
	if pw := strings.TrimSpace(d.PasswordInput); pw != "" {
		return &pw
	}
	return d.Existing
}

// ParseTags splits a comma-separated input into trimmed tags, discarding
// empty segments. Order is preserved.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
