package domain

import (
	"reflect"
	"testing"
)

func strptr(s string) *string { return &s }

func TestParseTags(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		raw  string
		want []string
	}{
		{name: "messy input", raw: "a, b ,, c", want: []string{"a", "b", "c"}},
		{name: "empty", raw: "", want: []string{}},
		{name: "only separators", raw: " , , ", want: []string{}},
		{name: "single", raw: "go", want: []string{"go"}},
		{name: "order preserved", raw: "z, a, m", want: []string{"z", "a", "m"}},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := ParseTags(tc.raw)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("ParseTags(%q) = %v, want %v", tc.raw, got, tc.want)
			}
		})
	}
}

func TestCreatePassword(t *testing.T) {
	t.Parallel()

	if got := (Draft{PasswordInput: " secret "}).CreatePassword(); got == nil || *got != "secret" {
		t.Fatalf("expected trimmed secret, got %v", got)
	}
	if got := (Draft{PasswordInput: ""}).CreatePassword(); got != nil {
		t.Fatalf("empty input must produce nil, got %q", *got)
	}
	if got := (Draft{PasswordInput: "   "}).CreatePassword(); got != nil {
		t.Fatalf("blank input must produce nil, got %q", *got)
	}
}

func TestUpdatePassword(t *testing.T) {
	t.Parallel()

	existing := strptr("old")

	if got := (Draft{PasswordInput: "new", Existing: existing}).UpdatePassword(); got == nil || *got != "new" {
		t.Fatalf("new input must win, got %v", got)
	}
	if got := (Draft{PasswordInput: "", Existing: existing}).UpdatePassword(); got == nil || *got != "old" {
		t.Fatalf("blank input must carry the existing password forward, got %v", got)
	}
	if got := (Draft{PasswordInput: ""}).UpdatePassword(); got != nil {
		t.Fatalf("absent existing password must stay absent, got %q", *got)
	}
}

func TestDraftFromBlog(t *testing.T) {
	t.Parallel()

	blog := Blog{
		ID:       "42",
		Title:    "Hello",
		Author:   "Ann",
		Content:  "Body",
		Tags:     []string{"go", "web"},
		Password: strptr("swordfish"),
	}

	draft := DraftFromBlog(blog)
	if draft.TagsInput != "go, web" {
		t.Fatalf("unexpected tags input: %q", draft.TagsInput)
	}
	if draft.PasswordInput != "" {
		t.Fatalf("password input must start blank, got %q", draft.PasswordInput)
	}
	if draft.Existing == nil || *draft.Existing != "swordfish" {
		t.Fatalf("existing password not carried: %v", draft.Existing)
	}

	// Mutating the draft's copy must not touch the source blog.
	*draft.Existing = "changed"
	if *blog.Password != "swordfish" {
		t.Fatalf("draft aliases the blog password")
	}

	unprotected := DraftFromBlog(Blog{Title: "t", Password: strptr("")})
	if unprotected.Existing != nil {
		t.Fatalf("empty stored password must seed no existing value")
	}
}

func TestProtected(t *testing.T) {
	t.Parallel()

	if (Blog{}).Protected() {
		t.Fatal("nil password must not be protected")
	}
	if (Blog{Password: strptr("")}).Protected() {
		t.Fatal("empty password must not be protected")
	}
	if !(Blog{Password: strptr("x")}).Protected() {
		t.Fatal("non-empty password must be protected")
	}
}
