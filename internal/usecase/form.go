package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/go-playground/validator/v10"

	"BlogPortal/internal/domain"
	"BlogPortal/internal/ports"
)

// ErrBusy is returned when a submit is attempted while another one is still
// in flight on the same form instance.
var ErrBusy = errors.New("a submission is already in flight")

// ValidationError lists the required draft fields that were left empty.
// No store call is made when validation fails.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

var fieldLabels = map[string]string{
	"Title":     "title",
	"Author":    "author",
	"Content":   "content",
	"TagsInput": "tags",
}

// Form is the controller behind one create or edit form instance. At most one
// mutating store call is in flight at a time; concurrent submits get ErrBusy.
type Form struct {
	store    ports.BlogStore
	validate *validator.Validate
	inFlight atomic.Bool
}

// NewForm wires a form controller to the blog store.
func NewForm(store ports.BlogStore) *Form {
	return &Form{
		store:    store,
		validate: validator.New(),
	}
}

// Prefill identifies where an edit draft comes from: a blog carried by
// in-app navigation (no network call) or a fetch by id.
type Prefill struct {
	seeded *domain.Blog
	id     string
}

// Seeded builds a prefill source from an already-fetched blog.
func Seeded(blog domain.Blog) Prefill {
	return Prefill{seeded: &blog}
}

// NeedsFetch builds a prefill source that loads the blog by id, asking the
// store to include the stored password.
func NeedsFetch(id string) Prefill {
	return Prefill{id: id}
}

// PrefillDraft produces the edit draft for the given source. A fetch failure
// is returned so the caller can notify and navigate away instead of
// rendering a broken form.
func (f *Form) PrefillDraft(ctx context.Context, src Prefill) (domain.Draft, error) {
	if src.seeded != nil {
		return domain.DraftFromBlog(*src.seeded), nil
	}

	blog, err := f.store.Get(ctx, src.id, true)
	if err != nil {
		return domain.Draft{}, fmt.Errorf("prefill blog %s: %w", src.id, err)
	}
	return domain.DraftFromBlog(blog), nil
}

// SubmitCreate validates the draft and creates the blog. An empty password
// input means the blog is created unprotected, with no password field sent.
func (f *Form) SubmitCreate(ctx context.Context, draft domain.Draft) (domain.Blog, error) {
	if err := f.check(draft); err != nil {
		return domain.Blog{}, err
	}

	if !f.inFlight.CompareAndSwap(false, true) {
		return domain.Blog{}, ErrBusy
	}
	defer f.inFlight.Store(false)

	created, err := f.store.Create(ctx, domain.Blog{
		Title:    draft.Title,
		Author:   draft.Author,
		Content:  draft.Content,
		Tags:     domain.ParseTags(draft.TagsInput),
		Password: draft.CreatePassword(),
	})
	if err != nil {
		return domain.Blog{}, fmt.Errorf("create blog: %w", err)
	}
	return created, nil
}

// SubmitUpdate validates the draft and updates the blog. A blank password
// input resubmits the previously known password so protection is never
// silently cleared.
func (f *Form) SubmitUpdate(ctx context.Context, id string, draft domain.Draft) (domain.Blog, error) {
	if err := f.check(draft); err != nil {
		return domain.Blog{}, err
	}

	if !f.inFlight.CompareAndSwap(false, true) {
		return domain.Blog{}, ErrBusy
	}
	defer f.inFlight.Store(false)

	updated, err := f.store.Update(ctx, id, domain.Blog{
		Title:    draft.Title,
		Author:   draft.Author,
		Content:  draft.Content,
		Tags:     domain.ParseTags(draft.TagsInput),
		Password: draft.UpdatePassword(),
	})
	if err != nil {
		return domain.Blog{}, fmt.Errorf("update blog %s: %w", id, err)
	}
	return updated, nil
}

func (f *Form) check(draft domain.Draft) error {
	err := f.validate.Struct(draft)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate draft: %w", err)
	}

	fields := make([]string, 0, len(verrs))
	for _, verr := range verrs {
		label := fieldLabels[verr.StructField()]
		if label == "" {
			label = strings.ToLower(verr.StructField())
		}
		fields = append(fields, label)
	}
	return &ValidationError{Fields: fields}
}
