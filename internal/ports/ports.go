package ports

import (
	"context"
	"errors"

	"BlogPortal/internal/domain"
)

// ErrNotFound is returned by BlogStore reads when the blog does not exist.
var ErrNotFound = errors.New("blog not found")

// BlogStore is the remote article store behind the portal. Passwords are only
// present on reads made with includePassword set; Delete forwards the blog's
// known password (nil when the blog is unprotected) for server-side checks.
type BlogStore interface {
	List(ctx context.Context) ([]domain.Blog, error)
	Get(ctx context.Context, id string, includePassword bool) (domain.Blog, error)
	Create(ctx context.Context, blog domain.Blog) (domain.Blog, error)
	Update(ctx context.Context, id string, blog domain.Blog) (domain.Blog, error)
	Delete(ctx context.Context, id string, password *string) error
}
