package stubstore

import (
	"context"
	"database/sql"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"BlogPortal/internal/domain"
	"BlogPortal/internal/infrastructure/storeapi"
	"BlogPortal/internal/ports"
	"BlogPortal/pkg/logger"
)

// newStoreClient spins up the stub store and a real portal client against it,
// so these tests double as a check of the wire contract from both ends.
func newStoreClient(t *testing.T) *storeapi.Client {
	t.Helper()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "stub.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := NewRepository(db)
	require.NoError(t, repo.Migrate(context.Background()))

	ts := httptest.NewServer(NewHandler(repo, logger.New("stubstore-test")))
	t.Cleanup(ts.Close)

	return storeapi.NewClient(ts.URL + "/api/v1")
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	t.Parallel()

	client := newStoreClient(t)
	ctx := context.Background()

	pw := "swordfish"
	created, err := client.Create(ctx, domain.Blog{
		Title: "Hello", Author: "Ann", Content: "Body",
		Tags: []string{"go", "web"}, Password: &pw,
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	require.False(t, created.CreatedAt.IsZero())

	// Plain reads never reveal the password.
	public, err := client.Get(ctx, created.ID, false)
	require.NoError(t, err)
	require.Nil(t, public.Password)
	require.Equal(t, []string{"go", "web"}, public.Tags)

	// The capability flag does.
	full, err := client.Get(ctx, created.ID, true)
	require.NoError(t, err)
	require.NotNil(t, full.Password)
	require.Equal(t, "swordfish", *full.Password)
}

func TestCreateRejectsBlankFields(t *testing.T) {
	t.Parallel()

	client := newStoreClient(t)

	_, err := client.Create(context.Background(), domain.Blog{Title: "only a title"})
	require.Error(t, err)
}

func TestGetMissing(t *testing.T) {
	t.Parallel()

	client := newStoreClient(t)

	_, err := client.Get(context.Background(), "999", true)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestUpdatePreservesCreatedAt(t *testing.T) {
	t.Parallel()

	client := newStoreClient(t)
	ctx := context.Background()

	created, err := client.Create(ctx, domain.Blog{
		Title: "v1", Author: "Ann", Content: "Body", Tags: []string{"x"},
	})
	require.NoError(t, err)

	updated, err := client.Update(ctx, created.ID, domain.Blog{
		Title: "v2", Author: "Ann", Content: "Body", Tags: []string{"x", "y"},
	})
	require.NoError(t, err)
	require.Equal(t, "v2", updated.Title)
	require.Equal(t, created.CreatedAt.Unix(), updated.CreatedAt.Unix())
}

func TestDeleteRequiresMatchingPassword(t *testing.T) {
	t.Parallel()

	client := newStoreClient(t)
	ctx := context.Background()

	pw := "swordfish"
	created, err := client.Create(ctx, domain.Blog{
		Title: "Guarded", Author: "Ann", Content: "Body",
		Tags: []string{"x"}, Password: &pw,
	})
	require.NoError(t, err)

	wrong := "nope"
	err = client.Delete(ctx, created.ID, &wrong)
	require.Error(t, err)
	require.False(t, errors.Is(err, ports.ErrNotFound))

	// Still there.
	_, err = client.Get(ctx, created.ID, false)
	require.NoError(t, err)

	require.NoError(t, client.Delete(ctx, created.ID, &pw))

	_, err = client.Get(ctx, created.ID, false)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestDeleteUnprotectedAcceptsNullPassword(t *testing.T) {
	t.Parallel()

	client := newStoreClient(t)
	ctx := context.Background()

	created, err := client.Create(ctx, domain.Blog{
		Title: "Open", Author: "Ann", Content: "Body", Tags: []string{"x"},
	})
	require.NoError(t, err)

	require.NoError(t, client.Delete(ctx, created.ID, nil))
}

func TestListNewestFirst(t *testing.T) {
	t.Parallel()

	client := newStoreClient(t)
	ctx := context.Background()

	for _, title := range []string{"first", "second"} {
		_, err := client.Create(ctx, domain.Blog{
			Title: title, Author: "Ann", Content: "Body", Tags: []string{"x"},
		})
		require.NoError(t, err)
	}

	blogs, err := client.List(ctx)
	require.NoError(t, err)
	require.Len(t, blogs, 2)
	require.Equal(t, "second", blogs[0].Title)
	require.Nil(t, blogs[0].Password)
}
