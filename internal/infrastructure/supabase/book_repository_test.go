package supabase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookvault/books-api/internal/core/domain"
	"github.com/bookvault/books-api/internal/core/ports"
	"github.com/bookvault/books-api/internal/testutil"
)

func newRepo(t *testing.T) (*BookRepository, *testutil.FakeBackend) {
	t.Helper()
	backend := testutil.NewFakeBackend(testJWTSecret)
	t.Cleanup(backend.Close)
	return NewBookRepository(NewClient(backend.URL(), "service-key")), backend
}

func TestBookRepository_InsertAndList(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	created, err := repo.Insert(ctx, domain.Book{
		Name:        "Dune",
		Description: "sci-fi",
		UserID:      "u1",
	})
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.NotEmpty(t, created.ID)
	assert.NotEmpty(t, created.CreatedAt)
	assert.Equal(t, "u1", created.UserID)

	books, err := repo.List(ctx, ports.ListBooksFilter{UserID: "u1", Limit: 10, Offset: 0})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, created.ID, books[0].ID)
}

func TestBookRepository_ListScopesAndPaginates(t *testing.T) {
	repo, backend := newRepo(t)
	ctx := context.Background()

	for i := 0; i < 12; i++ {
		backend.SeedBook(fmt.Sprintf("mine-%02d", i), "", "u1")
	}
	backend.SeedBook("theirs", "", "u2")

	page1, err := repo.List(ctx, ports.ListBooksFilter{UserID: "u1", Limit: 10, Offset: 0})
	require.NoError(t, err)
	assert.Len(t, page1, 10)

	page2, err := repo.List(ctx, ports.ListBooksFilter{UserID: "u1", Limit: 10, Offset: 10})
	require.NoError(t, err)
	require.Len(t, page2, 2)

	for _, b := range append(page1, page2...) {
		assert.Equal(t, "u1", b.UserID)
	}
}

func TestBookRepository_FindByName(t *testing.T) {
	repo, backend := newRepo(t)
	ctx := context.Background()

	seeded := backend.SeedBook("Dune", "sci-fi", "u2")

	// Global lookup sees any owner's book.
	found, err := repo.FindByName(ctx, "Dune", "")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, seeded.ID, found.ID)

	// Owner-scoped lookup does not.
	found, err = repo.FindByName(ctx, "Dune", "u1")
	require.NoError(t, err)
	assert.Nil(t, found)

	// Missing name is nil, not an error.
	found, err = repo.FindByName(ctx, "Hyperion", "")
	require.NoError(t, err)
	assert.Nil(t, found)
}

func TestBookRepository_Update(t *testing.T) {
	repo, backend := newRepo(t)
	ctx := context.Background()

	seeded := backend.SeedBook("Dune", "sci-fi", "u1")

	affected, err := repo.Update(ctx, seeded.ID, "u1", ports.BookUpdate{
		Name:        "Dune2",
		Description: "revised",
		UpdatedAt:   "2026-08-31T12:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, affected)

	rows := backend.Books()
	require.Len(t, rows, 1)
	assert.Equal(t, "Dune2", rows[0].Name)
	assert.Equal(t, "revised", rows[0].Description)
	assert.Equal(t, "2026-08-31T12:00:00Z", rows[0].UpdatedAt)
}

func TestBookRepository_UpdateForeignRowAffectsNothing(t *testing.T) {
	repo, backend := newRepo(t)
	ctx := context.Background()

	seeded := backend.SeedBook("Dune", "", "u1")

	affected, err := repo.Update(ctx, seeded.ID, "u2", ports.BookUpdate{Name: "Stolen"})
	require.NoError(t, err)
	assert.Zero(t, affected)
	assert.Equal(t, "Dune", backend.Books()[0].Name)
}

func TestBookRepository_Delete(t *testing.T) {
	repo, backend := newRepo(t)
	ctx := context.Background()

	seeded := backend.SeedBook("Dune", "", "u1")

	affected, err := repo.Delete(ctx, seeded.ID, "u2")
	require.NoError(t, err)
	assert.Zero(t, affected, "foreign delete must not match")
	assert.Len(t, backend.Books(), 1)

	affected, err = repo.Delete(ctx, seeded.ID, "u1")
	require.NoError(t, err)
	assert.Equal(t, 1, affected)
	assert.Empty(t, backend.Books())
}

func TestTranslateConflict(t *testing.T) {
	conflict := &APIError{Status: 409, Message: "duplicate key value violates unique constraint"}
	assert.ErrorIs(t, translateConflict(conflict), domain.ErrDuplicateName)

	other := &APIError{Status: 500, Message: "boom"}
	assert.NotErrorIs(t, translateConflict(other), domain.ErrDuplicateName)
}
