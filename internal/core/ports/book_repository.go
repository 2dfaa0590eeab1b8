package ports

import (
	"context"

	"github.com/bookvault/books-api/internal/core/domain"
)

// ListBooksFilter carries the query modifiers for listing books.
// UserID is always enforced by the service layer (owner scoping).
type ListBooksFilter struct {
	UserID string
	Limit  int
	Offset int
}

// BookUpdate is the full-replace payload applied by update_book.
type BookUpdate struct {
	Name        string
	Description string
	UpdatedAt   string
}

// BookRepository defines the remote-table operations for books. All calls
// translate into filtered requests against the managed data service.
type BookRepository interface {
	List(ctx context.Context, filter ListBooksFilter) ([]domain.Book, error)
	// FindByName retrieves the first book with the given name. When ownerID
	// is non-empty the lookup is additionally filtered by user_id.
	FindByName(ctx context.Context, name string, ownerID string) (*domain.Book, error)
	Insert(ctx context.Context, book domain.Book) (*domain.Book, error)
	// Update applies the payload to rows matching both id and user_id and
	// returns the number of rows affected.
	Update(ctx context.Context, bookID, userID string, update BookUpdate) (int, error)
	// Delete removes rows matching both id and user_id and returns the
	// number of rows affected.
	Delete(ctx context.Context, bookID, userID string) (int, error)
}
