package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/bookvault/books-api/internal/core/domain"
)

// BookInput is the client-supplied portion of a book. The owner is never
// accepted from the client; it comes from the authenticated user.
type BookInput struct {
	Name        string
	Description string
}

type BookService interface {
	ListBooks(ctx context.Context, user *domain.User, page, limit int) ([]domain.Book, error)
	CreateBook(ctx context.Context, user *domain.User, input BookInput) (*domain.Book, error)
	UpdateBook(ctx context.Context, user *domain.User, bookID uuid.UUID, input BookInput) error
	DeleteBook(ctx context.Context, user *domain.User, bookID uuid.UUID) error
}
