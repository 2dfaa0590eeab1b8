package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/bookvault/books-api/internal/core/domain"
	"github.com/bookvault/books-api/internal/core/ports"
)

// BookServiceOptions tune guard behaviour.
type BookServiceOptions struct {
	// ScopeDuplicateCheckToOwner restricts the name-uniqueness guard to the
	// caller's own books. The default (false) checks the name across all
	// users, preserving the historical behaviour of the service.
	ScopeDuplicateCheckToOwner bool
}

// BookService translates each book operation into one or two scoped calls
// against the remote table. The duplicate-name guard is a read-before-write
// check: two concurrent creates with the same name can both pass it, because
// no transaction or unique constraint backs the check at this layer.
type BookService struct {
	repo   ports.BookRepository
	logger zerolog.Logger
	opts   BookServiceOptions
}

func NewBookService(repo ports.BookRepository, logger zerolog.Logger, opts BookServiceOptions) *BookService {
	return &BookService{repo: repo, logger: logger, opts: opts}
}

// ListBooks returns one page of the caller's books in whatever order the
// remote store yields them. Page and limit are applied as received.
func (s *BookService) ListBooks(ctx context.Context, user *domain.User, page, limit int) ([]domain.Book, error) {
	offset := (page - 1) * limit

	books, err := s.repo.List(ctx, ports.ListBooksFilter{
		UserID: user.ID,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to list books")
		return nil, err
	}
	if books == nil {
		books = []domain.Book{}
	}
	return books, nil
}

// CreateBook inserts a new book owned by the caller after the uniqueness
// guard passes. The owner is always taken from the authenticated user.
func (s *BookService) CreateBook(ctx context.Context, user *domain.User, input ports.BookInput) (*domain.Book, error) {
	if err := s.checkDuplicateName(ctx, user, input.Name); err != nil {
		return nil, err
	}

	created, err := s.repo.Insert(ctx, domain.Book{
		Name:        input.Name,
		Description: input.Description,
		UserID:      user.ID,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", user.ID).Msg("failed to create book")
		return nil, err
	}
	if created == nil {
		// The remote call "succeeded" but returned no row.
		return nil, domain.ErrOperationFailed
	}

	s.logger.Info().Str("book_id", created.ID).Str("user_id", user.ID).Msg("book created")
	return created, nil
}

// UpdateBook replaces name and description of the caller's book and stamps
// updated_at. A zero affected-row count means the book either does not exist
// or belongs to another user; the two are indistinguishable by design.
func (s *BookService) UpdateBook(ctx context.Context, user *domain.User, bookID uuid.UUID, input ports.BookInput) error {
	if err := s.checkDuplicateName(ctx, user, input.Name); err != nil {
		return err
	}

	affected, err := s.repo.Update(ctx, bookID.String(), user.ID, ports.BookUpdate{
		Name:        input.Name,
		Description: input.Description,
		UpdatedAt:   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		s.logger.Error().Err(err).Str("book_id", bookID.String()).Msg("failed to update book")
		return err
	}
	if affected == 0 {
		return domain.ErrBookNotFound
	}

	s.logger.Info().Str("book_id", bookID.String()).Str("user_id", user.ID).Msg("book updated")
	return nil
}

// DeleteBook removes the caller's book. Ownership is enforced by the query
// filter, not checked separately.
func (s *BookService) DeleteBook(ctx context.Context, user *domain.User, bookID uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, bookID.String(), user.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("book_id", bookID.String()).Msg("failed to delete book")
		return err
	}
	if affected == 0 {
		return domain.ErrBookNotFound
	}

	s.logger.Info().Str("book_id", bookID.String()).Str("user_id", user.ID).Msg("book deleted")
	return nil
}

func (s *BookService) checkDuplicateName(ctx context.Context, user *domain.User, name string) error {
	ownerID := ""
	if s.opts.ScopeDuplicateCheckToOwner {
		ownerID = user.ID
	}

	existing, err := s.repo.FindByName(ctx, name, ownerID)
	if err != nil {
		s.logger.Error().Err(err).Str("name", name).Msg("duplicate check failed")
		return err
	}
	if existing != nil {
		return domain.ErrDuplicateName
	}
	return nil
}
