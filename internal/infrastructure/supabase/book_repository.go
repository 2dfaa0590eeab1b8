package supabase

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bookvault/books-api/internal/core/domain"
	"github.com/bookvault/books-api/internal/core/ports"
)

const booksPath = "/rest/v1/books"

// BookRepository implements ports.BookRepository against the PostgREST table
// endpoint. Affected-row counts come from the representation the backend
// returns; there is no separate count query.
type BookRepository struct {
	client *Client
}

func NewBookRepository(client *Client) *BookRepository {
	return &BookRepository{client: client}
}

func (r *BookRepository) List(ctx context.Context, filter ports.ListBooksFilter) ([]domain.Book, error) {
	query := url.Values{}
	query.Set("user_id", "eq."+filter.UserID)
	query.Set("limit", strconv.Itoa(filter.Limit))
	query.Set("offset", strconv.Itoa(filter.Offset))

	var books []domain.Book
	err := r.client.do(ctx, request{
		method: http.MethodGet,
		path:   booksPath,
		query:  query,
	}, &books)
	if err != nil {
		return nil, err
	}
	return books, nil
}

func (r *BookRepository) FindByName(ctx context.Context, name string, ownerID string) (*domain.Book, error) {
	query := url.Values{}
	query.Set("name", "eq."+name)
	if ownerID != "" {
		query.Set("user_id", "eq."+ownerID)
	}
	query.Set("limit", "1")

	var books []domain.Book
	err := r.client.do(ctx, request{
		method: http.MethodGet,
		path:   booksPath,
		query:  query,
	}, &books)
	if err != nil {
		return nil, err
	}
	if len(books) == 0 {
		return nil, nil
	}
	return &books[0], nil
}

func (r *BookRepository) Insert(ctx context.Context, book domain.Book) (*domain.Book, error) {
	var created []domain.Book
	err := r.client.do(ctx, request{
		method: http.MethodPost,
		path:   booksPath,
		prefer: "return=representation",
		body:   book,
	}, &created)
	if err != nil {
		return nil, translateConflict(err)
	}
	if len(created) == 0 {
		return nil, nil
	}
	return &created[0], nil
}

func (r *BookRepository) Update(ctx context.Context, bookID, userID string, update ports.BookUpdate) (int, error) {
	query := url.Values{}
	query.Set("id", "eq."+bookID)
	query.Set("user_id", "eq."+userID)

	payload := map[string]string{
		"name":        update.Name,
		"description": update.Description,
		"updated_at":  update.UpdatedAt,
	}

	var updated []domain.Book
	err := r.client.do(ctx, request{
		method: http.MethodPatch,
		path:   booksPath,
		query:  query,
		prefer: "return=representation",
		body:   payload,
	}, &updated)
	if err != nil {
		return 0, translateConflict(err)
	}
	return len(updated), nil
}

func (r *BookRepository) Delete(ctx context.Context, bookID, userID string) (int, error) {
	query := url.Values{}
	query.Set("id", "eq."+bookID)
	query.Set("user_id", "eq."+userID)

	var deleted []domain.Book
	err := r.client.do(ctx, request{
		method: http.MethodDelete,
		path:   booksPath,
		query:  query,
		prefer: "return=representation",
	}, &deleted)
	if err != nil {
		return 0, err
	}
	return len(deleted), nil
}

// translateConflict maps a unique-constraint violation reported by the
// backend to the duplicate-name error, so deployments that add a database
// constraint behind the read-before-write guard degrade gracefully.
func translateConflict(err error) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
		return domain.ErrDuplicateName
	}
	return err
}
