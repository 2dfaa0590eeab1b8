package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/bookvault/books-api/internal/api/metrics"
	"github.com/bookvault/books-api/internal/core/domain"
	"github.com/bookvault/books-api/internal/core/ports"
)

// BookHandler handles HTTP requests for book operations.
type BookHandler struct {
	service ports.BookService
}

func NewBookHandler(service ports.BookService) *BookHandler {
	return &BookHandler{service: service}
}

// List handles GET /book.
//
// @Summary      List the caller's books with pagination
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page number (default 1)"
// @Param        limit  query     int  false  "Page size (default 10)"
// @Success      200    {array}   domain.Book
// @Failure      401    {object}  map[string]string
// @Router       /book [get]
func (h *BookHandler) List(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	page := intQueryParam(c, "page", 1)
	limit := intQueryParam(c, "limit", 10)

	books, err := h.service.ListBooks(c.Request().Context(), user, page, limit)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

// Create handles POST /book.
//
// @Summary      Create a new book
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      bookRequest  true  "Book details"
// @Success      200   {object}  domain.Book
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /book [post]
func (h *BookHandler) Create(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	book, err := h.service.CreateBook(c.Request().Context(), user, ports.BookInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateName) {
			metrics.DuplicateNameRejectionsTotal.WithLabelValues("create").Inc()
		}
		return err
	}

	metrics.CreatedTotal.Inc()
	return c.JSON(http.StatusOK, book)
}

// Update handles PUT /book/:book_id.
//
// @Summary      Replace a book's name and description
// @Tags         books
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string       true  "Book ID (UUID)"
// @Param        body     body      bookRequest  true  "Book details"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /book/{book_id} [put]
func (h *BookHandler) Update(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	bookID, err := uuid.Parse(c.Param("book_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	var req bookRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	err = h.service.UpdateBook(c.Request().Context(), user, bookID, ports.BookInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateName) {
			metrics.DuplicateNameRejectionsTotal.WithLabelValues("update").Inc()
		}
		return err
	}

	return c.JSON(http.StatusOK, map[string]string{})
}

// Delete handles DELETE /book/:book_id.
//
// @Summary      Delete a book
// @Tags         books
// @Produce      json
// @Security     BearerAuth
// @Param        book_id  path      string  true  "Book ID (UUID)"
// @Success      200      {object}  map[string]string
// @Failure      400      {object}  map[string]string
// @Failure      404      {object}  map[string]string
// @Router       /book/{book_id} [delete]
func (h *BookHandler) Delete(c echo.Context) error {
	user, err := CurrentUser(c)
	if err != nil {
		return err
	}

	bookID, err := uuid.Parse(c.Param("book_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid book id")
	}

	if err := h.service.DeleteBook(c.Request().Context(), user, bookID); err != nil {
		return err
	}

	metrics.DeletedTotal.Inc()
	return c.JSON(http.StatusOK, map[string]string{})
}

// intQueryParam reads an integer query parameter, falling back to def when
// the parameter is absent or not an integer. Values are not validated for
// positivity; the remote store sees them as sent.
func intQueryParam(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
