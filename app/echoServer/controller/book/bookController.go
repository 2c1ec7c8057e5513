package book

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/christoperjulfrancisco/books/model"
	bookrepo "github.com/christoperjulfrancisco/books/repository/book"
	booksvc "github.com/christoperjulfrancisco/books/service/book"
)

type Controller struct {
	Svc booksvc.Service
	V   *validator.Validate
	Log *slog.Logger
}

// pathID parses the numeric :id segment. Garbage ids are a caller
// mistake (400), never a lookup miss (404).
func pathID(c echo.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// fail maps domain errors to status codes; everything unexpected is a 500.
func (h *Controller) fail(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, model.ErrInvalidInput),
		errors.Is(err, model.ErrAlreadyBorrowed),
		errors.Is(err, model.ErrNotBorrowed):
		return c.JSON(http.StatusBadRequest, echo.Map{"message": err.Error()})
	case errors.Is(err, model.ErrNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Book not found"})
	case errors.Is(err, model.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"message": err.Error()})
	}
	h.Log.Error(op, "err", err)
	return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
}

// GET /api/v1/books
// GET /api/v1/books/search
func (h *Controller) List(c echo.Context) error {
	var page, limit int
	var err error
	if v := c.QueryParam("page"); v != "" {
		if page, err = strconv.Atoi(v); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid page"})
		}
	}
	if v := c.QueryParam("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid limit"})
		}
	}
	p := bookrepo.ListParams{Query: c.QueryParam("q"), Page: page, Limit: limit}.Normalized()
	rows, total, err := h.Svc.List(c.Request().Context(), p.Query, p.Page, p.Limit)
	if err != nil {
		return h.fail(c, "book list error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
		"data":  rows,
	})
}

// GET /api/v1/books/:id
func (h *Controller) Detail(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	row, err := h.Svc.Get(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "book detail error", err)
	}
	return c.JSON(http.StatusOK, row)
}

// POST /api/v1/books
func (h *Controller) Create(c echo.Context) error {
	var req CreateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  echo.Map{"title": "required", "author": "required"},
		})
	}
	row, err := h.Svc.Create(c.Request().Context(), req.Title, req.Author, req.Available)
	if err != nil {
		return h.fail(c, "book create error", err)
	}
	return c.JSON(http.StatusCreated, row)
}

// PUT /api/v1/books/:id
func (h *Controller) Update(c echo.Context) error { return h.applyUpdate(c) }

// PATCH /api/v1/books/:id
func (h *Controller) Patch(c echo.Context) error { return h.applyUpdate(c) }

// Both update verbs share one allow-list merge: title and author only.
// Availability fields in the body never reach storage.
func (h *Controller) applyUpdate(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req UpdateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	row, err := h.Svc.Update(c.Request().Context(), id, req.Title, req.Author)
	if err != nil {
		return h.fail(c, "book update error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Book updated successfully", "data": row})
}

// DELETE /api/v1/books/:id
func (h *Controller) Delete(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	if err := h.Svc.Delete(c.Request().Context(), id); err != nil {
		return h.fail(c, "book delete error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Book deleted successfully"})
}

// POST /api/v1/borrow/:id
func (h *Controller) Borrow(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	var req BorrowBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid json"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  echo.Map{"borrower": "required"},
		})
	}
	row, err := h.Svc.Borrow(c.Request().Context(), id, req.Borrower)
	if err != nil {
		return h.fail(c, "book borrow error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Book borrowed successfully", "data": row})
}

// POST /api/v1/return/:id
func (h *Controller) Return(c echo.Context) error {
	id, ok := pathID(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid id"})
	}
	row, err := h.Svc.Return(c.Request().Context(), id)
	if err != nil {
		return h.fail(c, "book return error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Book returned successfully", "data": row})
}
