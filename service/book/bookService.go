package booksvc

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/christoperjulfrancisco/books/model"
	bookrepo "github.com/christoperjulfrancisco/books/repository/book"
)

type Book = model.Book

type Repo interface {
	List(ctx context.Context, p bookrepo.ListParams) ([]Book, int64, error)
	GetByID(ctx context.Context, id int64) (*Book, error)
	Insert(ctx context.Context, title, author string) (*Book, error)
	Update(ctx context.Context, id int64, f bookrepo.UpdateFields) (*Book, error)
	Delete(ctx context.Context, id int64) error
	MarkBorrowed(ctx context.Context, id int64, borrower string, at time.Time) (*Book, error)
	MarkReturned(ctx context.Context, id int64) (*Book, error)
}

type Service interface {
	List(ctx context.Context, query string, page, limit int) ([]Book, int64, error)
	Get(ctx context.Context, id int64) (*Book, error)
	Create(ctx context.Context, title, author string, available *bool) (*Book, error)
	Update(ctx context.Context, id int64, title, author *string) (*Book, error)
	Delete(ctx context.Context, id int64) error
	Borrow(ctx context.Context, id int64, borrower string) (*Book, error)
	Return(ctx context.Context, id int64) (*Book, error)
}

type service struct{ r Repo }

func New(r Repo) Service { return &service{r: r} }

func (s *service) List(ctx context.Context, query string, page, limit int) ([]Book, int64, error) {
	return s.r.List(ctx, bookrepo.ListParams{Query: query, Page: page, Limit: limit})
}

func (s *service) Get(ctx context.Context, id int64) (*Book, error) {
	return s.r.GetByID(ctx, id)
}

func (s *service) Create(ctx context.Context, title, author string, available *bool) (*Book, error) {
	title = strings.TrimSpace(title)
	author = strings.TrimSpace(author)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", model.ErrInvalidInput)
	}
	if author == "" {
		return nil, fmt.Errorf("%w: author is required", model.ErrInvalidInput)
	}
	// A record can only become unavailable through the borrow operation.
	if available != nil && !*available {
		return nil, fmt.Errorf("%w: a book cannot be created as borrowed", model.ErrInvalidInput)
	}
	return s.r.Insert(ctx, title, author)
}

func (s *service) Update(ctx context.Context, id int64, title, author *string) (*Book, error) {
	f := bookrepo.UpdateFields{}
	if title != nil {
		t := strings.TrimSpace(*title)
		if t == "" {
			return nil, fmt.Errorf("%w: title must be non-empty", model.ErrInvalidInput)
		}
		f.Title = &t
	}
	if author != nil {
		a := strings.TrimSpace(*author)
		if a == "" {
			return nil, fmt.Errorf("%w: author must be non-empty", model.ErrInvalidInput)
		}
		f.Author = &a
	}
	return s.r.Update(ctx, id, f)
}

func (s *service) Delete(ctx context.Context, id int64) error {
	return s.r.Delete(ctx, id)
}

// Borrow moves a book from Available to Borrowed. The store's guarded
// write re-checks the state, so a racing borrow fails with
// ErrAlreadyBorrowed instead of overwriting the first borrower.
func (s *service) Borrow(ctx context.Context, id int64, borrower string) (*Book, error) {
	borrower = strings.TrimSpace(borrower)
	if borrower == "" {
		return nil, fmt.Errorf("%w: borrower name is required", model.ErrInvalidInput)
	}
	return s.r.MarkBorrowed(ctx, id, borrower, time.Now().UTC())
}

// Return moves a book from Borrowed back to Available and clears the
// borrower fields.
func (s *service) Return(ctx context.Context, id int64) (*Book, error) {
	return s.r.MarkReturned(ctx, id)
}
