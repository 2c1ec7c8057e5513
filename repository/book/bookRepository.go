package bookrepo

import (
	"context"
	"time"

	"github.com/christoperjulfrancisco/books/model"
)

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// ListParams selects a page of books, optionally filtered by a
// case-insensitive substring match over title or author.
type ListParams struct {
	Query string
	Page  int
	Limit int
}

// Normalized clamps paging to the supported range. Page is 1-based;
// an out-of-range page yields an empty result, never an error.
func (p ListParams) Normalized() ListParams {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	return p
}

// UpdateFields is the allow-list of client-mutable fields. Availability
// fields are reachable only through MarkBorrowed and MarkReturned.
type UpdateFields struct {
	Title  *string
	Author *string
}

type Repo interface {
	List(ctx context.Context, p ListParams) ([]model.Book, int64, error)
	GetByID(ctx context.Context, id int64) (*model.Book, error)
	Insert(ctx context.Context, title, author string) (*model.Book, error)
	Update(ctx context.Context, id int64, f UpdateFields) (*model.Book, error)
	Delete(ctx context.Context, id int64) error

	// Guarded state transitions. MarkBorrowed applies only when the book is
	// available, MarkReturned only when it is not; a guard miss returns
	// model.ErrAlreadyBorrowed / model.ErrNotBorrowed, distinct from NotFound.
	MarkBorrowed(ctx context.Context, id int64, borrower string, at time.Time) (*model.Book, error)
	MarkReturned(ctx context.Context, id int64) (*model.Book, error)
}
