// service/book/book_service_test.go
package booksvc_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/christoperjulfrancisco/books/model"
	bookrepo "github.com/christoperjulfrancisco/books/repository/book"
	booksvc "github.com/christoperjulfrancisco/books/service/book"
)

type repoMock struct {
	listFn         func(ctx context.Context, p bookrepo.ListParams) ([]booksvc.Book, int64, error)
	getFn          func(ctx context.Context, id int64) (*booksvc.Book, error)
	insertFn       func(ctx context.Context, title, author string) (*booksvc.Book, error)
	updateFn       func(ctx context.Context, id int64, f bookrepo.UpdateFields) (*booksvc.Book, error)
	deleteFn       func(ctx context.Context, id int64) error
	markBorrowedFn func(ctx context.Context, id int64, borrower string, at time.Time) (*booksvc.Book, error)
	markReturnedFn func(ctx context.Context, id int64) (*booksvc.Book, error)
}

var _ booksvc.Repo = (*repoMock)(nil)

func (m *repoMock) List(ctx context.Context, p bookrepo.ListParams) ([]booksvc.Book, int64, error) {
	return m.listFn(ctx, p)
}
func (m *repoMock) GetByID(ctx context.Context, id int64) (*booksvc.Book, error) {
	return m.getFn(ctx, id)
}
func (m *repoMock) Insert(ctx context.Context, title, author string) (*booksvc.Book, error) {
	return m.insertFn(ctx, title, author)
}
func (m *repoMock) Update(ctx context.Context, id int64, f bookrepo.UpdateFields) (*booksvc.Book, error) {
	return m.updateFn(ctx, id, f)
}
func (m *repoMock) Delete(ctx context.Context, id int64) error { return m.deleteFn(ctx, id) }
func (m *repoMock) MarkBorrowed(ctx context.Context, id int64, borrower string, at time.Time) (*booksvc.Book, error) {
	return m.markBorrowedFn(ctx, id, borrower, at)
}
func (m *repoMock) MarkReturned(ctx context.Context, id int64) (*booksvc.Book, error) {
	return m.markReturnedFn(ctx, id)
}

func TestCreate_Validation(t *testing.T) {
	s := booksvc.New(&repoMock{})
	if _, err := s.Create(context.Background(), "", "Herbert", nil); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("empty title: got %v, want ErrInvalidInput", err)
	}
	if _, err := s.Create(context.Background(), "Dune", "   ", nil); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("blank author: got %v, want ErrInvalidInput", err)
	}
	no := false
	if _, err := s.Create(context.Background(), "Dune", "Herbert", &no); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("available=false on create: got %v, want ErrInvalidInput", err)
	}
}

func TestCreate_TrimsAndDelegates(t *testing.T) {
	m := &repoMock{
		insertFn: func(ctx context.Context, title, author string) (*booksvc.Book, error) {
			if title != "Dune" || author != "Herbert" {
				return nil, errors.New("bad args")
			}
			return &booksvc.Book{ID: 42, Title: title, Author: author, Available: true}, nil
		},
	}
	s := booksvc.New(m)
	yes := true
	b, err := s.Create(context.Background(), "  Dune ", " Herbert ", &yes)
	if err != nil || b.ID != 42 || !b.Available {
		t.Fatalf("got %+v err=%v; want id=42 available=true nil", b, err)
	}
}

func TestUpdate_RejectsBlankFields(t *testing.T) {
	s := booksvc.New(&repoMock{})
	blank := "  "
	if _, err := s.Update(context.Background(), 1, &blank, nil); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("blank title: got %v, want ErrInvalidInput", err)
	}
	if _, err := s.Update(context.Background(), 1, nil, &blank); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("blank author: got %v, want ErrInvalidInput", err)
	}
}

func TestUpdate_OnlyProvidedFields(t *testing.T) {
	m := &repoMock{
		updateFn: func(ctx context.Context, id int64, f bookrepo.UpdateFields) (*booksvc.Book, error) {
			if f.Title == nil || *f.Title != "Dune Messiah" {
				return nil, errors.New("title not forwarded")
			}
			if f.Author != nil {
				return nil, errors.New("author should stay unset")
			}
			return &booksvc.Book{ID: id, Title: *f.Title}, nil
		},
	}
	s := booksvc.New(m)
	title := "Dune Messiah"
	if _, err := s.Update(context.Background(), 7, &title, nil); err != nil {
		t.Fatalf("update: %v", err)
	}
}

func TestBorrow_RequiresBorrower(t *testing.T) {
	s := booksvc.New(&repoMock{})
	if _, err := s.Borrow(context.Background(), 1, "   "); !errors.Is(err, model.ErrInvalidInput) {
		t.Fatalf("blank borrower: got %v, want ErrInvalidInput", err)
	}
}

func TestBorrow_Delegates(t *testing.T) {
	m := &repoMock{
		markBorrowedFn: func(ctx context.Context, id int64, borrower string, at time.Time) (*booksvc.Book, error) {
			if id != 3 || borrower != "Alice" {
				return nil, errors.New("bad args")
			}
			if at.IsZero() || at.Location() != time.UTC {
				return nil, errors.New("expected a UTC borrow timestamp")
			}
			return &booksvc.Book{ID: id, Available: false, Borrower: &borrower, BorrowedAt: &at}, nil
		},
	}
	s := booksvc.New(m)
	b, err := s.Borrow(context.Background(), 3, " Alice ")
	if err != nil || b.Available || *b.Borrower != "Alice" {
		t.Fatalf("got %+v err=%v; want borrowed by Alice", b, err)
	}
}

func TestBorrow_PropagatesStateErrors(t *testing.T) {
	m := &repoMock{
		markBorrowedFn: func(ctx context.Context, id int64, borrower string, at time.Time) (*booksvc.Book, error) {
			return nil, model.ErrAlreadyBorrowed
		},
		markReturnedFn: func(ctx context.Context, id int64) (*booksvc.Book, error) {
			return nil, model.ErrNotBorrowed
		},
	}
	s := booksvc.New(m)
	if _, err := s.Borrow(context.Background(), 2, "Bob"); !errors.Is(err, model.ErrAlreadyBorrowed) {
		t.Fatalf("got %v, want ErrAlreadyBorrowed", err)
	}
	if _, err := s.Return(context.Background(), 2); !errors.Is(err, model.ErrNotBorrowed) {
		t.Fatalf("got %v, want ErrNotBorrowed", err)
	}
}

func TestPassThroughs(t *testing.T) {
	m := &repoMock{
		listFn: func(ctx context.Context, p bookrepo.ListParams) ([]booksvc.Book, int64, error) {
			if p.Query != "orwell" || p.Page != 2 || p.Limit != 5 {
				return nil, 0, errors.New("params not forwarded")
			}
			return nil, 0, nil
		},
		getFn:    func(ctx context.Context, id int64) (*booksvc.Book, error) { return &booksvc.Book{ID: id}, nil },
		deleteFn: func(ctx context.Context, id int64) error { return nil },
	}
	s := booksvc.New(m)

	if _, _, err := s.List(context.Background(), "orwell", 2, 5); err != nil {
		t.Fatalf("List error: %v", err)
	}
	if _, err := s.Get(context.Background(), 9); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if err := s.Delete(context.Background(), 9); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}
