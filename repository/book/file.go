package bookrepo

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/christoperjulfrancisco/books/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// fileRepo keeps the canonical records in memory and rewrites the whole
// JSON file on every mutation. A mutation is acknowledged only after the
// file has been replaced on disk; the mutex serializes all access.
type fileRepo struct {
	mu    sync.Mutex
	path  string
	books []model.Book
}

func NewFile(path string) (Repo, error) {
	r := &fileRepo{path: path}
	if err := r.load(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *fileRepo) load() error {
	raw, err := os.ReadFile(r.path)
	if os.IsNotExist(err) {
		r.books = seedBooks()
		if err := os.MkdirAll(filepath.Dir(r.path), 0755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
		return r.persist()
	}
	if err != nil {
		return fmt.Errorf("read data file: %w", err)
	}
	if err := json.Unmarshal(raw, &r.books); err != nil {
		return fmt.Errorf("parse data file %s: %w", r.path, err)
	}
	return nil
}

// seedBooks mirrors the starter catalog shipped with the service. The
// borrowed seed carries a borrower and timestamp so the availability
// invariant holds from the first read.
func seedBooks() []model.Book {
	now := time.Now().UTC()
	borrower := "Winston Smith"
	borrowedAt := now.Add(-72 * time.Hour)
	return []model.Book{
		{ID: 1, Title: "The Great Gatsby", Author: "F. Scott Fitzgerald", Available: true, CreatedAt: now, UpdatedAt: now},
		{ID: 2, Title: "1984", Author: "George Orwell", Available: false, Borrower: &borrower, BorrowedAt: &borrowedAt, CreatedAt: now, UpdatedAt: now},
		{ID: 3, Title: "To Kill a Mockingbird", Author: "Harper Lee", Available: true, CreatedAt: now, UpdatedAt: now},
	}
}

// persist rewrites the file wholesale, via a temp file and rename so a
// crash mid-write never leaves a truncated catalog behind.
func (r *fileRepo) persist() error {
	raw, err := json.MarshalIndent(r.books, "", "  ")
	if err != nil {
		return fmt.Errorf("encode books: %w", err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("write data file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace data file: %w", err)
	}
	return nil
}

func (r *fileRepo) indexOf(id int64) int {
	for i := range r.books {
		if r.books[i].ID == id {
			return i
		}
	}
	return -1
}

func (r *fileRepo) nextID() int64 {
	var max int64
	for i := range r.books {
		if r.books[i].ID > max {
			max = r.books[i].ID
		}
	}
	return max + 1
}

func (r *fileRepo) List(_ context.Context, p ListParams) ([]model.Book, int64, error) {
	p = p.Normalized()
	r.mu.Lock()
	defer r.mu.Unlock()

	q := strings.ToLower(p.Query)
	matched := []model.Book{}
	for _, b := range r.books {
		if q == "" ||
			strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) {
			matched = append(matched, b)
		}
	}
	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].ID > matched[j].ID
	})

	total := int64(len(matched))
	start := (p.Page - 1) * p.Limit
	if start >= len(matched) {
		return []model.Book{}, total, nil
	}
	end := start + p.Limit
	if end > len(matched) {
		end = len(matched)
	}
	page := make([]model.Book, end-start)
	copy(page, matched[start:end])
	return page, total, nil
}

func (r *fileRepo) GetByID(_ context.Context, id int64) (*model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, model.ErrNotFound
	}
	b := r.books[i]
	return &b, nil
}

func (r *fileRepo) Insert(_ context.Context, title, author string) (*model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := r.nextID()
	if r.indexOf(id) >= 0 {
		return nil, model.ErrConflict
	}
	now := time.Now().UTC()
	b := model.Book{
		ID:        id,
		Title:     title,
		Author:    author,
		Available: true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	r.books = append(r.books, b)
	if err := r.persist(); err != nil {
		r.books = r.books[:len(r.books)-1]
		return nil, err
	}
	return &b, nil
}

func (r *fileRepo) Update(_ context.Context, id int64, f UpdateFields) (*model.Book, error) {
	return r.mutate(id, func(b *model.Book) error {
		if f.Title != nil {
			b.Title = *f.Title
		}
		if f.Author != nil {
			b.Author = *f.Author
		}
		return nil
	})
}

func (r *fileRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return model.ErrNotFound
	}
	prev := r.books
	r.books = append(append([]model.Book{}, prev[:i]...), prev[i+1:]...)
	if err := r.persist(); err != nil {
		r.books = prev
		return err
	}
	return nil
}

func (r *fileRepo) MarkBorrowed(_ context.Context, id int64, borrower string, at time.Time) (*model.Book, error) {
	return r.mutate(id, func(b *model.Book) error {
		if !b.Available {
			return model.ErrAlreadyBorrowed
		}
		b.Available = false
		b.Borrower = &borrower
		b.BorrowedAt = &at
		return nil
	})
}

func (r *fileRepo) MarkReturned(_ context.Context, id int64) (*model.Book, error) {
	return r.mutate(id, func(b *model.Book) error {
		if b.Available {
			return model.ErrNotBorrowed
		}
		b.Available = true
		b.Borrower = nil
		b.BorrowedAt = nil
		return nil
	})
}

// mutate applies fn to a copy of the record and commits it, in memory and
// on disk, only when both fn and the file write succeed.
func (r *fileRepo) mutate(id int64, fn func(*model.Book) error) (*model.Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, model.ErrNotFound
	}
	prev := r.books[i]
	next := prev
	if err := fn(&next); err != nil {
		return nil, err
	}
	next.UpdatedAt = time.Now().UTC()
	r.books[i] = next
	if err := r.persist(); err != nil {
		r.books[i] = prev
		return nil, err
	}
	return &next, nil
}
