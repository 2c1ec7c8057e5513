package bookrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/christoperjulfrancisco/books/model"
)

const bookCols = `id, title, author, available, borrower, borrowed_at, created_at, updated_at`

type pgRepo struct{ pool *pgxpool.Pool }

func NewPostgres(pool *pgxpool.Pool) Repo { return &pgRepo{pool: pool} }

// Migrate creates the books table when it does not exist yet.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS books (
	id          BIGSERIAL PRIMARY KEY,
	title       TEXT NOT NULL,
	author      TEXT NOT NULL,
	available   BOOLEAN NOT NULL DEFAULT TRUE,
	borrower    TEXT,
	borrowed_at TIMESTAMPTZ,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("migrate books: %w", err)
	}
	return nil
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(&b.ID, &b.Title, &b.Author, &b.Available,
		&b.Borrower, &b.BorrowedAt, &b.CreatedAt, &b.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *pgRepo) List(ctx context.Context, p ListParams) ([]model.Book, int64, error) {
	p = p.Normalized()

	const count = `
SELECT COUNT(*)
FROM books
WHERE $1 = '' OR title ILIKE '%' || $1 || '%' OR author ILIKE '%' || $1 || '%'`
	var total int64
	if err := r.pool.QueryRow(ctx, count, p.Query).Scan(&total); err != nil {
		return nil, 0, err
	}

	const q = `
SELECT ` + bookCols + `
FROM books
WHERE $1 = '' OR title ILIKE '%' || $1 || '%' OR author ILIKE '%' || $1 || '%'
ORDER BY created_at DESC, id DESC
LIMIT $2 OFFSET $3`
	rows, err := r.pool.Query(ctx, q, p.Query, p.Limit, (p.Page-1)*p.Limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []model.Book{}
	for rows.Next() {
		var b model.Book
		if err := rows.Scan(&b.ID, &b.Title, &b.Author, &b.Available,
			&b.Borrower, &b.BorrowedAt, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, b)
	}
	return out, total, rows.Err()
}

func (r *pgRepo) GetByID(ctx context.Context, id int64) (*model.Book, error) {
	const q = `SELECT ` + bookCols + ` FROM books WHERE id = $1`
	return scanBook(r.pool.QueryRow(ctx, q, id))
}

func (r *pgRepo) Insert(ctx context.Context, title, author string) (*model.Book, error) {
	const q = `
INSERT INTO books (title, author)
VALUES ($1, $2)
RETURNING ` + bookCols
	b, err := scanBook(r.pool.QueryRow(ctx, q, title, author))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgerrcode.IsIntegrityConstraintViolation(pgErr.Code) {
			return nil, model.ErrConflict
		}
		return nil, err
	}
	return b, nil
}

func (r *pgRepo) Update(ctx context.Context, id int64, f UpdateFields) (*model.Book, error) {
	const q = `
UPDATE books
SET title      = COALESCE($2, title),
	author     = COALESCE($3, author),
	updated_at = NOW()
WHERE id = $1
RETURNING ` + bookCols
	return scanBook(r.pool.QueryRow(ctx, q, id, f.Title, f.Author))
}

func (r *pgRepo) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM books WHERE id = $1`
	tag, err := r.pool.Exec(ctx, q, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *pgRepo) MarkBorrowed(ctx context.Context, id int64, borrower string, at time.Time) (*model.Book, error) {
	// Guard on availability so a racing borrow loses cleanly.
	const q = `
UPDATE books
SET available  = FALSE,
	borrower   = $2,
	borrowed_at = $3,
	updated_at = NOW()
WHERE id = $1 AND available
RETURNING ` + bookCols
	b, err := scanBook(r.pool.QueryRow(ctx, q, id, borrower, at))
	if errors.Is(err, model.ErrNotFound) {
		return nil, r.guardMiss(ctx, id, model.ErrAlreadyBorrowed)
	}
	return b, err
}

func (r *pgRepo) MarkReturned(ctx context.Context, id int64) (*model.Book, error) {
	const q = `
UPDATE books
SET available  = TRUE,
	borrower   = NULL,
	borrowed_at = NULL,
	updated_at = NOW()
WHERE id = $1 AND NOT available
RETURNING ` + bookCols
	b, err := scanBook(r.pool.QueryRow(ctx, q, id))
	if errors.Is(err, model.ErrNotFound) {
		return nil, r.guardMiss(ctx, id, model.ErrNotBorrowed)
	}
	return b, err
}

// guardMiss tells a missing row apart from a failed transition precondition.
func (r *pgRepo) guardMiss(ctx context.Context, id int64, stateErr error) error {
	const q = `SELECT EXISTS (SELECT 1 FROM books WHERE id = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, q, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return model.ErrNotFound
	}
	return stateErr
}
