// model/book.go
package model

import "time"

type Book struct {
	ID         int64      `json:"id"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	Available  bool       `json:"available"`
	Borrower   *string    `json:"borrower,omitempty"`
	BorrowedAt *time.Time `json:"borrowedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}
