package book

// DTOs are the allow-list of client-writable fields: unknown fields are
// dropped at bind time and availability fields never appear here outside
// the borrow request.

type CreateBookReq struct {
	Title     string `json:"title" validate:"required"`
	Author    string `json:"author" validate:"required"`
	Available *bool  `json:"available"`
}

type UpdateBookReq struct {
	Title  *string `json:"title"`
	Author *string `json:"author"`
}

type BorrowBookReq struct {
	Borrower string `json:"borrower" validate:"required"`
}
