package domain

import "errors"

var (
	// ErrBookNotFound is returned when no book has the requested ISBN.
	ErrBookNotFound = errors.New("book not found")
	// ErrNoBooksFound is returned when an author or title lookup matches nothing.
	ErrNoBooksFound = errors.New("no books found")
)

// ISBN is the catalog key of a book.
type ISBN string

// Reviews maps a username to that user's review text.
type Reviews map[string]string

// Book is a catalog entry together with its reviews.
type Book struct {
	ISBN    ISBN    `json:"isbn"`
	Title   string  `json:"title"`
	Author  string  `json:"author"`
	Reviews Reviews `json:"reviews"`
}

// ReviewOutcome reports whether an upsert added a new review or replaced one.
type ReviewOutcome int

const (
	ReviewCreated ReviewOutcome = iota + 1
	ReviewUpdated
)

func (o ReviewOutcome) String() string {
	switch o {
	case ReviewCreated:
		return "created"
	case ReviewUpdated:
		return "updated"
	default:
		return "unknown"
	}
}

// ReviewRequest is the body of a review upsert.
type ReviewRequest struct {
	Review string `json:"review"`
}

// ReviewResponse is returned after a successful upsert.
type ReviewResponse struct {
	Message string `json:"message"`
	Outcome string `json:"outcome"`
	Book    Book   `json:"book"`
}

// ReviewsResponse wraps the reviews of one book.
type ReviewsResponse struct {
	Message string  `json:"message,omitempty"`
	ISBN    ISBN    `json:"isbn"`
	Reviews Reviews `json:"reviews"`
}

// BooksResponse wraps a catalog listing.
type BooksResponse struct {
	Books []Book `json:"books"`
}
