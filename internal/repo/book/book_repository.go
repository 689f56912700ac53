package book

import (
	"context"

	"github.com/mkrupp/bookshop/internal/domain"
)

// Repository holds the catalog and the reviews attached to each book.
//
// The set of books is fixed at construction. Reviews are mutated per book:
// upserts on different ISBNs never contend, upserts on the same ISBN are
// serialized and the last write wins.
type Repository interface {
	// Get returns a copy of the book with the given ISBN, or ErrBookNotFound.
	Get(ctx context.Context, isbn domain.ISBN) (domain.Book, error)

	// List returns copies of all books ordered by ISBN.
	List(ctx context.Context) []domain.Book

	// Filter returns copies of the books matching keep, ordered by ISBN.
	Filter(ctx context.Context, keep func(domain.Book) bool) []domain.Book

	// GetReviews returns a copy of the book's reviews, possibly empty, or ErrBookNotFound.
	GetReviews(ctx context.Context, isbn domain.ISBN) (domain.Reviews, error)

	// UpsertReview sets username's review of the book, replacing any previous text.
	// Returns ReviewCreated or ReviewUpdated and a snapshot of the book after the write.
	UpsertReview(ctx context.Context, isbn domain.ISBN, username, text string) (domain.ReviewOutcome, domain.Book, error)
}
