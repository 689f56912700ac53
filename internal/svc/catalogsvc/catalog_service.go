package catalogsvc

import (
	"context"
	"strings"
	"unicode"

	"github.com/mkrupp/bookshop/internal/domain"
)

// CatalogService defines the read and review operations on the book catalog.
type CatalogService interface {
	// List returns every book ordered by ISBN.
	List(ctx context.Context) []domain.Book

	// ByISBN returns the book with the given ISBN, or an error wrapping domain.ErrBookNotFound.
	ByISBN(ctx context.Context, isbn domain.ISBN) (domain.Book, error)

	// ByAuthor returns the books whose author matches after normalization.
	// Returns an error wrapping domain.ErrNoBooksFound if there are none.
	ByAuthor(ctx context.Context, author string) ([]domain.Book, error)

	// ByTitle returns the books whose title matches after normalization.
	// Returns an error wrapping domain.ErrNoBooksFound if there are none.
	ByTitle(ctx context.Context, title string) ([]domain.Book, error)

	// Reviews returns the reviews of a book. An empty map is a success.
	Reviews(ctx context.Context, isbn domain.ISBN) (domain.Reviews, error)

	// UpsertReview stores username's review of a book and reports whether it
	// was created or replaced.
	UpsertReview(ctx context.Context, isbn domain.ISBN, username, text string) (domain.ReviewOutcome, domain.Book, error)
}

// CatalogConfig holds configuration parameters for the catalog service.
type CatalogConfig struct {
	// MaxReviewLength is the longest accepted review in bytes
	MaxReviewLength int `env:"MAX_REVIEW_LENGTH" default:"4096"`
}

// Normalize folds a title or author for comparison: lower case, without
// whitespace or hyphens. "Jane-Austen", "jane austen" and "JaneAusten" are equal.
func Normalize(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for _, r := range s {
		if unicode.IsSpace(r) || r == '-' {
			continue
		}

		b.WriteRune(unicode.ToLower(r))
	}

	return b.String()
}
