package book

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/mkrupp/bookshop/internal/domain"
)

// ErrDuplicateISBN is returned when the catalog lists an ISBN twice.
var ErrDuplicateISBN = errors.New("duplicate isbn")

// ErrEmptyISBN is returned when a catalog entry has no ISBN.
var ErrEmptyISBN = errors.New("empty isbn")

type entry struct {
	book domain.Book // ISBN, title and author never change after construction
	m    sync.RWMutex
}

func (e *entry) snapshot() domain.Book {
	e.m.RLock()
	defer e.m.RUnlock()

	b := e.book
	b.Reviews = maps.Clone(e.book.Reviews)

	return b
}

// MemoryBookRepository implements Repository in memory with one lock per book.
type MemoryBookRepository struct {
	entries map[domain.ISBN]*entry // read-only after construction
	order   []domain.ISBN
}

var _ Repository = (*MemoryBookRepository)(nil)

// NewMemoryBookRepository builds a repository from the given catalog.
// Reviews already present on the books are kept.
func NewMemoryBookRepository(books []domain.Book) (*MemoryBookRepository, error) {
	repo := &MemoryBookRepository{
		entries: make(map[domain.ISBN]*entry, len(books)),
		order:   make([]domain.ISBN, 0, len(books)),
	}

	for _, b := range books {
		if b.ISBN == "" {
			return nil, fmt.Errorf("%w: %q", ErrEmptyISBN, b.Title)
		}

		if _, exists := repo.entries[b.ISBN]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateISBN, b.ISBN)
		}

		b.Reviews = maps.Clone(b.Reviews)
		if b.Reviews == nil {
			b.Reviews = make(domain.Reviews)
		}

		repo.entries[b.ISBN] = &entry{book: b} //nolint:exhaustruct
		repo.order = append(repo.order, b.ISBN)
	}

	slices.Sort(repo.order)

	return repo, nil
}

func (r *MemoryBookRepository) lookup(isbn domain.ISBN) (*entry, error) {
	e, ok := r.entries[isbn]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrBookNotFound, isbn)
	}

	return e, nil
}

// Get implements Repository.Get.
func (r *MemoryBookRepository) Get(_ context.Context, isbn domain.ISBN) (domain.Book, error) {
	e, err := r.lookup(isbn)
	if err != nil {
		return domain.Book{}, err
	}

	return e.snapshot(), nil
}

// List implements Repository.List.
func (r *MemoryBookRepository) List(ctx context.Context) []domain.Book {
	return r.Filter(ctx, func(domain.Book) bool { return true })
}

// Filter implements Repository.Filter.
func (r *MemoryBookRepository) Filter(_ context.Context, keep func(domain.Book) bool) []domain.Book {
	books := make([]domain.Book, 0)

	for _, isbn := range r.order {
		if b := r.entries[isbn].snapshot(); keep(b) {
			books = append(books, b)
		}
	}

	return books
}

// GetReviews implements Repository.GetReviews.
func (r *MemoryBookRepository) GetReviews(_ context.Context, isbn domain.ISBN) (domain.Reviews, error) {
	e, err := r.lookup(isbn)
	if err != nil {
		return nil, err
	}

	e.m.RLock()
	defer e.m.RUnlock()

	return maps.Clone(e.book.Reviews), nil
}

// UpsertReview implements Repository.UpsertReview.
func (r *MemoryBookRepository) UpsertReview(
	_ context.Context,
	isbn domain.ISBN,
	username string,
	text string,
) (domain.ReviewOutcome, domain.Book, error) {
	e, err := r.lookup(isbn)
	if err != nil {
		return 0, domain.Book{}, err
	}

	e.m.Lock()
	defer e.m.Unlock()

	outcome := domain.ReviewCreated
	if _, exists := e.book.Reviews[username]; exists {
		outcome = domain.ReviewUpdated
	}

	e.book.Reviews[username] = text

	b := e.book
	b.Reviews = maps.Clone(e.book.Reviews)

	return outcome, b, nil
}
