package catalogsvc

import (
	"context"
	"fmt"

	"github.com/mkrupp/bookshop/internal/domain"
	"github.com/mkrupp/bookshop/internal/infra/logging"
	"github.com/mkrupp/bookshop/internal/infra/observability"
	"github.com/mkrupp/bookshop/internal/repo/book"
)

// BookCatalogService implements CatalogService on top of a book.Repository.
type BookCatalogService struct {
	repo    book.Repository
	cfg     CatalogConfig
	metrics *observability.Metrics
	log     logging.Logger
}

var _ CatalogService = (*BookCatalogService)(nil)

// NewBookCatalogService creates a BookCatalogService from the repository built by repoFactory.
func NewBookCatalogService(
	repoFactory func() (book.Repository, error),
	cfg CatalogConfig,
	metrics *observability.Metrics,
) (*BookCatalogService, error) {
	repo, err := repoFactory()
	if err != nil {
		return nil, fmt.Errorf("new book repo: %w", err)
	}

	return &BookCatalogService{
		repo:    repo,
		cfg:     cfg,
		metrics: metrics,
		log:     logging.GetLogger("svc.catalogsvc.book_catalog_service"),
	}, nil
}

// Config returns the service configuration.
func (s *BookCatalogService) Config() CatalogConfig {
	return s.cfg
}

// List implements CatalogService.List.
func (s *BookCatalogService) List(ctx context.Context) []domain.Book {
	return s.repo.List(ctx)
}

// ByISBN implements CatalogService.ByISBN.
func (s *BookCatalogService) ByISBN(ctx context.Context, isbn domain.ISBN) (domain.Book, error) {
	b, err := s.repo.Get(ctx, isbn)
	if err != nil {
		return domain.Book{}, fmt.Errorf("get book: %w", err)
	}

	return b, nil
}

// ByAuthor implements CatalogService.ByAuthor.
func (s *BookCatalogService) ByAuthor(ctx context.Context, author string) ([]domain.Book, error) {
	return s.find(ctx, author, func(b domain.Book) string { return b.Author })
}

// ByTitle implements CatalogService.ByTitle.
func (s *BookCatalogService) ByTitle(ctx context.Context, title string) ([]domain.Book, error) {
	return s.find(ctx, title, func(b domain.Book) string { return b.Title })
}

func (s *BookCatalogService) find(ctx context.Context, query string, field func(domain.Book) string) ([]domain.Book, error) {
	want := Normalize(query)
	if want == "" {
		return nil, fmt.Errorf("%w: %q", domain.ErrNoBooksFound, query)
	}

	books := s.repo.Filter(ctx, func(b domain.Book) bool {
		return Normalize(field(b)) == want
	})
	if len(books) == 0 {
		return nil, fmt.Errorf("%w: %q", domain.ErrNoBooksFound, query)
	}

	return books, nil
}

// Reviews implements CatalogService.Reviews.
func (s *BookCatalogService) Reviews(ctx context.Context, isbn domain.ISBN) (domain.Reviews, error) {
	reviews, err := s.repo.GetReviews(ctx, isbn)
	if err != nil {
		return nil, fmt.Errorf("get reviews: %w", err)
	}

	return reviews, nil
}

// UpsertReview implements CatalogService.UpsertReview.
func (s *BookCatalogService) UpsertReview(
	ctx context.Context,
	isbn domain.ISBN,
	username, text string,
) (outcome domain.ReviewOutcome, _ domain.Book, err error) {
	log := s.log.With(
		logging.Group("book", "isbn", isbn),
		logging.Group("user", "username", username),
	)

	defer func() {
		if err != nil {
			log.ErrorContext(ctx, "upsert review failed", "error", err)
		} else {
			s.metrics.ObserveReviewUpsert(outcome.String())
			log.DebugContext(ctx, "review stored", "outcome", outcome.String())
		}
	}()

	if err := ValidateReview(domain.ReviewRequest{Review: text}, s.cfg.MaxReviewLength); err != nil {
		return 0, domain.Book{}, err
	}

	outcome, b, err := s.repo.UpsertReview(ctx, isbn, username, text)
	if err != nil {
		return 0, domain.Book{}, fmt.Errorf("upsert review: %w", err)
	}

	return outcome, b, nil
}
