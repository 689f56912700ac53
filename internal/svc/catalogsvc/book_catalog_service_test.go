package catalogsvc_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/bookshop/internal/domain"
	"github.com/mkrupp/bookshop/internal/infra/observability"
	"github.com/mkrupp/bookshop/internal/repo/book"
	"github.com/mkrupp/bookshop/internal/svc/catalogsvc"
)

func testBooks() []domain.Book {
	return []domain.Book{
		{ISBN: "0001", Title: "Things Fall Apart", Author: "Chinua Achebe"},
		{ISBN: "0002", Title: "Pride and Prejudice", Author: "Jane Austen"},
		{ISBN: "0003", Title: "Emma", Author: "Jane Austen"},
		{ISBN: "0004", Title: "Half-Blood", Author: "Anon"},
	}
}

func setupTestService(t *testing.T) (*catalogsvc.BookCatalogService, *observability.Metrics) {
	t.Helper()

	metrics := observability.NewMetrics()

	svc, err := catalogsvc.NewBookCatalogService(func() (book.Repository, error) {
		return book.NewMemoryBookRepository(testBooks())
	}, catalogsvc.CatalogConfig{MaxReviewLength: 64}, metrics)
	require.NoError(t, err)

	return svc, metrics
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"Jane Austen":       "janeausten",
		"jane-austen":       "janeausten",
		"  JANE\tAUSTEN\n ": "janeausten",
		"Half-Blood":        "halfblood",
		"":                  "",
		"Ünïcode Straße":    "ünïcodestraße",
		"---":               "",
	}

	for in, want := range tests {
		assert.Equal(t, want, catalogsvc.Normalize(in), "Normalize(%q)", in)
	}
}

func TestNewBookCatalogService_RepoError(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	_, err := catalogsvc.NewBookCatalogService(func() (book.Repository, error) {
		return nil, errBoom
	}, catalogsvc.CatalogConfig{}, nil)
	require.ErrorIs(t, err, errBoom)
}

func TestBookCatalogService_Lookups(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, _ := setupTestService(t)

	assert.Len(t, svc.List(ctx), 4)

	b, err := svc.ByISBN(ctx, "0002")
	require.NoError(t, err)
	assert.Equal(t, "Pride and Prejudice", b.Title)

	_, err = svc.ByISBN(ctx, "9999")
	require.ErrorIs(t, err, domain.ErrBookNotFound)

	books, err := svc.ByAuthor(ctx, "jane-austen")
	require.NoError(t, err)
	require.Len(t, books, 2)
	assert.Equal(t, domain.ISBN("0002"), books[0].ISBN)
	assert.Equal(t, domain.ISBN("0003"), books[1].ISBN)

	books, err = svc.ByTitle(ctx, "halfblood")
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, domain.ISBN("0004"), books[0].ISBN)

	books, err = svc.ByTitle(ctx, "THINGS FALL APART")
	require.NoError(t, err)
	require.Len(t, books, 1)

	_, err = svc.ByAuthor(ctx, "Nobody")
	require.ErrorIs(t, err, domain.ErrNoBooksFound)

	_, err = svc.ByTitle(ctx, " - ")
	require.ErrorIs(t, err, domain.ErrNoBooksFound, "a query that normalizes to nothing matches nothing")
}

func TestBookCatalogService_Reviews(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc, metrics := setupTestService(t)

	reviews, err := svc.Reviews(ctx, "0001")
	require.NoError(t, err)
	assert.Empty(t, reviews)

	outcome, b, err := svc.UpsertReview(ctx, "0001", "alice", "great")
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewCreated, outcome)
	assert.Equal(t, "great", b.Reviews["alice"])

	outcome, _, err = svc.UpsertReview(ctx, "0001", "alice", "great")
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewUpdated, outcome)

	_, _, err = svc.UpsertReview(ctx, "0001", "alice", "   ")
	require.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = svc.UpsertReview(ctx, "0001", "alice", strings.Repeat("x", 65))
	require.ErrorIs(t, err, domain.ErrValidation)

	_, _, err = svc.UpsertReview(ctx, "9999", "alice", "great")
	require.ErrorIs(t, err, domain.ErrBookNotFound)

	_, err = svc.Reviews(ctx, "9999")
	require.ErrorIs(t, err, domain.ErrBookNotFound)

	reviews, err = svc.Reviews(ctx, "0001")
	require.NoError(t, err)
	assert.Equal(t, domain.Reviews{"alice": "great"}, reviews)

	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ReviewUpsertsTotal.WithLabelValues("created")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ReviewUpsertsTotal.WithLabelValues("updated")), 0)
}

func TestBookCatalogService_ConcurrentReviewers(t *testing.T) {
	t.Parallel()

	const reviewers = 20

	ctx := context.Background()
	svc, metrics := setupTestService(t)

	var wg sync.WaitGroup

	for i := range reviewers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, _, err := svc.UpsertReview(ctx, "0003", fmt.Sprintf("reader-%d", i), "fine")
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	reviews, err := svc.Reviews(ctx, "0003")
	require.NoError(t, err)
	assert.Len(t, reviews, reviewers)
	assert.InDelta(t, reviewers, testutil.ToFloat64(metrics.ReviewUpsertsTotal.WithLabelValues("created")), 0)
}

func TestValidateReview(t *testing.T) {
	t.Parallel()

	require.NoError(t, catalogsvc.ValidateReview(domain.ReviewRequest{Review: "ok"}, 0))
	require.NoError(t, catalogsvc.ValidateReview(domain.ReviewRequest{Review: strings.Repeat("x", 10)}, 10))
	require.ErrorIs(t, catalogsvc.ValidateReview(domain.ReviewRequest{}, 10), domain.ErrValidation)
	require.ErrorIs(t, catalogsvc.ValidateReview(domain.ReviewRequest{Review: "\n\t"}, 10), domain.ErrValidation)
	require.ErrorIs(t, catalogsvc.ValidateReview(domain.ReviewRequest{Review: strings.Repeat("x", 11)}, 10), domain.ErrValidation)
}
