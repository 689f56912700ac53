package book_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/mkrupp/bookshop/internal/domain"
	"github.com/mkrupp/bookshop/internal/repo/book"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newRepo(t *testing.T) *book.MemoryBookRepository {
	t.Helper()

	repo, err := book.NewMemoryBookRepository([]domain.Book{
		{ISBN: "0002", Title: "Fairy tales", Author: "Hans Christian Andersen"},
		{ISBN: "0001", Title: "Things Fall Apart", Author: "Chinua Achebe"},
	})
	require.NoError(t, err)

	return repo
}

func TestNewMemoryBookRepository_Invalid(t *testing.T) {
	t.Parallel()

	_, err := book.NewMemoryBookRepository([]domain.Book{{ISBN: "1"}, {ISBN: "1"}})
	require.ErrorIs(t, err, book.ErrDuplicateISBN)

	_, err = book.NewMemoryBookRepository([]domain.Book{{Title: "No key"}})
	require.ErrorIs(t, err, book.ErrEmptyISBN)
}

func TestMemoryBookRepository_GetAndList(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newRepo(t)

	b, err := repo.Get(ctx, "0001")
	require.NoError(t, err)
	assert.Equal(t, "Things Fall Apart", b.Title)
	assert.NotNil(t, b.Reviews)
	assert.Empty(t, b.Reviews)

	_, err = repo.Get(ctx, "9999")
	require.ErrorIs(t, err, domain.ErrBookNotFound)

	books := repo.List(ctx)
	require.Len(t, books, 2)
	assert.Equal(t, domain.ISBN("0001"), books[0].ISBN)
	assert.Equal(t, domain.ISBN("0002"), books[1].ISBN)

	none := repo.Filter(ctx, func(domain.Book) bool { return false })
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestMemoryBookRepository_Reviews(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newRepo(t)

	reviews, err := repo.GetReviews(ctx, "0001")
	require.NoError(t, err)
	assert.Empty(t, reviews)

	_, err = repo.GetReviews(ctx, "9999")
	require.ErrorIs(t, err, domain.ErrBookNotFound)

	outcome, b, err := repo.UpsertReview(ctx, "0001", "alice", "great")
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewCreated, outcome)
	assert.Equal(t, domain.Reviews{"alice": "great"}, b.Reviews)

	outcome, _, err = repo.UpsertReview(ctx, "0001", "alice", "great")
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewUpdated, outcome, "second identical upsert reports an update")

	outcome, _, err = repo.UpsertReview(ctx, "0001", "alice", "changed my mind")
	require.NoError(t, err)
	assert.Equal(t, domain.ReviewUpdated, outcome)

	reviews, err = repo.GetReviews(ctx, "0001")
	require.NoError(t, err)
	assert.Equal(t, domain.Reviews{"alice": "changed my mind"}, reviews)

	_, _, err = repo.UpsertReview(ctx, "9999", "alice", "nope")
	require.ErrorIs(t, err, domain.ErrBookNotFound)
}

func TestMemoryBookRepository_ReturnsCopies(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := newRepo(t)

	_, b, err := repo.UpsertReview(ctx, "0002", "bob", "ok")
	require.NoError(t, err)

	b.Reviews["mallory"] = "injected"

	reviews, err := repo.GetReviews(ctx, "0002")
	require.NoError(t, err)
	reviews["eve"] = "injected"

	got, err := repo.Get(ctx, "0002")
	require.NoError(t, err)
	assert.Equal(t, domain.Reviews{"bob": "ok"}, got.Reviews)
}

func TestMemoryBookRepository_ConcurrentUpserts(t *testing.T) {
	t.Parallel()

	const users = 50

	ctx := context.Background()
	repo := newRepo(t)

	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
	)

	for i := range users {
		for _, isbn := range []domain.ISBN{"0001", "0002"} {
			wg.Add(1)

			go func() {
				defer wg.Done()

				<-start

				_, _, err := repo.UpsertReview(ctx, isbn, fmt.Sprintf("user-%02d", i), "review "+string(isbn))
				assert.NoError(t, err)
			}()
		}
	}

	// Same user, same book: last write wins, no lost entries.
	for i := range users {
		wg.Add(1)

		go func() {
			defer wg.Done()

			<-start

			_, _, err := repo.UpsertReview(ctx, "0001", "racer", fmt.Sprintf("take %d", i))
			assert.NoError(t, err)
		}()
	}

	close(start)
	wg.Wait()

	for _, isbn := range []domain.ISBN{"0001", "0002"} {
		reviews, err := repo.GetReviews(ctx, isbn)
		require.NoError(t, err)

		for i := range users {
			assert.Equal(t, "review "+string(isbn), reviews[fmt.Sprintf("user-%02d", i)])
		}
	}

	reviews, err := repo.GetReviews(ctx, "0001")
	require.NoError(t, err)
	assert.Len(t, reviews, users+1)
	assert.True(t, strings.HasPrefix(reviews["racer"], "take "))
}

func TestLoadCatalog(t *testing.T) {
	t.Parallel()

	books, err := book.LoadCatalog(book.CatalogConfig{})
	require.NoError(t, err)
	require.Len(t, books, 10)
	assert.Equal(t, domain.ISBN("0001"), books[0].ISBN)
	assert.Equal(t, "Chinua Achebe", books[0].Author)

	path := filepath.Join(t.TempDir(), "catalog.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"isbn":"42","title":"T","author":"A"}]`), 0o600))

	books, err = book.LoadCatalog(book.CatalogConfig{File: path})
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, domain.ISBN("42"), books[0].ISBN)

	_, err = book.LoadCatalog(book.CatalogConfig{File: filepath.Join(t.TempDir(), "missing.json")})
	require.Error(t, err)

	_, err = book.DecodeCatalog(strings.NewReader(`[{"isbn":"1","pages":3}]`))
	require.Error(t, err, "unknown fields are rejected")
}

func TestRepositoryFactory(t *testing.T) {
	t.Parallel()

	repo, err := book.RepositoryFactory(book.CatalogConfig{})()
	require.NoError(t, err)
	assert.Len(t, repo.List(context.Background()), 10)
}
