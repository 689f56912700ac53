package catalogsvc

import (
	"context"
	"errors"
	"net/http"

	"github.com/mkrupp/bookshop/internal/domain"
	context_ "github.com/mkrupp/bookshop/internal/infra/context"
	"github.com/mkrupp/bookshop/internal/infra/logging"
	"github.com/mkrupp/bookshop/internal/infra/observability"
	http_ "github.com/mkrupp/bookshop/internal/infra/transport/http"
	"github.com/mkrupp/bookshop/internal/svc/authsvc/authclient"
)

// Response messages.
const (
	MessageISBNNotFound   = "ISBN book number not found"
	MessageAuthorNotFound = "No books found by this author"
	MessageTitleNotFound  = "No books found with this title"
	MessageBookNotFound   = "Book not found."
	MessageReviewRequired = "Review text is required."
	MessageReviewAdded    = "Review added successfully!"
	MessageReviewUpdated  = "Review updated successfully!"
	MessageReviewsFetched = "Reviews fetched successfully!"
	MessageInternal       = "internal server error"
)

// HTTPTransport serves the catalog and review endpoints.
type HTTPTransport struct {
	catalog CatalogService
	log     logging.Logger
	mux     *http.ServeMux
}

var _ http_.HTTPTransport = (*HTTPTransport)(nil)

// NewHTTPTransport creates a new HTTPTransport. Routes:
//   - GET /: the whole catalog
//   - GET /isbn/{isbn}, /author/{author}, /title/{title}: lookups
//   - GET /review/{isbn}, /auth/review/{isbn}: the reviews of a book (both unauthenticated)
//   - PUT /auth/review/{isbn}: add or replace the caller's review (bearer token required)
func NewHTTPTransport(
	catalog CatalogService,
	verifier authclient.TokenVerifier,
	metrics *observability.Metrics,
) *HTTPTransport {
	ht := &HTTPTransport{
		catalog: catalog,
		log:     logging.GetLogger("svc.catalogsvc.http_transport"),
		mux:     http.NewServeMux(),
	}

	ht.mux.HandleFunc("GET /{$}", ht.HandleList)
	ht.mux.HandleFunc("GET /isbn/{isbn}", ht.HandleByISBN)
	ht.mux.HandleFunc("GET /author/{author}", ht.HandleByAuthor)
	ht.mux.HandleFunc("GET /title/{title}", ht.HandleByTitle)
	ht.mux.HandleFunc("GET /review/{isbn}", ht.HandleReviews)
	ht.mux.HandleFunc("GET /auth/review/{isbn}", ht.HandleReviews)
	ht.mux.Handle("PUT /auth/review/{isbn}",
		http_.AuthorizingMiddleware(http.HandlerFunc(ht.HandleUpsertReview), verifier, ht.log, metrics))

	return ht
}

// ServeHTTP implements http.Handler.
func (ht *HTTPTransport) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ht.mux.ServeHTTP(w, r)
}

// Routes registers the transport's patterns on mux, delegating to ht.
func (ht *HTTPTransport) Routes(mux *http.ServeMux) {
	mux.Handle("GET /{$}", ht)
	mux.Handle("GET /isbn/{isbn}", ht)
	mux.Handle("GET /author/{author}", ht)
	mux.Handle("GET /title/{title}", ht)
	mux.Handle("GET /review/{isbn}", ht)
	mux.Handle("GET /auth/review/{isbn}", ht)
	mux.Handle("PUT /auth/review/{isbn}", ht)
}

// HandleList returns every book in the catalog.
func (ht *HTTPTransport) HandleList(w http.ResponseWriter, r *http.Request) {
	_ = http_.WriteJSON(w, http.StatusOK, domain.BooksResponse{Books: ht.catalog.List(r.Context())})
}

// HandleByISBN returns a single book.
func (ht *HTTPTransport) HandleByISBN(w http.ResponseWriter, r *http.Request) {
	b, err := ht.catalog.ByISBN(r.Context(), domain.ISBN(r.PathValue("isbn")))
	if err != nil {
		_ = ht.writeError(w, r, err, MessageISBNNotFound)

		return
	}

	_ = http_.WriteJSON(w, http.StatusOK, b)
}

// HandleByAuthor returns the books of an author.
func (ht *HTTPTransport) HandleByAuthor(w http.ResponseWriter, r *http.Request) {
	books, err := ht.catalog.ByAuthor(r.Context(), r.PathValue("author"))
	if err != nil {
		_ = ht.writeError(w, r, err, MessageAuthorNotFound)

		return
	}

	_ = http_.WriteJSON(w, http.StatusOK, books)
}

// HandleByTitle returns the books with a title.
func (ht *HTTPTransport) HandleByTitle(w http.ResponseWriter, r *http.Request) {
	books, err := ht.catalog.ByTitle(r.Context(), r.PathValue("title"))
	if err != nil {
		_ = ht.writeError(w, r, err, MessageTitleNotFound)

		return
	}

	_ = http_.WriteJSON(w, http.StatusOK, books)
}

// HandleReviews returns the reviews of a book.
func (ht *HTTPTransport) HandleReviews(w http.ResponseWriter, r *http.Request) {
	isbn := domain.ISBN(r.PathValue("isbn"))

	reviews, err := ht.catalog.Reviews(r.Context(), isbn)
	if err != nil {
		_ = ht.writeError(w, r, err, MessageBookNotFound)

		return
	}

	_ = http_.WriteJSON(w, http.StatusOK, domain.ReviewsResponse{
		Message: MessageReviewsFetched,
		ISBN:    isbn,
		Reviews: reviews,
	})
}

// HandleUpsertReview stores the authenticated caller's review of a book.
// Expects a JSON body {"review": "..."} or a form with a review field.
func (ht *HTTPTransport) HandleUpsertReview(w http.ResponseWriter, r *http.Request) {
	_ = ht.handleUpsertReview(w, r)
}

func (ht *HTTPTransport) handleUpsertReview(w http.ResponseWriter, r *http.Request) (err error) {
	isbn := domain.ISBN(r.PathValue("isbn"))
	log := ht.log.With(
		logging.Group("http", "method", r.Method, "url", r.URL.String()),
		logging.Group("book", "isbn", isbn),
	)

	defer func(ctx context.Context) {
		if err != nil {
			log.DebugContext(ctx, "review upsert failed", "error", err)
		} else {
			log.DebugContext(ctx, "review upserted")
		}
	}(r.Context())

	// The authorizing middleware guarantees an identity; its absence is a wiring bug.
	username, ok := context_.UsernameFromContext(r.Context())
	if !ok {
		_ = http_.WriteMessage(w, http.StatusForbidden, http_.MessageNotAuthenticated)

		return domain.ErrNoAuthToken
	}

	var req domain.ReviewRequest
	err = http_.DecodeBody(w, r, &req, func(get func(string) string) {
		req.Review = get("review")
	})
	if err != nil {
		return ht.writeError(w, r, err, MessageBookNotFound)
	}

	outcome, b, err := ht.catalog.UpsertReview(r.Context(), isbn, username, req.Review)
	if err != nil {
		return ht.writeError(w, r, err, MessageBookNotFound)
	}

	message := MessageReviewAdded
	if outcome == domain.ReviewUpdated {
		message = MessageReviewUpdated
	}

	return http_.WriteJSON(w, http.StatusOK, domain.ReviewResponse{
		Message: message,
		Outcome: outcome.String(),
		Book:    b,
	})
}

// writeError maps a service error to a status code and JSON message and returns err.
// notFound is the message used for missing books.
func (ht *HTTPTransport) writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) error {
	var (
		status  int
		message string
	)

	switch {
	case errors.Is(err, domain.ErrValidation):
		status, message = http.StatusBadRequest, MessageReviewRequired
	case errors.Is(err, domain.ErrBookNotFound), errors.Is(err, domain.ErrNoBooksFound):
		status, message = http.StatusNotFound, notFound
	default:
		ht.log.ErrorContext(r.Context(), "request failed", "error", err)

		status, message = http.StatusInternalServerError, MessageInternal
	}

	_ = http_.WriteMessage(w, status, message)

	return err
}
