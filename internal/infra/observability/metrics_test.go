package observability_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkrupp/bookshop/internal/infra/observability"
)

func TestMetrics_Observe(t *testing.T) {
	t.Parallel()

	m := observability.NewMetrics()

	m.ObserveRequest(http.MethodGet, http.StatusOK)
	m.ObserveRequest(http.MethodGet, http.StatusOK)
	m.ObserveAuthFailure("TOKEN_EXPIRED")
	m.ObserveReviewUpsert("created")
	m.ObserveRegistration("conflict")
	m.ObserveRegistration("invalid")

	assert.InDelta(t, 2, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "200")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.AuthFailuresTotal.WithLabelValues("TOKEN_EXPIRED")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.ReviewUpsertsTotal.WithLabelValues("created")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues("conflict")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.RegistrationsTotal.WithLabelValues("invalid")), 0)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *observability.Metrics

	assert.NotPanics(t, func() {
		m.ObserveRequest(http.MethodGet, http.StatusOK)
		m.ObserveAuthFailure("TOKEN_MALFORMED")
		m.ObserveReviewUpsert("updated")
		m.ObserveRegistration("created")
	})
}

func TestMetrics_Handler(t *testing.T) {
	t.Parallel()

	m := observability.NewMetrics()
	m.ObserveReviewUpsert("updated")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `bookshop_review_upserts_total{outcome="updated"} 1`)
	assert.Contains(t, string(body), "go_goroutines")
}
