package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func value(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestRecordMutation(t *testing.T) {
	c := LedgerMutations.WithLabelValues(OpDelete, OutcomeNoop)
	before := value(t, c)

	RecordMutation(OpDelete, OutcomeNoop)
	RecordMutation(OpDelete, OutcomeNoop)

	assert.Equal(t, before+2, value(t, c))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/transactions/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	c := HTTPRequestsTotal.WithLabelValues(http.MethodGet, "/transactions/{id}", "404")
	before := value(t, c)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/transactions/7", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, before+1, value(t, c))
}

func TestHandler(t *testing.T) {
	RecordMutation(OpAdd, OutcomeApplied)

	srv := httptest.NewServer(Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "odyssey_ledger_mutations_total")
}
