package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	m := New()

	m.ExpenseWritten("create")
	m.ExpenseWritten("create")
	m.ExpenseWritten("delete")
	m.ShareValidationFailed("PERCENT_TOTAL_INVALID")
	m.SettlementRecorded()

	if got := testutil.ToFloat64(m.expenseWrites.WithLabelValues("create")); got != 2 {
		t.Errorf("create writes = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.validationFailures.WithLabelValues("PERCENT_TOTAL_INVALID")); got != 1 {
		t.Errorf("validation failures = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.settlements); got != 1 {
		t.Errorf("settlements = %v, want 1", got)
	}
}

func TestMiddlewareAndHandler(t *testing.T) {
	m := New()

	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/groups/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Handle("/metrics", m.Handler())

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/groups/abc", nil))
	m.Simplified(2)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	out := string(body)

	if !strings.Contains(out, `splitledger_http_request_duration_seconds_count{method="GET",route="/groups/{id}",status="204"} 1`) {
		t.Errorf("missing request histogram in output:\n%s", out)
	}
	if !strings.Contains(out, "splitledger_simplify_transfers_count 1") {
		t.Error("missing simplify histogram")
	}
}
