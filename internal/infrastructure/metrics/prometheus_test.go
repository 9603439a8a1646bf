package metrics_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/smart-billing/internal/domain/bill"
	"github.com/jhoicas/smart-billing/internal/infrastructure/metrics"
)

func TestPrometheus_CuentaRecalculosPorDisparador(t *testing.T) {
	p := metrics.NewPrometheus("")

	e := bill.NewEngine(bill.WithObserver(func(tr bill.Trigger, _ bill.Totals) {
		p.RecomputeObserved(string(tr))
	}))
	e.Init()
	e.AddRow()
	_, err := e.SetRate(0, "10")
	require.NoError(t, err)
	_, err = e.SetQuantity(0, "3")
	require.NoError(t, err)

	n, err := testutil.GatherAndCount(p.Registry(), "billing_recomputations_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n, "init, row_added y line_edit")
}

func TestPrometheus_GaugeYHandler(t *testing.T) {
	p := metrics.NewPrometheus("billing")
	p.DraftsActive(7)
	p.RecomputeObserved("adjustment")

	rec := httptest.NewRecorder()
	p.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "billing_drafts_active 7")
	assert.Contains(t, string(body), `billing_recomputations_total{trigger="adjustment"} 1`)
}
