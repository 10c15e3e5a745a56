package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()

	m.CartAdd(false)
	m.CartAdd(true)
	m.CartAdd(true)
	m.Checkout(290, 4)
	m.Checkout(10, 1)
	m.AdvisorReply(false)
	m.AdvisorReply(true)
	m.PersistError("save", "redfragances_orders")
	m.CatalogSize(8)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.cartAdds.WithLabelValues("new_line")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cartAdds.WithLabelValues("merged")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.checkouts))
	assert.Equal(t, 300.0, testutil.ToFloat64(m.checkoutAmount))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.advisorReplies.WithLabelValues("fallback")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistErrors.WithLabelValues("save", "redfragances_orders")))
	assert.Equal(t, 8.0, testutil.ToFloat64(m.catalogProducts))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.CartAdd(true)
		m.Checkout(1, 1)
		m.AdvisorReply(false)
		m.PersistError("load", "k")
		m.CatalogSize(3)
	})
}

func TestHandler(t *testing.T) {
	m := New()
	m.Checkout(50, 1)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "redfragances_checkouts_total 1")
	assert.Contains(t, string(body), "redfragances_checkout_amount_total 50")
}
