package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/dico/framework/container"
	"github.com/km-arc/dico/framework/metrics"
)

func TestObserve_CountsFreshInstancesOnly(t *testing.T) {
	m := metrics.New()
	c := container.New(container.WithName("metrics-test"))
	m.Observe(c)

	c.Set("clock", container.Sync(func(*container.Scope) (any, error) { return "tick", nil }))
	c.Set("literal", "value")

	for i := 0; i < 3; i++ {
		_, err := c.Resolve("clock")
		require.NoError(t, err)
	}
	_, err := c.Resolve("literal")
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Instantiated("metrics-test", "clock")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.Instantiated("metrics-test", "literal")))
}

func TestSnapshot_RecordsParameterCount(t *testing.T) {
	m := metrics.New()
	c := container.New(container.WithName("snap"))
	c.Set("a", 1)
	c.Set("b", 2)

	m.Snapshot(c)

	assert.Equal(t, 1, testutil.CollectAndCount(m.Registry(), "dico_parameters"))
}

func TestHandler_ServesExposition(t *testing.T) {
	m := metrics.New(metrics.WithRuntimeCollectors())
	c := container.New(container.WithName("http"))
	m.Observe(c)
	c.Set("svc", container.Sync(func(*container.Scope) (any, error) { return 1, nil }))
	_, err := c.Resolve("svc")
	require.NoError(t, err)

	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `dico_services_instantiated_total{container="http",service="svc"} 1`)
	assert.Contains(t, body, "go_goroutines")
}
