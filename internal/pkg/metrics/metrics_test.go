package metrics

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Counts(t *testing.T) {
	r := NewRecorder()

	r.ObserveCanary(3)
	r.ObserveGet(120*time.Microsecond, true)
	r.ObserveGet(80*time.Microsecond, false)
	r.ObserveSet()

	assert.Equal(t, 2.0, testutil.ToFloat64(r.ops.WithLabelValues("get")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ops.WithLabelValues("set")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.ops.WithLabelValues("config")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.hits))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.canaryPct))
	assert.Equal(t, 1, testutil.CollectAndCount(r.getLatency))
}

func TestRecorder_Handler(t *testing.T) {
	r := NewRecorder()
	r.ObserveSet()

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	res, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), `pomai_soak_ops_total{op="set"} 1`))
}
