package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/branched-services/go-storagedapp"
)

func TestDappMetrics(t *testing.T) {
	m := newMetrics("", prometheus.NewRegistry())

	m.RecordInfo("v1.2.3", "0x5FbDB2315678afecb367f032d93F642f64180aa3")
	m.RecordUp()

	onDone := m.RecordOperation(storagedapp.OpGet)
	onDone(nil)
	onDone = m.RecordOperation(storagedapp.OpGet)
	onDone(nil)
	onDone = m.RecordOperation(storagedapp.OpSet)
	onDone(errors.New("test err"))

	require.Equal(t, 2.0, testutil.ToFloat64(m.operations.WithLabelValues(storagedapp.OpGet, "success")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.operations.WithLabelValues(storagedapp.OpSet, "failed")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.operations.WithLabelValues(storagedapp.OpSet, "success")))
	require.Equal(t, 2, testutil.CollectAndCount(m.duration))

	require.Equal(t, 1.0, testutil.ToFloat64(m.up))
	require.Equal(t, 1.0, testutil.ToFloat64(m.info.WithLabelValues("v1.2.3", "0x5FbDB2315678afecb367f032d93F642f64180aa3")))
}

func TestConnectionGauge(t *testing.T) {
	m := newMetrics("test", prometheus.NewRegistry())

	m.RecordConnection(storagedapp.StateConnecting.String())
	m.RecordConnection(storagedapp.StateConnected.String())

	require.Equal(t, 1.0, testutil.ToFloat64(m.connection.WithLabelValues("connected")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.connection.WithLabelValues("connecting")))
	require.Equal(t, 0.0, testutil.ToFloat64(m.connection.WithLabelValues("failed")))
}

func TestHandler(t *testing.T) {
	m := NewMetrics("default")
	m.RecordUp()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Equal(t, 200, rec.Code)
	require.True(t, strings.Contains(string(body), Namespace+"_default_up 1"))
}
