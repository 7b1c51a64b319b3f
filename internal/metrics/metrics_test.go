package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersOnce(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	assert.Error(t, err, "second registration must collide")
}

func TestRecordStage(t *testing.T) {
	t.Parallel()

	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordStage("local", OutcomeNotFound)
	m.RecordStage("local", OutcomeNotFound)
	m.RecordStage("direct", OutcomeFound)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.stageTotal.WithLabelValues("local", OutcomeNotFound)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.stageTotal.WithLabelValues("direct", OutcomeFound)))
}

func TestSourceMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := New(reg)
	require.NoError(t, err)

	m.RecordFetch("fetch", OutcomeFound, 150*time.Millisecond)
	m.SetConsecutiveFailures(3)

	expected := `
# HELP source_consecutive_failures Consecutive transport-level failures against the external source
# TYPE source_consecutive_failures gauge
source_consecutive_failures 3
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "source_consecutive_failures"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.sourceFetchTotal.WithLabelValues("fetch", OutcomeFound)))
}

func TestNilReceiver(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordStage("local", OutcomeFound)
		m.RecordFetch("fetch", OutcomeError, time.Second)
		m.SetConsecutiveFailures(1)
		m.RecordHTTPRequest("GET", "/words", 200, time.Millisecond)
	})
}
