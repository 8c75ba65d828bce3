package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveMessage(OutcomeMatched)
	m.ObserveMessage(OutcomeMatched)
	m.ObserveMessage(OutcomeUnmatched)
	m.ObserveTransition("PENDING", "VERIFIED")
	m.ObserveNotification(NotificationEmitted)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.MessagesTotal.WithLabelValues(OutcomeMatched)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MessagesTotal.WithLabelValues(OutcomeUnmatched)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.TransitionsTotal.WithLabelValues("PENDING", "VERIFIED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.NotificationsTotal.WithLabelValues(NotificationEmitted)))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveMessage(OutcomeMatched)
		m.ObserveScoring(time.Millisecond, 3)
		m.ObserveTransition("DRAFT", "PENDING")
		m.ObserveNotification(NotificationResolved)
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteTextfile("/nonexistent/metrics.prom"))
}

func TestMetrics_SeparateRegistries(t *testing.T) {
	a := New()
	b := New()

	a.ObserveMessage(OutcomeMatched)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.MessagesTotal.WithLabelValues(OutcomeMatched)))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.MessagesTotal.WithLabelValues(OutcomeMatched)))
}

func TestMetrics_WriteTextfile(t *testing.T) {
	m := New()
	m.ObserveScoring(2*time.Millisecond, 2)
	m.ObserveMessage(OutcomeUnmatched)

	path := filepath.Join(t.TempDir(), "regexflow.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `regexflow_messages_total{outcome="unmatched"} 1`)
	assert.Contains(t, string(data), "regexflow_scoring_duration_seconds_count 1")
}
