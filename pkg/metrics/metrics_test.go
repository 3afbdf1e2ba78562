package metrics

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/securescan/securescan/pkg/scan"
	"github.com/securescan/securescan/pkg/screen"
)

func TestObserverCounts(t *testing.T) {
	c := New("")
	file := screen.SelectedFile{Name: "a.bin", Size: 10}

	c.ScanStarted(file)
	c.ScanStarted(file)

	start := time.Now()
	c.ScanFinished(file, &scan.Report{
		Results: []scan.DetectionResult{
			{Engine: "ClamAV", Detected: true, MalwareLabel: "PUA.Unwanted.Program"},
			{Engine: "Avira"},
		},
		StartedAt:  start,
		FinishedAt: start.Add(2 * time.Second),
	})

	assert.Equal(t, 2.0, testutil.ToFloat64(c.scansStarted))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.scansCompleted.WithLabelValues(scan.ThreatLow)))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.scansCompleted.WithLabelValues(scan.ThreatClean)))
}

func TestHandlerExposesMetrics(t *testing.T) {
	c := New("securescan")
	c.SetActiveSessions(3)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "securescan_active_sessions 3")
	assert.Contains(t, string(body), "securescan_scans_started_total 0")
}
