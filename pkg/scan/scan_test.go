package scan

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedRand replays a fixed sequence and then repeats its last value.
type scriptedRand struct {
	values []float64
	pos    int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.values) == 0 {
		return 0
	}
	if r.pos >= len(r.values) {
		return r.values[len(r.values)-1]
	}
	v := r.values[r.pos]
	r.pos++
	return v
}

type recordingSleeper struct {
	delays []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return ctx.Err()
}

func TestRunCoversRosterInOrder(t *testing.T) {
	s := NewSimulatedScanner(Options{Seed: 42, Sleeper: NoSleep{}})

	var progress []float64
	report, err := s.Run(context.Background(), func(p float64, _ DetectionResult) {
		progress = append(progress, p)
	})
	require.NoError(t, err)
	require.Len(t, report.Results, len(Roster))

	seen := make(map[string]bool)
	for i, r := range report.Results {
		assert.Equal(t, Roster[i], r.Engine)
		assert.False(t, seen[r.Engine], "duplicate engine %s", r.Engine)
		seen[r.Engine] = true
	}

	require.Len(t, progress, len(Roster))
	for i := 1; i < len(progress); i++ {
		assert.GreaterOrEqual(t, progress[i], progress[i-1])
	}
	assert.Equal(t, 100.0, progress[len(progress)-1])
	assert.Equal(t, 5.0, progress[0])
}

func TestRunLabelsOnlyOnDetection(t *testing.T) {
	for seed := uint64(1); seed <= 50; seed++ {
		s := NewSimulatedScanner(Options{Seed: seed, MaxDetectionRate: 1, Sleeper: NoSleep{}})
		report, err := s.Run(context.Background(), nil)
		require.NoError(t, err)
		assert.Less(t, report.DetectionRate, 1.0)

		for _, r := range report.Results {
			if r.Detected {
				assert.Contains(t, MalwareLabels, r.MalwareLabel)
			} else {
				assert.Empty(t, r.MalwareLabel)
			}
		}
	}
}

func TestRunScriptedSequence(t *testing.T) {
	// rate draw, then per engine: delay, detect, [label]
	values := []float64{
		1.0,           // rate = 0.15
		0.5, 0.1, 0.0, // engine 0: 200ms, detected, label 0
		0.0, 0.9, // engine 1: 100ms, clean
		0.99, 0.14, 0.99, // engine 2: detected, label 4
	}
	// every remaining engine: delay 0.5 then detect 0.5 (clean)
	for i := 3; i < len(Roster); i++ {
		values = append(values, 0.5, 0.5)
	}
	sleeper := &recordingSleeper{}
	s := NewSimulatedScanner(Options{Rand: &scriptedRand{values: values}, Sleeper: sleeper})

	report, err := s.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.InDelta(t, 0.15, report.DetectionRate, 1e-9)
	assert.Equal(t, DetectionResult{Engine: "Microsoft Defender", Detected: true, MalwareLabel: "Trojan.GenericKD.12345678"}, report.Results[0])
	assert.Equal(t, DetectionResult{Engine: "Kaspersky"}, report.Results[1])
	assert.Equal(t, DetectionResult{Engine: "Bitdefender", Detected: true, MalwareLabel: "Adware.Generic.12345"}, report.Results[2])
	assert.Equal(t, 2, DetectionCount(report.Results))

	require.Len(t, sleeper.delays, len(Roster))
	assert.Equal(t, 200*time.Millisecond, sleeper.delays[0])
	assert.Equal(t, 100*time.Millisecond, sleeper.delays[1])
	for _, d := range sleeper.delays {
		assert.GreaterOrEqual(t, d, DefaultMinDelay)
		assert.Less(t, d, DefaultMaxDelay)
	}
}

func TestRunSameSeedSameResults(t *testing.T) {
	a, err := NewSimulatedScanner(Options{Seed: 7, MaxDetectionRate: 0.9, Sleeper: NoSleep{}}).Run(context.Background(), nil)
	require.NoError(t, err)
	b, err := NewSimulatedScanner(Options{Seed: 7, MaxDetectionRate: 0.9, Sleeper: NoSleep{}}).Run(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, a.Results, b.Results)
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewSimulatedScanner(Options{Seed: 1}).Run(ctx, nil)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestThreatLevel(t *testing.T) {
	tests := []struct {
		detections int
		want       string
	}{
		{0, ThreatClean},
		{1, ThreatLow},
		{2, ThreatLow},
		{3, ThreatMedium},
		{7, ThreatMedium},
		{8, ThreatHigh},
		{20, ThreatHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ThreatLevel(tt.detections), "detections=%d", tt.detections)
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 Bytes"},
		{1, "1 Bytes"},
		{1023, "1023 Bytes"},
		{1024, "1 KB"},
		{1536, "1.5 KB"},
		{2048, "2 KB"},
		{1048576, "1 MB"},
		{1073741824, "1 GB"},
		{1099511627776, "1 TB"},
		{1234567, "1.18 MB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFileSize(tt.bytes), "bytes=%d", tt.bytes)
	}
}

func TestOptionsValidate(t *testing.T) {
	assert.NoError(t, Options{}.Validate())
	assert.NoError(t, Options{MaxDetectionRate: 0.15, MinDelay: time.Millisecond, MaxDelay: 2 * time.Millisecond}.Validate())
	assert.Error(t, Options{MaxDetectionRate: 1.5}.Validate())
	assert.Error(t, Options{MinDelay: -time.Millisecond}.Validate())
	assert.Error(t, Options{MinDelay: time.Second, MaxDelay: time.Millisecond}.Validate())
}
