package scan

import (
	"context"
	"time"
)

// Roster is the fixed, ordered list of engine labels shown in results.
var Roster = []string{
	"Microsoft Defender", "Kaspersky", "Bitdefender", "Norton", "Avast",
	"AVG", "McAfee", "ESET", "Trend Micro", "Sophos",
	"Malwarebytes", "F-Secure", "Panda", "Comodo", "Avira",
	"G Data", "BullGuard", "Emsisoft", "ClamAV", "Fortinet",
}

// MalwareLabels are the canned names reported by an engine that flags a file.
var MalwareLabels = []string{
	"Trojan.GenericKD.12345678",
	"Win32/Suspicious.Behavior",
	"Malware.AI.Detection",
	"PUA.Unwanted.Program",
	"Adware.Generic.12345",
}

// Runner defaults
const (
	DefaultMaxDetectionRate = 0.15
	DefaultMinDelay         = 100 * time.Millisecond
	DefaultMaxDelay         = 300 * time.Millisecond
)

// Threat levels
const (
	ThreatClean  = "clean"
	ThreatLow    = "low"
	ThreatMedium = "medium"
	ThreatHigh   = "high"
)

// DetectionResult is one engine's verdict for a run.
type DetectionResult struct {
	Engine   string `json:"engine"`
	Detected bool   `json:"detected"`
	// MalwareLabel is empty unless Detected is true.
	MalwareLabel string `json:"malware,omitempty"`
}

// Report is the complete output of a run.
type Report struct {
	Results       []DetectionResult `json:"results"`
	DetectionRate float64           `json:"detection_rate"`
	StartedAt     time.Time         `json:"started_at"`
	FinishedAt    time.Time         `json:"finished_at"`
}

// ProgressFunc receives the completion percentage after each engine.
type ProgressFunc func(percent float64, result DetectionResult)

// Scanner defines the interface for something that produces engine verdicts
type Scanner interface {
	// Run processes every roster engine in order, reporting progress after each
	Run(ctx context.Context, onProgress ProgressFunc) (*Report, error)
}

// RandSource supplies uniform values in [0, 1). *rand.Rand from math/rand/v2 satisfies it.
type RandSource interface {
	Float64() float64
}

// Sleeper suspends the run between engines.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration) error
}

// DetectionCount returns the number of results flagged as detected.
func DetectionCount(results []DetectionResult) int {
	n := 0
	for _, r := range results {
		if r.Detected {
			n++
		}
	}
	return n
}

// ThreatLevel classifies a detection count.
func ThreatLevel(detections int) string {
	switch {
	case detections <= 0:
		return ThreatClean
	case detections < 3:
		return ThreatLow
	case detections < 8:
		return ThreatMedium
	default:
		return ThreatHigh
	}
}
