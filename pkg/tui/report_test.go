package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/securescan/securescan/pkg/scan"
	"github.com/securescan/securescan/pkg/screen"
)

func completedView(detected int) screen.View {
	results := make([]scan.DetectionResult, len(scan.Roster))
	for i, name := range scan.Roster {
		results[i] = scan.DetectionResult{Engine: name}
		if i < detected {
			results[i].Detected = true
			results[i].MalwareLabel = scan.MalwareLabels[0]
		}
	}
	return screen.Render(screen.Completed{
		File:    screen.SelectedFile{Name: "test.exe", Size: 2048},
		Results: results,
	})
}

func TestRenderReportClean(t *testing.T) {
	out := RenderReport(completedView(0), 60)
	assert.Contains(t, out, "File is Clean")
	assert.Contains(t, out, "0 / 20 engines detected this file as malicious")
	assert.Contains(t, out, "Microsoft Defender")
	assert.Contains(t, out, screen.Notice)
	assert.NotContains(t, out, scan.MalwareLabels[0])
}

func TestRenderReportThreats(t *testing.T) {
	out := RenderReport(completedView(3), 60)
	assert.Contains(t, out, "Threats Detected")
	assert.Contains(t, out, "3 / 20 engines")
	assert.Contains(t, out, scan.MalwareLabels[0])
}

func TestRenderFileInfo(t *testing.T) {
	out := RenderFileInfo(completedView(0))
	assert.Contains(t, out, "test.exe")
	assert.Contains(t, out, "2 KB")
	assert.Contains(t, out, "Unknown")

	assert.Empty(t, RenderFileInfo(screen.Render(screen.Idle{})))
}
