package screen

import (
	"fmt"
	"math"

	"github.com/securescan/securescan/pkg/scan"
)

// Notice is shown on every surface.
const Notice = "Simulated results for demonstration only. File content is never read or uploaded."

// Actions a view may offer
const (
	ActionSelect = "select"
	ActionScan   = "scan"
	ActionCancel = "cancel"
	ActionReset  = "reset"
)

// View is the render-ready projection of a State.
type View struct {
	Phase       string    `json:"phase"`
	File        *FileView `json:"file,omitempty"`
	Progress    int       `json:"progress"`
	EngineCount int       `json:"engine_count"`
	Summary     *Summary  `json:"summary,omitempty"`
	Rows        []Row     `json:"rows,omitempty"`
	Actions     []string  `json:"actions"`
	Notice      string    `json:"notice"`
}

// FileView is display metadata for the selected file
type FileView struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	SizeText string `json:"size_text"`
	Type     string `json:"type"`
}

// Summary is the aggregate verdict of a completed scan
type Summary struct {
	Detections  int    `json:"detections"`
	ThreatLevel string `json:"threat_level"`
	Headline    string `json:"headline"`
	Detail      string `json:"detail"`
}

// Row is one engine's line in the results table
type Row struct {
	Engine   string `json:"engine"`
	Detected bool   `json:"detected"`
	Verdict  string `json:"verdict"`
}

// Render is a pure function of st.
func Render(st State) View {
	v := View{
		Phase:       st.Phase().String(),
		EngineCount: len(scan.Roster),
		Notice:      Notice,
	}
	if f, ok := fileOf(st); ok {
		v.File = fileView(f)
	}

	switch st := st.(type) {
	case Idle:
		v.Actions = []string{ActionSelect}
	case FileSelected:
		v.Actions = []string{ActionScan, ActionCancel}
	case Scanning:
		v.Progress = int(math.Round(st.Progress))
		v.Actions = []string{}
	case Completed:
		v.Progress = 100
		v.Actions = []string{ActionReset}
		v.Summary = summarize(st)
		v.Rows = make([]Row, 0, len(st.Results))
		for _, r := range st.Results {
			row := Row{Engine: r.Engine, Detected: r.Detected, Verdict: "Clean"}
			if r.Detected {
				row.Verdict = r.MalwareLabel
			}
			v.Rows = append(v.Rows, row)
		}
	}
	return v
}

func fileView(f SelectedFile) *FileView {
	typ := f.MIMEType
	if typ == "" {
		typ = "Unknown"
	}
	return &FileView{
		Name:     f.Name,
		Size:     f.Size,
		SizeText: scan.FormatFileSize(f.Size),
		Type:     typ,
	}
}

func summarize(c Completed) *Summary {
	n := c.DetectionCount()
	s := &Summary{
		Detections:  n,
		ThreatLevel: c.ThreatLevel(),
		Headline:    "Threats Detected",
		Detail:      fmt.Sprintf("%d / %d engines detected this file as malicious", n, len(scan.Roster)),
	}
	if s.ThreatLevel == scan.ThreatClean {
		s.Headline = "File is Clean"
	}
	return s
}
