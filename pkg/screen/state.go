package screen

import (
	"github.com/securescan/securescan/pkg/scan"
)

// Phase identifies which variant a State is.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFileSelected
	PhaseScanning
	PhaseCompleted
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseFileSelected:
		return "file_selected"
	case PhaseScanning:
		return "scanning"
	case PhaseCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

// SelectedFile is the metadata of the picked file. Content is never read.
type SelectedFile struct {
	Name     string `json:"name"`
	Size     int64  `json:"size"`
	MIMEType string `json:"type"`
}

// State is one of Idle, FileSelected, Scanning or Completed.
type State interface {
	Phase() Phase
}

type Idle struct{}

type FileSelected struct {
	File SelectedFile
}

type Scanning struct {
	File     SelectedFile
	Progress float64
}

type Completed struct {
	File    SelectedFile
	Results []scan.DetectionResult
}

func (Idle) Phase() Phase         { return PhaseIdle }
func (FileSelected) Phase() Phase { return PhaseFileSelected }
func (Scanning) Phase() Phase     { return PhaseScanning }
func (Completed) Phase() Phase    { return PhaseCompleted }

// DetectionCount is the number of engines that flagged the file.
func (c Completed) DetectionCount() int {
	return scan.DetectionCount(c.Results)
}

// ThreatLevel classifies the run.
func (c Completed) ThreatLevel() string {
	return scan.ThreatLevel(c.DetectionCount())
}

// fileOf returns the file carried by s, if any.
func fileOf(s State) (SelectedFile, bool) {
	switch st := s.(type) {
	case FileSelected:
		return st.File, true
	case Scanning:
		return st.File, true
	case Completed:
		return st.File, true
	}
	return SelectedFile{}, false
}
