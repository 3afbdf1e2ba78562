// Package screen holds the scan screen state machine and its render-ready views.
package screen

import (
	"context"
	"sync"

	"github.com/securescan/securescan/pkg/logger"
	"github.com/securescan/securescan/pkg/scan"
)

// Observer is notified of run boundaries. Implementations must not call back into the Screen.
type Observer interface {
	ScanStarted(file SelectedFile)
	ScanFinished(file SelectedFile, report *scan.Report)
}

// Option configures a Screen
type Option func(*Screen)

// WithObserver registers an observer for scan runs
func WithObserver(o Observer) Option {
	return func(s *Screen) {
		s.observers = append(s.observers, o)
	}
}

// Screen owns the current State. All transitions go through its methods.
type Screen struct {
	mu        sync.Mutex
	state     State
	scanner   scan.Scanner
	observers []Observer

	subs   map[int]chan State
	nextID int

	running sync.WaitGroup
}

// New creates a screen in the Idle state
func New(scanner scan.Scanner, opts ...Option) *Screen {
	s := &Screen{
		state:   Idle{},
		scanner: scanner,
		subs:    make(map[int]chan State),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current state
func (s *Screen) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// View renders the current state
func (s *Screen) View() View {
	return Render(s.State())
}

// Subscribe returns a channel that always holds the most recent state.
// The current state is delivered immediately. Call the returned func to unsubscribe.
func (s *Screen) Subscribe() (<-chan State, func()) {
	ch := make(chan State, 1)

	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = ch
	ch <- s.state
	s.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			close(ch)
			s.mu.Unlock()
		})
	}
}

// setLocked replaces the state and notifies subscribers. Caller holds s.mu.
func (s *Screen) setLocked(st State) {
	s.state = st
	for _, ch := range s.subs {
		// keep only the latest state for slow readers
		select {
		case <-ch:
		default:
		}
		ch <- st
	}
}

// SelectFile stores a picked or dropped file. Only valid when Idle.
func (s *Screen) SelectFile(f SelectedFile) error {
	if err := f.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase() != PhaseIdle {
		return ErrInvalidTransition.in(s.state.Phase())
	}
	s.setLocked(FileSelected{File: f})
	logger.Debug("file selected: %s (%d bytes)", f.Name, f.Size)
	return nil
}

// Cancel discards the selected file before a scan starts.
func (s *Screen) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase() != PhaseFileSelected {
		return ErrInvalidTransition.in(s.state.Phase())
	}
	s.setLocked(Idle{})
	return nil
}

// Reset discards the file and results of a finished scan.
func (s *Screen) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase() != PhaseCompleted {
		return ErrInvalidTransition.in(s.state.Phase())
	}
	s.setLocked(Idle{})
	return nil
}

// begin moves FileSelected to Scanning(0)
func (s *Screen) begin() (SelectedFile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch st := s.state.(type) {
	case FileSelected:
		s.setLocked(Scanning{File: st.File})
		return st.File, nil
	case Scanning:
		return SelectedFile{}, ErrScanInProgress.in(PhaseScanning)
	default:
		return SelectedFile{}, ErrInvalidTransition.in(st.Phase())
	}
}

// Scan runs a scan to completion. It blocks until the screen is Completed.
// If ctx ends first the run is discarded and the screen returns to FileSelected.
func (s *Screen) Scan(ctx context.Context) error {
	file, err := s.begin()
	if err != nil {
		return err
	}
	s.running.Add(1)
	defer s.running.Done()
	return s.run(ctx, file)
}

// StartScan enters Scanning and runs the scan in the background.
func (s *Screen) StartScan(ctx context.Context) error {
	file, err := s.begin()
	if err != nil {
		return err
	}
	s.running.Add(1)
	go func() {
		defer s.running.Done()
		if err := s.run(ctx, file); err != nil {
			logger.Warn("scan of %s stopped: %v", file.Name, err)
		}
	}()
	return nil
}

// Wait blocks until any background scan has returned.
func (s *Screen) Wait() {
	s.running.Wait()
}

func (s *Screen) run(ctx context.Context, file SelectedFile) error {
	for _, o := range s.observers {
		o.ScanStarted(file)
	}
	logger.Info("scanning %s with %d engines", file.Name, len(scan.Roster))

	report, err := s.scanner.Run(ctx, func(percent float64, _ scan.DetectionResult) {
		s.mu.Lock()
		defer s.mu.Unlock()
		if cur, ok := s.state.(Scanning); ok && percent > cur.Progress && percent < 100 {
			s.setLocked(Scanning{File: cur.File, Progress: percent})
		}
	})
	if err != nil {
		s.mu.Lock()
		if _, ok := s.state.(Scanning); ok {
			s.setLocked(FileSelected{File: file})
		}
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.setLocked(Completed{File: file, Results: report.Results})
	s.mu.Unlock()

	detections := scan.DetectionCount(report.Results)
	logger.Info("scan of %s finished: %d/%d detections (%s)",
		file.Name, detections, len(report.Results), scan.ThreatLevel(detections))

	for _, o := range s.observers {
		o.ScanFinished(file, report)
	}
	return nil
}
