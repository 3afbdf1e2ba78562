package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/securescan/securescan/pkg/logger"
	"github.com/securescan/securescan/pkg/screen"
)

// ScanOptions configures the terminal scan screen
type ScanOptions struct {
	// StartDir is where the file picker opens. Defaults to the working directory.
	StartDir string
	// InitialPath preselects a file.
	InitialPath string
	// Drops delivers paths from a drop folder watcher. May be nil.
	Drops <-chan string
}

type keyMap struct {
	Scan   key.Binding
	Cancel key.Binding
	Reset  key.Binding
	Quit   key.Binding
}

var keys = keyMap{
	Scan:   key.NewBinding(key.WithKeys("enter", "s"), key.WithHelp("enter/s", "scan file")),
	Cancel: key.NewBinding(key.WithKeys("esc", "c"), key.WithHelp("esc/c", "cancel")),
	Reset:  key.NewBinding(key.WithKeys("enter", "n"), key.WithHelp("enter/n", "scan another file")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
}

// ScanModel is the Bubble Tea model for the scan screen
type ScanModel struct {
	ctx    context.Context
	screen *screen.Screen

	updates     <-chan screen.State
	unsubscribe func()
	drops       <-chan string

	view     screen.View
	picker   filepicker.Model
	progress progress.Model
	spinner  spinner.Model
	help     help.Model

	width    int
	height   int
	offset   int
	status   string
	quitting bool
}

type stateMsg struct{ state screen.State }
type dropMsg string

// NewScanModel creates a model bound to s. The caller must eventually call Close.
func NewScanModel(ctx context.Context, s *screen.Screen, opts ScanOptions) ScanModel {
	fp := filepicker.New()
	fp.AutoHeight = false
	fp.ShowHidden = false
	fp.CurrentDirectory = opts.StartDir
	if fp.CurrentDirectory == "" {
		if wd, err := os.Getwd(); err == nil {
			fp.CurrentDirectory = wd
		}
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = StyleInfo

	updates, unsubscribe := s.Subscribe()

	m := ScanModel{
		ctx:         ctx,
		screen:      s,
		updates:     updates,
		unsubscribe: unsubscribe,
		drops:       opts.Drops,
		view:        s.View(),
		picker:      fp,
		progress:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(50)),
		spinner:     sp,
		help:        help.New(),
		width:       80,
	}

	if opts.InitialPath != "" {
		m.status = m.choose(opts.InitialPath)
		m.view = s.View()
	}
	return m
}

// Close releases the screen subscription
func (m ScanModel) Close() {
	m.unsubscribe()
}

func waitForState(updates <-chan screen.State) tea.Cmd {
	return func() tea.Msg {
		st, ok := <-updates
		if !ok {
			return nil
		}
		return stateMsg{st}
	}
}

func waitForDrop(drops <-chan string) tea.Cmd {
	if drops == nil {
		return nil
	}
	return func() tea.Msg {
		path, ok := <-drops
		if !ok {
			return nil
		}
		return dropMsg(path)
	}
}

// choose selects a file by path and returns a status line
func (m *ScanModel) choose(path string) string {
	f, err := screen.FileFromPath(path)
	if err == nil {
		err = m.screen.SelectFile(f)
	}
	if err != nil {
		logger.Debug("select %s: %v", path, err)
		return err.Error()
	}
	return ""
}

func (m ScanModel) Init() tea.Cmd {
	return tea.Batch(
		waitForState(m.updates),
		waitForDrop(m.drops),
		m.picker.Init(),
		m.spinner.Tick,
	)
}

func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = min(max(msg.Width-10, 10), 80)
		m.picker.SetHeight(max(msg.Height-lipgloss.Height(m.idleView("")), 1))
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd

	case stateMsg:
		if msg.state.Phase().String() != m.view.Phase {
			m.offset = 0
		}
		m.view = screen.Render(msg.state)
		return m, waitForState(m.updates)

	case dropMsg:
		if m.view.Phase == screen.PhaseIdle.String() {
			m.status = m.choose(string(msg))
		}
		return m, waitForDrop(m.drops)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if key.Matches(msg, keys.Quit) {
			m.quitting = true
			return m, tea.Quit
		}
		return m.handleKey(msg)
	}

	// directory reads may land while a file is selected
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m ScanModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.status = ""

	switch m.view.Phase {
	case screen.PhaseIdle.String():
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		if ok, path := m.picker.DidSelectFile(msg); ok {
			m.status = m.choose(path)
		}
		return m, cmd

	case screen.PhaseFileSelected.String():
		switch {
		case key.Matches(msg, keys.Scan):
			if err := m.screen.StartScan(m.ctx); err != nil {
				m.status = err.Error()
			}
		case key.Matches(msg, keys.Cancel):
			if err := m.screen.Cancel(); err != nil {
				m.status = err.Error()
			}
		}

	case screen.PhaseCompleted.String():
		switch {
		case key.Matches(msg, keys.Reset):
			if err := m.screen.Reset(); err != nil {
				m.status = err.Error()
			}
		case msg.String() == "down" || msg.String() == "j":
			if m.offset < len(m.view.Rows)-1 {
				m.offset++
			}
		case msg.String() == "up" || msg.String() == "k":
			if m.offset > 0 {
				m.offset--
			}
		}
	}
	return m, nil
}

func (m ScanModel) View() string {
	if m.quitting {
		return ""
	}
	if m.view.Phase == screen.PhaseIdle.String() {
		return m.idleView(m.picker.View())
	}

	var s strings.Builder
	s.WriteString(m.header(false))

	switch m.view.Phase {
	case screen.PhaseFileSelected.String():
		s.WriteString(StyleBox.Render(RenderFileInfo(m.view)))
		s.WriteString("\n")
		s.WriteString(m.help.ShortHelpView([]key.Binding{keys.Scan, keys.Cancel, keys.Quit}))

	case screen.PhaseScanning.String():
		var body strings.Builder
		body.WriteString(RenderFileInfo(m.view))
		body.WriteString("\n\n")
		body.WriteString(fmt.Sprintf("%s Scanning with %d engines...  %s",
			m.spinner.View(), m.view.EngineCount, StyleInfo.Bold(true).Render(fmt.Sprintf("%d%%", m.view.Progress))))
		body.WriteString("\n")
		body.WriteString(m.progress.ViewAs(float64(m.view.Progress) / 100))
		s.WriteString(StyleBox.Render(body.String()))
		s.WriteString("\n")

	case screen.PhaseCompleted.String():
		s.WriteString(RenderSummary(m.view, min(m.width, 80)))
		s.WriteString("\n\n")
		s.WriteString(m.visibleRows())
		s.WriteString("\n")
		s.WriteString(m.help.ShortHelpView([]key.Binding{
			keys.Reset,
			key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑/↓", "scroll")),
			keys.Quit,
		}))
	}

	s.WriteString(m.footer())
	return s.String()
}

func (m ScanModel) header(banner bool) string {
	var s strings.Builder
	if banner {
		s.WriteString(Banner())
	} else {
		s.WriteString(StyleHeader.Render(IconShield + " SecureScan · Multi-Engine Malware Scanner"))
	}
	s.WriteString("\n")
	s.WriteString(StyleSubtle.Render(fmt.Sprintf("Scan files with %d antivirus engines", m.view.EngineCount)))
	s.WriteString("\n\n")
	return s.String()
}

// footer always reserves the status line so the layout does not shift
func (m ScanModel) footer() string {
	return "\n" + StyleError.Render(m.status) + "\n\n" +
		lipgloss.NewStyle().Foreground(ColorWarning).Italic(true).Render(m.view.Notice)
}

// idleView lays out the upload prompt around the picker. With an empty
// picker it measures the lines left over for the file list.
func (m ScanModel) idleView(picker string) string {
	var s strings.Builder
	s.WriteString(m.header(m.height >= 40))

	zone := "Pick a file below"
	if m.drops != nil {
		zone += " or drop one into the watched folder"
	}
	s.WriteString(StyleDropZone.Render(zone))
	s.WriteString("\n")
	s.WriteString(StyleSubtle.Render(m.picker.CurrentDirectory))
	s.WriteString("\n")
	s.WriteString(picker)
	s.WriteString("\n")
	s.WriteString(m.help.ShortHelpView([]key.Binding{
		key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		keys.Quit,
	}))
	s.WriteString(m.footer())
	return s.String()
}

// visibleRows clips the result table to the terminal height
func (m ScanModel) visibleRows() string {
	rows := m.view
	limit := len(rows.Rows)
	if m.height > 0 {
		// header, summary box, help and notice take roughly this many lines
		if avail := m.height - 20; avail > 3 && avail < limit {
			limit = avail
		}
	}
	start := min(m.offset, max(len(rows.Rows)-limit, 0))
	rows.Rows = rows.Rows[start : start+limit]
	return RenderRows(rows)
}

// RunScanScreen runs the interactive scan screen until the user quits
func RunScanScreen(ctx context.Context, s *screen.Screen, opts ScanOptions) error {
	m := NewScanModel(ctx, s, opts)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
