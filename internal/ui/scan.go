package ui

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muurk/ledenet/internal/discovery"
)

// progressInterval is how often the progress bar is redrawn
const progressInterval = 100 * time.Millisecond

// ScanFunc performs one discovery run
type ScanFunc func(ctx context.Context) ([]discovery.Device, error)

// Messages for async operations
type scanCompleteMsg struct {
	devices []discovery.Device
	err     error
}

type progressTickMsg time.Time

// ScanModel is a Bubble Tea model that shows a spinner and a progress bar
// while a discovery run is in flight. The bar fills against the scan
// timeout; a scan that stops early simply ends before it is full.
type ScanModel struct {
	Spinner     spinner.Model
	ProgressBar progress.Model

	// Results, valid once Done is set
	Devices   []discovery.Device
	Err       error
	Done      bool
	Cancelled bool

	timeout time.Duration
	started time.Time
	now     time.Time
	scan    ScanFunc
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewScanModel creates a scan model. The scan runs with a context derived
// from ctx that is cancelled when the user quits.
func NewScanModel(ctx context.Context, timeout time.Duration, scan ScanFunc) ScanModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	scanCtx, cancel := context.WithCancel(ctx)
	now := time.Now()

	return ScanModel{
		Spinner:     s,
		ProgressBar: bar,
		timeout:     timeout,
		started:     now,
		now:         now,
		scan:        scan,
		ctx:         scanCtx,
		cancel:      cancel,
	}
}

// Init starts the scan, the spinner and the progress ticker
func (m ScanModel) Init() tea.Cmd {
	return tea.Batch(
		m.runScan,
		m.Spinner.Tick,
		tickProgress(),
	)
}

// Update handles messages and updates the model
func (m ScanModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			// The scan returns promptly once cancelled
			m.Cancelled = true
			m.cancel()
		}
		return m, nil

	case tea.WindowSizeMsg:
		barWidth := msg.Width - 20
		if barWidth < 20 {
			barWidth = 20
		}
		if barWidth > 50 {
			barWidth = 50
		}
		m.ProgressBar.Width = barWidth
		return m, nil

	case scanCompleteMsg:
		m.Done = true
		m.Devices = msg.devices
		m.Err = msg.err
		m.cancel()
		return m, tea.Quit

	case progressTickMsg:
		m.now = time.Time(msg)
		if m.Done {
			return m, nil
		}
		return m, tickProgress()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View renders the scanning display. It is empty once the scan is done so
// the final output can be printed in its place.
func (m ScanModel) View() string {
	if m.Done {
		return ""
	}

	elapsed := m.now.Sub(m.started).Round(100 * time.Millisecond)
	status := fmt.Sprintf("Elapsed: %s of %s  (q to stop)", elapsed, m.timeout)
	if m.Cancelled {
		status = "Stopping..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		"",
		ScanTitleStyle.Render(m.Spinner.View()+" SEARCHING FOR LED CONTROLLERS"),
		"",
		"  "+m.ProgressBar.ViewAs(m.Fraction()),
		"",
		ScanNoteStyle.Render(status),
		"",
	)
}

// Fraction returns how much of the timeout has elapsed, between 0 and 1
func (m ScanModel) Fraction() float64 {
	if m.timeout <= 0 {
		return 1
	}
	f := float64(m.now.Sub(m.started)) / float64(m.timeout)
	switch {
	case f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}

// runScan is a command that performs device discovery
func (m ScanModel) runScan() tea.Msg {
	devices, err := m.scan(m.ctx)
	return scanCompleteMsg{
		devices: devices,
		err:     err,
	}
}

func tickProgress() tea.Cmd {
	return tea.Tick(progressInterval, func(t time.Time) tea.Msg {
		return progressTickMsg(t)
	})
}

// RunScan runs scan behind the animated scan display and returns its result.
// If the user stops the scan, the partial result and context.Canceled are
// returned.
func RunScan(ctx context.Context, timeout time.Duration, scan ScanFunc) ([]discovery.Device, error) {
	model := NewScanModel(ctx, timeout, scan)

	p := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("scan display error: %w", err)
	}

	result, ok := final.(ScanModel)
	if !ok {
		return nil, fmt.Errorf("scan display returned unexpected model %T", final)
	}
	return result.Devices, result.Err
}
