// ============================================================================
// deepclock - How far back does the clock go
// ============================================================================
//
// Package:     tui
// Description: Bubbletea live view of the projected date
// Author:      msto63
// Created:     2026-10-19
// License:     MIT
// ============================================================================

package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/msto63/deepclock/foundation/utils/timex"
	"github.com/msto63/deepclock/internal/clock"
	"github.com/msto63/deepclock/internal/store"
	"github.com/msto63/deepclock/pkg/core/version"
)

// IntervalSource resolves the interval to display and names its origin
type IntervalSource interface {
	Resolve(ctx context.Context) (clock.Interval, string, error)
}

// Config holds the TUI configuration
type Config struct {
	Clock     *clock.Clock
	Scrub     *clock.ScrubClock // nil for live mode
	Intervals IntervalSource
	Store     store.IntervalStore // optional, receives edited intervals
	Refresh   time.Duration
}

// Scrub steps, selected with up/down
var scrubSteps = []struct {
	label string
	step  time.Duration
}{
	{"1 hour", time.Hour},
	{"1 day", 24 * time.Hour},
	{"1 week", 7 * 24 * time.Hour},
	{"30 days", 30 * 24 * time.Hour},
	{"1 year", 365 * 24 * time.Hour},
	{"10 years", 3652 * 24 * time.Hour},
}

const (
	inputStart = iota
	inputEnd
)

// Model is the main Bubbletea model for the deepclock view
type Model struct {
	// State
	width   int
	height  int
	loading bool
	editing bool
	err     error
	status  string

	// Components
	spinner  spinner.Model
	progress progress.Model
	inputs   [2]textinput.Model
	focus    int

	// Clock state
	interval clock.Interval
	source   string
	snapshot *clock.Snapshot
	scrubIdx int

	cfg Config
}

// New creates a new model
func New(cfg Config) Model {
	if cfg.Clock == nil {
		var src clock.Source
		if cfg.Scrub != nil {
			src = cfg.Scrub
		}
		cfg.Clock = clock.New(src, clock.DefaultOptions())
	}
	if cfg.Refresh <= 0 {
		cfg.Refresh = 100 * time.Millisecond
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(ColorPrimary)

	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 40

	var inputs [2]textinput.Model
	for i := range inputs {
		ti := textinput.New()
		ti.CharLimit = 40
		ti.Placeholder = "2000-01-01T00:00:00Z"
		ti.Prompt = ""
		inputs[i] = ti
	}

	return Model{
		loading:  true,
		spinner:  sp,
		progress: bar,
		inputs:   inputs,
		scrubIdx: 1,
		cfg:      cfg,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		m.loadInterval,
		m.tick(),
	)
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.cfg.Refresh, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// loadInterval resolves the interval
func (m Model) loadInterval() tea.Msg {
	if m.cfg.Intervals == nil {
		return intervalLoadedMsg{err: fmt.Errorf("no interval source")}
	}
	iv, source, err := m.cfg.Intervals.Resolve(context.Background())
	return intervalLoadedMsg{interval: iv, source: source, err: err}
}

// saveInterval stores iv when a store is configured
func (m Model) saveInterval(iv clock.Interval) tea.Cmd {
	st := m.cfg.Store
	return func() tea.Msg {
		if st == nil {
			return intervalSavedMsg{interval: iv}
		}
		rec, err := st.Save(context.Background(), iv)
		return intervalSavedMsg{interval: rec.Interval, id: rec.ID, err: err}
	}
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.editing {
			return m.handleEditKey(msg)
		}
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = max(10, min(60, msg.Width-20))

	case spinner.TickMsg:
		if m.loading || m.snapshot == nil {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case intervalLoadedMsg:
		m.loading = false
		m.err = msg.err
		if msg.err == nil {
			m.interval = msg.interval
			m.source = msg.source
			m.refresh()
		}

	case intervalSavedMsg:
		if msg.err != nil {
			m.err = msg.err
			break
		}
		m.err = nil
		m.interval = msg.interval
		if msg.id != "" {
			m.source = "store"
			m.status = "saved " + msg.id[:8]
		} else {
			m.source = "edit"
			m.status = "applied (not stored)"
		}
		m.refresh()

	case tickMsg:
		m.refresh()
		cmds = append(cmds, m.tick())
	}

	return m, tea.Batch(cmds...)
}

// refresh recomputes the snapshot for the current interval
func (m *Model) refresh() {
	if !m.interval.IsSet() {
		m.snapshot = nil
		return
	}
	snap, err := m.cfg.Clock.Snapshot(m.interval)
	if err != nil {
		m.err = err
		m.snapshot = nil
		return
	}
	m.snapshot = &snap
}

// handleKeyPress handles keyboard input in the clock view
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "r":
		m.loading = true
		m.status = ""
		return m, tea.Batch(m.spinner.Tick, m.loadInterval)

	case "e":
		return m.startEditing()
	}

	if m.cfg.Scrub == nil {
		return m, nil
	}

	step := scrubSteps[m.scrubIdx].step
	switch msg.String() {
	case "left", "h":
		m.cfg.Scrub.Shift(-step)
	case "right", "l":
		m.cfg.Scrub.Shift(step)
	case "up", "k":
		if m.scrubIdx < len(scrubSteps)-1 {
			m.scrubIdx++
		}
	case "down", "j":
		if m.scrubIdx > 0 {
			m.scrubIdx--
		}
	case "n":
		m.cfg.Scrub.Set(time.Now())
	case "s":
		if m.interval.IsSet() {
			m.cfg.Scrub.Set(m.interval.Start)
		}
	case "f":
		if m.interval.IsSet() {
			m.cfg.Scrub.Set(m.interval.End)
		}
	default:
		return m, nil
	}

	m.refresh()
	return m, nil
}

func (m Model) startEditing() (tea.Model, tea.Cmd) {
	m.editing = true
	m.status = ""
	m.focus = inputStart
	if m.interval.IsSet() {
		m.inputs[inputStart].SetValue(m.interval.Start.UTC().Format(time.RFC3339))
		m.inputs[inputEnd].SetValue(m.interval.End.UTC().Format(time.RFC3339))
	}
	m.inputs[inputEnd].Blur()
	return m, m.inputs[inputStart].Focus()
}

// handleEditKey handles keyboard input while editing the interval
func (m Model) handleEditKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.editing = false
		return m, nil

	case "tab", "shift+tab":
		m.inputs[m.focus].Blur()
		m.focus = (m.focus + 1) % len(m.inputs)
		return m, m.inputs[m.focus].Focus()

	case "enter":
		iv, err := m.parseInputs()
		if err != nil {
			m.err = err
			return m, nil
		}
		m.editing = false
		m.err = nil
		return m, m.saveInterval(iv)
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

// parseInputs reads and validates the edited interval
func (m Model) parseInputs() (clock.Interval, error) {
	start, err := timex.Parse(m.inputs[inputStart].Value())
	if err != nil {
		return clock.Interval{}, fmt.Errorf("start: %w", err)
	}
	end, err := timex.Parse(m.inputs[inputEnd].Value())
	if err != nil {
		return clock.Interval{}, fmt.Errorf("end: %w", err)
	}
	iv := clock.Interval{Start: start, End: end}
	if err := iv.Validate(); err != nil {
		return clock.Interval{}, err
	}
	return iv, nil
}

// View renders the UI
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")

	switch {
	case m.editing:
		b.WriteString(m.renderEditor())
	case m.snapshot == nil:
		b.WriteString(m.renderWaiting())
	default:
		b.WriteString(m.renderClock())
	}
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(ErrorStyle.Render("Error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n")
	b.WriteString(m.renderHelpBar())

	return b.String()
}

// renderHeader renders the title panel
func (m Model) renderHeader() string {
	header := lipgloss.JoinHorizontal(lipgloss.Center,
		LogoStyle.Render(Logo),
		"   ",
		SubHeaderStyle.Render("how far back does the clock go"),
	)
	return TitlePanelStyle.Render(header)
}

func (m Model) renderWaiting() string {
	if m.loading {
		return m.spinner.View() + " Resolving interval..."
	}
	return m.spinner.View() + " No interval set. Press e to enter one."
}

// renderClock renders the main readout
func (m Model) renderClock() string {
	s := m.snapshot

	var b strings.Builder
	b.WriteString(SubHeaderStyle.Render("The clock now reaches back to"))
	b.WriteString("\n")
	b.WriteString(DisplayStyle.Render(s.Display))
	b.WriteString("\n")
	b.WriteString(TimeAgoStyle.Render(s.TimeAgo))
	b.WriteString("\n\n")

	pct := s.P
	switch {
	case pct < 0 || math.IsNaN(pct):
		pct = 0
	case pct > 1:
		pct = 1
	}
	b.WriteString(m.progress.ViewAs(pct))
	b.WriteString(fmt.Sprintf(" %6.2f%%\n\n", s.P*100))

	rows := []string{
		RenderRow("Now", s.Now.UTC().Format("2006-01-02 15:04:05 MST")),
		RenderRow("Start", s.Interval.Start.UTC().Format(time.RFC3339)),
		RenderRow("End", s.Interval.End.UTC().Format(time.RFC3339)),
		RenderRow("Remaining", s.Remaining.String()),
		RenderRow("Rate", formatRate(s.Derivative)),
		RenderRow("Tier", RenderTier(s.Tier)),
	}
	if s.Events != nil {
		rows = append(rows, RenderRow("Events", fmt.Sprintf("%s .. %s",
			s.Events.From.UTC().Format("2006-01-02"), s.Events.To.UTC().Format("2006-01-02"))))
	}

	b.WriteString(PanelStyle.Render(strings.Join(rows, "\n")))
	return b.String()
}

// formatRate renders how much faster than wall time the projection moves
func formatRate(d float64) string {
	if math.IsNaN(d) || math.IsInf(d, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.6g years per year", d)
}

func (m Model) renderEditor() string {
	labels := []string{"Start", "End"}
	var rows []string
	for i, in := range m.inputs {
		label := InputLabelStyle.Render(labels[i])
		if i == m.focus {
			label = FocusedInputLabelStyle.Render(labels[i])
		}
		rows = append(rows, label+in.View())
	}
	return PanelStyle.Render(strings.Join(rows, "\n"))
}

// renderStatusBar renders the mode, interval source and version
func (m Model) renderStatusBar() string {
	var mode string
	if m.cfg.Scrub != nil {
		mode = StatusScrubStyle.Render("SCRUB " + scrubSteps[m.scrubIdx].label)
	} else {
		mode = StatusLiveStyle.Render("LIVE")
	}

	parts := []string{mode}
	if m.source != "" {
		parts = append(parts, HelpDescStyle.Render("interval: "+m.source))
	}
	if m.status != "" {
		parts = append(parts, HelpDescStyle.Render(m.status))
	}
	parts = append(parts, HelpDescStyle.Render("v"+version.TUI))

	return StatusBarStyle.Render(strings.Join(parts, "  "))
}

// renderHelpBar renders the help shortcuts bar
func (m Model) renderHelpBar() string {
	var items []string
	if m.editing {
		items = []string{
			RenderKeyHint("Tab", "Next field"),
			RenderKeyHint("Enter", "Save"),
			RenderKeyHint("Esc", "Cancel"),
		}
	} else {
		items = []string{
			RenderKeyHint("e", "Edit interval"),
			RenderKeyHint("r", "Reload"),
		}
		if m.cfg.Scrub != nil {
			items = append(items,
				RenderKeyHint("←/→", "Scrub"),
				RenderKeyHint("↑/↓", "Step"),
				RenderKeyHint("s/f/n", "Start/End/Now"),
			)
		}
		items = append(items, RenderKeyHint("q", "Quit"))
	}
	return HelpStyle.Render(strings.Join(items, "  "))
}

// Run starts the program on the alternate screen
func Run(cfg Config) error {
	p := tea.NewProgram(New(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
