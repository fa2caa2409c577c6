// Package tui provides an interactive dashboard for watching a sweep live.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/daehyun-ko/feedsweep/internal/filter"
	"github.com/daehyun-ko/feedsweep/internal/monitor"
	"github.com/daehyun-ko/feedsweep/internal/paginate"
)

// --- Styles ---

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			PaddingLeft(1).
			PaddingRight(1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFFDF5")).
			Background(lipgloss.Color("#353533"))

	removeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF4444")).
			Bold(true)

	keepStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#44DD88"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6600")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888888"))
)

// --- Messages ---

// RecordMsg delivers one decision to the dashboard.
type RecordMsg filter.Record

// ControlMsg notifies the dashboard that a load-more control appeared.
type ControlMsg struct{}

// StarveMsg notifies the dashboard that auto-continue is starving.
type StarveMsg struct {
	Streak int
}

// TickMsg triggers periodic UI updates.
type TickMsg time.Time

// DoneMsg signals the feed is exhausted.
type DoneMsg struct{}

// --- Model ---

// Model is the bubbletea model for the sweep dashboard.
type Model struct {
	// Display state.
	lines      []string
	maxLines   int
	width      int
	height     int
	scrollPos  int // 0 = bottom (auto-scroll), >0 = scrolled up
	paused     bool
	pauseQueue []string

	// Sweep collaborators.
	Controller *paginate.Controller
	Stats      *monitor.Stats
	Target     int
	Source     string

	spin spinner.Model

	// Alert display.
	lastAlert  string
	alertFlash int // countdown for alert flash

	// Counters.
	keptCount    int
	removedCount int

	done bool
}

// NewModel creates a new dashboard model.
func NewModel(ctrl *paginate.Controller, stats *monitor.Stats, target int, sourceName string) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	return Model{
		maxLines:   1000,
		Controller: ctrl,
		Stats:      stats,
		Target:     target,
		Source:     sourceName,
		spin:       sp,
	}
}

// Init starts the tick timer.
func (m Model) Init() tea.Cmd {
	return tea.Batch(tickCmd(), m.spin.Tick, tea.WindowSize())
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case RecordMsg:
		return m.handleRecord(msg)

	case ControlMsg:
		// HasPending drives the help bar; nothing to store.
		return m, nil

	case StarveMsg:
		m.lastAlert = fmt.Sprintf("⚠ %d pages without a surviving entry", msg.Streak)
		m.alertFlash = 10
		return m, nil

	case TickMsg:
		if m.alertFlash > 0 {
			m.alertFlash--
		}
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case DoneMsg:
		m.done = true
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "m":
		// The user's click on the page's load-more control.
		if m.Controller.HasPending() {
			m.Controller.Engage()
			m.Controller.TriggerContinue()
		}
		return m, nil
	case "c":
		// The cancel affordance.
		if m.Controller.CancelVisible() {
			m.Controller.Cancel()
		}
		return m, nil
	case "p":
		m.paused = !m.paused
		if !m.paused {
			m.lines = append(m.lines, m.pauseQueue...)
			m.pauseQueue = nil
			m.trimLines()
		}
		return m, nil
	case "up", "k":
		if m.scrollPos < len(m.lines)-1 {
			m.scrollPos++
		}
		return m, nil
	case "down", "j":
		if m.scrollPos > 0 {
			m.scrollPos--
		}
		return m, nil
	case "g":
		m.scrollPos = 0 // jump to bottom (latest)
		return m, nil
	case "G":
		m.scrollPos = len(m.lines) - 1 // jump to top (oldest)
		return m, nil
	}

	return m, nil
}

func (m *Model) handleRecord(msg RecordMsg) (tea.Model, tea.Cmd) {
	rec := filter.Record(msg)
	line := m.formatRecordLine(rec)

	if rec.Decision.Verdict == filter.Remove {
		m.removedCount++
	} else {
		m.keptCount++
	}

	if m.paused {
		m.pauseQueue = append(m.pauseQueue, line)
		return m, nil
	}

	m.lines = append(m.lines, line)
	m.trimLines()

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var sb strings.Builder

	// Title bar.
	title := titleStyle.Render(fmt.Sprintf(" feedsweep — %s ", m.Source))
	status := "● IDLE"
	if m.Controller.Active() {
		status = m.spin.View() + "CONTINUING"
	}
	if m.paused {
		status = "⏸ PAUSED"
	}
	if m.done {
		status = "✔ DONE"
	}
	statusText := statusBarStyle.Render(fmt.Sprintf(" %s ", status))
	gap := m.width - lipgloss.Width(title) - lipgloss.Width(statusText)
	if gap < 0 {
		gap = 0
	}
	titleBar := title + statusBarStyle.Render(strings.Repeat(" ", gap)) + statusText
	sb.WriteString(titleBar)
	sb.WriteString("\n")

	// Alert bar (if active).
	if m.alertFlash > 0 && m.lastAlert != "" {
		sb.WriteString(highlightStyle.Render(m.lastAlert))
		sb.WriteString("\n")
	}

	// Calculate viewport height.
	headerLines := 1 // title bar
	if m.alertFlash > 0 {
		headerLines++
	}
	footerLines := 2 // stats bar + help bar
	viewportHeight := m.height - headerLines - footerLines
	if viewportHeight < 1 {
		viewportHeight = 1
	}

	// Render decision lines.
	visible := m.getVisibleLines(viewportHeight)
	for _, line := range visible {
		sb.WriteString(line)
		sb.WriteString("\n")
	}

	// Pad remaining viewport.
	for i := len(visible); i < viewportHeight; i++ {
		sb.WriteString("\n")
	}

	// Stats bar.
	statsLine := fmt.Sprintf(" Kept: %d/%d │ Removed: %d │ Pages: %d",
		m.keptCount, m.Target, m.removedCount, m.Stats.Pages())
	if m.scrollPos > 0 {
		statsLine += fmt.Sprintf(" │ ↑ %d", m.scrollPos)
	}
	sb.WriteString(statusBarStyle.Render(padRight(statsLine, m.width)))
	sb.WriteString("\n")

	// Help bar.
	helpText := " [p]Pause  [↑↓]Scroll  [g]Bottom  [q]Quit"
	if m.Controller.HasPending() {
		helpText = " [m]Load more " + helpText
	}
	if m.Controller.CancelVisible() {
		helpText = " [c]Cancel " + helpText
	}
	if m.paused {
		helpText += fmt.Sprintf("  (queued: %d)", len(m.pauseQueue))
	}
	sb.WriteString(helpStyle.Render(helpText))

	return sb.String()
}

// --- Helpers ---

func (m *Model) formatRecordLine(rec filter.Record) string {
	ts := rec.Time.Format("15:04:05")

	if rec.Decision.Verdict == filter.Remove {
		reason := rec.Decision.Reason
		text := truncate(rec.Entry.Text(), m.width-22-len(reason))
		return removeStyle.Render(fmt.Sprintf("%s ✕ [%s] %s", ts, reason, text))
	}

	text := truncate(rec.Entry.Text(), m.width-15)
	return keepStyle.Render(fmt.Sprintf("%s ✓ %s", ts, text))
}

func (m *Model) getVisibleLines(height int) []string {
	if len(m.lines) == 0 {
		return nil
	}

	end := len(m.lines) - m.scrollPos
	if end < 0 {
		end = 0
	}
	start := end - height
	if start < 0 {
		start = 0
	}

	result := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		result = append(result, m.lines[i])
	}
	return result
}

func (m *Model) trimLines() {
	if len(m.lines) > m.maxLines {
		excess := len(m.lines) - m.maxLines
		m.lines = m.lines[excess:]
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(500*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func truncate(s string, maxLen int) string {
	if maxLen <= 0 {
		return s
	}
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-1] + "…"
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
