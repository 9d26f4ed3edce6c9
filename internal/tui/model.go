package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"squish/internal/batch"
)

type Model struct {
	events     <-chan batch.Event
	cancel     func()
	bar        progress.Model
	started    time.Time
	width      int
	current    int
	total      int
	succeeded  int
	failed     int
	message    string
	cancelling bool
	quitting   bool
}

type doneMsg struct{}

type eventMsg struct{ event batch.Event }

// NewModel builds the live progress view. cancel is invoked on ctrl+c;
// the model keeps draining events until the runner closes the channel,
// so the current file always finishes on screen.
func NewModel(events <-chan batch.Event, cancel func()) Model {
	return Model{
		events:  events,
		cancel:  cancel,
		bar:     progress.New(progress.WithDefaultGradient()),
		started: time.Now(),
	}
}

func (m Model) Init() tea.Cmd {
	return listenForEvents(m.events)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		switch ev := msg.event.(type) {
		case batch.Progress:
			m.current = ev.Current
			m.total = ev.Total
			m.message = ev.Message
		case batch.Outcome:
			if ev.Failed() {
				m.failed++
			} else {
				m.succeeded++
			}
		}
		return m, listenForEvents(m.events)
	case doneMsg:
		m.quitting = true
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" && !m.cancelling {
			m.cancelling = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.bar.Width = barWidth(msg.Width)
		return m, nil
	default:
		return m, nil
	}
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	ratio := 0.0
	if m.total > 0 {
		ratio = float64(m.current) / float64(m.total)
		if ratio > 1 {
			ratio = 1
		}
	}

	elapsed := time.Since(m.started).Round(time.Millisecond)

	lines := []string{
		titleStyle.Render("squish 🗜"),
		labelStyle.Render(fmt.Sprintf("Files: %d/%d", m.current, m.total)) +
			dimStyle.Render(fmt.Sprintf("  failed:%d", m.failed)),
		labelStyle.Render(m.message),
		dimStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)),
		m.bar.ViewAs(ratio),
	}
	if m.cancelling {
		lines = append(lines, warnStyle.Render("Cancelling after the current file…"))
	}

	return strings.Join(lines, "\n")
}

func listenForEvents(events <-chan batch.Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return eventMsg{event: event}
	}
}

func barWidth(termWidth int) int {
	w := termWidth - 10
	if w > 60 {
		w = 60
	}
	if w < 20 {
		w = 20
	}
	return w
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle  = lipgloss.NewStyle().Foreground(ColorWarn)
)
