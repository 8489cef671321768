// Package ui renders interactive terminal views for long-running checks.
package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/groovy/groovy-eclipse-sub042/internal/observ"
)

// Phases lists the driver phases in the order they run.
var Phases = []string{"load", "parse", "bind", "check"}

type phaseItem struct {
	name    string
	status  string
	elapsed time.Duration
}

type progressModel struct {
	title   string
	events  <-chan observ.Event
	spinner spinner.Model
	prog    progress.Model
	items   []phaseItem
	index   map[string]int
	width   int
	done    bool
}

type eventMsg observ.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders driver phases
// until events is closed.
func NewProgressModel(title string, events <-chan observ.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]phaseItem, 0, len(Phases))
	index := make(map[string]int, len(Phases))
	for i, name := range Phases {
		items = append(items, phaseItem{name: name, status: "queued"})
		index[name] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(observ.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		pm, cmd := m.prog.Update(msg)
		m.prog = pm.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.done {
		header = "done: " + header
	} else {
		header = m.spinner.View() + " " + header
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(truncate(header, m.width)))
	b.WriteString("\n\n")
	for _, item := range m.items {
		line := fmt.Sprintf("  %s %s", styleStatus(item.status).Render(fmt.Sprintf("%8s", item.status)), item.name)
		if item.elapsed > 0 {
			line += fmt.Sprintf(" (%.1fms)", float64(item.elapsed.Microseconds())/1000)
		}
		b.WriteString(truncate(line, m.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev observ.Event) tea.Cmd {
	idx, ok := m.index[ev.Phase]
	if !ok {
		return nil
	}
	switch ev.Status {
	case observ.Started:
		m.items[idx].status = "running"
	case observ.Finished:
		m.items[idx].status = "done"
		m.items[idx].elapsed = ev.Elapsed
	}
	return m.prog.SetPercent(m.fraction())
}

// fraction counts a running phase as half done.
func (m *progressModel) fraction() float64 {
	total := 0.0
	for _, item := range m.items {
		switch item.status {
		case "done":
			total += 1
		case "running":
			total += 0.5
		}
	}
	return total / float64(len(m.items))
}

func styleStatus(status string) lipgloss.Style {
	switch status {
	case "done":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case "running":
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 || runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width, "...")
}
