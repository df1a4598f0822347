// Package viz renders a live terminal dashboard for a running
// simulation: scrolling traces of the instantaneous observables next to
// the current values. The simulation runs in its own goroutine and
// feeds the view through a channel; the view never blocks the physics.
package viz

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/jkleist/shearmd/internal/run"
)

const historyCapacity = 400

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	statsStyle  = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// Sample is one step's observables as delivered to the view.
type Sample struct {
	Step int
	Time float64
	Obs  run.Observables
}

// Feed adapts the run.Observer interface onto the view's channel. Sends
// are non-blocking: when the view lags, samples are dropped rather than
// stalling the integrator.
type Feed struct {
	C chan Sample
}

func NewFeed() *Feed {
	return &Feed{C: make(chan Sample, 64)}
}

func (f *Feed) OnStep(step int, t float64, obs run.Observables) {
	select {
	case f.C <- Sample{Step: step, Time: t, Obs: obs}:
	default:
	}
}

// Close signals the view that the run is over.
func (f *Feed) Close() { close(f.C) }

type sampleMsg Sample

type doneMsg struct{}

// Model is the bubbletea model of the dashboard.
type Model struct {
	ch     <-chan Sample
	last   Sample
	energy []float64
	temp   []float64
	width  int
	done   bool
}

func NewModel(ch <-chan Sample) Model {
	return Model{ch: ch, width: 80}
}

func waitForSample(ch <-chan Sample) tea.Cmd {
	return func() tea.Msg {
		s, ok := <-ch
		if !ok {
			return doneMsg{}
		}
		return sampleMsg(s)
	}
}

func (m Model) Init() tea.Cmd {
	return waitForSample(m.ch)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case sampleMsg:
		m.last = Sample(msg)
		m.energy = push(m.energy, msg.Obs.Energy)
		m.temp = push(m.temp, msg.Obs.TempKin)
		return m, waitForSample(m.ch)
	case doneMsg:
		m.done = true
	}
	return m, nil
}

func push(hist []float64, v float64) []float64 {
	hist = append(hist, v)
	if len(hist) > historyCapacity {
		hist = hist[len(hist)-historyCapacity:]
	}
	return hist
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(headerStyle.Render("shearmd live"))
	b.WriteString("\n")

	if len(m.energy) > 1 {
		graphWidth := m.width - 20
		if graphWidth < 20 {
			graphWidth = 20
		}
		energy := asciigraph.Plot(m.energy,
			asciigraph.Height(8), asciigraph.Width(graphWidth), asciigraph.Caption("E/N"))
		temp := asciigraph.Plot(m.temp,
			asciigraph.Height(8), asciigraph.Width(graphWidth), asciigraph.Caption("T kinetic"))
		b.WriteString(graphStyle.Render(energy))
		b.WriteString("\n")
		b.WriteString(graphStyle.Render(temp))
		b.WriteString("\n")
	}

	rows := []struct {
		label string
		value string
	}{
		{"step", fmt.Sprintf("%d", m.last.Step)},
		{"time", fmt.Sprintf("%.3f", m.last.Time)},
		{"E/N", fmt.Sprintf("%+.5f", m.last.Obs.Energy)},
		{"T kin", fmt.Sprintf("%.5f", m.last.Obs.TempKin)},
		{"T conf", fmt.Sprintf("%.5f", m.last.Obs.TempConf)},
		{"pressure", fmt.Sprintf("%.5f", m.last.Obs.Pressure)},
		{"strain", fmt.Sprintf("%.4f", m.last.Obs.Strain)},
	}
	var stats strings.Builder
	for _, r := range rows {
		stats.WriteString(labelStyle.Render(r.label))
		stats.WriteString(valueStyle.Render(r.value))
		stats.WriteString("\n")
	}
	b.WriteString(statsStyle.Render(stats.String()))
	b.WriteString("\n")

	if m.done {
		b.WriteString(helpStyle.Render("run finished, q to exit"))
	} else {
		b.WriteString(helpStyle.Render("q: quit"))
	}
	return b.String()
}
