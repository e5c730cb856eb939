package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/smartconfig/internal/provision"
)

// EventMsg carries a provisioning event into the Bubble Tea program
type EventMsg provision.Event

// DoneMsg ends the program once the attempt has returned
type DoneMsg struct {
	Result *provision.Result
	Err    error
}

// ProvisionModel shows a running attempt: spinner, current phase, and a bar
// filling up as the send window is used.
type ProvisionModel struct {
	Label       string
	Spinner     spinner.Model
	ProgressBar progress.Model
	Event       provision.Event
	Budget      time.Duration
	Width       int

	Done        bool
	Interrupted bool
	Result      *provision.Result
	Err         error

	cancel context.CancelFunc
}

// NewProvisionModel creates the model. cancel is called when the user
// presses Ctrl+C.
func NewProvisionModel(budget time.Duration, cancel context.CancelFunc) ProvisionModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40

	return ProvisionModel{
		Label:       "Broadcasting credentials",
		Spinner:     s,
		ProgressBar: bar,
		Budget:      budget,
		Width:       GetTerminalWidth(),
		Event:       provision.Event{State: provision.StateIdle, Budget: budget},
		cancel:      cancel,
	}
}

// Init implements tea.Model
func (m ProvisionModel) Init() tea.Cmd {
	return m.Spinner.Tick
}

// Update implements tea.Model
func (m ProvisionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.Interrupted = true
			if m.cancel != nil {
				m.cancel()
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.Width = clampWidth(msg.Width, nil)
		barWidth := m.Width - 30
		if barWidth < 20 {
			barWidth = 20
		}
		if barWidth > 50 {
			barWidth = 50
		}
		m.ProgressBar.Width = barWidth

	case EventMsg:
		m.Event = provision.Event(msg)
		if m.Event.Budget > 0 {
			m.Budget = m.Event.Budget
		}

	case DoneMsg:
		m.Done = true
		m.Result = msg.Result
		m.Err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// Percent is the share of the send window used so far, capped at 1.
func (m ProvisionModel) Percent() float64 {
	if m.Budget <= 0 {
		return 0
	}
	p := float64(m.Event.Elapsed) / float64(m.Budget)
	if p > 1 {
		return 1
	}
	return p
}

// View implements tea.Model
func (m ProvisionModel) View() string {
	if m.Done {
		return ""
	}

	var b strings.Builder

	label := m.Label
	if m.Interrupted {
		label = "Stopping"
	}
	b.WriteString(ProgressLabelStyle.Render(m.Spinner.View() + " " + label + "  " + phaseLabel(m.Event.State)))
	b.WriteString("\n\n")

	b.WriteString(ProgressLabelStyle.Render(fmt.Sprintf("%s  %s",
		m.ProgressBar.ViewAs(m.Percent()),
		NoteStyle.Render(fmt.Sprintf("%s / %s", formatSeconds(m.Event.Elapsed), formatSeconds(m.Budget))),
	)))
	b.WriteString("\n")

	stats := fmt.Sprintf("%d packets sent", m.Event.PacketsSent)
	if m.Event.Target != "" {
		stats += "  last group → " + m.Event.Target
	}
	b.WriteString(ProgressLabelStyle.Render(NoteStyle.Render(stats)))
	b.WriteString("\n")

	return b.String()
}

func phaseLabel(state provision.State) string {
	switch state {
	case provision.StateGuidePhase:
		return GuidePhaseStyle.Render("GUIDE")
	case provision.StateDataPhase:
		return DataPhaseStyle.Render("DATA")
	case provision.StateIdle:
		return NoteStyle.Render("starting")
	default:
		return NoteStyle.Render(state.String())
	}
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.1fs", d.Seconds())
}
