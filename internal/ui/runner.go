package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/smartconfig/internal/provision"
)

// RunnerConfig holds configuration for a provisioning run
type RunnerConfig struct {
	Title       string        // Command title (e.g., "Provision")
	Command     string        // Full command (e.g., "smartconfig provision")
	Params      []Field       // Parameters to display in header
	Budget      time.Duration // Send window shown by the progress bar
	Interactive bool          // Show the live Bubble Tea view
	Output      io.Writer     // Output writer (default: os.Stdout)
}

// Operation runs the attempt. observe must be installed as the
// provisioner's Observer.
type Operation func(ctx context.Context, observe provision.Observer) (*provision.Result, error)

// Runner orchestrates the header → progress → result flow of an attempt.
type Runner struct {
	config  RunnerConfig
	printer *Printer
}

// NewRunner creates a new runner
func NewRunner(config RunnerConfig) *Runner {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	return &Runner{
		config:  config,
		printer: NewPrinter(config.Output),
	}
}

// Printer returns the printer the runner writes with
func (r *Runner) Printer() *Printer {
	return r.printer
}

// Run prints the header, runs op while showing progress, and returns op's
// result. The result box is left to the caller.
func (r *Runner) Run(ctx context.Context, op Operation) (*provision.Result, error) {
	r.printer.PrintHeader(r.config.Title, r.config.Command, r.config.Params)

	if !r.config.Interactive {
		r.printer.Println(ProgressLabelStyle.Render(fmt.Sprintf("%s (up to %s)...", "Broadcasting credentials", r.config.Budget)))
		r.printer.Newline()
		return op(ctx, nil)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	model := NewProvisionModel(r.config.Budget, cancel)
	program := tea.NewProgram(model, tea.WithOutput(r.config.Output), tea.WithContext(ctx))

	done := make(chan DoneMsg, 1)
	go func() {
		result, err := op(ctx, func(e provision.Event) {
			program.Send(EventMsg(e))
		})
		msg := DoneMsg{Result: result, Err: err}
		done <- msg
		program.Send(msg)
	}()

	if _, err := program.Run(); err != nil {
		// The view failed or was killed; stop the attempt and report its outcome
		cancel()
	}

	msg := <-done
	return msg.Result, msg.Err
}
