// Package ui provides terminal UI components for the smartconfig CLI.
//
// This package uses Bubble Tea and Lipgloss to render terminal output for
// provisioning. Components follow a "run once and exit" pattern: they show
// progress while an attempt runs and a result box when it ends, without
// further interaction.
//
// # Architecture
//
//   - Header: command banner showing the operation and its parameters
//   - ProvisionModel: Bubble Tea model with a spinner, the current phase and a
//     bar counting down the send window
//   - Result: success, failure and warning boxes with ordered details
//   - DatumTable: the encoded credential, one row per data code
//
// These components are orchestrated by the Runner, which manages the
// header → progress → result flow for an attempt.
//
// # Usage Pattern
//
//	runner := ui.NewRunner(ui.RunnerConfig{
//	    Title:       "Provision",
//	    Command:     "smartconfig provision",
//	    Params:      []ui.Field{{Key: "SSID", Value: ssid}},
//	    Budget:      45 * time.Second,
//	    Interactive: term.IsTerminal(int(os.Stdout.Fd())),
//	})
//
//	result, err := runner.Run(ctx, func(ctx context.Context, observe provision.Observer) (*provision.Result, error) {
//	    p.Observer = observe
//	    return p.Provision(ctx, cred)
//	})
//
// # Logging Integration
//
// zap logging is silent unless SMARTCONFIG_LOG_LEVEL is set, so the UI output
// stays clean. Logs go to stderr when enabled.
package ui
