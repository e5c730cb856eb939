// Smartconfig provisions WiFi credentials onto ESP devices with ESP-Touch.
//
// The device listens in promiscuous mode while this tool broadcasts UDP
// datagrams whose lengths encode the SSID, password, BSSID and the client's
// IP address. The device decodes them, joins the network, and acknowledges
// on UDP port 18266.
//
// Usage:
//
//	smartconfig [command] [flags]
//
// See 'smartconfig --help' for available commands.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/muurk/smartconfig/internal/logging"
	"github.com/muurk/smartconfig/internal/version"
)

var logLevel string

func main() {
	err := rootCmd.Execute()
	logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "smartconfig",
	Short: "ESP-Touch WiFi provisioning client",
	Long: `A command-line client for ESP-Touch (SmartConfig) WiFi provisioning.

Put the device in SmartConfig mode, then run 'smartconfig provision' from a
computer on the 2.4 GHz network the device should join. The credentials are
broadcast for up to 45 seconds or until the device acknowledges them.`,
	Version:       version.Version,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Silent unless --log-level or SMARTCONFIG_LOG_LEVEL is set
		return logging.Initialize(logLevel)
	},
}

func init() {
	// Disable automatic completion command generation
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error); logs go to stderr")

	rootCmd.AddCommand(versionCmd)
}

var versionFormat string

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	RunE: func(cmd *cobra.Command, args []string) error {
		if versionFormat == "json" {
			return printJSON(cmd, version.Get())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "smartconfig %s\n", version.Full())
		return nil
	},
}

func init() {
	versionCmd.Flags().StringVar(&versionFormat, "format", "text", "Output format (text, json)")
}

// printJSON writes v as indented JSON to the command's output
func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}
