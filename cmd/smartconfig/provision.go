package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/muurk/smartconfig/internal/config"
	"github.com/muurk/smartconfig/internal/discovery"
	"github.com/muurk/smartconfig/internal/logging"
	"github.com/muurk/smartconfig/internal/protocol"
	"github.com/muurk/smartconfig/internal/provision"
	"github.com/muurk/smartconfig/internal/ui"
	"github.com/muurk/smartconfig/internal/urls"
)

// errNotAcknowledged makes the process exit non-zero after a timeout
var errNotAcknowledged = errors.New("no acknowledgment within the send window")

var (
	provisionFormat string
	noVerify        bool
	provisionSave   bool
)

// provisionCmd broadcasts a credential and waits for the acknowledgment
var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Send WiFi credentials to a device in SmartConfig mode",
	Long: `Broadcast WiFi credentials with ESP-Touch until a device acknowledges them.

Run this from a computer connected to the network the device should join.
Guide and data packets are broadcast for up to 45 seconds. When a device
decodes them it joins the network and replies with its MAC and IP address.

After an acknowledgment the device is looked up over mDNS (disable with
--no-verify) and recorded in the registry (see --save).`,
	Example: `  # Prompt for the password
  smartconfig provision --ssid HomeNet --bssid aa:bb:cc:dd:ee:ff

  # Hidden network, explicit client address
  smartconfig provision --ssid Lab --bssid aa:bb:cc:dd:ee:ff --password secret --hidden --ip 192.168.1.10

  # Scripted use
  echo secret | smartconfig provision --ssid HomeNet --bssid aa:bb:cc:dd:ee:ff --format json`,
	RunE: runProvision,
}

func init() {
	addCredentialFlags(provisionCmd)
	provisionCmd.Flags().StringVar(&provisionFormat, "format", "detailed", "Output format (detailed, json)")
	provisionCmd.Flags().BoolVar(&noVerify, "no-verify", false, "Skip the mDNS lookup after an acknowledgment")
	provisionCmd.Flags().BoolVar(&provisionSave, "save", false, "Record the network and acknowledged device in the registry; --save=false skips it (default: the registry's save_devices preference)")
}

// provisionOutput is the JSON report of an attempt
type provisionOutput struct {
	*provision.Result
	ElapsedText string            `json:"elapsed_text"`
	Verified    *discovery.Device `json:"verified,omitempty"`
	VerifyError string            `json:"verify_error,omitempty"`
	Error       string            `json:"error,omitempty"`
}

func runProvision(cmd *cobra.Command, args []string) error {
	if err := checkFormat(provisionFormat, "detailed", "json"); err != nil {
		return err
	}
	cmd.SilenceUsage = true

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, writable := loadRegistry()
	prefs := registry.Preferences
	provisionSave = saveEnabled(cmd, prefs, writable)

	cred, err := resolveCredential(cmd, registry, true)
	if err != nil {
		return err
	}

	logging.LogAttemptStart(string(cred.SSID), cred.BSSID, cred.IP, len(cred.Password), cred.HiddenSSID)

	provisioner := provision.NewProvisioner(provision.DefaultConfig(), logging.GetLogger())
	op := func(ctx context.Context, observe provision.Observer) (*provision.Result, error) {
		provisioner.Observer = observe
		return provisioner.Provision(ctx, cred)
	}

	var result *provision.Result
	var printer *ui.Printer
	if provisionFormat == "json" {
		result, err = op(ctx, nil)
	} else {
		runner := ui.NewRunner(ui.RunnerConfig{
			Title:       "Provision",
			Command:     "smartconfig provision",
			Params:      credentialParams(cred),
			Budget:      provisioner.Config().SendWindow,
			Interactive: ui.IsInteractive(os.Stdout),
			Output:      cmd.OutOrStdout(),
		})
		printer = runner.Printer()
		result, err = runner.Run(ctx, op)
	}

	if result != nil {
		logging.LogAttemptResult(result.StateName, result.Acked, result.Elapsed, result.PacketsSent)
	}

	if provisionSave && result != nil {
		recordAttempt(registry, cred, result)
	}

	// Verification only follows an acknowledgment
	var device *discovery.Device
	var verifyErr error
	verify := result != nil && result.Acked && !noVerify && prefs.VerifyAfterProvision
	if verify {
		device, verifyErr = findDevice(ctx, registry, discovery.Target{IP: result.IP, MAC: result.BSSID})
		if verifyErr == nil && provisionSave {
			registry.MarkVerified(result.BSSID, device.Hostname)
		}
	}

	if provisionSave && result != nil {
		if saveErr := registry.Save(); saveErr != nil {
			logging.Warn("Failed to save registry", zap.Error(saveErr))
		}
	}

	if provisionFormat == "json" {
		out := provisionOutput{Result: result, Verified: device}
		if result != nil {
			out.ElapsedText = result.Elapsed.Round(time.Millisecond).String()
		}
		if verifyErr != nil {
			out.VerifyError = verifyErr.Error()
		}
		if err != nil {
			out.Error = err.Error()
		}
		if jsonErr := printJSON(cmd, out); jsonErr != nil {
			return jsonErr
		}
	} else {
		printOutcome(printer, result, err)
		if verify {
			printer.Newline()
			if verifyErr != nil {
				printer.PrintWarning("Device not seen over mDNS", []ui.Field{{Key: "Device IP", Value: result.IP}}, notFoundHints())
			} else {
				printVerified(printer, device)
			}
		}
	}

	if err != nil {
		return err
	}
	if !result.Acked {
		return errNotAcknowledged
	}
	return nil
}

// saveEnabled applies --save when given, else the registry preference. An
// unreadable registry is never saved over.
func saveEnabled(cmd *cobra.Command, prefs *config.Preferences, writable bool) bool {
	if !writable {
		return false
	}
	if cmd.Flags().Changed("save") {
		return provisionSave
	}
	return prefs.SaveDevices
}

// recordAttempt stores the network (never the password) and, on an
// acknowledgment, the device.
func recordAttempt(registry *config.Registry, cred protocol.Credential, result *provision.Result) {
	registry.RecordNetwork(string(cred.SSID), cred.BSSID, cred.HiddenSSID, cred.IP)
	if result.Acked {
		registry.RecordDevice(result.BSSID, result.IP, string(cred.SSID))
		logging.LogDevice("ack", result.BSSID, result.IP)
	}
}

// printOutcome renders the result box for an attempt
func printOutcome(printer *ui.Printer, result *provision.Result, err error) {
	printer.Newline()

	switch {
	case errors.Is(err, context.Canceled):
		printer.PrintWarning("Provisioning canceled", attemptFields(result), nil)

	case err != nil:
		var sendErr *provision.SendError
		tips := []string{"Check that this host is connected to the target network"}
		var recvErr *provision.ReceiveError
		if errors.As(err, &sendErr) {
			tips = append(tips, "Sending to "+sendErr.Target+" failed; check firewall rules for outbound UDP")
		}
		if errors.As(err, &recvErr) {
			tips = append(tips, fmt.Sprintf("Replies arrive on UDP port %d; check that nothing else is bound to it", protocol.ListenPort))
		}
		if errors.Is(err, protocol.ErrMalformedAddress) {
			tips = []string{"BSSID must be six hex bytes (aa:bb:cc:dd:ee:ff)", "IP must be four dotted decimal octets"}
		}
		if errors.Is(err, protocol.ErrIndexOutOfRange) {
			tips = []string{"The SSID and password are too long to encode together"}
		}
		printer.PrintError("Provisioning failed", err, tips)

	case result.Acked:
		fields := []ui.Field{
			{Key: "Device MAC", Value: result.BSSID},
			{Key: "Device IP", Value: result.IP},
			{Key: "Reply from", Value: fmt.Sprintf("%s:%d", result.PeerAddress, result.PeerPort)},
		}
		printer.PrintSuccess("Device acknowledged", append(fields, attemptFields(result)...))

	default:
		tips := append([]string(nil), urls.TimeoutHints...)
		tips = append(tips, "More: "+urls.SmartConfigGuide)
		printer.PrintWarning("No acknowledgment", attemptFields(result), tips)
	}
}

func attemptFields(result *provision.Result) []ui.Field {
	if result == nil {
		return nil
	}
	return []ui.Field{
		{Key: "Elapsed", Value: result.Elapsed.Round(time.Millisecond).String()},
		{Key: "Packets sent", Value: fmt.Sprint(result.PacketsSent)},
	}
}
