package main

import (
	"context"
	"errors"
	"fmt"
	"os"
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

// Credential flags shared by provision and encode
var (
	ssid     string
	bssid    string
	password string
	clientIP string
	hidden   bool
)

// Other command flags
var (
	encodeFormat  string
	devicesFormat string
	verifyIP      string
	verifyMAC     string
	verifyTimeout int
	serviceType   string
	verifySave    bool
	discoverJSON  bool
)

func addCredentialFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ssid, "ssid", "", "Network name (required)")
	cmd.Flags().StringVar(&bssid, "bssid", "", "Access point MAC, e.g. aa:bb:cc:dd:ee:ff (default: last BSSID used for --ssid)")
	cmd.Flags().StringVar(&password, "password", "", "Network password (prompted for when omitted)")
	cmd.Flags().StringVar(&clientIP, "ip", "", "IPv4 address the device reports back to (default: this host's address)")
	cmd.Flags().BoolVar(&hidden, "hidden", false, "Network does not broadcast its SSID")
	_ = cmd.MarkFlagRequired("ssid")
}

func init() {
	rootCmd.AddCommand(provisionCmd)
	rootCmd.AddCommand(encodeCmd)
	rootCmd.AddCommand(devicesCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(discoverCmd)
}

// loadRegistry returns the registry, or a fresh one if it cannot be read.
// A broken registry never blocks provisioning; writable is false then so the
// broken file is not overwritten.
func loadRegistry() (registry *config.Registry, writable bool) {
	registry, err := config.LoadRegistry()
	if err != nil {
		logging.Warn("Failed to load registry, using defaults", zap.Error(err))
		return config.NewRegistry(), false
	}
	return registry, true
}

// resolveCredential builds the credential from flags, the registry, and the
// local network. askPassword controls whether a missing password is prompted.
func resolveCredential(cmd *cobra.Command, registry *config.Registry, askPassword bool) (protocol.Credential, error) {
	cred := protocol.Credential{
		SSID:       []byte(ssid),
		BSSID:      bssid,
		Password:   []byte(password),
		IP:         clientIP,
		HiddenSSID: hidden,
	}

	if cred.BSSID == "" {
		network := registry.GetNetwork(ssid)
		if network == nil || network.BSSID == "" {
			return cred, fmt.Errorf("--bssid is required: no BSSID recorded for %q", ssid)
		}
		cred.BSSID = network.BSSID
	}

	if cred.IP == "" {
		ip, err := provision.LocalIPv4()
		if err != nil {
			return cred, fmt.Errorf("cannot determine this host's IP address, pass --ip: %w", err)
		}
		cred.IP = ip
	}

	if askPassword && !cmd.Flags().Changed("password") {
		pw, err := ui.PromptPassword(os.Stdin, cmd.ErrOrStderr(), ssid)
		if err != nil {
			return cred, err
		}
		cred.Password = pw
	}

	return cred, nil
}

func checkFormat(format string, allowed ...string) error {
	for _, a := range allowed {
		if format == a {
			return nil
		}
	}
	return fmt.Errorf("unknown format %q (expected one of %v)", format, allowed)
}

// encodeCmd prints the packet lengths for a credential
var encodeCmd = &cobra.Command{
	Use:   "encode",
	Short: "Show the packet lengths a credential encodes to",
	Long: `Encode a credential without sending anything.

Prints every data code of the datum (field, value, CRC, raw bytes) and the
packet lengths it becomes. Useful for checking a device decoder against a
known-good encoding.`,
	Example: `  smartconfig encode --ssid Test --bssid AA:BB:CC:DD:EE:FF --password 12345678 --ip 192.168.1.1

  # Machine-readable output
  smartconfig encode --ssid Test --bssid AA:BB:CC:DD:EE:FF --ip 192.168.1.1 --format json`,
	RunE: runEncode,
}

func init() {
	addCredentialFlags(encodeCmd)
	encodeCmd.Flags().StringVar(&encodeFormat, "format", "table", "Output format (table, json)")
}

type encodedGroup struct {
	Index int    `json:"index"`
	Field string `json:"field"`
	Value byte   `json:"value"`
	CRC   byte   `json:"crc"`
	Bytes []int  `json:"bytes"`
	Codes []int  `json:"codes"`
}

type encodeOutput struct {
	GuideCodes []uint16       `json:"guide_codes"`
	Checksum   byte           `json:"checksum"`
	AckMarker  int            `json:"ack_marker"`
	Groups     []encodedGroup `json:"groups"`
	Codes      []uint16       `json:"codes"`
}

func runEncode(cmd *cobra.Command, args []string) error {
	if err := checkFormat(encodeFormat, "table", "json"); err != nil {
		return err
	}
	cmd.SilenceUsage = true

	registry, _ := loadRegistry()
	cred, err := resolveCredential(cmd, registry, false)
	if err != nil {
		return err
	}

	datum, err := protocol.NewDatum(cred)
	if err != nil {
		return fmt.Errorf("failed to encode credential: %w", err)
	}
	logging.LogRawBytes("datum", datum.Bytes())

	if encodeFormat == "json" {
		return printJSON(cmd, newEncodeOutput(datum, cred))
	}

	printer := ui.NewPrinter(cmd.OutOrStdout())
	printer.PrintHeader("Encode", "smartconfig encode", credentialParams(cred))
	printer.Println(ui.NewDatumTable(datum).SetWidth(printer.Width()).Render())
	return nil
}

func newEncodeOutput(datum *protocol.Datum, cred protocol.Credential) encodeOutput {
	codes := datum.Codes()
	out := encodeOutput{
		GuideCodes: protocol.GuideCodes,
		Checksum:   datum.Checksum(),
		AckMarker:  cred.AckMarker(),
		Codes:      codes,
	}
	for i, dc := range datum.Groups() {
		group := encodedGroup{
			Index: dc.Index(),
			Field: datum.Field(i),
			Value: dc.Value(),
			CRC:   dc.CRC(),
		}
		for _, b := range dc {
			group.Bytes = append(group.Bytes, int(b))
		}
		for _, c := range codes[i*protocol.CodesPerDataCode : (i+1)*protocol.CodesPerDataCode] {
			group.Codes = append(group.Codes, int(c))
		}
		out.Groups = append(out.Groups, group)
	}
	return out
}

// credentialParams lists the credential for a header. The password is
// shown only as its length.
func credentialParams(cred protocol.Credential) []ui.Field {
	params := []ui.Field{
		{Key: "SSID", Value: string(cred.SSID)},
		{Key: "BSSID", Value: cred.BSSID},
		{Key: "Password", Value: fmt.Sprintf("%d bytes", len(cred.Password))},
		{Key: "Client IP", Value: cred.IP},
	}
	if cred.HiddenSSID {
		params = append(params, ui.Field{Key: "Hidden SSID", Value: "yes"})
	}
	return params
}

// devicesCmd lists devices recorded in the registry
var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List provisioned devices",
	Long: `List the devices that acknowledged a credential, as recorded in the
registry (see 'smartconfig provision --save').`,
	RunE: runDevices,
}

func init() {
	devicesCmd.Flags().StringVar(&devicesFormat, "format", "detailed", "Output format (detailed, json)")
	devicesCmd.AddCommand(nicknameCmd)
}

// nicknameCmd names a recorded device
var nicknameCmd = &cobra.Command{
	Use:     "nickname <mac> <name>",
	Short:   "Give a provisioned device a nickname",
	Example: `  smartconfig devices nickname 24:0a:c4:12:34:56 "Kitchen Plug"`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		registry, err := config.LoadRegistry()
		if err != nil {
			return fmt.Errorf("failed to load registry: %w", err)
		}
		if registry.GetDevice(args[0]) == nil {
			return fmt.Errorf("no device recorded with MAC %s", args[0])
		}
		registry.SetDeviceNickname(args[0], args[1])
		if err := registry.Save(); err != nil {
			return fmt.Errorf("failed to save registry: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %q\n", config.NormalizeMAC(args[0]), args[1])
		return nil
	},
}

func runDevices(cmd *cobra.Command, args []string) error {
	if err := checkFormat(devicesFormat, "detailed", "json"); err != nil {
		return err
	}
	cmd.SilenceUsage = true

	registry, err := config.LoadRegistry()
	if err != nil {
		return fmt.Errorf("failed to load registry: %w", err)
	}

	if devicesFormat == "json" {
		return printJSON(cmd, registry.Devices)
	}

	out := cmd.OutOrStdout()
	macs := registry.DeviceMACs()
	if len(macs) == 0 {
		fmt.Fprintln(out, "No devices recorded.")
		fmt.Fprintln(out, "Use 'smartconfig provision --save' to record acknowledged devices.")
		return nil
	}

	fmt.Fprintf(out, "%d device(s):\n\n", len(macs))
	for i, mac := range macs {
		device := registry.Devices[mac]
		name := mac
		if device.Nickname != "" {
			name = fmt.Sprintf("%s (%s)", device.Nickname, mac)
		}
		fmt.Fprintf(out, "%d. %s\n", i+1, name)
		fmt.Fprintf(out, "   IP:          %s\n", device.LastIP)
		fmt.Fprintf(out, "   Network:     %s\n", device.Network)
		if !device.ProvisionedAt.IsZero() {
			fmt.Fprintf(out, "   Provisioned: %s\n", device.ProvisionedAt.Format(time.RFC3339))
		}
		if device.Hostname != "" {
			fmt.Fprintf(out, "   Hostname:    %s (verified %s)\n", device.Hostname, device.VerifiedAt.Format(time.RFC3339))
		}
		fmt.Fprintln(out)
	}
	return nil
}

// verifyCmd looks for a device over mDNS
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check over mDNS that a device has joined the network",
	Long: `Browse mDNS for a device by IP address or MAC.

A device that acknowledged provisioning should announce itself once it has
finished joining the network. Matching is by advertised address, by a "mac"
TXT record, or by a hostname ending in the last three MAC bytes.`,
	Example: `  smartconfig verify --ip 192.168.1.77
  smartconfig verify --mac 24:0a:c4:12:34:56 --timeout 20`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyIP, "ip", "", "Device IP address")
	verifyCmd.Flags().StringVar(&verifyMAC, "mac", "", "Device MAC address")
	verifyCmd.Flags().IntVar(&verifyTimeout, "timeout", 0, "Browse timeout in seconds (default: registry preference)")
	verifyCmd.Flags().StringVar(&serviceType, "service", "", "mDNS service type to browse (default: registry preference)")
	verifyCmd.Flags().BoolVar(&verifySave, "save", false, "Record the verified hostname in the registry (by --mac, or the device recorded at --ip)")
}

func runVerify(cmd *cobra.Command, args []string) error {
	if verifyIP == "" && verifyMAC == "" {
		return fmt.Errorf("one of --ip or --mac is required")
	}
	cmd.SilenceUsage = true

	registry, writable := loadRegistry()
	target := discovery.Target{IP: verifyIP, MAC: config.NormalizeMAC(verifyMAC)}

	var saveMAC string
	if verifySave {
		if !writable {
			return fmt.Errorf("--save: the registry could not be loaded, refusing to overwrite it")
		}
		mac, err := verifiedDeviceMAC(registry, target)
		if err != nil {
			return err
		}
		saveMAC = mac
	}

	printer := ui.NewPrinter(cmd.OutOrStdout())
	device, err := findDevice(cmd.Context(), registry, target)
	if err != nil {
		if errors.Is(err, discovery.ErrDeviceNotFound) {
			printer.PrintWarning("Device not found", []ui.Field{{Key: "Target", Value: target.String()}}, notFoundHints())
		} else {
			printer.PrintError("mDNS browse failed", err, nil)
		}
		return err
	}

	printVerified(printer, device)

	if saveMAC != "" {
		registry.MarkVerified(saveMAC, device.Hostname)
		if err := registry.Save(); err != nil {
			return fmt.Errorf("failed to save registry: %w", err)
		}
	}
	return nil
}

// verifiedDeviceMAC picks the registry entry a verification is saved to:
// the --mac given, else the recorded device last seen at --ip.
func verifiedDeviceMAC(registry *config.Registry, target discovery.Target) (string, error) {
	if target.MAC != "" {
		return target.MAC, nil
	}
	if mac := registry.DeviceMACByIP(target.IP); mac != "" {
		return mac, nil
	}
	return "", fmt.Errorf("--save: no recorded device has IP %s, pass --mac as well", target.IP)
}

// findDevice browses with flag values falling back to registry preferences
func findDevice(ctx context.Context, registry *config.Registry, target discovery.Target) (*discovery.Device, error) {
	device, err := newScanner(registry).FindDevice(ctx, target)
	if err == nil {
		logging.LogDevice("mdns", target.MAC, device.IP)
	}
	return device, err
}

func newScanner(registry *config.Registry) *discovery.Scanner {
	scanner := discovery.NewScanner(logging.GetLogger())
	scanner.Timeout = time.Duration(registry.Preferences.DiscoverTimeout) * time.Second
	scanner.ServiceType = registry.Preferences.ServiceType
	if verifyTimeout > 0 {
		scanner.Timeout = time.Duration(verifyTimeout) * time.Second
	}
	if serviceType != "" {
		scanner.ServiceType = serviceType
	}
	return scanner
}

func printVerified(printer *ui.Printer, device *discovery.Device) {
	printer.PrintSuccess("Device is on the network", []ui.Field{
		{Key: "Instance", Value: device.Instance},
		{Key: "Hostname", Value: device.Hostname},
		{Key: "Address", Value: fmt.Sprintf("%s:%d", device.IP, device.Port)},
	})
}

func notFoundHints() []string {
	return []string{
		"The device may still be joining; try again with a longer --timeout",
		"Not every firmware announces itself over mDNS; try --service with the type it uses",
		"Check that multicast traffic (UDP 5353) is allowed on this network",
		"Device-side details: " + urls.SmartConfigGuide,
	}
}

// discoverCmd lists everything advertising the service type
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "List devices announcing themselves over mDNS",
	Long: `Browse mDNS for the configured service type and list every answer.

Use this to find a freshly provisioned device when its address is unknown.`,
	RunE: runDiscover,
}

func init() {
	discoverCmd.Flags().IntVar(&verifyTimeout, "timeout", 0, "Browse timeout in seconds (default: registry preference)")
	discoverCmd.Flags().StringVar(&serviceType, "service", "", "mDNS service type to browse (default: registry preference)")
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "Output as JSON")
}

func runDiscover(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	registry, _ := loadRegistry()
	scanner := newScanner(registry)

	out := cmd.OutOrStdout()
	if !discoverJSON {
		fmt.Fprintf(out, "Browsing %s for %v...\n", scanner.ServiceType, scanner.Timeout)
	}

	devices, err := scanner.Scan(cmd.Context())
	if err != nil {
		return fmt.Errorf("mDNS browse failed: %w", err)
	}

	if discoverJSON {
		return printJSON(cmd, devices)
	}

	if len(devices) == 0 {
		fmt.Fprintln(out, "No devices found.")
		return nil
	}
	fmt.Fprintf(out, "\n%d device(s):\n\n", len(devices))
	for i, device := range devices {
		name := device.Instance
		if device.MAC != "" {
			if known := registry.GetDevice(device.MAC); known != nil && known.Nickname != "" {
				name = fmt.Sprintf("%s (%s)", known.Nickname, device.Instance)
			}
		}
		fmt.Fprintf(out, "%d. %s\n", i+1, name)
		fmt.Fprintf(out, "   Hostname: %s\n", device.Hostname)
		fmt.Fprintf(out, "   Address:  %s:%d\n", device.IP, device.Port)
		if device.MAC != "" {
			fmt.Fprintf(out, "   MAC:      %s\n", device.MAC)
		}
		fmt.Fprintln(out)
	}
	return nil
}
