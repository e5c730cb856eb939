package protocol

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// Credential holds the network details sent to the device.
type Credential struct {
	// SSID is the raw network name. It may contain any bytes.
	SSID []byte

	// BSSID is the access point MAC, "xx:xx:xx:xx:xx:xx" or "xx-xx-xx-xx-xx-xx".
	BSSID string

	// Password is the raw network password. Empty for open networks.
	Password []byte

	// IP is the client's IPv4 address in dotted-decimal form.
	IP string

	// HiddenSSID sends the SSID bytes as DataCodes of their own.
	HiddenSSID bool
}

// AckMarker returns the first byte the device is expected to send back:
// len(ssid)+len(password)+9. The value is an int because it can exceed a byte
// for very long inputs, in which case no acknowledgment can ever match.
func (c Credential) AckMarker() int {
	return len(c.SSID) + len(c.Password) + ackMarkerOffset
}

// ParseBSSID converts a BSSID string into its raw bytes. Colon and hyphen
// separators are ignored.
func ParseBSSID(bssid string) ([]byte, error) {
	stripped := strings.NewReplacer(":", "", "-", "").Replace(bssid)

	raw, err := hex.DecodeString(stripped)
	if err != nil {
		return nil, newAddressError("BSSID is not valid hex", bssid, err)
	}
	if len(raw) != BSSIDLen {
		return nil, newAddressError(fmt.Sprintf("BSSID must be %d bytes, got %d", BSSIDLen, len(raw)), bssid, nil)
	}

	return raw, nil
}

// ParseIPv4 converts a dotted-decimal IPv4 string into its four raw octets.
func ParseIPv4(ip string) ([]byte, error) {
	parts := strings.Split(ip, ".")
	if len(parts) != IPv4Len {
		return nil, newAddressError(fmt.Sprintf("IPv4 address must have %d components, got %d", IPv4Len, len(parts)), ip, nil)
	}

	raw := make([]byte, IPv4Len)
	for i, part := range parts {
		octet, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, newAddressError(fmt.Sprintf("IPv4 component %d is not a decimal number", i+1), ip, err)
		}
		if octet < 0 || octet > 255 {
			return nil, newAddressError(fmt.Sprintf("IPv4 component %d out of range: %d", i+1, octet), ip, nil)
		}
		raw[i] = byte(octet)
	}

	return raw, nil
}
