package discovery

import (
	"fmt"
	"strings"
	"time"

	"github.com/muurk/smartconfig/internal/config"
)

// Device represents a service instance seen over mDNS
type Device struct {
	// Instance is the mDNS service instance name
	Instance string `json:"instance"`

	// Hostname is the mDNS hostname (e.g., "esp32-123456.local.")
	Hostname string `json:"hostname"`

	// IP is the preferred address: the first IPv4, else the first IPv6
	IP string `json:"ip"`

	// Addresses holds every advertised address
	Addresses []string `json:"addresses"`

	// Port is the advertised service port
	Port int `json:"port"`

	// MAC is taken from a "mac" TXT record when the firmware publishes one
	MAC string `json:"mac,omitempty"`

	// Metadata contains the mDNS TXT record data
	Metadata map[string]string `json:"metadata,omitempty"`

	// DiscoveredAt is when the device was discovered
	DiscoveredAt time.Time `json:"discovered_at"`
}

// String returns a human-readable string representation of the device
func (d *Device) String() string {
	return fmt.Sprintf("%s (%s) at %s:%d", d.Instance, d.Hostname, d.IP, d.Port)
}

// GetMetadata retrieves a metadata value by key, or returns empty string if not found
func (d *Device) GetMetadata(key string) string {
	if d.Metadata == nil {
		return ""
	}
	return d.Metadata[key]
}

// HasAddress reports whether ip is one of the advertised addresses.
func (d *Device) HasAddress(ip string) bool {
	for _, addr := range d.Addresses {
		if addr == ip {
			return true
		}
	}
	return false
}

// MatchesMAC reports whether the device identifies as mac, given as lowercase
// hex without separators. A full match on the TXT record counts, as does a
// hostname ending in the last three MAC bytes, which is the default naming of
// common ESP firmware.
func (d *Device) MatchesMAC(mac string) bool {
	mac = config.NormalizeMAC(mac)
	if mac == "" {
		return false
	}
	if d.MAC != "" && config.NormalizeMAC(d.MAC) == mac {
		return true
	}
	if len(mac) != 12 {
		return false
	}
	suffix := hostSuffix(d.Hostname)
	return suffix != "" && suffix == mac[6:]
}

// hostSuffix returns the six hex digits after the last '-' of the first
// hostname label, lowercased, or "".
func hostSuffix(hostname string) string {
	label, _, _ := strings.Cut(hostname, ".")
	i := strings.LastIndexByte(label, '-')
	if i < 0 {
		return ""
	}
	suffix := strings.ToLower(label[i+1:])
	if len(suffix) != 6 || strings.Trim(suffix, "0123456789abcdef") != "" {
		return ""
	}
	return suffix
}
