package config

import (
	"sort"
	"strings"
	"time"
)

// Registry represents the entire configuration file.
type Registry struct {
	Version     int                 `yaml:"version"`
	Networks    map[string]*Network `yaml:"networks,omitempty"` // Keyed by SSID
	Devices     map[string]*Device  `yaml:"devices,omitempty"`  // Keyed by normalized MAC
	Preferences *Preferences        `yaml:"preferences,omitempty"`
}

// Network is a WiFi network credentials were sent for. The password is
// never stored.
type Network struct {
	BSSID      string    `yaml:"bssid"`                // Access point MAC as given on the command line
	Hidden     bool      `yaml:"hidden,omitempty"`     // Whether the SSID is not broadcast
	LastIP     string    `yaml:"last_ip,omitempty"`    // Client IP used in the last attempt
	LastUsed   time.Time `yaml:"last_used,omitempty"`  // Time of the last attempt
	Provisions int       `yaml:"provisions,omitempty"` // Number of acknowledged attempts
}

// Device is a device that acknowledged a credential.
type Device struct {
	Nickname      string    `yaml:"nickname,omitempty" json:"nickname,omitempty"`             // User-friendly name
	LastIP        string    `yaml:"last_ip,omitempty" json:"last_ip,omitempty"`               // IP reported in the acknowledgment
	Network       string    `yaml:"network,omitempty" json:"network,omitempty"`               // SSID the device was provisioned onto
	ProvisionedAt time.Time `yaml:"provisioned_at,omitempty" json:"provisioned_at,omitempty"` // Time of the acknowledgment
	Hostname      string    `yaml:"hostname,omitempty" json:"hostname,omitempty"`             // mDNS hostname, once verified
	VerifiedAt    time.Time `yaml:"verified_at,omitempty" json:"verified_at,omitempty"`       // Time of the last mDNS match
}

// Preferences represents application-wide user preferences.
type Preferences struct {
	VerifyAfterProvision bool   `yaml:"verify_after_provision"` // Browse mDNS after an ack
	DiscoverTimeout      int    `yaml:"discover_timeout"`       // mDNS browse timeout in seconds
	ServiceType          string `yaml:"service_type"`           // mDNS service browsed during verification
	SaveDevices          bool   `yaml:"save_devices"`           // Record acknowledged devices
}

const (
	// DefaultDiscoverTimeout is the mDNS browse timeout in seconds
	DefaultDiscoverTimeout = 10

	// DefaultServiceType is the mDNS service browsed during verification
	DefaultServiceType = "_http._tcp"
)

// DefaultPreferences returns the preferences of a fresh registry.
func DefaultPreferences() *Preferences {
	return &Preferences{
		VerifyAfterProvision: true,
		DiscoverTimeout:      DefaultDiscoverTimeout,
		ServiceType:          DefaultServiceType,
		SaveDevices:          true,
	}
}

// NewRegistry creates a new Registry with default values.
func NewRegistry() *Registry {
	return &Registry{
		Version:     1,
		Networks:    make(map[string]*Network),
		Devices:     make(map[string]*Device),
		Preferences: DefaultPreferences(),
	}
}

// NormalizeMAC lowercases mac and strips ':' and '-' separators.
func NormalizeMAC(mac string) string {
	mac = strings.ToLower(strings.TrimSpace(mac))
	return strings.NewReplacer(":", "", "-", "").Replace(mac)
}

// GetNetwork returns the network recorded for ssid, or nil.
func (r *Registry) GetNetwork(ssid string) *Network {
	return r.Networks[ssid]
}

// RecordNetwork records an attempt for ssid.
func (r *Registry) RecordNetwork(ssid, bssid string, hidden bool, ip string) *Network {
	if r.Networks == nil {
		r.Networks = make(map[string]*Network)
	}

	network, exists := r.Networks[ssid]
	if !exists {
		network = &Network{}
		r.Networks[ssid] = network
	}
	network.BSSID = bssid
	network.Hidden = hidden
	network.LastIP = ip
	network.LastUsed = time.Now()
	return network
}

// GetDevice retrieves a device by MAC in any accepted notation.
// Returns nil if the device doesn't exist in the registry.
func (r *Registry) GetDevice(mac string) *Device {
	return r.Devices[NormalizeMAC(mac)]
}

// EnsureDevice returns the entry for mac, creating it if needed.
func (r *Registry) EnsureDevice(mac string) *Device {
	if r.Devices == nil {
		r.Devices = make(map[string]*Device)
	}

	key := NormalizeMAC(mac)
	if device, exists := r.Devices[key]; exists {
		return device
	}

	device := &Device{}
	r.Devices[key] = device
	return device
}

// RecordDevice records an acknowledgment from mac and counts it against the
// network it was provisioned onto.
func (r *Registry) RecordDevice(mac, ip, ssid string) *Device {
	device := r.EnsureDevice(mac)
	device.LastIP = ip
	device.Network = ssid
	device.ProvisionedAt = time.Now()

	if network := r.GetNetwork(ssid); network != nil {
		network.Provisions++
	}
	return device
}

// MarkVerified records that mac answered an mDNS browse as hostname.
func (r *Registry) MarkVerified(mac, hostname string) {
	device := r.EnsureDevice(mac)
	device.Hostname = hostname
	device.VerifiedAt = time.Now()
}

// SetDeviceNickname sets a user-friendly nickname for a device.
func (r *Registry) SetDeviceNickname(mac, nickname string) {
	device := r.EnsureDevice(mac)
	device.Nickname = nickname
}

// DeviceMACByIP returns the MAC of the device last seen at ip, or "" when no
// recorded device has that address. When an address was reused, the most
// recently provisioned device wins.
func (r *Registry) DeviceMACByIP(ip string) string {
	var found string
	var latest time.Time
	for _, mac := range r.DeviceMACs() {
		device := r.Devices[mac]
		if ip == "" || device.LastIP != ip {
			continue
		}
		if found == "" || device.ProvisionedAt.After(latest) {
			found, latest = mac, device.ProvisionedAt
		}
	}
	return found
}

// DeviceMACs returns the device keys in sorted order.
func (r *Registry) DeviceMACs() []string {
	macs := make([]string, 0, len(r.Devices))
	for mac := range r.Devices {
		macs = append(macs, mac)
	}
	sort.Strings(macs)
	return macs
}
