package discovery

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"
)

const (
	// DefaultServiceType is browsed when no other service type is configured
	DefaultServiceType = "_http._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for device discovery
	DefaultScanTimeout = 10 * time.Second
)

// ErrDeviceNotFound is returned when no matching device answers in time
var ErrDeviceNotFound = errors.New("device not found")

// Target identifies the device to look for. Empty fields are ignored; a
// device matches when any set field matches.
type Target struct {
	IP  string
	MAC string
}

func (t Target) matches(d *Device) bool {
	if t.IP != "" && d.HasAddress(t.IP) {
		return true
	}
	return t.MAC != "" && d.MatchesMAC(t.MAC)
}

func (t Target) String() string {
	switch {
	case t.IP != "" && t.MAC != "":
		return fmt.Sprintf("%s (%s)", t.IP, t.MAC)
	case t.IP != "":
		return t.IP
	default:
		return t.MAC
	}
}

// Scanner handles mDNS device discovery
type Scanner struct {
	// Timeout is the maximum time to wait for device discovery
	Timeout time.Duration

	// ServiceType is the service browsed. Default: "_http._tcp"
	ServiceType string

	logger *zap.Logger
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner(logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scanner{
		Timeout:     DefaultScanTimeout,
		ServiceType: DefaultServiceType,
		logger:      logger,
	}
}

// Scan lists every device advertising the service type until the timeout.
func (s *Scanner) Scan(ctx context.Context) ([]*Device, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var mu sync.Mutex
	devices := make([]*Device, 0)

	err := s.browse(ctx, func(device *Device) bool {
		mu.Lock()
		devices = append(devices, device)
		mu.Unlock()
		return false
	})
	if err != nil {
		return nil, err
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	return append([]*Device(nil), devices...), nil
}

// FindDevice browses until a device matching target answers. It returns
// ErrDeviceNotFound when the timeout elapses first.
func (s *Scanner) FindDevice(ctx context.Context, target Target) (*Device, error) {
	if target.IP == "" && target.MAC == "" {
		return nil, fmt.Errorf("no IP or MAC to look for")
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	found := make(chan *Device, 1)
	err := s.browse(ctx, func(device *Device) bool {
		if !target.matches(device) {
			return false
		}
		select {
		case found <- device:
		default:
		}
		cancel()
		return true
	})
	if err != nil {
		return nil, err
	}

	select {
	case device := <-found:
		return device, nil
	case <-ctx.Done():
		// A match may have raced the cancel
		select {
		case device := <-found:
			return device, nil
		default:
		}
		return nil, fmt.Errorf("%w: %s within %v", ErrDeviceNotFound, target, s.Timeout)
	}
}

// browse starts a zeroconf browse and hands each parsed device to visit
// until visit returns true or the entries channel is closed.
func (s *Scanner) browse(ctx context.Context, visit func(*Device) bool) error {
	serviceType := s.ServiceType
	if serviceType == "" {
		serviceType = DefaultServiceType
	}

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		done := false
		for entry := range entries {
			if done {
				continue
			}
			device := parseServiceEntry(entry)
			if device == nil {
				continue
			}
			s.logger.Debug("mDNS service entry",
				zap.String("instance", device.Instance),
				zap.String("hostname", device.Hostname),
				zap.Strings("addresses", device.Addresses),
			)
			done = visit(device)
		}
	}()

	s.logger.Debug("browsing mDNS",
		zap.String("service", serviceType),
		zap.Duration("timeout", s.Timeout),
	)
	if err := resolver.Browse(ctx, serviceType, ServiceDomain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}
	return nil
}

// parseServiceEntry converts a zeroconf service entry to a Device.
// Returns nil if the entry carries no address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Device {
	if entry == nil {
		return nil
	}

	addresses := make([]string, 0, len(entry.AddrIPv4)+len(entry.AddrIPv6))
	for _, addr := range entry.AddrIPv4 {
		addresses = append(addresses, addr.String())
	}
	for _, addr := range entry.AddrIPv6 {
		addresses = append(addresses, addr.String())
	}
	if len(addresses) == 0 {
		return nil
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		key, value, _ := strings.Cut(txt, "=")
		metadata[key] = value
	}

	return &Device{
		Instance:     entry.Instance,
		Hostname:     entry.HostName,
		IP:           addresses[0],
		Addresses:    addresses,
		Port:         entry.Port,
		MAC:          metadata["mac"],
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}
