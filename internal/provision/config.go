package provision

import (
	"fmt"
	"time"

	"github.com/muurk/smartconfig/internal/protocol"
)

const (
	// DefaultGuideTimeout is how long guide codes are repeated per cycle
	DefaultGuideTimeout = 2000 * time.Millisecond

	// DefaultDataTimeout is how long data codes are sent per cycle
	DefaultDataTimeout = 4000 * time.Millisecond

	// DefaultInterval is the pause after every packet in both phases
	DefaultInterval = 8 * time.Millisecond

	// DefaultSendWindow is the overall sending budget of one attempt
	DefaultSendWindow = 45000 * time.Millisecond

	// WindowSize is the number of data codes sent per data-phase group
	WindowSize = protocol.CodesPerDataCode

	// targetCount is the number of rotating destination addresses
	targetCount = 100

	// targetFirstOctet is the first octet of every destination address
	targetFirstOctet = 234
)

// Config holds the timing and port settings of a provisioning attempt.
type Config struct {
	// GuideTimeout is the length of the guide phase. Default: 2000ms
	GuideTimeout time.Duration

	// DataTimeout is the length of the data phase. Default: 4000ms
	DataTimeout time.Duration

	// GuideInterval is the pause after each guide packet. Default: 8ms
	GuideInterval time.Duration

	// DataInterval is the pause after each data packet. Default: 8ms
	DataInterval time.Duration

	// SendWindow is the overall time budget. Default: 45s
	SendWindow time.Duration

	// ListenPort is the local port acknowledgments arrive on. Default: 18266
	ListenPort int

	// TargetPort is the destination port of every datagram. Default: 7001
	TargetPort int
}

// DefaultConfig returns the protocol's standard timing and ports.
func DefaultConfig() Config {
	return Config{
		GuideTimeout:  DefaultGuideTimeout,
		DataTimeout:   DefaultDataTimeout,
		GuideInterval: DefaultInterval,
		DataInterval:  DefaultInterval,
		SendWindow:    DefaultSendWindow,
		ListenPort:    protocol.ListenPort,
		TargetPort:    protocol.TargetPort,
	}
}

// CycleTimeout is the combined guide and data phase budget.
func (c Config) CycleTimeout() time.Duration {
	return c.GuideTimeout + c.DataTimeout
}

// Validate checks that the configuration can drive an attempt.
func (c Config) Validate() error {
	if c.GuideTimeout <= 0 || c.DataTimeout <= 0 {
		return fmt.Errorf("phase timeouts must be positive (guide %v, data %v)", c.GuideTimeout, c.DataTimeout)
	}
	if c.GuideInterval <= 0 || c.DataInterval <= 0 {
		return fmt.Errorf("packet intervals must be positive (guide %v, data %v)", c.GuideInterval, c.DataInterval)
	}
	if c.SendWindow <= 0 {
		return fmt.Errorf("send window must be positive, got %v", c.SendWindow)
	}
	if c.ListenPort < 0 || c.ListenPort > 65535 {
		return fmt.Errorf("listen port out of range: %d", c.ListenPort)
	}
	if c.TargetPort <= 0 || c.TargetPort > 65535 {
		return fmt.Errorf("target port out of range: %d", c.TargetPort)
	}
	return nil
}
