package provision

import (
	"fmt"
	"net"
	"time"
)

// Result is the outcome of one provisioning attempt.
//
// Acked is false with a nil error when the send window ran out: the device
// never answered, which is not a transport failure.
type Result struct {
	Acked       bool          `json:"acked"`
	State       State         `json:"-"`
	StateName   string        `json:"state"`
	PeerAddr    *net.UDPAddr  `json:"-"`
	PeerAddress string        `json:"peer_address,omitempty"`
	PeerPort    int           `json:"peer_port,omitempty"`
	BSSID       string        `json:"bssid,omitempty"` // Device MAC, lowercase hex without separators
	IP          string        `json:"ip,omitempty"`    // Device IPv4, dotted decimal
	Elapsed     time.Duration `json:"elapsed"`
	PacketsSent int           `json:"packets_sent"`
}

// Event reports progress of a running attempt to an Observer.
type Event struct {
	State       State
	Elapsed     time.Duration
	Budget      time.Duration
	PacketsSent int
	Target      string // Destination of the group just sent, if any
}

// Observer receives events on the sending goroutine. It must not block.
type Observer func(Event)

// SendError is returned when the socket refuses a datagram. The attempt ends
// immediately; sends are never retried.
type SendError struct {
	Target string // Destination address
	Length int    // Datagram length
	Err    error  // Underlying socket error
}

// Error implements the error interface
func (e *SendError) Error() string {
	return fmt.Sprintf("failed to send %d-byte datagram to %s: %v", e.Length, e.Target, e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *SendError) Unwrap() error {
	return e.Err
}

// ReceiveError is returned when reading from the acknowledgment socket fails.
// No acknowledgment can arrive after that, so the attempt ends.
type ReceiveError struct {
	Err error // Underlying socket error
}

// Error implements the error interface
func (e *ReceiveError) Error() string {
	return fmt.Sprintf("failed to read from acknowledgment socket: %v", e.Err)
}

// Unwrap returns the underlying error for error chain inspection
func (e *ReceiveError) Unwrap() error {
	return e.Err
}
