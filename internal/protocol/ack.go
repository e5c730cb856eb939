package protocol

import (
	"encoding/hex"
	"fmt"
	"net"
)

// Ack is a decoded acknowledgment from a provisioned device.
//
// Wire format (11 bytes):
//
//	[0]     marker   len(ssid)+len(password)+9
//	[1-6]   mac      device MAC address
//	[7-10]  ip       device IPv4 address
type Ack struct {
	Marker byte
	MAC    net.HardwareAddr
	IP     net.IP
}

// ParseAck validates data against the acknowledgment format and the expected
// marker. The returned error explains why a datagram was rejected; callers
// treat it as a discard, never as a fatal condition.
func ParseAck(data []byte, expectedMarker int) (*Ack, error) {
	if len(data) != AckLen {
		return nil, fmt.Errorf("ack length %d, want %d", len(data), AckLen)
	}
	if int(data[0]) != expectedMarker {
		return nil, fmt.Errorf("ack marker %d, want %d", data[0], expectedMarker)
	}

	mac := make(net.HardwareAddr, BSSIDLen)
	copy(mac, data[1:1+BSSIDLen])
	ip := make(net.IP, IPv4Len)
	copy(ip, data[1+BSSIDLen:AckLen])

	return &Ack{
		Marker: data[0],
		MAC:    mac,
		IP:     ip,
	}, nil
}

// BSSIDHex returns the MAC as lowercase hex without separators, e.g. "aabbccddeeff".
func (a *Ack) BSSIDHex() string {
	return hex.EncodeToString(a.MAC)
}

// IPString returns the device address in dotted-decimal form.
func (a *Ack) IPString() string {
	return a.IP.String()
}
