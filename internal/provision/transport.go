package provision

import (
	"fmt"
	"net"
)

// PacketConn is the subset of net.PacketConn an attempt uses. One socket sends
// the encoded datagrams and receives the acknowledgment.
type PacketConn interface {
	WriteTo(p []byte, addr net.Addr) (int, error)
	ReadFrom(p []byte) (int, net.Addr, error)
	Close() error
}

// Transport opens the socket for an attempt.
type Transport interface {
	Listen(port int) (PacketConn, error)
}

// UDPTransport binds a real IPv4 UDP socket on all interfaces.
type UDPTransport struct{}

// Listen binds 0.0.0.0:port. Port 0 picks an ephemeral port.
func (UDPTransport) Listen(port int) (PacketConn, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: port})
	if err != nil {
		return nil, fmt.Errorf("failed to listen on udp4 port %d: %w", port, err)
	}
	return conn, nil
}
