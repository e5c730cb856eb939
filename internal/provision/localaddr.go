package provision

import (
	"fmt"
	"net"
)

// LocalIPv4 returns the IPv4 address of the first interface that is up, not a
// loopback, and has a private or global unicast IPv4 address. This is the
// address a device reports back to, and the default credential IP.
func LocalIPv4() (string, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return "", fmt.Errorf("failed to list network interfaces: %w", err)
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		if ip := firstIPv4(addrs); ip != nil {
			return ip.String(), nil
		}
	}

	return "", fmt.Errorf("no non-loopback IPv4 address found")
}

// firstIPv4 picks the first global unicast IPv4 address from addrs
func firstIPv4(addrs []net.Addr) net.IP {
	for _, addr := range addrs {
		var ip net.IP
		switch v := addr.(type) {
		case *net.IPNet:
			ip = v.IP
		case *net.IPAddr:
			ip = v.IP
		}
		if ip4 := ip.To4(); ip4 != nil && ip4.IsGlobalUnicast() {
			return ip4
		}
	}
	return nil
}
