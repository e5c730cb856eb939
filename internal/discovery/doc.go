// Package discovery confirms over mDNS that a provisioned device has joined
// the network.
//
// A device acknowledges a credential with its MAC and the IP address it was
// given. Browsing mDNS for that address, or for a hostname carrying the MAC,
// shows the device is actually reachable on the LAN and not just briefly
// associated.
//
// # Verification Process
//
//  1. Browse the configured service type (default "_http._tcp") in "local."
//  2. Convert each service entry into a Device
//  3. Stop at the first device whose addresses or MAC match the target
//  4. Give up when the timeout elapses
//
// # Usage Example
//
//	scanner := discovery.NewScanner(logger)
//	scanner.Timeout = 10 * time.Second
//
//	device, err := scanner.FindDevice(ctx, discovery.Target{IP: "192.168.1.77"})
//	if errors.Is(err, discovery.ErrDeviceNotFound) {
//	    fmt.Println("device did not announce itself")
//	}
//
// # Network Requirements
//
// - Requires multicast support on the network interface
// - Devices must be on the same local network segment
// - Firewall must allow mDNS (UDP port 5353)
package discovery
