package provision

import "net"

// targetRotation hands out 234.n.n.n with n cycling 1..100.
type targetRotation struct {
	count int
}

func (r *targetRotation) next() net.IP {
	r.count %= targetCount
	r.count++
	n := byte(r.count)
	return net.IPv4(targetFirstOctet, n, n, n)
}
