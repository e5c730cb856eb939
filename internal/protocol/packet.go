package protocol

import "bytes"

// Materialize returns a datagram whose length equals code. Only the length is
// meaningful on the wire.
func Materialize(code uint16) []byte {
	return bytes.Repeat([]byte{fillByte}, int(code))
}

// MaterializeAll materializes every code, preserving order.
func MaterializeAll(codes []uint16) [][]byte {
	packets := make([][]byte, len(codes))
	for i, code := range codes {
		packets[i] = Materialize(code)
	}
	return packets
}
