// Package protocol implements the ESP-Touch (SmartConfig) v1 encoding.
//
// ESP-Touch carries WiFi credentials to a device that is not yet on the network.
// The device cannot decrypt traffic, but it can sniff the length of every frame
// on the air. The client therefore encodes information in the byte length of
// UDP datagrams rather than in their contents.
//
// # Encoding Overview
//
// Each payload byte is expanded into a DataCode: six bytes that carry the
// byte's two nibbles, the nibbles of a CRC over (byte, index), and the index
// itself:
//
//	[0]  0x00
//	[1]  crcHigh<<4 | dataHigh
//	[2]  0x01
//	[3]  index (0-127)
//	[4]  0x00
//	[5]  crcLow<<4 | dataLow
//
// A Datum is the ordered list of DataCodes for one credential:
//
//	totalLen, pwdLen, ssidCrc, bssidCrc, totalXor, ip[0..3], password..., [ssid...]
//
// The SSID bytes are only transmitted when the network is hidden, but they are
// always folded into totalXor. Receivers depend on that.
//
// The flattened Datum bytes are paired big-endian into 16-bit values and biased
// by ExtraLen (40). Each resulting PacketLengthCode is sent as a datagram of
// exactly that many bytes.
//
// # Usage Example
//
//	cred := protocol.Credential{
//	    SSID:     []byte("Test"),
//	    BSSID:    "AA:BB:CC:DD:EE:FF",
//	    Password: []byte("12345678"),
//	    IP:       "192.168.1.1",
//	}
//
//	codes, err := protocol.EncodeDatum(cred)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	packets := protocol.MaterializeAll(codes)
//
// # Acknowledgment
//
// Once the device has joined the network it answers with an 11-byte UDP
// datagram on ListenPort: a marker byte (len(ssid)+len(password)+9), its MAC
// address and its IPv4 address. See ParseAck.
//
// # Thread Safety
//
// All functions in this package are pure. The CRC table is built once at
// package initialization and never written again.
package protocol
