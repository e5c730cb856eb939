package protocol

// Wire constants shared with the receiving device.
const (
	// ExtraLen is added to every packet-length code so no code collapses to a
	// degenerate or reserved frame length.
	ExtraLen = 40

	// ExtraHeadLen counts the header DataCodes that precede the IP bytes:
	// totalLen, pwdLen, ssidCrc, bssidCrc and totalXor.
	ExtraHeadLen = 5

	// MaxIndex is the highest sequence index a DataCode can carry.
	MaxIndex = 127

	// DataCodeLen is the number of bytes in one DataCode.
	DataCodeLen = 6

	// CodesPerDataCode is the number of packet-length codes one DataCode
	// produces once paired.
	CodesPerDataCode = DataCodeLen / 2

	// BSSIDLen is the raw length of a BSSID (MAC address).
	BSSIDLen = 6

	// IPv4Len is the raw length of an IPv4 address.
	IPv4Len = 4

	// ListenPort is the local UDP port the device acknowledges to.
	ListenPort = 18266

	// TargetPort is the remote UDP port the encoded datagrams are sent to.
	TargetPort = 7001

	// AckLen is the size of the acknowledgment datagram: marker, MAC, IPv4.
	AckLen = 1 + BSSIDLen + IPv4Len

	// ackMarkerOffset is added to len(ssid)+len(password) to form the ack marker.
	ackMarkerOffset = 9

	// fillByte is the content of every materialized datagram.
	fillByte = '1'
)

// GuideCodes are the four packet lengths that announce a transmission.
// They are sent as a group at the start of every guide/data cycle.
var GuideCodes = []uint16{515, 514, 513, 512}
