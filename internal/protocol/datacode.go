package protocol

import "fmt"

// DataCode is the six-byte group that carries one payload byte at one index.
type DataCode [DataCodeLen]byte

// EncodeDataCode encodes value at sequence position index.
//
// Layout:
//
//	[0, crcHigh<<4|dataHigh, 1, index, 0, crcLow<<4|dataLow]
//
// where the CRC is taken over the two bytes [value, index].
// Returns ErrIndexOutOfRange if index is outside 0-127.
func EncodeDataCode(value byte, index int) (DataCode, error) {
	if index < 0 || index > MaxIndex {
		return DataCode{}, newIndexError(index)
	}

	crc := Checksum([]byte{value, byte(index)})

	return DataCode{
		0x00,
		combineNibbles(highNibble(crc), highNibble(value)),
		0x01,
		byte(index),
		0x00,
		combineNibbles(lowNibble(crc), lowNibble(value)),
	}, nil
}

// Value returns the payload byte carried by the code.
func (dc DataCode) Value() byte {
	return combineNibbles(lowNibble(dc[1]), lowNibble(dc[5]))
}

// CRC returns the CRC nibbles carried by the code, reassembled into a byte.
func (dc DataCode) CRC() byte {
	return combineNibbles(highNibble(dc[1]), highNibble(dc[5]))
}

// Index returns the sequence index carried by the code.
func (dc DataCode) Index() int {
	return int(dc[3])
}

// String returns a debug representation of the code
func (dc DataCode) String() string {
	return fmt.Sprintf("DataCode{index=%d, value=0x%02x, crc=0x%02x}", dc.Index(), dc.Value(), dc.CRC())
}

func highNibble(b byte) byte {
	return (b & 0xf0) >> 4
}

func lowNibble(b byte) byte {
	return b & 0x0f
}

func combineNibbles(high, low byte) byte {
	return high<<4 | low
}
