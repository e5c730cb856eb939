package protocol

const (
	crcPolynomial = 0x8c
	crcInitial    = 0x00
)

// crcTable is the reflected CRC-8 lookup table for crcPolynomial.
// Entries are masked to 16 bits although only the low 8 are ever set.
var crcTable = buildCRCTable()

func buildCRCTable() [256]uint16 {
	var table [256]uint16
	for dividend := 0; dividend < 256; dividend++ {
		remainder := uint32(dividend)
		for bit := 0; bit < 8; bit++ {
			if remainder&0x01 != 0 {
				remainder = (remainder >> 1) ^ crcPolynomial
			} else {
				remainder >>= 1
			}
		}
		table[dividend] = uint16(remainder & 0xffff)
	}
	return table
}

// Checksum computes the CRC of data.
//
// The running value is shifted left by a byte on every step, so only its low
// byte is meaningful; that byte is the CRC and is what Checksum returns.
func Checksum(data []byte) byte {
	value := uint32(crcInitial)
	for _, b := range data {
		index := (uint32(b) ^ value) & 0xff
		value = uint32(crcTable[index]) ^ (value << 8)
	}
	return byte(value)
}
