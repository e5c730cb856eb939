package protocol

import "fmt"

// xorIndex is the position of the checksum DataCode.
const xorIndex = 4

var headerFields = []string{"total_len", "password_len", "ssid_crc", "bssid_crc", "checksum"}

// Datum is the ordered list of DataCodes built from one Credential.
type Datum struct {
	groups      []DataCode
	checksum    byte
	passwordLen int
}

// datumBuilder threads the running XOR through the DataCodes as they are added.
type datumBuilder struct {
	groups   []DataCode
	totalXor byte
	err      error
}

// add appends a DataCode for v at the next index and folds v into the XOR.
func (b *datumBuilder) add(v byte) {
	b.addUnchecked(v)
	b.totalXor ^= v
}

// addUnchecked appends a DataCode for v without touching the XOR.
func (b *datumBuilder) addUnchecked(v byte) {
	if b.err != nil {
		return
	}
	dc, err := EncodeDataCode(v, len(b.groups))
	if err != nil {
		b.err = err
		return
	}
	b.groups = append(b.groups, dc)
}

// reserve appends an empty slot for a value filled in later.
func (b *datumBuilder) reserve() {
	b.groups = append(b.groups, DataCode{})
}

// NewDatum builds the Datum for cred.
//
// The sequence is:
//
//	totalLen, pwdLen, ssidCrc, bssidCrc, totalXor, ip[0..3], password..., [ssid...]
//
// totalXor covers every value before and after its own slot, plus every SSID
// byte even when the SSID is not hidden and therefore not sent.
func NewDatum(cred Credential) (*Datum, error) {
	bssid, err := ParseBSSID(cred.BSSID)
	if err != nil {
		return nil, err
	}
	ip, err := ParseIPv4(cred.IP)
	if err != nil {
		return nil, err
	}

	ssidCRC := Checksum(cred.SSID)
	bssidCRC := Checksum(bssid)
	totalLen := ExtraHeadLen + len(ip) + len(cred.Password) + len(cred.SSID)

	b := &datumBuilder{}
	b.add(byte(totalLen))
	b.add(byte(len(cred.Password)))
	b.add(ssidCRC)
	b.add(bssidCRC)

	b.reserve()

	for _, octet := range ip {
		b.add(octet)
	}
	for _, c := range cred.Password {
		b.add(c)
	}
	for _, c := range cred.SSID {
		b.totalXor ^= c
	}
	if cred.HiddenSSID {
		for _, c := range cred.SSID {
			b.addUnchecked(c)
		}
	}
	if b.err != nil {
		return nil, b.err
	}

	xorCode, err := EncodeDataCode(b.totalXor, xorIndex)
	if err != nil {
		return nil, err
	}
	b.groups[xorIndex] = xorCode

	return &Datum{
		groups:      b.groups,
		checksum:    b.totalXor,
		passwordLen: len(cred.Password),
	}, nil
}

// Groups returns the DataCodes in index order.
func (d *Datum) Groups() []DataCode {
	out := make([]DataCode, len(d.groups))
	copy(out, d.groups)
	return out
}

// Field names the credential field carried by the DataCode at index, or
// returns "" when index is outside the datum.
func (d *Datum) Field(index int) string {
	ipEnd := xorIndex + 1 + IPv4Len
	switch {
	case index < 0 || index >= len(d.groups):
		return ""
	case index < len(headerFields):
		return headerFields[index]
	case index < ipEnd:
		return fmt.Sprintf("ip[%d]", index-xorIndex-1)
	case index < ipEnd+d.passwordLen:
		return fmt.Sprintf("password[%d]", index-ipEnd)
	default:
		return fmt.Sprintf("ssid[%d]", index-ipEnd-d.passwordLen)
	}
}

// Checksum returns the totalXor value carried by the checksum DataCode.
func (d *Datum) Checksum() byte {
	return d.checksum
}

// Bytes returns all DataCodes flattened into one byte sequence.
func (d *Datum) Bytes() []byte {
	out := make([]byte, 0, len(d.groups)*DataCodeLen)
	for _, dc := range d.groups {
		out = append(out, dc[:]...)
	}
	return out
}

// Codes returns the packet-length codes: consecutive byte pairs read big-endian
// plus ExtraLen, in order.
func (d *Datum) Codes() []uint16 {
	raw := d.Bytes()
	codes := make([]uint16, 0, len(raw)/2)
	for i := 0; i+1 < len(raw); i += 2 {
		codes = append(codes, (uint16(raw[i])<<8|uint16(raw[i+1]))+ExtraLen)
	}
	return codes
}

// EncodeDatum encodes cred straight to packet-length codes.
func EncodeDatum(cred Credential) ([]uint16, error) {
	d, err := NewDatum(cred)
	if err != nil {
		return nil, err
	}
	return d.Codes(), nil
}
