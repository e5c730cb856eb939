package protocol

import (
	"errors"
	"testing"
)

// Packet lengths for SSID "Test", password "12345678", BSSID AA:BB:CC:DD:EE:FF,
// IP 192.168.1.1, captured from the reference encoder.
var goldenCodes = []uint16{
	57, 296, 93, 72, 297, 176, 251, 298, 244, 185, 299, 282, 238, 300, 109, 180, 301,
	216, 114, 302, 128, 104, 303, 153, 40, 304, 137, 155, 305, 121, 235, 306, 74, 123,
	307, 171, 219, 308, 124, 75, 309, 285, 187, 310, 174, 43, 311, 79, 235, 312, 144,
}

// The same credential with the SSID hidden adds one DataCode per SSID byte.
var goldenHiddenTail = []uint16{173, 313, 284, 174, 314, 109, 191, 315, 235, 159, 316, 60}

func goldenCredential() Credential {
	return Credential{
		SSID:     []byte("Test"),
		BSSID:    "AA:BB:CC:DD:EE:FF",
		Password: []byte("12345678"),
		IP:       "192.168.1.1",
	}
}

func equalCodes(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestEncodeDatum_Golden(t *testing.T) {
	d, err := NewDatum(goldenCredential())
	if err != nil {
		t.Fatalf("NewDatum() error = %v", err)
	}

	if got := len(d.Groups()); got != 17 {
		t.Errorf("len(Groups()) = %d, want 17", got)
	}
	if got := len(d.Bytes()); got != 102 {
		t.Errorf("len(Bytes()) = %d, want 102", got)
	}

	codes := d.Codes()
	if len(codes) != 51 {
		t.Fatalf("len(Codes()) = %d, want 51", len(codes))
	}
	for i := range goldenCodes {
		if codes[i] != goldenCodes[i] {
			t.Errorf("code[%d] = %d, want %d", i, codes[i], goldenCodes[i])
		}
	}

	viaEncode, err := EncodeDatum(goldenCredential())
	if err != nil {
		t.Fatalf("EncodeDatum() error = %v", err)
	}
	if !equalCodes(viaEncode, codes) {
		t.Error("EncodeDatum() and NewDatum().Codes() disagree")
	}
}

func TestEncodeDatum_GoldenHidden(t *testing.T) {
	cred := goldenCredential()
	cred.HiddenSSID = true
	cred.BSSID = "aa-bb-cc-dd-ee-ff"

	codes, err := EncodeDatum(cred)
	if err != nil {
		t.Fatalf("EncodeDatum() error = %v", err)
	}

	want := append(append([]uint16{}, goldenCodes...), goldenHiddenTail...)
	if !equalCodes(codes, want) {
		t.Errorf("EncodeDatum() = %v, want %v", codes, want)
	}
}

func TestEncodeDatum_EmptyPasswordAndSSID(t *testing.T) {
	codes, err := EncodeDatum(Credential{
		BSSID: "AA:BB:CC:DD:EE:FF",
		IP:    "10.0.0.2",
	})
	if err != nil {
		t.Fatalf("EncodeDatum() error = %v", err)
	}

	want := []uint16{216, 296, 81, 120, 297, 264, 216, 298, 232, 185, 299, 282, 249, 300, 171, 248, 301, 178, 248, 302, 248, 168, 303, 88, 120, 304, 90}
	if !equalCodes(codes, want) {
		t.Errorf("EncodeDatum() = %v, want %v", codes, want)
	}
}

func TestDatum_Order(t *testing.T) {
	d, err := NewDatum(goldenCredential())
	if err != nil {
		t.Fatalf("NewDatum() error = %v", err)
	}

	groups := d.Groups()
	for i, dc := range groups {
		if dc.Index() != i {
			t.Errorf("group %d carries index %d", i, dc.Index())
		}
	}

	wantValues := []byte{21, 8, Checksum([]byte("Test")), 0x12, d.Checksum(), 192, 168, 1, 1}
	wantValues = append(wantValues, []byte("12345678")...)
	for i, want := range wantValues {
		if got := groups[i].Value(); got != want {
			t.Errorf("group %d value = %d, want %d", i, got, want)
		}
	}
}

func TestDatum_ChecksumIncludesSSID(t *testing.T) {
	creds := []Credential{
		goldenCredential(),
		{SSID: []byte("HomeNet"), BSSID: "01:23:45:67:89:ab", Password: []byte("hunter22"), IP: "192.168.0.42"},
		{SSID: []byte("x"), BSSID: "ff-ff-ff-ff-ff-ff", IP: "172.16.254.1"},
		{SSID: []byte("café wifi"), BSSID: "00:11:22:33:44:55", Password: []byte("pässwörd"), IP: "10.1.2.3"},
	}

	for _, base := range creds {
		for _, hidden := range []bool{false, true} {
			cred := base
			cred.HiddenSSID = hidden

			d, err := NewDatum(cred)
			if err != nil {
				t.Fatalf("NewDatum(%q) error = %v", cred.SSID, err)
			}

			bssid, _ := ParseBSSID(cred.BSSID)
			ip, _ := ParseIPv4(cred.IP)

			want := byte(ExtraHeadLen + IPv4Len + len(cred.Password) + len(cred.SSID))
			want ^= byte(len(cred.Password))
			want ^= Checksum(cred.SSID)
			want ^= Checksum(bssid)
			for _, b := range ip {
				want ^= b
			}
			for _, b := range cred.Password {
				want ^= b
			}
			for _, b := range cred.SSID {
				want ^= b
			}

			if d.Checksum() != want {
				t.Errorf("ssid=%q hidden=%v: Checksum() = 0x%02x, want 0x%02x", cred.SSID, hidden, d.Checksum(), want)
			}
			if got := d.Groups()[4].Value(); got != want {
				t.Errorf("ssid=%q hidden=%v: checksum code value = 0x%02x, want 0x%02x", cred.SSID, hidden, got, want)
			}

			wantGroups := ExtraHeadLen + IPv4Len + len(cred.Password)
			if hidden {
				wantGroups += len(cred.SSID)
			}
			if got := len(d.Groups()); got != wantGroups {
				t.Errorf("ssid=%q hidden=%v: len(Groups()) = %d, want %d", cred.SSID, hidden, got, wantGroups)
			}
			if got := len(d.Codes()); got != wantGroups*CodesPerDataCode {
				t.Errorf("ssid=%q hidden=%v: len(Codes()) = %d, want %d", cred.SSID, hidden, got, wantGroups*CodesPerDataCode)
			}
		}
	}
}

func TestEncodeDatum_Errors(t *testing.T) {
	long := make([]byte, 64)
	for i := range long {
		long[i] = 'a'
	}

	tests := []struct {
		name    string
		cred    Credential
		wantErr error
	}{
		{
			name:    "ip with three components",
			cred:    Credential{BSSID: "AA:BB:CC:DD:EE:FF", IP: "192.168.1"},
			wantErr: ErrMalformedAddress,
		},
		{
			name:    "ip with five components",
			cred:    Credential{BSSID: "AA:BB:CC:DD:EE:FF", IP: "1.2.3.4.5"},
			wantErr: ErrMalformedAddress,
		},
		{
			name:    "ip with non-decimal component",
			cred:    Credential{BSSID: "AA:BB:CC:DD:EE:FF", IP: "192.168.one.1"},
			wantErr: ErrMalformedAddress,
		},
		{
			name:    "ip octet out of range",
			cred:    Credential{BSSID: "AA:BB:CC:DD:EE:FF", IP: "192.168.1.256"},
			wantErr: ErrMalformedAddress,
		},
		{
			name:    "empty ip",
			cred:    Credential{BSSID: "AA:BB:CC:DD:EE:FF", IP: ""},
			wantErr: ErrMalformedAddress,
		},
		{
			name:    "bssid not hex",
			cred:    Credential{BSSID: "GG:BB:CC:DD:EE:FF", IP: "192.168.1.1"},
			wantErr: ErrMalformedAddress,
		},
		{
			name:    "bssid too short",
			cred:    Credential{BSSID: "AA:BB:CC:DD:EE", IP: "192.168.1.1"},
			wantErr: ErrMalformedAddress,
		},
		{
			name: "hidden ssid pushes index past 127",
			cred: Credential{
				SSID:       long,
				Password:   long,
				BSSID:      "AA:BB:CC:DD:EE:FF",
				IP:         "192.168.1.1",
				HiddenSSID: true,
			},
			wantErr: ErrIndexOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codes, err := EncodeDatum(tt.cred)
			if err == nil {
				t.Fatalf("EncodeDatum() = %v, want error", codes)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("EncodeDatum() error = %v, want %v", err, tt.wantErr)
			}
			var encErr *EncodingError
			if !errors.As(err, &encErr) {
				t.Errorf("EncodeDatum() error type = %T, want *EncodingError", err)
			}
		})
	}
}

func TestEncodeDatum_LongVisibleSSIDFits(t *testing.T) {
	// The SSID is not sent when visible, so it does not consume indices.
	ssid := make([]byte, 32)
	for i := range ssid {
		ssid[i] = 'n'
	}
	password := make([]byte, 63)
	for i := range password {
		password[i] = 'p'
	}

	codes, err := EncodeDatum(Credential{SSID: ssid, Password: password, BSSID: "AA:BB:CC:DD:EE:FF", IP: "192.168.1.1"})
	if err != nil {
		t.Fatalf("EncodeDatum() error = %v", err)
	}
	if want := (ExtraHeadLen + IPv4Len + 63) * CodesPerDataCode; len(codes) != want {
		t.Errorf("len(codes) = %d, want %d", len(codes), want)
	}
}

func TestDatum_Field(t *testing.T) {
	cred := goldenCredential()
	cred.HiddenSSID = true

	d, err := NewDatum(cred)
	if err != nil {
		t.Fatalf("NewDatum() error = %v", err)
	}

	tests := []struct {
		index int
		want  string
	}{
		{0, "total_len"},
		{1, "password_len"},
		{2, "ssid_crc"},
		{3, "bssid_crc"},
		{4, "checksum"},
		{5, "ip[0]"},
		{8, "ip[3]"},
		{9, "password[0]"},
		{16, "password[7]"},
		{17, "ssid[0]"},
		{20, "ssid[3]"},
		{21, ""},
		{-1, ""},
	}

	for _, tt := range tests {
		if got := d.Field(tt.index); got != tt.want {
			t.Errorf("Field(%d) = %q, want %q", tt.index, got, tt.want)
		}
	}
}
