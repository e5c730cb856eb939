package protocol

import (
	"bytes"
	"testing"
)

func TestMaterialize(t *testing.T) {
	codes := []uint16{ExtraLen + 1, 57, 296, 512, 515, 0xffff}

	for _, code := range codes {
		packet := Materialize(code)
		if len(packet) != int(code) {
			t.Errorf("len(Materialize(%d)) = %d, want %d", code, len(packet), code)
		}
		if len(packet) > 0 && !bytes.Equal(packet, bytes.Repeat([]byte{'1'}, int(code))) {
			t.Errorf("Materialize(%d) content is not the fill byte", code)
		}
	}
}

func TestMaterializeAll(t *testing.T) {
	codes, err := EncodeDatum(goldenCredential())
	if err != nil {
		t.Fatalf("EncodeDatum() error = %v", err)
	}

	packets := MaterializeAll(codes)
	if len(packets) != len(codes) {
		t.Fatalf("len(MaterializeAll()) = %d, want %d", len(packets), len(codes))
	}
	for i, p := range packets {
		if len(p) != int(codes[i]) {
			t.Errorf("packet %d length = %d, want %d", i, len(p), codes[i])
		}
	}

	guide := MaterializeAll(GuideCodes)
	wantGuide := []int{515, 514, 513, 512}
	for i, p := range guide {
		if len(p) != wantGuide[i] {
			t.Errorf("guide packet %d length = %d, want %d", i, len(p), wantGuide[i])
		}
	}
}
