package digest

import "testing"

func TestIdOfDeterministic(t *testing.T) {
	a := IdOf([]byte("canonical bytes"))
	b := IdOf([]byte("canonical bytes"))
	if a != b {
		t.Fatal("IdOf is not deterministic")
	}
}

func TestPackIndexRange(t *testing.T) {
	for _, b0 := range []byte{0x00, 0xff, 0x12, 0x9a} {
		for _, b1 := range []byte{0x00, 0xff, 0x34} {
			var h Hash
			h[0], h[1] = b0, b1
			id := Id(h)
			idx := id.PackIndex()
			if idx < 0 || idx >= NumPacks {
				t.Fatalf("PackIndex() = %d out of range [0, %d)", idx, NumPacks)
			}
		}
	}
}

func TestPackIndexTopTwelveBits(t *testing.T) {
	var h Hash
	h[0] = 0b10100101
	h[1] = 0b11110000
	id := Id(h)
	want := int(0b101001011111)
	if got := id.PackIndex(); got != want {
		t.Errorf("PackIndex() = %012b, want %012b", got, want)
	}
}

func TestPackNameIsZeroPaddedHex(t *testing.T) {
	if got := PackName(0); got != "000" {
		t.Errorf("PackName(0) = %q", got)
	}
	if got := PackName(NumPacks - 1); got != "fff" {
		t.Errorf("PackName(max) = %q", got)
	}
	if got := PackName(0x1a2); got != "1a2" {
		t.Errorf("PackName(0x1a2) = %q", got)
	}
}

func TestPackIndicesCoversAllShards(t *testing.T) {
	all := PackIndices()
	if len(all) != NumPacks {
		t.Fatalf("len = %d, want %d", len(all), NumPacks)
	}
	for i, v := range all {
		if v != i {
			t.Fatalf("PackIndices()[%d] = %d", i, v)
		}
	}
}
