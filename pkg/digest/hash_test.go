package digest

import (
	"bytes"
	"strings"
	"testing"

	"github.com/delan/autost-go/pkg/canon"
)

func TestSumDeterministic(t *testing.T) {
	a := Sum([]byte("first\nsecond"))
	b := Sum([]byte("first\nsecond"))
	if a != b {
		t.Fatal("Sum is not deterministic for equal inputs")
	}
}

func TestSumSensitiveToEveryByte(t *testing.T) {
	a := Sum([]byte("first\nsecond"))
	b := Sum([]byte("first\nsecand"))
	if a == b {
		t.Fatal("Sum did not change when one byte changed")
	}
}

func TestHashOrderingIsByteLexicographic(t *testing.T) {
	var lo, hi Hash
	lo[0], hi[0] = 0x01, 0x02
	if !lo.Less(hi) {
		t.Error("expected lo < hi")
	}
	if hi.Less(lo) {
		t.Error("expected hi not < lo")
	}
	if lo.Compare(lo) != 0 {
		t.Error("expected equal hash to compare as 0")
	}
}

func TestHashStringAndShort(t *testing.T) {
	h := Sum([]byte("hello"))
	full := h.String()
	if len(full) != 64 {
		t.Errorf("String() length = %d, want 64", len(full))
	}
	short := h.Short()
	if !strings.HasSuffix(short, "...") {
		t.Errorf("Short() = %q, expected ellipsis suffix", short)
	}
	if !strings.HasPrefix(full, short[:13]) {
		t.Errorf("Short() prefix mismatch with full hash")
	}
}

func TestHashEncodeCanonRoundTrip(t *testing.T) {
	h := Sum([]byte("round trip me"))
	w := canon.NewWriter(0)
	h.EncodeCanon(w)
	r := canon.NewReader(w.Bytes())
	got, err := DecodeHashCanon(r)
	if err != nil {
		t.Fatal(err)
	}
	if got != h {
		t.Errorf("round trip mismatch: got %s, want %s", got, h)
	}
}

func TestSumReaderMatchesSum(t *testing.T) {
	data := []byte("streamed content")
	h, err := SumReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if h != Sum(data) {
		t.Error("SumReader disagrees with Sum")
	}
}
