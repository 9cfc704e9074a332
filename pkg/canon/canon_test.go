package canon

import (
	"bytes"
	"testing"
)

func TestWriterReaderRoundTripPrimitives(t *testing.T) {
	w := NewWriter(0)
	w.PutUint8(7)
	w.PutUint32(1234)
	w.PutUint64(9876543210)
	w.PutBool(true)
	w.PutBool(false)
	w.PutString("hello canon")
	w.PutBytes([]byte{1, 2, 3})
	w.PutFixed([]byte{0xaa, 0xbb})
	w.PutTag(3)
	w.PutSeqLen(2)

	r := NewReader(w.Bytes())
	if v, err := r.Uint8(); err != nil || v != 7 {
		t.Fatalf("Uint8 = %v, %v", v, err)
	}
	if v, err := r.Uint32(); err != nil || v != 1234 {
		t.Fatalf("Uint32 = %v, %v", v, err)
	}
	if v, err := r.Uint64(); err != nil || v != 9876543210 {
		t.Fatalf("Uint64 = %v, %v", v, err)
	}
	if v, err := r.Bool(); err != nil || v != true {
		t.Fatalf("Bool = %v, %v", v, err)
	}
	if v, err := r.Bool(); err != nil || v != false {
		t.Fatalf("Bool = %v, %v", v, err)
	}
	if v, err := r.String(); err != nil || v != "hello canon" {
		t.Fatalf("String = %v, %v", v, err)
	}
	if v, err := r.Bytes(); err != nil || !bytes.Equal(v, []byte{1, 2, 3}) {
		t.Fatalf("Bytes = %v, %v", v, err)
	}
	if v, err := r.Fixed(2); err != nil || !bytes.Equal(v, []byte{0xaa, 0xbb}) {
		t.Fatalf("Fixed = %v, %v", v, err)
	}
	if v, err := r.Tag(); err != nil || v != 3 {
		t.Fatalf("Tag = %v, %v", v, err)
	}
	if v, err := r.SeqLen(); err != nil || v != 2 {
		t.Fatalf("SeqLen = %v, %v", v, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("expected fully consumed buffer, %d bytes remaining", r.Remaining())
	}
}

func TestReaderShortBufferErrors(t *testing.T) {
	r := NewReader([]byte{1, 2})
	if _, err := r.Uint64(); err == nil {
		t.Fatal("expected short-buffer error")
	}
}

type fixedString string

func (s fixedString) EncodeCanon(w *Writer) {
	w.PutString(string(s))
}

func decodeFixedString(r *Reader) (fixedString, error) {
	s, err := r.String()
	return fixedString(s), err
}

func TestPutSeqPreservesOrder(t *testing.T) {
	items := []fixedString{"b", "a", "c"}
	w := NewWriter(0)
	PutSeq(w, items)

	r := NewReader(w.Bytes())
	got, err := ReadSeq(r, decodeFixedString)
	if err != nil {
		t.Fatal(err)
	}
	want := []fixedString{"b", "a", "c"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestPutSortedSeqSortsRegardlessOfInputOrder(t *testing.T) {
	less := func(a, b fixedString) bool { return a < b }

	w1 := NewWriter(0)
	PutSortedSeq(w1, []fixedString{"z", "a", "m"}, less)

	w2 := NewWriter(0)
	PutSortedSeq(w2, []fixedString{"m", "z", "a"}, less)

	if !bytes.Equal(w1.Bytes(), w2.Bytes()) {
		t.Fatal("PutSortedSeq encoding depends on insertion order, but it should not")
	}

	r := NewReader(w1.Bytes())
	got, err := ReadSeq(r, decodeFixedString)
	if err != nil {
		t.Fatal(err)
	}
	want := []fixedString{"a", "m", "z"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}
