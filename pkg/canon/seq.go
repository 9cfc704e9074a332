package canon

import "sort"

// Encoder is implemented by any value that can append its own canonical
// encoding to a Writer.
type Encoder interface {
	EncodeCanon(w *Writer)
}

// PutSeq encodes an ordered sequence: a length prefix followed by each
// element's own encoding, in the order given. Use PutSortedSeq for sets
// and maps, which must be sorted first.
func PutSeq[T Encoder](w *Writer, items []T) {
	w.PutSeqLen(len(items))
	for _, item := range items {
		item.EncodeCanon(w)
	}
}

// PutSortedSeq encodes items as a sorted sequence of canonical element
// encodings, per spec 4.1's rule for sets and maps: items are copied and
// sorted by less before encoding, so two sets with the same members always
// produce the same bytes regardless of insertion order.
func PutSortedSeq[T Encoder](w *Writer, items []T, less func(a, b T) bool) {
	sorted := make([]T, len(items))
	copy(sorted, items)
	sort.Slice(sorted, func(i, j int) bool { return less(sorted[i], sorted[j]) })
	PutSeq(w, sorted)
}

// ReadSeq decodes a sequence written by PutSeq/PutSortedSeq, applying
// decodeOne to each element in turn.
func ReadSeq[T any](r *Reader, decodeOne func(r *Reader) (T, error)) ([]T, error) {
	n, err := r.SeqLen()
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, n)
	for i := 0; i < n; i++ {
		v, err := decodeOne(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
