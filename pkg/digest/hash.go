// Package digest provides the content-addressed Hash and Id types used to
// key every cache entry in pkg/derivation.
//
// Hash wraps a keyless blake3 256-bit digest. Id is the newtype used as a
// cache key; its top 12 bits select one of 4096 shards / pack files.
package digest

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"

	"github.com/delan/autost-go/pkg/canon"
	"github.com/zeebo/blake3"
)

// Size is the digest length in bytes.
const Size = 32

// Hash is a 256-bit blake3 digest with a total byte-lexicographic ordering.
type Hash [Size]byte

// Sum hashes b in one call.
func Sum(b []byte) Hash {
	sum := blake3.Sum256(b)
	return Hash(sum)
}

// NewHasher returns an io.Writer that accumulates a streaming blake3 hash.
// Call Sum on the returned hasher's Sum(nil) or use HasherSum below.
func NewHasher() *blake3.Hasher {
	return blake3.New()
}

// HasherSum extracts a Hash from a hasher created by NewHasher.
func HasherSum(h *blake3.Hasher) Hash {
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

// SumReader hashes the full contents of r, streaming so large files never
// need to be buffered in memory at once.
func SumReader(r io.Reader) (Hash, error) {
	h := blake3.New()
	if _, err := io.Copy(h, r); err != nil {
		return Hash{}, err
	}
	return HasherSum(h), nil
}

// Compare gives Hash a total order: negative if h < other, positive if
// h > other, zero if equal. Ordering is plain byte-lexicographic, matching
// the original cache/hash.rs Ord impl over the raw digest bytes.
func (h Hash) Compare(other Hash) int {
	return bytes.Compare(h[:], other[:])
}

// Less reports whether h sorts before other.
func (h Hash) Less(other Hash) bool {
	return h.Compare(other) < 0
}

// String renders the full lowercase hex digest.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Short renders a truncated form suitable for logs: the first 13 hex
// characters followed by an ellipsis, mirroring the original's alternate
// Display form (`{hash:#}`).
func (h Hash) Short() string {
	full := h.String()
	return full[:13] + "..."
}

// Format implements fmt.Formatter: with the '#' flag (e.g. "%#v") it
// writes the Short form, same as the original's `#` alternate flag on
// Display; with any other verb or flag it writes the full String form.
func (h Hash) Format(f fmt.State, verb rune) {
	if f.Flag('#') {
		io.WriteString(f, h.Short())
		return
	}
	io.WriteString(f, h.String())
}

// Encode appends the canonical encoding of h (the raw 32 bytes, no length
// prefix — a fixed-width field) to dst and returns the extended slice.
func (h Hash) Encode(dst []byte) []byte {
	return append(dst, h[:]...)
}

// EncodeCanon implements canon.Encoder: a Hash is a fixed-width field with
// no length prefix, per spec 4.1.
func (h Hash) EncodeCanon(w *canon.Writer) {
	w.PutFixed(h[:])
}

// DecodeHashCanon reads a Hash from a canon.Reader.
func DecodeHashCanon(r *canon.Reader) (Hash, error) {
	b, err := r.Fixed(Size)
	if err != nil {
		return Hash{}, err
	}
	var h Hash
	copy(h[:], b)
	return h, nil
}

// DecodeHash reads a Hash from the front of src, returning the remaining bytes.
func DecodeHash(src []byte) (Hash, []byte, error) {
	if len(src) < Size {
		return Hash{}, nil, fmt.Errorf("digest: short buffer decoding hash: need %d bytes, have %d", Size, len(src))
	}
	var h Hash
	copy(h[:], src[:Size])
	return h, src[Size:], nil
}
