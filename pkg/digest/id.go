package digest

import "github.com/delan/autost-go/pkg/canon"

// NumPacks is the number of shards/pack files the cache is partitioned
// into. A derivation's Id routes to exactly one shard, selected by the top
// 12 bits of its digest.
const NumPacks = 4096

// Id is the content address of a stored derivation record or output: the
// Hash of its canonical encoding. It is a distinct type from Hash so that
// "the hash of a file's contents" and "the address of a derivation record"
// are never confused at the type level, even though both are blake3
// digests underneath.
type Id Hash

// IdOf computes the Id of an already-canonically-encoded byte slice.
func IdOf(canonical []byte) Id {
	return Id(Sum(canonical))
}

// PackIndex returns the shard/pack index for this Id: the top 12 bits of
// the digest, giving a value in [0, NumPacks).
func (id Id) PackIndex() int {
	return int(id[0])<<4 | int(id[1])>>4
}

// PackName renders the pack index as a zero-padded 3-digit lowercase hex
// string, matching the original's `{i:03x}` pack file naming.
func (id Id) PackName() string {
	return packName(id.PackIndex())
}

func packName(i int) string {
	const hexDigits = "0123456789abcdef"
	return string([]byte{
		hexDigits[(i>>8)&0xf],
		hexDigits[(i>>4)&0xf],
		hexDigits[i&0xf],
	})
}

// PackName renders a bare pack index the same way Id.PackName does, for
// callers iterating PackIndices() without an Id in hand.
func PackName(i int) string {
	return packName(i)
}

// PackIndices enumerates every valid pack index, 0 through NumPacks-1.
func PackIndices() []int {
	out := make([]int, NumPacks)
	for i := range out {
		out[i] = i
	}
	return out
}

func (id Id) Compare(other Id) int {
	return Hash(id).Compare(Hash(other))
}

func (id Id) Less(other Id) bool {
	return Hash(id).Less(Hash(other))
}

func (id Id) String() string {
	return Hash(id).String()
}

func (id Id) Short() string {
	return Hash(id).Short()
}

func (id Id) Encode(dst []byte) []byte {
	return Hash(id).Encode(dst)
}

// EncodeCanon implements canon.Encoder, letting Id participate directly in
// canon.PutSeq/PutSortedSeq (e.g. the ordered-set-of-ReadFileDrv field of
// DoTagIndex).
func (id Id) EncodeCanon(w *canon.Writer) {
	Hash(id).EncodeCanon(w)
}

func DecodeIdCanon(r *canon.Reader) (Id, error) {
	h, err := DecodeHashCanon(r)
	return Id(h), err
}

func DecodeId(src []byte) (Id, []byte, error) {
	h, rest, err := DecodeHash(src)
	return Id(h), rest, err
}
