package derivation

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/delan/autost-go/pkg/canon"
	"github.com/delan/autost-go/pkg/digest"
)

// Drv pairs a canonicalised derivation input with the Id of its would-be
// output. Drv values are immutable once constructed and cheap to clone;
// two Drvs with the same Inner always carry the same OutputID.
type Drv[Inner any] struct {
	OutputID digest.Id
	Inner    Inner
}

// Id returns the Drv's output Id, the value every cache keys on.
func (d Drv[Inner]) Id() digest.Id {
	return d.OutputID
}

// Kind bundles everything the generic engine needs to drive one concrete
// derivation type: which caches in CTX (normally *posts.Context) hold its
// records/outputs, how to canonically encode/decode Inner and Output, and
// how to compute Output from scratch. Concrete derivation packages build
// one package-level Kind value per derivation type instead of implementing
// a shared interface, since Go generics can't express "one trait impl per
// instantiation" the way the original's per-type trait impl does; a Kind
// value is the monomorphic stand-in for that.
type Kind[CTX any, Inner any, Output any] struct {
	// FunctionName is used only in logs/tracing.
	FunctionName string

	DrvCache    func(ctx CTX) *MemoryCache[Drv[Inner]]
	OutputCache func(ctx CTX) *MemoryCache[Output]

	EncodeInner  func(w *canon.Writer, inner Inner)
	DecodeInner  func(r *canon.Reader) (Inner, error)
	EncodeOutput func(w *canon.Writer, out Output)
	DecodeOutput func(r *canon.Reader) (Output, error)

	CacheDir func(ctx CTX) string
	Pool     func(ctx CTX) *WriterPool
	Stats    func(ctx CTX) *Stats
}

// EncodeDrv canonically encodes a Drv as its OutputID followed by its
// Inner. Concrete derivation types that embed another Drv as a field (e.g.
// RenderMarkdown embedding the ReadFile it reads) use this so the embedded
// dependency's Id and full Inner tree both feed the outer Id computation.
func EncodeDrv[Inner any](w *canon.Writer, d Drv[Inner], encodeInner func(*canon.Writer, Inner)) {
	d.OutputID.EncodeCanon(w)
	encodeInner(w, d.Inner)
}

// DecodeDrv is the inverse of EncodeDrv.
func DecodeDrv[Inner any](r *canon.Reader, decodeInner func(*canon.Reader) (Inner, error)) (Drv[Inner], error) {
	id, err := digest.DecodeIdCanon(r)
	if err != nil {
		return Drv[Inner]{}, err
	}
	inner, err := decodeInner(r)
	if err != nil {
		return Drv[Inner]{}, err
	}
	return Drv[Inner]{OutputID: id, Inner: inner}, nil
}

// ComputeId computes inner's Id: H(canonical_encoding(inner)). Because
// every dependency is itself represented by its Id inside Inner, a change
// anywhere in the graph propagates upward deterministically.
func ComputeId[Inner any](inner Inner, encode func(*canon.Writer, Inner)) digest.Id {
	w := canon.NewWriter(256)
	encode(w, inner)
	return digest.IdOf(w.Bytes())
}

// DerivationPath returns cache/<idhex>.drv for id.
func DerivationPath(cacheDir string, id digest.Id) string {
	return filepath.Join(cacheDir, id.String()+".drv")
}

// OutputPath returns cache/<idhex>.out for id.
func OutputPath(cacheDir string, id digest.Id) string {
	return filepath.Join(cacheDir, id.String()+".out")
}

// LoadDrv performs a read-only lookup of a derivation record: memory hit,
// or decode cache/<id>.drv. A missing or corrupt file is a cache miss,
// surfaced as an error to the caller.
func LoadDrv[CTX any, Inner any, Output any](ctx CTX, k Kind[CTX, Inner, Output], id digest.Id) (Drv[Inner], error) {
	cacheDir := k.CacheDir(ctx)
	return k.DrvCache(ctx).GetOrInsertAsRead(id, func(id digest.Id) (Drv[Inner], error) {
		data, err := os.ReadFile(DerivationPath(cacheDir, id))
		if err != nil {
			return Drv[Inner]{}, err
		}
		d, err := DecodeDrv(canon.NewReader(data), k.DecodeInner)
		if err != nil {
			return Drv[Inner]{}, fmt.Errorf("derivation: decode error: %w", err)
		}
		return d, nil
	})
}

// Store inserts d into the derivation cache under get_or_insert_as_write:
// the cheap branch decodes cache/<id>.drv directly; the write branch
// enqueues an atomic write of the canonically encoded record and returns d
// unchanged.
func Store[CTX any, Inner any, Output any](ctx CTX, k Kind[CTX, Inner, Output], d Drv[Inner]) (Drv[Inner], error) {
	cacheDir := k.CacheDir(ctx)
	return k.DrvCache(ctx).GetOrInsertAsWrite(
		d.OutputID,
		func(id digest.Id) (Drv[Inner], error) {
			data, err := os.ReadFile(DerivationPath(cacheDir, id))
			if err != nil {
				return Drv[Inner]{}, err
			}
			loaded, err := DecodeDrv(canon.NewReader(data), k.DecodeInner)
			if err != nil {
				return Drv[Inner]{}, fmt.Errorf("derivation: decode error: %w", err)
			}
			return loaded, nil
		},
		func(id digest.Id) (Drv[Inner], error) {
			w := canon.NewWriter(256)
			EncodeDrv(w, Drv[Inner]{OutputID: id, Inner: d.Inner}, k.EncodeInner)
			data := w.Bytes()

			pool := k.Pool(ctx)
			stats := k.Stats(ctx)
			pool.SpawnAtomicWrite(WriteKindDerivation, stats, DerivationPath(cacheDir, id), data)
			return d, nil
		},
	)
}

// Instantiate computes inner's Id, forms the Drv, and stores it: it
// records the derivation but does not compute its output — that's the
// "Instantiate" vs "Realise" distinction the engine is built around.
func Instantiate[CTX any, Inner any, Output any](ctx CTX, k Kind[CTX, Inner, Output], inner Inner) (Drv[Inner], error) {
	id := ComputeId(inner, k.EncodeInner)
	return Store(ctx, k, Drv[Inner]{OutputID: id, Inner: inner})
}

// Output performs a read-only lookup of d's already-computed output:
// memory hit, or decode cache/<id>.out.
func Output[CTX any, Inner any, Output any](ctx CTX, k Kind[CTX, Inner, Output], d Drv[Inner]) (Output, error) {
	return k.OutputCache(ctx).GetOrInsertAsRead(d.OutputID, func(id digest.Id) (Output, error) {
		data, err := os.ReadFile(OutputPath(k.CacheDir(ctx), id))
		if err != nil {
			var zero Output
			return zero, err
		}
		r := canon.NewReader(data)
		out, err := k.DecodeOutput(r)
		if err != nil {
			var zero Output
			return zero, fmt.Errorf("derivation: decode error: %w", err)
		}
		return out, nil
	})
}

// RealiseSelfOnly is the workhorse behind every concrete derivation's
// realise_recursive: it does not realise dependencies (callers must have
// already done so), it only produces this derivation's own output. The
// cheap branch decodes cache/<id>.out; the write branch calls compute,
// enqueues an atomic write of the encoded output, and returns it.
func RealiseSelfOnly[CTX any, Inner any, Output any](
	ctx CTX,
	k Kind[CTX, Inner, Output],
	d Drv[Inner],
	compute func(ctx CTX, d Drv[Inner]) (Output, error),
) (Output, error) {
	cacheDir := k.CacheDir(ctx)
	return k.OutputCache(ctx).GetOrInsertAsWrite(
		d.OutputID,
		func(id digest.Id) (Output, error) {
			data, err := os.ReadFile(OutputPath(cacheDir, id))
			if err != nil {
				var zero Output
				return zero, err
			}
			r := canon.NewReader(data)
			out, err := k.DecodeOutput(r)
			if err != nil {
				var zero Output
				return zero, fmt.Errorf("derivation: decode error: %w", err)
			}
			return out, nil
		},
		func(id digest.Id) (Output, error) {
			out, err := compute(ctx, d)
			if err != nil {
				var zero Output
				return zero, fmt.Errorf("realise derivation %s %q: %w", k.FunctionName, id.Short(), err)
			}

			w := canon.NewWriter(256)
			k.EncodeOutput(w, out)
			data := w.Bytes()

			pool := k.Pool(ctx)
			stats := k.Stats(ctx)
			pool.SpawnAtomicWrite(WriteKindOutput, stats, OutputPath(cacheDir, id), data)
			return out, nil
		},
	)
}
