package derivation

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/delan/autost-go/pkg/canon"
	"github.com/delan/autost-go/pkg/digest"
)

// PackSlot adapts one MemoryCache[V] into the type-erased codec pair a
// CachePack needs: V differs per cache (twelve different types across the
// six derivation kinds), so CachePack can't hold *MemoryCache[V] directly
// without twelve distinct generic instantiations. A PackSlot closes over
// the concrete V at the call site (pkg/posts, where all twelve caches are
// known) and exposes only what CachePack needs: per-shard dirty, encode,
// decode.
type PackSlot struct {
	Dirty  func(shard int) bool
	Encode func(w *canon.Writer, shard int)
	Decode func(r *canon.Reader, shard int) error
}

// NewPackSlot builds a PackSlot for one MemoryCache[V], given how to
// canonically encode and decode V.
func NewPackSlot[V any](cache *MemoryCache[V], encodeVal func(*canon.Writer, V), decodeVal func(*canon.Reader) (V, error)) PackSlot {
	return PackSlot{
		Dirty: cache.Dirty,
		Encode: func(w *canon.Writer, shard int) {
			cache.EncodeShardWith(w, shard, encodeVal)
		},
		Decode: func(r *canon.Reader, shard int) error {
			return cache.DecodeShardWith(r, shard, decodeVal)
		},
	}
}

// CachePack bundles a Context's twelve caches into a fixed declared
// order: read_file_drv, read_file_out, render_markdown_drv,
// render_markdown_out, filtered_post_drv, filtered_post_out, thread_drv,
// thread_out, tag_index_drv, tag_index_out, rendered_thread_drv,
// rendered_thread_out. Callers (in pkg/posts) construct one in exactly
// that order. A slot left as the zero PackSlot is skipped on save and load.
type CachePack struct {
	Slots [12]PackSlot
}

// PackStore persists a CachePack as up to digest.NumPacks shard files
// under Dir, one per Id prefix.
type PackStore struct {
	Dir  string
	Pack CachePack
}

func (s *PackStore) path(shard int) string {
	return filepath.Join(s.Dir, digest.PackName(shard)+".pack")
}

// Load populates the caches from any existing pack files under Dir. A
// missing pack file for a given shard is simply skipped (nothing was
// cached for it yet); a corrupt one is logged and skipped — the engine
// falls back to the per-file cache/<id>.{drv,out} store or recomputation.
func (s *PackStore) Load() error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("pack: creating %s: %w", s.Dir, err)
	}
	for shard := 0; shard < digest.NumPacks; shard++ {
		data, err := os.ReadFile(s.path(shard))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return fmt.Errorf("pack: reading shard %d: %w", shard, err)
		}
		r := canon.NewReader(data)
		if err := s.decodeShard(r, shard); err != nil {
			log.Printf("derivation: pack: corrupt shard %s, treating as miss: %v", digest.PackName(shard), err)
			continue
		}
	}
	return nil
}

func (s *PackStore) decodeShard(r *canon.Reader, shard int) error {
	for _, slot := range s.Pack.Slots {
		if slot.Decode == nil {
			continue
		}
		if err := slot.Decode(r, shard); err != nil {
			return err
		}
	}
	return nil
}

// SaveDirty writes every shard with at least one dirty cache to disk
// atomically, then clears dirtiness (via the underlying MemoryCache.Take
// each Encode closure performs). Shards with no dirty cache are left
// untouched on disk.
func (s *PackStore) SaveDirty() error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("pack: creating %s: %w", s.Dir, err)
	}
	for shard := 0; shard < digest.NumPacks; shard++ {
		if !s.anyDirty(shard) {
			continue
		}
		w := canon.NewWriter(4096)
		for _, slot := range s.Pack.Slots {
			if slot.Encode != nil {
				slot.Encode(w, shard)
			}
		}
		if err := AtomicWrite(s.path(shard), w.Bytes()); err != nil {
			log.Printf("derivation: pack: write failed for shard %s: %v", digest.PackName(shard), err)
		}
	}
	return nil
}

func (s *PackStore) anyDirty(shard int) bool {
	for _, slot := range s.Pack.Slots {
		if slot.Dirty != nil && slot.Dirty(shard) {
			return true
		}
	}
	return false
}
