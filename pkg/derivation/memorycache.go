// Package derivation implements the derivation engine: sharded memory
// caches, background writer pools, the Drv wrapper and Kind dispatch, the
// on-disk pack store, and build-wide statistics.
//
// # On-disk layout
//
// Every derivation is addressed by its Id and persisted under cache/:
//
//	cache/<idhex>.drv   canonical encoding of a Drv<Inner> record
//	cache/<idhex>.out   canonical encoding of the derivation's Output
//
// A Context additionally supports an optional pack store (pack.go) that
// bundles all twelve caches into 4096 shard files for faster cold starts.
package derivation

import (
	"sort"
	"sync"
	"sync/atomic"

	"github.com/delan/autost-go/pkg/canon"
	"github.com/delan/autost-go/pkg/digest"
)

// NumShards is the number of independently-lockable shards a MemoryCache
// is split into, matching digest.NumPacks so a cache shard and a pack file
// cover the same Id range.
const NumShards = digest.NumPacks

// MemoryCache is a sharded concurrent mapping from Id to a value V. Shards
// are chosen by Id.PackIndex, so two keys that hash into different shards
// never contend for the same lock.
type MemoryCache[V any] struct {
	label string

	mu    [NumShards]sync.RWMutex
	data  [NumShards]map[digest.Id]V
	dirty [NumShards]atomic.Bool

	hits            atomic.Int64
	readMisses      atomic.Int64
	readWriteMisses atomic.Int64
	writeWriteMisses atomic.Int64
}

// NewMemoryCache returns an empty cache. label is used only in Stats/debug
// output, matching the original's per-cache label.
func NewMemoryCache[V any](label string) *MemoryCache[V] {
	c := &MemoryCache[V]{label: label}
	for i := range c.data {
		c.data[i] = make(map[digest.Id]V)
	}
	return c
}

// Label returns the cache's debug label.
func (c *MemoryCache[V]) Label() string {
	return c.label
}

// Dirty reports whether the given shard has changed since the last Take.
func (c *MemoryCache[V]) Dirty(shard int) bool {
	return c.dirty[shard].Load()
}

// Counts returns the current hit/miss counters.
func (c *MemoryCache[V]) Counts() (hits, readMisses, readWriteMisses, writeWriteMisses int64) {
	return c.hits.Load(), c.readMisses.Load(), c.readWriteMisses.Load(), c.writeWriteMisses.Load()
}

// Take empties shard and returns its prior contents, for persisting to a
// pack file. The shard's dirty bit is cleared.
func (c *MemoryCache[V]) Take(shard int) map[digest.Id]V {
	c.mu[shard].Lock()
	defer c.mu[shard].Unlock()
	out := c.data[shard]
	c.data[shard] = make(map[digest.Id]V)
	c.dirty[shard].Store(false)
	return out
}

// Restore replaces shard's contents wholesale, for loading from a pack
// file before a build starts. It does not mark the shard dirty: a freshly
// loaded pack is, by definition, already on disk.
func (c *MemoryCache[V]) Restore(shard int, m map[digest.Id]V) {
	c.mu[shard].Lock()
	defer c.mu[shard].Unlock()
	if m == nil {
		m = make(map[digest.Id]V)
	}
	c.data[shard] = m
}

// GetOrInsertAsRead looks up key; on a miss it calls readDefault(key),
// which must be cheap (e.g. decode from disk), memoises the result, and
// returns it. Any miss marks the shard dirty.
func (c *MemoryCache[V]) GetOrInsertAsRead(key digest.Id, readDefault func(digest.Id) (V, error)) (V, error) {
	shard := key.PackIndex()

	c.mu[shard].RLock()
	if v, ok := c.data[shard][key]; ok {
		c.mu[shard].RUnlock()
		c.hits.Add(1)
		return v, nil
	}
	c.mu[shard].RUnlock()

	v, err := readDefault(key)
	if err != nil {
		var zero V
		return zero, err
	}

	c.mu[shard].Lock()
	if existing, ok := c.data[shard][key]; ok {
		c.mu[shard].Unlock()
		c.hits.Add(1)
		return existing, nil
	}
	c.data[shard][key] = v
	c.dirty[shard].Store(true)
	c.mu[shard].Unlock()
	c.readMisses.Add(1)
	return v, nil
}

// GetOrInsertAsWrite looks up key; on a miss it first tries the cheap
// read(key) (e.g. decode an existing cache/<id>.out). If read fails (not
// on disk), it falls back to the expensive write(key) (recompute). Either
// branch memoises its result and marks the shard dirty.
func (c *MemoryCache[V]) GetOrInsertAsWrite(
	key digest.Id,
	read func(digest.Id) (V, error),
	write func(digest.Id) (V, error),
) (V, error) {
	shard := key.PackIndex()

	c.mu[shard].RLock()
	if v, ok := c.data[shard][key]; ok {
		c.mu[shard].RUnlock()
		c.hits.Add(1)
		return v, nil
	}
	c.mu[shard].RUnlock()

	if v, err := read(key); err == nil {
		c.mu[shard].Lock()
		if existing, ok := c.data[shard][key]; ok {
			c.mu[shard].Unlock()
			c.hits.Add(1)
			return existing, nil
		}
		c.data[shard][key] = v
		c.dirty[shard].Store(true)
		c.mu[shard].Unlock()
		c.readWriteMisses.Add(1)
		return v, nil
	}

	v, err := write(key)
	if err != nil {
		var zero V
		return zero, err
	}

	c.mu[shard].Lock()
	if existing, ok := c.data[shard][key]; ok {
		c.mu[shard].Unlock()
		c.hits.Add(1)
		return existing, nil
	}
	c.data[shard][key] = v
	c.dirty[shard].Store(true)
	c.mu[shard].Unlock()
	c.writeWriteMisses.Add(1)
	return v, nil
}

// EncodeShardWith appends shard's (Id, V) pairs to w in sorted-Id order,
// The shard's entries are written as a length prefix followed by each
// entry's own canonical encoding, encodeVal supplying V's half since V
// isn't necessarily a canon.Encoder itself (e.g. V = []byte or string).
//
// It takes ownership of the shard's map for the duration of the encode,
// then restores it — this clears the dirty bit as a side effect of Take,
// so a save immediately followed by another save with no intervening
// writes is a no-op the second time.
func (c *MemoryCache[V]) EncodeShardWith(w *canon.Writer, shard int, encodeVal func(*canon.Writer, V)) {
	m := c.Take(shard)
	defer c.Restore(shard, m)

	ids := make([]digest.Id, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })

	w.PutSeqLen(len(ids))
	for _, id := range ids {
		id.EncodeCanon(w)
		encodeVal(w, m[id])
	}
}

// DecodeShardWith reads a shard written by EncodeShardWith and replaces
// the shard's contents wholesale via Restore. A decode failure partway
// through is a DecodeError: the caller should treat the whole pack file
// as a miss rather than leave the shard partially populated.
func (c *MemoryCache[V]) DecodeShardWith(r *canon.Reader, shard int, decodeVal func(*canon.Reader) (V, error)) error {
	n, err := r.SeqLen()
	if err != nil {
		return err
	}
	m := make(map[digest.Id]V, n)
	for i := 0; i < n; i++ {
		id, err := digest.DecodeIdCanon(r)
		if err != nil {
			return err
		}
		v, err := decodeVal(r)
		if err != nil {
			return err
		}
		m[id] = v
	}
	c.Restore(shard, m)
	return nil
}
