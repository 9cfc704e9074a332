package derivation

import (
	"os"
	"testing"

	"github.com/delan/autost-go/pkg/canon"
	"github.com/delan/autost-go/pkg/digest"
)

func encodeTestDrv(w *canon.Writer, d Drv[testInner]) {
	d.OutputID.EncodeCanon(w)
	encodeTestInner(w, d.Inner)
}

func decodeTestDrv(r *canon.Reader) (Drv[testInner], error) {
	id, err := digest.DecodeIdCanon(r)
	if err != nil {
		return Drv[testInner]{}, err
	}
	inner, err := decodeTestInner(r)
	if err != nil {
		return Drv[testInner]{}, err
	}
	return Drv[testInner]{OutputID: id, Inner: inner}, nil
}

// TestPackRoundTrip is testable property 7: saving a cache's packs and
// reloading them into a fresh cache yields 100% hits on already-computed
// Ids, with no recomputation.
func TestPackRoundTrip(t *testing.T) {
	drvCache := NewMemoryCache[Drv[testInner]]("Drv")
	outCache := NewMemoryCache[int]("Out")

	for n := 0; n < 20; n++ {
		id := digest.IdOf([]byte{byte(n)})
		_, _ = drvCache.GetOrInsertAsRead(id, func(digest.Id) (Drv[testInner], error) {
			return Drv[testInner]{OutputID: id, Inner: testInner{N: n}}, nil
		})
		_, _ = outCache.GetOrInsertAsRead(id, func(digest.Id) (int, error) {
			return n * 2, nil
		})
	}

	slotDrv := NewPackSlot(drvCache, encodeTestDrv, decodeTestDrv)
	slotOut := NewPackSlot(outCache, encodeTestOutput, decodeTestOutput)

	dir := t.TempDir()
	store := &PackStore{Dir: dir, Pack: CachePack{Slots: [12]PackSlot{slotDrv, slotOut}}}
	if err := store.SaveDirty(); err != nil {
		t.Fatal(err)
	}

	// Reload into fresh caches.
	drvCache2 := NewMemoryCache[Drv[testInner]]("Drv")
	outCache2 := NewMemoryCache[int]("Out")
	slotDrv2 := NewPackSlot(drvCache2, encodeTestDrv, decodeTestDrv)
	slotOut2 := NewPackSlot(outCache2, encodeTestOutput, decodeTestOutput)
	store2 := &PackStore{Dir: dir, Pack: CachePack{Slots: [12]PackSlot{slotDrv2, slotOut2}}}
	if err := store2.Load(); err != nil {
		t.Fatal(err)
	}

	for n := 0; n < 20; n++ {
		id := digest.IdOf([]byte{byte(n)})
		calls := 0
		out, err := outCache2.GetOrInsertAsRead(id, func(digest.Id) (int, error) {
			calls++
			return -1, nil
		})
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if out != n*2 {
			t.Errorf("n=%d: out = %d, want %d", n, out, n*2)
		}
		if calls != 0 {
			t.Errorf("n=%d: expected 100%% hit after pack reload, got a miss", n)
		}
	}
}

func TestPackStoreSkipsCleanShards(t *testing.T) {
	cache := NewMemoryCache[int]("Out")
	slot := NewPackSlot(cache, encodeTestOutput, decodeTestOutput)
	dir := t.TempDir()
	store := &PackStore{Dir: dir, Pack: CachePack{Slots: [12]PackSlot{slot}}}

	// Nothing inserted: no shard is dirty, so SaveDirty should write
	// nothing.
	if err := store.SaveDirty(); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no pack files written, got %d", len(entries))
	}
}
