package derivation

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func TestAtomicWriteCreatesFileAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")

	if err := AtomicWrite(path, []byte("hello")); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "hello" {
		t.Errorf("got %q", data)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected exactly one file (no leftover temp files), got %d", len(entries))
	}
}

func TestAtomicWriteOverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.txt")
	if err := AtomicWrite(path, []byte("first")); err != nil {
		t.Fatal(err)
	}
	if err := AtomicWrite(path, []byte("second")); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "second" {
		t.Errorf("got %q, want %q", data, "second")
	}
}

// TestScopeDrainsAllSpawnedJobs is testable property 8 (writer drain):
// after a scope returns, every job spawned during it must have completed.
func TestScopeDrainsAllSpawnedJobs(t *testing.T) {
	pool := NewWriterPool(4)
	defer pool.Close()

	var completed atomic.Int64
	const n = 200
	pool.Scope(func() {
		for i := 0; i < n; i++ {
			pool.Spawn(func() {
				completed.Add(1)
			})
		}
	})

	if got := completed.Load(); got != n {
		t.Errorf("completed = %d, want %d", got, n)
	}
}

func TestSpawnAtomicWriteUpdatesStats(t *testing.T) {
	pool := NewWriterPool(2)
	defer pool.Close()
	stats := NewStats()
	dir := t.TempDir()
	path := filepath.Join(dir, "a.out")

	pool.Scope(func() {
		pool.SpawnAtomicWrite(WriteKindOutput, stats, path, []byte("x"))
	})

	derivations, outputs := stats.PendingCounts()
	if derivations != 0 || outputs != 0 {
		t.Errorf("pending counts after drain = %d, %d, want 0, 0", derivations, outputs)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %v", err)
	}
}
