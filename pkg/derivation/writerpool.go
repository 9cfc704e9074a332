package derivation

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// DefaultPoolWidth is the recommended worker count per writer pool: four
// times the detected CPU parallelism, tolerating that writer jobs are
// I/O-bound and short-lived.
func DefaultPoolWidth() int {
	n := runtime.GOMAXPROCS(0) * 4
	if n < 4 {
		n = 4
	}
	return n
}

// WriterPool is a fixed-size worker pool whose jobs perform a single
// atomic write each. Spawn schedules a job and returns immediately; Scope
// enters a scope in which every job Spawned before the scope closure
// returns is guaranteed to have completed by the time Scope itself
// returns — the join barrier Context.Run nests both pools inside.
type WriterPool struct {
	jobs chan func()
	wg   sync.WaitGroup
	once sync.Once
	stop chan struct{}
}

// NewWriterPool starts width worker goroutines pulling from an internal
// job queue.
func NewWriterPool(width int) *WriterPool {
	if width < 1 {
		width = 1
	}
	p := &WriterPool{
		jobs: make(chan func(), width*64),
		stop: make(chan struct{}),
	}
	for i := 0; i < width; i++ {
		go p.worker()
	}
	return p
}

func (p *WriterPool) worker() {
	for {
		select {
		case job, ok := <-p.jobs:
			if !ok {
				return
			}
			job()
		case <-p.stop:
			return
		}
	}
}

// Spawn schedules job to run on a pool worker. It returns immediately;
// the job may still be queued when Spawn returns.
func (p *WriterPool) Spawn(job func()) {
	p.wg.Add(1)
	p.jobs <- func() {
		defer p.wg.Done()
		job()
	}
}

// Scope runs fn, then blocks until every job Spawned during fn (or
// earlier) has completed, matching the original's rayon scope semantics:
// spawned jobs must finish before the scope returns.
func (p *WriterPool) Scope(fn func()) {
	fn()
	p.wg.Wait()
}

// Close stops the pool's worker goroutines. Callers must have already
// drained all jobs via Scope; Close is for releasing the pool at the end
// of a Context's lifetime.
func (p *WriterPool) Close() {
	p.once.Do(func() {
		close(p.stop)
	})
}

// AtomicWrite writes data to path by first writing to a sibling temp file
// in the same directory, then renaming it over path. Ownership and mode
// preservation are intentionally skipped so the engine never needs
// elevated privileges. Failures are returned, not logged; callers
// (Spawn jobs) must not treat a write failure as fatal to the build — a
// lost write only forces recomputation on the next run.
func AtomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// SpawnAtomicWrite schedules an atomic write of data to path on the pool,
// logging any failure instead of propagating it. Stats counts the write as
// pending from enqueue until the job finishes, whether or not it succeeded;
// failures themselves are not counted.
func (p *WriterPool) SpawnAtomicWrite(kind WriteKind, stats *Stats, path string, data []byte) {
	switch kind {
	case WriteKindDerivation:
		stats.RecordEnqueueDerivationWrite()
	case WriteKindOutput:
		stats.RecordEnqueueOutputWrite()
	}
	p.Spawn(func() {
		defer func() {
			switch kind {
			case WriteKindDerivation:
				stats.RecordDequeueDerivationWrite()
			case WriteKindOutput:
				stats.RecordDequeueOutputWrite()
			}
		}()
		if err := AtomicWrite(path, data); err != nil {
			log.Printf("derivation: write failed for %s: %v", path, err)
		}
	})
}

// WriteKind distinguishes derivation-record writes from output writes for
// Stats bookkeeping.
type WriteKind int

const (
	WriteKindDerivation WriteKind = iota
	WriteKindOutput
)
