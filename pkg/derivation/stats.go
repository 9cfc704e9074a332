package derivation

import (
	"fmt"
	"os"
	"sync/atomic"
)

// Stats tracks build-wide counters of pending writes. Reproduces the
// original's pending-write progress line byte-for-byte when logging is
// enabled.
type Stats struct {
	pendingDerivationWrites atomic.Int64
	pendingOutputWrites     atomic.Int64
	loggingEnabled          atomic.Bool
}

// NewStats returns a fresh, zeroed Stats with logging disabled.
func NewStats() *Stats {
	return &Stats{}
}

// EnablePendingWriteLogging turns on the stderr progress line.
func (s *Stats) EnablePendingWriteLogging() {
	s.loggingEnabled.Store(true)
}

// PendingCounts reports the current pending write counts.
func (s *Stats) PendingCounts() (derivations, outputs int64) {
	return s.pendingDerivationWrites.Load(), s.pendingOutputWrites.Load()
}

func (s *Stats) logLine() {
	if !s.loggingEnabled.Load() {
		return
	}
	fmt.Fprintf(os.Stderr, "\x1B[K... %d derivations pending, %d outputs pending\r",
		s.pendingDerivationWrites.Load(), s.pendingOutputWrites.Load())
}

// RecordEnqueueOutputWrite marks one more output write as pending.
func (s *Stats) RecordEnqueueOutputWrite() {
	s.pendingOutputWrites.Add(1)
	s.logLine()
}

// RecordDequeueOutputWrite marks one output write as completed.
func (s *Stats) RecordDequeueOutputWrite() {
	s.pendingOutputWrites.Add(-1)
	s.logLine()
}

// RecordEnqueueDerivationWrite marks one more derivation-record write as
// pending.
func (s *Stats) RecordEnqueueDerivationWrite() {
	s.pendingDerivationWrites.Add(1)
	s.logLine()
}

// RecordDequeueDerivationWrite marks one derivation-record write as
// completed.
func (s *Stats) RecordDequeueDerivationWrite() {
	s.pendingDerivationWrites.Add(-1)
	s.logLine()
}
