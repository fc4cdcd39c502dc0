package tilestore

import (
	"sync"

	"github.com/hexclash/server/internal/hexgrid"
)

// shardCount is the number of stripes in the per-coordinate lock. Fixed at
// a power of two well above typical concurrency so that two unrelated
// clicks rarely contend over the same stripe. The click resolver holds
// its lock across a store round trip, so one mutex per key — approximated
// here by one mutex per stripe — is required to keep clicks on different
// coordinates from blocking each other.
const shardCount = 4096

// ShardedLock provides an exclusive critical section keyed by coordinate,
// for the duration of a prefetch-decide-write sequence against a single
// tile. Clicks on different coordinates that happen to hash to the same
// stripe will serialize unnecessarily but never incorrectly; clicks on
// the same coordinate always serialize.
type ShardedLock struct {
	stripes [shardCount]sync.Mutex
}

// NewShardedLock returns a ready-to-use ShardedLock.
func NewShardedLock() *ShardedLock {
	return &ShardedLock{}
}

func (s *ShardedLock) stripeFor(c hexgrid.Coord) *sync.Mutex {
	h := hashCoord(c)
	return &s.stripes[h%shardCount]
}

// Lock acquires the critical section for c. Callers must call Unlock with
// the same coordinate exactly once per successful Lock.
func (s *ShardedLock) Lock(c hexgrid.Coord) {
	s.stripeFor(c).Lock()
}

// Unlock releases the critical section for c.
func (s *ShardedLock) Unlock(c hexgrid.Coord) {
	s.stripeFor(c).Unlock()
}

// hashCoord mixes Q and R into a single stripe index using a small
// FNV-1a-style hash, the same hash family used elsewhere in this module
// for coordinate and string hashing.
func hashCoord(c hexgrid.Coord) uint64 {
	const offset64 = 14695981039346656037
	const prime64 = 1099511628211

	h := uint64(offset64)
	for _, v := range [2]int{c.Q, c.R} {
		u := uint64(int64(v))
		for i := 0; i < 8; i++ {
			h ^= u & 0xff
			h *= prime64
			u >>= 8
		}
	}
	return h
}
