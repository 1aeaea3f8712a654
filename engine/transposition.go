package engine

import (
	"sync/atomic"
	"unsafe"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

// Bound tells how a stored score relates to the true value of the node.
type Bound uint8

const (
	BoundNone Bound = iota
	BoundExact
	BoundLower
	BoundUpper
)

func (b Bound) String() string {
	switch b {
	case BoundExact:
		return "exact"
	case BoundLower:
		return "lower"
	case BoundUpper:
		return "upper"
	}
	return "none"
}

// TTEntry is one cached search result. Score is relative to the side to move
// at the stored node.
type TTEntry struct {
	Key   uint64
	Score int32
	Move  uint16
	Depth int8
	Bound Bound
}

// DefaultHashMB is the table budget used when none is configured.
const DefaultHashMB = 64

// TranspositionTable is a fixed array of single-entry slots indexed by
// key modulo capacity.
type TranspositionTable struct {
	entries []TTEntry

	lookups    atomic.Uint64
	hits       atomic.Uint64
	stores     atomic.Uint64
	collisions atomic.Uint64
}

// NewTranspositionTable allocates a table of roughly megabytes MB, never more
// than half of the machine's physical memory.
func NewTranspositionTable(megabytes int) *TranspositionTable {
	if megabytes <= 0 {
		megabytes = DefaultHashMB
	}
	bytes := uint64(megabytes) * 1024 * 1024
	if total := memory.TotalMemory(); total > 0 && bytes > total/2 {
		log.Warn().Uint64("requested", bytes).Uint64("total-memory", total).Msg("hash-size-capped")
		bytes = total / 2
	}
	return newTableWithCapacity(int(bytes / uint64(unsafe.Sizeof(TTEntry{}))))
}

func newTableWithCapacity(n int) *TranspositionTable {
	if n < 1 {
		n = 1
	}
	log.Debug().Int("num-elems", n).Int("entry-size", int(unsafe.Sizeof(TTEntry{}))).Msg("transposition-table-size")
	return &TranspositionTable{entries: make([]TTEntry, n)}
}

func (tt *TranspositionTable) Capacity() int { return len(tt.entries) }

func (tt *TranspositionTable) index(key uint64) uint64 {
	return key % uint64(len(tt.entries))
}

// Probe returns the entry for key only when the slot holds exactly that key.
func (tt *TranspositionTable) Probe(key uint64) (TTEntry, bool) {
	tt.lookups.Add(1)
	e := tt.entries[tt.index(key)]
	if e.Bound == BoundNone || e.Key != key {
		return TTEntry{}, false
	}
	tt.hits.Add(1)
	return e, true
}

// Store writes the result into key's slot. A different key is always evicted;
// the same key is kept only when it was searched strictly deeper.
func (tt *TranspositionTable) Store(key uint64, score int32, depth int8, bound Bound, move uint16) {
	slot := &tt.entries[tt.index(key)]
	if slot.Bound != BoundNone {
		if slot.Key == key && slot.Depth > depth {
			return
		}
		if slot.Key != key {
			tt.collisions.Add(1)
		}
	}
	tt.stores.Add(1)
	*slot = TTEntry{Key: key, Score: score, Move: move, Depth: depth, Bound: bound}
}

// Clear empties every slot and resets the counters.
func (tt *TranspositionTable) Clear() {
	clear(tt.entries)
	tt.lookups.Store(0)
	tt.hits.Store(0)
	tt.stores.Store(0)
	tt.collisions.Store(0)
}

// HashFull estimates table usage in permille from the first thousand slots.
func (tt *TranspositionTable) HashFull() int {
	n := Min(1000, len(tt.entries))
	used := 0
	for i := 0; i < n; i++ {
		if tt.entries[i].Bound != BoundNone {
			used++
		}
	}
	return used * 1000 / n
}

// LogStats reports the lookup counters.
func (tt *TranspositionTable) LogStats() {
	log.Debug().
		Uint64("lookups", tt.lookups.Load()).
		Uint64("hits", tt.hits.Load()).
		Uint64("stores", tt.stores.Load()).
		Uint64("collisions", tt.collisions.Load()).
		Int("hashfull", tt.HashFull()).
		Msg("transposition-table-stats")
}

// Mate scores are stored relative to the node and converted back on probe,
// so the same entry reads correctly from any ply.
func scoreToTT(score int32, ply int) int32 {
	switch {
	case score >= MateThreshold:
		return score + int32(ply)
	case score <= -MateThreshold:
		return score - int32(ply)
	}
	return score
}

func scoreFromTT(score int32, ply int) int32 {
	switch {
	case score >= MateThreshold:
		return score - int32(ply)
	case score <= -MateThreshold:
		return score + int32(ply)
	}
	return score
}
