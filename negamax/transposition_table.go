package negamax

import (
	"math"
	"math/bits"
	"sync"
	"sync/atomic"

	"github.com/pbnjay/memory"
	"github.com/rs/zerolog/log"
)

const (
	TTExact = 0x01
	TTLower = 0x02
	TTUpper = 0x03
)

// ClusterSize is the number of slots scanned per bucket.
const ClusterSize = 4

// entrySize is the in-memory size of a TableEntry, used for sizing only.
const entrySize = 32

const (
	minClusters     = 1 << 10
	DefaultClusters = 1 << 12
	lockShards      = 1 << 8
)

const noSquare = -1

// TableEntry is one slot of a cluster. The full key is kept so that
// positions sharing a bucket are told apart.
type TableEntry struct {
	key        uint64
	score      float64
	generation uint32
	stamp      uint32
	depth      int16
	play       int16
	flag       uint8
}

func (t TableEntry) valid() bool {
	// a table flag is 1, 2, or 3.
	return t.flag != 0
}

// Depth is the remaining search depth the score was computed with.
func (t TableEntry) Depth() int {
	return int(t.depth)
}

func (t TableEntry) Score() float64 {
	return t.score
}

func (t TableEntry) Flag() uint8 {
	return t.flag
}

// Move is the row-major square of the best move found, or -1.
func (t TableEntry) Move() int {
	return int(t.play)
}

func (t TableEntry) Generation() uint32 {
	return t.generation
}

type TableLock interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

type FakeLock struct{}

func (f FakeLock) Lock()    {}
func (f FakeLock) Unlock()  {}
func (f FakeLock) RLock()   {}
func (f FakeLock) RUnlock() {}

// TableStats is a snapshot of the table counters.
type TableStats struct {
	Created      uint64
	Lookups      uint64
	Hits         uint64
	T2Collisions uint64
}

// TranspositionTable is a fixed-size cache of search results, organised as
// a power-of-two number of clusters of ClusterSize slots. In multi-threaded
// mode every cluster is guarded by one of a fixed set of shard locks, so a
// scan or a write of a cluster is never interleaved with another.
type TranspositionTable struct {
	locks    []TableLock
	lockMask uint64

	table       []TableEntry
	numClusters int
	clusterMask uint64

	generation atomic.Uint32
	stamp      atomic.Uint32

	created atomic.Uint64
	lookups atomic.Uint64
	hits    atomic.Uint64
	// "type 2" collisions. A type 2 collision happens when a bucket is
	// occupied only by unrelated positions. A type 1 collision (two
	// positions with the same full key) can't be detected here.
	t2collisions atomic.Uint64
}

// NewTranspositionTable allocates a single-threaded table with at least the
// given number of clusters, rounded up to a power of two.
func NewTranspositionTable(clusters int) *TranspositionTable {
	t := &TranspositionTable{}
	t.SetSingleThreadedMode()
	t.allocate(clusters)
	return t
}

func (t *TranspositionTable) SetSingleThreadedMode() {
	t.locks = []TableLock{FakeLock{}}
	t.lockMask = 0
}

func (t *TranspositionTable) SetMultiThreadedMode() {
	t.locks = make([]TableLock, lockShards)
	for i := range t.locks {
		t.locks[i] = new(sync.RWMutex)
	}
	t.lockMask = lockShards - 1
}

func (t *TranspositionTable) lockFor(cluster uint64) TableLock {
	return t.locks[cluster&t.lockMask]
}

func (t *TranspositionTable) allocate(clusters int) bool {
	if clusters < 1 {
		clusters = 1
	}
	n := 1 << bits.Len(uint(clusters-1))
	reset := false
	if t.table != nil && t.numClusters == n {
		clear(t.table)
		reset = true
	} else {
		t.table = make([]TableEntry, n*ClusterSize)
	}
	t.numClusters = n
	t.clusterMask = uint64(n - 1)
	t.created.Store(0)
	t.lookups.Store(0)
	t.hits.Store(0)
	t.t2collisions.Store(0)
	return reset
}

// Reset sizes the table to roughly fractionOfMemory of the system RAM and
// clears it. It must not run concurrently with searches.
func (t *TranspositionTable) Reset(fractionOfMemory float64) {
	if t.locks == nil {
		t.SetSingleThreadedMode()
	}
	totalMem := memory.TotalMemory()
	desired := fractionOfMemory * float64(totalMem) / float64(entrySize*ClusterSize)
	clusters := minClusters
	if desired >= 2*minClusters {
		// biggest power of 2 not above what we were asked for.
		clusters = 1 << int(math.Log2(desired))
	}
	reset := t.allocate(clusters)

	log.Info().Int("num-clusters", t.numClusters).
		Float64("desired-num-clusters", desired).
		Int("estimated-total-memory-bytes", t.numClusters*ClusterSize*entrySize).
		Uint64("total-system-memory-bytes", totalMem).
		Bool("reset", reset).
		Msg("transposition-table-size")
}

func (t *TranspositionTable) Clusters() int {
	return t.numClusters
}

// NewSearch starts a new generation. Entries written under older
// generations are the first to be evicted.
func (t *TranspositionTable) NewSearch() uint32 {
	return t.generation.Add(1)
}

func (t *TranspositionTable) Generation() uint32 {
	return t.generation.Load()
}

func (t *TranspositionTable) Stats() TableStats {
	return TableStats{
		Created:      t.created.Load(),
		Lookups:      t.lookups.Load(),
		Hits:         t.hits.Load(),
		T2Collisions: t.t2collisions.Load(),
	}
}

func (t *TranspositionTable) cluster(key uint64) (uint64, []TableEntry) {
	c := key & t.clusterMask
	start := c * ClusterSize
	return c, t.table[start : start+ClusterSize]
}

// lookup returns the entry for key only if it was searched at least as deep
// as depth.
func (t *TranspositionTable) lookup(key uint64, depth int) (TableEntry, bool) {
	c, slots := t.cluster(key)
	lock := t.lockFor(c)
	lock.RLock()
	defer lock.RUnlock()
	t.lookups.Add(1)
	occupied := false
	for _, e := range slots {
		if !e.valid() {
			continue
		}
		if e.key == key {
			if int(e.depth) >= depth {
				t.hits.Add(1)
				return e, true
			}
			return TableEntry{}, false
		}
		occupied = true
	}
	if occupied {
		// There are only unrelated nodes in this bucket.
		t.t2collisions.Add(1)
	}
	return TableEntry{}, false
}

// probe returns the entry for key regardless of its depth. It is used for
// move ordering only.
func (t *TranspositionTable) probe(key uint64) (TableEntry, bool) {
	c, slots := t.cluster(key)
	lock := t.lockFor(c)
	lock.RLock()
	defer lock.RUnlock()
	for _, e := range slots {
		if e.valid() && e.key == key {
			return e, true
		}
	}
	return TableEntry{}, false
}

func (t *TranspositionTable) store(key uint64, tentry TableEntry) {
	c, slots := t.cluster(key)
	tentry.key = key
	lock := t.lockFor(c)
	lock.Lock()
	defer lock.Unlock()
	tentry.stamp = t.stamp.Add(1)
	t.created.Add(1)

	victim := -1
	for i, e := range slots {
		if e.valid() && e.key == key {
			if e.generation == tentry.generation && e.depth > tentry.depth {
				// keep the deeper result from this search.
				return
			}
			slots[i] = tentry
			return
		}
		if !e.valid() && victim == -1 {
			victim = i
		}
	}
	if victim == -1 {
		victim = 0
		for i := 1; i < ClusterSize; i++ {
			if evictBefore(slots[i], slots[victim], tentry.generation) {
				victim = i
			}
		}
	}
	slots[victim] = tentry
}

// evictBefore reports whether a should be replaced ahead of b: entries from
// another generation go first, then the shallowest, then the oldest write.
func evictBefore(a, b TableEntry, gen uint32) bool {
	aStale, bStale := a.generation != gen, b.generation != gen
	if aStale != bStale {
		return aStale
	}
	if a.depth != b.depth {
		return a.depth < b.depth
	}
	return a.stamp < b.stamp
}
