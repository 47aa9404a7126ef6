package placementconn

import "context"

// defaultInitialIndexCapacity sizes each index to 64 initial buckets.
const defaultInitialIndexCapacity = 64

// AcquireTracer observes StartPlacementListConnection calls.
type AcquireTracer interface {
	TraceAcquireStart(ctx context.Context, data TraceAcquireStartData) context.Context
	TraceAcquireEnd(ctx context.Context, data TraceAcquireEndData)
}

// TraceAcquireStartData is passed to TraceAcquireStart.
type TraceAcquireStartData struct {
	Accesses []PlacementAccess
	User     string
	Flags    Flags
}

// TraceAcquireEndData is passed to TraceAcquireEnd.
type TraceAcquireEndData struct {
	Conn ConnectionHandle
	Err  error
}

// CommitTracer observes commit-time classification calls.
type CommitTracer interface {
	TraceCheckShardsStart(ctx context.Context, data TraceCheckShardsStartData) context.Context
	TraceCheckShardsEnd(ctx context.Context, data TraceCheckShardsEndData)
}

// TraceCheckShardsStartData is passed to TraceCheckShardsStart.
type TraceCheckShardsStartData struct {
	PreCommit bool
	Using2PC  bool
}

// TraceCheckShardsEndData is passed to TraceCheckShardsEnd.
type TraceCheckShardsEndData struct {
	Err error

	// WarnedShardIDs holds shards that failed classification but were
	// tolerated rather than escalated, because using2PC was false.
	WarnedShardIDs []uint64
}

// Tracer is implemented by anything that wants to observe both acquire
// and commit-time operations. Config takes the two sides as separate
// fields, AcquireTracer and CommitTracer, so implementations that only
// care about one side can implement only that interface; a Tracer value
// can be set in both fields.
type Tracer interface {
	AcquireTracer
	CommitTracer
}

// Config configures a Manager. A nil Config is equivalent to &Config{}.
type Config struct {
	// InitialIndexCapacity sizes the three indices at Init. Zero means
	// defaultInitialIndexCapacity.
	InitialIndexCapacity int

	// AcquireTracer, if non-nil, observes StartPlacementListConnection.
	AcquireTracer AcquireTracer

	// CommitTracer, if non-nil, observes commit-time classification.
	CommitTracer CommitTracer
}

func (c *Config) capacity() int {
	if c == nil || c.InitialIndexCapacity <= 0 {
		return defaultInitialIndexCapacity
	}
	return c.InitialIndexCapacity
}

// Manager owns the Placement Index, Colocation Index, and Shard Index for
// one coordinator backend and implements its acquire and commit-time
// operations. It is not safe for concurrent use from more than one
// goroutine: it is single-threaded cooperative within one coordinator
// backend, so Manager carries no internal lock.
type Manager struct {
	pool    ConnectionPool
	catalog CatalogAdapter
	cfg     Config

	placements placementIndex
	colocated  colocationIndex
	shards     shardIndex

	stats Stats
}

// NewManager constructs a Manager bound to pool and catalog and sizes its
// indices by calling Init, so it is ready for use on return.
func NewManager(pool ConnectionPool, catalog CatalogAdapter, cfg *Config) *Manager {
	m := &Manager{pool: pool, catalog: catalog}
	if cfg != nil {
		m.cfg = *cfg
	}
	m.Init()
	return m
}

// Init sizes the three indices to InitialIndexCapacity initial buckets.
// It is safe to call again after Reset.
func (m *Manager) Init() {
	cap := m.cfg.capacity()
	m.placements = make(placementIndex, cap)
	m.colocated = make(colocationIndex, cap)
	m.shards = make(shardIndex, cap)
}

// Reset empties the Placement Index, Colocation Index, and Shard Index.
// It is called on both commit and abort, and is idempotent: calling it
// on an already-empty Manager is a no-op other than re-sizing the maps.
func (m *Manager) Reset() {
	m.Init()
}

// Stat returns a snapshot of this Manager's counters.
func (m *Manager) Stat() Stats {
	s := m.stats
	s.TrackedPlacements = len(m.placements)
	s.TrackedColocationGroups = len(m.colocated)
	s.TrackedShards = len(m.shards)
	return s
}

// OnConnectionClosing is the close-hook pool adapters call when a
// connection is about to go away. It nulls out conn on every
// ConnectionRef that referenced handle, but deliberately leaves
// hadDDL/hadDML untouched: the next acquire for that placement sees "no
// connection chosen yet" and is free to establish a fresh one, while the
// DDL/DML history survives for any ConnectionRef that still points at a
// different, still-open connection. PI/CI entries themselves are not
// rewritten.
func (m *Manager) OnConnectionClosing(handle ConnectionHandle) {
	handle.Tracker().Each(func(ref *ConnectionRef) {
		ref.conn = nil
		ref.elem = nil
	})
}
