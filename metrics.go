package placementconn

// Stats is a point-in-time snapshot of a Manager's activity, grounded on
// pgxpool.Stat's role as a read-only view over pool counters.
type Stats struct {
	// AcquireCount is the number of times StartPlacementListConnection
	// returned successfully.
	AcquireCount int64

	// NewConnectionCount is the number of times the selection pass found
	// no reusable connection and the pool returned a new one (a failed
	// StartNodeConnection call is not counted).
	NewConnectionCount int64

	// TrackedPlacements is the current size of the Placement Index.
	TrackedPlacements int

	// TrackedColocationGroups is the current size of the Colocation
	// Index.
	TrackedColocationGroups int

	// TrackedShards is the current size of the Shard Index.
	TrackedShards int
}
