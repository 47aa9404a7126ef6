package placementconn

// Flags is a 32-bit mask passed to StartPlacementListConnection. Bits not
// recognized by this package are opaque and forwarded unchanged to the
// connection pool.
type Flags uint32

const (
	// FlagForDML marks the list as containing at least one DML access.
	// StartPlacementConnection and GetPlacementConnection derive a DML
	// access kind from it (unless FlagForDDL is also set); the list forms
	// only forward it to the pool with the rest of the flag set.
	FlagForDML Flags = 1 << iota

	// FlagForDDL marks the list as containing at least one DDL access.
	// StartPlacementConnection and GetPlacementConnection derive a DDL
	// access kind from it; the list forms only forward it to the pool.
	FlagForDDL

	// FlagForceNewConnection forbids reuse of any existing connection,
	// even one that would otherwise satisfy reusable.
	FlagForceNewConnection
)

// Has reports whether all of want's bits are set in f.
func (f Flags) Has(want Flags) bool {
	return f&want == want
}
