package placementconn

import "container/list"

// ConnectionRef is the central mutable record shared between a
// PlacementEntry and, when the placement is in a colocation group, the
// ColocatedEntry for its group. There is exactly one physical
// ConnectionRef per placement (or per colocation group); PI and CI hold
// pointers to the same allocation, never copies.
type ConnectionRef struct {
	user   string
	conn   ConnectionHandle // nil means "no connection assigned yet"
	hadDML bool
	hadDDL bool

	// elem is this ref's node in conn's ReferenceTracker, or nil if conn
	// is nil. Only OnConnectionClosing, ReferenceTracker.track and
	// installConnection (when it moves the ref to another connection)
	// touch it.
	elem *list.Element
}

// Conn returns the connection currently assigned to this ref, or nil if
// none is.
func (r *ConnectionRef) Conn() ConnectionHandle {
	return r.conn
}

// User returns the user this ref was last installed for.
func (r *ConnectionRef) User() string {
	return r.user
}

// HadDML reports whether this ref's connection has executed DML for its
// placement within the current transaction.
func (r *ConnectionRef) HadDML() bool {
	return r.hadDML
}

// HadDDL reports whether this ref's connection has executed DDL for its
// placement within the current transaction.
func (r *ConnectionRef) HadDDL() bool {
	return r.hadDDL
}

func newConnectionRef() *ConnectionRef {
	return &ConnectionRef{}
}
