package placementconn

import (
	"container/list"
	"context"
)

// ConnectionPool is the boundary this package uses to obtain a new
// session to a (host, port) and to observe per-connection flags. It is
// not implemented here; a real implementation opens the TCP connection
// and speaks the database wire protocol, both out of scope for this
// package.
type ConnectionPool interface {
	// StartNodeConnection begins establishing a connection to
	// (nodeName, nodePort). flags carries any bits the pool understands;
	// the core forwards them unchanged.
	StartNodeConnection(ctx context.Context, flags Flags, nodeName string, nodePort uint16) (ConnectionHandle, error)

	// FinishConnectionEstablishment blocks until handle is ready or
	// failed.
	FinishConnectionEstablishment(ctx context.Context, handle ConnectionHandle) error

	// CurrentUserName returns the user of the current session, used when
	// StartPlacementListConnection is called without an explicit user.
	CurrentUserName() string
}

// ConnectionHandle is a single pooled connection as seen by this package.
// Pool adapters embed ReferenceTracker in their concrete handle type to
// satisfy the Tracker method.
type ConnectionHandle interface {
	// ClaimedExclusively reports whether the pool has leased this
	// connection exclusively to someone else, making it unavailable for
	// reuse. This is a pool-level lease the core only reads.
	ClaimedExclusively() bool

	// RemoteTransactionFailed reports whether the remote transaction on
	// this connection is known to have failed.
	RemoteTransactionFailed() bool

	// Tracker returns the intrusive list of ConnectionRefs that
	// currently point at this connection, so OnConnectionClosing can
	// walk it in O(k) instead of scanning every tracked placement.
	Tracker() *ReferenceTracker
}

// ReferenceTracker is the intrusive list a pool adapter must embed in
// its connection handle: a doubly-linked list of ConnectionRef pointers,
// so the close hook never needs a secondary index to find what it must
// unlink. Built on container/list the same way an LRU cache threads its
// membership list through the cached entries themselves.
type ReferenceTracker struct {
	refs list.List
}

func (t *ReferenceTracker) track(ref *ConnectionRef) {
	ref.elem = t.refs.PushBack(ref)
}

// Each calls fn once for every ConnectionRef currently tracked, tolerating
// fn clearing the ref's connection concurrently with iteration.
func (t *ReferenceTracker) Each(fn func(*ConnectionRef)) {
	for el := t.refs.Front(); el != nil; {
		next := el.Next()
		fn(el.Value.(*ConnectionRef))
		el = next
	}
}
