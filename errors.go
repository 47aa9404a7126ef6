package placementconn

import (
	"errors"
	"fmt"
)

// ErrEmptyAccessList is returned by StartPlacementListConnection when
// called with no accesses; the selection/installation passes have nothing
// to walk and the contract requires a non-empty list.
var ErrEmptyAccessList = errors.New("placementconn: placement access list must not be empty")

// Kind identifies why StartPlacementListConnection or a commit-time
// classifier refused to proceed. Each kind has a stable message fragment
// so operators can distinguish causes.
type Kind int

const (
	_ Kind = iota

	// DdlOnSecondaryRead: DDL conflicts with a placement that has already
	// been read over multiple connections.
	DdlOnSecondaryRead

	// DdlOnColocatedSecondaryRead: DDL conflicts with a co-located
	// placement that has been read over multiple connections.
	DdlOnColocatedSecondaryRead

	// MultiConnectionWrite: the access list would require using two
	// different writing connections in one statement.
	MultiConnectionWrite

	// NewConnOverDdl: cannot bypass a connection that already has DDL
	// in flight for this placement.
	NewConnOverDdl

	// NewConnOverDml: cannot bypass a connection that already has DML
	// in flight for this placement.
	NewConnOverDml

	// ParallelDdl: parallel DDL across connections is forbidden.
	ParallelDdl

	// ShardAllPlacementsFailed: every modified placement of a shard
	// failed at commit time, leaving the shard unrepresented.
	ShardAllPlacementsFailed

	// NoShardCommitted: at least one shard was examined at commit time
	// and none of them succeeded.
	NoShardCommitted
)

func (k Kind) String() string {
	switch k {
	case DdlOnSecondaryRead:
		return "DdlOnSecondaryRead"
	case DdlOnColocatedSecondaryRead:
		return "DdlOnColocatedSecondaryRead"
	case MultiConnectionWrite:
		return "MultiConnectionWrite"
	case NewConnOverDdl:
		return "NewConnOverDdl"
	case NewConnOverDml:
		return "NewConnOverDml"
	case ParallelDdl:
		return "ParallelDdl"
	case ShardAllPlacementsFailed:
		return "ShardAllPlacementsFailed"
	case NoShardCommitted:
		return "NoShardCommitted"
	default:
		return "Unknown"
	}
}

// Error is the typed failure returned by this package's acquire and
// commit-time operations. Compare against a specific cause with
// errors.Is(err, &placementconn.Error{Kind: placementconn.ParallelDdl}).
type Error struct {
	Kind        Kind
	PlacementID uint64
	ShardID     uint64
	err         error
}

func (e *Error) Error() string {
	var msg string
	switch e.Kind {
	case DdlOnSecondaryRead:
		msg = fmt.Sprintf("cannot perform DDL on placement %d, which has been read over multiple connections", e.PlacementID)
	case DdlOnColocatedSecondaryRead:
		msg = fmt.Sprintf("cannot perform DDL on placement %d since a co-located placement has been read over multiple connections", e.PlacementID)
	case MultiConnectionWrite:
		msg = "cannot perform query with placements that were modified over multiple connections"
	case NewConnOverDdl:
		msg = fmt.Sprintf("cannot establish a new connection for placement %d, since DDL has been executed on a connection that is in use", e.PlacementID)
	case NewConnOverDml:
		msg = fmt.Sprintf("cannot establish a new connection for placement %d, since DML has been executed on a connection that is in use", e.PlacementID)
	case ParallelDdl:
		msg = "cannot perform a parallel DDL command because multiple placements have been accessed over the same connection"
	case ShardAllPlacementsFailed:
		msg = fmt.Sprintf("could not make changes to shard %d on any node", e.ShardID)
	case NoShardCommitted:
		msg = "could not commit transaction on any active node"
	default:
		msg = "placement connection error"
	}
	if e.err != nil {
		return fmt.Sprintf("%s: %s", msg, e.err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.err
}

// Is lets errors.Is match on Kind alone, so callers can write
// errors.Is(err, &Error{Kind: ParallelDdl}) without knowing PlacementID.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

func newPlacementError(kind Kind, placementID uint64) *Error {
	return &Error{Kind: kind, PlacementID: placementID}
}

func newShardError(kind Kind, shardID uint64) *Error {
	return &Error{Kind: kind, ShardID: shardID}
}
