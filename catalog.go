package placementconn

import "context"

// ShardState is the persisted lifecycle state of a placement in the
// metadata catalog.
type ShardState int

const (
	ShardStateFinalized ShardState = iota
	ShardStateInactive
	ShardStateToDelete
)

func (s ShardState) String() string {
	switch s {
	case ShardStateFinalized:
		return "finalized"
	case ShardStateInactive:
		return "inactive"
	case ShardStateToDelete:
		return "to_delete"
	default:
		return "unknown"
	}
}

// CatalogAdapter is the boundary this package uses to look up and update
// placement state. Catalog lookups, persistence, and the SQL planner that
// decides which placements to touch are all external collaborators.
type CatalogAdapter interface {
	LoadGroupShardPlacement(ctx context.Context, shardID, placementID uint64) (ShardState, error)
	UpdateShardPlacementState(ctx context.Context, placementID uint64, newState ShardState) error
}
