package placementconn

// maxNodeNameLength bounds colocation-key node name comparisons the way
// the original's MAX_NODE_LENGTH-sized buffers bound its strcpy.
const maxNodeNameLength = 255

// colocationKey identifies a colocation slice: all placements sharing a
// (node, port, colocation group, representative hash-range value) share
// one ConnectionRef.
type colocationKey struct {
	nodeName string
	nodePort uint16
	groupID  uint32
	repValue uint32
}

func boundedNodeName(nodeName string) string {
	if len(nodeName) > maxNodeNameLength {
		return nodeName[:maxNodeNameLength]
	}
	return nodeName
}

func newColocationKey(p Placement) colocationKey {
	return colocationKey{
		nodeName: boundedNodeName(p.NodeName),
		nodePort: p.NodePort,
		groupID:  p.ColocationGroupID,
		repValue: p.RepresentativeValue,
	}
}

// PlacementEntry is the Placement Index's value type: one per placement
// touched in this transaction.
type PlacementEntry struct {
	placementID uint64

	primary      *ConnectionRef
	hasSecondary bool
	colocated    *ColocatedEntry // nil unless PartitionMethod is HASH or NONE
}

// ColocatedEntry is the Colocation Index's value type: one per
// colocation key, shared by every placement participating in that slice.
type ColocatedEntry struct {
	key          colocationKey
	primary      *ConnectionRef
	hasSecondary bool
}

// ShardEntry groups every PlacementEntry touched for one shard, used only
// at commit time for failure classification.
type ShardEntry struct {
	shardID uint64
	members []*PlacementEntry
}
