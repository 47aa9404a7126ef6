package placementconn

// placementIndex, colocationIndex, and shardIndex are plain maps sized
// from Config.InitialIndexCapacity at Init, the way pgxpool.NewWithConfig
// pre-sizes its internal structures from Config. They are never touched
// outside the owning Manager, which is itself exclusive to one
// coordinator backend, so no locking is needed.
type placementIndex map[uint64]*PlacementEntry
type colocationIndex map[colocationKey]*ColocatedEntry
type shardIndex map[uint64]*ShardEntry

// findOrCreatePlacementEntry returns the existing PlacementEntry for
// placement.PlacementID, or creates and links one.
func (m *Manager) findOrCreatePlacementEntry(p Placement) *PlacementEntry {
	if entry, ok := m.placements[p.PlacementID]; ok {
		return entry
	}

	entry := &PlacementEntry{placementID: p.PlacementID}

	if p.PartitionMethod.colocatable() {
		key := newColocationKey(p)
		colocated, ok := m.colocated[key]
		if !ok {
			colocated = &ColocatedEntry{key: key, primary: newConnectionRef()}
			m.colocated[key] = colocated
		}
		entry.primary = colocated.primary
		entry.colocated = colocated
	} else {
		entry.primary = newConnectionRef()
	}

	m.placements[p.PlacementID] = entry
	m.linkShardMember(p.ShardID, entry)

	return entry
}

// linkShardMember links entry into the Shard Index under shardID exactly
// once, even if called repeatedly for the same placement.
func (m *Manager) linkShardMember(shardID uint64, entry *PlacementEntry) {
	shard, ok := m.shards[shardID]
	if !ok {
		shard = &ShardEntry{shardID: shardID}
		m.shards[shardID] = shard
	}
	for _, member := range shard.members {
		if member == entry {
			return
		}
	}
	shard.members = append(shard.members, entry)
}
