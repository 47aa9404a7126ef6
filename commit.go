package placementconn

import "context"

// checkShardPlacements is the per-shard helper behind both commit-time
// entry points, grounded on the original's CheckShardPlacements.
// It inspects only members whose primary recorded hadDDL or hadDML
// (read-only placements cannot be made invalid), classifies each as a
// failure if its connection is gone or its remote transaction failed,
// and reports whether the shard is still represented by at least one
// success. On success it transitions every failed member from FINALIZED
// to INACTIVE in the catalog.
func (m *Manager) checkShardPlacements(ctx context.Context, shard *ShardEntry) (ok bool, err error) {
	var failed []*PlacementEntry
	successes := 0

	for _, member := range shard.members {
		primary := member.primary
		if primary == nil || !(primary.hadDDL || primary.hadDML) {
			continue
		}

		if primary.conn == nil || primary.conn.RemoteTransactionFailed() {
			failed = append(failed, member)
		} else {
			successes++
		}
	}

	if len(failed) > 0 && successes == 0 {
		return false, nil
	}

	for _, member := range failed {
		state, err := m.catalog.LoadGroupShardPlacement(ctx, shard.shardID, member.placementID)
		if err != nil {
			return false, err
		}
		if state != ShardStateFinalized {
			continue
		}
		if err := m.catalog.UpdateShardPlacementState(ctx, member.placementID, ShardStateInactive); err != nil {
			return false, err
		}
	}

	return true, nil
}

func (m *Manager) traceCheckShardsStart(ctx context.Context, preCommit, using2PC bool) context.Context {
	if m.cfg.CommitTracer == nil {
		return ctx
	}
	return m.cfg.CommitTracer.TraceCheckShardsStart(ctx, TraceCheckShardsStartData{PreCommit: preCommit, Using2PC: using2PC})
}

func (m *Manager) traceCheckShardsEnd(ctx context.Context, err error, warnings []uint64) {
	if m.cfg.CommitTracer == nil {
		return
	}
	m.cfg.CommitTracer.TraceCheckShardsEnd(ctx, TraceCheckShardsEndData{Err: err, WarnedShardIDs: warnings})
}

// MarkFailedShardPlacements is the pre-commit classifier. It is called
// just before commit so 2PC never tries to commit a shard that is no longer
// represented by any live connection: every shard must have at least one
// non-failed modifying placement, or this returns ShardAllPlacementsFailed
// for the first such shard found, mirroring the original's immediate
// ereport(ERROR) abort.
func (m *Manager) MarkFailedShardPlacements(ctx context.Context) error {
	ctx = m.traceCheckShardsStart(ctx, true, true)
	err := m.markFailedShardPlacements(ctx)
	m.traceCheckShardsEnd(ctx, err, nil)
	return err
}

func (m *Manager) markFailedShardPlacements(ctx context.Context) error {
	for _, shard := range m.shards {
		ok, err := m.checkShardPlacements(ctx, shard)
		if err != nil {
			return err
		}
		if !ok {
			return newShardError(ShardAllPlacementsFailed, shard.shardID)
		}
	}
	return nil
}

// PostCommitMarkFailedShardPlacements is the post-commit classifier.
// When using2PC, a shard with no surviving placement is still fatal
// (the first one found aborts, as MarkFailedShardPlacements does);
// otherwise failures are tolerated per-shard (the remote commits may
// already have happened) but the aggregate case of zero shards ever
// succeeding is still fatal, since there would be nothing to have
// committed at all. Per-shard failures tolerated under !using2PC are
// not silently dropped: they are surfaced to the CommitTracer as
// TraceCheckShardsEndData.WarnedShardIDs, since a Go caller needs the
// value itself, not just the log side effect the original's
// WARNING-level ereport gives.
func (m *Manager) PostCommitMarkFailedShardPlacements(ctx context.Context, using2PC bool) error {
	ctx = m.traceCheckShardsStart(ctx, false, using2PC)
	warnings, err := m.postCommitMarkFailedShardPlacements(ctx, using2PC)
	m.traceCheckShardsEnd(ctx, err, warnings)
	return err
}

func (m *Manager) postCommitMarkFailedShardPlacements(ctx context.Context, using2PC bool) ([]uint64, error) {
	attempts := 0
	successes := 0
	var warnings []uint64

	for _, shard := range m.shards {
		attempts++

		ok, err := m.checkShardPlacements(ctx, shard)
		if err != nil {
			return warnings, err
		}
		if ok {
			successes++
			continue
		}
		if using2PC {
			return warnings, newShardError(ShardAllPlacementsFailed, shard.shardID)
		}
		// Without 2PC we cannot abort: some remote transactions may have
		// already committed. Record it as a warning instead of escalating.
		warnings = append(warnings, shard.shardID)
	}

	if attempts > 0 && successes == 0 {
		return warnings, newShardError(NoShardCommitted, 0)
	}

	return warnings, nil
}
