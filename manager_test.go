package placementconn_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/citusdata/placementconn"
)

func TestNewManagerDefaultsCapacity(t *testing.T) {
	t.Parallel()

	mgr := placementconn.NewManager(newFakePool("alice"), newFakeCatalog(), nil)
	stats := mgr.Stat()
	require.Zero(t, stats.TrackedPlacements)
	require.Zero(t, stats.TrackedShards)
}

func TestResetEmptiesIndices(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := newFakePool("alice")
	mgr := placementconn.NewManager(pool, newFakeCatalog(), nil)

	p := placement(1, 10, "node-1", 5432, placementconn.PartitionMethodHash, 1, 0)
	_, err := mgr.StartPlacementListConnection(ctx, 0, []placementconn.PlacementAccess{access(p, placementconn.AccessSelect)}, "")
	require.NoError(t, err)
	require.Equal(t, 1, mgr.Stat().TrackedPlacements)

	mgr.Reset()

	stats := mgr.Stat()
	require.Zero(t, stats.TrackedPlacements)
	require.Zero(t, stats.TrackedColocationGroups)
	require.Zero(t, stats.TrackedShards)

	// Reset is idempotent.
	mgr.Reset()
	require.Zero(t, mgr.Stat().TrackedPlacements)
}

func TestStartPlacementListConnectionUsesPoolUserWhenEmpty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := newFakePool("service-user")
	mgr := placementconn.NewManager(pool, newFakeCatalog(), nil)

	p := placement(1, 10, "node-1", 5432, placementconn.PartitionMethodHash, 1, 0)
	conn, err := mgr.StartPlacementListConnection(ctx, 0, []placementconn.PlacementAccess{access(p, placementconn.AccessSelect)}, "")
	require.NoError(t, err)
	require.NotNil(t, conn)

	// The ref was installed for the pool's user, so an explicit
	// "service-user" acquire reuses the same connection.
	again, err := mgr.StartPlacementListConnection(ctx, 0, []placementconn.PlacementAccess{access(p, placementconn.AccessSelect)}, "service-user")
	require.NoError(t, err)
	require.Same(t, conn, again)
}

func TestOnConnectionClosingAllowsFreshAcquire(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	pool := newFakePool("alice")
	mgr := placementconn.NewManager(pool, newFakeCatalog(), nil)

	p := placement(1, 10, "node-1", 5432, placementconn.PartitionMethodHash, 1, 0)
	ddlAccess := access(p, placementconn.AccessDDL)

	conn, err := mgr.StartPlacementListConnection(ctx, placementconn.FlagForDDL, []placementconn.PlacementAccess{ddlAccess}, "alice")
	require.NoError(t, err)

	mgr.OnConnectionClosing(conn)

	// Once the ref's conn pointer is cleared, the next acquire for the
	// same placement sees "no connection chosen yet" and is free to
	// establish a new one, exactly as the original's
	// CloseShardPlacementAssociation leaves hadDDL/hadDML untouched but
	// nulls the connection pointer itself.
	second, err := mgr.StartPlacementListConnection(ctx, 0, []placementconn.PlacementAccess{access(p, placementconn.AccessSelect)}, "bob")
	require.NoError(t, err)
	require.NotEqual(t, conn, second)
}

type recordingAcquireTracer struct {
	starts []placementconn.TraceAcquireStartData
	ends   []placementconn.TraceAcquireEndData
}

func (r *recordingAcquireTracer) TraceAcquireStart(ctx context.Context, data placementconn.TraceAcquireStartData) context.Context {
	r.starts = append(r.starts, data)
	return ctx
}

func (r *recordingAcquireTracer) TraceAcquireEnd(ctx context.Context, data placementconn.TraceAcquireEndData) {
	r.ends = append(r.ends, data)
}

func TestAcquireTracerObservesStartAndEnd(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	tracer := &recordingAcquireTracer{}
	mgr := placementconn.NewManager(newFakePool("u"), newFakeCatalog(), &placementconn.Config{AcquireTracer: tracer})

	p1 := placement(1, 10, "node-1", 5432, placementconn.PartitionMethodHash, 0, 0)
	_, err := mgr.StartPlacementListConnection(ctx, 0, []placementconn.PlacementAccess{access(p1, placementconn.AccessSelect)}, "u")
	require.NoError(t, err)

	require.Len(t, tracer.starts, 1)
	require.Equal(t, "u", tracer.starts[0].User)
	require.Len(t, tracer.ends, 1)
	require.NoError(t, tracer.ends[0].Err)

	_, err = mgr.StartPlacementListConnection(ctx, 0, nil, "u")
	require.ErrorIs(t, err, placementconn.ErrEmptyAccessList)
	require.Len(t, tracer.ends, 1)
}
