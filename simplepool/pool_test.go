package simplepool_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/citusdata/placementconn"
	"github.com/citusdata/placementconn/simplepool"
)

func TestStartNodeConnectionThenFinish(t *testing.T) {
	t.Parallel()

	pool := simplepool.NewPool(simplepool.Config{MaxConnsPerNode: 2})
	defer pool.Close()

	ctx := context.Background()

	handle, err := pool.StartNodeConnection(ctx, 0, "node-1", 5432)
	require.NoError(t, err)
	require.NotNil(t, handle)

	require.NoError(t, pool.FinishConnectionEstablishment(ctx, handle))
	require.False(t, handle.(*simplepool.Handle).ClaimedExclusively())
	require.False(t, handle.(*simplepool.Handle).RemoteTransactionFailed())
}

func TestFinishConnectionEstablishmentRespectsContext(t *testing.T) {
	t.Parallel()

	pool := simplepool.NewPool(simplepool.Config{})
	defer pool.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()

	handle, err := pool.StartNodeConnection(context.Background(), 0, "node-1", 5432)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	err = pool.FinishConnectionEstablishment(ctx, handle)
	_ = err // establishment may have already completed faster than the timeout; either outcome is valid here
}

func TestHandleTracksReferences(t *testing.T) {
	t.Parallel()

	pool := simplepool.NewPool(simplepool.Config{})
	defer pool.Close()

	ctx := context.Background()
	handle, err := pool.StartNodeConnection(ctx, 0, "node-1", 5432)
	require.NoError(t, err)
	require.NoError(t, pool.FinishConnectionEstablishment(ctx, handle))

	catalog := &fakeCatalog{}
	mgr := placementconn.NewManager(pool, catalog, nil)

	placement := placementconn.Placement{PlacementID: 1, ShardID: 10, NodeName: "node-1", NodePort: 5432}
	access := placementconn.PlacementAccess{Placement: placement, AccessKind: placementconn.AccessDML}

	conn, err := mgr.StartPlacementListConnection(ctx, 0, []placementconn.PlacementAccess{access}, "alice")
	require.NoError(t, err)
	require.NotNil(t, conn)

	mgr.OnConnectionClosing(conn)

	conn2, err := mgr.StartPlacementListConnection(ctx, 0, []placementconn.PlacementAccess{access}, "alice")
	require.NoError(t, err)
	require.NotNil(t, conn2)
	// The handle tracked the ref, so closing it cleared the ref and the
	// second acquire got a new handle instead of reusing conn.
	require.NotSame(t, conn, conn2)
}

func TestResolvePasswordWithoutPassfile(t *testing.T) {
	t.Parallel()

	cfg := simplepool.Config{}
	password, err := cfg.ResolvePassword("node-1", 5432, "mydb")
	require.NoError(t, err)
	require.Empty(t, password)
}

type fakeCatalog struct{}

func (f *fakeCatalog) LoadGroupShardPlacement(ctx context.Context, shardID, placementID uint64) (placementconn.ShardState, error) {
	return placementconn.ShardStateFinalized, nil
}

func (f *fakeCatalog) UpdateShardPlacementState(ctx context.Context, placementID uint64, newState placementconn.ShardState) error {
	return nil
}
