package placementconn_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/citusdata/placementconn"
)

// fakeHandle is a minimal placementconn.ConnectionHandle for tests: no
// real I/O, just the three bits the core reads plus a ReferenceTracker.
type fakeHandle struct {
	id string

	mu        sync.Mutex
	exclusive bool
	txFailed  bool

	tracker placementconn.ReferenceTracker
}

func (h *fakeHandle) ClaimedExclusively() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exclusive
}

func (h *fakeHandle) setClaimedExclusively(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exclusive = v
}

func (h *fakeHandle) RemoteTransactionFailed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.txFailed
}

func (h *fakeHandle) setRemoteTransactionFailed(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.txFailed = v
}

func (h *fakeHandle) Tracker() *placementconn.ReferenceTracker {
	return &h.tracker
}

// fakePool hands out a new *fakeHandle on every StartNodeConnection call;
// tests that need reuse across Manager calls keep their own reference
// to inspect.
type fakePool struct {
	mu       sync.Mutex
	handles  []*fakeHandle
	user     string
	failNext bool
}

func newFakePool(user string) *fakePool {
	return &fakePool{user: user}
}

func (p *fakePool) StartNodeConnection(ctx context.Context, flags placementconn.Flags, nodeName string, nodePort uint16) (placementconn.ConnectionHandle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.failNext {
		p.failNext = false
		return nil, fmt.Errorf("fakePool: simulated dial failure")
	}

	h := &fakeHandle{id: fmt.Sprintf("%s:%d#%d", nodeName, nodePort, len(p.handles))}
	p.handles = append(p.handles, h)
	return h, nil
}

func (p *fakePool) FinishConnectionEstablishment(ctx context.Context, handle placementconn.ConnectionHandle) error {
	return nil
}

func (p *fakePool) CurrentUserName() string {
	return p.user
}

func (p *fakePool) newConnectionCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handles)
}

// fakeCatalog is an in-memory placementconn.CatalogAdapter.
type fakeCatalog struct {
	mu     sync.Mutex
	states map[uint64]placementconn.ShardState
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{states: make(map[uint64]placementconn.ShardState)}
}

func (c *fakeCatalog) stateFor(placementID uint64) placementconn.ShardState {
	c.mu.Lock()
	defer c.mu.Unlock()
	if s, ok := c.states[placementID]; ok {
		return s
	}
	return placementconn.ShardStateFinalized
}

func (c *fakeCatalog) setState(placementID uint64, state placementconn.ShardState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.states[placementID] = state
}

func (c *fakeCatalog) LoadGroupShardPlacement(ctx context.Context, shardID, placementID uint64) (placementconn.ShardState, error) {
	return c.stateFor(placementID), nil
}

func (c *fakeCatalog) UpdateShardPlacementState(ctx context.Context, placementID uint64, newState placementconn.ShardState) error {
	c.setState(placementID, newState)
	return nil
}

func placement(placementID, shardID uint64, node string, port uint16, method placementconn.PartitionMethod, groupID, repValue uint32) placementconn.Placement {
	return placementconn.Placement{
		PlacementID:         placementID,
		ShardID:             shardID,
		NodeName:            node,
		NodePort:            port,
		PartitionMethod:     method,
		ColocationGroupID:   groupID,
		RepresentativeValue: repValue,
	}
}

func access(p placementconn.Placement, kind placementconn.AccessKind) placementconn.PlacementAccess {
	return placementconn.PlacementAccess{Placement: p, AccessKind: kind}
}
