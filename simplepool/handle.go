package simplepool

import (
	"sync"

	"github.com/jackc/puddle/v2"

	"github.com/citusdata/placementconn"
)

// Handle is simplepool's placementconn.ConnectionHandle implementation.
// It is not safe for concurrent field access beyond the synchronized
// accessors below, matching the single-backend concurrency model
// placementconn itself assumes.
type Handle struct {
	pool *Pool

	ready chan struct{}
	res   *puddle.Resource[*session]
	err   error

	tracker placementconn.ReferenceTracker

	mu        sync.Mutex
	exclusive bool
	txFailed  bool
}

// ClaimedExclusively reports whether the pool has leased this handle to
// someone other than its current holder. simplepool never does so on its
// own; callers flip it with SetClaimedExclusively to exercise the reuse
// rules that depend on exclusivity.
func (h *Handle) ClaimedExclusively() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.exclusive
}

// SetClaimedExclusively overrides the exclusivity bit ClaimedExclusively
// reports.
func (h *Handle) SetClaimedExclusively(v bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.exclusive = v
}

// RemoteTransactionFailed reports whether MarkRemoteTransactionFailed has
// been called on this handle.
func (h *Handle) RemoteTransactionFailed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.txFailed
}

// MarkRemoteTransactionFailed records that the simulated remote
// transaction on this session failed, for commit-time classification.
func (h *Handle) MarkRemoteTransactionFailed() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.txFailed = true
}

// Tracker returns the intrusive list of ConnectionRefs currently pointing
// at this handle.
func (h *Handle) Tracker() *placementconn.ReferenceTracker {
	return &h.tracker
}

// Release returns the underlying session to its node's pool for reuse by
// a later transaction. onClosing, typically Manager.OnConnectionClosing,
// is called first so every ConnectionRef still tracking this handle is
// unlinked before the session becomes available again.
func (h *Handle) Release(onClosing func(placementconn.ConnectionHandle)) {
	if onClosing != nil {
		onClosing(h)
	}
	if h.res != nil {
		h.res.Release()
	}
}

// Close destroys the underlying session instead of returning it to the
// pool, for use after RemoteTransactionFailed.
func (h *Handle) Close(onClosing func(placementconn.ConnectionHandle)) {
	if onClosing != nil {
		onClosing(h)
	}
	if h.res != nil {
		h.res.Destroy()
	}
}
