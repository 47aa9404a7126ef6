// Package simplepool is a reference ConnectionPool implementation for
// package placementconn. It pools simulated sessions per (nodeName,
// nodePort) with github.com/jackc/puddle/v2, the way pgxpool pools real
// connections, but never opens a socket or speaks the database wire
// protocol: that boundary belongs to a production pool adapter, not to
// this package or to placementconn itself.
package simplepool

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/puddle/v2"

	"github.com/citusdata/placementconn"
)

type nodeKey struct {
	name string
	port uint16
}

// session is the simulated resource puddle pools. A production adapter
// would replace this with a real connection type.
type session struct {
	nodeName  string
	nodePort  uint16
	user      string
	password  string
	createdAt time.Time
}

// nodeEntry pairs a per-node puddle.Pool with the background goroutine
// that evicts expired and over-idle sessions from it.
type nodeEntry struct {
	pool   *puddle.Pool[*session]
	stopCh chan struct{}
}

// Pool implements placementconn.ConnectionPool over one puddle.Pool per
// distinct node.
type Pool struct {
	cfg Config

	mu        sync.Mutex
	nodePools map[nodeKey]*nodeEntry
}

// NewPool constructs a Pool. cfg's zero value is usable.
func NewPool(cfg Config) *Pool {
	return &Pool{
		cfg:       cfg,
		nodePools: make(map[nodeKey]*nodeEntry),
	}
}

func (p *Pool) nodePool(nodeName string, nodePort uint16) (*puddle.Pool[*session], error) {
	key := nodeKey{name: nodeName, port: nodePort}

	p.mu.Lock()
	defer p.mu.Unlock()

	if ne, ok := p.nodePools[key]; ok {
		return ne.pool, nil
	}

	cfg := p.cfg
	np, err := puddle.NewPool(&puddle.Config[*session]{
		Constructor: func(ctx context.Context) (*session, error) {
			password, err := cfg.ResolvePassword(nodeName, nodePort, "")
			if err != nil {
				return nil, err
			}
			return &session{
				nodeName:  nodeName,
				nodePort:  nodePort,
				user:      cfg.currentUserName(),
				password:  password,
				createdAt: time.Now(),
			}, nil
		},
		Destructor: func(s *session) {},
		MaxSize:    cfg.maxConnsPerNode(),
	})
	if err != nil {
		return nil, fmt.Errorf("simplepool: build pool for %s:%d: %w", nodeName, nodePort, err)
	}

	ne := &nodeEntry{pool: np, stopCh: make(chan struct{})}
	p.nodePools[key] = ne
	go p.backgroundHealthCheck(ne)
	return np, nil
}

// backgroundHealthCheck periodically evicts sessions past
// Config.MaxConnLifetime or idle past Config.MaxConnIdleTime, the same
// two conditions pgxpool's health check enforces, minus its min-conns
// floor: simplepool has no minimum pool size to preserve.
func (p *Pool) backgroundHealthCheck(ne *nodeEntry) {
	ticker := time.NewTicker(p.cfg.healthCheckPeriod())
	defer ticker.Stop()

	for {
		select {
		case <-ne.stopCh:
			return
		case <-ticker.C:
			p.evictStaleSessions(ne)
		}
	}
}

func (p *Pool) evictStaleSessions(ne *nodeEntry) {
	lifetime := p.cfg.maxConnLifetime()
	idleTime := p.cfg.maxConnIdleTime()

	for _, res := range ne.pool.AcquireAllIdle() {
		switch {
		case time.Since(res.CreationTime()) > lifetime:
			res.Destroy()
		case res.IdleDuration() > idleTime:
			res.Destroy()
		default:
			res.ReleaseUnused()
		}
	}
}

// StartNodeConnection begins acquiring a session for (nodeName, nodePort)
// without blocking on it, mirroring the original's
// StartNodeUserDatabaseConnection: it returns as soon as a *Handle
// exists, not once the session is actually usable.
func (p *Pool) StartNodeConnection(ctx context.Context, flags placementconn.Flags, nodeName string, nodePort uint16) (placementconn.ConnectionHandle, error) {
	np, err := p.nodePool(nodeName, nodePort)
	if err != nil {
		return nil, err
	}

	h := &Handle{pool: p, ready: make(chan struct{})}

	go func() {
		res, err := np.Acquire(ctx)
		h.res, h.err = res, err
		close(h.ready)
	}()

	return h, nil
}

// FinishConnectionEstablishment blocks until handle's session is ready or
// failed, or ctx is done.
func (p *Pool) FinishConnectionEstablishment(ctx context.Context, handle placementconn.ConnectionHandle) error {
	h, ok := handle.(*Handle)
	if !ok {
		return fmt.Errorf("simplepool: unexpected handle type %T", handle)
	}

	select {
	case <-h.ready:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// CurrentUserName returns the configured session user, falling back to
// the OS user the way pgconn's defaultSettings does.
func (p *Pool) CurrentUserName() string {
	return p.cfg.currentUserName()
}

// Close shuts down every per-node puddle.Pool and stops its background
// health check. It does not affect sessions already handed out to
// callers.
func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ne := range p.nodePools {
		close(ne.stopCh)
		ne.pool.Close()
	}
}

// Stat reports the puddle.Stat for (nodeName, nodePort), or nil if no
// session has ever been requested for that node.
func (p *Pool) Stat(nodeName string, nodePort uint16) *puddle.Stat {
	p.mu.Lock()
	ne, ok := p.nodePools[nodeKey{name: nodeName, port: nodePort}]
	p.mu.Unlock()
	if !ok {
		return nil
	}
	return ne.pool.Stat()
}
