package placementconn

import "context"

// reusable reports whether ref.conn is reusable for user under flags:
// it must exist, not be exclusively claimed by someone else, reuse must
// not be forced off by the caller, and the connection must have last
// been installed for the same user. The nil check holds even though the
// selection loop already guards against a nil ref.conn before calling
// reusable; nothing about this function's own signature proves that.
func (m *Manager) reusable(flags Flags, user string, ref *ConnectionRef) bool {
	if ref.conn == nil {
		return false
	}
	if ref.conn.ClaimedExclusively() {
		return false
	}
	if flags.Has(FlagForceNewConnection) {
		return false
	}
	return ref.user == user
}

// accessPair is a PlacementAccess paired with the PlacementEntry it
// resolved to, threaded from the selection pass to the installation pass
// so the latter never has to look entries up again.
type accessPair struct {
	access PlacementAccess
	entry  *PlacementEntry
}

// selectConnection runs the selection pass: a single walk of accesses
// computing the candidate chosen connection. It returns the accepted
// (access, entry) pairs in input order (sentinel placements excluded)
// so the caller's installation pass can reuse them.
func (m *Manager) selectConnection(flags Flags, accesses []PlacementAccess, user string) ([]accessPair, ConnectionHandle, error) {
	var chosen ConnectionHandle
	foundModifying := false
	pairs := make([]accessPair, 0, len(accesses))

	for _, access := range accesses {
		if access.Placement.ShardID == InvalidShardID {
			continue
		}

		entry := m.findOrCreatePlacementEntry(access.Placement)
		pairs = append(pairs, accessPair{access: access, entry: entry})
		primary := entry.primary

		switch {
		case primary.conn == nil:
			// no connection chosen yet, nothing to check against.

		case access.AccessKind == AccessDDL && entry.hasSecondary:
			return nil, nil, newPlacementError(DdlOnSecondaryRead, access.Placement.PlacementID)

		case access.AccessKind == AccessDDL && entry.colocated != nil && entry.colocated.hasSecondary:
			return nil, nil, newPlacementError(DdlOnColocatedSecondaryRead, access.Placement.PlacementID)

		case foundModifying && (primary.hadDDL || primary.hadDML) && primary.conn != chosen:
			return nil, nil, newPlacementError(MultiConnectionWrite, access.Placement.PlacementID)

		case m.reusable(flags, user, primary):
			chosen = primary.conn
			if primary.hadDDL || primary.hadDML {
				foundModifying = true
			}

		case primary.hadDDL:
			return nil, nil, newPlacementError(NewConnOverDdl, access.Placement.PlacementID)

		case primary.hadDML:
			return nil, nil, newPlacementError(NewConnOverDml, access.Placement.PlacementID)

		case access.AccessKind == AccessDDL:
			return nil, nil, newPlacementError(ParallelDdl, access.Placement.PlacementID)

		default:
			// a previous read via a different, now-claimed
			// connection is tolerable.
		}
	}

	return pairs, chosen, nil
}

// installConnection runs the installation pass: walk pairs in the same
// order, install chosen on every entry's primary ref, and record the
// access kind's contribution to hadDDL/hadDML.
func (m *Manager) installConnection(pairs []accessPair, chosen ConnectionHandle, user string) {
	for _, p := range pairs {
		ref := p.entry.primary

		switch {
		case ref.conn == chosen:
			// no change

		case ref.conn == nil:
			ref.conn = chosen
			ref.user = user
			ref.hadDDL = false
			ref.hadDML = false
			chosen.Tracker().track(ref)

		default:
			// ref held a different connection previously, necessarily
			// for SELECT only (any write access would already have
			// failed the selection pass above).
			if p.access.AccessKind != AccessSelect {
				if ref.elem != nil {
					ref.conn.Tracker().refs.Remove(ref.elem)
				}
				ref.conn = chosen
				ref.user = user
				chosen.Tracker().track(ref)
			}
			p.entry.hasSecondary = true
			if p.entry.colocated != nil {
				p.entry.colocated.hasSecondary = true
			}
		}

		ref.hadDDL = ref.hadDDL || p.access.AccessKind == AccessDDL
		ref.hadDML = ref.hadDML || p.access.AccessKind == AccessDML
	}
}

// StartPlacementListConnection returns one connection valid for every
// access in accesses, creating or reusing connections per the selection
// and installation passes above. If user is empty, the current session
// user is used. accesses must be non-empty.
func (m *Manager) StartPlacementListConnection(ctx context.Context, flags Flags, accesses []PlacementAccess, user string) (ConnectionHandle, error) {
	if len(accesses) == 0 {
		return nil, ErrEmptyAccessList
	}
	if user == "" {
		user = m.pool.CurrentUserName()
	}

	if m.cfg.AcquireTracer != nil {
		ctx = m.cfg.AcquireTracer.TraceAcquireStart(ctx, TraceAcquireStartData{
			Accesses: accesses,
			User:     user,
			Flags:    flags,
		})
	}

	conn, err := m.startPlacementListConnection(ctx, flags, accesses, user)

	if m.cfg.AcquireTracer != nil {
		m.cfg.AcquireTracer.TraceAcquireEnd(ctx, TraceAcquireEndData{Conn: conn, Err: err})
	}

	return conn, err
}

func (m *Manager) startPlacementListConnection(ctx context.Context, flags Flags, accesses []PlacementAccess, user string) (ConnectionHandle, error) {
	pairs, chosen, err := m.selectConnection(flags, accesses, user)
	if err != nil {
		return nil, err
	}

	if chosen == nil {
		first := accesses[0].Placement

		handle, err := m.pool.StartNodeConnection(ctx, flags, first.NodeName, first.NodePort)
		if err != nil {
			return nil, err
		}

		chosen = handle
		m.stats.NewConnectionCount++
	}

	m.installConnection(pairs, chosen, user)
	m.stats.AcquireCount++

	return chosen, nil
}

// GetPlacementListConnection is the eager variant of
// StartPlacementListConnection: it additionally blocks on
// FinishConnectionEstablishment before returning, so the caller never
// sees a connection that is still completing its handshake (grounded on
// the original's GetPlacementListConnection).
func (m *Manager) GetPlacementListConnection(ctx context.Context, flags Flags, accesses []PlacementAccess, user string) (ConnectionHandle, error) {
	conn, err := m.StartPlacementListConnection(ctx, flags, accesses, user)
	if err != nil {
		return nil, err
	}
	if err := m.pool.FinishConnectionEstablishment(ctx, conn); err != nil {
		return nil, err
	}
	return conn, nil
}

// accessKindForFlags derives an AccessKind from flags the way the
// original's StartPlacementConnection derives an accessType from
// FOR_DDL/FOR_DML before delegating to the list-based form.
func accessKindForFlags(flags Flags) AccessKind {
	switch {
	case flags.Has(FlagForDDL):
		return AccessDDL
	case flags.Has(FlagForDML):
		return AccessDML
	default:
		return AccessSelect
	}
}

// StartPlacementConnection is the single-placement convenience form of
// StartPlacementListConnection, deriving the access kind from
// FlagForDDL/FlagForDML (grounded on the original's
// StartPlacementConnection).
func (m *Manager) StartPlacementConnection(ctx context.Context, flags Flags, placement Placement, user string) (ConnectionHandle, error) {
	access := PlacementAccess{Placement: placement, AccessKind: accessKindForFlags(flags)}
	return m.StartPlacementListConnection(ctx, flags, []PlacementAccess{access}, user)
}

// GetPlacementConnection is the eager, single-placement convenience form
// (grounded on the original's GetPlacementConnection).
func (m *Manager) GetPlacementConnection(ctx context.Context, flags Flags, placement Placement, user string) (ConnectionHandle, error) {
	access := PlacementAccess{Placement: placement, AccessKind: accessKindForFlags(flags)}
	return m.GetPlacementListConnection(ctx, flags, []PlacementAccess{access}, user)
}
