// Package placementconn decides which already-open remote connection, if
// any, a coordinator transaction must reuse to access a placement, and
// refuses combinations of accesses that would self-deadlock or violate
// read-your-own-writes within that transaction.
//
// The package owns three in-memory indices scoped to a single coordinator
// transaction: a placement index keyed by placement identity, a
// colocation index keyed by (node, port, colocation group, representative
// hash-range value), and a shard index used only for commit-time failure
// classification. It does not open sockets, speak a wire protocol, or
// persist anything across process restarts; those concerns belong to the
// ConnectionPool and CatalogAdapter collaborators passed to NewManager.
package placementconn
