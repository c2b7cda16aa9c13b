// Package routecache persists resolved channel routes between runs.
//
// A routing pass over an unchanged device is pure: the same keepout set
// and the same port pairs produce the same channels. The cache exploits
// that by snapshotting, per component, the geometry hash, the keepout
// boxes and every resolved route's cross-section chain. On the next run
// the router loads the snapshot, and a route whose endpoints and
// surrounding keepouts are unchanged is replayed without searching.
//
// Snapshots are msgpack files named <id>.route under the store
// directory, one per component. The store is deliberately forgiving: a
// missing snapshot loads as nil, and a file that fails to decode is
// treated the same way — the router recomputes and overwrites it on the
// next Save. A cache can always be rebuilt; it must never be able to
// fail a run.
package routecache
