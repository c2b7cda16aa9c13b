// Package keepout maintains the spatial index of obstacle volumes the
// router must thread channels around.
//
// Every obstacle is an axis-aligned box (geom.AABB) tagged with an
// owner identifier and a role:
//
//   - RoleStatic      — a subcomponent bounding box or a placed-shape segment
//   - RolePortAccess  — a port's access volume, expanded by the route margin
//   - RoleChannel     — a segment of an already-routed channel
//
// Entries are immutable once inserted; geometry changes are expressed
// as remove + reinsert under a fresh box. The index supports scoped
// removal by owner (RemoveOwner/Restore) so the router can exempt a
// route's own endpoints for the duration of one resolution attempt, and
// a batched intersection count (Hits) for validating every segment of a
// candidate channel in a single pass.
//
// The index is backed by an N-dimensional R-tree
// (github.com/dhconnelly/rtreego) configured for three dimensions. It
// is single-writer: the Router owns it exclusively for the duration of
// one resolution pass, so no internal locking is performed.
package keepout
