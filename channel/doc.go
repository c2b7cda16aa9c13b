// Package channel turns routed paths and user-authored waypoint lists
// into chains of physical cross-section descriptors.
//
// A channel solid is never computed here: the materializer emits an
// ordered []CrossSection and the geometry backend (device.Backend)
// performs the pairwise convex-hull/union chain. The pipeline is:
//
//	Normalize     — inherit unspecified fields from the previous shape,
//	                resolve relative positions, validate the chain
//	RoundCorners  — replace interior waypoints that carry a corner
//	                radius with a sampled circular arc
//	ExpandBezier  — evaluate Bezier segments via the Bernstein
//	                polynomial into per-sample cross-sections
//
// Materialize runs all three in order. Simplify is the separate
// cardinal-path reduction applied to raw grid-search output before it
// becomes cross-sections; it is idempotent and never increases the
// number of turns.
package channel
