// Package router connects component ports with fluidic channels.
//
// Channels are registered first — autorouted, explicit polychannel, or
// fractional-waypoint — and resolved together by a single Route() call.
// Resolution runs three passes in registration order: cache replay,
// manual routes, then autoroutes, so hand-placed channels claim their
// volume before the search has to work around them.
//
// The router owns a keepout index rebuilt from live geometry on every
// Route(). Around each individual resolution the endpoints' own
// keepouts (port access boxes and the channels already touching those
// ports) are removed from the index and restored afterwards, letting a
// channel reach the surface it must connect to without tripping over
// it.
//
// A configured cache store snapshots every resolved route per
// component. On the next run a route whose kind, endpoints and (for
// manual kinds) waypoints are unchanged is replayed without searching;
// anything else is recomputed. Per-route failures are reported, never
// fatal — only definition-time errors abort.
package router
