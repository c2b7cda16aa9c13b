package router

import (
	"fmt"
	"strings"

	"github.com/openfluidics/fluidroute/astar"
	"github.com/openfluidics/fluidroute/channel"
	"github.com/openfluidics/fluidroute/device"
	"github.com/openfluidics/fluidroute/geom"
	"github.com/openfluidics/fluidroute/keepout"
	"github.com/openfluidics/fluidroute/routecache"
)

// Route resolves every registered route: cache replay, manual routes,
// then autoroutes, each pass in registration order. Per-route failures
// land in the report; only calling Route twice is an error.
func (r *Router) Route() (*Report, error) {
	if r.routed {
		return nil, ErrAlreadyRouted
	}
	r.routed = true
	r.log.Info().
		Str("component", r.comp.ID()).
		Int("routes", len(r.routes)).
		Msg("routing")

	// Hash before any channel is placed: the snapshot describes the
	// geometry a run starts from, not the one it produces.
	hash := r.comp.GeometryHash()
	snap := r.loadSnapshot(hash)
	r.rebuildIndex()
	report := &Report{}

	// Pass 1: replay unchanged routes from the snapshot.
	var pending []*route
	for _, rt := range r.routes {
		rec, ok := r.cacheMatch(snap, rt)
		if !ok {
			pending = append(pending, rt)
			continue
		}
		if err := r.resolveScoped(rt, func() error { return r.place(rt, rec.Path) }); err != nil {
			r.log.Debug().Str("route", rt.name).Err(err).Msg("stale cache entry, rerouting")
			pending = append(pending, rt)
			continue
		}
		rt.fromCache = true
		report.Cached = append(report.Cached, rt.name)
	}

	// Pass 2: manual routes.
	for _, rt := range pending {
		if rt.kind == routecache.KindAuto {
			continue
		}
		err := r.resolveScoped(rt, func() error { return r.place(rt, rt.sections) })
		r.record(report, rt, err)
	}

	// Pass 3: autoroutes.
	for _, rt := range pending {
		if rt.kind != routecache.KindAuto {
			continue
		}
		err := r.resolveScoped(rt, func() error { return r.autoroute(rt) })
		r.record(report, rt, err)
	}

	r.saveSnapshot(hash)

	return report, nil
}

func (r *Router) record(report *Report, rt *route, err error) {
	if err != nil {
		r.log.Warn().Str("route", rt.name).Err(err).Msg("route failed")
		report.Failed = append(report.Failed, Failure{Name: rt.name, Err: err})

		return
	}
	r.log.Debug().Str("route", rt.name).Str("kind", rt.kind).Msg("routed")
	report.Resolved = append(report.Resolved, rt.name)
}

// rebuildIndex populates a fresh keepout index from live geometry:
// subcomponent volumes, margin-expanded port access boxes on every
// surface, and the keepouts of already placed shapes.
func (r *Router) rebuildIndex() {
	ix := keepout.NewIndex()
	insert := func(owner string, role keepout.Role, box geom.AABB) {
		if _, err := ix.Insert(owner, role, box); err != nil {
			r.log.Warn().Str("owner", owner).Err(err).Msg("keepout skipped")
		}
	}

	for _, sub := range r.comp.Subcomponents() {
		insert(sub.ID(), keepout.RoleStatic, sub.BoundingBox())
		for _, p := range sub.Ports() {
			insert(p.Name(), keepout.RolePortAccess, p.BoundingBox().WithMargin(r.margin.Vec()))
		}
	}
	for _, p := range r.comp.Ports() {
		insert(p.Name(), keepout.RolePortAccess, p.BoundingBox().WithMargin(r.margin.Vec()))
	}
	for _, ps := range r.comp.Shapes() {
		for _, box := range ps.Shape.Keepouts {
			insert(ps.Name, keepout.RoleChannel, box.WithMargin(r.margin.Vec()))
		}
	}
	r.index = ix
}

// resolveScoped removes the endpoints' keepouts — their port access
// boxes and the channels of routes already touching either port — runs
// the resolution, and restores the removed entries on every exit path.
func (r *Router) resolveScoped(rt *route, resolve func() error) error {
	var removed []*keepout.Entry
	remove := func(owner string) {
		removed = append(removed, r.index.RemoveOwner(owner)...)
	}
	remove(rt.in.Name())
	remove(rt.out.Name())
	for name := range r.slots {
		if name == rt.name {
			continue
		}
		a, b, ok := strings.Cut(name, routeNameSep)
		if !ok {
			continue
		}
		if a == rt.in.Name() || b == rt.in.Name() || a == rt.out.Name() || b == rt.out.Name() {
			remove(name)
		}
	}
	defer r.index.Restore(removed)

	return resolve()
}

// place builds the channel via the backend, validates its swept volume
// against the index, inserts its keepouts and registers the shape. A
// violation fails autoroutes; manual routes proceed with a warning, as
// the caller explicitly asked for that volume.
func (r *Router) place(rt *route, sections []channel.CrossSection) error {
	shape, err := r.comp.Backend().MakeChannel(sections)
	if err != nil {
		return err
	}

	shrunk := make([]geom.AABB, len(shape.Keepouts))
	for i, box := range shape.Keepouts {
		shrunk[i] = box.WithMargin(geom.Vec3{-1, -1, -1})
	}
	for _, n := range r.index.Hits(shrunk) {
		if n == 0 {
			continue
		}
		if rt.kind == routecache.KindAuto {
			return fmt.Errorf("%w: channel volume occupied", astar.ErrNoPath)
		}
		r.log.Warn().Str("route", rt.name).Msg("channel violates keepouts")
		break
	}

	for _, box := range shape.Keepouts {
		if _, err := r.index.Insert(rt.name, keepout.RoleChannel, box.WithMargin(r.margin.Vec())); err != nil {
			return err
		}
	}
	if err := r.comp.AddShape(rt.name, rt.label, shape); err != nil {
		return err
	}
	rt.sections = sections
	rt.placed = true

	return nil
}

// autoroute carves the endpoints out of their surfaces, runs the grid
// search and places the found channel.
func (r *Router) autoroute(rt *route) error {
	for _, p := range []*device.Port{rt.in, rt.out} {
		box := r.channelBox(p.Position).WithMargin(r.margin.Vec())
		if !box.InsideExceptAxis(r.bounds, p.Normal.Axis()) {
			return fmt.Errorf("%w: %s", ErrPortBlocked, p.Name())
		}
	}

	start := r.moveOutsidePort(rt.in)
	goal := r.moveOutsidePort(rt.out)
	valid := r.validator(rt, start, goal)
	if !valid(start) {
		return fmt.Errorf("%w: %s", ErrPortBlocked, rt.in.Name())
	}
	if !valid(goal) {
		return fmt.Errorf("%w: %s", ErrPortBlocked, rt.out.Name())
	}

	r.searches++
	path, err := astar.Search(start, goal, valid, rt.searchOpts...)
	if err != nil {
		return err
	}
	path = channel.Simplify(path)
	if len(path) < 2 {
		return astar.ErrNoPath
	}

	sections := channel.FromPath(path, portSection(rt.in), portSection(rt.out), r.channelSize.Vec())

	return r.place(rt, sections)
}

// validator builds the search validity callback: the margin-expanded
// channel box must sit inside the component, and the shrunk box must
// hit nothing in the index — unless the point lies in one of the two
// endpoint exemption volumes, which admit the final approach onto the
// port face.
func (r *Router) validator(rt *route, start, goal geom.GridPoint) func(geom.GridPoint) bool {
	inExempt := r.exemption(rt.in)
	outExempt := r.exemption(rt.out)

	return func(p geom.GridPoint) bool {
		box := r.channelBox(p)
		if !box.WithMargin(r.margin.Vec()).Inside(r.bounds) {
			return false
		}
		if inExempt(p) || outExempt(p) {
			return true
		}

		return r.index.Hits([]geom.AABB{box.WithMargin(geom.Vec3{-1, -1, -1})})[0] == 0
	}
}

// exemption admits points displaced from the port anchor only along the
// channel's travel direction, within one channel size of the face.
func (r *Router) exemption(p *device.Port) func(geom.GridPoint) bool {
	anchor := p.Position
	dir := r.travelDirection(p)
	axis := p.Normal.Axis()

	return func(q geom.GridPoint) bool {
		d := q.Sub(anchor)
		for i := 0; i < 3; i++ {
			if i == axis {
				continue
			}
			if d[i] < -r.channelSize[i] || d[i] > r.channelSize[i] {
				return false
			}
		}
		along := d[axis] * dir[axis]

		return along >= 0 && along <= r.channelSize[axis]
	}
}

// moveOutsidePort steps the channel anchor from the port along the
// travel direction until its box clears the owning component — or, for
// the routed component's own external ports, until it sits inside the
// routable bounds.
func (r *Router) moveOutsidePort(p *device.Port) geom.GridPoint {
	pos := p.Position
	dir := r.travelDirection(p)
	if p.Owner() == r.comp {
		for !r.channelBox(pos).WithMargin(r.margin.Vec()).Inside(r.bounds) {
			pos = pos.Add(dir)
		}

		return pos
	}
	owner := p.Owner().BoundingBox()
	for r.channelBox(pos).Intersects(owner) {
		pos = pos.Add(dir)
	}

	return pos
}

// travelDirection is the port's outward normal for subcomponent ports,
// flipped inward for the routed component's own surface ports.
func (r *Router) travelDirection(p *device.Port) geom.GridPoint {
	v := p.Normal.Vector()
	if p.Owner() == r.comp {
		return geom.GridPoint{-v[0], -v[1], -v[2]}
	}

	return v
}

func (r *Router) channelBox(pos geom.GridPoint) geom.AABB {
	return geom.BoxAt(pos.Vec(), r.channelSize.Vec())
}

// loadSnapshot fetches the component's snapshot and discards it on a
// geometry hash mismatch. The cache only ever skips route computation.
func (r *Router) loadSnapshot(hash string) *routecache.Snapshot {
	if r.store == nil {
		return nil
	}
	snap, err := r.store.Load(r.comp.ID())
	if err != nil {
		r.log.Warn().Err(err).Msg("route cache unavailable")

		return nil
	}
	if snap == nil {
		return nil
	}
	if snap.GeometryHash != hash {
		r.log.Debug().Str("component", r.comp.ID()).Msg("geometry changed, cache discarded")

		return nil
	}

	return snap
}

// cacheMatch reports whether the snapshot holds a replayable record for
// the route: same kind, same endpoint boxes, and for manual kinds the
// same materialized chain.
func (r *Router) cacheMatch(snap *routecache.Snapshot, rt *route) (routecache.Record, bool) {
	if snap == nil {
		return routecache.Record{}, false
	}
	rec, ok := snap.Records[rt.name]
	if !ok || rec.Kind != rt.kind {
		return routecache.Record{}, false
	}
	if rec.Input != rt.in.BoundingBox() || rec.Output != rt.out.BoundingBox() {
		return routecache.Record{}, false
	}
	if rt.kind != routecache.KindAuto && !sectionsEqual(rec.Path, rt.sections) {
		return routecache.Record{}, false
	}

	return rec, true
}

// saveSnapshot persists every placed route. Cache write failures are
// logged, never fatal.
func (r *Router) saveSnapshot(hash string) {
	if r.store == nil {
		return
	}
	snap := routecache.NewSnapshot(hash)
	for _, rt := range r.routes {
		if !rt.placed {
			continue
		}
		snap.Records[rt.name] = routecache.Record{
			Kind:   rt.kind,
			Input:  rt.in.BoundingBox(),
			Output: rt.out.BoundingBox(),
			Path:   rt.sections,
		}
	}
	if len(snap.Records) == 0 {
		return
	}
	for _, owner := range r.index.Owners() {
		for i, e := range r.index.EntriesOf(owner) {
			snap.Keepouts[fmt.Sprintf("%s#%d", owner, i)] = e.Box
		}
	}
	if err := r.store.Save(r.comp.ID(), snap); err != nil {
		r.log.Warn().Err(err).Msg("route cache not saved")
	}
}

func sectionsEqual(a, b []channel.CrossSection) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
