package router_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openfluidics/fluidroute/astar"
	"github.com/openfluidics/fluidroute/channel"
	"github.com/openfluidics/fluidroute/device"
	"github.com/openfluidics/fluidroute/geom"
	"github.com/openfluidics/fluidroute/routecache"
	"github.com/openfluidics/fluidroute/router"
)

// chip builds a 30x20x10 component with two 4-cube subcomponents facing
// each other across the X axis: "a" with port out on its +X face and
// "b" with port in on its -X face.
func chip(t *testing.T) (*device.Component, *device.Port, *device.Port) {
	t.Helper()
	comp, err := device.NewComponent("chip", "chip", geom.GridPoint{0, 0, 0}, geom.GridPoint{30, 20, 10}, device.HullBackend{})
	require.NoError(t, err)

	a, err := device.NewComponent("a", "a", geom.GridPoint{2, 2, 2}, geom.GridPoint{4, 4, 4}, device.HullBackend{})
	require.NoError(t, err)
	out := device.NewPort(device.Out, geom.GridPoint{6, 3, 3}, geom.GridPoint{0, 2, 2}, device.PosX)
	require.NoError(t, a.AddPort("out", out))
	require.NoError(t, comp.AddSubcomponent(a))

	b, err := device.NewComponent("b", "b", geom.GridPoint{24, 2, 2}, geom.GridPoint{4, 4, 4}, device.HullBackend{})
	require.NoError(t, err)
	in := device.NewPort(device.In, geom.GridPoint{24, 3, 3}, geom.GridPoint{0, 2, 2}, device.NegX)
	require.NoError(t, b.AddPort("in", in))
	require.NoError(t, comp.AddSubcomponent(b))

	return comp, out, in
}

// addWall seals the full YZ cross-section between the two pads.
func addWall(t *testing.T, comp *device.Component) {
	t.Helper()
	wall, err := device.NewComponent("wall", "wall", geom.GridPoint{14, 0, 0}, geom.GridPoint{2, 20, 10}, device.HullBackend{})
	require.NoError(t, err)
	require.NoError(t, comp.AddSubcomponent(wall))
}

// TestRoute_StraightRun: an unobstructed autoroute between facing ports
// resolves to a straight channel.
func TestRoute_StraightRun(t *testing.T) {
	comp, out, in := chip(t)
	r, err := router.New(comp)
	require.NoError(t, err)
	require.NoError(t, r.AutorouteChannel(out, in, "supply"))

	report, err := r.Route()
	require.NoError(t, err)
	assert.True(t, report.Ok())
	assert.Equal(t, []string{"a.out__to__b.in"}, report.Resolved)
	assert.Equal(t, 1, r.SearchCount())

	shapes := comp.Shapes()
	require.Len(t, shapes, 1)
	assert.Equal(t, "a.out__to__b.in", shapes[0].Name)
	assert.Equal(t, "supply", shapes[0].Label)
	for _, cs := range shapes[0].Shape.Sections {
		assert.Equal(t, 4.0, cs.Position[1], "straight run stays on the port axis")
		assert.Equal(t, 4.0, cs.Position[2])
	}
}

// TestRoute_BlockedFailsAlone: a sealed-off route is reported failed
// while an independent route still resolves.
func TestRoute_BlockedFailsAlone(t *testing.T) {
	comp, out, in := chip(t)
	addWall(t, comp)

	c, err := device.NewComponent("c", "c", geom.GridPoint{2, 12, 2}, geom.GridPoint{4, 4, 4}, device.HullBackend{})
	require.NoError(t, err)
	cOut := device.NewPort(device.Out, geom.GridPoint{6, 13, 3}, geom.GridPoint{0, 2, 2}, device.PosX)
	require.NoError(t, c.AddPort("out", cOut))
	require.NoError(t, comp.AddSubcomponent(c))

	d, err := device.NewComponent("d", "d", geom.GridPoint{10, 12, 2}, geom.GridPoint{4, 4, 4}, device.HullBackend{})
	require.NoError(t, err)
	dIn := device.NewPort(device.In, geom.GridPoint{10, 13, 3}, geom.GridPoint{0, 2, 2}, device.NegX)
	require.NoError(t, d.AddPort("in", dIn))
	require.NoError(t, comp.AddSubcomponent(d))

	r, err := router.New(comp)
	require.NoError(t, err)
	require.NoError(t, r.AutorouteChannel(out, in, "blocked"))
	require.NoError(t, r.AutorouteChannel(cOut, dIn, "clear"))

	report, err := r.Route()
	require.NoError(t, err, "per-route failures never abort resolution")
	assert.Equal(t, []string{"c.out__to__d.in"}, report.Resolved)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "a.out__to__b.in", report.Failed[0].Name)
	assert.ErrorIs(t, report.Failed[0].Err, astar.ErrNoPath)
	require.Len(t, comp.Shapes(), 1)
}

// TestRoute_DetoursAroundForeignPort: a port belonging to a third
// component abuts the straight corridor; the autoroute must keep the
// configured clearance from its access box and bend around it.
func TestRoute_DetoursAroundForeignPort(t *testing.T) {
	comp, out, in := chip(t)

	f, err := device.NewComponent("f", "f", geom.GridPoint{12, 6, 2}, geom.GridPoint{4, 4, 4}, device.HullBackend{})
	require.NoError(t, err)
	tap := device.NewPort(device.In, geom.GridPoint{13, 6, 3}, geom.GridPoint{2, 1, 2}, device.NegY)
	require.NoError(t, f.AddPort("tap", tap))
	require.NoError(t, comp.AddSubcomponent(f))

	r, err := router.New(comp)
	require.NoError(t, err)
	require.NoError(t, r.AutorouteChannel(out, in, "supply"))

	report, err := r.Route()
	require.NoError(t, err)
	require.True(t, report.Ok())
	assert.Equal(t, 1, r.SearchCount())

	shapes := comp.Shapes()
	require.Len(t, shapes, 1)
	bent := false
	for _, cs := range shapes[0].Shape.Sections {
		if cs.Position[1] != 4 || cs.Position[2] != 4 {
			bent = true
		}
	}
	assert.True(t, bent, "channel must leave the straight line past f.tap")
	for _, box := range shapes[0].Shape.Keepouts {
		assert.False(t, box.Intersects(tap.BoundingBox()),
			"channel volume must stay clear of the foreign port")
	}
}

// TestRoute_FractionalPath places the channel through the cumulative
// fraction waypoints without searching.
func TestRoute_FractionalPath(t *testing.T) {
	comp, out, in := chip(t)
	r, err := router.New(comp)
	require.NoError(t, err)

	fractions := []geom.Vec3{{0.5, 0, 0}, {0, 1, 0}, {0.5, 0, 1}}
	require.NoError(t, r.RouteWithFractionalPath(out, in, fractions, "jog"))

	report, err := r.Route()
	require.NoError(t, err)
	assert.True(t, report.Ok())
	assert.Zero(t, r.SearchCount(), "manual routes never search")

	shapes := comp.Shapes()
	require.Len(t, shapes, 1)
	sections := shapes[0].Shape.Sections
	require.Len(t, sections, 4, "inlet, two waypoints, outlet")
	assert.Equal(t, geom.Vec3{16, 4, 4}, sections[1].Position, "half of the 18-unit X delta")
	assert.Equal(t, geom.Vec3{16, 4, 4}, sections[2].Position)
}

// TestRoute_FractionSum rejects fractions that do not reach 1.0.
func TestRoute_FractionSum(t *testing.T) {
	comp, out, in := chip(t)
	r, err := router.New(comp)
	require.NoError(t, err)

	err = r.RouteWithFractionalPath(out, in, []geom.Vec3{{0.5, 1, 1}}, "short")
	assert.ErrorIs(t, err, router.ErrFractionSum)
}

// TestRoute_Polychannel places an explicit waypoint chain, and a corner
// radius violation surfaces at registration.
func TestRoute_Polychannel(t *testing.T) {
	comp, out, in := chip(t)
	r, err := router.New(comp)
	require.NoError(t, err)

	segments := []channel.Segment{
		channel.CrossSection{Position: geom.Vec3{15, 4, 4}, Size: geom.Vec3{2, 2, 2}, Kind: channel.KindCube, Absolute: true},
	}
	require.NoError(t, r.RouteWithPolychannel(out, in, segments, "manual"))

	report, err := r.Route()
	require.NoError(t, err)
	assert.True(t, report.Ok())
	require.Len(t, comp.Shapes(), 1)

	// Definition-time failure: radius longer than the adjacent legs.
	comp2, out2, in2 := chip(t)
	r2, err := router.New(comp2)
	require.NoError(t, err)
	bad := channel.CrossSection{
		Position: geom.Vec3{15, 4, 4}, Size: geom.Vec3{2, 2, 2},
		Kind: channel.KindCube, Absolute: true,
		CornerRadius: 100, CornerSegments: 4,
	}
	err = r2.RouteWithPolychannel(out2, in2, []channel.Segment{bad}, "manual")
	assert.ErrorIs(t, err, channel.ErrCornerRadius)
}

// TestRoute_PortUnattached rejects registration with loose ports.
func TestRoute_PortUnattached(t *testing.T) {
	comp, out, _ := chip(t)
	r, err := router.New(comp)
	require.NoError(t, err)

	loose := device.NewPort(device.In, geom.GridPoint{24, 3, 3}, geom.GridPoint{0, 2, 2}, device.NegX)
	err = r.AutorouteChannel(out, loose, "dangling")
	assert.ErrorIs(t, err, router.ErrPortUnattached)
}

// TestRoute_PortBlocked: a port too close to the wall of the routable
// volume fails before any search runs.
func TestRoute_PortBlocked(t *testing.T) {
	comp, out, _ := chip(t)
	e, err := device.NewComponent("e", "e", geom.GridPoint{24, 0, 2}, geom.GridPoint{4, 4, 4}, device.HullBackend{})
	require.NoError(t, err)
	// Anchor at y=0: the margin-expanded channel box pokes out of bounds.
	edge := device.NewPort(device.In, geom.GridPoint{24, 0, 3}, geom.GridPoint{0, 2, 2}, device.NegX)
	require.NoError(t, e.AddPort("in", edge))
	require.NoError(t, comp.AddSubcomponent(e))

	r, err := router.New(comp)
	require.NoError(t, err)
	require.NoError(t, r.AutorouteChannel(out, edge, "edge"))

	report, err := r.Route()
	require.NoError(t, err)
	require.Len(t, report.Failed, 1)
	assert.ErrorIs(t, report.Failed[0].Err, router.ErrPortBlocked)
	assert.Zero(t, r.SearchCount())
}

// TestRoute_CacheReuse: a second run over identical geometry replays
// the snapshot instead of searching.
func TestRoute_CacheReuse(t *testing.T) {
	dir := t.TempDir()

	run := func() (*router.Router, *router.Report) {
		comp, out, in := chip(t)
		store, err := routecache.NewStore(dir)
		require.NoError(t, err)
		r, err := router.New(comp, router.WithCache(store))
		require.NoError(t, err)
		require.NoError(t, r.AutorouteChannel(out, in, "supply"))
		report, err := r.Route()
		require.NoError(t, err)

		return r, report
	}

	first, report := run()
	assert.True(t, report.Ok())
	assert.Equal(t, 1, first.SearchCount())

	second, report := run()
	assert.True(t, report.Ok())
	assert.Zero(t, second.SearchCount(), "unchanged geometry replays from cache")
	assert.Equal(t, []string{"a.out__to__b.in"}, report.Cached)
	assert.Empty(t, report.Resolved)
}

// TestRoute_CacheInvalidation: moving a pad changes the geometry hash
// and forces a fresh search.
func TestRoute_CacheInvalidation(t *testing.T) {
	dir := t.TempDir()

	run := func(bX int) *router.Router {
		comp, err := device.NewComponent("chip", "chip", geom.GridPoint{0, 0, 0}, geom.GridPoint{30, 20, 10}, device.HullBackend{})
		require.NoError(t, err)
		a, err := device.NewComponent("a", "a", geom.GridPoint{2, 2, 2}, geom.GridPoint{4, 4, 4}, device.HullBackend{})
		require.NoError(t, err)
		out := device.NewPort(device.Out, geom.GridPoint{6, 3, 3}, geom.GridPoint{0, 2, 2}, device.PosX)
		require.NoError(t, a.AddPort("out", out))
		require.NoError(t, comp.AddSubcomponent(a))
		b, err := device.NewComponent("b", "b", geom.GridPoint{bX, 2, 2}, geom.GridPoint{4, 4, 4}, device.HullBackend{})
		require.NoError(t, err)
		in := device.NewPort(device.In, geom.GridPoint{bX, 3, 3}, geom.GridPoint{0, 2, 2}, device.NegX)
		require.NoError(t, b.AddPort("in", in))
		require.NoError(t, comp.AddSubcomponent(b))

		store, err := routecache.NewStore(dir)
		require.NoError(t, err)
		r, err := router.New(comp, router.WithCache(store))
		require.NoError(t, err)
		require.NoError(t, r.AutorouteChannel(out, in, "supply"))
		report, err := r.Route()
		require.NoError(t, err)
		require.True(t, report.Ok())

		return r
	}

	assert.Equal(t, 1, run(24).SearchCount())
	assert.Equal(t, 1, run(22).SearchCount(), "moved pad invalidates the snapshot")
}

// TestRoute_Deterministic: identical devices route to byte-identical
// channels.
func TestRoute_Deterministic(t *testing.T) {
	run := func() []channel.CrossSection {
		comp, out, _ := chip(t)
		addWall(t, comp) // force failure determinism too
		c, err := device.NewComponent("mid", "mid", geom.GridPoint{8, 8, 2}, geom.GridPoint{4, 4, 4}, device.HullBackend{})
		require.NoError(t, err)
		require.NoError(t, comp.AddSubcomponent(c))

		cOut := device.NewPort(device.Out, geom.GridPoint{12, 9, 3}, geom.GridPoint{0, 2, 2}, device.PosX)
		require.NoError(t, c.AddPort("out", cOut))
		r, err := router.New(comp)
		require.NoError(t, err)
		require.NoError(t, r.AutorouteChannel(out, cOut, "loop"))
		report, err := r.Route()
		require.NoError(t, err)
		require.True(t, report.Ok())
		require.Len(t, comp.Shapes(), 1)

		return comp.Shapes()[0].Shape.Sections
	}

	first := run()
	for i := 0; i < 3; i++ {
		assert.Equal(t, first, run())
	}
}

// TestRoute_Twice rejects a second resolution.
func TestRoute_Twice(t *testing.T) {
	comp, out, in := chip(t)
	r, err := router.New(comp)
	require.NoError(t, err)
	require.NoError(t, r.AutorouteChannel(out, in, "supply"))

	_, err = r.Route()
	require.NoError(t, err)
	_, err = r.Route()
	assert.ErrorIs(t, err, router.ErrAlreadyRouted)
	assert.ErrorIs(t, r.AutorouteChannel(out, in, "late"), router.ErrAlreadyRouted)
}

// TestRoute_Reregister keeps the original order slot but replaces the
// intent.
func TestRoute_Reregister(t *testing.T) {
	comp, out, in := chip(t)
	r, err := router.New(comp)
	require.NoError(t, err)

	require.NoError(t, r.AutorouteChannel(out, in, "v1"))
	require.NoError(t, r.RouteWithFractionalPath(out, in, []geom.Vec3{{1, 1, 1}}, "v2"))

	report, err := r.Route()
	require.NoError(t, err)
	require.True(t, report.Ok())
	assert.Zero(t, r.SearchCount(), "replaced intent is manual")
	require.Len(t, comp.Shapes(), 1)
	assert.Equal(t, "v2", comp.Shapes()[0].Label)
}
