package router

import (
	"errors"
	"fmt"
	"math"

	"github.com/rs/zerolog"

	"github.com/openfluidics/fluidroute/astar"
	"github.com/openfluidics/fluidroute/channel"
	"github.com/openfluidics/fluidroute/device"
	"github.com/openfluidics/fluidroute/geom"
	"github.com/openfluidics/fluidroute/keepout"
	"github.com/openfluidics/fluidroute/routecache"
)

// Sentinel errors. The first group is definition-time (registration
// fails immediately); ErrPortBlocked and friends surface per route in
// the report.
var (
	// ErrNilComponent indicates a router constructed without a component.
	ErrNilComponent = errors.New("router: component must be non-nil")

	// ErrChannelSize indicates a non-positive channel dimension.
	ErrChannelSize = errors.New("router: channel size must be positive on every axis")

	// ErrPortUnattached indicates an endpoint port that was never added
	// to a component.
	ErrPortUnattached = errors.New("router: port must be attached to a component")

	// ErrFractionSum indicates fractional waypoints whose per-axis sums
	// are not 1.0.
	ErrFractionSum = errors.New("router: fractional components must sum to 1.0 per axis")

	// ErrAlreadyRouted indicates a second Route() call or a registration
	// after resolution.
	ErrAlreadyRouted = errors.New("router: routes already finalized")

	// ErrPortBlocked indicates an endpoint whose channel box cannot sit
	// at the port, reported per route.
	ErrPortBlocked = errors.New("router: port is blocked or outside bounds")
)

// routeNameSep joins the two endpoint names into the route name.
const routeNameSep = "__to__"

// route is one registered channel intent.
type route struct {
	name       string
	kind       string
	in, out    *device.Port
	label      string
	sections   []channel.CrossSection // manual kinds: set at registration
	searchOpts []astar.Option
	placed     bool
	fromCache  bool
}

// Failure pairs a route name with the error that kept it unrouted.
type Failure struct {
	Name string
	Err  error
}

// Report summarizes one Route() call.
type Report struct {
	Resolved []string // newly searched or manually placed
	Cached   []string // replayed from the snapshot
	Failed   []Failure
}

// Ok reports whether every registered route resolved.
func (r *Report) Ok() bool { return len(r.Failed) == 0 }

// Router accumulates route intents for one component and resolves them
// in a single pass. Not safe for concurrent use; Route() may be called
// once.
type Router struct {
	comp        *device.Component
	channelSize geom.GridPoint
	margin      geom.GridPoint
	log         zerolog.Logger
	store       *routecache.Store

	routes []*route
	slots  map[string]int // route name -> index into routes

	index    *keepout.Index
	bounds   geom.AABB
	searches int
	routed   bool
}

// Option configures a Router.
type Option func(*Router)

// WithChannelSize sets the channel cross-section in lattice units.
func WithChannelSize(size geom.GridPoint) Option {
	return func(r *Router) { r.channelSize = size }
}

// WithMargin sets the clearance kept around routed channels, per axis.
func WithMargin(m geom.GridPoint) Option {
	return func(r *Router) { r.margin = m }
}

// WithLogger attaches a logger; the default discards everything.
func WithLogger(log zerolog.Logger) Option {
	return func(r *Router) { r.log = log }
}

// WithCache attaches a persistent route cache store.
func WithCache(store *routecache.Store) Option {
	return func(r *Router) { r.store = store }
}

// New creates a router for the component.
func New(comp *device.Component, opts ...Option) (*Router, error) {
	if comp == nil {
		return nil, ErrNilComponent
	}
	r := &Router{
		comp:        comp,
		channelSize: geom.GridPoint{2, 2, 2},
		margin:      geom.GridPoint{1, 1, 1},
		log:         zerolog.Nop(),
		slots:       make(map[string]int),
		bounds:      comp.BoundingBox(),
	}
	for _, opt := range opts {
		opt(r)
	}
	for _, s := range r.channelSize {
		if s <= 0 {
			return nil, ErrChannelSize
		}
	}

	return r, nil
}

// SearchCount returns the number of grid searches run so far. Cached
// replays do not search.
func (r *Router) SearchCount() int { return r.searches }

// AutorouteChannel registers a channel to be found by the grid search.
// Search behavior is tunable per route via astar options.
func (r *Router) AutorouteChannel(in, out *device.Port, label string, opts ...astar.Option) error {
	rt, err := r.newRoute(in, out, routecache.KindAuto, label)
	if err != nil {
		return err
	}
	rt.searchOpts = opts

	return r.register(rt)
}

// RouteWithPolychannel registers an explicit channel. The port-shaped
// endpoint cross-sections are added around the given segments and the
// chain is materialized now, so constraint violations (corner radius,
// bezier arity) fail at definition time.
func (r *Router) RouteWithPolychannel(in, out *device.Port, segments []channel.Segment, label string) error {
	kind := routecache.KindPolychannel
	for _, seg := range segments {
		if _, ok := seg.(channel.BezierSegment); ok {
			kind = routecache.KindBezier
			break
		}
	}
	rt, err := r.newRoute(in, out, kind, label)
	if err != nil {
		return err
	}

	chain := make([]channel.Segment, 0, len(segments)+2)
	chain = append(chain, portSection(in))
	chain = append(chain, segments...)
	chain = append(chain, portSection(out))
	sections, err := channel.Materialize(chain)
	if err != nil {
		return fmt.Errorf("router: %s: %w", rt.name, err)
	}
	rt.sections = sections

	return r.register(rt)
}

// RouteWithFractionalPath registers a channel along waypoints given as
// per-axis fractions of the endpoint displacement. Fractions accumulate
// across the list and every axis must reach exactly 1.0; the final
// waypoint therefore lands on the output port and is dropped from the
// chain along with the implicit start.
func (r *Router) RouteWithFractionalPath(in, out *device.Port, fractions []geom.Vec3, label string) error {
	rt, err := r.newRoute(in, out, routecache.KindFractional, label)
	if err != nil {
		return err
	}

	start := in.Position
	diff := out.Position.Sub(start)
	var sum geom.Vec3
	waypoints := make([]geom.GridPoint, 0, len(fractions))
	for _, f := range fractions {
		sum = sum.Add(f)
		scaled := geom.Vec3{
			sum[0] * float64(diff[0]),
			sum[1] * float64(diff[1]),
			sum[2] * float64(diff[2]),
		}
		waypoints = append(waypoints, start.Add(geom.Round(scaled)))
	}
	for i := 0; i < 3; i++ {
		if math.Abs(sum[i]-1.0) > 1e-9 {
			return fmt.Errorf("%w: got (%v, %v, %v)", ErrFractionSum, sum[0], sum[1], sum[2])
		}
	}
	if len(waypoints) > 0 {
		waypoints = waypoints[:len(waypoints)-1] // lands on the output port
	}
	rt.sections = channel.FromPath(waypoints, portSection(in), portSection(out), r.channelSize.Vec())

	return r.register(rt)
}

func (r *Router) newRoute(in, out *device.Port, kind, label string) (*route, error) {
	if in == nil || !in.Attached() {
		return nil, fmt.Errorf("%w: input", ErrPortUnattached)
	}
	if out == nil || !out.Attached() {
		return nil, fmt.Errorf("%w: output", ErrPortUnattached)
	}

	return &route{
		name:  in.Name() + routeNameSep + out.Name(),
		kind:  kind,
		in:    in,
		out:   out,
		label: label,
	}, nil
}

// register appends the route, or replaces an earlier intent under the
// same name while keeping its original order slot.
func (r *Router) register(rt *route) error {
	if r.routed {
		return ErrAlreadyRouted
	}
	if slot, ok := r.slots[rt.name]; ok {
		r.routes[slot] = rt

		return nil
	}
	r.slots[rt.name] = len(r.routes)
	r.routes = append(r.routes, rt)

	return nil
}

// portSection is the port-shaped cube cross-section anchoring a chain.
func portSection(p *device.Port) channel.CrossSection {
	box := p.BoundingBox()

	return channel.CrossSection{
		Kind:     channel.KindCube,
		Position: box.Center(),
		Size:     box.Size(),
		Absolute: true,
	}
}
