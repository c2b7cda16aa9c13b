package device

import (
	"fmt"

	"github.com/openfluidics/fluidroute/geom"
)

// PortType distinguishes flow direction at a port.
type PortType uint8

const (
	In PortType = iota + 1
	Out
	InOut
)

func (t PortType) String() string {
	switch t {
	case In:
		return "in"
	case Out:
		return "out"
	case InOut:
		return "inout"
	default:
		return "invalid"
	}
}

// Port is an opening on a component surface. Position is the port's
// anchor on the lattice; Size its extent. Until AddPort attaches it to
// a component it has no name and cannot be routed.
type Port struct {
	Type     PortType
	Position geom.GridPoint
	Size     geom.GridPoint
	Normal   SurfaceNormal

	owner *Component
	name  string
}

// NewPort returns an unattached port.
func NewPort(t PortType, position, size geom.GridPoint, normal SurfaceNormal) *Port {
	return &Port{Type: t, Position: position, Size: size, Normal: normal}
}

// Attached reports whether the port has been added to a component.
func (p *Port) Attached() bool { return p.owner != nil }

// Owner returns the component the port is attached to, or nil.
func (p *Port) Owner() *Component { return p.owner }

// Name returns "<component id>.<port name>" for an attached port.
func (p *Port) Name() string {
	if p.owner == nil {
		return p.name
	}

	return fmt.Sprintf("%s.%s", p.owner.ID(), p.name)
}

// BoundingBox returns the port's box. The anchor marks the min corner
// along positive axes; along each negative-pointing axis of the normal
// the box extends backwards from the anchor, so the min corner shifts
// by the size on that axis.
func (p *Port) BoundingBox() geom.AABB {
	pos := p.Position
	v := p.Normal.Vector()
	for i := 0; i < 3; i++ {
		if v[i] < 0 {
			pos[i] -= p.Size[i]
		}
	}

	return geom.BoxAt(pos.Vec(), p.Size.Vec())
}

// Origin returns the min corner of the port's bounding box.
func (p *Port) Origin() geom.Vec3 {
	return p.BoundingBox().Min
}
