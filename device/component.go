package device

import (
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/zeebo/blake3"

	"github.com/openfluidics/fluidroute/channel"
	"github.com/openfluidics/fluidroute/geom"
)

// Sentinel errors for component construction and editing.
var (
	// ErrEmptyID indicates a component constructed without an id.
	ErrEmptyID = errors.New("device: component id must be non-empty")

	// ErrNilBackend indicates a component constructed without a geometry backend.
	ErrNilBackend = errors.New("device: backend must be non-nil")

	// ErrDuplicateName indicates a port, subcomponent or shape name collision.
	ErrDuplicateName = errors.New("device: name already in use")

	// ErrAlreadyAttached indicates a port added to a second component.
	ErrAlreadyAttached = errors.New("device: port is already attached")

	// ErrRotation indicates a rotation that is not a multiple of 90 degrees.
	ErrRotation = errors.New("device: rotation must be a multiple of 90 degrees")
)

// Shape is a piece of constructed geometry: the cross-section chain it
// was built from and the axis-aligned keepout boxes it occupies. The
// backend may attach arbitrary render data via Payload; the router only
// reads Keepouts.
type Shape struct {
	Sections []channel.CrossSection
	Keepouts []geom.AABB
	Payload  interface{}
}

// PlacedShape is a shape registered on a component under a name.
type PlacedShape struct {
	Name  string
	Label string
	Shape *Shape
}

// Backend constructs geometry from cross-section chains. The router
// never does CSG itself; it describes a channel and the backend builds
// it.
type Backend interface {
	MakeChannel(sections []channel.CrossSection) (*Shape, error)
}

// HullBackend is the reference backend: each consecutive cross-section
// pair contributes the axis-aligned envelope of the two station boxes,
// approximating the convex-hull sweep a rendering backend would build.
type HullBackend struct{}

// MakeChannel implements Backend.
func (HullBackend) MakeChannel(sections []channel.CrossSection) (*Shape, error) {
	if len(sections) < 2 {
		return nil, channel.ErrEmptyChannel
	}

	return &Shape{
		Sections: sections,
		Keepouts: channel.SegmentBoxes(sections),
	}, nil
}

// Component is a rectangular device volume with ports, subcomponents
// and placed shapes. The id is the caller-supplied stable identity the
// route cache keys on; it must survive renames and re-runs.
type Component struct {
	id       string
	name     string
	position geom.GridPoint
	size     geom.GridPoint
	backend  Backend

	subs   []*Component
	ports  []*Port
	shapes []*PlacedShape
	byName map[string]struct{}
}

// NewComponent creates an empty component occupying size lattice units
// at position.
func NewComponent(id, name string, position, size geom.GridPoint, backend Backend) (*Component, error) {
	if id == "" {
		return nil, ErrEmptyID
	}
	if backend == nil {
		return nil, ErrNilBackend
	}

	return &Component{
		id:       id,
		name:     name,
		position: position,
		size:     size,
		backend:  backend,
		byName:   make(map[string]struct{}),
	}, nil
}

// ID returns the stable cache identity.
func (c *Component) ID() string { return c.id }

// Name returns the display name.
func (c *Component) Name() string { return c.name }

// Backend returns the injected geometry backend.
func (c *Component) Backend() Backend { return c.backend }

// Position returns the min corner on the lattice.
func (c *Component) Position() geom.GridPoint { return c.position }

// Size returns the extent in lattice units.
func (c *Component) Size() geom.GridPoint { return c.size }

// BoundingBox returns the volume the component occupies.
func (c *Component) BoundingBox() geom.AABB {
	return geom.BoxAt(c.position.Vec(), c.size.Vec())
}

// AddPort attaches a port under the given name. The port's position is
// an absolute lattice coordinate, in the same frame as the component
// position.
func (c *Component) AddPort(name string, p *Port) error {
	if p.owner != nil {
		return fmt.Errorf("%w: %s", ErrAlreadyAttached, p.Name())
	}
	if err := c.claim(name); err != nil {
		return err
	}
	p.owner = c
	p.name = name
	c.ports = append(c.ports, p)

	return nil
}

// Port looks up an attached port by its local name.
func (c *Component) Port(name string) (*Port, bool) {
	for _, p := range c.ports {
		if p.name == name {
			return p, true
		}
	}

	return nil, false
}

// Ports returns the attached ports in attachment order.
func (c *Component) Ports() []*Port { return c.ports }

// AddSubcomponent nests a child component. Children keep their own
// backends; routing happens per component.
func (c *Component) AddSubcomponent(child *Component) error {
	if err := c.claim(child.id); err != nil {
		return err
	}
	c.subs = append(c.subs, child)

	return nil
}

// Subcomponents returns the children in insertion order.
func (c *Component) Subcomponents() []*Component { return c.subs }

// AddShape registers constructed geometry under a name.
func (c *Component) AddShape(name, label string, shape *Shape) error {
	if err := c.claim(name); err != nil {
		return err
	}
	c.shapes = append(c.shapes, &PlacedShape{Name: name, Label: label, Shape: shape})

	return nil
}

// Shapes returns the placed shapes in placement order.
func (c *Component) Shapes() []*PlacedShape { return c.shapes }

func (c *Component) claim(name string) error {
	if name == "" {
		return ErrEmptyID
	}
	if _, taken := c.byName[name]; taken {
		return fmt.Errorf("%w: %s", ErrDuplicateName, name)
	}
	c.byName[name] = struct{}{}

	return nil
}

// Rotate turns the component about the Z axis through its origin. The
// angle must be a multiple of 90 degrees. Subcomponents rotate
// recursively; port positions and normals remap through the rotation
// tables; placed shape geometry is rotated in the XY plane.
func (c *Component) Rotate(degrees int) error {
	if degrees%90 != 0 {
		return fmt.Errorf("%w: got %d", ErrRotation, degrees)
	}
	q := ((degrees / 90 % 4) + 4) % 4
	if q == 0 {
		return nil
	}

	for _, sub := range c.subs {
		if err := sub.Rotate(degrees); err != nil {
			return err
		}
	}
	for _, p := range c.ports {
		rotatePort(p, q)
	}
	for _, ps := range c.shapes {
		rotateShape(ps.Shape, q)
	}
	if q%2 == 1 {
		c.size = geom.GridPoint{c.size[1], c.size[0], c.size[2]}
	}

	return nil
}

// rotatePort applies one of the 90/180/270 position maps, the table's
// min-corner correction for XY normals, and the separate correction for
// Z-facing ports whose box would otherwise drift off its face.
func rotatePort(p *Port, q int) {
	x, y, z := p.Position[0], p.Position[1], p.Position[2]
	switch q {
	case 1:
		p.Position = geom.GridPoint{-y, x, z}
	case 2:
		p.Position = geom.GridPoint{-x, -y, z}
	case 3:
		p.Position = geom.GridPoint{y, -x, z}
	}

	if _, ok := rotationTables[q][p.Normal]; ok {
		n, dx, dy := RotateNormal(q, p.Normal)
		p.Position[0] += dx * p.Size[0]
		p.Position[1] += dy * p.Size[1]
		p.Normal = n

		return
	}

	if p.Normal == PosZ || p.Normal == NegZ {
		switch q {
		case 1:
			p.Position[0] -= p.Size[0]
		case 2:
			p.Position[0] -= p.Size[0]
			p.Position[1] -= p.Size[1]
		case 3:
			p.Position[1] -= p.Size[1]
		}
	}
}

// rotateShape rotates keepout boxes and cross-sections in the XY plane.
func rotateShape(s *Shape, q int) {
	for i, box := range s.Keepouts {
		s.Keepouts[i] = rotateBox(box, q)
	}
	for i := range s.Sections {
		cs := &s.Sections[i]
		cs.Position = rotateVec(cs.Position, q)
		if q%2 == 1 {
			cs.Size[0], cs.Size[1] = cs.Size[1], cs.Size[0]
			cs.RoundRadius[0], cs.RoundRadius[1] = cs.RoundRadius[1], cs.RoundRadius[0]
		}
		cs.Rotation[2] += float64(q) * 90
	}
}

func rotateVec(v geom.Vec3, q int) geom.Vec3 {
	switch q {
	case 1:
		return geom.Vec3{-v[1], v[0], v[2]}
	case 2:
		return geom.Vec3{-v[0], -v[1], v[2]}
	case 3:
		return geom.Vec3{v[1], -v[0], v[2]}
	default:
		return v
	}
}

func rotateBox(b geom.AABB, q int) geom.AABB {
	lo := rotateVec(b.Min, q)
	hi := rotateVec(b.Max, q)
	for i := 0; i < 3; i++ {
		if lo[i] > hi[i] {
			lo[i], hi[i] = hi[i], lo[i]
		}
	}

	return geom.AABB{Min: lo, Max: hi}
}

// Mirror reflects the component across the X and/or Y axis through its
// origin. Mirroring across both axes is a 180 degree rotation. The
// component position shifts so it keeps describing the min corner.
func (c *Component) Mirror(mirrorX, mirrorY bool) error {
	if mirrorX && mirrorY {
		return c.Rotate(180)
	}
	if !mirrorX && !mirrorY {
		return nil
	}
	axis := 0
	if mirrorY {
		axis = 1
	}

	for _, sub := range c.subs {
		if err := sub.Mirror(mirrorX, mirrorY); err != nil {
			return err
		}
	}
	for _, p := range c.ports {
		mirrorPort(p, axis)
	}
	for _, ps := range c.shapes {
		mirrorShape(ps.Shape, axis)
	}
	c.position[axis] -= c.size[axis]

	return nil
}

// mirrorPort reflects the anchor and flips the normal. A port pointing
// along the mirrored axis sticks out of the face; its anchor moves by
// the size so it stays on the surface.
func mirrorPort(p *Port, axis int) {
	p.Position[axis] = -p.Position[axis] - p.Size[axis]
	if p.Normal.Axis() == axis {
		p.Position[axis] += p.Size[axis]
	}
	p.Normal = MirrorNormal(axis, p.Normal)
}

func mirrorShape(s *Shape, axis int) {
	for i, box := range s.Keepouts {
		lo, hi := box.Min, box.Max
		lo[axis], hi[axis] = -box.Max[axis], -box.Min[axis]
		s.Keepouts[i] = geom.AABB{Min: lo, Max: hi}
	}
	for i := range s.Sections {
		s.Sections[i].Position[axis] = -s.Sections[i].Position[axis]
	}
}

// GeometryHash fingerprints the component tree's structural geometry:
// id, volume, ports, subcomponent hashes and placed shape keepouts, in
// registration order. Two trees with equal hashes route identically.
func (c *Component) GeometryHash() string {
	h := blake3.New()
	writeString(h, c.id)
	writeGridPoint(h, c.position)
	writeGridPoint(h, c.size)
	for _, p := range c.ports {
		writeString(h, p.name)
		binary.Write(h, binary.LittleEndian, uint8(p.Type))
		binary.Write(h, binary.LittleEndian, uint8(p.Normal))
		writeGridPoint(h, p.Position)
		writeGridPoint(h, p.Size)
	}
	for _, sub := range c.subs {
		writeString(h, sub.GeometryHash())
	}
	for _, ps := range c.shapes {
		writeString(h, ps.Name)
		for _, box := range ps.Shape.Keepouts {
			writeVec(h, box.Min)
			writeVec(h, box.Max)
		}
	}
	sum := h.Sum(nil)

	return hex.EncodeToString(sum)
}

func writeString(h *blake3.Hasher, s string) {
	binary.Write(h, binary.LittleEndian, uint32(len(s)))
	h.Write([]byte(s))
}

func writeGridPoint(h *blake3.Hasher, p geom.GridPoint) {
	for _, v := range p {
		binary.Write(h, binary.LittleEndian, int64(v))
	}
}

func writeVec(h *blake3.Hasher, v geom.Vec3) {
	binary.Write(h, binary.LittleEndian, v)
}
