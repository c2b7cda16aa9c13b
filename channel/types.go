package channel

import (
	"errors"

	"github.com/openfluidics/fluidroute/geom"
)

// Sentinel errors for channel materialization. All of them are
// definition-time geometry constraint violations: they abort route
// registration and are never recovered at resolution time.
var (
	// ErrEmptyChannel indicates a polychannel with fewer than two cross-sections.
	ErrEmptyChannel = errors.New("channel: polychannel requires at least two cross-sections")
	// ErrFirstShape indicates the first cross-section lacks an explicit kind or size.
	ErrFirstShape = errors.New("channel: first cross-section must specify kind and size")
	// ErrBezierFirst indicates a Bezier segment at the head of a chain,
	// where no previous shape exists to interpolate from.
	ErrBezierFirst = errors.New("channel: bezier segment cannot start a polychannel")
	// ErrBezierControl indicates a Bezier segment without control points.
	ErrBezierControl = errors.New("channel: bezier segment requires at least one control point")
	// ErrBezierSamples indicates a Bezier segment with fewer than two samples.
	ErrBezierSamples = errors.New("channel: bezier segment requires at least two samples")
	// ErrCornerRadius indicates a corner radius exceeding an adjacent run length.
	ErrCornerRadius = errors.New("channel: corner radius exceeds adjacent run length")
	// ErrCornerEndpoint indicates a corner radius on the first or last cross-section.
	ErrCornerEndpoint = errors.New("channel: first and last cross-sections cannot carry a corner radius")
)

// Kind selects the solid swept at a cross-section.
type Kind uint8

const (
	// KindInherit takes the kind of the previous cross-section.
	KindInherit Kind = iota
	// KindCube is a rectangular cross-section.
	KindCube
	// KindSphere is an ellipsoidal cross-section.
	KindSphere
	// KindRoundedCube is a rectangular cross-section with rounded edges.
	KindRoundedCube
)

// String returns the kind name used in logs and cache records.
func (k Kind) String() string {
	switch k {
	case KindCube:
		return "cube"
	case KindSphere:
		return "sphere"
	case KindRoundedCube:
		return "rounded_cube"
	default:
		return "inherit"
	}
}

// DefaultCornerSegments is the arc sample count used when a
// cross-section carries a corner radius but no explicit segment count.
const DefaultCornerSegments = 10

// CrossSection describes one station of a channel: the solid kind, its
// extent, position, rotation and optional corner rounding. Zero values
// of Kind, Size, Rotation, RoundRadius and CornerSegments mean
// "inherit from the previous cross-section" during Normalize; a zero
// CornerRadius means a sharp corner (no inheritance).
//
// Position is relative to the previous cross-section unless Absolute is
// set; Normalize resolves every position to absolute coordinates.
type CrossSection struct {
	Kind           Kind       `msgpack:"kind"`
	Position       geom.Vec3  `msgpack:"pos"`
	Size           geom.Vec3  `msgpack:"size"`
	Rotation       geom.Vec3  `msgpack:"rot"`
	RoundRadius    geom.Vec3  `msgpack:"round_radius"`
	CornerRadius   float64    `msgpack:"corner_radius"`
	CornerSegments int        `msgpack:"corner_segments"`
	Absolute       bool       `msgpack:"absolute"`
}

// BezierSegment describes a curved channel section. The previous
// cross-section's position is prepended and Target.Position appended to
// Control before evaluation, so Control holds only the interior control
// points. Target supplies the shape at the end of the curve; its fields
// inherit exactly like a plain CrossSection.
type BezierSegment struct {
	Control []geom.Vec3
	Samples int
	Target  CrossSection
}

// Segment is one element of a user-authored polychannel: either a
// CrossSection or a BezierSegment.
type Segment interface {
	segment()
	// position returns the (normalized, absolute) anchor position of the
	// segment, used when rounding neighboring corners.
	position() geom.Vec3
}

func (c CrossSection) segment()            {}
func (c CrossSection) position() geom.Vec3 { return c.Position }

func (b BezierSegment) segment()            {}
func (b BezierSegment) position() geom.Vec3 { return b.Target.Position }
