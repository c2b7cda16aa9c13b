package device

import "github.com/openfluidics/fluidroute/geom"

// SurfaceNormal names the component face a port exits through.
type SurfaceNormal uint8

const (
	PosX SurfaceNormal = iota + 1
	PosY
	PosZ
	NegX
	NegY
	NegZ
)

// normalVectors maps each normal to its outward unit step.
var normalVectors = map[SurfaceNormal]geom.GridPoint{
	PosX: {1, 0, 0},
	PosY: {0, 1, 0},
	PosZ: {0, 0, 1},
	NegX: {-1, 0, 0},
	NegY: {0, -1, 0},
	NegZ: {0, 0, -1},
}

// Vector returns the outward unit step for the normal. The zero point
// is returned for an invalid normal.
func (n SurfaceNormal) Vector() geom.GridPoint {
	return normalVectors[n]
}

// Axis returns the coordinate axis (0..2) the normal lies on.
func (n SurfaceNormal) Axis() int {
	switch n {
	case PosX, NegX:
		return 0
	case PosY, NegY:
		return 1
	default:
		return 2
	}
}

// Negative reports whether the normal points in a negative direction.
func (n SurfaceNormal) Negative() bool {
	return n == NegX || n == NegY || n == NegZ
}

func (n SurfaceNormal) String() string {
	switch n {
	case PosX:
		return "+X"
	case PosY:
		return "+Y"
	case PosZ:
		return "+Z"
	case NegX:
		return "-X"
	case NegY:
		return "-Y"
	case NegZ:
		return "-Z"
	default:
		return "invalid"
	}
}

// normalShift is a rotation table entry: the remapped normal plus the
// (dx, dy) size multipliers that correct a port's min corner after its
// position is rotated about the component origin.
type normalShift struct {
	normal SurfaceNormal
	dx, dy int
}

// rotationTables holds the XY-normal remapping for 1..3 quarter turns
// about Z. Z-facing normals do not remap; their corner correction is a
// separate case in Component.Rotate.
var rotationTables = [4]map[SurfaceNormal]normalShift{
	1: {
		PosX: {PosY, -1, 0},
		PosY: {NegX, 0, 0},
		NegX: {NegY, -1, 0},
		NegY: {PosX, 0, 0},
	},
	2: {
		PosX: {NegX, 0, -1},
		PosY: {NegY, -1, 0},
		NegX: {PosX, 0, -1},
		NegY: {PosY, -1, 0},
	},
	3: {
		PosX: {NegY, 0, 0},
		PosY: {PosX, 0, -1},
		NegX: {PosY, 0, 0},
		NegY: {NegX, 0, -1},
	},
}

// RotateNormal remaps a surface normal through quarterTurns
// counter-clockwise quarter turns about Z and returns the (dx, dy) size
// multipliers for the port's min-corner correction. Z-facing normals
// and zero turns pass through unchanged.
func RotateNormal(quarterTurns int, n SurfaceNormal) (SurfaceNormal, int, int) {
	q := ((quarterTurns % 4) + 4) % 4
	if q == 0 {
		return n, 0, 0
	}
	s, ok := rotationTables[q][n]
	if !ok {
		return n, 0, 0
	}

	return s.normal, s.dx, s.dy
}

// MirrorNormal flips a normal across the given axis (0 = X, 1 = Y).
// Normals on other axes pass through unchanged.
func MirrorNormal(axis int, n SurfaceNormal) SurfaceNormal {
	switch {
	case axis == 0 && n == PosX:
		return NegX
	case axis == 0 && n == NegX:
		return PosX
	case axis == 1 && n == PosY:
		return NegY
	case axis == 1 && n == NegY:
		return PosY
	default:
		return n
	}
}
