package keepout

import (
	"errors"

	"github.com/dhconnelly/rtreego"

	"github.com/openfluidics/fluidroute/geom"
)

// Sentinel errors for keepout operations.
var (
	// ErrEmptyOwner indicates an Insert with an empty owner identifier.
	ErrEmptyOwner = errors.New("keepout: owner identifier must be non-empty")
)

// Role classifies why a volume is reserved.
type Role int

const (
	// RoleStatic marks subcomponent bounding boxes and placed-shape segments.
	RoleStatic Role = iota
	// RolePortAccess marks a port's margin-expanded access volume.
	RolePortAccess
	// RoleChannel marks a segment of an already-routed channel.
	RoleChannel
)

// String returns the role name used in logs and cache snapshots.
func (r Role) String() string {
	switch r {
	case RoleStatic:
		return "static"
	case RolePortAccess:
		return "port"
	case RoleChannel:
		return "channel"
	default:
		return "unknown"
	}
}

// Entry is one reserved volume. Entries are immutable after insertion;
// the stored Box is exactly what the caller supplied, independent of the
// slightly inflated rectangle used inside the R-tree for degenerate
// (zero-thickness) boxes.
type Entry struct {
	Owner string
	Role  Role
	Box   geom.AABB

	rect rtreego.Rect
}

// Bounds implements rtreego.Spatial.
func (e *Entry) Bounds() rtreego.Rect { return e.rect }

// minExtent is the length substituted for a zero extent so the R-tree
// accepts degenerate boxes (ports flush on a wall have zero thickness
// along their normal axis).
const minExtent = 1e-9
