package channel

import "github.com/openfluidics/fluidroute/geom"

// Materialize runs the full pipeline — Normalize, RoundCorners,
// ExpandBezier — and returns the flat cross-section chain handed to the
// geometry backend. All errors are definition-time constraint
// violations.
func Materialize(segments []Segment) ([]CrossSection, error) {
	normalized, err := Normalize(segments)
	if err != nil {
		return nil, err
	}
	rounded, err := RoundCorners(normalized)
	if err != nil {
		return nil, err
	}

	return ExpandBezier(rounded)
}

// FromPath converts a cardinal waypoint sequence into a constant
// cross-section chain: the supplied port-shaped cross-sections bracket
// the chain, and every waypoint becomes a cube of the channel size
// centered on the waypoint. Callers that do not want waypoints on the
// port anchors simply leave them out of path.
func FromPath(path []geom.GridPoint, inlet, outlet CrossSection, size geom.Vec3) []CrossSection {
	sections := make([]CrossSection, 0, len(path)+2)
	sections = append(sections, inlet)
	for _, p := range path {
		sections = append(sections, CrossSection{
			Kind:     KindCube,
			Position: p.Vec().Add(size.Scale(0.5)),
			Size:     size,
			Absolute: true,
		})
	}
	sections = append(sections, outlet)

	return sections
}

// SegmentBoxes returns the axis-aligned envelope of every consecutive
// cross-section pair: the union of the two station boxes. These are the
// keepout volumes a materialized channel occupies, mirroring the hull
// chain the backend builds.
func SegmentBoxes(sections []CrossSection) []geom.AABB {
	if len(sections) < 2 {
		return nil
	}
	boxes := make([]geom.AABB, 0, len(sections)-1)
	for i := 1; i < len(sections); i++ {
		a := geom.BoxAround(sections[i-1].Position, sections[i-1].Size)
		b := geom.BoxAround(sections[i].Position, sections[i].Size)
		boxes = append(boxes, a.Union(b))
	}

	return boxes
}
