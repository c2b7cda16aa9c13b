package channel

import (
	"fmt"
	"math"

	"github.com/openfluidics/fluidroute/geom"
)

// RoundCorners replaces every interior cross-section that carries a
// nonzero CornerRadius with a circular arc of intermediate
// cross-sections. The arc is built from the incoming and outgoing
// segment directions: offset points sit at r/tan(θ/2) from the corner
// along each leg, the center at r/sin(θ/2) on the angle bisector, and
// CornerSegments samples are taken at equal angular steps in the plane
// spanned by the legs. Size and rotation interpolate linearly across
// the arc.
//
// A radius on the first or last segment is ErrCornerEndpoint; a radius
// exceeding either adjacent run length is ErrCornerRadius. A straight
// (zero-turn) waypoint produces no arc. Chains shorter than three
// segments pass through unchanged.
// Complexity: O(n·s) for s arc samples per rounded corner.
func RoundCorners(segments []Segment) ([]Segment, error) {
	if len(segments) < 3 {
		return segments, nil
	}

	out := make([]Segment, 0, len(segments))
	for i, seg := range segments {
		cs, ok := seg.(CrossSection)
		if !ok || cs.CornerRadius == 0 {
			out = append(out, seg)
			continue
		}
		if i == 0 || i == len(segments)-1 {
			return nil, ErrCornerEndpoint
		}

		arc, err := arcAtCorner(segments[i-1].position(), cs, segments[i+1].position())
		if err != nil {
			return nil, err
		}
		if arc == nil {
			// Collinear legs: sharp point stays.
			out = append(out, cs)
			continue
		}
		for _, a := range arc {
			out = append(out, a)
		}
	}

	return out, nil
}

// arcAtCorner samples the rounding arc for the corner at b between the
// neighbor positions a and c. Returns nil (no error) when the legs are
// collinear.
func arcAtCorner(a geom.Vec3, b CrossSection, c geom.Vec3) ([]CrossSection, error) {
	r := b.CornerRadius
	n := b.CornerSegments

	ba := a.Sub(b.Position)
	bc := c.Sub(b.Position)
	lenBA, lenBC := ba.Norm(), bc.Norm()
	if r > math.Round(lenBA) || r > math.Round(lenBC) {
		return nil, fmt.Errorf("%w: r=%v, runs %v and %v", ErrCornerRadius, r, lenBA, lenBC)
	}
	uBA, uBC := ba.Unit(), bc.Unit()

	// Angle between the legs and the offset of the arc endpoints.
	cosTheta := math.Max(-1, math.Min(1, uBA.Dot(uBC)))
	theta := math.Acos(cosTheta)
	half := theta / 2
	offset := r / math.Tan(half)
	if math.Round(offset) > math.Round(lenBA) || math.Round(offset) > math.Round(lenBC) {
		return nil, fmt.Errorf("%w: offset=%v, runs %v and %v", ErrCornerRadius, offset, lenBA, lenBC)
	}
	p1 := b.Position.Add(uBA.Scale(offset)) // arc start, on the incoming leg
	p2 := b.Position.Add(uBC.Scale(offset)) // arc end, on the outgoing leg

	bisector := uBA.Add(uBC)
	if bisector.Norm() == 0 {
		return nil, nil // straight through, no arc
	}
	center := b.Position.Add(bisector.Unit().Scale(r / math.Sin(half)))

	// Local basis of the arc plane.
	v1 := p1.Sub(center)
	v2 := p2.Sub(center)
	normal := v1.Cross(v2).Unit()
	u := v1.Unit()
	w := normal.Cross(u).Unit()

	// Sweep from p1 to p2 along the shorter side (toward the corner).
	endAngle := math.Atan2(v2.Dot(w), v2.Dot(u))
	if endAngle < 0 {
		endAngle += 2 * math.Pi
	}
	if endAngle > math.Pi {
		endAngle -= 2 * math.Pi
	}

	// Blend sizes: the along-leg dimension collapses at the start and
	// re-expands along the outgoing axis at the end.
	startDir := uBA.DominantAxis()
	endDir := uBC.DominantAxis()
	startSize := b.Size
	endSize := b.Size
	startSize[startDir] = 0
	endSize[endDir] = endSize[startDir]
	endSize[startDir] = 0

	sections := make([]CrossSection, 0, n)
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		angle := endAngle * t
		point := center.Add(u.Scale(r * math.Cos(angle))).Add(w.Scale(r * math.Sin(angle)))
		spin := normal.Scale(angle * 180 / math.Pi)

		sections = append(sections, CrossSection{
			Kind:           b.Kind,
			Position:       point,
			Size:           geom.Lerp(startSize, endSize, t),
			Rotation:       b.Rotation.Add(spin),
			RoundRadius:    b.RoundRadius,
			CornerRadius:   b.CornerRadius,
			CornerSegments: b.CornerSegments,
			Absolute:       true,
		})
	}

	return sections, nil
}
