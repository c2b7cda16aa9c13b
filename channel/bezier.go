package channel

import "github.com/openfluidics/fluidroute/geom"

// ExpandBezier replaces every BezierSegment with Samples cross-sections
// evaluated along the curve via the Bernstein-polynomial
// parameterization. The control polygon is the previous segment's
// position, the segment's own control points, then the target position;
// size, rotation and round radius interpolate linearly between the
// previous shape and the target across the curve.
//
// A cube-to-sphere (or any kind-changing) curve is swept as rounded
// cubes so the intermediate solids blend, matching the materializer's
// hull chain. Segments must already be normalized (ErrBezierFirst is
// reported by Normalize; here the previous segment is guaranteed).
// Complexity: O(n·s·c) for s samples and c control points.
func ExpandBezier(segments []Segment) ([]CrossSection, error) {
	out := make([]CrossSection, 0, len(segments))
	var prev CrossSection
	for i, seg := range segments {
		switch s := seg.(type) {
		case CrossSection:
			out = append(out, s)
			prev = s

		case BezierSegment:
			if i == 0 {
				return nil, ErrBezierFirst
			}
			kind := s.Target.Kind
			if kind != prev.Kind {
				kind = KindRoundedCube
			}

			control := make([]geom.Vec3, 0, len(s.Control)+2)
			control = append(control, prev.Position)
			control = append(control, s.Control...)
			control = append(control, s.Target.Position)

			for j := 0; j < s.Samples; j++ {
				t := float64(j) / float64(s.Samples-1)
				out = append(out, CrossSection{
					Kind:           kind,
					Position:       bezierPoint(control, t),
					Size:           geom.Lerp(prev.Size, s.Target.Size, t),
					Rotation:       geom.Lerp(prev.Rotation, s.Target.Rotation, t),
					RoundRadius:    geom.Lerp(prev.RoundRadius, s.Target.RoundRadius, t),
					CornerSegments: s.Target.CornerSegments,
					Absolute:       true,
				})
			}
			prev = s.Target
		}
	}

	return out, nil
}

// bezierPoint evaluates the Bernstein form of the curve defined by the
// control points at parameter t∈[0,1].
func bezierPoint(control []geom.Vec3, t float64) geom.Vec3 {
	n := len(control) - 1
	var p geom.Vec3
	for i, c := range control {
		w := binomial(n, i) * pow(1-t, n-i) * pow(t, i)
		p = p.Add(c.Scale(w))
	}

	return p
}

// binomial returns C(n, k) as a float64. The control polygons in
// practice stay far below the overflow range of float64.
func binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	if k > n-k {
		k = n - k
	}
	b := 1.0
	for i := 0; i < k; i++ {
		b = b * float64(n-i) / float64(i+1)
	}

	return b
}

// pow is x**n for small non-negative integer exponents, avoiding
// math.Pow's 0**0 edge (Bernstein needs 0**0 == 1).
func pow(x float64, n int) float64 {
	p := 1.0
	for i := 0; i < n; i++ {
		p *= x
	}

	return p
}
