package channel

import "github.com/openfluidics/fluidroute/geom"

// Normalize resolves every segment of a polychannel to a fully
// specified, absolutely positioned form:
//
//   - Kind, Size, Rotation, RoundRadius and CornerSegments inherit from
//     the previous segment when left at their zero value.
//   - Relative positions (Absolute == false) are offset by the previous
//     segment's position; Bezier control points are shifted the same way.
//   - Sphere cross-sections derive RoundRadius = Size/2, cubes (0,0,0).
//
// The first segment must be a CrossSection with explicit kind and size
// (ErrFirstShape, ErrBezierFirst). Bezier segments are validated for
// control-point and sample counts here so that malformed routes fail at
// definition time.
//
// The input slice is not modified; a new slice is returned.
// Complexity: O(n).
func Normalize(segments []Segment) ([]Segment, error) {
	if len(segments) < 2 {
		return nil, ErrEmptyChannel
	}

	out := make([]Segment, len(segments))
	var prev CrossSection
	for i, seg := range segments {
		switch s := seg.(type) {
		case CrossSection:
			if i == 0 {
				if s.Kind == KindInherit || s.Size == (geom.Vec3{}) {
					return nil, ErrFirstShape
				}
				s.Absolute = true
			}
			norm := inherit(s, prev, i == 0)
			out[i] = norm
			prev = norm

		case BezierSegment:
			if i == 0 {
				return nil, ErrBezierFirst
			}
			if len(s.Control) < 1 {
				return nil, ErrBezierControl
			}
			if s.Samples < 2 {
				return nil, ErrBezierSamples
			}
			target := inherit(s.Target, prev, false)
			control := make([]geom.Vec3, len(s.Control))
			copy(control, s.Control)
			if !s.Target.Absolute {
				for j := range control {
					control[j] = control[j].Add(prev.Position)
				}
			}
			norm := BezierSegment{Control: control, Samples: s.Samples, Target: target}
			out[i] = norm
			prev = target

		default:
			return nil, ErrFirstShape
		}
	}

	return out, nil
}

// inherit fills the unset fields of s from prev and resolves its
// position to absolute coordinates. first suppresses inheritance for
// the head of the chain.
func inherit(s, prev CrossSection, first bool) CrossSection {
	if !first {
		if s.Kind == KindInherit {
			s.Kind = prev.Kind
		}
		if s.Size == (geom.Vec3{}) {
			s.Size = prev.Size
		}
		if s.Rotation == (geom.Vec3{}) {
			s.Rotation = prev.Rotation
		}
		if !s.Absolute {
			s.Position = s.Position.Add(prev.Position)
		}
	}
	if s.CornerSegments == 0 {
		if prev.CornerSegments != 0 && !first {
			s.CornerSegments = prev.CornerSegments
		} else {
			s.CornerSegments = DefaultCornerSegments
		}
	}
	if s.RoundRadius == (geom.Vec3{}) {
		switch s.Kind {
		case KindSphere:
			s.RoundRadius = s.Size.Scale(0.5)
		case KindRoundedCube:
			s.RoundRadius = prev.RoundRadius
		}
	}
	s.Absolute = true

	return s
}
