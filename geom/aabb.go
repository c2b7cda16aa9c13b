package geom

// AABB is an axis-aligned bounding box in continuous device
// coordinates. Min ≤ Max must hold on every axis. AABBs are immutable
// values; derive new boxes with WithMargin or Union instead of mutating.
type AABB struct {
	Min Vec3
	Max Vec3
}

// BoxAt returns the box with its minimum corner at origin and the given
// extent on each axis.
// Complexity: O(1).
func BoxAt(origin, size Vec3) AABB {
	return AABB{Min: origin, Max: origin.Add(size)}
}

// BoxAround returns the box of the given extent centered on c.
// Complexity: O(1).
func BoxAround(c, size Vec3) AABB {
	half := size.Scale(0.5)

	return AABB{Min: c.Sub(half), Max: c.Add(half)}
}

// WithMargin grows the box by m on every side (shrinks for negative m).
// Complexity: O(1).
func (b AABB) WithMargin(m Vec3) AABB {
	return AABB{Min: b.Min.Sub(m), Max: b.Max.Add(m)}
}

// Size returns the extent of the box on each axis.
// Complexity: O(1).
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
// Complexity: O(1).
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Intersects reports whether b and o overlap with positive measure.
// Boxes that only touch on a face or edge do not intersect.
// Complexity: O(1).
func (b AABB) Intersects(o AABB) bool {
	return !(b.Max[0] <= o.Min[0] || o.Max[0] <= b.Min[0] ||
		b.Max[1] <= o.Min[1] || o.Max[1] <= b.Min[1] ||
		b.Max[2] <= o.Min[2] || o.Max[2] <= b.Min[2])
}

// Inside reports whether b lies entirely within outer, boundaries
// included.
// Complexity: O(1).
func (b AABB) Inside(outer AABB) bool {
	return outer.Min[0] <= b.Min[0] && b.Max[0] <= outer.Max[0] &&
		outer.Min[1] <= b.Min[1] && b.Max[1] <= outer.Max[1] &&
		outer.Min[2] <= b.Min[2] && b.Max[2] <= outer.Max[2]
}

// InsideExceptAxis reports whether b lies within outer on the two axes
// other than axis (0=X, 1=Y, 2=Z). Used when a port's access channel is
// allowed to pierce the parent wall along its surface-normal axis.
func (b AABB) InsideExceptAxis(outer AABB, axis int) bool {
	for i := 0; i < 3; i++ {
		if i == axis {
			continue
		}
		if b.Min[i] < outer.Min[i] || outer.Max[i] < b.Max[i] {
			return false
		}
	}

	return true
}

// Union returns the smallest box containing both b and o.
// Complexity: O(1).
func (b AABB) Union(o AABB) AABB {
	var u AABB
	for i := 0; i < 3; i++ {
		u.Min[i] = b.Min[i]
		if o.Min[i] < u.Min[i] {
			u.Min[i] = o.Min[i]
		}
		u.Max[i] = b.Max[i]
		if o.Max[i] > u.Max[i] {
			u.Max[i] = o.Max[i]
		}
	}

	return u
}
