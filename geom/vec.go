package geom

import "math"

// Vec3 is a point or displacement in continuous device coordinates.
type Vec3 [3]float64

// Add returns v + o component-wise.
// Complexity: O(1).
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v[0] + o[0], v[1] + o[1], v[2] + o[2]}
}

// Sub returns v − o component-wise.
// Complexity: O(1).
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v[0] - o[0], v[1] - o[1], v[2] - o[2]}
}

// Scale returns v multiplied by the scalar s.
// Complexity: O(1).
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v[0] * s, v[1] * s, v[2] * s}
}

// Dot returns the dot product v·o.
// Complexity: O(1).
func (v Vec3) Dot(o Vec3) float64 {
	return v[0]*o[0] + v[1]*o[1] + v[2]*o[2]
}

// Cross returns the cross product v×o.
// Complexity: O(1).
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v[1]*o[2] - v[2]*o[1],
		v[2]*o[0] - v[0]*o[2],
		v[0]*o[1] - v[1]*o[0],
	}
}

// Norm returns the Euclidean length of v.
// Complexity: O(1).
func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Dot(v))
}

// Unit returns v scaled to unit length. A zero vector is returned
// unchanged so callers can detect degeneracy via Norm()==0 beforehand.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n == 0 {
		return v
	}

	return v.Scale(1 / n)
}

// Lerp linearly interpolates between a and b at parameter t∈[0,1].
// Complexity: O(1).
func Lerp(a, b Vec3, t float64) Vec3 {
	return Vec3{
		a[0]*(1-t) + b[0]*t,
		a[1]*(1-t) + b[1]*t,
		a[2]*(1-t) + b[2]*t,
	}
}

// DominantAxis returns the index (0=X, 1=Y, 2=Z) of the component of v
// with the largest absolute value. Ties resolve to the lower axis index.
func (v Vec3) DominantAxis() int {
	axis := 0
	best := math.Abs(v[0])
	for i := 1; i < 3; i++ {
		if math.Abs(v[i]) > best {
			best = math.Abs(v[i])
			axis = i
		}
	}

	return axis
}
