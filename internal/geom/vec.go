package geom

import "math"

// Vec3 is a world-space position or direction. The simulation uses a Y-up
// convention: the ground plane is XZ, and formation math happens on it.
type Vec3 struct {
	X, Y, Z float64
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Len returns the Euclidean length of v.
func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// Dist returns the distance between v and o.
func (v Vec3) Dist(o Vec3) float64 {
	return v.Sub(o).Len()
}

// Normalize returns v scaled to unit length, or the zero vector when v is
// too short to yield a meaningful direction.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-9 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// GroundProject drops the Y component and renormalizes, yielding a
// direction usable as a formation facing. A vertical input (straight up or
// down) has no ground direction and falls back to north (+Z).
func (v Vec3) GroundProject() Vec3 {
	flat := Vec3{X: v.X, Z: v.Z}
	if flat.Len() < 1e-9 {
		return Vec3{Z: 1}
	}
	return flat.Normalize()
}

// RightOf returns the ground-plane right-hand perpendicular of a facing
// direction (90° clockwise when viewed from above).
func RightOf(facing Vec3) Vec3 {
	f := facing.GroundProject()
	return Vec3{X: f.Z, Z: -f.X}
}

// Centroid returns the arithmetic mean of the given points. An empty input
// returns the zero vector and false.
func Centroid(pts []Vec3) (Vec3, bool) {
	if len(pts) == 0 {
		return Vec3{}, false
	}
	var sum Vec3
	for _, p := range pts {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(pts))), true
}
