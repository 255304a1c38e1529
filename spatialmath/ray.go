package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
)

// Ray is a half-line starting at Origin and extending along the unit vector Direction.
type Ray struct {
	Origin    r3.Vector
	Direction r3.Vector
}

// NewRay creates a ray from origin along direction. The direction is normalized and must not be zero.
func NewRay(origin, direction r3.Vector) (Ray, error) {
	if direction.Norm2() == 0 {
		return Ray{}, errors.New("ray direction must be non-zero")
	}
	return Ray{Origin: origin, Direction: direction.Normalize()}, nil
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) r3.Vector {
	return r.Origin.Add(r.Direction.Mul(t))
}

// String returns a human readable string that represents the ray.
func (r Ray) String() string {
	return fmt.Sprintf("Ray | Origin: X:%.2f, Y:%.2f, Z:%.2f | Direction: X:%.3f, Y:%.3f, Z:%.3f",
		r.Origin.X, r.Origin.Y, r.Origin.Z, r.Direction.X, r.Direction.Y, r.Direction.Z)
}

// RayIntersection tests the ray against the box using the slab method. On a hit it returns the point where the
// ray enters the box, or the point where it leaves the box when the origin is already inside.
func (bb AABB) RayIntersection(r Ray) (r3.Vector, bool) {
	origin := [3]float64{r.Origin.X, r.Origin.Y, r.Origin.Z}
	dir := [3]float64{r.Direction.X, r.Direction.Y, r.Direction.Z}
	lo := [3]float64{bb.Min.X, bb.Min.Y, bb.Min.Z}
	hi := [3]float64{bb.Max.X, bb.Max.Y, bb.Max.Z}

	tMin := math.Inf(-1)
	tMax := math.Inf(1)
	for axis := 0; axis < 3; axis++ {
		if dir[axis] == 0 {
			// parallel to this slab
			if origin[axis] < lo[axis] || origin[axis] > hi[axis] {
				return r3.Vector{}, false
			}
			continue
		}
		inv := 1 / dir[axis]
		t1 := (lo[axis] - origin[axis]) * inv
		t2 := (hi[axis] - origin[axis]) * inv
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
	}

	if tMax < tMin || tMax < 0 {
		return r3.Vector{}, false
	}
	t := tMin
	if t < 0 {
		t = tMax
	}
	if math.IsInf(t, 0) {
		// degenerate zero direction with the origin inside
		t = 0
	}
	return r.At(t), true
}
