package spatialmath

import (
	"fmt"
	"math"

	"github.com/golang/geo/r3"
)

// AABB is an axis-aligned bounding box described by its minimum and maximum corners.
type AABB struct {
	Min r3.Vector
	Max r3.Vector
}

// NewAABB returns the box spanned by the two corner points. The corners may be given in any order.
func NewAABB(a, b r3.Vector) AABB {
	return AABB{
		Min: r3.Vector{X: math.Min(a.X, b.X), Y: math.Min(a.Y, b.Y), Z: math.Min(a.Z, b.Z)},
		Max: r3.Vector{X: math.Max(a.X, b.X), Y: math.Max(a.Y, b.Y), Z: math.Max(a.Z, b.Z)},
	}
}

// NewAABBFromCenter returns the box centered at center with the given full dimensions.
func NewAABBFromCenter(center, dims r3.Vector) AABB {
	half := dims.Abs().Mul(0.5)
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// Center returns the midpoint of the box.
func (bb AABB) Center() r3.Vector {
	return bb.Min.Add(bb.Max).Mul(0.5)
}

// Dims returns the extent of the box along each axis.
func (bb AABB) Dims() r3.Vector {
	return bb.Max.Sub(bb.Min)
}

// Volume returns the volume enclosed by the box.
func (bb AABB) Volume() float64 {
	d := bb.Dims()
	return d.X * d.Y * d.Z
}

// Contains reports whether other lies entirely inside bb. Touching faces count as inside.
func (bb AABB) Contains(other AABB) bool {
	return other.Min.X >= bb.Min.X && other.Min.Y >= bb.Min.Y && other.Min.Z >= bb.Min.Z &&
		other.Max.X <= bb.Max.X && other.Max.Y <= bb.Max.Y && other.Max.Z <= bb.Max.Z
}

// ContainsPoint reports whether pt lies inside or on the boundary of bb.
func (bb AABB) ContainsPoint(pt r3.Vector) bool {
	return pt.X >= bb.Min.X && pt.Y >= bb.Min.Y && pt.Z >= bb.Min.Z &&
		pt.X <= bb.Max.X && pt.Y <= bb.Max.Y && pt.Z <= bb.Max.Z
}

// Translate returns the box moved by offset.
func (bb AABB) Translate(offset r3.Vector) AABB {
	return AABB{Min: bb.Min.Add(offset), Max: bb.Max.Add(offset)}
}

// AlmostEqual compares two boxes corner by corner within epsilon.
func (bb AABB) AlmostEqual(other AABB, epsilon float64) bool {
	return R3VectorAlmostEqual(bb.Min, other.Min, epsilon) && R3VectorAlmostEqual(bb.Max, other.Max, epsilon)
}

// String returns a human readable string that represents the box.
func (bb AABB) String() string {
	return fmt.Sprintf("AABB | Min: X:%.2f, Y:%.2f, Z:%.2f | Max: X:%.2f, Y:%.2f, Z:%.2f",
		bb.Min.X, bb.Min.Y, bb.Min.Z, bb.Max.X, bb.Max.Y, bb.Max.Z)
}
