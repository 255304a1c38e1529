package octree

import (
	"fmt"

	"go.viam.com/octree/spatialmath"
)

// Item is a tree entry: a unique identifier paired with the bounding box it occupies.
type Item[K comparable] struct {
	ID K
	BB spatialmath.AABB
}

// Equal reports whether two items share an identifier. Boxes are not compared.
func (it Item[K]) Equal(other Item[K]) bool {
	return it.ID == other.ID
}

// String returns a human readable string that represents the item.
func (it Item[K]) String() string {
	return fmt.Sprintf("Item %v | %v", it.ID, it.BB)
}
