// Package octree implements a mutable octree of axis-aligned bounding boxes keyed by unique identifiers.
//
// Items are inserted or moved with Update and dropped with Remove. Nodes subdivide once they hold the
// configured branch size of items and collapse back when all of their children empty out. Items that straddle a
// splitting plane stay in the smallest node that covers them, and items outside the world box are kept at the
// root. The tree is not safe for concurrent use and must not be mutated while an iterator is in use.
package octree

import (
	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"go.viam.com/octree/spatialmath"
)

// DefaultBranchSize is the number of items a node holds before it tries to subdivide.
const DefaultBranchSize = 16

// Octree is a hierarchical store of items sorted by location in subdivided 3D space. Nodes live in an arena
// addressed by stable ids, the root always occupies the first slot and an index maps every item id to the
// node that holds it.
type Octree[K comparable] struct {
	logger     golog.Logger
	branchSize int
	nodes      []*node[K]
	free       []nodeID
	index      map[K]nodeID
}

// New creates an empty tree spanning worldBox with the default branch size.
func New[K comparable](worldBox spatialmath.AABB, logger golog.Logger) (*Octree[K], error) {
	return NewWithBranchSize[K](DefaultBranchSize, worldBox, logger)
}

// NewWithBranchSize creates an empty tree spanning worldBox that subdivides nodes holding branchSize items.
func NewWithBranchSize[K comparable](branchSize int, worldBox spatialmath.AABB, logger golog.Logger) (*Octree[K], error) {
	if branchSize <= 0 {
		return nil, errors.Errorf("invalid branch size (%d) for octree", branchSize)
	}
	if dims := worldBox.Dims(); !(dims.X > 0 && dims.Y > 0 && dims.Z > 0) {
		return nil, errors.Errorf("invalid world box (%v) for octree, volume must be positive", worldBox)
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	t := &Octree[K]{
		logger:     logger,
		branchSize: branchSize,
		index:      make(map[K]nodeID),
	}
	t.alloc(worldBox, noNode)
	return t, nil
}

// NewFromConfig validates cfg and creates an empty tree from it.
func NewFromConfig[K comparable](cfg *Config, logger golog.Logger) (*Octree[K], error) {
	if err := cfg.Validate("octree"); err != nil {
		return nil, err
	}
	return NewWithBranchSize[K](cfg.branchSize(), cfg.WorldBox(), logger)
}

// Update inserts the item id with box bb, or moves it to bb if it is already in the tree.
//
// A box outside the world is still stored, but at the root where it never triggers subdivision and is
// visited by every query.
func (t *Octree[K]) Update(id K, bb spatialmath.AABB) {
	item := Item[K]{ID: id, BB: bb}
	if at, ok := t.index[id]; ok {
		t.update(at, item)
		return
	}
	t.insert(rootID, item)
}

// Remove deletes the item id from the tree and returns it. It returns false if the id is unknown.
func (t *Octree[K]) Remove(id K) (Item[K], bool) {
	at, ok := t.index[id]
	if !ok {
		return Item[K]{}, false
	}
	item, ok := t.remove(at, id)
	if !ok {
		t.desync(at, id)
	}
	delete(t.index, id)
	return item, true
}

// Get returns the item stored under id.
func (t *Octree[K]) Get(id K) (Item[K], bool) {
	at, ok := t.index[id]
	if !ok {
		return Item[K]{}, false
	}
	n := t.nodes[at]
	i := n.leafIndex(id)
	if i < 0 {
		t.desync(at, id)
	}
	return n.leafs[i], true
}

// Len returns the number of items in the tree.
func (t *Octree[K]) Len() int {
	return len(t.index)
}

// BranchSize returns the item count at which nodes try to subdivide.
func (t *Octree[K]) BranchSize() int {
	return t.branchSize
}

// WorldBox returns the volume covered by the root node.
func (t *Octree[K]) WorldBox() spatialmath.AABB {
	return t.nodes[rootID].bb
}

// All returns an iterator over every item in the tree, in depth-first pre-order.
func (t *Octree[K]) All() *AllIter[K] {
	return newAllIter(t)
}

// RayIntersections returns an iterator over the items hit by ray. The order is unspecified and can change
// wildly between tree modifications.
func (t *Octree[K]) RayIntersections(ray spatialmath.Ray) *RayIter[K] {
	return newRayIter(t, ray)
}

// DebugItems returns an iterator over all items and node volumes below the root. Useful for debugging.
func (t *Octree[K]) DebugItems() *DebugIter[K] {
	return newDebugIter(t)
}
