package octree

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"go.viam.com/octree/spatialmath"
)

// nodeID addresses a node slot in the tree's arena. Slots are stable for the lifetime of the node and are
// recycled through a free list once the node is collapsed away.
type nodeID int32

const (
	rootID      nodeID = 0
	noNode      nodeID = -1
	numChildren        = 8
)

// Octant bits. A child index is the sum of the bits for the sides of the center it lies on.
const (
	octantHighX = 1 << iota
	octantHighY
	octantHighZ
)

// node is a volume of the tree. A branch has all eight children allocated, a leaf has none. Items that do not
// resolve to a single child stay in the node's own leafs, which is why branches may carry leafs too.
type node[K comparable] struct {
	isBranch bool
	bb       spatialmath.AABB
	center   r3.Vector
	leafs    []Item[K]
	children [numChildren]nodeID
	parent   nodeID
}

func (n *node[K]) reset(bb spatialmath.AABB, parent nodeID) {
	clear(n.leafs)
	n.leafs = n.leafs[:0]
	n.isBranch = false
	n.bb = bb
	n.center = bb.Center()
	n.parent = parent
	for i := range n.children {
		n.children[i] = noNode
	}
}

func (n *node[K]) isEmpty() bool {
	return !n.isBranch && len(n.leafs) == 0
}

func (n *node[K]) leafIndex(id K) int {
	for i := range n.leafs {
		if n.leafs[i].ID == id {
			return i
		}
	}
	return -1
}

// swapRemove removes the leaf at i by moving the last leaf into its place.
func (n *node[K]) swapRemove(i int) Item[K] {
	item := n.leafs[i]
	last := len(n.leafs) - 1
	n.leafs[i] = n.leafs[last]
	n.leafs[last] = Item[K]{}
	n.leafs = n.leafs[:last]
	return item
}

func (n *node[K]) takeLeaf(id K) (Item[K], bool) {
	i := n.leafIndex(id)
	if i < 0 {
		return Item[K]{}, false
	}
	return n.swapRemove(i), true
}

// selectOctant returns the child octant that fully contains bb. It fails when bb is not inside this node or
// when bb crosses any of the three splitting planes; such items stay pinned to this node. A box that is flat
// exactly on a plane is treated as crossing it.
func (n *node[K]) selectOctant(bb spatialmath.AABB) (int, bool) {
	if !n.bb.Contains(bb) {
		return 0, false
	}

	axes := [3]struct {
		lo, hi, center float64
		bit            int
	}{
		{bb.Min.Z, bb.Max.Z, n.center.Z, octantHighZ},
		{bb.Min.Y, bb.Max.Y, n.center.Y, octantHighY},
		{bb.Min.X, bb.Max.X, n.center.X, octantHighX},
	}

	octant := 0
	for _, axis := range axes {
		switch {
		case axis.lo == axis.center && axis.hi == axis.center:
			return 0, false
		case axis.hi <= axis.center:
		case axis.lo >= axis.center:
			octant |= axis.bit
		default:
			return 0, false
		}
	}
	return octant, true
}

// octantBox returns the part of bb on the given sides of center.
func octantBox(bb spatialmath.AABB, center r3.Vector, octant int) spatialmath.AABB {
	lo, hi := bb.Min, center
	if octant&octantHighX != 0 {
		lo.X, hi.X = center.X, bb.Max.X
	}
	if octant&octantHighY != 0 {
		lo.Y, hi.Y = center.Y, bb.Max.Y
	}
	if octant&octantHighZ != 0 {
		lo.Z, hi.Z = center.Z, bb.Max.Z
	}
	return spatialmath.AABB{Min: lo, Max: hi}
}

// alloc hands out a node slot, reusing a collapsed one when available.
func (t *Octree[K]) alloc(bb spatialmath.AABB, parent nodeID) nodeID {
	if l := len(t.free); l > 0 {
		id := t.free[l-1]
		t.free = t.free[:l-1]
		t.nodes[id].reset(bb, parent)
		return id
	}
	n := &node[K]{}
	n.reset(bb, parent)
	t.nodes = append(t.nodes, n)
	return nodeID(len(t.nodes) - 1)
}

func (t *Octree[K]) release(id nodeID) {
	t.nodes[id].reset(spatialmath.AABB{}, noNode)
	t.free = append(t.free, id)
}

// canContain reports whether bb may live in the node. The root accepts everything, including boxes that stick
// out of the world.
func (t *Octree[K]) canContain(id nodeID, bb spatialmath.AABB) bool {
	return id == rootID || t.nodes[id].bb.Contains(bb)
}

// insert places item at or below the node at. It does not check for an existing entry with the same id;
// callers remove or relocate first.
func (t *Octree[K]) insert(at nodeID, item Item[K]) {
	for {
		n := t.nodes[at]
		if len(n.leafs) >= t.branchSize {
			if octant, ok := n.selectOctant(item.BB); ok {
				if !n.isBranch {
					t.subdivide(at)
				}
				at = n.children[octant]
				continue
			}
		}
		n.leafs = append(n.leafs, item)
		t.index[item.ID] = at
		return
	}
}

// update changes the box of an item known to live in the node at, relocating it when needed.
func (t *Octree[K]) update(at nodeID, item Item[K]) {
	n := t.nodes[at]

	if !t.canContain(at, item.BB) {
		if _, ok := n.takeLeaf(item.ID); !ok {
			t.desync(at, item.ID)
		}
		t.insert(t.fittingAncestor(at, item.BB), item)
		if n.isEmpty() {
			t.collapseParent(at)
		}
		return
	}

	if n.isBranch || len(n.leafs) >= t.branchSize {
		if octant, ok := n.selectOctant(item.BB); ok {
			// the node is about to receive the item in one of its children, so it must not collapse here
			if _, ok := n.takeLeaf(item.ID); !ok {
				t.desync(at, item.ID)
			}
			if !n.isBranch {
				t.subdivide(at)
			}
			t.insert(n.children[octant], item)
			return
		}
	}

	i := n.leafIndex(item.ID)
	if i < 0 {
		t.desync(at, item.ID)
	}
	n.leafs[i].BB = item.BB
}

// remove drops the item from the node's own leafs. The index entry is left for the caller to delete.
func (t *Octree[K]) remove(at nodeID, id K) (Item[K], bool) {
	n := t.nodes[at]
	item, ok := n.takeLeaf(id)
	if ok && n.isEmpty() {
		t.collapseParent(at)
	}
	return item, ok
}

// fittingAncestor walks up from the node at until it finds a node that can hold bb. The root always can.
func (t *Octree[K]) fittingAncestor(at nodeID, bb spatialmath.AABB) nodeID {
	id := t.nodes[at].parent
	for !t.canContain(id, bb) {
		id = t.nodes[id].parent
	}
	return id
}

// subdivide turns a leaf node into a branch with eight children partitioning its box at the center, then
// pushes down every leaf that fits a single child.
func (t *Octree[K]) subdivide(at nodeID) {
	n := t.nodes[at]
	for octant := range n.children {
		n.children[octant] = t.alloc(octantBox(n.bb, n.center, octant), at)
	}
	n.isBranch = true

	for i := 0; i < len(n.leafs); {
		octant, ok := n.selectOctant(n.leafs[i].BB)
		if !ok {
			i++
			continue
		}
		t.insert(n.children[octant], n.swapRemove(i))
	}
	t.logger.Debugw("subdivided node", "node", at, "box", n.bb, "pinned", len(n.leafs))
}

func (t *Octree[K]) collapseParent(at nodeID) {
	if at == rootID {
		return
	}
	t.collapse(t.nodes[at].parent)
}

// collapse turns a branch whose children are all empty back into a leaf and repeats the check upwards for as
// long as the collapsed node has no leafs of its own.
func (t *Octree[K]) collapse(at nodeID) {
	for {
		n := t.nodes[at]
		if !n.isBranch {
			return
		}
		for _, child := range n.children {
			if !t.nodes[child].isEmpty() {
				return
			}
		}
		for i, child := range n.children {
			t.release(child)
			n.children[i] = noNode
		}
		n.isBranch = false
		t.logger.Debugw("collapsed node", "node", at, "box", n.bb)

		if len(n.leafs) > 0 || at == rootID {
			return
		}
		at = n.parent
	}
}

func (t *Octree[K]) desync(at nodeID, id K) {
	panic(errors.Errorf("octree index desynchronized: node %d does not hold item %v", at, id))
}
