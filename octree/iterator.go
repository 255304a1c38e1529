package octree

import (
	"iter"
	"math"

	"github.com/golang/geo/r3"

	"go.viam.com/octree/spatialmath"
)

// frame is one level of a depth-first walk: the node, the next leaf to yield and the next child to visit.
type frame struct {
	node  nodeID
	leaf  int
	child int
}

// walker is the traversal engine shared by all iterators. It walks the tree depth-first with an explicit
// stack, draining a node's leafs before descending into its children in octant order.
//
// visit decides whether a child is descended into, leaf maps a leaf item to an output and push maps a freshly
// entered child to an output. A false second result from leaf or push skips that step without yielding.
type walker[K comparable, T any] struct {
	nodes []*node[K]
	stack []frame
	visit func(n *node[K]) bool
	leaf  func(n *node[K], item Item[K], depth int) (T, bool)
	push  func(n *node[K], depth int) (T, bool)
}

func newWalker[K comparable, T any](t *Octree[K]) walker[K, T] {
	return walker[K, T]{
		nodes: t.nodes,
		stack: []frame{{node: rootID}},
	}
}

func (w *walker[K, T]) next() (T, bool) {
	for len(w.stack) > 0 {
		top := &w.stack[len(w.stack)-1]
		n := w.nodes[top.node]

		if top.leaf < len(n.leafs) {
			item := n.leafs[top.leaf]
			top.leaf++
			if out, ok := w.leaf(n, item, len(w.stack)); ok {
				return out, true
			}
			continue
		}

		if n.isBranch && top.child < numChildren {
			id := n.children[top.child]
			top.child++
			child := w.nodes[id]
			if w.visit != nil && !w.visit(child) {
				continue
			}
			w.stack = append(w.stack, frame{node: id})
			if w.push == nil {
				continue
			}
			if out, ok := w.push(child, len(w.stack)); ok {
				return out, true
			}
			continue
		}

		w.stack = w.stack[:len(w.stack)-1]
	}
	var zero T
	return zero, false
}

func (w *walker[K, T]) seq() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			out, ok := w.next()
			if !ok || !yield(out) {
				return
			}
		}
	}
}

func nonEmpty[K comparable](n *node[K]) bool {
	return !n.isEmpty()
}

// AllIter iterates over every item of a tree. It is single use.
type AllIter[K comparable] struct {
	w walker[K, Item[K]]
}

func newAllIter[K comparable](t *Octree[K]) *AllIter[K] {
	w := newWalker[K, Item[K]](t)
	w.visit = nonEmpty[K]
	w.leaf = func(_ *node[K], item Item[K], _ int) (Item[K], bool) {
		return item, true
	}
	return &AllIter[K]{w: w}
}

// Next returns the next item, or false when the walk is over.
func (it *AllIter[K]) Next() (Item[K], bool) {
	return it.w.next()
}

// Seq adapts the iterator for use with range. The sequence shares the iterator's position.
func (it *AllIter[K]) Seq() iter.Seq[Item[K]] {
	return it.w.seq()
}

// RayIntersection is an item hit by a ray along with the point where the ray meets the item's box.
type RayIntersection[K comparable] struct {
	Point r3.Vector
	Item  Item[K]
}

// RayIter iterates over the items of a tree hit by a ray. It is single use.
type RayIter[K comparable] struct {
	w walker[K, RayIntersection[K]]
}

func newRayIter[K comparable](t *Octree[K], ray spatialmath.Ray) *RayIter[K] {
	w := newWalker[K, RayIntersection[K]](t)
	w.visit = func(n *node[K]) bool {
		if n.isEmpty() {
			return false
		}
		_, hit := n.bb.RayIntersection(ray)
		return hit
	}
	w.leaf = func(_ *node[K], item Item[K], _ int) (RayIntersection[K], bool) {
		pt, hit := item.BB.RayIntersection(ray)
		return RayIntersection[K]{Point: pt, Item: item}, hit
	}
	return &RayIter[K]{w: w}
}

// Next returns the next hit, or false when the walk is over.
func (it *RayIter[K]) Next() (RayIntersection[K], bool) {
	return it.w.next()
}

// Seq adapts the iterator for use with range. The sequence shares the iterator's position.
func (it *RayIter[K]) Seq() iter.Seq[RayIntersection[K]] {
	return it.w.seq()
}

// DebugKind tells node records and item records of a debug walk apart.
type DebugKind uint8

const (
	// DebugNode is a record describing a node volume.
	DebugNode DebugKind = iota
	// DebugLeaf is a record describing a stored item.
	DebugLeaf
)

// DebugItem describes either a node volume or an item encountered by a debug walk. Depth counts the root as
// 1 and Goodness maps depths 1 through 10 onto 0 through 1.
type DebugItem[K comparable] struct {
	Kind     DebugKind
	BB       spatialmath.AABB
	Item     Item[K]
	Depth    int
	Goodness float64
	// IsBranch is set for node records of branch nodes.
	IsBranch bool
	// InBranch is set for item records stored in a branch node.
	InBranch bool
}

// DebugIter iterates over the node volumes and items of a tree, including empty nodes. It is single use.
type DebugIter[K comparable] struct {
	w walker[K, DebugItem[K]]
}

func newDebugIter[K comparable](t *Octree[K]) *DebugIter[K] {
	w := newWalker[K, DebugItem[K]](t)
	w.leaf = func(n *node[K], item Item[K], depth int) (DebugItem[K], bool) {
		return DebugItem[K]{
			Kind:     DebugLeaf,
			BB:       item.BB,
			Item:     item,
			Depth:    depth,
			Goodness: goodness(depth),
			InBranch: n.isBranch,
		}, true
	}
	w.push = func(n *node[K], depth int) (DebugItem[K], bool) {
		return DebugItem[K]{
			Kind:     DebugNode,
			BB:       n.bb,
			Depth:    depth,
			Goodness: goodness(depth),
			IsBranch: n.isBranch,
		}, true
	}
	return &DebugIter[K]{w: w}
}

// Next returns the next record, or false when the walk is over.
func (it *DebugIter[K]) Next() (DebugItem[K], bool) {
	return it.w.next()
}

// Seq adapts the iterator for use with range. The sequence shares the iterator's position.
func (it *DebugIter[K]) Seq() iter.Seq[DebugItem[K]] {
	return it.w.seq()
}

const (
	shallowDepth = 1.
	deepDepth    = 10.
)

// goodness scores how deep an entry sits, clamped to [0, 1]. It is only a visual aid.
func goodness(depth int) float64 {
	d := math.Min(math.Max(float64(depth), shallowDepth), deepDepth)
	return (d - shallowDepth) / (deepDepth - shallowDepth)
}
