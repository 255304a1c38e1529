package octree

import (
	"testing"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/samber/lo"
	"go.viam.com/test"

	"go.viam.com/octree/spatialmath"
)

func box(minX, minY, minZ, maxX, maxY, maxZ float64) spatialmath.AABB {
	return spatialmath.NewAABB(r3.Vector{X: minX, Y: minY, Z: minZ}, r3.Vector{X: maxX, Y: maxY, Z: maxZ})
}

func cube(lo, hi float64) spatialmath.AABB {
	return box(lo, lo, lo, hi, hi, hi)
}

func ray(t *testing.T, origin, direction r3.Vector) spatialmath.Ray {
	t.Helper()
	r, err := spatialmath.NewRay(origin, direction)
	test.That(t, err, test.ShouldBeNil)
	return r
}

// newTestTree returns a tree over the 0..10 world cube.
func newTestTree(t *testing.T, branchSize int) *Octree[int] {
	t.Helper()
	tree, err := NewWithBranchSize[int](branchSize, cube(0, 10), golog.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	return tree
}

func collectItems[K comparable](tree *Octree[K]) []Item[K] {
	var items []Item[K]
	for item := range tree.All().Seq() {
		items = append(items, item)
	}
	return items
}

func collectIDs[K comparable](tree *Octree[K]) []K {
	return lo.Map(collectItems(tree), func(item Item[K], _ int) K { return item.ID })
}

func rayHitIDs[K comparable](tree *Octree[K], r spatialmath.Ray) []K {
	var ids []K
	it := tree.RayIntersections(r)
	for {
		hit, ok := it.Next()
		if !ok {
			return ids
		}
		ids = append(ids, hit.Item.ID)
	}
}

// validateOctree recursively checks the structure of the tree against the identity index.
func validateOctree[K comparable](t *testing.T, tree *Octree[K]) {
	t.Helper()

	seen := make(map[K]bool)
	var walk func(id nodeID)
	walk = func(id nodeID) {
		n := tree.nodes[id]
		for _, item := range n.leafs {
			test.That(t, seen[item.ID], test.ShouldBeFalse)
			seen[item.ID] = true
			test.That(t, tree.index[item.ID], test.ShouldEqual, id)
			if id != rootID {
				test.That(t, n.bb.Contains(item.BB), test.ShouldBeTrue)
			}
		}

		if !n.isBranch {
			for _, child := range n.children {
				test.That(t, child, test.ShouldEqual, noNode)
			}
			return
		}

		anyNonEmpty := false
		for octant, childID := range n.children {
			test.That(t, childID, test.ShouldNotEqual, noNode)
			child := tree.nodes[childID]
			test.That(t, child.parent, test.ShouldEqual, id)
			test.That(t, child.bb, test.ShouldResemble, octantBox(n.bb, n.center, octant))
			test.That(t, n.bb.Contains(child.bb), test.ShouldBeTrue)
			if !child.isEmpty() {
				anyNonEmpty = true
			}
			walk(childID)
		}
		test.That(t, anyNonEmpty, test.ShouldBeTrue)
	}
	walk(rootID)

	test.That(t, len(seen), test.ShouldEqual, len(tree.index))
	stats := tree.Stats()
	test.That(t, stats.Items, test.ShouldEqual, tree.Len())
	test.That(t, stats.Allocated, test.ShouldEqual, stats.Nodes)
}
