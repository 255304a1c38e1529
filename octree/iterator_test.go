package octree

import (
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestAllPreOrder(t *testing.T) {
	tree := newTestTree(t, 1)
	tree.Update(1, cube(4, 6)) // pinned at the root
	tree.Update(2, cube(6, 7))
	tree.Update(3, cube(1, 2))
	tree.Update(4, cube(0.5, 1))

	// root leafs first, then octants in index order, each subtree depth first
	test.That(t, collectIDs(tree), test.ShouldResemble, []int{1, 3, 4, 2})
	validateOctree(t, tree)
}

func TestAllIteratorIsSingleUse(t *testing.T) {
	tree := newTestTree(t, 2)
	for i := 0; i < 5; i++ {
		tree.Update(i, cube(float64(i), float64(i)+1))
	}

	it := tree.All()
	count := 0
	for range it.Seq() {
		count++
		if count == 2 {
			break
		}
	}
	for range it.Seq() {
		count++
	}
	test.That(t, count, test.ShouldEqual, 5)

	_, ok := it.Next()
	test.That(t, ok, test.ShouldBeFalse)
	test.That(t, len(collectItems(tree)), test.ShouldEqual, 5)
}

func TestRayIntersectionsSkipsEmptyAndMissedNodes(t *testing.T) {
	tree := newTestTree(t, 1)
	tree.Update(1, cube(1, 2))
	tree.Update(2, cube(6, 7))
	tree.Update(3, cube(8, 9))
	validateOctree(t, tree)

	r := ray(t, r3.Vector{X: -1, Y: 6.5, Z: 6.5}, r3.Vector{X: 1})
	var hits []RayIntersection[int]
	for hit := range tree.RayIntersections(r).Seq() {
		hits = append(hits, hit)
	}
	test.That(t, hits, test.ShouldHaveLength, 1)
	test.That(t, hits[0].Item.ID, test.ShouldEqual, 2)
	test.That(t, hits[0].Point, test.ShouldResemble, r3.Vector{X: 6, Y: 6.5, Z: 6.5})

	test.That(t, rayHitIDs(tree, ray(t, r3.Vector{X: 20, Y: 20, Z: 20}, r3.Vector{X: 1})), test.ShouldBeEmpty)
}

func TestRayIntersectionsVisitsOverflow(t *testing.T) {
	tree := newTestTree(t, 1)
	tree.Update(1, cube(20, 21))
	tree.Update(2, cube(1, 2))

	ids := rayHitIDs(tree, ray(t, r3.Vector{X: 20.5, Y: 20.5}, r3.Vector{Z: 1}))
	test.That(t, ids, test.ShouldResemble, []int{1})
}

func TestDebugItems(t *testing.T) {
	tree := newTestTree(t, 1)
	tree.Update(1, cube(2, 5))
	tree.Update(2, cube(1, 2))

	var records []DebugItem[int]
	for record := range tree.DebugItems().Seq() {
		records = append(records, record)
	}

	// eight children of the root and eight of its first child
	test.That(t, records, test.ShouldHaveLength, 2*numChildren+2)

	test.That(t, records[0].Kind, test.ShouldEqual, DebugNode)
	test.That(t, records[0].BB, test.ShouldResemble, cube(0, 5))
	test.That(t, records[0].Depth, test.ShouldEqual, 2)
	test.That(t, records[0].IsBranch, test.ShouldBeTrue)

	test.That(t, records[1].Kind, test.ShouldEqual, DebugLeaf)
	test.That(t, records[1].Item, test.ShouldResemble, Item[int]{ID: 1, BB: cube(2, 5)})
	test.That(t, records[1].Depth, test.ShouldEqual, 2)
	test.That(t, records[1].InBranch, test.ShouldBeTrue)

	test.That(t, records[2].Kind, test.ShouldEqual, DebugNode)
	test.That(t, records[2].BB, test.ShouldResemble, cube(0, 2.5))
	test.That(t, records[2].Depth, test.ShouldEqual, 3)
	test.That(t, records[2].IsBranch, test.ShouldBeFalse)

	test.That(t, records[3].Kind, test.ShouldEqual, DebugLeaf)
	test.That(t, records[3].Item.ID, test.ShouldEqual, 2)
	test.That(t, records[3].Depth, test.ShouldEqual, 3)
	test.That(t, records[3].InBranch, test.ShouldBeFalse)
	test.That(t, records[3].Goodness, test.ShouldAlmostEqual, 2./9.)

	last := records[len(records)-1]
	test.That(t, last.Kind, test.ShouldEqual, DebugNode)
	test.That(t, last.BB, test.ShouldResemble, cube(5, 10))
	test.That(t, last.Depth, test.ShouldEqual, 2)

	stats := tree.Stats()
	test.That(t, stats, test.ShouldResemble, Stats{
		Items:     2,
		Nodes:     1 + 2*numChildren,
		Branches:  2,
		MaxDepth:  3,
		Allocated: 1 + 2*numChildren,
	})
}

func TestDebugItemsAfterCollapse(t *testing.T) {
	tree := newTestTree(t, 1)
	tree.Update(1, cube(2, 5))
	tree.Update(2, cube(1, 2))
	tree.Update(3, cube(7, 8))
	tree.Remove(2)
	tree.Remove(1)
	tree.Remove(3)

	for record := range tree.DebugItems().Seq() {
		test.That(t, record.Kind, test.ShouldNotEqual, DebugNode)
	}
	test.That(t, tree.Stats().Nodes, test.ShouldEqual, 1)
}

func TestGoodness(t *testing.T) {
	test.That(t, goodness(0), test.ShouldEqual, 0.)
	test.That(t, goodness(1), test.ShouldEqual, 0.)
	test.That(t, goodness(4), test.ShouldAlmostEqual, 1./3.)
	test.That(t, goodness(10), test.ShouldEqual, 1.)
	test.That(t, goodness(20), test.ShouldEqual, 1.)
}
