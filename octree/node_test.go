package octree

import (
	"testing"

	"go.viam.com/test"
)

func TestSelectOctant(t *testing.T) {
	n := &node[int]{}
	n.reset(cube(0, 10), noNode)

	cases := []struct {
		name   string
		bb     [6]float64
		octant int
		ok     bool
	}{
		{"low corner", [6]float64{1, 1, 1, 2, 2, 2}, 0, true},
		{"high corner", [6]float64{6, 6, 6, 7, 7, 7}, 7, true},
		{"high x", [6]float64{6, 1, 1, 7, 2, 2}, octantHighX, true},
		{"high y", [6]float64{1, 6, 1, 2, 7, 2}, octantHighY, true},
		{"high z", [6]float64{1, 1, 6, 2, 2, 7}, octantHighZ, true},
		{"high y and z", [6]float64{1, 6, 6, 2, 7, 7}, octantHighY | octantHighZ, true},
		{"max touching plane is low", [6]float64{2, 2, 2, 5, 5, 5}, 0, true},
		{"min touching plane is high", [6]float64{5, 5, 5, 8, 8, 8}, 7, true},
		{"flat on plane", [6]float64{5, 1, 1, 5, 2, 2}, 0, false},
		{"point at center", [6]float64{5, 5, 5, 5, 5, 5}, 0, false},
		{"straddles x", [6]float64{4, 1, 1, 6, 2, 2}, 0, false},
		{"straddles z", [6]float64{1, 1, 4, 2, 2, 6}, 0, false},
		{"outside", [6]float64{-2, -2, -2, -1, -1, -1}, 0, false},
		{"sticks out", [6]float64{8, 8, 8, 11, 9, 9}, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			octant, ok := n.selectOctant(box(tc.bb[0], tc.bb[1], tc.bb[2], tc.bb[3], tc.bb[4], tc.bb[5]))
			test.That(t, ok, test.ShouldEqual, tc.ok)
			if tc.ok {
				test.That(t, octant, test.ShouldEqual, tc.octant)
			}
		})
	}
}

func TestOctantBox(t *testing.T) {
	world := cube(0, 10)
	center := world.Center()

	test.That(t, octantBox(world, center, 0), test.ShouldResemble, cube(0, 5))
	test.That(t, octantBox(world, center, 7), test.ShouldResemble, cube(5, 10))
	test.That(t, octantBox(world, center, octantHighX), test.ShouldResemble, box(5, 0, 0, 10, 5, 5))
	test.That(t, octantBox(world, center, octantHighY), test.ShouldResemble, box(0, 5, 0, 5, 10, 5))
	test.That(t, octantBox(world, center, octantHighZ), test.ShouldResemble, box(0, 0, 5, 5, 5, 10))

	n := &node[int]{}
	n.reset(world, noNode)
	var volume float64
	for octant := 0; octant < numChildren; octant++ {
		child := octantBox(world, center, octant)
		volume += child.Volume()
		// every octant box resolves back to its own index
		inner := box(child.Min.X+1, child.Min.Y+1, child.Min.Z+1, child.Max.X-1, child.Max.Y-1, child.Max.Z-1)
		got, ok := n.selectOctant(inner)
		test.That(t, ok, test.ShouldBeTrue)
		test.That(t, got, test.ShouldEqual, octant)
	}
	test.That(t, volume, test.ShouldEqual, world.Volume())
}

func TestNodeLeafs(t *testing.T) {
	n := &node[string]{}
	n.reset(cube(0, 10), noNode)
	test.That(t, n.isEmpty(), test.ShouldBeTrue)

	n.leafs = append(n.leafs, Item[string]{ID: "a"}, Item[string]{ID: "b"}, Item[string]{ID: "c"})
	test.That(t, n.isEmpty(), test.ShouldBeFalse)
	test.That(t, n.leafIndex("c"), test.ShouldEqual, 2)
	test.That(t, n.leafIndex("d"), test.ShouldEqual, -1)

	item, ok := n.takeLeaf("a")
	test.That(t, ok, test.ShouldBeTrue)
	test.That(t, item.ID, test.ShouldEqual, "a")
	test.That(t, n.leafs, test.ShouldResemble, []Item[string]{{ID: "c"}, {ID: "b"}})

	_, ok = n.takeLeaf("a")
	test.That(t, ok, test.ShouldBeFalse)

	n.reset(cube(0, 1), 3)
	test.That(t, n.leafs, test.ShouldBeEmpty)
	test.That(t, n.parent, test.ShouldEqual, nodeID(3))
	test.That(t, n.center, test.ShouldResemble, cube(0, 1).Center())
	for _, child := range n.children {
		test.That(t, child, test.ShouldEqual, noNode)
	}
}
