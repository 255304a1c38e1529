package scene

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"go.viam.com/octree/octree"
)

// String returns a table describing the summary.
func (s Summary) String() string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRows([]table.Row{
		{"Objects", s.Objects},
		{"Frames", s.Frames},
		{"Picks", s.Picks},
		{"Hits", s.Hits},
		{"Last frame", s.LastFrame},
		{"Elapsed", s.Elapsed},
		{"Nodes", s.Stats.Nodes},
		{"Branches", s.Stats.Branches},
		{"Max depth", s.Stats.MaxDepth},
		{"Overflow", s.Stats.Overflow},
		{"Allocated slots", s.Stats.Allocated},
	})
	return t.Render()
}

// DepthHistogram returns a table of how many nodes and items sit at each depth of the scene's index.
func (s *Scene) DepthHistogram() string {
	type row struct{ nodes, items int }
	rows := []row{{nodes: 1}}
	for rec := range s.tree.DebugItems().Seq() {
		for len(rows) < rec.Depth {
			rows = append(rows, row{})
		}
		if rec.Kind == octree.DebugNode {
			rows[rec.Depth-1].nodes++
		} else {
			rows[rec.Depth-1].items++
		}
	}

	t := table.NewWriter()
	t.AppendHeader(table.Row{"Depth", "Nodes", "Items"})
	for i, r := range rows {
		t.AppendRow(table.Row{fmt.Sprint(i + 1), r.nodes, r.items})
	}
	return t.Render()
}
