package topofile

import (
	"math"
	"reflect"
	"testing"

	"github.com/nettopo/topokit/pkg/topo"
)

func TestIndexEndpoints(t *testing.T) {
	links := []topo.Link{
		{ID: "l1", Source: "hub", Target: "a"},
		{ID: "l2", Source: "hub", Target: "b"},
		{ID: "l3", Source: "a", Target: "hub"},
		{ID: "l4", Source: "hub", Target: "a"},
	}

	ord := indexEndpoints(links)

	// Source ordinals assigned in link order, per node.
	if ord.sourceIndex["l1"] != 0 || ord.sourceIndex["l2"] != 1 || ord.sourceIndex["l4"] != 2 {
		t.Errorf("hub source ordinals wrong: %d, %d, %d",
			ord.sourceIndex["l1"], ord.sourceIndex["l2"], ord.sourceIndex["l4"])
	}
	if ord.sourceCount["hub"] != 3 {
		t.Errorf("hub source count expected 3, got %d", ord.sourceCount["hub"])
	}

	// Roles are counted independently.
	if ord.targetIndex["l3"] != 0 || ord.targetCount["hub"] != 1 {
		t.Errorf("hub target role wrong: index %d, count %d",
			ord.targetIndex["l3"], ord.targetCount["hub"])
	}

	// Node attached to nothing in a role has no count entry.
	if _, ok := ord.sourceCount["b"]; ok {
		t.Error("Node b is never a source, should have no count entry")
	}
}

func TestGenerateCandidates(t *testing.T) {
	req := labelRequest{
		text:  "eth0",
		from:  Point{100, 100},
		to:    Point{300, 100},
		index: 0,
		count: 1,
	}

	candidates := generateCandidates(req)

	// 6 positions along the line x 12 perpendicular offsets.
	if len(candidates) != 72 {
		t.Fatalf("Expected 72 candidates, got %d", len(candidates))
	}

	for i, c := range candidates {
		if c.t < 0.12 || c.t > 0.88 {
			t.Errorf("Candidate %d: t=%.3f outside [0.12, 0.88]", i, c.t)
		}
	}

	// First candidate sits at the preferred fan slot on the link line.
	first := candidates[0]
	if first.offset != 0 {
		t.Errorf("First candidate offset expected 0, got %.1f", first.offset)
	}
	if first.y != 100 {
		t.Errorf("First candidate should lie on the horizontal link line, y=%.1f", first.y)
	}
	if first.x <= 100 || first.x >= 300 {
		t.Errorf("First candidate x=%.1f should lie between the nodes", first.x)
	}
}

func TestGenerateCandidatesDegenerate(t *testing.T) {
	req := labelRequest{
		text: "eth0",
		from: Point{100, 100},
		to:   Point{100.005, 100},
	}

	if candidates := generateCandidates(req); candidates != nil {
		t.Errorf("Coincident endpoints should yield no candidates, got %d", len(candidates))
	}
}

func simplePair() ([]topo.Node, []topo.Link) {
	nodes := []topo.Node{
		{ID: "a", Kind: topo.KindRouter, X: 100, Y: 100},
		{ID: "b", Kind: topo.KindRouter, X: 300, Y: 100},
	}
	links := []topo.Link{
		{ID: "l1", Source: "a", Target: "b", SourceInterface: "eth0", TargetInterface: "eth1"},
	}
	return nodes, links
}

func TestPlacementDeterminism(t *testing.T) {
	nodes := []topo.Node{
		{ID: "a", Kind: topo.KindRouter, X: 500, Y: 500},
		{ID: "b", Kind: topo.KindSwitch, X: 1500, Y: 500},
		{ID: "c", Kind: topo.KindHost, X: 1000, Y: 1300},
		{ID: "net", Kind: topo.KindExternal, X: 500, Y: 1300},
	}
	links := []topo.Link{
		{ID: "l1", Source: "a", Target: "b", SourceInterface: "eth0", TargetInterface: "eth0"},
		{ID: "l2", Source: "b", Target: "c", SourceInterface: "eth1", TargetInterface: "eth0"},
		{ID: "l3", Source: "c", Target: "a", SourceInterface: "eth1", TargetInterface: "eth1"},
		{ID: "l4", Source: "a", Target: "net", SourceInterface: "eth2"},
	}

	first := ComputeLinkLabelPlacements(nodes, links)
	second := ComputeLinkLabelPlacements(nodes, links)

	if !reflect.DeepEqual(first, second) {
		t.Error("Repeated calls on identical input produced different placements")
	}
}

func TestPlacementProximity(t *testing.T) {
	nodes, links := simplePair()

	placements := ComputeLinkLabelPlacements(nodes, links)

	p, ok := placements["l1"]
	if !ok {
		t.Fatal("No placement for l1")
	}
	if p.Source == nil || p.Target == nil {
		t.Fatal("Both ends are labelled, both should be placed")
	}

	// Source label sits between the nodes, near the link line.
	if p.Source.X <= 100 {
		t.Errorf("Source label x=%.1f should be right of node a (100)", p.Source.X)
	}
	if p.Target.X >= 300 {
		t.Errorf("Target label x=%.1f should be left of node b (300)", p.Target.X)
	}
	if math.Abs(p.Source.Y-100) > 35 {
		t.Errorf("Source label y=%.1f strayed more than 35 from the link line", p.Source.Y)
	}
	if math.Abs(p.Target.Y-100) > 35 {
		t.Errorf("Target label y=%.1f strayed more than 35 from the link line", p.Target.Y)
	}
}

func TestPlacementFanOut(t *testing.T) {
	// One hub with four radiating links, each labelled at the hub end.
	nodes := []topo.Node{
		{ID: "hub", Kind: topo.KindRouter, X: 1000, Y: 1000},
		{ID: "n1", Kind: topo.KindRouter, X: 1000, Y: 400},
		{ID: "n2", Kind: topo.KindRouter, X: 1600, Y: 1000},
		{ID: "n3", Kind: topo.KindRouter, X: 1000, Y: 1600},
		{ID: "n4", Kind: topo.KindRouter, X: 400, Y: 1000},
	}
	links := []topo.Link{
		{ID: "l1", Source: "hub", Target: "n1", SourceInterface: "eth0"},
		{ID: "l2", Source: "hub", Target: "n2", SourceInterface: "eth1"},
		{ID: "l3", Source: "hub", Target: "n3", SourceInterface: "eth2"},
		{ID: "l4", Source: "hub", Target: "n4", SourceInterface: "eth3"},
	}

	placements := ComputeLinkLabelPlacements(nodes, links)

	var rects []Rect
	for _, l := range links {
		p, ok := placements[l.ID]
		if !ok || p.Source == nil {
			t.Fatalf("No source placement for %s", l.ID)
		}
		rects = append(rects, EstimateLabelRect(p.Source.X, p.Source.Y, l.SourceInterface))
	}

	for i := 0; i < len(rects); i++ {
		for j := i + 1; j < len(rects); j++ {
			if area := OverlapArea(rects[i], rects[j]); area > 0 {
				t.Errorf("Labels %d and %d overlap (area %.1f)", i, j, area)
			}
		}
	}
}

func TestPlacementAvoidsNodes(t *testing.T) {
	// The direct path from a to b passes through the obstacle's
	// footprint right where the label would prefer to sit.
	obstacle := topo.Node{ID: "mid", Kind: topo.KindRouter, X: 180, Y: 100}
	nodes := []topo.Node{
		{ID: "a", Kind: topo.KindRouter, X: 100, Y: 100},
		{ID: "b", Kind: topo.KindRouter, X: 500, Y: 100},
		obstacle,
	}
	links := []topo.Link{
		{ID: "l1", Source: "a", Target: "b", SourceInterface: "GigabitEthernet0/0/0"},
	}

	placements := ComputeLinkLabelPlacements(nodes, links)

	p, ok := placements["l1"]
	if !ok || p.Source == nil {
		t.Fatal("No source placement for l1")
	}

	labelRect := EstimateLabelRect(p.Source.X, p.Source.Y, "GigabitEthernet0/0/0")
	if area := OverlapArea(labelRect, NodeRect(obstacle)); area > 0 {
		t.Errorf("Label at (%.1f, %.1f) overlaps the obstacle node (area %.1f)",
			p.Source.X, p.Source.Y, area)
	}
}

func TestPlacementEmptyTextOmitted(t *testing.T) {
	nodes := []topo.Node{
		{ID: "a", Kind: topo.KindRouter, X: 100, Y: 100},
		{ID: "b", Kind: topo.KindRouter, X: 300, Y: 100},
	}
	links := []topo.Link{
		{ID: "unlabelled", Source: "a", Target: "b"},
		{ID: "labelled", Source: "a", Target: "b", SourceInterface: "eth0"},
	}

	placements := ComputeLinkLabelPlacements(nodes, links)

	if _, ok := placements["unlabelled"]; ok {
		t.Error("Link without interface names should have no entry")
	}

	p, ok := placements["labelled"]
	if !ok || p.Source == nil {
		t.Error("Labelled link should have a source placement")
	}
	if ok && p.Target != nil {
		t.Error("Unlabelled target end should have no placement")
	}
}

func TestPlacementDanglingLink(t *testing.T) {
	nodes := []topo.Node{
		{ID: "a", Kind: topo.KindRouter, X: 100, Y: 100},
	}
	links := []topo.Link{
		{ID: "l1", Source: "a", Target: "ghost", SourceInterface: "eth0"},
	}

	placements := ComputeLinkLabelPlacements(nodes, links)

	if len(placements) != 0 {
		t.Errorf("Dangling link should produce no placements, got %d", len(placements))
	}
}

func TestPlacementDegenerateGeometry(t *testing.T) {
	// Two nodes at the same position; their link gets no label, but
	// the rest of the topology still places normally.
	nodes := []topo.Node{
		{ID: "a", Kind: topo.KindRouter, X: 200, Y: 200},
		{ID: "b", Kind: topo.KindRouter, X: 200, Y: 200},
		{ID: "c", Kind: topo.KindRouter, X: 600, Y: 200},
	}
	links := []topo.Link{
		{ID: "stacked", Source: "a", Target: "b", SourceInterface: "eth0", TargetInterface: "eth1"},
		{ID: "normal", Source: "a", Target: "c", SourceInterface: "eth2"},
	}

	placements := ComputeLinkLabelPlacements(nodes, links)

	if _, ok := placements["stacked"]; ok {
		t.Error("Zero-length link should place no labels")
	}
	if p, ok := placements["normal"]; !ok || p.Source == nil {
		t.Error("Normal link should still be placed")
	}
}

func TestPlacementTriangle(t *testing.T) {
	nodes := []topo.Node{
		{ID: "a", Kind: topo.KindRouter, X: 500, Y: 500},
		{ID: "b", Kind: topo.KindRouter, X: 1500, Y: 500},
		{ID: "c", Kind: topo.KindRouter, X: 1000, Y: 1300},
	}
	links := []topo.Link{
		{ID: "ab", Source: "a", Target: "b", SourceInterface: "eth0", TargetInterface: "eth0"},
		{ID: "bc", Source: "b", Target: "c", SourceInterface: "eth1", TargetInterface: "eth0"},
		{ID: "ca", Source: "c", Target: "a", SourceInterface: "eth1", TargetInterface: "eth1"},
	}

	placements := ComputeLinkLabelPlacements(nodes, links)

	if len(placements) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(placements))
	}

	for id, p := range placements {
		if p.Source == nil || p.Target == nil {
			t.Errorf("Link %s: both ends labelled, both should be placed", id)
			continue
		}
		for _, pos := range []*Point{p.Source, p.Target} {
			if pos.X < 12 || pos.X > 4988 || pos.Y < 12 || pos.Y > 4988 {
				t.Errorf("Link %s: position (%.1f, %.1f) outside canvas bounds", id, pos.X, pos.Y)
			}
		}
	}
}

func TestPlacementClampsToCanvas(t *testing.T) {
	// Nodes jammed into the top-left corner force clamping.
	nodes := []topo.Node{
		{ID: "a", Kind: topo.KindRouter, X: 0, Y: 0},
		{ID: "b", Kind: topo.KindRouter, X: 0, Y: 200},
	}
	links := []topo.Link{
		{ID: "l1", Source: "a", Target: "b", SourceInterface: "eth0", TargetInterface: "eth1"},
	}

	placements := ComputeLinkLabelPlacements(nodes, links)

	p, ok := placements["l1"]
	if !ok {
		t.Fatal("No placement for l1")
	}
	for _, pos := range []*Point{p.Source, p.Target} {
		if pos == nil {
			t.Fatal("Both ends labelled, both should be placed")
		}
		if pos.X < 12 || pos.X > 4988 || pos.Y < 12 || pos.Y > 4988 {
			t.Errorf("Position (%.1f, %.1f) outside [12, 4988]", pos.X, pos.Y)
		}
	}
}

func TestPlacementDoesNotMutateInput(t *testing.T) {
	nodes, links := simplePair()
	nodesCopy := make([]topo.Node, len(nodes))
	copy(nodesCopy, nodes)
	linksCopy := make([]topo.Link, len(links))
	copy(linksCopy, links)

	ComputeLinkLabelPlacements(nodes, links)

	if !reflect.DeepEqual(nodes, nodesCopy) {
		t.Error("Nodes slice was mutated")
	}
	if !reflect.DeepEqual(links, linksCopy) {
		t.Error("Links slice was mutated")
	}
}
