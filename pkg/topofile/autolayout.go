package topofile

import (
	"math"
	"sort"

	"github.com/nettopo/topokit/pkg/topo"
)

// LayoutAlgorithm represents a node positioning strategy.
type LayoutAlgorithm int

const (
	LayoutGrid LayoutAlgorithm = iota
	LayoutCircular
	LayoutHierarchical
	LayoutForceDirected
)

// Layout spacing on the design canvas, in pixels.
const (
	layoutPadding     = 120.0
	layoutNodeSpacing = 180.0
)

// AutoLayout generates canvas positions for every node in the topology.
// Positions are deterministic for a given topology and stay within the
// canvas bounds.
func AutoLayout(t *topo.Topology, algorithm LayoutAlgorithm, width, height float64) map[string]Point {
	var positions map[string]Point

	switch algorithm {
	case LayoutCircular:
		positions = layoutCircular(t, width, height)
	case LayoutHierarchical:
		positions = layoutHierarchical(t, width, height)
	case LayoutForceDirected:
		positions = layoutForceDirected(t, width, height)
	default:
		positions = layoutGrid(t, width, height)
	}

	positions = resolveCollisions(positions)
	positions = clampPositions(positions, width, height)

	return positions
}

// SmartLayout chooses an algorithm based on topology structure.
func SmartLayout(t *topo.Topology, width, height float64) map[string]Point {
	n := len(t.Nodes)
	if n == 0 {
		return make(map[string]Point)
	}

	density := float64(len(t.Links)) / float64(n*n)

	if n <= 4 {
		return AutoLayout(t, LayoutHierarchical, width, height)
	}
	if n <= 12 {
		return AutoLayout(t, LayoutCircular, width, height)
	}
	if density > 0.2 {
		return AutoLayout(t, LayoutForceDirected, width, height)
	}
	return AutoLayout(t, LayoutHierarchical, width, height)
}

// ApplyLayout writes the positions back onto the topology's nodes.
// Nodes without an entry keep their current position.
func ApplyLayout(t *topo.Topology, positions map[string]Point) {
	for i, n := range t.Nodes {
		if p, ok := positions[n.ID]; ok {
			t.Nodes[i].X = p.X
			t.Nodes[i].Y = p.Y
		}
	}
}

// layoutGrid arranges nodes in a simple grid pattern.
func layoutGrid(t *topo.Topology, width, height float64) map[string]Point {
	positions := make(map[string]Point)
	n := len(t.Nodes)
	if n == 0 {
		return positions
	}

	cols := int(math.Ceil(math.Sqrt(float64(n))))
	if cols < 1 {
		cols = 1
	}

	cellW := (width - 2*layoutPadding) / float64(cols)
	if cellW < layoutNodeSpacing {
		cellW = layoutNodeSpacing
	}
	cellH := layoutNodeSpacing

	for i, node := range t.Nodes {
		col := i % cols
		row := i / cols
		positions[node.ID] = Point{
			X: layoutPadding + float64(col)*cellW + cellW/2,
			Y: layoutPadding + float64(row)*cellH,
		}
	}

	return positions
}

// layoutCircular arranges nodes in a circle, the best-connected node at
// the top and the rest ordered by reachability from it.
func layoutCircular(t *topo.Topology, width, height float64) map[string]Point {
	positions := make(map[string]Point)
	n := len(t.Nodes)
	if n == 0 {
		return positions
	}

	centerX := width / 2
	centerY := height / 2

	radiusX := (width - 2*layoutPadding) / 2
	radiusY := (height - 2*layoutPadding) / 2
	if radiusX < layoutNodeSpacing {
		radiusX = layoutNodeSpacing
	}
	if radiusY < layoutNodeSpacing {
		radiusY = layoutNodeSpacing
	}

	ordered := orderByConnectivity(t)

	for i, id := range ordered {
		// Start from the top, go clockwise.
		angle := -math.Pi/2 + 2*math.Pi*float64(i)/float64(n)
		positions[id] = Point{
			X: centerX + radiusX*math.Cos(angle),
			Y: centerY + radiusY*math.Sin(angle),
		}
	}

	return positions
}

// layoutHierarchical arranges nodes in columns by hop distance from the
// best-connected node. Unreachable nodes land in trailing columns.
func layoutHierarchical(t *topo.Topology, width, height float64) map[string]Point {
	positions := make(map[string]Point)
	n := len(t.Nodes)
	if n == 0 {
		return positions
	}

	adj := buildAdjacency(t)
	root := hubNode(t)

	layers := make(map[string]int)
	maxLayer := 0

	if root != "" {
		queue := []string{root}
		layers[root] = 0

		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]

			for _, next := range adj[current] {
				if _, visited := layers[next]; !visited {
					layers[next] = layers[current] + 1
					if layers[next] > maxLayer {
						maxLayer = layers[next]
					}
					queue = append(queue, next)
				}
			}
		}
	}

	for _, node := range t.Nodes {
		if _, ok := layers[node.ID]; !ok {
			maxLayer++
			layers[node.ID] = maxLayer
		}
	}

	layerGroups := make(map[int][]string)
	for id, layer := range layers {
		layerGroups[layer] = append(layerGroups[layer], id)
	}
	for layer := range layerGroups {
		sort.Strings(layerGroups[layer])
	}

	maxPerLayer := 0
	for _, ids := range layerGroups {
		if len(ids) > maxPerLayer {
			maxPerLayer = len(ids)
		}
	}

	numLayers := maxLayer + 1
	layerSpacing := (width - 2*layoutPadding) / float64(numLayers)
	if layerSpacing < layoutNodeSpacing {
		layerSpacing = layoutNodeSpacing
	}
	rowSpacing := (height - 2*layoutPadding) / float64(maxPerLayer)
	if rowSpacing < layoutNodeSpacing/2 {
		rowSpacing = layoutNodeSpacing / 2
	}

	for layer := 0; layer <= maxLayer; layer++ {
		ids := layerGroups[layer]

		startY := (height - float64(len(ids))*rowSpacing) / 2
		if startY < layoutPadding {
			startY = layoutPadding
		}

		for i, id := range ids {
			positions[id] = Point{
				X: layoutPadding + float64(layer)*layerSpacing,
				Y: startY + float64(i)*rowSpacing,
			}
		}
	}

	return positions
}

// layoutForceDirected runs a fixed number of spring iterations from a
// deterministic circular seed.
func layoutForceDirected(t *topo.Topology, width, height float64) map[string]Point {
	positions := make(map[string]Point)
	n := len(t.Nodes)
	if n == 0 {
		return positions
	}

	posX := make(map[string]float64)
	posY := make(map[string]float64)

	for i, node := range t.Nodes {
		angle := 2 * math.Pi * float64(i) / float64(n)
		posX[node.ID] = width/2 + width/3*math.Cos(angle)
		posY[node.ID] = height/2 + height/3*math.Sin(angle)
	}

	edges := make(map[[2]string]bool)
	for _, l := range t.Links {
		if l.Source != l.Target {
			edges[[2]string{l.Source, l.Target}] = true
		}
	}

	const iterations = 60
	const repulsion = 600000.0
	const attraction = 0.02
	const damping = 0.85

	for iter := 0; iter < iterations; iter++ {
		forceX := make(map[string]float64)
		forceY := make(map[string]float64)

		// Repulsion between all pairs.
		for i, a := range t.Nodes {
			for j, b := range t.Nodes {
				if i >= j {
					continue
				}

				dx := posX[a.ID] - posX[b.ID]
				dy := posY[a.ID] - posY[b.ID]
				dist := math.Hypot(dx, dy)
				if dist < 1 {
					dist = 1
				}

				force := repulsion / (dist * dist)
				fx := force * dx / dist
				fy := force * dy / dist

				forceX[a.ID] += fx
				forceY[a.ID] += fy
				forceX[b.ID] -= fx
				forceY[b.ID] -= fy
			}
		}

		// Attraction along links. Iterate the link list, not the edge
		// set, so force application order is deterministic.
		seen := make(map[[2]string]bool)
		for _, l := range t.Links {
			key := [2]string{l.Source, l.Target}
			if l.Source == l.Target || seen[key] || !edges[key] {
				continue
			}
			seen[key] = true

			dx := posX[l.Target] - posX[l.Source]
			dy := posY[l.Target] - posY[l.Source]
			dist := math.Hypot(dx, dy)
			if dist < 1 {
				continue
			}

			force := attraction * dist
			fx := force * dx / dist
			fy := force * dy / dist

			forceX[l.Source] += fx
			forceY[l.Source] += fy
			forceX[l.Target] -= fx
			forceY[l.Target] -= fy
		}

		for _, node := range t.Nodes {
			posX[node.ID] += forceX[node.ID] * damping
			posY[node.ID] += forceY[node.ID] * damping

			if posX[node.ID] < layoutPadding {
				posX[node.ID] = layoutPadding
			}
			if posX[node.ID] > width-layoutPadding {
				posX[node.ID] = width - layoutPadding
			}
			if posY[node.ID] < layoutPadding {
				posY[node.ID] = layoutPadding
			}
			if posY[node.ID] > height-layoutPadding {
				posY[node.ID] = height - layoutPadding
			}
		}
	}

	for _, node := range t.Nodes {
		positions[node.ID] = Point{
			X: math.Round(posX[node.ID]),
			Y: math.Round(posY[node.ID]),
		}
	}

	return positions
}

func buildAdjacency(t *topo.Topology) map[string][]string {
	adj := make(map[string][]string)
	for _, n := range t.Nodes {
		adj[n.ID] = []string{}
	}
	for _, l := range t.Links {
		adj[l.Source] = append(adj[l.Source], l.Target)
		adj[l.Target] = append(adj[l.Target], l.Source)
	}
	return adj
}

// hubNode returns the node with the highest degree, ties broken by
// node-list order. Empty topology returns "".
func hubNode(t *topo.Topology) string {
	best := ""
	bestDegree := -1
	for _, n := range t.Nodes {
		if d := t.Degree(n.ID); d > bestDegree {
			best = n.ID
			bestDegree = d
		}
	}
	return best
}

func orderByConnectivity(t *topo.Topology) []string {
	if len(t.Nodes) == 0 {
		return nil
	}

	result := make([]string, 0, len(t.Nodes))
	visited := make(map[string]bool)

	adj := buildAdjacency(t)

	// BFS from the hub.
	if root := hubNode(t); root != "" {
		queue := []string{root}
		visited[root] = true

		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			result = append(result, current)

			for _, next := range adj[current] {
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
	}

	for _, n := range t.Nodes {
		if !visited[n.ID] {
			result = append(result, n.ID)
		}
	}

	return result
}

// resolveCollisions nudges nodes apart when two land on top of each other.
func resolveCollisions(positions map[string]Point) map[string]Point {
	if len(positions) <= 1 {
		return positions
	}

	type nodePos struct {
		id   string
		x, y float64
	}
	nodes := make([]nodePos, 0, len(positions))
	for id, p := range positions {
		nodes = append(nodes, nodePos{id, p.X, p.Y})
	}

	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].y != nodes[j].y {
			return nodes[i].y < nodes[j].y
		}
		if nodes[i].x != nodes[j].x {
			return nodes[i].x < nodes[j].x
		}
		return nodes[i].id < nodes[j].id
	})

	result := make(map[string]Point)
	occupied := make(map[[2]int]bool)

	cell := func(x, y float64) [2]int {
		return [2]int{int(x / layoutNodeSpacing), int(y / layoutNodeSpacing)}
	}

	for _, n := range nodes {
		x, y := n.x, n.y

		attempts := 0
		for occupied[cell(x, y)] && attempts < 20 {
			if attempts%2 == 0 {
				x += layoutNodeSpacing
			} else {
				y += layoutNodeSpacing
				x = n.x
			}
			attempts++
		}

		result[n.id] = Point{x, y}
		occupied[cell(x, y)] = true
	}

	return result
}

// clampPositions keeps every node inside the usable canvas area.
func clampPositions(positions map[string]Point, width, height float64) map[string]Point {
	result := make(map[string]Point, len(positions))

	minX, maxX := layoutPadding, width-layoutPadding
	minY, maxY := layoutPadding, height-layoutPadding
	if maxX < minX {
		maxX = minX
	}
	if maxY < minY {
		maxY = minY
	}

	for id, p := range positions {
		result[id] = Point{
			X: clamp(p.X, minX, maxX),
			Y: clamp(p.Y, minY, maxY),
		}
	}

	return result
}
