// Interface-label placement for topology links.
//
// Each labelled link endpoint gets a discrete set of candidate positions
// along and beside its link line; candidates are scored against node
// footprints, already-placed labels and the canvas bounds, and the best
// one is committed greedily. Busiest endpoints are processed first so
// they claim space while the canvas is emptiest. Placement is a soft
// heuristic: overlap is penalized, not forbidden.

package topofile

import (
	"math"
	"sort"

	"github.com/nettopo/topokit/pkg/topo"
)

// CanvasSize is the side length of the square design canvas.
const CanvasSize = 5000.0

// labelMargin keeps committed positions clear of the canvas edges.
const labelMargin = 12.0

// Candidate grid parameters. Labels aim for a point roughly
// anchorDistance pixels from their node, fanned perpendicular to the
// link by fanSpacing per sibling.
const (
	anchorDistance = 58.0
	fanSpacing     = 10.0
)

// Scoring weights. Node overlap outranks label overlap so that under
// pressure labels stack on each other before covering an icon.
const (
	nodeOverlapBase    = 10000.0
	nodeOverlapWeight  = 12.0
	labelOverlapBase   = 8500.0
	labelOverlapWeight = 10.0
	edgeOverflowWeight = 60.0
	fanDeviationWeight = 1.5
	lineDistanceWeight = 3.0
)

// LinkLabelPlacement holds the committed label positions for one link.
// A nil field means no label was placed for that end.
type LinkLabelPlacement struct {
	Source *Point
	Target *Point
}

// linkEnd identifies which end of a link a label belongs to.
type linkEnd string

const (
	endSource linkEnd = "source"
	endTarget linkEnd = "target"
)

// labelRequest is one labelled link endpoint awaiting placement.
type labelRequest struct {
	linkID string
	end    linkEnd
	text   string
	from   Point // node this label is attached to
	to     Point // opposite node, fixes the direction
	index  int   // ordinal among siblings sharing from-node and role
	count  int   // total siblings sharing from-node and role
	key    string
}

// labelCandidate is a trial position for one request.
type labelCandidate struct {
	x, y   float64
	t      float64 // fraction along the from->to segment
	offset float64 // perpendicular distance from the segment
}

// endpointOrdinals records, per role, each link's ordinal among all
// links sharing the same node for that role, and the per-node totals.
// A node absent from a count map is attached to no link in that role.
type endpointOrdinals struct {
	sourceIndex map[string]int // link ID -> ordinal
	targetIndex map[string]int
	sourceCount map[string]int // node ID -> total
	targetCount map[string]int
}

// indexEndpoints assigns ordinals in link-list order, each role counted
// independently, so repeated calls see identical fan positions.
func indexEndpoints(links []topo.Link) endpointOrdinals {
	ord := endpointOrdinals{
		sourceIndex: make(map[string]int),
		targetIndex: make(map[string]int),
		sourceCount: make(map[string]int),
		targetCount: make(map[string]int),
	}

	for _, l := range links {
		ord.sourceIndex[l.ID] = ord.sourceCount[l.Source]
		ord.sourceCount[l.Source]++

		ord.targetIndex[l.ID] = ord.targetCount[l.Target]
		ord.targetCount[l.Target]++
	}

	return ord
}

// fanOffset is the preferred perpendicular offset for a request: siblings
// spread symmetrically around the link line.
func fanOffset(index, count int) float64 {
	centered := float64(index) - float64(count-1)/2
	return centered * fanSpacing
}

// generateCandidates builds the trial positions for one request.
// Returns nil for degenerate links whose endpoints coincide.
func generateCandidates(req labelRequest) []labelCandidate {
	dx := req.to.X - req.from.X
	dy := req.to.Y - req.from.Y
	dist := math.Hypot(dx, dy)
	if dist < 0.01 {
		return nil
	}

	ux, uy := dx/dist, dy/dist
	px, py := -uy, ux

	// Aim for a fixed pixel distance from the node, expressed as a
	// fraction of the segment and kept away from both endpoints.
	baseT := anchorDistance / dist
	if baseT < 0.16 {
		baseT = 0.16
	} else if baseT > 0.42 {
		baseT = 0.42
	}

	baseOffset := fanOffset(req.index, req.count)

	offsets := []float64{
		baseOffset,
		baseOffset + 12, baseOffset - 12,
		baseOffset + 24, baseOffset - 24,
		baseOffset + 36, baseOffset - 36,
		baseOffset + 48, baseOffset - 48,
		baseOffset + 64, baseOffset - 64,
		0,
	}

	tSteps := []float64{0, 0.06, -0.06, 0.12, -0.12, 0.18}

	candidates := make([]labelCandidate, 0, len(tSteps)*len(offsets))
	for _, dt := range tSteps {
		t := baseT + dt
		if t < 0.12 {
			t = 0.12
		} else if t > 0.88 {
			t = 0.88
		}

		baseX := req.from.X + ux*t*dist
		baseY := req.from.Y + uy*t*dist

		for _, offset := range offsets {
			candidates = append(candidates, labelCandidate{
				x:      baseX + px*offset,
				y:      baseY + py*offset,
				t:      t,
				offset: offset,
			})
		}
	}

	return candidates
}

// scoreCandidate returns the penalty for placing the request's label at
// the candidate position. Lower is better.
func scoreCandidate(c labelCandidate, req labelRequest, placed, nodeRects []Rect) float64 {
	rect := EstimateLabelRect(c.x, c.y, req.text)
	score := 0.0

	for _, nr := range nodeRects {
		if area := OverlapArea(rect, nr); area > 0 {
			score += nodeOverlapBase + area*nodeOverlapWeight
		}
	}

	for _, pr := range placed {
		if area := OverlapArea(rect, pr); area > 0 {
			score += labelOverlapBase + area*labelOverlapWeight
		}
	}

	// Penalize every pixel the rect hangs past a canvas edge.
	overflow := 0.0
	if left := rect.X - rect.W/2; left < 0 {
		overflow += -left
	}
	if right := rect.X + rect.W/2; right > CanvasSize {
		overflow += right - CanvasSize
	}
	if top := rect.Y - rect.H/2; top < 0 {
		overflow += -top
	}
	if bottom := rect.Y + rect.H/2; bottom > CanvasSize {
		overflow += bottom - CanvasSize
	}
	score += overflow * edgeOverflowWeight

	score += math.Abs(c.offset-fanOffset(req.index, req.count)) * fanDeviationWeight

	score += PointSegmentDistance(Point{c.x, c.y}, req.from, req.to) * lineDistanceWeight

	return score
}

// ComputeLinkLabelPlacements places an interface label at every link end
// that names one, returning committed positions keyed by link ID.
//
// The result is fully recomputed on each call and identical inputs yield
// identical output. Malformed input never errors: a link end with no
// interface name, a dangling node reference, or a zero-length link
// simply places no label for the affected ends. Inputs are not mutated.
// Committed positions are clamped inside the canvas.
func ComputeLinkLabelPlacements(nodes []topo.Node, links []topo.Link) map[string]*LinkLabelPlacement {
	nodeByID := make(map[string]topo.Node, len(nodes))
	nodeRects := make([]Rect, 0, len(nodes))
	for _, n := range nodes {
		nodeByID[n.ID] = n
		nodeRects = append(nodeRects, NodeRect(n))
	}

	ord := indexEndpoints(links)

	var requests []labelRequest
	for _, l := range links {
		src, srcOK := nodeByID[l.Source]
		tgt, tgtOK := nodeByID[l.Target]
		if !srcOK || !tgtOK {
			continue
		}

		srcPt := Point{src.X, src.Y}
		tgtPt := Point{tgt.X, tgt.Y}

		if l.SourceInterface != "" {
			requests = append(requests, labelRequest{
				linkID: l.ID,
				end:    endSource,
				text:   l.SourceInterface,
				from:   srcPt,
				to:     tgtPt,
				index:  ord.sourceIndex[l.ID],
				count:  ord.sourceCount[l.Source],
				key:    l.ID + ":" + string(endSource),
			})
		}
		if l.TargetInterface != "" {
			requests = append(requests, labelRequest{
				linkID: l.ID,
				end:    endTarget,
				text:   l.TargetInterface,
				from:   tgtPt,
				to:     srcPt,
				index:  ord.targetIndex[l.ID],
				count:  ord.targetCount[l.Target],
				key:    l.ID + ":" + string(endTarget),
			})
		}
	}

	// Most-contended endpoints and longest labels go first, while the
	// canvas is emptiest. The key comparison makes the order total, so
	// the whole pass is deterministic.
	sort.Slice(requests, func(i, j int) bool {
		if requests[i].count != requests[j].count {
			return requests[i].count > requests[j].count
		}
		if len(requests[i].text) != len(requests[j].text) {
			return len(requests[i].text) > len(requests[j].text)
		}
		return requests[i].key < requests[j].key
	})

	result := make(map[string]*LinkLabelPlacement)
	var placed []Rect

	for _, req := range requests {
		candidates := generateCandidates(req)
		if len(candidates) == 0 {
			continue
		}

		best := candidates[0]
		bestScore := scoreCandidate(best, req, placed, nodeRects)
		for _, c := range candidates[1:] {
			if s := scoreCandidate(c, req, placed, nodeRects); s < bestScore {
				best = c
				bestScore = s
			}
		}

		placed = append(placed, EstimateLabelRect(best.x, best.y, req.text))

		pos := Point{
			X: clamp(best.x, labelMargin, CanvasSize-labelMargin),
			Y: clamp(best.y, labelMargin, CanvasSize-labelMargin),
		}

		p := result[req.linkID]
		if p == nil {
			p = &LinkLabelPlacement{}
			result[req.linkID] = p
		}
		if req.end == endSource {
			p.Source = &pos
		} else {
			p.Target = &pos
		}
	}

	return result
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
