package main

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/nettopo/topokit/pkg/topo"
	"github.com/nettopo/topokit/pkg/topofile"
)

// Canvas pixels per terminal cell. Terminal cells are roughly twice as
// tall as wide, so the vertical divisor doubles the horizontal one.
const (
	cellSizeX = 20.0
	cellSizeY = 40.0
)

// Styles
var (
	styleDefault  = tcell.StyleDefault
	styleLink     = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleLabel    = tcell.StyleDefault.Foreground(tcell.ColorTeal)
	styleRouter   = tcell.StyleDefault.Foreground(tcell.ColorBlue).Bold(true)
	styleSwitch   = tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true)
	styleHost     = tcell.StyleDefault.Foreground(tcell.ColorOrange).Bold(true)
	styleExternal = tcell.StyleDefault.Foreground(tcell.ColorPurple).Bold(true)
	styleSelected = tcell.StyleDefault.Background(tcell.ColorBlue).Foreground(tcell.ColorWhite)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorNavy)
	styleHelp     = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

func kindStyle(k topo.Kind) tcell.Style {
	switch k {
	case topo.KindSwitch:
		return styleSwitch
	case topo.KindHost:
		return styleHost
	case topo.KindExternal:
		return styleExternal
	default:
		return styleRouter
	}
}

func (ed *Editor) draw() {
	ed.screen.Clear()
	w, h := ed.screen.Size()

	canvasH := h - 2 // status bar and help line

	ed.drawLinks(w, canvasH)
	if ed.showLabels {
		ed.drawLabels(w, canvasH)
	}
	ed.drawNodes(w, canvasH)
	ed.drawStatusBar(w, h)
}

// toCell converts canvas coordinates to terminal cells, applying the
// viewport offset.
func (ed *Editor) toCell(x, y float64) (int, int) {
	return int(x/cellSizeX) - ed.canvasOffsetX, int(y/cellSizeY) - ed.canvasOffsetY
}

func (ed *Editor) drawLinks(w, h int) {
	for _, l := range ed.topology.Links {
		src, srcOK := ed.topology.NodeByID(l.Source)
		tgt, tgtOK := ed.topology.NodeByID(l.Target)
		if !srcOK || !tgtOK {
			continue
		}

		x1, y1 := ed.toCell(src.X, src.Y)
		x2, y2 := ed.toCell(tgt.X, tgt.Y)
		ed.drawCellLine(x1, y1, x2, y2, w, h)
	}
}

// drawCellLine approximates a line with dots, skipping off-screen cells.
func (ed *Editor) drawCellLine(x1, y1, x2, y2, w, h int) {
	steps := int(math.Max(math.Abs(float64(x2-x1)), math.Abs(float64(y2-y1))))
	if steps < 1 {
		steps = 1
	}
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(steps)
		x := x1 + int(math.Round(float64(x2-x1)*t))
		y := y1 + int(math.Round(float64(y2-y1)*t))
		if x < 0 || x >= w || y < 0 || y >= h {
			continue
		}
		ed.screen.SetContent(x, y, '·', nil, styleLink)
	}
}

func (ed *Editor) drawLabels(w, h int) {
	placements := topofile.ComputeLinkLabelPlacements(ed.topology.Nodes, ed.topology.Links)
	for _, l := range ed.topology.Links {
		p, ok := placements[l.ID]
		if !ok {
			continue
		}
		if p.Source != nil {
			x, y := ed.toCell(p.Source.X, p.Source.Y)
			ed.drawClippedString(x-len(l.SourceInterface)/2, y, l.SourceInterface, styleLabel, w, h)
		}
		if p.Target != nil {
			x, y := ed.toCell(p.Target.X, p.Target.Y)
			ed.drawClippedString(x-len(l.TargetInterface)/2, y, l.TargetInterface, styleLabel, w, h)
		}
	}
}

func (ed *Editor) drawNodes(w, h int) {
	for i, n := range ed.topology.Nodes {
		x, y := ed.toCell(n.X, n.Y)

		marker := "[" + n.Label() + "]"
		if n.Kind.IsExternal() {
			marker = "(" + n.Label() + ")"
		}

		style := kindStyle(n.Kind)
		if i == ed.selectedNode {
			style = styleSelected
		}

		ed.drawClippedString(x-len(marker)/2, y, marker, style, w, h)
	}
}

func (ed *Editor) drawClippedString(x, y int, s string, style tcell.Style, w, h int) {
	if y < 0 || y >= h {
		return
	}
	for i, r := range s {
		cx := x + i
		if cx < 0 || cx >= w {
			continue
		}
		ed.screen.SetContent(cx, y, r, nil, style)
	}
}

func (ed *Editor) drawStatusBar(w, h int) {
	name := ed.filename
	if ed.modified {
		name += " [modified]"
	}
	status := fmt.Sprintf(" %s | %d nodes, %d links", name, len(ed.topology.Nodes), len(ed.topology.Links))
	if ed.message != "" {
		status += " | " + ed.message
	}

	for x := 0; x < w; x++ {
		ed.screen.SetContent(x, h-2, ' ', nil, styleStatus)
	}
	ed.drawClippedString(0, h-2, status, styleStatus, w, h-1)

	help := " arrows:pan  Tab:select  hjkl:move  L:layout  I:labels  S:save  Q:quit"
	ed.drawClippedString(0, h-1, help, styleHelp, w, h)
}
