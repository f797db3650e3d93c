package topofile

import (
	"fmt"
	"strings"

	"github.com/nettopo/topokit/pkg/topo"
)

// GenerateDOT converts a topology to Graphviz DOT format. Links render
// as undirected edges with interface names as tail and head labels.
func GenerateDOT(t *topo.Topology, title string) string {
	var sb strings.Builder

	sb.WriteString("graph topology {\n")
	sb.WriteString("    layout=neato;\n")
	sb.WriteString("    node [fontname=\"Helvetica\", fontsize=11];\n")
	sb.WriteString("    edge [fontname=\"Helvetica\", fontsize=9];\n")
	sb.WriteString("\n")

	if title != "" {
		sb.WriteString("    labelloc=\"t\";\n")
		sb.WriteString(fmt.Sprintf("    label=\"%s\";\n", escapeDOT(title)))
		sb.WriteString("\n")
	}

	for _, n := range t.Nodes {
		var attrs []string

		switch n.Kind {
		case topo.KindExternal:
			attrs = append(attrs, "shape=oval", "style=dashed")
		case topo.KindSwitch:
			attrs = append(attrs, "shape=box")
		case topo.KindHost:
			attrs = append(attrs, "shape=box", "style=rounded")
		default:
			attrs = append(attrs, "shape=circle")
		}

		if n.Name != "" && n.Name != n.ID {
			attrs = append(attrs, fmt.Sprintf("label=\"%s\"", escapeDOT(n.Name)))
		}

		// Positions are pinned so neato preserves the designed layout.
		attrs = append(attrs, fmt.Sprintf("pos=\"%.0f,%.0f!\"", n.X, n.Y))

		sb.WriteString(fmt.Sprintf("    \"%s\" [%s];\n", escapeDOT(n.ID), strings.Join(attrs, ", ")))
	}
	sb.WriteString("\n")

	for _, l := range t.Links {
		var attrs []string
		if l.SourceInterface != "" {
			attrs = append(attrs, fmt.Sprintf("taillabel=\"%s\"", escapeDOT(l.SourceInterface)))
		}
		if l.TargetInterface != "" {
			attrs = append(attrs, fmt.Sprintf("headlabel=\"%s\"", escapeDOT(l.TargetInterface)))
		}

		sb.WriteString(fmt.Sprintf("    \"%s\" -- \"%s\"", escapeDOT(l.Source), escapeDOT(l.Target)))
		if len(attrs) > 0 {
			sb.WriteString(fmt.Sprintf(" [%s]", strings.Join(attrs, ", ")))
		}
		sb.WriteString(";\n")
	}

	sb.WriteString("}\n")

	return sb.String()
}

func escapeDOT(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "\"", "\\\"")
	s = strings.ReplaceAll(s, "<", "\\<")
	s = strings.ReplaceAll(s, ">", "\\>")
	return s
}
