package topofile

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Layout represents saved editor layout metadata: the viewport offset
// plus per-node canvas positions.
type Layout struct {
	Version int
	Editor  EditorMeta
	Nodes   map[string]NodePosition
}

// EditorMeta contains editor-specific settings.
type EditorMeta struct {
	CanvasOffsetX int
	CanvasOffsetY int
}

// NodePosition contains the saved position for a single node.
type NodePosition struct {
	X, Y float64
}

// GenerateLayout creates layout.toml content from node positions.
// Nodes are written in sorted ID order so output is reproducible.
func GenerateLayout(positions map[string]NodePosition, offsetX, offsetY int) string {
	var sb strings.Builder

	sb.WriteString("[layout]\n")
	sb.WriteString("version = 1\n")
	sb.WriteString("\n")

	sb.WriteString("[editor]\n")
	sb.WriteString(fmt.Sprintf("canvas_offset_x = %d\n", offsetX))
	sb.WriteString(fmt.Sprintf("canvas_offset_y = %d\n", offsetY))
	sb.WriteString("\n")

	if len(positions) > 0 {
		ids := make([]string, 0, len(positions))
		for id := range positions {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			pos := positions[id]
			sb.WriteString(fmt.Sprintf("[nodes.%q]\n", id))
			sb.WriteString(fmt.Sprintf("x = %s\n", formatCoord(pos.X)))
			sb.WriteString(fmt.Sprintf("y = %s\n", formatCoord(pos.Y)))
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

// ParseLayout parses layout.toml content. Unknown sections and keys are
// ignored so older tools can read newer files.
func ParseLayout(text string) (*Layout, error) {
	layout := &Layout{
		Nodes: make(map[string]NodePosition),
	}

	var currentSection string
	var currentNode string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Section header
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section := line[1 : len(line)-1]

			// Node subsection like [nodes."core-1"]
			if strings.HasPrefix(section, "nodes.") {
				currentSection = "nodes"
				currentNode = unquoteKey(section[6:])
				if _, exists := layout.Nodes[currentNode]; !exists {
					layout.Nodes[currentNode] = NodePosition{}
				}
			} else {
				currentSection = section
				currentNode = ""
			}
			continue
		}

		// Key = value
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		switch currentSection {
		case "layout":
			if key == "version" {
				layout.Version, _ = strconv.Atoi(value)
			}
		case "editor":
			switch key {
			case "canvas_offset_x":
				layout.Editor.CanvasOffsetX, _ = strconv.Atoi(value)
			case "canvas_offset_y":
				layout.Editor.CanvasOffsetY, _ = strconv.Atoi(value)
			}
		case "nodes":
			if currentNode != "" {
				pos := layout.Nodes[currentNode]
				switch key {
				case "x":
					pos.X, _ = strconv.ParseFloat(value, 64)
				case "y":
					pos.Y, _ = strconv.ParseFloat(value, 64)
				}
				layout.Nodes[currentNode] = pos
			}
		}
	}

	return layout, nil
}

// formatCoord renders a coordinate without a trailing ".0" for whole
// values, keeping the files diff-friendly.
func formatCoord(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// unquoteKey removes surrounding quotes from a TOML key.
func unquoteKey(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') ||
			(s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
