// Command topoedit is a TUI viewer and editor for topology designs.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/nettopo/topokit/pkg/topo"
	"github.com/nettopo/topokit/pkg/topofile"
)

const editorUsage = `topoedit - TUI topology viewer/editor

Usage:
  topoedit <file.topo|file.json|file.yaml>

Keys:
  arrows      pan canvas
  Tab         select next node
  h/j/k/l     move selected node
  L           re-run auto-layout
  I           toggle interface labels
  S           save
  Q / Esc     quit
`

// Config holds persistent editor settings.
type Config struct {
	ShowLabels bool
	LastDir    string
}

// DefaultConfig returns default configuration.
func DefaultConfig() Config {
	cwd, _ := os.Getwd()
	return Config{
		ShowLabels: true,
		LastDir:    cwd,
	}
}

// ConfigPath returns the path to the config file.
func ConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".topoedit"
	}
	return filepath.Join(home, ".topoedit")
}

// LoadConfig loads configuration from the simple key=value file.
func LoadConfig() Config {
	cfg := DefaultConfig()
	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		return cfg
	}

	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		value := strings.Trim(strings.TrimSpace(parts[1]), "\"")

		switch key {
		case "show_labels":
			cfg.ShowLabels = value == "true"
		case "last_dir":
			if value != "" {
				cfg.LastDir = value
			}
		}
	}
	return cfg
}

// SaveConfig saves configuration.
func SaveConfig(cfg Config) error {
	content := fmt.Sprintf("# topoedit configuration\nshow_labels = %t\nlast_dir = %q\n",
		cfg.ShowLabels, cfg.LastDir)
	return os.WriteFile(ConfigPath(), []byte(content), 0644)
}

// Editor holds all editor state.
type Editor struct {
	screen   tcell.Screen
	topology *topo.Topology
	layout   *topofile.Layout
	filename string
	modified bool
	message  string
	config   Config

	// Canvas state
	canvasOffsetX int
	canvasOffsetY int
	selectedNode  int // index into topology.Nodes, -1 = none

	showLabels bool
}

func main() {
	if len(os.Args) < 2 {
		fmt.Print(editorUsage)
		os.Exit(1)
	}

	filename := os.Args[1]
	t, layout, err := loadDesign(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", filename, err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing screen: %v\n", err)
		os.Exit(1)
	}

	cfg := LoadConfig()

	ed := &Editor{
		screen:       screen,
		topology:     t,
		layout:       layout,
		filename:     filename,
		config:       cfg,
		selectedNode: -1,
		showLabels:   cfg.ShowLabels,
	}
	if layout != nil {
		ed.canvasOffsetX = layout.Editor.CanvasOffsetX
		ed.canvasOffsetY = layout.Editor.CanvasOffsetY
	}

	ed.run()

	screen.Fini()

	cfg.ShowLabels = ed.showLabels
	cfg.LastDir = filepath.Dir(filename)
	if err := SaveConfig(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save config: %v\n", err)
	}
}

func (ed *Editor) run() {
	for {
		ed.draw()
		ed.screen.Show()

		ev := ed.screen.PollEvent()
		switch ev := ev.(type) {
		case *tcell.EventResize:
			ed.screen.Sync()
		case *tcell.EventKey:
			if ed.handleKey(ev) {
				return
			}
		}
	}
}

// handleKey processes one key event. Returns true to quit.
func (ed *Editor) handleKey(ev *tcell.EventKey) bool {
	const panStep = 5
	const moveStepX = 20.0
	const moveStepY = 40.0

	switch ev.Key() {
	case tcell.KeyEscape:
		return true
	case tcell.KeyLeft:
		ed.canvasOffsetX -= panStep
		return false
	case tcell.KeyRight:
		ed.canvasOffsetX += panStep
		return false
	case tcell.KeyUp:
		ed.canvasOffsetY -= panStep
		return false
	case tcell.KeyDown:
		ed.canvasOffsetY += panStep
		return false
	case tcell.KeyTab:
		ed.selectNext()
		return false
	}

	switch ev.Rune() {
	case 'q', 'Q':
		return true
	case 'h':
		ed.moveSelected(-moveStepX, 0)
	case 'l':
		ed.moveSelected(moveStepX, 0)
	case 'k':
		ed.moveSelected(0, -moveStepY)
	case 'j':
		ed.moveSelected(0, moveStepY)
	case 'L':
		ed.relayout()
	case 'i', 'I':
		ed.showLabels = !ed.showLabels
	case 's', 'S':
		ed.save()
	}
	return false
}

func (ed *Editor) selectNext() {
	if len(ed.topology.Nodes) == 0 {
		return
	}
	ed.selectedNode = (ed.selectedNode + 1) % len(ed.topology.Nodes)
	ed.message = fmt.Sprintf("Selected: %s", ed.topology.Nodes[ed.selectedNode].Label())
}

func (ed *Editor) moveSelected(dx, dy float64) {
	if ed.selectedNode < 0 || ed.selectedNode >= len(ed.topology.Nodes) {
		return
	}
	n := &ed.topology.Nodes[ed.selectedNode]
	n.X = clampCoord(n.X + dx)
	n.Y = clampCoord(n.Y + dy)
	ed.modified = true
}

func clampCoord(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > topofile.CanvasSize {
		return topofile.CanvasSize
	}
	return v
}

func (ed *Editor) relayout() {
	positions := topofile.SmartLayout(ed.topology, topofile.CanvasSize, topofile.CanvasSize)
	topofile.ApplyLayout(ed.topology, positions)
	ed.modified = true
	ed.message = "Auto-layout applied"
}

func (ed *Editor) save() {
	if err := saveDesign(ed.filename, ed.topology, ed.currentLayout()); err != nil {
		ed.message = fmt.Sprintf("Save failed: %v", err)
		return
	}
	ed.modified = false
	ed.message = fmt.Sprintf("Saved: %s", ed.filename)
}

// currentLayout captures the viewport offset and node positions for
// persisting alongside the topology.
func (ed *Editor) currentLayout() *topofile.Layout {
	layout := &topofile.Layout{
		Version: 1,
		Editor: topofile.EditorMeta{
			CanvasOffsetX: ed.canvasOffsetX,
			CanvasOffsetY: ed.canvasOffsetY,
		},
		Nodes: make(map[string]topofile.NodePosition),
	}
	for _, n := range ed.topology.Nodes {
		layout.Nodes[n.ID] = topofile.NodePosition{X: n.X, Y: n.Y}
	}
	return layout
}

func loadDesign(path string) (*topo.Topology, *topofile.Layout, error) {
	switch filepath.Ext(path) {
	case ".topo":
		return topofile.ReadTopoFile(path)
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		t, err := topofile.ParseJSON(data)
		return t, nil, err
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, nil, err
		}
		t, err := topofile.ParseYAML(data)
		return t, nil, err
	default:
		return nil, nil, fmt.Errorf("unknown file format: %s", filepath.Ext(path))
	}
}

func saveDesign(path string, t *topo.Topology, layout *topofile.Layout) error {
	switch filepath.Ext(path) {
	case ".topo":
		return topofile.WriteTopoFile(path, t, layout)
	case ".json":
		data, err := topofile.ToJSON(t, true)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0644)
	case ".yaml", ".yml":
		data, err := topofile.ToYAML(t)
		if err != nil {
			return err
		}
		return os.WriteFile(path, data, 0644)
	default:
		return fmt.Errorf("unknown file format: %s", filepath.Ext(path))
	}
}
