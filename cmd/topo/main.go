// Command topo is a CLI tool for working with network topology designs.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/nettopo/topokit/pkg/topo"
	"github.com/nettopo/topokit/pkg/topofile"
)

const usage = `topo - Network topology design toolkit

Usage:
  topo <command> [options]

Commands:
  convert    Convert between formats (json, yaml, topo)
  dot        Generate Graphviz DOT output
  svg        Render topology to SVG
  png        Render topology to PNG
  labels     Compute interface-label placements
  layout     Auto-layout node positions
  info       Show topology information
  validate   Validate topology file

Examples:
  topo convert lab.yaml -o lab.topo
  topo svg lab.topo -o lab.svg
  topo labels lab.yaml --json
  topo layout lab.yaml --algorithm circular -o lab.yaml
  topo validate lab.topo

Use "topo <command> -h" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Print(usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "convert":
		cmdConvert(args)
	case "dot":
		cmdDot(args)
	case "svg":
		cmdSVG(args)
	case "png":
		cmdPNG(args)
	case "labels":
		cmdLabels(args)
	case "layout":
		cmdLayout(args)
	case "info":
		cmdInfo(args)
	case "validate":
		cmdValidate(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Print(usage)
		os.Exit(1)
	}
}

func cmdConvert(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: topo convert <input> [-o output] [--pretty]")
		os.Exit(1)
	}

	input := args[0]
	var output string
	pretty := false

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		case "--pretty":
			pretty = true
		}
	}

	t, err := loadTopology(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
		os.Exit(1)
	}

	if output == "" {
		ext := filepath.Ext(input)
		base := strings.TrimSuffix(input, ext)
		switch ext {
		case ".json", ".yaml", ".yml":
			output = base + ".topo"
		default:
			output = base + ".json"
		}
	}

	outExt := filepath.Ext(output)
	switch outExt {
	case ".topo":
		err = topofile.WriteTopoFile(output, t, nil)
	case ".json":
		data, jerr := topofile.ToJSON(t, pretty)
		if jerr != nil {
			err = jerr
		} else {
			err = os.WriteFile(output, data, 0644)
		}
	case ".yaml", ".yml":
		data, yerr := topofile.ToYAML(t)
		if yerr != nil {
			err = yerr
		} else {
			err = os.WriteFile(output, data, 0644)
		}
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format: %s\n", outExt)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
		os.Exit(1)
	}

	fmt.Printf("Written: %s\n", output)
}

func cmdDot(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: topo dot <input> [-o output] [-t title]")
		os.Exit(1)
	}

	input := args[0]
	var output, title string

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		case "-t", "--title":
			if i+1 < len(args) {
				title = args[i+1]
				i++
			}
		}
	}

	t, err := loadTopology(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
		os.Exit(1)
	}

	if title == "" {
		title = t.Name
	}

	dot := topofile.GenerateDOT(t, title)

	if output != "" {
		if err := os.WriteFile(output, []byte(dot), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
			os.Exit(1)
		}
	} else {
		fmt.Print(dot)
	}
}

func cmdSVG(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: topo svg <input> [-o output] [-t title] [--width N] [--height N] [--no-labels]")
		os.Exit(1)
	}

	input := args[0]
	opts := topofile.DefaultSVGOptions()
	var output string

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		case "-t", "--title":
			if i+1 < len(args) {
				opts.Title = args[i+1]
				i++
			}
		case "--width":
			if i+1 < len(args) {
				opts.Width, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "--height":
			if i+1 < len(args) {
				opts.Height, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "--no-labels":
			opts.ShowLabels = false
		}
	}

	t, err := loadTopology(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
		os.Exit(1)
	}

	if opts.Title == "" {
		opts.Title = t.Name
	}

	svg := topofile.GenerateSVG(t, opts)

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".svg"
	}

	if err := os.WriteFile(output, []byte(svg), 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
		os.Exit(1)
	}

	fmt.Printf("Written: %s\n", output)
}

func cmdPNG(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: topo png <input> [-o output] [--width N] [--height N] [--no-labels]")
		os.Exit(1)
	}

	input := args[0]
	opts := topofile.DefaultPNGOptions()
	var output string

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		case "--width":
			if i+1 < len(args) {
				opts.Width, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "--height":
			if i+1 < len(args) {
				opts.Height, _ = strconv.Atoi(args[i+1])
				i++
			}
		case "--no-labels":
			opts.ShowLabels = false
		}
	}

	t, err := loadTopology(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
		os.Exit(1)
	}

	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + ".png"
	}

	file, err := os.Create(output)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating %s: %v\n", output, err)
		os.Exit(1)
	}
	defer file.Close()

	if err := topofile.RenderPNG(t, file, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error rendering PNG: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Written: %s\n", output)
}

func cmdLabels(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: topo labels <input> [--json]")
		os.Exit(1)
	}

	input := args[0]
	asJSON := false
	for _, a := range args[1:] {
		if a == "--json" {
			asJSON = true
		}
	}

	t, err := loadTopology(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
		os.Exit(1)
	}

	placements := topofile.ComputeLinkLabelPlacements(t.Nodes, t.Links)

	if asJSON {
		type jsonPos struct {
			X float64 `json:"x"`
			Y float64 `json:"y"`
		}
		type jsonPlacement struct {
			Source *jsonPos `json:"source,omitempty"`
			Target *jsonPos `json:"target,omitempty"`
		}

		out := make(map[string]jsonPlacement, len(placements))
		for id, p := range placements {
			jp := jsonPlacement{}
			if p.Source != nil {
				jp.Source = &jsonPos{p.Source.X, p.Source.Y}
			}
			if p.Target != nil {
				jp.Target = &jsonPos{p.Target.X, p.Target.Y}
			}
			out[id] = jp
		}

		data, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding placements: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	ids := make([]string, 0, len(placements))
	for id := range placements {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		p := placements[id]
		fmt.Printf("%s:\n", id)
		if p.Source != nil {
			fmt.Printf("  source: (%.1f, %.1f)\n", p.Source.X, p.Source.Y)
		}
		if p.Target != nil {
			fmt.Printf("  target: (%.1f, %.1f)\n", p.Target.X, p.Target.Y)
		}
	}
}

func cmdLayout(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: topo layout <input> [-o output] [--algorithm grid|circular|hierarchical|force|smart]")
		os.Exit(1)
	}

	input := args[0]
	output := ""
	algorithm := "smart"

	for i := 1; i < len(args); i++ {
		switch args[i] {
		case "-o", "--output":
			if i+1 < len(args) {
				output = args[i+1]
				i++
			}
		case "--algorithm", "-a":
			if i+1 < len(args) {
				algorithm = args[i+1]
				i++
			}
		}
	}

	t, err := loadTopology(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
		os.Exit(1)
	}

	var positions map[string]topofile.Point
	switch algorithm {
	case "grid":
		positions = topofile.AutoLayout(t, topofile.LayoutGrid, topofile.CanvasSize, topofile.CanvasSize)
	case "circular":
		positions = topofile.AutoLayout(t, topofile.LayoutCircular, topofile.CanvasSize, topofile.CanvasSize)
	case "hierarchical":
		positions = topofile.AutoLayout(t, topofile.LayoutHierarchical, topofile.CanvasSize, topofile.CanvasSize)
	case "force":
		positions = topofile.AutoLayout(t, topofile.LayoutForceDirected, topofile.CanvasSize, topofile.CanvasSize)
	case "smart":
		positions = topofile.SmartLayout(t, topofile.CanvasSize, topofile.CanvasSize)
	default:
		fmt.Fprintf(os.Stderr, "Unknown algorithm: %s\n", algorithm)
		os.Exit(1)
	}

	topofile.ApplyLayout(t, positions)

	if output == "" {
		output = input
	}

	if err := saveTopology(output, t); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", output, err)
		os.Exit(1)
	}

	fmt.Printf("Written: %s (%d nodes positioned)\n", output, len(positions))
}

func cmdInfo(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: topo info <input>")
		os.Exit(1)
	}

	input := args[0]
	t, err := loadTopology(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
		os.Exit(1)
	}

	if t.Name != "" {
		fmt.Printf("Name:        %s\n", t.Name)
	}
	if t.Description != "" {
		fmt.Printf("Description: %s\n", t.Description)
	}
	fmt.Printf("Nodes:       %d\n", len(t.Nodes))
	fmt.Printf("Links:       %d\n", len(t.Links))

	kinds := make(map[topo.Kind]int)
	for _, n := range t.Nodes {
		kinds[n.Kind]++
	}
	for _, k := range []topo.Kind{topo.KindRouter, topo.KindSwitch, topo.KindHost, topo.KindExternal} {
		if kinds[k] > 0 {
			fmt.Printf("  %-10s %d\n", k+":", kinds[k])
		}
	}

	labelled := 0
	for _, l := range t.Links {
		if l.SourceInterface != "" {
			labelled++
		}
		if l.TargetInterface != "" {
			labelled++
		}
	}
	fmt.Printf("Interface labels: %d\n", labelled)
}

func cmdValidate(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: topo validate <input>")
		os.Exit(1)
	}

	input := args[0]
	t, err := loadTopology(input)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading %s: %v\n", input, err)
		os.Exit(1)
	}

	if err := t.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%s: valid topology with %d nodes, %d links\n", input, len(t.Nodes), len(t.Links))
}

func loadTopology(path string) (*topo.Topology, error) {
	ext := filepath.Ext(path)

	switch ext {
	case ".topo":
		t, _, err := topofile.ReadTopoFile(path)
		return t, err
	case ".json":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return topofile.ParseJSON(data)
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return topofile.ParseYAML(data)
	default:
		return nil, fmt.Errorf("unknown file format: %s", ext)
	}
}

func saveTopology(path string, t *topo.Topology) error {
	switch filepath.Ext(path) {
	case ".topo":
		return topofile.WriteTopoFile(path, t, nil)
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
