package topofile

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/nettopo/topokit/pkg/topo"
)

// A .topo file is a zip archive holding topology.json plus an optional
// layout.toml with editor positions.

// WriteTopoFile writes a topology to a .topo file.
func WriteTopoFile(path string, t *topo.Topology, layout *Layout) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return WriteTopo(file, t, layout)
}

// WriteTopo writes a topology to a writer in .topo format.
func WriteTopo(w io.Writer, t *topo.Topology, layout *Layout) error {
	zw := zip.NewWriter(w)
	defer zw.Close()

	data, err := ToJSON(t, true)
	if err != nil {
		return err
	}

	tw, err := zw.Create("topology.json")
	if err != nil {
		return err
	}
	if _, err := tw.Write(data); err != nil {
		return err
	}

	if layout != nil {
		content := GenerateLayout(layout.Nodes, layout.Editor.CanvasOffsetX, layout.Editor.CanvasOffsetY)
		lw, err := zw.Create("layout.toml")
		if err != nil {
			return err
		}
		if _, err := lw.Write([]byte(content)); err != nil {
			return err
		}
	}

	return nil
}

// ReadTopoFile reads a topology (and its saved layout, if any) from a
// .topo file.
func ReadTopoFile(path string) (*topo.Topology, *Layout, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return nil, nil, err
	}

	return ReadTopo(file, info.Size())
}

// ReadTopo reads a topology from a reader containing .topo format.
func ReadTopo(r io.ReaderAt, size int64) (*topo.Topology, *Layout, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, nil, err
	}

	var topoContent, layoutContent []byte

	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			return nil, nil, err
		}

		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, nil, err
		}

		switch f.Name {
		case "topology.json":
			topoContent = data
		case "layout.toml":
			layoutContent = data
		}
	}

	if topoContent == nil {
		return nil, nil, fmt.Errorf("topology.json not found in archive")
	}

	t, err := ParseJSON(topoContent)
	if err != nil {
		return nil, nil, err
	}

	var layout *Layout
	if layoutContent != nil {
		layout, err = ParseLayout(string(layoutContent))
		if err != nil {
			return nil, nil, err
		}
		// Saved positions win over whatever the JSON carried.
		for i, n := range t.Nodes {
			if pos, ok := layout.Nodes[n.ID]; ok {
				t.Nodes[i].X = pos.X
				t.Nodes[i].Y = pos.Y
			}
		}
	}

	return t, layout, nil
}

// ReadTopoBytes reads a topology from bytes in .topo format.
func ReadTopoBytes(data []byte) (*topo.Topology, *Layout, error) {
	r := bytes.NewReader(data)
	return ReadTopo(r, int64(len(data)))
}
