package topofile

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/nettopo/topokit/pkg/topo"
)

// yamlTopology is the YAML representation of a topology document.
// Links without an explicit ID get a stable synthetic one derived from
// their endpoints and list position.
type yamlTopology struct {
	Name        string     `yaml:"name,omitempty"`
	Description string     `yaml:"description,omitempty"`
	Nodes       []yamlNode `yaml:"nodes"`
	Links       []yamlLink `yaml:"links"`
}

type yamlNode struct {
	ID   string  `yaml:"id"`
	Name string  `yaml:"name,omitempty"`
	Kind string  `yaml:"kind,omitempty"`
	X    float64 `yaml:"x,omitempty"`
	Y    float64 `yaml:"y,omitempty"`
}

type yamlLink struct {
	ID              string `yaml:"id,omitempty"`
	Source          string `yaml:"source"`
	Target          string `yaml:"target"`
	SourceInterface string `yaml:"source_interface,omitempty"`
	TargetInterface string `yaml:"target_interface,omitempty"`
}

// ParseYAML parses a topology from YAML.
func ParseYAML(data []byte) (*topo.Topology, error) {
	var y yamlTopology
	if err := yaml.Unmarshal(data, &y); err != nil {
		return nil, err
	}

	t := topo.New(y.Name)
	t.Description = y.Description

	for _, yn := range y.Nodes {
		kind := topo.Kind(yn.Kind)
		if yn.Kind == "" {
			kind = topo.KindRouter
		}
		t.AddNode(topo.Node{
			ID:   yn.ID,
			Name: yn.Name,
			Kind: kind,
			X:    yn.X,
			Y:    yn.Y,
		})
	}

	for i, yl := range y.Links {
		id := yl.ID
		if id == "" {
			// Stable synthetic ID for links the author left unnamed.
			id = fmt.Sprintf("%s--%s#%d", yl.Source, yl.Target, i)
		}
		t.AddLink(topo.Link{
			ID:              id,
			Source:          yl.Source,
			Target:          yl.Target,
			SourceInterface: yl.SourceInterface,
			TargetInterface: yl.TargetInterface,
		})
	}

	return t, nil
}

// ToYAML converts a topology to YAML.
func ToYAML(t *topo.Topology) ([]byte, error) {
	y := yamlTopology{
		Name:        t.Name,
		Description: t.Description,
		Nodes:       make([]yamlNode, 0, len(t.Nodes)),
		Links:       make([]yamlLink, 0, len(t.Links)),
	}

	for _, n := range t.Nodes {
		y.Nodes = append(y.Nodes, yamlNode{
			ID:   n.ID,
			Name: n.Name,
			Kind: string(n.Kind),
			X:    n.X,
			Y:    n.Y,
		})
	}

	for _, l := range t.Links {
		y.Links = append(y.Links, yamlLink{
			ID:              l.ID,
			Source:          l.Source,
			Target:          l.Target,
			SourceInterface: l.SourceInterface,
			TargetInterface: l.TargetInterface,
		})
	}

	return yaml.Marshal(y)
}
