package topofile

import (
	"encoding/json"

	"github.com/nettopo/topokit/pkg/topo"
)

// jsonTopology is the JSON representation of a topology document.
type jsonTopology struct {
	Name        string     `json:"name,omitempty"`
	Description string     `json:"description,omitempty"`
	Nodes       []jsonNode `json:"nodes"`
	Links       []jsonLink `json:"links"`
}

type jsonNode struct {
	ID   string  `json:"id"`
	Name string  `json:"name,omitempty"`
	Kind string  `json:"kind,omitempty"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

type jsonLink struct {
	ID              string `json:"id"`
	Source          string `json:"source"`
	Target          string `json:"target"`
	SourceInterface string `json:"source_interface,omitempty"`
	TargetInterface string `json:"target_interface,omitempty"`
}

// ParseJSON parses a topology from JSON.
func ParseJSON(data []byte) (*topo.Topology, error) {
	var j jsonTopology
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}

	t := topo.New(j.Name)
	t.Description = j.Description

	for _, jn := range j.Nodes {
		kind := topo.Kind(jn.Kind)
		if jn.Kind == "" {
			kind = topo.KindRouter
		}
		t.AddNode(topo.Node{
			ID:   jn.ID,
			Name: jn.Name,
			Kind: kind,
			X:    jn.X,
			Y:    jn.Y,
		})
	}

	for _, jl := range j.Links {
		t.AddLink(topo.Link{
			ID:              jl.ID,
			Source:          jl.Source,
			Target:          jl.Target,
			SourceInterface: jl.SourceInterface,
			TargetInterface: jl.TargetInterface,
		})
	}

	return t, nil
}

// ToJSON converts a topology to JSON.
func ToJSON(t *topo.Topology, pretty bool) ([]byte, error) {
	j := jsonTopology{
		Name:        t.Name,
		Description: t.Description,
		Nodes:       make([]jsonNode, 0, len(t.Nodes)),
		Links:       make([]jsonLink, 0, len(t.Links)),
	}

	for _, n := range t.Nodes {
		j.Nodes = append(j.Nodes, jsonNode{
			ID:   n.ID,
			Name: n.Name,
			Kind: string(n.Kind),
			X:    n.X,
			Y:    n.Y,
		})
	}

	for _, l := range t.Links {
		j.Links = append(j.Links, jsonLink{
			ID:              l.ID,
			Source:          l.Source,
			Target:          l.Target,
			SourceInterface: l.SourceInterface,
			TargetInterface: l.TargetInterface,
		})
	}

	if pretty {
		return json.MarshalIndent(j, "", "  ")
	}
	return json.Marshal(j)
}
