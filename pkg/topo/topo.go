// Package topo provides the core network topology types and operations.
package topo

import (
	"fmt"
	"strings"
)

// Kind classifies a topology node.
type Kind string

const (
	KindRouter   Kind = "router"
	KindSwitch   Kind = "switch"
	KindHost     Kind = "host"
	KindExternal Kind = "external" // external network cloud
)

// IsExternal reports whether the node represents an external network
// rather than a managed device. External networks draw with a wider,
// flatter footprint.
func (k Kind) IsExternal() bool {
	return k == KindExternal
}

// Valid reports whether the kind is one of the known values.
func (k Kind) Valid() bool {
	switch k {
	case KindRouter, KindSwitch, KindHost, KindExternal:
		return true
	}
	return false
}

// Node is a device or external network placed on the design canvas.
type Node struct {
	ID   string  `json:"id"`
	Name string  `json:"name,omitempty"`
	Kind Kind    `json:"kind"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Label returns the display name of the node, falling back to its ID.
func (n Node) Label() string {
	if n.Name != "" {
		return n.Name
	}
	return n.ID
}

// Link connects two nodes, optionally naming the interface at each end.
type Link struct {
	ID              string `json:"id"`
	Source          string `json:"source"`
	Target          string `json:"target"`
	SourceInterface string `json:"source_interface,omitempty"`
	TargetInterface string `json:"target_interface,omitempty"`
}

// Topology is a complete lab design: nodes plus the links between them.
type Topology struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Nodes       []Node `json:"nodes"`
	Links       []Link `json:"links"`
}

// New creates an empty topology.
func New(name string) *Topology {
	return &Topology{
		Name:  name,
		Nodes: make([]Node, 0),
		Links: make([]Link, 0),
	}
}

// AddNode appends a node. An existing node with the same ID is replaced.
func (t *Topology) AddNode(n Node) {
	for i, existing := range t.Nodes {
		if existing.ID == n.ID {
			t.Nodes[i] = n
			return
		}
	}
	t.Nodes = append(t.Nodes, n)
}

// AddLink appends a link. An existing link with the same ID is replaced.
func (t *Topology) AddLink(l Link) {
	for i, existing := range t.Links {
		if existing.ID == l.ID {
			t.Links[i] = l
			return
		}
	}
	t.Links = append(t.Links, l)
}

// RemoveNode deletes a node and every link touching it.
// Returns true if the node existed.
func (t *Topology) RemoveNode(id string) bool {
	idx := -1
	for i, n := range t.Nodes {
		if n.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}
	t.Nodes = append(t.Nodes[:idx], t.Nodes[idx+1:]...)

	kept := t.Links[:0]
	for _, l := range t.Links {
		if l.Source != id && l.Target != id {
			kept = append(kept, l)
		}
	}
	t.Links = kept
	return true
}

// RemoveLink deletes a link by ID. Returns true if the link existed.
func (t *Topology) RemoveLink(id string) bool {
	for i, l := range t.Links {
		if l.ID == id {
			t.Links = append(t.Links[:i], t.Links[i+1:]...)
			return true
		}
	}
	return false
}

// NodeByID returns the node with the given ID, or false if absent.
func (t *Topology) NodeByID(id string) (Node, bool) {
	for _, n := range t.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// LinksAt returns all links with either end attached to the given node,
// in link-list order.
func (t *Topology) LinksAt(nodeID string) []Link {
	var result []Link
	for _, l := range t.Links {
		if l.Source == nodeID || l.Target == nodeID {
			result = append(result, l)
		}
	}
	return result
}

// Degree returns the number of link endpoints attached to the node.
// A link from a node to itself counts twice.
func (t *Topology) Degree(nodeID string) int {
	d := 0
	for _, l := range t.Links {
		if l.Source == nodeID {
			d++
		}
		if l.Target == nodeID {
			d++
		}
	}
	return d
}

// Validate checks that the topology is well-formed: non-empty IDs, no
// duplicate IDs, known kinds, and no dangling link references. Rendering
// and label placement tolerate malformed topologies; validation exists
// for editors and the CLI to report problems to the user.
func (t *Topology) Validate() error {
	nodeIDs := make(map[string]bool, len(t.Nodes))
	for i, n := range t.Nodes {
		if n.ID == "" {
			return fmt.Errorf("node %d: empty ID", i)
		}
		if nodeIDs[n.ID] {
			return fmt.Errorf("duplicate node ID %q", n.ID)
		}
		nodeIDs[n.ID] = true
		if n.Kind != "" && !n.Kind.Valid() {
			return fmt.Errorf("node %q: unknown kind %q", n.ID, n.Kind)
		}
	}

	linkIDs := make(map[string]bool, len(t.Links))
	for i, l := range t.Links {
		if l.ID == "" {
			return fmt.Errorf("link %d: empty ID", i)
		}
		if linkIDs[l.ID] {
			return fmt.Errorf("duplicate link ID %q", l.ID)
		}
		linkIDs[l.ID] = true
		if !nodeIDs[l.Source] {
			return fmt.Errorf("link %q: source %q not in nodes", l.ID, l.Source)
		}
		if !nodeIDs[l.Target] {
			return fmt.Errorf("link %q: target %q not in nodes", l.ID, l.Target)
		}
	}

	return nil
}

// String returns a short human-readable summary.
func (t *Topology) String() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Topology: %s\n", t.Name))
	sb.WriteString(fmt.Sprintf("  Nodes: %d\n", len(t.Nodes)))
	sb.WriteString(fmt.Sprintf("  Links: %d\n", len(t.Links)))
	return sb.String()
}
