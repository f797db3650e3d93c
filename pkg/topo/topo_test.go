package topo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTopology() *Topology {
	t := New("lab")
	t.AddNode(Node{ID: "r1", Name: "core", Kind: KindRouter, X: 100, Y: 100})
	t.AddNode(Node{ID: "sw1", Kind: KindSwitch, X: 300, Y: 100})
	t.AddNode(Node{ID: "h1", Kind: KindHost, X: 500, Y: 100})
	t.AddLink(Link{ID: "l1", Source: "r1", Target: "sw1", SourceInterface: "eth0"})
	t.AddLink(Link{ID: "l2", Source: "sw1", Target: "h1"})
	return t
}

func TestKind(t *testing.T) {
	assert.True(t, KindRouter.Valid())
	assert.True(t, KindExternal.Valid())
	assert.False(t, Kind("firewall").Valid())
	assert.False(t, Kind("").Valid())

	assert.True(t, KindExternal.IsExternal())
	assert.False(t, KindRouter.IsExternal())
}

func TestNodeLabel(t *testing.T) {
	assert.Equal(t, "core", Node{ID: "r1", Name: "core"}.Label())
	assert.Equal(t, "r1", Node{ID: "r1"}.Label())
}

func TestAddNodeReplaces(t *testing.T) {
	top := buildTopology()

	top.AddNode(Node{ID: "r1", Name: "renamed", Kind: KindRouter})
	require.Len(t, top.Nodes, 3)

	n, ok := top.NodeByID("r1")
	require.True(t, ok)
	assert.Equal(t, "renamed", n.Name)
}

func TestAddLinkReplaces(t *testing.T) {
	top := buildTopology()

	top.AddLink(Link{ID: "l1", Source: "r1", Target: "h1"})
	require.Len(t, top.Links, 2)
	assert.Equal(t, "h1", top.Links[0].Target)
}

func TestRemoveNodeCascades(t *testing.T) {
	top := buildTopology()

	require.True(t, top.RemoveNode("sw1"))
	assert.Len(t, top.Nodes, 2)
	assert.Empty(t, top.Links, "links touching the removed node must go with it")

	assert.False(t, top.RemoveNode("sw1"), "second removal should report absence")
}

func TestRemoveLink(t *testing.T) {
	top := buildTopology()

	require.True(t, top.RemoveLink("l2"))
	assert.Len(t, top.Links, 1)
	assert.False(t, top.RemoveLink("l2"))
}

func TestNodeByID(t *testing.T) {
	top := buildTopology()

	n, ok := top.NodeByID("sw1")
	require.True(t, ok)
	assert.Equal(t, KindSwitch, n.Kind)

	_, ok = top.NodeByID("missing")
	assert.False(t, ok)
}

func TestLinksAt(t *testing.T) {
	top := buildTopology()

	links := top.LinksAt("sw1")
	require.Len(t, links, 2)
	assert.Equal(t, "l1", links[0].ID, "link-list order must be preserved")
	assert.Equal(t, "l2", links[1].ID)

	assert.Empty(t, top.LinksAt("missing"))
}

func TestDegree(t *testing.T) {
	top := buildTopology()

	assert.Equal(t, 2, top.Degree("sw1"))
	assert.Equal(t, 1, top.Degree("r1"))
	assert.Equal(t, 0, top.Degree("missing"))

	// A self-loop counts both endpoints.
	top.AddLink(Link{ID: "loop", Source: "r1", Target: "r1"})
	assert.Equal(t, 3, top.Degree("r1"))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Topology)
		wantErr string
	}{
		{
			name:   "valid topology",
			mutate: func(t *Topology) {},
		},
		{
			name:    "empty node ID",
			mutate:  func(t *Topology) { t.Nodes = append(t.Nodes, Node{Kind: KindRouter}) },
			wantErr: "empty ID",
		},
		{
			name:    "duplicate node ID",
			mutate:  func(t *Topology) { t.Nodes = append(t.Nodes, Node{ID: "r1", Kind: KindRouter}) },
			wantErr: "duplicate node ID",
		},
		{
			name:    "unknown kind",
			mutate:  func(t *Topology) { t.Nodes = append(t.Nodes, Node{ID: "x", Kind: "firewall"}) },
			wantErr: "unknown kind",
		},
		{
			name:    "duplicate link ID",
			mutate:  func(t *Topology) { t.Links = append(t.Links, Link{ID: "l1", Source: "r1", Target: "h1"}) },
			wantErr: "duplicate link ID",
		},
		{
			name:    "dangling source",
			mutate:  func(t *Topology) { t.Links = append(t.Links, Link{ID: "l3", Source: "ghost", Target: "h1"}) },
			wantErr: "not in nodes",
		},
		{
			name:    "dangling target",
			mutate:  func(t *Topology) { t.Links = append(t.Links, Link{ID: "l3", Source: "r1", Target: "ghost"}) },
			wantErr: "not in nodes",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			top := buildTopology()
			tc.mutate(top)

			err := top.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestValidateEmptyKindAllowed(t *testing.T) {
	top := New("minimal")
	top.AddNode(Node{ID: "a"})
	assert.NoError(t, top.Validate(), "nodes with unset kind pass validation")
}

func TestString(t *testing.T) {
	top := buildTopology()
	s := top.String()
	assert.Contains(t, s, "lab")
	assert.Contains(t, s, "Nodes: 3")
	assert.Contains(t, s, "Links: 2")
}
