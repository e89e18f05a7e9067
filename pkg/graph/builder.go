package graph

import (
	"fmt"

	"github.com/google/uuid"
)

// Builder accumulates nodes and edges during a crawl and freezes them into a
// Graph snapshot at the end. The node table is append-only and keyed by
// identity; insertion order is preserved so snapshots list nodes in discovery
// order. Builder is not safe for concurrent use — the crawl is sequential by
// design, so it never needs to be.
type Builder struct {
	byID  map[string]*Node
	order []string
	edges []Edge
}

// NewBuilder creates an empty graph builder.
func NewBuilder() *Builder {
	return &Builder{
		byID: make(map[string]*Node),
	}
}

// Resolve returns the node for the given identity, creating it if unseen.
// An existing node gets displayName appended to its Names list; existing
// entries are never reordered or deduplicated. Identity matching is
// byte-identical: no trimming, no case folding.
//
// This is the sole mutation path for switch and provider nodes after
// creation. Extension nodes bypass it (see AddExtension).
func (b *Builder) Resolve(identity, displayName, typ string) *Node {
	if node, ok := b.byID[identity]; ok {
		node.Names = append(node.Names, displayName)
		return node
	}
	node := &Node{
		ID:    identity,
		Names: []string{displayName},
		Type:  typ,
	}
	b.byID[identity] = node
	b.order = append(b.order, identity)
	return node
}

// AddExtension creates a fresh node for an extension owned by the given
// switch. Extensions are never merged: two identical entries in the same
// descriptor produce two distinct nodes. The synthetic id composes the
// owning switch id with a random suffix and is never parsed back.
func (b *Builder) AddExtension(ownerID, name, typ string) *Node {
	node := &Node{
		ID:    fmt.Sprintf("%s-%s", ownerID, uuid.NewString()),
		Names: []string{name},
		Type:  typ,
	}
	b.byID[node.ID] = node
	b.order = append(b.order, node.ID)
	return node
}

// Link appends a directed edge. Edges are never deduplicated.
func (b *Builder) Link(from, to, label string) {
	b.edges = append(b.edges, Edge{From: from, To: to, Label: label})
}

// NodeCount returns the number of nodes recorded so far.
func (b *Builder) NodeCount() int {
	return len(b.order)
}

// EdgeCount returns the number of edges recorded so far.
func (b *Builder) EdgeCount() int {
	return len(b.edges)
}

// Snapshot freezes the builder's state into a Graph. Nodes are listed in
// insertion order. The snapshot copies all data, so later builder mutations
// (a crawl resumed after a partial snapshot) do not leak into it. Nodes and
// Edges are non-nil even when empty.
func (b *Builder) Snapshot() *Graph {
	g := &Graph{
		Nodes: make([]Node, 0, len(b.order)),
		Edges: make([]Edge, 0, len(b.edges)),
	}
	for _, id := range b.order {
		g.Nodes = append(g.Nodes, *b.byID[id].Clone())
	}
	g.Edges = append(g.Edges, b.edges...)
	return g
}
