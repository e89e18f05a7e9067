package graph

import (
	"reflect"
	"strings"
	"testing"
)

// TestResolve_CreatesThenMerges verifies create-or-merge behavior and name
// ordering.
func TestResolve_CreatesThenMerges(t *testing.T) {
	b := NewBuilder()

	n1 := b.Resolve("X1", "Main", TypePBX)
	if n1.ID != "X1" || n1.Type != TypePBX {
		t.Fatalf("Unexpected node: %+v", n1)
	}
	if !reflect.DeepEqual(n1.Names, []string{"Main"}) {
		t.Errorf("Expected names [Main], got %v", n1.Names)
	}

	n2 := b.Resolve("X1", "Main Annex", TypePBX)
	if n2 != n1 {
		t.Error("Resolve must return the existing node for a known identity")
	}
	if !reflect.DeepEqual(n1.Names, []string{"Main", "Main Annex"}) {
		t.Errorf("Expected merged names, got %v", n1.Names)
	}
}

// TestResolve_NoNameDedup verifies that duplicate display names are kept.
func TestResolve_NoNameDedup(t *testing.T) {
	b := NewBuilder()
	b.Resolve("X1", "Main", TypePBX)
	b.Resolve("X1", "Main", TypePBX)

	g := b.Snapshot()
	if !reflect.DeepEqual(g.Nodes[0].Names, []string{"Main", "Main"}) {
		t.Errorf("Names list must not be deduplicated, got %v", g.Nodes[0].Names)
	}
}

// TestResolve_ByteIdenticalMatch verifies that identity matching performs no
// canonicalization.
func TestResolve_ByteIdenticalMatch(t *testing.T) {
	b := NewBuilder()
	b.Resolve("X1", "One", TypePBX)
	b.Resolve("x1", "Two", TypePBX)
	b.Resolve(" X1", "Three", TypePBX)

	if b.NodeCount() != 3 {
		t.Errorf("Case and whitespace variants must be distinct identities, got %d nodes", b.NodeCount())
	}
}

// TestAddExtension_AlwaysFresh verifies synthetic ids and non-merging.
func TestAddExtension_AlwaysFresh(t *testing.T) {
	b := NewBuilder()
	b.Resolve("X1", "Main", TypePBX)

	e1 := b.AddExtension("X1", "Lobby", "phone")
	e2 := b.AddExtension("X1", "Lobby", "phone")

	if !strings.HasPrefix(e1.ID, "X1-") || !strings.HasPrefix(e2.ID, "X1-") {
		t.Errorf("Extension ids must compose the owner id: %s, %s", e1.ID, e2.ID)
	}
	if e1.ID == e2.ID {
		t.Error("Identical extension entries must get distinct ids")
	}
	if e1.Type != "phone" || e1.Names[0] != "Lobby" {
		t.Errorf("Unexpected extension node: %+v", e1)
	}
}

// TestSnapshot_InsertionOrder verifies that nodes come out in discovery
// order regardless of id values.
func TestSnapshot_InsertionOrder(t *testing.T) {
	b := NewBuilder()
	b.Resolve("Z", "last alphabetically, first discovered", TypePBX)
	b.Resolve("A", "first alphabetically, second discovered", TypePBX)
	b.AddExtension("Z", "Desk", "phone")

	g := b.Snapshot()
	if g.Nodes[0].ID != "Z" || g.Nodes[1].ID != "A" {
		t.Errorf("Snapshot must preserve insertion order, got %s then %s", g.Nodes[0].ID, g.Nodes[1].ID)
	}
	if !strings.HasPrefix(g.Nodes[2].ID, "Z-") {
		t.Errorf("Extension should be third, got %s", g.Nodes[2].ID)
	}
}

// TestSnapshot_Isolation verifies that later builder mutations do not leak
// into an earlier snapshot.
func TestSnapshot_Isolation(t *testing.T) {
	b := NewBuilder()
	b.Resolve("X1", "Main", TypePBX)
	b.Link("X1", "Y1", "9")

	g := b.Snapshot()

	b.Resolve("X1", "Renamed", TypePBX)
	b.Link("X1", "Y2", "8")

	if len(g.Nodes[0].Names) != 1 {
		t.Errorf("Snapshot node mutated after the fact: %v", g.Nodes[0].Names)
	}
	if len(g.Edges) != 1 {
		t.Errorf("Snapshot edge list mutated after the fact: %d edges", len(g.Edges))
	}
}

// TestSnapshot_EmptyNonNil verifies the empty-graph contract.
func TestSnapshot_EmptyNonNil(t *testing.T) {
	g := NewBuilder().Snapshot()
	if g.Nodes == nil || g.Edges == nil {
		t.Error("Empty snapshot must have non-nil slices")
	}
	if len(g.Nodes) != 0 || len(g.Edges) != 0 {
		t.Errorf("Expected empty graph, got %d nodes %d edges", len(g.Nodes), len(g.Edges))
	}
}

// TestLink_NoDedup verifies that parallel edges with different labels are
// all kept.
func TestLink_NoDedup(t *testing.T) {
	b := NewBuilder()
	b.Link("X1", "Y1", "9")
	b.Link("X1", "Y1", "8")
	b.Link("X1", "Y1", "9")

	g := b.Snapshot()
	if len(g.Edges) != 3 {
		t.Errorf("Edges must never be deduplicated, got %d", len(g.Edges))
	}
}

// TestGraph_Accessors covers NodeByID and OutgoingEdges.
func TestGraph_Accessors(t *testing.T) {
	b := NewBuilder()
	b.Resolve("X1", "Main", TypePBX)
	b.Resolve("Y1", "Up", TypePBX)
	b.Link("X1", "Y1", "9")
	b.Link("Y1", "X1", "0")
	g := b.Snapshot()

	if n := g.NodeByID("Y1"); n == nil || n.Names[0] != "Up" {
		t.Errorf("NodeByID(Y1) = %+v", n)
	}
	if g.NodeByID("missing") != nil {
		t.Error("NodeByID must return nil for unknown ids")
	}
	out := g.OutgoingEdges("X1")
	if len(out) != 1 || out[0].To != "Y1" {
		t.Errorf("OutgoingEdges(X1) = %+v", out)
	}
}
