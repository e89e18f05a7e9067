package graph

// TypePBX is the node type for switches, both self-announced and
// provider-announced. Extension nodes carry whatever type string their
// descriptor entry reports (e.g. "phone", "fax").
const TypePBX = "PBX"

// Node represents a discovered switch or one of its extensions.
type Node struct {
	// ID uniquely identifies the node within one graph. Switches use their
	// self-reported identifier; extensions get a synthetic id derived from
	// the owning switch id plus a random suffix.
	ID string `json:"id"`

	// Names holds every display name seen for this node, in the order the
	// crawl encountered them. The first entry is the primary display name.
	// The list grows on alias merge and is never reordered or deduplicated.
	Names []string `json:"names"`

	Type string `json:"type"`
}

// PrimaryName returns the first display name seen for the node.
func (n *Node) PrimaryName() string {
	if len(n.Names) == 0 {
		return ""
	}
	return n.Names[0]
}

// Clone creates a deep copy of a node.
func (n *Node) Clone() *Node {
	clone := &Node{
		ID:    n.ID,
		Names: make([]string, len(n.Names)),
		Type:  n.Type,
	}
	copy(clone.Names, n.Names)
	return clone
}

// Edge represents a directed relation between two nodes. The label carries
// an extension number for switch→extension edges and a dialing prefix for
// switch→provider edges. Edges are never merged: multiple edges between the
// same pair with different labels are meaningful.
type Edge struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Label string `json:"label"`
}

// Graph is the immutable snapshot returned to the caller once a crawl
// finishes. Nodes appear in discovery order.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// NodeByID returns the node with the given id, or nil if absent.
func (g *Graph) NodeByID(id string) *Node {
	for i := range g.Nodes {
		if g.Nodes[i].ID == id {
			return &g.Nodes[i]
		}
	}
	return nil
}

// OutgoingEdges returns every edge originating at the given node id.
func (g *Graph) OutgoingEdges(id string) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	return out
}
