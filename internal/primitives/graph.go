package primitives

import "fmt"

// GraphNode is a value-object vertex identified by name, grounded on the
// ID-keyed vertex representation used by graph libraries in the retrieval
// pack (adjacency by name, not by pointer).
type GraphNode struct {
	Name string
}

func (n GraphNode) String() string { return n.Name }

// GraphEdge is a value object (from, to, optional weight). Destructuring a
// GraphEdge into a 3-tuple pattern uses the canonical order (from, to,
// weight) — see DESIGN.md for the rejected (from, weight, to) order found
// in one place in the original source.
type GraphEdge struct {
	From   string
	To     string
	Weight *float64
}

func (e GraphEdge) WeightOr(def float64) float64 {
	if e.Weight == nil {
		return def
	}
	return *e.Weight
}

func (e GraphEdge) String() string {
	if e.Weight != nil {
		return fmt.Sprintf("%s -> %s (%g)", e.From, e.To, *e.Weight)
	}
	return fmt.Sprintf("%s -> %s", e.From, e.To)
}

// Graph is a set of nodes plus a set of edges, stored with deterministic
// insertion order so iteration (and therefore the flattened model it
// feeds) is reproducible across runs.
type Graph struct {
	nodeOrder []string
	nodes     map[string]GraphNode
	edges     []GraphEdge
}

func NewGraph() *Graph {
	return &Graph{nodes: map[string]GraphNode{}}
}

func (g *Graph) AddNode(name string) {
	if _, ok := g.nodes[name]; ok {
		return
	}
	g.nodes[name] = GraphNode{Name: name}
	g.nodeOrder = append(g.nodeOrder, name)
}

func (g *Graph) AddEdge(from, to string, weight *float64) {
	g.AddNode(from)
	g.AddNode(to)
	g.edges = append(g.edges, GraphEdge{From: from, To: to, Weight: weight})
}

// Nodes returns the graph's nodes in insertion order.
func (g *Graph) Nodes() []GraphNode {
	out := make([]GraphNode, len(g.nodeOrder))
	for i, name := range g.nodeOrder {
		out[i] = g.nodes[name]
	}
	return out
}

// Edges returns the graph's edges in insertion order.
func (g *Graph) Edges() []GraphEdge {
	out := make([]GraphEdge, len(g.edges))
	copy(out, g.edges)
	return out
}

func (g *Graph) String() string {
	s := ""
	for i, e := range g.edges {
		if i > 0 {
			s += ", "
		}
		s += e.String()
	}
	return s
}
