package graph

import (
	"sort"

	"github.com/armature-dev/armature/internal/blueprint"
)

// Node is one component viewed as a graph vertex.
type Node struct {
	Name    string
	Kind    blueprint.ComponentKind
	Inputs  int
	Outputs int
}

// Edge is one (from, to) component pair, annotated with the ports that
// produced it. Fan-out bindings contribute one edge per target; repeated
// pairs collapse into a single edge with accumulated port annotations.
type Edge struct {
	From     string
	To       string
	FromPort string
	ToPort   string
}

// Graph is a directed adjacency-list view over a typed document. Graphs are
// small (tens to low hundreds of nodes), so plain maps and BFS are all the
// machinery needed.
type Graph struct {
	nodes map[string]*Node
	succ  map[string][]string
	pred  map[string][]string
	edges map[[2]string][]Edge
	order []string
}

// Build derives the binding graph from a typed document. Binding targets
// that name unknown components are skipped; the parser reports those.
func Build(doc *blueprint.Document) *Graph {
	g := &Graph{
		nodes: make(map[string]*Node, len(doc.System.Components)),
		succ:  make(map[string][]string),
		pred:  make(map[string][]string),
		edges: make(map[[2]string][]Edge),
	}

	for _, comp := range doc.System.Components {
		if _, exists := g.nodes[comp.Name]; exists {
			continue
		}
		g.nodes[comp.Name] = &Node{
			Name:    comp.Name,
			Kind:    comp.Type,
			Inputs:  len(comp.Inputs),
			Outputs: len(comp.Outputs),
		}
		g.order = append(g.order, comp.Name)
	}

	for _, binding := range doc.System.Bindings {
		for i, target := range binding.ToComponents {
			toPort := ""
			if i < len(binding.ToPorts) {
				toPort = binding.ToPorts[i]
			}
			g.addEdge(Edge{
				From:     binding.FromComponent,
				To:       target,
				FromPort: binding.FromPort,
				ToPort:   toPort,
			})
		}
	}

	return g
}

func (g *Graph) addEdge(e Edge) {
	if _, ok := g.nodes[e.From]; !ok {
		return
	}
	if _, ok := g.nodes[e.To]; !ok {
		return
	}

	key := [2]string{e.From, e.To}
	if existing, ok := g.edges[key]; ok {
		g.edges[key] = append(existing, e)
		return
	}

	g.edges[key] = []Edge{e}
	g.succ[e.From] = append(g.succ[e.From], e.To)
	g.pred[e.To] = append(g.pred[e.To], e.From)
}

// Node returns the named node, or nil.
func (g *Graph) Node(name string) *Node {
	return g.nodes[name]
}

// Nodes returns every node in document declaration order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, name := range g.order {
		out = append(out, g.nodes[name])
	}
	return out
}

// NodeCount returns the number of vertices.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of distinct (from, to) pairs.
func (g *Graph) EdgeCount() int {
	return len(g.edges)
}

// OutDegree returns the number of distinct successors of a node.
func (g *Graph) OutDegree(name string) int {
	return len(g.succ[name])
}

// InDegree returns the number of distinct predecessors of a node.
func (g *Graph) InDegree(name string) int {
	return len(g.pred[name])
}

// Successors returns a sorted copy of the node's distinct successors.
func (g *Graph) Successors(name string) []string {
	out := append([]string(nil), g.succ[name]...)
	sort.Strings(out)
	return out
}

// EdgesBetween returns the port-annotated edges for one (from, to) pair.
func (g *Graph) EdgesBetween(from, to string) []Edge {
	return g.edges[[2]string{from, to}]
}

// Reachable reports whether a node satisfying goal can be reached from
// start by following binding edges. The start node itself is tested first
// as an O(1) short-circuit before the BFS.
func (g *Graph) Reachable(start string, goal func(*Node) bool) bool {
	startNode, ok := g.nodes[start]
	if !ok {
		return false
	}
	if goal(startNode) {
		return true
	}

	visited := map[string]bool{start: true}
	queue := append([]string(nil), g.succ[start]...)

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if visited[current] {
			continue
		}
		visited[current] = true

		if goal(g.nodes[current]) {
			return true
		}
		queue = append(queue, g.succ[current]...)
	}

	return false
}
