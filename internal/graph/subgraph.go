package graph

import (
	"sort"

	octoerrors "github.com/linview/octopus/pkg/errors"
)

// Subgraph is the full graph restricted to edges whose type belongs to the
// manager's currently allowed set. Nodes are retained iff they are an
// endpoint of some retained edge. An empty subgraph is trivially a DAG.
type Subgraph struct {
	nodes map[string]NodeKind
	out   map[string][]Edge
	in    map[string][]Edge
}

// Subgraph computes the filtered subgraph for the manager's current
// AllowedEdgeTypes.
func (m *Manager) Subgraph() *Subgraph {
	sg := &Subgraph{
		nodes: make(map[string]NodeKind),
		out:   make(map[string][]Edge),
		in:    make(map[string][]Edge),
	}
	for _, edges := range m.out {
		for _, e := range edges {
			if !m.allowed[e.Type] {
				continue
			}
			sg.out[e.From] = append(sg.out[e.From], e)
			sg.in[e.To] = append(sg.in[e.To], e)
			sg.nodes[e.From] = m.kinds[e.From]
			sg.nodes[e.To] = m.kinds[e.To]
		}
	}
	return sg
}

// Nodes returns a snapshot of every retained node and its kind.
func (sg *Subgraph) Nodes() map[string]NodeKind {
	out := make(map[string]NodeKind, len(sg.nodes))
	for k, v := range sg.nodes {
		out[k] = v
	}
	return out
}

// Edges returns every retained edge, in a deterministic (source-name then
// target-name) order. Exposed for visualization consumers per spec.md §9.
func (sg *Subgraph) Edges() []Edge {
	var all []Edge
	for _, edges := range sg.out {
		all = append(all, edges...)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].From != all[j].From {
			return all[i].From < all[j].From
		}
		if all[i].To != all[j].To {
			return all[i].To < all[j].To
		}
		return all[i].Type < all[j].Type
	})
	return all
}

// Successors returns the out-edges of name, in graph (insertion) order.
func (sg *Subgraph) Successors(name string) []Edge {
	return sg.out[name]
}

// Predecessors returns the names of every node with an edge into name.
func (sg *Subgraph) Predecessors(name string) []string {
	edges := sg.in[name]
	out := make([]string, 0, len(edges))
	for _, e := range edges {
		out = append(out, e.From)
	}
	return out
}

func (sg *Subgraph) inDegree(name string) int {
	return len(sg.in[name])
}

// IsDAG reports whether the subgraph contains no cycle.
func (sg *Subgraph) IsDAG() bool {
	_, err := sg.topologicalOrder()
	return err == nil
}

// TopologicalOrder computes a deterministic topological order (Kahn's
// algorithm, ties broken lexicographically). It fails with CyclicGraph if
// the subgraph contains a cycle.
func (sg *Subgraph) TopologicalOrder() ([]string, error) {
	return sg.topologicalOrder()
}

func (sg *Subgraph) topologicalOrder() ([]string, error) {
	indegree := make(map[string]int, len(sg.nodes))
	for n := range sg.nodes {
		indegree[n] = sg.inDegree(n)
	}

	var queue []string
	for n, d := range indegree {
		if d == 0 {
			queue = append(queue, n)
		}
	}
	sort.Strings(queue)

	var order []string
	for len(queue) > 0 {
		sort.Strings(queue)
		n := queue[0]
		queue = queue[1:]
		order = append(order, n)

		successors := sg.out[n]
		sorted := append([]Edge(nil), successors...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i].To < sorted[j].To })
		for _, e := range sorted {
			indegree[e.To]--
			if indegree[e.To] == 0 {
				queue = append(queue, e.To)
			}
		}
	}

	if len(order) != len(sg.nodes) {
		return nil, octoerrors.NewCyclicGraph(cycleMembers(sg.nodes, order))
	}
	return order, nil
}

func cycleMembers(nodes map[string]NodeKind, ordered []string) []string {
	done := make(map[string]bool, len(ordered))
	for _, n := range ordered {
		done[n] = true
	}
	var remaining []string
	for n := range nodes {
		if !done[n] {
			remaining = append(remaining, n)
		}
	}
	sort.Strings(remaining)
	return remaining
}
