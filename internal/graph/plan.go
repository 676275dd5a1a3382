package graph

import "sort"

// BuildPlan computes the execution plan for the manager's current subgraph:
// an interleaved linearization produced by walking from each root service,
// visiting its triggered tests, then following the chain's next service
// (spec.md §4.3). It fails with CyclicGraph if the subgraph is not a DAG.
func (m *Manager) BuildPlan() ([]string, error) {
	sg := m.Subgraph()
	if !sg.IsDAG() {
		_, err := sg.TopologicalOrder()
		return nil, err
	}

	var roots []string
	for name, kind := range sg.nodes {
		if kind == KindService && sg.inDegree(name) == 0 {
			roots = append(roots, name)
		}
	}
	sort.Strings(roots)

	var plan []string
	visited := make(map[string]bool)
	for _, root := range roots {
		walk(sg, root, &plan, visited)
	}
	return plan, nil
}

// walk implements the source's root-chain algorithm: visit the service,
// append its triggered tests (in graph order), then recurse into the first
// unvisited next-edge successor.
func walk(sg *Subgraph, service string, plan *[]string, visited map[string]bool) {
	if visited[service] {
		return
	}
	visited[service] = true
	*plan = append(*plan, service)

	for _, e := range sg.out[service] {
		if e.Type == EdgeTrigger && sg.nodes[e.To] == KindTest && !visited[e.To] {
			visited[e.To] = true
			*plan = append(*plan, e.To)
		}
	}

	var next string
	for _, e := range sg.out[service] {
		if e.Type == EdgeNext && sg.nodes[e.To] == KindService && !visited[e.To] {
			next = e.To
			break
		}
	}
	if next != "" {
		walk(sg, next, plan, visited)
	}
}
