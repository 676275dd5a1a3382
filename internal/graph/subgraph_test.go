package graph

import (
	"testing"

	octoerrors "github.com/linview/octopus/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestSubgraphDefaultAllowedEdgesAreNextAndTrigger(t *testing.T) {
	t.Parallel()

	cfg := buildConfig(t, linearChainDoc())
	mgr, err := NewManager(cfg, nil)
	require.NoError(t, err)

	sg := mgr.Subgraph()
	for _, e := range sg.Edges() {
		require.Contains(t, []EdgeType{EdgeNext, EdgeTrigger}, e.Type)
	}
}

func TestSubgraphIsDAGForLinearChain(t *testing.T) {
	t.Parallel()

	cfg := buildConfig(t, linearChainDoc())
	mgr, err := NewManager(cfg, nil)
	require.NoError(t, err)

	require.True(t, mgr.Subgraph().IsDAG())
}

func TestSubgraphTopologicalOrderIsDeterministic(t *testing.T) {
	t.Parallel()

	cfg := buildConfig(t, linearChainDoc())
	mgr, err := NewManager(cfg, nil)
	require.NoError(t, err)

	order, err := mgr.Subgraph().TopologicalOrder()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c", "t1", "t2"}, order)
}

func cycleDoc() map[string]interface{} {
	return map[string]interface{}{
		"version": "0.1.0", "name": "demo", "desc": "demo config",
		"services": []interface{}{
			map[string]interface{}{"name": "a", "image": "img", "next": []interface{}{"b"}},
			map[string]interface{}{"name": "b", "image": "img", "next": []interface{}{"a"}},
		},
	}
}

func TestSubgraphDetectsCycle(t *testing.T) {
	t.Parallel()

	cfg := buildConfig(t, cycleDoc())
	mgr, err := NewManager(cfg, nil)
	require.NoError(t, err)

	sg := mgr.Subgraph()
	require.False(t, sg.IsDAG())

	_, err = sg.TopologicalOrder()
	var cg *octoerrors.CyclicGraph
	require.ErrorAs(t, err, &cg)
	require.ElementsMatch(t, []string{"a", "b"}, cg.Cycle)
}

func TestSubgraphPredecessorsAndSuccessors(t *testing.T) {
	t.Parallel()

	cfg := buildConfig(t, linearChainDoc())
	mgr, err := NewManager(cfg, nil)
	require.NoError(t, err)

	sg := mgr.Subgraph()
	require.ElementsMatch(t, []string{"a"}, sg.Predecessors("b"))

	successors := sg.Successors("b")
	require.Len(t, successors, 2)
}

func TestSubgraphEmptyIsTriviallyDAG(t *testing.T) {
	t.Parallel()

	cfg := buildConfig(t, map[string]interface{}{"version": "0.1.0", "name": "demo", "desc": "demo config"})
	mgr, err := NewManager(cfg, nil)
	require.NoError(t, err)

	sg := mgr.Subgraph()
	require.True(t, sg.IsDAG())
	order, err := sg.TopologicalOrder()
	require.NoError(t, err)
	require.Empty(t, order)
}
