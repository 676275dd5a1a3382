package graph

import (
	"testing"

	octoerrors "github.com/linview/octopus/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestBuildPlanLinearChainInterleavesTriggers(t *testing.T) {
	t.Parallel()

	cfg := buildConfig(t, linearChainDoc())
	mgr, err := NewManager(cfg, nil)
	require.NoError(t, err)

	plan, err := mgr.BuildPlan()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "t1", "c", "t2"}, plan)
}

func TestBuildPlanFailsOnCycle(t *testing.T) {
	t.Parallel()

	cfg := buildConfig(t, cycleDoc())
	mgr, err := NewManager(cfg, nil)
	require.NoError(t, err)

	_, err = mgr.BuildPlan()
	var cg *octoerrors.CyclicGraph
	require.ErrorAs(t, err, &cg)
}

func TestBuildPlanServiceWithNoEdgesIsExcluded(t *testing.T) {
	t.Parallel()

	// spec.md's subgraph definition retains a node only if it is an endpoint
	// of some allowed edge; a service with no next/trigger and nothing
	// pointing at it never becomes part of the subgraph, so it never enters
	// the plan.
	doc := map[string]interface{}{
		"version": "0.1.0", "name": "demo", "desc": "demo config",
		"services": []interface{}{
			map[string]interface{}{"name": "solo", "image": "img"},
		},
	}
	cfg := buildConfig(t, doc)
	mgr, err := NewManager(cfg, nil)
	require.NoError(t, err)

	plan, err := mgr.BuildPlan()
	require.NoError(t, err)
	require.Empty(t, plan)
}

func TestBuildPlanMultipleRootsOrderedLexicographically(t *testing.T) {
	t.Parallel()

	doc := map[string]interface{}{
		"version": "0.1.0", "name": "demo", "desc": "demo config",
		"services": []interface{}{
			map[string]interface{}{"name": "z", "image": "img", "next": []interface{}{"y"}},
			map[string]interface{}{"name": "y", "image": "img"},
			map[string]interface{}{"name": "a", "image": "img", "next": []interface{}{"b"}},
			map[string]interface{}{"name": "b", "image": "img"},
		},
	}
	cfg := buildConfig(t, doc)
	mgr, err := NewManager(cfg, nil)
	require.NoError(t, err)

	plan, err := mgr.BuildPlan()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "z", "y"}, plan)
}

func TestBuildPlanServiceTriggeringMultipleTests(t *testing.T) {
	t.Parallel()

	doc := map[string]interface{}{
		"version": "0.1.0", "name": "demo", "desc": "demo config",
		"services": []interface{}{
			map[string]interface{}{"name": "a", "image": "img", "trigger": []interface{}{"t1", "t2"}},
		},
		"tests": []interface{}{
			testDoc("t1", nil),
			testDoc("t2", nil),
		},
	}
	cfg := buildConfig(t, doc)
	mgr, err := NewManager(cfg, nil)
	require.NoError(t, err)

	plan, err := mgr.BuildPlan()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "t1", "t2"}, plan)
}
