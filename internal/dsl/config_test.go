package dsl

import (
	"testing"

	octoerrors "github.com/linview/octopus/pkg/errors"
	"github.com/stretchr/testify/require"
)

func baseDoc() map[string]interface{} {
	return map[string]interface{}{
		"version": "0.1.0",
		"name":    "demo",
		"desc":    "demo config",
	}
}

func TestNewConfigRequiresRootFields(t *testing.T) {
	t.Parallel()

	_, err := NewConfig(map[string]interface{}{"version": "0.1.0", "desc": "demo"})

	var mf *octoerrors.MissingField
	require.ErrorAs(t, err, &mf)
	require.Equal(t, "name", mf.Field)
}

func TestNewConfigRejectsUnsupportedVersion(t *testing.T) {
	t.Parallel()

	doc := baseDoc()
	doc["version"] = "9.9.9"

	_, err := NewConfig(doc)

	var uv *octoerrors.UnsupportedVersion
	require.ErrorAs(t, err, &uv)
	require.Equal(t, "9.9.9", uv.Version)
}

func TestNewConfigIndexesServicesByName(t *testing.T) {
	t.Parallel()

	doc := baseDoc()
	doc["services"] = []interface{}{
		map[string]interface{}{"name": "a", "image": "img", "next": []interface{}{"b"}},
		map[string]interface{}{"name": "b", "image": "img"},
	}

	cfg, err := NewConfig(doc)
	require.NoError(t, err)
	require.Len(t, cfg.ServiceList(), 2)
	require.True(t, cfg.IsValidService("a"))
	require.True(t, cfg.IsValidService("b"))
	require.False(t, cfg.IsValidService("c"))

	svc, ok := cfg.Service("a")
	require.True(t, ok)
	require.Equal(t, "a", svc.Name)
}

func TestNewConfigRejectsDuplicateServiceName(t *testing.T) {
	t.Parallel()

	doc := baseDoc()
	doc["services"] = []interface{}{
		map[string]interface{}{"name": "svc", "image": "img"},
		map[string]interface{}{"name": "svc", "image": "img"},
	}

	_, err := NewConfig(doc)

	var dn *octoerrors.DuplicateName
	require.ErrorAs(t, err, &dn)
	require.Equal(t, "service", dn.Kind)
	require.Equal(t, "svc", dn.Name)
}

func TestNewConfigRejectsDuplicateTestName(t *testing.T) {
	t.Parallel()

	doc := baseDoc()
	doc["tests"] = []interface{}{
		map[string]interface{}{
			"name": "t", "mode": "pytest",
			"runner": map[string]interface{}{"root_dir": "t/", "test_args": []interface{}{}},
			"expect": map[string]interface{}{"exit_code": "0"},
		},
		map[string]interface{}{
			"name": "t", "mode": "pytest",
			"runner": map[string]interface{}{"root_dir": "t/", "test_args": []interface{}{}},
			"expect": map[string]interface{}{"exit_code": "0"},
		},
	}

	_, err := NewConfig(doc)

	var dn *octoerrors.DuplicateName
	require.ErrorAs(t, err, &dn)
	require.Equal(t, "test", dn.Kind)
}

// TestNewConfigFailsFastOnDanglingTrigger covers spec.md §8 Scenario C
// literally: a service triggering a non-existent test fails construction
// immediately with UnknownReference, not an aggregated SemanticCheckFailed.
func TestNewConfigFailsFastOnDanglingTrigger(t *testing.T) {
	t.Parallel()

	doc := baseDoc()
	doc["services"] = []interface{}{
		map[string]interface{}{"name": "a", "image": "img", "trigger": []interface{}{"t_missing"}},
	}

	_, err := NewConfig(doc)

	var ur *octoerrors.UnknownReference
	require.ErrorAs(t, err, &ur)
	require.Equal(t, "trigger", ur.Field)
	require.Equal(t, "t_missing", ur.Reference)
}

// TestNewConfigFailsFastOnDanglingNeeds mirrors the trigger case for a
// test's needs pointing at a non-existent service.
func TestNewConfigFailsFastOnDanglingNeeds(t *testing.T) {
	t.Parallel()

	doc := baseDoc()
	doc["tests"] = []interface{}{
		map[string]interface{}{
			"name": "t", "mode": "pytest", "needs": []interface{}{"ghost-needs"},
			"runner": map[string]interface{}{"root_dir": "t/", "test_args": []interface{}{}},
			"expect": map[string]interface{}{"exit_code": "0"},
		},
	}

	_, err := NewConfig(doc)

	var ur *octoerrors.UnknownReference
	require.ErrorAs(t, err, &ur)
	require.Equal(t, "needs", ur.Field)
	require.Equal(t, "ghost-needs", ur.Reference)
}

// TestNewConfigSemanticCheckAggregatesAcrossCategories covers the
// genuinely soft, aggregate-only findings: dangling next/depends_on (the
// graph manager logs and skips these rather than failing) and duplicate
// input keys.
func TestNewConfigSemanticCheckAggregatesAcrossCategories(t *testing.T) {
	t.Parallel()

	doc := baseDoc()
	doc["services"] = []interface{}{
		map[string]interface{}{
			"name": "a", "image": "img",
			"next":       []interface{}{"ghost-next"},
			"depends_on": []interface{}{"ghost-dep"},
		},
	}
	doc["inputs"] = []interface{}{
		map[string]interface{}{"dup": "1"},
		map[string]interface{}{"dup": "2"},
	}

	_, err := NewConfig(doc)

	var sc *octoerrors.SemanticCheckFailed
	require.ErrorAs(t, err, &sc)
	require.Len(t, sc.Findings, 3)
}

func TestNewConfigEagerlyEvaluatesInputsOnConstruction(t *testing.T) {
	t.Parallel()

	doc := baseDoc()
	doc["inputs"] = []interface{}{
		map[string]interface{}{"svc_name": "w"},
		map[string]interface{}{"$port": "8080"},
	}
	doc["services"] = []interface{}{
		map[string]interface{}{
			"name": "${svc_name}", "image": "img",
			"ports": []interface{}{"${$port}:80"},
		},
	}

	cfg, err := NewConfig(doc)
	require.NoError(t, err)

	svc, ok := cfg.Service("w")
	require.True(t, ok)
	require.Equal(t, []string{"8080:80"}, svc.Ports)
}

func TestConfigSetLazyVariableThenEvaluate(t *testing.T) {
	t.Parallel()

	doc := baseDoc()
	doc["inputs"] = []interface{}{
		map[string]interface{}{"svc_name": "w"},
		map[string]interface{}{"$port": "8080"},
	}
	doc["services"] = []interface{}{
		map[string]interface{}{
			"name": "${svc_name}", "image": "img",
			"ports": []interface{}{"${$port}:80"},
		},
	}

	cfg, err := NewConfig(doc)
	require.NoError(t, err)

	require.NoError(t, cfg.SetLazyVariable("$port", "9090"))
	cfg.Evaluate(cfg.Bindings())

	svc, _ := cfg.Service("w")
	require.Equal(t, []string{"9090:80"}, svc.Ports)

	cfg.Evaluate(cfg.Bindings())
	svc, _ = cfg.Service("w")
	require.Equal(t, []string{"9090:80"}, svc.Ports)
}

func TestConfigSetLazyVariableRejectsNonLazyKey(t *testing.T) {
	t.Parallel()

	doc := baseDoc()
	doc["inputs"] = []interface{}{
		map[string]interface{}{"svc_name": "w"},
	}

	cfg, err := NewConfig(doc)
	require.NoError(t, err)

	err = cfg.SetLazyVariable("svc_name", "other")
	var im *octoerrors.InvalidMutation
	require.ErrorAs(t, err, &im)
}
