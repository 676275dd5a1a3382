package dsl

import (
	octoerrors "github.com/linview/octopus/pkg/errors"
)

// TestSpec is a named runnable assertion: a mode, the services it needs,
// the runner variant producing the command under test, and the expectation
// the execution's outcome is compared against. The runner variant must
// match mode; a mismatch fails with RunnerModeMismatch.
type TestSpec struct {
	Name    string
	Desc    string
	Mode    TestMode
	Needs   []string
	Runner  Runner
	Expect  *Expectation

	origin map[string]interface{}
}

// NewTestSpec builds a TestSpec from a test map decoded from the document.
// It fails with MissingField if name or mode is absent, with
// RunnerModeMismatch if the shape inferred from the runner section's fields
// names a different mode, and propagates MissingExpectField from expectation construction.
func NewTestSpec(fields map[string]interface{}) (*TestSpec, error) {
	name := stringValue(fields["name"])
	if name == "" {
		return nil, octoerrors.NewMissingField("test", "name")
	}
	mode := TestMode(stringValue(fields["mode"]))
	if mode == "" {
		return nil, octoerrors.NewMissingField("test", "mode")
	}

	runnerFields, _ := fields["runner"].(map[string]interface{})
	// The runner's actual shape is checked against the declared mode
	// independently of how NewRunner would dispatch it — NewRunner always
	// builds the type mode names, so comparing its result back against mode
	// can never disagree. A shape inferred from the fields themselves (e.g.
	// an http-shaped runner map under a test declared mode: grpc) is what
	// can actually mismatch.
	if shape, ok := inferRunnerKind(runnerFields); ok && shape != mode {
		return nil, octoerrors.NewRunnerModeMismatch(name, string(mode), string(shape))
	}

	runner, err := NewRunner(mode, runnerFields)
	if err != nil {
		return nil, err
	}

	expectFields, _ := fields["expect"].(map[string]interface{})
	expect, err := NewExpectation(mode, expectFields)
	if err != nil {
		return nil, err
	}

	t := &TestSpec{origin: deepCopyFields(fields)}
	t.Name = name
	t.Desc = stringValue(fields["desc"])
	t.Mode = mode
	t.Needs = stringSlice(fields["needs"])
	t.Runner = runner
	t.Expect = expect
	return t, nil
}

// Evaluate substitutes ${key} bindings throughout the test's scalar fields
// (desc, needs) as well as its runner's fields, restoring the construction-
// time snapshot first so repeated calls are idempotent.
func (t *TestSpec) Evaluate(bindings map[string]string) error {
	data := deepCopyFields(t.origin)
	NewEvaluator().EvaluateDict(data, bindings)

	t.Desc = stringValue(data["desc"])
	t.Needs = stringSlice(data["needs"])

	runnerFields, _ := data["runner"].(map[string]interface{})
	runner, err := NewRunner(t.Mode, runnerFields)
	if err != nil {
		return err
	}
	t.Runner = runner
	return nil
}
