// Package errors defines the typed error taxonomy raised across Octopus's
// configuration pipeline and execution engine.
package errors

import (
	"fmt"
	"strings"
)

// DocumentIOError wraps a failure reading or decoding the configuration
// document itself (file I/O, malformed YAML).
type DocumentIOError struct {
	Path string
	Err  error
}

func NewDocumentIOError(path string, err error) error {
	return &DocumentIOError{Path: path, Err: err}
}

func (e *DocumentIOError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("document io error: %s: %v", e.Path, e.Err)
}

func (e *DocumentIOError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// UnknownKeyword is raised by the syntax check when a mapping key falls
// outside the closed keyword set.
type UnknownKeyword struct {
	Key  string
	Path string
}

func NewUnknownKeyword(key, path string) error {
	return &UnknownKeyword{Key: key, Path: path}
}

func (e *UnknownKeyword) Error() string {
	if e == nil {
		return ""
	}
	if e.Path != "" {
		return fmt.Sprintf("unknown keyword %q at %s", e.Key, e.Path)
	}
	return fmt.Sprintf("unknown keyword %q", e.Key)
}

// UnsupportedVersion is raised by the Config constructor when the document's
// version field is not in the supported set.
type UnsupportedVersion struct {
	Version   string
	Supported []string
}

func NewUnsupportedVersion(version string, supported []string) error {
	return &UnsupportedVersion{Version: version, Supported: supported}
}

func (e *UnsupportedVersion) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("unsupported version %q (supported: %s)", e.Version, strings.Join(e.Supported, ", "))
}

// MissingField is raised by spec constructors when a required field is
// absent from the document.
type MissingField struct {
	Host  string
	Field string
}

func NewMissingField(host, field string) error {
	return &MissingField{Host: host, Field: field}
}

func (e *MissingField) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("missing field %q on %s", e.Field, e.Host)
}

// MissingExpectField is raised by Expectation construction when a mode's
// required field table names a field that was not supplied.
type MissingExpectField struct {
	Mode  string
	Field string
}

func NewMissingExpectField(mode, field string) error {
	return &MissingExpectField{Mode: mode, Field: field}
}

func (e *MissingExpectField) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("missing expect field %q for mode %q", e.Field, e.Mode)
}

// DuplicateName is raised by the Config constructor when two services or
// two tests share a name.
type DuplicateName struct {
	Kind string // "service" or "test"
	Name string
}

func NewDuplicateName(kind, name string) error {
	return &DuplicateName{Kind: kind, Name: name}
}

func (e *DuplicateName) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("duplicate %s name %q", e.Kind, e.Name)
}

// RunnerModeMismatch is raised by the test constructor when the supplied
// runner variant does not match the test's declared mode.
type RunnerModeMismatch struct {
	TestName   string
	Mode       string
	RunnerKind string
}

func NewRunnerModeMismatch(testName, mode, runnerKind string) error {
	return &RunnerModeMismatch{TestName: testName, Mode: mode, RunnerKind: runnerKind}
}

func (e *RunnerModeMismatch) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("test %q declares mode %q but runner is %q", e.TestName, e.Mode, e.RunnerKind)
}

// UnknownReference is raised when a trigger or needs edge names a node that
// does not exist — by dsl.Config construction for the real pipeline, or by
// graph construction for any other config implementation of the duck-typed
// protocol (spec.md §9).
type UnknownReference struct {
	Host      string
	Field     string
	Reference string
}

func NewUnknownReference(host, field, reference string) error {
	return &UnknownReference{Host: host, Field: field, Reference: reference}
}

func (e *UnknownReference) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("%s.%s references unknown %q", e.Host, e.Field, e.Reference)
}

// Finding is one labeled line within an aggregated SemanticCheckFailed.
type Finding struct {
	Category  string // next | depends_on | inputs
	Host      string
	Reference string
	Diagnostic string
}

func (f Finding) String() string {
	return fmt.Sprintf("%s: {%s, %s, %s}", f.Category, f.Host, f.Reference, f.Diagnostic)
}

// SemanticCheckFailed aggregates every finding from the soft, non-blocking
// semantic sub-checks (dangling next/depends_on, duplicate input keys). A
// sub-check failing never short-circuits the others. Dangling trigger/needs
// references are not aggregated here — they fail fast with UnknownReference
// at config-construction time (spec.md §8 Scenario C).
type SemanticCheckFailed struct {
	Findings []Finding
}

func NewSemanticCheckFailed(findings []Finding) error {
	if len(findings) == 0 {
		return nil
	}
	return &SemanticCheckFailed{Findings: findings}
}

func (e *SemanticCheckFailed) Error() string {
	if e == nil || len(e.Findings) == 0 {
		return "semantic check failed"
	}
	lines := make([]string, 0, len(e.Findings))
	for _, f := range e.Findings {
		lines = append(lines, f.String())
	}
	return "semantic check failed:\n" + strings.Join(lines, "\n")
}

// InvalidEdgeType is raised by the graph manager's allowed-edge-type setter
// when given a type outside the {next, depends_on, trigger, needs} universe.
type InvalidEdgeType struct {
	Type string
}

func NewInvalidEdgeType(edgeType string) error {
	return &InvalidEdgeType{Type: edgeType}
}

func (e *InvalidEdgeType) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("invalid edge type %q", e.Type)
}

// CyclicGraph is raised by topological order / plan generation when the
// filtered subgraph contains a cycle.
type CyclicGraph struct {
	Cycle []string
}

func NewCyclicGraph(cycle []string) error {
	return &CyclicGraph{Cycle: cycle}
}

func (e *CyclicGraph) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Cycle) == 0 {
		return "cyclic graph detected"
	}
	return fmt.Sprintf("cyclic graph detected: %s", strings.Join(e.Cycle, " -> "))
}

// InvalidMutation is raised by the Variable setter when a caller attempts to
// reassign a non-lazy variable's value.
type InvalidMutation struct {
	Key    string
	Reason string
}

func NewInvalidMutation(key, reason string) error {
	return &InvalidMutation{Key: key, Reason: reason}
}

func (e *InvalidMutation) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("invalid mutation of %q: %s", e.Key, e.Reason)
}

// RuntimeError wraps a container-runtime operation failure. The engine
// recovers from it locally: the affected node is marked failed and the plan
// continues.
type RuntimeError struct {
	Op        string
	Container string
	Err       error
}

func NewRuntimeError(op, container string, err error) error {
	return &RuntimeError{Op: op, Container: container, Err: err}
}

func (e *RuntimeError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("runtime error: %s(%s): %v", e.Op, e.Container, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// SubprocessError wraps a subprocess-launcher failure. The engine recovers
// from it locally, the same way it recovers from RuntimeError.
type SubprocessError struct {
	Command string
	Err     error
}

func NewSubprocessError(command string, err error) error {
	return &SubprocessError{Command: command, Err: err}
}

func (e *SubprocessError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("subprocess error: %q: %v", e.Command, e.Err)
}

func (e *SubprocessError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
