package dsl

import (
	"fmt"
	"strings"

	octoerrors "github.com/linview/octopus/pkg/errors"
)

// Runner is the executable form of a test: one of five tagged variants, each
// capable of rendering itself to a command string (spec.md §6.2).
type Runner interface {
	Kind() TestMode
	RenderCommand() string
}

// ShellRunner executes an argv sequence directly.
type ShellRunner struct {
	Cmd []string
}

func (r *ShellRunner) Kind() TestMode { return ModeShell }

func (r *ShellRunner) RenderCommand() string {
	return strings.Join(r.Cmd, " ")
}

// ResultParser is implemented by runner variants whose expectation requires
// interpreting the subprocess output rather than a plain exit-code/stdout
// check. http and grpc matching is mode-specific and left to the runner
// adapter (spec.md §4.4 test dispatch, step 3); the engine calls ParseResult
// to recover a status and a response body before comparing against Expect.
type ResultParser interface {
	ParseResult(stdout, stderr string) (status, response string)
}

// StatusProbe is implemented by runner variants whose primary rendered
// command (spec.md §6.2) carries no machine-readable status, so the engine
// needs a second, status-only invocation to recover one. ProbeCommand must
// never appear in place of RenderCommand's output; it exists purely so the
// dispatcher can launch it separately and use its trimmed stdout directly as
// the observed status (spec.md §9 open question 3).
type StatusProbe interface {
	ProbeCommand() string
}

// HTTPRunner issues a curl request.
type HTTPRunner struct {
	Header   string
	Method   HTTPMethod
	Payload  string
	Endpoint string
}

func (r *HTTPRunner) Kind() TestMode { return ModeHTTP }

// RenderCommand follows spec.md §6.2's fixed http format exactly: curl, then
// optionally -H, then -X METHOD, then -d when applicable, then the endpoint.
// Nothing else is appended, so this string is safe to log, display, or
// compare against verbatim.
func (r *HTTPRunner) RenderCommand() string {
	parts := []string{"curl"}
	if r.Header != "" {
		parts = append(parts, "-H", fmt.Sprintf("'%s'", r.Header))
	}
	method := r.Method
	if method == "" {
		method = MethodGET
	}
	parts = append(parts, "-X", string(method))
	if r.Payload != "" && method != MethodGET && method != MethodDELETE {
		parts = append(parts, "-d", fmt.Sprintf("'%s'", r.Payload))
	}
	parts = append(parts, fmt.Sprintf("'%s'", r.Endpoint))
	return strings.Join(parts, " ")
}

// ProbeCommand renders a second, status-only curl invocation (discarding the
// body, writing just the HTTP status code) so the engine can recover
// status_code without folding anything into RenderCommand's fixed format.
func (r *HTTPRunner) ProbeCommand() string {
	parts := []string{"curl", "-s", "-o", "/dev/null", "-w", "'%{http_code}'"}
	if r.Header != "" {
		parts = append(parts, "-H", fmt.Sprintf("'%s'", r.Header))
	}
	method := r.Method
	if method == "" {
		method = MethodGET
	}
	parts = append(parts, "-X", string(method))
	if r.Payload != "" && method != MethodGET && method != MethodDELETE {
		parts = append(parts, "-d", fmt.Sprintf("'%s'", r.Payload))
	}
	parts = append(parts, fmt.Sprintf("'%s'", r.Endpoint))
	return strings.Join(parts, " ")
}

// ParseResult treats curl's entire stdout as the response body; status_code
// is recovered separately via ProbeCommand, not by parsing this output.
func (r *HTTPRunner) ParseResult(stdout, stderr string) (status, response string) {
	return "", stdout
}

// GRPCRunner issues a grpcurl request.
type GRPCRunner struct {
	Proto    string
	Function string
	Endpoint string
	Payload  string
}

func (r *GRPCRunner) Kind() TestMode { return ModeGRPC }

func (r *GRPCRunner) RenderCommand() string {
	parts := []string{"grpcurl"}
	if r.Proto != "" {
		parts = append(parts, "-proto", r.Proto)
	}
	parts = append(parts, "-d", fmt.Sprintf("'%s'", r.Payload))
	parts = append(parts, "-plaintext", r.Endpoint)
	parts = append(parts, r.Function)
	return strings.Join(parts, " ")
}

// ParseResult treats grpcurl's entire stdout as the response body; grpc has
// no separate status_code field (spec.md §3 Expectation table), exit_code
// alone carries the call's success/failure.
func (r *GRPCRunner) ParseResult(stdout, stderr string) (status, response string) {
	return "", stdout
}

// PytestRunner invokes pytest against a root directory with extra args.
type PytestRunner struct {
	RootDir  string
	TestArgs []string
}

func (r *PytestRunner) Kind() TestMode { return ModePytest }

func (r *PytestRunner) RenderCommand() string {
	parts := []string{"pytest"}
	if r.RootDir != "" {
		parts = append(parts, "--rootdir", r.RootDir)
	}
	parts = append(parts, r.TestArgs...)
	return strings.Join(parts, " ")
}

// DockerRunner runs a command inside an already-deployed container.
type DockerRunner struct {
	CntrName string
	Cmd      []string
}

func (r *DockerRunner) Kind() TestMode { return ModeDocker }

func (r *DockerRunner) RenderCommand() string {
	parts := append([]string{"docker", "exec", r.CntrName}, r.Cmd...)
	return strings.Join(parts, " ")
}

// NewRunner builds the Runner variant matching mode from a field map decoded
// from the document's runner section. It fails with MissingField if a
// required field (per RunnerFields) is absent, and rejects an http method
// outside the five supported ones.
func NewRunner(mode TestMode, fields map[string]interface{}) (Runner, error) {
	required, ok := RunnerFields[mode]
	if !ok {
		return nil, fmt.Errorf("unsupported test mode: %s", mode)
	}
	for _, f := range required {
		if _, present := fields[f]; !present {
			return nil, octoerrors.NewMissingField(fmt.Sprintf("runner[%s]", mode), f)
		}
	}

	switch mode {
	case ModeShell:
		return &ShellRunner{Cmd: stringSlice(fields["cmd"])}, nil
	case ModeHTTP:
		if method := stringValue(fields["method"]); !ValidHTTPMethod(method) {
			return nil, fmt.Errorf("unsupported http method: %s", method)
		}
		return &HTTPRunner{
			Header:   stringValue(fields["header"]),
			Method:   HTTPMethod(stringValue(fields["method"])),
			Payload:  stringValue(fields["payload"]),
			Endpoint: stringValue(fields["endpoint"]),
		}, nil
	case ModeGRPC:
		return &GRPCRunner{
			Proto:    stringValue(fields["proto"]),
			Function: stringValue(fields["function"]),
			Endpoint: stringValue(fields["endpoint"]),
			Payload:  stringValue(fields["payload"]),
		}, nil
	case ModePytest:
		return &PytestRunner{
			RootDir:  stringValue(fields["root_dir"]),
			TestArgs: stringSlice(fields["test_args"]),
		}, nil
	case ModeDocker:
		return &DockerRunner{
			CntrName: stringValue(fields["cntr_name"]),
			Cmd:      stringSlice(fields["cmd"]),
		}, nil
	default:
		return nil, fmt.Errorf("unsupported test mode: %s", mode)
	}
}

// runnerShapeOrder lists modes in most-specific-first order so overlapping
// field shapes disambiguate correctly — docker's {cntr_name, cmd} is a
// superset of shell's {cmd}, so docker must be tried first.
var runnerShapeOrder = []TestMode{ModeDocker, ModeHTTP, ModeGRPC, ModePytest, ModeShell}

// inferRunnerKind classifies a raw runner field map by which mode's required
// fields it actually satisfies, independent of any declared mode — the Go
// equivalent of the original's pydantic smart-union resolution over the five
// runner models (original_source/octopus/dsl/dsl_test.py's
// validate_runner_type). It reports false if the shape matches none of them.
func inferRunnerKind(fields map[string]interface{}) (TestMode, bool) {
	for _, mode := range runnerShapeOrder {
		if hasAllFields(fields, RunnerFields[mode]) {
			return mode, true
		}
	}
	return "", false
}

func hasAllFields(fields map[string]interface{}, required []string) bool {
	for _, f := range required {
		if _, present := fields[f]; !present {
			return false
		}
	}
	return true
}

func stringValue(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func stringSlice(v interface{}) []string {
	switch vv := v.(type) {
	case []string:
		return vv
	case []interface{}:
		out := make([]string, 0, len(vv))
		for _, item := range vv {
			out = append(out, stringValue(item))
		}
		return out
	default:
		return nil
	}
}
