package engine

import (
	"context"
	"testing"

	"github.com/linview/octopus/internal/dsl"
	"github.com/linview/octopus/internal/subproc"
	"github.com/stretchr/testify/require"
)

// routedLauncher returns a different canned result per exact command string,
// so a test can tell the primary rendered command apart from a runner's
// secondary status probe.
type routedLauncher struct {
	byCommand map[string]subproc.Result
}

func (r routedLauncher) Launch(ctx context.Context, command string) (subproc.Result, error) {
	res, ok := r.byCommand[command]
	if !ok {
		return subproc.Result{}, nil
	}
	return res, nil
}

func engineWithLauncher(launcher subproc.Launcher) *Engine {
	return &Engine{launcher: launcher}
}

func TestCompareExpectationShellExitCodeAndStdoutContains(t *testing.T) {
	t.Parallel()

	exitCode := "0"
	stdout := "ready"
	expect := &dsl.Expectation{Mode: dsl.ModeShell, ExitCode: &exitCode, Stdout: &stdout}
	result := subproc.Result{ExitCode: 0, Stdout: "service is ready now"}

	e := engineWithLauncher(stubLauncher{})
	require.NoError(t, e.compareExpectation(context.Background(), dsl.ModeShell, &dsl.ShellRunner{}, expect, result))
}

func TestCompareExpectationShellExitCodeMismatch(t *testing.T) {
	t.Parallel()

	exitCode := "0"
	expect := &dsl.Expectation{Mode: dsl.ModeShell, ExitCode: &exitCode}
	result := subproc.Result{ExitCode: 1}

	e := engineWithLauncher(stubLauncher{})
	require.Error(t, e.compareExpectation(context.Background(), dsl.ModeShell, &dsl.ShellRunner{}, expect, result))
}

func TestCompareExpectationShellStdoutMismatch(t *testing.T) {
	t.Parallel()

	exitCode := "0"
	stdout := "unexpected-marker"
	expect := &dsl.Expectation{Mode: dsl.ModeShell, ExitCode: &exitCode, Stdout: &stdout}
	result := subproc.Result{ExitCode: 0, Stdout: "nope"}

	e := engineWithLauncher(stubLauncher{})
	require.Error(t, e.compareExpectation(context.Background(), dsl.ModeShell, &dsl.ShellRunner{}, expect, result))
}

func TestCompareExpectationPytestIgnoresStreams(t *testing.T) {
	t.Parallel()

	exitCode := "0"
	expect := &dsl.Expectation{Mode: dsl.ModePytest, ExitCode: &exitCode}
	result := subproc.Result{ExitCode: 0, Stdout: "noise", Stderr: "more noise"}

	e := engineWithLauncher(stubLauncher{})
	require.NoError(t, e.compareExpectation(context.Background(), dsl.ModePytest, &dsl.PytestRunner{}, expect, result))
}

// TestCompareExpectationHTTPProbesStatusSeparately covers the fixed path:
// the primary command's stdout is the response body, and status_code comes
// from launching the runner's separate ProbeCommand, never from parsing the
// primary stdout.
func TestCompareExpectationHTTPProbesStatusSeparately(t *testing.T) {
	t.Parallel()

	runner := &dsl.HTTPRunner{Endpoint: "http://svc/health"}
	status := "200"
	response := "ok"
	expect := &dsl.Expectation{Mode: dsl.ModeHTTP, StatusCode: &status, Response: &response}
	result := subproc.Result{ExitCode: 0, Stdout: "{\"status\":\"ok\"}"}

	e := engineWithLauncher(routedLauncher{byCommand: map[string]subproc.Result{
		runner.ProbeCommand(): {ExitCode: 0, Stdout: "200"},
	}})
	require.NoError(t, e.compareExpectation(context.Background(), dsl.ModeHTTP, runner, expect, result))
}

func TestCompareExpectationHTTPStatusMismatch(t *testing.T) {
	t.Parallel()

	runner := &dsl.HTTPRunner{Endpoint: "http://svc/health"}
	status := "200"
	expect := &dsl.Expectation{Mode: dsl.ModeHTTP, StatusCode: &status}
	result := subproc.Result{ExitCode: 0, Stdout: "body"}

	e := engineWithLauncher(routedLauncher{byCommand: map[string]subproc.Result{
		runner.ProbeCommand(): {ExitCode: 0, Stdout: "500"},
	}})
	require.Error(t, e.compareExpectation(context.Background(), dsl.ModeHTTP, runner, expect, result))
}

func TestCompareExpectationGRPCUsesWholeStdoutAsResponse(t *testing.T) {
	t.Parallel()

	runner := &dsl.GRPCRunner{Endpoint: "svc:9090", Function: "Ping"}
	response := "pong"
	expect := &dsl.Expectation{Mode: dsl.ModeGRPC, Response: &response}
	result := subproc.Result{ExitCode: 0, Stdout: "pong reply"}

	e := engineWithLauncher(stubLauncher{})
	require.NoError(t, e.compareExpectation(context.Background(), dsl.ModeGRPC, runner, expect, result))
}
