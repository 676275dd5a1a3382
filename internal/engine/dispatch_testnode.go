package engine

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/linview/octopus/internal/dsl"
	"github.com/linview/octopus/internal/subproc"
)

// dispatchTest implements spec.md §4.4's test dispatch: render the runner's
// command, launch it, then compare the observed result against the test's
// expectation.
func (e *Engine) dispatchTest(ctx context.Context, node *Node) {
	test, ok := e.cfg.Test(node.Name)
	if !ok {
		node.Status = StatusFailed
		node.Err = fmt.Errorf("test %q not found in config", node.Name)
		return
	}
	node.SpecRef = test

	command := test.Runner.RenderCommand()
	result, err := e.launcher.Launch(ctx, command)
	if err != nil {
		node.Status = StatusFailed
		node.Err = err
		return
	}

	if err := e.compareExpectation(ctx, test.Mode, test.Runner, test.Expect, result); err != nil {
		node.Status = StatusFailed
		node.Err = err
		return
	}
	node.Status = StatusSuccess
}

// compareExpectation implements the mode-scoped comparison rules spec.md
// §4.4 lists: shell/docker check exit code plus (when set) stdout/stderr
// containment; pytest checks exit code alone; http/grpc hand the raw
// output to the runner's own ResultParser before comparing status/response.
func (e *Engine) compareExpectation(ctx context.Context, mode dsl.TestMode, runner dsl.Runner, expect *dsl.Expectation, result subproc.Result) error {
	switch mode {
	case dsl.ModeShell, dsl.ModeDocker:
		return compareExitCodeAndStreams(expect, result)
	case dsl.ModePytest:
		return compareExitCode(expect, result)
	case dsl.ModeHTTP, dsl.ModeGRPC:
		return e.compareParsedResult(ctx, runner, expect, result)
	default:
		return fmt.Errorf("unsupported test mode %q", mode)
	}
}

func compareExitCodeAndStreams(expect *dsl.Expectation, result subproc.Result) error {
	if err := compareExitCode(expect, result); err != nil {
		return err
	}
	if expect.Stdout != nil && *expect.Stdout != "" && !strings.Contains(result.Stdout, *expect.Stdout) {
		return fmt.Errorf("stdout mismatch: expected to contain %q, got %q", *expect.Stdout, result.Stdout)
	}
	if expect.Stderr != nil && *expect.Stderr != "" && !strings.Contains(result.Stderr, *expect.Stderr) {
		return fmt.Errorf("stderr mismatch: expected to contain %q, got %q", *expect.Stderr, result.Stderr)
	}
	return nil
}

func compareExitCode(expect *dsl.Expectation, result subproc.Result) error {
	if expect.ExitCode == nil {
		return nil
	}
	observed := strconv.Itoa(result.ExitCode)
	if observed != *expect.ExitCode {
		return fmt.Errorf("exit code mismatch: expected %s, got %s", *expect.ExitCode, observed)
	}
	return nil
}

// compareParsedResult recovers status/response from the primary command's
// output via ResultParser, then, for runners whose fixed rendered command
// carries no status (StatusProbe), launches a second status-only command
// and uses its output instead — never by reparsing the primary stdout.
func (e *Engine) compareParsedResult(ctx context.Context, runner dsl.Runner, expect *dsl.Expectation, result subproc.Result) error {
	status, response := "", result.Stdout
	if parser, ok := runner.(dsl.ResultParser); ok {
		status, response = parser.ParseResult(result.Stdout, result.Stderr)
	}
	if prober, ok := runner.(dsl.StatusProbe); ok {
		probeResult, err := e.launcher.Launch(ctx, prober.ProbeCommand())
		if err != nil {
			return err
		}
		status = strings.TrimSpace(probeResult.Stdout)
	}
	if expect.StatusCode != nil && *expect.StatusCode != "" && status != *expect.StatusCode {
		return fmt.Errorf("status code mismatch: expected %s, got %s", *expect.StatusCode, status)
	}
	if expect.Response != nil && *expect.Response != "" && !strings.Contains(response, *expect.Response) {
		return fmt.Errorf("response mismatch: expected to contain %q, got %q", *expect.Response, response)
	}
	return nil
}
