// Package engine walks a graph manager's execution plan, deploying services
// through the container-runtime contract and running tests through the
// subprocess launcher (spec.md §4.4).
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/linview/octopus/internal/dsl"
	"github.com/linview/octopus/internal/graph"
	"github.com/linview/octopus/internal/logger"
	"github.com/linview/octopus/internal/runtime"
	"github.com/linview/octopus/internal/subproc"
)

// defaultSettle is the suggested post-deploy settle interval before the
// first health check (spec.md §4.4, step 3).
const defaultSettle = 2 * time.Second

// Engine owns one execution node per plan entry (service or test) and walks a
// graph.Manager's plan strictly in order: single-threaded and cooperative,
// the settle sleep after deploy being the only deliberate suspension point
// (spec.md §5).
type Engine struct {
	cfg      *dsl.Config
	mgr      *graph.Manager
	runtime  runtime.ContainerRuntime
	launcher subproc.Launcher
	log      *logger.Logger
	settle   time.Duration

	plan  []string
	nodes map[string]*Node
}

// NewEngine builds an engine over cfg's services/tests and mgr's graph. It
// installs the process-wide shutdown hook (idempotent across instances) so
// deployed containers are reaped even on abnormal termination.
func NewEngine(cfg *dsl.Config, mgr *graph.Manager, rt runtime.ContainerRuntime, launcher subproc.Launcher, log *logger.Logger) *Engine {
	installShutdownHook()
	return &Engine{
		cfg:      cfg,
		mgr:      mgr,
		runtime:  rt,
		launcher: launcher,
		log:      log,
		settle:   defaultSettle,
	}
}

// SetSettleInterval overrides the default 2s post-deploy settle sleep.
func (e *Engine) SetSettleInterval(d time.Duration) {
	e.settle = d
}

// Plan returns the linear order the last Execute call walked.
func (e *Engine) Plan() []string {
	return e.plan
}

// Nodes returns the execution record for every node visited by the last
// Execute call, keyed by name.
func (e *Engine) Nodes() map[string]*Node {
	return e.nodes
}

// Execute computes the plan, walks it strictly in order dispatching each
// node on its kind, skips any node whose predecessor did not succeed, and
// unconditionally runs cleanup once the walk finishes. It returns true iff
// every plan node ended in success (spec.md §4.4).
func (e *Engine) Execute(ctx context.Context) (bool, error) {
	plan, err := e.mgr.BuildPlan()
	if err != nil {
		return false, err
	}
	e.plan = plan
	e.nodes = make(map[string]*Node, len(plan))

	sg := e.mgr.Subgraph()

	defer e.cleanup()

	for _, name := range plan {
		kind, _ := e.mgr.NodeKind(name)
		node := &Node{Name: name, Kind: kind, Status: StatusPending}
		e.nodes[name] = node

		if e.anyPredecessorNotSuccess(sg, name) {
			node.Status = StatusSkipped
			continue
		}

		node.Status = StatusRunning
		node.StartedAt = time.Now()

		switch kind {
		case graph.KindService:
			e.dispatchService(ctx, node)
		case graph.KindTest:
			e.dispatchTest(ctx, node)
		default:
			node.Status = StatusFailed
			node.Err = fmt.Errorf("node %q has unknown kind", name)
		}

		node.EndedAt = time.Now()
		e.logNodeResult(ctx, node)
	}

	for _, node := range e.nodes {
		if node.Status != StatusSuccess {
			return false, nil
		}
	}
	return true, nil
}

func (e *Engine) anyPredecessorNotSuccess(sg *graph.Subgraph, name string) bool {
	for _, pred := range sg.Predecessors(name) {
		predNode, ok := e.nodes[pred]
		if !ok {
			continue
		}
		if predNode.Status != StatusSuccess {
			return true
		}
	}
	return false
}

func (e *Engine) logNodeResult(ctx context.Context, node *Node) {
	if e.log == nil {
		return
	}
	switch node.Status {
	case StatusSuccess:
		e.log.Debug(ctx, "node completed", "name", node.Name, "status", string(node.Status))
	case StatusSkipped:
		e.log.Info(ctx, "node skipped: predecessor not successful", "name", node.Name)
	case StatusFailed:
		e.log.Error(ctx, "node failed", "name", node.Name, "error", node.Err)
	}
}

func (e *Engine) warnf(ctx context.Context, format string, args ...interface{}) {
	if e.log == nil {
		return
	}
	e.log.Warn(ctx, fmt.Sprintf(format, args...))
}

// cleanup drains the process-wide cleanup registry, which holds the
// container handles registered by every engine in this process, stopping and
// removing each in reverse creation order. Errors are logged
// but never re-raised, and the registry guarantees each handle is cleaned
// up at most once even if the shutdown hook races with it (spec.md §4.4
// Cleanup).
func (e *Engine) cleanup() {
	globalRegistry.runAll()
}
