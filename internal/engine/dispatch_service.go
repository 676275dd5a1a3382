package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/linview/octopus/internal/runtime"
)

// dispatchService implements spec.md §4.4's service dispatch: translate the
// spec to a deploy descriptor, run it, settle, then health-check.
func (e *Engine) dispatchService(ctx context.Context, node *Node) {
	svc, ok := e.cfg.Service(node.Name)
	if !ok {
		node.Status = StatusFailed
		node.Err = fmt.Errorf("service %q not found in config", node.Name)
		return
	}
	node.SpecRef = svc

	spec := runtime.DeploySpec{
		Image:    svc.Image,
		Detached: true,
		Name:     svc.Name,
		Envs:     svc.Envs,
		Ports:    svc.Ports,
		Vols:     svc.Vols,
		Args:     svc.Args,
	}

	id, err := e.runtime.Run(ctx, spec)
	if err != nil {
		node.Status = StatusFailed
		node.Err = err
		return
	}
	node.Container = id
	globalRegistry.add(id, e.containerCleanupFunc(id))

	if e.settle > 0 {
		time.Sleep(e.settle)
	}

	healthy, err := e.runtime.Health(ctx, id)
	if err != nil {
		node.Status = StatusFailed
		node.Err = err
		return
	}
	if !healthy {
		node.Status = StatusFailed
		node.Err = fmt.Errorf("unhealthy")
		return
	}
	node.Status = StatusSuccess
}

// containerCleanupFunc closes over id and stops+removes it against the
// engine's runtime, logging (never raising) any failure. It is registered
// with the process-wide cleanup registry on successful deploy and
// unregisters itself implicitly: the registry removes an entry before
// invoking its function.
func (e *Engine) containerCleanupFunc(id string) func() {
	return func() {
		ctx := context.Background()
		if err := e.runtime.Stop(ctx, id); err != nil {
			e.warnf(ctx, "cleanup: stop %s failed: %v", id, err)
		}
		if err := e.runtime.Remove(ctx, id); err != nil {
			e.warnf(ctx, "cleanup: remove %s failed: %v", id, err)
		}
	}
}
