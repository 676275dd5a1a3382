// Package runtime defines the container-runtime contract Octopus's engine
// drives service nodes through (spec.md §4.5). The concrete daemon adapter is
// explicitly out of scope; this package carries the interface, the deploy
// descriptor shape, and an in-memory fake used by engine tests.
package runtime

import (
	"context"
	"fmt"
	"sync"

	octoerrors "github.com/linview/octopus/pkg/errors"
)

// DeploySpec is the effective deploy descriptor the engine builds from a
// service spec before calling Run (spec.md §6.3): image, detached mode,
// container name, environment list, port-map list, volume-map list, and
// extra args.
type DeploySpec struct {
	Image    string
	Detached bool
	Name     string
	Envs     []string
	Ports    []string
	Vols     []string
	Args     []string
}

// ContainerRuntime is the external contract the engine deploys services
// through: run/start/stop/pause/remove/logs/health/inspect on named
// containers. Any operation may fail with a RuntimeError.
type ContainerRuntime interface {
	Run(ctx context.Context, spec DeploySpec) (string, error)
	Start(ctx context.Context, id string) error
	Stop(ctx context.Context, id string) error
	Pause(ctx context.Context, id string) error
	Remove(ctx context.Context, id string) error
	Logs(ctx context.Context, id string) ([]string, error)
	Health(ctx context.Context, id string) (bool, error)
	Inspect(ctx context.Context, id string) (map[string]string, error)
}

// FakeRuntime is an in-memory ContainerRuntime for engine tests. A container
// is reported healthy while it is running, unless its id is listed in
// Unhealthy.
type FakeRuntime struct {
	mu         sync.Mutex
	containers map[string]*fakeContainer
	seq        int

	// Unhealthy marks container ids that Health should report false for.
	Unhealthy map[string]bool
	// FailOn, if set, makes the named operation fail for the given id; for
	// "run" the key is the deploy name, since no id exists yet.
	FailOn map[string]string
}

type fakeContainer struct {
	spec    DeploySpec
	running bool
	removed bool
}

// NewFakeRuntime builds an empty FakeRuntime.
func NewFakeRuntime() *FakeRuntime {
	return &FakeRuntime{
		containers: make(map[string]*fakeContainer),
		Unhealthy:  make(map[string]bool),
		FailOn:     make(map[string]string),
	}
}

func (r *FakeRuntime) shouldFail(id, op string) bool {
	return r.FailOn[id] == op
}

// Run registers a new container under a deterministic id derived from the
// deploy name, so tests can assert on it without a real daemon.
func (r *FakeRuntime) Run(ctx context.Context, spec DeploySpec) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	id := fmt.Sprintf("%s-%d", spec.Name, r.seq)
	if r.shouldFail(spec.Name, "run") {
		return "", octoerrors.NewRuntimeError("run", spec.Name, fmt.Errorf("simulated run failure"))
	}
	r.containers[id] = &fakeContainer{spec: spec, running: true}
	return id, nil
}

// Start marks a container running.
func (r *FakeRuntime) Start(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.containers[id]
	if !ok {
		return octoerrors.NewRuntimeError("start", id, fmt.Errorf("unknown container"))
	}
	if r.shouldFail(id, "start") {
		return octoerrors.NewRuntimeError("start", id, fmt.Errorf("simulated start failure"))
	}
	c.running = true
	return nil
}

// Stop marks a container stopped.
func (r *FakeRuntime) Stop(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.containers[id]
	if !ok {
		return octoerrors.NewRuntimeError("stop", id, fmt.Errorf("unknown container"))
	}
	if r.shouldFail(id, "stop") {
		return octoerrors.NewRuntimeError("stop", id, fmt.Errorf("simulated stop failure"))
	}
	c.running = false
	return nil
}

// Pause is a no-op against the fake, matching the contract's shape.
func (r *FakeRuntime) Pause(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.containers[id]; !ok {
		return octoerrors.NewRuntimeError("pause", id, fmt.Errorf("unknown container"))
	}
	return nil
}

// Remove deletes the container record.
func (r *FakeRuntime) Remove(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.containers[id]
	if !ok {
		return octoerrors.NewRuntimeError("remove", id, fmt.Errorf("unknown container"))
	}
	if r.shouldFail(id, "remove") {
		return octoerrors.NewRuntimeError("remove", id, fmt.Errorf("simulated remove failure"))
	}
	c.removed = true
	delete(r.containers, id)
	return nil
}

// Logs returns a single synthetic line; the fake does not capture output.
func (r *FakeRuntime) Logs(ctx context.Context, id string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.containers[id]; !ok {
		return nil, octoerrors.NewRuntimeError("logs", id, fmt.Errorf("unknown container"))
	}
	return []string{fmt.Sprintf("fake log line for %s", id)}, nil
}

// Health reports whether the container is running and not listed in
// Unhealthy. It fails with a RuntimeError when FailOn[id] is "health".
func (r *FakeRuntime) Health(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.containers[id]
	if !ok {
		return false, octoerrors.NewRuntimeError("health", id, fmt.Errorf("unknown container"))
	}
	if r.shouldFail(id, "health") {
		return false, octoerrors.NewRuntimeError("health", id, fmt.Errorf("simulated health failure"))
	}
	return c.running && !r.Unhealthy[id], nil
}

// Inspect returns the deploy spec's image and name as a key-value map.
func (r *FakeRuntime) Inspect(ctx context.Context, id string) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.containers[id]
	if !ok {
		return nil, octoerrors.NewRuntimeError("inspect", id, fmt.Errorf("unknown container"))
	}
	return map[string]string{"id": id, "image": c.spec.Image, "name": c.spec.Name}, nil
}
