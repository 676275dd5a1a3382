package engine

import (
	"time"

	"github.com/linview/octopus/internal/graph"
)

// Status is a node's position in the execution state machine: pending ->
// running -> {success | failed}, or pending -> skipped. Terminal states are
// success, failed, and skipped; there is no resumption (spec.md §4.4).
type Status string

const (
	StatusPending Status = "pending"
	StatusRunning Status = "running"
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Node is the execution record the engine keeps per service and per test:
// {name, kind, status, start_ts, end_ts, error, container?, spec_ref}
// (spec.md §4.4).
type Node struct {
	Name      string
	Kind      graph.NodeKind
	Status    Status
	StartedAt time.Time
	EndedAt   time.Time
	Err       error
	Container string
	SpecRef   interface{}
}
