// Package graph builds Octopus's typed multigraph over services and tests
// and derives execution plans from it (spec.md §4.3).
package graph

import (
	"context"
	"fmt"
	"sort"

	"github.com/linview/octopus/internal/dsl"
	"github.com/linview/octopus/internal/logger"
	octoerrors "github.com/linview/octopus/pkg/errors"
)

// EdgeType is one of the four relationship kinds the multigraph carries.
type EdgeType string

const (
	EdgeNext      EdgeType = "next"
	EdgeDependsOn EdgeType = "depends_on"
	EdgeTrigger   EdgeType = "trigger"
	EdgeNeeds     EdgeType = "needs"
)

// AllEdgeTypes is the universe SetAllowedEdgeTypes validates against.
var AllEdgeTypes = []EdgeType{EdgeNext, EdgeDependsOn, EdgeTrigger, EdgeNeeds}

func isKnownEdgeType(t EdgeType) bool {
	for _, known := range AllEdgeTypes {
		if known == t {
			return true
		}
	}
	return false
}

// NodeKind distinguishes a service node from a test node.
type NodeKind string

const (
	KindService NodeKind = "service"
	KindTest    NodeKind = "test"
)

// Edge is a single (src, dst, type) triple in the full multigraph.
type Edge struct {
	From string
	To   string
	Type EdgeType
}

// Config is the duck-typed capability interface the graph manager accepts,
// rewritten from the source's structural ConfigProtocol (spec.md §9): two
// read-only accessors and two name-check predicates. *dsl.Config implements
// it directly.
type Config interface {
	ServiceList() []*dsl.ServiceSpec
	TestList() []*dsl.TestSpec
	IsValidService(name string) bool
	IsValidTest(name string) bool
}

// Manager builds the full multigraph from a Config and computes filtered
// subgraphs, DAG checks, topological orders, and execution plans over it.
// It holds a non-owning, read-only reference to Config (spec.md §3
// Ownership).
type Manager struct {
	cfg   Config
	log   *logger.Logger
	kinds map[string]NodeKind
	out   map[string][]Edge

	allowed map[EdgeType]bool
}

// NewManager builds the full graph from cfg's services and tests. log may
// be nil. It fails with UnknownReference if a service's trigger names a
// non-existent test or a test's needs names a non-existent service; a
// dangling next/depends_on reference is logged and skipped rather than
// failing construction (spec.md §4.3).
func NewManager(cfg Config, log *logger.Logger) (*Manager, error) {
	m := &Manager{
		cfg:     cfg,
		log:     log,
		kinds:   make(map[string]NodeKind),
		out:     make(map[string][]Edge),
		allowed: map[EdgeType]bool{EdgeNext: true, EdgeTrigger: true},
	}
	if err := m.build(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) build() error {
	for _, s := range m.cfg.ServiceList() {
		m.kinds[s.Name] = KindService
	}
	for _, t := range m.cfg.TestList() {
		m.kinds[t.Name] = KindTest
	}

	for _, s := range m.cfg.ServiceList() {
		for _, next := range s.Next {
			if m.kinds[next] != KindService {
				m.warnf("service %q next references non-existent service %q", s.Name, next)
				continue
			}
			m.addEdge(s.Name, next, EdgeNext)
		}

		for _, dep := range s.DependsOn {
			if m.kinds[dep] != KindService {
				m.warnf("service %q depends on non-existent service %q", s.Name, dep)
				continue
			}
			// depends_on is inverted: the prerequisite points to the
			// dependent, matching execution order.
			m.addEdge(dep, s.Name, EdgeDependsOn)
		}

		for _, testName := range s.Trigger {
			if !m.cfg.IsValidTest(testName) {
				return octoerrors.NewUnknownReference(s.Name, "trigger", testName)
			}
			m.addEdge(s.Name, testName, EdgeTrigger)
		}
	}

	for _, t := range m.cfg.TestList() {
		for _, svcName := range t.Needs {
			if !m.cfg.IsValidService(svcName) {
				return octoerrors.NewUnknownReference(t.Name, "needs", svcName)
			}
			m.addEdge(t.Name, svcName, EdgeNeeds)
		}
	}

	return nil
}

func (m *Manager) addEdge(from, to string, edgeType EdgeType) {
	m.out[from] = append(m.out[from], Edge{From: from, To: to, Type: edgeType})
}

func (m *Manager) warnf(format string, args ...interface{}) {
	if m.log == nil {
		return
	}
	m.log.Warn(context.Background(), fmt.Sprintf(format, args...))
}

// NodeKind reports the kind of a node in the full graph, or "" if unknown.
func (m *Manager) NodeKind(name string) (NodeKind, bool) {
	k, ok := m.kinds[name]
	return k, ok
}

// AllowedEdgeTypes returns the current allowed-edge-type set used when
// computing a subgraph, sorted for determinism.
func (m *Manager) AllowedEdgeTypes() []EdgeType {
	types := make([]EdgeType, 0, len(m.allowed))
	for t := range m.allowed {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// SetAllowedEdgeTypes replaces the allowed-edge-type set used for subgraph
// computation. It fails with InvalidEdgeType if any entry falls outside
// AllEdgeTypes.
func (m *Manager) SetAllowedEdgeTypes(types []EdgeType) error {
	for _, t := range types {
		if !isKnownEdgeType(t) {
			return octoerrors.NewInvalidEdgeType(string(t))
		}
	}
	next := make(map[EdgeType]bool, len(types))
	for _, t := range types {
		next[t] = true
	}
	m.allowed = next
	return nil
}
