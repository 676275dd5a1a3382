package dsl

import (
	octoerrors "github.com/linview/octopus/pkg/errors"
)

// ServiceSpec is a declarative container description plus its outgoing
// graph edges (next, depends_on, trigger). name is required and must be
// unique within the document (enforced by Config, not here).
type ServiceSpec struct {
	Name      string
	Desc      string
	Image     string
	Args      []string
	Envs      []string
	Ports     []string
	Vols      []string
	Next      []string
	DependsOn []string
	Trigger   []string

	origin map[string]interface{}
}

// NewServiceSpec builds a ServiceSpec from a service map decoded from the
// document. It fails with MissingField if name or image is absent, and
// snapshots the raw fields for later idempotent evaluation.
func NewServiceSpec(fields map[string]interface{}) (*ServiceSpec, error) {
	name := stringValue(fields["name"])
	if name == "" {
		return nil, octoerrors.NewMissingField("service", "name")
	}
	image := stringValue(fields["image"])
	if image == "" {
		return nil, octoerrors.NewMissingField("service", "image")
	}

	s := &ServiceSpec{origin: deepCopyFields(fields)}
	s.populate(fields)
	return s, nil
}

func (s *ServiceSpec) populate(fields map[string]interface{}) {
	s.Name = stringValue(fields["name"])
	s.Desc = stringValue(fields["desc"])
	s.Image = stringValue(fields["image"])
	s.Args = stringSlice(fields["args"])
	s.Envs = stringSlice(fields["envs"])
	s.Ports = stringSlice(fields["ports"])
	s.Vols = stringSlice(fields["vols"])
	s.Next = stringSlice(fields["next"])
	s.DependsOn = stringSlice(fields["depends_on"])
	s.Trigger = stringSlice(fields["trigger"])
}

// Evaluate substitutes ${key} bindings throughout the service's fields.
// It is idempotent: it always restores the construction-time snapshot before
// substituting, so evaluate(B1); evaluate(B2); evaluate(B1) leaves the same
// state as a single evaluate(B1).
func (s *ServiceSpec) Evaluate(bindings map[string]string) {
	data := deepCopyFields(s.origin)
	NewEvaluator().EvaluateDict(data, bindings)
	s.populate(data)
}
