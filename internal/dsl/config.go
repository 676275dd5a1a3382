package dsl

import (
	"regexp"
	"sync"

	"github.com/go-playground/validator/v10"

	octoerrors "github.com/linview/octopus/pkg/errors"
)

var (
	validatorOnce sync.Once
	validatorInst *validator.Validate

	httpMethodPattern = regexp.MustCompile(`^(GET|POST|PUT|DELETE|PATCH)$`)
)

func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New()
		_ = v.RegisterValidation("http_method", func(fl validator.FieldLevel) bool {
			return httpMethodPattern.MatchString(fl.Field().String())
		})
		validatorInst = v
	})
	return validatorInst
}

// rootFields carries the ambient, tag-level checks for Config's scalar
// fields. Cross-reference checks (names, edges) are hand-written below
// because validator tags cannot express "this name must exist in that
// other slice".
type rootFields struct {
	Version string `validate:"required"`
	Name    string `validate:"required"`
	Desc    string `validate:"required"`
}

// Config is the root configuration document: inputs, services, and tests,
// plus the derived name/variable indices spec.md §3 requires.
type Config struct {
	Version string
	Name    string
	Desc    string

	Inputs   []*Variable
	Services []*ServiceSpec
	Tests    []*TestSpec

	serviceIndex map[string]*ServiceSpec
	testIndex    map[string]*TestSpec
	varIndex     map[string]*Variable
	lazyVarIndex map[string]*Variable
}

// NewConfig builds a Config from a decoded document map (see DecodeDocument).
// It fails fast with UnsupportedVersion, MissingField, DuplicateName, or a
// constituent spec's own error. Once every service and test is loaded it
// fails fast with UnknownReference on the first dangling trigger or needs
// (spec.md §8 Scenario C), then runs the remaining aggregated semantic
// checks and fails with SemanticCheckFailed if any of those findings
// surfaced.
func NewConfig(doc map[string]interface{}) (*Config, error) {
	rf := rootFields{
		Version: stringValue(doc[KWVersion]),
		Name:    stringValue(doc[KWName]),
		Desc:    stringValue(doc[KWDesc]),
	}
	if err := validatorInstance().Struct(rf); err != nil {
		return nil, translateRootFieldsError(err, rf)
	}
	if !IsSupportedVersion(rf.Version) {
		return nil, octoerrors.NewUnsupportedVersion(rf.Version, SupportedVersions)
	}

	cfg := &Config{
		Version:      rf.Version,
		Name:         rf.Name,
		Desc:         rf.Desc,
		serviceIndex: make(map[string]*ServiceSpec),
		testIndex:    make(map[string]*TestSpec),
		varIndex:     make(map[string]*Variable),
		lazyVarIndex: make(map[string]*Variable),
	}

	if err := cfg.loadInputs(doc[KWInputs]); err != nil {
		return nil, err
	}
	if err := cfg.loadServices(doc[KWServices]); err != nil {
		return nil, err
	}
	if err := cfg.loadTests(doc[KWTests]); err != nil {
		return nil, err
	}

	if err := cfg.checkReferences(); err != nil {
		return nil, err
	}
	if err := cfg.semanticCheck(); err != nil {
		return nil, err
	}

	cfg.Evaluate(cfg.Bindings())
	return cfg, nil
}

func (c *Config) loadInputs(raw interface{}) error {
	items, _ := raw.([]interface{})
	for _, item := range items {
		pair, ok := item.(map[string]interface{})
		if !ok || len(pair) == 0 {
			continue
		}
		for key, value := range pair {
			v := NewVariable(key, stringValue(value))
			c.Inputs = append(c.Inputs, v)
			c.varIndex[key] = v
			if v.IsLazy() {
				c.lazyVarIndex[key] = v
			}
		}
	}
	return nil
}

func (c *Config) loadServices(raw interface{}) error {
	items, _ := raw.([]interface{})
	for _, item := range items {
		fields, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		svc, err := NewServiceSpec(fields)
		if err != nil {
			return err
		}
		if _, exists := c.serviceIndex[svc.Name]; exists {
			return octoerrors.NewDuplicateName("service", svc.Name)
		}
		c.Services = append(c.Services, svc)
		c.serviceIndex[svc.Name] = svc
	}
	return nil
}

func (c *Config) loadTests(raw interface{}) error {
	items, _ := raw.([]interface{})
	for _, item := range items {
		fields, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		test, err := NewTestSpec(fields)
		if err != nil {
			return err
		}
		if _, exists := c.testIndex[test.Name]; exists {
			return octoerrors.NewDuplicateName("test", test.Name)
		}
		c.Tests = append(c.Tests, test)
		c.testIndex[test.Name] = test
	}
	return nil
}

// ServiceList returns every service in document order. Part of the
// duck-typed config protocol the graph manager accepts (spec.md §9).
func (c *Config) ServiceList() []*ServiceSpec { return c.Services }

// TestList returns every test in document order. Part of the duck-typed
// config protocol the graph manager accepts (spec.md §9).
func (c *Config) TestList() []*TestSpec { return c.Tests }

// IsValidService reports whether name refers to an existing service.
func (c *Config) IsValidService(name string) bool {
	_, ok := c.serviceIndex[name]
	return ok
}

// IsValidTest reports whether name refers to an existing test.
func (c *Config) IsValidTest(name string) bool {
	_, ok := c.testIndex[name]
	return ok
}

// Service looks up a service by name.
func (c *Config) Service(name string) (*ServiceSpec, bool) {
	s, ok := c.serviceIndex[name]
	return s, ok
}

// Test looks up a test by name.
func (c *Config) Test(name string) (*TestSpec, bool) {
	t, ok := c.testIndex[name]
	return t, ok
}

// Bindings returns the current key→value map of every input variable
// (eager and lazy), suitable as the bindings argument to Evaluate.
func (c *Config) Bindings() map[string]string {
	b := make(map[string]string, len(c.Inputs))
	for _, v := range c.Inputs {
		b[v.Key()] = v.Value()
	}
	return b
}

// SetLazyVariable reassigns a lazy variable's value. It fails with
// InvalidMutation if key does not name a lazy variable.
func (c *Config) SetLazyVariable(key, value string) error {
	v, ok := c.lazyVarIndex[key]
	if !ok {
		return octoerrors.NewInvalidMutation(key, "not a registered lazy variable")
	}
	return v.SetValue(value)
}

// Evaluate substitutes bindings throughout every service and test and
// re-keys the service name index by the substituted names. It is
// idempotent: each spec restores its own construction-time snapshot before
// substituting (see ServiceSpec.Evaluate, TestSpec.Evaluate).
func (c *Config) Evaluate(bindings map[string]string) {
	c.serviceIndex = make(map[string]*ServiceSpec, len(c.Services))
	for _, s := range c.Services {
		s.Evaluate(bindings)
		c.serviceIndex[s.Name] = s
	}
	for _, t := range c.Tests {
		// Runner/expect field maps never reference lazy variables that
		// would render a previously-valid runner invalid; a failure here
		// indicates a malformed document that should have been caught at
		// construction time.
		_ = t.Evaluate(bindings)
	}
}

// checkReferences fails fast with UnknownReference the moment a service's
// trigger names a non-existent test, or a test's needs names a non-existent
// service (spec.md §8 Scenario C: "config construction fails with
// UnknownReference"). Unlike semanticCheck below, this never aggregates:
// trigger/needs point at the other half of the document (service ↔ test),
// so a dangling one means the document cannot be planned at all, not merely
// a soft warning worth collecting alongside others.
func (c *Config) checkReferences() error {
	for _, s := range c.Services {
		for _, ref := range s.Trigger {
			if !c.IsValidTest(ref) {
				return octoerrors.NewUnknownReference(s.Name, "trigger", ref)
			}
		}
	}
	for _, t := range c.Tests {
		for _, ref := range t.Needs {
			if !c.IsValidService(ref) {
				return octoerrors.NewUnknownReference(t.Name, "needs", ref)
			}
		}
	}
	return nil
}

// semanticCheck aggregates the remaining, genuinely soft findings: a
// dangling next/depends_on reference is only ever a planning-graph
// no-op (internal/graph logs and skips it, spec.md §4.3), and duplicate
// input keys never prevent a document from running. Both are reported
// together, one finding per violation, rather than failing on the first.
func (c *Config) semanticCheck() error {
	var findings []octoerrors.Finding

	for _, s := range c.Services {
		for _, ref := range s.Next {
			if !c.IsValidService(ref) {
				findings = append(findings, octoerrors.Finding{Category: "next", Host: s.Name, Reference: ref, Diagnostic: "no such service"})
			}
		}
		for _, ref := range s.DependsOn {
			if !c.IsValidService(ref) {
				findings = append(findings, octoerrors.Finding{Category: "depends_on", Host: s.Name, Reference: ref, Diagnostic: "no such service"})
			}
		}
	}

	seen := make(map[string]bool, len(c.Inputs))
	for _, v := range c.Inputs {
		if seen[v.Key()] {
			findings = append(findings, octoerrors.Finding{Category: "inputs", Host: "inputs", Reference: v.Key(), Diagnostic: "duplicate input key"})
		}
		seen[v.Key()] = true
	}

	if len(findings) == 0 {
		return nil
	}
	return octoerrors.NewSemanticCheckFailed(findings)
}

func translateRootFieldsError(err error, rf rootFields) error {
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		field := verrs[0].Field()
		switch field {
		case "Version":
			return octoerrors.NewMissingField("config", "version")
		case "Name":
			return octoerrors.NewMissingField("config", "name")
		case "Desc":
			return octoerrors.NewMissingField("config", "desc")
		}
	}
	return octoerrors.NewMissingField("config", "unknown")
}
