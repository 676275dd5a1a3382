package dsl

import (
	octoerrors "github.com/linview/octopus/pkg/errors"
)

// Expectation is a mode-scoped assertion record a test's observed execution
// is compared against. Fields not relevant to a mode are permitted but not
// required.
type Expectation struct {
	Mode       TestMode
	ExitCode   *string
	Stdout     *string
	Stderr     *string
	StatusCode *string
	Response   *string
}

// NewExpectation constructs an Expectation for mode from a field map decoded
// from the document's expect section. It fails with MissingExpectField if
// any field required by ExpectFields[mode] is absent.
func NewExpectation(mode TestMode, fields map[string]interface{}) (*Expectation, error) {
	e := &Expectation{Mode: mode}
	e.ExitCode = optionalString(fields["exit_code"])
	e.Stdout = optionalString(fields["stdout"])
	e.Stderr = optionalString(fields["stderr"])
	e.StatusCode = optionalString(fields["status_code"])
	e.Response = optionalString(fields["response"])

	if err := e.validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// SetMode re-validates the expectation's required fields against the new
// mode's table.
func (e *Expectation) SetMode(mode TestMode) error {
	prev := e.Mode
	e.Mode = mode
	if err := e.validate(); err != nil {
		e.Mode = prev
		return err
	}
	return nil
}

func (e *Expectation) validate() error {
	required := ExpectFields[e.Mode]
	for _, field := range required {
		if e.fieldValue(field) == nil {
			return octoerrors.NewMissingExpectField(string(e.Mode), field)
		}
	}
	return nil
}

func (e *Expectation) fieldValue(field string) *string {
	switch field {
	case "exit_code":
		return e.ExitCode
	case "stdout":
		return e.Stdout
	case "stderr":
		return e.Stderr
	case "status_code":
		return e.StatusCode
	case "response":
		return e.Response
	default:
		return nil
	}
}

func optionalString(v interface{}) *string {
	if v == nil {
		return nil
	}
	s := stringValue(v)
	return &s
}
