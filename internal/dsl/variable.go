package dsl

import (
	"fmt"
	"regexp"
	"strings"

	octoerrors "github.com/linview/octopus/pkg/errors"
)

// Variable is a single named input binding. A Variable is lazy when its key
// begins with the sigil "$"; only lazy variables may be reassigned after
// construction.
type Variable struct {
	key   string
	value string
}

// NewVariable constructs a Variable from its document key/value pair.
func NewVariable(key, value string) *Variable {
	return &Variable{key: key, value: value}
}

// Key returns the variable's immutable name.
func (v *Variable) Key() string { return v.key }

// Value returns the variable's current value.
func (v *Variable) Value() string { return v.value }

// IsLazy reports whether the variable's key begins with "$".
func (v *Variable) IsLazy() bool {
	return strings.HasPrefix(v.key, "$")
}

// SetValue reassigns the variable's value. It fails with InvalidMutation
// unless the variable is lazy.
func (v *Variable) SetValue(newValue string) error {
	if !v.IsLazy() {
		return octoerrors.NewInvalidMutation(v.key, "cannot reassign value to non-lazy variable")
	}
	v.value = newValue
	return nil
}

// Equal reports key/value equality between two variables.
func (v *Variable) Equal(other *Variable) bool {
	if v == nil || other == nil {
		return v == other
	}
	return v.key == other.key && v.value == other.value
}

func (v *Variable) String() string {
	return fmt.Sprintf("%s: %s", v.key, v.value)
}

var substitutionPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Evaluator substitutes `${key}` occurrences found inside string leaves of
// an arbitrary scalar/list/map structure with the matching binding's string
// value. Unknown keys and non-matching substrings are left untouched.
type Evaluator struct{}

// NewEvaluator constructs an Evaluator. It is stateless; one instance may be
// shared across calls.
func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// EvaluateValue substitutes every `${key}` occurrence in value when value is
// a string; any other type is returned unchanged.
func (e *Evaluator) EvaluateValue(value interface{}, bindings map[string]string) interface{} {
	s, ok := value.(string)
	if !ok {
		return value
	}
	return substitutionPattern.ReplaceAllStringFunc(s, func(match string) string {
		key := substitutionPattern.FindStringSubmatch(match)[1]
		if bound, present := bindings[key]; present {
			return bound
		}
		return match
	})
}

// EvaluateDict substitutes every string leaf of data in place, recursing
// into nested maps and slices.
func (e *Evaluator) EvaluateDict(data map[string]interface{}, bindings map[string]string) {
	for key, value := range data {
		switch v := value.(type) {
		case map[string]interface{}:
			e.EvaluateDict(v, bindings)
		case []interface{}:
			e.EvaluateCollection(v, bindings)
		default:
			data[key] = e.EvaluateValue(value, bindings)
		}
	}
}

// EvaluateCollection substitutes every string leaf of collection in place.
// collection must be a map[string]interface{} or []interface{}; any other
// type is a no-op.
func (e *Evaluator) EvaluateCollection(collection interface{}, bindings map[string]string) {
	switch v := collection.(type) {
	case map[string]interface{}:
		e.EvaluateDict(v, bindings)
	case []interface{}:
		for i, item := range v {
			switch item.(type) {
			case map[string]interface{}, []interface{}:
				e.EvaluateCollection(item, bindings)
			default:
				v[i] = e.EvaluateValue(item, bindings)
			}
		}
	}
}
