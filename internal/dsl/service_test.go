package dsl

import (
	"testing"

	octoerrors "github.com/linview/octopus/pkg/errors"
	"github.com/stretchr/testify/require"
)

func serviceFields() map[string]interface{} {
	return map[string]interface{}{
		"name":  "${svc_name}",
		"image": "nginx:latest",
		"ports": []interface{}{"${$port}:80"},
		"next":  []interface{}{"b"},
	}
}

func TestNewServiceSpecRequiresName(t *testing.T) {
	t.Parallel()

	_, err := NewServiceSpec(map[string]interface{}{"image": "nginx"})

	var mf *octoerrors.MissingField
	require.ErrorAs(t, err, &mf)
	require.Equal(t, "name", mf.Field)
}

func TestNewServiceSpecRequiresImage(t *testing.T) {
	t.Parallel()

	_, err := NewServiceSpec(map[string]interface{}{"name": "web"})

	var mf *octoerrors.MissingField
	require.ErrorAs(t, err, &mf)
	require.Equal(t, "image", mf.Field)
}

func TestServiceSpecEvaluateSubstitutesBindings(t *testing.T) {
	t.Parallel()

	s, err := NewServiceSpec(serviceFields())
	require.NoError(t, err)
	require.Equal(t, "${svc_name}", s.Name)

	bindings := map[string]string{"svc_name": "w", "$port": "8080"}
	s.Evaluate(bindings)
	require.Equal(t, "w", s.Name)
	require.Equal(t, []string{"8080:80"}, s.Ports)
}

func TestServiceSpecEvaluateIsIdempotentAcrossLazyReassignment(t *testing.T) {
	t.Parallel()

	s, err := NewServiceSpec(serviceFields())
	require.NoError(t, err)

	s.Evaluate(map[string]string{"svc_name": "w", "$port": "8080"})
	require.Equal(t, []string{"8080:80"}, s.Ports)

	s.Evaluate(map[string]string{"svc_name": "w", "$port": "9090"})
	require.Equal(t, []string{"9090:80"}, s.Ports)

	s.Evaluate(map[string]string{"svc_name": "w", "$port": "9090"})
	require.Equal(t, []string{"9090:80"}, s.Ports)
}
