package dsl

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidHTTPMethod(t *testing.T) {
	t.Parallel()

	cases := []struct {
		method string
		want   bool
	}{
		{"GET", true},
		{"POST", true},
		{"PUT", true},
		{"DELETE", true},
		{"PATCH", true},
		{"CONNECT", false},
		{"", false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ValidHTTPMethod(tc.method), tc.method)
	}
}

func TestIsSupportedVersion(t *testing.T) {
	t.Parallel()

	require.True(t, IsSupportedVersion("0.1.0"))
	require.False(t, IsSupportedVersion("9.9.9"))
}

func TestIsValidKeyword(t *testing.T) {
	t.Parallel()

	require.True(t, IsValidKeyword(KWServices))
	require.True(t, IsValidKeyword(KWDependsOn))
	require.False(t, IsValidKeyword("timeout"))
}

func TestRunnerFieldsCoverEveryMode(t *testing.T) {
	t.Parallel()

	for _, mode := range []TestMode{ModeShell, ModeHTTP, ModeGRPC, ModePytest, ModeDocker} {
		require.NotEmpty(t, RunnerFields[mode], mode)
	}
}

func TestExpectFieldsCoverEveryMode(t *testing.T) {
	t.Parallel()

	for _, mode := range []TestMode{ModeShell, ModeHTTP, ModeGRPC, ModePytest, ModeDocker} {
		require.NotEmpty(t, ExpectFields[mode], mode)
	}
}
