package dsl

import (
	"os"
	"path/filepath"
	"testing"

	octoerrors "github.com/linview/octopus/pkg/errors"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const minimalDocument = `
version: 0.1.0
name: demo
desc: demo config
services:
  - name: web
    image: nginx:latest
`

func writeTempDocument(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "octopus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadDocumentParsesValidYAML(t *testing.T) {
	t.Parallel()

	path := writeTempDocument(t, minimalDocument)
	root, err := ReadDocument(path)
	require.NoError(t, err)
	require.Equal(t, yaml.DocumentNode, root.Kind)
}

func TestReadDocumentFailsOnMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ReadDocument(filepath.Join(t.TempDir(), "does-not-exist.yaml"))

	var ioErr *octoerrors.DocumentIOError
	require.ErrorAs(t, err, &ioErr)
}

func TestReadDocumentFailsOnMalformedYAML(t *testing.T) {
	t.Parallel()

	path := writeTempDocument(t, "services: [unterminated")
	_, err := ReadDocument(path)

	var ioErr *octoerrors.DocumentIOError
	require.ErrorAs(t, err, &ioErr)
}

func TestDecodeDocumentProducesGenericMap(t *testing.T) {
	t.Parallel()

	path := writeTempDocument(t, minimalDocument)
	root, err := ReadDocument(path)
	require.NoError(t, err)

	doc, err := DecodeDocument(root)
	require.NoError(t, err)
	require.Equal(t, "demo", doc["name"])
	require.Equal(t, "0.1.0", doc["version"])
}

func TestDecodeDocumentRejectsNilNode(t *testing.T) {
	t.Parallel()

	_, err := DecodeDocument(nil)
	require.Error(t, err)
}
