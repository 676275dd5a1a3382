package dsl

import (
	"fmt"
	"os"

	octoerrors "github.com/linview/octopus/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ReadDocument loads path and decodes it into a yaml.Node tree, the
// document-reader collaborator spec.md treats as external. DocumentIOError
// wraps any I/O or YAML decode failure.
func ReadDocument(path string) (*yaml.Node, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, octoerrors.NewDocumentIOError(path, err)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return nil, octoerrors.NewDocumentIOError(path, err)
	}
	return &root, nil
}

// DecodeDocument decodes a validated document node into the generic
// map[string]interface{}/[]interface{} shape the rest of internal/dsl
// operates on.
func DecodeDocument(root *yaml.Node) (map[string]interface{}, error) {
	if root == nil {
		return nil, fmt.Errorf("nil document node")
	}
	node := root
	if node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return map[string]interface{}{}, nil
		}
		node = node.Content[0]
	}

	var out map[string]interface{}
	if err := node.Decode(&out); err != nil {
		return nil, octoerrors.NewDocumentIOError("<document>", err)
	}
	return out, nil
}
