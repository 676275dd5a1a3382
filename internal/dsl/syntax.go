package dsl

import (
	"strconv"

	octoerrors "github.com/linview/octopus/pkg/errors"
	"gopkg.in/yaml.v3"
)

// CheckSyntax walks every mapping node in the document tree and verifies
// each key belongs to the closed keyword set (spec.md §4.1/§6.1). The
// single exception is the value of the top-level "inputs" key: its entries
// are one-entry maps `{<user-chosen-name>: <value>}`, so their keys are not
// checked. It fails with UnknownKeyword on the first violation.
func CheckSyntax(root *yaml.Node) error {
	node := root
	if node != nil && node.Kind == yaml.DocumentNode {
		if len(node.Content) == 0 {
			return nil
		}
		node = node.Content[0]
	}
	return walkSyntax(node, false, "$")
}

func walkSyntax(node *yaml.Node, exempt bool, path string) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case yaml.MappingNode:
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			valueNode := node.Content[i+1]
			key := keyNode.Value

			if !exempt && !IsValidKeyword(key) {
				return octoerrors.NewUnknownKeyword(key, path)
			}

			childExempt := exempt || (key == KWInputs && path == "$")
			childPath := path + "." + key
			if err := walkSyntax(valueNode, childExempt, childPath); err != nil {
				return err
			}
		}
	case yaml.SequenceNode:
		for idx, item := range node.Content {
			if err := walkSyntax(item, exempt, seqPath(path, idx)); err != nil {
				return err
			}
		}
	}

	return nil
}

func seqPath(path string, idx int) string {
	return path + "[" + strconv.Itoa(idx) + "]"
}
