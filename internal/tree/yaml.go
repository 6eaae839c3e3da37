package tree

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// mergeTag is the YAML tag of the "<<" merge key.
const mergeTag = "!!merge"

// FromYAML converts a parsed YAML node into a Node, keeping the key order of
// every mapping. Integer-looking mapping keys become index keys (see
// ParseKey), sequences become lists indexed from 0, and "<<" merge keys are
// expanded in place without overriding keys that are set explicitly.
func FromYAML(n *yaml.Node) (Node, error) {
	if n == nil {
		return Node{}, nil
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Node{}, nil
		}
		return FromYAML(n.Content[0])

	case yaml.AliasNode:
		return FromYAML(n.Alias)

	case yaml.MappingNode:
		t := New()
		if err := fillMapping(t, n); err != nil {
			return Node{}, err
		}
		return Of(t), nil

	case yaml.SequenceNode:
		t := New()
		for i, item := range n.Content {
			child, err := FromYAML(item)
			if err != nil {
				return Node{}, err
			}
			t.Set(Index(i), child)
		}
		return Of(t), nil

	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return Node{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return Scalar(v), nil
	}

	return Node{}, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

func fillMapping(t *Tree, n *yaml.Node) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		keyNode, valueNode := n.Content[i], n.Content[i+1]
		if keyNode.Kind == yaml.AliasNode {
			keyNode = keyNode.Alias
		}

		if keyNode.ShortTag() == mergeTag {
			if err := mergeInto(t, valueNode); err != nil {
				return err
			}
			continue
		}

		child, err := FromYAML(valueNode)
		if err != nil {
			return err
		}
		t.Set(ParseKey(keyNode.Value), child)
	}
	return nil
}

// mergeInto expands a "<<" value: a mapping, an alias to one, or a
// sequence of those. Keys already present win.
func mergeInto(t *Tree, n *yaml.Node) error {
	if n.Kind == yaml.AliasNode {
		n = n.Alias
	}

	var sources []*yaml.Node
	switch n.Kind {
	case yaml.MappingNode:
		sources = []*yaml.Node{n}
	case yaml.SequenceNode:
		for _, item := range n.Content {
			if item.Kind == yaml.AliasNode {
				item = item.Alias
			}
			sources = append(sources, item)
		}
	default:
		return fmt.Errorf("line %d: merge key requires a mapping", n.Line)
	}

	for _, src := range sources {
		if src.Kind != yaml.MappingNode {
			return fmt.Errorf("line %d: merge key requires a mapping", src.Line)
		}
		merged := New()
		if err := fillMapping(merged, src); err != nil {
			return err
		}
		for _, k := range merged.keys {
			if !t.Has(k) {
				t.Set(k, merged.values[k])
			}
		}
	}
	return nil
}

// UnmarshalYAML implements yaml.Unmarshaler. The node must be a mapping, a
// sequence or null.
func (t *Tree) UnmarshalYAML(n *yaml.Node) error {
	decoded, err := FromYAML(n)
	if err != nil {
		return err
	}
	if decoded.IsNull() {
		*t = *New()
		return nil
	}
	if !decoded.IsTree() {
		return fmt.Errorf("line %d: expected a mapping, got %s", n.Line, decoded.TypeName())
	}
	*t = *decoded.Tree()
	return nil
}

// MarshalYAML implements yaml.Marshaler. Lists with indices 0..n-1 are
// rendered as sequences, every other tree as a mapping in insertion order.
func (t *Tree) MarshalYAML() (any, error) {
	return t.yamlNode()
}

func (t *Tree) yamlNode() (*yaml.Node, error) {
	if t.Len() > 0 && t.isSequence() {
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, k := range t.keys {
			child, err := t.values[k].yamlNode()
			if err != nil {
				return nil, err
			}
			seq.Content = append(seq.Content, child)
		}
		return seq, nil
	}

	mapping := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, k := range t.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k.String()}
		if k.IsIndex() {
			keyNode.Tag = "!!int"
		}
		child, err := t.values[k].yamlNode()
		if err != nil {
			return nil, err
		}
		mapping.Content = append(mapping.Content, keyNode, child)
	}
	return mapping, nil
}

func (n Node) yamlNode() (*yaml.Node, error) {
	if n.tree != nil {
		return n.tree.yamlNode()
	}
	out := &yaml.Node{}
	if err := out.Encode(n.scalar); err != nil {
		return nil, err
	}
	return out, nil
}
