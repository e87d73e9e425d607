package argtypes

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ConfigMapFromYAML converts a YAML mapping node into a ConfigMap, keeping
// the order in which options were written.
func ConfigMapFromYAML(node *yaml.Node) (*ConfigMap, error) {
	if node.Kind == yaml.DocumentNode && len(node.Content) == 1 {
		node = node.Content[0]
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: expected a mapping of options", node.Line)
	}

	c := NewConfigMap()
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		value, err := yamlValue(node.Content[i+1])
		if err != nil {
			return nil, fmt.Errorf("option %q: %w", key, err)
		}
		c.Set(key, value)
	}
	return c, nil
}

// UnmarshalYAML lets a ConfigMap be decoded directly from YAML.
func (c *ConfigMap) UnmarshalYAML(node *yaml.Node) error {
	parsed, err := ConfigMapFromYAML(node)
	if err != nil {
		return err
	}
	c.m = parsed.m
	return nil
}

// MarshalYAML encodes the map as a YAML mapping in key order.
func (c *ConfigMap) MarshalYAML() (any, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range c.Keys() {
		value, _ := c.Get(key)
		var child yaml.Node
		if err := child.Encode(value); err != nil {
			return nil, fmt.Errorf("option %q: %w", key, err)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: key}, &child)
	}
	return node, nil
}

func yamlValue(node *yaml.Node) (any, error) {
	switch node.Kind {
	case yaml.SequenceNode:
		items := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			v, err := yamlValue(item)
			if err != nil {
				return nil, err
			}
			items = append(items, v)
		}
		return items, nil
	case yaml.AliasNode:
		return yamlValue(node.Alias)
	default:
		var v any
		if err := node.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return v, nil
	}
}
