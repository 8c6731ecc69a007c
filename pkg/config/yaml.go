package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ParseYAML parses a YAML document into a generic Value. An empty document
// yields null.
func ParseYAML(data []byte) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if doc.Kind == 0 {
		return Null(), nil
	}
	d := &nodeDecoder{
		visiting: make(map[*yaml.Node]bool),
		limit:    expansionLimit(countNodes(&doc)),
	}
	return d.fromNode(&doc)
}

const (
	// expansionRatio bounds how many values aliases may expand a document to,
	// relative to its parsed node count
	expansionRatio = 100
	minExpansion   = 10000
)

func expansionLimit(parsed int) int {
	return max(parsed*expansionRatio, minExpansion)
}

// countNodes counts the nodes of the parsed tree without following aliases
func countNodes(n *yaml.Node) int {
	count := 1
	for _, c := range n.Content {
		count += countNodes(c)
	}
	return count
}

// nodeDecoder converts a yaml.Node tree into a Value, expanding aliases.
// visiting holds the collections on the current path so an alias pointing
// back into its own ancestor is rejected instead of expanded forever.
type nodeDecoder struct {
	visiting map[*yaml.Node]bool
	produced int
	limit    int
}

func (d *nodeDecoder) fromNode(n *yaml.Node) (Value, error) {
	d.produced++
	if d.produced > d.limit {
		return Value{}, fmt.Errorf("line %d: aliases expand the document beyond %d values", n.Line, d.limit)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return d.fromNode(n.Content[0])

	case yaml.AliasNode:
		if n.Alias == nil || d.visiting[n.Alias] {
			return Value{}, fmt.Errorf("line %d: recursive alias", n.Line)
		}
		return d.fromNode(n.Alias)

	case yaml.SequenceNode:
		d.visiting[n] = true
		defer delete(d.visiting, n)
		items := make([]Value, 0, len(n.Content))
		for _, c := range n.Content {
			item, err := d.fromNode(c)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Sequence(items...), nil

	case yaml.MappingNode:
		d.visiting[n] = true
		defer delete(d.visiting, n)
		fields := make([]Field, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("line %d: mapping key must be a scalar", k.Line)
			}
			val, err := d.fromNode(v)
			if err != nil {
				return Value{}, err
			}
			fields = append(fields, Field{Key: k.Value, Value: val})
		}
		return Mapping(fields...), nil

	case yaml.ScalarNode:
		return fromScalar(n)
	}
	return Value{}, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

func fromScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		v := Number(f)
		v.text = n.Value
		return v, nil
	}
	return String(n.Value), nil
}
