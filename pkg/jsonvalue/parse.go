package jsonvalue

import (
	"errors"
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

var (
	ErrInvalidJSON = errors.New("invalid JSON document")
	ErrInvalidYAML = errors.New("invalid YAML document")
	ErrTooDeep     = errors.New("document exceeds nesting limit")
)

// HardMaxDepth bounds nesting when DecodeOptions.MaxDepth is zero.
const HardMaxDepth = 10000

const (
	// YAML alias expansion may produce at most this many nodes, or
	// yamlExpansionRatio times the source node count if that is larger.
	minYAMLExpandedNodes = 1 << 20
	yamlExpansionRatio   = 10
)

// DecodeOptions bounds decoding. MaxDepth counts nodes along the deepest
// path, the same measure as Depth; zero applies HardMaxDepth.
type DecodeOptions struct {
	MaxDepth int
}

func (o DecodeOptions) depthLimit() int {
	if o.MaxDepth > 0 && o.MaxDepth < HardMaxDepth {
		return o.MaxDepth
	}
	return HardMaxDepth
}

// Parse decodes a JSON document, keeping object member order.
// Duplicate keys keep the first position and the last value.
func Parse(data []byte) (Value, error) {
	return DecodeJSON(data, DecodeOptions{})
}

// DecodeJSON is Parse with limits. Nesting is checked in a single pass
// before the document is converted.
func DecodeJSON(data []byte, opts DecodeOptions) (Value, error) {
	limit := opts.depthLimit()
	if _, ok := bracketDepth(data, limit); !ok {
		return Value{}, fmt.Errorf("%w: more than %d levels", ErrTooDeep, limit)
	}
	if !gjson.ValidBytes(data) {
		return Value{}, ErrInvalidJSON
	}

	d := &jsonDecoder{
		iter:  jsoniter.ParseBytes(jsoniter.ConfigDefault, data),
		limit: limit,
	}
	v := d.value(1)
	if d.err != nil {
		return Value{}, d.err
	}
	if d.iter.Error != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrInvalidJSON, d.iter.Error)
	}
	return v, nil
}

// bracketDepth reports the deepest container nesting in data, giving up
// with false as soon as it passes limit. Brackets inside strings are
// ignored.
func bracketDepth(data []byte, limit int) (int, bool) {
	depth, deepest := 0, 0
	inString, escaped := false, false
	for _, c := range data {
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '[', '{':
			depth++
			if depth > deepest {
				deepest = depth
				if deepest > limit {
					return deepest, false
				}
			}
		case ']', '}':
			depth--
		}
	}
	return deepest, true
}

type jsonDecoder struct {
	iter  *jsoniter.Iterator
	limit int
	err   error
}

func (d *jsonDecoder) failed() bool {
	return d.err != nil || d.iter.Error != nil
}

func (d *jsonDecoder) value(level int) Value {
	if level > d.limit {
		d.err = fmt.Errorf("%w: more than %d levels", ErrTooDeep, d.limit)
		return Value{}
	}

	switch d.iter.WhatIsNext() {
	case jsoniter.NilValue:
		d.iter.ReadNil()
		return Null()
	case jsoniter.BoolValue:
		return Bool(d.iter.ReadBool())
	case jsoniter.NumberValue:
		// out of range numbers become infinities; only the type matters
		n, _ := strconv.ParseFloat(string(d.iter.ReadNumber()), 64)
		return Number(n)
	case jsoniter.StringValue:
		return String(d.iter.ReadString())
	case jsoniter.ArrayValue:
		var items []Value
		d.iter.ReadArrayCB(func(*jsoniter.Iterator) bool {
			items = append(items, d.value(level+1))
			return !d.failed()
		})
		return Value{kind: TypeArray, items: items}
	case jsoniter.ObjectValue:
		obj := NewObject()
		d.iter.ReadObjectCB(func(_ *jsoniter.Iterator, key string) bool {
			obj.Set(key, d.value(level+1))
			return !d.failed()
		})
		return ObjectValue(obj)
	default:
		d.err = ErrInvalidJSON
		return Value{}
	}
}

// FromYAML decodes the first YAML document in data. Mapping keys keep
// their order, aliases are expanded and merge keys are applied.
func FromYAML(data []byte) (Value, error) {
	return DecodeYAML(data, DecodeOptions{})
}

// DecodeYAML is FromYAML with limits. Alias expansion is also capped so
// a small document cannot unfold into an unbounded tree.
func DecodeYAML(data []byte, opts DecodeOptions) (Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Value{}, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return Null(), nil
	}

	root := doc.Content[0]
	d := &yamlDecoder{
		limit:  opts.depthLimit(),
		budget: max(minYAMLExpandedNodes, yamlExpansionRatio*countNodes(root)),
	}
	return d.node(root, 1, 0)
}

const maxAliasDepth = 64

type yamlDecoder struct {
	limit  int
	budget int
}

// countNodes counts the nodes written in the source, not following aliases.
func countNodes(n *yaml.Node) int {
	total := 1
	for _, child := range n.Content {
		total += countNodes(child)
	}
	return total
}

func (d *yamlDecoder) node(n *yaml.Node, level, aliases int) (Value, error) {
	if n.Kind == yaml.AliasNode {
		if aliases >= maxAliasDepth {
			return Value{}, fmt.Errorf("%w: alias chain too deep at line %d", ErrInvalidYAML, n.Line)
		}
		return d.node(n.Alias, level, aliases+1)
	}

	if level > d.limit {
		return Value{}, fmt.Errorf("%w: more than %d levels at line %d", ErrTooDeep, d.limit, n.Line)
	}
	d.budget--
	if d.budget < 0 {
		return Value{}, fmt.Errorf("%w: aliases expand to too many nodes at line %d", ErrInvalidYAML, n.Line)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Null(), nil
		}
		return d.node(n.Content[0], level, aliases)
	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, child := range n.Content {
			item, err := d.node(child, level+1, aliases)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{kind: TypeArray, items: items}, nil
	case yaml.MappingNode:
		return d.mapping(n, level, aliases)
	case yaml.ScalarNode:
		return fromScalar(n)
	default:
		return Value{}, fmt.Errorf("%w: unsupported node kind %d at line %d", ErrInvalidYAML, n.Kind, n.Line)
	}
}

// mapping converts a mapping node. Keys written in the mapping win over
// keys brought in by "<<" merges, and earlier merges win over later ones.
func (d *yamlDecoder) mapping(n *yaml.Node, level, aliases int) (Value, error) {
	obj := NewObject()

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, valueNode := n.Content[i], n.Content[i+1]

		if key.Kind == yaml.ScalarNode && key.ShortTag() == "!!merge" {
			if err := d.merge(obj, valueNode, level, aliases); err != nil {
				return Value{}, err
			}
			continue
		}

		member, err := d.node(valueNode, level+1, aliases)
		if err != nil {
			return Value{}, err
		}
		obj.Set(key.Value, member)
	}

	return ObjectValue(obj), nil
}

// merge copies the members of src, a mapping or a sequence of mappings,
// into obj where obj has no such key yet. Keys set later in the mapping
// replace merged values in place.
func (d *yamlDecoder) merge(obj *Object, src *yaml.Node, level, aliases int) error {
	target := src
	for target.Kind == yaml.AliasNode && target.Alias != nil {
		target = target.Alias
	}

	var sources []*yaml.Node
	switch target.Kind {
	case yaml.MappingNode:
		sources = []*yaml.Node{src}
	case yaml.SequenceNode:
		sources = target.Content
	default:
		return fmt.Errorf("%w: merge value at line %d is not a mapping", ErrInvalidYAML, src.Line)
	}

	for _, source := range sources {
		// merged members sit at the same level as the mapping's own keys
		merged, err := d.node(source, level, aliases)
		if err != nil {
			return err
		}
		if Classify(merged) != TypeObject {
			return fmt.Errorf("%w: merge value at line %d is not a mapping", ErrInvalidYAML, source.Line)
		}
		for _, key := range merged.Object().Keys() {
			if obj.Has(key) {
				continue
			}
			member, _ := merged.Object().Get(key)
			obj.Set(key, member)
		}
	}
	return nil
}

func fromScalar(n *yaml.Node) (Value, error) {
	switch n.ShortTag() {
	case "!!null":
		return Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
		return Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return Value{}, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
		}
		return Number(f), nil
	default:
		return String(n.Value), nil
	}
}
