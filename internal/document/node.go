// Package document decodes the crawled subscription list into a small
// closed tree type. The input has no fixed schema, so the tree only
// distinguishes the shapes the extractor cares about.
package document

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/procgen/internal/config"
)

// Kind identifies the shape of a Node.
type Kind int

const (
	// KindNull is an empty document or an explicit null.
	KindNull Kind = iota
	// KindScalar is a single value (string, number, bool, ...).
	KindScalar
	// KindSequence is an ordered list of nodes.
	KindSequence
	// KindMapping is an ordered list of key/value entries.
	KindMapping
)

// String returns the name of the kind.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return "unknown"
	}
}

// Entry is one key/value pair of a mapping.
type Entry struct {
	Key   string
	Value Node
}

// Node is one value of a RawDocument.
// Only the fields matching Kind are meaningful.
type Node struct {
	Kind Kind

	// text, isString and zero describe a scalar.
	// zero marks false, 0 and 0.0.
	text     string
	isString bool
	zero     bool

	// Items holds sequence elements.
	Items []Node

	// Entries holds mapping entries in document order.
	Entries []Entry
}

// Null returns a null node.
func Null() Node {
	return Node{Kind: KindNull}
}

// String returns a string scalar.
func String(s string) Node {
	return Node{Kind: KindScalar, text: s, isString: true}
}

// Scalar returns a non-zero, non-string scalar such as a number or a boolean.
func Scalar(text string) Node {
	return Node{Kind: KindScalar, text: text}
}

// ZeroScalar returns a non-string scalar holding false or a numeric zero.
func ZeroScalar(text string) Node {
	return Node{Kind: KindScalar, text: text, zero: true}
}

// Sequence returns a sequence node.
func Sequence(items ...Node) Node {
	return Node{Kind: KindSequence, Items: items}
}

// Mapping returns a mapping node.
func Mapping(entries ...Entry) Node {
	return Node{Kind: KindMapping, Entries: entries}
}

// StringValue returns the text of a string scalar.
func (n Node) StringValue() (string, bool) {
	if n.Kind != KindScalar || !n.isString {
		return "", false
	}
	return n.text, true
}

// Truthy reports whether n holds a value: not null, not an empty string,
// not false or zero, and not an empty sequence or mapping.
func (n Node) Truthy() bool {
	switch n.Kind {
	case KindScalar:
		if n.isString {
			return n.text != ""
		}
		return !n.zero
	case KindSequence:
		return len(n.Items) > 0
	case KindMapping:
		return len(n.Entries) > 0
	default:
		return false
	}
}

// Lookup returns the value stored under key in a mapping.
// When a key is repeated the last occurrence wins.
func (n Node) Lookup(key string) (Node, bool) {
	if n.Kind != KindMapping {
		return Node{}, false
	}
	for i := len(n.Entries) - 1; i >= 0; i-- {
		if n.Entries[i].Key == key {
			return n.Entries[i].Value, true
		}
	}
	return Node{}, false
}

// Parse decodes a YAML or JSON document.
func Parse(data []byte) (Node, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return Node{}, fmt.Errorf("failed to parse document: %w", err)
	}
	return fromYAML(&root), nil
}

// Load reads and decodes the document at path.
// A missing file is reported as config.ErrMissingInput.
func Load(path string) (Node, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Input path is user-provided on purpose
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Node{}, fmt.Errorf("%w: %s", config.ErrMissingInput, path)
		}
		return Node{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	doc, err := Parse(data)
	if err != nil {
		return Node{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// fromYAML converts a decoded yaml.Node.
func fromYAML(y *yaml.Node) Node {
	if y == nil {
		return Null()
	}

	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return Null()
		}
		return fromYAML(y.Content[0])

	case yaml.AliasNode:
		return fromYAML(y.Alias)

	case yaml.ScalarNode:
		switch y.ShortTag() {
		case "!!null":
			return Null()
		case "!!str":
			return String(y.Value)
		default:
			if isZeroScalar(y) {
				return ZeroScalar(y.Value)
			}
			return Scalar(y.Value)
		}

	case yaml.SequenceNode:
		items := make([]Node, 0, len(y.Content))
		for _, c := range y.Content {
			items = append(items, fromYAML(c))
		}
		return Sequence(items...)

	case yaml.MappingNode:
		var m mappingBuilder
		for i := 0; i+1 < len(y.Content); i += 2 {
			key := y.Content[i]
			if key.Kind == yaml.AliasNode && key.Alias != nil {
				key = key.Alias
			}
			if key.Kind == yaml.ScalarNode && key.ShortTag() == mergeTag {
				m.merge(y.Content[i+1])
			}
		}
		for i := 0; i+1 < len(y.Content); i += 2 {
			key := y.Content[i]
			if key.Kind == yaml.AliasNode && key.Alias != nil {
				key = key.Alias
			}
			// Only scalar keys can be looked up by name.
			if key.Kind != yaml.ScalarNode || key.ShortTag() == mergeTag {
				continue
			}
			m.set(key.Value, fromYAML(y.Content[i+1]))
		}
		return Mapping(m.entries...)

	default:
		return Null()
	}
}

// mergeTag is the resolved tag of the "<<" merge key.
const mergeTag = "!!merge"

// mappingBuilder collects mapping entries. Setting a key again replaces its
// value but keeps its first position.
type mappingBuilder struct {
	entries []Entry
	index   map[string]int
}

func (m *mappingBuilder) set(key string, v Node) {
	if i, ok := m.index[key]; ok {
		m.entries[i].Value = v
		return
	}
	if m.index == nil {
		m.index = make(map[string]int)
	}
	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: v})
}

// merge applies a "<<" value: one mapping, or a sequence of mappings where
// earlier mappings override later ones. Explicit keys are set afterwards and
// override every merged key.
func (m *mappingBuilder) merge(v *yaml.Node) {
	if v.Kind == yaml.AliasNode && v.Alias != nil {
		v = v.Alias
	}
	switch v.Kind {
	case yaml.MappingNode:
		for _, e := range fromYAML(v).Entries {
			m.set(e.Key, e.Value)
		}
	case yaml.SequenceNode:
		for i := len(v.Content) - 1; i >= 0; i-- {
			sub := v.Content[i]
			if sub.Kind == yaml.AliasNode && sub.Alias != nil {
				sub = sub.Alias
			}
			if sub.Kind == yaml.MappingNode {
				m.merge(sub)
			}
		}
	}
}

// isZeroScalar reports whether a resolved non-string scalar is false or a
// numeric zero.
func isZeroScalar(y *yaml.Node) bool {
	switch y.ShortTag() {
	case "!!bool":
		var b bool
		return y.Decode(&b) == nil && !b
	case "!!int", "!!float":
		var f float64
		return y.Decode(&f) == nil && f == 0
	default:
		return false
	}
}
