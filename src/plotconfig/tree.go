// Package plotconfig loads the hierarchical plot configuration tree and
// resolves layered options.
//
// The tree mirrors the skin configuration shape: named sections nest three
// levels deep under ImageGenerator (time span -> plot -> line), and an option
// set at any level applies to everything beneath it unless a deeper section
// overrides it. Section order is preserved from the source document because
// plots and lines render in declaration order.
package plotconfig

import (
	"io"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Section is one named node of the configuration tree. Options hold the
// key/value pairs set directly on the section; children are the nested
// sections in declaration order.
type Section struct {
	Name     string
	parent   *Section
	options  map[string]string
	children []*Section
}

// Load parses a YAML document into a configuration tree. Mapping values
// become child sections, scalars become options, and sequences of scalars
// become comma-joined option values (split back with Options.List).
func Load(r io.Reader) (*Section, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, errors.Wrap(err, "parse config")
	}
	root := &Section{Name: "", options: map[string]string{}}
	if len(doc.Content) == 0 {
		return root, nil
	}
	if err := fillSection(root, doc.Content[0]); err != nil {
		return nil, err
	}
	return root, nil
}

func fillSection(s *Section, node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return errors.Newf("section %q: expected a mapping, got yaml kind %d", s.Name, node.Kind)
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]
		switch val.Kind {
		case yaml.MappingNode:
			child := &Section{Name: key, parent: s, options: map[string]string{}}
			if err := fillSection(child, val); err != nil {
				return err
			}
			s.children = append(s.children, child)
		case yaml.SequenceNode:
			parts := make([]string, 0, len(val.Content))
			for _, item := range val.Content {
				parts = append(parts, item.Value)
			}
			s.options[key] = strings.Join(parts, ", ")
		default:
			s.options[key] = val.Value
		}
	}
	return nil
}

// Child returns the named child section, or nil.
func (s *Section) Child(name string) *Section {
	for _, c := range s.children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Children returns the child sections in declaration order.
func (s *Section) Children() []*Section { return s.children }

// Options returns a copy of the options set directly on this section,
// without layering.
func (s *Section) Options() Options {
	out := Options{}
	for k, v := range s.options {
		out[k] = v
	}
	return out
}

// Option returns an option set directly on this section, without layering.
func (s *Section) Option(key string) (string, bool) {
	v, ok := s.options[key]
	return v, ok
}

// AccumulateLeaves resolves the full option set visible at this section:
// options from every ancestor, nearest ancestor winning, the section's own
// options winning over all. The result is a flat immutable snapshot computed
// once; later tree mutations do not show through.
func (s *Section) AccumulateLeaves() Options {
	var chain []*Section
	for n := s; n != nil; n = n.parent {
		chain = append(chain, n)
	}
	out := Options{}
	// Walk root-first so deeper sections override shallower ones.
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].options {
			out[k] = v
		}
	}
	return out
}
