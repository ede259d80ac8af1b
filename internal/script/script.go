// Package script parses YAML operation scripts and runs them against a
// contiguous.List, recording the container state around every operation.
package script

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/slots/pkg/types"
)

// Script parsing errors.
var (
	ErrEmptyScript = errors.New("script is empty")
	ErrUnknownOp   = errors.New("unknown operation")
	ErrInvalidOp   = errors.New("invalid operation")
)

// Script is a parsed operation script. Capacity 0 means the caller's default.
type Script struct {
	Capacity    int  `yaml:"capacity"`
	StopOnError bool `yaml:"stop_on_error"`
	Ops         []Op `yaml:"ops"`
}

// Op is one script step. Value is set for insert, Position for get and remove.
type Op struct {
	Verb     string
	Value    string
	Position int
	Line     int
}

// queryVerbs take no argument and are written as bare scalars.
var queryVerbs = map[string]bool{
	types.OpSize:     true,
	types.OpCapacity: true,
	types.OpEmpty:    true,
	types.OpFull:     true,
}

// UnmarshalYAML accepts either a bare query verb ("size") or a single-key
// mapping ("insert: a", "remove: 1").
func (o *Op) UnmarshalYAML(node *yaml.Node) error {
	o.Line = node.Line

	switch node.Kind {
	case yaml.ScalarNode:
		if queryVerbs[node.Value] {
			o.Verb = node.Value
			return nil
		}
		if isArgVerb(node.Value) {
			return fmt.Errorf("%w: line %d: %q needs an argument", ErrInvalidOp, node.Line, node.Value)
		}
		return fmt.Errorf("%w: line %d: %q", ErrUnknownOp, node.Line, node.Value)

	case yaml.MappingNode:
		if len(node.Content) != 2 {
			return fmt.Errorf("%w: line %d: expected exactly one operation per step", ErrInvalidOp, node.Line)
		}
		key, val := node.Content[0], node.Content[1]
		o.Verb = key.Value

		switch o.Verb {
		case types.OpInsert:
			if val.Kind != yaml.ScalarNode {
				return fmt.Errorf("%w: line %d: insert takes a scalar value", ErrInvalidOp, val.Line)
			}
			o.Value = val.Value
			return nil
		case types.OpGet, types.OpRemove:
			if err := val.Decode(&o.Position); err != nil {
				return fmt.Errorf("%w: line %d: %s takes an integer position", ErrInvalidOp, val.Line, o.Verb)
			}
			return nil
		default:
			if queryVerbs[o.Verb] {
				return fmt.Errorf("%w: line %d: %q takes no argument", ErrInvalidOp, key.Line, o.Verb)
			}
			return fmt.Errorf("%w: line %d: %q", ErrUnknownOp, key.Line, o.Verb)
		}

	default:
		return fmt.Errorf("%w: line %d: expected a verb or a verb: argument pair", ErrInvalidOp, node.Line)
	}
}

func isArgVerb(verb string) bool {
	return verb == types.OpInsert || verb == types.OpGet || verb == types.OpRemove
}

// Parse decodes a script. Unknown top-level keys are rejected.
func Parse(data []byte) (*Script, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var s Script
	if err := dec.Decode(&s); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyScript
		}
		return nil, fmt.Errorf("parse script: %w", err)
	}
	if len(s.Ops) == 0 {
		return nil, ErrEmptyScript
	}
	return &s, nil
}

// Load reads and parses the script at path.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return Parse(data)
}
