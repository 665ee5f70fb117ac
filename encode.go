package shapes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Node is the plain-data form of a shape, used for JSON and YAML.
//
// Example:
//
//	- kind: circle
//	  label: DOG
//	  children:
//	    - kind: square
//	      label: "15"
type Node struct {
	Kind     string `json:"kind" yaml:"kind"`
	Label    string `json:"label" yaml:"label"`
	Children []Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// ToNodes converts the container into plain nodes.
func ToNodes(c *Container) []Node {
	nodes := make([]Node, 0, c.Len())
	for _, shape := range c.Shapes() {
		nodes = append(nodes, toNode(shape))
	}
	return nodes
}

func toNode(shape Shape) Node {
	n := Node{Kind: shape.Kind().String(), Label: shape.Label()}
	switch s := shape.(type) {
	case *Square:
		for _, child := range s.squares {
			n.Children = append(n.Children, toNode(child))
		}
	case *Circle:
		for _, child := range s.shapes {
			n.Children = append(n.Children, toNode(child))
		}
	}
	return n
}

// FromNodes rebuilds a Container from plain nodes, applying the same label
// and nesting rules as the parser.
func FromNodes(nodes []Node) (*Container, error) {
	c := &Container{}
	for i, n := range nodes {
		shape, err := fromNode(n)
		if err != nil {
			return nil, fmt.Errorf("shape %d: %w", i, err)
		}
		c.Add(shape)
	}
	return c, nil
}

func fromNode(n Node) (Shape, error) {
	switch n.Kind {
	case "square":
		square, err := NewSquare(n.Label)
		if err != nil {
			return nil, err
		}
		for i, cn := range n.Children {
			child, err := fromNode(cn)
			if err != nil {
				return nil, fmt.Errorf("child %d: %w", i, err)
			}
			if err := square.Add(child); err != nil {
				return nil, fmt.Errorf("child %d: %w", i, err)
			}
		}
		return square, nil
	case "circle":
		circle, err := NewCircle(n.Label)
		if err != nil {
			return nil, err
		}
		for i, cn := range n.Children {
			child, err := fromNode(cn)
			if err != nil {
				return nil, fmt.Errorf("child %d: %w", i, err)
			}
			if err := circle.Add(child); err != nil {
				return nil, fmt.Errorf("child %d: %w", i, err)
			}
		}
		return circle, nil
	default:
		return nil, fmt.Errorf("unknown shape kind %q", n.Kind)
	}
}

// EncodeJSON writes the container as a JSON array of nodes.
func EncodeJSON(w io.Writer, c *Container, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(ToNodes(c))
}

// EncodeYAML writes the container as a YAML sequence of nodes.
func EncodeYAML(w io.Writer, c *Container) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(ToNodes(c)); err != nil {
		return err
	}
	return enc.Close()
}

// DecodeJSON reads a JSON array of nodes and rebuilds the container. The
// array must be the only value in r.
func DecodeJSON(r io.Reader) (*Container, error) {
	dec := json.NewDecoder(r)
	var nodes []Node
	if err := dec.Decode(&nodes); err != nil {
		return nil, fmt.Errorf("decode json: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("decode json: trailing data after node array")
	}
	return FromNodes(nodes)
}

// DecodeYAML reads a YAML sequence of nodes and rebuilds the container.
// Empty input yields an empty container; more than one document is an
// error.
func DecodeYAML(r io.Reader) (*Container, error) {
	dec := yaml.NewDecoder(r)
	var nodes []Node
	if err := dec.Decode(&nodes); err != nil {
		if err == io.EOF {
			return &Container{}, nil
		}
		return nil, fmt.Errorf("decode yaml: %w", err)
	}
	var extra yaml.Node
	if err := dec.Decode(&extra); err != io.EOF {
		return nil, errors.New("decode yaml: multiple documents")
	}
	return FromNodes(nodes)
}
