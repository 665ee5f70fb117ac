package shapes

import (
	"fmt"
	"io"
	"strings"
)

// Format returns the canonical text of shape and everything nested in it.
// Parsing the result yields an identical tree.
func Format(shape Shape) string {
	var b strings.Builder
	writeShape(&b, shape)
	return b.String()
}

// String returns the canonical text of every top-level shape in order.
func (c *Container) String() string {
	var b strings.Builder
	for _, shape := range c.Shapes() {
		writeShape(&b, shape)
	}
	return b.String()
}

func writeShape(b *strings.Builder, shape Shape) {
	switch s := shape.(type) {
	case *Square:
		b.WriteByte('[')
		b.WriteString(s.label)
		for _, child := range s.squares {
			writeShape(b, child)
		}
		b.WriteByte(']')
	case *Circle:
		b.WriteByte('(')
		b.WriteString(s.label)
		for _, child := range s.shapes {
			writeShape(b, child)
		}
		b.WriteByte(')')
	}
}

// WalkFunc is called for each shape visited by Walk. Returning false skips
// the shape's children.
type WalkFunc func(shape Shape, depth int) bool

// Walk visits shape and its descendants in pre-order. The root is at
// depth 0.
func Walk(shape Shape, fn WalkFunc) {
	walk(shape, 0, fn)
}

// Walk visits every shape in the container in pre-order. Top-level shapes
// are at depth 0. Walking a nil container visits nothing.
func (c *Container) Walk(fn WalkFunc) {
	for _, shape := range c.Shapes() {
		walk(shape, 0, fn)
	}
}

func walk(shape Shape, depth int, fn WalkFunc) {
	if !fn(shape, depth) {
		return
	}
	switch s := shape.(type) {
	case *Square:
		for _, child := range s.squares {
			walk(child, depth+1, fn)
		}
	case *Circle:
		for _, child := range s.shapes {
			walk(child, depth+1, fn)
		}
	}
}

// Outline writes an indented listing of the container, one shape per line.
// A nil container writes nothing.
func Outline(w io.Writer, c *Container) error {
	var err error
	c.Walk(func(shape Shape, depth int) bool {
		if err != nil {
			return false
		}
		_, err = fmt.Fprintf(w, "%s%s %s\n", strings.Repeat("  ", depth), shape.Kind(), shape.Label())
		return true
	})
	return err
}
