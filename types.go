// Package shapes defines the core data structures for shape parsing.
package shapes

// Kind identifies one of the two shape variants.
type Kind int

const (
	KindSquare Kind = iota + 1
	KindCircle
)

// String returns the lowercase name of the kind.
func (k Kind) String() string {
	switch k {
	case KindSquare:
		return "square"
	case KindCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// Shape is a labeled node in a parsed tree. The set of implementations is
// closed: only *Square and *Circle satisfy it.
type Shape interface {
	Label() string
	Kind() Kind
	isShape()
}

// Square is a shape with a digit-only label. It holds only other squares.
type Square struct {
	label   string
	squares []*Square
}

// NewSquare returns a Square for label, or an InvalidLabel error if label
// is not a non-empty run of ASCII digits.
func NewSquare(label string) (*Square, error) {
	if !ValidLabel(KindSquare, label) {
		return nil, invalidLabel(KindSquare, label, -1)
	}
	return &Square{label: label}, nil
}

func (s *Square) Label() string { return s.label }
func (s *Square) Kind() Kind    { return KindSquare }
func (s *Square) isShape()      {}

// Squares returns the nested squares in source order.
func (s *Square) Squares() []*Square { return s.squares }

// AddSquare appends a nested square.
func (s *Square) AddSquare(child *Square) {
	s.squares = append(s.squares, child)
}

// Add appends shape if it is a square and fails with InvalidNesting
// otherwise.
func (s *Square) Add(shape Shape) error {
	child, ok := shape.(*Square)
	if !ok || child == nil {
		return invalidNesting(KindSquare, shape, -1)
	}
	s.AddSquare(child)
	return nil
}

// Circle is a shape with an uppercase-letter label. It holds squares and
// circles in any order.
type Circle struct {
	label  string
	shapes []Shape
}

// NewCircle returns a Circle for label, or an InvalidLabel error if label
// is not a non-empty run of ASCII uppercase letters.
func NewCircle(label string) (*Circle, error) {
	if !ValidLabel(KindCircle, label) {
		return nil, invalidLabel(KindCircle, label, -1)
	}
	return &Circle{label: label}, nil
}

func (c *Circle) Label() string { return c.label }
func (c *Circle) Kind() Kind    { return KindCircle }
func (c *Circle) isShape()      {}

// Shapes returns the nested shapes in source order.
func (c *Circle) Shapes() []Shape { return c.shapes }

// Add appends a nested square or circle.
func (c *Circle) Add(shape Shape) error {
	switch child := shape.(type) {
	case *Square:
		if child == nil {
			return invalidNesting(KindCircle, shape, -1)
		}
	case *Circle:
		if child == nil {
			return invalidNesting(KindCircle, shape, -1)
		}
	default:
		return invalidNesting(KindCircle, shape, -1)
	}
	c.shapes = append(c.shapes, shape)
	return nil
}

// Container holds the top-level shapes of one parse. The zero value is an
// empty container ready to use.
type Container struct {
	shapes []Shape
}

// Add appends a top-level shape.
func (c *Container) Add(shape Shape) {
	c.shapes = append(c.shapes, shape)
}

// Shapes returns the top-level shapes in source order. A nil container has
// none.
func (c *Container) Shapes() []Shape {
	if c == nil {
		return nil
	}
	return c.shapes
}

// Len returns the number of top-level shapes.
func (c *Container) Len() int { return len(c.Shapes()) }

// ValidLabel reports whether label is well formed for kind: one or more
// ASCII digits for squares, one or more ASCII uppercase letters for
// circles.
func ValidLabel(kind Kind, label string) bool {
	if label == "" {
		return false
	}
	for i := 0; i < len(label); i++ {
		switch kind {
		case KindSquare:
			if !isDigit(label[i]) {
				return false
			}
		case KindCircle:
			if !isUpper(label[i]) {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func isDigit(b byte) bool { return '0' <= b && b <= '9' }
func isUpper(b byte) bool { return 'A' <= b && b <= 'Z' }
func isLower(b byte) bool { return 'a' <= b && b <= 'z' }
func isAlnum(b byte) bool { return isDigit(b) || isUpper(b) || isLower(b) }
