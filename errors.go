package shapes

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	UnexpectedCharacter ErrorKind = iota + 1
	InvalidLabel
	InvalidNesting
	UnexpectedEndOfInput
)

func (k ErrorKind) String() string {
	switch k {
	case UnexpectedCharacter:
		return "unexpected character"
	case InvalidLabel:
		return "invalid label"
	case InvalidNesting:
		return "invalid nesting"
	case UnexpectedEndOfInput:
		return "unexpected end of input"
	default:
		return "parse error"
	}
}

// Sentinels matched by errors.Is against any *ParseError of the same kind.
var (
	ErrUnexpectedCharacter = errors.New("unexpected character")
	ErrInvalidLabel        = errors.New("invalid label")
	ErrInvalidNesting      = errors.New("invalid nesting")
	ErrUnexpectedEOF       = errors.New("unexpected end of input")
)

// ParseError describes why a parse or a shape construction failed.
type ParseError struct {
	Kind ErrorKind

	// Offset is the byte offset into the input, or -1 when the error did
	// not come from the parser.
	Offset int

	// Char is the offending character for UnexpectedCharacter and
	// InvalidNesting.
	Char rune

	// Byte is the raw input byte when the input at Offset is not valid
	// UTF-8. Char is then utf8.RuneError.
	Byte byte

	// Shape is the kind of the enclosing shape, or of the label being
	// validated. Zero means top level.
	Shape Kind

	// Child is the rejected child kind for InvalidNesting.
	Child Kind

	// Label is the captured text for InvalidLabel.
	Label string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	switch {
	case e.Kind == UnexpectedCharacter && e.Char == utf8.RuneError && e.Byte != 0:
		fmt.Fprintf(&b, "unexpected byte 0x%02x", e.Byte)
	case e.Kind == UnexpectedCharacter:
		fmt.Fprintf(&b, "%s %q", e.Kind, e.Char)
	case e.Kind == InvalidLabel:
		fmt.Fprintf(&b, "%s %q", e.Kind, e.Label)
	default:
		b.WriteString(e.Kind.String())
	}
	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}
	switch e.Kind {
	case UnexpectedCharacter:
		if e.Shape == 0 {
			b.WriteString(": expected '[' or '('")
		} else {
			fmt.Fprintf(&b, ": invalid content inside %s", e.Shape)
		}
	case InvalidLabel:
		switch e.Shape {
		case KindSquare:
			b.WriteString(": square label must be one or more digits")
		case KindCircle:
			b.WriteString(": circle label must be one or more uppercase letters")
		}
	case InvalidNesting:
		if e.Child != 0 {
			fmt.Fprintf(&b, ": %s cannot contain %s", e.Shape, e.Child)
		} else {
			fmt.Fprintf(&b, ": unsupported child for %s", e.Shape)
		}
	case UnexpectedEndOfInput:
		if e.Shape != 0 {
			fmt.Fprintf(&b, ": unclosed %s", e.Shape)
		}
	}
	return b.String()
}

// Unwrap returns the sentinel for the error's kind.
func (e *ParseError) Unwrap() error {
	switch e.Kind {
	case UnexpectedCharacter:
		return ErrUnexpectedCharacter
	case InvalidLabel:
		return ErrInvalidLabel
	case InvalidNesting:
		return ErrInvalidNesting
	case UnexpectedEndOfInput:
		return ErrUnexpectedEOF
	default:
		return nil
	}
}

func unexpectedChar(ctx Kind, c rune, offset int) *ParseError {
	return &ParseError{Kind: UnexpectedCharacter, Offset: offset, Char: c, Shape: ctx}
}

func invalidLabel(kind Kind, label string, offset int) *ParseError {
	return &ParseError{Kind: InvalidLabel, Offset: offset, Shape: kind, Label: label}
}

func invalidNesting(parent Kind, child Shape, offset int) *ParseError {
	e := &ParseError{Kind: InvalidNesting, Offset: offset, Shape: parent}
	switch c := child.(type) {
	case *Square:
		if c != nil {
			e.Child = KindSquare
		}
	case *Circle:
		if c != nil {
			e.Child = KindCircle
		}
	}
	return e
}

func unexpectedEOF(open Kind, offset int) *ParseError {
	return &ParseError{Kind: UnexpectedEndOfInput, Offset: offset, Shape: open}
}
