// Package shapes provides recursive-descent parsing for shape documents.
package shapes

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"
)

// Parser turns shape text into a Container.
//
// A Parser holds only configuration. Each call to Parse gets its own
// cursor, so a single Parser may be used by several goroutines at once.
type Parser struct {
	logger *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger used for debug tracing of the parse.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewParser creates a new Parser with default configuration.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses text with a default Parser.
func Parse(text string) (*Container, error) {
	return NewParser().Parse(text)
}

// ParseReader reads all of r and parses it.
func (p *Parser) ParseReader(r io.Reader) (*Container, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return p.Parse(string(data))
}

// Parse parses text into a Container of top-level shapes. On failure it
// returns a *ParseError and no Container.
func (p *Parser) Parse(text string) (*Container, error) {
	cur := &cursor{text: text, logger: p.logger}
	container := &Container{}

	for !cur.eof() {
		switch cur.peek() {
		case '[':
			square, err := cur.parseSquare()
			if err != nil {
				return nil, err
			}
			container.Add(square)
		case '(':
			circle, err := cur.parseCircle()
			if err != nil {
				return nil, err
			}
			container.Add(circle)
		default:
			return nil, cur.unexpected(0)
		}
	}

	p.logger.Debug("parsed shapes", "bytes", len(text), "shapes", container.Len())
	return container, nil
}

// cursor is the read position for a single parse.
type cursor struct {
	text   string
	pos    int
	depth  int
	logger *slog.Logger
}

func (c *cursor) eof() bool { return c.pos >= len(c.text) }

// peek returns the byte at the cursor. Callers check eof first.
func (c *cursor) peek() byte { return c.text[c.pos] }

// unexpected reports the character at the cursor. Bytes that do not start
// a valid UTF-8 sequence are kept as raw bytes.
func (c *cursor) unexpected(ctx Kind) *ParseError {
	r, size := utf8.DecodeRuneInString(c.text[c.pos:])
	err := unexpectedChar(ctx, r, c.pos)
	if r == utf8.RuneError && size == 1 {
		err.Byte = c.text[c.pos]
	}
	return err
}

func (c *cursor) trace(msg string, kind Kind, label string) {
	if !c.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	c.logger.Debug(msg, "kind", kind, "label", label, "offset", c.pos, "depth", c.depth)
}

// parseSquare parses '[' digits square* ']' with the cursor on '['.
func (c *cursor) parseSquare() (*Square, error) {
	c.pos++
	label, err := c.parseLabel(KindSquare)
	if err != nil {
		return nil, err
	}
	square, err := NewSquare(label)
	if err != nil {
		return nil, err
	}
	c.trace("open", KindSquare, label)
	c.depth++

	for {
		if c.eof() {
			return nil, unexpectedEOF(KindSquare, c.pos)
		}
		switch c.peek() {
		case ']':
			c.pos++
			c.depth--
			c.trace("close", KindSquare, label)
			return square, nil
		case '[':
			child, err := c.parseSquare()
			if err != nil {
				return nil, err
			}
			square.AddSquare(child)
		case '(':
			return nil, &ParseError{
				Kind:   InvalidNesting,
				Offset: c.pos,
				Char:   '(',
				Shape:  KindSquare,
				Child:  KindCircle,
			}
		default:
			return nil, c.unexpected(KindSquare)
		}
	}
}

// parseCircle parses '(' upper (square | circle)* ')' with the cursor on '('.
func (c *cursor) parseCircle() (*Circle, error) {
	c.pos++
	label, err := c.parseLabel(KindCircle)
	if err != nil {
		return nil, err
	}
	circle, err := NewCircle(label)
	if err != nil {
		return nil, err
	}
	c.trace("open", KindCircle, label)
	c.depth++

	for {
		if c.eof() {
			return nil, unexpectedEOF(KindCircle, c.pos)
		}
		var child Shape
		switch c.peek() {
		case ')':
			c.pos++
			c.depth--
			c.trace("close", KindCircle, label)
			return circle, nil
		case '[':
			square, err := c.parseSquare()
			if err != nil {
				return nil, err
			}
			child = square
		case '(':
			inner, err := c.parseCircle()
			if err != nil {
				return nil, err
			}
			child = inner
		default:
			return nil, c.unexpected(KindCircle)
		}
		if err := circle.Add(child); err != nil {
			return nil, err
		}
	}
}

// parseLabel consumes the longest run of ASCII letters and digits at the
// cursor and checks it against the label rule for kind.
func (c *cursor) parseLabel(kind Kind) (string, error) {
	start := c.pos
	for !c.eof() && isAlnum(c.peek()) {
		c.pos++
	}
	label := c.text[start:c.pos]

	if label == "" && c.eof() {
		return "", unexpectedEOF(kind, c.pos)
	}
	if !ValidLabel(kind, label) {
		return "", invalidLabel(kind, label, start)
	}
	return label, nil
}
