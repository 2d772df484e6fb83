package roomfile

import (
	"math"
	"strconv"

	"github.com/pkg/errors"
)

// scanner reads the tokens of a single declaration line.
type scanner struct {
	input string
	pos   int
	line  int
}

func newScanner(input string, line int) *scanner {
	return &scanner{input: input, line: line}
}

func (s *scanner) errorf(format string, args ...interface{}) error {
	return errors.Errorf("line %d: "+format, append([]interface{}{s.line}, args...)...)
}

func (s *scanner) skipWhitespace() {
	for s.pos < len(s.input) {
		switch s.input[s.pos] {
		case ' ', '\t', '\r':
			s.pos++
		default:
			return
		}
	}
}

// peek returns the next non-blank character, or 0 at the end of the line.
func (s *scanner) peek() byte {
	s.skipWhitespace()
	if s.pos >= len(s.input) {
		return 0
	}
	return s.input[s.pos]
}

func (s *scanner) atEnd() bool {
	return s.peek() == 0
}

func (s *scanner) expect(ch byte, what string) error {
	if s.peek() != ch {
		return s.errorf("expected '%c' %s, found %s", ch, what, s.describeNext())
	}
	s.pos++
	return nil
}

func (s *scanner) describeNext() string {
	if s.atEnd() {
		return "end of line"
	}
	return strconv.Quote(s.input[s.pos : s.pos+1])
}

// ident reads a name made of letters and underscores.
func (s *scanner) ident() (string, error) {
	s.skipWhitespace()
	start := s.pos
	for s.pos < len(s.input) && isIdentChar(s.input[s.pos]) {
		s.pos++
	}
	if start == s.pos {
		return "", s.errorf("expected identifier, found %s", s.describeNext())
	}
	return s.input[start:s.pos], nil
}

// number reads a finite decimal number with an optional sign.
func (s *scanner) number(what string) (float64, error) {
	s.skipWhitespace()
	start := s.pos
	if s.pos < len(s.input) && (s.input[s.pos] == '-' || s.input[s.pos] == '+') {
		s.pos++
	}
	for s.pos < len(s.input) && (isDigit(s.input[s.pos]) || s.input[s.pos] == '.') {
		s.pos++
	}

	literal := s.input[start:s.pos]
	if literal == "" {
		return 0, s.errorf("expected number for %s, found %s", what, s.describeNext())
	}
	v, err := strconv.ParseFloat(literal, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, s.errorf("invalid number %q for %s", literal, what)
	}
	return v, nil
}

// size reads "WxH".
func (s *scanner) size() (w, h float64, err error) {
	if w, err = s.number("width"); err != nil {
		return 0, 0, err
	}
	if s.peek() != 'x' {
		return 0, 0, s.errorf("invalid character in size: %s", s.describeNext())
	}
	s.pos++
	if h, err = s.number("height"); err != nil {
		return 0, 0, err
	}
	if w < 0 || h < 0 {
		return 0, 0, s.errorf("size must not be negative, got %vx%v", w, h)
	}
	return w, h, nil
}

// position reads "[X, Y]", the opening bracket included.
func (s *scanner) position() (x, y float64, err error) {
	if err = s.expect('[', "to open position"); err != nil {
		return 0, 0, err
	}
	if x, err = s.number("x"); err != nil {
		return 0, 0, err
	}
	if err = s.expect(',', "in position"); err != nil {
		return 0, 0, err
	}
	if y, err = s.number("y"); err != nil {
		return 0, 0, err
	}
	if err = s.expect(']', "to close position"); err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

// attributes reads "{ key: value, ... }" and calls set for every pair.
// A key may appear only once.
func (s *scanner) attributes(set func(key string, value float64) error) error {
	if err := s.expect('{', "to open attributes"); err != nil {
		return err
	}
	if s.peek() == '}' {
		s.pos++
		return nil
	}

	seen := map[string]bool{}
	for {
		key, err := s.ident()
		if err != nil {
			return err
		}
		if seen[key] {
			return s.errorf("duplicate attribute %q", key)
		}
		seen[key] = true

		if err := s.expect(':', "after "+key); err != nil {
			return err
		}
		value, err := s.number(key)
		if err != nil {
			return err
		}
		if err := set(key, value); err != nil {
			return s.errorf("%s", err)
		}

		switch s.peek() {
		case ',':
			s.pos++
		case '}':
			s.pos++
			return nil
		default:
			return s.errorf("unexpected character in attributes: %s", s.describeNext())
		}
	}
}

func isIdentChar(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
