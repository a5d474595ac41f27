package parser

import (
	"strings"
)

// Marker opens an assertion line.
const Marker = "|-"

type scanState int

const (
	stateSeekMarker scanState = iota
	stateReadToken
	stateReadDescription
	stateAwaitTerminator
)

func (s scanState) String() string {
	switch s {
	case stateSeekMarker:
		return "SeekMarker"
	case stateReadToken:
		return "ReadToken"
	case stateReadDescription:
		return "ReadDescription"
	case stateAwaitTerminator:
		return "AwaitTerminator"
	}
	return "Unknown"
}

// Scanner walks a blob one transition at a time and yields the marker runs
// it finds. A run starts with "|-" at the beginning of a line, optionally
// indented, and extends across lines up to the next period.
type Scanner struct {
	input  string
	pos    int
	line   int
	column int
	join   JoinMode
	state  scanState

	token       string
	desc        strings.Builder
	joined      bool
	startLine   int
	startColumn int
}

func NewScanner(input string, join JoinMode) *Scanner {
	return &Scanner{
		input:  input,
		line:   1,
		column: 1,
		join:   join,
	}
}

func (s *Scanner) eof() bool {
	return s.pos >= len(s.input)
}

func (s *Scanner) peek() byte {
	if s.eof() {
		return 0
	}
	return s.input[s.pos]
}

func (s *Scanner) advance() {
	if s.eof() {
		return
	}
	if s.input[s.pos] == '\n' {
		s.line++
		s.column = 1
	} else {
		s.column++
	}
	s.pos++
}

func (s *Scanner) skipLine() {
	for !s.eof() {
		ch := s.peek()
		s.advance()
		if ch == '\n' {
			return
		}
	}
}

func (s *Scanner) errorf(line, column int, msg string) *ParseError {
	return &ParseError{Line: line, Column: column, Message: msg}
}

// Next returns the next assertion, or nil once the input is exhausted.
func (s *Scanner) Next() (*Assertion, error) {
	for {
		if s.state == stateSeekMarker && s.eof() {
			return nil, nil
		}
		a, err := s.step()
		if err != nil {
			return nil, err
		}
		if a != nil {
			return a, nil
		}
	}
}

// step performs a single state transition.
func (s *Scanner) step() (*Assertion, error) {
	switch s.state {
	case stateSeekMarker:
		s.seekMarker()
		return nil, nil
	case stateReadToken:
		return nil, s.readToken()
	case stateReadDescription:
		return s.readDescription()
	case stateAwaitTerminator:
		return nil, s.awaitTerminator()
	}
	return nil, nil
}

// seekMarker is always entered at the start of a line.
func (s *Scanner) seekMarker() {
	for ch := s.peek(); ch == ' ' || ch == '\t'; ch = s.peek() {
		s.advance()
	}
	if strings.HasPrefix(s.input[s.pos:], Marker) {
		s.startLine, s.startColumn = s.line, s.column
		s.advance()
		s.advance()
		s.state = stateReadToken
		return
	}
	s.skipLine()
}

func (s *Scanner) readToken() error {
	if s.peek() != ' ' {
		return s.errorf(s.line, s.column, `expected a space after "|-"`)
	}
	s.advance()

	start := s.pos
	for isWordChar(s.peek()) {
		s.advance()
	}
	s.token = s.input[start:s.pos]

	if s.peek() != ' ' {
		return s.errorf(s.line, s.column, "expected a space after truth token "+quote(s.token))
	}
	s.advance()

	s.desc.Reset()
	s.joined = false
	s.state = stateReadDescription
	return nil
}

func (s *Scanner) readDescription() (*Assertion, error) {
	for {
		if s.eof() {
			return nil, s.unterminated()
		}
		switch ch := s.peek(); ch {
		case '.':
			s.advance()
			s.skipLine()
			s.state = stateSeekMarker
			return s.emit(), nil
		case '\n':
			s.advance()
			s.state = stateAwaitTerminator
			return nil, nil
		default:
			s.desc.WriteByte(ch)
			s.advance()
		}
	}
}

// awaitTerminator runs right after a line break inside a description and
// decides how the break is folded before reading resumes.
func (s *Scanner) awaitTerminator() error {
	if s.join == JoinFirst {
		if ch := s.peek(); !s.joined && (ch == ' ' || ch == '\t') {
			s.desc.WriteByte(' ')
			s.advance()
			s.joined = true
		} else {
			s.desc.WriteByte('\n')
		}
		s.state = stateReadDescription
		return nil
	}

	for {
		ch := s.peek()
		if ch != ' ' && ch != '\t' && ch != '\n' {
			break
		}
		s.advance()
	}
	if s.eof() {
		return s.unterminated()
	}
	trimmed := strings.TrimRight(s.desc.String(), " \t")
	s.desc.Reset()
	s.desc.WriteString(trimmed)
	if trimmed != "" && s.peek() != '.' {
		s.desc.WriteByte(' ')
	}
	s.state = stateReadDescription
	return nil
}

func (s *Scanner) emit() *Assertion {
	desc := s.desc.String()
	if s.join == JoinAll {
		desc = strings.TrimSpace(desc)
	}
	return &Assertion{
		Value:       s.token == TokenTrue,
		Token:       s.token,
		Description: desc,
		Line:        s.startLine,
	}
}

func (s *Scanner) unterminated() *ParseError {
	return s.errorf(s.startLine, s.startColumn, `unterminated assertion (missing "." after description)`)
}

func isWordChar(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z' || '0' <= ch && ch <= '9' || ch == '_'
}

func quote(s string) string {
	return `"` + s + `"`
}
