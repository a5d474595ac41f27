package parser

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// joinAnnotation lets a blob pick its own join mode, e.g. "@join first".
const joinAnnotation = "@join"

type Parser struct {
	input string
	file  string
	join  JoinMode
}

type Option func(*Parser)

// WithJoinMode sets the join mode used when a blob carries no @join annotation.
func WithJoinMode(m JoinMode) Option {
	return func(p *Parser) {
		p.join = m
	}
}

func NewParser(input string, opts ...Option) *Parser {
	p := &Parser{
		input: strings.ReplaceAll(input, "\r\n", "\n"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func ParseFile(path string, opts ...Option) (*Group, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(string(content), path, opts...)
}

func Parse(input, filename string, opts ...Option) (*Group, error) {
	p := NewParser(input, opts...)
	p.file = filename
	return p.ParseGroup()
}

func (p *Parser) ParseGroup() (*Group, error) {
	title, bodyLine, err := p.splitTitle()
	if err != nil {
		return nil, err
	}

	join := p.joinMode(bodyLine)

	group := &Group{
		Path:  p.file,
		Title: title,
		Join:  join,
	}

	s := NewScanner(p.input, join)
	for {
		a, err := s.Next()
		if err != nil {
			return nil, p.withFile(err)
		}
		if a == nil {
			break
		}
		group.Assertions = append(group.Assertions, a)
	}

	if len(group.Assertions) == 0 {
		return nil, &ParseError{
			File:    p.file,
			Message: `no assertions found (expected lines starting with "|-")`,
		}
	}

	return group, nil
}

// splitTitle returns the first paragraph, trimmed, and the 1-based line on
// which the remaining body starts. Leading blank lines are skipped.
func (p *Parser) splitTitle() (string, int, error) {
	lines := strings.Split(p.input, "\n")

	start := 0
	for start < len(lines) && isBlank(lines[start]) {
		start++
	}
	if start == len(lines) {
		return "", 0, &ParseError{File: p.file, Message: "empty specification"}
	}

	for i := start; i < len(lines); i++ {
		if isBlank(lines[i]) {
			title := strings.TrimSpace(strings.Join(lines[start:i], "\n"))
			return title, i + 2, nil
		}
	}

	return "", 0, &ParseError{
		File:    p.file,
		Line:    start + 1,
		Message: "missing blank line after title",
	}
}

// joinMode returns the mode named by the first annotation line in the body.
// A line is an annotation only when it is exactly "@join <mode>" with a
// known mode; anything else is prose.
func (p *Parser) joinMode(bodyLine int) JoinMode {
	lines := strings.Split(p.input, "\n")
	for i := bodyLine - 1; i < len(lines); i++ {
		fields := strings.Fields(lines[i])
		if len(fields) != 2 || fields[0] != joinAnnotation {
			continue
		}
		if m, err := ParseJoinMode(fields[1]); err == nil {
			return m
		}
	}
	return p.join
}

func (p *Parser) withFile(err error) error {
	var pe *ParseError
	if errors.As(err, &pe) {
		pe.File = p.file
		return pe
	}
	return fmt.Errorf("%s: %w", p.file, err)
}

func isBlank(line string) bool {
	return strings.TrimSpace(line) == ""
}
