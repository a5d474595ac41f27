package parser

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrMalformedSpecification is matched by every error that rejects a blob.
var ErrMalformedSpecification = errors.New("malformed specification")

// Group is the titled collection of assertions extracted from one blob.
type Group struct {
	Path       string
	Title      string
	Join       JoinMode
	Assertions []*Assertion
}

// Passed reports whether every assertion in the group holds.
func (g *Group) Passed() bool {
	for _, a := range g.Assertions {
		if !a.Value {
			return false
		}
	}
	return true
}

type Assertion struct {
	Value       bool
	Token       string
	Description string
	Line        int
}

// Mismatch reports a truth token that is neither "true" nor "false".
// Such assertions count as failing.
func (a *Assertion) Mismatch() bool {
	return a.Token != TokenTrue && a.Token != TokenFalse
}

const (
	TokenTrue  = "true"
	TokenFalse = "false"
)

type JoinMode int

const (
	// JoinAll folds every line break of a wrapped description into one space.
	JoinAll JoinMode = iota
	// JoinFirst only folds the first newline followed by a space or tab.
	JoinFirst
)

func (m JoinMode) String() string {
	switch m {
	case JoinFirst:
		return "first"
	default:
		return "all"
	}
}

// ParseJoinMode accepts "all", "first" and the "legacy" alias of "first".
func ParseJoinMode(s string) (JoinMode, error) {
	switch s {
	case "", "all":
		return JoinAll, nil
	case "first", "legacy":
		return JoinFirst, nil
	}
	return JoinAll, fmt.Errorf("unknown join mode %q (want all or first)", s)
}

type ParseError struct {
	File    string
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	loc := e.File
	if e.Line > 0 {
		pos := strconv.Itoa(e.Line)
		if e.Column > 0 {
			pos += ":" + strconv.Itoa(e.Column)
		}
		if loc == "" {
			loc = "line " + pos
		} else {
			loc += ":" + pos
		}
	}
	if loc == "" {
		return e.Message
	}
	return loc + ": " + e.Message
}

func (e *ParseError) Unwrap() error {
	return ErrMalformedSpecification
}
