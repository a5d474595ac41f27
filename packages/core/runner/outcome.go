package runner

import "github.com/abdul-hamid-achik/tickspec/packages/core/parser"

type Outcome int

const (
	OutcomeSuccess Outcome = iota
	OutcomeFailure
)

func (o Outcome) OK() bool {
	return o == OutcomeSuccess
}

func (o Outcome) String() string {
	if o == OutcomeSuccess {
		return "success"
	}
	return "failure"
}

// Decide succeeds iff every assertion of every group is true. No groups at
// all is a success.
func Decide(groups []*parser.Group) Outcome {
	for _, g := range groups {
		if !g.Passed() {
			return OutcomeFailure
		}
	}
	return OutcomeSuccess
}

type Summary struct {
	Groups     int
	Assertions int
	Passed     int
	Failed     int
	// Mismatched counts failing assertions whose token was neither true nor false.
	Mismatched int
}

func Summarize(groups []*parser.Group) Summary {
	s := Summary{Groups: len(groups)}
	for _, g := range groups {
		for _, a := range g.Assertions {
			s.Assertions++
			if a.Value {
				s.Passed++
				continue
			}
			s.Failed++
			if a.Mismatch() {
				s.Mismatched++
			}
		}
	}
	return s
}
