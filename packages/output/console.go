package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/abdul-hamid-achik/tickspec/packages/core/parser"
	"github.com/abdul-hamid-achik/tickspec/packages/core/runner"
	"github.com/fatih/color"
)

const (
	PassGlyph = "✔"
	FailGlyph = "✖"
)

type ConsoleReporter struct {
	writer  io.Writer
	verbose bool
	noColor bool

	heading *color.Color
	pass    *color.Color
	fail    *color.Color
	warn    *color.Color
	faint   *color.Color
}

type ConsoleOption func(*ConsoleReporter)

func NewConsoleReporter(opts ...ConsoleOption) *ConsoleReporter {
	r := &ConsoleReporter{
		writer:  os.Stdout,
		heading: color.New(color.Bold, color.FgBlue),
		pass:    color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		faint:   color.New(color.Faint),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.noColor {
		for _, c := range []*color.Color{r.heading, r.pass, r.fail, r.warn, r.faint} {
			c.DisableColor()
		}
	}
	return r
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(r *ConsoleReporter) {
		r.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(r *ConsoleReporter) {
		r.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(r *ConsoleReporter) {
		r.noColor = nc
	}
}

// Report prints every group and assertion in order.
func (r *ConsoleReporter) Report(groups []*parser.Group) {
	for _, g := range groups {
		r.heading.Fprintln(r.writer, g.Title)
		if r.verbose {
			r.faint.Fprintf(r.writer, "  %s\n", g.Path)
		}

		for _, a := range g.Assertions {
			if a.Value {
				r.pass.Fprintf(r.writer, "  %s  %s\n", PassGlyph, a.Description)
				continue
			}
			r.fail.Fprintf(r.writer, "  %s  %s\n", FailGlyph, a.Description)
			if r.verbose && a.Mismatch() {
				r.warn.Fprintf(r.writer, "       unrecognised token %q at line %d\n", a.Token, a.Line)
			}
		}
	}
	fmt.Fprintln(r.writer)
}

// Summary prints the totals footer.
func (r *ConsoleReporter) Summary(s runner.Summary, d time.Duration) {
	fmt.Fprintf(r.writer, "Assertions: ")
	if s.Passed > 0 {
		fmt.Fprintf(r.writer, "%s, ", r.pass.Sprintf("%d passed", s.Passed))
	}
	if s.Failed > 0 {
		fmt.Fprintf(r.writer, "%s, ", r.fail.Sprintf("%d failed", s.Failed))
	}
	fmt.Fprintf(r.writer, "%d total\n", s.Assertions)
	fmt.Fprintf(r.writer, "Specs:      %d\n", s.Groups)
	if r.verbose {
		fmt.Fprintf(r.writer, "Time:       %dms\n", d.Milliseconds())
	}
}

func (r *ConsoleReporter) Error(err error) {
	fmt.Fprintf(r.writer, "%s %v\n", r.fail.Sprint("Error:"), err)
}
