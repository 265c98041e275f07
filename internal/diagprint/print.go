// Package diagprint renders diag.Error values as human-readable text,
// colorizing severity labels only when writing to a real terminal.
package diagprint

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/nxgtri/funxycheck/internal/config"
	"github.com/nxgtri/funxycheck/internal/diag"
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiBlue   = "\x1b[34m"
	ansiBold   = "\x1b[1m"
)

// Printer writes diag.Error values to an io.Writer, one per line, with
// colorized severity labels when Color is enabled.
type Printer struct {
	out   io.Writer
	Color bool
}

// NewPrinter wraps out for printing, auto-detecting whether to colorize
// based on the NO_COLOR convention and whether out is a real terminal (file
// descriptor probing only applies when out is an *os.File; any other writer
// gets no color, matching how a piped build log loses ANSI codes today).
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out, Color: detectColor(out)}
}

func detectColor(out io.Writer) bool {
	// An editor integration reads this output programmatically, the same
	// reason the teacher's own IsLSPMode suppresses ANSI output for its LSP
	// front-end.
	if config.IsEditorMode {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := out.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) Report(err *diag.Error) {
	label := severityLabel(err.Severity)
	if p.Color {
		label = severityColor(err.Severity) + label + ansiReset
	}
	loc := ""
	if err.Span.File != "" {
		loc = fmt.Sprintf("%s:", err.Span.File)
	}
	fmt.Fprintf(p.out, "%s%d:%d: %s [%s] %s\n", loc, err.Span.Line, err.Span.Col, label, err.Code, err.Message)
	for _, note := range err.Notes {
		fmt.Fprintf(p.out, "    note: %s\n", note)
	}
}

func (p *Printer) Trace(format string, args ...any) {
	prefix := "trace:"
	if p.Color {
		prefix = ansiBlue + prefix + ansiReset
	}
	fmt.Fprintf(p.out, "%s %s\n", prefix, fmt.Sprintf(format, args...))
}

func severityLabel(s diag.Severity) string {
	switch s {
	case diag.SeverityWarning:
		return "warning"
	case diag.SeverityNote:
		return "note"
	default:
		return "error"
	}
}

func severityColor(s diag.Severity) string {
	switch s {
	case diag.SeverityWarning:
		return ansiYellow
	case diag.SeverityNote:
		return ansiBlue
	default:
		return ansiBold + ansiRed
	}
}

var _ diag.Sink = (*Printer)(nil)
