package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

var (
	colorError   = lipgloss.Color("#EF4444") // Red
	colorSuccess = lipgloss.Color("#10B981") // Emerald
	colorMuted   = lipgloss.Color("#6B7280") // Gray
)

// consoleReporter prints diagnostics and run summaries to a terminal.
// It implements DiagnosticSink.
type consoleReporter struct {
	out io.Writer // success summaries
	err io.Writer // diagnostics and failure summaries

	kindStyle    lipgloss.Style
	failStyle    lipgloss.Style
	successStyle lipgloss.Style
	mutedStyle   lipgloss.Style
}

// newConsoleReporter styles output for stdout and stderr according to the
// color mode: "always" forces true color, "never" strips all escapes and
// "auto" asks the terminal.
func newConsoleReporter(stdout, stderr io.Writer, color string) *consoleReporter {
	outRenderer := newRenderer(stdout, color)
	errRenderer := newRenderer(stderr, color)
	return &consoleReporter{
		out:          stdout,
		err:          stderr,
		kindStyle:    errRenderer.NewStyle().Foreground(colorError).Bold(true),
		failStyle:    errRenderer.NewStyle().Foreground(colorError),
		successStyle: outRenderer.NewStyle().Foreground(colorSuccess),
		mutedStyle:   errRenderer.NewStyle().Foreground(colorMuted),
	}
}

func newRenderer(w io.Writer, color string) *lipgloss.Renderer {
	r := lipgloss.NewRenderer(w)
	switch color {
	case "always":
		r.SetColorProfile(termenv.TrueColor)
	case "never":
		r.SetColorProfile(termenv.Ascii)
	default:
		if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
			r.SetColorProfile(termenv.Ascii)
		}
	}
	return r
}

// Report prints "<Kind>: <message> at line <n>".
func (c *consoleReporter) Report(d Diagnostic) {
	where := ""
	if d.Line > 0 {
		where = c.mutedStyle.Render(fmt.Sprintf(" at line %d", d.Line))
	}
	fmt.Fprintf(c.err, "%s: %s%s\n", c.kindStyle.Render(string(d.Kind)), d.Message, where)
}

// Success prints the summary of a run that produced a program.
func (c *consoleReporter) Success(message string, elapsed time.Duration) {
	fmt.Fprintf(c.out, "%s: %s, job executed in %dms\n", c.successStyle.Render("Success"), message, elapsed.Milliseconds())
}

// Failure prints the summary of a run that stopped at a diagnostic.
func (c *consoleReporter) Failure(message string, elapsed time.Duration) {
	fmt.Fprintf(c.err, "%s: %s, job executed in %dms\n", c.failStyle.Render("Error"), message, elapsed.Milliseconds())
}
