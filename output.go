package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

// Format selects how a program tree is serialized.
type Format string

const (
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	FormatSExpr Format = "sexpr"
)

// ParseFormat validates a format name from flags or configuration.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatJSON, FormatYAML, FormatSExpr:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want json, yaml or sexpr)", s)
	}
}

// Report wraps a program with the metadata of the run that produced it.
type Report struct {
	RunID      string     `json:"runId" yaml:"runId"`
	Source     string     `json:"source" yaml:"source"`
	AnalyzedAt time.Time  `json:"analyzedAt" yaml:"analyzedAt"`
	Program    []*ASTNode `json:"program" yaml:"program"`
}

// NewReport stamps program with a fresh run id.
func NewReport(source string, program []*ASTNode) *Report {
	return &Report{
		RunID:      uuid.NewString(),
		Source:     source,
		AnalyzedAt: time.Now().UTC(),
		Program:    program,
	}
}

// WriteProgram serializes program to w. An empty program is written as an
// empty list rather than null.
func WriteProgram(w io.Writer, program []*ASTNode, format Format) error {
	if program == nil {
		program = []*ASTNode{}
	}
	if format == FormatSExpr {
		_, err := fmt.Fprintln(w, ProgramSExpr(program))
		return err
	}
	return encode(w, program, format)
}

// WriteReport serializes a report to w. The sexpr format has no room for
// metadata and writes the program alone.
func WriteReport(w io.Writer, r *Report, format Format) error {
	if format == FormatSExpr {
		return WriteProgram(w, r.Program, format)
	}
	if r.Program == nil {
		r.Program = []*ASTNode{}
	}
	return encode(w, r, format)
}

func encode(w io.Writer, v any, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

// writeOutput writes the analysis result as configured: to stdout when the
// path is "-", and to a file otherwise.
func writeOutput(stdout io.Writer, cfg OutputConfig, source string, program []*ASTNode) error {
	format, err := ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	if cfg.Path == "-" {
		return writeFormatted(stdout, cfg.Envelope, source, program, format)
	}

	f, err := os.Create(cfg.Path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	if err := writeFormatted(f, cfg.Envelope, source, program, format); err != nil {
		f.Close()
		os.Remove(cfg.Path)
		return fmt.Errorf("writing %s: %w", cfg.Path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", cfg.Path, err)
	}
	return nil
}

func writeFormatted(w io.Writer, envelope bool, source string, program []*ASTNode, format Format) error {
	if envelope {
		return WriteReport(w, NewReport(source, program), format)
	}
	return WriteProgram(w, program, format)
}
