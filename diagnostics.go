package snc

import (
	"fmt"

	"go.uber.org/multierr"
)

// Phase names a stage of the pipeline, used only for labeling
// diagnostics (spec.md §7 enumerates these among its error kinds:
// I/O, lex, parse, semantic and codegen).
type Phase int

const (
	PhaseIO Phase = iota
	PhaseLex
	PhaseParse
	PhaseSemantic
	PhaseCodegen
)

func (p Phase) String() string {
	switch p {
	case PhaseIO:
		return "io"
	case PhaseLex:
		return "lex"
	case PhaseParse:
		return "parse"
	case PhaseSemantic:
		return "semantic"
	case PhaseCodegen:
		return "codegen"
	default:
		return "unknown"
	}
}

// Diagnostic is spec.md §4.4.4's single error shape, generalized to
// every phase: {line, filename, message}.
type Diagnostic struct {
	Phase    Phase
	Filename string
	Line     int
	Message  string
}

func (d Diagnostic) Error() string {
	if d.Filename != "" {
		return fmt.Sprintf("%s:%d: %s: %s", d.Filename, d.Line, d.Phase, d.Message)
	}
	return fmt.Sprintf("line %d: %s: %s", d.Line, d.Phase, d.Message)
}

// DiagnosticSink accumulates diagnostics across a whole phase so the
// phase can "run to completion" (spec.md §4.4.4 / §7) instead of
// stopping at the first problem. It never silently drops anything;
// Err() folds every recorded diagnostic into one multierr chain.
type DiagnosticSink struct {
	filename string
	errs     error
	count    int
}

func NewDiagnosticSink(filename string) *DiagnosticSink {
	return &DiagnosticSink{filename: filename}
}

// Report records a diagnostic without aborting the calling phase.
func (s *DiagnosticSink) Report(phase Phase, line int, format string, args ...any) {
	d := Diagnostic{
		Phase:    phase,
		Filename: s.filename,
		Line:     line,
		Message:  fmt.Sprintf(format, args...),
	}
	s.errs = multierr.Append(s.errs, d)
	s.count++
}

// HasErrors reports whether any diagnostic was recorded.
func (s *DiagnosticSink) HasErrors() bool { return s.count > 0 }

// Count returns the number of diagnostics recorded so far.
func (s *DiagnosticSink) Count() int { return s.count }

// Err returns nil if no diagnostics were recorded, or the combined
// multierr chain otherwise.
func (s *DiagnosticSink) Err() error { return s.errs }

// Diagnostics returns the flattened list of individual diagnostics.
func (s *DiagnosticSink) Diagnostics() []Diagnostic {
	errs := multierr.Errors(s.errs)
	out := make([]Diagnostic, 0, len(errs))
	for _, e := range errs {
		if d, ok := e.(Diagnostic); ok {
			out = append(out, d)
		}
	}
	return out
}

// CodegenError is a fatal code-generation error value (spec.md §7
// kind 6: "unsupported element type for a given array operation").
// Nothing in the generator returns it; Generate has no error result.
type CodegenError struct {
	Line    int
	Message string
}

func (e CodegenError) Error() string {
	return fmt.Sprintf("codegen: line %d: %s", e.Line, e.Message)
}
