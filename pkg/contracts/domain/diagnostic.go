package domain

import "fmt"

// Stage identifies the pipeline stage that produced a diagnostic.
type Stage string

const (
	StageIngest    Stage = "ingest"
	StageNormalize Stage = "normalize"
	StageReconcile Stage = "reconcile"
	StageAggregate Stage = "aggregate"
	StageStore     Stage = "store"
	StageExport    Stage = "export"
)

// Diagnostic describes a row- or source-level issue that did not abort
// the run. Diagnostics are collected in order and surfaced alongside the
// successful result of each stage.
type Diagnostic struct {
	Stage  Stage  `json:"stage" db:"stage"`
	Source string `json:"source,omitempty" db:"source"`
	Row    int    `json:"row" db:"row"` // zero-based source row, -1 for source-level issues
	Reason string `json:"reason" db:"reason"`
}

// RowDiagnostic builds a row-scoped diagnostic.
func RowDiagnostic(stage Stage, source string, row int, format string, args ...any) Diagnostic {
	return Diagnostic{Stage: stage, Source: source, Row: row, Reason: fmt.Sprintf(format, args...)}
}

// SourceDiagnostic builds a source-scoped diagnostic (no row reference).
func SourceDiagnostic(stage Stage, source string, format string, args ...any) Diagnostic {
	return Diagnostic{Stage: stage, Source: source, Row: -1, Reason: fmt.Sprintf(format, args...)}
}

func (d Diagnostic) String() string {
	if d.Row < 0 {
		return fmt.Sprintf("[%s] %s: %s", d.Stage, d.Source, d.Reason)
	}
	return fmt.Sprintf("[%s] %s row %d: %s", d.Stage, d.Source, d.Row, d.Reason)
}
