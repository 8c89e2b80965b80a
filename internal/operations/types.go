package operations

import (
	"time"

	"salespipe/pkg/contracts/domain"
)

// Stage identifiers.
const (
	StageIDIngest    = "ingest"
	StageIDReconcile = "reconcile"
	StageIDAggregate = "aggregate"
	StageIDStore     = "store"
	StageIDExport    = "export"
)

// Stage names for logs and reports.
const (
	StageNameIngest    = "Source Ingestion"
	StageNameReconcile = "Reconciliation"
	StageNameAggregate = "Aggregation"
	StageNameStore     = "Persistence"
	StageNameExport    = "Report Export"
)

// StageResult records the outcome of one pipeline stage.
type StageResult struct {
	StageID     string        `json:"stage_id"`
	Name        string        `json:"name"`
	Duration    time.Duration `json:"duration"`
	Diagnostics int           `json:"diagnostics"`
	Success     bool          `json:"success"`
}

// RunReport is the complete result of one pipeline run: the finalized
// aggregates, the headline summary, every diagnostic in collection order,
// and per-stage results.
type RunReport struct {
	RunID       string               `json:"run_id"`
	Aggregates  domain.AggregateSet  `json:"aggregates"`
	Summary     domain.RunSummary    `json:"summary"`
	Diagnostics []domain.Diagnostic  `json:"diagnostics"`
	Stages      []StageResult        `json:"stages"`
	StartedAt   time.Time            `json:"started_at"`
	FinishedAt  time.Time            `json:"finished_at"`
}
