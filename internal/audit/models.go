package audit

import (
	"context"

	"certifier/internal/dataset"
)

// State tracks pipeline progress. No state is re-entrant mid-run; a new
// upload starts over at StateIdle.
type State string

const (
	StateIdle      State = "idle"
	StateIngested  State = "ingested"
	StateScored    State = "scored"
	StateCertified State = "certified"
	StateLogged    State = "logged"
)

// Names of the two derived columns appended after scoring.
const (
	ColumnAnomalyScore = "Anomaly_Score"
	ColumnStatus       = "Status"
)

// Status text written into the derived column.
const (
	StatusCritical = "Critical"
	StatusVerified = "Verified"
)

// Record is one durable audit log entry. Append-only: never updated or
// deleted. Timestamp is text in "YYYY-MM-DD HH:MM:SS" form.
type Record struct {
	ID             int64
	Timestamp      string
	Filename       string
	TotalRows      int
	AnomaliesFound int
	RiskValue      float64
	User           string
	HashSignature  string
}

// Result is the request-scoped outcome of one pipeline run. It feeds the
// dashboard view-model and the export endpoints, then dies with the session.
type Result struct {
	State          State
	Filename       string
	Columns        []string
	Rows           [][]string
	Outliers       [][]string
	TargetColumn   string
	TargetIndex    int
	TargetProfile  dataset.Profile
	TotalRows      int
	AnomaliesFound int
	RiskValue      float64
	Sensitivity    float64
	Signature      string
}

// Store persists audit records. Both paths propagate storage errors; the
// transport layer decides whether to degrade.
type Store interface {
	Append(ctx context.Context, record Record) error
	// List returns records most recent first.
	List(ctx context.Context) ([]Record, error)
}
