package sentinel

import "errors"

// Sentinel errors for infrastructure and data facts. Stores and the ingest
// layer return these (optionally wrapped) so services can translate them into
// domain errors with HTTP codes attached.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entity does not exist in store
// - ErrNoNumericColumn: uploaded dataset carries no uniformly numeric column
// - ErrInsufficientData: fewer than two numeric rows to score
// - ErrNoCompletedRun: session has no audit result to export
var (
	ErrNotFound         = errors.New("not found")
	ErrNoNumericColumn  = errors.New("no numeric column")
	ErrInsufficientData = errors.New("insufficient data")
	ErrNoCompletedRun   = errors.New("no completed run")
)
