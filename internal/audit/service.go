// Package audit runs the certification pipeline: ingest an upload, score it
// with the outlier detector, sign the flagged subset, and append one durable
// record. This is the only multi-step control flow in the system.
package audit

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	"certifier/internal/dataset"
	"certifier/internal/detect"
	"certifier/internal/platform/metrics"
	"certifier/internal/signature"
	dErrors "certifier/pkg/domain-errors"
	"certifier/pkg/sentinel"
)

// Service orchestrates one synchronous run per call. It holds no state
// between runs beyond the durable store.
type Service struct {
	store    Store
	logger   *slog.Logger
	metrics  *metrics.Metrics
	operator string
	now      func() time.Time
}

func NewService(store Store, logger *slog.Logger, m *metrics.Metrics, operator string) (*Service, error) {
	if store == nil {
		return nil, errors.New("audit store is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	return &Service{
		store:    store,
		logger:   logger,
		metrics:  m,
		operator: operator,
		now:      time.Now,
	}, nil
}

// Run executes the full pipeline: Idle -> Ingested -> Scored -> Certified ->
// Logged. The store append happens only after detection and signing both
// succeed, so a failed run leaves no partial record. Re-running the same
// file appends a fresh record, but an identical outlier set always carries
// an identical signature.
func (s *Service) Run(ctx context.Context, filename string, upload io.Reader, sensitivity float64) (*Result, error) {
	start := s.now()

	// Idle -> Ingested
	ds, err := dataset.Parse(filename, upload)
	if err != nil {
		s.fail(ctx, StateIdle, filename, err)
		return nil, dErrors.Wrap(dErrors.CodeBadRequest, "could not parse uploaded file", err)
	}

	// Ingested -> Scored
	target, targetIdx, values, err := ds.TargetColumn()
	if err != nil {
		s.fail(ctx, StateIngested, filename, err)
		return nil, dErrors.Wrap(dErrors.CodeUnprocessable, "dataset has no numeric column", err)
	}

	cfg := detect.DefaultConfig()
	cfg.Contamination = sensitivity
	labels, err := detect.New(cfg).FitLabel(values)
	if err != nil {
		s.fail(ctx, StateIngested, filename, err)
		if errors.Is(err, sentinel.ErrInsufficientData) {
			return nil, dErrors.Wrap(dErrors.CodeUnprocessable, "dataset has too few rows to score", err)
		}
		return nil, dErrors.Wrap(dErrors.CodeInternal, "detector failed", err)
	}

	scoreCol := make([]string, len(labels))
	statusCol := make([]string, len(labels))
	for i, label := range labels {
		if label == detect.Outlier {
			scoreCol[i] = "-1"
			statusCol[i] = StatusCritical
		} else {
			scoreCol[i] = "1"
			statusCol[i] = StatusVerified
		}
	}
	if err := ds.AppendColumn(ColumnAnomalyScore, scoreCol); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "annotation failed", err)
	}
	if err := ds.AppendColumn(ColumnStatus, statusCol); err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "annotation failed", err)
	}

	var outliers [][]string
	var exposure float64
	for i, label := range labels {
		if label == detect.Outlier {
			outliers = append(outliers, ds.Rows[i])
			exposure += values[i]
		}
	}

	// Scored -> Certified. The signature is computed exactly once here and
	// threaded into both the persisted record and the rendered report, so
	// the two can never diverge.
	sig := signature.Sum(outliers)

	result := &Result{
		State:          StateCertified,
		Filename:       filename,
		Columns:        ds.Columns,
		Rows:           ds.Rows,
		Outliers:       outliers,
		TargetColumn:   target,
		TargetIndex:    targetIdx,
		TargetProfile:  dataset.ProfileOf(values),
		TotalRows:      len(ds.Rows),
		AnomaliesFound: len(outliers),
		RiskValue:      exposure,
		Sensitivity:    cfg.Contamination,
		Signature:      sig,
	}

	// Certified -> Logged
	record := Record{
		Timestamp:      s.now().Format("2006-01-02 15:04:05"),
		Filename:       filename,
		TotalRows:      result.TotalRows,
		AnomaliesFound: result.AnomaliesFound,
		RiskValue:      result.RiskValue,
		User:           s.operator,
		HashSignature:  sig,
	}
	if err := s.store.Append(ctx, record); err != nil {
		s.fail(ctx, StateCertified, filename, err)
		return nil, dErrors.Wrap(dErrors.CodeInternal, "could not persist audit record", err)
	}
	result.State = StateLogged

	if s.metrics != nil {
		s.metrics.IncrementAuditsCompleted()
		s.metrics.AddAnomaliesDetected(result.AnomaliesFound)
		s.metrics.ObserveAuditDuration(s.now().Sub(start).Seconds())
	}
	s.logger.InfoContext(ctx, "audit run logged",
		"filename", filename,
		"total_rows", result.TotalRows,
		"anomalies_found", result.AnomaliesFound,
		"risk_value", result.RiskValue,
		"signature", sig,
	)
	return result, nil
}

// History returns past audit records, most recent first. Storage errors
// propagate; the caller decides whether to fall back to an empty view.
func (s *Service) History(ctx context.Context) ([]Record, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeInternal, "could not load audit history", err)
	}
	return records, nil
}

func (s *Service) fail(ctx context.Context, reached State, filename string, err error) {
	if s.metrics != nil {
		s.metrics.IncrementAuditFailures()
	}
	s.logger.WarnContext(ctx, "audit run aborted",
		"filename", filename,
		"state", string(reached),
		"error", err.Error(),
	)
}
