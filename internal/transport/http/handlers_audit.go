package httptransport

import (
	"bytes"
	"encoding/json"
	"net/http"

	"certifier/internal/audit"
	"certifier/internal/dataset"
	"certifier/internal/platform/middleware"
	"certifier/internal/report"
	"certifier/internal/transport/http/shared"
	dErrors "certifier/pkg/domain-errors"
)

// runResponse is the view-model handed to the dashboard after one pipeline
// run. It carries everything the display surface needs; the render layer
// holds no pipeline state of its own.
type runResponse struct {
	State          string          `json:"state"`
	Filename       string          `json:"filename"`
	TotalRows      int             `json:"total_rows"`
	AnomaliesFound int             `json:"anomalies_found"`
	RiskValue      float64         `json:"risk_value"`
	TargetColumn   string          `json:"target_column"`
	TargetProfile  dataset.Profile `json:"target_profile"`
	Sensitivity    float64         `json:"sensitivity"`
	Signature      string          `json:"signature"`
	Columns        []string        `json:"columns"`
	Outliers       [][]string      `json:"outliers"`
}

type historyResponse struct {
	Records []recordView `json:"records"`
	// Degraded is true when history could not be read and an empty view is
	// served instead.
	Degraded bool `json:"degraded,omitempty"`
}

type recordView struct {
	ID             int64   `json:"id"`
	Timestamp      string  `json:"timestamp"`
	Filename       string  `json:"filename"`
	TotalRows      int     `json:"total_rows"`
	AnomaliesFound int     `json:"anomalies_found"`
	RiskValue      float64 `json:"risk_value"`
	User           string  `json:"user"`
	HashSignature  string  `json:"hash_signature"`
}

// handleRun accepts a multipart upload (field "file") and executes one
// synchronous pipeline run with the session's sensitivity.
func (h *Handler) handleRun(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := middleware.GetRequestID(ctx)
	sessionID := middleware.GetSessionID(ctx)

	sensitivity, err := h.auth.Sensitivity(sessionID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, header, err := r.FormFile("file")
	if err != nil {
		h.logger.WarnContext(ctx, "invalid upload",
			"request_id", requestID,
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "missing or oversized file upload"))
		return
	}
	defer file.Close()

	result, err := h.audit.Run(ctx, header.Filename, file, sensitivity)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.auth.StoreResult(sessionID, result); err != nil {
		shared.WriteError(w, err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, runResponse{
		State:          string(result.State),
		Filename:       result.Filename,
		TotalRows:      result.TotalRows,
		AnomaliesFound: result.AnomaliesFound,
		RiskValue:      result.RiskValue,
		TargetColumn:   result.TargetColumn,
		TargetProfile:  result.TargetProfile,
		Sensitivity:    result.Sensitivity,
		Signature:      result.Signature,
		Columns:        result.Columns,
		Outliers:       result.Outliers,
	})
}

// handleHistory serves past audit records, most recent first. On a storage
// read failure it logs and degrades to an empty, marked view instead of
// failing the page; the write path stays strict.
func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	records, err := h.audit.History(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "history unavailable, serving empty view",
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
		shared.WriteJSON(w, http.StatusOK, historyResponse{Records: []recordView{}, Degraded: true})
		return
	}

	views := make([]recordView, 0, len(records))
	for _, rec := range records {
		views = append(views, recordView{
			ID:             rec.ID,
			Timestamp:      rec.Timestamp,
			Filename:       rec.Filename,
			TotalRows:      rec.TotalRows,
			AnomaliesFound: rec.AnomaliesFound,
			RiskValue:      rec.RiskValue,
			User:           rec.User,
			HashSignature:  rec.HashSignature,
		})
	}
	shared.WriteJSON(w, http.StatusOK, historyResponse{Records: views})
}

func (h *Handler) lastResult(w http.ResponseWriter, r *http.Request) (*audit.Result, bool) {
	result, err := h.auth.LastResult(middleware.GetSessionID(r.Context()))
	if err != nil {
		shared.WriteError(w, err)
		return nil, false
	}
	return result, true
}

func (h *Handler) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	result, ok := h.lastResult(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.certifier.RenderPDF(&buf, result); err != nil {
		h.logger.ErrorContext(r.Context(), "pdf render failed",
			"request_id", middleware.GetRequestID(r.Context()),
			"error", err.Error(),
		)
		shared.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "could not render certificate", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="Insight_Enterprise_Audit.pdf"`)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleReportCSV(w http.ResponseWriter, r *http.Request) {
	result, ok := h.lastResult(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := report.WriteCSV(&buf, result); err != nil {
		shared.WriteError(w, dErrors.Wrap(dErrors.CodeInternal, "could not render csv extract", err))
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="anomalies.csv"`)
	_, _ = w.Write(buf.Bytes())
}

type sensitivityRequest struct {
	Sensitivity float64 `json:"sensitivity"`
}

type sensitivityResponse struct {
	Sensitivity float64 `json:"sensitivity"`
}

// handleSensitivity updates the session-scoped detector sensitivity.
func (h *Handler) handleSensitivity(w http.ResponseWriter, r *http.Request) {
	sessionID := middleware.GetSessionID(r.Context())

	var req sensitivityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}
	if err := h.auth.SetSensitivity(sessionID, req.Sensitivity); err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, sensitivityResponse{Sensitivity: req.Sensitivity})
}
