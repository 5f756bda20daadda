// Package report renders the exportable artifacts of a completed audit run:
// the PDF certificate and the CSV extract of the outlier set. Both are
// derived 1:1 from one run's Result and are never persisted.
package report

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"certifier/internal/audit"
)

const (
	idRefWidth      = 10
	categoryWidth   = 18
	verdictCritical = "CRITICAL OUTLIER"
)

// Certifier renders PDF certificates. One instance is shared across
// requests; it carries only static identity.
type Certifier struct {
	operator string
	now      func() time.Time
}

func NewCertifier(operator string) *Certifier {
	return &Certifier{operator: operator, now: time.Now}
}

// RenderPDF writes the three-section certificate for one completed run:
// executive summary, forensic detail, and the integrity block. The signature
// printed in section 3 is the one computed by the pipeline, restated
// verbatim and never recomputed here. An empty outlier set renders a summary
// and an empty table; it is not an error.
func (c *Certifier) RenderPDF(w io.Writer, result *audit.Result) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 16)
		pdf.SetTextColor(30, 60, 100)
		pdf.CellFormat(0, 10, "INSIGHT CERTIFIER - ENTERPRISE AUDIT", "", 1, "C", false, 0, "")
		pdf.SetFont("Arial", "I", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 10, "Decision Integrity Assurance Protocol", "", 1, "C", false, 0, "")
		pdf.Ln(10)
		pdf.Line(10, 30, 200, 30)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		footer := fmt.Sprintf("Confidential - Generated by %s - Page %d/{nb}", c.operator, pdf.PageNo())
		pdf.CellFormat(0, 10, footer, "", 0, "C", false, 0, "")
	})
	pdf.AliasNbPages("")
	pdf.AddPage()

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 10, "Date of Issue: "+c.now().Format("2006-01-02 15:04:05"), "", 1, "R", false, 0, "")
	pdf.Ln(5)

	c.renderSummary(pdf, result)
	c.renderForensicDetail(pdf, result)
	c.renderIntegrityBlock(pdf, result.Signature)

	return pdf.Output(w)
}

func (c *Certifier) renderSummary(pdf *fpdf.Fpdf, result *audit.Result) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 250)
	pdf.CellFormat(0, 10, "  1. EXECUTIVE SUMMARY", "", 1, "L", true, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Total Transactions Audited: %d", result.TotalRows), "", 1, "L", false, 0, "")
	pdf.SetTextColor(200, 0, 0)
	pdf.SetFont("Arial", "B", 11)
	pdf.CellFormat(0, 8, fmt.Sprintf("Critical Anomalies Detected: %d", result.AnomaliesFound), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Total Financial Exposure: EUR "+formatCurrency(result.RiskValue), "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(10)
}

func (c *Certifier) renderForensicDetail(pdf *fpdf.Fpdf, result *audit.Result) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(230, 230, 250)
	pdf.CellFormat(0, 10, "  2. FORENSIC DETAIL (TOP PRIORITY)", "", 1, "L", true, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Courier", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(30, 8, "ID REF", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 8, "CATEGORY", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 8, "VALUE (EUR)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(60, 8, "AI VERDICT", "1", 1, "C", true, 0, "")

	categoryIdx := secondaryColumn(result)
	pdf.SetFont("Courier", "", 10)
	for _, row := range result.Outliers {
		idRef := truncate(cellAt(row, 0), idRefWidth)
		category := "N/A"
		if categoryIdx >= 0 {
			category = truncate(cellAt(row, categoryIdx), categoryWidth)
		}
		value := 0.0
		if v, err := strconv.ParseFloat(strings.TrimSpace(cellAt(row, result.TargetIndex)), 64); err == nil {
			value = v
		}

		pdf.CellFormat(30, 8, idRef, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, category, "1", 0, "L", false, 0, "")
		pdf.CellFormat(50, 8, formatCurrency(value), "1", 0, "L", false, 0, "")
		pdf.SetTextColor(200, 0, 0)
		pdf.CellFormat(60, 8, verdictCritical, "1", 1, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}
	pdf.Ln(15)
}

func (c *Certifier) renderIntegrityBlock(pdf *fpdf.Fpdf, sig string) {
	pdf.SetFont("Arial", "B", 14)
	pdf.SetFillColor(200, 220, 255)
	pdf.CellFormat(0, 10, "  3. INTEGRITY HASH", "", 1, "L", true, 0, "")
	pdf.Ln(5)
	pdf.SetFont("Arial", "", 9)
	pdf.MultiCell(0, 5, "This document is digitally secured using SHA-256 hashing algorithms.", "", "L", false)
	pdf.Ln(5)
	pdf.SetFont("Courier", "B", 8)
	pdf.MultiCell(0, 5, "SECURE HASH: "+sig, "", "L", false)
}

// secondaryColumn picks the categorical field for the forensic table: the
// second column, unless it is the target or an appended annotation column.
func secondaryColumn(result *audit.Result) int {
	if len(result.Columns) < 2 {
		return -1
	}
	name := result.Columns[1]
	if result.TargetIndex == 1 || name == audit.ColumnAnomalyScore || name == audit.ColumnStatus {
		return -1
	}
	return 1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// truncate limits s to n characters, never splitting a multi-byte rune.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n])
	}
	return s
}

// formatCurrency renders a value as 1,234,567.89. Non-finite values are
// rejected at ingest; if one slips through anyway it is rendered as-is
// rather than grouped.
func formatCurrency(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', 2, 64)
	}
	s := strconv.FormatFloat(v, 'f', 2, 64)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	dot := strings.Index(s, ".")
	intPart, frac := s[:dot], s[dot:]
	var b strings.Builder
	for i, ch := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(ch)
	}
	out := b.String() + frac
	if neg {
		out = "-" + out
	}
	return out
}
