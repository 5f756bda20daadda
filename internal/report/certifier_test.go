package report

import (
	"bytes"
	"encoding/csv"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"certifier/internal/audit"
)

type CertifierSuite struct {
	suite.Suite
	certifier *Certifier
}

func TestCertifierSuite(t *testing.T) {
	suite.Run(t, new(CertifierSuite))
}

func (s *CertifierSuite) SetupTest() {
	s.certifier = NewCertifier("Francesco Pagliara")
}

func sampleResult() *audit.Result {
	return &audit.Result{
		State:        audit.StateLogged,
		Filename:     "erp_export.csv",
		Columns:      []string{"OrderID", "Department", "Amount", audit.ColumnAnomalyScore, audit.ColumnStatus},
		TargetColumn: "Amount",
		TargetIndex:  2,
		Outliers: [][]string{
			{"TX-0004-LONG-REFERENCE", "Finance", "10012.50", "-1", audit.StatusCritical},
			{"TX-0023", "Logistics", "10250.00", "-1", audit.StatusCritical},
		},
		TotalRows:      100,
		AnomaliesFound: 2,
		RiskValue:      20262.50,
		Signature:      strings.Repeat("ab", 32),
	}
}

func (s *CertifierSuite) TestRenderPDF() {
	var buf bytes.Buffer
	err := s.certifier.RenderPDF(&buf, sampleResult())
	s.Require().NoError(err)

	s.True(bytes.HasPrefix(buf.Bytes(), []byte("%PDF")), "output must be a PDF document")
	s.Greater(buf.Len(), 1000)
}

func (s *CertifierSuite) TestRenderPDFEmptyOutlierSet() {
	result := sampleResult()
	result.Outliers = nil
	result.AnomaliesFound = 0
	result.RiskValue = 0

	var buf bytes.Buffer
	err := s.certifier.RenderPDF(&buf, result)
	s.Require().NoError(err)
	s.True(bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}

func (s *CertifierSuite) TestSecondaryColumn() {
	s.Run("second column is the category", func() {
		s.Equal(1, secondaryColumn(sampleResult()))
	})

	s.Run("no second column", func() {
		result := sampleResult()
		result.Columns = []string{"Amount"}
		result.TargetIndex = 0
		s.Equal(-1, secondaryColumn(result))
	})

	s.Run("second column is the target", func() {
		result := sampleResult()
		result.Columns = []string{"OrderID", "Amount", audit.ColumnAnomalyScore, audit.ColumnStatus}
		result.TargetIndex = 1
		s.Equal(-1, secondaryColumn(result))
	})
}

func TestFormatCurrency(t *testing.T) {
	cases := map[float64]string{
		0:           "0.00",
		98.5:        "98.50",
		1050:        "1,050.00",
		50412.75:    "50,412.75",
		1234567.891: "1,234,567.89",
		-9800.5:     "-9,800.50",
	}
	for in, want := range cases {
		require.Equal(t, want, formatCurrency(in))
	}
}

func TestFormatCurrencyNonFinite(t *testing.T) {
	require.NotPanics(t, func() {
		require.Equal(t, "NaN", formatCurrency(math.NaN()))
		require.Equal(t, "+Inf", formatCurrency(math.Inf(1)))
		require.Equal(t, "-Inf", formatCurrency(math.Inf(-1)))
	})
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "TX-0004-LO", truncate("TX-0004-LONG-REFERENCE", 10))
	require.Equal(t, "short", truncate("short", 10))

	// Multi-byte identifiers must cut on character boundaries.
	require.Equal(t, "Übertragün", truncate("Übertragüng-2026", 10))
	require.Equal(t, "数据集参考号", truncate("数据集参考号12345", 6))
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, sampleResult()))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3, "header plus one row per outlier")
	require.Equal(t, sampleResult().Columns, records[0])
	require.Equal(t, "TX-0023", records[2][0])
}

func TestWriteCSVEmptyOutlierSet(t *testing.T) {
	result := sampleResult()
	result.Outliers = nil

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, result))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1, "header only")
}
