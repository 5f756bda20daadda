package dataset

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"

	"certifier/pkg/sentinel"
)

type DatasetSuite struct {
	suite.Suite
}

func TestDatasetSuite(t *testing.T) {
	suite.Run(t, new(DatasetSuite))
}

const sampleCSV = `OrderID,Department,Quantity,Amount
TX-1001,Finance,2,1050.00
TX-1002,Logistics,1,98.50
TX-1003,Finance,7,10400.25
`

func (s *DatasetSuite) TestParseCSV() {
	s.Run("well formed file", func() {
		ds, err := Parse("orders.csv", strings.NewReader(sampleCSV))
		s.Require().NoError(err)
		s.Equal([]string{"OrderID", "Department", "Quantity", "Amount"}, ds.Columns)
		s.Len(ds.Rows, 3)
		s.Equal("TX-1002", ds.Rows[1][0])
	})

	s.Run("ragged rows are a parse error", func() {
		_, err := Parse("bad.csv", strings.NewReader("a,b,c\n1,2\n"))
		s.Error(err)
	})

	s.Run("empty file is a parse error", func() {
		_, err := Parse("empty.csv", strings.NewReader(""))
		s.Error(err)
	})

	s.Run("unsupported extension", func() {
		_, err := Parse("data.parquet", strings.NewReader(sampleCSV))
		s.Error(err)
	})
}

func (s *DatasetSuite) TestTargetColumn() {
	s.Run("picks the last uniformly numeric column", func() {
		ds, err := Parse("orders.csv", strings.NewReader(sampleCSV))
		s.Require().NoError(err)

		name, idx, values, err := ds.TargetColumn()
		s.Require().NoError(err)
		s.Equal("Amount", name)
		s.Equal(3, idx)
		s.Equal([]float64{1050.00, 98.50, 10400.25}, values)
	})

	s.Run("skips trailing text columns", func() {
		csv := "ID,Amount,Note\nTX-1,100.5,ok\nTX-2,7,late\n"
		ds, err := Parse("x.csv", strings.NewReader(csv))
		s.Require().NoError(err)

		name, idx, values, err := ds.TargetColumn()
		s.Require().NoError(err)
		s.Equal("Amount", name)
		s.Equal(1, idx)
		s.Equal([]float64{100.5, 7}, values)
	})

	s.Run("mixed column does not qualify", func() {
		csv := "ID,Amount\nTX-1,100.5\nTX-2,pending\n"
		ds, err := Parse("x.csv", strings.NewReader(csv))
		s.Require().NoError(err)

		_, _, _, err = ds.TargetColumn()
		s.ErrorIs(err, sentinel.ErrNoNumericColumn)
	})

	s.Run("non-finite cells disqualify a column", func() {
		// strconv.ParseFloat accepts these spellings, but they must not
		// reach the detector or the exposure sum.
		for _, cell := range []string{"NaN", "nan", "Inf", "+Inf", "-Inf", "Infinity"} {
			csv := "ID,Amount\nTX-1,100.5\nTX-2," + cell + "\n"
			ds, err := Parse("x.csv", strings.NewReader(csv))
			s.Require().NoError(err)

			_, _, _, err = ds.TargetColumn()
			s.ErrorIsf(err, sentinel.ErrNoNumericColumn, "cell %q", cell)
		}
	})

	s.Run("non-finite target falls back to an earlier column", func() {
		csv := "ID,Quantity,Amount\nTX-1,2,100.5\nTX-2,3,NaN\n"
		ds, err := Parse("x.csv", strings.NewReader(csv))
		s.Require().NoError(err)

		name, idx, values, err := ds.TargetColumn()
		s.Require().NoError(err)
		s.Equal("Quantity", name)
		s.Equal(1, idx)
		s.Equal([]float64{2, 3}, values)
	})

	s.Run("no numeric column at all", func() {
		csv := "Name,City\nAda,Turin\nLin,Milan\n"
		ds, err := Parse("x.csv", strings.NewReader(csv))
		s.Require().NoError(err)

		_, _, _, err = ds.TargetColumn()
		s.ErrorIs(err, sentinel.ErrNoNumericColumn)
	})

	s.Run("header without rows has no numeric column", func() {
		ds, err := Parse("x.csv", strings.NewReader("A,B\n"))
		s.Require().NoError(err)

		_, _, _, err = ds.TargetColumn()
		s.ErrorIs(err, sentinel.ErrNoNumericColumn)
	})
}

func (s *DatasetSuite) TestAppendColumn() {
	ds, err := Parse("orders.csv", strings.NewReader(sampleCSV))
	s.Require().NoError(err)

	s.Run("appends to every row", func() {
		err := ds.AppendColumn("Status", []string{"Verified", "Verified", "Critical"})
		s.Require().NoError(err)
		s.Equal("Status", ds.Columns[len(ds.Columns)-1])
		s.Equal("Critical", ds.Rows[2][len(ds.Rows[2])-1])
	})

	s.Run("length mismatch is rejected", func() {
		err := ds.AppendColumn("Broken", []string{"only-one"})
		s.Error(err)
	})
}

func (s *DatasetSuite) TestColumnIndex() {
	ds, err := Parse("orders.csv", strings.NewReader(sampleCSV))
	s.Require().NoError(err)
	s.Equal(1, ds.ColumnIndex("Department"))
	s.Equal(-1, ds.ColumnIndex("Missing"))
}

func (s *DatasetSuite) TestProfileOf() {
	s.Run("summarizes values", func() {
		p := ProfileOf([]float64{1, 2, 3, 4})
		s.InDelta(2.5, p.Mean, 1e-9)
		s.InDelta(1.0, p.Min, 1e-9)
		s.InDelta(4.0, p.Max, 1e-9)
		s.Greater(p.StdDev, 0.0)
	})

	s.Run("empty slice yields zero profile", func() {
		s.Equal(Profile{}, ProfileOf(nil))
	})
}
