// Package dataset models one uploaded tabular file for the lifetime of a
// single audit run. A Dataset is immutable after parse except for appended
// derived columns.
package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"

	"certifier/pkg/sentinel"
)

// Dataset is an ordered sequence of rows over named columns. Cells are kept
// as raw strings; numeric interpretation happens per column on demand.
type Dataset struct {
	Filename string
	Columns  []string
	Rows     [][]string
}

// TargetColumn returns the name, index, and parsed values of the last column
// whose cells are uniformly numeric across the dataset. Returns
// sentinel.ErrNoNumericColumn when no column qualifies.
func (d *Dataset) TargetColumn() (string, int, []float64, error) {
	for col := len(d.Columns) - 1; col >= 0; col-- {
		values, ok := d.numericColumn(col)
		if ok {
			return d.Columns[col], col, values, nil
		}
	}
	return "", 0, nil, sentinel.ErrNoNumericColumn
}

// numericColumn parses column col as floats. A column qualifies only if the
// dataset has at least one row and every cell parses to a finite value; a
// blank or textual cell disqualifies it, and so do "NaN" and "Inf", which
// strconv accepts but no downstream arithmetic can survive.
func (d *Dataset) numericColumn(col int) ([]float64, bool) {
	if len(d.Rows) == 0 {
		return nil, false
	}
	values := make([]float64, len(d.Rows))
	for i, row := range d.Rows {
		if col >= len(row) {
			return nil, false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
		values[i] = v
	}
	return values, true
}

// AppendColumn adds a derived column. Values must cover every row.
func (d *Dataset) AppendColumn(name string, values []string) error {
	if len(values) != len(d.Rows) {
		return fmt.Errorf("append column %s: have %d values for %d rows", name, len(values), len(d.Rows))
	}
	d.Columns = append(d.Columns, name)
	for i := range d.Rows {
		d.Rows[i] = append(d.Rows[i], values[i])
	}
	return nil
}

// ColumnIndex returns the position of the named column, or -1.
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Profile summarizes one numeric column for the dashboard view-model.
type Profile struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// ProfileOf computes summary statistics over a value slice.
func ProfileOf(values []float64) Profile {
	if len(values) == 0 {
		return Profile{}
	}
	p := Profile{
		Mean: stat.Mean(values, nil),
		Min:  values[0],
		Max:  values[0],
	}
	if len(values) > 1 {
		p.StdDev = stat.StdDev(values, nil)
	}
	for _, v := range values[1:] {
		if v < p.Min {
			p.Min = v
		}
		if v > p.Max {
			p.Max = v
		}
	}
	return p
}
