package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"certifier/internal/audit"
)

// WriteCSV writes the outlier extract: the annotated header followed by one
// row per flagged transaction, UTF-8. Zero outliers yields header only.
func WriteCSV(w io.Writer, result *audit.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(result.Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range result.Outliers {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
