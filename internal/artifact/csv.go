package artifact

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/nao1215/dehashscan/internal/model"
)

// WriteCSV writes records as CSV and returns the header it used.
//
// The header is the union of all record keys in first-seen order, so when
// every record shares the first record's fields it is exactly the first
// record's key order. Fields a record lacks are written as empty cells.
func WriteCSV(w io.Writer, records []model.Record) ([]string, error) {
	columns := model.Columns(records)

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}

	row := make([]string, len(columns))
	for i, r := range records {
		for j, col := range columns {
			row[j] = r.Field(col)
		}
		if err := cw.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return columns, nil
}
