// Package billexport renders the bill index as downloadable CSV or XLSX.
package billexport

import (
	"encoding/csv"
	"fmt"
	"io"

	"billdex/internal/domain"
)

var columns = []string{"Bill Number", "Amount", "Bill Key", "Source File", "First Seen"}

// WriteCSV streams the entries as UTF-8 CSV. A BOM is prepended so Excel
// detects the encoding.
func WriteCSV(w io.Writer, entries []domain.BillIndexEntry) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}
	for _, entry := range entries {
		record := []string{
			entry.BillNumber,
			entry.Amount.StringFixed(2),
			entry.BillKey,
			entry.SourceFile,
			entry.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
