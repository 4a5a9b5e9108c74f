package billexport_test

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"billdex/internal/billexport"
	"billdex/internal/domain"
)

func sampleEntries() []domain.BillIndexEntry {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return []domain.BillIndexEntry{
		{
			BillNumber: "INV-001",
			Amount:     decimal.RequireFromString("1500.50"),
			BillKey:    "inv-001_1500.50",
			SourceFile: "march.pdf",
			CreatedAt:  created,
		},
		{
			BillNumber: "R-42",
			Amount:     decimal.NewFromInt(75),
			BillKey:    "r-42_75.00",
			SourceFile: "receipt.png",
			CreatedAt:  created,
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, billexport.WriteCSV(&buf, sampleEntries()))

	out := buf.Bytes()
	require.True(t, bytes.HasPrefix(out, []byte{0xEF, 0xBB, 0xBF}), "missing BOM")

	records, err := csv.NewReader(bytes.NewReader(out[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Bill Number", records[0][0])
	assert.Equal(t, []string{"INV-001", "1500.50", "inv-001_1500.50", "march.pdf", "2026-03-14 09:30:00"}, records[1])
	assert.Equal(t, "75.00", records[2][1])
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, billexport.WriteXLSX(&buf, sampleEntries()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Bills")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Bill Number", rows[0][0])
	assert.Equal(t, "INV-001", rows[1][0])
	assert.Equal(t, "r-42_75.00", rows[2][2])
}

func TestWriteCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, billexport.WriteCSV(&buf, nil))

	records, err := csv.NewReader(bytes.NewReader(buf.Bytes()[3:])).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}
