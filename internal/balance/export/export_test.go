package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerview/ledgerview/internal/balance"
)

func sampleRows() []balance.TableRow {
	return []balance.TableRow{
		{Level: balance.LevelGroup, GroupCode: "10", Title: "Assets", BeforeDebit: 50, Debit: 500, Credit: 200},
		{Level: balance.LevelGeneral, GeneralCode: "1001", Title: "Cash", Debit: 500, Credit: 200},
		{Level: balance.LevelSpecific, SpecificCode: "100101", Title: "Petty Cash", Debit: 500},
		{Level: balance.LevelDetail, DetailCode: "501", Title: "Project A", Debit: 100},
	}
}

func TestWriteCSVRowCountMatchesFlattenOutput(t *testing.T) {
	rows := sampleRows()
	buf := &bytes.Buffer{}
	require.NoError(t, WriteCSV(buf, rows, balance.DepthDetail, balance.ColumnsSix))

	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, len(rows)+1, "header plus one record per table row")
}

func TestColumnsFollowDepthAndMode(t *testing.T) {
	assert.Equal(t,
		[]string{"Group", "Title", "Debit", "Credit"},
		Columns(balance.DepthCollapsed, balance.ColumnsTwo))
	assert.Equal(t,
		[]string{"Group", "Main", "Title", "Before Debit", "Before Credit", "Debit", "Credit"},
		Columns(balance.DepthGeneral, balance.ColumnsFour))
	assert.Equal(t,
		[]string{"Group", "Main", "Special", "Detail", "Title", "Before Debit", "Before Credit", "Debit", "Credit", "Remain Debit", "Remain Credit"},
		Columns(balance.DepthDetail, balance.ColumnsSix))
}

func TestWriteCSVRecordWidthsMatchHeader(t *testing.T) {
	rows := sampleRows()
	for _, mode := range []balance.ColumnMode{balance.ColumnsTwo, balance.ColumnsFour, balance.ColumnsSix} {
		for _, depth := range []balance.Depth{balance.DepthCollapsed, balance.DepthGeneral, balance.DepthSpecific, balance.DepthDetail} {
			buf := &bytes.Buffer{}
			require.NoError(t, WriteCSV(buf, rows, depth, mode))
			records, err := csv.NewReader(buf).ReadAll()
			require.NoError(t, err)
			width := len(records[0])
			for _, rec := range records[1:] {
				assert.Len(t, rec, width)
			}
		}
	}
}

func TestWriteCSVRemainderColumns(t *testing.T) {
	rows := []balance.TableRow{
		{Level: balance.LevelGroup, GroupCode: "10", Title: "Assets", BeforeDebit: 100, Debit: 50, Credit: 40},
	}
	buf := &bytes.Buffer{}
	require.NoError(t, WriteCSV(buf, rows, balance.DepthCollapsed, balance.ColumnsSix))
	records, err := csv.NewReader(buf).ReadAll()
	require.NoError(t, err)
	rec := records[1]
	assert.Equal(t, "110.00", rec[len(rec)-2], "remain debit")
	assert.Equal(t, "0.00", rec[len(rec)-1], "remain credit")
}

func TestBuildPrintHTMLMirrorsRows(t *testing.T) {
	rows := sampleRows()
	html := BuildPrintHTML(rows, balance.DepthDetail, balance.ColumnsTwo, PrintMeta{
		Title:       "Balance Report",
		PeriodLabel: "2025-04-01 to 2025-04-30",
	})
	assert.Equal(t, len(rows), strings.Count(html, "<tr>")-1, "one body row per table row")
	assert.Contains(t, html, "Petty Cash")
	assert.Contains(t, html, "Balance Report")
}

func TestBuildPrintHTMLEscapes(t *testing.T) {
	rows := []balance.TableRow{
		{Level: balance.LevelGroup, GroupCode: "10", Title: "<script>alert(1)</script>"},
	}
	html := BuildPrintHTML(rows, balance.DepthCollapsed, balance.ColumnsTwo, PrintMeta{})
	assert.NotContains(t, html, "<script>")
	assert.Contains(t, html, "&lt;script&gt;")
}
