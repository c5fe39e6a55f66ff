package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/ledgerview/ledgerview/internal/balance"
)

// Columns derives the export column set purely from the expansion depth and
// column mode, so every export mirrors the on-screen table.
func Columns(depth balance.Depth, mode balance.ColumnMode) []string {
	cols := []string{"Group"}
	if depth.ShowsGeneral() {
		cols = append(cols, "Main")
	}
	if depth.ShowsSpecific() {
		cols = append(cols, "Special")
	}
	if depth.ShowsDetail() {
		cols = append(cols, "Detail")
	}
	cols = append(cols, "Title")
	if mode >= balance.ColumnsFour {
		cols = append(cols, "Before Debit", "Before Credit")
	}
	cols = append(cols, "Debit", "Credit")
	if mode >= balance.ColumnsSix {
		cols = append(cols, "Remain Debit", "Remain Credit")
	}
	return cols
}

// record projects one table row onto the column set.
func record(row balance.TableRow, depth balance.Depth, mode balance.ColumnMode) []string {
	rec := []string{row.GroupCode}
	if depth.ShowsGeneral() {
		rec = append(rec, row.GeneralCode)
	}
	if depth.ShowsSpecific() {
		rec = append(rec, row.SpecificCode)
	}
	if depth.ShowsDetail() {
		rec = append(rec, row.DetailCode)
	}
	rec = append(rec, row.Title)
	if mode >= balance.ColumnsFour {
		rec = append(rec, formatAmount(row.BeforeDebit), formatAmount(row.BeforeCredit))
	}
	rec = append(rec, formatAmount(row.Debit), formatAmount(row.Credit))
	if mode >= balance.ColumnsSix {
		rec = append(rec, formatAmount(row.RemainDebit()), formatAmount(row.RemainCredit()))
	}
	return rec
}

// WriteCSV serialises the flattened report rows to CSV. One data record is
// written per table row, nothing dropped or duplicated.
func WriteCSV(w io.Writer, rows []balance.TableRow, depth balance.Depth, mode balance.ColumnMode) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write(Columns(depth, mode)); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(record(row, depth, mode)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
