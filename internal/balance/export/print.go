package export

import (
	"fmt"
	"strings"

	"github.com/ledgerview/ledgerview/internal/balance"
)

// PrintMeta carries the header line of a print document.
type PrintMeta struct {
	Title       string
	PeriodLabel string
}

// BuildPrintHTML renders the flattened rows as a print-ready HTML document.
// The column set comes from the same Columns derivation the CSV export
// uses, so print, CSV and screen always agree.
func BuildPrintHTML(rows []balance.TableRow, depth balance.Depth, mode balance.ColumnMode, meta PrintMeta) string {
	title := meta.Title
	if title == "" {
		title = "Hierarchical Balance Report"
	}

	var b strings.Builder
	b.WriteString("<html><head><meta charset=\"utf-8\"><style>")
	b.WriteString("body{font-family:sans-serif;margin:24px;}h1{font-size:20px;}table{width:100%;border-collapse:collapse;}th,td{border:1px solid #ddd;padding:6px;text-align:right;}th{background:#f5f5f5;} .label{text-align:left;}")
	b.WriteString("</style></head><body>")
	b.WriteString(fmt.Sprintf("<h1>%s</h1>", htmlEscape(title)))
	if meta.PeriodLabel != "" {
		b.WriteString(fmt.Sprintf("<p>%s</p>", htmlEscape(meta.PeriodLabel)))
	}

	b.WriteString("<table><thead><tr>")
	for _, col := range Columns(depth, mode) {
		b.WriteString("<th>")
		b.WriteString(htmlEscape(col))
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead><tbody>")

	for _, row := range rows {
		b.WriteString("<tr>")
		for i, cell := range record(row, depth, mode) {
			if i <= hierarchyColumnCount(depth) {
				b.WriteString("<td class=\"label\">")
			} else {
				b.WriteString("<td>")
			}
			b.WriteString(htmlEscape(cell))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>")
	}

	b.WriteString("</tbody></table></body></html>")
	return b.String()
}

// hierarchyColumnCount is the index of the Title column for the depth.
func hierarchyColumnCount(depth balance.Depth) int {
	n := 1
	if depth.ShowsGeneral() {
		n++
	}
	if depth.ShowsSpecific() {
		n++
	}
	if depth.ShowsDetail() {
		n++
	}
	return n
}

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\"", "&quot;",
	"'", "&#39;",
)

func htmlEscape(v string) string {
	return htmlReplacer.Replace(v)
}
