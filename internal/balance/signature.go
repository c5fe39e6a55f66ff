package balance

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ledgerview/ledgerview/internal/codes"
)

// Signature encodes the active filter set as a canonical string. Equal
// filter sets produce equal signatures regardless of the order inclusion
// codes arrived in. The signature is a cache key only, it carries no
// business meaning.
func (q ReportQuery) Signature(w codes.Widths) string {
	norm := normalizeFilter(q.Filter, w)
	parts := []string{
		"balance",
		strconv.FormatInt(q.FiscalYearID, 10),
		q.FiscalYearStart.Format("2006-01-02"),
		q.StartDate.Format("2006-01-02"),
		q.EndDate.Format("2006-01-02"),
		optionalInt(q.DocFrom),
		optionalInt(q.DocTo),
		"g=" + joinSorted(norm.Groups),
		"n=" + joinSorted(norm.Generals),
		"s=" + joinSorted(norm.Specifics),
		"d=" + joinSorted(norm.Details),
	}
	return strings.Join(parts, ":")
}

func joinSorted(values []string) string {
	if len(values) == 0 {
		return ""
	}
	sorted := append([]string(nil), values...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}

func optionalInt(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}
