package balance

import "github.com/ledgerview/ledgerview/internal/codes"

// FilterRows applies the active inclusion sets to raw ledger rows. A row
// passes when, for every level with a non-empty set, its normalized code at
// that level is a member of the set. Levels with an empty set impose no
// constraint, so an empty filter returns the input unchanged. Date and
// document-number ranges are applied by the ledger source, not here.
func FilterRows(rows []LedgerItem, f RowFilter, w codes.Widths) []LedgerItem {
	if f.Empty() {
		return rows
	}
	norm := normalizeFilter(f, w)
	groups := toSet(norm.Groups)
	generals := toSet(norm.Generals)
	specifics := toSet(norm.Specifics)
	details := toSet(norm.Details)

	out := make([]LedgerItem, 0, len(rows))
	for _, row := range rows {
		if len(groups) > 0 && !groups[codes.Normalize(row.AccountCode, w.Group)] {
			continue
		}
		if len(generals) > 0 && !generals[codes.Normalize(row.AccountCode, w.General)] {
			continue
		}
		if len(specifics) > 0 && !specifics[codes.Normalize(row.AccountCode, w.Specific)] {
			continue
		}
		if len(details) > 0 && !details[codes.FoldDigits(row.DetailCode)] {
			continue
		}
		out = append(out, row)
	}
	return out
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}
