package balance

import (
	"strings"

	"github.com/ledgerview/ledgerview/internal/codes"
)

// KeyFunc derives an aggregation key from a ledger row. An empty key skips
// the row at that aggregation level.
type KeyFunc func(LedgerItem) string

// Aggregate sums debit and credit per key. Amounts are plain float64
// additions; source data is expected to be in decimal form already.
func Aggregate(rows []LedgerItem, key KeyFunc) map[string]Sums {
	out := make(map[string]Sums)
	for _, row := range rows {
		k := key(row)
		if k == "" {
			continue
		}
		s := out[k]
		s.Debit += row.Debit
		s.Credit += row.Credit
		out[k] = s
	}
	return out
}

// GroupKey keys a row by its normalized group prefix.
func GroupKey(w codes.Widths) KeyFunc {
	return func(row LedgerItem) string {
		return codes.Normalize(row.AccountCode, w.Group)
	}
}

// GeneralKey keys a row by its normalized general prefix. A row whose code
// is shorter than the general width keeps its short prefix, which matches no
// catalog entry and therefore drops out of the general-level tree.
func GeneralKey(w codes.Widths) KeyFunc {
	return func(row LedgerItem) string {
		return codes.Normalize(row.AccountCode, w.General)
	}
}

// SpecificKey keys a row by its normalized specific prefix.
func SpecificKey(w codes.Widths) KeyFunc {
	return func(row LedgerItem) string {
		return codes.Normalize(row.AccountCode, w.Specific)
	}
}

// DetailKey keys a row by the specific prefix joined with its detail code.
// Rows without a detail code are skipped at this level; they still count at
// the three shallower levels through their own key functions.
func DetailKey(w codes.Widths) KeyFunc {
	return func(row LedgerItem) string {
		if row.DetailCode == "" {
			return ""
		}
		specific := codes.Normalize(row.AccountCode, w.Specific)
		if specific == "" {
			return ""
		}
		return specific + ":" + codes.FoldDigits(row.DetailCode)
	}
}

// SplitDetailKey undoes DetailKey's composition.
func SplitDetailKey(key string) (specific, detail string) {
	if i := strings.IndexByte(key, ':'); i >= 0 {
		return key[:i], key[i+1:]
	}
	return key, ""
}

// AggregateSet bundles the four per-level aggregate maps computed from one
// filtered row set. Details are keyed "specific:detail".
type AggregateSet struct {
	Groups    map[string]Sums `json:"groups"`
	Generals  map[string]Sums `json:"generals"`
	Specifics map[string]Sums `json:"specifics"`
	Details   map[string]Sums `json:"details"`
}

// BuildAggregates computes all four aggregation levels in one pass set.
func BuildAggregates(rows []LedgerItem, w codes.Widths) AggregateSet {
	return AggregateSet{
		Groups:    Aggregate(rows, GroupKey(w)),
		Generals:  Aggregate(rows, GeneralKey(w)),
		Specifics: Aggregate(rows, SpecificKey(w)),
		Details:   Aggregate(rows, DetailKey(w)),
	}
}

// EmptyAggregates returns a set with no activity at any level.
func EmptyAggregates() AggregateSet {
	return AggregateSet{
		Groups:    map[string]Sums{},
		Generals:  map[string]Sums{},
		Specifics: map[string]Sums{},
		Details:   map[string]Sums{},
	}
}
