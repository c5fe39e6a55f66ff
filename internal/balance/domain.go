package balance

import (
	"time"

	"github.com/ledgerview/ledgerview/internal/codes"
)

// LedgerItem is one posting line as returned by the ledger query source.
// Rows are read-only inputs and never written back.
type LedgerItem struct {
	Date           time.Time
	DocumentNumber *int64
	AccountCode    string
	DetailCode     string
	Debit          float64
	Credit         float64
}

// Sums carries the aggregated debit/credit pair for one code key.
type Sums struct {
	Debit  float64 `json:"debit"`
	Credit float64 `json:"credit"`
}

// Zero reports whether no money moved through the key.
func (s Sums) Zero() bool {
	return s.Debit == 0 && s.Credit == 0
}

// TreeNode is one node of the nested Group > General > Specific > Detail
// report tree. A node's sums come from its own aggregate entry, never by
// re-summing children.
type TreeNode struct {
	Code     string     `json:"code"`
	Title    string     `json:"title"`
	Debit    float64    `json:"debit"`
	Credit   float64    `json:"credit"`
	Children []TreeNode `json:"children,omitempty"`
}

// Level identifies the hierarchy depth of a table row.
type Level int

const (
	LevelGroup Level = iota
	LevelGeneral
	LevelSpecific
	LevelDetail
)

// Label returns the generic fallback label for the level, used when the
// catalog carries no title for a code.
func (l Level) Label() string {
	switch l {
	case LevelGroup:
		return "Group"
	case LevelGeneral:
		return "Main"
	case LevelSpecific:
		return "Special"
	default:
		return "Detail"
	}
}

// TableRow projects exactly one tree node at its depth. Exactly one of the
// four code columns is populated; ancestor columns stay blank.
type TableRow struct {
	Level Level `json:"level"`

	GroupCode    string `json:"groupCode,omitempty"`
	GeneralCode  string `json:"generalCode,omitempty"`
	SpecificCode string `json:"specificCode,omitempty"`
	DetailCode   string `json:"detailCode,omitempty"`

	Title string `json:"title"`

	BeforeDebit  float64 `json:"beforeDebit"`
	BeforeCredit float64 `json:"beforeCredit"`
	Debit        float64 `json:"debit"`
	Credit       float64 `json:"credit"`
}

// Code returns whichever code column is populated.
func (r TableRow) Code() string {
	switch r.Level {
	case LevelGroup:
		return r.GroupCode
	case LevelGeneral:
		return r.GeneralCode
	case LevelSpecific:
		return r.SpecificCode
	default:
		return r.DetailCode
	}
}

// RemainDebit is the debit-side net position after combining before-period
// and current-period totals. At most one of RemainDebit and RemainCredit is
// positive for a row.
func (r TableRow) RemainDebit() float64 {
	net := (r.BeforeDebit + r.Debit) - (r.BeforeCredit + r.Credit)
	if net > 0 {
		return net
	}
	return 0
}

// RemainCredit is the credit-side net position, see RemainDebit.
func (r TableRow) RemainCredit() float64 {
	net := (r.BeforeCredit + r.Credit) - (r.BeforeDebit + r.Debit)
	if net > 0 {
		return net
	}
	return 0
}

// Depth is the table expansion state. The variants are ordered: each depth
// implies all shallower levels are shown, so the "deeper implies shallower"
// invariant holds structurally.
type Depth int

const (
	DepthCollapsed Depth = iota
	DepthGeneral
	DepthSpecific
	DepthDetail
)

// ShowsGeneral reports whether general rows are emitted.
func (d Depth) ShowsGeneral() bool { return d >= DepthGeneral }

// ShowsSpecific reports whether specific rows are emitted.
func (d Depth) ShowsSpecific() bool { return d >= DepthSpecific }

// ShowsDetail reports whether detail rows are emitted.
func (d Depth) ShowsDetail() bool { return d >= DepthDetail }

// ParseDepth maps the wire value onto a Depth, defaulting to collapsed.
func ParseDepth(v string) Depth {
	switch v {
	case "general":
		return DepthGeneral
	case "specific":
		return DepthSpecific
	case "detail":
		return DepthDetail
	default:
		return DepthCollapsed
	}
}

// ColumnMode selects which amount columns appear in the table and exports.
type ColumnMode int

const (
	// ColumnsTwo shows current-period debit/credit only.
	ColumnsTwo ColumnMode = iota
	// ColumnsFour adds the before-period pair.
	ColumnsFour
	// ColumnsSix adds the remainder pair on top of ColumnsFour.
	ColumnsSix
)

// ParseColumnMode maps the wire value onto a ColumnMode.
func ParseColumnMode(v string) ColumnMode {
	switch v {
	case "four":
		return ColumnsFour
	case "six":
		return ColumnsSix
	default:
		return ColumnsTwo
	}
}

// ItemQuery describes one fetch against the ledger query source. Date
// bounds are inclusive; the source never returns rows outside the range.
type ItemQuery struct {
	FiscalYearID int64
	StartDate    time.Time
	EndDate      time.Time
	DocFrom      *int64
	DocTo        *int64
}

// RowFilter holds the client-side inclusion sets, one per hierarchy level.
// Raw values are normalized before matching.
type RowFilter struct {
	Groups    []string
	Generals  []string
	Specifics []string
	Details   []string
}

// Empty reports whether no inclusion set is active.
func (f RowFilter) Empty() bool {
	return len(f.Groups) == 0 && len(f.Generals) == 0 && len(f.Specifics) == 0 && len(f.Details) == 0
}

// ReportQuery is the full request for one report computation.
type ReportQuery struct {
	FiscalYearID    int64
	FiscalYearStart time.Time
	StartDate       time.Time
	EndDate         time.Time
	DocFrom         *int64
	DocTo           *int64
	Filter          RowFilter
	Search          string
	Depth           Depth
	Columns         ColumnMode
}

// Report is the computed view state: the nested tree plus its flat table
// projection. Exports are derived from Rows, so they always mirror the
// on-screen table.
type Report struct {
	Signature string     `json:"signature"`
	Tree      []TreeNode `json:"tree"`
	Rows      []TableRow `json:"rows"`
	Depth     Depth      `json:"depth"`
	Columns   ColumnMode `json:"columns"`
}

// normalizeFilter folds and truncates every inclusion set to its level width.
func normalizeFilter(f RowFilter, w codes.Widths) RowFilter {
	norm := func(values []string, width int) []string {
		if len(values) == 0 {
			return nil
		}
		out := make([]string, 0, len(values))
		for _, v := range values {
			if n := codes.Normalize(v, width); n != "" {
				out = append(out, n)
			}
		}
		return out
	}
	return RowFilter{
		Groups:    norm(f.Groups, w.Group),
		Generals:  norm(f.Generals, w.General),
		Specifics: norm(f.Specifics, w.Specific),
		Details:   normalizeDetails(f.Details),
	}
}

func normalizeDetails(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := make([]string, 0, len(values))
	for _, v := range values {
		if folded := codes.FoldDigits(v); folded != "" {
			out = append(out, folded)
		}
	}
	return out
}
