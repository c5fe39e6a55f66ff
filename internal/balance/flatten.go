package balance

// Flatten projects the tree into the flat ordered row sequence the table
// renders: one row per visible node in depth-first order. Depth is a tagged
// variant, so a deeper level always implies the shallower ones. Before
// balances are joined per row from the before-period aggregate set, zero
// when absent.
func Flatten(tree []TreeNode, depth Depth, before AggregateSet) []TableRow {
	var rows []TableRow
	for _, group := range tree {
		rows = append(rows, makeRow(LevelGroup, group, before.Groups[group.Code]))
		if !depth.ShowsGeneral() {
			continue
		}
		for _, general := range group.Children {
			rows = append(rows, makeRow(LevelGeneral, general, before.Generals[general.Code]))
			if !depth.ShowsSpecific() {
				continue
			}
			for _, specific := range general.Children {
				rows = append(rows, makeRow(LevelSpecific, specific, before.Specifics[specific.Code]))
				if !depth.ShowsDetail() {
					continue
				}
				for _, detail := range specific.Children {
					rows = append(rows, makeRow(LevelDetail, detail, before.Details[specific.Code+":"+detail.Code]))
				}
			}
		}
	}
	return rows
}

func makeRow(level Level, node TreeNode, before Sums) TableRow {
	row := TableRow{
		Level:        level,
		Title:        node.Title,
		BeforeDebit:  before.Debit,
		BeforeCredit: before.Credit,
		Debit:        node.Debit,
		Credit:       node.Credit,
	}
	switch level {
	case LevelGroup:
		row.GroupCode = node.Code
	case LevelGeneral:
		row.GeneralCode = node.Code
	case LevelSpecific:
		row.SpecificCode = node.Code
	default:
		row.DetailCode = node.Code
	}
	return row
}
