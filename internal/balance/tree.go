package balance

import (
	"strings"

	"github.com/ledgerview/ledgerview/internal/codes"
)

// BuildTree composes the hierarchy index and the aggregate maps into the
// nested report tree. A node appears only when money moved through its own
// key in the filtered row set; its sums come from its own aggregate entry,
// so a specific with untagged rows still reports correctly even when its
// detail children sum to less.
func BuildTree(idx *codes.Index, agg AggregateSet, detailTitles map[string]string) []TreeNode {
	if idx == nil {
		return nil
	}
	detailsBySpecific := groupDetailKeys(agg.Details)

	var tree []TreeNode
	for _, group := range idx.Groups() {
		sums, ok := agg.Groups[group]
		if !ok || sums.Zero() {
			continue
		}
		node := TreeNode{
			Code:   group,
			Title:  titleOrLabel(idx.GroupTitle, group, LevelGroup),
			Debit:  sums.Debit,
			Credit: sums.Credit,
		}
		for _, general := range idx.Generals(group) {
			gs, ok := agg.Generals[general]
			if !ok || gs.Zero() {
				continue
			}
			child := TreeNode{
				Code:   general,
				Title:  titleOrLabel(idx.GeneralTitle, general, LevelGeneral),
				Debit:  gs.Debit,
				Credit: gs.Credit,
			}
			for _, specific := range idx.Specifics(general) {
				ss, ok := agg.Specifics[specific]
				if !ok || ss.Zero() {
					continue
				}
				leaf := TreeNode{
					Code:   specific,
					Title:  titleOrLabel(idx.SpecificTitle, specific, LevelSpecific),
					Debit:  ss.Debit,
					Credit: ss.Credit,
				}
				for _, detail := range detailsBySpecific[specific] {
					ds := agg.Details[specific+":"+detail]
					if ds.Zero() {
						continue
					}
					title, ok := detailTitles[detail]
					if !ok || title == "" {
						title = LevelDetail.Label()
					}
					leaf.Children = append(leaf.Children, TreeNode{
						Code:   detail,
						Title:  title,
						Debit:  ds.Debit,
						Credit: ds.Credit,
					})
				}
				child.Children = append(child.Children, leaf)
			}
			node.Children = append(node.Children, child)
		}
		tree = append(tree, node)
	}
	return tree
}

// groupDetailKeys splits composite detail keys into per-specific sorted
// detail code lists.
func groupDetailKeys(details map[string]Sums) map[string][]string {
	out := make(map[string][]string)
	for key := range details {
		specific, detail := SplitDetailKey(key)
		if detail == "" {
			continue
		}
		out[specific] = append(out[specific], detail)
	}
	for _, list := range out {
		codes.SortNatural(list)
	}
	return out
}

func titleOrLabel(lookup func(string) (string, bool), code string, level Level) string {
	if title, ok := lookup(code); ok && title != "" {
		return title
	}
	return level.Label()
}

// SearchTree filters the tree by a free-text query matched
// case-insensitively against code and title. A node survives when it
// matches or any descendant matches; surviving ancestors keep only the
// children on a path to a match, so no path to a true match is lost. An
// empty query returns the tree unchanged.
func SearchTree(tree []TreeNode, query string) []TreeNode {
	query = strings.TrimSpace(query)
	if query == "" {
		return tree
	}
	needle := strings.ToLower(codes.FoldDigits(query))
	var out []TreeNode
	for _, node := range tree {
		if kept, ok := searchNode(node, needle); ok {
			out = append(out, kept)
		}
	}
	return out
}

func searchNode(node TreeNode, needle string) (TreeNode, bool) {
	var kept []TreeNode
	for _, child := range node.Children {
		if match, ok := searchNode(child, needle); ok {
			kept = append(kept, match)
		}
	}
	self := strings.Contains(strings.ToLower(node.Code), needle) ||
		strings.Contains(strings.ToLower(node.Title), needle)
	if !self && len(kept) == 0 {
		return TreeNode{}, false
	}
	node.Children = kept
	return node, true
}
