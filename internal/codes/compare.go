package codes

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortNatural orders code strings with numeric-aware comparison, so that
// "10" sorts after "9" rather than before it.
func SortNatural(values []string) {
	if len(values) < 2 {
		return
	}
	c := collate.New(language.Und, collate.Numeric)
	sort.Slice(values, func(i, j int) bool {
		return c.CompareString(values[i], values[j]) < 0
	})
}
