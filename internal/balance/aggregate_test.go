package balance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ledgerview/ledgerview/internal/codes"
)

func TestAggregateSumsPerKey(t *testing.T) {
	rows := []LedgerItem{
		{AccountCode: "100101", Debit: 500},
		{AccountCode: "100102", Credit: 200},
		{AccountCode: "200101", Debit: 300, Credit: 50},
	}
	byGroup := Aggregate(rows, GroupKey(codes.DefaultWidths()))
	assert.Equal(t, Sums{Debit: 500, Credit: 200}, byGroup["10"])
	assert.Equal(t, Sums{Debit: 300, Credit: 50}, byGroup["20"])
}

func TestAggregateSkipsEmptyKeys(t *testing.T) {
	rows := []LedgerItem{
		{AccountCode: "100101", DetailCode: "501", Debit: 100},
		{AccountCode: "100101", Debit: 400}, // untagged, no detail entry
		{AccountCode: "", Debit: 50},        // no account code at all
	}
	w := codes.DefaultWidths()
	byDetail := Aggregate(rows, DetailKey(w))
	assert.Len(t, byDetail, 1)
	assert.Equal(t, Sums{Debit: 100}, byDetail["100101:501"])

	// The untagged row still counts at the specific level.
	bySpecific := Aggregate(rows, SpecificKey(w))
	assert.Equal(t, Sums{Debit: 500}, bySpecific["100101"])
}

func TestAggregateAdditivityOverPartitions(t *testing.T) {
	rows := []LedgerItem{
		{AccountCode: "100101", Debit: 10},
		{AccountCode: "100102", Credit: 20},
		{AccountCode: "100201", Debit: 30},
		{AccountCode: "200101", Credit: 40},
		{AccountCode: "200102", Debit: 50, Credit: 5},
	}
	key := GeneralKey(codes.DefaultWidths())
	whole := Aggregate(rows, key)

	merged := map[string]Sums{}
	for _, part := range [][]LedgerItem{rows[:2], rows[2:4], rows[4:]} {
		for k, s := range Aggregate(part, key) {
			m := merged[k]
			m.Debit += s.Debit
			m.Credit += s.Credit
			merged[k] = m
		}
	}
	assert.Equal(t, whole, merged)
}

func TestSplitDetailKey(t *testing.T) {
	specific, detail := SplitDetailKey("100101:501")
	assert.Equal(t, "100101", specific)
	assert.Equal(t, "501", detail)
}
