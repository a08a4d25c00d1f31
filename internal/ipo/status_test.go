package ipo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/ipobot/internal/storage"
)

func TestClassify(t *testing.T) {
	assert.Equal(t, VerdictAllotted, Classify("Allotted"))
	assert.Equal(t, VerdictAllotted, Classify("  ALLOTTED "))
	assert.Equal(t, VerdictAllotted, Classify("alloted"))
	assert.Equal(t, VerdictNotApplied, Classify("Not Applied"))
	assert.Equal(t, VerdictNotAllotted, Classify("Not Allotted"))
	assert.Equal(t, VerdictNotAllotted, Classify("not_allotted"))
	assert.Equal(t, VerdictOther, Classify("Under Process"))
	assert.Equal(t, VerdictOther, Classify(""))
}

func TestAggregateMapsEntriesOntoRecords(t *testing.T) {
	records := []storage.PanRecord{
		{ID: 1, UserID: 7, Name: "John Doe", PAN: "ABCDE1234F"},
		{ID: 2, UserID: 7, Name: "No Name", PAN: "BVJPC7028R"},
	}
	entries := []Entry{
		{PAN: "ABCDE1234F", Status: "Allotted", AllottedQty: "10", Success: true},
		// no entry for BVJPC7028R
	}

	results := Aggregate(records, entries)
	require.Len(t, results, 2)

	assert.Equal(t, VerdictAllotted, results[0].Verdict)
	assert.Equal(t, "10", results[0].Qty)
	assert.True(t, results[0].HasQty())

	assert.Equal(t, VerdictNotApplied, results[1].Verdict)
	assert.False(t, results[1].HasQty())

	assert.Equal(t, "🎉 Congratulations! You have an allotment!", Summary(results))
}

func TestAggregateIgnoresFailedEntries(t *testing.T) {
	records := []storage.PanRecord{{ID: 1, PAN: "ABCDE1234F"}}
	entries := []Entry{{PAN: "ABCDE1234F", Status: "Allotted", Success: false}}

	results := Aggregate(records, entries)
	require.Len(t, results, 1)
	assert.Equal(t, VerdictNotApplied, results[0].Verdict)
}

func TestSummaryTiers(t *testing.T) {
	allotted := Result{Verdict: VerdictAllotted}
	notAllotted := Result{Verdict: VerdictNotAllotted}
	notApplied := Result{Verdict: VerdictNotApplied}

	assert.NotEmpty(t, Summary([]Result{allotted, notAllotted}))
	assert.Equal(t, "Better luck next time! 🍀", Summary([]Result{notAllotted, notApplied}))
	assert.Empty(t, Summary([]Result{notApplied, notApplied}))
	assert.Empty(t, Summary(nil))
}

func TestOtherStatusKeepsQty(t *testing.T) {
	records := []storage.PanRecord{{ID: 1, PAN: "ABCDE1234F"}}
	entries := []Entry{{PAN: "ABCDE1234F", Status: "Under Process", AllottedQty: "0", Success: true}}

	results := Aggregate(records, entries)
	require.Len(t, results, 1)
	assert.Equal(t, VerdictOther, results[0].Verdict)
	assert.Equal(t, "Under Process", results[0].RawStatus)
	assert.False(t, results[0].HasQty())
}
