package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m3rciful/ipobot/internal/ipo"
	"github.com/m3rciful/ipobot/internal/storage"
)

func TestRenderPANList(t *testing.T) {
	recs := []storage.PanRecord{
		{ID: 1, Name: "John Doe", PAN: "ABCDE1234F"},
		{ID: 2, Name: "No Name", PAN: "FGHIJ5678K"},
	}

	out := renderPANList(recs, 20)

	assert.Contains(t, out, "1. John Doe — `ABCDE1234F`")
	assert.Contains(t, out, "2. No Name — `FGHIJ5678K`")
	assert.Contains(t, out, "2/20 used")
}

func TestRenderResultsCoversEveryRecord(t *testing.T) {
	recs := []storage.PanRecord{
		{ID: 1, Name: "John Doe", PAN: "ABCDE1234F"},
		{ID: 2, Name: "No Name", PAN: "FGHIJ5678K"},
		{ID: 3, Name: "Jane", PAN: "KLMNO9012P"},
	}
	entries := []ipo.Entry{
		{PAN: "ABCDE1234F", Status: "Allotted", AllottedQty: "10", Success: true},
		{PAN: "FGHIJ5678K", Status: "Not Allotted", Success: true},
	}

	results := ipo.Aggregate(recs, entries)
	require.Len(t, results, 3)

	out := renderResults("Acme Industries", results)

	assert.Contains(t, out, "Acme Industries")
	assert.Contains(t, out, "1. John Doe (`ABCDE1234F`): 🎉 ALLOTTED — 10")
	assert.Contains(t, out, "2. No Name (`FGHIJ5678K`): ❌ NOT ALLOTTED")
	assert.Contains(t, out, "3. Jane (`KLMNO9012P`): NOT APPLIED")
	assert.Contains(t, out, "🎉 Congratulations! You have an allotment!")
}

func TestRenderResultsNoAllotmentSummary(t *testing.T) {
	recs := []storage.PanRecord{{ID: 1, Name: "John", PAN: "ABCDE1234F"}}
	entries := []ipo.Entry{{PAN: "ABCDE1234F", Status: "Not Allotted", Success: true}}

	out := renderResults("Acme", ipo.Aggregate(recs, entries))

	assert.Contains(t, out, "Better luck next time! 🍀")
	assert.NotContains(t, out, "Congratulations")
}

func TestRenderVerdictOtherKeepsRawStatus(t *testing.T) {
	r := ipo.Result{
		Record:    storage.PanRecord{Name: "John", PAN: "ABCDE1234F"},
		Verdict:   ipo.VerdictOther,
		RawStatus: "Pending",
		Qty:       "5",
	}
	assert.Equal(t, "Pending — 5", renderVerdict(r))

	r.Qty = "0"
	assert.Equal(t, "Pending", renderVerdict(r))
}

func TestRenderIPOPageText(t *testing.T) {
	items := []ipo.IPO{
		{ID: "11", Name: "Acme Industries"},
		{ID: "12", Name: "Globex Corp"},
	}

	out := renderIPOPageText(items, 1, 3)

	assert.Contains(t, out, "page 2/3")
	assert.Contains(t, out, "1. Acme Industries")
	assert.Contains(t, out, "2. Globex Corp")
}

func TestLeadingIndex(t *testing.T) {
	cases := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"3", 3, false},
		{"  2  delete", 2, false},
		{"first", 0, true},
		{"", 0, true},
	}
	for _, tc := range cases {
		got, err := leadingIndex(tc.in)
		if tc.wantErr {
			assert.Error(t, err, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}
