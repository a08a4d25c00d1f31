package ipo

import (
	"strconv"
	"strings"

	"github.com/m3rciful/ipobot/internal/storage"
)

// Verdict is the classified allotment outcome for one record.
type Verdict int

const (
	// VerdictNotApplied covers records the service has no successful entry for.
	VerdictNotApplied Verdict = iota
	// VerdictAllotted means shares were granted.
	VerdictAllotted
	// VerdictNotAllotted means the application went through but nothing was granted.
	VerdictNotAllotted
	// VerdictOther passes an unrecognized status string through verbatim.
	VerdictOther
)

// Result pairs one stored record with its classified allotment outcome.
type Result struct {
	Record    storage.PanRecord
	Verdict   Verdict
	RawStatus string
	Qty       string
}

// Classify maps a service status string onto a Verdict, case-insensitively.
func Classify(status string) Verdict {
	switch strings.ToLower(strings.TrimSpace(status)) {
	case "allotted", "alloted":
		return VerdictAllotted
	case "not applied", "not-applied", "not_applied":
		return VerdictNotApplied
	case "not allotted", "not alloted", "not-allotted", "not_allotted":
		return VerdictNotAllotted
	default:
		return VerdictOther
	}
}

// Aggregate maps the batch response back onto the owner's records by exact
// PAN match. Records without a successful entry come out as not-applied.
func Aggregate(records []storage.PanRecord, entries []Entry) []Result {
	byPAN := make(map[string]Entry, len(entries))
	for _, e := range entries {
		if e.Success {
			byPAN[e.PAN] = e
		}
	}

	results := make([]Result, 0, len(records))
	for _, rec := range records {
		entry, ok := byPAN[rec.PAN]
		if !ok {
			results = append(results, Result{Record: rec, Verdict: VerdictNotApplied})
			continue
		}
		results = append(results, Result{
			Record:    rec,
			Verdict:   Classify(entry.Status),
			RawStatus: strings.TrimSpace(entry.Status),
			Qty:       strings.TrimSpace(entry.AllottedQty),
		})
	}
	return results
}

// HasQty reports whether the quantity string parses to a nonzero amount.
func (r Result) HasQty() bool {
	n, err := strconv.ParseFloat(r.Qty, 64)
	return err == nil && n != 0
}

// Summary renders the single closing line: congratulatory with at least one
// allotment, encouraging with none allotted but some not-allotted, empty
// otherwise.
func Summary(results []Result) string {
	allotted, notAllotted := 0, 0
	for _, r := range results {
		switch r.Verdict {
		case VerdictAllotted:
			allotted++
		case VerdictNotAllotted:
			notAllotted++
		}
	}
	switch {
	case allotted > 0:
		return "🎉 Congratulations! You have an allotment!"
	case notAllotted > 0:
		return "Better luck next time! 🍀"
	default:
		return ""
	}
}
