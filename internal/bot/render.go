package bot

import (
	"fmt"
	"strings"

	"github.com/m3rciful/ipobot/core/telegram/format"
	"github.com/m3rciful/ipobot/internal/ipo"
	"github.com/m3rciful/ipobot/internal/storage"
)

// mdSafe escapes user- and service-supplied text before it is embedded in
// Markdown messages.
func mdSafe(text string) string {
	escaped, err := format.EscapeMarkdown(text, format.MarkdownV1, "")
	if err != nil {
		return text
	}
	return escaped
}

// renderPANList formats the user's records as a numbered Markdown list in
// display order, followed by the count line.
func renderPANList(recs []storage.PanRecord, limit int) string {
	var b strings.Builder
	b.WriteString("🧾 *Your PAN numbers:*\n\n")
	for i, rec := range recs {
		fmt.Fprintf(&b, "%d. %s — `%s`\n", i+1, mdSafe(rec.Name), rec.PAN)
	}
	fmt.Fprintf(&b, "\n%d/%d used", len(recs), limit)
	return b.String()
}

// renderResults formats the aggregated allotment outcome, one line per
// stored record, then the summary line when there is one.
func renderResults(ipoName string, results []ipo.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📊 *Allotment status — %s*\n\n", mdSafe(ipoName))
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s (`%s`): %s\n", i+1, mdSafe(r.Record.Name), r.Record.PAN, renderVerdict(r))
	}
	if summary := ipo.Summary(results); summary != "" {
		b.WriteString("\n" + summary)
	}
	return b.String()
}

func renderVerdict(r ipo.Result) string {
	switch r.Verdict {
	case ipo.VerdictAllotted:
		if r.Qty != "" {
			return fmt.Sprintf("🎉 ALLOTTED — %s", r.Qty)
		}
		return "🎉 ALLOTTED"
	case ipo.VerdictNotAllotted:
		return "❌ NOT ALLOTTED"
	case ipo.VerdictOther:
		if r.HasQty() {
			return fmt.Sprintf("%s — %s", r.RawStatus, r.Qty)
		}
		return r.RawStatus
	default:
		return "NOT APPLIED"
	}
}

// renderIPOPageText formats one browse page with per-page numbering.
func renderIPOPageText(items []ipo.IPO, page, pages int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📋 *Allotted IPO List* (page %d/%d)\n\n", page+1, pages)
	for i, item := range items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, mdSafe(item.Name))
	}
	b.WriteString("\nSend a number or tap a button to check allotment.")
	return b.String()
}
