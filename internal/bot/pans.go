package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tghelpers "github.com/m3rciful/ipobot/core/telegram/helpers"
	"github.com/m3rciful/ipobot/core/telegram/keyboard"
	"github.com/m3rciful/ipobot/internal/pans"
	"github.com/m3rciful/ipobot/internal/storage"

	tele "gopkg.in/telebot.v4"
)

// handleAddPAN prompts for a submission and arms the pending-input state.
func (a *App) handleAddPAN(c tele.Context) error {
	a.sessions.SetState(c.Sender().ID, stateAwaitingPAN)
	prompt := "Please send your PAN, optionally followed by a name:\n" +
		"`ABCDE1234F` or `ABCDE1234F John Doe`"
	return tghelpers.SendMD(c, prompt, keyboard.SingleCancelMarkup(cbCancel))
}

// handlePANInput consumes the next free-text message as a PAN submission.
func (a *App) handlePANInput(c tele.Context) error {
	userID := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	rec, err := a.pans.Submit(ctx, userID, c.Text())
	switch {
	case errors.Is(err, pans.ErrInvalidSubmission):
		// Format errors keep the pending-input state so the user can retry.
		return tghelpers.SendMD(c,
			"That doesn't look right. Send a 10-character PAN, optionally "+
				"followed by a name: `ABCDE1234F John Doe`",
			keyboard.SingleCancelMarkup(cbCancel))
	case errors.Is(err, storage.ErrPanLimitExceeded):
		a.sessions.ClearState(userID)
		return tghelpers.SendMD(c,
			fmt.Sprintf("⚠️ Maximum %d PAN numbers allowed per user.", a.panLimit),
			mainMenuMarkup())
	case errors.Is(err, storage.ErrDuplicatePan):
		a.sessions.ClearState(userID)
		return tghelpers.SendMD(c, "⚠️ This PAN number is already added.", mainMenuMarkup())
	case err != nil:
		a.sessions.ClearState(userID)
		return tghelpers.SendMD(c, msgGenericErr, mainMenuMarkup())
	}

	a.sessions.ClearState(userID)
	count, cntErr := a.pans.Count(ctx, userID)
	text := fmt.Sprintf("✅ PAN saved: `%s` (%s)", rec.PAN, mdSafe(rec.Name))
	if cntErr == nil {
		text += fmt.Sprintf("\n%d/%d used", count, a.panLimit)
	}
	return tghelpers.SendMD(c, text, mainMenuMarkup())
}

// handleMyPANs lists the user's records in insertion order.
func (a *App) handleMyPANs(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	recs, err := a.pans.List(ctx, c.Sender().ID)
	if err != nil {
		return tghelpers.SendMD(c, msgGenericErr, mainMenuMarkup())
	}
	if len(recs) == 0 {
		return tghelpers.SendMD(c, "No PANs saved yet.", mainMenuMarkup())
	}
	return tghelpers.SendMD(c, renderPANList(recs, a.panLimit), mainMenuMarkup())
}

// handleDeleteMenu snapshots the current records into session scratch and
// asks for an index. The snapshot is what a later choice resolves against.
func (a *App) handleDeleteMenu(c tele.Context) error {
	userID := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	recs, err := a.pans.List(ctx, userID)
	if err != nil {
		return tghelpers.SendMD(c, msgGenericErr, mainMenuMarkup())
	}
	if len(recs) == 0 {
		return tghelpers.SendMD(c, "No PANs saved yet.", mainMenuMarkup())
	}

	a.sessions.SetTemp(userID, tempDeleteSnapshot, recs)
	a.sessions.SetState(userID, stateAwaitingDeleteChoice)

	var b strings.Builder
	b.WriteString("🗑 *Delete PAN*\n\n")
	for i, rec := range recs {
		fmt.Fprintf(&b, "%d. %s — `%s`\n", i+1, mdSafe(rec.Name), rec.PAN)
	}
	b.WriteString("\nSend the number of the PAN to delete.")
	return tghelpers.SendMD(c, b.String(), keyboard.SingleCancelMarkup(cbCancel))
}

// handleDeleteChoice resolves the leading index token of the reply against
// the snapshot taken when the delete menu was rendered.
func (a *App) handleDeleteChoice(c tele.Context) error {
	userID := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	val, ok := a.sessions.GetTemp(userID, tempDeleteSnapshot)
	snapshot, castOK := val.([]storage.PanRecord)
	if !ok || !castOK || len(snapshot) == 0 {
		return a.showMainMenu(c, msgWelcome)
	}

	idx, err := leadingIndex(c.Text())
	if err != nil || idx < 1 || idx > len(snapshot) {
		return tghelpers.SendMD(c,
			fmt.Sprintf("Send just the number, 1 to %d.", len(snapshot)),
			keyboard.SingleCancelMarkup(cbCancel))
	}

	rec := snapshot[idx-1]
	removed, err := a.pans.DeleteOwned(ctx, userID, rec.ID, rec.PAN)
	if err != nil {
		a.sessions.ClearState(userID)
		return tghelpers.SendMD(c, msgGenericErr, mainMenuMarkup())
	}
	if !removed {
		// The snapshot went stale; re-render instead of acting on the wrong row.
		if sendErr := tghelpers.SendText(c, "That entry changed in the meantime — here is the refreshed list."); sendErr != nil {
			return sendErr
		}
		return a.handleDeleteMenu(c)
	}

	a.sessions.ClearState(userID)
	a.sessions.ClearTemp(userID, tempDeleteSnapshot)
	return tghelpers.SendMD(c,
		fmt.Sprintf("🗑 Deleted PAN `%s` (%s)", rec.PAN, mdSafe(rec.Name)),
		mainMenuMarkup())
}

// leadingIndex extracts the first whitespace-separated token as a number.
func leadingIndex(text string) (int, error) {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(fields[0])
}
