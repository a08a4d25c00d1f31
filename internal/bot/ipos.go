package bot

import (
	"context"
	"errors"
	"strconv"

	"github.com/m3rciful/ipobot/core/telegram/callbacks"
	tghelpers "github.com/m3rciful/ipobot/core/telegram/helpers"
	"github.com/m3rciful/ipobot/core/telegram/keyboard"
	"github.com/m3rciful/ipobot/internal/ipo"

	tele "gopkg.in/telebot.v4"
)

const ipoButtonsPerRow = 4

// handleIPOList opens the browse flow on the first page.
func (a *App) handleIPOList(c tele.Context) error {
	return a.renderIPOPage(c, 0)
}

// handleIPOPage re-renders the browse view at the page carried in the
// callback payload. A malformed payload falls back to the page cached on
// the previous render rather than resetting the user to the first page.
func (a *App) handleIPOPage(c tele.Context) error {
	page, err := callbacks.PayloadInt(c)
	if err != nil {
		page = a.lastPage(c.Sender().ID)
	}
	return a.renderIPOPage(c, page)
}

// lastPage restores the page index cached by the previous render.
func (a *App) lastPage(userID int64) int {
	val, ok := a.sessions.GetTemp(userID, tempIPOPage)
	if !ok {
		return 0
	}
	page, ok := val.(int)
	if !ok {
		return 0
	}
	return page
}

// renderIPOPage fetches the full list, clamps the requested page and shows
// one page of items. The list is re-fetched on every render so a shrunken
// remote list never leaves a dangling page.
func (a *App) renderIPOPage(c tele.Context, page int) error {
	userID := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	items, err := a.ipo.List(ctx)
	switch {
	case errors.Is(err, ipo.ErrTimeout):
		return tghelpers.EditOrSendMD(c,
			"⏳ The IPO service took too long to respond.",
			retryMarkup(cbIPOPage, strconv.Itoa(page)))
	case err != nil:
		if msg, ok := remoteMessage(err); ok {
			return tghelpers.EditOrSendMD(c, "⚠️ "+msg, mainMenuMarkup())
		}
		return tghelpers.EditOrSendMD(c, msgGenericErr, mainMenuMarkup())
	}
	if len(items) == 0 {
		return tghelpers.EditOrSendMD(c, "No allotted IPOs are listed right now.", mainMenuMarkup())
	}

	page = clampPage(len(items), a.pageSize, page)
	lo, hi := pageBounds(len(items), a.pageSize, page)
	visible := items[lo:hi]
	pages := totalPages(len(items), a.pageSize)

	a.sessions.SetTemp(userID, tempIPOPage, page)
	a.sessions.SetTemp(userID, tempIPOPageItems, visible)
	a.sessions.SetState(userID, stateBrowsingIPOs)

	numbers := make([]keyboard.InlineBtn, len(visible))
	for i, item := range visible {
		numbers[i] = keyboard.InlineBtn{
			Text:   strconv.Itoa(i + 1),
			Unique: cbIPOCheck,
			Data:   item.ID,
		}
	}
	var rows [][]keyboard.InlineBtn
	for i := 0; i < len(numbers); i += ipoButtonsPerRow {
		end := i + ipoButtonsPerRow
		if end > len(numbers) {
			end = len(numbers)
		}
		rows = append(rows, numbers[i:end])
	}

	var nav []keyboard.InlineBtn
	if hasPrev(page) {
		nav = append(nav, keyboard.InlineBtn{
			Text: "⬅️ Prev", Unique: cbIPOPage, Data: strconv.Itoa(page - 1),
		})
	}
	if hasNext(len(items), a.pageSize, page) {
		nav = append(nav, keyboard.InlineBtn{
			Text: "Next ➡️", Unique: cbIPOPage, Data: strconv.Itoa(page + 1),
		})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}
	rows = append(rows, []keyboard.InlineBtn{{Text: "🏠 Menu", Unique: cbMainMenu}})

	return tghelpers.EditOrSendMD(c,
		renderIPOPageText(visible, page, pages),
		keyboard.InlineButtonsRows(rows...))
}

// errNotListed marks an item id that the remote listing no longer contains.
var errNotListed = errors.New("ipo no longer listed")

// lookupIPO resolves an item id against the page last shown to the user,
// falling back to a fresh listing for buttons on older messages.
func (a *App) lookupIPO(ctx context.Context, userID int64, id string) (ipo.IPO, error) {
	if item, ok := a.cachedItem(userID, id); ok {
		return item, nil
	}
	items, err := a.ipo.List(ctx)
	if err != nil {
		return ipo.IPO{}, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return ipo.IPO{}, errNotListed
}

// handleIPOCheck resolves the item id from the callback payload and runs the
// allotment check.
func (a *App) handleIPOCheck(c tele.Context) error {
	id := callbacks.CallbackPayload(c)
	if id == "" {
		return a.showMainMenu(c, msgWelcome)
	}

	item, err := a.lookupIPO(tghelpers.BuildContext(c), c.Sender().ID, id)
	switch {
	case errors.Is(err, errNotListed):
		return tghelpers.EditOrSendMD(c, "That IPO is no longer listed.", mainMenuMarkup())
	case errors.Is(err, ipo.ErrTimeout):
		return tghelpers.EditOrSendMD(c,
			"⏳ The IPO service took too long to respond.",
			retryMarkup(cbIPOCheck, id))
	case err != nil:
		if msg, ok := remoteMessage(err); ok {
			return tghelpers.EditOrSendMD(c, "⚠️ "+msg, mainMenuMarkup())
		}
		return tghelpers.EditOrSendMD(c, msgGenericErr, mainMenuMarkup())
	}
	return a.runAllotmentCheck(c, item)
}

// handleBrowseChoice consumes a typed item number while the browse view is
// open, resolving it against the page that was on screen.
func (a *App) handleBrowseChoice(c tele.Context) error {
	userID := c.Sender().ID

	val, ok := a.sessions.GetTemp(userID, tempIPOPageItems)
	visible, castOK := val.([]ipo.IPO)
	if !ok || !castOK || len(visible) == 0 {
		return a.showMainMenu(c, msgWelcome)
	}

	idx, err := leadingIndex(c.Text())
	if err != nil || idx < 1 || idx > len(visible) {
		return tghelpers.SendMD(c,
			"Send a number from the list, 1 to "+strconv.Itoa(len(visible))+".",
			keyboard.SingleCancelMarkup(cbCancel))
	}
	return a.runAllotmentCheck(c, visible[idx-1])
}

// runAllotmentCheck submits every stored PAN in one batch and renders the
// per-record verdicts.
func (a *App) runAllotmentCheck(c tele.Context, item ipo.IPO) error {
	userID := c.Sender().ID
	ctx := tghelpers.BuildContext(c)

	recs, err := a.pans.List(ctx, userID)
	if err != nil {
		return tghelpers.SendMD(c, msgGenericErr, mainMenuMarkup())
	}
	if len(recs) == 0 {
		return tghelpers.SendMD(c, "You have no PANs saved yet — add one first.",
			keyboard.InlineButtonsRows(
				[]keyboard.InlineBtn{{Text: "➕ Add PAN", Unique: cbAddPAN}},
				[]keyboard.InlineBtn{{Text: "🏠 Menu", Unique: cbMainMenu}},
			))
	}

	panNumbers := make([]string, len(recs))
	for i, rec := range recs {
		panNumbers[i] = rec.PAN
	}

	entries, err := a.ipo.CheckAllotment(ctx, item.ID, panNumbers)
	switch {
	case errors.Is(err, ipo.ErrTimeout):
		return tghelpers.SendMD(c,
			"⏳ The allotment check took too long. Try again in a moment.",
			retryMarkup(cbIPOCheck, item.ID))
	case err != nil:
		if msg, ok := remoteMessage(err); ok {
			return tghelpers.SendMD(c, "⚠️ "+msg, mainMenuMarkup())
		}
		return tghelpers.SendMD(c, msgGenericErr, mainMenuMarkup())
	}

	results := ipo.Aggregate(recs, entries)
	return tghelpers.SendMD(c, renderResults(item.Name, results), mainMenuMarkup())
}

// cachedItem looks the id up in the page last shown to the user.
func (a *App) cachedItem(userID int64, id string) (ipo.IPO, bool) {
	val, ok := a.sessions.GetTemp(userID, tempIPOPageItems)
	if !ok {
		return ipo.IPO{}, false
	}
	visible, ok := val.([]ipo.IPO)
	if !ok {
		return ipo.IPO{}, false
	}
	for _, item := range visible {
		if item.ID == id {
			return item, true
		}
	}
	return ipo.IPO{}, false
}

func retryMarkup(unique, data string) *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: "🔁 Retry", Unique: unique, Data: data}},
		[]keyboard.InlineBtn{{Text: "🏠 Menu", Unique: cbMainMenu}},
	)
}

// remoteMessage extracts the service-supplied failure text, if any.
func remoteMessage(err error) (string, bool) {
	var rerr *ipo.RemoteError
	if errors.As(err, &rerr) && rerr.Message != "" {
		return rerr.Message, true
	}
	return "", false
}
