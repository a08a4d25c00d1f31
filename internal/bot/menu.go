package bot

import (
	"fmt"

	tghelpers "github.com/m3rciful/ipobot/core/telegram/helpers"
	"github.com/m3rciful/ipobot/core/telegram/keyboard"

	tele "gopkg.in/telebot.v4"
)

// Callback uniques recognized by the registry. Any recognized key is
// accepted from any conversation state.
const (
	cbMainMenu  = "main_menu"
	cbAddPAN    = "add_pan"
	cbMyPANs    = "my_pan"
	cbDeletePAN = "delete_pan"
	cbIPOList   = "ipo_list"
	cbIPOPage   = "ipo_page"
	cbIPOCheck  = "ipo_check"
	cbCancel    = "cancel"
)

// Session temp keys for the per-conversation scratch state.
const (
	tempIPOPage        = "ipo_page"
	tempIPOPageItems   = "ipo_page_items"
	tempDeleteSnapshot = "pan_delete_snapshot"
)

const (
	msgWelcome     = "Welcome to IPO Allotment Bot 📊"
	msgCancelled   = "Cancelled."
	msgGenericErr  = "An error occurred ❌ Please try again."
	msgUnknownText = "I didn't catch that — use the menu below."
)

func mainMenuMarkup() *tele.ReplyMarkup {
	return keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{
			{Text: "➕ Add PAN", Unique: cbAddPAN},
			{Text: "🧾 My PANs", Unique: cbMyPANs},
		},
		[]keyboard.InlineBtn{
			{Text: "📈 Allotted IPOs", Unique: cbIPOList},
			{Text: "🗑 Delete PAN", Unique: cbDeletePAN},
		},
	)
}

// showMainMenu resets the conversation scratch and renders the top menu.
func (a *App) showMainMenu(c tele.Context, text string) error {
	a.sessions.Clear(c.Sender().ID)
	return tghelpers.EditOrSendMD(c, text, mainMenuMarkup())
}

func (a *App) handleStart(c tele.Context) error {
	return a.showMainMenu(c, msgWelcome)
}

func (a *App) handleHelp(c tele.Context) error {
	help := "*IPO Allotment Bot*\n\n" +
		"➕ Add PAN — store a PAN, optionally with a name: `ABCDE1234F John Doe`\n" +
		"🧾 My PANs — list stored PANs\n" +
		"📈 Allotted IPOs — browse IPOs and run an allotment check\n" +
		"🗑 Delete PAN — remove a stored PAN\n\n" +
		fmt.Sprintf("Up to %d PANs per user.", a.panLimit)
	return tghelpers.SendMD(c, help, mainMenuMarkup())
}

func (a *App) handleCancel(c tele.Context) error {
	return a.showMainMenu(c, msgCancelled)
}

func (a *App) handleUnknownText(c tele.Context) error {
	return tghelpers.SendMD(c, msgUnknownText, mainMenuMarkup())
}

// handleStats is an admin-only command reporting store totals.
func (a *App) handleStats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	total, err := a.pans.Total(ctx)
	if err != nil {
		return tghelpers.SendText(c, msgGenericErr)
	}
	return tghelpers.SendMD(c, fmt.Sprintf("📈 *Stats*\n\nStored PAN records: %d", total))
}
