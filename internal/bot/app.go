// Package bot wires the Telegram surface: the command/callback registry,
// conversation states, and the handlers behind each menu action.
package bot

import (
	"fmt"

	tg "github.com/m3rciful/ipobot/core/telegram"
	"github.com/m3rciful/ipobot/core/telegram/commands"
	"github.com/m3rciful/ipobot/core/telegram/router"
	"github.com/m3rciful/ipobot/core/telegram/state"
	"github.com/m3rciful/ipobot/core/telegram/ui"
	"github.com/m3rciful/ipobot/internal/config"
	"github.com/m3rciful/ipobot/internal/ipo"
	"github.com/m3rciful/ipobot/internal/pans"
	"github.com/m3rciful/ipobot/internal/storage"

	tele "gopkg.in/telebot.v4"
)

// Conversation states. A recognized command or callback always wins over a
// pending state; only free text lands in these handlers.
const (
	stateAwaitingPAN          state.State = "pan_input"
	stateAwaitingDeleteChoice state.State = "pan_delete_choice"
	stateBrowsingIPOs         state.State = "ipo_browse"
)

const defaultPageSize = 8

// App owns the bot's services and registrations.
type App struct {
	cfg      *config.Config
	pans     *pans.Service
	ipo      *ipo.Client
	sessions state.Manager
	registry *tg.Registry

	panLimit int
	pageSize int
}

// New builds the application and registers every command, callback and
// conversation state.
func New(cfg *config.Config, svc *pans.Service, client *ipo.Client) (*App, error) {
	limit := cfg.Pans.MaxPerUser
	if limit <= 0 {
		limit = storage.MaxPANsPerUser
	}
	size := cfg.IPO.PageSize
	if size <= 0 {
		size = defaultPageSize
	}

	a := &App{
		cfg:      cfg,
		pans:     svc,
		ipo:      client,
		sessions: state.NewMemoryManager(),
		registry: tg.NewRegistry(),
		panLimit: limit,
		pageSize: size,
	}
	if err := a.wire(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) wire() error {
	reg := a.registry

	reg.RegisterCommand("/start", commands.Command{Handler: a.handleStart, Description: "Open the main menu"})
	reg.RegisterCommand("/help", commands.Command{Handler: a.handleHelp, Description: "How the bot works"})
	reg.RegisterCommand("/ipos", commands.Command{Handler: a.handleIPOList, Description: "Browse allotted IPOs"})
	reg.RegisterCommand("/cancel", commands.Command{Handler: a.handleCancel, Description: "Cancel the current action", Hidden: true})
	reg.RegisterCommand("/stats", commands.Command{Handler: a.handleStats, Description: "Store totals", AdminOnly: true, Hidden: true})

	cbs := map[string]tele.HandlerFunc{
		cbMainMenu:  a.handleStart,
		cbAddPAN:    a.handleAddPAN,
		cbMyPANs:    a.handleMyPANs,
		cbDeletePAN: a.handleDeleteMenu,
		cbIPOList:   a.handleIPOList,
		cbIPOPage:   a.handleIPOPage,
		cbIPOCheck:  a.handleIPOCheck,
		cbCancel:    a.handleCancel,
	}
	for key, h := range cbs {
		if err := reg.RegisterCallback(key, h); err != nil {
			return fmt.Errorf("bot: %w", err)
		}
	}
	reg.SetTextFallback(a.handleUnknownText)

	state.RegisterHandler(stateAwaitingPAN, a.handlePANInput)
	state.RegisterHandler(stateAwaitingDeleteChoice, a.handleDeleteChoice)
	state.RegisterHandler(stateBrowsingIPOs, a.handleBrowseChoice)

	return nil
}

// UnknownText handles free text that matched no command, state or fallback.
func (a *App) UnknownText() tele.HandlerFunc { return a.handleUnknownText }

// UnknownDocument handles stray document uploads.
func (a *App) UnknownDocument() tele.HandlerFunc { return a.handleUnknownText }

// UnknownCallback handles callbacks whose key is no longer registered,
// typically buttons on messages from an older build.
func (a *App) UnknownCallback() tele.HandlerFunc { return a.handleStart }

var _ ui.FallbackProvider = (*App)(nil)

// TelegramRunOptions assembles routes and middleware for the shared runtime.
func (a *App) TelegramRunOptions() (tg.RunOptions, error) {
	core := a.cfg.CoreConfig()
	if core == nil {
		return tg.RunOptions{}, fmt.Errorf("bot: nil core config")
	}

	routes := router.CommandRoutes(a.registry, router.CommandRouteOptions{
		AdminID: core.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(a.registry, router.CallbackOptions{
		NotFound: a.UnknownCallback(),
	}))
	routes = append(routes, router.TextRoutes(a.sessions, a.registry, router.TextOptions{
		UnknownText:     a.UnknownText(),
		UnknownDocument: a.UnknownDocument(),
	})...)

	mws := tg.DefaultMiddlewares(core, nil)
	mws = append(mws, tg.Middleware{Name: "session", Use: state.WithSession(a.sessions)})

	return tg.RunOptions{
		Config:      core,
		Registry:    a.registry,
		Middlewares: mws,
		Routes:      routes,
	}, nil
}
