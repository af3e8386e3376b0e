// Package bot wires the food catalog dialogue controller to the Telegram
// transport: configuration, bootstrap, command registry, and the adapters
// converting telebot updates into dialog events and replies into sends.
package bot

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/m3rciful/foodbot/core/bootstrap"
	corecmd "github.com/m3rciful/foodbot/core/cmd"
	coreconfig "github.com/m3rciful/foodbot/core/config"
	coretelegram "github.com/m3rciful/foodbot/core/telegram"
	"github.com/m3rciful/foodbot/core/telegram/commands"
	"github.com/m3rciful/foodbot/core/telegram/router"
	"github.com/m3rciful/foodbot/core/telegram/state"
	"github.com/m3rciful/foodbot/dialog"
	"github.com/m3rciful/foodbot/foods"
)

// Config carries the application configuration for core/cmd.Run.
type Config struct {
	core *coreconfig.Config
}

// CoreConfig returns the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config { return c.core }

// LoadConfig reads and validates the YAML+env configuration at path.
func LoadConfig(path string) (corecmd.ConfigCarrier, error) {
	cfg, err := coreconfig.Load(path)
	if err != nil {
		return nil, err
	}
	return &Config{core: cfg}, nil
}

// App is the running food catalog bot.
type App struct {
	cfg        *coreconfig.Config
	db         *sqlx.DB
	sessions   state.Manager
	controller *dialog.Controller
}

// Bootstrap initializes logging, database, and migrations, then assembles the
// application graph.
func Bootstrap(carrier corecmd.ConfigCarrier) (corecmd.TelegramApp, error) {
	cfg := carrier.CoreConfig()

	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg,
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	sessions := state.NewMemoryManager()
	store := foods.NewStore(res.DB)

	return &App{
		cfg:        cfg,
		db:         res.DB,
		sessions:   sessions,
		controller: dialog.NewController(store, sessions),
	}, nil
}

// TelegramRunOptions builds the registry, routes, and middleware chain for
// core/telegram.RunTelegram.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	if a.controller == nil {
		return coretelegram.RunOptions{}, fmt.Errorf("bot: app not bootstrapped")
	}

	reg := coretelegram.NewRegistry()
	a.registerCommands(reg)
	if err := a.registerCallbacks(reg); err != nil {
		return coretelegram.RunOptions{}, err
	}
	reg.SetTextFallback(a.textFallback)

	routes := router.CommandRoutes(reg)
	routes = append(routes, router.TextRoutes(fsmAdapter{app: a}, reg, router.TextOptions{})...)
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))

	return coretelegram.RunOptions{
		Config:      a.cfg,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(a.cfg, nil),
		Routes:      routes,
		OnStop: func(context.Context, coretelegram.Runtime) error {
			return a.db.Close()
		},
	}, nil
}

func (a *App) registerCommands(reg *coretelegram.Registry) {
	reg.RegisterCommand(dialog.CmdStart, commands.Command{
		Handler:     a.commandHandler(dialog.CmdStart),
		Description: "Start the bot",
		Hidden:      true,
	})
	reg.RegisterCommand(dialog.CmdMenu, commands.Command{
		Handler:     a.commandHandler(dialog.CmdMenu),
		Description: "Get menu",
		Aliases:     []string{"menu"},
	})
	reg.RegisterCommand(dialog.CmdFindFood, commands.Command{
		Handler:     a.commandHandler(dialog.CmdFindFood),
		Description: "Find dish",
		Aliases:     []string{"find food"},
	})
	reg.RegisterCommand(dialog.CmdHelp, commands.Command{
		Handler:     a.commandHandler(dialog.CmdHelp),
		Description: "Show this menu",
		Aliases:     []string{"help"},
	})
	reg.RegisterCommand(dialog.CmdCreateFood, commands.Command{
		Handler:     a.commandHandler(dialog.CmdCreateFood),
		Description: "Create a food entry",
		Aliases:     []string{"create food"},
		AdminOnly:   true,
	})
	reg.RegisterCommand(dialog.CmdUpdateFood, commands.Command{
		Handler:     a.commandHandler(dialog.CmdUpdateFood),
		Description: "Update a food entry",
		Aliases:     []string{"update food"},
		AdminOnly:   true,
	})
	reg.RegisterCommand(dialog.CmdDeleteFood, commands.Command{
		Handler:     a.commandHandler(dialog.CmdDeleteFood),
		Description: "Delete a food entry",
		Aliases:     []string{"delete food"},
		AdminOnly:   true,
	})
	reg.RegisterCommand(dialog.CmdPassAdmin, commands.Command{
		Handler:     a.commandHandler(dialog.CmdPassAdmin),
		Description: "Enable admin mode",
		Hidden:      true,
	})
}

func (a *App) registerCallbacks(reg *coretelegram.Registry) error {
	if err := reg.RegisterCallback(dialog.CallbackFood, a.selectHandler(dialog.CallbackFood)); err != nil {
		return err
	}
	return reg.RegisterCallback(dialog.CallbackBack, a.selectHandler(dialog.CallbackBack))
}
