// Package app assembles the job board bot: configuration, storage, the
// flow controller, the Telegram transport, and the retention sweeper.
package app

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/vilarso/cropservicebot/core/bootstrap"
	coretelegram "github.com/vilarso/cropservicebot/core/telegram"
	"github.com/vilarso/cropservicebot/core/telegram/router"
	"github.com/vilarso/cropservicebot/internal/flow"
	"github.com/vilarso/cropservicebot/internal/presenter"
	"github.com/vilarso/cropservicebot/internal/store"
	"github.com/vilarso/cropservicebot/internal/sweeper"
)

// App holds the assembled application.
type App struct {
	cfg       *Config
	db        *sqlx.DB
	transport *Transport
	listings  store.ListingStore
	sessions  store.SessionStore
	flow      *flow.Controller
	sweep     *sweeper.Sweeper
}

// Bootstrap initializes logging, the database (with migrations), and wires
// the domain services.
func Bootstrap(cfg *Config) (*App, error) {
	res, err := bootstrap.Run(bootstrap.Options{
		Config:   cfg.CoreConfig(),
		Database: cfg.Database,
	})
	if err != nil {
		return nil, err
	}

	transport := &Transport{}
	listings := store.NewListings(res.DB)

	return &App{
		cfg:       cfg,
		db:        res.DB,
		transport: transport,
		listings:  listings,
		sessions:  store.NewSessions(res.DB),
		flow: flow.NewController(
			listings,
			store.NewSequences(res.DB),
			presenter.New(transport),
			cfg.Board.PageSize,
		),
		sweep: sweeper.New(listings, cfg.Board.SweepInterval(), 0),
	}, nil
}

// TelegramRunOptions builds the bot runtime wiring.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()
	a.registerCommands(reg)
	if err := a.registerCallbacks(reg); err != nil {
		return coretelegram.RunOptions{}, err
	}

	core := a.cfg.CoreConfig()

	routes := []coretelegram.Route{
		router.CallbackRoute(reg, router.CallbackOptions{}),
	}
	routes = append(routes, router.TextRoutes(a, reg, router.TextOptions{})...)
	routes = append(routes, router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: core.Telegram.AdminID,
	})...)

	return coretelegram.RunOptions{
		Config:      core,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(core, nil),
		Routes:      routes,
		OnStart: func(ctx context.Context, rt coretelegram.Runtime) error {
			a.transport.SetBot(rt.Bot)
			go a.sweep.Run(ctx)
			return nil
		},
		OnStop: func(context.Context, coretelegram.Runtime) error {
			return a.Close()
		},
	}, nil
}

// Close releases the database handle.
func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}
