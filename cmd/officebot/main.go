package main

import (
	"fmt"
	"log"
	"os"
	"time"

	tele "gopkg.in/telebot.v4"

	"officebot/core/cmd"
	coreconfig "officebot/core/config"
	"officebot/core/logger"
	coretelegram "officebot/core/telegram"
	"officebot/core/telegram/middleware"
	"officebot/dialog"
	"officebot/loc"
	"officebot/store"
)

type app struct {
	cfg *coreconfig.Config
}

func (a *app) CoreConfig() *coreconfig.Config { return a.cfg }

func (a *app) TelegramRunOptions() (coretelegram.RunOptions, error) {
	cfg := a.cfg

	db := store.New(store.Options{
		Dir:        cfg.Storage.Dir,
		UsersFile:  cfg.Storage.UsersFile,
		GroupsFile: cfg.Storage.GroupsFile,
		RolesFile:  cfg.Storage.RolesFile,
		LinksFile:  cfg.Storage.LinksFile,
	})

	var localizer *loc.Localizer
	if cfg.Locale.File != "" {
		l, err := loc.Load(cfg.Locale.File)
		if err != nil {
			return coretelegram.RunOptions{}, fmt.Errorf("load locale: %w", err)
		}
		localizer = l
	}

	return coretelegram.RunOptions{
		Config: cfg,
		Setup: func(bot *tele.Bot) ([]coretelegram.Middleware, []coretelegram.Route, error) {
			dispatcher := dialog.New(dialog.Options{
				Store:       db,
				Messenger:   coretelegram.NewMessenger(bot),
				Localizer:   localizer,
				RedrawDelay: time.Duration(cfg.Telegram.MenuRedrawDelayMS) * time.Millisecond,
			})

			middlewares := []coretelegram.Middleware{
				{Name: "recover", Use: middleware.RecoverMiddleware},
				{Name: "logging", Use: middleware.LoggerMiddleware},
			}
			if cfg.RateLimit.IntervalMS > 0 {
				exclude := make(map[string]struct{}, len(cfg.RateLimit.ExcludeUpdates))
				for _, kind := range cfg.RateLimit.ExcludeUpdates {
					exclude[kind] = struct{}{}
				}
				middlewares = append(middlewares, coretelegram.Middleware{
					Name: "rate_limit",
					Use: middleware.RateLimitMiddleware(middleware.RateLimitOptions{
						Interval: time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond,
						Exclude:  exclude,
					}),
				})
			}
			middlewares = append(middlewares, coretelegram.Middleware{
				Name: "errors",
				Use:  middleware.ErrorBoundary(localizer.Text("Error, start again")),
			})

			routes := coretelegram.BindRoutes(coretelegram.BindOptions{Dispatcher: dispatcher})
			return middlewares, routes, nil
		},
	}, nil
}

func main() {
	err := cmd.Run(cmd.Options{
		ConfigEnvVar:      "CONFIG_PATH",
		DefaultConfigPath: "config.yaml",
		LoadConfig: func(path string) (cmd.ConfigCarrier, error) {
			cfg, err := coreconfig.Load(path)
			if err != nil {
				return nil, err
			}
			return &app{cfg: cfg}, nil
		},
		Bootstrap: func(carrier cmd.ConfigCarrier) (cmd.TelegramApp, error) {
			a, ok := carrier.(*app)
			if !ok {
				return nil, fmt.Errorf("unexpected config carrier %T", carrier)
			}
			if err := logger.InitLogger(a.cfg); err != nil {
				return nil, err
			}
			return a, nil
		},
	})
	if err != nil {
		log.Printf("fatal: %v", err)
		os.Exit(1)
	}
}
