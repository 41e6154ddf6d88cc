package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"syscall"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/tylerpac/solace-client/authapi"
	"github.com/tylerpac/solace-client/internal/config"
	"github.com/tylerpac/solace-client/protected"
	"github.com/tylerpac/solace-client/session"
	"github.com/tylerpac/solace-client/shop"
	"github.com/tylerpac/solace-client/view"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("error running client")
	}
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Any("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	if err := os.MkdirAll(c.GetDataFolder(), 0o755); err != nil {
		return fmt.Errorf("create data folder: %w", err)
	}

	repo, err := session.NewSQLiteRepository(filepath.Join(c.GetDataFolder(), "session.db"))
	if err != nil {
		return fmt.Errorf("open session repository: %w", err)
	}
	defer func() { _ = repo.Close() }()

	store, err := session.NewStore(repo)
	if err != nil {
		return fmt.Errorf("load session store: %w", err)
	}
	store.StartWatcher()
	defer store.Stop()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	baseURL := c.GetAPIBaseURL()
	authorized := session.NewTokenSource(store).Client(ctx)

	router, err := view.NewRouter(view.Deps{
		Store:     store,
		Auth:      authapi.NewGateway(baseURL, nil),
		Shop:      shop.NewController(baseURL, store, authorized),
		Protected: protected.NewClient(baseURL, authorized),
	})
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	go router.Watch(ctx)

	// A pasted verification link or checkout-return URL can be handed over
	// as the first argument; it is consumed exactly once here.
	if len(os.Args) > 1 {
		rewritten := router.Startup(ctx, os.Args[1])
		log.Debug().Str("url", rewritten).Msg("startup url consumed")
	}

	return newTerminal(router, store).loop(ctx)
}

func setupLogging(c config.Config) {
	level, err := zerolog.ParseLevel(c.GetLogLevel())
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
