package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog/log"

	"github.com/fiberdirekt/bankid-auth/bankid"
	"github.com/fiberdirekt/bankid-auth/bankid/initiation"
	"github.com/fiberdirekt/bankid-auth/internal/config"
	interrors "github.com/fiberdirekt/bankid-auth/internal/errors"
	"github.com/fiberdirekt/bankid-auth/server"
	"github.com/fiberdirekt/bankid-auth/sessions"
	"github.com/fiberdirekt/bankid-auth/token"
)

func main() {
	if err := run(); err != nil {
		log.Fatal().Err(err).Msg("error running server")
	}
	log.Info().Msg("server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	store, err := buildSessionStore(c)
	if err != nil {
		return fmt.Errorf("session store: %w", err)
	}

	tracker := initiation.New()
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	defer stopSweep()
	go tracker.Run(sweepCtx)

	provider, err := bankid.NewRPClient(c.GetBankIDBaseURL(),
		bankid.WithHTTPClient(&http.Client{Timeout: c.GetBankIDTimeout()}))
	if err != nil {
		return fmt.Errorf("provider client: %w", err)
	}

	authService, err := bankid.NewService(bankid.Deps{
		Store:    store,
		Provider: provider,
		Tracker:  tracker,
	})
	if err != nil {
		return fmt.Errorf("auth service: %w", err)
	}

	srv, err := server.New(c, authService, store)
	if err != nil {
		return fmt.Errorf("server: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

// buildSessionStore wires exactly one session store strategy, selected by
// configuration. The cookie strategy needs a valid signing secret; refusing
// to start on a weak secret beats serving with one.
func buildSessionStore(c config.Config) (sessions.Store, error) {
	switch strategy := c.GetSessionStoreStrategy(); strategy {
	case config.StoreStrategyCookie:
		secret := c.GetSessionSecret()
		if secret == "" {
			return nil, interrors.ErrMissingSecret
		}
		codec, err := token.NewCodec(secret)
		if err != nil {
			return nil, err
		}
		return sessions.NewCookieStore(codec, c.GetSessionLifetime())
	case config.StoreStrategyMemory:
		return sessions.NewMemoryStore(c.GetSessionLifetime()), nil
	case config.StoreStrategyRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     c.GetRedisAddress(),
			Password: c.GetRedisPassword(),
		})
		return sessions.NewRedisStore(client, c.GetSessionLifetime())
	default:
		return nil, interrors.Wrapf(interrors.ErrInvalidStrategy, "%q", strategy)
	}
}

func listenAndServe(server *http.Server) {
	log.Info().Str("addr", server.Addr).Msg("server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
