package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ildarkit/hw3/internal/config"
	"github.com/ildarkit/hw3/internal/logging"
	"github.com/ildarkit/hw3/internal/method"
	"github.com/ildarkit/hw3/internal/server"
	"github.com/ildarkit/hw3/internal/store"
)

func main() {
	port := flag.Int("port", 0, "listen port (overrides SERVER_PORT)")
	logFile := flag.String("log", "", "log file path (overrides LOG_FILE)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.HTTP.Port = *port
	}
	if *logFile != "" {
		cfg.Logging.File = *logFile
	}

	logger, logCloser, err := logging.New(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to set up logging: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	}()

	st := store.NewRedisStore(store.Options{
		Addr:          cfg.Store.Addr,
		Password:      cfg.Store.Password,
		DB:            cfg.Store.DB,
		DialTimeout:   cfg.Store.DialTimeout,
		ReadTimeout:   cfg.Store.ReadTimeout,
		WriteTimeout:  cfg.Store.WriteTimeout,
		RetryAttempts: cfg.Store.RetryAttempts,
		RetryDelay:    cfg.Store.RetryDelay,
	}, logger)
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("closing store failed", "error", err)
		}
	}()

	auth := method.NewAuthenticator(cfg.Auth.Salt, cfg.Auth.AdminSalt)
	dispatcher := method.NewDispatcher(st, auth, logger)
	apiHandlers := server.NewAPIHandlers(logger, dispatcher)

	router := server.NewRouter(logger, server.RouterDependencies{
		Health: server.StoreHealthService{Store: st},
		API:    apiHandlers,
	})

	srv := server.New(logger, cfg.HTTP, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("received shutdown signal", "signal", sig.String())
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("server stopped unexpectedly", "error", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}
