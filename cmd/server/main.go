package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bugasmarcondes/taskade-backend/internal/auth"
	"github.com/bugasmarcondes/taskade-backend/internal/config"
	"github.com/bugasmarcondes/taskade-backend/internal/server"
	"github.com/bugasmarcondes/taskade-backend/internal/service"
	"github.com/bugasmarcondes/taskade-backend/internal/store"
)

func main() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           log.InfoLevel,
		ReportTimestamp: true,
		Prefix:          "taskade",
	})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("configuration", "err", err)
	}

	st, err := store.Open(context.Background(), cfg.MongoURI, cfg.DBName)
	if err != nil {
		logger.Fatal("mongo", "err", err)
	}
	logger.Info("connected to MongoDB", "db", cfg.DBName)

	tokens := auth.NewTokenService(cfg.TokenSecret)
	svc := service.New(tokens)
	resolver := &service.IdentityResolver{Store: st, Tokens: tokens}
	srv := server.New(svc, resolver, st, logger)

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Handler(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", "port", cfg.Port)
		errCh <- httpServer.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", "err", err)
		}
	case sig := <-stop:
		logger.Info("shutting down", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("shutdown", "err", err)
	}
	if err := st.Close(ctx); err != nil {
		logger.Error("mongo disconnect", "err", err)
	}
}
