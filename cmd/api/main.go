package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"cloud.google.com/go/firestore"
	"github.com/joho/godotenv"

	"github.com/khatapp/khata/internal/config"
	khataHttp "github.com/khatapp/khata/internal/http"
	authHandler "github.com/khatapp/khata/internal/http/auth"
	backupHandler "github.com/khatapp/khata/internal/http/backup"
	customerHandler "github.com/khatapp/khata/internal/http/customer"
	reportHandler "github.com/khatapp/khata/internal/http/report"
	txHandler "github.com/khatapp/khata/internal/http/transaction"
	"github.com/khatapp/khata/internal/identity"
	"github.com/khatapp/khata/internal/localstore"
	"github.com/khatapp/khata/internal/remote"
	"github.com/khatapp/khata/internal/session"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	local, err := localstore.New(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening local store: %w", err)
	}

	var (
		remoteStore session.RemoteStore
		identitySvc identity.Service
	)

	if cfg.CloudEnabled() {
		client, err := firestore.NewClient(ctx, cfg.Firebase.ProjectID)
		if err != nil {
			return fmt.Errorf("connecting to firestore: %w", err)
		}
		defer client.Close()

		remoteStore = remote.New(client)
		identitySvc = identity.NewFirebase(cfg.Firebase.APIKey)
	} else {
		slog.Warn("firebase not configured, running anonymous-only")
	}

	svc := session.New(local, remoteStore, identitySvc)
	svc.Start(ctx)
	defer svc.Close()

	router := khataHttp.New(
		authHandler.NewHandler(svc),
		customerHandler.NewHandler(svc),
		txHandler.NewHandler(svc),
		reportHandler.NewHandler(svc),
		backupHandler.NewHandler(svc),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "addr", server.Addr, "cloud", cfg.CloudEnabled())

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}
