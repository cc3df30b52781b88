package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/facturacion/internal/config"
	"github.com/MrJamesThe3rd/facturacion/internal/database"
	facturacionHttp "github.com/MrJamesThe3rd/facturacion/internal/http"
	pacHandler "github.com/MrJamesThe3rd/facturacion/internal/http/pac"
	"github.com/MrJamesThe3rd/facturacion/internal/pac"
	"github.com/MrJamesThe3rd/facturacion/internal/pac/callback"
	pacStore "github.com/MrJamesThe3rd/facturacion/internal/pac/store"
)

const shutdownTimeout = 15 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.PACConnectionString(), database.SchemaPAC)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		store    = pacStore.New(db, cfg.Outbox.MaxAttempts)
		service  = pac.NewService(store, pac.NewPolicy(nil))
		notifier = callback.New(cfg.Backend.BaseURL, cfg.Backend.CallbackTimeout)
		outbox   = cfg.Backend.Delivery == config.DeliveryOutbox
	)

	reconciler := pac.NewReconciler(store, pac.NewRandomOracle(cfg.Reconcile.ApprovalRate), notifier, pac.ReconcilerConfig{
		Interval:  cfg.Reconcile.Interval,
		BatchSize: cfg.Reconcile.BatchSize,
		Outbox:    outbox,
	})
	reconciler.Start(ctx)

	var dispatcher *pac.Dispatcher
	if outbox {
		dispatcher = pac.NewDispatcher(store, notifier, pac.DispatcherConfig{
			PollInterval: cfg.Outbox.PollInterval,
			BatchSize:    cfg.Reconcile.BatchSize,
		})
		dispatcher.Start(ctx)
	}

	router := facturacionHttp.NewPAC(pacHandler.NewHandler(service), cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.PACPort),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		slog.Info("starting pac server", "port", srv.Addr, "callback_delivery", cfg.Backend.Delivery)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down pac server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}

	if err := reconciler.Stop(shutdownCtx); err != nil {
		slog.Error("reconciler shutdown failed", "error", err)
	}

	if dispatcher != nil {
		if err := dispatcher.Stop(shutdownCtx); err != nil {
			slog.Error("dispatcher shutdown failed", "error", err)
		}
	}
}
