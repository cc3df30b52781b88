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
	"github.com/MrJamesThe3rd/facturacion/internal/http/cancelacion"
	"github.com/MrJamesThe3rd/facturacion/internal/invoice"
	invoiceStore "github.com/MrJamesThe3rd/facturacion/internal/invoice/store"
	"github.com/MrJamesThe3rd/facturacion/internal/pacclient"
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

	db, err := database.Open(ctx, cfg.ConnectionString(), database.SchemaFacturacion)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		pacClient      = pacclient.New(cfg.PAC.BaseURL, cfg.PAC.Timeout)
		invoiceService = invoice.NewService(invoiceStore.New(db), pacClient, nil)
	)

	router := facturacionHttp.NewInvoices(cancelacion.NewHandler(invoiceService), cfg.Server.CORSOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		slog.Info("starting server", "port", srv.Addr, "pac_base_url", cfg.PAC.BaseURL)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
}
