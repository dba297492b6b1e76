package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fsanano/storefront/internal/config"
	"fsanano/storefront/internal/currency"
	"fsanano/storefront/internal/handler"
	"fsanano/storefront/internal/notify"
	"fsanano/storefront/internal/repository"
	"fsanano/storefront/internal/service"
	"fsanano/storefront/internal/service/payment"
	"fsanano/storefront/internal/service/storeapi"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

func main() {
	// The API expects prices as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fatal("failed to load config", err)
	}

	// 2. Setup token storage
	ctx := context.Background()
	tokens, closeTokens, err := openTokenStore(ctx, cfg)
	if err != nil {
		fatal("failed to open token store", err)
	}
	defer closeTokens()

	// 3. Setup Logic
	table := currency.DefaultTable()
	if cfg.CurrencyFile != "" {
		if table, err = currency.LoadFile(cfg.CurrencyFile); err != nil {
			fatal("failed to load currency table", err)
		}
	}

	client := storeapi.NewClient(storeapi.Config{
		APIURL:  cfg.API.URL,
		Timeout: cfg.API.Timeout,
	}, tokens)

	gateway := &payment.IntentGateway{
		API:  client,
		Next: payment.NewMockGateway(cfg.Payment.Delay, cfg.Payment.SuccessRate, nil),
	}

	sf := service.NewStorefront(client, tokens, gateway)
	if err := sf.Start(ctx); err != nil {
		// The views stay usable; the catalog is fetched again on demand.
		slog.Error("failed to load storefront", "error", err)
	}

	toaster := notify.NewToaster(cfg.ToastTTL)
	h := handler.NewHandler(sf, currency.NewConverter(table), toaster)

	// 4. Setup Server
	server := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: h,
	}

	// 5. Run Server with Graceful Shutdown
	go func() {
		slog.Info("starting server", "port", cfg.ServerPort, "api", cfg.API.URL)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server failed", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 2)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("shutting down server")

	// Create a deadline to wait for.
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		fatal("server forced to shutdown", err)
	}

	slog.Info("server exiting")
}

func openTokenStore(ctx context.Context, cfg *config.Config) (repository.TokenStore, func(), error) {
	switch cfg.Tokens.Store {
	case config.TokenStoreMemory:
		return repository.NewMemoryTokenStore(), func() {}, nil
	case config.TokenStorePostgres:
		pool, err := pgxpool.New(ctx, cfg.Tokens.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		repo := repository.NewPostgresTokenRepository(pool)
		if err := repo.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		slog.Info("connected to database")
		return repo, pool.Close, nil
	}
	return repository.NewFileTokenStore(cfg.Tokens.File), func() {}, nil
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
