package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	cataloghttp "github.com/Apurer/breakfast-erp/internal/domains/catalog/adapters/http"
	catalogapp "github.com/Apurer/breakfast-erp/internal/domains/catalog/application"
	inventoryhttp "github.com/Apurer/breakfast-erp/internal/domains/inventory/adapters/http"
	inventoryapp "github.com/Apurer/breakfast-erp/internal/domains/inventory/application"
	ordershttp "github.com/Apurer/breakfast-erp/internal/domains/orders/adapters/http"
	ordersobs "github.com/Apurer/breakfast-erp/internal/domains/orders/adapters/observability"
	ordersapp "github.com/Apurer/breakfast-erp/internal/domains/orders/application"
	paymentshttp "github.com/Apurer/breakfast-erp/internal/domains/payments/adapters/http"
	paymentsapp "github.com/Apurer/breakfast-erp/internal/domains/payments/application"
	"github.com/Apurer/breakfast-erp/internal/platform/dispatch"
	"github.com/Apurer/breakfast-erp/internal/platform/eventbus"
	"github.com/Apurer/breakfast-erp/internal/platform/migrations"
	platformobservability "github.com/Apurer/breakfast-erp/internal/platform/observability"
	platformpostgres "github.com/Apurer/breakfast-erp/internal/platform/postgres"
)

const serviceName = "breakfast-erp-api"

// Run boots the HTTP API and blocks until ctx is cancelled or the server
// fails. Shutdown stops the HTTP server first, then drains the dispatch pool.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName, cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	db, closeDB := platformpostgres.Open(ctx, cfg.PostgresDSN, logger)
	defer closeDB()
	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	app := newApplication(db, cfg.EventPool, logger, instruments)
	server := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           app.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("breakfast ERP API listening", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		httpCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
		defer cancel()
		httpErr := server.Shutdown(httpCtx)
		if httpErr != nil {
			logger.Error("http server shutdown failed", slog.String("error", httpErr.Error()))
		}
		poolErr := app.pool.Shutdown(context.Background())
		return errors.Join(httpErr, poolErr)
	})
	return g.Wait()
}

// application is the wired router plus the pool its listeners run on.
type application struct {
	router *gin.Engine
	pool   *dispatch.Pool
}

func newApplication(db *gorm.DB, poolCfg dispatch.Config, logger *slog.Logger, instruments *platformobservability.Instruments) *application {
	repos := newRepositories(db)

	pool := dispatch.New(poolCfg,
		dispatch.WithLogger(logger),
		dispatch.WithMeter(instruments.Meter("internal.platform.dispatch")),
	)
	bus := eventbus.New(pool,
		eventbus.WithLogger(logger),
		eventbus.WithTracer(instruments.Tracer("internal.platform.eventbus")),
		eventbus.WithMeter(instruments.Meter("internal.platform.eventbus")),
		eventbus.WithTxRunner(repos.tx),
	)

	lookup := catalogLookup{products: repos.products}
	catalogService := catalogapp.NewService(repos.categories, repos.products, repos.combos, bus)
	inventoryService := inventoryapp.NewService(repos.materials, repos.recipes, lookup, bus)
	orderService := ordersobs.New(
		ordersapp.NewService(repos.orders, lookup, bus, ordersapp.WithIdempotencyStore(repos.orderKeys)),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	paymentService := paymentsapp.NewService(repos.payments, bus)

	catalogapp.NewListeners(repos.products, repos.combos, repos.combos, logger).Register(bus)
	inventoryapp.NewListeners(repos.recipes, logger).Register(bus)
	ordersapp.NewListeners(repos.orders, logger).Register(bus)
	paymentsapp.NewListeners(repos.payments, logger).Register(bus)

	router := NewRouter(serviceName, logger,
		cataloghttp.NewHandler(catalogService, cataloghttp.WithLogger(logger)),
		inventoryhttp.NewHandler(inventoryService, inventoryhttp.WithLogger(logger)),
		ordershttp.NewHandler(orderService, ordershttp.WithLogger(logger)),
		paymentshttp.NewHandler(paymentService, paymentshttp.WithLogger(logger)),
	)
	return &application{router: router, pool: pool}
}
