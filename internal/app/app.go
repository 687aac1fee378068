package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Abdurahmanit/GroupProject/cart-store/internal/adapter/kv"
	"github.com/Abdurahmanit/GroupProject/cart-store/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/cart-store/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/cart-store/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/cart-store/internal/platform/tracer"
	"github.com/Abdurahmanit/GroupProject/cart-store/internal/repository"
	"github.com/Abdurahmanit/GroupProject/cart-store/internal/service"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	cfg           *config.Config
	log           logger.Logger
	kvStore       repository.KVStore
	cartStore     *service.CartStore
	metrics       *metrics.Metrics
	metricsServer *http.Server
	tp            *sdktrace.TracerProvider
}

func New(cfg *config.Config) (*App, error) {
	logCfg := logger.ZapLoggerConfig{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	}
	appLogger, err := logger.NewZapLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Info("Logger initialized")
	appLogger.Infof("Configuration loaded: Env=%s, Storage=%s, Key=%s", cfg.Env, cfg.Storage.Driver, cfg.Storage.Key)

	return newWithLogger(context.Background(), cfg, appLogger)
}

func newWithLogger(ctx context.Context, cfg *config.Config, appLogger logger.Logger) (*App, error) {
	tp := tracer.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.OTLPEndpoint, appLogger)

	kvStore, err := newKVStore(ctx, cfg.Storage, appLogger.With("driver", cfg.Storage.Driver))
	if err != nil {
		appLogger.Errorf("Failed to initialize storage: %v", err)
		_ = tp.Shutdown(ctx)
		return nil, err
	}
	appLogger.Infof("%s storage initialized successfully", cfg.Storage.Driver)

	cartRepo := kv.NewCartRepository(kvStore, cfg.Storage.Key)
	appLogger.Info("CartRepository initialized")

	m := metrics.New(cfg.Metrics.Namespace)
	var metricsServer *http.Server
	if cfg.Metrics.Port != "" {
		metricsServer = metrics.NewServer(cfg.Metrics.Port, m.Registry)
	}

	cartStore := service.NewCartStore(cartRepo, appLogger.With("component", "cart_store", "key", cfg.Storage.Key),
		service.WithMetrics(m),
		service.WithWriteTimeout(cfg.Storage.WriteTimeout),
		service.WithTracer(tp.Tracer("cart-store/service")),
	)
	appLogger.Info("CartStore created")

	return &App{
		cfg:           cfg,
		log:           appLogger,
		kvStore:       kvStore,
		cartStore:     cartStore,
		metrics:       m,
		metricsServer: metricsServer,
		tp:            tp,
	}, nil
}

// CartStore exposes the application's single cart provider.
func (a *App) CartStore() *service.CartStore {
	return a.cartStore
}

// Start loads the persisted cart and starts the metrics endpoint, if any.
func (a *App) Start(ctx context.Context) {
	a.cartStore.Initialize(ctx)
	a.log.Infof("Cart ready: %d lines, total %s", a.cartStore.Cart().Len(), a.cartStore.Cart().Total().StringFixed(2))

	if a.metricsServer != nil {
		go func() {
			a.log.Infof("Metrics server listening on %s", a.metricsServer.Addr)
			if err := a.metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Errorf("Metrics server failed: %v", err)
			}
		}()
	}
}

func (a *App) Run() {
	a.log.Info("Starting application components...")
	a.Start(context.Background())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.Shutdown(shutdownCtx); err != nil {
		a.log.Errorf("Application shut down with errors: %v", err)
		return
	}
	a.log.Info("Application shut down successfully")
}

// Shutdown flushes the cart, then releases the metrics server, the storage
// backend and the tracer provider in that order.
func (a *App) Shutdown(ctx context.Context) error {
	var errs []error

	if err := a.cartStore.Close(ctx); err != nil {
		a.log.Errorf("Error flushing cart on shutdown: %v", err)
		errs = append(errs, err)
	} else {
		a.log.Info("Cart flushed successfully")
	}

	if a.metricsServer != nil {
		if err := a.metricsServer.Shutdown(ctx); err != nil {
			a.log.Errorf("Error stopping metrics server: %v", err)
			errs = append(errs, err)
		}
	}

	if err := a.kvStore.Close(); err != nil {
		a.log.Errorf("Error closing storage: %v", err)
		errs = append(errs, err)
	} else {
		a.log.Info("Storage closed successfully")
	}

	if err := a.tp.Shutdown(ctx); err != nil {
		a.log.Errorf("Error shutting down tracer provider: %v", err)
		errs = append(errs, err)
	}

	_ = a.log.Sync()
	return errors.Join(errs...)
}
